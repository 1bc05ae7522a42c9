package main

import (
	"bufio"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

type Config struct {
	Route           RouteConfig
	CellWidth       float64
	CellHeight      float64
	ExportDirectory string
	Confirmations   bool
}

func defaultConfig() *Config {
	return &Config{
		Route:         DefaultRouteConfig(),
		CellWidth:     defaultCellWidth,
		CellHeight:    defaultCellHeight,
		Confirmations: true,
	}
}

func loadConfig() *Config {
	config := defaultConfig()

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return config
	}

	configPath := filepath.Join(homeDir, ".wiringrc")
	file, err := os.Open(configPath)
	if err != nil {
		return config
	}
	defer file.Close()

	config.parse(file, homeDir)
	return config
}

// parse reads key=value lines over the current settings. Unknown keys and bad numbers are skipped.
func (c *Config) parse(r io.Reader, homeDir string) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		switch strings.ToLower(key) {
		case "min_length", "minlength":
			setLength(&c.Route.MinLength, key, value)
		case "endpoint_width", "endpointwidth":
			setLength(&c.Route.EndpointWidth, key, value)
		case "grid_size", "gridsize", "grid":
			setLength(&c.Route.GridSize, key, value)
		case "view_min_x", "viewminx":
			setLength(&c.Route.ViewMinX, key, value)
		case "cell_width", "cellwidth":
			setLength(&c.CellWidth, key, value)
		case "cell_height", "cellheight":
			setLength(&c.CellHeight, key, value)
		case "export_directory", "exportdirectory", "exportdir":
			if strings.HasPrefix(value, "~") {
				value = filepath.Join(homeDir, strings.TrimPrefix(value, "~"))
			}
			if !filepath.IsAbs(value) {
				if absPath, err := filepath.Abs(value); err == nil {
					value = absPath
				}
			}
			c.ExportDirectory = value
		case "confirmations", "confirm":
			c.Confirmations = strings.ToLower(value) == "true"
		}
	}
}

func setLength(dst *float64, key, value string) {
	v, err := strconv.ParseFloat(value, 64)
	if err != nil || v < 0 {
		log.Printf("config: ignoring %s=%q", key, value)
		return
	}
	*dst = v
}

func (c *Config) GetExportPath(filename string) string {
	if c.ExportDirectory == "" {
		return filename
	}
	os.MkdirAll(c.ExportDirectory, 0755)
	return filepath.Join(c.ExportDirectory, filename)
}
