package main

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestConfigDefaults(t *testing.T) {
	c := defaultConfig()
	if c.Route != DefaultRouteConfig() {
		t.Errorf("Route = %+v", c.Route)
	}
	if c.CellWidth != 5 || c.CellHeight != 10 {
		t.Errorf("cell = %vx%v, want 5x10", c.CellWidth, c.CellHeight)
	}
	if !c.Confirmations {
		t.Error("confirmations off by default")
	}
}

func TestConfigParse(t *testing.T) {
	input := `
# routing
min_length = 20
endpoint_width=60
grid = 5
view_min_x = 0
cell_width = 4
cellheight = 8
export_directory = ~/diagrams
confirmations = false
unknown_key = 3
no equals sign
`
	c := defaultConfig()
	c.parse(strings.NewReader(input), "/home/test")

	want := RouteConfig{MinLength: 20, EndpointWidth: 60, GridSize: 5, ViewMinX: 0}
	if c.Route != want {
		t.Errorf("Route = %+v, want %+v", c.Route, want)
	}
	if c.Route.MinStartLength() != 35 {
		t.Errorf("MinStartLength = %v, want 35", c.Route.MinStartLength())
	}
	if c.CellWidth != 4 || c.CellHeight != 8 {
		t.Errorf("cell = %vx%v, want 4x8", c.CellWidth, c.CellHeight)
	}
	if c.ExportDirectory != filepath.Join("/home/test", "diagrams") {
		t.Errorf("ExportDirectory = %q", c.ExportDirectory)
	}
	if c.Confirmations {
		t.Error("confirmations still on")
	}
}

func TestConfigParseRejectsBadLengths(t *testing.T) {
	c := defaultConfig()
	c.parse(strings.NewReader("min_length = ten\ngrid_size = -5\n"), "/home/test")

	if c.Route.MinLength != 10 || c.Route.GridSize != 10 {
		t.Errorf("bad values applied: %+v", c.Route)
	}
}

func TestGetExportPath(t *testing.T) {
	c := defaultConfig()
	if got := c.GetExportPath("demo.png"); got != "demo.png" {
		t.Errorf("GetExportPath = %q, want demo.png", got)
	}

	dir := filepath.Join(t.TempDir(), "out")
	c.ExportDirectory = dir
	if got := c.GetExportPath("demo.png"); got != filepath.Join(dir, "demo.png") {
		t.Errorf("GetExportPath = %q", got)
	}
}
