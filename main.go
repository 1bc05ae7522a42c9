package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

func main() {
	pngPath := flag.String("png", "", "write the demo diagram to this PNG file and exit")
	flag.Parse()

	if path := os.Getenv("WIRING_DEBUG"); path != "" {
		f, err := tea.LogToFile(path, "wiring")
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		defer f.Close()
	} else {
		log.SetOutput(io.Discard)
	}

	m := initialModel(loadConfig())

	if *pngPath != "" {
		if err := m.getCanvas().ExportToPNG(*pngPath); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	if _, err := p.Run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func initialModel(config *Config) model {
	router := NewRouter(config.Route)
	m := model{
		config: config,
		router: router,
		mode:   ModeNormal,
	}
	m.addNewBuffer(demoCanvas(router), "demo")
	m.getCanvas().MarkClean()
	return m
}

var (
	uartKind = EndpointKind{DataType: "uart"}
	irqKind  = EndpointKind{DataType: "irq"}
	busKind  = EndpointKind{DataType: "bus"}
	dataKind = EndpointKind{DataType: "data"}
)

func inbound(kind EndpointKind) EndpointKind {
	kind.Flow = FlowIn
	return kind
}

func outbound(kind EndpointKind) EndpointKind {
	kind.Flow = FlowOut
	return kind
}

func demoCanvas(r *Router) *Canvas {
	canvas := NewCanvas(r)

	cpu := NewBlock("cpu", V(20, 20), V(100, 80))
	tx := cpu.AddEndpoint("tx", V(100, 20), DirRight, outbound(uartKind))
	cpu.AddEndpoint("mem", V(100, 40), DirRight, outbound(busKind))
	irq := cpu.AddEndpoint("irq", V(100, 60), DirRight, inbound(irqKind))

	uart := NewBlock("uart", V(260, 20), V(100, 60))
	rx := uart.AddEndpoint("rx", V(0, 20), DirLeft, inbound(uartKind))
	uart.AddEndpoint("bus", V(0, 40), DirLeft, inbound(busKind))

	timer := NewBlock("timer", V(260, 140), V(100, 60))
	tick := timer.AddEndpoint("tick", V(0, 20), DirLeft, outbound(irqKind))

	for _, b := range []*Block{cpu, uart, timer} {
		canvas.AddBlock(b)
	}
	for _, pair := range [][2]*Endpoint{{tx, rx}, {tick, irq}} {
		if _, _, err := canvas.Connect(pair[0], pair[1]); err != nil {
			log.Printf("demo: %v", err)
		}
	}
	return canvas
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.MouseMsg:
		return m.handleMouse(msg)
	case tea.KeyMsg:
		return m.handleKey(msg.String())
	}
	return m, nil
}

func (m model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.help || m.mode == ModeConfirm {
		return m, nil
	}

	m.cursorX, m.cursorY = msg.X, msg.Y
	p := m.sceneAt(msg.X, msg.Y)

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button == tea.MouseButtonLeft {
			m.press(p, msg.Alt)
		}
	case tea.MouseActionMotion:
		m.drag(p)
	case tea.MouseActionRelease:
		m.release(p)
	}
	return m, nil
}

func (m *model) press(p Vec, alt bool) {
	canvas := m.getCanvas()
	tolerance := m.hitTolerance()
	m.errorMessage = ""
	m.successMessage = ""

	if ep := canvas.EndpointAt(p, tolerance); ep != nil {
		if alt {
			m.dragEndpoint = ep
			ep.BeginMove()
			m.mode = ModeDragEndpoint
			return
		}
		m.wireFrom = ep
		m.wire = nil
		m.mode = ModeDrawWire
		return
	}

	if conn := canvas.ConnectionAt(p, tolerance); conn != nil {
		m.selected = conn
		m.selectedBlock = nil
		conn.Press(closestOnRoute(conn.Route(), p))
		if kind, _ := conn.Selection(); kind != SelectNone {
			m.dragConn = conn
			m.mode = ModeDragSegment
		}
		return
	}

	if b := canvas.BlockAt(p); b != nil {
		m.selectedBlock = b
		m.selected = nil
		m.dragBlock = b
		m.dragOffset = p.Sub(b.Pos)
		b.BeginMove()
		m.mode = ModeDragBlock
		return
	}

	m.selected = nil
	m.selectedBlock = nil
}

func (m *model) drag(p Vec) {
	switch m.mode {
	case ModeDragSegment:
		m.dragConn.Drag(p)
	case ModeDragBlock:
		m.dragBlock.SetPos(m.router.Snap(p.Sub(m.dragOffset)))
	case ModeDragEndpoint:
		m.dragEndpoint.SetPos(m.slideAlongEdge(m.dragEndpoint, p))
	case ModeDrawWire:
		m.wire = m.previewWire(p)
	}
}

// slideAlongEdge keeps a dragged endpoint on its block edge.
func (m *model) slideAlongEdge(ep *Endpoint, p Vec) Vec {
	pos := V(ep.Pos().X, m.router.Snap(p).Y)
	if b := ep.Block(); b != nil {
		grid := m.router.Config().GridSize
		if pos.Y < b.Pos.Y+grid {
			pos.Y = b.Pos.Y + grid
		}
		if pos.Y > b.Pos.Y+b.Size.Y-grid {
			pos.Y = b.Pos.Y + b.Size.Y - grid
		}
	}
	return pos
}

func (m *model) release(p Vec) {
	canvas := m.getCanvas()

	switch m.mode {
	case ModeDragSegment:
		if action, ok := canvas.ReleaseConnection(m.dragConn); ok {
			m.recordAction(action)
		}
	case ModeDragBlock:
		if action, ok := m.dragBlock.EndMove(); ok {
			m.recordAction(action)
		}
	case ModeDragEndpoint:
		if action, ok := m.dragEndpoint.EndMove(); ok {
			m.recordAction(action)
		}
	case ModeDrawWire:
		m.finishWire(p)
	}

	m.mode = ModeNormal
	m.dragConn = nil
	m.dragBlock = nil
	m.dragEndpoint = nil
	m.wireFrom = nil
	m.wire = nil
}

// finishGesture ends a drag that is still in progress at the last known pointer cell.
func (m *model) finishGesture() {
	switch m.mode {
	case ModeDragSegment, ModeDragBlock, ModeDragEndpoint, ModeDrawWire:
		m.release(m.sceneAt(m.cursorX, m.cursorY))
	}
}

// previewWire routes a free wire from the endpoint being wired to p, or to the endpoint under p.
func (m *model) previewWire(p Vec) *Connection {
	from := m.wireFrom
	to := m.router.Snap(p)
	dir2 := DirLeft.Vector()
	if to.X < from.Pos().X {
		dir2 = DirRight.Vector()
	}
	if target := m.getCanvas().EndpointAt(p, m.hitTolerance()); target != nil && target != from {
		to = target.Pos()
		dir2 = target.DirectionVector()
	}
	return NewFreeConnection(m.router, from.Pos(), from.DirectionVector(), to, dir2)
}

func (m *model) finishWire(p Vec) {
	canvas := m.getCanvas()
	from := m.wireFrom

	if target := canvas.EndpointAt(p, m.hitTolerance()); target != nil {
		if target == from {
			return
		}
		conn, action, err := canvas.Connect(from, target)
		if err != nil {
			m.errorMessage = fmt.Sprintf("Cannot connect %s to %s", from.FullName(), target.FullName())
			return
		}
		m.recordAction(action)
		m.selected = conn
		m.successMessage = "Connected " + conn.Name()
		return
	}

	wire := m.previewWire(p)
	route := wire.Route()
	if route[0].Equal(route[len(route)-1]) {
		return
	}
	m.recordAction(canvas.AddWire(wire))
	m.selected = wire
	if wire.IsBound() {
		m.successMessage = "Connected " + wire.Name()
	} else {
		m.successMessage = "Dangling wire added"
	}
}

func (m model) handleKey(key string) (tea.Model, tea.Cmd) {
	if m.mode == ModeConfirm {
		return m.handleConfirm(key)
	}
	if m.help {
		if key == "?" || key == "esc" || key == "q" {
			m.help = false
		}
		return m, nil
	}

	m.errorMessage = ""
	m.successMessage = ""

	switch key {
	case "ctrl+c", "q":
		if m.config.Confirmations && m.anyDirty() {
			m.confirm(ConfirmQuit)
			return m, nil
		}
		return m, tea.Quit
	case "?":
		m.help = true
	case "esc":
		m.finishGesture()
		m.selected = nil
		m.selectedBlock = nil
	case "u":
		m.finishGesture()
		m.undo()
	case "ctrl+r":
		m.finishGesture()
		m.redo()
	case "r":
		m.rerouteSelected()
	case "x", "delete":
		switch {
		case m.selected != nil:
			m.confirmOrRun(ConfirmDeleteConnection)
		case m.selectedBlock != nil:
			m.confirmOrRun(ConfirmDeleteBlock)
		}
	case "b":
		m.addBlockAtCursor()
	case "y":
		if m.selected == nil {
			m.errorMessage = "No wire selected"
			break
		}
		if err := yankRoute(m.selected); err != nil {
			m.errorMessage = "Clipboard: " + err.Error()
			break
		}
		m.successMessage = "Route copied"
	case "p":
		path := m.config.GetExportPath(m.getCurrentBuffer().filename + ".png")
		if err := m.getCanvas().ExportToPNG(path); err != nil {
			m.errorMessage = "Export failed: " + err.Error()
			break
		}
		m.successMessage = "Exported " + path
	case "t":
		path := m.config.GetExportPath(m.getCurrentBuffer().filename + ".txt")
		if err := m.exportVisualTXT(path); err != nil {
			m.errorMessage = "Export failed: " + err.Error()
			break
		}
		m.successMessage = "Exported " + path
	case "N":
		m.finishGesture()
		m.addNewBuffer(NewCanvas(m.router), fmt.Sprintf("diagram%d", len(m.buffers)+1))
	case "ctrl+w":
		if len(m.buffers) > 1 {
			m.confirmOrRun(ConfirmCloseBuffer)
		}
	case "{":
		m.switchBuffer(-1)
	case "}":
		m.switchBuffer(1)
	default:
		m.handleNavigation(key)
	}
	return m, nil
}

func (m *model) confirm(action ConfirmAction) {
	m.confirmAction = action
	m.mode = ModeConfirm
}

func (m *model) confirmOrRun(action ConfirmAction) {
	m.finishGesture()
	if m.config.Confirmations {
		m.confirm(action)
		return
	}
	m.runConfirmed(action)
}

func (m model) handleConfirm(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "y", "Y", "enter":
		m.mode = ModeNormal
		if m.confirmAction == ConfirmQuit {
			return m, tea.Quit
		}
		m.runConfirmed(m.confirmAction)
	case "n", "N", "esc":
		m.mode = ModeNormal
	}
	return m, nil
}

func (m *model) runConfirmed(action ConfirmAction) {
	canvas := m.getCanvas()
	switch action {
	case ConfirmDeleteConnection:
		if m.selected != nil {
			m.recordAction(canvas.DeleteConnection(m.selected))
			m.selected = nil
		}
	case ConfirmDeleteBlock:
		if m.selectedBlock != nil {
			m.recordAction(canvas.RemoveBlock(m.selectedBlock))
			m.selectedBlock = nil
		}
	case ConfirmCloseBuffer:
		m.buffers = append(m.buffers[:m.currentBufferIndex], m.buffers[m.currentBufferIndex+1:]...)
		if m.currentBufferIndex >= len(m.buffers) {
			m.currentBufferIndex = len(m.buffers) - 1
		}
		m.selected = nil
		m.selectedBlock = nil
	}
}

func (m *model) rerouteSelected() {
	conn := m.selected
	if conn == nil || !conn.IsBound() {
		m.errorMessage = "Select a connected wire to reroute"
		return
	}
	conn.BeginUpdatePosition()
	conn.Reroute()
	if action, ok := conn.EndUpdatePosition(); ok {
		m.recordAction(action)
	}
}

func (m *model) addBlockAtCursor() {
	m.blockCount++
	name := fmt.Sprintf("blk%d", m.blockCount)
	b := NewBlock(name, m.router.Snap(m.sceneAt(m.cursorX, m.cursorY)), V(80, 40))
	b.AddEndpoint("in", V(0, 20), DirLeft, inbound(dataKind))
	b.AddEndpoint("out", V(80, 20), DirRight, outbound(dataKind))

	m.getCanvas().AddBlock(b)
	m.recordAction(Action{Type: ActionAddBlock, Data: BlockData{Block: b}, Inverse: BlockData{Block: b}})
	m.selectedBlock = b
	m.selected = nil
}

func (m model) anyDirty() bool {
	for _, buf := range m.buffers {
		if buf.canvas.Dirty() {
			return true
		}
	}
	return false
}

var (
	modeStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("230")).Background(lipgloss.Color("62")).Padding(0, 1)
	bufferStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Padding(0, 1)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	confirmStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	helpStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("62")).Padding(1, 2)
)

func (m model) View() string {
	if m.help {
		return m.helpView()
	}

	height := m.height - 1
	if height < 1 {
		height = 1
	}
	width := m.width
	if width < 1 {
		width = 1
	}

	panX, panY := m.getPanOffset()
	lines := m.getCanvas().Render(width, height, panX, panY, m.config.CellWidth, m.config.CellHeight, m.selected, m.wire)
	return strings.Join(lines, "\n") + "\n" + m.statusLine()
}

func (m model) statusLine() string {
	buf := m.getCurrentBuffer()
	name := buf.filename
	if buf.canvas.Dirty() {
		name += "*"
	}

	parts := []string{
		modeStyle.Render(m.modeString()),
		bufferStyle.Render(fmt.Sprintf("[%d/%d] %s", m.currentBufferIndex+1, len(m.buffers), name)),
	}

	switch {
	case m.mode == ModeConfirm:
		parts = append(parts, confirmStyle.Render(m.confirmPrompt()))
	case m.errorMessage != "":
		parts = append(parts, errorStyle.Render(m.errorMessage))
	case m.successMessage != "":
		parts = append(parts, successStyle.Render(m.successMessage))
	case m.selected != nil && m.selected.Name() != "":
		parts = append(parts, m.selected.Name())
	case m.selectedBlock != nil:
		parts = append(parts, m.selectedBlock.Name)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m model) confirmPrompt() string {
	switch m.confirmAction {
	case ConfirmDeleteConnection:
		return "Delete wire? (y/n)"
	case ConfirmDeleteBlock:
		return "Delete block and its wires? (y/n)"
	case ConfirmQuit:
		return "Unsaved changes. Quit? (y/n)"
	case ConfirmCloseBuffer:
		return "Close diagram? (y/n)"
	}
	return ""
}

func (m model) modeString() string {
	switch m.mode {
	case ModeNormal:
		return "NORMAL"
	case ModeDragSegment:
		return "SEGMENT"
	case ModeDragBlock:
		return "MOVE"
	case ModeDragEndpoint:
		return "ENDPOINT"
	case ModeDrawWire:
		return "WIRE"
	case ModeConfirm:
		return "CONFIRM"
	default:
		return "UNKNOWN"
	}
}

func (m model) helpView() string {
	help := `wiring

Mouse
  drag from an endpoint     draw a wire (drop on an endpoint or leave it dangling)
  drag a wire segment       move the segment
  drag a dangling wire end  reattach it
  alt+drag an endpoint      slide it along its block
  drag a block              move the block with its wires

Keys
  u / ctrl+r   undo / redo
  r            reroute the selected wire
  x            delete the selected wire or block
  b            add a block at the cursor
  y            copy the selected route to the clipboard
  p / t        export PNG / text
  arrows hjkl  pan (shift for faster)
  N            new diagram
  { / }        previous / next diagram
  ctrl+w       close diagram
  ?            toggle help
  q            quit`
	return helpStyle.Render(help)
}
