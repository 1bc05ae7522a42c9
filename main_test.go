package main

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func send(t *testing.T, m model, msg tea.Msg) model {
	t.Helper()
	updated, _ := m.Update(msg)
	next, ok := updated.(model)
	if !ok {
		t.Fatalf("Update returned %T", updated)
	}
	return next
}

func press(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
}

func motion(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft}
}

func release(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionRelease, Button: tea.MouseButtonNone}
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestDemoCanvas(t *testing.T) {
	m := initialModel(defaultConfig())
	canvas := m.getCanvas()

	if got := len(canvas.Blocks()); got != 3 {
		t.Errorf("blocks = %d, want 3", got)
	}
	conns := canvas.Connections()
	if len(conns) != 2 {
		t.Fatalf("wires = %d, want 2", len(conns))
	}
	for _, conn := range conns {
		if !conn.IsBound() {
			t.Errorf("demo wire %v is dangling", conn.Route())
		}
	}
	if want := []Vec{V(260, 160), V(150, 160), V(150, 80), V(120, 80)}; !routesEqual(conns[1].Route(), want) {
		t.Errorf("irq route = %v, want %v", conns[1].Route(), want)
	}
	if canvas.Dirty() {
		t.Error("fresh demo is dirty")
	}
}

func TestDrawWireGesture(t *testing.T) {
	m := initialModel(defaultConfig())
	canvas := m.getCanvas()
	mem := canvas.Block("cpu").Endpoint("mem")
	bus := canvas.Block("uart").Endpoint("bus")

	// cpu.mem sits at (120,60), cell (24,6); uart.bus at (260,60), cell (52,6).
	m = send(t, m, press(24, 6))
	if m.mode != ModeDrawWire || m.wireFrom != mem {
		t.Fatalf("mode = %v, want wire drawing from cpu.mem", m.modeString())
	}
	m = send(t, m, motion(40, 6))
	if m.wire == nil {
		t.Fatal("no preview while drawing")
	}
	m = send(t, m, release(52, 6))

	if m.mode != ModeNormal || m.wire != nil {
		t.Error("gesture not finished")
	}
	if len(canvas.Connections()) != 3 || !mem.IsConnected() || !bus.IsConnected() {
		t.Fatal("wire not connected")
	}
	if m.selected == nil || m.selected.Name() != "cpu_mem_to_uart_bus" {
		t.Error("new wire not selected")
	}

	m = send(t, m, key("u"))
	if len(canvas.Connections()) != 2 || mem.IsConnected() {
		t.Error("undo kept the wire")
	}
}

func TestDrawDanglingWire(t *testing.T) {
	m := initialModel(defaultConfig())
	canvas := m.getCanvas()

	m = send(t, m, press(24, 6))
	m = send(t, m, release(40, 12))

	if got := len(canvas.Connections()); got != 3 {
		t.Fatalf("wires = %d, want 3", got)
	}
	if m.selected == nil || m.selected.IsBound() {
		t.Error("dangling wire not added")
	}
}

func TestBlockDragGesture(t *testing.T) {
	m := initialModel(defaultConfig())
	canvas := m.getCanvas()
	cpu := canvas.Block("cpu")
	tx := cpu.Endpoint("tx")

	m = send(t, m, press(10, 5))
	if m.mode != ModeDragBlock || m.dragBlock != cpu {
		t.Fatalf("mode = %v, want block drag", m.modeString())
	}
	m = send(t, m, motion(14, 5))
	m = send(t, m, release(14, 5))

	if !cpu.Pos.Equal(V(40, 20)) || !tx.Pos().Equal(V(140, 40)) {
		t.Errorf("cpu at %v, tx at %v", cpu.Pos, tx.Pos())
	}
	for _, conn := range cpu.Connections() {
		route := conn.Route()
		if !isManhattan(route) {
			t.Errorf("route %v not axis aligned", route)
		}
	}

	m = send(t, m, key("u"))
	if !cpu.Pos.Equal(V(20, 20)) || !tx.Pos().Equal(V(120, 40)) {
		t.Errorf("after undo cpu at %v, tx at %v", cpu.Pos, tx.Pos())
	}
	m = send(t, m, tea.KeyMsg{Type: tea.KeyCtrlR})
	if !cpu.Pos.Equal(V(40, 20)) {
		t.Errorf("after redo cpu at %v", cpu.Pos)
	}
}

func TestDeleteWithConfirmation(t *testing.T) {
	m := initialModel(defaultConfig())
	canvas := m.getCanvas()
	tx := canvas.Block("cpu").Endpoint("tx")

	// The cpu.tx wire runs along y=40, row 4.
	m = send(t, m, press(38, 4))
	m = send(t, m, release(38, 4))
	if m.selected == nil || m.selected.Name() != "cpu_tx_to_uart_rx" {
		t.Fatal("wire not selected")
	}

	m = send(t, m, key("x"))
	if m.mode != ModeConfirm {
		t.Fatal("delete did not ask for confirmation")
	}
	m = send(t, m, key("n"))
	if len(canvas.Connections()) != 2 {
		t.Fatal("declined delete removed the wire")
	}

	m = send(t, m, key("x"))
	m = send(t, m, key("y"))
	if len(canvas.Connections()) != 1 || tx.IsConnected() {
		t.Error("confirmed delete kept the wire")
	}

	m = send(t, m, key("u"))
	if len(canvas.Connections()) != 2 || !tx.IsConnected() {
		t.Error("undo did not restore the wire")
	}
}

func TestBuffers(t *testing.T) {
	m := initialModel(defaultConfig())

	m = send(t, m, key("N"))
	if len(m.buffers) != 2 || m.currentBufferIndex != 1 {
		t.Fatalf("buffers = %d, current = %d", len(m.buffers), m.currentBufferIndex)
	}
	if len(m.getCanvas().Blocks()) != 0 {
		t.Error("new buffer not empty")
	}

	m = send(t, m, key("{"))
	if m.currentBufferIndex != 0 {
		t.Errorf("current = %d after {, want 0", m.currentBufferIndex)
	}
	m = send(t, m, key("}"))
	if m.currentBufferIndex != 1 {
		t.Errorf("current = %d after }, want 1", m.currentBufferIndex)
	}

	m = send(t, m, tea.KeyMsg{Type: tea.KeyCtrlW})
	m = send(t, m, key("y"))
	if len(m.buffers) != 1 || m.currentBufferIndex != 0 {
		t.Errorf("buffers = %d, current = %d after close", len(m.buffers), m.currentBufferIndex)
	}
}

func TestPan(t *testing.T) {
	m := initialModel(defaultConfig())

	m = send(t, m, key("l"))
	m = send(t, m, key("J"))
	if x, y := m.getPanOffset(); x != 2 || y != 8 {
		t.Errorf("pan = %d,%d, want 2,8", x, y)
	}
}

func TestQuitAsksWhenDirty(t *testing.T) {
	m := initialModel(defaultConfig())

	if _, cmd := m.Update(key("q")); cmd == nil {
		t.Error("clean quit did not quit")
	}

	m = send(t, m, key("b"))
	m = send(t, m, key("q"))
	if m.mode != ModeConfirm || m.confirmAction != ConfirmQuit {
		t.Error("dirty quit did not ask")
	}
}

func TestView(t *testing.T) {
	m := initialModel(defaultConfig())
	m = send(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})

	view := m.View()
	if got := strings.Count(view, "\n"); got != 29 {
		t.Errorf("view has %d line breaks, want 29", got)
	}
	for _, want := range []string{"NORMAL", "[1/1] demo", "cpu"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}

	m = send(t, m, key("?"))
	if !strings.Contains(m.View(), "reroute the selected wire") {
		t.Error("help not shown")
	}
}
