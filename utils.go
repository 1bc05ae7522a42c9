package main

import (
	"github.com/atotto/clipboard"
)

func (m *model) getCurrentBuffer() *Buffer {
	if len(m.buffers) == 0 {
		return nil
	}
	return &m.buffers[m.currentBufferIndex]
}

func (m *model) getCanvas() *Canvas {
	if buf := m.getCurrentBuffer(); buf != nil {
		return buf.canvas
	}
	return nil
}

func (m *model) getPanOffset() (int, int) {
	if buf := m.getCurrentBuffer(); buf != nil {
		return buf.panX, buf.panY
	}
	return 0, 0
}

// sceneAt maps a terminal cell to its scene point.
func (m *model) sceneAt(cellX, cellY int) Vec {
	panX, panY := m.getPanOffset()
	return V(float64(cellX+panX)*m.config.CellWidth, float64(cellY+panY)*m.config.CellHeight)
}

// hitTolerance is how far in scene units a click may land from what it targets.
func (m *model) hitTolerance() float64 {
	if m.config.CellWidth > m.config.CellHeight {
		return m.config.CellWidth
	}
	return m.config.CellHeight
}

func (m *model) addNewBuffer(canvas *Canvas, filename string) {
	buffer := Buffer{
		canvas:    canvas,
		undoStack: []Action{},
		redoStack: []Action{},
		filename:  filename,
	}
	m.buffers = append(m.buffers, buffer)
	m.currentBufferIndex = len(m.buffers) - 1
}

func (m *model) recordAction(action Action) {
	buf := m.getCurrentBuffer()
	if buf == nil {
		return
	}
	buf.undoStack = append(buf.undoStack, action)
	buf.redoStack = buf.redoStack[:0]
}

// yankRoute copies the wire's name and points to the system clipboard.
func yankRoute(conn *Connection) error {
	return clipboard.WriteAll(RouteText(conn))
}
