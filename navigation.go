package main

func (m *model) handleNavigation(key string) {
	m.handlePan(key, m.getPanSpeed(key))
}

func (m *model) handlePan(key string, speed int) {
	buf := m.getCurrentBuffer()
	if buf == nil {
		return
	}
	switch key {
	case "h", "left", "H", "shift+left":
		buf.panX -= speed
	case "l", "right", "L", "shift+right":
		buf.panX += speed
	case "k", "up", "K", "shift+up":
		buf.panY -= speed
	case "j", "down", "J", "shift+down":
		buf.panY += speed
	}
}

func (m *model) getPanSpeed(key string) int {
	switch key {
	case "H", "L", "K", "J", "shift+left", "shift+right", "shift+up", "shift+down":
		return 8
	default:
		return 2
	}
}

func (m *model) switchBuffer(delta int) {
	if len(m.buffers) == 0 {
		return
	}
	m.finishGesture()
	m.currentBufferIndex = (m.currentBufferIndex + delta + len(m.buffers)) % len(m.buffers)
	m.selected = nil
	m.selectedBlock = nil
}
