package main

import "log"

// BeginMove remembers where the endpoint and its wires were before a drag.
func (e *Endpoint) BeginMove() {
	e.moveStart = e.pos
	for _, conn := range e.Connections() {
		conn.BeginUpdatePosition()
	}
}

// EndMove reports the move since BeginMove, carrying the path change of every attached wire.
func (e *Endpoint) EndMove() (Action, bool) {
	children := endUpdates(e.Connections())
	if e.pos.Equal(e.moveStart) && len(children) == 0 {
		return Action{}, false
	}
	return Action{
		Type:     ActionMoveEndpoint,
		Data:     EndpointPosData{Endpoint: e, Pos: e.pos},
		Inverse:  EndpointPosData{Endpoint: e, Pos: e.moveStart},
		Children: children,
	}, true
}

func (b *Block) BeginMove() {
	b.moveStart = b.Pos
	for _, conn := range b.Connections() {
		conn.BeginUpdatePosition()
	}
}

func (b *Block) EndMove() (Action, bool) {
	children := endUpdates(b.Connections())
	if b.Pos.Equal(b.moveStart) && len(children) == 0 {
		return Action{}, false
	}
	return Action{
		Type:     ActionMoveBlock,
		Data:     BlockPosData{Block: b, Pos: b.Pos},
		Inverse:  BlockPosData{Block: b, Pos: b.moveStart},
		Children: children,
	}, true
}

func endUpdates(conns []*Connection) []Action {
	var children []Action
	for _, conn := range conns {
		if action, ok := conn.EndUpdatePosition(); ok {
			children = append(children, action)
		}
	}
	return children
}

// snapshot captures the wire's bindings and path.
func (c *Connection) snapshot() ConnectionData {
	return ConnectionData{
		Conn:      c,
		Endpoint1: c.endpoint1,
		Endpoint2: c.endpoint2,
		Route:     copyRoute(c.route),
	}
}

// restore puts the wire back into a snapshot state through the same calls a live edit uses.
func (c *Connection) restore(data ConnectionData) {
	c.unbind()
	if data.Endpoint1 != nil && data.Endpoint2 != nil {
		if err := c.attach(data.Endpoint1, data.Endpoint2); err != nil {
			log.Printf("restore %s: %v", data.Endpoint1.FullName(), err)
		}
	}
	if err := c.SetRoute(data.Route); err != nil {
		log.Printf("restore route: %v", err)
	}
}

// Undo reverts one action. The action itself is reverted first, then its children in reverse
// order, so recorded wire paths win over any repair the revert triggered.
func (c *Canvas) Undo(action Action) {
	switch action.Type {
	case ActionMoveConnection:
		data := action.Inverse.(RouteData)
		if err := data.Conn.SetRoute(data.Route); err != nil {
			log.Printf("undo route: %v", err)
		}
	case ActionReconnect:
		data := action.Inverse.(ConnectionData)
		data.Conn.restore(data)
	case ActionMoveEndpoint:
		data := action.Inverse.(EndpointPosData)
		data.Endpoint.SetPos(data.Pos)
	case ActionMoveBlock:
		data := action.Inverse.(BlockPosData)
		data.Block.SetPos(data.Pos)
	case ActionAddConnection:
		data := action.Inverse.(ConnectionData)
		c.RemoveConnection(data.Conn)
	case ActionDeleteConnection:
		data := action.Inverse.(ConnectionData)
		c.RestoreConnection(data)
	case ActionAddBlock:
		data := action.Inverse.(BlockData)
		c.removeBlock(data.Block)
	case ActionDeleteBlock:
		data := action.Inverse.(BlockData)
		c.AddBlock(data.Block)
	}

	for i := len(action.Children) - 1; i >= 0; i-- {
		c.Undo(action.Children[i])
	}
	c.dirty = true
}

func (c *Canvas) Redo(action Action) {
	switch action.Type {
	case ActionMoveConnection:
		data := action.Data.(RouteData)
		if err := data.Conn.SetRoute(data.Route); err != nil {
			log.Printf("redo route: %v", err)
		}
	case ActionReconnect:
		data := action.Data.(ConnectionData)
		data.Conn.restore(data)
	case ActionMoveEndpoint:
		data := action.Data.(EndpointPosData)
		data.Endpoint.SetPos(data.Pos)
	case ActionMoveBlock:
		data := action.Data.(BlockPosData)
		data.Block.SetPos(data.Pos)
	case ActionAddConnection:
		data := action.Data.(ConnectionData)
		c.RestoreConnection(data)
	case ActionDeleteConnection:
		data := action.Data.(ConnectionData)
		c.RemoveConnection(data.Conn)
	case ActionAddBlock:
		data := action.Data.(BlockData)
		c.AddBlock(data.Block)
	}

	for _, child := range action.Children {
		c.Redo(child)
	}

	// Wires go before their block.
	if action.Type == ActionDeleteBlock {
		data := action.Data.(BlockData)
		c.removeBlock(data.Block)
	}
	c.dirty = true
}

func (m *model) undo() {
	buf := m.getCurrentBuffer()
	if buf == nil || len(buf.undoStack) == 0 {
		return
	}

	lastIndex := len(buf.undoStack) - 1
	action := buf.undoStack[lastIndex]
	buf.undoStack = buf.undoStack[:lastIndex]

	log.Printf("undo action %d (%d children)", action.Type, len(action.Children))
	m.getCanvas().Undo(action)

	buf.redoStack = append(buf.redoStack, action)
}

func (m *model) redo() {
	buf := m.getCurrentBuffer()
	if buf == nil || len(buf.redoStack) == 0 {
		return
	}

	lastIndex := len(buf.redoStack) - 1
	action := buf.redoStack[lastIndex]
	buf.redoStack = buf.redoStack[:lastIndex]

	log.Printf("redo action %d (%d children)", action.Type, len(action.Children))
	m.getCanvas().Redo(action)

	buf.undoStack = append(buf.undoStack, action)
}
