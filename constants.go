package main

type Mode int

const (
	ModeNormal Mode = iota
	ModeDragSegment
	ModeDragBlock
	ModeDragEndpoint
	ModeDrawWire
	ModeConfirm
)

type ConfirmAction int

const (
	ConfirmDeleteConnection ConfirmAction = iota
	ConfirmDeleteBlock
	ConfirmQuit
	ConfirmCloseBuffer
)

type ActionType int

const (
	ActionMoveConnection ActionType = iota
	ActionReconnect
	ActionMoveEndpoint
	ActionMoveBlock
	ActionAddConnection
	ActionDeleteConnection
	ActionAddBlock
	ActionDeleteBlock
	ActionGroup
)

const (
	defaultMinLength     = 10.0
	defaultEndpointWidth = 40.0
	defaultGridSize      = 10.0
	defaultViewMinX      = 10.0 // Wires may not be dragged past the left edge
	defaultCellWidth     = 5.0  // Scene units per terminal column
	defaultCellHeight    = 10.0 // Scene units per terminal row
)
