package main

type Buffer struct {
	canvas    *Canvas
	undoStack []Action
	redoStack []Action
	filename  string
	panX      int
	panY      int
}

type model struct {
	width              int
	height             int
	cursorX            int
	cursorY            int
	buffers            []Buffer
	currentBufferIndex int
	mode               Mode
	help               bool
	config             *Config
	router             *Router
	selected           *Connection
	selectedBlock      *Block
	blockCount         int
	dragConn           *Connection
	dragBlock          *Block
	dragEndpoint       *Endpoint
	dragOffset         Vec
	wireFrom           *Endpoint
	wire               *Connection
	confirmAction      ConfirmAction
	errorMessage       string
	successMessage     string
}

// Action is one undoable step. Data holds the state to redo, Inverse the state to undo.
// Children are reverted after their parent.
type Action struct {
	Type     ActionType
	Data     interface{}
	Inverse  interface{}
	Children []Action
}

type RouteData struct {
	Conn  *Connection
	Route []Vec
}

type EndpointPosData struct {
	Endpoint *Endpoint
	Pos      Vec
}

type BlockPosData struct {
	Block *Block
	Pos   Vec
}

type ConnectionData struct {
	Conn      *Connection
	Endpoint1 *Endpoint
	Endpoint2 *Endpoint
	Route     []Vec
}

type BlockData struct {
	Block *Block
}
