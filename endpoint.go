package main

// Direction is the side an endpoint's wire leaves from.
type Direction int

const (
	DirLeft Direction = iota
	DirRight
)

func (d Direction) String() string {
	switch d {
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	default:
		return "unknown"
	}
}

func (d Direction) Opposite() Direction {
	if d == DirLeft {
		return DirRight
	}
	return DirLeft
}

func (d Direction) Vector() Vec {
	if d == DirRight {
		return Vec{X: 1}
	}
	return Vec{X: -1}
}

// directionAlong picks the enumerated direction that best fits v by its horizontal sign.
func directionAlong(v Vec) Direction {
	if v.X < 0 {
		return DirLeft
	}
	return DirRight
}

// Flow tells whether data enters or leaves through an endpoint.
type Flow int

const (
	FlowIn Flow = iota
	FlowOut
)

func (f Flow) String() string {
	if f == FlowOut {
		return "out"
	}
	return "in"
}

// EndpointKind is the capability descriptor compared by compatibility predicates.
type EndpointKind struct {
	Flow     Flow
	DataType string
}

// CompatibilityFunc decides whether self may be wired to other.
type CompatibilityFunc func(self, other *Endpoint) bool

// DefaultCompatible accepts a pairing when self is free, the flows differ and both ends
// carry the same data type.
func DefaultCompatible(self, other *Endpoint) bool {
	return !self.IsConnected() &&
		self.Kind.Flow != other.Kind.Flow &&
		self.Kind.DataType == other.Kind.DataType
}

type Endpoint struct {
	Name string
	Kind EndpointKind

	// FixedDirection keeps auto-rotation and route fitting from turning the endpoint.
	FixedDirection bool

	// Compatible overrides DefaultCompatible when set.
	Compatible CompatibilityFunc

	// OnConnect may veto a pairing; OnDisconnect runs after the wire is unbound.
	OnConnect    func(self, other *Endpoint) bool
	OnDisconnect func(self, other *Endpoint)

	pos         Vec
	dir         Direction
	block       *Block
	offset      Vec
	connections []*Connection
	moveStart   Vec
}

func NewEndpoint(name string, pos Vec, dir Direction, kind EndpointKind) *Endpoint {
	return &Endpoint{
		Name: name,
		Kind: kind,
		pos:  pos,
		dir:  dir,
	}
}

func (e *Endpoint) Pos() Vec {
	return e.pos
}

// SetPos moves the endpoint and repairs every attached connection.
func (e *Endpoint) SetPos(p Vec) {
	e.place(p)
	for _, conn := range e.Connections() {
		conn.UpdatePosition()
	}
}

// place moves the endpoint without touching its connections.
func (e *Endpoint) place(p Vec) {
	e.pos = p
	if e.block != nil {
		e.offset = p.Sub(e.block.Pos)
	}
}

func (e *Endpoint) Direction() Direction {
	return e.dir
}

func (e *Endpoint) SetDirection(d Direction) {
	e.dir = d
}

func (e *Endpoint) DirectionVector() Vec {
	return e.dir.Vector()
}

func (e *Endpoint) Block() *Block {
	return e.block
}

// FullName qualifies the endpoint name with its owning block.
func (e *Endpoint) FullName() string {
	if e.block == nil {
		return e.Name
	}
	return e.block.Name + "_" + e.Name
}

func (e *Endpoint) AddConnection(c *Connection) {
	for _, existing := range e.connections {
		if existing == c {
			return
		}
	}
	e.connections = append(e.connections, c)
}

func (e *Endpoint) RemoveConnection(c *Connection) {
	for i, existing := range e.connections {
		if existing == c {
			e.connections = append(e.connections[:i], e.connections[i+1:]...)
			return
		}
	}
}

// Connections returns a snapshot; callers may repair or remove connections while ranging.
func (e *Endpoint) Connections() []*Connection {
	out := make([]*Connection, len(e.connections))
	copy(out, e.connections)
	return out
}

func (e *Endpoint) IsConnected() bool {
	return len(e.connections) > 0
}

func (e *Endpoint) CanConnect(other *Endpoint) bool {
	if other == nil || other == e {
		return false
	}
	if e.Compatible != nil {
		return e.Compatible(e, other)
	}
	return DefaultCompatible(e, other)
}

func (e *Endpoint) onConnect(other *Endpoint) bool {
	if e.OnConnect == nil {
		return true
	}
	return e.OnConnect(e, other)
}

func (e *Endpoint) onDisconnect(other *Endpoint) {
	if e.OnDisconnect != nil {
		e.OnDisconnect(e, other)
	}
}
