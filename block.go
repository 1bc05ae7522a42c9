package main

// Block is a box on the canvas that carries endpoints on its edges. Moving the block moves its
// endpoints and repairs their wires.
type Block struct {
	Name string
	Pos  Vec
	Size Vec

	endpoints []*Endpoint
	moveStart Vec
}

func NewBlock(name string, pos, size Vec) *Block {
	return &Block{
		Name: name,
		Pos:  pos,
		Size: size,
	}
}

// AddEndpoint attaches an endpoint at offset from the block origin.
func (b *Block) AddEndpoint(name string, offset Vec, dir Direction, kind EndpointKind) *Endpoint {
	ep := NewEndpoint(name, b.Pos.Add(offset), dir, kind)
	ep.block = b
	ep.offset = offset
	b.endpoints = append(b.endpoints, ep)
	return ep
}

func (b *Block) Endpoints() []*Endpoint {
	return b.endpoints
}

func (b *Block) Endpoint(name string) *Endpoint {
	for _, ep := range b.endpoints {
		if ep.Name == name {
			return ep
		}
	}
	return nil
}

// Connections lists every wire attached to the block once, in endpoint order.
func (b *Block) Connections() []*Connection {
	var out []*Connection
	seen := make(map[*Connection]bool)
	for _, ep := range b.endpoints {
		for _, conn := range ep.Connections() {
			if !seen[conn] {
				seen[conn] = true
				out = append(out, conn)
			}
		}
	}
	return out
}

// SetPos moves the block. All endpoints are placed before any wire is repaired, so a wire
// between two endpoints of the same block is translated rather than rerouted.
func (b *Block) SetPos(p Vec) {
	b.Pos = p
	for _, ep := range b.endpoints {
		ep.place(p.Add(ep.offset))
	}
	for _, conn := range b.Connections() {
		conn.UpdatePosition()
	}
}

func (b *Block) Contains(p Vec) bool {
	return p.X >= b.Pos.X && p.X <= b.Pos.X+b.Size.X &&
		p.Y >= b.Pos.Y && p.Y <= b.Pos.Y+b.Size.Y
}

// Detach disconnects every wire of the block and returns them.
func (b *Block) Detach() []*Connection {
	conns := b.Connections()
	for _, conn := range conns {
		conn.DisconnectEnds()
	}
	return conns
}
