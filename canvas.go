package main

import (
	"fmt"
	"math"
	"strings"
)

type Canvas struct {
	router      *Router
	blocks      []*Block
	connections []*Connection
	watched     map[*Connection]bool
	dirty       bool

	// While tracking, wires removed through RemoveConnection are collected for undo.
	tracking bool
	removed  []ConnectionData
}

func NewCanvas(r *Router) *Canvas {
	return &Canvas{
		router:      r,
		blocks:      make([]*Block, 0),
		connections: make([]*Connection, 0),
		watched:     make(map[*Connection]bool),
	}
}

func (c *Canvas) Router() *Router {
	return c.router
}

func (c *Canvas) Blocks() []*Block {
	return c.blocks
}

func (c *Canvas) Connections() []*Connection {
	return c.connections
}

func (c *Canvas) Dirty() bool {
	return c.dirty
}

func (c *Canvas) MarkClean() {
	c.dirty = false
}

func (c *Canvas) markDirty(*Connection) {
	c.dirty = true
}

func (c *Canvas) AddBlock(b *Block) {
	for _, existing := range c.blocks {
		if existing == b {
			return
		}
	}
	c.blocks = append(c.blocks, b)
	c.dirty = true
}

func (c *Canvas) removeBlock(b *Block) {
	for i, existing := range c.blocks {
		if existing == b {
			c.blocks = append(c.blocks[:i], c.blocks[i+1:]...)
			c.dirty = true
			return
		}
	}
}

// RemoveBlock deletes the block together with its wires, disconnecting them first.
func (c *Canvas) RemoveBlock(b *Block) Action {
	var children []Action
	for _, conn := range b.Connections() {
		children = append(children, c.DeleteConnection(conn))
	}
	c.removeBlock(b)
	return Action{
		Type:     ActionDeleteBlock,
		Data:     BlockData{Block: b},
		Inverse:  BlockData{Block: b},
		Children: children,
	}
}

func (c *Canvas) AddConnection(conn *Connection) {
	for _, existing := range c.connections {
		if existing == conn {
			return
		}
	}
	if !c.watched[conn] {
		c.watched[conn] = true
		conn.OnChange(c.markDirty)
	}
	c.connections = append(c.connections, conn)
	c.dirty = true
}

// Connect routes and binds a new wire between two compatible endpoints.
func (c *Canvas) Connect(ep1, ep2 *Endpoint) (*Connection, Action, error) {
	if ep1 == nil || ep2 == nil || !ep1.CanConnect(ep2) || !ep2.CanConnect(ep1) {
		return nil, Action{}, ErrIncompatible
	}

	conn := NewConnection(c.router, ep1, ep2, false)
	if err := conn.attach(ep1, ep2); err != nil {
		return nil, Action{}, err
	}
	c.AddConnection(conn)

	data := conn.snapshot()
	return conn, Action{Type: ActionAddConnection, Data: data, Inverse: data}, nil
}

// AddWire adds a hand-drawn wire and binds its ends where it can. Dangling wires it merges
// with are removed and recorded as children of the returned action.
func (c *Canvas) AddWire(conn *Connection) Action {
	c.AddConnection(conn)
	removed := c.track(func() {
		conn.ConnectEnds(c)
	})
	data := conn.snapshot()
	return Action{
		Type:     ActionAddConnection,
		Data:     data,
		Inverse:  data,
		Children: removed,
	}
}

// ReleaseConnection finishes a pointer gesture on conn.
func (c *Canvas) ReleaseConnection(conn *Connection) (Action, bool) {
	var action Action
	var ok bool
	removed := c.track(func() {
		action, ok = conn.Release(c)
	})
	if len(removed) == 0 {
		return action, ok
	}
	if !ok {
		action = Action{Type: ActionGroup}
	}
	action.Children = append(action.Children, removed...)
	return action, true
}

func (c *Canvas) track(fn func()) []Action {
	c.tracking = true
	c.removed = nil
	fn()
	c.tracking = false

	var actions []Action
	for _, data := range c.removed {
		actions = append(actions, Action{Type: ActionDeleteConnection, Data: data, Inverse: data})
	}
	c.removed = nil
	return actions
}

// DeleteConnection removes the wire and returns the action that brings it back.
func (c *Canvas) DeleteConnection(conn *Connection) Action {
	data := conn.snapshot()
	c.RemoveConnection(conn)
	return Action{Type: ActionDeleteConnection, Data: data, Inverse: data}
}

// RemoveConnection disconnects the wire and drops it from the canvas.
func (c *Canvas) RemoveConnection(conn *Connection) {
	for i, existing := range c.connections {
		if existing != conn {
			continue
		}
		if c.tracking {
			c.removed = append(c.removed, conn.snapshot())
		}
		conn.DisconnectEnds()
		c.connections = append(c.connections[:i], c.connections[i+1:]...)
		c.dirty = true
		return
	}
}

func (c *Canvas) RestoreConnection(data ConnectionData) {
	c.AddConnection(data.Conn)
	data.Conn.restore(data)
}

// FindEndpointNear returns the endpoint closest to p within tolerance.
func (c *Canvas) FindEndpointNear(p Vec, tolerance float64) *Endpoint {
	var best *Endpoint
	bestDist := math.Inf(1)
	for _, b := range c.blocks {
		for _, ep := range b.Endpoints() {
			d := ep.Pos().Sub(p).Len()
			if d <= tolerance+fuzzEpsilon && d < bestDist {
				best, bestDist = ep, d
			}
		}
	}
	return best
}

// FindConnectionsTouching lists the wires with a segment through p.
func (c *Canvas) FindConnectionsTouching(p Vec) []*Connection {
	var out []*Connection
	for _, conn := range c.connections {
		route := conn.route
		for i := 0; i+1 < len(route); i++ {
			if onSegment(route[i], route[i+1], p) {
				out = append(out, conn)
				break
			}
		}
	}
	return out
}

func (c *Canvas) EndpointAt(p Vec, tolerance float64) *Endpoint {
	return c.FindEndpointNear(p, tolerance)
}

// ConnectionAt returns the topmost wire passing within tolerance of p.
func (c *Canvas) ConnectionAt(p Vec, tolerance float64) *Connection {
	for i := len(c.connections) - 1; i >= 0; i-- {
		route := c.connections[i].route
		for j := 0; j+1 < len(route); j++ {
			if segmentDistance(route[j], route[j+1], p) <= tolerance {
				return c.connections[i]
			}
		}
	}
	return nil
}

func (c *Canvas) BlockAt(p Vec) *Block {
	for i := len(c.blocks) - 1; i >= 0; i-- {
		if c.blocks[i].Contains(p) {
			return c.blocks[i]
		}
	}
	return nil
}

func (c *Canvas) Block(name string) *Block {
	for _, b := range c.blocks {
		if b.Name == name {
			return b
		}
	}
	return nil
}

func segmentDistance(a, b, p Vec) float64 {
	return p.Sub(closestOnSegment(a, b, p)).Len()
}

func closestOnSegment(a, b, p Vec) Vec {
	ab := b.Sub(a)
	length := ab.Dot(ab)
	if length < fuzzEpsilon {
		return a
	}
	t := math.Max(0, math.Min(1, p.Sub(a).Dot(ab)/length))
	return a.Add(ab.Scale(t))
}

// closestOnRoute returns the point of the path nearest p.
func closestOnRoute(route []Vec, p Vec) Vec {
	if len(route) == 1 {
		return route[0]
	}
	best := route[0]
	bestDist := math.Inf(1)
	for i := 0; i+1 < len(route); i++ {
		q := closestOnSegment(route[i], route[i+1], p)
		if d := q.Sub(p).Len(); d < bestDist {
			best, bestDist = q, d
		}
	}
	return best
}

const (
	wireUp uint8 = 1 << iota
	wireDown
	wireLeft
	wireRight
)

var lightWires = map[uint8]rune{
	wireUp: '│', wireDown: '│', wireUp | wireDown: '│',
	wireLeft: '─', wireRight: '─', wireLeft | wireRight: '─',
	wireDown | wireRight: '┌', wireDown | wireLeft: '┐',
	wireUp | wireRight: '└', wireUp | wireLeft: '┘',
	wireUp | wireDown | wireRight: '├', wireUp | wireDown | wireLeft: '┤',
	wireLeft | wireRight | wireDown: '┬', wireLeft | wireRight | wireUp: '┴',
	wireUp | wireDown | wireLeft | wireRight: '┼',
}

var heavyWires = map[uint8]rune{
	wireUp: '┃', wireDown: '┃', wireUp | wireDown: '┃',
	wireLeft: '━', wireRight: '━', wireLeft | wireRight: '━',
	wireDown | wireRight: '┏', wireDown | wireLeft: '┓',
	wireUp | wireRight: '┗', wireUp | wireLeft: '┛',
	wireUp | wireDown | wireRight: '┣', wireUp | wireDown | wireLeft: '┫',
	wireLeft | wireRight | wireDown: '┳', wireLeft | wireRight | wireUp: '┻',
	wireUp | wireDown | wireLeft | wireRight: '╋',
}

// cellGrid is the terminal picture of the scene. One cell covers cellW by cellH scene units.
type cellGrid struct {
	width, height int
	cellW, cellH  float64
	panX, panY    int
	runes         [][]rune
	wires         [][]uint8
	heavy         [][]bool
}

func newCellGrid(width, height, panX, panY int, cellW, cellH float64) *cellGrid {
	g := &cellGrid{
		width:  width,
		height: height,
		cellW:  cellW,
		cellH:  cellH,
		panX:   panX,
		panY:   panY,
		runes:  make([][]rune, height),
		wires:  make([][]uint8, height),
		heavy:  make([][]bool, height),
	}
	for y := 0; y < height; y++ {
		g.runes[y] = []rune(strings.Repeat(" ", width))
		g.wires[y] = make([]uint8, width)
		g.heavy[y] = make([]bool, width)
	}
	return g
}

func (g *cellGrid) cell(p Vec) (int, int) {
	return int(math.Round(p.X/g.cellW)) - g.panX, int(math.Round(p.Y/g.cellH)) - g.panY
}

func (g *cellGrid) inBounds(x, y int) bool {
	return x >= 0 && x < g.width && y >= 0 && y < g.height
}

func (g *cellGrid) set(x, y int, r rune) {
	if g.inBounds(x, y) {
		g.runes[y][x] = r
	}
}

func (g *cellGrid) text(x, y int, s string) {
	for i, r := range []rune(s) {
		g.set(x+i, y, r)
	}
}

func (g *cellGrid) mark(x, y int, bits uint8, heavy bool) {
	if g.inBounds(x, y) {
		g.wires[y][x] |= bits
		g.heavy[y][x] = g.heavy[y][x] || heavy
	}
}

// trace marks the cells of an axis-aligned run from (x1,y1) to (x2,y2).
func (g *cellGrid) trace(x1, y1, x2, y2 int, heavy bool) {
	for x1 != x2 {
		step, out, in := 1, wireRight, wireLeft
		if x2 < x1 {
			step, out, in = -1, wireLeft, wireRight
		}
		g.mark(x1, y1, out, heavy)
		x1 += step
		g.mark(x1, y1, in, heavy)
	}
	for y1 != y2 {
		step, out, in := 1, wireDown, wireUp
		if y2 < y1 {
			step, out, in = -1, wireUp, wireDown
		}
		g.mark(x1, y1, out, heavy)
		y1 += step
		g.mark(x1, y1, in, heavy)
	}
}

func (g *cellGrid) drawRoute(route []Vec, heavy bool) {
	for i := 0; i+1 < len(route); i++ {
		x1, y1 := g.cell(route[i])
		x2, y2 := g.cell(route[i+1])
		g.trace(x1, y1, x2, y2, heavy)
	}
}

func (g *cellGrid) flushWires() {
	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			bits := g.wires[y][x]
			if bits == 0 {
				continue
			}
			glyphs := lightWires
			if g.heavy[y][x] {
				glyphs = heavyWires
			}
			g.runes[y][x] = glyphs[bits]
		}
	}
}

func (g *cellGrid) drawBlock(b *Block) {
	x1, y1 := g.cell(b.Pos)
	x2, y2 := g.cell(b.Pos.Add(b.Size))

	for x := x1; x <= x2; x++ {
		for y := y1; y <= y2; y++ {
			g.set(x, y, ' ')
		}
	}
	for x := x1 + 1; x < x2; x++ {
		g.set(x, y1, '─')
		g.set(x, y2, '─')
	}
	for y := y1 + 1; y < y2; y++ {
		g.set(x1, y, '│')
		g.set(x2, y, '│')
	}
	g.set(x1, y1, '┌')
	g.set(x2, y1, '┐')
	g.set(x1, y2, '└')
	g.set(x2, y2, '┘')

	if width := x2 - x1 - 1; width > 0 {
		name := b.Name
		if len([]rune(name)) > width {
			name = string([]rune(name)[:width])
		}
		g.text(x1+1+(width-len([]rune(name)))/2, y1, name)
	}

	for _, ep := range b.Endpoints() {
		x, y := g.cell(ep.Pos())
		g.set(x, y, endpointGlyph(ep))

		label := ep.Name
		room := x2 - x1 - 2
		if room <= 0 || y == y1 || y == y2 {
			continue
		}
		if len([]rune(label)) > room {
			label = string([]rune(label)[:room])
		}
		if x <= x1 {
			g.text(x+1, y, label)
		} else if x >= x2 {
			g.text(x-len([]rune(label)), y, label)
		}
	}
}

func endpointGlyph(ep *Endpoint) rune {
	switch {
	case ep.Direction() == DirLeft && ep.IsConnected():
		return '◀'
	case ep.Direction() == DirLeft:
		return '◁'
	case ep.IsConnected():
		return '▶'
	default:
		return '▷'
	}
}

func (g *cellGrid) lines() []string {
	out := make([]string, g.height)
	for y := range g.runes {
		out[y] = string(g.runes[y])
	}
	return out
}

// Render draws the scene into width by height terminal cells. The selected wire is drawn
// heavy and preview, if set, is drawn on top of everything else.
func (c *Canvas) Render(width, height, panX, panY int, cellW, cellH float64, selected, preview *Connection) []string {
	if width < 1 || height < 1 {
		return nil
	}
	g := newCellGrid(width, height, panX, panY, cellW, cellH)

	for _, conn := range c.connections {
		g.drawRoute(conn.route, conn == selected)
	}
	if preview != nil {
		g.drawRoute(preview.route, true)
	}
	g.flushWires()

	for _, b := range c.blocks {
		g.drawBlock(b)
	}

	for _, conn := range c.connections {
		route := conn.route
		if conn.endpoint1 == nil {
			x, y := g.cell(route[0])
			g.set(x, y, '●')
		}
		if conn.endpoint2 == nil {
			x, y := g.cell(route[len(route)-1])
			g.set(x, y, '●')
		}
	}
	return g.lines()
}

// RouteText formats a wire as one point per line, prefixed by its name.
func RouteText(conn *Connection) string {
	var sb strings.Builder
	name := conn.Name()
	if name == "" {
		name = "(dangling)"
	}
	sb.WriteString(name)
	sb.WriteString("\n")
	for _, p := range conn.route {
		fmt.Fprintf(&sb, "%g,%g\n", p.X, p.Y)
	}
	return sb.String()
}
