package main

import (
	"errors"
	"fmt"
	"log"
)

var (
	ErrRouteTooShort      = errors.New("route needs at least two points")
	ErrEndpointNotFound   = errors.New("no endpoint at wire end")
	ErrConnectionRejected = errors.New("endpoint rejected connection")
	ErrIncompatible       = errors.New("endpoints cannot be connected")
)

// SceneLookup resolves wire ends against whatever holds the diagram.
type SceneLookup interface {
	FindEndpointNear(p Vec, tolerance float64) *Endpoint
	FindConnectionsTouching(p Vec) []*Connection
	RemoveConnection(c *Connection)
}

type SelectionKind int

const (
	SelectNone SelectionKind = iota
	SelectSegment
	SelectEnd
)

// Connection is a routed wire. Either end may be bound to an endpoint or left dangling.
type Connection struct {
	router    *Router
	endpoint1 *Endpoint
	endpoint2 *Endpoint
	route     []Vec
	name      string

	selection SelectionKind
	selected  int
	oldRoute  []Vec
	oldEnds   [2]*Endpoint

	observers []func(*Connection)
}

// NewConnection routes a wire between two endpoints. With autoConnect the wire is bound to
// both at once; otherwise ConnectEnds has to be called later.
func NewConnection(r *Router, ep1, ep2 *Endpoint, autoConnect bool) *Connection {
	c := &Connection{router: r, selected: -1}
	c.route = c.synthesize(ep1, ep2)

	if autoConnect {
		c.endpoint1 = ep1
		c.endpoint2 = ep2
		ep1.AddConnection(c)
		ep2.AddConnection(c)
		c.updateName()
	}
	return c
}

// NewFreeConnection routes an unbound wire between two points with the given exit directions.
func NewFreeConnection(r *Router, p1, dir1, p2, dir2 Vec) *Connection {
	c := &Connection{router: r, selected: -1}
	route := r.Synthesize(p1, dir1, p2, dir2)
	if len(route) < 2 {
		route = []Vec{p1, p2}
	}
	c.route = route
	return c
}

func (c *Connection) Endpoint1() *Endpoint {
	return c.endpoint1
}

func (c *Connection) Endpoint2() *Endpoint {
	return c.endpoint2
}

func (c *Connection) IsBound() bool {
	return c.endpoint1 != nil && c.endpoint2 != nil
}

// Route returns a copy of the current path.
func (c *Connection) Route() []Vec {
	return copyRoute(c.route)
}

func (c *Connection) Name() string {
	return c.name
}

func (c *Connection) Router() *Router {
	return c.router
}

func (c *Connection) Selection() (SelectionKind, int) {
	return c.selection, c.selected
}

// OnChange registers fn to run after every mutation of the wire.
func (c *Connection) OnChange(fn func(*Connection)) {
	c.observers = append(c.observers, fn)
}

func (c *Connection) notify() {
	for _, fn := range c.observers {
		fn(c)
	}
}

// SetRoute replaces the path. Bound ends stay pinned to their endpoints and an endpoint whose
// direction opposes the new end segment is turned around.
func (c *Connection) SetRoute(path []Vec) error {
	if len(path) < 2 {
		return ErrRouteTooShort
	}
	c.applyRoute(path)
	c.notify()
	return nil
}

func (c *Connection) applyRoute(path []Vec) {
	route := copyRoute(path)
	last := len(route) - 1
	if c.endpoint1 != nil {
		route[0] = c.endpoint1.Pos()
	}
	if c.endpoint2 != nil {
		route[last] = c.endpoint2.Pos()
	}
	c.route = route
	c.fitDirections()
}

func (c *Connection) fitDirections() {
	last := len(c.route) - 1
	if c.endpoint1 != nil {
		fitDirection(c.endpoint1, c.route[1].Sub(c.route[0]))
	}
	if c.endpoint2 != nil {
		fitDirection(c.endpoint2, c.route[last-1].Sub(c.route[last]))
	}
}

func fitDirection(ep *Endpoint, seg Vec) {
	if ep.FixedDirection {
		return
	}
	if seg.Dot(ep.DirectionVector()) < 0 {
		ep.SetDirection(directionAlong(seg))
	}
}

// UpdatePosition follows the bound endpoints after one or both of them moved. The old path is
// kept where a local fix is enough and rebuilt from scratch otherwise.
func (c *Connection) UpdatePosition() {
	if !c.IsBound() {
		return
	}
	c.repair(c.endpoint1.Pos(), c.endpoint2.Pos())
	c.notify()
}

func (c *Connection) repair(p1, p2 Vec) {
	cfg := c.router.cfg
	old := c.route
	path := copyRoute(old)
	n := len(path)
	dir1 := c.endpoint1.DirectionVector()
	dir2 := c.endpoint2.DirectionVector()

	if n < 2 || (n > 4 && fuzzyEqual(dir1.Dot(dir2), -1) && dir1.Dot(p2.Sub(p1)) > 0) {
		c.reroute()
		return
	}

	delta1 := p1.Sub(path[0])
	delta2 := p2.Sub(path[n-1])

	if !delta1.IsNull() && delta1.Equal(delta2) {
		for i := range path {
			path[i] = path[i].Add(delta1)
		}
		c.applyRoute(path)
		return
	}
	if delta1.IsNull() && delta2.IsNull() {
		return
	}

	delta, dir, end := delta1, dir1, p1
	i0, i1, i2, i3 := 0, 1, 2, 3
	far, farPos := n-1, p2
	if !delta2.IsNull() {
		delta, dir, end = delta2, dir2, p2
		i0, i1, i2, i3 = n-1, n-2, n-3, n-4
		far, farPos = 0, p1
	}

	// Endpoints facing away from each other cannot keep the old shape.
	ok := dir1.Dot(p2.Sub(p1)) >= 0 && dir2.Dot(p1.Sub(p2)) >= 0

	seg1 := path[i1].Sub(path[i0]).Normalized()
	fixed := false
	if n >= 4 && n < 7 && dir.Equal(seg1) {
		perp := delta.Sub(delta.Project(seg1))
		path[i1] = path[i1].Add(perp)
		fixed = path[i1].X >= cfg.ViewMinX
	}

	path[i0] = end
	newSeg1 := path[i1].Sub(path[i0])
	if newSeg1.Len() < cfg.MinStartLength() || !seg1.Equal(newSeg1.Normalized()) {
		fixed = false
	}
	ok = ok && fixed

	if ok && n >= 4 && backToBack(path, i0, i1, i2, i3) && !backToBack(old, i0, i1, i2, i3) {
		ok = false
	}

	// Only one end is repaired at a time.
	if ok && !path[far].Equal(farPos) {
		ok = false
	}

	if ok && !c.snapInterior(path, i0, i1) {
		ok = false
	}

	if !ok {
		log.Printf("repair %s: rerouting", c.name)
		c.reroute()
		return
	}
	c.applyRoute(path)
}

// backToBack reports whether the segment after path[i1] doubles back on the one before it.
func backToBack(path []Vec, i0, i1, i2, i3 int) bool {
	seg1 := path[i1].Sub(path[i0]).Normalized()
	seg2 := path[i2].Sub(path[i1]).Normalized()
	seg3 := path[i3].Sub(path[i2]).Normalized()
	return seg1.Dot(seg2) < 0 || (seg2.IsNull() && seg1.Dot(seg3) < 0)
}

// snapInterior puts the corners on the grid. The corner next to each end keeps the end's
// offset across the stub, so endpoints off the grid still leave straight. It fails when the
// snapped path is no longer axis aligned or the stub at path[i0] got too short.
func (c *Connection) snapInterior(path []Vec, i0, i1 int) bool {
	n := len(path)
	first := path[1].Sub(path[0])
	last := path[n-2].Sub(path[n-1])

	for i := 1; i < n-1; i++ {
		path[i] = c.router.Snap(path[i])
	}
	path[1] = pinAcross(path[1], path[0], first)
	path[n-2] = pinAcross(path[n-2], path[n-1], last)

	return isManhattan(path) &&
		path[1].Sub(path[0]).Normalized().Equal(first.Normalized()) &&
		path[n-2].Sub(path[n-1]).Normalized().Equal(last.Normalized()) &&
		path[i1].Sub(path[i0]).Len() >= c.router.cfg.MinStartLength()
}

func pinAcross(p, end, stub Vec) Vec {
	if fuzzyEqual(stub.Y, 0) {
		p.Y = end.Y
	}
	if fuzzyEqual(stub.X, 0) {
		p.X = end.X
	}
	return p
}

// Reroute throws the path away and routes the bound wire from scratch.
func (c *Connection) Reroute() {
	if !c.IsBound() {
		return
	}
	c.reroute()
	c.notify()
}

func (c *Connection) reroute() {
	c.applyRoute(c.synthesize(c.endpoint1, c.endpoint2))
}

// synthesize turns both endpoints for the simplest shape and routes between them.
func (c *Connection) synthesize(ep1, ep2 *Endpoint) []Vec {
	p1, p2 := ep1.Pos(), ep2.Pos()
	width := c.router.cfg.EndpointWidth

	switch {
	case p2.X-p1.X >= width:
		turn(ep1, DirRight)
		turn(ep2, DirLeft)
	case p1.X-p2.X >= width:
		turn(ep1, DirLeft)
		turn(ep2, DirRight)
	default:
		turn(ep2, ep1.Direction())
	}

	route := c.router.Synthesize(p1, ep1.DirectionVector(), p2, ep2.DirectionVector())
	if len(route) < 2 {
		route = []Vec{p1, p2}
	}
	return route
}

func turn(ep *Endpoint, d Direction) {
	if !ep.FixedDirection {
		ep.SetDirection(d)
	}
}

// ConnectEnds binds the wire to the endpoints found under its two ends. Dangling wires that
// touch a loose end are merged in first. On failure nothing stays bound.
func (c *Connection) ConnectEnds(scene SceneLookup) bool {
	if err := c.connectEnds(scene); err != nil {
		log.Printf("connect %v..%v: %v", c.route[0], c.route[len(c.route)-1], err)
		return false
	}
	return true
}

func (c *Connection) connectEnds(scene SceneLookup) error {
	c.unbind()
	tolerance := c.router.cfg.GridSize

	var ep1, ep2 *Endpoint
	for {
		ep1 = scene.FindEndpointNear(c.route[0], tolerance)
		ep2 = scene.FindEndpointNear(c.route[len(c.route)-1], tolerance)
		if ep1 != nil && ep2 != nil {
			break
		}

		merged := false
		if ep1 == nil {
			merged = c.mergeAt(scene, true)
		}
		if !merged && ep2 == nil {
			merged = c.mergeAt(scene, false)
		}
		if !merged {
			c.notify()
			return ErrEndpointNotFound
		}
	}

	if err := c.attach(ep1, ep2); err != nil {
		c.notify()
		return err
	}

	c.route = c.router.Simplify(c.route)
	c.clearSelection()
	c.fitDirections()
	c.repair(ep1.Pos(), ep2.Pos())
	c.applyRoute(c.route)
	c.notify()
	return nil
}

// attach binds both ends, giving each endpoint the chance to refuse. A refusal by the second
// endpoint is undone on the first.
func (c *Connection) attach(ep1, ep2 *Endpoint) error {
	if !ep1.onConnect(ep2) {
		return fmt.Errorf("%s: %w", ep1.FullName(), ErrConnectionRejected)
	}
	if !ep2.onConnect(ep1) {
		ep1.onDisconnect(ep2)
		return fmt.Errorf("%s: %w", ep2.FullName(), ErrConnectionRejected)
	}

	c.endpoint1 = ep1
	c.endpoint2 = ep2
	ep1.AddConnection(c)
	ep2.AddConnection(c)
	c.updateName()
	return nil
}

// mergeAt joins a dangling wire that touches the first (or last) point of this one and
// removes it from the scene.
func (c *Connection) mergeAt(scene SceneLookup, first bool) bool {
	end := c.route[len(c.route)-1]
	if first {
		end = c.route[0]
	}

	for _, other := range scene.FindConnectionsTouching(end) {
		if other == c || other.IsBound() {
			continue
		}
		theirs := other.route
		var merged []Vec

		switch {
		case first && theirs[len(theirs)-1].Equal(end):
			merged = append(copyRoute(theirs), c.route...)
		case first && theirs[0].Equal(end):
			merged = append(reverseRoute(theirs), c.route...)
		case !first && theirs[0].Equal(end):
			merged = append(copyRoute(c.route), theirs...)
		case !first && theirs[len(theirs)-1].Equal(end):
			merged = append(copyRoute(c.route), reverseRoute(theirs)...)
		default:
			continue
		}

		log.Printf("merging dangling wire at %v", end)
		scene.RemoveConnection(other)
		other.DisconnectEnds()
		c.route = merged
		return true
	}
	return false
}

// DisconnectEnds unbinds both endpoints and keeps the path. Calling it on a free wire is harmless.
func (c *Connection) DisconnectEnds() {
	c.unbind()
	c.notify()
}

func (c *Connection) unbind() {
	ep1, ep2 := c.endpoint1, c.endpoint2
	c.endpoint1 = nil
	c.endpoint2 = nil
	c.name = ""

	if ep1 != nil {
		ep1.RemoveConnection(c)
		ep1.onDisconnect(ep2)
	}
	if ep2 != nil {
		ep2.RemoveConnection(c)
		ep2.onDisconnect(ep1)
	}
}

func (c *Connection) updateName() {
	if !c.IsBound() {
		c.name = ""
		return
	}
	c.name = c.endpoint1.FullName() + "_to_" + c.endpoint2.FullName()
}

func (c *Connection) clearSelection() {
	c.selection = SelectNone
	c.selected = -1
}
