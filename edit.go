package main

import "math"

// Press starts a pointer gesture on the wire. A press on either end grabs that end; a press
// on a free segment grabs the segment. Segments leaving a bound endpoint stay put.
func (c *Connection) Press(p Vec) {
	c.BeginUpdatePosition()
	c.clearSelection()

	pos := c.router.Snap(p)
	n := len(c.route)

	switch {
	case c.route[0].Equal(pos):
		c.selection, c.selected = SelectEnd, 0
	case c.route[n-1].Equal(pos):
		c.selection, c.selected = SelectEnd, n-1
	default:
		for i := 0; i < n-1; i++ {
			if (i == 0 && c.endpoint1 != nil) || (i == n-2 && c.endpoint2 != nil) {
				continue
			}
			if onSegment(c.route[i], c.route[i+1], pos) {
				c.selection, c.selected = SelectSegment, i
			}
		}
	}
}

func onSegment(a, b, p Vec) bool {
	switch {
	case fuzzyEqual(a.X, b.X) && fuzzyEqual(a.X, p.X):
		return p.Y >= math.Min(a.Y, b.Y)-fuzzEpsilon && p.Y <= math.Max(a.Y, b.Y)+fuzzEpsilon
	case fuzzyEqual(a.Y, b.Y) && fuzzyEqual(a.Y, p.Y):
		return p.X >= math.Min(a.X, b.X)-fuzzEpsilon && p.X <= math.Max(a.X, b.X)+fuzzEpsilon
	}
	return false
}

// Drag moves whatever Press grabbed to the grid point nearest p.
func (c *Connection) Drag(p Vec) {
	pos := c.router.Snap(p)
	switch c.selection {
	case SelectEnd:
		c.dragEnd(pos)
	case SelectSegment:
		c.dragSegment(pos)
	default:
		return
	}
	c.notify()
}

func (c *Connection) dragEnd(pos Vec) {
	c.unbind()

	path := copyRoute(c.route)
	n := len(path)
	i := c.selected

	if n > 2 {
		adjacent, next := i+1, i+2
		if i == n-1 {
			adjacent, next = i-1, i-2
		}
		// Keep the corner next to the end square with the rest of the wire.
		if fuzzyEqual(path[adjacent].X, path[next].X) {
			path[adjacent].Y = pos.Y
		} else {
			path[adjacent].X = pos.X
		}
		path[i] = pos
	} else {
		old := path[i]
		if fuzzyEqual(path[0].X, path[1].X) {
			path[i].Y = pos.Y
		} else {
			path[i].X = pos.X
		}
		if path[0].Equal(path[1]) {
			path[i] = old
		}
	}
	c.applyRoute(path)
}

func (c *Connection) dragSegment(pos Vec) {
	cfg := c.router.cfg
	minStart := cfg.MinStartLength()
	path := copyRoute(c.route)
	n := len(path)
	i := c.selected
	hasPrev, hasNext := i > 0, i+2 < n

	switch {
	case fuzzyEqual(path[i].X, path[i+1].X):
		cur := path[i].X
		delta := pos.X - cur

		if c.sameFacing() && hasPrev && hasNext &&
			math.Abs(pos.X-path[i-1].X) >= minStart && math.Abs(pos.X-path[i+2].X) >= minStart {
			delta = math.Max(pos.X, cfg.ViewMinX) - cur
		} else {
			if hasNext {
				delta = clampSegmentDelta(delta, cur, path[i+2].X, minStart)
			}
			if hasPrev {
				delta = clampSegmentDelta(delta, cur, path[i-1].X, minStart)
			}
		}
		path[i].X += delta
		path[i+1].X += delta

	case fuzzyEqual(path[i].Y, path[i+1].Y):
		if hasPrev && math.Abs(pos.Y-path[i-1].Y) < cfg.MinLength {
			return
		}
		if hasNext && math.Abs(pos.Y-path[i+2].Y) < cfg.MinLength {
			return
		}
		path[i].Y = pos.Y
		path[i+1].Y = pos.Y
	}
	c.applyRoute(path)
}

// clampSegmentDelta limits a sideways move of a vertical segment at x=cur so that the
// horizontal run towards the neighbour at x=neighbour keeps at least minLen.
func clampSegmentDelta(delta, cur, neighbour, minLen float64) float64 {
	if cur > neighbour {
		return math.Max(delta, minLen+neighbour-cur)
	}
	return math.Min(delta, neighbour-cur-minLen)
}

func (c *Connection) sameFacing() bool {
	return c.IsBound() && c.endpoint1.Direction() == c.endpoint2.Direction()
}

// Release ends the gesture. A dropped end is connected when it lands on compatible endpoints;
// a dropped segment is tidied. The returned action restores the wire as it was at Press.
func (c *Connection) Release(scene SceneLookup) (Action, bool) {
	switch c.selection {
	case SelectEnd:
		if scene != nil {
			tolerance := c.router.cfg.GridSize
			ep1 := scene.FindEndpointNear(c.route[0], tolerance)
			ep2 := scene.FindEndpointNear(c.route[len(c.route)-1], tolerance)
			if ep1 != nil && ep2 != nil && ep1.CanConnect(ep2) && ep2.CanConnect(ep1) {
				c.ConnectEnds(scene)
			}
		}
	case SelectSegment:
		c.applyRoute(c.router.Simplify(c.route))
	}
	c.clearSelection()
	c.notify()

	return c.takeAction()
}

// BeginUpdatePosition remembers the wire before an outside move of the endpoints.
func (c *Connection) BeginUpdatePosition() {
	c.oldRoute = copyRoute(c.route)
	c.oldEnds = [2]*Endpoint{c.endpoint1, c.endpoint2}
}

// EndUpdatePosition tidies the path and reports the change since BeginUpdatePosition, if any.
func (c *Connection) EndUpdatePosition() (Action, bool) {
	c.applyRoute(c.router.Simplify(c.route))
	c.notify()
	return c.takeAction()
}

func (c *Connection) takeAction() (Action, bool) {
	old := c.oldRoute
	c.oldRoute = nil
	if old == nil {
		return Action{}, false
	}

	before := ConnectionData{Conn: c, Endpoint1: c.oldEnds[0], Endpoint2: c.oldEnds[1], Route: old}
	c.oldEnds = [2]*Endpoint{}
	if before.Endpoint1 != c.endpoint1 || before.Endpoint2 != c.endpoint2 {
		return Action{
			Type:    ActionReconnect,
			Data:    c.snapshot(),
			Inverse: before,
		}, true
	}

	if routesEqual(old, c.route) {
		return Action{}, false
	}
	return Action{
		Type:    ActionMoveConnection,
		Data:    RouteData{Conn: c, Route: copyRoute(c.route)},
		Inverse: RouteData{Conn: c, Route: old},
	}, true
}
