package main

import (
	"log"
	"math"
)

// maxRouteSteps bounds the synthesis walk. A healthy route needs at most a handful of turns.
const maxRouteSteps = 64

// RouteConfig holds the routing lengths, all in scene units.
type RouteConfig struct {
	MinLength     float64
	EndpointWidth float64
	GridSize      float64
	ViewMinX      float64
}

func DefaultRouteConfig() RouteConfig {
	return RouteConfig{
		MinLength:     defaultMinLength,
		EndpointWidth: defaultEndpointWidth,
		GridSize:      defaultGridSize,
		ViewMinX:      defaultViewMinX,
	}
}

// MinStartLength is the shortest stub allowed to leave a bound endpoint.
func (c RouteConfig) MinStartLength() float64 {
	return c.EndpointWidth/2 + c.GridSize
}

// Router builds and tidies manhattan paths. It keeps no state besides its configuration.
type Router struct {
	cfg RouteConfig
}

func NewRouter(cfg RouteConfig) *Router {
	return &Router{cfg: cfg}
}

func (r *Router) Config() RouteConfig {
	return r.cfg
}

func (r *Router) Snap(p Vec) Vec {
	return snapToGrid(p, r.cfg.GridSize)
}

// Synthesize walks from p1 along dir1 towards the point one stub in front of p2, turning
// greedily, and finishes with the stub into p2. The result favours few turns over length.
func (r *Router) Synthesize(p1, dir1, p2, dir2 Vec) []Vec {
	path := []Vec{p1}
	if p1.Equal(p2) {
		return path
	}

	minStart := r.cfg.MinStartLength()
	minLen := r.cfg.MinLength
	target := p2.Add(dir2.Scale(minStart))
	cur, curDir := p1, dir1

	for steps := 0; !cur.Equal(target); steps++ {
		if steps == maxRouteSteps {
			log.Printf("router: no route from %v to %v after %d steps, closing directly", p1, p2, steps)
			path = append(path, target)
			break
		}

		delta := target.Sub(cur)
		dot := delta.Dot(curDir)
		endDot := delta.Dot(dir2)
		proj := curDir.Scale(dot)
		perp := delta.Sub(proj)

		if dot > 0 && delta.Equal(proj) && endDot <= 0 {
			cur = target
			path = append(path, cur)
			continue
		}

		switch {
		case cur.Equal(p1):
			if dot > 0 && !(endDot > 0 && delta.Equal(dir2.Scale(endDot))) {
				cur = cur.Add(curDir.Scale(math.Max(minStart, proj.Len())))
			} else {
				cur = cur.Add(curDir.Scale(minStart))
			}
		case dot < 0 && cur.Equal(p1.Add(curDir.Scale(minStart))):
			// Target is behind the start stub: turn away at least MinLength.
			dir := perp.Normalized()
			if dir.IsNull() {
				dir = curDir.Rotate90()
			}
			cur = cur.Add(dir.Scale(math.Max(perp.Len(), minLen)))
			curDir = dir
		case !perp.IsNull():
			cur = cur.Add(perp)
			curDir = perp.Normalized()
		default:
			curDir = curDir.Rotate90()
			cur = cur.Add(curDir.Scale(minLen))
		}

		// Never stop right behind the target on its approach axis.
		newDelta := target.Sub(cur)
		if d := newDelta.Dot(dir2); d > 0 && newDelta.Equal(dir2.Scale(d)) {
			cur = cur.Add(curDir.Scale(minLen))
		}

		path = append(path, cur)
	}

	if !target.Equal(p2) {
		path = append(path, p2)
	}
	return r.Simplify(path)
}

// Simplify drops every interior point whose outgoing segment is parallel to its incoming one,
// along with repeated points. The ends are never touched, so a path never shrinks below two points.
func (r *Router) Simplify(path []Vec) []Vec {
	out := copyRoute(path)
	for i := 0; i+2 < len(out); {
		d1 := out[i+1].Sub(out[i])
		d2 := out[i+2].Sub(out[i+1])

		if d1.IsNull() || d2.Project(d1.Normalized()).Equal(d2) {
			out = append(out[:i+1], out[i+2:]...)
			// The previous triple now ends at a new point.
			if i > 0 {
				i--
			}
			continue
		}
		i++
	}
	return out
}
