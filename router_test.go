package main

import "testing"

var (
	left  = DirLeft.Vector()
	right = DirRight.Vector()
)

func TestMinStartLength(t *testing.T) {
	if got := DefaultRouteConfig().MinStartLength(); got != 30 {
		t.Errorf("MinStartLength = %v, want 30", got)
	}
}

func TestSynthesize(t *testing.T) {
	r := NewRouter(DefaultRouteConfig())

	tests := []struct {
		name     string
		p1, dir1 Vec
		p2, dir2 Vec
		want     []Vec
	}{
		{
			name: "facing each other",
			p1:   V(0, 0),
			dir1: right,
			p2:   V(300, 0),
			dir2: left,
			want: []Vec{V(0, 0), V(300, 0)},
		},
		{
			name: "start faces away",
			p1:   V(0, 0),
			dir1: left,
			p2:   V(200, 0),
			dir2: left,
			want: []Vec{V(0, 0), V(-30, 0), V(-30, 10), V(170, 10), V(170, 0), V(200, 0)},
		},
		{
			name: "offset rows",
			p1:   V(100, 100),
			dir1: right,
			p2:   V(300, 200),
			dir2: left,
			want: []Vec{V(100, 100), V(270, 100), V(270, 200), V(300, 200)},
		},
		{
			name: "same point",
			p1:   V(50, 50),
			dir1: right,
			p2:   V(50, 50),
			dir2: left,
			want: []Vec{V(50, 50)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.Synthesize(tt.p1, tt.dir1, tt.p2, tt.dir2)
			if !routesEqual(got, tt.want) {
				t.Errorf("Synthesize = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSynthesizeProducesValidPaths(t *testing.T) {
	r := NewRouter(DefaultRouteConfig())
	p1 := V(0, 0)

	for x := -200.0; x <= 200; x += 10 {
		for y := -200.0; y <= 200; y += 10 {
			if x == 0 && y == 0 {
				continue
			}
			p2 := V(x, y)
			for _, dir1 := range []Vec{left, right} {
				for _, dir2 := range []Vec{left, right} {
					route := r.Synthesize(p1, dir1, p2, dir2)
					if len(route) < 2 || !route[0].Equal(p1) || !route[len(route)-1].Equal(p2) {
						t.Fatalf("Synthesize(%v,%v,%v,%v) = %v: wrong ends", p1, dir1, p2, dir2, route)
					}
					if !isManhattan(route) {
						t.Fatalf("Synthesize(%v,%v,%v,%v) = %v: not axis aligned", p1, dir1, p2, dir2, route)
					}
					if !routesEqual(r.Simplify(route), route) {
						t.Fatalf("Synthesize(%v,%v,%v,%v) = %v: not simplified", p1, dir1, p2, dir2, route)
					}
					if len(route) == 2 {
						continue
					}
					if got := route[1].Sub(route[0]).Normalized(); !got.Equal(dir1) {
						t.Fatalf("Synthesize(%v,%v,%v,%v) = %v: leaves start along %v", p1, dir1, p2, dir2, route, got)
					}
					if got := route[len(route)-2].Sub(route[len(route)-1]).Normalized(); !got.Equal(dir2) {
						t.Fatalf("Synthesize(%v,%v,%v,%v) = %v: enters end along %v", p1, dir1, p2, dir2, route, got)
					}
					minStart := r.Config().MinStartLength()
					if route[1].Sub(route[0]).Len() < minStart || route[len(route)-2].Sub(route[len(route)-1]).Len() < minStart {
						t.Fatalf("Synthesize(%v,%v,%v,%v) = %v: stub shorter than %v", p1, dir1, p2, dir2, route, minStart)
					}
				}
			}
		}
	}
}

func TestSimplify(t *testing.T) {
	r := NewRouter(DefaultRouteConfig())

	tests := []struct {
		name string
		in   []Vec
		want []Vec
	}{
		{
			name: "collinear run",
			in:   []Vec{V(0, 0), V(10, 0), V(20, 0), V(30, 0)},
			want: []Vec{V(0, 0), V(30, 0)},
		},
		{
			name: "repeated point",
			in:   []Vec{V(0, 0), V(10, 0), V(10, 0), V(10, 20)},
			want: []Vec{V(0, 0), V(10, 0), V(10, 20)},
		},
		{
			name: "backtrack",
			in:   []Vec{V(0, 0), V(30, 0), V(20, 0), V(20, 10)},
			want: []Vec{V(0, 0), V(20, 0), V(20, 10)},
		},
		{
			name: "corners kept",
			in:   []Vec{V(0, 0), V(10, 0), V(10, 10), V(20, 10)},
			want: []Vec{V(0, 0), V(10, 0), V(10, 10), V(20, 10)},
		},
		{
			name: "two points",
			in:   []Vec{V(0, 0), V(0, 0)},
			want: []Vec{V(0, 0), V(0, 0)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.Simplify(tt.in)
			if !routesEqual(got, tt.want) {
				t.Errorf("Simplify = %v, want %v", got, tt.want)
			}
			if again := r.Simplify(got); !routesEqual(again, got) {
				t.Errorf("Simplify not idempotent: %v then %v", got, again)
			}
		})
	}
}

func TestSimplifyLeavesInputAlone(t *testing.T) {
	r := NewRouter(DefaultRouteConfig())
	in := []Vec{V(0, 0), V(10, 0), V(20, 0)}
	r.Simplify(in)
	if len(in) != 3 || !in[1].Equal(V(10, 0)) {
		t.Errorf("Simplify modified its input: %v", in)
	}
}
