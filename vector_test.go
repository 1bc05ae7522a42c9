package main

import "testing"

func TestVecArithmetic(t *testing.T) {
	a, b := V(3, 4), V(1, -2)

	if got := a.Add(b); !got.Equal(V(4, 2)) {
		t.Errorf("Add = %v, want (4,2)", got)
	}
	if got := a.Sub(b); !got.Equal(V(2, 6)) {
		t.Errorf("Sub = %v, want (2,6)", got)
	}
	if got := a.Scale(2); !got.Equal(V(6, 8)) {
		t.Errorf("Scale = %v, want (6,8)", got)
	}
	if got := a.Dot(b); got != -5 {
		t.Errorf("Dot = %v, want -5", got)
	}
	if got := a.Len(); got != 5 {
		t.Errorf("Len = %v, want 5", got)
	}
}

func TestVecNormalized(t *testing.T) {
	tests := []struct {
		name string
		in   Vec
		want Vec
	}{
		{"axis", V(0, -7), V(0, -1)},
		{"diagonal", V(3, 4), V(0.6, 0.8)},
		{"zero", V(0, 0), V(0, 0)},
		{"below epsilon", V(1e-9, 0), V(0, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.in.Normalized(); !got.Equal(tt.want) {
				t.Errorf("Normalized(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
	if !V(0, 0).Normalized().IsNull() {
		t.Error("normalized zero vector should be null")
	}
}

func TestVecRotateAndProject(t *testing.T) {
	if got := V(1, 0).Rotate90(); !got.Equal(V(0, -1)) {
		t.Errorf("Rotate90(1,0) = %v, want (0,-1)", got)
	}
	if got := V(0, 1).Rotate90(); !got.Equal(V(1, 0)) {
		t.Errorf("Rotate90(0,1) = %v, want (1,0)", got)
	}
	if got := V(5, 7).Project(V(1, 0)); !got.Equal(V(5, 0)) {
		t.Errorf("Project = %v, want (5,0)", got)
	}
	if got := V(5, 7).Project(V(0, -1)); !got.Equal(V(0, 7)) {
		t.Errorf("Project = %v, want (0,7)", got)
	}
}

func TestVecFuzzyEquality(t *testing.T) {
	if !V(1, 1).Equal(V(1+1e-8, 1-1e-8)) {
		t.Error("points within epsilon should be equal")
	}
	if V(1, 1).Equal(V(1.001, 1)) {
		t.Error("points a thousandth apart should differ")
	}
	if !V(1e-7, -1e-7).IsNull() {
		t.Error("tiny vector should be null")
	}
}

func TestSnapToGrid(t *testing.T) {
	tests := []struct {
		in   Vec
		grid float64
		want Vec
	}{
		{V(14, 16), 10, V(10, 20)},
		{V(-14, -16), 10, V(-10, -20)},
		{V(25, 35), 10, V(30, 40)},
		{V(3.3, 4.4), 0, V(3.3, 4.4)},
	}
	for _, tt := range tests {
		if got := snapToGrid(tt.in, tt.grid); !got.Equal(tt.want) {
			t.Errorf("snapToGrid(%v, %v) = %v, want %v", tt.in, tt.grid, got, tt.want)
		}
	}
}

func TestRouteHelpers(t *testing.T) {
	route := []Vec{V(0, 0), V(10, 0), V(10, 20)}

	cp := copyRoute(route)
	cp[0] = V(99, 99)
	if route[0].Equal(V(99, 99)) {
		t.Error("copyRoute shares storage with its input")
	}

	rev := reverseRoute(route)
	if !routesEqual(rev, []Vec{V(10, 20), V(10, 0), V(0, 0)}) {
		t.Errorf("reverseRoute = %v", rev)
	}
	if routesEqual(route, route[:2]) {
		t.Error("routes of different length compared equal")
	}
}
