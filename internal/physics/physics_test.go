package physics

import (
	"math"
	"math/rand"
	"sort"
	"testing"
)

func TestCirclesOverlapIsStrict(t *testing.T) {
	tests := []struct {
		name           string
		x1, y1, r1     float64
		x2, y2, r2     float64
		wantOverlapped bool
	}{
		{"apart", 0, 0, 5, 20, 0, 5, false},
		{"touching", 0, 0, 5, 10, 0, 5, false},
		{"overlapping", 0, 0, 5, 9.9, 0, 5, true},
		{"concentric", 3, 3, 1, 3, 3, 1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CirclesOverlap(tt.x1, tt.y1, tt.r1, tt.x2, tt.y2, tt.r2)
			if got != tt.wantOverlapped {
				t.Fatalf("CirclesOverlap = %v, want %v", got, tt.wantOverlapped)
			}
		})
	}
}

func TestDistance(t *testing.T) {
	if d := Distance(0, 0, 3, 4); math.Abs(d-5) > 1e-9 {
		t.Fatalf("Distance = %v, want 5", d)
	}
	if d := DistanceSquared(1, 1, 4, 5); d != 25 {
		t.Fatalf("DistanceSquared = %v, want 25", d)
	}
	if !PointInCircle(1, 0, 0, 0, 1) {
		t.Fatal("point on the rim should be inside")
	}
}

// The grid must report every pair a brute-force scan finds.
func TestSpatialGridFindsAllOverlaps(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	const n = 200
	const radius = 12.0
	xs := make([]float64, n)
	ys := make([]float64, n)
	for i := range xs {
		xs[i] = rng.Float64()*840 - 20 // includes positions outside the area
		ys[i] = rng.Float64()*640 - 20
	}

	g := NewSpatialGrid(-radius, -radius, 800+radius, 600+radius, 2*radius)
	for i := range xs {
		g.Insert(xs[i], ys[i], i)
	}

	for i := range xs {
		var want, got []int
		for j := range xs {
			if j != i && CirclesOverlap(xs[i], ys[i], radius, xs[j], ys[j], radius) {
				want = append(want, j)
			}
		}
		seen := map[int]bool{}
		g.QueryAround(xs[i], ys[i], func(j int) bool {
			if j != i && !seen[j] && CirclesOverlap(xs[i], ys[i], radius, xs[j], ys[j], radius) {
				seen[j] = true
				got = append(got, j)
			}
			return false
		})
		sort.Ints(got)
		if len(got) != len(want) {
			t.Fatalf("item %d: grid found %v, brute force %v", i, got, want)
		}
		for k := range got {
			if got[k] != want[k] {
				t.Fatalf("item %d: grid found %v, brute force %v", i, got, want)
			}
		}
	}
}

func TestLowestAround(t *testing.T) {
	g := NewSpatialGrid(0, 0, 100, 100, 10)
	g.Insert(50, 50, 4)
	g.Insert(51, 50, 2)
	g.Insert(52, 50, 9)
	g.Insert(90, 90, 0) // far away

	if got := g.LowestAround(50, 50, func(int) bool { return true }); got != 2 {
		t.Fatalf("LowestAround = %d, want 2", got)
	}
	if got := g.LowestAround(50, 50, func(i int) bool { return i > 2 }); got != 4 {
		t.Fatalf("LowestAround with filter = %d, want 4", got)
	}
	if got := g.LowestAround(50, 50, func(int) bool { return false }); got != -1 {
		t.Fatalf("LowestAround no match = %d, want -1", got)
	}
}

func TestSpatialGridResetReusesStorage(t *testing.T) {
	g := NewSpatialGrid(0, 0, 100, 100, 10)
	g.Insert(5, 5, 1)
	g.Reset(0, 0, 50, 50, 25)
	if g.CellSize() != 25 {
		t.Fatalf("CellSize = %v, want 25", g.CellSize())
	}
	found := false
	g.QueryAround(5, 5, func(int) bool { found = true; return true })
	if found {
		t.Fatal("Reset should empty the grid")
	}
}
