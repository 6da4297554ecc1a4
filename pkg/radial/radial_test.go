package radial

import (
	"fmt"
	"math"
	"reflect"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/matzehuels/schemamap/pkg/errors"
	"github.com/matzehuels/schemamap/pkg/hierarchy"
)

const eps = 1e-9

func near(a, b float64) bool { return math.Abs(a-b) < eps }

func TestRings(t *testing.T) {
	tests := []struct {
		name string
		geom Geometry
		want []Ring
	}{
		{
			name: "defaults",
			geom: DefaultGeometry(),
			want: []Ring{
				{Depth: 2, Radius: 260, Fill: "#f0f0f0"},
				{Depth: 1, Radius: 150, Fill: "#d8d8d8"},
			},
		},
		{
			name: "floors fractional radii",
			geom: Geometry{Width: 500, Height: 600, MinRadius: 10, OuterPadding: 20, RingCount: 3},
			want: []Ring{
				{Depth: 3, Radius: 230, Fill: "#f0f0f0"},
				{Depth: 2, Radius: 156, Fill: "#d8d8d8"},
				{Depth: 1, Radius: 83, Fill: "#c0c0c0"},
			},
		},
		{
			name: "no rings",
			geom: Geometry{Width: 100, Height: 100, RingCount: 0},
			want: []Ring{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.geom.Rings()
			if err != nil {
				t.Fatal(err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Rings() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRingFillClampsToBlack(t *testing.T) {
	if got := ringFill(1, 20); got != "#000000" {
		t.Errorf("ringFill(1, 20) = %s, want #000000", got)
	}
}

func TestGeometryValidate(t *testing.T) {
	tests := []struct {
		name string
		geom Geometry
	}{
		{"zero width", Geometry{Width: 0, Height: 600, RingCount: 2}},
		{"negative height", Geometry{Width: 600, Height: -1, RingCount: 2}},
		{"negative rings", Geometry{Width: 600, Height: 600, RingCount: -1}},
		{"too many rings", Geometry{Width: 600, Height: 600, RingCount: 1 << 40}},
		{"negative radius", Geometry{Width: 600, Height: 600, MinRadius: -5, RingCount: 1}},
		{"padding exceeds canvas", Geometry{Width: 100, Height: 600, MinRadius: 40, OuterPadding: 40, RingCount: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.geom.Validate(); !errors.Is(err, errors.ErrCodeInvalidConfiguration) {
				t.Errorf("Validate() = %v, want INVALID_CONFIGURATION", err)
			}
			if _, err := tt.geom.Rings(); err == nil {
				t.Error("Rings() succeeded on invalid geometry")
			}
		})
	}
}

func TestAssign(t *testing.T) {
	g := DefaultGeometry()
	rings, _ := g.Rings()
	nodes := []hierarchy.Node{{Name: "Query", Depth: 0}, {Name: "User", Depth: 1}, {Name: "String", Depth: 2}}

	got, err := Assign(nodes, rings, g)
	if err != nil {
		t.Fatal(err)
	}
	want := []struct{ x, y, r float64 }{{300, 300, 0}, {150, 300, 150}, {40, 300, 260}}
	for i, p := range got {
		if p.Node != nodes[i] {
			t.Errorf("node %d = %v, want %v", i, p.Node, nodes[i])
		}
		if !near(p.X, want[i].x) || !near(p.Y, want[i].y) || p.Radius != want[i].r {
			t.Errorf("%s at (%g, %g) r=%g, want (%g, %g) r=%g", p.Name, p.X, p.Y, p.Radius, want[i].x, want[i].y, want[i].r)
		}
	}
}

func TestAssignQuarterSlots(t *testing.T) {
	g := Geometry{Width: 200, Height: 200, MinRadius: 0, OuterPadding: 0, RingCount: 1}
	rings, _ := g.Rings()
	var nodes []hierarchy.Node
	for i := 0; i < 4; i++ {
		nodes = append(nodes, hierarchy.Node{Name: fmt.Sprint("N", i), Depth: 1})
	}
	got, err := Assign(nodes, rings, g)
	if err != nil {
		t.Fatal(err)
	}

	// First slot is centered at 45 degrees, above and right of center.
	d := 100 * math.Sqrt2 / 2
	want := [][2]float64{{100 + d, 100 - d}, {100 - d, 100 - d}, {100 - d, 100 + d}, {100 + d, 100 + d}}
	for i, p := range got {
		if !near(p.X, want[i][0]) || !near(p.Y, want[i][1]) {
			t.Errorf("slot %d = (%g, %g), want %v", i, p.X, p.Y, want[i])
		}
	}
}

func TestAssignErrors(t *testing.T) {
	g := DefaultGeometry()
	rings, _ := g.Rings()

	_, err := Assign([]hierarchy.Node{{Name: "Deep", Depth: 3}}, rings, g)
	if !errors.Is(err, errors.ErrCodeInvalidConfiguration) {
		t.Errorf("depth beyond rings: err = %v", err)
	}
	_, err = Assign([]hierarchy.Node{{Name: "Neg", Depth: -1}}, rings, g)
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("negative depth: err = %v", err)
	}
}

func TestAssignEmpty(t *testing.T) {
	got, err := Assign(nil, nil, DefaultGeometry())
	if err != nil || len(got) != 0 {
		t.Errorf("Assign(nil) = %v, %v", got, err)
	}
}

func TestSlotProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	props := gopter.NewProperties(parameters)

	props.Property("slots lie on the ring", prop.ForAll(
		func(n int, r float64) bool {
			for i := 0; i < n; i++ {
				x, y := Slot(300, 300, r, i, n)
				if math.Abs(math.Hypot(x-300, y-300)-r) > 1e-6 {
					return false
				}
			}
			return true
		},
		gen.IntRange(1, 64), gen.Float64Range(1, 1000),
	))

	props.Property("consecutive slots are evenly spaced", prop.ForAll(
		func(n int, r float64) bool {
			if n < 2 {
				return true
			}
			want := 2 * r * math.Sin(math.Pi/float64(n))
			for i := 0; i < n; i++ {
				x0, y0 := Slot(0, 0, r, i, n)
				x1, y1 := Slot(0, 0, r, (i+1)%n, n)
				if math.Abs(math.Hypot(x1-x0, y1-y0)-want) > 1e-6 {
					return false
				}
			}
			return true
		},
		gen.IntRange(1, 64), gen.Float64Range(1, 1000),
	))

	props.Property("every node lands on its depth's ring", prop.ForAll(
		func(depths []int) bool {
			g := Geometry{Width: 800, Height: 600, MinRadius: 30, OuterPadding: 20, RingCount: 4}
			rings, err := g.Rings()
			if err != nil {
				return false
			}
			nodes := make([]hierarchy.Node, len(depths))
			for i, d := range depths {
				nodes[i] = hierarchy.Node{Name: fmt.Sprint("T", i), Depth: d}
			}
			got, err := Assign(nodes, rings, g)
			if err != nil {
				return false
			}
			radius := map[int]float64{0: 0}
			for _, r := range rings {
				radius[r.Depth] = r.Radius
			}
			for _, p := range got {
				if math.Abs(math.Hypot(p.X-400, p.Y-300)-radius[p.Depth]) > 1e-6 {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.IntRange(0, 4)),
	))

	props.TestingRun(t)
}
