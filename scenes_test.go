package tendril

import (
	"math"
	"testing"
)

func TestPlantAndRootsOrigins(t *testing.T) {
	v := Viewport{Width: 800, Height: 615}
	plant := PlantOrigin(v)
	if len(plant.Trunks) != 1 {
		t.Fatalf("plant trunks = %d", len(plant.Trunks))
	}
	p := plant.Trunks[0]
	if p.Position != (Vec2{400, 600}) || p.Heading != Up || p.Lifetime != 150 || p.Thickness != 30 {
		t.Errorf("plant trunk = %+v", p)
	}

	r := RootsOrigin(Viewport{Width: 800, Height: 600}).Trunks[0]
	if r.Position != (Vec2{400, 10}) || r.Heading != Down || r.Lifetime != 30 || r.Role.Kind != RoleEducation {
		t.Errorf("roots trunk = %+v", r)
	}
}

func TestVinesOriginEdges(t *testing.T) {
	v := Viewport{Width: 400, Height: 300}
	avoid := &Circle{X: 200, Y: 150, R: 50}
	tests := []struct {
		name string
		src  Source
		ok   func(Trunk) bool
	}{
		{"bottom", NewSequenceSource(0.1, 0.5, 0.5), func(tr Trunk) bool {
			return tr.Position == (Vec2{200, 310}) && tr.Heading == Up
		}},
		{"left", NewSequenceSource(0.5, 0.5, 0.5), func(tr Trunk) bool {
			return tr.Position == (Vec2{10, 150}) && tr.Heading == Up
		}},
		{"right", NewSequenceSource(0.9, 0, 1), func(tr Trunk) bool {
			return tr.Position == (Vec2{390, 30}) && math.Abs(tr.Heading-(Up+math.Pi/6)) < 1e-12
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := VinesOrigin(v, tt.src, 190, 20, avoid)
			if len(o.Trunks) != 1 || o.Avoid != avoid {
				t.Fatalf("origin = %+v", o)
			}
			tr := o.Trunks[0]
			if !tt.ok(tr) || tr.Lifetime != 190 || tr.Thickness != 20 {
				t.Errorf("trunk = %+v", tr)
			}
		})
	}
}

func TestHaloTrunk(t *testing.T) {
	tr := HaloTrunk(Circle{X: 10, Y: 20, R: 5}, 1, 3)
	if tr.Position != (Vec2{10, 15}) || tr.Lifetime != 32 || tr.Orbit == nil || tr.Orbit.R != 5 {
		t.Errorf("halo = %+v", tr)
	}
	if HaloTrunk(Circle{R: 0}, 3, 3).Lifetime != 0 {
		t.Error("zero radius halo should have no lifetime")
	}
	if HaloTrunk(Circle{R: 10}, 0, 3).Lifetime != 0 {
		t.Error("zero step halo should have no lifetime")
	}
}
