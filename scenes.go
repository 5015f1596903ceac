package tendril

import "math"

// Heading constants in screen coordinates (y grows downward).
const (
	Up   = -math.Pi / 2
	Down = math.Pi / 2
)

// PlantOrigin is a single trunk rising from the bottom center of v.
func PlantOrigin(v Viewport) Origin {
	return Origin{Trunks: []Trunk{{
		Position:  Vec2{v.Width / 2, v.Height - 15},
		Heading:   Up,
		Lifetime:  int((v.Height - 15) / 4),
		Thickness: 30,
		Role:      Role{Kind: RoleTrunk},
	}}}
}

// RootsOrigin is a single education root hanging from the top center of v.
func RootsOrigin(v Viewport) Origin {
	return Origin{Trunks: []Trunk{{
		Position:  Vec2{v.Width / 2, 10},
		Heading:   Down,
		Lifetime:  int(v.Height / 20),
		Thickness: 18,
		Role:      Role{Kind: RoleEducation, Name: "Education"},
	}}}
}

// VinesOrigin plants one vine from a random edge of v: anywhere along the
// bottom, or partway up the left or right side. Vines grow roughly upward
// and steer around avoid when it is set.
func VinesOrigin(v Viewport, src Source, lifetime int, thickness float64, avoid *Circle) Origin {
	var pos Vec2
	var tilt float64
	switch int(src.Float64() * 3) {
	case 0:
		pos = Vec2{Range{10, v.Width - 10}.Random(src), v.Height + 10}
		tilt = Range{-math.Pi / 3, math.Pi / 3}.Random(src)
	case 1:
		pos = Vec2{10, Range{30, v.Height - 30}.Random(src)}
		tilt = Range{-math.Pi / 6, math.Pi / 6}.Random(src)
	default:
		pos = Vec2{v.Width - 10, Range{30, v.Height - 30}.Random(src)}
		tilt = Range{-math.Pi / 6, math.Pi / 6}.Random(src)
	}
	return Origin{
		Trunks: []Trunk{{
			Position:  pos,
			Heading:   Up + tilt,
			Lifetime:  lifetime,
			Thickness: thickness,
		}},
		Avoid: avoid,
	}
}

// HaloTrunk is a vine that circles c once, starting at the top. Its
// lifetime covers the circumference at the given step size.
func HaloTrunk(c Circle, step, thickness float64) Trunk {
	lifetime := 0
	if c.R > 0 && step > 0 {
		lifetime = int(math.Ceil(2 * math.Pi * c.R / step))
	}
	return Trunk{
		Position:  Vec2{c.X, c.Y - c.R},
		Heading:   Up,
		Lifetime:  lifetime,
		Thickness: thickness,
		Orbit:     &c,
	}
}
