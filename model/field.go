package model

// Field is the planar battlefield, Width along x and Depth along z. The human
// side holds the near half (z < Depth/2), the AI the far half.
type Field struct {
	Width float64 `json:"width" yaml:"width"`
	Depth float64 `json:"depth" yaml:"depth"`
}

// Zone is an axis-aligned rectangle on the x/z plane.
type Zone struct {
	MinX, MaxX float64
	MinZ, MaxZ float64
}

// Contains ignores altitude.
func (z Zone) Contains(p Vec3) bool {
	return p.X >= z.MinX && p.X <= z.MaxX && p.Z >= z.MinZ && p.Z <= z.MaxZ
}

// At maps normalized coordinates (u, v in [0,1]) into the zone.
func (z Zone) At(u, v float64) Vec3 {
	return Vec3{
		X: z.MinX + (z.MaxX-z.MinX)*clamp01(u),
		Z: z.MinZ + (z.MaxZ-z.MinZ)*clamp01(v),
	}
}

func (z Zone) Center() Vec3 { return z.At(0.5, 0.5) }

// SideOf returns the faction whose half contains p.
func (f Field) SideOf(p Vec3) Faction {
	if p.Z < f.Depth/2 {
		return Human
	}
	return AI
}

// Contains reports whether p lies on the field.
func (f Field) Contains(p Vec3) bool {
	return Zone{MaxX: f.Width, MaxZ: f.Depth}.Contains(p)
}

// PlacementZone is where a side may put new purchases: the middle of its own
// half, keeping a margin from the map edge and from the front line.
func (f Field) PlacementZone(side Faction) Zone {
	z := Zone{MinX: 0.1 * f.Width, MaxX: 0.9 * f.Width}
	if side == Human {
		z.MinZ, z.MaxZ = 0.1*f.Depth, 0.4*f.Depth
	} else {
		z.MinZ, z.MaxZ = 0.6*f.Depth, 0.9*f.Depth
	}
	return z
}

// TowerSites spreads n towers evenly across a side's back line.
func (f Field) TowerSites(side Faction, n int) []Vec3 {
	if n <= 0 {
		return nil
	}
	z := 0.05 * f.Depth
	if side == AI {
		z = 0.95 * f.Depth
	}
	sites := make([]Vec3, n)
	for i := range sites {
		sites[i] = Vec3{X: f.Width * float64(i+1) / float64(n+1), Z: z}
	}
	return sites
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
