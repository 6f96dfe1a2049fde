package seesaw

import "fmt"

// Tier returns the size tier of weight. Weights above the last tier's bound
// fall into the last tier.
func (p Params) Tier(weight int) SizeTier {
	for _, t := range p.Tiers {
		if weight <= t.MaxWeight {
			return t
		}
	}
	return p.Tiers[len(p.Tiers)-1]
}

func (p Params) Radius(weight int) float64 { return p.Tier(weight).Width / 2 }

func (p Params) SizeClass(weight int) string { return p.Tier(weight).Name }

// Margin is the clearance kept between a resting item's center and the
// plank end: half its width, never less than EdgeMargin.
func (p Params) Margin(weight int) float64 {
	r := p.Radius(weight)
	if r < p.EdgeMargin {
		return p.EdgeMargin
	}
	return r
}

// Limit is the largest |x| an item of weight may rest at.
func (p Params) Limit(weight int) float64 {
	return p.HalfLength() - p.Margin(weight)
}

func (p Params) ValidateWeight(weight int) error {
	if weight < p.MinWeight || weight > p.MaxWeight {
		return fmt.Errorf("%w: %d not in [%d,%d]", ErrWeightOutOfRange, weight, p.MinWeight, p.MaxWeight)
	}
	return nil
}

// ClampWeight pins weight into [MinWeight, MaxWeight].
func (p Params) ClampWeight(weight int) int {
	if weight < p.MinWeight {
		return p.MinWeight
	}
	if weight > p.MaxWeight {
		return p.MaxWeight
	}
	return weight
}

func (p Params) Color(token int) string {
	n := len(p.Palette)
	return p.Palette[((token%n)+n)%n]
}
