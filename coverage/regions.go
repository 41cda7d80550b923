package coverage

import "fmt"

// Region is a range of code-points, tagged with the font it should be rendered
// from. An empty Font denotes the primary font of a descriptor.
type Region struct {
	Lo, Hi rune
	Font   string
}

func (r Region) String() string {
	font := r.Font
	if font == "" {
		font = "<primary>"
	}
	if r.Lo == r.Hi {
		return fmt.Sprintf("U+%04X (%s)", r.Lo, font)
	}
	return fmt.Sprintf("U+%04X..U+%04X (%s)", r.Lo, r.Hi, font)
}

// EmitOptions control how allocations are turned into regions.
type EmitOptions struct {
	// Primary is the font whose regions are left untagged. If empty, the first
	// allocation's font is primary.
	Primary string
	// SkipEmpty drops fonts without any code-points from the output.
	SkipEmpty bool
}

// EmitRegions flattens each allocation into a sequence of regions, ascending by
// code-point. The outer slice follows the order of allocs, i.e. font priority.
func EmitRegions(allocs []FontAllocation, opts EmitOptions) [][]Region {
	if len(allocs) == 0 {
		return nil
	}
	primary := opts.Primary
	if primary == "" {
		primary = allocs[0].Font
	}
	out := make([][]Region, 0, len(allocs))
	for _, a := range allocs {
		if a.Coverage == nil || a.Coverage.IsEmpty() {
			if opts.SkipEmpty {
				tracer().Debugf("font %s has no code-points left, skipping", a.Font)
				continue
			}
			out = append(out, []Region{})
			continue
		}
		tag := a.Font
		if tag == primary {
			tag = ""
		}
		ranges := a.Coverage.Ranges()
		regions := make([]Region, len(ranges))
		for i, r := range ranges {
			regions[i] = Region{Lo: r.Lo, Hi: r.Hi, Font: tag}
		}
		out = append(out, regions)
	}
	return out
}

// Flatten concatenates per-font region sequences into a single stream.
func Flatten(perFont [][]Region) []Region {
	n := 0
	for _, rs := range perFont {
		n += len(rs)
	}
	flat := make([]Region, 0, n)
	for _, rs := range perFont {
		flat = append(flat, rs...)
	}
	return flat
}
