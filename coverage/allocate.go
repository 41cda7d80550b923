package coverage

import (
	"fmt"

	"github.com/npillmayer/fontregions/core"
	"github.com/npillmayer/fontregions/core/cpset"
)

// GlyphSource enumerates the code-points a font supports.
//
// Codepoints resolves fontID to a loadable font and calls yield for every
// supported code-point or range of code-points. Items may come in any order
// and may overlap. Failures are reported as ErrFontNotFound or
// ErrFontLoadFailure (possibly wrapped).
type GlyphSource interface {
	Codepoints(fontID string, yield func(cpset.Range)) error
}

// GlyphSourceFunc adapts a function to the GlyphSource interface.
type GlyphSourceFunc func(fontID string, yield func(cpset.Range)) error

// Codepoints calls f(fontID, yield).
func (f GlyphSourceFunc) Codepoints(fontID string, yield func(cpset.Range)) error {
	return f(fontID, yield)
}

// FontAllocation is the final share of the code-point space of a font.
type FontAllocation struct {
	Font     string     // font identifier, as given in Config.Fonts
	Coverage *cpset.Set // code-points to be rendered from this font
}

// Allocate assigns every code-point supported by at least one of the fonts
// in cfg.Fonts to the first font which supports it.
//
// Fonts are processed in priority order. For each font, the raw coverage
// reported by src is reduced by everything claimed by fonts before it, and
// by cfg.Excluded. A font may end up with an empty coverage set, which is
// not an error.
//
// After all fonts have been processed, cfg.Fallback has to be covered by one
// of them. If it is not, Allocate fails with ErrFallbackUnassigned. Any error
// aborts the whole run; no partial result is returned.
func Allocate(cfg Config, src GlyphSource) ([]FontAllocation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if src == nil {
		return nil, core.Error(core.EINTERNAL, "no glyph source to allocate from")
	}
	allocs := make([]FontAllocation, 0, len(cfg.Fonts))
	claimed := &cpset.Set{} // union of all finalized allocations
	for _, fontID := range cfg.Fonts {
		raw := &cpset.Set{}
		if err := src.Codepoints(fontID, raw.Add); err != nil {
			tracer().Errorf("cannot read coverage of font %s: %v", fontID, err)
			return nil, err
		}
		rawCount := raw.Count()
		raw.SubtractSet(claimed)
		raw.Subtract(cfg.Excluded)
		tracer().Debugf("font %s supports %d code-points, %d remain after allocation",
			fontID, rawCount, raw.Count())
		claimed.Union(raw)
		allocs = append(allocs, FontAllocation{Font: fontID, Coverage: raw})
	}
	for _, a := range allocs {
		if a.Coverage.Contains(cfg.Fallback) {
			tracer().Infof("fallback %#U is rendered from font %s", cfg.Fallback, a.Font)
			return allocs, nil
		}
	}
	tracer().Errorf("none of %d fonts supports fallback %#U", len(allocs), cfg.Fallback)
	return nil, core.WrapError(fmt.Errorf("%w: %#U", ErrFallbackUnassigned, cfg.Fallback),
		core.ECOVERAGE, "none of the fonts %v supports the fallback character %#U",
		cfg.Fonts, cfg.Fallback)
}
