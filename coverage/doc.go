/*
Package coverage distributes the Unicode code-point space among a list of fonts.

Fonts are given in priority order. Every code-point supported by at least one
of the fonts is assigned to the first font in the list which supports it, so
that the resulting coverage sets are pairwise disjoint:

	cfg := coverage.DefaultConfig()
	cfg.Fonts = []string{"YOzCbBlack", "Noto Sans JP"}
	allocs, err := coverage.Allocate(cfg, source)

A range of low control code-points is always excluded, and a designated
fallback code-point must end up in one of the coverage sets, otherwise the
allocation fails as a whole.

Allocations are flattened into regions, i.e., code-point ranges tagged with
the font they should be rendered from (see EmitRegions).

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package coverage

import "github.com/npillmayer/schuko/tracing"

// tracer traces with key 'fontregions.coverage'
func tracer() tracing.Trace {
	return tracing.Select("fontregions.coverage")
}
