/*
Package resources resolves fonts for an application.

Fonts are looked up by name, either among the fonts packaged with this module
or among the fonts installed on the host system. As resolving may be a
time-consuming task, fonts may be resolved in an async/await fashion:

	promise := resolver.ResolveFontAsync("Noto Sans JP")
	…
	f, err := promise.Font()   // blocks until loading has completed

FontSource adapts a resolver to the coverage.GlyphSource interface.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package resources

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces to tracing key 'fontregions.resources'.
func tracer() tracing.Trace {
	return tracing.Select("fontregions.resources")
}
