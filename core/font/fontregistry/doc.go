/*
Package fontregistry manages a registry for loaded fonts and their coverage,
and knows how to match font files to font names.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package fontregistry

import "github.com/npillmayer/schuko/tracing"

// tracer writes to trace with key 'fontregions.font'
func tracer() tracing.Trace {
	return tracing.Select("fontregions.font")
}
