/*
Package bundle generates sets of dynamic font descriptions which are compiled
together.

A bundle is an output directory plus a list of descriptions. Descriptions of a
bundle usually share a font stack and differ in name, size or style:

	bundles:
	  - dir: terraria
	    fonts: [YOzCbBlack]
	    descriptions:
	      - name: Medium_Text
	        size: 12
	      - name: Large_Text
	        size: 24

Code-points are allocated once per distinct font stack, every description is
written into the bundle's directory, and an asset compiler, if configured, is
run once per directory.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package bundle

import "github.com/npillmayer/schuko/tracing"

// tracer traces with key 'fontregions.bundle'
func tracer() tracing.Trace {
	return tracing.Select("fontregions.bundle")
}
