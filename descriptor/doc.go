/*
Package descriptor renders code-point regions into a dynamic font description,
the XML document consumed by XNA-style content pipelines to bake sprite fonts.

A description names a base font and a list of character regions. Regions
rendered from a font other than the base font carry that font's name:

	<XnaContent xmlns:Graphics="ReLogic.Content.Pipeline">
	  <Asset Type="Graphics:DynamicFontDescription">
	    <FontName>Noto Sans</FontName>
	    ...
	    <CharacterRegions>
	      <CharacterRegion>
	        <Start>&#x20;</Start>
	        <End>&#x7E;</End>
	      </CharacterRegion>
	      <CharacterRegion>
	        <FontName>Noto Sans JP</FontName>
	        <Start>&#x3041;</Start>
	        <End>&#x3096;</End>
	      </CharacterRegion>
	    </CharacterRegions>
	  </Asset>
	</XnaContent>

Characters are always written as hexadecimal character references.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package descriptor

import "github.com/npillmayer/schuko/tracing"

// tracer writes to trace with key 'fontregions.descriptor'
func tracer() tracing.Trace {
	return tracing.Select("fontregions.descriptor")
}
