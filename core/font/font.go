/*
Package font is for loading fonts and querying their character coverage.

We stick to the following definitions:

* A "typeface" is a family of fonts. An example is "Helvetica".
This corresponds to a TrueType "collection" (*.ttc).

* A "scalable font" is a font, i.e. a variant of a typeface with a
certain weight, slant, etc.  An example is "Helvetica regular".

Please note that Go (Golang) does use the terms "font" and "face"
differently–actually more or less in an opposite manner.

Coverage of a font is read from its 'cmap' table, using the SFNT parser
of golang.org/x/image. We never rasterize glyphs.

TODO: font collections (*.ttc), e.g., /System/Library/Fonts/Helvetica.ttc

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package font

import (
	"os"
	"strings"
	"sync"
	"unicode"

	"github.com/npillmayer/fontregions/core/cpset"
	"github.com/npillmayer/schuko/tracing"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/sfnt"
)

// tracer traces with key 'fontregions.font'
func tracer() tracing.Trace {
	return tracing.Select("fontregions.font")
}

// ScalableFont is an internal representation of an outline-font of type
// TTF of OTF.
type ScalableFont struct {
	Fontname string
	Family   string
	Filepath string     // file path
	Binary   []byte     // raw data
	SFNT     *sfnt.Font // the font's container
}

// LoadOpenTypeFont loads an OpenType font (TTF or OTF) from a file.
func LoadOpenTypeFont(fontfile string) (*ScalableFont, error) {
	bytez, err := os.ReadFile(fontfile)
	if err != nil {
		return nil, err
	}
	f, err := ParseOpenTypeFont(bytez)
	if err != nil {
		return nil, err
	}
	f.Filepath = fontfile
	return f, nil
}

// ParseOpenTypeFont loads an OpenType font (TTF or OTF) from memory.
func ParseOpenTypeFont(fbytes []byte) (f *ScalableFont, err error) {
	f = &ScalableFont{Binary: fbytes}
	f.SFNT, err = sfnt.Parse(f.Binary)
	if err != nil {
		return nil, err
	}
	if f.Fontname, err = f.SFNT.Name(nil, sfnt.NameIDFull); err != nil {
		tracer().Debugf("font has no full name: %v", err)
		f.Fontname = ""
	}
	if f.Family, err = f.SFNT.Name(nil, sfnt.NameIDFamily); err != nil {
		f.Family = ""
	}
	tracer().Debugf("loaded and parsed SFNT %s", f.Fontname)
	return f, nil
}

// Coverage calls yield for every maximal run of code-points the font has a
// glyph for, in ascending order. Surrogates are never reported.
//
// The font's cmap is queried for every Unicode scalar value.
func (sf *ScalableFont) Coverage(yield func(cpset.Range)) error {
	var buf sfnt.Buffer
	var start rune
	inRun := false
	flush := func(end rune) {
		if inRun {
			yield(cpset.Range{Lo: start, Hi: end})
			inRun = false
		}
	}
	for r := rune(0); r <= unicode.MaxRune; r++ {
		if r == 0xD800 { // skip surrogates
			flush(r - 1)
			r = 0xDFFF
			continue
		}
		gid, err := sf.SFNT.GlyphIndex(&buf, r)
		if err != nil {
			tracer().Errorf("cmap lookup for %#U failed in font %s: %v", r, sf.Fontname, err)
			return err
		}
		if gid != 0 {
			if !inRun {
				start, inRun = r, true
			}
		} else {
			flush(r - 1)
		}
	}
	flush(unicode.MaxRune)
	return nil
}

// --- Fallback font ---------------------------------------------------------

// FallbackFont returns a font to be used if everything else failes. It is
// always present. Currently we use Go Sans.
func FallbackFont() *ScalableFont {
	fallbackFontLoading.Do(func() {
		fallbackFont = loadFallbackFont()
	})
	return fallbackFont
}

var fallbackFontLoading sync.Once

// fallbackFont is a font that is used if everything else failes.
// Currently we use Go Sans.
var fallbackFont *ScalableFont

func loadFallbackFont() *ScalableFont {
	var err error
	gofont := &ScalableFont{
		Fontname: "Go Regular",
		Family:   "Go",
		Filepath: "internal",
		Binary:   goregular.TTF,
	}
	gofont.SFNT, err = sfnt.Parse(gofont.Binary)
	if err != nil {
		panic("cannot load default font") // this cannot happen
	}
	return gofont
}

// ---------------------------------------------------------------------------

// NormalizeFontname returns a key for a font name, suitable for lookups:
// lower case, blanks replaced by '_', file extension stripped.
func NormalizeFontname(fname string) string {
	fname = strings.TrimSpace(fname)
	fname = strings.ReplaceAll(fname, " ", "_")
	if dot := strings.LastIndex(fname, "."); dot > 0 {
		switch strings.ToLower(fname[dot:]) {
		case ".ttf", ".otf", ".ttc":
			fname = fname[:dot]
		}
	}
	fname = strings.ToLower(fname)
	return fname
}
