package descriptor

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/npillmayer/fontregions/core"
)

// FontStyle is the style a content pipeline should render glyphs with.
type FontStyle string

const (
	Regular    FontStyle = "Regular"
	Bold       FontStyle = "Bold"
	Italic     FontStyle = "Italic"
	BoldItalic FontStyle = "BoldItalic"
)

// ParseFontStyle parses a style name, ignoring case.
func ParseFontStyle(s string) (FontStyle, error) {
	for _, style := range []FontStyle{Regular, Bold, Italic, BoldItalic} {
		if strings.EqualFold(s, string(style)) {
			return style, nil
		}
	}
	return "", core.Error(core.EINVALID, "unknown font style: %q", s)
}

func (style FontStyle) valid() bool {
	switch style {
	case Regular, Bold, Italic, BoldItalic:
		return true
	}
	return false
}

// VerticalOffset selects the baseline metric of a dynamic font.
type VerticalOffset string

const (
	DefaultFontAscent VerticalOffset = "DefaultFontAscent"
	MaxAscent         VerticalOffset = "MaxAscent"
)

// Options are the settings of a dynamic font description which do not depend
// on code-point coverage.
type Options struct {
	Name             string  // output name; defaults to the base font's name
	Primary          string  // base font; defaults to the first font
	Size             float32 // in points
	Spacing          float32
	UseKerning       bool
	Style            FontStyle
	DefaultCharacter rune
	VerticalOffset   VerticalOffset
	Overrides        map[string]Override // per font, by font name
}

// Override changes size or style for every region rendered from a font.
// Zero values keep the description's setting.
type Override struct {
	Size  float32
	Style FontStyle
}

// DefaultOptions returns 16pt regular glyphs with kerning, using '*' for
// characters without a glyph.
func DefaultOptions() Options {
	return Options{
		Size:             16,
		Spacing:          0,
		UseKerning:       true,
		Style:            Regular,
		DefaultCharacter: '*',
		VerticalOffset:   DefaultFontAscent,
	}
}

// Validate checks the options for values a content pipeline would reject.
func (opts Options) Validate() error {
	if opts.Size <= 0 {
		return core.Error(core.EINVALID, "font size must be positive, is %g", opts.Size)
	}
	if !opts.Style.valid() {
		return core.Error(core.EINVALID, "unknown font style: %q", opts.Style)
	}
	for font, o := range opts.Overrides {
		if o.Size < 0 {
			return core.Error(core.EINVALID, "size override for %s must be positive, is %g", font, o.Size)
		}
		if o.Style != "" && !o.Style.valid() {
			return core.Error(core.EINVALID, "unknown font style for %s: %q", font, o.Style)
		}
	}
	switch opts.VerticalOffset {
	case DefaultFontAscent, MaxAscent:
	default:
		return core.Error(core.EINVALID, "unknown vertical offset: %q", opts.VerticalOffset)
	}
	if !utf8.ValidRune(opts.DefaultCharacter) || opts.DefaultCharacter < 0x20 {
		return core.Error(core.EINVALID, "default character %#U is not printable", opts.DefaultCharacter)
	}
	if strings.ContainsAny(opts.Name, `/\`) {
		return core.Error(core.EINVALID, "descriptor name %q must not contain path separators", opts.Name)
	}
	return nil
}

func (opts Options) String() string {
	return fmt.Sprintf("%s %gpt %s", opts.Name, opts.Size, opts.Style)
}
