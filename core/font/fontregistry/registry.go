package fontregistry

import (
	"path"
	"strings"
	"sync"

	"github.com/emirpasic/gods/maps/treemap"
	"github.com/npillmayer/fontregions/core/cpset"
	"github.com/npillmayer/fontregions/core/font"
	"github.com/npillmayer/schuko/tracing"
	xfont "golang.org/x/image/font"
)

// Registry is a type for holding information about loaded fonts and their
// coverage. Entries are kept sorted by normalized font name.
type Registry struct {
	sync.Mutex
	fonts    *treemap.Map // normalized name -> *font.ScalableFont
	coverage *treemap.Map // normalized name -> *cpset.Set
}

var globalFontRegistry *Registry

var globalRegistryCreation sync.Once

// GlobalRegistry is an application-wide singleton to hold information about
// loaded fonts.
func GlobalRegistry() *Registry {
	globalRegistryCreation.Do(func() {
		globalFontRegistry = NewRegistry()
	})
	return globalFontRegistry
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	fr := &Registry{
		fonts:    treemap.NewWithStringComparator(),
		coverage: treemap.NewWithStringComparator(),
	}
	return fr
}

// StoreFont pushes a font into the registry if it isn't contained yet.
//
// The font will be stored using the normalized font name as a key. If this
// key is already associated with a font, that font will not be overridden.
func (fr *Registry) StoreFont(name string, f *font.ScalableFont) {
	if f == nil {
		tracer().Errorf("registry cannot store null font")
		return
	}
	key := font.NormalizeFontname(name)
	fr.Lock()
	defer fr.Unlock()
	if _, ok := fr.fonts.Get(key); !ok {
		tracer().Debugf("registry stores font %s as %s", f.Fontname, key)
		fr.fonts.Put(key, f)
	}
}

// Font returns the font stored under name, if any.
func (fr *Registry) Font(name string) (*font.ScalableFont, bool) {
	key := font.NormalizeFontname(name)
	fr.Lock()
	defer fr.Unlock()
	if f, ok := fr.fonts.Get(key); ok {
		return f.(*font.ScalableFont), true
	}
	return nil, false
}

// StoreCoverage remembers the raw coverage of a font. The registry keeps its
// own copy.
func (fr *Registry) StoreCoverage(name string, cov *cpset.Set) {
	if cov == nil {
		return
	}
	key := font.NormalizeFontname(name)
	fr.Lock()
	defer fr.Unlock()
	fr.coverage.Put(key, cov.Clone())
}

// Coverage returns a copy of the raw coverage stored for a font, if any.
func (fr *Registry) Coverage(name string) (*cpset.Set, bool) {
	key := font.NormalizeFontname(name)
	fr.Lock()
	defer fr.Unlock()
	if cov, ok := fr.coverage.Get(key); ok {
		return cov.(*cpset.Set).Clone(), true
	}
	return nil, false
}

// Names returns the normalized names of all stored fonts, sorted.
func (fr *Registry) Names() []string {
	fr.Lock()
	defer fr.Unlock()
	names := make([]string, 0, fr.fonts.Size())
	for _, k := range fr.fonts.Keys() {
		names = append(names, k.(string))
	}
	return names
}

// LogFontList is a helper function to dump the list of known fonts
// in a registry to the trace-file (log-level Info).
func (fr *Registry) LogFontList() {
	level := tracer().GetTraceLevel()
	tracer().SetTraceLevel(tracing.LevelInfo)
	fr.Lock()
	tracer().Infof("--- registered fonts ---")
	it := fr.fonts.Iterator()
	for it.Next() {
		f := it.Value().(*font.ScalableFont)
		if cov, ok := fr.coverage.Get(it.Key()); ok {
			tracer().Infof("font [%s] = %v, %d code-points", it.Key(), f.Fontname, cov.(*cpset.Set).Count())
		} else {
			tracer().Infof("font [%s] = %v", it.Key(), f.Fontname)
		}
	}
	tracer().Infof("------------------------")
	fr.Unlock()
	tracer().SetTraceLevel(level)
}

// GuessStyleAndWeight trys to guess a font's style and weight from the
// font's file name.
func GuessStyleAndWeight(fontfilename string) (xfont.Style, xfont.Weight) {
	fontfilename = path.Base(fontfilename)
	ext := path.Ext(fontfilename)
	fontfilename = strings.ToLower(fontfilename[:len(fontfilename)-len(ext)])
	s := strings.Split(fontfilename, "-")
	if len(s) > 1 {
		switch s[len(s)-1] {
		case "light", "xlight":
			return xfont.StyleNormal, xfont.WeightLight
		case "normal", "medium", "regular", "r":
			return xfont.StyleNormal, xfont.WeightNormal
		case "bold", "b":
			return xfont.StyleNormal, xfont.WeightBold
		case "xbold", "black":
			return xfont.StyleNormal, xfont.WeightExtraBold
		}
	}
	style, weight := xfont.StyleNormal, xfont.WeightNormal
	if strings.Contains(fontfilename, "italic") {
		style = xfont.StyleItalic
	}
	if strings.Contains(fontfilename, "light") {
		weight = xfont.WeightLight
	}
	if strings.Contains(fontfilename, "bold") {
		weight = xfont.WeightBold
	}
	return style, weight
}

// MatchConfidence is a type for expressing the confidence level of font matching.
type MatchConfidence int

const (
	NoConfidence      MatchConfidence = 0
	LowConfidence     MatchConfidence = 2
	HighConfidence    MatchConfidence = 3
	PerfectConfidence MatchConfidence = 4
)

// MatchFontFile rates how well a font file's name matches a font name.
// Blanks, hyphens and underscores are ignored. A file whose base name equals
// the font name is a perfect match; if it just starts with the font name, the
// file is rated high for regular fonts and low for other variants.
func MatchFontFile(fontfilename, fontname string) MatchConfidence {
	base := path.Base(fontfilename)
	base = compact(base[:len(base)-len(path.Ext(base))])
	name := compact(fontname)
	if name == "" || !strings.HasPrefix(base, name) {
		return NoConfidence
	}
	if base == name {
		return PerfectConfidence
	}
	style, weight := GuessStyleAndWeight(fontfilename)
	if style == xfont.StyleNormal && weight == xfont.WeightNormal {
		return HighConfidence
	}
	return LowConfidence
}

// ClosestMatch scans a list of font file paths and returns the one matching
// fontname best. If no file matches, returns `NoConfidence`.
func ClosestMatch(fontfiles []string, fontname string) (match string, confidence MatchConfidence) {
	for _, f := range fontfiles {
		if c := MatchFontFile(f, fontname); c > confidence {
			match, confidence = f, c
		}
	}
	tracer().Debugf("closest match for %s is %q with confidence %d", fontname, match, confidence)
	return
}

func compact(s string) string {
	s = strings.ToLower(s)
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '_':
			return -1
		}
		return r
	}, s)
}
