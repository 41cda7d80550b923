package resources

import (
	"context"
	"fmt"
	"strings"

	"github.com/flopp/go-findfont"
	"github.com/npillmayer/fontregions/core"
	"github.com/npillmayer/fontregions/core/cpset"
	"github.com/npillmayer/fontregions/core/font"
	"github.com/npillmayer/fontregions/core/font/fontregistry"
	"github.com/npillmayer/fontregions/coverage"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gosmallcaps"
)

// NotFound returns an application error for a font which cannot be located.
func NotFound(name string) error {
	e := fmt.Errorf("%w: %s", coverage.ErrFontNotFound, name)
	return core.WrapError(e, core.EMISSING, "font not found: %s", name)
}

// LoadFailure returns an application error for a font which has been located
// but cannot be read or parsed.
func LoadFailure(name string, cause error) error {
	e := fmt.Errorf("%w: %s: %v", coverage.ErrFontLoadFailure, name, cause)
	return core.WrapError(e, core.EINVALID, "failed to load font %s: %v", name, cause)
}

// packaged fonts are always available, independent of the host system.
// Go Regular is the fallback font, see font.FallbackFont.
var packaged = map[string][]byte{
	"go_bold":      gobold.TTF,
	"go_italic":    goitalic.TTF,
	"go_medium":    gomedium.TTF,
	"go_mono":      gomono.TTF,
	"go_smallcaps": gosmallcaps.TTF,
}

// --- Resolver --------------------------------------------------------------

// LookupMode tells how a resolver interprets font names.
type LookupMode int

const (
	// FullName looks for a font by its full name, e.g. "Noto Sans JP Bold",
	// or by its file name.
	FullName LookupMode = iota
	// Family looks for the regular member of a font family, e.g. "Noto Sans JP".
	Family
)

func (mode LookupMode) String() string {
	if mode == Family {
		return "family"
	}
	return "full"
}

// ParseLookupMode reads "full" or "family". An empty string selects FullName.
func ParseLookupMode(s string) (LookupMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "full":
		return FullName, nil
	case "family":
		return Family, nil
	}
	return FullName, core.Error(core.EINVALID, "unknown font lookup mode %q", s)
}

// Resolver locates fonts by name. It searches, in this order,
//
//   - fonts already in the registry,
//   - fonts packaged with this module (the Go fonts, e.g. "Go Regular"),
//   - system fonts, located with github.com/flopp/go-findfont.
//
// Names are interpreted according to Mode. Lookup and List default to
// findfont.Find and findfont.List and may be replaced, e.g. for testing.
type Resolver struct {
	Registry *fontregistry.Registry
	Mode     LookupMode
	Lookup   func(name string) (string, error)
	List     func() []string
}

// NewResolver creates a resolver searching the system's font directories and
// caching into the global font registry.
func NewResolver() *Resolver {
	return &Resolver{
		Registry: fontregistry.GlobalRegistry(),
		Lookup:   findfont.Find,
		List:     findfont.List,
	}
}

// WithMode returns a resolver sharing registry and font lookup with res, but
// interpreting names according to mode.
func (res *Resolver) WithMode(mode LookupMode) *Resolver {
	r := *res
	r.Mode = mode
	return &r
}

// registryKey separates the registry entries of different lookup modes.
func (res *Resolver) registryKey(name string) string {
	if res.Mode == Family {
		return "family " + name
	}
	return name
}

// ResolveFont returns the font for a given name.
// Errors wrap coverage.ErrFontNotFound or coverage.ErrFontLoadFailure.
func (res *Resolver) ResolveFont(name string) (*font.ScalableFont, error) {
	key := res.registryKey(name)
	if f, ok := res.Registry.Font(key); ok {
		tracer().Debugf("font %s found in registry", key)
		return f, nil
	}
	var f *font.ScalableFont
	var err error
	if res.Mode == Family {
		f, err = res.resolveFamily(name)
	} else {
		f, err = res.resolveFullName(name)
	}
	if err != nil {
		return nil, err
	}
	res.Registry.StoreFont(key, f)
	return f, nil
}

func (res *Resolver) resolveFullName(name string) (*font.ScalableFont, error) {
	if f, ok, err := loadPackaged(name, font.NormalizeFontname(name)); ok {
		return f, err
	}
	fpath := res.locate(name)
	if fpath == "" {
		tracer().Infof("font %s is neither packaged nor a system font", name)
		return nil, NotFound(name)
	}
	tracer().Debugf("%s is a system font at %s", name, fpath)
	f, err := font.LoadOpenTypeFont(fpath)
	if err != nil {
		return nil, LoadFailure(name, err)
	}
	return f, nil
}

// resolveFamily prefers the regular variant of a family. The font found has
// to carry the family name asked for.
func (res *Resolver) resolveFamily(name string) (f *font.ScalableFont, err error) {
	key := font.NormalizeFontname(name)
	var ok bool
	if f, ok, err = loadPackaged(name, key+"_regular"); !ok {
		f, ok, err = loadPackaged(name, key)
	}
	if err != nil {
		return nil, err
	}
	if !ok {
		var fpath string
		var confidence fontregistry.MatchConfidence
		if res.List != nil {
			fpath, confidence = fontregistry.ClosestMatch(res.List(), name)
		}
		if confidence == fontregistry.NoConfidence {
			tracer().Infof("no font of family %s found", name)
			return nil, NotFound(name)
		}
		if f, err = font.LoadOpenTypeFont(fpath); err != nil {
			return nil, LoadFailure(name, err)
		}
	}
	if f.Family != "" && !strings.EqualFold(f.Family, strings.TrimSpace(name)) {
		tracer().Infof("font %s belongs to family %s, not to %s", f.Fontname, f.Family, name)
		return nil, NotFound(name)
	}
	return f, nil
}

// loadPackaged returns a packaged font, if key names one.
func loadPackaged(name, key string) (*font.ScalableFont, bool, error) {
	if key == "go_regular" {
		return font.FallbackFont(), true, nil
	}
	bytez, ok := packaged[key]
	if !ok {
		return nil, false, nil
	}
	tracer().Debugf("found font %s as packaged font", name)
	f, err := font.ParseOpenTypeFont(bytez)
	if err != nil {
		return nil, true, LoadFailure(name, err)
	}
	f.Filepath = "internal"
	return f, true, nil
}

func (res *Resolver) locate(name string) string {
	if res.Lookup != nil {
		if fpath, err := res.Lookup(name); err == nil && fpath != "" {
			return fpath
		}
	}
	if res.List == nil {
		return ""
	}
	fpath, confidence := fontregistry.ClosestMatch(res.List(), name)
	if confidence > fontregistry.LowConfidence {
		return fpath
	}
	return ""
}

// --- Async resolving -------------------------------------------------------

// FontPromise is returned by asynchronous font resolving. Calling Font blocks
// until the font is loaded.
type FontPromise interface {
	Font() (*font.ScalableFont, error)
	FontContext(ctx context.Context) (*font.ScalableFont, error)
}

type fontLoader struct {
	await func(ctx context.Context) (*font.ScalableFont, error)
}

func (loader fontLoader) Font() (*font.ScalableFont, error) {
	return loader.await(context.Background())
}

func (loader fontLoader) FontContext(ctx context.Context) (*font.ScalableFont, error) {
	return loader.await(ctx)
}

// ResolveFontAsync resolves a font in the background. The promise may be
// awaited more than once, and by more than one goroutine.
func (res *Resolver) ResolveFontAsync(name string) FontPromise {
	done := make(chan struct{})
	var f *font.ScalableFont
	var err error
	go func() {
		f, err = res.ResolveFont(name)
		close(done)
	}()
	return fontLoader{
		await: func(ctx context.Context) (*font.ScalableFont, error) {
			select {
			case <-done:
				return f, err
			default:
			}
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-done:
				return f, err
			}
		},
	}
}

// Prefetch resolves a list of fonts concurrently and waits for all of them.
// The first error, in list order, is returned.
func (res *Resolver) Prefetch(ctx context.Context, names ...string) error {
	promises := make([]FontPromise, len(names))
	for i, name := range names {
		promises[i] = res.ResolveFontAsync(name)
	}
	var firstErr error
	for _, p := range promises {
		if _, err := p.FontContext(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// --- Glyph source ----------------------------------------------------------

// FontSource reports the coverage of fonts located by a resolver. It
// implements coverage.GlyphSource. Coverage is cached in the resolver's
// registry.
type FontSource struct {
	Resolver *Resolver
}

var _ coverage.GlyphSource = FontSource{}

// Codepoints calls yield for every range of code-points font fontID has glyphs for.
func (src FontSource) Codepoints(fontID string, yield func(cpset.Range)) error {
	registry := src.Resolver.Registry
	key := src.Resolver.registryKey(fontID)
	cov, ok := registry.Coverage(key)
	if !ok {
		f, err := src.Resolver.ResolveFont(fontID)
		if err != nil {
			return err
		}
		cov = &cpset.Set{}
		if err = f.Coverage(cov.Add); err != nil {
			return LoadFailure(fontID, err)
		}
		tracer().Infof("font %s covers %d code-points in %d ranges", fontID, cov.Count(), cov.Len())
		registry.StoreCoverage(key, cov)
	}
	for _, r := range cov.Ranges() {
		yield(r)
	}
	return nil
}
