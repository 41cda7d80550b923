package bundle

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/npillmayer/fontregions/core"
	"github.com/npillmayer/fontregions/core/font/fontregistry"
	"github.com/npillmayer/fontregions/core/locate/resources"
	"github.com/npillmayer/fontregions/coverage"
	"github.com/npillmayer/fontregions/descriptor"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/suite"
)

// --- Test Suite Preparation ------------------------------------------------

type BundleTestEnviron struct {
	suite.Suite
	gen      *Generator
	compiled *compileRecorder
	tmp      string
}

// listen for 'go test' command --> run test methods
func TestBundles(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontregions.bundle")
	defer teardown()
	suite.Run(t, new(BundleTestEnviron))
}

// run before each test: a generator knowing only the packaged fonts
func (env *BundleTestEnviron) SetupTest() {
	// fonts are resolved concurrently; their tracing stays silent
	for _, key := range []string{"fontregions.resources", "fontregions.font"} {
		tracing.Select(key).SetTraceLevel(tracing.LevelError)
	}
	env.tmp = env.T().TempDir()
	env.compiled = &compileRecorder{}
	env.gen = NewGenerator(&resources.Resolver{Registry: fontregistry.NewRegistry()})
	env.gen.Compiler = env.compiled
}

type compileRecorder struct {
	dirs []string
}

func (rec *compileRecorder) Compile(ctx context.Context, dir string) error {
	rec.dirs = append(rec.dirs, dir)
	return nil
}

func description(name string, size float32, style descriptor.FontStyle) Description {
	opts := descriptor.DefaultOptions()
	opts.Name, opts.Size, opts.Style = name, size, style
	return Description{Options: opts}
}

func (env *BundleTestEnviron) read(path string) string {
	doc, err := os.ReadFile(path)
	env.Require().NoError(err)
	return string(doc)
}

// --- Tests -----------------------------------------------------------------

func (env *BundleTestEnviron) TestSizesShareAllocation() {
	b := Bundle{
		Dir:   filepath.Join(env.tmp, "terraria"),
		Fonts: []string{"Go Mono", "Go Regular"},
		Descriptions: []Description{
			description("Medium_Text", 12, descriptor.Regular),
			description("Large_Text", 24, descriptor.Regular),
		},
	}
	r, err := env.gen.Generate(context.Background(), b)
	env.Require().NoError(err)
	env.Equal(1, r.Allocations, "expected one allocation for a shared font stack")
	env.Equal([]string{
		filepath.Join(b.Dir, "Medium_Text.xml"),
		filepath.Join(b.Dir, "Large_Text.xml"),
	}, r.Files)
	medium := env.read(r.Files[0])
	env.Contains(medium, "<FontName>Go Mono</FontName>")
	env.Contains(medium, "<Size>12</Size>")
	env.Contains(env.read(r.Files[1]), "<Size>24</Size>")
	env.Equal([]string{filepath.Clean(b.Dir)}, env.compiled.dirs)
}

func (env *BundleTestEnviron) TestFamilyLookupAndStyles() {
	dialogue := description("Dialogue", 32, descriptor.Regular)
	dialogue.Fonts = []string{"Go Mono"}
	b := Bundle{
		Dir:    filepath.Join(env.tmp, "WrathOfTheGods"),
		Lookup: resources.Family,
		Fonts:  []string{"Go"},
		Descriptions: []Description{
			description("SolynText", 28, descriptor.Regular),
			description("SolynTextItalics", 28, descriptor.Italic),
			dialogue,
		},
	}
	r, err := env.gen.Generate(context.Background(), b)
	env.Require().NoError(err)
	env.Equal(2, r.Allocations)
	env.Require().Len(r.Files, 3)
	italics := env.read(r.Files[1])
	env.Contains(italics, "<FontName>Go</FontName>")
	env.Contains(italics, "<Style>Italic</Style>")
	env.Contains(env.read(r.Files[2]), "<FontName>Go Mono</FontName>")
}

func (env *BundleTestEnviron) TestAllocationsCachedAcrossBundles() {
	stack := []string{"Go Mono", "Go Regular"}
	first := Bundle{Dir: filepath.Join(env.tmp, "a"), Fonts: stack,
		Descriptions: []Description{description("Small", 10, descriptor.Regular)}}
	second := Bundle{Dir: filepath.Join(env.tmp, "b"), Fonts: stack,
		Descriptions: []Description{description("Small", 10, descriptor.Bold)}}
	shared := Bundle{Dir: filepath.Join(env.tmp, "a"), Fonts: []string{"Go Regular"},
		Descriptions: []Description{description("Plain", 10, descriptor.Regular)}}
	results, err := env.gen.GenerateAll(context.Background(), []Bundle{first, second, shared})
	env.Require().NoError(err)
	env.Require().Len(results, 3)
	env.Equal(1, results[0].Allocations)
	env.Equal(0, results[1].Allocations, "expected font stack to be allocated once")
	env.Equal(1, results[2].Allocations)
	env.Equal([]string{filepath.Clean(first.Dir), filepath.Clean(second.Dir)}, env.compiled.dirs,
		"expected every directory to be compiled exactly once")
}

func (env *BundleTestEnviron) TestExplicitPrimary() {
	d := description("Body", 16, descriptor.Regular)
	d.Primary = "Go Regular"
	b := Bundle{Dir: env.tmp, Fonts: []string{"Go Mono", "Go Regular"}, Descriptions: []Description{d}}
	r, err := env.gen.Generate(context.Background(), b)
	env.Require().NoError(err)
	doc := env.read(r.Files[0])
	env.Contains(doc, "<FontName>Go Regular</FontName>\n    <Size>")
	env.Contains(doc, "<FontName>Go Mono</FontName>\n        <Start>",
		"expected regions of the first font to be tagged")
}

func (env *BundleTestEnviron) TestDuplicateNames() {
	b := Bundle{
		Dir:   env.tmp,
		Fonts: []string{"Go Mono"},
		Descriptions: []Description{
			description("Text", 12, descriptor.Regular),
			description("text", 24, descriptor.Regular),
		},
	}
	_, err := env.gen.Generate(context.Background(), b)
	env.Equal(core.EINVALID, core.Code(err))
	other := Bundle{Dir: env.tmp + string(filepath.Separator), Fonts: []string{"Go Regular"},
		Descriptions: []Description{description("Text", 12, descriptor.Regular)}}
	b.Descriptions = b.Descriptions[:1]
	_, err = env.gen.GenerateAll(context.Background(), []Bundle{b, other})
	env.Equal(core.EINVALID, core.Code(err))
	entries, _ := os.ReadDir(env.tmp)
	env.Empty(entries, "expected nothing to be written for invalid bundles")
	env.Empty(env.compiled.dirs)
}

func (env *BundleTestEnviron) TestErrors() {
	_, err := env.gen.Generate(context.Background(), Bundle{Dir: env.tmp})
	env.Equal(core.EINVALID, core.Code(err))
	_, err = env.gen.Generate(context.Background(), Bundle{
		Dir: env.tmp, Descriptions: []Description{description("Empty", 12, descriptor.Regular)},
	})
	env.True(errors.Is(err, coverage.ErrEmptySourceList))
	_, err = env.gen.Generate(context.Background(), Bundle{
		Dir: env.tmp, Fonts: []string{"Go Mono", "Nowhere Sans"},
		Descriptions: []Description{description("Text", 12, descriptor.Regular)},
	})
	env.True(errors.Is(err, coverage.ErrFontNotFound), "expected unknown font to fail, got %v", err)
	env.Empty(env.compiled.dirs)
}

const terrariaBundles = `
bundles:
  - dir: terraria
    fonts: [Go Mono]
    descriptions:
      - name: Medium_Text
        size: 12
      - name: Large_Text
        size: 24pt
        default-character: "?"
  - dir: /fonts/tcg
    lookup: family
    fonts: [Go, Go Mono]
    descriptions:
      - name: SmallText
        style: italic
        kerning: false
        spacing: 1
        overrides:
          Go Mono:
            size: 10
            style: Bold
`

func (env *BundleTestEnviron) TestParse() {
	bundles, err := Parse([]byte(terrariaBundles))
	env.Require().NoError(err)
	env.Require().Len(bundles, 2)
	terraria := bundles[0]
	env.Equal(resources.FullName, terraria.Lookup)
	env.Require().Len(terraria.Descriptions, 2)
	env.Equal(float32(12), terraria.Descriptions[0].Size)
	env.Equal('*', terraria.Descriptions[0].DefaultCharacter)
	env.InDelta(23.91, terraria.Descriptions[1].Size, 0.01)
	env.Equal('?', terraria.Descriptions[1].DefaultCharacter)
	tcg := bundles[1]
	env.Equal(resources.Family, tcg.Lookup)
	small := tcg.Descriptions[0]
	env.Equal(descriptor.Italic, small.Style)
	env.False(small.UseKerning)
	env.Equal(float32(1), small.Spacing)
	env.Equal(descriptor.Override{Size: 10, Style: descriptor.Bold}, small.Overrides["Go Mono"])
	env.NoError(tcg.Validate())
}

func (env *BundleTestEnviron) TestParseErrors() {
	for _, doc := range []string{
		"",
		"bundles: []",
		"bundles:\n  - dir: x\n    colour: red\n",
		"bundles:\n  - dir: x\n    lookup: postscript\n",
		"bundles:\n  - dir: x\n    descriptions:\n      - size: huge\n",
		"bundles:\n  - dir: x\n    descriptions:\n      - style: Wide\n",
		"bundles:\n  - dir: x\n    descriptions:\n      - default-character: ab\n",
	} {
		_, err := Parse([]byte(doc))
		env.Equal(core.EINVALID, core.Code(err), doc)
	}
}

func (env *BundleTestEnviron) TestLoadAndGenerate() {
	path := filepath.Join(env.tmp, "fonts.yaml")
	doc := "bundles:\n  - dir: out\n    fonts: [Go Mono]\n    descriptions:\n      - name: UI\n"
	env.Require().NoError(os.WriteFile(path, []byte(doc), 0644))
	bundles, err := Load(path)
	env.Require().NoError(err)
	env.Equal(filepath.Join(env.tmp, "out"), bundles[0].Dir)
	results, err := env.gen.GenerateAll(context.Background(), bundles)
	env.Require().NoError(err)
	env.Equal([]string{filepath.Join(env.tmp, "out", "UI.xml")}, results[0].Files)
	_, err = Load(filepath.Join(env.tmp, "missing.yaml"))
	env.Equal(core.EMISSING, core.Code(err))
}
