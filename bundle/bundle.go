package bundle

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/npillmayer/fontregions/compiler"
	"github.com/npillmayer/fontregions/core"
	"github.com/npillmayer/fontregions/core/cpset"
	"github.com/npillmayer/fontregions/core/locate/resources"
	"github.com/npillmayer/fontregions/coverage"
	"github.com/npillmayer/fontregions/descriptor"
)

// Description is a single dynamic font description of a bundle.
type Description struct {
	descriptor.Options
	Fonts []string // font stack, highest priority first; defaults to the bundle's
}

// Bundle is a set of descriptions written into a common directory.
type Bundle struct {
	Dir          string
	Lookup       resources.LookupMode // how font names of this bundle are resolved
	Fonts        []string             // default font stack of the descriptions
	Descriptions []Description
}

func (b Bundle) fontsOf(d Description) []string {
	if len(d.Fonts) > 0 {
		return d.Fonts
	}
	return b.Fonts
}

// name is the file name a description will be saved under, see descriptor.Build.
func (d Description) name(fonts []string) string {
	switch {
	case d.Name != "":
		return d.Name
	case d.Primary != "":
		return d.Primary
	case len(fonts) > 0:
		return fonts[0]
	}
	return ""
}

// Validate checks a bundle before anything is written.
func (b Bundle) Validate() error {
	if strings.TrimSpace(b.Dir) == "" {
		return core.Error(core.EINVALID, "bundle has no output directory")
	}
	if len(b.Descriptions) == 0 {
		return core.Error(core.EINVALID, "bundle %s has no font descriptions", b.Dir)
	}
	names := make(map[string]bool, len(b.Descriptions))
	for i, d := range b.Descriptions {
		fonts := b.fontsOf(d)
		if len(fonts) == 0 {
			return core.WrapError(coverage.ErrEmptySourceList, core.EINVALID,
				"description #%d of bundle %s has no fonts", i+1, b.Dir)
		}
		if err := d.Options.Validate(); err != nil {
			return err
		}
		key := strings.ToLower(d.name(fonts))
		if names[key] {
			return core.Error(core.EINVALID, "bundle %s contains description %s twice", b.Dir, d.name(fonts))
		}
		names[key] = true
	}
	return nil
}

// Result lists what has been generated for a bundle.
type Result struct {
	Dir         string
	Files       []string // one per description, in order
	Allocations int      // font stacks allocated for this bundle
}

// Generator writes bundles of font descriptions. Code-point allocations are
// cached per font stack across all bundles of a generator.
// A Generator is not safe for concurrent use.
type Generator struct {
	Resolver *resources.Resolver
	Excluded cpset.Range       // code-points never assigned to any font
	Compiler compiler.Compiler // optional
	allocs   map[string][]coverage.FontAllocation
}

// NewGenerator creates a generator which excludes the C0 control characters.
func NewGenerator(res *resources.Resolver) *Generator {
	return &Generator{
		Resolver: res,
		Excluded: coverage.DefaultConfig().Excluded,
	}
}

// Generate writes a single bundle, see GenerateAll.
func (g *Generator) Generate(ctx context.Context, b Bundle) (Result, error) {
	results, err := g.GenerateAll(ctx, []Bundle{b})
	if err != nil {
		return Result{}, err
	}
	return results[0], nil
}

// GenerateAll validates all bundles, then writes every description into its
// bundle's directory. Afterwards the compiler, if any, is run once for every
// distinct directory, in order of first appearance. Bundles may share a
// directory as long as their description names differ.
func (g *Generator) GenerateAll(ctx context.Context, bundles []Bundle) ([]Result, error) {
	if g.Resolver == nil {
		return nil, core.Error(core.EINTERNAL, "bundle generator has no font resolver")
	}
	var dirs []string
	written := make(map[string]map[string]string)
	for _, b := range bundles {
		if err := b.Validate(); err != nil {
			return nil, err
		}
		dir := filepath.Clean(b.Dir)
		names, ok := written[dir]
		if !ok {
			names = make(map[string]string)
			written[dir] = names
			dirs = append(dirs, dir)
		}
		for _, d := range b.Descriptions {
			name := d.name(b.fontsOf(d))
			if _, dup := names[strings.ToLower(name)]; dup {
				return nil, core.Error(core.EINVALID, "description %s is written into %s more than once", name, dir)
			}
			names[strings.ToLower(name)] = name
		}
	}
	results := make([]Result, 0, len(bundles))
	for _, b := range bundles {
		r, err := g.write(ctx, b)
		if err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	if g.Compiler == nil {
		return results, nil
	}
	for _, dir := range dirs {
		if err := g.Compiler.Compile(ctx, dir); err != nil {
			return nil, err
		}
		tracer().Infof("compiled bundle %s", dir)
	}
	return results, nil
}

func (g *Generator) write(ctx context.Context, b Bundle) (Result, error) {
	res := g.Resolver.WithMode(b.Lookup)
	result := Result{Dir: b.Dir}
	for _, d := range b.Descriptions {
		fonts := b.fontsOf(d)
		allocs, fresh, err := g.allocate(ctx, res, fonts, d.DefaultCharacter)
		if err != nil {
			return result, err
		}
		if fresh {
			result.Allocations++
		}
		regions := coverage.EmitRegions(allocs, coverage.EmitOptions{Primary: d.Primary})
		desc, err := descriptor.Build(d.Options, fonts, coverage.Flatten(regions))
		if err != nil {
			return result, err
		}
		path, err := desc.WriteFile(b.Dir)
		if err != nil {
			return result, err
		}
		result.Files = append(result.Files, path)
	}
	tracer().Infof("bundle %s: %d descriptions from %d allocations",
		b.Dir, len(result.Files), result.Allocations)
	return result, nil
}

// allocate returns the allocation for a font stack, either cached or fresh.
func (g *Generator) allocate(ctx context.Context, res *resources.Resolver, fonts []string,
	fallback rune) ([]coverage.FontAllocation, bool, error) {
	//
	key := fmt.Sprintf("%s|%U|%s", res.Mode, fallback, strings.Join(fonts, "|"))
	if allocs, ok := g.allocs[key]; ok {
		tracer().Debugf("re-using allocation for %v", fonts)
		return allocs, false, nil
	}
	cfg := coverage.Config{Fonts: fonts, Fallback: fallback, Excluded: g.Excluded}
	if err := cfg.Validate(); err != nil {
		return nil, false, err
	}
	if err := res.Prefetch(ctx, fonts...); err != nil {
		return nil, false, err
	}
	allocs, err := coverage.Allocate(cfg, resources.FontSource{Resolver: res})
	if err != nil {
		return nil, false, err
	}
	if g.allocs == nil {
		g.allocs = make(map[string][]coverage.FontAllocation)
	}
	g.allocs[key] = allocs
	return allocs, true, nil
}
