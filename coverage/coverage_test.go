package coverage

import (
	"errors"
	"fmt"
	"math/rand"
	"testing"

	"github.com/npillmayer/fontregions/core"
	"github.com/npillmayer/fontregions/core/cpset"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/suite"
)

// fakeSource serves coverage from memory. Fonts missing from the map are
// unknown, fonts in broken fail to load.
type fakeSource struct {
	fonts  map[string][]cpset.Range
	broken map[string]bool
	asked  []string
}

func (src *fakeSource) Codepoints(fontID string, yield func(cpset.Range)) error {
	src.asked = append(src.asked, fontID)
	if src.broken[fontID] {
		return fmt.Errorf("%w: %s", ErrFontLoadFailure, fontID)
	}
	rs, ok := src.fonts[fontID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrFontNotFound, fontID)
	}
	for _, r := range rs {
		yield(r)
	}
	return nil
}

func config(fonts ...string) Config {
	cfg := DefaultConfig()
	cfg.Fonts = fonts
	return cfg
}

// --- Test Suite Preparation ------------------------------------------------

type AllocatorTestEnviron struct {
	suite.Suite
	src *fakeSource
}

// listen for 'go test' command --> run test methods
func TestAllocator(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontregions.coverage")
	defer teardown()
	suite.Run(t, new(AllocatorTestEnviron))
}

func (env *AllocatorTestEnviron) SetupTest() {
	tracing.Select("fontregions.coverage").SetTraceLevel(tracing.LevelInfo)
	env.src = &fakeSource{
		fonts: map[string][]cpset.Range{
			"A":     {{Lo: 0x41, Hi: 0x5A}, {Lo: 0x2A, Hi: 0x2A}},
			"B":     {{Lo: 0x61, Hi: 0x7A}, {Lo: 0x41, Hi: 0x60}},
			"Ctrl":  {{Lo: 0x00, Hi: 0x40}},
			"Upper": {{Lo: 0x41, Hi: 0x5A}},
		},
		broken: map[string]bool{"Broken": true},
	}
}

// --- Tests -----------------------------------------------------------------

func (env *AllocatorTestEnviron) TestPriority() {
	allocs, err := Allocate(config("A", "B"), env.src)
	env.Require().NoError(err)
	env.Require().Len(allocs, 2)
	env.Equal("A", allocs[0].Font)
	env.Equal([]cpset.Range{{Lo: 0x2A, Hi: 0x2A}, {Lo: 0x41, Hi: 0x5A}}, allocs[0].Coverage.Ranges())
	env.Equal("B", allocs[1].Font)
	env.Equal([]cpset.Range{{Lo: 0x5B, Hi: 0x7A}}, allocs[1].Coverage.Ranges(),
		"expected B to get what A does not cover")
}

func (env *AllocatorTestEnviron) TestPriorityReversed() {
	env.src.fonts["B"] = append(env.src.fonts["B"], cpset.Single('*'))
	allocs, err := Allocate(config("B", "A"), env.src)
	env.Require().NoError(err)
	env.Equal([]cpset.Range{{Lo: 0x2A, Hi: 0x2A}, {Lo: 0x41, Hi: 0x7A}}, allocs[0].Coverage.Ranges())
	env.True(allocs[1].Coverage.IsEmpty(), "expected A to be left with nothing")
}

func (env *AllocatorTestEnviron) TestEmptyAllocationIsNoError() {
	allocs, err := Allocate(config("A", "Upper"), env.src)
	env.Require().NoError(err)
	env.Require().Len(allocs, 2)
	env.True(allocs[1].Coverage.IsEmpty())
	regions := EmitRegions(allocs, EmitOptions{SkipEmpty: true})
	env.Len(regions, 1, "expected empty allocation to be skipped")
}

func (env *AllocatorTestEnviron) TestExclusion() {
	allocs, err := Allocate(config("Ctrl", "A"), env.src)
	env.Require().NoError(err)
	env.Equal([]cpset.Range{{Lo: 0x20, Hi: 0x40}}, allocs[0].Coverage.Ranges())
	cfg := config("Ctrl", "A")
	cfg.Excluded = cpset.Range{Lo: 0, Hi: 0x20}
	allocs, err = Allocate(cfg, env.src)
	env.Require().NoError(err)
	env.Equal([]cpset.Range{{Lo: 0x21, Hi: 0x40}}, allocs[0].Coverage.Ranges())
	env.False(allocs[0].Coverage.Contains(0x20))
}

func (env *AllocatorTestEnviron) TestFallbackEnforced() {
	_, err := Allocate(config("Upper", "B"), env.src)
	env.Require().Error(err)
	env.True(errors.Is(err, ErrFallbackUnassigned), "expected fallback error, got %v", err)
	env.Equal(core.ECOVERAGE, core.Code(err))
	cfg := config("Upper", "B")
	cfg.Fallback = 'x'
	allocs, err := Allocate(cfg, env.src)
	env.Require().NoError(err)
	env.Len(allocs, 2)
}

func (env *AllocatorTestEnviron) TestEmptySourceList() {
	allocs, err := Allocate(config(), env.src)
	env.Nil(allocs)
	env.True(errors.Is(err, ErrEmptySourceList), "expected empty-list error, got %v", err)
	env.Empty(env.src.asked, "expected source not to be consulted")
}

func (env *AllocatorTestEnviron) TestFontErrorsAbort() {
	allocs, err := Allocate(config("A", "Missing", "B"), env.src)
	env.Nil(allocs)
	env.True(errors.Is(err, ErrFontNotFound), "expected not-found error, got %v", err)
	env.Equal([]string{"A", "Missing"}, env.src.asked, "expected allocation to stop at first error")
	allocs, err = Allocate(config("Broken", "A"), env.src)
	env.Nil(allocs)
	env.True(errors.Is(err, ErrFontLoadFailure), "expected load error, got %v", err)
}

func (env *AllocatorTestEnviron) TestInvalidConfig() {
	cfg := config("A")
	cfg.Fallback = 0x10
	_, err := Allocate(cfg, env.src)
	env.True(errors.Is(err, ErrInvalidConfig), "expected invalid config, got %v", err)
	env.True(errors.Is(err, ErrFallbackUnassigned), "expected excluded fallback to count as unassigned")
	env.Empty(env.src.asked, "expected fonts not to be read for an excluded fallback")
	cfg = config("A", " ")
	_, err = Allocate(cfg, env.src)
	env.True(errors.Is(err, ErrInvalidConfig))
	cfg = config("A")
	cfg.Excluded = cpset.Range{Lo: 5, Hi: 1}
	env.Error(cfg.Validate())
	env.Equal(core.EINVALID, core.Code(cfg.Validate()))
	_, err = Allocate(config("A"), nil)
	env.Error(err)
}

func (env *AllocatorTestEnviron) TestGlyphSourceFunc() {
	src := GlyphSourceFunc(func(fontID string, yield func(cpset.Range)) error {
		yield(cpset.Range{Lo: 0x20, Hi: 0x7E})
		return nil
	})
	allocs, err := Allocate(config("Any"), src)
	env.Require().NoError(err)
	env.Equal(0x7E-0x20+1, allocs[0].Coverage.Count())
}

// --- Properties ------------------------------------------------------------

func TestAllocationProperties(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontregions.coverage")
	defer teardown()
	tracing.Select("fontregions.coverage").SetTraceLevel(tracing.LevelError)
	//
	rnd := rand.New(rand.NewSource(1234))
	for round := 0; round < 100; round++ {
		src := &fakeSource{fonts: make(map[string][]cpset.Range)}
		var names []string
		n := 1 + rnd.Intn(6)
		for f := 0; f < n; f++ {
			name := fmt.Sprintf("F%d", f)
			names = append(names, name)
			var rs []cpset.Range
			m := rnd.Intn(20)
			for i := 0; i < m; i++ {
				lo := rune(rnd.Intn(300))
				rs = append(rs, cpset.Range{Lo: lo, Hi: lo + rune(rnd.Intn(30))})
			}
			src.fonts[name] = rs
		}
		src.fonts[names[len(names)-1]] = append(src.fonts[names[len(names)-1]], cpset.Single('*'))
		allocs, err := Allocate(config(names...), src)
		if err != nil {
			t.Fatalf("round %d: unexpected error %v", round, err)
		}
		for i := range allocs {
			for j := i + 1; j < len(allocs); j++ {
				if allocs[i].Coverage.Overlaps(allocs[j].Coverage) {
					t.Fatalf("round %d: allocations of %s and %s overlap", round,
						allocs[i].Font, allocs[j].Font)
				}
			}
			for c := rune(0); c <= 0x1F; c++ {
				if allocs[i].Coverage.Contains(c) {
					t.Fatalf("round %d: excluded %#U assigned to %s", round, c, allocs[i].Font)
				}
			}
		}
		// first-match-wins
		for c := rune(0x20); c < 340; c++ {
			owner := ""
			for _, name := range names {
				if cpset.New(src.fonts[name]...).Contains(c) {
					owner = name
					break
				}
			}
			for _, a := range allocs {
				if a.Coverage.Contains(c) != (a.Font == owner) {
					t.Fatalf("round %d: %#U should belong to %q, membership in %s is wrong",
						round, c, owner, a.Font)
				}
			}
		}
	}
}
