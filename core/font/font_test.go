package font

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/npillmayer/fontregions/core/cpset"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/gomono"
)

func TestNormalizeFont(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontregions.font")
	defer teardown()
	//
	for k, v := range map[string]string{
		"Noto Sans JP":           "noto_sans_jp",
		"  Clarendon-bold.ttf  ": "clarendon-bold",
		"GentiumPlus-R.OTF":      "gentiumplus-r",
		"Font v1.2":              "font_v1.2",
	} {
		if n := NormalizeFontname(k); n != v {
			t.Errorf("expected normalized name of %q to be %q, is %q", k, v, n)
		}
	}
}

func TestLoadFontFromFile(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontregions.font")
	defer teardown()
	//
	path := filepath.Join(t.TempDir(), "GoMono.ttf")
	require.NoError(t, os.WriteFile(path, gomono.TTF, 0644))
	f, err := LoadOpenTypeFont(path)
	require.NoError(t, err)
	assert.Equal(t, path, f.Filepath)
	assert.Equal(t, "Go Mono", f.Fontname)
	assert.Equal(t, "Go Mono", f.Family)
	//
	_, err = LoadOpenTypeFont(filepath.Join(t.TempDir(), "missing.ttf"))
	assert.Error(t, err)
	_, err = ParseOpenTypeFont([]byte("this is not a font"))
	assert.Error(t, err)
}

func TestFallbackCoverage(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontregions.font")
	defer teardown()
	//
	f := FallbackFont()
	require.NotNil(t, f)
	cov := &cpset.Set{}
	require.NoError(t, f.Coverage(cov.Add))
	t.Logf("%s covers %d code-points in %d ranges", f.Fontname, cov.Count(), cov.Len())
	for _, c := range []rune{'*', 'A', 'z', 'é', 'Ω', 'Ж'} {
		assert.True(t, cov.Contains(c), "expected Go Regular to cover %#U", c)
	}
	for _, c := range []rune{0x3042, 0x4E00, 0xD800, 0x1F600} {
		assert.False(t, cov.Contains(c), "expected Go Regular not to cover %#U", c)
	}
	assert.True(t, cov.Contains(' '))
}

func TestCoverageYieldsSortedRuns(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontregions.font")
	defer teardown()
	//
	f, err := ParseOpenTypeFont(gomono.TTF)
	require.NoError(t, err)
	var runs []cpset.Range
	require.NoError(t, f.Coverage(func(r cpset.Range) {
		runs = append(runs, r)
	}))
	require.NotEmpty(t, runs)
	for i := 1; i < len(runs); i++ {
		if runs[i-1].Hi+1 >= runs[i].Lo {
			t.Fatalf("expected maximal, ascending runs; %v is followed by %v", runs[i-1], runs[i])
		}
	}
}
