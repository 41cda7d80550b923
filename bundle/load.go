package bundle

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/npillmayer/fontregions/core"
	"github.com/npillmayer/fontregions/core/dimen"
	"github.com/npillmayer/fontregions/core/locate/resources"
	"github.com/npillmayer/fontregions/descriptor"
	"gopkg.in/yaml.v3"
)

// Bundle files are YAML documents. Sizes are dimensions as understood by
// dimen.ParseDimen; a number without unit is taken as big points.
type bundleFile struct {
	Bundles []bundleEntry `yaml:"bundles"`
}

type bundleEntry struct {
	Dir          string             `yaml:"dir"`
	Lookup       string             `yaml:"lookup"`
	Fonts        []string           `yaml:"fonts"`
	Descriptions []descriptionEntry `yaml:"descriptions"`
}

type descriptionEntry struct {
	Name             string                   `yaml:"name"`
	Fonts            []string                 `yaml:"fonts"`
	Primary          string                   `yaml:"primary"`
	Size             string                   `yaml:"size"`
	Spacing          string                   `yaml:"spacing"`
	Style            string                   `yaml:"style"`
	Kerning          *bool                    `yaml:"kerning"`
	DefaultCharacter string                   `yaml:"default-character"`
	VerticalOffset   string                   `yaml:"vertical-offset"`
	Overrides        map[string]overrideEntry `yaml:"overrides"`
}

type overrideEntry struct {
	Size  string `yaml:"size"`
	Style string `yaml:"style"`
}

// Load reads a bundle file. Relative bundle directories are taken relative to
// the directory of the file.
func Load(path string) ([]Bundle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, core.WrapError(err, core.EMISSING, "cannot read bundle file %s", path)
	}
	bundles, err := Parse(data)
	if err != nil {
		return nil, err
	}
	base := filepath.Dir(path)
	for i := range bundles {
		if !filepath.IsAbs(bundles[i].Dir) {
			bundles[i].Dir = filepath.Join(base, bundles[i].Dir)
		}
	}
	tracer().Infof("loaded %d bundles from %s", len(bundles), path)
	return bundles, nil
}

// Parse decodes bundles from YAML. Unknown keys are rejected. Descriptions
// start from descriptor.DefaultOptions.
func Parse(data []byte) ([]Bundle, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var f bundleFile
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, core.Error(core.EINVALID, "bundle file is empty")
		}
		return nil, core.WrapError(err, core.EINVALID, "malformed bundle file: %v", err)
	}
	if len(f.Bundles) == 0 {
		return nil, core.Error(core.EINVALID, "bundle file lists no bundles")
	}
	bundles := make([]Bundle, 0, len(f.Bundles))
	for _, entry := range f.Bundles {
		b, err := entry.bundle()
		if err != nil {
			return nil, err
		}
		bundles = append(bundles, b)
	}
	return bundles, nil
}

func (entry bundleEntry) bundle() (Bundle, error) {
	mode, err := resources.ParseLookupMode(entry.Lookup)
	if err != nil {
		return Bundle{}, err
	}
	b := Bundle{Dir: entry.Dir, Lookup: mode, Fonts: entry.Fonts}
	for _, de := range entry.Descriptions {
		d, err := de.description()
		if err != nil {
			return Bundle{}, err
		}
		b.Descriptions = append(b.Descriptions, d)
	}
	return b, nil
}

func (de descriptionEntry) description() (Description, error) {
	d := Description{Options: descriptor.DefaultOptions(), Fonts: de.Fonts}
	d.Name, d.Primary = de.Name, de.Primary
	var err error
	if de.Size != "" {
		if d.Size, err = points(de.Size); err != nil {
			return d, err
		}
	}
	if de.Spacing != "" {
		if d.Spacing, err = points(de.Spacing); err != nil {
			return d, err
		}
	}
	if de.Style != "" {
		if d.Style, err = descriptor.ParseFontStyle(de.Style); err != nil {
			return d, err
		}
	}
	if de.Kerning != nil {
		d.UseKerning = *de.Kerning
	}
	if de.DefaultCharacter != "" {
		if utf8.RuneCountInString(de.DefaultCharacter) != 1 {
			return d, core.Error(core.EINVALID, "default character %q is not a single character",
				de.DefaultCharacter)
		}
		d.DefaultCharacter, _ = utf8.DecodeRuneInString(de.DefaultCharacter)
	}
	if de.VerticalOffset != "" {
		d.VerticalOffset = descriptor.VerticalOffset(de.VerticalOffset)
	}
	if len(de.Overrides) > 0 {
		d.Overrides = make(map[string]descriptor.Override, len(de.Overrides))
	}
	for font, oe := range de.Overrides {
		var o descriptor.Override
		if oe.Size != "" {
			if o.Size, err = points(oe.Size); err != nil {
				return d, err
			}
		}
		if oe.Style != "" {
			if o.Style, err = descriptor.ParseFontStyle(oe.Style); err != nil {
				return d, err
			}
		}
		d.Overrides[font] = o
	}
	return d, nil
}

func points(s string) (float32, error) {
	d, err := dimen.ParseDimen(s)
	if err != nil {
		return 0, err
	}
	return float32(d.Points()), nil
}
