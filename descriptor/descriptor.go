package descriptor

import (
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/npillmayer/fontregions/core"
	"github.com/npillmayer/fontregions/coverage"
)

const (
	pipelineNamespace = "ReLogic.Content.Pipeline"
	assetType         = "Graphics:DynamicFontDescription"
	header            = `<?xml version="1.0" encoding="utf-8"?>` + "\n"
)

// Content is the root of a dynamic font description document.
type Content struct {
	XMLName  xml.Name `xml:"XnaContent"`
	Pipeline string   `xml:"xmlns:Graphics,attr"`
	Asset    Asset    `xml:"Asset"`
	name     string
}

// Asset describes a dynamic font.
type Asset struct {
	Type             string           `xml:"Type,attr"`
	FontName         string           `xml:"FontName"`
	Size             float32          `xml:"Size"`
	Spacing          float32          `xml:"Spacing"`
	UseKerning       bool             `xml:"UseKerning"`
	Style            FontStyle        `xml:"Style"`
	DefaultCharacter string           `xml:"DefaultCharacter"`
	VerticalOffset   VerticalOffset   `xml:"VerticalOffset"`
	Regions          CharacterRegions `xml:"CharacterRegions"`
}

// CharacterRegions holds the regions of an asset, in document order.
type CharacterRegions struct {
	Region []CharacterRegion `xml:"CharacterRegion"`
}

// CharacterRegion is an inclusive range of characters. An empty FontName
// denotes the asset's base font. Size and Style, if set, override the asset's
// settings.
type CharacterRegion struct {
	FontName string    `xml:"FontName,omitempty"`
	Size     float32   `xml:"Size,omitempty"`
	Style    FontStyle `xml:"Style,omitempty"`
	Start    charRef   `xml:"Start"`
	End      charRef   `xml:"End"`
}

// charRef is marshalled as a hexadecimal character reference.
type charRef rune

func (c charRef) MarshalText() ([]byte, error) {
	return []byte(fmt.Sprintf("&#x%X;", rune(c))), nil
}

// Build creates a description for a list of fonts in priority order and the
// flattened regions allocated to them. The base font is opts.Primary, or the
// first font if no primary is set. Regions with an empty Font are rendered
// from the base font; regions should be emitted with the same primary font.
func Build(opts Options, fonts []string, regions []coverage.Region) (*Content, error) {
	if len(fonts) == 0 {
		return nil, core.WrapError(coverage.ErrEmptySourceList, core.EINVALID,
			"dynamic font description needs at least one font")
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	base := fonts[0]
	if opts.Primary != "" {
		if !contains(fonts, opts.Primary) {
			return nil, core.Error(core.EINVALID, "primary font %s is not one of %v", opts.Primary, fonts)
		}
		base = opts.Primary
	}
	name := opts.Name
	if name == "" {
		name = base
	}
	c := &Content{
		Pipeline: pipelineNamespace,
		name:     name,
		Asset: Asset{
			Type:             assetType,
			FontName:         base,
			Size:             opts.Size,
			Spacing:          opts.Spacing,
			UseKerning:       opts.UseKerning,
			Style:            opts.Style,
			DefaultCharacter: string(opts.DefaultCharacter),
			VerticalOffset:   opts.VerticalOffset,
		},
	}
	c.Asset.Regions.Region = make([]CharacterRegion, 0, len(regions))
	for _, r := range regions {
		if r.Lo > r.Hi {
			return nil, core.Error(core.EINTERNAL, "malformed region %v", r)
		}
		cr := CharacterRegion{Start: charRef(r.Lo), End: charRef(r.Hi)}
		font := r.Font
		if font == "" {
			font = base
		}
		if font != base {
			cr.FontName = font
		}
		if o, ok := opts.Overrides[font]; ok {
			cr.Size, cr.Style = o.Size, o.Style
		}
		c.Asset.Regions.Region = append(c.Asset.Regions.Region, cr)
	}
	tracer().Debugf("description %s has %d character regions", name, len(regions))
	return c, nil
}

func contains(fonts []string, font string) bool {
	for _, f := range fonts {
		if f == font {
			return true
		}
	}
	return false
}

// Name is the name the description will be saved under, without extension.
func (c *Content) Name() string {
	return c.name
}

var escapedCharRef = regexp.MustCompile(`(<(?:Start|End)>)&amp;(#x[0-9A-F]+;)`)

// XML renders the description, indented by two spaces.
func (c *Content) XML() ([]byte, error) {
	out, err := xml.MarshalIndent(c, "", "  ")
	if err != nil {
		return nil, core.WrapError(err, core.EINTERNAL, "cannot render font description %s", c.name)
	}
	out = escapedCharRef.ReplaceAll(out, []byte("${1}&${2}"))
	doc := make([]byte, 0, len(header)+len(out)+1)
	doc = append(doc, header...)
	doc = append(doc, out...)
	return append(doc, '\n'), nil
}

// WriteFile writes the description to <dir>/<name>.xml and returns the path
// of the file.
func (c *Content) WriteFile(dir string) (string, error) {
	doc, err := c.XML()
	if err != nil {
		return "", err
	}
	if err = os.MkdirAll(dir, 0755); err != nil {
		return "", core.WrapError(err, core.EINVALID, "cannot create output directory %s", dir)
	}
	path := filepath.Join(dir, c.name+".xml")
	if err = os.WriteFile(path, doc, 0644); err != nil {
		return "", core.WrapError(err, core.EINVALID, "cannot write font description %s", path)
	}
	tracer().Infof("font description written to %s", path)
	return path, nil
}
