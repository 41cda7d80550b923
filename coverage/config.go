package coverage

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/npillmayer/fontregions/core"
	"github.com/npillmayer/fontregions/core/cpset"
)

// DefaultFallback is the code-point a renderer substitutes for missing glyphs,
// if clients do not configure another one.
const DefaultFallback rune = '*'

// DefaultExcludedThrough is the default upper bound of the excluded range of
// control code-points, i.e. the C0 controls U+0000…U+001F.
// Some descriptor consumers want U+0020 to be excluded as well; clients set
// Config.Excluded accordingly.
const DefaultExcludedThrough rune = 0x1F

// Config holds everything an allocation run needs to know.
// Create one with DefaultConfig and then set fields as needed.
type Config struct {
	Fonts    []string    // font identifiers, highest priority first
	Fallback rune        // code-point which has to be covered by some font
	Excluded cpset.Range // code-points never assigned to any font
}

// DefaultConfig returns a configuration without fonts, a fallback of '*' and
// C0 control characters excluded.
func DefaultConfig() Config {
	return Config{
		Fallback: DefaultFallback,
		Excluded: cpset.Range{Lo: 0, Hi: DefaultExcludedThrough},
	}
}

// Validate checks a configuration for consistency. An empty font list is
// reported as ErrEmptySourceList, all other problems as ErrInvalidConfig.
// An excluded fallback is reported as ErrFallbackUnassigned, too.
func (cfg Config) Validate() error {
	if len(cfg.Fonts) == 0 {
		return core.WrapError(ErrEmptySourceList, core.EINVALID,
			"at least one font has to be given")
	}
	for i, name := range cfg.Fonts {
		if strings.TrimSpace(name) == "" {
			return invalid("font #%d has an empty name", i+1)
		}
	}
	if cfg.Fallback < 0 || cfg.Fallback > unicode.MaxRune {
		return invalid("fallback code-point %#x is not a Unicode code-point", cfg.Fallback)
	}
	if !cfg.Excluded.Valid() {
		return invalid("excluded range %v is not a valid code-point range", cfg.Excluded)
	}
	if cfg.Excluded.Contains(cfg.Fallback) {
		// no font can ever supply an excluded code-point
		msg := fmt.Sprintf("fallback code-point %#U is within excluded range %v",
			cfg.Fallback, cfg.Excluded)
		return core.WrapError(fmt.Errorf("%w: %w: %s", ErrInvalidConfig, ErrFallbackUnassigned, msg),
			core.EINVALID, msg)
	}
	return nil
}

func invalid(format string, v ...interface{}) error {
	msg := fmt.Sprintf(format, v...)
	return core.WrapError(fmt.Errorf("%w: %s", ErrInvalidConfig, msg), core.EINVALID, msg)
}
