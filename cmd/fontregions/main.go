/*
Command fontregions allocates the code-points supported by a list of fonts and
writes a dynamic font description for them.

Fonts are given in priority order. Every code-point is rendered from the first
font supporting it:

	fontregions -font "Noto Sans" -font "Noto Sans JP" -out content/fonts

With -compiler, an external asset compiler is run in the output directory
afterwards. With -i, the allocation may be inspected interactively.

With -bundle, a YAML file lists bundles of descriptions to generate, each
written into its own directory (see package bundle):

	fontregions -bundle fonts.yaml -compiler DynamicFontGenerator

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"unicode"

	"github.com/chzyer/readline"
	"github.com/npillmayer/fontregions/bundle"
	"github.com/npillmayer/fontregions/compiler"
	"github.com/npillmayer/fontregions/core"
	"github.com/npillmayer/fontregions/core/cpset"
	"github.com/npillmayer/fontregions/core/dimen"
	"github.com/npillmayer/fontregions/core/locate/resources"
	"github.com/npillmayer/fontregions/coverage"
	"github.com/npillmayer/fontregions/descriptor"
	"github.com/npillmayer/schuko/schukonf/testconfig"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/schuko/tracing/trace2go"
	"github.com/pterm/pterm"
)

// tracer traces with key 'fontregions.cli'
func tracer() tracing.Trace {
	return tracing.Select("fontregions.cli")
}

var traceKeys = []string{
	"fontregions.cli",
	"fontregions.coverage",
	"fontregions.font",
	"fontregions.resources",
	"fontregions.descriptor",
	"fontregions.compiler",
	"fontregions.bundle",
}

// fontList collects repeated -font flags. A single flag may name several
// fonts, separated by commas.
type fontList []string

func (fl *fontList) String() string {
	return strings.Join(*fl, ",")
}

func (fl *fontList) Set(v string) error {
	for _, name := range strings.Split(v, ",") {
		if name = strings.TrimSpace(name); name != "" {
			*fl = append(*fl, name)
		}
	}
	return nil
}

// settings are the command line options of a run.
type settings struct {
	fonts          fontList
	name           string
	primary        string
	lookup         string
	bundles        string
	size           dimen.Value
	spacing        dimen.Value
	style          string
	fallback       string
	excludeThrough int
	out            string
	compiler       string
	interactive    bool
}

func main() {
	initDisplay()

	// set up logging
	tracing.RegisterTraceAdapter("go", gologadapter.GetAdapter(), false)
	conf := testconfig.Conf{
		"tracing.adapter": "go",
	}
	for _, key := range traceKeys {
		conf["trace."+key] = "Error"
	}
	if err := trace2go.ConfigureRoot(conf, "trace", trace2go.ReplaceTracers(true)); err != nil {
		fmt.Printf("error configuring tracing")
		os.Exit(1)
	}
	tracing.SetTraceSelector(trace2go.Selector())

	// command line flags
	s := settings{}
	flag.Var(&s.fonts, "font", "Font to use, highest priority first (repeatable)")
	flag.StringVar(&s.name, "name", "", "Name of the font description (default: primary font)")
	flag.StringVar(&s.primary, "primary", "", "Base font of the description (default: first font)")
	flag.StringVar(&s.lookup, "lookup", "full", "Interpret font names as [full|family] names")
	flag.StringVar(&s.bundles, "bundle", "", "YAML file listing bundles of font descriptions")
	s.size.D = 16 * dimen.BP
	flag.Var(&s.size, "size", "Font size, e.g. 16 or 12pt")
	flag.Var(&s.spacing, "spacing", "Additional space between glyphs")
	flag.StringVar(&s.style, "style", string(descriptor.Regular), "Font style [Regular|Bold|Italic|BoldItalic]")
	flag.StringVar(&s.fallback, "fallback", string(coverage.DefaultFallback), "Fallback character, as character or U+XXXX")
	flag.IntVar(&s.excludeThrough, "exclude-through", int(coverage.DefaultExcludedThrough), "Exclude code-points 0 up to and including this one")
	flag.StringVar(&s.out, "out", ".", "Output directory")
	flag.StringVar(&s.compiler, "compiler", "", "Asset compiler to run in the output directory")
	flag.BoolVar(&s.interactive, "i", false, "Inspect the allocation interactively")
	tlevel := flag.String("trace", "Error", "Trace level [Debug|Info|Error]")
	flag.Parse()
	if err := setTraceLevel(*tlevel); err != nil {
		pterm.Error.Println(err)
		os.Exit(core.EINVALID)
	}
	pterm.Info.Println("fontregions") // colored welcome message
	//
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	resolver := resources.NewResolver()
	if s.bundles != "" {
		results, err := runBundles(ctx, s, resolver)
		exitOnError(err)
		printBundles(results)
		return
	}
	sess, err := run(ctx, s, resolver)
	if !strings.EqualFold(*tlevel, "error") {
		resolver.Registry.LogFontList()
	}
	exitOnError(err)
	sess.printSummary()
	if !s.interactive {
		return
	}
	//
	// set up REPL
	repl, err := readline.New("fontregions > ")
	if err != nil {
		tracer().Errorf(err.Error())
		os.Exit(core.EINTERNAL)
	}
	defer repl.Close()
	intp := &Intp{repl: repl, sess: sess}
	pterm.Info.Println("Quit with <ctrl>D") // inform user how to stop the CLI
	intp.REPL()
}

// We use pterm for moderately fancy output.
func initDisplay() {
	pterm.Info.Prefix = pterm.Prefix{
		Text:  " !  ",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  " Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}

func exitOnError(err error) {
	if err == nil {
		return
	}
	tracer().Errorf(err.Error())
	core.UserError(err)
	os.Exit(core.Code(err))
}

func setTraceLevel(tlevel string) error {
	var level tracing.TraceLevel
	switch strings.ToLower(tlevel) {
	case "debug":
		level = tracing.LevelDebug
	case "info":
		level = tracing.LevelInfo
	case "error":
		level = tracing.LevelError
	default:
		return core.Error(core.EINVALID, "invalid trace level: %s", tlevel)
	}
	for _, key := range traceKeys {
		tracing.Select(key).SetTraceLevel(level)
	}
	tracer().Infof("Trace level is %s", tlevel)
	return nil
}

// --- Pipeline --------------------------------------------------------------

// session is the outcome of a run.
type session struct {
	fonts   []string
	allocs  []coverage.FontAllocation
	regions [][]coverage.Region
	desc    *descriptor.Content
	path    string // file the description has been written to
}

// run resolves the fonts, allocates code-points to them and writes the font
// description. If a compiler is configured, it is run on the output directory.
func run(ctx context.Context, s settings, res *resources.Resolver) (*session, error) {
	cfg := coverage.DefaultConfig()
	cfg.Fonts = s.fonts
	fallback, err := parseCodepoint(s.fallback)
	if err != nil {
		return nil, err
	}
	cfg.Fallback = fallback
	if cfg.Excluded, err = excludedRange(s.excludeThrough); err != nil {
		return nil, err
	}
	if err = cfg.Validate(); err != nil {
		return nil, err
	}
	mode, err := resources.ParseLookupMode(s.lookup)
	if err != nil {
		return nil, err
	}
	res = res.WithMode(mode)
	opts := descriptor.DefaultOptions()
	opts.Name = s.name
	opts.Primary = s.primary
	opts.Size = float32(s.size.D.Points())
	opts.Spacing = float32(s.spacing.D.Points())
	opts.DefaultCharacter = fallback
	if opts.Style, err = descriptor.ParseFontStyle(s.style); err != nil {
		return nil, err
	}
	if err = opts.Validate(); err != nil {
		return nil, err
	}
	tracer().Debugf("loading %d fonts", len(cfg.Fonts))
	if err = res.Prefetch(ctx, cfg.Fonts...); err != nil {
		return nil, err
	}
	sess := &session{fonts: cfg.Fonts}
	if sess.allocs, err = coverage.Allocate(cfg, resources.FontSource{Resolver: res}); err != nil {
		return nil, err
	}
	sess.regions = coverage.EmitRegions(sess.allocs, coverage.EmitOptions{Primary: opts.Primary})
	if sess.desc, err = descriptor.Build(opts, cfg.Fonts, coverage.Flatten(sess.regions)); err != nil {
		return nil, err
	}
	if sess.path, err = sess.desc.WriteFile(s.out); err != nil {
		return nil, err
	}
	if s.compiler != "" {
		c := compiler.ExecCompiler{Path: s.compiler, Stdout: os.Stdout}
		if err = c.Compile(ctx, s.out); err != nil {
			return nil, err
		}
		tracer().Infof("compiled %s", sess.path)
	}
	return sess, nil
}

// excludedRange checks the upper bound of the excluded code-points before it
// is converted to a rune.
func excludedRange(through int) (cpset.Range, error) {
	if through < 0 || through > unicode.MaxRune {
		return cpset.Range{}, core.WrapError(coverage.ErrInvalidConfig, core.EINVALID,
			"exclude-through %#x is not a Unicode code-point", through)
	}
	return cpset.Range{Lo: 0, Hi: rune(through)}, nil
}

// runBundles generates all bundles listed in a bundle file. Only the excluded
// range and the compiler are taken from the command line.
func runBundles(ctx context.Context, s settings, res *resources.Resolver) ([]bundle.Result, error) {
	excluded, err := excludedRange(s.excludeThrough)
	if err != nil {
		return nil, err
	}
	bundles, err := bundle.Load(s.bundles)
	if err != nil {
		return nil, err
	}
	gen := bundle.NewGenerator(res)
	gen.Excluded = excluded
	if s.compiler != "" {
		gen.Compiler = compiler.ExecCompiler{Path: s.compiler, Stdout: os.Stdout}
	}
	return gen.GenerateAll(ctx, bundles)
}

func printBundles(results []bundle.Result) {
	data := [][]string{
		{"Directory", "Descriptions", "Allocations"},
	}
	for _, r := range results {
		data = append(data, []string{
			r.Dir,
			fmt.Sprintf("%d", len(r.Files)),
			fmt.Sprintf("%d", r.Allocations),
		})
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	pterm.Success.Printf("%d bundles written\n", len(results))
}

func (sess *session) printSummary() {
	data := [][]string{
		{"Priority", "Font", "Code-points", "Regions"},
	}
	for i, a := range sess.allocs {
		data = append(data, []string{
			fmt.Sprintf("%d", i+1),
			a.Font,
			fmt.Sprintf("%d", a.Coverage.Count()),
			fmt.Sprintf("%d", len(sess.regions[i])),
		})
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	pterm.Success.Printf("font description written to %s\n", sess.path)
}
