package main

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/chzyer/readline"
	"github.com/npillmayer/fontregions/core"
	"github.com/pterm/pterm"
	"golang.org/x/text/unicode/runenames"
)

// Intp is our interpreter object
type Intp struct {
	repl *readline.Instance
	sess *session
}

// REPL starts interactive mode.
func (intp *Intp) REPL() {
	for {
		line, err := intp.repl.Readline()
		if err != nil { // io.EOF
			break
		}
		if line = strings.TrimSpace(line); line == "" {
			continue
		}
		quit, err := intp.execute(line)
		if err != nil {
			pterm.Error.Println(core.UserMessage(err))
			continue
		}
		if quit {
			break
		}
	}
	pterm.Info.Println("Good bye!")
}

const (
	QUIT int = iota
	HELP
	WHICH
	LIST
	COUNT
)

var opMap = map[string]int{
	"quit":  QUIT,
	"help":  HELP,
	"which": WHICH,
	"list":  LIST,
	"count": COUNT,
}

var commandFn = map[int]func(*Intp, []string) (bool, error){
	QUIT:  quitOp,
	HELP:  helpOp,
	WHICH: whichOp,
	LIST:  listOp,
	COUNT: countOp,
}

func (intp *Intp) execute(line string) (bool, error) {
	args := strings.Fields(line)
	code, ok := opMap[strings.ToLower(args[0])]
	if !ok {
		code = HELP
	}
	tracer().Debugf("command %q, args = %v", args[0], args[1:])
	return commandFn[code](intp, args[1:])
}

func quitOp(intp *Intp, args []string) (bool, error) {
	return true, nil
}

func helpOp(intp *Intp, args []string) (bool, error) {
	pterm.Println(`
	which <char|U+XXXX>   show the font a code-point is rendered from
	list <font>           list the regions allocated to a font
	count                 show the number of code-points per font
	quit                  leave (or <ctrl>D)`)
	return false, nil
}

func whichOp(intp *Intp, args []string) (bool, error) {
	if len(args) != 1 {
		return false, core.Error(core.EINVALID, "usage: which <char|U+XXXX>")
	}
	r, err := parseCodepoint(args[0])
	if err != nil {
		return false, err
	}
	name := runenames.Name(r)
	if name == "" {
		name = "<unnamed>"
	}
	if font, ok := intp.sess.which(r); ok {
		pterm.Printf("%U %s is rendered from %s\n", r, name, font)
	} else {
		pterm.Printf("%U %s is not supported by any font\n", r, name)
	}
	return false, nil
}

func listOp(intp *Intp, args []string) (bool, error) {
	if len(args) == 0 {
		return false, core.Error(core.EINVALID, "usage: list <font>")
	}
	inx, ok := intp.sess.fontIndex(strings.Join(args, " "))
	if !ok {
		return false, core.Error(core.EMISSING, "no font %q in allocation", strings.Join(args, " "))
	}
	data := [][]string{
		{"Start", "End", "Count"},
	}
	for _, r := range intp.sess.regions[inx] {
		data = append(data, []string{
			fmt.Sprintf("%U", r.Lo),
			fmt.Sprintf("%U", r.Hi),
			fmt.Sprintf("%d", r.Hi-r.Lo+1),
		})
	}
	pterm.Printf("%s: %d regions\n", intp.sess.fonts[inx], len(intp.sess.regions[inx]))
	if len(data) > 1 {
		pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	}
	return false, nil
}

func countOp(intp *Intp, args []string) (bool, error) {
	total := 0
	for _, a := range intp.sess.allocs {
		n := a.Coverage.Count()
		total += n
		pterm.Printf("%-30s %8d\n", a.Font, n)
	}
	pterm.Printf("%-30s %8d\n", "total", total)
	return false, nil
}

// --- Queries ---------------------------------------------------------------

// which returns the font a code-point has been allocated to.
func (sess *session) which(r rune) (string, bool) {
	for _, a := range sess.allocs {
		if a.Coverage.Contains(r) {
			return a.Font, true
		}
	}
	return "", false
}

// fontIndex finds a font of the allocation by name, ignoring case.
func (sess *session) fontIndex(name string) (int, bool) {
	for i, f := range sess.fonts {
		if strings.EqualFold(f, name) {
			return i, true
		}
	}
	return -1, false
}

// parseCodepoint accepts a single character or a code-point in one of the
// notations U+XXXX or 0xXXXX.
func parseCodepoint(arg string) (rune, error) {
	if utf8.RuneCountInString(arg) == 1 {
		r, _ := utf8.DecodeRuneInString(arg)
		if r != utf8.RuneError {
			return r, nil
		}
	}
	hex := arg
	for _, prefix := range []string{"U+", "u+", "0x", "0X"} {
		if strings.HasPrefix(arg, prefix) {
			hex = arg[len(prefix):]
			break
		}
	}
	if hex == arg {
		return 0, core.Error(core.EINVALID, "cannot read %q as a code-point", arg)
	}
	n, err := strconv.ParseUint(hex, 16, 32)
	if err != nil || !utf8.ValidRune(rune(n)) {
		return 0, core.Error(core.EINVALID, "%q is not a valid code-point", arg)
	}
	return rune(n), nil
}
