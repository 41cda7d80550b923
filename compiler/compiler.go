/*
Package compiler runs an external asset compiler on a directory of dynamic font
descriptions.

Asset compilers, such as DynamicFontGenerator, pick up every description in
their working directory and bake it into a sprite font.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package compiler

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/npillmayer/fontregions/core"
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'fontregions.compiler'
func tracer() tracing.Trace {
	return tracing.Select("fontregions.compiler")
}

// Compiler compiles the font descriptions found in a directory.
type Compiler interface {
	Compile(ctx context.Context, dir string) error
}

// ExecCompiler runs an executable with its working directory set to the
// directory to compile. The compiler's standard output is passed through to
// Stdout, if set.
type ExecCompiler struct {
	Path   string
	Args   []string
	Stdout io.Writer
}

var _ Compiler = ExecCompiler{}

// Validate checks that the compiler executable can be found.
func (c ExecCompiler) Validate() error {
	if strings.TrimSpace(c.Path) == "" {
		return core.Error(core.EINVALID, "no asset compiler configured")
	}
	if _, err := exec.LookPath(c.Path); err != nil {
		return core.WrapError(err, core.EMISSING, "asset compiler %s not found", c.Path)
	}
	return nil
}

// Compile runs the compiler in dir. It succeeds if the compiler exits with
// status 0; otherwise the returned error carries the compiler's diagnostics
// and has code core.ECOMPILE.
func (c ExecCompiler) Compile(ctx context.Context, dir string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if fi, err := os.Stat(dir); err != nil || !fi.IsDir() {
		return core.Error(core.EMISSING, "compile directory %s does not exist", dir)
	}
	cmd := exec.CommandContext(ctx, c.Path, c.Args...)
	cmd.Dir = dir
	cmd.Stdout = c.Stdout
	stderr := &bytes.Buffer{}
	cmd.Stderr = stderr
	tracer().Infof("running %s in %s", c.Path, dir)
	err := cmd.Run()
	if err == nil {
		return nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return core.WrapError(ctxErr, core.ECOMPILE, "%s interrupted", c.Path)
	}
	diag := strings.TrimSpace(stderr.String())
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		tracer().Errorf("%s exited with status %d", c.Path, exitErr.ExitCode())
		return core.WrapError(err, core.ECOMPILE, "%s failed: %s", c.Path, diag)
	}
	return core.WrapError(err, core.ECOMPILE, "cannot run %s: %v", c.Path, err)
}
