package templating

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/byte4ever/text_template/digester"
	"github.com/byte4ever/text_template/stamper"
	"github.com/byte4ever/text_template/varsfile"
)

// Engine renders a template with variables gathered from
// stamp files, vars files, explicit NAME=VALUE pairs and
// imported sub-templates.
type Engine struct {
	OpenDelimiter  string
	CloseDelimiter string
	StampInfoFiles []string
	VarsFiles      []string

	// SkipUnchanged leaves an existing output untouched
	// when it already holds the rendered content.
	SkipUnchanged bool

	// Check compares the existing output with the
	// rendering instead of writing it, and fails with
	// ErrStale on mismatch.
	Check bool

	// Out receives the rendering when no output path is
	// given. Defaults to os.Stdout.
	Out io.Writer
}

// Expand loads the template at tplPath, substitutes
// variables, and writes the result to outPath. If outPath
// is empty it writes to Out. If executable is true a newly
// created output file receives mode 0777 instead of 0666,
// and an existing output gains its exec bits, including when
// SkipUnchanged leaves its content untouched.
//
// Variables are layered, later sources overriding earlier
// ones:
//  1. Stamp files.
//  2. Vars files, in order.
//  3. Each NAME=VALUE in vars, VALUE expanded against
//     stamps with single-brace tags.
//  4. Each NAME=filename in imports: the file is rendered
//     as a template with the variables gathered so far,
//     expanded against stamps, and stored as NAME.
func (en *Engine) Expand(
	tplPath string,
	outPath string,
	vars []string,
	imports []string,
	executable bool,
) error {
	const errCtx = "expanding template"

	stamps, err := stamper.LoadStamps(en.StampInfoFiles)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	openDelim, closeDelim := en.delimiters()

	tpl, err := NewWithDelimiters(tplPath, openDelim, closeDelim)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	// Stamps form the base; everything else overrides.
	tpl.SetVariables(stamps, false)

	if err := en.loadVarsFiles(tpl); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	if err := resolveVars(vars, stamps, tpl); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	if err := en.resolveImports(imports, stamps, tpl); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	if err := en.writeOutput(tpl, outPath, executable); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	return nil
}

// delimiters returns the configured delimiters, falling
// back to single-brace defaults.
func (en *Engine) delimiters() (string, string) {
	openDelim := en.OpenDelimiter
	if openDelim == "" {
		openDelim = DefaultOpenDelimiter
	}

	closeDelim := en.CloseDelimiter
	if closeDelim == "" {
		closeDelim = DefaultCloseDelimiter
	}

	return openDelim, closeDelim
}

func (en *Engine) loadVarsFiles(tpl *Template) error {
	const errCtx = "loading vars files"

	for _, vf := range en.VarsFiles {
		values, err := varsfile.Load(vf)
		if err != nil {
			return fmt.Errorf("%s: %w", errCtx, err)
		}

		tpl.MergeVariables(values)
	}

	return nil
}

// resolveVars processes NAME=VALUE pairs. Each value is
// expanded against stamps using single-brace tags.
func resolveVars(
	vars []string,
	stamps map[string]string,
	tpl *Template,
) error {
	const errCtx = "resolving variables"

	values := make(Variables, len(vars))

	for _, vr := range vars {
		parts := strings.SplitN(vr, "=", 2)
		if len(parts) != 2 {
			return fmt.Errorf(
				"%s: variable must be VAR=value, got %s",
				errCtx, vr,
			)
		}

		values[parts[0]] = stamper.Expand(parts[1], stamps)
	}

	tpl.MergeVariables(values)

	return nil
}

// resolveImports processes NAME=filename pairs. Each file
// is loaded as a template with the engine delimiters,
// rendered against the variables gathered so far, then
// expanded against stamps.
func (en *Engine) resolveImports(
	imports []string,
	stamps map[string]string,
	tpl *Template,
) error {
	const errCtx = "resolving imports"

	openDelim, closeDelim := en.delimiters()

	for _, im := range imports {
		parts := strings.SplitN(im, "=", 2)
		if len(parts) != 2 {
			return fmt.Errorf(
				"%s: import must be NAME=filename, got %s",
				errCtx, im,
			)
		}

		sub, err := NewWithDelimiters(
			parts[1], openDelim, closeDelim,
		)
		if err != nil {
			return fmt.Errorf(
				"%s: reading %s: %w",
				errCtx, parts[1], err,
			)
		}

		sub.SetVariables(tpl.Variables(), false)

		tpl.MergeVariables(Variables{
			parts[0]: stamper.Expand(sub.Render(), stamps),
		})
	}

	return nil
}

// writeOutput persists the rendering according to the
// engine mode.
func (en *Engine) writeOutput(
	tpl *Template,
	outPath string,
	executable bool,
) error {
	const errCtx = "writing output"

	if outPath == "" {
		out := en.Out
		if out == nil {
			out = os.Stdout
		}

		if _, err := io.WriteString(out, tpl.Render()); err != nil {
			return fmt.Errorf("%s: %w", errCtx, err)
		}

		return nil
	}

	if en.Check || en.SkipUnchanged {
		same, err := digester.Matches(
			outPath, []byte(tpl.Render()),
		)
		if err != nil {
			return fmt.Errorf("%s: %w", errCtx, err)
		}

		if en.Check {
			if !same {
				return fmt.Errorf(
					"%s: %w: %s", errCtx, ErrStale, outPath,
				)
			}

			return nil
		}

		if same {
			slog.Info("output unchanged", "path", outPath)

			return ensureExecutable(outPath, executable)
		}
	}

	var perm os.FileMode = 0o666
	if executable {
		perm = 0o777
	}

	if err := tpl.RenderToFile(outPath, perm); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	return ensureExecutable(outPath, executable)
}

// ensureExecutable adds the exec bits to an output that
// already existed without them; file creation modes do not
// apply to existing files.
func ensureExecutable(path string, executable bool) error {
	const errCtx = "setting executable bit"

	if !executable {
		return nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	if info.Mode().Perm()&0o100 != 0 {
		return nil
	}

	if err := os.Chmod(path, info.Mode().Perm()|0o111); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	return nil
}
