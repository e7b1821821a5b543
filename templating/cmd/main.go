// Binary text_template renders a template file by literal
// placeholder substitution, with variables taken from stamp
// info files, vars files and explicit NAME=VALUE pairs.
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/byte4ever/text_template/templating"
)

type arrayFlags []string

func (af *arrayFlags) String() string {
	return ""
}

func (af *arrayFlags) Set(value string) error {
	*af = append(*af, value)
	return nil
}

func run(args []string, stdout io.Writer) error {
	const errCtx = "text_template"

	fs := flag.NewFlagSet("text_template", flag.ContinueOnError)

	var (
		stampInfoFile arrayFlags
		varsFile      arrayFlags
		variable      arrayFlags
		imports       arrayFlags
		output        string
		tpl           string
		executable    bool
		skipUnchanged bool
		check         bool
		verbose       bool
		openDelim     string
		closeDelim    string
	)

	fs.Var(
		&stampInfoFile,
		"stamp_info_file",
		"Stamp info file path (repeatable)",
	)

	fs.Var(
		&varsFile,
		"vars_file",
		"YAML, JSON, TOML or .env variables file (repeatable)",
	)

	fs.Var(
		&variable,
		"variable",
		"Variable in NAME=VALUE format (repeatable)",
	)

	fs.Var(
		&imports,
		"imports",
		"Import in NAME=filename format (repeatable)",
	)

	fs.StringVar(
		&output, "output", "",
		"Output file path (stdout if empty)",
	)

	fs.StringVar(
		&tpl, "template", "",
		"Input template file path (falls back to <path>.dist)",
	)

	fs.BoolVar(
		&executable, "executable", false,
		"Set executable bit on output file",
	)

	fs.BoolVar(
		&skipUnchanged, "skip_unchanged", false,
		"Do not rewrite an output that already holds the result",
	)

	fs.BoolVar(
		&check, "check", false,
		"Fail if the output differs from the result instead of writing it",
	)

	fs.BoolVar(
		&verbose, "verbose", false,
		"Enable debug logging",
	)

	fs.StringVar(
		&openDelim, "open_delimiter",
		templating.DefaultOpenDelimiter,
		"Opening delimiter for template placeholders",
	)

	fs.StringVar(
		&closeDelim, "close_delimiter",
		templating.DefaultCloseDelimiter,
		"Closing delimiter for template placeholders",
	)

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	if verbose {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}

	if tpl == "" {
		return fmt.Errorf("%s: --template is required", errCtx)
	}

	if check && output == "" {
		return fmt.Errorf(
			"%s: --check requires --output", errCtx,
		)
	}

	en := templating.Engine{
		OpenDelimiter:  openDelim,
		CloseDelimiter: closeDelim,
		StampInfoFiles: stampInfoFile,
		VarsFiles:      varsFile,
		SkipUnchanged:  skipUnchanged,
		Check:          check,
		Out:            stdout,
	}

	if err := en.Expand(
		tpl, output, variable, imports, executable,
	); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	return nil
}

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
}
