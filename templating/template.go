package templating

import (
	"log/slog"
	"maps"
	"os"
	"slices"
	"strings"
)

const (
	// DefaultOpenDelimiter starts a placeholder token.
	DefaultOpenDelimiter = "{"

	// DefaultCloseDelimiter ends a placeholder token.
	DefaultCloseDelimiter = "}"

	distSuffix = ".dist"
)

// Variables maps placeholder names to replacement values.
type Variables map[string]string

// Template holds a loaded template body, its delimiter
// pair and the variables substituted on Render. A
// Template is owned by a single goroutine.
type Template struct {
	body       string
	openDelim  string
	closeDelim string
	vars       Variables
}

// New loads the template at path using the default
// single-brace delimiters.
func New(path string) (*Template, error) {
	return NewWithDelimiters(
		path, DefaultOpenDelimiter, DefaultCloseDelimiter,
	)
}

// NewWithDelimiters loads the template at path. When path
// is missing or empty, path+".dist" is tried instead. An
// empty delimiter falls back to its default.
//
// If neither file holds content a *ConfigurationError
// naming path is returned.
func NewWithDelimiters(
	path string,
	openDelim string,
	closeDelim string,
) (*Template, error) {
	body, ok := loadTemplateFile(path)
	if !ok {
		slog.Debug(
			"template not usable, trying fallback",
			"path", path,
			"fallback", path+distSuffix,
		)

		body, ok = loadTemplateFile(path + distSuffix)
		if !ok {
			return nil, &ConfigurationError{Path: path}
		}
	}

	if openDelim == "" {
		openDelim = DefaultOpenDelimiter
	}

	if closeDelim == "" {
		closeDelim = DefaultCloseDelimiter
	}

	return &Template{
		body:       body,
		openDelim:  openDelim,
		closeDelim: closeDelim,
		vars:       Variables{},
	}, nil
}

// loadTemplateFile returns the content of path when it is
// a regular file with non-empty content.
func loadTemplateFile(path string) (string, bool) {
	fi, err := os.Stat(path)
	if err != nil || !fi.Mode().IsRegular() {
		return "", false
	}

	content, err := os.ReadFile(path) //nolint:gosec // caller-provided path
	if err != nil || len(content) == 0 {
		return "", false
	}

	return string(content), true
}

// Delimiters returns the open and close delimiters.
func (t *Template) Delimiters() (string, string) {
	return t.openDelim, t.closeDelim
}

// SetVariables stores values. When merge is false, or no
// variables are held yet, values replace the current set.
// Otherwise values are merged in and override existing
// keys.
func (t *Template) SetVariables(values Variables, merge bool) {
	if !merge || len(t.vars) == 0 {
		t.vars = make(Variables, len(values))
	}

	maps.Copy(t.vars, values)
}

// MergeVariables is SetVariables(values, true).
func (t *Template) MergeVariables(values Variables) {
	t.SetVariables(values, true)
}

// Variables returns a copy of the current variables.
func (t *Template) Variables() Variables {
	return maps.Clone(t.vars)
}

// Render substitutes every known placeholder and returns
// the result. Tokens are matched literally in a single
// left-to-right pass, so replacement values are never
// rescanned. Placeholders without a variable are kept.
//
// When two tokens match at the same offset the longer one
// wins; equal lengths are ordered by name.
func (t *Template) Render() string {
	if len(t.vars) == 0 {
		return t.body
	}

	keys := slices.Collect(maps.Keys(t.vars))
	slices.SortFunc(keys, func(a, b string) int {
		if len(a) != len(b) {
			return len(b) - len(a)
		}

		return strings.Compare(a, b)
	})

	pairs := make([]string, 0, 2*len(keys))
	for _, key := range keys {
		pairs = append(
			pairs,
			t.openDelim+key+t.closeDelim,
			t.vars[key],
		)
	}

	return strings.NewReplacer(pairs...).Replace(t.body)
}

// RenderTo writes the rendered template to target,
// replacing any existing file.
func (t *Template) RenderTo(target string) error {
	return t.RenderToFile(target, 0o666)
}

// RenderToFile is RenderTo with explicit permissions for a
// newly created file. Failures are reported as *IOError.
func (t *Template) RenderToFile(
	target string,
	perm os.FileMode,
) error {
	//nolint:gosec // caller-provided path
	if err := os.WriteFile(
		target, []byte(t.Render()), perm,
	); err != nil {
		return &IOError{Path: target, Err: err}
	}

	return nil
}
