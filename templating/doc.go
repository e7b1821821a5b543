// Package templating provides minimal text templating for build and test
// tooling: literal substitution of <open>NAME<close> placeholders, with
// single-brace delimiters by default.
//
// Template loads a template file once (falling back to a ".dist" sibling when
// the file is missing or empty), holds a set of variables with merge
// semantics, and renders the substituted text to a string or a file.
//
// Engine drives a Template from a build rule: it layers variables from stamp
// info files, vars files, explicit NAME=VALUE pairs and imported
// sub-templates, then writes the result, optionally skipping unchanged
// outputs or checking them for staleness.
package templating
