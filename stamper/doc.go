// Package stamper reads Bazel workspace status files and expands single-brace
// {VAR} stamp references. LoadStamps parses one or more status files into a
// variable map; Expand substitutes stamps into a variable value before the
// value reaches a template.
package stamper
