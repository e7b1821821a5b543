// Package varsfile loads template variables from structured files. The
// format is chosen by extension: YAML (.yaml, .yml), JSON (.json), TOML
// (.toml) or dotenv (.env).
//
// Nested maps are flattened into dotted names, so a YAML document
//
//	db:
//	  host: localhost
//
// yields the variable "db.host". Scalars are converted to their textual form;
// lists are rejected.
package varsfile
