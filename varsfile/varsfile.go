package varsfile

import (
	"bytes"
	"encoding"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

var (
	// ErrUnsupportedFormat is returned for an unknown file
	// extension.
	ErrUnsupportedFormat = errors.New("unsupported vars file format")

	// ErrUnsupportedValue is returned for values that have
	// no textual form, such as lists.
	ErrUnsupportedValue = errors.New("unsupported variable value")

	// ErrDuplicateName is returned when a dotted key and a
	// nested map flatten to the same variable name.
	ErrDuplicateName = errors.New("duplicate variable name")
)

// Load reads the vars file at path and returns its
// variables.
func Load(path string) (map[string]string, error) {
	const errCtx = "loading vars file"

	content, err := os.ReadFile(path) //nolint:gosec // paths from CLI flags
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	vars, err := Parse(filepath.Ext(path), content)
	if err != nil {
		return nil, fmt.Errorf(
			"%s: %s: %w", errCtx, path, err,
		)
	}

	return vars, nil
}

// Parse decodes content according to the extension ext
// (including the leading dot).
func Parse(ext string, content []byte) (map[string]string, error) {
	const errCtx = "parsing vars"

	if strings.ToLower(ext) == ".env" {
		vars, err := godotenv.Parse(bytes.NewReader(content))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", errCtx, err)
		}

		return vars, nil
	}

	var (
		raw map[string]interface{}
		err error
	)

	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(content, &raw)
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(content))
		dec.UseNumber()
		err = dec.Decode(&raw)
	case ".toml":
		err = toml.Unmarshal(content, &raw)
	default:
		return nil, fmt.Errorf(
			"%s: %w: %q", errCtx, ErrUnsupportedFormat, ext,
		)
	}

	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	vars := make(map[string]string, len(raw))

	if err := flatten("", reflect.ValueOf(raw), vars); err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	return vars, nil
}

// flatten writes every scalar reachable from val into out,
// joining nested map keys with a dot.
func flatten(
	prefix string,
	val reflect.Value,
	out map[string]string,
) error {
	if val.Kind() == reflect.Interface || val.Kind() == reflect.Pointer {
		if val.IsNil() {
			return setVar(out, prefix, "")
		}

		return flatten(prefix, val.Elem(), out)
	}

	if val.IsValid() && val.CanInterface() {
		switch tv := val.Interface().(type) {
		case json.Number:
			return setVar(out, prefix, tv.String())
		case encoding.TextMarshaler:
			// time.Time and the TOML local date/time types.
			text, err := tv.MarshalText()
			if err != nil {
				return fmt.Errorf("%s: %w", prefix, err)
			}

			return setVar(out, prefix, string(text))
		}
	}

	switch val.Kind() {
	case reflect.Map:
		iter := val.MapRange()
		for iter.Next() {
			name := fmt.Sprint(iter.Key().Interface())
			if prefix != "" {
				name = prefix + "." + name
			}

			if err := flatten(name, iter.Value(), out); err != nil {
				return err
			}
		}

		return nil
	case reflect.Slice, reflect.Array:
		return fmt.Errorf(
			"%w: %s is a list", ErrUnsupportedValue, prefix,
		)
	case reflect.Float32, reflect.Float64:
		return setVar(
			out, prefix,
			strconv.FormatFloat(val.Float(), 'f', -1, 64),
		)
	case reflect.Invalid:
		return setVar(out, prefix, "")
	default:
		return setVar(out, prefix, fmt.Sprint(val.Interface()))
	}
}

// setVar stores value under name, rejecting a name that an
// earlier key already produced.
func setVar(out map[string]string, name string, value string) error {
	if _, dup := out[name]; dup {
		return fmt.Errorf("%w: %s", ErrDuplicateName, name)
	}

	out[name] = value

	return nil
}
