package varsfile_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/byte4ever/text_template/varsfile"
)

// writeTemp creates a temporary file with content and
// returns its path.
func writeTemp(
	tb testing.TB,
	dir string,
	name string,
	content string,
) string {
	tb.Helper()

	pa := filepath.Join(dir, name)
	require.NoError(tb, os.WriteFile(pa, []byte(content), 0o600))

	return pa
}

func TestLoad_formats(t *testing.T) {
	t.Parallel()

	testcases := []struct {
		name    string
		file    string
		content string
	}{
		{
			name: "yaml",
			file: "vars.yaml",
			content: `app: web
port: 8080
ratio: 1.5
debug: true
db:
  host: localhost
`,
		},
		{
			name: "yml",
			file: "vars.yml",
			content: `app: web
port: 8080
ratio: 1.5
debug: true
db:
  host: localhost
`,
		},
		{
			name: "json",
			file: "vars.json",
			content: `{"app": "web", "port": 8080, "ratio": 1.5,
"debug": true, "db": {"host": "localhost"}}`,
		},
		{
			name: "toml",
			file: "vars.toml",
			content: `app = "web"
port = 8080
ratio = 1.5
debug = true

[db]
host = "localhost"
`,
		},
	}

	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			pa := writeTemp(t, t.TempDir(), tc.file, tc.content)

			got, err := varsfile.Load(pa)

			require.NoError(t, err)
			assert.Equal(
				t,
				map[string]string{
					"app":     "web",
					"port":    "8080",
					"ratio":   "1.5",
					"debug":   "true",
					"db.host": "localhost",
				},
				got,
			)
		})
	}
}

func TestLoad_json_large_integers(t *testing.T) {
	t.Parallel()

	pa := writeTemp(
		t, t.TempDir(), "vars.json",
		`{"build": 12345678901234567891, "id": 9007199254740993, "ratio": 0.25}`,
	)

	got, err := varsfile.Load(pa)

	require.NoError(t, err)
	assert.Equal(
		t,
		map[string]string{
			"build": "12345678901234567891",
			"id":    "9007199254740993",
			"ratio": "0.25",
		},
		got,
	)
}

func TestLoad_toml_datetimes(t *testing.T) {
	t.Parallel()

	pa := writeTemp(
		t, t.TempDir(), "vars.toml",
		`when = 1979-05-27T07:32:00Z
local = 1979-05-27T07:32:00
day = 1979-05-27
at = 07:32:00
`,
	)

	got, err := varsfile.Load(pa)

	require.NoError(t, err)
	assert.Equal(
		t,
		map[string]string{
			"when":  "1979-05-27T07:32:00Z",
			"local": "1979-05-27T07:32:00",
			"day":   "1979-05-27",
			"at":    "07:32:00",
		},
		got,
	)
}

func TestLoad_duplicate_flattened_name(t *testing.T) {
	t.Parallel()

	pa := writeTemp(
		t, t.TempDir(), "vars.yaml",
		"a.b: x\na:\n  b: y\n",
	)

	_, err := varsfile.Load(pa)

	require.ErrorIs(t, err, varsfile.ErrDuplicateName)
	assert.Contains(t, err.Error(), "a.b")
}

func TestLoad_dotenv(t *testing.T) {
	t.Parallel()

	pa := writeTemp(
		t, t.TempDir(), "build.env",
		"# build settings\nAPP=web\nGREETING=\"hello world\"\n",
	)

	got, err := varsfile.Load(pa)

	require.NoError(t, err)
	assert.Equal(
		t,
		map[string]string{
			"APP":      "web",
			"GREETING": "hello world",
		},
		got,
	)
}

func TestLoad_null_value_is_empty(t *testing.T) {
	t.Parallel()

	pa := writeTemp(t, t.TempDir(), "vars.yaml", "empty: null\n")

	got, err := varsfile.Load(pa)

	require.NoError(t, err)
	assert.Equal(t, map[string]string{"empty": ""}, got)
}

func TestLoad_list_rejected(t *testing.T) {
	t.Parallel()

	pa := writeTemp(
		t, t.TempDir(), "vars.json", `{"hosts": ["a", "b"]}`,
	)

	_, err := varsfile.Load(pa)

	require.ErrorIs(t, err, varsfile.ErrUnsupportedValue)
	assert.Contains(t, err.Error(), "hosts")
}

func TestLoad_unsupported_extension(t *testing.T) {
	t.Parallel()

	pa := writeTemp(t, t.TempDir(), "vars.ini", "a=b\n")

	_, err := varsfile.Load(pa)

	require.ErrorIs(t, err, varsfile.ErrUnsupportedFormat)
}

func TestLoad_missing_file(t *testing.T) {
	t.Parallel()

	_, err := varsfile.Load("/nonexistent/vars.yaml")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading vars file")
}

func TestLoad_malformed_content(t *testing.T) {
	t.Parallel()

	pa := writeTemp(t, t.TempDir(), "vars.json", `{"a": `)

	_, err := varsfile.Load(pa)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing vars")
}

func TestParse_extension_is_case_insensitive(t *testing.T) {
	t.Parallel()

	got, err := varsfile.Parse(".JSON", []byte(`{"a": "b"}`))

	require.NoError(t, err)
	assert.Equal(t, map[string]string{"a": "b"}, got)
}
