package stamper

import (
	"fmt"
	"os"
	"strings"

	"github.com/valyala/fasttemplate"
)

// LoadStamps reads workspace status files and merges them
// into a single map. Each line is "KEY VALUE" with the
// first space as delimiter. Lines without a space are
// silently skipped and later files override earlier ones.
func LoadStamps(
	infoFiles []string,
) (map[string]string, error) {
	const errCtx = "loading stamps"

	stamps := make(map[string]string)

	for _, sf := range infoFiles {
		content, err := os.ReadFile(sf) //nolint:gosec // paths from CLI flags
		if err != nil {
			return nil, fmt.Errorf(
				"%s: %w", errCtx, err,
			)
		}

		for _, line := range strings.Split(
			string(content), "\n",
		) {
			parts := strings.SplitN(line, " ", 2)
			if len(parts) == 2 {
				stamps[parts[0]] = parts[1]
			}
		}
	}

	return stamps, nil
}

// Expand substitutes {VAR} stamp references in format.
// Unknown references are preserved as-is.
func Expand(
	format string,
	stamps map[string]string,
) string {
	if len(stamps) == 0 {
		return format
	}

	ctx := make(map[string]interface{}, len(stamps))
	for key, val := range stamps {
		ctx[key] = val
	}

	return fasttemplate.ExecuteStringStd(
		format, "{", "}", ctx,
	)
}
