package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// mediaExts are the container extensions treated as clip inputs when a
// directory is given on the command line.
var mediaExts = map[string]bool{
	".mp4":  true,
	".mov":  true,
	".m4v":  true,
	".mkv":  true,
	".avi":  true,
	".webm": true,
	".mpg":  true,
	".mpeg": true,
}

// ExpandInputs resolves the raw input arguments: plain files pass
// through, a directory expands to its media files in lexical order so
// run order is reproducible. A directory with no media files is an
// error rather than a silently shorter run.
func ExpandInputs(args []string) ([]string, error) {
	var out []string
	for _, a := range args {
		fi, err := os.Stat(a)
		if err != nil {
			return nil, fmt.Errorf("input not readable: %s: %w", a, err)
		}
		if !fi.IsDir() {
			out = append(out, a)
			continue
		}

		entries, err := os.ReadDir(a)
		if err != nil {
			return nil, fmt.Errorf("read input directory %s: %w", a, err)
		}
		var found []string
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			if mediaExts[strings.ToLower(filepath.Ext(e.Name()))] {
				found = append(found, filepath.Join(a, e.Name()))
			}
		}
		if len(found) == 0 {
			return nil, fmt.Errorf("input directory %s contains no media files", a)
		}
		sort.Strings(found)
		out = append(out, found...)
	}
	return out, nil
}
