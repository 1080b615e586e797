package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// SessionFile is the name looked for inside directories.
const SessionFile = "session.json"

// FindSessions expands args into session files. Files are taken as given;
// directories are walked for session.json, skipping hidden directories.
func FindSessions(args []string) ([]string, error) {
	var out []string
	seen := map[string]bool{}
	add := func(p string) {
		if abs, err := filepath.Abs(p); err == nil {
			p = abs
		}
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}

	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("find sessions: %w", err)
		}
		if !info.IsDir() {
			add(arg)
			continue
		}
		var found []string
		err = filepath.WalkDir(arg, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if strings.HasPrefix(d.Name(), ".") && path != arg {
					return filepath.SkipDir
				}
				return nil
			}
			if d.Name() == SessionFile {
				found = append(found, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("find sessions: %w", err)
		}
		sort.Strings(found)
		for _, p := range found {
			add(p)
		}
	}
	return out, nil
}

// outputName derives a per-session output directory name from its path:
// the file stem, or the parent directory for session.json.
func outputName(path string) string {
	base := filepath.Base(path)
	if base == SessionFile {
		return filepath.Base(filepath.Dir(path))
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}
