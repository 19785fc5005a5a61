package migrate

import (
	"bufio"
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"strings"
)

const (
	versionDigits = len("20060102150405")
	upMarker      = "-- +goose Up"
	downMarker    = "-- +goose Down"
)

// ValidateDir lints the .sql files in dir: each is named
// <14-digit version>_<slug>.sql, no version repeats, and both goose markers
// are present. It returns how many migrations it checked.
func ValidateDir(dir string) (int, error) {
	if dir == "" {
		return 0, errNoDir
	}
	fsys := os.DirFS(dir)
	names, err := fs.Glob(fsys, "*.sql")
	if err != nil {
		return 0, err
	}
	if len(names) == 0 {
		if _, statErr := os.Stat(dir); statErr != nil {
			return 0, fmt.Errorf("read dir %q: %w", dir, statErr)
		}
		return 0, fmt.Errorf("no migrations found in %q", dir)
	}

	versions := make(map[string]string, len(names))
	for _, name := range names {
		version, ok := migrationVersion(name)
		if !ok {
			return 0, fmt.Errorf("invalid migration filename %q (want YYYYMMDDHHMMSS_name.sql)", name)
		}
		if other, dup := versions[version]; dup {
			return 0, fmt.Errorf("version %s used by both %q and %q", version, other, name)
		}
		versions[version] = name

		body, err := fs.ReadFile(fsys, name)
		if err != nil {
			return 0, err
		}
		if missing := missingMarker(body); missing != "" {
			return 0, fmt.Errorf("migration %q has no %q section", name, missing)
		}
	}
	return len(versions), nil
}

func migrationVersion(name string) (string, bool) {
	version, rest, ok := strings.Cut(strings.TrimSuffix(name, ".sql"), "_")
	if !ok || len(version) != versionDigits || rest == "" {
		return "", false
	}
	for _, r := range version {
		if r < '0' || r > '9' {
			return "", false
		}
	}
	for _, r := range rest {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') && r != '_' {
			return "", false
		}
	}
	return version, true
}

// missingMarker returns the first goose marker that has no line of its own.
func missingMarker(body []byte) string {
	var up, down bool
	lines := bufio.NewScanner(bytes.NewReader(body))
	for lines.Scan() {
		switch strings.TrimSpace(lines.Text()) {
		case upMarker:
			up = true
		case downMarker:
			down = true
		}
	}
	switch {
	case !up:
		return upMarker
	case !down:
		return downMarker
	}
	return ""
}
