// Package migrations holds the SQL schema for the jokes database. Files are
// named {version}_{name}.up.sql and {version}_{name}.down.sql, the layout
// written by pebble's migration generator, and are compiled into the binary.
package migrations

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/marshallshelly/pebble-orm/pkg/migration"
)

//go:embed *.sql
var files embed.FS

// Load returns the embedded migrations ordered by version.
func Load() ([]migration.Migration, error) {
	return LoadFS(files)
}

// LoadFS reads migrations from the root of fsys. Every version must have
// both an up and a down file.
func LoadFS(fsys fs.FS) ([]migration.Migration, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations: %w", err)
	}

	byVersion := make(map[string]*migration.Migration)
	hasUp := make(map[string]bool)
	hasDown := make(map[string]bool)

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		fileName := entry.Name()
		version, rest, ok := strings.Cut(fileName, "_")
		if !ok || !isVersion(version) {
			continue
		}

		var name string
		var up bool
		if before, ok := strings.CutSuffix(rest, ".up.sql"); ok {
			name, up = before, true
		} else if before, ok := strings.CutSuffix(rest, ".down.sql"); ok {
			name = before
		} else {
			continue
		}

		content, err := fs.ReadFile(fsys, fileName)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", fileName, err)
		}

		m, exists := byVersion[version]
		if !exists {
			m = &migration.Migration{Version: version, Name: name}
			byVersion[version] = m
		}
		if m.Name != name {
			return nil, fmt.Errorf("migration %s has mismatched names %q and %q", version, m.Name, name)
		}

		if up {
			m.UpSQL = string(content)
			hasUp[version] = true
		} else {
			m.DownSQL = string(content)
			hasDown[version] = true
		}
	}

	out := make([]migration.Migration, 0, len(byVersion))
	for version, m := range byVersion {
		if !hasUp[version] || !hasDown[version] {
			return nil, fmt.Errorf("migration %s_%s is missing its up or down file", version, m.Name)
		}
		out = append(out, *m)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Version < out[j].Version })
	return out, nil
}

// isVersion reports whether s is a 14 digit timestamp.
func isVersion(s string) bool {
	if len(s) != 14 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
