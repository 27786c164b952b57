package compiler

import (
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
)

// Discover lists the script files directly under root, excluding the
// generated declarations file. The result is sorted for deterministic
// build order.
func Discover(root string) ([]string, error) {
	matches, err := doublestar.FilepathGlob(filepath.Join(root, "*.ts"))
	if err != nil {
		return nil, err
	}
	scripts := make([]string, 0, len(matches))
	for _, match := range matches {
		if filepath.Base(match) == GeneratedModelsFile {
			continue
		}
		scripts = append(scripts, match)
	}
	sort.Strings(scripts)
	return scripts, nil
}
