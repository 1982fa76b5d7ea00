package assets

import (
	"fmt"
	"os"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
)

// Scan lists the PNG files present under the asset root, relative to it.
// Used to report which catalog entries exist on disk before preloading.
func Scan(root string) ([]string, error) {
	matches, err := doublestar.Glob(os.DirFS(root), "**/*.png")
	if err != nil {
		return nil, fmt.Errorf("failed to scan asset dir %s: %w", root, err)
	}
	sort.Strings(matches)
	return matches, nil
}

// Missing returns the catalog paths that Scan did not find under root.
func Missing(root string) ([]string, error) {
	found, err := Scan(root)
	if err != nil {
		return nil, err
	}

	present := make(map[string]bool, len(found))
	for _, p := range found {
		present[p] = true
	}

	var missing []string
	for _, id := range Backgrounds {
		if !present[BackgroundPath(id)] {
			missing = append(missing, BackgroundPath(id))
		}
	}
	for _, id := range Characters {
		if !present[CharacterPath(id)] {
			missing = append(missing, CharacterPath(id))
		}
		if !present[BakedPath(id)] {
			missing = append(missing, BakedPath(id))
		}
	}
	return missing, nil
}
