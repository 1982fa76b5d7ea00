package assets

import (
	"os"
	"path/filepath"
)

func removeAsset(root, rel string) error {
	return os.Remove(filepath.Join(root, filepath.FromSlash(rel)))
}
