package shell

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/deskwing/deskwing/internal/bundle"
)

// iconExtensions are the formats window shells accept.
var iconExtensions = map[string]bool{
	".ico":  true,
	".png":  true,
	".jpg":  true,
	".jpeg": true,
}

// defaultIconPath is tried when the configured icon is absent.
const defaultIconPath = "assets/icon_default.png"

// ResolveIcon resolves the configured icon to an absolute path, falling back
// to the bundled default, then to no icon. A missing icon never blocks the
// window from opening.
func ResolveIcon(configured string) string {
	for _, candidate := range []string{configured, defaultIconPath} {
		if candidate == "" {
			continue
		}
		if !iconExtensions[strings.ToLower(filepath.Ext(candidate))] {
			continue
		}
		path, err := bundle.ResourcePath(candidate)
		if err != nil {
			continue
		}
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}
