// Package bundle resolves paths to application resources for both source
// checkouts and packaged distributions.
//
// Packaged builds place the executable next to an _internal directory that
// holds config, assets and page content. Source runs resolve against the
// working directory (or DESKWING_ROOT when set). All results are absolute,
// so resolution stays correct no matter what the current directory is when
// a resource is opened.
package bundle

import (
	"os"
	"path/filepath"
)

// internalDirName is the resource directory packaged next to the executable.
const internalDirName = "_internal"

// rootEnv overrides resource-root detection. Used by tests and by dev runs
// started outside the project directory.
const rootEnv = "DESKWING_ROOT"

// Bundled reports whether the process is running from a packaged
// distribution, i.e. the executable sits next to an _internal directory.
func Bundled() bool {
	dir, err := executableDir()
	if err != nil {
		return false
	}
	info, err := os.Stat(filepath.Join(dir, internalDirName))
	return err == nil && info.IsDir()
}

// Root returns the directory resource paths resolve against: _internal for
// packaged runs, DESKWING_ROOT or the working directory for source runs.
func Root() (string, error) {
	if env := os.Getenv(rootEnv); env != "" {
		return filepath.Abs(env)
	}
	if Bundled() {
		dir, err := executableDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, internalDirName), nil
	}
	return os.Getwd()
}

// ResourcePath resolves rel against Root. Absolute inputs pass through
// unchanged.
func ResourcePath(rel string) (string, error) {
	if filepath.IsAbs(rel) {
		return rel, nil
	}
	root, err := Root()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, rel), nil
}

func executableDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(exe), nil
}
