// Package shell opens the application window. It prefers a Chromium-family
// browser in app mode, which gives a chromeless window that looks native,
// and falls back to the platform URL opener when none is installed.
package shell

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
)

// ErrUnavailable reports that no way of opening a window exists on this
// machine.
var ErrUnavailable = errors.New("shell: no browser or URL opener available")

// Window describes the window to open.
type Window struct {
	Title  string
	URL    string
	Icon   string
	Width  int
	Height int
}

// Shell opens a Window and blocks until it is closed or ctx is cancelled.
type Shell interface {
	// Open blocks while the window is showing. Returning nil means the
	// user closed the window.
	Open(ctx context.Context, w Window) error

	// Name identifies the shell for logging.
	Name() string
}

// chromiumCandidates are tried in order. App mode is a Chromium feature;
// Firefox has no stable equivalent so it falls through to the opener.
var chromiumCandidates = []string{
	"chromium",
	"chromium-browser",
	"google-chrome",
	"google-chrome-stable",
	"brave-browser",
	"microsoft-edge",
}

// Detect finds the best available shell. Chromium app mode first, then the
// platform opener, then ErrUnavailable.
func Detect() (Shell, error) {
	for _, name := range chromiumCandidates {
		if path, err := exec.LookPath(name); err == nil {
			return &appModeShell{browserPath: path, browserName: name}, nil
		}
	}

	opener := platformOpener()
	if opener == "" {
		return nil, ErrUnavailable
	}
	if _, err := exec.LookPath(opener); err != nil {
		return nil, ErrUnavailable
	}
	return &openerShell{opener: opener}, nil
}

func platformOpener() string {
	switch runtime.GOOS {
	case "darwin":
		return "open"
	case "linux":
		return "xdg-open"
	default:
		return ""
	}
}

// appModeShell runs a Chromium-family browser with --app, which produces a
// dedicated window without browser chrome. The browser process lifetime
// tracks the window, so blocking on it means blocking on the window.
type appModeShell struct {
	browserPath string
	browserName string
}

func (s *appModeShell) Name() string { return s.browserName + " (app mode)" }

func (s *appModeShell) Open(ctx context.Context, w Window) error {
	// A private profile keeps the app window out of the user's browser
	// session; without it an already-running browser adopts the window
	// and our process returns immediately.
	profileDir, err := os.MkdirTemp("", "deskwing-profile-")
	if err != nil {
		return fmt.Errorf("create browser profile: %w", err)
	}
	defer os.RemoveAll(profileDir)

	args := []string{
		"--app=" + w.URL,
		"--user-data-dir=" + profileDir,
		"--no-first-run",
		"--no-default-browser-check",
	}
	if w.Width > 0 && w.Height > 0 {
		args = append(args, fmt.Sprintf("--window-size=%d,%d", w.Width, w.Height))
	}

	cmd := exec.CommandContext(ctx, s.browserPath, args...)
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("browser window: %w", err)
	}
	return nil
}

// openerShell hands the URL to the platform opener. The opener returns
// immediately, so the window lifetime is unknowable; Open blocks on ctx
// instead and the caller decides when the app is done.
type openerShell struct {
	opener string
}

func (s *openerShell) Name() string { return filepath.Base(s.opener) }

func (s *openerShell) Open(ctx context.Context, w Window) error {
	cmd := exec.CommandContext(ctx, s.opener, w.URL)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("open url: %w", err)
	}
	<-ctx.Done()
	return ctx.Err()
}
