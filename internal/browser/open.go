// Package browser hands URLs to the desktop's browser.
package browser

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
)

// ErrNoBrowser means no way to open a browser was found on this system.
var ErrNoBrowser = errors.New("no browser available")

// Open opens url in the user's browser without waiting for it to exit.
// $BROWSER, when set, takes precedence over the platform opener.
func Open(url string) error {
	cmd, err := Command(runtime.GOOS, os.Getenv("BROWSER"), url)
	if err != nil {
		return err
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("open %s: %w", url, err)
	}
	go cmd.Wait() //nolint:errcheck // reap the opener
	return nil
}

// Command builds the opener for goos. A non-empty override names the browser
// program, optionally with arguments.
func Command(goos, override, url string) (*exec.Cmd, error) {
	if fields := strings.Fields(override); len(fields) > 0 {
		args := append(fields[1:], url)
		return exec.Command(fields[0], args...), nil
	}
	switch goos {
	case "darwin":
		return exec.Command("open", url), nil
	case "linux", "freebsd", "openbsd", "netbsd":
		return exec.Command("xdg-open", url), nil
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", url), nil
	default:
		return nil, fmt.Errorf("%w: unsupported OS %s", ErrNoBrowser, goos)
	}
}
