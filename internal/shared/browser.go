package shared

import (
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
)

var getRuntime = func() string { return runtime.GOOS }

// execCommand is swapped out in tests so no browser is launched.
var execCommand = func(name string, args ...string) error {
	return exec.Command(name, args...).Start()
}

// OpenBrowser opens the default system browser to the specified URL.
//
// Only absolute http(s) URLs are accepted.
func OpenBrowser(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: not an http(s) URL: %q", ErrInvalidArgument, rawURL)
	}

	var name string
	var args []string
	switch rt := getRuntime(); rt {
	case "darwin":
		name, args = "open", []string{rawURL}
	case "linux":
		name, args = "xdg-open", []string{rawURL}
	case "windows":
		name, args = "cmd", []string{"/c", "start", rawURL}
	default:
		return fmt.Errorf("unsupported platform: %s", rt)
	}

	if err := execCommand(name, args...); err != nil {
		return fmt.Errorf("failed to open browser: %w", err)
	}

	return nil
}
