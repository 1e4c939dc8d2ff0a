// Package opener hands activated links to the operating system.
package opener

import (
	"fmt"
	"log/slog"
	"net/url"
	"os/exec"
	"runtime"
	"strings"
)

// Opener is the environment collaborator that opens URLs.
type Opener interface {
	CanOpen(url string) bool
	Open(url string) error
}

// OpenURL opens raw if o can open it as is. Otherwise it retries exactly
// once with "https://" prepended. It reports whether either attempt
// succeeded.
func OpenURL(o Opener, raw string) bool {
	if o == nil || raw == "" {
		return false
	}
	if o.CanOpen(raw) {
		if err := o.Open(raw); err != nil {
			slog.Info("link could not be opened", "url", raw, "err", err)
			return false
		}
		slog.Info("link opened", "url", raw)
		return true
	}
	corrected := "https://" + raw
	if err := o.Open(corrected); err != nil {
		slog.Info("link could not be opened", "url", raw, "corrected", corrected, "err", err)
		return false
	}
	slog.Info("link corrected and opened", "url", raw, "corrected", corrected)
	return true
}

// Schemes the system opener accepts without correction.
var Schemes = []string{"http", "https", "mailto", "ftp", "file", "tel"}

// System opens URLs with a configured command or the platform default
// (xdg-open, open or the url.dll protocol handler).
type System struct {
	// Command overrides the platform default. An argument "{url}" is
	// replaced by the URL, otherwise the URL is appended.
	Command []string
	// GOOS selects the platform default; empty means runtime.GOOS.
	GOOS string
}

var _ Opener = System{}

// CanOpen reports whether raw is an absolute URL with a supported scheme.
func (s System) CanOpen(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" {
		return false
	}
	scheme := strings.ToLower(u.Scheme)
	for _, ok := range Schemes {
		if scheme == ok {
			// a bare "mailto:" has nothing to open
			return u.Opaque != "" || u.Host != "" || u.Path != ""
		}
	}
	return false
}

// Open starts the opener command without waiting for it.
func (s System) Open(raw string) error {
	cmd, err := s.Cmd(raw)
	if err != nil {
		return err
	}
	return cmd.Start()
}

// Cmd builds the command that opens raw.
func (s System) Cmd(raw string) (*exec.Cmd, error) {
	if len(s.Command) > 0 {
		args := make([]string, 0, len(s.Command)+1)
		replaced := false
		for _, a := range s.Command[1:] {
			if strings.Contains(a, "{url}") {
				a = strings.ReplaceAll(a, "{url}", raw)
				replaced = true
			}
			args = append(args, a)
		}
		if !replaced {
			args = append(args, raw)
		}
		return exec.Command(s.Command[0], args...), nil
	}

	goos := s.GOOS
	if goos == "" {
		goos = runtime.GOOS
	}
	switch goos {
	case "linux", "freebsd", "openbsd", "netbsd":
		return exec.Command("xdg-open", raw), nil
	case "darwin":
		return exec.Command("open", raw), nil
	case "windows":
		// cmd.exe would interpret & | ^ < > inside the URL; rundll32 takes it as one argument.
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", raw), nil
	default:
		return nil, fmt.Errorf("unsupported platform %s", goos)
	}
}
