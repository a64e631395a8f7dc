package browser

import (
	"errors"
	"fmt"
	"net/url"
	"os/exec"
	"runtime"

	"github.com/fredcamaral/slidegen/internal/domain/ports"
)

// ErrNoBrowser is returned when no known opener is installed
var ErrNoBrowser = errors.New("no supported browser found on this system")

// Candidate is one way of opening a URL on a platform
type Candidate struct {
	Name    string
	Command string
	Args    func(url string) []string
}

// Launcher opens the served UI in a local browser
type Launcher struct {
	candidates []Candidate
	lookPath   func(file string) (string, error)
	start      func(name string, args ...string) error
}

// NewLauncher creates a launcher for the current platform
func NewLauncher() *Launcher {
	return &Launcher{
		candidates: candidatesFor(runtime.GOOS),
		lookPath:   exec.LookPath,
		start:      startDetached,
	}
}

// Open opens rawURL, which must be an http or https address
func (l *Launcher) Open(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("refusing to open %q: not an http url", rawURL)
	}

	candidate, err := l.selectCandidate()
	if err != nil {
		return err
	}
	if err := l.start(candidate.Command, candidate.Args(u.String())...); err != nil {
		return fmt.Errorf("launching %s: %w", candidate.Name, err)
	}
	return nil
}

// Detect returns the name of the opener Open would use
func (l *Launcher) Detect() (string, error) {
	candidate, err := l.selectCandidate()
	if err != nil {
		return "", err
	}
	return candidate.Name, nil
}

// selectCandidate returns the first candidate whose command is on PATH
func (l *Launcher) selectCandidate() (*Candidate, error) {
	for i := range l.candidates {
		if _, err := l.lookPath(l.candidates[i].Command); err == nil {
			return &l.candidates[i], nil
		}
	}
	return nil, ErrNoBrowser
}

func startDetached(name string, args ...string) error {
	cmd := exec.Command(name, args...) // #nosec G204 - command comes from the fixed candidate list
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() { _ = cmd.Wait() }()
	return nil
}

func plainArgs(url string) []string { return []string{url} }

// candidatesFor lists openers in preference order
func candidatesFor(goos string) []Candidate {
	switch goos {
	case "darwin":
		return []Candidate{
			{Name: "Default", Command: "open", Args: plainArgs},
		}
	case "linux", "freebsd", "openbsd":
		return []Candidate{
			{Name: "xdg-open", Command: "xdg-open", Args: plainArgs},
			{Name: "Chrome", Command: "google-chrome", Args: plainArgs},
			{Name: "Chromium", Command: "chromium", Args: plainArgs},
			{Name: "Firefox", Command: "firefox", Args: plainArgs},
		}
	case "windows":
		return []Candidate{
			{Name: "Default", Command: "rundll32", Args: func(url string) []string {
				return []string{"url.dll,FileProtocolHandler", url}
			}},
		}
	default:
		return nil
	}
}

// Ensure Launcher implements ports.BrowserLauncher
var _ ports.BrowserLauncher = (*Launcher)(nil)
