package viewer

import (
	"fmt"
	"log/slog"
	"os/exec"
	"runtime"

	"github.com/mmcdole/folio/internal/domain"
)

// Launcher opens document URLs in an external viewer. Page rasterization is
// entirely the viewer's problem; folio only hands over the file location.
type Launcher struct {
	command string // configured viewer command, empty for auto-detect
	logger  *slog.Logger
}

// candidateViewers defines the preferred viewer order per platform and
// file type.
var candidateViewers = map[string]map[domain.FileType][]string{
	"linux": {
		domain.FileTypePDF:  {"zathura", "evince", "okular", "mupdf"},
		domain.FileTypeEPUB: {"foliate", "calibre", "okular"},
	},
	"darwin": {
		domain.FileTypePDF:  {},
		domain.FileTypeEPUB: {},
	},
}

// NewLauncher creates a new Launcher
func NewLauncher(command string, logger *slog.Logger) *Launcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Launcher{command: command, logger: logger}
}

// Open launches the document in the configured viewer, falling back to the
// platform candidate chain and finally the system default handler.
func (l *Launcher) Open(url string, fileType domain.FileType) error {
	if l.command != "" {
		l.logger.Info("using configured viewer", "command", l.command)
		return l.launch(l.command, url)
	}

	if platform, ok := candidateViewers[runtime.GOOS]; ok {
		for _, candidate := range platform[fileType] {
			if _, err := exec.LookPath(candidate); err != nil {
				continue
			}
			if err := l.launch(candidate, url); err == nil {
				l.logger.Info("launched with detected viewer", "viewer", candidate)
				return nil
			}
		}
	}

	l.logger.Info("no candidate viewers found, using system default")
	return l.launchDefault(url)
}

func (l *Launcher) launch(command, url string) error {
	if _, err := exec.LookPath(command); err != nil {
		return fmt.Errorf("viewer not found: %w", err)
	}
	return exec.Command(command, url).Start() // Start async, don't wait
}

// launchDefault opens the URL using the system default handler
func (l *Launcher) launchDefault(url string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", "", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}

	l.logger.Info("launching with system default", "os", runtime.GOOS, "url", url)
	return cmd.Start()
}
