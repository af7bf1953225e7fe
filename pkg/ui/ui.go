// Package ui holds the small terminal helpers heph prints through.
package ui

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/fatih/color"
	"golang.org/x/term"
)

var (
	errorStyle   = color.New(color.FgRed, color.Bold)
	successStyle = color.New(color.FgGreen)
	accentStyle  = color.New(color.FgCyan, color.Bold)
	mutedStyle   = color.New(color.Faint)
)

// Error styles an error line.
func Error(format string, a ...any) string { return errorStyle.Sprintf(format, a...) }

// Success styles a confirmation line.
func Success(format string, a ...any) string { return successStyle.Sprintf(format, a...) }

// Accent styles headings and command names.
func Accent(format string, a ...any) string { return accentStyle.Sprintf(format, a...) }

// Muted styles secondary text.
func Muted(format string, a ...any) string { return mutedStyle.Sprintf(format, a...) }

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Spinner animates a message on a single line until stopped.
type Spinner struct {
	w        io.Writer
	message  string
	interval time.Duration
	enabled  bool

	mu      sync.Mutex
	running bool
	stop    chan struct{}
	done    chan struct{}
}

// NewSpinner returns a spinner writing to w. A disabled spinner is a no-op,
// which keeps frames out of pipes and log files.
func NewSpinner(w io.Writer, message string, enabled bool) *Spinner {
	return &Spinner{
		w:        w,
		message:  message,
		interval: 80 * time.Millisecond,
		enabled:  enabled,
	}
}

// Start begins the animation. Calling Start on a running spinner does nothing.
func (s *Spinner) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.enabled || s.running {
		return
	}
	s.running = true
	s.stop = make(chan struct{})
	s.done = make(chan struct{})

	go s.run(s.stop, s.done)
}

// Stop ends the animation and clears the line. It blocks until the
// goroutine has exited so nothing is written after Stop returns.
func (s *Spinner) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	close(s.stop)
	done := s.done
	s.mu.Unlock()

	<-done
}

func (s *Spinner) run(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for i := 0; ; i++ {
		fmt.Fprintf(s.w, "\r%s %s", accentStyle.Sprint(spinnerFrames[i%len(spinnerFrames)]), s.message)

		select {
		case <-stop:
			fmt.Fprint(s.w, "\r\033[K")
			return
		case <-ticker.C:
		}
	}
}
