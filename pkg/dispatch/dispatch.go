// Package dispatch routes a validated command.Executable to its handler.
package dispatch

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/noperator/heph/pkg/command"
	"github.com/noperator/heph/pkg/config"
	"github.com/noperator/heph/pkg/llm"
	"github.com/noperator/heph/pkg/ui"
)

// Provider is the subset of the AI client the handlers need.
type Provider interface {
	CheckValidity(ctx context.Context) error
	Answer(ctx context.Context, query string, rt command.ResponseType) (*llm.Answer, error)
}

// ConfigStore persists the provider configuration.
type ConfigStore interface {
	Load() (*config.Config, error)
	ReadFile() (*config.Config, error)
	Save(cfg config.Config) error
	Path() string
}

// Dispatcher runs Executables. Out receives results; Status receives the
// spinner and prompts so that Out stays clean for pipes.
type Dispatcher struct {
	Out         io.Writer
	Status      io.Writer
	In          io.Reader
	Store       ConfigStore
	NewProvider func(cfg config.Config) Provider
	ReadSecret  func() (string, error)
	Version     string
	Logger      *slog.Logger
	Spinner     bool

	lines *bufio.Reader
}

// Run executes exec. exec must come from command.Validate.
func (d *Dispatcher) Run(ctx context.Context, exec command.Executable) error {
	d.Logger.Debug("dispatching",
		"component", "dispatch",
		"command", exec.Command,
		"describe", exec.Describe,
		"response_type", exec.ResponseType)

	if exec.Describe {
		return d.describe(exec.Command)
	}

	switch exec.Command {
	case command.Help:
		return d.help()
	case command.About:
		return d.about()
	case command.Version:
		return d.version()
	case command.ConfigInfo:
		return d.configInfo()
	case command.Configure:
		return d.configure(ctx)
	case command.Answer:
		if exec.Data == nil {
			return fmt.Errorf("answer dispatched without a query")
		}
		return d.answer(ctx, exec.Data.Query, exec.ResponseType)
	default:
		return fmt.Errorf("no handler for command %q", exec.Command)
	}
}

func (d *Dispatcher) spinner(message string) *ui.Spinner {
	return ui.NewSpinner(d.Status, message, d.Spinner)
}

func (d *Dispatcher) printf(format string, a ...any) {
	fmt.Fprintf(d.Out, format, a...)
}
