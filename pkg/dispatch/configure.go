package dispatch

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/noperator/heph/pkg/config"
	"github.com/noperator/heph/pkg/ui"
)

func (d *Dispatcher) configure(ctx context.Context) error {
	current, err := d.Store.ReadFile()
	if err != nil {
		return err
	}

	tokenPrompt := "OpenAI API token: "
	if current.Configured() {
		tokenPrompt = fmt.Sprintf("OpenAI API token [%s]: ", current.MaskedToken())
	}
	fmt.Fprint(d.Status, tokenPrompt)
	token, err := d.readSecret()
	if err != nil {
		return fmt.Errorf("failed to read API token: %w", err)
	}

	fmt.Fprintf(d.Status, "Model [%s]: ", current.Model)
	model, err := d.readLine()
	if err != nil {
		return fmt.Errorf("failed to read model: %w", err)
	}

	cfg := *current
	if token != "" {
		cfg.APIToken = token
	}
	if model != "" {
		cfg.Model = model
	}
	if !cfg.Configured() {
		return fmt.Errorf("%w: no API token given", config.ErrNotConfigured)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	// Check the typed token against the endpoint answers will use.
	probe := cfg
	probe.ApplyEnvEndpoint()

	spin := d.spinner("Authenticating")
	spin.Start()
	err = d.NewProvider(probe).CheckValidity(ctx)
	spin.Stop()
	if err != nil {
		return err
	}

	if err := d.Store.Save(cfg); err != nil {
		return err
	}

	d.Logger.Info("configuration saved",
		"component", "config",
		"operation", "save",
		"path", d.Store.Path(),
		"model", cfg.Model)

	d.printf("%s\n", ui.Success("Configuration saved to %s", d.Store.Path()))
	return nil
}

func (d *Dispatcher) reader() *bufio.Reader {
	if d.lines == nil {
		d.lines = bufio.NewReader(d.In)
	}
	return d.lines
}

// readLine returns the next trimmed line from In. EOF reads as an empty answer.
func (d *Dispatcher) readLine() (string, error) {
	line, err := d.reader().ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (d *Dispatcher) readSecret() (string, error) {
	if d.ReadSecret != nil {
		return d.ReadSecret()
	}

	if f, ok := d.In.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		raw, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(d.Status)
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(raw)), nil
	}

	return d.readLine()
}
