package dispatch

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/noperator/heph/pkg/command"
	"github.com/noperator/heph/pkg/config"
	"github.com/noperator/heph/pkg/ui"
)

const aboutText = `Hephaestus (heph) answers developer questions from the terminal.

It sends your query to an OpenAI-compatible model and prints the reply,
either as prose or as bare code ready to paste or pipe.
Run 'heph configure' once to store an API token.`

var details = map[command.Name]string{
	command.Help:    "Lists every command with its aliases.",
	command.About:   "Prints a short description of heph.",
	command.Version: "Prints the installed version.",
	command.Answer: `The query must be passed as a single -q= argument; quote it when it contains spaces.
Flags:
  --text, -t   answer in prose (default)
  --code, -c   answer with code only`,
	command.Configure: `Prompts for an OpenAI API token and a model, checks the token
against the provider and stores both in the config file.
OPENAI_API_KEY, OPENAI_API_BASE and OPENAI_API_MODEL override stored values.`,
	command.ConfigInfo: "Shows where the configuration lives and what it contains. The token is masked.",
}

func (d *Dispatcher) help() error {
	d.printf("%s\n\n", ui.Accent("Usage: heph <command> [options]"))

	tw := tabwriter.NewWriter(d.Out, 0, 0, 3, ' ', 0)
	for _, spec := range command.Commands() {
		fmt.Fprintf(tw, "  %s\t%s\t%s\n", spec.Name, strings.Join(spec.Aliases, ", "), spec.Summary)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	d.printf("\nRun 'heph <command> --help' for details on a command.\n")
	return nil
}

func (d *Dispatcher) describe(name command.Name) error {
	spec, ok := command.Lookup(string(name))
	if !ok {
		return fmt.Errorf("no description for command %q", name)
	}

	d.printf("%s\n\n", ui.Accent("Usage: %s", spec.Usage))
	d.printf("%s\n", spec.Summary)
	if text := details[name]; text != "" {
		d.printf("\n%s\n", text)
	}
	d.printf("\nAliases: %s\n", strings.Join(spec.Aliases, ", "))
	return nil
}

func (d *Dispatcher) about() error {
	d.printf("%s\n", aboutText)
	return nil
}

func (d *Dispatcher) version() error {
	d.printf("heph version %s\n", d.Version)
	return nil
}

func (d *Dispatcher) configInfo() error {
	cfg, err := d.Store.Load()
	if err != nil {
		return err
	}
	if !cfg.Configured() {
		return config.ErrNotConfigured
	}

	tw := tabwriter.NewWriter(d.Out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Config file:\t%s\n", d.Store.Path())
	fmt.Fprintf(tw, "API token:\t%s\n", cfg.MaskedToken())
	fmt.Fprintf(tw, "Model:\t%s\n", cfg.Model)
	if cfg.BaseURL != "" {
		fmt.Fprintf(tw, "Base URL:\t%s\n", cfg.BaseURL)
	}
	fmt.Fprintf(tw, "Max tokens:\t%d\n", cfg.MaxTokens)
	fmt.Fprintf(tw, "Temperature:\t%g\n", cfg.Temperature)
	fmt.Fprintf(tw, "Timeout:\t%s\n", cfg.Timeout())
	if cfg.PromptTemplate != "" {
		fmt.Fprintf(tw, "Prompt template:\t%s\n", cfg.PromptTemplate)
	}
	return tw.Flush()
}
