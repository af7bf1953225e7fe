package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/noperator/heph/pkg/command"
	"github.com/noperator/heph/pkg/config"
	"github.com/noperator/heph/pkg/dispatch"
	"github.com/noperator/heph/pkg/llm"
	"github.com/noperator/heph/pkg/logging"
	"github.com/noperator/heph/pkg/ui"
)

// Version is set at build time via ldflags.
var Version = "dev"

// newRootCmd hosts the whole grammar on one command. Flag parsing is off so
// that tokens like -q=... and -ab reach the validator untouched.
func newRootCmd(d *dispatch.Dispatcher) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "heph",
		Short: "Hephaestus: answers from an AI model in your terminal",
		Long: `Hephaestus: answers from an AI model in your terminal
Ask a question with 'heph answer -q="..."', add --code for code only.
Run 'heph help' for every command.`,
		Args:               cobra.ArbitraryArgs,
		DisableFlagParsing: true,
		SilenceUsage:       true,
		SilenceErrors:      true,
		RunE: func(cmd *cobra.Command, args []string) error {
			exec, err := command.Validate(args)
			if err != nil {
				return err
			}
			return d.Run(cmd.Context(), exec)
		},
	}
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	return rootCmd
}

func newProvider(cfg config.Config) dispatch.Provider {
	return llm.NewClient(cfg)
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	logger := logging.NewLoggerFromEnv()

	if err := config.LoadDotEnv(".env"); err != nil {
		logger.Warn("ignoring .env file",
			"component", "config",
			"error", err)
	}

	dir, err := config.DefaultDir()
	if err != nil {
		fmt.Fprintln(stderr, ui.Error("%s", renderError(err)))
		return 1
	}

	d := &dispatch.Dispatcher{
		Out:         stdout,
		Status:      stderr,
		In:          stdin,
		Store:       config.NewStore(dir),
		NewProvider: newProvider,
		Version:     Version,
		Logger:      logger,
		Spinner:     stderr == os.Stderr && ui.IsTerminal(os.Stderr),
	}

	if args == nil {
		args = []string{}
	}

	rootCmd := newRootCmd(d)
	rootCmd.SetArgs(args)
	rootCmd.SetIn(stdin)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		logger.Debug("command failed",
			"component", "main",
			"error", err)
		fmt.Fprintln(stderr, ui.Error("%s", renderError(err)))
		return 1
	}
	return 0
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
