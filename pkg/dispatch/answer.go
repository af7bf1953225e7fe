package dispatch

import (
	"context"
	"fmt"
	"strings"

	"github.com/noperator/heph/pkg/codeblock"
	"github.com/noperator/heph/pkg/command"
	"github.com/noperator/heph/pkg/config"
)

func (d *Dispatcher) answer(ctx context.Context, query string, rt command.ResponseType) error {
	cfg, err := d.Store.Load()
	if err != nil {
		return err
	}
	if !cfg.Configured() {
		return config.ErrNotConfigured
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout())
	defer cancel()

	provider := d.NewProvider(*cfg)

	spin := d.spinner("Generating response...")
	spin.Start()
	answer, err := provider.Answer(ctx, query, rt)
	spin.Stop()
	if err != nil {
		return fmt.Errorf("failed to get answer: %w", err)
	}

	d.Logger.Info("answer received",
		"component", "dispatch",
		"operation", "answer",
		"model", answer.Model,
		"finish_reason", answer.FinishReason,
		"total_tokens", answer.Usage.TotalTokens)

	if rt != command.ResponseCode {
		d.printf("%s\n", strings.TrimSpace(answer.Text))
		return nil
	}

	d.checkCode(answer.Text)
	d.printf("%s\n", codeblock.Code(answer.Text))
	return nil
}

// checkCode logs syntax problems in C blocks; the answer is printed regardless.
func (d *Dispatcher) checkCode(text string) {
	for i, block := range codeblock.Extract(text) {
		diags, checked, err := codeblock.CheckSyntax(block)
		if err != nil {
			d.Logger.Warn("syntax check failed",
				"component", "codeblock",
				"block", i,
				"error", err)
			continue
		}
		if !checked {
			continue
		}
		for _, diag := range diags {
			d.Logger.Warn("generated code has a syntax error",
				"component", "codeblock",
				"block", i,
				"lang", block.Lang,
				"position", diag.String())
		}
	}
}
