package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/noperator/heph/pkg/command"
	"github.com/noperator/heph/pkg/config"
	"github.com/noperator/heph/pkg/llm"
)

// renderError turns any error reaching the top level into a user-facing message.
func renderError(err error) string {
	var cmdErr *command.Error
	if errors.As(err, &cmdErr) {
		return renderCommandError(cmdErr)
	}

	var verr config.ValidationError
	switch {
	case errors.Is(err, config.ErrNotConfigured):
		return "Hephaestus is not configured yet. Run 'heph configure' to configure."
	case errors.Is(err, llm.ErrInvalidToken):
		return "API token is invalid. Run 'heph configure' with a valid token."
	case errors.Is(err, llm.ErrDependencyBusy):
		return "The AI provider is busy right now. Please try again in a moment."
	case errors.Is(err, llm.ErrServiceDown):
		return "Internal dependency error. Please raise an issue on github."
	case errors.Is(err, context.DeadlineExceeded):
		return "Timed out waiting for the AI provider. Increase timeout_seconds in the config file."
	case errors.Is(err, context.Canceled):
		return "Interrupted."
	case errors.As(err, &verr):
		return fmt.Sprintf("Invalid configuration: %s %s.", verr.Field, verr.Message)
	default:
		return "Internal error. Please raise an issue on github."
	}
}

func renderCommandError(err *command.Error) string {
	switch err.Kind {
	case command.UnknownCommand:
		return fmt.Sprintf("Argument '%s' not recognized. Please pass the correct argument.", err.Token)
	case command.ExtraArguments:
		return fmt.Sprintf("Encountered extra argument(s). Argument '%s' was not expected.", err.Token)
	case command.EmptyQuery:
		return "Query parameter is empty. Please pass the query."
	case command.OptionNotRecognized:
		return fmt.Sprintf("Option '%s' not recognized. Pass the query as -q=\"<query>\".", err.Token)
	case command.InvalidFlag:
		return fmt.Sprintf("Flag '%s' is not valid. Use --text, -t, --code or -c.", err.Token)
	default:
		return "Internal error. Please raise an issue on github."
	}
}
