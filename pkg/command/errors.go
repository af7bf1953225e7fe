package command

import "fmt"

// Kind classifies a validation failure.
type Kind int

const (
	UnknownCommand Kind = iota + 1
	ExtraArguments
	EmptyQuery
	OptionNotRecognized
	InvalidFlag
)

var kindNames = map[Kind]string{
	UnknownCommand:      "unknown command",
	ExtraArguments:      "extra arguments",
	EmptyQuery:          "empty query",
	OptionNotRecognized: "option not recognized",
	InvalidFlag:         "invalid flag",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Error is returned by Validate. Context is empty when the failure happened
// before a command was selected.
type Error struct {
	Kind    Kind
	Context Name
	Token   string
}

func (e *Error) Error() string {
	switch {
	case e.Context == "":
		return fmt.Sprintf("%s: %q", e.Kind, e.Token)
	case e.Kind == EmptyQuery:
		return fmt.Sprintf("%s: %s", e.Context, e.Kind)
	default:
		return fmt.Sprintf("%s: %s: %q", e.Context, e.Kind, e.Token)
	}
}

// Is matches another *Error with the same Kind, so callers can write
// errors.Is(err, &command.Error{Kind: command.InvalidFlag}).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

func newError(kind Kind, context Name, token string) *Error {
	return &Error{Kind: kind, Context: context, Token: token}
}
