package command

import "strings"

const queryPrefix = "-q="

// Validate turns the arguments following the program name into an Executable.
// It either returns a complete Executable or a single *Error for the first
// violation; args is never modified.
func Validate(args []string) (Executable, error) {
	if len(args) == 0 {
		return Executable{Command: Help}, nil
	}

	spec, ok := Lookup(args[0])
	if !ok {
		return Executable{}, newError(UnknownCommand, "", args[0])
	}

	if spec.Name == Answer {
		return validateAnswer(args)
	}
	return validateSimple(spec, args)
}

// validateSimple applies the shared rule: an optional help alias and nothing else.
func validateSimple(spec Spec, args []string) (Executable, error) {
	if len(args) > spec.MaxArgs+1 {
		return Executable{}, newError(ExtraArguments, spec.Name, args[spec.MaxArgs+1])
	}

	exec := Executable{Command: spec.Name}
	if len(args) < 2 || args[1] == "" {
		return exec, nil
	}
	if !IsHelpAlias(args[1]) {
		return Executable{}, newError(UnknownCommand, spec.Name, args[1])
	}
	exec.Describe = true
	return exec, nil
}

func validateAnswer(args []string) (Executable, error) {
	if len(args) > 3 {
		return Executable{}, newError(ExtraArguments, Answer, args[3])
	}

	var query, flag string
	if len(args) > 1 {
		query = strings.TrimSpace(args[1])
	}
	if len(args) > 2 {
		flag = args[2]
	}

	if IsHelpAlias(query) {
		if flag != "" {
			return Executable{}, newError(ExtraArguments, Answer, flag)
		}
		return Executable{Command: Answer, Describe: true}, nil
	}

	if query == "" {
		return Executable{}, newError(EmptyQuery, Answer, "")
	}
	if !strings.HasPrefix(query, queryPrefix) {
		return Executable{}, newError(OptionNotRecognized, Answer, query)
	}

	// An empty value after the prefix is passed through unchanged.
	exec := Executable{
		Command: Answer,
		Data:    &AnswerData{Query: strings.TrimPrefix(query, queryPrefix)},
	}

	if flag != "" {
		rt, ok := responseFlags[flag]
		if !ok {
			return Executable{}, newError(InvalidFlag, Answer, flag)
		}
		exec.ResponseType = rt
	}
	return exec, nil
}
