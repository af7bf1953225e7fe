package command

// Spec is one row of the grammar table.
type Spec struct {
	Name    Name
	Aliases []string
	// MaxArgs is the number of tokens accepted after the command token.
	MaxArgs int
	Usage   string
	Summary string
}

var helpAliases = []string{"help", "--help", "-h"}

var responseFlags = map[string]ResponseType{
	"--text": ResponseText,
	"-t":     ResponseText,
	"--code": ResponseCode,
	"-c":     ResponseCode,
}

var grammar = []Spec{
	{
		Name:    Help,
		Aliases: []string{"help", "-h"},
		MaxArgs: 0,
		Usage:   "heph help",
		Summary: "Show this message",
	},
	{
		Name:    About,
		Aliases: []string{"about", "-ab"},
		MaxArgs: 1,
		Usage:   "heph about",
		Summary: "Describe heph",
	},
	{
		Name:    Version,
		Aliases: []string{"version", "-v"},
		MaxArgs: 1,
		Usage:   "heph version",
		Summary: "Print the installed version",
	},
	{
		Name:    Answer,
		Aliases: []string{"answer", "-a"},
		MaxArgs: 2,
		Usage:   `heph answer -q="<query>" [--text|-t|--code|-c]`,
		Summary: "Ask the model a question",
	},
	{
		Name:    Configure,
		Aliases: []string{"configure", "-c"},
		MaxArgs: 1,
		Usage:   "heph configure",
		Summary: "Store an API token and model",
	},
	{
		Name:    ConfigInfo,
		Aliases: []string{"config-info", "-ci"},
		MaxArgs: 1,
		Usage:   "heph config-info",
		Summary: "Show the stored configuration",
	},
}

// Commands returns a copy of the grammar table in display order.
func Commands() []Spec {
	out := make([]Spec, len(grammar))
	copy(out, grammar)
	return out
}

// Lookup resolves a command token or alias.
func Lookup(token string) (Spec, bool) {
	for _, spec := range grammar {
		for _, alias := range spec.Aliases {
			if alias == token {
				return spec, true
			}
		}
	}
	return Spec{}, false
}

// IsHelpAlias reports whether token asks for a description.
func IsHelpAlias(token string) bool {
	for _, alias := range helpAliases {
		if alias == token {
			return true
		}
	}
	return false
}

// ResponseFlags lists the flags accepted after an answer query.
func ResponseFlags() []string {
	return []string{"--text", "-t", "--code", "-c"}
}
