// Package command validates heph's command line and turns it into an Executable.
//
// Validation is a pure function of the argument slice: no environment, no files and
// no package state are consulted, so the dispatcher can trust every Executable it receives.
package command

// Name is the canonical name of a top-level command.
type Name string

const (
	Help       Name = "help"
	About      Name = "about"
	Version    Name = "version"
	Answer     Name = "answer"
	Configure  Name = "configure"
	ConfigInfo Name = "config-info"
)

// ResponseType selects how an answer should be phrased.
type ResponseType string

const (
	ResponseDefault ResponseType = ""
	ResponseText    ResponseType = "text"
	ResponseCode    ResponseType = "code"
)

// AnswerData is the payload of an answer command.
type AnswerData struct {
	Query string `json:"query"`
}

// Executable is a fully validated command ready for dispatch.
type Executable struct {
	Command      Name         `json:"command"`
	Describe     bool         `json:"describe,omitempty"`
	Data         *AnswerData  `json:"data,omitempty"`
	ResponseType ResponseType `json:"responseType,omitempty"`
}
