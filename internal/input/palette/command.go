package palette

import (
	"fmt"
	"strings"
	"unicode"
)

// Name identifies a palette command.
type Name string

// Recognized commands.
const (
	CmdSave   Name = "save"
	CmdOpen   Name = "open"
	CmdReload Name = "reload"
	CmdQuit   Name = "quit"
	CmdNew    Name = "new"
	CmdClose  Name = "close"
	CmdNext   Name = "next"
	CmdPrev   Name = "prev"
)

// argPolicy describes whether a command takes a path argument.
type argPolicy uint8

const (
	argNone argPolicy = iota
	argOptional
)

var commands = map[Name]argPolicy{
	CmdSave:   argOptional,
	CmdOpen:   argOptional,
	CmdReload: argNone,
	CmdQuit:   argNone,
	CmdNew:    argNone,
	CmdClose:  argNone,
	CmdNext:   argNone,
	CmdPrev:   argNone,
}

// Command is a parsed palette command.
type Command struct {
	Name Name

	// Arg is the optional path argument.
	Arg string

	// Force skips the unsaved changes check. It is set when the user
	// confirmed a discard.
	Force bool
}

// String returns the command as it would be typed.
func (c Command) String() string {
	if c.Arg == "" {
		return string(c.Name)
	}
	return string(c.Name) + " " + c.Arg
}

// ParseError reports a malformed command line.
type ParseError struct {
	Input  string
	Reason string

	// Hint lists what would have been accepted, if known.
	Hint string
}

func (e *ParseError) Error() string {
	msg := e.Reason
	if e.Input != "" {
		msg = fmt.Sprintf("%s: %q", e.Reason, e.Input)
	}
	if e.Hint != "" {
		msg += " (" + e.Hint + ")"
	}
	return msg
}

// Parse parses a command line.
func Parse(text string) (Command, error) {
	line := strings.TrimSpace(text)
	if line == "" {
		return Command{}, &ParseError{Reason: "empty command"}
	}

	name, arg := line, ""
	if i := strings.IndexFunc(line, unicode.IsSpace); i >= 0 {
		name, arg = line[:i], strings.TrimSpace(line[i:])
	}

	policy, ok := commands[Name(name)]
	if !ok {
		return Command{}, &ParseError{Input: name, Reason: "unknown command", Hint: "try " + nameList()}
	}
	if policy == argNone && arg != "" {
		return Command{}, &ParseError{Input: line, Reason: name + " takes no argument"}
	}
	return Command{Name: Name(name), Arg: arg}, nil
}

// Names returns the recognized command names.
func Names() []Name {
	return []Name{CmdSave, CmdOpen, CmdReload, CmdQuit, CmdNew, CmdClose, CmdNext, CmdPrev}
}

func nameList() string {
	names := Names()
	parts := make([]string, len(names))
	for i, n := range names {
		parts[i] = string(n)
	}
	return strings.Join(parts, ", ")
}
