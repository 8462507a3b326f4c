package palette

import (
	"github.com/rivo/uniseg"

	"github.com/dshills/scribe/internal/input/key"
)

// State is the prompt's modal state.
type State uint8

const (
	// Inactive means keys go to the document.
	Inactive State = iota

	// AwaitingInput means the prompt is collecting a line.
	AwaitingInput

	// AwaitingConfirmation means a discarding action waits for y/n.
	AwaitingConfirmation
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Inactive:
		return "inactive"
	case AwaitingInput:
		return "input"
	case AwaitingConfirmation:
		return "confirm"
	default:
		return "unknown"
	}
}

// Kind selects what an input prompt asks for.
type Kind uint8

const (
	// KindCommand reads a full command line.
	KindCommand Kind = iota

	// KindOpenPath reads a path to open.
	KindOpenPath

	// KindSavePath reads a path to save to.
	KindSavePath
)

// ConfirmMessage is shown while waiting for a discard confirmation.
const ConfirmMessage = "Unsaved changes. Discard? (y/n)"

// Result is the outcome of one key handled by the prompt.
type Result struct {
	// Command is set when Submitted is true.
	Command Command

	// Submitted reports that the prompt produced a command and closed.
	Submitted bool

	// Cancelled reports that the prompt closed without a command.
	Cancelled bool

	// Err is a *ParseError when the line could not be parsed.
	// The prompt stays open.
	Err error
}

// Prompt is the command palette state machine.
type Prompt struct {
	state   State
	kind    Kind
	text    string
	pending Command
	chord   string

	history *History
	recall  int
}

// New creates an inactive prompt.
func New() *Prompt {
	return &Prompt{history: NewHistory(50), recall: -1}
}

// State returns the current state.
func (p *Prompt) State() State {
	return p.state
}

// Active reports whether keys should be routed to the prompt.
func (p *Prompt) Active() bool {
	return p.state != Inactive
}

// Kind returns what the input prompt is asking for.
func (p *Prompt) Kind() Kind {
	return p.kind
}

// Text returns the line typed so far.
func (p *Prompt) Text() string {
	return p.text
}

// Pending returns the command awaiting confirmation.
func (p *Prompt) Pending() (Command, bool) {
	return p.pending, p.state == AwaitingConfirmation
}

// History returns the submitted line history.
func (p *Prompt) History() *History {
	return p.history
}

// Label returns the text shown before the input.
func (p *Prompt) Label() string {
	switch p.state {
	case AwaitingConfirmation:
		return ConfirmMessage
	case AwaitingInput:
		switch p.kind {
		case KindOpenPath:
			return "File to open: "
		case KindSavePath:
			return "New file name: "
		default:
			return ": "
		}
	default:
		return ""
	}
}

// Line returns the full prompt line as displayed.
func (p *Prompt) Line() string {
	if p.state == AwaitingInput {
		return p.Label() + p.text
	}
	return p.Label()
}

// Begin opens an input prompt, discarding any previous input.
func (p *Prompt) Begin(kind Kind) {
	p.state = AwaitingInput
	p.kind = kind
	p.text = ""
	p.recall = -1
	p.pending = Command{}
	p.chord = ""
}

// Confirm asks the user to confirm pending. Pressing chord again also
// confirms, so a repeated shortcut acts as "yes".
func (p *Prompt) Confirm(pending Command, chord string) {
	p.state = AwaitingConfirmation
	p.pending = pending
	p.chord = chord
	p.text = ""
}

// Cancel closes the prompt without a command.
func (p *Prompt) Cancel() {
	p.state = Inactive
	p.text = ""
	p.pending = Command{}
	p.chord = ""
	p.recall = -1
}

// HandleKey feeds one key press to an active prompt.
func (p *Prompt) HandleKey(ev key.Event) Result {
	switch p.state {
	case AwaitingConfirmation:
		return p.handleConfirm(ev)
	case AwaitingInput:
		return p.handleInput(ev)
	default:
		return Result{}
	}
}

func (p *Prompt) handleConfirm(ev key.Event) Result {
	pending := p.pending
	yes := ev.IsRune() && (ev.Rune == 'y' || ev.Rune == 'Y') && !ev.Modifiers.HasCtrl()
	if !yes && p.chord != "" && ev.String() == p.chord {
		yes = true
	}
	p.Cancel()

	if !yes {
		return Result{Cancelled: true}
	}
	pending.Force = true
	return Result{Command: pending, Submitted: true}
}

func (p *Prompt) handleInput(ev key.Event) Result {
	switch ev.Key {
	case key.KeyEscape:
		p.Cancel()
		return Result{Cancelled: true}
	case key.KeyEnter:
		return p.submit()
	case key.KeyBackspace:
		p.text = dropLastGrapheme(p.text)
		return Result{}
	case key.KeyUp:
		p.recallHistory(1)
		return Result{}
	case key.KeyDown:
		p.recallHistory(-1)
		return Result{}
	}

	if ev.IsChar() {
		p.text += string(ev.Rune)
	}
	return Result{}
}

func (p *Prompt) submit() Result {
	var cmd Command
	switch p.kind {
	case KindOpenPath, KindSavePath:
		if p.text == "" {
			return Result{Err: &ParseError{Reason: "file name required"}}
		}
		cmd = Command{Name: CmdOpen, Arg: p.text}
		if p.kind == KindSavePath {
			cmd.Name = CmdSave
		}
	default:
		parsed, err := Parse(p.text)
		if err != nil {
			return Result{Err: err}
		}
		cmd = parsed
		p.history.Add(cmd.String())
	}

	p.Cancel()
	return Result{Command: cmd, Submitted: true}
}

func (p *Prompt) recallHistory(dir int) {
	if p.kind != KindCommand {
		return
	}
	next := p.recall + dir
	if next < 0 {
		p.recall = -1
		p.text = ""
		return
	}
	if line, ok := p.history.At(next); ok {
		p.recall = next
		p.text = line
	}
}

func dropLastGrapheme(s string) string {
	last := 0
	state := -1
	rest := s
	for len(rest) > 0 {
		var cluster string
		cluster, rest, _, state = uniseg.FirstGraphemeClusterInString(rest, state)
		last = len(cluster)
	}
	return s[:len(s)-last]
}
