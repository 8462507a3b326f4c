package editor

import (
	"errors"
	"fmt"

	"github.com/dshills/scribe/internal/engine"
	"github.com/dshills/scribe/internal/engine/cursor"
	"github.com/dshills/scribe/internal/input"
	"github.com/dshills/scribe/internal/input/palette"
)

// Effect tells the caller what to do after an event was handled.
type Effect struct {
	// Quit asks the application to exit.
	Quit bool

	// Message is the status text set by the event, if any.
	Message string

	// Err is the error behind Message when the event failed.
	Err error
}

var motions = map[input.Action]cursor.Motion{
	input.ActionLeft:        cursor.MoveLeft,
	input.ActionRight:       cursor.MoveRight,
	input.ActionUp:          cursor.MoveUp,
	input.ActionDown:        cursor.MoveDown,
	input.ActionWordLeft:    cursor.MoveWordLeft,
	input.ActionWordRight:   cursor.MoveWordRight,
	input.ActionLineStart:   cursor.MoveLineStart,
	input.ActionLineEnd:     cursor.MoveLineEnd,
	input.ActionPageUp:      cursor.MovePageUp,
	input.ActionPageDown:    cursor.MovePageDown,
	input.ActionBufferStart: cursor.MoveBufferStart,
	input.ActionBufferEnd:   cursor.MoveBufferEnd,
}

// HandleEvent routes one input event to the prompt or the active session.
// Resize events are ignored; the caller owns the screen size.
func (m *Manager) HandleEvent(ev input.Event) Effect {
	if m.Active() == nil {
		return Effect{Quit: true}
	}

	switch ev.Type {
	case input.EventMouse:
		m.handleMouse(ev)
	case input.EventKey:
		if m.prompt.Active() {
			return m.handlePrompt(ev)
		}
		if a, ok := m.keymap.Lookup(ev); ok {
			return m.perform(a, ev)
		}
		if ev.Key.IsChar() {
			return m.result(m.Active().engine.InsertRune(ev.Key.Rune))
		}
	}
	return Effect{}
}

func (m *Manager) handleMouse(ev input.Event) {
	if m.prompt.Active() || m.mapper == nil {
		return
	}
	v, _ := m.View()
	if p, ok := m.mapper.ScreenToBuffer(v, ev.Row, ev.Col); ok {
		m.Active().engine.Click(p, ev.Mod().HasShift())
	}
}

// handlePrompt feeds a key to the prompt. Commands submitted from the
// prompt confirm only with an explicit "y"; the key that submitted them
// is not armed as a repeat.
func (m *Manager) handlePrompt(ev input.Event) Effect {
	pending, confirming := m.prompt.Pending()
	res := m.prompt.HandleKey(ev.Key)
	switch {
	case res.Err != nil:
		return m.report(res.Err)
	case res.Submitted:
		return m.execute(res.Command, "")
	case res.Cancelled && confirming:
		return m.say(fmt.Sprintf("Cancelled %s", pending.Name))
	}
	return Effect{}
}

func (m *Manager) perform(a input.Action, ev input.Event) Effect {
	eng := m.Active().engine
	chord := ev.Chord()

	switch a {
	case input.ActionQuit:
		return m.execute(palette.Command{Name: palette.CmdQuit}, chord)
	case input.ActionSave:
		return m.execute(palette.Command{Name: palette.CmdSave}, chord)
	case input.ActionOpen:
		return m.execute(palette.Command{Name: palette.CmdOpen}, chord)
	case input.ActionReload:
		return m.execute(palette.Command{Name: palette.CmdReload}, chord)
	case input.ActionNewEditor:
		return m.execute(palette.Command{Name: palette.CmdNew}, chord)
	case input.ActionClose:
		return m.execute(palette.Command{Name: palette.CmdClose}, chord)
	case input.ActionNext:
		return m.execute(palette.Command{Name: palette.CmdNext}, chord)
	case input.ActionPrevious:
		return m.execute(palette.Command{Name: palette.CmdPrev}, chord)
	case input.ActionPalette:
		m.prompt.Begin(palette.KindCommand)
		return Effect{}

	case input.ActionCopy:
		return m.clipResult(eng.Copy())
	case input.ActionCut:
		return m.clipResult(eng.Cut())
	case input.ActionPaste:
		return m.clipResult(eng.Paste())
	case input.ActionUndo:
		return m.result(eng.Undo())
	case input.ActionRedo:
		return m.result(eng.Redo())
	case input.ActionSelectAll:
		eng.SelectAll()

	case input.ActionBackspace:
		return m.result(eng.Backspace())
	case input.ActionDelete:
		return m.result(eng.DeleteForward())
	case input.ActionNewline:
		return m.result(eng.InsertNewline())
	case input.ActionTab:
		return m.result(eng.InsertRune('\t'))
	case input.ActionEscape:
		eng.Commit()

	default:
		if mo, ok := motions[a]; ok {
			eng.Move(mo, ev.Mod().HasShift())
		}
	}
	return Effect{}
}

// execute runs a palette command. chord is the key that triggered it, so
// pressing it again confirms a discard.
func (m *Manager) execute(cmd palette.Command, chord string) Effect {
	switch cmd.Name {
	case palette.CmdSave:
		err := m.Save(cmd.Arg)
		if errors.Is(err, ErrNoPath) {
			m.prompt.Begin(palette.KindSavePath)
			return Effect{}
		}
		if err != nil {
			return m.report(err)
		}
		return m.say("Saved " + m.Active().Name())

	case palette.CmdOpen:
		if cmd.Arg == "" {
			m.prompt.Begin(palette.KindOpenPath)
			return Effect{}
		}
		s, err := m.OpenFile(cmd.Arg, cmd.Force)
		if errors.Is(err, ErrUnsavedChanges) {
			return m.confirm(cmd, chord)
		}
		if err != nil {
			return m.report(err)
		}
		return m.say("Opened " + s.Name())

	case palette.CmdReload:
		err := m.Reload(cmd.Force)
		switch {
		case errors.Is(err, ErrUnsavedChanges):
			return m.confirm(cmd, chord)
		case errors.Is(err, ErrNoPath):
			return m.say("No file to reload")
		case err != nil:
			return m.report(err)
		}
		return m.say("Reloaded " + m.Active().Name())

	case palette.CmdQuit:
		if !cmd.Force && m.HasModified() {
			return m.confirm(cmd, chord)
		}
		return Effect{Quit: true}

	case palette.CmdClose:
		err := m.CloseActive(cmd.Force)
		if errors.Is(err, ErrUnsavedChanges) {
			return m.confirm(cmd, chord)
		}
		if err != nil {
			return m.report(err)
		}
		if m.Len() == 0 {
			return Effect{Quit: true}
		}

	case palette.CmdNew:
		m.NewEditor()

	case palette.CmdNext:
		m.SwitchNext()

	case palette.CmdPrev:
		m.SwitchPrevious()
	}
	return Effect{}
}

func (m *Manager) confirm(cmd palette.Command, chord string) Effect {
	m.prompt.Confirm(cmd, chord)
	return Effect{Message: palette.ConfirmMessage}
}

// result reports err, turning an empty undo or redo stack into a notice.
func (m *Manager) result(err error) Effect {
	switch {
	case err == nil:
		return Effect{}
	case errors.Is(err, engine.ErrNothingToUndo):
		return m.say("Nothing to undo")
	case errors.Is(err, engine.ErrNothingToRedo):
		return m.say("Nothing to redo")
	}
	return m.report(err)
}

// clipResult reports a system clipboard failure after a register
// operation. The in-memory register has already been updated by then.
func (m *Manager) clipResult(used bool, err error) Effect {
	if err != nil {
		return m.result(err)
	}
	if used {
		if cerr := m.clip.Err(); cerr != nil {
			return m.say(fmt.Sprintf("Clipboard: %v", cerr))
		}
	}
	return Effect{}
}

func (m *Manager) say(msg string) Effect {
	if s := m.Active(); s != nil {
		s.SetMessage(msg, m.now())
	}
	return Effect{Message: msg}
}

func (m *Manager) report(err error) Effect {
	eff := m.say(fmt.Sprintf("Error: %v", err))
	eff.Err = err
	return eff
}
