// Package palette implements the modal command prompt.
//
// A Prompt is either inactive, collecting a line of input, or waiting for
// the user to confirm an action that would discard unsaved changes:
//
//	Inactive ──Begin──▶ AwaitingInput ──Enter──▶ Inactive (+ Command)
//	    ▲                    │  ▲
//	    │                  Esc │ ParseError (stays open)
//	    └────────────────────┘
//	Inactive ──Confirm──▶ AwaitingConfirmation ──y──▶ Inactive (+ forced Command)
//
// While the prompt is active every key is routed to it instead of the
// document. The prompt never performs a command itself; it hands a parsed
// Command back to the caller, which decides what to do with it.
//
// # Commands
//
// The command line is "<name> [argument]": the first whitespace-delimited
// word is the command, the remainder (trimmed) is a single path argument.
//
//	save [path]   write the document, optionally under a new name
//	open [path]   open a file
//	reload        re-read the document from disk
//	quit          close the current editor
//	new           open an untitled editor
//	close         alias for quit
//	next, prev    switch editors
package palette
