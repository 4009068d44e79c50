package dashboard

import "errors"

var (
	// ErrRedirected means the session was invalidated and the caller should
	// follow Session.TakeRedirect.
	ErrRedirected = errors.New("dashboard: session invalid")

	ErrBusy              = errors.New("dashboard: action already in progress")
	ErrTableFull         = errors.New("dashboard: table is full")
	ErrUnknownTable      = errors.New("dashboard: unknown table")
	ErrInvalidTarget     = errors.New("dashboard: table id out of range")
	ErrNoMove            = errors.New("dashboard: no move in progress")
	ErrUnknownStudent    = errors.New("dashboard: unknown student")
	ErrAlreadyUnassigned = errors.New("dashboard: student has no table")
	ErrNoFile            = errors.New("dashboard: no file selected")
	ErrNotSpreadsheet    = errors.New("dashboard: not an xlsx spreadsheet")
	ErrFileTooLarge      = errors.New("dashboard: file too large")
)
