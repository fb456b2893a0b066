package commands

// History display constants
const (
	// DefaultHistorySearchLimit bounds `history search` results.
	DefaultHistorySearchLimit = 50
	// DefaultTopPatterns is the number of patterns shown by `history stats`.
	DefaultTopPatterns = 5
	// MaxTableCellWidth truncates long samples in tables.
	MaxTableCellWidth = 40
)

// Error messages
const (
	ErrConfigLoaderUnavailable  = "config loader unavailable"
	ErrDoctorServiceUnavailable = "doctor service unavailable"
	ErrHistoryStoreUnavailable  = "history store unavailable"
	ErrQueryRequired            = "--query required"
	ErrKeyRequired              = "--key is required"
)

// Success messages
const (
	MsgConfigurationValid       = "Configuration valid"
	MsgNoDifferencesFromDefault = "No differences from default configuration."
	MsgNoHistoryRecorded        = "No history recorded yet."
	MsgHistoryCleared           = "History cleared."
	MsgClearCancelled           = "Clear cancelled."
)
