package domain

import "time"

// File permissions constants
const (
	// DirectoryPermissions is the default permission for directories (rwxr-xr-x)
	DirectoryPermissions = 0o755
	// SecureFilePermissions is the permission for config and data files (rw-------)
	SecureFilePermissions = 0o600
)

// Engine names
const (
	EngineECMAScript = "ecmascript"
	EngineRE2        = "re2"
	EngineCoregex    = "coregex"
)

// Storage backends
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// History constants
const (
	// DefaultHistoryKey is the key the history blob is stored under.
	DefaultHistoryKey = "regexHistory"
	// DefaultTimestampLayout renders creation times the way an en-US locale does.
	DefaultTimestampLayout = "1/2/2006, 3:04:05 PM"
	// DefaultHistoryLimit is the default number of history records to display
	DefaultHistoryLimit = 20
	// DefaultHistorySearchLimit is the default number of search results to return
	DefaultHistorySearchLimit = 50
)

// Matcher constants
const (
	// DefaultMatchTimeout bounds a single search on backtracking engines.
	DefaultMatchTimeout = 5 * time.Second
)

// Server constants
const (
	DefaultServerHost = "localhost"
	DefaultServerPort = 8088
)
