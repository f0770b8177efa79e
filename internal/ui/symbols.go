package ui

// Unicode symbols for status indicators.
const (
	SymbolSuccess  = "✓" // Step completed successfully
	SymbolFail     = "✗" // Step failed
	SymbolPending  = "○" // Not started, or nothing known
	SymbolComplete = "●" // Done, or a healthy client
	SymbolWarning  = "▲" // Warning status
	SymbolSkipped  = "⊘" // Step skipped
)

// Status levels shared by the status table and LevelColor.
const (
	LevelOK      = "ok"
	LevelWarn    = "warn"
	LevelFail    = "fail"
	LevelUnknown = "unknown"
)

// LevelSymbol returns the indicator for a status level.
func LevelSymbol(level string) string {
	switch level {
	case LevelOK:
		return SymbolComplete
	case LevelWarn:
		return SymbolWarning
	case LevelFail:
		return SymbolFail
	default:
		return SymbolPending
	}
}
