// Package ui provides the styled output the gapview commands print outside
// the dashboard.
//
// # Components Overview
//
//	Spinner          - Animated indicator while a payload is fetched
//	RenderSimpleTable - Bubbles table for the gap report
//	RenderStatusTable - One line per client with its worst status
//	SSHHostPicker    - Picks an ~/.ssh/config alias for an SSH source
//
// # Color Scheme
//
// Colors are ANSI codes so they follow the terminal theme:
//
//	ColorSuccess   (green)  - Normal status, finished steps
//	ColorError     (red)    - Fatal status, failures
//	ColorWarning   (yellow) - Warning status
//	ColorMuted     (gray)   - Secondary text, timing info
//
// LevelColor and LevelSymbol map the status levels ("ok", "warn", "fail",
// "unknown") to a color and an indicator.
//
// # Spinner Usage
//
//	s := ui.NewSpinner("Fetching from "+src.Describe(), os.Stderr, isTTY)
//	err := s.Run(func() error { ... })
//
// A spinner that isn't animated prints only its final line.
package ui
