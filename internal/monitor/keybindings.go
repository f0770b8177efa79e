package monitor

import (
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// KeyMap holds the dashboard key bindings. It implements help.KeyMap.
type KeyMap struct {
	Quit        key.Binding
	Help        key.Binding
	NextClient  key.Binding
	PrevClient  key.Binding
	ToggleKey   key.Binding
	KeyCursor   key.Binding
	CursorKey   key.Binding
	ScrollLeft  key.Binding
	ScrollRight key.Binding
	PageLeft    key.Binding
	PageRight   key.Binding
	HandLeft    key.Binding
	HandRight   key.Binding
	Window      key.Binding
	ResetZoom   key.Binding
	Refresh     key.Binding
	SaveKeys    key.Binding
}

// DefaultKeyMap returns the built-in bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Help:        key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		NextClient:  key.NewBinding(key.WithKeys("tab", "down", "j"), key.WithHelp("tab/↓", "next client")),
		PrevClient:  key.NewBinding(key.WithKeys("shift+tab", "up", "k"), key.WithHelp("shift+tab/↑", "prev client")),
		ToggleKey:   key.NewBinding(key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"), key.WithHelp("1-9", "toggle key")),
		KeyCursor:   key.NewBinding(key.WithKeys("[", "]"), key.WithHelp("[ ]", "pick key")),
		CursorKey:   key.NewBinding(key.WithKeys(" ", "enter"), key.WithHelp("space", "toggle picked key")),
		ScrollLeft:  key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "scroll back")),
		ScrollRight: key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "scroll forward")),
		PageLeft:    key.NewBinding(key.WithKeys("shift+left", "pgup", "home"), key.WithHelp("pgup", "page back")),
		PageRight:   key.NewBinding(key.WithKeys("shift+right", "pgdown", "end"), key.WithHelp("pgdn", "page forward")),
		HandLeft:    key.NewBinding(key.WithKeys("h"), key.WithHelp("h", "previous sample")),
		HandRight:   key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "next sample")),
		Window:      key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "cycle window")),
		ResetZoom:   key.NewBinding(key.WithKeys("z", "esc"), key.WithHelp("z/esc", "reset zoom")),
		Refresh:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		SaveKeys:    key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "save keys")),
	}
}

// ShortHelp is shown in the footer.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.ToggleKey, k.ScrollLeft, k.HandLeft, k.Window, k.ResetZoom, k.Help, k.Quit}
}

// FullHelp is shown in the help overlay.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.NextClient, k.PrevClient, k.ToggleKey, k.KeyCursor, k.CursorKey, k.SaveKeys},
		{k.ScrollLeft, k.ScrollRight, k.PageLeft, k.PageRight, k.HandLeft, k.HandRight},
		{k.Window, k.ResetZoom, k.Refresh, k.Help, k.Quit},
	}
}

// HandleKeyMsg processes keyboard input. It returns true if the key was
// handled.
func (m *Model) HandleKeyMsg(msg tea.KeyMsg) (bool, tea.Cmd) {
	// Help toggle takes priority
	if key.Matches(msg, m.keys.Help) {
		m.showHelp = !m.showHelp
		return true, nil
	}
	if m.showHelp && msg.String() == "esc" {
		m.showHelp = false
		return true, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		m.stop()
		return true, tea.Quit

	case key.Matches(msg, m.keys.NextClient):
		m.selectClient(m.selected + 1)
		return true, m.redrawCmd(false)

	case key.Matches(msg, m.keys.PrevClient):
		m.selectClient(m.selected - 1)
		return true, m.redrawCmd(false)

	case key.Matches(msg, m.keys.ToggleKey):
		n, _ := strconv.Atoi(msg.String())
		return true, m.toggleKeyAt(n - 1)

	case key.Matches(msg, m.keys.KeyCursor):
		if msg.String() == "[" {
			m.moveKeyCursor(-1)
		} else {
			m.moveKeyCursor(1)
		}
		return true, nil

	case key.Matches(msg, m.keys.CursorKey):
		return true, m.toggleKeyAt(m.keyCursor)

	case key.Matches(msg, m.keys.ScrollLeft):
		return true, m.scrollBy(-m.scrollStep())

	case key.Matches(msg, m.keys.ScrollRight):
		return true, m.scrollBy(m.scrollStep())

	case key.Matches(msg, m.keys.PageLeft):
		return true, m.scrollBy(-m.pageStep())

	case key.Matches(msg, m.keys.PageRight):
		return true, m.scrollBy(m.pageStep())

	case key.Matches(msg, m.keys.HandLeft):
		return true, m.stepHand(-1)

	case key.Matches(msg, m.keys.HandRight):
		return true, m.stepHand(1)

	case key.Matches(msg, m.keys.Window):
		m.cycleWindow()
		return true, tea.Batch(m.setFlash("Window "+shortDuration(m.Window())), m.redrawCmd(false))

	case key.Matches(msg, m.keys.ResetZoom):
		if c := m.current(); c != nil {
			if c.Dragging() {
				c.CancelDrag()
				m.selection = nil
				return true, nil
			}
			if c.Zoom() != nil {
				c.SetZoom(nil)
				return true, m.redrawCmd(false)
			}
		}
		return true, nil

	case key.Matches(msg, m.keys.Refresh):
		return true, m.fetchCmd()

	case key.Matches(msg, m.keys.SaveKeys):
		return true, m.saveKeys()
	}

	return false, nil
}
