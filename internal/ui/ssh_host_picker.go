package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rileyhilliard/gapview/pkg/sshutil"
)

// sshHostItem implements list.Item for the Bubbles list component.
type sshHostItem struct {
	host sshutil.HostEntry
}

func (i sshHostItem) Title() string {
	return i.host.Alias
}

func (i sshHostItem) Description() string {
	return i.host.Description()
}

func (i sshHostItem) FilterValue() string {
	// Allow searching by alias, hostname, and user
	values := []string{i.host.Alias}
	if i.host.Hostname != "" {
		values = append(values, i.host.Hostname)
	}
	if i.host.User != "" {
		values = append(values, i.host.User)
	}
	return strings.Join(values, " ")
}

// SSHHostPickerModel lets the user pick the machine that serves the
// monitoring payload from their ~/.ssh/config aliases.
type SSHHostPickerModel struct {
	list        list.Model
	selected    *sshutil.HostEntry
	manualEntry bool
	quitting    bool
}

type sshHostPickerKeyMap struct {
	Enter  key.Binding
	Manual key.Binding
	Quit   key.Binding
}

var sshHostPickerKeys = sshHostPickerKeyMap{
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "select"),
	),
	Manual: key.NewBinding(
		key.WithKeys("m"),
		key.WithHelp("m", "manual entry"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "esc", "ctrl+c"),
		key.WithHelp("q/esc", "cancel"),
	),
}

// NewSSHHostPickerModel creates a picker over hosts.
func NewSSHHostPickerModel(hosts []sshutil.HostEntry) SSHHostPickerModel {
	items := make([]list.Item, len(hosts))
	for i, h := range hosts {
		items[i] = sshHostItem{host: h}
	}

	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(ColorPrimary).
		BorderForeground(ColorSecondary)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.
		Foreground(ColorMuted)

	l := list.New(items, delegate, 80, 15)
	l.Title = "Which host serves the monitoring payload?"
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true).
		Padding(0, 0, 1, 0)
	l.Styles.HelpStyle = lipgloss.NewStyle().Foreground(ColorMuted)
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{sshHostPickerKeys.Manual}
	}

	return SSHHostPickerModel{list: l}
}

// Init implements tea.Model.
func (m SSHHostPickerModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m SSHHostPickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		// Keys belong to the filter input while filtering
		if m.list.FilterState() == list.Filtering {
			break
		}

		switch {
		case key.Matches(msg, sshHostPickerKeys.Enter):
			if item, ok := m.list.SelectedItem().(sshHostItem); ok {
				m.selected = &item.host
			}
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, sshHostPickerKeys.Manual):
			m.manualEntry = true
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, sshHostPickerKeys.Quit):
			m.quitting = true
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width, msg.Height-2)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m SSHHostPickerModel) View() string {
	if m.quitting {
		return ""
	}
	hint := lipgloss.NewStyle().
		Foreground(ColorMuted).
		Render("\n  Press 'm' to type a host instead")
	return m.list.View() + hint
}

// Selected returns the selected host, or nil if cancelled.
func (m SSHHostPickerModel) Selected() *sshutil.HostEntry {
	return m.selected
}

// ManualEntry reports whether the user chose to type a host.
func (m SSHHostPickerModel) ManualEntry() bool {
	return m.manualEntry
}

// PickSSHHost displays the picker on the terminal. It returns the chosen
// host; nil with cancelled false means the user wants to type one.
func PickSSHHost(hosts []sshutil.HostEntry) (*sshutil.HostEntry, bool, error) {
	return PickSSHHostWithIO(hosts, os.Stdout, os.Stdin)
}

// PickSSHHostWithIO displays the picker with custom I/O.
func PickSSHHostWithIO(hosts []sshutil.HostEntry, output io.Writer, input io.Reader) (host *sshutil.HostEntry, cancelled bool, err error) {
	if len(hosts) == 0 {
		return nil, false, nil
	}

	p := tea.NewProgram(
		NewSSHHostPickerModel(hosts),
		tea.WithOutput(output),
		tea.WithInput(input),
	)

	finalModel, err := p.Run()
	if err != nil {
		return nil, false, fmt.Errorf("SSH host picker error: %w", err)
	}

	m, ok := finalModel.(SSHHostPickerModel)
	if !ok {
		return nil, true, nil
	}
	if m.ManualEntry() {
		return nil, false, nil
	}
	if m.Selected() == nil {
		return nil, true, nil
	}
	return m.Selected(), false, nil
}
