package monitor

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rileyhilliard/gapview/internal/chart"
	"github.com/rileyhilliard/gapview/internal/config"
	"github.com/rileyhilliard/gapview/internal/format"
	"github.com/rileyhilliard/gapview/internal/logger"
	"github.com/rileyhilliard/gapview/internal/source"
	"github.com/samber/lo"
)

// Options configures a dashboard.
type Options struct {
	Source source.Source
	Config *config.Config
	// ConfigPath is where 'w' saves the active keys. Empty means
	// .gapview.yaml in the working directory.
	ConfigPath string
	Logger     logger.Logger
}

// Model is the Bubble Tea model for the gap-compressed chart dashboard.
type Model struct {
	src     source.Source
	cfg     *config.Config
	cfgPath string
	log     logger.Logger

	ctx    context.Context
	cancel context.CancelFunc

	charts    *chart.Registry
	payload   *source.Payload
	clients   []string
	selected  int
	keyCursor int

	durations []time.Duration
	window    int

	width  int
	height int
	sized  bool

	scroll *chart.Throttle
	resize *chart.Debouncer

	// selection is the drag rectangle in viewport pixels.
	selection *chart.TimeRange
	watch     <-chan struct{}

	dates    format.Dates
	keys     KeyMap
	help     help.Model
	showHelp bool

	lastErr   error
	lastErrAt time.Time
	lastFetch time.Time
	flash     string
	flashID   int
	quitting  bool
}

// NewModel creates a dashboard reading from opts.Source.
func NewModel(opts Options) Model {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	log := opts.Logger
	if log == nil {
		log = logger.Noop()
	}

	budget := cfg.Chart.GapBudgetUnits
	if budget <= 0 {
		budget = chart.DefaultGapBudgetUnits
	}
	throttle := cfg.Chart.ScrollThrottle
	if throttle <= 0 {
		throttle = chart.DefaultScrollThrottle
	}
	debounce := cfg.Chart.ResizeDebounce
	if debounce <= 0 {
		debounce = chart.DefaultResizeDebounce
	}

	ctx, cancel := context.WithCancel(context.Background())
	width, height := PixelSize(ChartSize(defaultWidth, defaultHeight))

	m := Model{
		src:     opts.Source,
		cfg:     cfg,
		cfgPath: opts.ConfigPath,
		log:     log,
		ctx:     ctx,
		cancel:  cancel,
		charts: chart.NewRegistry(chart.Options{
			GapThresholdSeconds: cfg.Chart.GapThresholdSeconds(),
			GapBudgetUnits:      budget,
			Width:               width,
			Height:              height,
		}),
		scroll: chart.NewThrottle(throttle),
		resize: chart.NewDebouncer(debounce),
		dates: format.Dates{
			Long:     cfg.Format.DateLong,
			Short:    cfg.Format.DateShort,
			Tick:     cfg.Format.DateTick,
			Location: time.Local,
		},
		keys: DefaultKeyMap(),
		help: newHelp(),
	}
	m.setDurations(cfg.Chart.Durations)
	return m
}

func newHelp() help.Model {
	h := help.New()
	h.Styles.ShortKey = lipgloss.NewStyle().Foreground(ColorTextSecondary)
	h.Styles.ShortDesc = lipgloss.NewStyle().Foreground(ColorTextMuted)
	h.Styles.ShortSeparator = lipgloss.NewStyle().Foreground(ColorBorder)
	h.Styles.FullKey = lipgloss.NewStyle().Foreground(ColorTextPrimary).Bold(true)
	h.Styles.FullDesc = lipgloss.NewStyle().Foreground(ColorTextSecondary)
	h.Styles.FullSeparator = lipgloss.NewStyle().Foreground(ColorBorder)
	return h
}

// Init fetches the first payload and starts the watcher and refresh timer
// when configured.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.fetchCmd()}
	if m.cfg.Source.Watch {
		cmds = append(cmds, m.startWatchCmd())
	}
	if m.cfg.Source.Refresh > 0 {
		cmds = append(cmds, m.refreshTickCmd())
	}
	return tea.Batch(cmds...)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if handled, cmd := m.HandleKeyMsg(msg); handled {
			return m, cmd
		}

	case tea.MouseMsg:
		return m, m.HandleMouseMsg(msg)

	case tea.WindowSizeMsg:
		return m, m.handleResize(msg.Width, msg.Height)

	case resizeFireMsg:
		if m.resize.Fire(msg.token) {
			m.applySize()
			return m, m.redrawCmd(false)
		}

	case payloadMsg:
		m.applyPayload(msg.payload)
		return m, m.redrawCmd(false)

	case fetchErrMsg:
		m.lastErr = msg.err
		m.lastErrAt = msg.at
		m.log.Warn("fetch from %s failed: %v", m.describeSource(), msg.err)

	case refreshTickMsg:
		return m, tea.Batch(m.fetchCmd(), m.refreshTickCmd())

	case watchStartedMsg:
		m.watch = msg.changes
		return m, waitForChange(m.watch)

	case watchMsg:
		return m, tea.Batch(m.fetchCmd(), waitForChange(m.watch))

	case computedMsg:
		return m, m.applyComputed(msg)

	case scrollReleaseMsg:
		if m.scroll.Release(msg.token) {
			return m, m.redrawCmd(true)
		}

	case flashClearMsg:
		if msg.id == m.flashID {
			m.flash = ""
		}
	}

	return m, nil
}

// View renders the dashboard.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.showHelp {
		return m.renderHelpOverlay()
	}
	return m.renderDashboard()
}

// fetchCmd fetches the payload off the event loop.
func (m Model) fetchCmd() tea.Cmd {
	src, ctx, timeout := m.src, m.ctx, m.cfg.Source.Timeout
	if src == nil {
		return nil
	}
	return func() tea.Msg {
		p, err := source.FetchWithTimeout(ctx, src, timeout)
		if err != nil {
			return fetchErrMsg{err: err, at: time.Now()}
		}
		return payloadMsg{payload: p}
	}
}

// refreshTickCmd schedules the next periodic fetch.
func (m Model) refreshTickCmd() tea.Cmd {
	return tea.Tick(m.cfg.Source.Refresh, func(t time.Time) tea.Msg {
		return refreshTickMsg(t)
	})
}

// startWatchCmd starts the source's change watcher, if it has one.
func (m Model) startWatchCmd() tea.Cmd {
	w, ok := m.src.(source.Watcher)
	if !ok {
		m.log.Debug("%s can't be watched", m.describeSource())
		return nil
	}
	ctx := m.ctx
	return func() tea.Msg {
		changes, err := w.Watch(ctx)
		if err != nil {
			return fetchErrMsg{err: err, at: time.Now()}
		}
		return watchStartedMsg{changes: changes}
	}
}

// waitForChange blocks until the watcher signals. A closed channel ends
// the loop.
func waitForChange(changes <-chan struct{}) tea.Cmd {
	if changes == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-changes; !ok {
			return nil
		}
		return watchMsg{}
	}
}

// stop cancels in-flight fetches and the watcher.
func (m *Model) stop() {
	if m.cancel != nil {
		m.cancel()
	}
}

func (m Model) describeSource() string {
	if m.src == nil {
		return "no source"
	}
	return m.src.Describe()
}

// handleResize applies the first size straight away and debounces the rest.
func (m *Model) handleResize(width, height int) tea.Cmd {
	m.width, m.height = width, height
	m.help.Width = width
	if !m.sized {
		m.sized = true
		m.applySize()
		return m.redrawCmd(false)
	}
	token := m.resize.Schedule()
	return tea.Tick(m.resize.Delay, func(time.Time) tea.Msg {
		return resizeFireMsg{token: token}
	})
}

// applySize resizes every chart to the current chart area.
func (m *Model) applySize() {
	w, h := PixelSize(m.chartSize())
	m.charts.Resize(w, h)
}

func (m Model) chartSize() (cols, rows int) {
	width, height := m.width, m.height
	if width <= 0 || height <= 0 {
		width, height = defaultWidth, defaultHeight
	}
	return ChartSize(width, height)
}

// applyPayload syncs the chart registry with a new payload. Charts are
// created for new clients and dropped for clients that disappeared;
// existing charts keep their keys, zoom and scroll position.
func (m *Model) applyPayload(p *source.Payload) {
	prev := m.currentID()
	m.payload = p
	m.lastErr = nil
	m.lastFetch = p.FetchedAt
	m.clients = p.Clients()

	if d := p.Durations(m.cfg.Chart.Durations); !slices.Equal(d, m.durations) {
		m.setDurations(d)
	}

	threshold := p.GapThresholdSeconds(m.cfg.Chart.GapThresholdSeconds())
	for _, id := range m.clients {
		_, existed := m.charts.Get(id)
		c := m.charts.Ensure(id)
		if c.Options().GapThresholdSeconds != threshold {
			c.SetGapThreshold(threshold)
		}
		c.SetData(p.Raw(id), p.Latest(id))
		if !existed {
			c.SetKeys(m.initialKeys(id))
		}
	}
	for _, id := range m.charts.IDs() {
		if !lo.Contains(m.clients, id) {
			m.log.Debug("client %s left the payload", id)
			m.charts.Remove(id)
		}
	}

	m.selected = max(0, lo.IndexOf(m.clients, prev))
	m.keyCursor = min(m.keyCursor, max(0, len(m.currentKeys())-1))
	m.log.Debug("loaded %d clients from %s", len(m.clients), m.describeSource())
}

// initialKeys picks the keys a new chart starts with: the configured ones
// still present in the payload, or else the first available key.
func (m *Model) initialKeys(id string) []string {
	available := m.payload.Keys(id)
	keys := lo.Filter(m.cfg.ClientKeys(id), func(k string, _ int) bool {
		return lo.Contains(available, k)
	})
	if len(keys) == 0 && len(available) > 0 {
		keys = available[:1]
	}
	return keys
}

// setDurations replaces the window presets, keeping the current window when
// it is still offered.
func (m *Model) setDurations(d []time.Duration) {
	var current time.Duration
	if m.window < len(m.durations) {
		current = m.durations[m.window]
	}
	m.durations = slices.Clone(d)
	m.window = 0
	switch {
	case current > 0 && slices.Contains(m.durations, current):
		m.window = slices.Index(m.durations, current)
	case slices.Contains(m.durations, m.cfg.Chart.DefaultDuration):
		m.window = slices.Index(m.durations, m.cfg.Chart.DefaultDuration)
	}
	m.charts.SetWindow(m.windowSeconds())
}

// Window returns the active window preset, or 0 when none is configured.
func (m Model) Window() time.Duration {
	if m.window < len(m.durations) {
		return m.durations[m.window]
	}
	return 0
}

func (m Model) windowSeconds() float64 {
	return m.Window().Seconds()
}

// cycleWindow switches to the next window preset.
func (m *Model) cycleWindow() {
	if len(m.durations) == 0 {
		return
	}
	m.window = (m.window + 1) % len(m.durations)
	m.charts.SetWindow(m.windowSeconds())
}

// redrawCmd plans a redraw of the selected chart on the event loop and
// computes it in a command. Scroll redraws always report back so the
// throttle can start its cooldown.
func (m *Model) redrawCmd(scroll bool) tea.Cmd {
	c := m.current()
	if c == nil {
		return nil
	}
	pass := c.Plan()
	if len(pass.Jobs) == 0 && !scroll {
		return nil
	}
	id := c.ID()
	return func() tea.Msg {
		return computedMsg{client: id, result: chart.Compute(pass), scroll: scroll}
	}
}

// applyComputed stores computed paths. Results superseded by a newer plan
// are dropped.
func (m *Model) applyComputed(msg computedMsg) tea.Cmd {
	if c, ok := m.charts.Get(msg.client); ok && !c.Apply(msg.result) {
		m.log.Debug("dropped stale redraw for %s (generation %d)", msg.client, msg.result.Generation)
	}
	if !msg.scroll {
		return nil
	}
	token := m.scroll.Finish()
	return tea.Tick(m.scroll.Cooldown, func(time.Time) tea.Msg {
		return scrollReleaseMsg{token: token}
	})
}

// scrollBy moves the selected chart and redraws through the throttle.
func (m *Model) scrollBy(dx float64) tea.Cmd {
	c := m.current()
	if c == nil {
		return nil
	}
	c.ScrollBy(dx)
	return m.throttledRedraw()
}

// stepHand moves the hand one sample and keeps it in view.
func (m *Model) stepHand(delta int) tea.Cmd {
	c := m.current()
	if c == nil {
		return nil
	}
	c.StepHand(delta)
	return m.throttledRedraw()
}

func (m *Model) throttledRedraw() tea.Cmd {
	if !m.scroll.Trigger() {
		return nil
	}
	return m.redrawCmd(true)
}

// scrollStep is an eighth of the viewport, pageStep all of it.
func (m Model) scrollStep() float64 {
	return m.pageStep() / 8
}

func (m Model) pageStep() float64 {
	if c := m.current(); c != nil {
		return c.Viewport().Width
	}
	return 0
}

// current returns the selected client's chart.
func (m Model) current() *chart.Chart {
	id := m.currentID()
	if id == "" {
		return nil
	}
	c, _ := m.charts.Get(id)
	return c
}

func (m Model) currentID() string {
	if m.selected >= 0 && m.selected < len(m.clients) {
		return m.clients[m.selected]
	}
	return ""
}

// currentKeys returns every key the selected client reports.
func (m Model) currentKeys() []string {
	if m.payload == nil {
		return nil
	}
	return m.payload.Keys(m.currentID())
}

// selectClient selects client i, wrapping around.
func (m *Model) selectClient(i int) {
	n := len(m.clients)
	if n == 0 {
		return
	}
	if c := m.current(); c != nil {
		c.CancelDrag()
	}
	m.selected = ((i % n) + n) % n
	m.keyCursor = 0
	m.selection = nil
}

// toggleKeyAt toggles the i-th available key of the selected client and
// redraws.
func (m *Model) toggleKeyAt(i int) tea.Cmd {
	c := m.current()
	keys := m.currentKeys()
	if c == nil || i < 0 || i >= len(keys) {
		return nil
	}
	m.keyCursor = i
	k := keys[i]
	if !c.Keys().Contains(k) && len(c.Keys()) >= chart.MaxSeries {
		return m.setFlash(fmt.Sprintf("At most %d keys can be shown at once", chart.MaxSeries))
	}
	c.ToggleKey(k)
	return m.redrawCmd(false)
}

func (m *Model) moveKeyCursor(delta int) {
	n := len(m.currentKeys())
	if n == 0 {
		return
	}
	m.keyCursor = max(0, min(m.keyCursor+delta, n-1))
}

// saveKeys writes the selected client's active keys to the config file.
func (m *Model) saveKeys() tea.Cmd {
	c := m.current()
	if c == nil {
		return nil
	}
	path := m.cfgPath
	if path == "" {
		path = config.ConfigFileName
	}
	keys := slices.Clone([]string(c.Keys()))
	if err := config.SetClientKeys(path, c.ID(), keys); err != nil {
		m.lastErr = err
		m.log.Error("saving keys for %s: %v", c.ID(), err)
		return nil
	}
	m.rememberKeys(c.ID(), keys)
	return m.setFlash(fmt.Sprintf("Saved %d keys for %s to %s", len(keys), c.ID(), path))
}

// rememberKeys updates the in-memory config to match what was saved.
func (m *Model) rememberKeys(id string, keys []string) {
	for i := range m.cfg.Clients {
		if m.cfg.Clients[i].ID == id {
			m.cfg.Clients[i].Keys = keys
			return
		}
	}
	m.cfg.Clients = append(m.cfg.Clients, config.ClientConfig{ID: id, Keys: keys})
}

// setFlash shows msg in the footer for a few seconds.
func (m *Model) setFlash(msg string) tea.Cmd {
	m.flashID++
	m.flash = msg
	id := m.flashID
	return tea.Tick(flashDuration, func(time.Time) tea.Msg {
		return flashClearMsg{id: id}
	})
}

// SelectedClient returns the id of the selected client.
func (m Model) SelectedClient() string {
	return m.currentID()
}

// Charts exposes the chart registry.
func (m Model) Charts() *chart.Registry {
	return m.charts
}

// Payload returns the last applied payload, or nil.
func (m Model) Payload() *source.Payload {
	return m.payload
}

// Err returns the last fetch or save error.
func (m Model) Err() error {
	return m.lastErr
}
