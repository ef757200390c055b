// Package app is the terminal host for the overlay: a scrollable page per
// section with the reel card, the notification bell and an event log drawn
// on top.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea/v2"

	"tableflip.dev/promoreel/pkg/bell"
	"tableflip.dev/promoreel/pkg/config"
	"tableflip.dev/promoreel/pkg/content"
	"tableflip.dev/promoreel/pkg/content/demo"
	"tableflip.dev/promoreel/pkg/display"
	"tableflip.dev/promoreel/pkg/kv"
	"tableflip.dev/promoreel/pkg/ledger"
	"tableflip.dev/promoreel/pkg/logging"
	"tableflip.dev/promoreel/pkg/overlay"
	"tableflip.dev/promoreel/pkg/page"
	"tableflip.dev/promoreel/pkg/tui/components/eventviewer"
	"tableflip.dev/promoreel/pkg/tui/components/help"
	"tableflip.dev/promoreel/pkg/tui/theme"
)

// Options configure the host.
type Options struct {
	Config   *config.Config
	Provider content.Provider
	Store    kv.Store
	// Watcher, when set, refreshes the bell when another process writes
	// the ledgers.
	Watcher kv.Watcher
	// Section is opened first; empty means the first configured section.
	Section content.SectionKey
	Logger  *slog.Logger
	// Events feeds the debug event log.
	Events *eventviewer.Sink
	Debug  bool
}

const (
	frameInterval = 16 * time.Millisecond
	clockInterval = 250 * time.Millisecond
	fetchTimeout  = 5 * time.Second

	// wheelNotch is the pixel delta of one wheel click.
	wheelNotch    = 100
	pageWheelRows = 3

	headerRows = 1
	footerRows = 1
)

type itemsMsg struct {
	section content.SectionKey
	items   []content.MediaItem
	err     error
}

type notificationsMsg struct {
	items []content.NotificationItem
	err   error
}

type settleMsg struct{ epoch uint64 }

type frameMsg struct{ epoch uint64 }

type clockMsg struct{}

type ledgerMsg struct {
	event kv.Event
	ok    bool
}

// Model is the root Bubble Tea model.
type Model struct {
	cfg      *config.Config
	provider content.Provider
	watcher  kv.Watcher
	logger   *slog.Logger
	sink     *eventviewer.Sink
	theme    theme.Theme

	ctx    context.Context
	cancel context.CancelFunc

	reels       *ledger.Ledger[string]
	bell        *bell.Bell
	bellEntries []bell.Entry
	bellOpen    bool

	sections []content.SectionKey
	current  int
	doc      *page.Static
	scroll   int

	session      *overlay.Session
	player       *clipPlayer
	clip         string
	framePending bool
	dragging     bool

	width  int
	height int

	debug    bool
	events   *eventviewer.Model
	helpOpen bool
	help     *help.Model
	status   string

	ledgerEvents <-chan kv.Event
}

// New constructs the host. Missing options fall back to the built-in
// configuration, the demo content and an in-memory store.
func New(opts Options) *Model {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	store := opts.Store
	if store == nil {
		store = kv.NewMemory()
	}
	provider := opts.Provider
	if provider == nil {
		provider = demo.Provider(time.Now())
	}
	ctx, cancel := context.WithCancel(context.Background())

	th := theme.Default()
	m := &Model{
		cfg:      cfg,
		provider: provider,
		watcher:  opts.Watcher,
		logger:   logger,
		sink:     opts.Events,
		theme:    th,
		ctx:      ctx,
		cancel:   cancel,
		reels:    ledger.New[string](store, ledger.ReelNamespace, ledger.WithLogger(logger)),
		bell:     bell.New(ledger.New[string](store, ledger.BellNamespace, ledger.WithLogger(logger))),
		sections: cfg.SectionKeys(),
		debug:    opts.Debug,
		events:   eventviewer.NewModel(200, th.Events),
		help:     help.New(72, 20),
	}
	if len(m.sections) == 0 {
		m.sections = []content.SectionKey{content.SectionHome}
	}
	for i, k := range m.sections {
		if k == opts.Section {
			m.current = i
		}
	}
	if opts.Section != "" && m.sections[m.current] != opts.Section {
		m.status = fmt.Sprintf("unknown section %q", opts.Section)
	}
	m.open(m.current)
	return m
}

// Run launches the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	defer m.Close()
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}

// Close stops background work and the active session.
func (m *Model) Close() {
	m.cancel()
	if m.session != nil {
		m.session.Close()
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.sectionCmds(), m.fetchNotifications(), tickClock()}
	if m.sink != nil {
		cmds = append(cmds, m.sink.Wait())
	}
	if m.watcher != nil {
		ch, err := m.watcher.Watch(m.ctx)
		if err != nil {
			m.logger.Warn("ui: ledger watch unavailable", "error", err)
		} else {
			m.ledgerEvents = ch
			cmds = append(cmds, waitLedger(ch))
		}
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch v := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = v.Width, v.Height
		m.layout()
		m.scrollTo(m.scroll)
	case tea.KeyPressMsg:
		if m.handleKey(v, &cmds) {
			return m, tea.Quit
		}
	case tea.MouseClickMsg:
		m.handleClick(v.Mouse())
	case tea.MouseMotionMsg:
		if m.dragging {
			x, y := m.pixels(v.Mouse())
			m.session.PointerMove(x, y)
		}
	case tea.MouseReleaseMsg:
		if m.dragging {
			m.dragging = false
			x, y := m.pixels(v.Mouse())
			m.session.PointerUp(x, y)
		}
	case tea.MouseWheelMsg:
		m.handleWheel(v.Mouse())
	case itemsMsg:
		if m.session.Deliver(v.section, v.items, v.err) && v.err != nil {
			m.status = "reels unavailable"
		}
	case settleMsg:
		m.session.Settle(v.epoch, m.doc)
	case frameMsg:
		if v.epoch != m.session.Epoch() {
			break
		}
		m.framePending = false
		m.session.Frame()
	case clockMsg:
		m.advanceClock(clockInterval)
		cmds = append(cmds, tickClock())
	case notificationsMsg:
		if v.err != nil {
			m.logger.Warn("ui: notifications unavailable", "error", v.err)
			break
		}
		m.bell.Load(v.items)
		m.refreshBell()
	case ledgerMsg:
		if !v.ok {
			m.ledgerEvents = nil
			break
		}
		if v.event.Namespace == ledger.BellNamespace {
			m.refreshBell()
		}
		cmds = append(cmds, waitLedger(m.ledgerEvents))
	case eventviewer.EntryMsg:
		m.events.Append(eventviewer.Entry(v))
		if m.sink != nil {
			cmds = append(cmds, m.sink.Wait())
		}
	}

	m.sync(&cmds)
	return m, tea.Batch(cmds...)
}

func (m *Model) handleKey(msg tea.KeyPressMsg, cmds *[]tea.Cmd) bool {
	key := msg.String()
	if key == "ctrl+c" {
		return true
	}
	if m.helpOpen {
		switch key {
		case "?", "esc", "q":
			m.helpOpen = false
		default:
			var cmd tea.Cmd
			m.help, cmd = m.help.Update(msg)
			*cmds = append(*cmds, cmd)
		}
		return false
	}

	fullscreen := m.session.State().Mode == display.Fullscreen
	half := max(m.pageRows()/2, 1)
	switch key {
	case "q":
		return true
	case "tab":
		*cmds = append(*cmds, m.switchSection(1))
	case "shift+tab":
		*cmds = append(*cmds, m.switchSection(-1))
	case "up", "k":
		if fullscreen {
			m.session.Key(overlay.KeyUp)
		} else {
			m.scrollTo(m.scroll - 1)
		}
	case "down", "j":
		if fullscreen {
			m.session.Key(overlay.KeyDown)
		} else {
			m.scrollTo(m.scroll + 1)
		}
	case "pgdown", "space", " ", "ctrl+d":
		if !fullscreen {
			m.scrollTo(m.scroll + half)
		}
	case "pgup", "ctrl+u":
		if !fullscreen {
			m.scrollTo(m.scroll - half)
		}
	case "g", "home":
		m.scrollTo(0)
	case "G", "end":
		m.scrollTo(m.maxScroll())
	case "]":
		m.session.Next()
	case "[":
		m.session.Prev()
	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		m.session.GoTo(int(key[0] - '1'))
	case "enter":
		m.session.Tap()
	case "f":
		if err := m.session.Expand(); err != nil {
			m.logger.Debug("ui: expand rejected", "error", err)
		}
	case "esc":
		if m.bellOpen && !fullscreen {
			m.bellOpen = false
			break
		}
		m.session.Key(overlay.KeyEscape)
	case "m":
		m.session.ToggleMute()
	case "-":
		if err := m.session.ToggleMinimize(); err != nil {
			m.logger.Debug("ui: minimize rejected", "error", err)
		}
	case "x":
		switch err := m.session.Dismiss(); {
		case err == nil:
			m.status = "reel dismissed until it changes"
		case errors.Is(err, display.ErrInvalidTransition):
			m.status = "leave fullscreen to dismiss"
		default:
			m.status = "dismissal not saved"
		}
	case "b":
		m.bellOpen = !m.bellOpen
		m.refreshBell()
	case "r":
		if err := m.bell.MarkAllRead(); err != nil {
			m.logger.Error("ui: mark all read", "error", err)
			m.status = "could not mark notifications read"
		}
		m.refreshBell()
	case "d":
		m.debug = !m.debug
		m.layout()
		m.scrollTo(m.scroll)
	case "?":
		m.helpOpen = true
	}
	return false
}

func (m *Model) handleClick(mouse tea.Mouse) {
	if mouse.Button != tea.MouseLeft {
		return
	}
	_, card := m.surface()
	if !card.Contains(mouse.X, mouse.Y) {
		return
	}
	x, y := m.pixels(mouse)
	m.dragging = m.session.PointerDown(x, y)
}

func (m *Model) handleWheel(mouse tea.Mouse) {
	var dy int
	switch mouse.Button {
	case tea.MouseWheelDown:
		dy = 1
	case tea.MouseWheelUp:
		dy = -1
	default:
		return
	}
	_, card := m.surface()
	if m.session.State().Mode == display.Fullscreen || card.Contains(mouse.X, mouse.Y) {
		m.session.Wheel(dy * wheelNotch)
		return
	}
	m.scrollTo(m.scroll + dy*pageWheelRows)
}

// pixels maps a cell to page pixels; a column is half a row wide.
func (m *Model) pixels(mouse tea.Mouse) (int, int) {
	row := m.rowHeight()
	return mouse.X * row / 2, mouse.Y * row
}

func (m *Model) switchSection(delta int) tea.Cmd {
	n := len(m.sections)
	m.open(((m.current+delta)%n + n) % n)
	return m.sectionCmds()
}

// open replaces the session with a fresh one for section i.
func (m *Model) open(i int) {
	if m.session != nil {
		m.session.Close()
	}
	m.current = i
	key := m.sections[i]
	sec, ok := m.cfg.Section(key)
	if !ok {
		sec = config.Section{Key: key, Title: string(key)}
	}

	doc, err := loadPage(sec, m.pageLayout())
	if err != nil {
		m.logger.Warn("ui: page unavailable", "section", string(key), "error", err)
		m.status = fmt.Sprintf("no page for %s", key)
	}
	m.doc = doc
	m.scroll = 0
	m.player = &clipPlayer{}
	m.clip = ""
	m.framePending = false
	m.dragging = false

	ov := m.cfg.Overlay
	m.session = overlay.NewSession(overlay.Options{
		Section:          key,
		Rules:            sec.Rules,
		Ledger:           m.reels,
		Player:           m.player,
		Logger:           m.logger,
		SettleDelay:      ov.Settle,
		DragThreshold:    ov.DragThreshold,
		DismissThreshold: ov.DismissThreshold,
		WheelThreshold:   ov.WheelThreshold,
	})
	m.session.Scroll(m.viewport())
	m.logger.Info("ui: section opened", "section", string(key))
}

// sectionCmds starts the fetch and the settle delay of the current session.
func (m *Model) sectionCmds() tea.Cmd {
	s := m.session
	epoch := s.Epoch()
	return tea.Batch(
		fetchItems(m.ctx, m.provider, s.Section()),
		tea.Tick(s.SettleDelay(), func(time.Time) tea.Msg { return settleMsg{epoch: epoch} }),
	)
}

func fetchItems(ctx context.Context, p content.Provider, section content.SectionKey) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
		defer cancel()
		items, err := p.ListActiveItems(ctx, section)
		return itemsMsg{section: section, items: items, err: err}
	}
}

func (m *Model) fetchNotifications() tea.Cmd {
	ctx, p := m.ctx, m.provider
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
		defer cancel()
		items, err := p.ListNotifications(ctx)
		return notificationsMsg{items: items, err: err}
	}
}

func tickClock() tea.Cmd {
	return tea.Tick(clockInterval, func(time.Time) tea.Msg { return clockMsg{} })
}

func waitLedger(ch <-chan kv.Event) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-ch
		return ledgerMsg{event: ev, ok: ok}
	}
}

// sync binds the play clock to the shown clip and schedules a frame when
// the session has queued work.
func (m *Model) sync(cmds *[]tea.Cmd) {
	st := m.session.State()
	clip := ""
	if st.HasItem {
		clip = fmt.Sprintf("%d/%d/%s", m.session.Epoch(), st.Index, st.Item.ID)
	}
	if clip != m.clip {
		m.clip = clip
		m.player.load(st.Item.PlayLength())
	}
	if m.session.NeedsFrame() && !m.framePending {
		m.framePending = true
		epoch := m.session.Epoch()
		*cmds = append(*cmds, tea.Tick(frameInterval, func(time.Time) tea.Msg { return frameMsg{epoch: epoch} }))
	}
}

func (m *Model) advanceClock(d time.Duration) {
	st := m.session.State()
	if !st.Eligible() || st.Mode == display.Minimized {
		return
	}
	if m.player.advance(d) {
		m.session.MediaEnded()
	}
}

func (m *Model) refreshBell() {
	m.bellEntries = m.bell.Entries()
}

func (m *Model) scrollTo(row int) {
	m.scroll = max(min(row, m.maxScroll()), 0)
	m.session.Scroll(m.viewport())
}

func (m *Model) maxScroll() int {
	if m.doc == nil {
		return 0
	}
	return max(len(m.doc.Lines())-m.pageRows(), 0)
}

func (m *Model) viewport() page.Viewport {
	row := m.rowHeight()
	return page.Viewport{ScrollY: m.scroll * row, Height: m.pageRows() * row}
}

func (m *Model) layout() {
	if m.debug {
		m.events.SetSize(m.width, m.eventRows())
	}
	m.help.SetSize(min(m.width-4, 72), m.pageRows()-2)
}

func (m *Model) eventRows() int {
	if !m.debug {
		return 0
	}
	return max(m.height/3, 6)
}

func (m *Model) pageRows() int {
	return max(m.height-headerRows-footerRows-m.eventRows(), 1)
}

func (m *Model) rowHeight() int {
	if m.cfg.Overlay.RowHeight > 0 {
		return m.cfg.Overlay.RowHeight
	}
	return page.DefaultLayout().RowHeight
}

func (m *Model) pageLayout() page.Layout {
	return page.Layout{Width: m.cfg.Overlay.ColWidth, RowHeight: m.rowHeight()}
}

// loadPage lays out the section page, or an empty page when none is found.
func loadPage(sec config.Section, layout page.Layout) (*page.Static, error) {
	empty, _ := page.ParseString("", layout)
	if sec.Page != "" {
		f, err := os.Open(sec.Page)
		if err != nil {
			return empty, fmt.Errorf("ui: open page: %w", err)
		}
		defer f.Close()
		doc, err := page.Parse(f, layout)
		if err != nil {
			return empty, err
		}
		return doc, nil
	}
	raw, ok := demo.Page(sec.Key)
	if !ok {
		return empty, fmt.Errorf("ui: no page configured for section %q", sec.Key)
	}
	return page.ParseString(raw, layout)
}
