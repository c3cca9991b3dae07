// SPDX-License-Identifier: GPL-3.0-only
package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/bascanada/lambdalogs/pkg/log"
	"github.com/bascanada/lambdalogs/pkg/log/client"
	"github.com/bascanada/lambdalogs/pkg/log/factory"
)

// State is the screen the navigation is on.
type State int

const (
	ProfileSelection State = iota
	FunctionList
	DateSelection
	LogViewer
)

func (s State) String() string {
	switch s {
	case ProfileSelection:
		return "ProfileSelection"
	case FunctionList:
		return "FunctionList"
	case DateSelection:
		return "DateSelection"
	case LogViewer:
		return "LogViewer"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

const (
	// headerHeight is the title line plus the breadcrumb line.
	headerHeight = 2
	// footerHeight is the filter line plus the help line.
	footerHeight = 2
	statusDuration = 5 * time.Second
)

// FunctionsLoadedMsg is sent when the function list of a profile arrives
type FunctionsLoadedMsg struct {
	RequestID string
	Profile   client.Profile
	Functions []string
}

// LogsLoadedMsg is sent when the logs of a function arrive
type LogsLoadedMsg struct {
	RequestID string
	Function  string
	Range     client.TimeRange
	Entries   []client.LogEntry
}

// FetchErrorMsg is sent when a fetch fails
type FetchErrorMsg struct {
	RequestID string
	Err       error
}

// ProfilesChangedMsg is sent when the profile sources were reloaded
type ProfilesChangedMsg struct {
	Profiles []client.Profile
	Err      error
}

// ClearStatusMsg is sent to clear status messages
type ClearStatusMsg struct {
	ID int
}

// ProfileLoader loads the profiles again after a change.
type ProfileLoader func(ctx context.Context) ([]client.Profile, error)

// request is the fetch in flight. Only the result carrying its ID is applied.
type request struct {
	id     string
	state  State
	label  string
	cancel context.CancelFunc
}

// Model is the navigation controller and the main TUI state
type Model struct {
	// Window dimensions
	Width  int
	Height int

	state State

	// Components, dropped when navigating back past them
	profiles  *EntryList[client.Profile]
	functions *EntryList[string]
	dates     *RangeSelector
	browser   *LogBrowser

	// Selections feeding the next screen
	profile   client.Profile
	function  string
	timeRange client.TimeRange

	pending        *request
	err            error
	status         string
	statusID       int
	queuedProfiles []client.Profile

	// Components
	Spinner   spinner.Model
	Help      help.Model
	StatusBar StatusBar
	FilterBar FilterBar

	// Styling
	Styles Styles
	Keys   KeyMap

	ClientFactory factory.LogClientFactory
	// FetchTimeout bounds each fetch when positive.
	FetchTimeout time.Duration
	// Now is the clock of the date screen.
	Now func() time.Time

	// ProfileChanges signals profile sources changes, ReloadProfiles reads them again.
	ProfileChanges <-chan struct{}
	ReloadProfiles ProfileLoader
}

// New creates a new TUI model
func New(profiles []client.Profile, clientFactory factory.LogClientFactory) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = DefaultStyles().Loading

	m := Model{
		Width:         80,
		Height:        24,
		state:         ProfileSelection,
		profiles:      NewEntryList(profiles, profileLabel),
		Spinner:       sp,
		Help:          help.New(),
		StatusBar:     NewStatusBar(),
		FilterBar:     NewFilterBar(),
		Styles:        DefaultStyles(),
		Keys:          DefaultKeyMap(),
		ClientFactory: clientFactory,
		Now:           time.Now,
	}
	m.resize()
	return m
}

func profileLabel(p client.Profile) string {
	return p.Name
}

func functionLabel(f string) string {
	return f
}

// Init initializes the TUI
func (m Model) Init() tea.Cmd {
	log.Debug("TUI Init called, profiles=%d", m.profiles.Len())
	return m.waitForProfileChange()
}

// State returns the current screen.
func (m Model) State() State {
	return m.state
}

// Loading reports whether a fetch is in flight.
func (m Model) Loading() bool {
	return m.pending != nil
}

// Err returns the error shown to the user, nil if none.
func (m Model) Err() error {
	return m.err
}

// Profiles returns the profile list.
func (m Model) Profiles() *EntryList[client.Profile] { return m.profiles }

// Functions returns the function list, nil before a profile is selected.
func (m Model) Functions() *EntryList[string] { return m.functions }

// Dates returns the range selector, nil outside the date and log screens.
func (m Model) Dates() *RangeSelector { return m.dates }

// Browser returns the log browser, nil outside the log screen.
func (m Model) Browser() *LogBrowser { return m.browser }

// visibleHeight is the number of rows available to lists and entry content.
func (m Model) visibleHeight() int {
	return max(m.Height-headerHeight-footerHeight-m.StatusBar.Height(), 1)
}

// resize propagates the size to the components. The log list is
// recentered on the selection.
func (m *Model) resize() {
	h := m.visibleHeight()
	m.StatusBar.Width = m.Width
	m.FilterBar.Width = m.Width
	m.Help.Width = m.Width
	m.profiles.SetHeight(h)
	if m.functions != nil {
		m.functions.SetHeight(h)
	}
	if m.browser != nil {
		m.browser.Recenter(h)
	}
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.resize()
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case spinner.TickMsg:
		if m.pending == nil {
			return m, nil
		}
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd

	case FunctionsLoadedMsg:
		if !m.accept(msg.RequestID) {
			return m, nil
		}
		log.Info("TUI loaded %d functions profile=%s requestID=%s", len(msg.Functions), msg.Profile.Name, msg.RequestID)
		m.profile = msg.Profile
		m.functions = NewEntryList(msg.Functions, functionLabel)
		m.functions.SetHeight(m.visibleHeight())
		m.state = FunctionList
		m.err = nil
		return m, nil

	case LogsLoadedMsg:
		if !m.accept(msg.RequestID) {
			return m, nil
		}
		log.Info("TUI loaded %d entries function=%s requestID=%s", len(msg.Entries), msg.Function, msg.RequestID)
		m.timeRange = msg.Range
		m.browser = NewLogBrowser(msg.Entries)
		m.browser.Recenter(m.visibleHeight())
		m.state = LogViewer
		m.err = nil
		return m, nil

	case FetchErrorMsg:
		if !m.accept(msg.RequestID) {
			return m, nil
		}
		log.Error("TUI fetch failed state=%s requestID=%s: %v", m.state, msg.RequestID, msg.Err)
		m.err = msg.Err
		return m, nil

	case ProfilesChangedMsg:
		if msg.Err != nil {
			log.Warn("TUI reloading profiles: %v", msg.Err)
			clearCmd := m.showStatusMessage("profiles not reloaded: " + msg.Err.Error())
			return m, tea.Batch(clearCmd, m.waitForProfileChange())
		}
		m.queuedProfiles = msg.Profiles
		m.applyQueuedProfiles()
		return m, m.waitForProfileChange()

	case ClearStatusMsg:
		if msg.ID == m.statusID {
			m.status = ""
		}
		return m, nil
	}

	return m, nil
}

// accept consumes the pending request when id matches it. Results of
// cancelled or superseded requests are dropped.
func (m *Model) accept(id string) bool {
	if m.pending == nil || m.pending.id != id {
		log.Debug("TUI discarding stale result requestID=%s", id)
		return false
	}
	m.pending.cancel()
	m.pending = nil
	return true
}

// cancelPending forgets the request in flight.
func (m *Model) cancelPending() {
	if m.pending == nil {
		return
	}
	log.Debug("TUI cancelling request requestID=%s", m.pending.id)
	m.pending.cancel()
	m.pending = nil
}

// applyQueuedProfiles replaces the profile list, only on the profile screen
// and when no fetch depends on the current selection.
func (m *Model) applyQueuedProfiles() {
	if m.queuedProfiles == nil || m.state != ProfileSelection || m.pending != nil {
		return
	}
	log.Info("TUI profiles reloaded count=%d", len(m.queuedProfiles))
	m.profiles.SetItems(m.queuedProfiles)
	m.queuedProfiles = nil
}

// handleKeyPress processes keyboard input
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.Keys.Quit) {
		m.cancelPending()
		return m, tea.Quit
	}

	switch m.state {
	case ProfileSelection:
		return m.handleProfileKeys(msg)
	case FunctionList:
		return m.handleFunctionKeys(msg)
	case DateSelection:
		return m.handleDateKeys(msg)
	case LogViewer:
		return m.handleLogKeys(msg)
	}
	return m, nil
}

// typed returns the text a key press adds to a filter.
func typed(msg tea.KeyMsg) (string, bool) {
	switch msg.Type {
	case tea.KeyRunes:
		return string(msg.Runes), true
	case tea.KeySpace:
		return " ", true
	}
	return "", false
}

func (m Model) handleProfileKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.Keys.Back):
		m.cancelPending()
		return m, tea.Quit
	case key.Matches(msg, m.Keys.Up):
		m.profiles.Previous()
	case key.Matches(msg, m.Keys.Down):
		m.profiles.Next()
	case key.Matches(msg, m.Keys.PageUp):
		m.profiles.PageUp()
	case key.Matches(msg, m.Keys.PageDown):
		m.profiles.PageDown()
	case key.Matches(msg, m.Keys.Backspace):
		m.profiles.Backspace()
	case key.Matches(msg, m.Keys.Confirm):
		profile, ok := m.profiles.Selected()
		if !ok {
			return m, nil
		}
		cmd := m.loadFunctionsCmd(profile)
		return m, cmd
	default:
		if s, ok := typed(msg); ok {
			m.profiles.AppendFilter(s)
		}
	}
	return m, nil
}

func (m Model) handleFunctionKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.Keys.Back):
		log.Debug("TUI back to profiles")
		m.functions = nil
		m.function = ""
		m.profile = client.Profile{}
		m.err = nil
		m.state = ProfileSelection
		m.applyQueuedProfiles()
	case key.Matches(msg, m.Keys.Up):
		m.functions.Previous()
	case key.Matches(msg, m.Keys.Down):
		m.functions.Next()
	case key.Matches(msg, m.Keys.PageUp):
		m.functions.PageUp()
	case key.Matches(msg, m.Keys.PageDown):
		m.functions.PageDown()
	case key.Matches(msg, m.Keys.Backspace):
		m.functions.Backspace()
	case key.Matches(msg, m.Keys.Confirm):
		function, ok := m.functions.Selected()
		if !ok {
			return m, nil
		}
		log.Debug("TUI function selected function=%s", function)
		m.function = function
		m.dates = NewRangeSelector(m.Now)
		m.err = nil
		m.state = DateSelection
	default:
		if s, ok := typed(msg); ok {
			m.functions.AppendFilter(s)
		}
	}
	return m, nil
}

func (m Model) handleDateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.Keys.Back):
		log.Debug("TUI back to functions")
		m.cancelPending()
		m.dates = nil
		m.function = ""
		m.err = nil
		m.state = FunctionList
	case key.Matches(msg, m.Keys.QuitLetter):
		m.cancelPending()
		return m, tea.Quit
	case key.Matches(msg, m.Keys.QuickColumn):
		m.dates.SelectColumn(QuickColumn)
	case key.Matches(msg, m.Keys.CustomColumn):
		m.dates.SelectColumn(CustomColumn)
	case key.Matches(msg, m.Keys.SwitchColumn):
		m.dates.ToggleColumn()
	case key.Matches(msg, m.Keys.ToggleEdit):
		m.dates.ToggleEditing()
	case key.Matches(msg, m.Keys.Up):
		m.dates.Up()
	case key.Matches(msg, m.Keys.Down):
		m.dates.Down()
	case key.Matches(msg, m.Keys.Left):
		m.dates.Left()
	case key.Matches(msg, m.Keys.Right):
		m.dates.Right()
	case key.Matches(msg, m.Keys.Confirm):
		tr, err := m.dates.Resolve()
		if err != nil {
			log.Debug("TUI invalid range: %v", err)
			m.err = err
			return m, nil
		}
		cmd := m.loadLogsCmd(m.function, tr)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleLogKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	b := m.browser
	h := m.visibleHeight()

	switch {
	case key.Matches(msg, m.Keys.Back):
		log.Debug("TUI back to date selection")
		m.browser = nil
		m.timeRange = client.TimeRange{}
		m.err = nil
		m.state = DateSelection
	case key.Matches(msg, m.Keys.ToggleExpand):
		b.ToggleExpand()
	case key.Matches(msg, m.Keys.Up):
		if b.Expanded() {
			b.ScrollUp()
		} else {
			b.MoveSelection(-1, h)
		}
	case key.Matches(msg, m.Keys.Down):
		if b.Expanded() {
			b.ScrollDown()
		} else {
			b.MoveSelection(1, h)
		}
	case key.Matches(msg, m.Keys.PageUp):
		if b.Expanded() {
			b.PageUp()
		} else {
			for i := 0; i < PageSize; i++ {
				b.MoveSelection(-1, h)
			}
		}
	case key.Matches(msg, m.Keys.PageDown):
		if b.Expanded() {
			b.PageDown()
		} else {
			for i := 0; i < PageSize; i++ {
				b.MoveSelection(1, h)
			}
		}
	case b.Expanded():
		if key.Matches(msg, m.Keys.QuitLetter) {
			return m, tea.Quit
		}
	case key.Matches(msg, m.Keys.Backspace):
		b.Backspace()
	default:
		if s, ok := typed(msg); ok {
			b.AppendFilter(s)
		}
	}
	return m, nil
}

// startRequest registers a new request, superseding the one in flight.
func (m *Model) startRequest(label string) (*request, context.Context) {
	m.cancelPending()

	var (
		ctx    context.Context
		cancel context.CancelFunc
	)
	if m.FetchTimeout > 0 {
		ctx, cancel = context.WithTimeout(context.Background(), m.FetchTimeout)
	} else {
		ctx, cancel = context.WithCancel(context.Background())
	}

	m.pending = &request{
		id:     uuid.NewString(),
		state:  m.state,
		label:  label,
		cancel: cancel,
	}
	m.err = nil
	return m.pending, ctx
}

// loadFunctionsCmd starts loading the function list of a profile
func (m *Model) loadFunctionsCmd(profile client.Profile) tea.Cmd {
	req, ctx := m.startRequest("Loading functions of " + profile.Name)
	clientFactory := m.ClientFactory
	requestID := req.id

	log.Info("TUI loading functions profile=%s region=%s requestID=%s", profile.Name, profile.Region, requestID)

	load := func() tea.Msg {
		if clientFactory == nil {
			return FetchErrorMsg{RequestID: requestID, Err: fmt.Errorf("no client factory configured")}
		}
		c, err := clientFactory.Get(ctx, profile)
		if err != nil {
			return FetchErrorMsg{RequestID: requestID, Err: err}
		}
		functions, err := c.ListFunctions(ctx)
		if err != nil {
			return FetchErrorMsg{RequestID: requestID, Err: client.NewFetchError(client.OpListFunctions, profile.Name, "", err)}
		}
		return FunctionsLoadedMsg{RequestID: requestID, Profile: profile, Functions: functions}
	}

	return tea.Batch(load, m.Spinner.Tick)
}

// loadLogsCmd starts loading the logs of a function
func (m *Model) loadLogsCmd(function string, tr client.TimeRange) tea.Cmd {
	req, ctx := m.startRequest("Loading logs of " + function)
	clientFactory := m.ClientFactory
	profile := m.profile
	requestID := req.id

	log.Info("TUI loading logs profile=%s function=%s from=%s to=%s requestID=%s",
		profile.Name, function, tr.From.Format(time.RFC3339), tr.To.Format(time.RFC3339), requestID)

	load := func() tea.Msg {
		if clientFactory == nil {
			return FetchErrorMsg{RequestID: requestID, Err: fmt.Errorf("no client factory configured")}
		}
		c, err := clientFactory.Get(ctx, profile)
		if err != nil {
			return FetchErrorMsg{RequestID: requestID, Err: err}
		}
		entries, err := c.FetchLogs(ctx, function, tr.From, tr.To)
		if err != nil {
			return FetchErrorMsg{RequestID: requestID, Err: client.NewFetchError(client.OpFetchLogs, profile.Name, function, err)}
		}
		return LogsLoadedMsg{RequestID: requestID, Function: function, Range: tr, Entries: entries}
	}

	return tea.Batch(load, m.Spinner.Tick)
}

// waitForProfileChange waits for the next change signal and reloads the
// profiles. Returns nil when nothing is watched.
func (m Model) waitForProfileChange() tea.Cmd {
	changes := m.ProfileChanges
	reload := m.ReloadProfiles
	if changes == nil || reload == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-changes; !ok {
			return nil
		}
		profiles, err := reload(context.Background())
		return ProfilesChangedMsg{Profiles: profiles, Err: err}
	}
}

// showStatusMessage temporarily shows a message in the status bar
// Returns a command that will clear the message after a delay
func (m *Model) showStatusMessage(message string) tea.Cmd {
	m.statusID++
	m.status = message
	id := m.statusID
	return tea.Tick(statusDuration, func(time.Time) tea.Msg {
		return ClearStatusMsg{ID: id}
	})
}

// Window is a [Start, End) range of visible rows.
type Window struct {
	Start int
	End   int
}

// Snapshot is a read-only copy of what the renderer needs from the
// current screen.
type Snapshot struct {
	State   State
	Loading bool
	Err     error
	Filter  string
	// Window is the drawn range, Centered the range centered on the
	// selection. Both are empty on the date screen.
	Window        Window
	Centered      Window
	Selected      int
	Expanded      bool
	ListOffset    int
	ContentOffset int
	Total         int
	Filtered      int
}

// Snapshot returns the render state of the active screen. Selected is -1
// when nothing is highlighted.
func (m Model) Snapshot() Snapshot {
	s := Snapshot{
		State:    m.state,
		Loading:  m.pending != nil,
		Err:      m.err,
		Selected: -1,
	}
	h := m.visibleHeight()

	switch m.state {
	case ProfileSelection:
		fillListSnapshot(&s, m.profiles)
	case FunctionList:
		fillListSnapshot(&s, m.functions)
	case LogViewer:
		b := m.browser
		s.Filter = b.Filter()
		s.Window.Start, s.Window.End = b.ListWindow(h)
		s.Centered.Start, s.Centered.End = b.VisibleRange(h)
		if i, ok := b.Selected(); ok {
			s.Selected = i
		}
		s.Expanded = b.Expanded()
		s.ListOffset = b.ListOffset()
		s.ContentOffset = b.ContentOffset()
		s.Total = b.Total()
		s.Filtered = b.Len()
	}
	return s
}

func fillListSnapshot[T any](s *Snapshot, l *EntryList[T]) {
	s.Filter = l.Filter()
	s.Window.Start, s.Window.End = l.Window()
	s.Centered = s.Window
	s.Selected = l.Index()
	s.ListOffset = s.Window.Start
	s.Total = len(l.Items())
	s.Filtered = l.Len()
}
