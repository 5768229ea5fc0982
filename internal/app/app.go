package app

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/MarcoPinkman/Hawkeye/internal/client"
	"github.com/MarcoPinkman/Hawkeye/internal/eventlog"
	"github.com/MarcoPinkman/Hawkeye/internal/events"
	"github.com/MarcoPinkman/Hawkeye/internal/hostinfo"
	xlog "github.com/MarcoPinkman/Hawkeye/internal/log"
	"github.com/MarcoPinkman/Hawkeye/internal/notify"
	"github.com/MarcoPinkman/Hawkeye/internal/session"
	"github.com/MarcoPinkman/Hawkeye/internal/theme"
	"github.com/MarcoPinkman/Hawkeye/internal/views/debug"
	"github.com/MarcoPinkman/Hawkeye/internal/views/detail"
	logview "github.com/MarcoPinkman/Hawkeye/internal/views/eventlog"
	"github.com/MarcoPinkman/Hawkeye/internal/views/form"
	"github.com/MarcoPinkman/Hawkeye/internal/views/live"
	"github.com/MarcoPinkman/Hawkeye/internal/views/status"
	"github.com/MarcoPinkman/Hawkeye/internal/views/toast"
	"github.com/MarcoPinkman/Hawkeye/internal/wizard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"
)

// Overlay identifies which modal is active.
type Overlay int

const (
	OverlayNone Overlay = iota
	OverlayDetail
	OverlayDebug
	OverlayEvents
)

const (
	modelFormID   = "model"
	streamFormID  = "stream"
	contextFormID = "context"

	defaultCallTimeout = 15 * time.Second
	lowDiskBytes       = 1 << 30
)

// Deps are the collaborators the console drives.
type Deps struct {
	Controller *session.Controller
	Queue      *notify.Queue
	Registry   *events.Registry
	Records    eventlog.Source
	Feed       *client.Feed // nil when no feed is configured
	FeedURL    string
	Settings   session.Settings

	RefreshInterval time.Duration
	CallTimeout     time.Duration
	DiskSpace       func(dir string) (hostinfo.DiskSpace, error)
}

// ToastChangedMsg asks for a redraw after the notification queue changed
// off the UI goroutine.
type ToastChangedMsg struct{}

// sessionResultMsg carries the outcome of a controller call.
type sessionResultMsg struct {
	op  string
	err error
}

type recordsMsg struct {
	recs []eventlog.Record
	at   time.Time
}

type refreshTickMsg struct{ gen int }

type diskMsg struct {
	space hostinfo.DiskSpace
	err   error
}

// Model is the root Bubble Tea model.
type Model struct {
	deps   Deps
	ctx    context.Context
	cancel context.CancelFunc
	log    zerolog.Logger

	keys   KeyMap
	width  int
	height int

	wizard *wizard.Machine
	draft  *draft

	// Step views.
	modelForm   form.Model
	streamForm  form.Model
	editor      eventsEditor
	contextForm *form.Model // non-nil while the context is being edited
	stepErr     string

	// Live step.
	live       live.Model
	table      logview.Model
	refreshGen int

	// Overlays.
	overlay Overlay
	detail  detail.Model
	debug   debug.Model

	statusBar status.Model
	connected bool
}

// New creates the root model at the welcome step.
func New(deps Deps) Model {
	if deps.CallTimeout <= 0 {
		deps.CallTimeout = defaultCallTimeout
	}
	if deps.RefreshInterval <= 0 {
		deps.RefreshInterval = 5 * time.Second
	}
	if deps.DiskSpace == nil {
		deps.DiskSpace = hostinfo.OutputDirSpace
	}

	ctx, cancel := context.WithCancel(context.Background())
	keys := DefaultKeyMap()
	d := newDraft(deps.Settings, deps.Registry.List())

	m := Model{
		deps:      deps,
		ctx:       ctx,
		cancel:    cancel,
		log:       xlog.WithComponent("app"),
		keys:      keys,
		draft:     d,
		editor:    newEventsEditor(deps.Registry, keys),
		live:      live.New(),
		table:     logview.New(),
		debug:     debug.New(),
		statusBar: status.New(int(wizard.StepLive)),
	}
	m.statusBar.FeedURL = deps.FeedURL
	m.wizard = wizard.New(deps.Controller, deps.Registry,
		wizard.WithValidator(func(s wizard.Step) error { return wizard.CheckSettings(s, d.Settings()) }))
	m.modelForm = newModelForm(deps.Settings)
	m.streamForm = newStreamForm(deps.Settings)
	return m
}

func newModelForm(s session.Settings) form.Model {
	return form.New(modelFormID, "Model setup",
		form.Field{Key: "model", Label: "Model", Placeholder: "qwen-vl-max", Value: s.Model},
		form.Field{Key: "base_url", Label: "API base URL", Placeholder: "https://...", Value: s.BaseURL},
	)
}

func newStreamForm(s session.Settings) form.Model {
	return form.New(streamFormID, "Stream setup",
		form.Field{Key: "preview_url", Label: "Preview URL", Placeholder: "http://...", Value: s.PreviewURL},
		form.Field{Key: "rtsp_url", Label: "RTSP URL", Placeholder: "rtsp://...", Value: s.RTSPURL},
		form.Field{Key: "chunk_duration", Label: "Chunk seconds", Placeholder: "5", Value: strconv.Itoa(s.ChunkDuration)},
		form.Field{Key: "output_dir", Label: "Output dir", Placeholder: "./localdata/video_chunks/", Value: s.OutputDir},
	)
}

// Init starts the live event feed, if any.
func (m Model) Init() tea.Cmd {
	if m.deps.Feed == nil {
		return nil
	}
	return m.deps.Feed.Listen(m.ctx)
}

// Step is the current wizard step.
func (m Model) Step() wizard.Step { return m.wizard.Step() }

// Teardown releases the live step as if the operator had left it. The
// caller must issue a stop when it returns EffectStop.
func (m Model) Teardown() wizard.Effect {
	m.cancel()
	if m.deps.Feed != nil {
		m.deps.Feed.Close()
	}
	return m.wizard.Teardown()
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.statusBar.Width = msg.Width
		m.table.SetSize(msg.Width, m.tableHeight())
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case ToastChangedMsg:
		return m, nil

	case sessionResultMsg:
		m.recordResult(msg)
		return m, nil

	case recordsMsg:
		m.table.SetRecords(msg.recs, msg.at)
		return m, nil

	case refreshTickMsg:
		if msg.gen != m.refreshGen || m.Step() != wizard.StepLive {
			return m, nil
		}
		return m, tea.Batch(m.refreshCmd(), m.refreshTick())

	case diskMsg:
		m.applyDisk(msg)
		return m, nil

	case spinner.TickMsg:
		if m.Step() != wizard.StepLive {
			return m, nil
		}
		var cmd tea.Cmd
		m.live, cmd = m.live.Update(msg)
		return m, cmd

	case detail.OpenedMsg:
		if msg.Err != nil {
			m.detail.OpenError = msg.Err.Error()
			m.debug.Addf(debug.KindErr, "open %s: %v", msg.URL, msg.Err)
		}
		return m, nil

	case form.SubmitMsg:
		return m.handleSubmit(msg)

	case form.CancelMsg:
		return m.handleCancel(msg)

	case eventsChangedMsg:
		m.draft.SetEvents(m.deps.Registry.List())
		m.debug.Addf(debug.KindNav, "events changed: %d defined", m.deps.Registry.Len())
		return m, nil

	case client.FeedConnectedMsg:
		m.connected = true
		m.debug.Addf(debug.KindFeed, "connected")
		return m, m.deps.Feed.ReadLoop(m.ctx)

	case client.FeedDisconnectedMsg:
		m.connected = false
		m.debug.Addf(debug.KindFeed, "disconnected: %v", msg.Err)
		return m, m.deps.Feed.Listen(m.ctx)

	case client.FeedEventMsg:
		rec := msg.Payload.Record
		m.debug.Addf(debug.KindFeed, "event #%d %s", rec.ID, rec.Code)
		cmds := []tea.Cmd{m.deps.Feed.ReadLoop(m.ctx)}
		if m.Step() == wizard.StepLive {
			cmds = append(cmds, m.refreshCmd())
		}
		return m, tea.Batch(cmds...)

	case client.FeedStatusMsg:
		m.debug.Addf(debug.KindFeed, "control plane running=%t model=%s", msg.Payload.Running, msg.Payload.Model)
		return m, m.deps.Feed.ReadLoop(m.ctx)

	case client.FeedErrorMsg:
		m.debug.Addf(debug.KindErr, "feed error: %s", string(msg.Raw))
		return m, m.deps.Feed.ReadLoop(m.ctx)
	}

	return m.forwardToFocus(msg)
}

// forwardToFocus passes non-key messages (cursor blink and the like) to
// whichever text input has focus.
func (m Model) forwardToFocus(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch {
	case m.contextForm != nil:
		f, c := m.contextForm.Update(msg)
		m.contextForm, cmd = &f, c
	case m.overlay == OverlayEvents || m.Step() == wizard.StepEvents:
		m.editor, cmd = m.editor.Update(msg)
	case m.Step() == wizard.StepModel:
		m.modelForm, cmd = m.modelForm.Update(msg)
	case m.Step() == wizard.StepStream:
		m.streamForm, cmd = m.streamForm.Update(msg)
	}
	return m, cmd
}

// typing reports whether a text input has focus, which disables the
// single-letter shortcuts.
func (m Model) typing() bool {
	if m.contextForm != nil {
		return true
	}
	if m.overlay == OverlayEvents || (m.overlay == OverlayNone && m.Step() == wizard.StepEvents) {
		return m.editor.typing()
	}
	if m.overlay != OverlayNone {
		return false
	}
	step := m.Step()
	return step == wizard.StepModel || step == wizard.StepStream
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.ForceQuit):
		return m.quit()
	case key.Matches(msg, m.keys.Dismiss):
		m.deps.Queue.Dismiss()
		return m, nil
	}

	if !m.typing() {
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m.quit()
		case key.Matches(msg, m.keys.Debug) && m.overlay != OverlayDebug:
			m.overlay = OverlayDebug
			return m, nil
		}
	}

	switch m.overlay {
	case OverlayDebug:
		switch {
		case key.Matches(msg, m.keys.Back), key.Matches(msg, m.keys.Debug):
			m.overlay = OverlayNone
		case key.Matches(msg, m.keys.Up):
			m.debug.ScrollUp(1)
		case key.Matches(msg, m.keys.Down):
			m.debug.ScrollDown(1)
		}
		return m, nil

	case OverlayDetail:
		switch {
		case key.Matches(msg, m.keys.Back):
			m.overlay = OverlayNone
		case key.Matches(msg, m.keys.Open) && m.detail.Record.VideoURL != "":
			m.detail.OpenError = ""
			return m, detail.OpenCmd(m.detail.Record.VideoURL)
		}
		return m, nil

	case OverlayEvents:
		if !m.editor.typing() && key.Matches(msg, m.keys.Back) {
			m.overlay = OverlayNone
			return m, nil
		}
		var cmd tea.Cmd
		m.editor, cmd = m.editor.Update(msg)
		return m, cmd
	}

	if m.contextForm != nil {
		f, cmd := m.contextForm.Update(msg)
		m.contextForm = &f
		return m, cmd
	}

	switch m.Step() {
	case wizard.StepWelcome:
		if key.Matches(msg, m.keys.Enter) {
			return m.next()
		}
		return m, nil
	case wizard.StepModel:
		var cmd tea.Cmd
		m.modelForm, cmd = m.modelForm.Update(msg)
		return m, cmd
	case wizard.StepStream:
		var cmd tea.Cmd
		m.streamForm, cmd = m.streamForm.Update(msg)
		return m, cmd
	case wizard.StepEvents:
		return m.handleEventsKey(msg)
	case wizard.StepLive:
		return m.handleLiveKey(msg)
	}
	return m, nil
}

func (m Model) handleEventsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if !m.editor.typing() {
		switch {
		case key.Matches(msg, m.keys.Enter):
			return m.next()
		case key.Matches(msg, m.keys.Back):
			return m.back()
		case key.Matches(msg, m.keys.Context):
			f := form.New(contextFormID, "Stream context",
				form.Field{Key: "context", Label: "Context", Placeholder: "What the camera sees", Value: m.draft.Settings().Context})
			m.contextForm = &f
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	return m, cmd
}

func (m Model) handleLiveKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	ctl := m.deps.Controller
	switch {
	case key.Matches(msg, m.keys.Back):
		return m.back()

	case key.Matches(msg, m.keys.Restart):
		if m.deps.Registry.Len() == 0 {
			m.debug.Addf(debug.KindErr, "restart refused: no events")
			m.deps.Queue.Notify("Please add at least one event before restarting", notify.Error)
			return m, nil
		}
		// A second press supersedes the restart still settling.
		m.debug.Addf(debug.KindCtl, "restart requested")
		return m, m.restartCmd()

	case key.Matches(msg, m.keys.Stop):
		if ctl.IsActive() && ctl.LeaveLive() {
			m.debug.Addf(debug.KindCtl, "stop requested")
			return m, m.stopCmd()
		}
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		return m, m.refreshCmd()

	case key.Matches(msg, m.keys.Config):
		m.live.ShowConfig = !m.live.ShowConfig
		m.table.SetSize(m.width, m.tableHeight())
		if m.live.ShowConfig {
			return m, m.diskCmd()
		}
		return m, nil

	case key.Matches(msg, m.keys.Events):
		m.overlay = OverlayEvents
		return m, nil

	case key.Matches(msg, m.keys.Enter):
		if rec, ok := m.table.Selected(); ok {
			m.detail = detail.New(rec, min(max(m.width-8, 40), 100))
			m.overlay = OverlayDetail
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Model) handleSubmit(msg form.SubmitMsg) (tea.Model, tea.Cmd) {
	s := m.draft.Settings()
	switch msg.ID {
	case modelFormID:
		s.Model = msg.Values["model"]
		s.BaseURL = msg.Values["base_url"]
		m.draft.SetSettings(s)
		return m.next()

	case streamFormID:
		s.PreviewURL = msg.Values["preview_url"]
		s.RTSPURL = msg.Values["rtsp_url"]
		s.OutputDir = msg.Values["output_dir"]
		n, err := strconv.Atoi(msg.Values["chunk_duration"])
		if err != nil {
			m.streamForm.Err = "chunk seconds must be a whole number"
			return m, nil
		}
		s.ChunkDuration = n
		m.draft.SetSettings(s)
		return m.next()

	case contextFormID:
		s.Context = msg.Values["context"]
		m.draft.SetSettings(s)
		m.contextForm = nil
		return m, nil

	case eventFormID:
		var cmd tea.Cmd
		m.editor, cmd = m.editor.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleCancel(msg form.CancelMsg) (tea.Model, tea.Cmd) {
	switch msg.ID {
	case modelFormID, streamFormID:
		return m.back()
	case contextFormID:
		m.contextForm = nil
		return m, nil
	case eventFormID:
		var cmd tea.Cmd
		m.editor, cmd = m.editor.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) next() (tea.Model, tea.Cmd) {
	from := m.Step()
	eff, err := m.wizard.Next()
	if err != nil {
		m.stepErr = err.Error()
		switch from {
		case wizard.StepModel:
			m.modelForm.Err = err.Error()
		case wizard.StepStream:
			m.streamForm.Err = err.Error()
		}
		if errors.Is(err, wizard.ErrNoEvents) {
			m.deps.Queue.Notify("Please add at least one event", notify.Error)
		}
		m.debug.Addf(debug.KindNav, "step %d blocked: %v", from, err)
		return m, nil
	}
	m.stepErr = ""
	m.modelForm.Err = ""
	m.streamForm.Err = ""
	return m, m.transition(from, eff)
}

func (m Model) back() (tea.Model, tea.Cmd) {
	from := m.Step()
	eff := m.wizard.Back()
	m.stepErr = ""
	return m, m.transition(from, eff)
}

// transition runs the controller effect and the live step's entry/exit
// work. The guard has already been updated by the wizard.
func (m *Model) transition(from wizard.Step, eff wizard.Effect) tea.Cmd {
	to := m.Step()
	m.debug.Addf(debug.KindNav, "step %d -> %d (%s)", from, to, eff)
	m.log.Debug().Int(xlog.FieldFromStep, int(from)).Int(xlog.FieldStep, int(to)).Str("effect", eff.String()).Msg("transition")

	var cmds []tea.Cmd
	switch eff {
	case wizard.EffectStart:
		cmds = append(cmds, m.startCmd())
	case wizard.EffectStop:
		cmds = append(cmds, m.stopCmd())
	}

	switch {
	case to == wizard.StepLive && from != wizard.StepLive:
		m.refreshGen++
		m.table.SetSize(m.width, m.tableHeight())
		cmds = append(cmds, m.refreshCmd(), m.refreshTick(), m.live.Tick(), m.diskCmd())
	case from == wizard.StepLive && to != wizard.StepLive:
		m.refreshGen++
		m.overlay = OverlayNone
	}
	return tea.Batch(cmds...)
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	eff := m.Teardown()
	if eff == wizard.EffectStop {
		m.debug.Addf(debug.KindCtl, "stopping detection before exit")
		return m, tea.Sequence(m.stopCmd(), tea.Quit)
	}
	return m, tea.Quit
}

// --- commands ---

// Controller calls use their own timeout rather than m.ctx: navigation and
// quitting never cancel a call in flight.
func (m Model) startCmd() tea.Cmd {
	ctl, cfg, timeout := m.deps.Controller, m.draft.Latest(), m.deps.CallTimeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return sessionResultMsg{op: "start", err: ctl.Start(ctx, cfg)}
	}
}

func (m Model) stopCmd() tea.Cmd {
	ctl, timeout := m.deps.Controller, m.deps.CallTimeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return sessionResultMsg{op: "stop", err: ctl.Stop(ctx)}
	}
}

func (m Model) restartCmd() tea.Cmd {
	ctl, d, timeout := m.deps.Controller, m.draft, m.deps.CallTimeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 2*timeout+session.SettleDelay)
		defer cancel()
		return sessionResultMsg{op: "restart", err: ctl.Restart(ctx, d.Latest)}
	}
}

func (m Model) refreshCmd() tea.Cmd {
	src, parent := m.deps.Records, m.ctx
	if src == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(parent, 5*time.Second)
		defer cancel()
		return recordsMsg{recs: src.Recent(ctx), at: time.Now()}
	}
}

func (m Model) refreshTick() tea.Cmd {
	gen := m.refreshGen
	return tea.Tick(m.deps.RefreshInterval, func(time.Time) tea.Msg { return refreshTickMsg{gen: gen} })
}

func (m Model) diskCmd() tea.Cmd {
	dir, measure := m.draft.Settings().OutputDir, m.deps.DiskSpace
	return func() tea.Msg {
		space, err := measure(dir)
		return diskMsg{space: space, err: err}
	}
}

func (m *Model) recordResult(msg sessionResultMsg) {
	if msg.err == nil {
		m.debug.Addf(debug.KindCtl, "%s ok", msg.op)
		return
	}
	if errors.Is(msg.err, session.ErrRestartSuperseded) {
		m.debug.Addf(debug.KindCtl, "restart superseded")
		return
	}
	m.debug.Addf(debug.KindErr, "%s failed: %s", msg.op, client.Reason(msg.err))
	m.log.Warn().Err(msg.err).Str(xlog.FieldOperation, msg.op).Msg("session call failed")
}

func (m *Model) applyDisk(msg diskMsg) {
	if msg.err != nil {
		m.live.Disk, m.live.DiskErr = "", "disk usage unavailable"
		m.log.Debug().Err(msg.err).Msg("disk usage")
		return
	}
	m.live.Disk, m.live.DiskErr = msg.space.String(), ""
	if msg.space.Low(lowDiskBytes) {
		m.live.DiskErr = "low disk: " + msg.space.String()
	}
}

// --- view ---

func (m Model) tableHeight() int {
	h := m.height - 12
	if m.live.ShowConfig {
		h -= 12 + m.deps.Registry.Len()
	}
	return max(h, 3)
}

// View renders the full console.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}

	sb := m.statusBar
	sb.Connected = m.connected
	sb.Step = int(m.Step())
	sb.StepTitle = m.Step().Title()
	sb.Intent = m.deps.Controller.Intent().String()
	sb.Events = m.deps.Registry.Len()

	sections := []string{sb.View()}
	if t := toast.View(m.deps.Queue, m.width-2); t != "" {
		sections = append(sections, t)
	}

	switch m.overlay {
	case OverlayDebug:
		sections = append(sections, m.debug.View(m.width, m.height-4))
	case OverlayDetail:
		sections = append(sections, m.detail.View())
	case OverlayEvents:
		sections = append(sections,
			theme.StyleHeader.Render("Events of interest")+theme.StyleDimmed.Render("  (restart to apply)"),
			m.editor.View(m.width),
			theme.StyleDimmed.Render(m.editorHelp()+"  esc:close"))
	default:
		sections = append(sections, m.stepView())
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) stepView() string {
	if m.contextForm != nil {
		return m.contextForm.View()
	}
	switch m.Step() {
	case wizard.StepWelcome:
		return lipgloss.JoinVertical(lipgloss.Left,
			"",
			theme.StyleHeader.Render("Welcome to Hawkeye"),
			"",
			"Hawkeye watches a camera stream with a vision-language model and",
			"records the events you describe. The next steps pick the model,",
			"the stream and the events of interest, then start detection.",
			"",
			theme.StyleDimmed.Render("enter:begin  d:activity log  q:quit"),
		)
	case wizard.StepModel:
		return m.modelForm.View()
	case wizard.StepStream:
		return m.streamForm.View()
	case wizard.StepEvents:
		parts := []string{theme.StyleHeader.Render("Events of interest"), "", m.editor.View(m.width)}
		if !m.editor.typing() {
			if c := m.draft.Settings().Context; c != "" {
				parts = append(parts, theme.StyleDimmed.Render("Context: ")+c)
			}
			if m.stepErr != "" {
				parts = append(parts, theme.StyleError.Render("✗ "+m.stepErr))
			}
			parts = append(parts, "", theme.StyleDimmed.Render(m.editorHelp()+"  c:context  enter:start detection  esc:back"))
		}
		return lipgloss.JoinVertical(lipgloss.Left, parts...)
	case wizard.StepLive:
		lv := m.live
		lv.Intent = m.deps.Controller.Intent()
		lv.Settings = m.draft.Settings()
		lv.Events = m.draft.Latest().Events
		return lipgloss.JoinVertical(lipgloss.Left, lv.View(m.width), "", m.table.View())
	}
	return ""
}

func (m Model) editorHelp() string {
	if m.editor.typing() {
		return ""
	}
	return strings.Join([]string{"j/k:select", "a:add", "e:edit", "x:delete"}, "  ")
}
