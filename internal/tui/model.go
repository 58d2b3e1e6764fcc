// Package tui is the terminal front end of the file browser. It renders
// the controller state with lipgloss and turns keys, mouse clicks and
// pasted paths into controller events.
package tui

import (
	"context"
	"strings"
	"time"

	"quicktransfer/internal/api"
	"quicktransfer/internal/browser"
	"quicktransfer/internal/config"
	"quicktransfer/internal/errors"
	"quicktransfer/internal/log"
	"quicktransfer/internal/tui/components"
	"quicktransfer/internal/tui/messages"
	"quicktransfer/internal/tui/styles"
	"quicktransfer/internal/tui/views"
	"quicktransfer/pkg/types"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	defaultWidth        = 80
	defaultHeight       = 24
	doubleClickInterval = 400 * time.Millisecond
)

type click struct {
	index int
	at    time.Time
}

// Options configures a Model.
type Options struct {
	BaseURL string
	Theme   string
	Player  MediaPlayer    // nil leaves media overlays without a player
	Opener  browser.Opener // opens the shown image outside the terminal
}

type Model struct {
	ctrl   *browser.Controller
	bridge *Bridge
	opts   Options

	keys   types.KeyMap
	help   help.Model
	theme  styles.Theme
	status *components.StatusBar
	picker *components.Picker

	// UI state
	cursor   int
	width    int
	height   int
	showHelp bool
	picking  bool

	alerts  []string
	confirm *messages.ConfirmMsg
	pending int
	players map[int]context.CancelFunc

	lastClick click
	now       func() time.Time

	ctx    context.Context
	cancel context.CancelFunc
}

// New creates a model driving ctrl. bridge must be the Notifier,
// Confirmer and Picker the controller was built with.
func New(ctrl *browser.Controller, bridge *Bridge, opts Options) *Model {
	ctx, cancel := context.WithCancel(context.Background())
	theme := styles.ThemeFor(opts.Theme)

	return &Model{
		ctrl:      ctrl,
		bridge:    bridge,
		opts:      opts,
		keys:      types.DefaultKeyMap(),
		help:      help.New(),
		theme:     theme,
		status:    components.NewStatusBar(theme),
		picker:    components.NewPicker(),
		width:     defaultWidth,
		height:    defaultHeight,
		players:   make(map[int]context.CancelFunc),
		lastClick: click{index: -1},
		now:       time.Now,
		ctx:       ctx,
		cancel:    cancel,
	}
}

// NewFromConfig wires a controller to client with downloads going to the
// configured folder and media handed to the configured player.
func NewFromConfig(cfg *config.Config, client *api.Client) *Model {
	bridge := NewBridge()
	cache := CacheDir()
	opener := NewSystemOpener(client, cache)

	ctrl := browser.New(browser.Deps{
		API:        client,
		Notifier:   bridge,
		Confirmer:  bridge,
		Picker:     bridge,
		Downloader: NewDownloads(client, cfg.Client.DownloadDir, bridge.Status),
		Opener:     opener,
	})

	return New(ctrl, bridge, Options{
		BaseURL: client.BaseURL(),
		Theme:   cfg.Theme.Name,
		Player:  NewExternalPlayer(client, cfg.Client.Player, cache),
		Opener:  opener,
	})
}

// SetSender connects the model to a running program so the controller
// can ask for confirmation, e.g. m.SetSender(p.Send).
func (m *Model) SetSender(send func(tea.Msg)) {
	m.bridge.SetSender(send)
}

// Init implements tea.Model. It loads the root folder.
func (m *Model) Init() tea.Cmd {
	return m.dispatch(browser.Event{Kind: browser.EventNavigate, Path: ""})
}

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.picker.SetWidth(msg.Width - 12)
		m.dispatch(browser.Event{Kind: browser.EventResize})
	case tea.KeyMsg:
		cmds = append(cmds, m.handleKey(msg))
	case tea.MouseMsg:
		cmds = append(cmds, m.handleMouse(msg))
	case messages.OpDoneMsg:
		m.pending--
		switch {
		case msg.Err == nil:
		case errors.IsPrecondition(msg.Err):
			log.Debugf("%v refused: %v", msg.Kind, msg.Err)
		default:
			log.LogWithError(msg.Err).Warnf("%v failed", msg.Kind)
		}
	case messages.OpenedMsg:
		m.pending--
	case messages.ConfirmMsg:
		c := msg
		m.confirm = &c
	case messages.PlayerExitedMsg:
		if msg.Err != nil {
			m.alerts = append(m.alerts, "Playback failed: "+msg.Err.Error())
		}
		if msg.Finished {
			m.ctrl.CloseOverlay(msg.ID)
		}
	default:
		cmds = append(cmds, m.status.Update(msg))
	}

	cmds = append(cmds, m.sync()...)
	return m, tea.Batch(cmds...)
}

// sync pulls queued alerts and status text from the bridge, keeps the
// cursor on a tile and starts or stops players for media overlays.
func (m *Model) sync() []tea.Cmd {
	alerts, status, resetPicker := m.bridge.drain()
	m.alerts = append(m.alerts, alerts...)
	if status != "" {
		m.status.SetText(status)
	}
	if resetPicker {
		m.picker.Reset()
		m.picking = false
	}

	st := m.ctrl.Snapshot()
	if m.cursor >= len(st.Tiles) {
		m.cursor = len(st.Tiles) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}

	cmds := []tea.Cmd{m.status.SetLoading(m.pending > 0)}
	return append(cmds, m.syncPlayers(st.Overlays)...)
}

func (m *Model) syncPlayers(overlays []browser.Overlay) []tea.Cmd {
	if m.opts.Player == nil {
		return nil
	}

	var cmds []tea.Cmd
	open := make(map[int]bool, len(overlays))
	for _, ov := range overlays {
		open[ov.ID] = true
		if _, ok := m.players[ov.ID]; ok {
			continue
		}
		ctx, cancel := context.WithCancel(m.ctx)
		m.players[ov.ID] = cancel
		player, ov := m.opts.Player, ov
		cmds = append(cmds, func() tea.Msg {
			finished, err := player.Play(ctx, ov)
			return messages.PlayerExitedMsg{ID: ov.ID, Finished: finished, Err: err}
		})
	}
	for id, cancel := range m.players {
		if !open[id] {
			cancel()
			delete(m.players, id)
		}
	}
	return cmds
}

// dispatch sends ev to the controller. Events that wait on the server or
// the user run as a command; the rest are applied immediately.
func (m *Model) dispatch(ev browser.Event) tea.Cmd {
	return m.dispatchThen(ev, nil)
}

func (m *Model) dispatchThen(ev browser.Event, after func()) tea.Cmd {
	if !ev.Kind.Async() {
		if err := m.ctrl.Dispatch(m.ctx, ev); err != nil {
			log.Debugf("event %v: %v", ev.Kind, err)
		}
		return nil
	}

	m.pending++
	ctx, ctrl := m.ctx, m.ctrl
	return func() tea.Msg {
		err := ctrl.Dispatch(ctx, ev)
		if after != nil {
			after()
		}
		return messages.OpDoneMsg{Kind: ev.Kind, Err: err}
	}
}

// upload opens the local files and sends them in one request.
func (m *Model) upload(paths []string) tea.Cmd {
	if len(paths) == 0 {
		m.picker.Reset()
		m.picking = false
		return nil
	}

	files, closeFiles, err := api.OpenLocalFiles(paths)
	if err != nil {
		m.alerts = append(m.alerts, "Upload failed: "+err.Error())
		m.picker.Reset()
		m.picking = false
		return nil
	}
	return m.dispatchThen(browser.Event{Kind: browser.EventUpload, Files: files}, closeFiles)
}

// trigger runs a toolbar or menu action.
func (m *Model) trigger(kind browser.EventKind) tea.Cmd {
	if kind == browser.EventUpload {
		m.picking = true
		return m.picker.Focus()
	}
	return m.dispatch(browser.Event{Kind: kind})
}

// openImageExternally hands the shown image to the system viewer.
func (m *Model) openImageExternally(src string) tea.Cmd {
	if m.opts.Opener == nil || src == "" {
		return nil
	}
	m.pending++
	opener, bridge := m.opts.Opener, m.bridge
	return func() tea.Msg {
		err := opener.Open(src)
		if err != nil {
			bridge.Alert("Cannot open image: " + err.Error())
		}
		return messages.OpenedMsg{Err: err}
	}
}

// shutdown stops players and unblocks pending confirmations.
func (m *Model) shutdown() {
	if m.confirm != nil {
		m.confirm.Reply <- false
		m.confirm = nil
	}
	for id, cancel := range m.players {
		cancel()
		delete(m.players, id)
	}
	m.cancel()
	m.bridge.Close()
}

// View implements tea.Model
func (m *Model) View() string {
	if m.confirm != nil {
		return components.RenderModal(m.theme, "Confirm", m.confirm.Text, "y yes • n no", m.width, m.height)
	}
	if len(m.alerts) > 0 {
		return components.RenderModal(m.theme, "QuickTransfer", m.alerts[0], "enter ok", m.width, m.height)
	}

	var sb strings.Builder
	sb.WriteString(views.RenderMainView(m, m.theme))
	sb.WriteString("\n")
	if m.picking {
		sb.WriteString(m.picker.View(m.theme))
		sb.WriteString("\n")
	}
	sb.WriteString(m.status.View(m.Mode().String(), m.ctrl.Snapshot()))
	sb.WriteString("\n")
	m.help.ShowAll = m.showHelp
	sb.WriteString(m.help.View(m.keys))
	return sb.String()
}

// Getters used by the views

func (m *Model) State() browser.State {
	return m.ctrl.Snapshot()
}

func (m *Model) Cursor() int {
	return m.cursor
}

// Mode reports the input mode; dialogs take precedence over the picker.
func (m *Model) Mode() types.Mode {
	switch {
	case m.confirm != nil:
		return types.Confirm
	case len(m.alerts) > 0:
		return types.Alert
	case m.picking:
		return types.Picker
	}
	return types.Normal
}

func (m *Model) ShowHelp() bool {
	return m.showHelp
}

func (m *Model) Size() (int, int) {
	return m.width, m.height
}

func (m *Model) BaseURL() string {
	return m.opts.BaseURL
}

// Alerts returns the messages waiting to be dismissed.
func (m *Model) Alerts() []string {
	return append([]string(nil), m.alerts...)
}

// StatusText returns the status bar message.
func (m *Model) StatusText() string {
	return m.status.Text()
}

// Controller returns the controller the model drives.
func (m *Model) Controller() *browser.Controller {
	return m.ctrl
}
