package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/hottest100/internal/models"
	"github.com/desertthunder/hottest100/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	SyncView ViewState = iota
	ResultView
)

// RunFunc performs the sync, reporting through progress. It must return once ctx is cancelled.
type RunFunc func(ctx context.Context, progress chan<- tasks.ProgressUpdate) (*tasks.RunResult, error)

// Model represents the TUI application state.
type Model struct {
	ctx    context.Context
	cancel context.CancelFunc
	run    RunFunc
	view   ViewState
	width  int
	height int

	spinner spinner.Model
	bar     progress.Model
	help    help.Model
	keys    keyMap

	progressChan chan tasks.ProgressUpdate
	done         chan syncOutcome
	finished     chan struct{} // closed once run has returned and final is set
	final        *syncOutcome
	current      tasks.ProgressUpdate
	playlist     int // 1-based index of the playlist being synchronized
	playlists    int
	percent      float64
	completed    []*tasks.PlaylistResult
	missing      []models.Song
	cancelling   bool

	playlistList list.Model
	missList     list.Model
	focusMisses  bool

	result *tasks.RunResult
	err    error
}

// NewModel creates a TUI model that runs run under a cancellable child of ctx.
func NewModel(ctx context.Context, run RunFunc) *Model {
	ctx, cancel := context.WithCancel(ctx)

	playlistList := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	playlistList.Title = "Playlists"
	missList := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	missList.Title = "Songs not found"

	return &Model{
		ctx:          ctx,
		cancel:       cancel,
		run:          run,
		view:         SyncView,
		spinner:      spinner.New(spinner.WithSpinner(spinner.Dot)),
		bar:          progress.New(progress.WithDefaultGradient()),
		help:         help.New(),
		keys:         newKeyMap(),
		playlistList: playlistList,
		missList:     missList,
	}
}

// Result returns the outcome of the sync once the program has exited.
func (m *Model) Result() (*tasks.RunResult, error) {
	return m.result, m.err
}

// Stop cancels the sync and blocks until the run has returned. When the program quit before the
// outcome reached Update, the outcome is applied here so [Model.Result] still reports it.
func (m *Model) Stop() {
	m.cancel()
	if m.finished == nil {
		return
	}

	<-m.finished
	if m.view != ResultView {
		m.finish(m.final.result, m.final.err)
	}
}

// Init starts the sync and the spinner.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.startSync())
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.bar.Width = max(msg.Width-4, 10)
		m.playlistList.SetSize(msg.Width-4, msg.Height-10)
		m.missList.SetSize(msg.Width-4, msg.Height-10)
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case SyncView:
			return m.handleSyncKeys(msg)
		case ResultView:
			return m.handleResultKeys(msg)
		}

	case spinner.TickMsg:
		if m.view != SyncView {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case Msg:
		switch msg.kind {
		case MsgProgressUpdate:
			m.apply(msg.data.(tasks.ProgressUpdate))
			return m, m.waitForProgress()
		case MsgSyncComplete:
			outcome := msg.data.(syncOutcome)
			m.finish(outcome.result, outcome.err)
			return m, nil
		}
	}

	return m, nil
}

// apply folds a progress update into the model.
func (m *Model) apply(update tasks.ProgressUpdate) {
	m.current = update

	switch update.Phase {
	case tasks.Grouped:
		if groups, ok := update.Data.([]models.PlaylistGroup); ok {
			m.playlists = len(groups)
		}
	case tasks.CreatePlaylist:
		m.playlist = update.Step
		m.playlists = update.Total
		m.setPercent(0)
	case tasks.SearchTracks:
		if update.Total > 0 {
			m.setPercent(float64(update.Step-1) / float64(update.Total))
		}
	case tasks.TrackMissing:
		if song, ok := update.Data.(models.Song); ok {
			m.missing = append(m.missing, song)
		}
	case tasks.PlaylistComplete:
		m.setPercent(1)
		if result, ok := update.Data.(*tasks.PlaylistResult); ok {
			m.completed = append(m.completed, result)
		}
	}
}

// setPercent sets overall progress from the fraction done within the current playlist.
func (m *Model) setPercent(inner float64) {
	if m.playlists == 0 || m.playlist == 0 {
		return
	}
	m.percent = (float64(m.playlist-1) + inner) / float64(m.playlists)
}

// finish switches to the result view. The run result is authoritative over streamed updates,
// which can be dropped when the channel is full.
func (m *Model) finish(result *tasks.RunResult, err error) {
	m.result = result
	m.err = err
	m.view = ResultView
	m.cancel()

	if result != nil {
		m.completed = result.Playlists
		m.missing = result.Missing()
	}
	m.playlistList.SetItems(playlistItems(m.completed))
	m.missList.SetItems(missItems(m.missing))
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case SyncView:
		return m.renderSync()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

func (m *Model) handleSyncKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.abort):
		m.cancel()
		return m, tea.Quit
	case key.Matches(msg, m.keys.quit):
		if !m.cancelling {
			m.cancelling = true
			m.cancel()
		}
	}
	return m, nil
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit), key.Matches(msg, m.keys.abort):
		return m, tea.Quit
	case key.Matches(msg, m.keys.tab):
		m.focusMisses = !m.focusMisses
		return m, nil
	case key.Matches(msg, m.keys.help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	var cmd tea.Cmd
	if m.focusMisses {
		m.missList, cmd = m.missList.Update(msg)
	} else {
		m.playlistList, cmd = m.playlistList.Update(msg)
	}
	return m, cmd
}

func (m *Model) startSync() tea.Cmd {
	m.progressChan = make(chan tasks.ProgressUpdate, 50)
	m.done = make(chan syncOutcome, 1)
	m.finished = make(chan struct{})
	m.final = &syncOutcome{}

	progressChan, done, finished, final, run, ctx := m.progressChan, m.done, m.finished, m.final, m.run, m.ctx
	go func() {
		result, err := run(ctx, progressChan)
		*final = syncOutcome{result: result, err: err}
		close(finished)
		done <- *final
		close(progressChan)
	}()

	return m.waitForProgress()
}

func (m *Model) waitForProgress() tea.Cmd {
	progressChan, done := m.progressChan, m.done
	return func() tea.Msg {
		if progressChan == nil {
			return syncCompleteMsg(nil, nil)
		}

		update, ok := <-progressChan
		if !ok {
			outcome := <-done
			return syncCompleteMsg(outcome.result, outcome.err)
		}
		return progressUpdateMsg(update)
	}
}

func (m *Model) renderSync() string {
	var b strings.Builder

	b.WriteString(styles.title.Render("Syncing Triple J Hottest 100 playlists"))
	b.WriteString("\n")

	status := "Grouping songs..."
	if m.playlists > 0 && m.playlist > 0 {
		status = fmt.Sprintf("Playlist %d of %d", m.playlist, m.playlists)
	}
	if m.cancelling {
		status = styles.warn.Render("Cancelling after the current request...")
	}
	fmt.Fprintf(&b, "%s %s\n\n", m.spinner.View(), status)
	fmt.Fprintf(&b, "%s\n\n", m.bar.ViewAs(m.percent))

	if m.current.Message != "" {
		fmt.Fprintf(&b, "%s\n\n", m.current.Message)
	}

	for _, r := range m.completed {
		fmt.Fprintf(&b, "%s %s (%d/%d tracks)\n", mark(len(r.Missing())), r.Group.Name, len(r.URIs), len(r.Group.Songs))
	}
	if len(m.missing) > 0 {
		fmt.Fprintf(&b, "%s\n", styles.warn.Render(fmt.Sprintf("%d songs not found so far", len(m.missing))))
	}

	b.WriteString("\n")
	b.WriteString(styles.help.Render(m.help.ShortHelpView([]key.Binding{m.keys.quit, m.keys.abort})))
	return b.String()
}

func (m *Model) renderResult() string {
	var b strings.Builder

	if m.err != nil {
		b.WriteString(styles.err.Render(fmt.Sprintf("Sync failed: %v", m.err)))
	} else {
		b.WriteString(styles.ok.Render("✓ Sync Complete!"))
	}
	b.WriteString("\n\n")

	tracks := 0
	for _, r := range m.completed {
		tracks += len(r.URIs)
	}
	fmt.Fprintf(&b, "%s\n%s\n%s\n\n", stat("Playlists created", len(m.completed)), stat("Tracks added", tracks), stat("Songs not found", len(m.missing)))

	if m.focusMisses {
		b.WriteString(m.missList.View())
	} else {
		b.WriteString(m.playlistList.View())
	}

	b.WriteString("\n\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}
