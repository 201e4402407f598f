package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/VladimirStojanovski/MealStack/internal/download"
	"github.com/VladimirStojanovski/MealStack/internal/shared"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	ConfirmView ViewState = iota
	ProgressView
	ResultView
)

// Saver persists a finished archive and returns the path it was written to.
type Saver func(archive []byte) (string, error)

// Model represents the TUI application state.
type Model struct {
	ctx          context.Context
	view         ViewState
	coordinator  *download.Coordinator
	urls         []string
	save         Saver
	width        int
	height       int
	progressChan chan download.Update
	progress     download.Progress
	status       download.Status
	job          *download.Job
	savedPath    string
	err          error
	help         help.Model
	keys         keyMap
}

// keyMap defines the key bindings for the TUI.
type keyMap struct {
	yes    key.Binding
	no     key.Binding
	cancel key.Binding
	quit   key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		yes: key.NewBinding(
			key.WithKeys("y", "enter"),
			key.WithHelp("y", "start"),
		),
		no: key.NewBinding(
			key.WithKeys("n", "esc"),
			key.WithHelp("n", "abort"),
		),
		cancel: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "cancel"),
		),
		quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.yes, k.no},
		{k.cancel, k.quit},
	}
}

type progressUpdateMsg download.Update

type downloadCompleteMsg struct {
	job *download.Job
	err error
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, coordinator *download.Coordinator, urls []string, save Saver) *Model {
	return &Model{
		ctx:         ctx,
		view:        ConfirmView,
		coordinator: coordinator,
		urls:        urls,
		save:        save,
		help:        help.New(),
		keys:        newKeyMap(),
	}
}

// Init is a no-op; the download starts once the batch is confirmed.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case ConfirmView:
			return m.handleConfirmKeys(msg)
		case ProgressView:
			return m.handleProgressKeys(msg)
		case ResultView:
			return m.handleResultKeys(msg)
		}

	case progressUpdateMsg:
		m.progress = msg.Progress
		m.status = msg.Status
		return m, m.waitForProgress()

	case downloadCompleteMsg:
		m.job = msg.job
		m.err = msg.err
		if m.err == nil && m.job != nil && m.job.Status == download.StatusCompleted && m.save != nil {
			m.savedPath, m.err = m.save(m.job.Archive)
		}
		m.view = ResultView
		return m, nil
	}

	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case ConfirmView:
		return m.renderConfirm()
	case ProgressView:
		return m.renderProgress()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "n", "esc":
		return m, tea.Quit
	case "y", "enter":
		m.view = ProgressView
		return m, m.startDownload()
	}
	return m, nil
}

func (m *Model) handleProgressKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "c", "q", "ctrl+c":
		m.coordinator.Cancel()
		return m, nil
	}
	return m, nil
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "enter", "esc":
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) startDownload() tea.Cmd {
	m.progressChan = make(chan download.Update, 50)

	go func() {
		_, err := m.coordinator.Submit(m.ctx, m.urls, m.progressChan)
		if err != nil {
			m.err = err
			close(m.progressChan)
			return
		}
		job, werr := m.coordinator.Wait(m.ctx)
		m.job = job
		if werr != nil {
			m.coordinator.Cancel()
			m.err = werr
		} else if job != nil && job.Err != nil {
			m.err = job.Err
		}
		close(m.progressChan)
	}()

	return m.waitForProgress()
}

func (m *Model) waitForProgress() tea.Cmd {
	return func() tea.Msg {
		if m.progressChan == nil {
			return downloadCompleteMsg{job: m.job, err: m.err}
		}

		update, ok := <-m.progressChan
		if !ok {
			return downloadCompleteMsg{job: m.job, err: m.err}
		}
		return progressUpdateMsg(update)
	}
}

func (m *Model) renderConfirm() string {
	title := styles.title.Render(fmt.Sprintf("Download %d video(s)?", len(m.urls)))

	var list strings.Builder
	for i, url := range m.urls {
		list.WriteString(fmt.Sprintf("  %d. %s\n", i+1, url))
	}

	helpKeys := []key.Binding{m.keys.yes, m.keys.no, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s\n%s", title, list.String(), helpView)
}

func (m *Model) renderProgress() string {
	title := styles.title.Render("Downloading Videos")

	var state string
	switch {
	case m.status == download.StatusCancelled:
		state = styles.warning.Render("Cancelling...")
	case m.progress.Total > 0:
		state = fmt.Sprintf("Downloading (%d/%d)", m.progress.Current, m.progress.Total)
	default:
		state = "Submitting batch..."
	}

	helpKeys := []key.Binding{m.keys.cancel, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n\n%s\n%s\n\n%s", title, state, m.progress.Message, helpView)
}

func (m *Model) renderResult() string {
	helpKeys := []key.Binding{m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	if m.job != nil && m.job.Status == download.StatusCancelled {
		return fmt.Sprintf("%s\n\n%s", styles.warning.Render("Download cancelled"), helpView)
	}

	if m.err != nil {
		msg := styles.error.Render(fmt.Sprintf("Download failed: %s", shared.UserMessage(m.err)))
		return fmt.Sprintf("%s\n\n%s", msg, helpView)
	}

	title := styles.success.Render("✓ Download Complete!")
	info := fmt.Sprintf("\nVideos: %d\nSaved to: %s", len(m.urls), m.savedPath)
	return fmt.Sprintf("%s%s\n\n%s", title, info, helpView)
}
