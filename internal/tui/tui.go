// Package tui provides a Bubble Tea terminal user interface for keyshift.
package tui

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/handiism/keyshift/internal/batch"
	"github.com/handiism/keyshift/internal/config"
	"github.com/handiism/keyshift/internal/music"
	"github.com/handiism/keyshift/internal/pipeline"
)

// Styles for the TUI
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B")).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ECDC4"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#95E1A3"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFE66D"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A8DADC"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4ECDC4")).
			Padding(1, 2)

	fileStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F8B500"))
)

// State represents the current UI state.
type State int

const (
	StateInput State = iota
	StateConverting
	StateComplete
	StateError
)

// LogEntry represents a log message in the UI.
type LogEntry struct {
	Message string
	Level   pipeline.ProgressLevel
}

// Model is the Bubble Tea model for the TUI.
type Model struct {
	state     State
	pathInput textinput.Model
	keyInput  textinput.Model
	focusKey  bool
	spinner   spinner.Model
	progress  progress.Model
	settings  *config.Settings
	logs      []LogEntry
	err       error

	ctx    context.Context
	cancel context.CancelFunc

	// Batch being processed
	inputs    []string
	results   []batch.FileResult
	current   int
	converted int
	skipped   int
	failed    int

	// Options
	overwrite bool
	verbose   bool

	width  int
	height int
}

// NewModel creates a new TUI model.
func NewModel(settings *config.Settings) Model {
	pi := textinput.New()
	pi.Placeholder = "/music/song.mp3 or /music/folder"
	pi.Focus()
	pi.CharLimit = 500
	pi.Width = 60

	ki := textinput.New()
	ki.Placeholder = "Bb"
	ki.CharLimit = 3
	ki.Width = 10

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 50

	ctx, cancel := context.WithCancel(context.Background())

	return Model{
		state:     StateInput,
		pathInput: pi,
		keyInput:  ki,
		spinner:   sp,
		progress:  prog,
		settings:  settings,
		logs:      make([]LogEntry, 0),
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

// Message types
type (
	// FileDoneMsg is sent after each file finishes.
	FileDoneMsg struct {
		Index  int
		Result batch.FileResult
		Events []LogEntry
	}

	// StartFailedMsg is sent when the batch cannot start at all.
	StartFailedMsg struct{ Err error }
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = msg.Width - 20
		if m.progress.Width > 80 {
			m.progress.Width = 80
		}
		if m.progress.Width < 20 {
			m.progress.Width = 20
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.cancel()
			return m, tea.Quit

		case "esc":
			if m.state == StateInput {
				return m, tea.Quit
			}
			if m.state == StateConverting {
				m.cancel()
				m.state = StateError
				m.err = fmt.Errorf("cancelled by user")
			}

		case "tab":
			if m.state == StateInput {
				m.focusKey = !m.focusKey
				if m.focusKey {
					m.pathInput.Blur()
					m.keyInput.Focus()
				} else {
					m.keyInput.Blur()
					m.pathInput.Focus()
				}
			}

		case "enter":
			if m.state == StateInput {
				return m.startBatch()
			}

		case "ctrl+o":
			if m.state == StateInput {
				m.overwrite = !m.overwrite
			}

		case "ctrl+v":
			if m.state == StateInput {
				m.verbose = !m.verbose
			}

		case "q":
			if m.state == StateComplete || m.state == StateError {
				return m, tea.Quit
			}

		case "r":
			if m.state == StateComplete || m.state == StateError {
				m.state = StateInput
				m.logs = nil
				m.inputs = nil
				m.results = nil
				m.current = 0
				m.converted = 0
				m.skipped = 0
				m.failed = 0
				m.err = nil
				m.ctx, m.cancel = context.WithCancel(context.Background())
				m.pathInput.SetValue("")
				m.focusKey = false
				m.keyInput.Blur()
				m.pathInput.Focus()
			}
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case StartFailedMsg:
		m.state = StateError
		m.err = msg.Err

	case FileDoneMsg:
		if m.state != StateConverting {
			return m, nil
		}
		for _, entry := range msg.Events {
			if entry.Level == pipeline.LevelVerbose && !m.verbose {
				continue
			}
			m.logs = append(m.logs, entry)
		}
		if len(m.logs) > 10 {
			m.logs = m.logs[len(m.logs)-10:]
		}

		m.results = append(m.results, msg.Result)
		switch {
		case msg.Result.Err != nil:
			m.failed++
			m.logs = append(m.logs, LogEntry{
				Message: fmt.Sprintf("%s: %v", msg.Result.Path, msg.Result.Err),
				Level:   pipeline.LevelError,
			})
		case msg.Result.Result.Status == pipeline.StatusSkipped:
			m.skipped++
		default:
			m.converted++
		}

		m.current = msg.Index + 1
		if m.current >= len(m.inputs) || m.ctx.Err() != nil {
			m.state = StateComplete
		} else {
			cmds = append(cmds, m.convertNext(m.current))
		}

		percent := float64(m.current) / float64(len(m.inputs))
		cmds = append(cmds, m.progress.SetPercent(percent))

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		cmds = append(cmds, cmd)
	}

	if m.state == StateInput {
		var cmd tea.Cmd
		if m.focusKey {
			m.keyInput, cmd = m.keyInput.Update(msg)
		} else {
			m.pathInput, cmd = m.pathInput.Update(msg)
		}
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// startBatch validates the form and kicks off the first file.
func (m Model) startBatch() (tea.Model, tea.Cmd) {
	path := strings.TrimSpace(m.pathInput.Value())
	key := strings.TrimSpace(m.keyInput.Value())
	if path == "" || key == "" {
		return m, nil
	}
	if !music.IsValid(key) {
		m.logs = append(m.logs, LogEntry{
			Message: fmt.Sprintf("%q is not a recognized key", key),
			Level:   pipeline.LevelError,
		})
		return m, nil
	}

	inputs, err := batch.CollectInputs(path)
	if err != nil || len(inputs) == 0 {
		m.logs = append(m.logs, LogEntry{
			Message: fmt.Sprintf("No supported audio files at %s", path),
			Level:   pipeline.LevelError,
		})
		return m, nil
	}

	m.inputs = inputs
	m.state = StateConverting
	return m, tea.Batch(m.convertNext(0), m.spinner.Tick)
}

// convertNext runs one file through the pipeline in the background.
func (m Model) convertNext(index int) tea.Cmd {
	input := m.inputs[index]
	targetKey := strings.TrimSpace(m.keyInput.Value())
	overwrite := m.overwrite
	ctx := m.ctx
	settings := m.settings

	return func() tea.Msg {
		var events []LogEntry
		p := pipeline.New(settings, func(ev pipeline.ProgressEvent) {
			events = append(events, LogEntry{Message: ev.Message, Level: ev.Level})
		})

		result, err := p.ConvertKey(ctx, pipeline.Job{
			InputPath: input,
			OutputDir: settingsOutputDir(input),
			TargetKey: targetKey,
			Overwrite: overwrite,
		})

		return FileDoneMsg{
			Index:  index,
			Result: batch.FileResult{Path: input, Result: result, Err: err},
			Events: events,
		}
	}
}

// settingsOutputDir places outputs next to their inputs.
func settingsOutputDir(input string) string {
	return filepath.Dir(input)
}

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("keyshift"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Transpose audio files between musical keys"))
	b.WriteString("\n\n")

	switch m.state {
	case StateInput:
		b.WriteString(m.viewInput())
	case StateConverting:
		b.WriteString(m.viewConverting())
	case StateComplete:
		b.WriteString(m.viewComplete())
	case StateError:
		b.WriteString(m.viewError())
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.getHelpText()))

	return b.String()
}

func (m Model) viewInput() string {
	var b strings.Builder

	b.WriteString(subtitleStyle.Render("Input file or folder:"))
	b.WriteString("\n")
	b.WriteString(m.pathInput.View())
	b.WriteString("\n\n")
	b.WriteString(subtitleStyle.Render("Target key:"))
	b.WriteString("\n")
	b.WriteString(m.keyInput.View())
	b.WriteString("\n\n")

	overwriteCheck := "[ ]"
	if m.overwrite {
		overwriteCheck = "[x]"
	}
	verboseCheck := "[ ]"
	if m.verbose {
		verboseCheck = "[x]"
	}
	b.WriteString(infoStyle.Render("Options:"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  %s Overwrite existing outputs (ctrl+o)\n", overwriteCheck))
	b.WriteString(fmt.Sprintf("  %s Verbose output (ctrl+v)\n", verboseCheck))
	b.WriteString("\n")
	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewConverting() string {
	var b strings.Builder

	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	if m.current < len(m.inputs) {
		b.WriteString(subtitleStyle.Render("Converting "))
		b.WriteString(fileStyle.Render(m.inputs[m.current]))
	}
	b.WriteString("\n\n")

	var percent float64
	if len(m.inputs) > 0 {
		percent = float64(m.current) / float64(len(m.inputs))
	}
	b.WriteString(m.progress.ViewAs(percent))
	b.WriteString("\n")
	b.WriteString(infoStyle.Render(fmt.Sprintf(
		"Files: %d/%d | converted: %d | skipped: %d | failed: %d",
		m.current, len(m.inputs), m.converted, m.skipped, m.failed,
	)))
	b.WriteString("\n\n")
	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewComplete() string {
	box := boxStyle.Render(fmt.Sprintf(
		"Done!\n\n"+
			"Converted: %d\n"+
			"Skipped (key unknown): %d\n"+
			"Failed: %d",
		m.converted, m.skipped, m.failed,
	))
	return box + "\n\n" + m.renderLogs()
}

func (m Model) viewError() string {
	var b strings.Builder

	b.WriteString(errorStyle.Render("Error:"))
	b.WriteString("\n\n")
	if m.err != nil {
		b.WriteString(fmt.Sprintf("  %s", m.err.Error()))
	}

	return b.String()
}

func (m Model) renderLogs() string {
	var b strings.Builder

	for _, log := range m.logs {
		var style lipgloss.Style
		prefix := "*"
		switch log.Level {
		case pipeline.LevelError:
			style = errorStyle
			prefix = "x"
		case pipeline.LevelWarning:
			style = warningStyle
			prefix = "!"
		case pipeline.LevelSuccess:
			style = successStyle
			prefix = "+"
		case pipeline.LevelInfo:
			style = infoStyle
			prefix = ">"
		default:
			style = dimStyle
		}
		b.WriteString(style.Render(prefix + " " + log.Message))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) getHelpText() string {
	switch m.state {
	case StateInput:
		return "enter: start - tab: switch field - esc: quit"
	case StateConverting:
		return "esc: cancel"
	case StateComplete, StateError:
		return "r: new batch - q: quit"
	}
	return ""
}

// Run starts the TUI application.
func Run(settings *config.Settings) error {
	p := tea.NewProgram(NewModel(settings), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
