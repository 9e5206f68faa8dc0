package prompt

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/cli/go-gh/v2/pkg/text"
)

var (
	spinnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("99"))
	messageStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

type spinnerModel struct {
	spinner     spinner.Model
	message     string
	stopped     bool
	interrupted bool
}

type setMessageMsg string

type stopMsg struct{}

func newSpinnerModel(message string) spinnerModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle
	return spinnerModel{
		spinner: s,
		message: message,
	}
}

func (m spinnerModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m spinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.interrupted = true
			m.stopped = true
			return m, tea.Quit
		}
		return m, nil

	case setMessageMsg:
		m.message = string(msg)
		return m, nil

	case stopMsg:
		m.stopped = true
		return m, tea.Quit

	default:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
}

func (m spinnerModel) View() string {
	if m.stopped {
		return ""
	}
	return fmt.Sprintf("%s %s\n", m.spinner.View(), messageStyle.Render(m.message))
}

// Spinner shows progress while the session waits on the API.
// Without a terminal it prints one plain line per message instead.
type Spinner struct {
	program *tea.Program
	done    chan struct{}
	out     io.Writer
	once    sync.Once
}

// StartSpinner displays message next to a spinner until Stop is called.
// onInterrupt runs if the user presses ctrl+c while the spinner is shown.
func StartSpinner(message string, onInterrupt func()) *Spinner {
	s := &Spinner{done: make(chan struct{}), out: os.Stderr}

	if !IsTTY() {
		fmt.Fprintln(s.out, messageStyle.Render(message+"..."))
		close(s.done)
		return s
	}

	s.program = tea.NewProgram(newSpinnerModel(message), tea.WithOutput(os.Stderr))

	go func() {
		defer close(s.done)
		final, err := s.program.Run()
		if err != nil {
			return
		}
		if m, ok := final.(spinnerModel); ok && m.interrupted && onInterrupt != nil {
			onInterrupt()
		}
	}()

	return s
}

// SetMessage replaces the text shown next to the spinner
func (s *Spinner) SetMessage(message string) {
	if s.program == nil {
		fmt.Fprintln(s.out, messageStyle.Render(message))
		return
	}
	s.program.Send(setMessageMsg(message))
}

// Update reports the number of runs still pending
func (s *Spinner) Update(pending int) {
	s.SetMessage(PendingMessage(pending))
}

// Stop removes the spinner and waits for the terminal to be released
func (s *Spinner) Stop() {
	s.once.Do(func() {
		if s.program != nil {
			s.program.Send(stopMsg{})
		}
		<-s.done
	})
}

// PendingMessage is the progress text shown while runs are pending
func PendingMessage(pending int) string {
	return fmt.Sprintf("Waiting for %s to finish...", text.Pluralize(pending, "pending run"))
}
