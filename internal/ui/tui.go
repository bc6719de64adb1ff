// Package ui provides an optional terminal viewer for the task list.
package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"tareas/internal/store"
	"tareas/internal/task"
)

// RunTUI starts the read-only task viewer over the given store.
func RunTUI(ctx context.Context, st *store.Store) error {
	if !IsTTY(os.Stdout) {
		return fmt.Errorf("tui requires a TTY")
	}
	model := newTUIModel(st)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}

type tuiModel struct {
	store        *store.Store
	loadErr      error
	tasks        []task.Task
	stats        task.Stats
	tickInterval time.Duration
	filter       task.Status // Filter by status
	showDeleted  bool        // Include soft-deleted tasks
	showHelp     bool        // Show help screen
}

type tickMsg time.Time

func newTUIModel(st *store.Store) *tuiModel {
	return &tuiModel{
		store:        st,
		tickInterval: time.Second,
	}
}

func (m *tuiModel) Init() tea.Cmd {
	m.refresh()
	return tickCmd(m.tickInterval)
}

func (m *tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "r", "f5":
			m.refresh()
			return m, nil
		case "d":
			m.showDeleted = !m.showDeleted
			return m, nil
		case "h", "?":
			m.showHelp = !m.showHelp
			return m, nil
		case "1":
			m.filter = task.StatusTodo
			return m, nil
		case "2":
			m.filter = task.StatusInProgress
			return m, nil
		case "3":
			m.filter = task.StatusDone
			return m, nil
		case "4":
			m.filter = task.StatusCancelled
			return m, nil
		case "0":
			m.filter = ""
			return m, nil
		}
	case tickMsg:
		m.refresh()
		return m, tickCmd(m.tickInterval)
	}

	return m, nil
}

func (m *tuiModel) View() string {
	var b strings.Builder
	writeTitle(&b)

	if m.showHelp {
		writeHelp(&b)
		writeFooter(&b, m.tickInterval)
		return b.String()
	}

	if m.filter != "" {
		b.WriteString(fmt.Sprintf("Filter: %s (0 to clear)\n\n", m.filter))
	}
	if m.showDeleted {
		b.WriteString("Showing deleted tasks (d to hide)\n\n")
	}

	if m.loadErr != nil {
		b.WriteString("Error loading tasks file:\n")
		b.WriteString("  " + m.loadErr.Error() + "\n\n")
		writeFooter(&b, m.tickInterval)
		return b.String()
	}

	writeOverview(&b, m.stats)
	writeOverdue(&b, m.tasks)
	writeTasks(&b, m.visibleTasks())
	b.WriteString(fmt.Sprintf("Tasks File: %s\n\n", m.store.Path()))
	writeFooter(&b, m.tickInterval)
	return b.String()
}

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *tuiModel) refresh() {
	tasks, err := m.store.ReadAll()
	if err != nil {
		m.loadErr = err
		m.tasks = nil
		return
	}
	m.loadErr = nil
	m.tasks = tasks
	m.stats = task.Collect(tasks)
}

// visibleTasks applies the deleted toggle and status filter, due-soonest first.
func (m *tuiModel) visibleTasks() []task.Task {
	tasks := m.tasks
	if !m.showDeleted {
		tasks = task.Filter(tasks, task.NotDeleted)
	}
	if m.filter != "" {
		tasks = task.Filter(tasks, func(t task.Task) bool {
			return t.Status == m.filter
		})
	}
	return task.SortByDueDate(tasks)
}

func writeTitle(b *strings.Builder) {
	title := "Tareas"
	b.WriteString(title + "\n")
	b.WriteString(strings.Repeat("=", len(title)) + "\n\n")
}

func writeOverview(b *strings.Builder, stats task.Stats) {
	b.WriteString("Task Overview\n\n")
	b.WriteString(fmt.Sprintf("  Total: %d  Todo: %d  In Progress: %d  Done: %d  Cancelled: %d\n\n",
		stats.Total,
		stats.ByStatus[task.StatusTodo],
		stats.ByStatus[task.StatusInProgress],
		stats.ByStatus[task.StatusDone],
		stats.ByStatus[task.StatusCancelled],
	))
}

func writeOverdue(b *strings.Builder, tasks []task.Task) {
	now := time.Now()
	overdue := task.Filter(tasks, func(t task.Task) bool {
		return task.Overdue(t, now) && !t.Deleted
	})
	if len(overdue) == 0 {
		return
	}
	b.WriteString("Overdue\n\n")
	for _, t := range task.SortByDueDate(overdue) {
		b.WriteString(formatTask(t))
		b.WriteString("\n")
	}
	b.WriteString("\n")
}

func writeTasks(b *strings.Builder, tasks []task.Task) {
	b.WriteString("Tasks\n\n")
	if len(tasks) == 0 {
		b.WriteString("  No tasks to show.\n\n")
		return
	}
	for _, t := range tasks {
		b.WriteString(formatTask(t))
		b.WriteString("\n")
	}
	b.WriteString("\n")
}

func writeHelp(b *strings.Builder) {
	b.WriteString("Keyboard Shortcuts\n\n")
	b.WriteString("  q, ctrl+c    Quit\n")
	b.WriteString("  r, F5        Refresh data\n")
	b.WriteString("  d            Toggle deleted tasks\n")
	b.WriteString("  h, ?         Toggle this help screen\n")
	b.WriteString("  1            Filter by todo\n")
	b.WriteString("  2            Filter by in_progress\n")
	b.WriteString("  3            Filter by done\n")
	b.WriteString("  4            Filter by cancelled\n")
	b.WriteString("  0            Clear filter\n\n")
}

func writeFooter(b *strings.Builder, interval time.Duration) {
	b.WriteString(fmt.Sprintf("Press h for help | q to quit | Refreshing every %s\n", interval))
}

func formatTask(t task.Task) string {
	statusIcon := " "
	switch t.Status {
	case task.StatusInProgress:
		statusIcon = ">"
	case task.StatusDone:
		statusIcon = "x"
	case task.StatusCancelled:
		statusIcon = "-"
	}

	line := fmt.Sprintf("  %s [%s] (P%d) %s", statusIcon, shortID(t.ID), t.Priority, t.Title)
	if t.DueDate != nil {
		line += " due " + t.DueDate.Format("2006-01-02")
	}
	if t.Deleted {
		line += " (deleted)"
	}
	return line
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// IsTTY returns true if w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, _ := f.Stat()
	return (info.Mode() & os.ModeCharDevice) != 0
}
