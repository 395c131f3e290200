package app

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"

	"tarefas/internal/model"
)

// timeNow is overridable in tests that assert overdue styling.
var timeNow = time.Now

var (
	headerStyle  = lipgloss.NewStyle().Bold(true)
	doneStyle    = lipgloss.NewStyle().Faint(true).Strikethrough(true)
	idStyle      = lipgloss.NewStyle().Faint(true)
	dueStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	overdueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
)

func (a *App) renderTasks(tasks []model.Task) {
	if len(tasks) == 0 {
		fmt.Fprintln(a.out, "no tasks")
		return
	}
	for _, t := range tasks {
		fmt.Fprintln(a.out, renderTaskLine(t))
	}
}

func renderTaskLine(t model.Task) string {
	mark := "[ ]"
	text := t.Text
	if t.Done {
		mark = "[x]"
		text = doneStyle.Render(text)
	}

	line := fmt.Sprintf("%s %s %s", mark, idStyle.Render(shortID(t.ID)), text)

	if t.DueDate != nil {
		due := t.DueDate.Format("2006-01-02")
		style := dueStyle
		if !t.Done && t.DueDate.Before(timeNow()) {
			style = overdueStyle
		}
		line += " " + style.Render("due "+due)
	}
	if t.Notes != nil && *t.Notes != "" {
		line += "\n        " + idStyle.Render(*t.Notes)
	}

	return line
}

// shortID abbreviates a UUID for display.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func (a *App) renderLists(lists []model.List) {
	fmt.Fprintln(a.out, headerStyle.Render("lists"))
	for _, l := range lists {
		fmt.Fprintf(a.out, "%s %s\n", idStyle.Render(l.ID), l.Name)
	}
}
