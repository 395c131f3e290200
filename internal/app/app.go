package app

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"tarefas/internal/model"
	"tarefas/internal/store"
)

// dueDateLayout is the date format accepted on the command line.
const dueDateLayout = "2006-01-02"

// App wires the command-line surface to the data access layer. It owns
// no state beyond the store handle and the output writer.
type App struct {
	store store.Store
	out   io.Writer
}

// New returns an App writing its output to out.
func New(s store.Store, out io.Writer) *App {
	return &App{store: s, out: out}
}

// Run dispatches a single subcommand. The first element of args is the
// subcommand name; the rest are its flags and arguments.
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		a.usage()
		return nil
	}

	switch args[0] {
	case "list":
		return a.runList(ctx, args[1:])
	case "lists":
		return a.runLists(ctx)
	case "add":
		return a.runAdd(ctx, args[1:])
	case "add-list":
		return a.runAddList(ctx, args[1:])
	case "done":
		return a.runSetDone(ctx, args[1:], true)
	case "undone":
		return a.runSetDone(ctx, args[1:], false)
	case "edit":
		return a.runEdit(ctx, args[1:])
	case "version":
		return a.runVersion(ctx)
	default:
		a.usage()
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func (a *App) usage() {
	fmt.Fprintln(a.out, `usage: tarefas <command> [flags]

commands:
  list       show tasks (-list ID to filter, default shows all)
  lists      show all lists
  add        add a task: add [-list ID] [-notes TEXT] [-due YYYY-MM-DD] TEXT
  add-list   add a list: add-list NAME
  done       mark a task complete: done ID
  undone     mark a task open: undone ID
  edit       edit a task: edit [-text T] [-notes N] [-due D] [-list L] ID
  version    show schema and engine versions`)
}

func (a *App) runList(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	fs.SetOutput(a.out)
	listID := fs.String("list", "", "only show tasks in this list")
	if err := fs.Parse(args); err != nil {
		return err
	}

	tasks, err := a.store.GetTasksByList(ctx, *listID)
	if err != nil {
		return err
	}

	a.renderTasks(tasks)
	return nil
}

func (a *App) runLists(ctx context.Context) error {
	lists, err := a.store.GetAllLists(ctx)
	if err != nil {
		return err
	}

	a.renderLists(lists)
	return nil
}

func (a *App) runAdd(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	fs.SetOutput(a.out)
	listID := fs.String("list", "", "list to add the task to")
	notes := fs.String("notes", "", "free-text notes")
	due := fs.String("due", "", "due date (YYYY-MM-DD)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	text := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if text == "" {
		return fmt.Errorf("task text must not be empty")
	}

	nt := model.NewTask{Text: text, ListID: *listID}
	if *notes != "" {
		nt.Notes = notes
	}
	if *due != "" {
		dueDate, err := time.Parse(dueDateLayout, *due)
		if err != nil {
			return fmt.Errorf("invalid due date %q: %w", *due, err)
		}
		nt.DueDate = &dueDate
	}

	task, err := a.store.CreateTask(ctx, nt)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "added %s\n", task.ID)
	return nil
}

func (a *App) runAddList(ctx context.Context, args []string) error {
	name := strings.TrimSpace(strings.Join(args, " "))
	if name == "" {
		return fmt.Errorf("list name must not be empty")
	}

	list, err := a.store.CreateList(ctx, name)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "added list %s\n", list.ID)
	return nil
}

func (a *App) runSetDone(ctx context.Context, args []string, done bool) error {
	if len(args) != 1 {
		return fmt.Errorf("expected exactly one task id")
	}

	task, err := a.store.SetTaskDone(ctx, args[0], done)
	if err != nil {
		return err
	}
	if task == nil {
		// Valid outcome, not a failure: the task may have been
		// removed by another session.
		fmt.Fprintf(a.out, "no task with id %s\n", args[0])
		return nil
	}

	fmt.Fprintln(a.out, renderTaskLine(*task))
	return nil
}

func (a *App) runEdit(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("edit", flag.ContinueOnError)
	fs.SetOutput(a.out)
	text := fs.String("text", "", "new task text")
	notes := fs.String("notes", "", "new notes")
	due := fs.String("due", "", "new due date (YYYY-MM-DD)")
	listID := fs.String("list", "", "move the task to this list")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if fs.NArg() != 1 {
		return fmt.Errorf("expected exactly one task id")
	}
	id := fs.Arg(0)

	var patch model.TaskPatch
	if *text != "" {
		trimmed := strings.TrimSpace(*text)
		if trimmed == "" {
			return fmt.Errorf("task text must not be empty")
		}
		patch.Text = &trimmed
	}
	if *notes != "" {
		patch.Notes = notes
	}
	if *due != "" {
		dueDate, err := time.Parse(dueDateLayout, *due)
		if err != nil {
			return fmt.Errorf("invalid due date %q: %w", *due, err)
		}
		patch.DueDate = &dueDate
	}
	if *listID != "" {
		patch.ListID = listID
	}

	task, err := a.store.UpdateTask(ctx, id, patch)
	if err != nil {
		return err
	}
	if task == nil {
		fmt.Fprintf(a.out, "no task with id %s\n", id)
		return nil
	}

	fmt.Fprintln(a.out, renderTaskLine(*task))
	return nil
}

func (a *App) runVersion(ctx context.Context) error {
	schema, err := a.store.SchemaVersion(ctx)
	if err != nil {
		return err
	}
	engine, err := a.store.EngineVersion(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "schema version: %d\nsqlite version: %s\n", schema, engine)
	return nil
}
