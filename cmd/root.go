// Package cmd implements the CLI command structure for tareas.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"tareas/internal/config"
	"tareas/internal/logging"
	"tareas/internal/manager"
	"tareas/internal/store"
	"tareas/internal/task"
	"tareas/internal/ui"

	charmlog "github.com/charmbracelet/log"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Run executes the tareas CLI.
func Run(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("tareas", flag.ContinueOnError)
	fs.Usage = func() {
		printUsage(fs, os.Stderr)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")

	cfg, err := config.Load(fs, args)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if *help {
		printUsage(fs, os.Stdout)
		return nil
	}
	if *showVersion {
		return versionCommand()
	}

	logger := logging.NewFromConfig(os.Stderr, cfg.LogLevel, cfg.LogFormat, cfg.LogTimestamps, cfg.LogCaller)

	// Determine the subcommand; "list" is the default.
	subcommand := "list"
	remainingArgs := fs.Args()
	if len(remainingArgs) > 0 && !strings.HasPrefix(remainingArgs[0], "-") {
		subcommand = remainingArgs[0]
		remainingArgs = remainingArgs[1:]
	}

	mgr := manager.New(store.New(cfg.TasksFile))

	switch subcommand {
	case "add":
		return addCommand(mgr, logger, remainingArgs)
	case "list", "ls":
		return listCommand(mgr, remainingArgs)
	case "show":
		return showCommand(mgr, remainingArgs)
	case "edit":
		return editCommand(mgr, logger, remainingArgs)
	case "done":
		return doneCommand(mgr, logger, remainingArgs)
	case "rm":
		return rmCommand(mgr, logger, remainingArgs)
	case "restore":
		return restoreCommand(mgr, logger, remainingArgs)
	case "stats":
		return statsCommand(mgr)
	case "overdue":
		return overdueCommand(mgr)
	case "high":
		return highCommand(mgr)
	case "related":
		return relatedCommand(mgr, remainingArgs)
	case "check":
		return checkCommand(cfg, logger)
	case "tui":
		return ui.RunTUI(ctx, store.New(cfg.TasksFile))
	case "version", "--version", "-v":
		return versionCommand()
	case "help", "--help", "-h":
		printUsage(fs, os.Stdout)
		return nil
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", subcommand)
		printUsage(fs, os.Stderr)
		return fmt.Errorf("unknown command: %s", subcommand)
	}
}

// addCommand creates a task from flags and a positional title.
func addCommand(mgr *manager.Manager, logger *charmlog.Logger, args []string) error {
	fs := flag.NewFlagSet("tareas add", flag.ContinueOnError)
	desc := fs.String("desc", "", "Task description")
	due := fs.String("due", "", "Due date (2006-01-02 or RFC 3339)")
	difficulty := fs.String("difficulty", "", "Difficulty (low|medium|high)")
	priority := fs.Int("priority", 0, "Priority 1-5 (5 = highest)")
	status := fs.String("status", "", "Status (todo|in_progress|done|cancelled)")
	tags := fs.String("tags", "", "Comma-separated tags")
	related := fs.String("related", "", "Comma-separated related task ids")

	if err := fs.Parse(args); err != nil {
		return err
	}

	payload := task.Payload{
		Title:       strings.Join(fs.Args(), " "),
		Description: *desc,
		Difficulty:  task.Difficulty(*difficulty),
		Priority:    *priority,
		Status:      task.Status(*status),
		Tags:        splitAndTrim(*tags, ","),
		RelatedIDs:  splitAndTrim(*related, ","),
	}
	if *due != "" {
		d, err := parseDue(*due)
		if err != nil {
			return err
		}
		payload.DueDate = &d
	}

	t, err := mgr.Add(payload)
	if err != nil {
		return err
	}
	logger.Info("Task added", "id", t.ID, "title", t.Title)
	return nil
}

// listCommand prints the task list, optionally sorted and including deleted.
func listCommand(mgr *manager.Manager, args []string) error {
	fs := flag.NewFlagSet("tareas list", flag.ContinueOnError)
	all := fs.Bool("all", false, "Include soft-deleted tasks")
	sortBy := fs.String("sort", "", "Sort by title|created|due|difficulty")
	tag := fs.String("tag", "", "Only tasks carrying this tag")

	if err := fs.Parse(args); err != nil {
		return err
	}

	key, ok := manager.ParseSortKey(*sortBy)
	if !ok {
		return fmt.Errorf("unknown sort key: %s", *sortBy)
	}

	tasks, err := mgr.List(manager.ListOptions{IncludeDeleted: *all, SortBy: key})
	if err != nil {
		return err
	}
	if *tag != "" {
		tasks = task.Filter(tasks, func(t task.Task) bool {
			return task.HasTag(t, *tag)
		})
	}

	if len(tasks) == 0 {
		fmt.Println("No tasks.")
		return nil
	}
	for _, t := range tasks {
		fmt.Println(formatTaskLine(t))
	}
	return nil
}

// showCommand prints every field of one task.
func showCommand(mgr *manager.Manager, args []string) error {
	id, err := requireID(args, "show")
	if err != nil {
		return err
	}
	t, found, err := mgr.FindByID(id)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("task %q not found", id)
	}
	printTaskDetail(os.Stdout, t)
	return nil
}

// editCommand applies a partial update; only flags explicitly set are merged.
func editCommand(mgr *manager.Manager, logger *charmlog.Logger, args []string) error {
	fs := flag.NewFlagSet("tareas edit", flag.ContinueOnError)
	title := fs.String("title", "", "New title")
	desc := fs.String("desc", "", "New description")
	due := fs.String("due", "", "New due date (2006-01-02 or RFC 3339)")
	clearDue := fs.Bool("clear-due", false, "Remove the due date")
	difficulty := fs.String("difficulty", "", "New difficulty (low|medium|high)")
	priority := fs.Int("priority", 0, "New priority")
	status := fs.String("status", "", "New status (todo|in_progress|done|cancelled)")
	tags := fs.String("tags", "", "New comma-separated tags (replaces existing)")
	related := fs.String("related", "", "New comma-separated related ids (replaces existing)")

	if err := fs.Parse(args); err != nil {
		return err
	}
	id, err := requireID(fs.Args(), "edit")
	if err != nil {
		return err
	}

	patch := manager.Patch{ClearDueDate: *clearDue}
	var parseErr error
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "title":
			patch.Title = title
		case "desc":
			patch.Description = desc
		case "due":
			d, err := parseDue(*due)
			if err != nil {
				parseErr = err
				return
			}
			patch.DueDate = &d
		case "difficulty":
			v := task.Difficulty(*difficulty)
			patch.Difficulty = &v
		case "priority":
			patch.Priority = priority
		case "status":
			v := task.Status(*status)
			patch.Status = &v
		case "tags":
			v := splitAndTrim(*tags, ",")
			patch.Tags = &v
		case "related":
			v := splitAndTrim(*related, ",")
			patch.RelatedIDs = &v
		}
	})
	if parseErr != nil {
		return parseErr
	}

	t, found, err := mgr.Update(id, patch)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("task %q not found", id)
	}
	logger.Info("Task updated", "id", t.ID, "title", t.Title)
	return nil
}

// doneCommand marks a task as done.
func doneCommand(mgr *manager.Manager, logger *charmlog.Logger, args []string) error {
	id, err := requireID(args, "done")
	if err != nil {
		return err
	}
	t, found, err := mgr.Complete(id)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("task %q not found", id)
	}
	logger.Info("Task completed", "id", t.ID, "title", t.Title)
	return nil
}

// rmCommand soft-deletes a task, or removes it for good with -hard.
func rmCommand(mgr *manager.Manager, logger *charmlog.Logger, args []string) error {
	fs := flag.NewFlagSet("tareas rm", flag.ContinueOnError)
	hard := fs.Bool("hard", false, "Remove the task permanently")

	if err := fs.Parse(args); err != nil {
		return err
	}
	id, err := requireID(fs.Args(), "rm")
	if err != nil {
		return err
	}

	var found bool
	if *hard {
		found, err = mgr.HardDelete(id)
	} else {
		found, err = mgr.SoftDelete(id)
	}
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("task %q not found", id)
	}
	if *hard {
		logger.Info("Task removed permanently", "id", id)
	} else {
		logger.Info("Task deleted", "id", id)
	}
	return nil
}

// restoreCommand clears the soft-delete flag on a task.
func restoreCommand(mgr *manager.Manager, logger *charmlog.Logger, args []string) error {
	id, err := requireID(args, "restore")
	if err != nil {
		return err
	}
	found, err := mgr.Restore(id)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("task %q not found", id)
	}
	logger.Info("Task restored", "id", id)
	return nil
}

// statsCommand prints aggregate counts over the non-deleted tasks.
func statsCommand(mgr *manager.Manager) error {
	stats, err := mgr.Statistics()
	if err != nil {
		return err
	}
	fmt.Printf("Total: %d\n", stats.Total)
	if len(stats.ByStatus) > 0 {
		fmt.Println("By status:")
		for _, s := range []task.Status{task.StatusTodo, task.StatusInProgress, task.StatusDone, task.StatusCancelled} {
			if n, ok := stats.ByStatus[s]; ok {
				fmt.Printf("  %-12s %d\n", s, n)
			}
		}
	}
	if len(stats.ByDifficulty) > 0 {
		fmt.Println("By difficulty:")
		for _, d := range []task.Difficulty{task.DifficultyLow, task.DifficultyMedium, task.DifficultyHigh} {
			if n, ok := stats.ByDifficulty[d]; ok {
				fmt.Printf("  %-12s %d\n", d, n)
			}
		}
	}
	return nil
}

// overdueCommand lists the tasks past their due date.
func overdueCommand(mgr *manager.Manager) error {
	tasks, err := mgr.Overdue(time.Now())
	if err != nil {
		return err
	}
	if len(tasks) == 0 {
		fmt.Println("Nothing overdue.")
		return nil
	}
	for _, t := range task.SortByDueDate(tasks) {
		fmt.Println(formatTaskLine(t))
	}
	return nil
}

// highCommand lists the high-priority tasks.
func highCommand(mgr *manager.Manager) error {
	tasks, err := mgr.HighPriority()
	if err != nil {
		return err
	}
	if len(tasks) == 0 {
		fmt.Println("No high-priority tasks.")
		return nil
	}
	for _, t := range tasks {
		fmt.Println(formatTaskLine(t))
	}
	return nil
}

// relatedCommand lists the tasks that link to the given id.
func relatedCommand(mgr *manager.Manager, args []string) error {
	id, err := requireID(args, "related")
	if err != nil {
		return err
	}
	tasks, err := mgr.RelatedTasks(id)
	if err != nil {
		return err
	}
	if len(tasks) == 0 {
		fmt.Printf("No tasks related to %s.\n", id)
		return nil
	}
	for _, t := range tasks {
		fmt.Println(formatTaskLine(t))
	}
	return nil
}

// checkCommand validates the tasks file against the JSON Schema.
func checkCommand(cfg *config.Config, logger *charmlog.Logger) error {
	st := store.New(cfg.TasksFile)
	result, err := st.ValidateFile(cfg.SchemaFile)
	if err != nil {
		return err
	}
	for _, w := range result.Warnings {
		logger.Warn(w)
	}
	if result.Valid {
		if result.UsedSchema {
			logger.Info("Tasks file is valid", "file", cfg.TasksFile, "schema", cfg.SchemaFile)
		} else {
			logger.Info("Tasks file passed minimal checks", "file", cfg.TasksFile)
		}
		return nil
	}
	for _, e := range result.Errors {
		logger.Error(e.Error())
	}
	return fmt.Errorf("tasks file %s is invalid (%d errors)", cfg.TasksFile, len(result.Errors))
}

func versionCommand() error {
	fmt.Printf("tareas version %s\n", Version)
	return nil
}

// requireID extracts the single positional id argument for a subcommand.
func requireID(args []string, command string) (string, error) {
	if len(args) == 0 || args[0] == "" {
		return "", fmt.Errorf("usage: tareas %s <id>", command)
	}
	if len(args) > 1 {
		return "", fmt.Errorf("unexpected arguments: %v", args[1:])
	}
	return args[0], nil
}

// parseDue parses a due date as a bare date or a full RFC 3339 timestamp.
func parseDue(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid due date %q (want 2006-01-02 or RFC 3339)", s)
	}
	return t, nil
}

// splitAndTrim splits a string by sep and trims whitespace from each part.
func splitAndTrim(s, sep string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, sep)
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func formatTaskLine(t task.Task) string {
	statusIcon := " "
	switch t.Status {
	case task.StatusInProgress:
		statusIcon = ">"
	case task.StatusDone:
		statusIcon = "x"
	case task.StatusCancelled:
		statusIcon = "-"
	}
	line := fmt.Sprintf("%s [%s] (P%d) %s", statusIcon, t.ID, t.Priority, t.Title)
	if t.DueDate != nil {
		line += " due " + t.DueDate.Format("2006-01-02")
	}
	if len(t.Tags) > 0 {
		line += " #" + strings.Join(t.Tags, " #")
	}
	if t.Deleted {
		line += " (deleted)"
	}
	return line
}

func printTaskDetail(w io.Writer, t task.Task) {
	fmt.Fprintf(w, "ID:          %s\n", t.ID)
	fmt.Fprintf(w, "Title:       %s\n", t.Title)
	if t.Description != "" {
		fmt.Fprintf(w, "Description: %s\n", t.Description)
	}
	fmt.Fprintf(w, "Status:      %s\n", t.Status)
	fmt.Fprintf(w, "Difficulty:  %s\n", t.Difficulty)
	fmt.Fprintf(w, "Priority:    %d\n", t.Priority)
	fmt.Fprintf(w, "Created:     %s\n", t.CreatedAt.Format(time.RFC3339))
	if t.DueDate != nil {
		fmt.Fprintf(w, "Due:         %s\n", t.DueDate.Format(time.RFC3339))
	}
	if len(t.Tags) > 0 {
		fmt.Fprintf(w, "Tags:        %s\n", strings.Join(t.Tags, ", "))
	}
	if len(t.RelatedIDs) > 0 {
		fmt.Fprintf(w, "Related:     %s\n", strings.Join(t.RelatedIDs, ", "))
	}
	if t.Deleted {
		fmt.Fprintln(w, "Deleted:     yes")
	}
}

// printUsage prints the usage message.
func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "Tareas - A file-backed personal task tracker")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  tareas [command] [options]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  add <title>     Add a task")
	fmt.Fprintln(w, "  list            List tasks (default command)")
	fmt.Fprintln(w, "  show <id>       Show every field of one task")
	fmt.Fprintln(w, "  edit <id>       Update fields of a task")
	fmt.Fprintln(w, "  done <id>       Mark a task as done")
	fmt.Fprintln(w, "  rm <id>         Soft-delete a task (-hard removes it for good)")
	fmt.Fprintln(w, "  restore <id>    Undo a soft delete")
	fmt.Fprintln(w, "  stats           Show aggregate counts")
	fmt.Fprintln(w, "  overdue         List tasks past their due date")
	fmt.Fprintln(w, "  high            List high-priority tasks")
	fmt.Fprintln(w, "  related <id>    List tasks linking to an id")
	fmt.Fprintln(w, "  check           Validate the tasks file against its schema")
	fmt.Fprintln(w, "  tui             Launch terminal UI")
	fmt.Fprintln(w, "  version         Show version information")
	fmt.Fprintln(w, "  help            Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Add Options (use with 'add'):")
	fmt.Fprintln(w, "  -desc string        Task description")
	fmt.Fprintln(w, "  -due string         Due date (2006-01-02 or RFC 3339)")
	fmt.Fprintln(w, "  -difficulty string  Difficulty (low|medium|high)")
	fmt.Fprintln(w, "  -priority int       Priority 1-5 (5 = highest)")
	fmt.Fprintln(w, "  -tags string        Comma-separated tags")
	fmt.Fprintln(w, "  -related string     Comma-separated related task ids")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "List Options (use with 'list'):")
	fmt.Fprintln(w, "  -all                Include soft-deleted tasks")
	fmt.Fprintln(w, "  -sort string        Sort by title|created|due|difficulty")
	fmt.Fprintln(w, "  -tag string         Only tasks carrying this tag")
}
