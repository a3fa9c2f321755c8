package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nhle/todo/internal/export"
	"github.com/nhle/todo/internal/model"
	"github.com/nhle/todo/internal/todo"
)

func newAddCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "add <text>...",
		Short: "Add a task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withBoard(cmd, func(ctx context.Context, b *todo.Board) error {
				t, err := b.Add(ctx, strings.Join(args, " "))
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added %d: %s\n", t.ID, t.Text)
				return nil
			})
		},
	}
}

func newListCmd(opts *options) *cobra.Command {
	var (
		filter string
		search string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tasks, newest first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withBoard(cmd, func(_ context.Context, b *todo.Board) error {
				if cmd.Flags().Changed("filter") {
					mode, err := model.ParseFilterMode(filter)
					if err != nil {
						return err
					}
					b.SetFilter(mode)
				}
				b.SetSearch(search)

				visible := b.Visible()
				if asJSON {
					return export.Write(cmd.OutOrStdout(), export.FormatJSON, visible)
				}
				printTasks(cmd.OutOrStdout(), visible, b.Counts())
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&filter, "filter", "f", "", "all, active or completed (default from config)")
	cmd.Flags().StringVarP(&search, "search", "s", "", "only tasks containing this text, ignoring case")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")

	return cmd
}

// printTasks writes one line per task followed by a count summary.
func printTasks(w io.Writer, tasks []model.Task, counts todo.Counts) {
	for _, t := range tasks {
		box := "[ ]"
		if t.Completed {
			box = "[x]"
		}
		fmt.Fprintf(w, "%s %d  %s\n", box, t.ID, t.Text)
	}
	fmt.Fprintf(w, "%d shown, %d active, %d completed\n", len(tasks), counts.Active, counts.Completed)
}

// parseID parses a task id argument.
func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid task id %q", s)
	}
	return id, nil
}

// requireTask returns an error when id is not on the board.
func requireTask(b *todo.Board, id int64) (model.Task, error) {
	t, ok := todo.Find(b.Tasks(), id)
	if !ok {
		return model.Task{}, fmt.Errorf("no task with id %d", id)
	}
	return t, nil
}

func newToggleCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <id>",
		Short: "Flip a task between active and completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return opts.withBoard(cmd, func(ctx context.Context, b *todo.Board) error {
				if _, err := requireTask(b, id); err != nil {
					return err
				}
				if err := b.ToggleComplete(ctx, id); err != nil {
					return err
				}
				t, _ := todo.Find(b.Tasks(), id)
				state := "active"
				if t.Completed {
					state = "completed"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d is now %s\n", id, state)
				return nil
			})
		},
	}
}

func newEditCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "edit <id> <text>...",
		Short: "Replace the text of a task",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return opts.withBoard(cmd, func(ctx context.Context, b *todo.Board) error {
				if !b.BeginEdit(id) {
					return fmt.Errorf("no task with id %d", id)
				}
				b.UpdateDraft(strings.Join(args[1:], " "))
				if err := b.CommitEdit(ctx); err != nil {
					return err
				}
				t, _ := todo.Find(b.Tasks(), id)
				fmt.Fprintf(cmd.OutOrStdout(), "Updated %d: %s\n", id, t.Text)
				return nil
			})
		},
	}
}

func newRemoveCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"remove", "delete"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return opts.withBoard(cmd, func(ctx context.Context, b *todo.Board) error {
				if _, err := requireTask(b, id); err != nil {
					return err
				}
				if err := b.Remove(ctx, id); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d\n", id)
				return nil
			})
		},
	}
}

func newCompleteAllCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "complete-all",
		Short: "Mark every task completed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withBoard(cmd, func(ctx context.Context, b *todo.Board) error {
				if err := b.MarkAllComplete(ctx); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Completed %d tasks\n", len(b.Tasks()))
				return nil
			})
		},
	}
}

func newClearCompletedCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "clear-completed",
		Short: "Delete completed tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withBoard(cmd, func(ctx context.Context, b *todo.Board) error {
				before := len(b.Tasks())
				if err := b.ClearCompleted(ctx); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d tasks\n", before-len(b.Tasks()))
				return nil
			})
		},
	}
}
