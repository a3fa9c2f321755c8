package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nhle/todo/internal/export"
	"github.com/nhle/todo/internal/todo"
)

func newExportCmd(opts *options) *cobra.Command {
	var (
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write all tasks as JSON, YAML or TOML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}
			return opts.withBoard(cmd, func(_ context.Context, b *todo.Board) error {
				if output == "" || output == "-" {
					return export.Write(cmd.OutOrStdout(), f, b.Tasks())
				}

				file, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("creating %s: %w", output, err)
				}
				if err := export.Write(file, f, b.Tasks()); err != nil {
					_ = file.Close()
					return err
				}
				return file.Close()
			})
		},
	}

	cmd.Flags().StringVar(&format, "format", "json", "json, yaml or toml")
	cmd.Flags().StringVarP(&output, "output", "o", "", "file to write (default stdout)")

	return cmd
}

func newImportCmd(opts *options) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Append tasks from an export file",
		Long: `Append tasks from a file written by "todo export". Imported tasks get
new ids and creation times; their text and completion state are kept.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}

			file, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening %s: %w", args[0], err)
			}
			defer file.Close()

			tasks, err := export.Read(file, f)
			if err != nil {
				return err
			}

			return opts.withBoard(cmd, func(ctx context.Context, b *todo.Board) error {
				added, err := b.Import(ctx, tasks)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Imported %d tasks\n", len(added))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&format, "format", "json", "json, yaml or toml")

	return cmd
}
