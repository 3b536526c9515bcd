package root

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/prk7048/LOA-AGENT/internal/ui"
)

func newDoCmd() *cobra.Command {
	var undo bool

	cmd := &cobra.Command{
		Use:   "do <id>",
		Short: "Mark a todo done",
		Args:  exactArgs(1, "id"),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			ctx := context.Background()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			t, err := svc.ToggleTask(ctx, id, !undo)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), todoLine(*t)+" "+ui.Muted.Render("("+t.CharacterName+")"))
			return nil
		},
	}

	cmd.Flags().BoolVar(&undo, "undo", false, "Clear the todo instead")
	return cmd
}

func newProgressCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "progress <id> <count>",
		Short: "Set how many runs of a todo are done",
		Args:  exactArgs(2, "id and count"),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			n, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("count must be an integer, got %q", args[1])
			}
			ctx := context.Background()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			t, err := svc.SetTaskProgress(ctx, id, n)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), todoLine(*t)+" "+ui.Muted.Render("("+t.CharacterName+")"))
			return nil
		},
	}
	return cmd
}
