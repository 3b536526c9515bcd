package root

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/prk7048/LOA-AGENT/internal/ui"
)

func newCharCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "char",
		Short: "Edit stored characters",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "memo <character> <text...>",
		Short: "Set a character's memo",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			return svc.SetMemo(ctx, args[0], strings.Join(args[1:], " "))
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "spent <character> <gold>",
		Short: "Record gold spent this week",
		Args:  exactArgs(2, "character and gold"),
		RunE: func(cmd *cobra.Command, args []string) error {
			gold, err := strconv.Atoi(strings.ReplaceAll(args[1], ",", ""))
			if err != nil {
				return fmt.Errorf("gold must be an integer, got %q", args[1])
			}
			ctx := context.Background()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := svc.SetSpentGold(ctx, args[0], gold); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.LabelValue(args[0], ui.FormatGold(gold)))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "rm <character>",
		Short: "Delete a character and its todos",
		Args:  exactArgs(1, "character"),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := svc.DeleteCharacter(ctx, args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Muted.Render("deleted "+args[0]))
			return nil
		},
	})

	return cmd
}
