package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/prk7048/LOA-AGENT/internal/engine"
	"github.com/prk7048/LOA-AGENT/internal/ui"
)

func newExpeditionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "expedition",
		Aliases: []string{"exp"},
		Short:   "Roster-wide homework",
	}
	cmd.AddCommand(
		newExpeditionListCmd(),
		newExpeditionAddCmd(),
		newExpeditionCheckCmd("check", true),
		newExpeditionCheckCmd("uncheck", false),
		newExpeditionRemoveCmd(),
		newExpeditionSeedCmd(),
	)
	return cmd
}

func newExpeditionListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List expedition tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()
			out := cmd.OutOrStdout()

			if err := applyResets(ctx, svc, out); err != nil {
				return err
			}
			list, err := svc.ListExpeditions(ctx)
			if err != nil {
				return err
			}
			if len(list) == 0 {
				fmt.Fprintln(out, ui.Muted.Render("(no expedition tasks, try `loa expedition seed`)"))
				return nil
			}
			for _, e := range list {
				cycle := string(e.ResetCycle)
				if engine.ResetCycle(e.ResetCycle) == engine.CycleInterval {
					cycle = fmt.Sprintf("every %d days", e.IntervalDays)
				}
				fmt.Fprintf(out, "%s %s %s %s\n", ui.Muted.Render(fmt.Sprintf("#%d", e.ID)), ui.Check(e.Checked), e.Name, ui.Muted.Render(cycle))
			}
			return nil
		},
	}
}

func newExpeditionAddCmd() *cobra.Command {
	var cycle string
	var days int

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add an expedition task",
		Args:  exactArgs(1, "name"),
		RunE: func(cmd *cobra.Command, args []string) error {
			rc, err := engine.ParseResetCycle(cycle)
			if err != nil {
				return err
			}
			ctx := context.Background()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			id, err := svc.AddExpedition(ctx, args[0], rc, days)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n", ui.Good.Render(ui.IconDone+" added"), args[0], ui.Muted.Render(fmt.Sprintf("#%d", id)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&cycle, "cycle", "c", "daily", "Reset cycle (daily|weekly|interval)")
	cmd.Flags().IntVar(&days, "days", 1, "Days between resets for interval tasks")
	return cmd
}

func newExpeditionCheckCmd(use string, checked bool) *cobra.Command {
	short := "Mark an expedition task done"
	if !checked {
		short = "Clear an expedition task"
	}
	return &cobra.Command{
		Use:   use + " <id>",
		Short: short,
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

			if err := svc.SetExpeditionChecked(ctx, id, checked); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s #%d\n", ui.Check(checked), id)
			return nil
		},
	}
}

func newExpeditionRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete an expedition task",
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

			if err := svc.DeleteExpedition(ctx, id); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Muted.Render(fmt.Sprintf("deleted #%d", id)))
			return nil
		},
	}
}

func newExpeditionSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Add the standard expedition tasks that are missing",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			n, err := svc.EnsureDefaultExpeditions(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.LabelValue("Added", n))
			return nil
		},
	}
}
