package root

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/prk7048/LOA-AGENT/internal/ui"
)

func newSyncCmd() *cobra.Command {
	var only bool

	cmd := &cobra.Command{
		Use:   "sync <character>",
		Short: "Fetch stats and rebuild raid todos for a roster",
		Long:  "Fetches every character on the given character's roster, stores item level and combat power, and replaces weekly raid todos with the current top recommendations. With --only just the named character is synced.",
		Args:  exactArgs(1, "character name"),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()
			out := cmd.OutOrStdout()

			if only {
				res, err := svc.SyncOne(ctx, args[0])
				if err != nil {
					return err
				}
				names := make([]string, len(res.Recommended))
				for i, t := range res.Recommended {
					names[i] = t.TaskName()
				}
				fmt.Fprintln(out, ui.Good.Render(ui.IconDone+" synced ")+ui.Key.Render(res.Character.Name))
				fmt.Fprintln(out, ui.LabelValue("Item level", fmt.Sprintf("%.2f", res.Character.ItemLevel)))
				fmt.Fprintln(out, ui.LabelValue("Combat power", fmt.Sprintf("%.2f", res.Character.CombatPower)))
				fmt.Fprintln(out, ui.LabelValue("Raids", strings.Join(names, ", ")))
				if res.Removed > 0 {
					fmt.Fprintln(out, ui.Muted.Render(fmt.Sprintf("%d outdated raid todos removed", res.Removed)))
				}
				return nil
			}

			report, err := svc.SyncRoster(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(out, ui.Heading(ui.IconScroll, "Roster of "+report.Representative))
			for _, c := range report.Characters {
				line := fmt.Sprintf("- %s %s", ui.Key.Render(c.Name), ui.StatusText(string(c.Status)))
				if c.ItemLevel > 0 {
					line += ui.Muted.Render(fmt.Sprintf(" Lv.%.2f %s%.0f", c.ItemLevel, ui.IconSword, c.CombatPower))
				}
				fmt.Fprintln(out, line)
				if len(c.Recommended) > 0 {
					fmt.Fprintln(out, "    "+strings.Join(c.Recommended, ", "))
				}
				if c.Error != "" {
					fmt.Fprintln(out, "    "+ui.Muted.Render(c.Error))
				}
			}
			fmt.Fprintln(out, ui.Muted.Render(fmt.Sprintf("batch %s", report.BatchID)))
			return nil
		},
	}

	cmd.Flags().BoolVar(&only, "only", false, "Sync only the named character, not its roster")
	return cmd
}
