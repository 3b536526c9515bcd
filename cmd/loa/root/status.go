package root

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/prk7048/LOA-AGENT/internal/ui"
)

func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show reset times and weekly gold",
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

			const layout = "Mon 01-02 15:04"
			loc := svc.Location()
			last, next := svc.Boundaries(), svc.NextBoundaries()
			fmt.Fprintln(out, ui.Heading(ui.IconClock, "Resets"))
			fmt.Fprintf(out, "- %s %s %s\n", ui.IconSun, ui.Key.Render("Daily:"), fmt.Sprintf("last %s, next %s", last.Daily.In(loc).Format(layout), next.Daily.In(loc).Format(layout)))
			fmt.Fprintf(out, "- %s %s %s\n", ui.IconWeek, ui.Key.Render("Weekly:"), fmt.Sprintf("last %s, next %s", last.Weekly.In(loc).Format(layout), next.Weekly.In(loc).Format(layout)))
			fmt.Fprintln(out, ui.Muted.Render("  zone "+loc.String()+", now "+svc.Now().In(loc).Format(time.DateTime)))
			fmt.Fprintln(out, "")

			inc, err := svc.IncomeSummary(ctx, svc.Now())
			if err != nil {
				return err
			}
			fmt.Fprintln(out, ui.Heading(ui.IconCoin, "Weekly gold"))
			for _, c := range inc.Characters {
				fmt.Fprintf(out, "- %s %s / %s", ui.Key.Render(c.Name), ui.GroupThousands(c.Earned), ui.FormatGold(c.Potential))
				if c.Spent > 0 {
					fmt.Fprint(out, ui.Muted.Render(fmt.Sprintf(" (spent %s)", ui.FormatGold(c.Spent))))
				}
				fmt.Fprintln(out)
			}
			fmt.Fprintln(out, ui.LabelValue("Earned", ui.Gold.Render(ui.FormatGold(inc.Earned))))
			fmt.Fprintln(out, ui.LabelValue("Potential", ui.FormatGold(inc.Potential)))
			fmt.Fprintln(out, ui.LabelValue("Spent", ui.FormatGold(inc.Spent)))
			if inc.TargetDate != "" {
				fmt.Fprintln(out, ui.LabelValue("By "+inc.TargetDate, fmt.Sprintf("+%s %s", ui.FormatGold(inc.ProjectedByDate), ui.Muted.Render(fmt.Sprintf("(%d weekly resets)", inc.WeeklyResetsBy)))))
			}
			return nil
		},
	}
	return cmd
}
