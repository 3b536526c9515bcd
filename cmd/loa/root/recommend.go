package root

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/prk7048/LOA-AGENT/internal/engine"
	"github.com/prk7048/LOA-AGENT/internal/ui"
)

func newRecommendCmd() *cobra.Command {
	var level float64
	var power float64

	cmd := &cobra.Command{
		Use:   "recommend [character]",
		Short: "Show the best weekly raids for stats or a stored character",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			if len(args) == 1 {
				c, err := svc.Store().Repos().Characters.Get(ctx, args[0])
				if err != nil {
					return err
				}
				if c == nil {
					return fmt.Errorf("character %q: %w", args[0], engine.ErrNotFound)
				}
				level, power = c.ItemLevel, c.CombatPower
			} else if !cmd.Flags().Changed("level") {
				return errors.New("give a character name or --level")
			}

			tiers := svc.Recommend(level, power)
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Heading(ui.IconSparkle, fmt.Sprintf("Raids for Lv.%.2f / %s%.0f", level, ui.IconSword, power)))
			if len(tiers) == 0 {
				fmt.Fprintln(out, ui.Muted.Render("(nothing unlocked yet)"))
				return nil
			}
			total := 0
			for i, t := range tiers {
				total += t.Reward
				fmt.Fprintf(out, "%d. %s %s\n", i+1, t.TaskName(), ui.Gold.Render(ui.FormatGold(t.Reward)))
			}
			fmt.Fprintln(out, ui.LabelValue("Weekly total", ui.FormatGold(total)))
			return nil
		},
	}

	cmd.Flags().Float64Var(&level, "level", 0, "Average item level")
	cmd.Flags().Float64Var(&power, "power", 0, "Combat power")
	return cmd
}
