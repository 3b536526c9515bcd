package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/prk7048/LOA-AGENT/internal/ui"
)

func newResetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Clear todos whose reset boundary has passed",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			lines, err := svc.Tick(ctx)
			if err != nil {
				return err
			}
			if len(lines) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), ui.Muted.Render("Nothing to reset."))
				return nil
			}
			for _, l := range lines {
				fmt.Fprintln(cmd.OutOrStdout(), ui.Good.Render(ui.IconLoop)+" "+l)
			}
			return nil
		},
	}
	return cmd
}
