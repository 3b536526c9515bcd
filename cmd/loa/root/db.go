package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/prk7048/LOA-AGENT/internal/ui"
)

func newDBCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db",
		Short: "Database maintenance",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Create missing tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := svc.Store().Migrate(ctx); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Good.Render(ui.IconDone+" schema up to date")+" "+ui.Muted.Render("("+string(svc.Store().Dialect)+")"))
			return nil
		},
	})
	return cmd
}
