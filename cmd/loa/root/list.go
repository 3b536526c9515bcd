package root

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/prk7048/LOA-AGENT/internal/engine"
	"github.com/prk7048/LOA-AGENT/internal/storage"
	"github.com/prk7048/LOA-AGENT/internal/ui"
)

func newListCmd() *cobra.Command {
	var daily bool
	var weekly bool

	cmd := &cobra.Command{
		Use:   "list [character]",
		Short: "List todos per character",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if daily && weekly {
				return errors.New("--daily and --weekly are exclusive")
			}
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

			name := ""
			if len(args) == 1 {
				name = args[0]
			}
			chars, err := svc.ListCharacters(ctx, storage.OrderByProgress)
			if err != nil {
				return err
			}
			todos, err := svc.ListTasks(ctx, name)
			if err != nil {
				return err
			}

			byCharacter := map[string][]storage.Todo{}
			for _, t := range todos {
				c := engine.Category(t.Category)
				if (daily && c != engine.CategoryDaily) || (weekly && c != engine.CategoryWeekly) {
					continue
				}
				byCharacter[t.CharacterName] = append(byCharacter[t.CharacterName], t)
			}

			shown := 0
			for _, c := range chars {
				list, ok := byCharacter[c.Name]
				if !ok {
					continue
				}
				shown++
				fmt.Fprintf(out, "%s %s\n", ui.H2.Render(c.Name), ui.Muted.Render(fmt.Sprintf("%s Lv.%.2f", c.Class, c.ItemLevel)))
				for _, t := range list {
					fmt.Fprintln(out, "  "+todoLine(t))
				}
			}
			if shown == 0 {
				fmt.Fprintln(out, ui.Muted.Render("(no todos)"))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&daily, "daily", false, "Only daily todos")
	cmd.Flags().BoolVar(&weekly, "weekly", false, "Only weekly todos")
	return cmd
}

func todoLine(t storage.Todo) string {
	line := fmt.Sprintf("%s %s %s %s", ui.Muted.Render(fmt.Sprintf("#%d", t.ID)), ui.Check(t.Done()), ui.CategoryIcon(t.Category), t.TaskName)
	if t.Target > 1 {
		line += ui.Muted.Render(fmt.Sprintf(" (%d/%d)", t.Current, t.Target))
	}
	if t.Reward > 0 {
		line += " " + ui.Gold.Render(ui.FormatGold(t.Reward))
	}
	return line
}
