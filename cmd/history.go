/*
Copyright © 2025 Ambor <saltbo@foxmail.com>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eslsoft/vocquiz/internal/app"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse and manage completed quizzes",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List completed quizzes, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		showWrong, _ := cmd.Flags().GetBool("wrong")

		return withContainer(cmd, func(ctx context.Context, c *app.Container) error {
			entries, err := c.History.ListHistory(ctx)
			if err != nil {
				return err
			}
			if limit > 0 && len(entries) > limit {
				entries = entries[:limit]
			}
			loc, err := c.Config.Location()
			if err != nil {
				return err
			}

			table := newTable(cmd.OutOrStdout(), "ID", "Date", "Score", "Mode", "Category", "Folder")
			for _, e := range entries {
				table.Append([]string{
					e.ID, e.Date.In(loc).Format("2006-01-02 15:04"),
					fmt.Sprintf("%d/%d (%d%%)", e.Correct, e.Total, e.Percentage),
					string(e.Mode), e.Category, e.Folder,
				})
				if !showWrong {
					continue
				}
				for _, wa := range e.WrongAnswers {
					table.Append([]string{"", "  " + wa.Question, wa.UserAnswer + " -> " + wa.Correct, "", "", ""})
				}
			}
			table.Render()
			return nil
		})
	},
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete one history entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withContainer(cmd, func(ctx context.Context, c *app.Container) error {
			if err := c.History.DeleteEntry(ctx, args[0]); err != nil {
				return err
			}
			cmd.Printf("Deleted %s\n", args[0])
			return nil
		})
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every history entry; this also resets the streak",
	RunE: func(cmd *cobra.Command, args []string) error {
		if yes, _ := cmd.Flags().GetBool("yes"); !yes {
			return errors.New("refusing to clear history without --yes")
		}
		return withContainer(cmd, func(ctx context.Context, c *app.Container) error {
			if err := c.History.ClearHistory(ctx); err != nil {
				return err
			}
			cmd.Println("History cleared")
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyListCmd, historyDeleteCmd, historyClearCmd)

	historyListCmd.Flags().Int("limit", 20, "show at most this many entries, 0 for all")
	historyListCmd.Flags().Bool("wrong", false, "show the wrong answers of each quiz")
	historyClearCmd.Flags().Bool("yes", false, "confirm clearing all history")
}
