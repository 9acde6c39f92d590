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
	"fmt"
	"sort"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/eslsoft/vocquiz/internal/app"
	"github.com/eslsoft/vocquiz/internal/entity"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show learning progress",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withContainer(cmd, func(ctx context.Context, c *app.Container) error {
			d, err := c.Stats.Dashboard(ctx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Words:     %d (%d mastered, %d due)\n", d.TotalWords, d.MasteredWords, d.DueWords)
			for level := entity.MinLevel; level <= entity.MaxLevel; level++ {
				fmt.Fprintf(out, "  level %d: %d\n", level, d.WordsByLevel[level])
			}
			fmt.Fprintf(out, "Quizzes:   %d (average %d%%)\n", d.TotalQuizzes, d.AveragePercentage)
			modes := lo.Keys(d.ModeAverages)
			sort.Slice(modes, func(i, j int) bool { return modes[i] < modes[j] })
			for _, mode := range modes {
				fmt.Fprintf(out, "  %s: %d%%\n", mode, d.ModeAverages[mode])
			}
			fmt.Fprintf(out, "Streak:    %d days\n", d.Streak.Streak)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
