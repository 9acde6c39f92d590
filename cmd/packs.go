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
	"strconv"

	"github.com/spf13/cobra"

	"github.com/eslsoft/vocquiz/internal/app"
	"github.com/eslsoft/vocquiz/internal/usecase"
)

var packsCmd = &cobra.Command{
	Use:   "packs",
	Short: "Ready-made word packs",
}

var packsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the available packs",
	RunE: func(cmd *cobra.Command, args []string) error {
		table := newTable(cmd.OutOrStdout(), "ID", "Name", "Words", "Description")
		for _, p := range usecase.WordPacks() {
			table.Append([]string{p.ID, p.Icon + " " + p.Name, strconv.Itoa(len(p.Words)), p.Description})
		}
		table.Render()
		return nil
	},
}

var packsAddCmd = &cobra.Command{
	Use:   "add <id>...",
	Short: "Add the words of one or more packs",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withContainer(cmd, func(ctx context.Context, c *app.Container) error {
			return addPacks(ctx, cmd, c, args)
		})
	},
}

func init() {
	rootCmd.AddCommand(packsCmd)
	packsCmd.AddCommand(packsListCmd, packsAddCmd)
}

func addPacks(ctx context.Context, cmd *cobra.Command, c *app.Container, ids []string) error {
	for _, id := range ids {
		pack, report, err := c.Words.AddPack(ctx, id)
		if err != nil {
			return fmt.Errorf("%s: %w", id, err)
		}
		cmd.Printf("Added %d words from %s\n", report.Imported, pack.Name)
	}
	return nil
}
