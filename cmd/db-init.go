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

	"github.com/spf13/cobra"

	"github.com/eslsoft/vocquiz/internal/app"
)

// dbInitCmd migrates the database schema and optionally seeds it with word packs.
var dbInitCmd = &cobra.Command{
	Use:   "db-init",
	Short: "Create the database schema and seed word packs",
	Long:  "Run the schema migration and add the given word packs. go-sqlite3 needs a CGO_ENABLED=1 build. Use --schema-only to skip seeding.",
	RunE: func(cmd *cobra.Command, args []string) error {
		packs, _ := cmd.Flags().GetStringSlice("packs")
		schemaOnly, _ := cmd.Flags().GetBool("schema-only")

		return withContainer(cmd, func(ctx context.Context, c *app.Container) error {
			c.Logger.Info("database schema is up to date")
			if schemaOnly || len(packs) == 0 {
				return nil
			}
			return addPacks(ctx, cmd, c, packs)
		})
	},
}

func init() {
	rootCmd.AddCommand(dbInitCmd)
	dbInitCmd.Flags().StringSlice("packs", nil, "word packs to add, see 'vocquiz packs list'")
	dbInitCmd.Flags().Bool("schema-only", false, "only migrate, do not add packs")
}
