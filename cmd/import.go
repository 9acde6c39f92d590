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
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/eslsoft/vocquiz/internal/app"
	"github.com/eslsoft/vocquiz/internal/usecase/backup"
)

const (
	importInputKey    = "backup.import.input"
	importSectionsKey = "backup.import.sections"
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Restore words and quiz history from a backup file",
	Long: `Restore a JSON or XLSX backup, optionally gzip compressed. Words and history entries
with an id already present are overwritten; entries without one are added.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		inputPath := viper.GetString(importInputKey)
		if inputPath == "" {
			return errors.New("pass --input with a backup file, or - for stdin")
		}
		sections := sectionsFromConfig(importSectionsKey)

		return withContainer(cmd, func(ctx context.Context, c *app.Container) error {
			reader := cmd.InOrStdin()
			if inputPath != "-" {
				file, err := os.Open(filepath.Clean(inputPath))
				if err != nil {
					return fmt.Errorf("open backup file: %w", err)
				}
				defer file.Close()
				reader = file
			}

			var opts []backup.ImportOption
			if len(sections) > 0 {
				opts = append(opts, backup.WithImportSections(sections))
			}
			summary, err := c.Backup.Import(ctx, reader, opts...)
			if err != nil {
				return fmt.Errorf("import backup: %w", err)
			}

			cmd.Printf("Imported %d words (%d skipped) and %d quizzes (%d skipped)\n",
				summary.Words.Imported, summary.Words.Skipped,
				summary.History.Imported, summary.History.Skipped)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().StringP("input", "i", "", "backup file path, - for stdin")
	importCmd.Flags().StringSlice("sections", nil, "only import these sections (words, history)")

	bindFlagToViper(importInputKey, importCmd.Flags().Lookup("input"))
	bindFlagToViper(importSectionsKey, importCmd.Flags().Lookup("sections"))
}
