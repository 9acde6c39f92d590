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
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/eslsoft/vocquiz/internal/app"
	"github.com/eslsoft/vocquiz/internal/usecase/backup"
)

const (
	exportOutputKey   = "backup.export.output"
	exportGzipKey     = "backup.export.gzip"
	exportFormatKey   = "backup.export.format"
	exportSectionsKey = "backup.export.sections"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export words and quiz history to a backup file",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withContainer(cmd, func(ctx context.Context, c *app.Container) (err error) {
			outputPath := viper.GetString(exportOutputKey)
			gzipEnabled := viper.GetBool(exportGzipKey)
			sections := sectionsFromConfig(exportSectionsKey)

			format, err := backup.ParseFormat(viper.GetString(exportFormatKey))
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("format") && strings.HasSuffix(strings.TrimSuffix(strings.ToLower(outputPath), ".gz"), ".xlsx") {
				format = backup.FormatXLSX
			}
			if outputPath == "" {
				outputPath = defaultExportFilename(format, gzipEnabled)
			}
			if !gzipEnabled && outputPath != "-" && strings.HasSuffix(strings.ToLower(outputPath), ".gz") {
				gzipEnabled = true
			}

			writer := cmd.OutOrStdout()
			if outputPath != "-" {
				if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
					return fmt.Errorf("create output directory: %w", err)
				}
				file, openErr := os.Create(outputPath)
				if openErr != nil {
					return fmt.Errorf("create backup file: %w", openErr)
				}
				defer func() {
					if cerr := file.Close(); cerr != nil && err == nil {
						err = cerr
					}
				}()
				writer = file
			}

			opts := []backup.ExportOption{backup.WithFormat(format), backup.WithGzip(gzipEnabled)}
			if len(sections) > 0 {
				opts = append(opts, backup.WithSections(sections))
			}
			summary, err := c.Backup.Export(ctx, writer, opts...)
			if err != nil {
				return fmt.Errorf("export backup: %w", err)
			}

			if outputPath == "-" {
				cmd.PrintErrf("Exported %d words and %d quizzes to stdout\n", summary.Words, summary.History)
			} else {
				cmd.Printf("Exported %d words and %d quizzes to %s\n", summary.Words, summary.History, outputPath)
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringP("output", "o", "", "backup file path, - for stdout")
	exportCmd.Flags().Bool("gzip", false, "gzip the output")
	exportCmd.Flags().String("format", string(backup.FormatJSON), "backup format: json or xlsx")
	exportCmd.Flags().StringSlice("sections", nil, "only export these sections (words, history)")

	bindExportConfig()
}

func defaultExportFilename(format backup.Format, gzipEnabled bool) string {
	filename := fmt.Sprintf("vocquiz-backup-%s.%s", time.Now().UTC().Format("2006-01-02"), format)
	if gzipEnabled {
		filename += ".gz"
	}
	return filename
}

func bindExportConfig() {
	bindFlagToViper(exportOutputKey, exportCmd.Flags().Lookup("output"))
	bindFlagToViper(exportGzipKey, exportCmd.Flags().Lookup("gzip"))
	bindFlagToViper(exportFormatKey, exportCmd.Flags().Lookup("format"))
	bindFlagToViper(exportSectionsKey, exportCmd.Flags().Lookup("sections"))
}
