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
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/eslsoft/vocquiz/internal/app"
	"github.com/eslsoft/vocquiz/internal/entity"
	"github.com/eslsoft/vocquiz/internal/repository"
	"github.com/eslsoft/vocquiz/internal/usecase/backup"
)

var wordsCmd = &cobra.Command{
	Use:     "words",
	Aliases: []string{"word", "w"},
	Short:   "Manage your vocabulary list",
}

var wordsAddCmd = &cobra.Command{
	Use:   "add <english> <turkish>",
	Short: "Add a word",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		draft := entity.WordDraft{English: args[0], Turkish: args[1]}
		draft.Category, _ = flags.GetString("category")
		draft.Folder, _ = flags.GetString("folder")
		draft.PartOfSpeech, _ = flags.GetString("pos")
		draft.Example, _ = flags.GetString("example")
		draft.Emoji, _ = flags.GetString("emoji")

		return withContainer(cmd, func(ctx context.Context, c *app.Container) error {
			word, err := c.Words.AddWord(ctx, draft)
			if err != nil {
				return err
			}
			cmd.Printf("Added %s = %s (%s)\n", word.English, word.Turkish, word.ID)
			return nil
		})
	},
}

var wordsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List words",
	Long: `List words, newest first. --filter takes a CEL expression over category, folder,
english, turkish, level, due, next_review and created_at, for example:

  vocquiz words list --filter 'category == "Travel" && level <= 2'
  vocquiz words list --filter 'due' --order-by 'level asc'`,
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		query := &repository.ListWordQuery{}
		query.Filter, _ = flags.GetString("filter")
		query.OrderBy, _ = flags.GetString("order-by")
		query.Category, _ = flags.GetString("category")
		query.Folder, _ = flags.GetString("folder")
		query.DueOnly, _ = flags.GetBool("due")
		query.PageNo, _ = flags.GetInt32("page")
		query.PageSize, _ = flags.GetInt32("page-size")

		return withContainer(cmd, func(ctx context.Context, c *app.Container) error {
			words, total, err := c.Words.ListWords(ctx, query)
			if err != nil {
				return err
			}
			printWords(cmd.OutOrStdout(), words, time.Now())
			cmd.Printf("%d of %d words\n", len(words), total)
			return nil
		})
	},
}

var wordsEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit the text or grouping of a word",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		patch := entity.WordPatch{}
		for name, dst := range map[string]**string{
			"english":  &patch.English,
			"turkish":  &patch.Turkish,
			"category": &patch.Category,
			"folder":   &patch.Folder,
			"pos":      &patch.PartOfSpeech,
			"example":  &patch.Example,
			"emoji":    &patch.Emoji,
		} {
			if !cmd.Flags().Changed(name) {
				continue
			}
			value, _ := cmd.Flags().GetString(name)
			*dst = &value
		}

		return withContainer(cmd, func(ctx context.Context, c *app.Container) error {
			word, err := c.Words.UpdateWord(ctx, args[0], patch)
			if err != nil {
				return err
			}
			cmd.Printf("Updated %s = %s\n", word.English, word.Turkish)
			return nil
		})
	},
}

var wordsDeleteCmd = &cobra.Command{
	Use:   "delete <id>...",
	Short: "Delete words; the last deletion can be undone with restore",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withContainer(cmd, func(ctx context.Context, c *app.Container) error {
			words := make([]entity.Word, 0, len(args))
			for _, id := range lo.Uniq(args) {
				word, err := c.Words.GetWord(ctx, id)
				if err != nil {
					return fmt.Errorf("%s: %w", id, err)
				}
				words = append(words, *word)
			}
			if err := saveTrash(words); err != nil {
				c.Logger.WithError(err).Warn("deleted words will not be restorable")
			}
			if err := c.Words.DeleteWords(ctx, lo.Map(words, func(w entity.Word, _ int) string { return w.ID })); err != nil {
				return err
			}
			cmd.Printf("Deleted %d words. Undo with: vocquiz words restore\n", len(words))
			return nil
		})
	},
}

var wordsRestoreCmd = &cobra.Command{
	Use:   "restore",
	Short: "Bring back the most recently deleted words",
	RunE: func(cmd *cobra.Command, args []string) error {
		input, _ := cmd.Flags().GetString("input")
		if input == "" {
			path, err := trashPath()
			if err != nil {
				return err
			}
			input = path
		}

		return withContainer(cmd, func(ctx context.Context, c *app.Container) error {
			file, err := os.Open(filepath.Clean(input))
			if errors.Is(err, os.ErrNotExist) {
				cmd.Println("Nothing to restore")
				return nil
			}
			if err != nil {
				return err
			}
			defer file.Close()

			words, err := backup.ReadWords(file, time.Now())
			if err != nil {
				return err
			}
			restored, err := c.Words.RestoreWords(ctx, words)
			if err != nil {
				return err
			}
			cmd.Printf("Restored %d of %d words\n", restored, len(words))
			return nil
		})
	},
}

var wordsCategoriesCmd = &cobra.Command{
	Use:     "categories",
	Aliases: []string{"folders", "groups"},
	Short:   "List the categories and folders in use",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withContainer(cmd, func(ctx context.Context, c *app.Container) error {
			groups, err := c.Words.Groups(ctx)
			if err != nil {
				return err
			}
			cmd.Printf("Categories: %s\n", strings.Join(groups.Categories, ", "))
			cmd.Printf("Folders:    %s\n", strings.Join(groups.Folders, ", "))
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(wordsCmd)
	wordsCmd.AddCommand(wordsAddCmd, wordsListCmd, wordsEditCmd, wordsDeleteCmd, wordsRestoreCmd, wordsCategoriesCmd)

	for _, c := range []*cobra.Command{wordsAddCmd, wordsEditCmd} {
		c.Flags().String("category", "", "category, General when empty")
		c.Flags().String("folder", "", "folder, General when empty")
		c.Flags().String("pos", "", "part of speech")
		c.Flags().String("example", "", "example sentence")
		c.Flags().String("emoji", "", "emoji shown with the word")
	}
	wordsEditCmd.Flags().String("english", "", "english text")
	wordsEditCmd.Flags().String("turkish", "", "turkish text; separate synonyms with commas")

	wordsListCmd.Flags().String("filter", "", "CEL filter expression")
	wordsListCmd.Flags().String("order-by", "", "order, e.g. 'level asc, english'")
	wordsListCmd.Flags().String("category", "", "only this category")
	wordsListCmd.Flags().String("folder", "", "only this folder")
	wordsListCmd.Flags().Bool("due", false, "only words due for review")
	wordsListCmd.Flags().Int32("page", 1, "page number")
	wordsListCmd.Flags().Int32("page-size", 0, "words per page, 0 for all")

	wordsRestoreCmd.Flags().StringP("input", "i", "", "backup file to restore words from (default: last deletion)")
}

func printWords(out io.Writer, words []entity.Word, now time.Time) {
	table := newTable(out, "ID", "English", "Turkish", "Category", "Folder", "Level", "Next review")
	for _, w := range words {
		next := "now"
		if !w.IsDue(now) {
			next = w.NextReview.In(now.Location()).Format(time.DateOnly)
		}
		table.Append([]string{
			w.ID, strings.TrimSpace(w.Emoji + " " + w.English), w.Turkish, w.Category, w.Folder,
			strconv.Itoa(w.EffectiveLevel()), next,
		})
	}
	table.Render()
}

func trashPath() (string, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("locate cache directory: %w", err)
	}
	return filepath.Join(dir, "vocquiz", "deleted-words.json"), nil
}

func saveTrash(words []entity.Word) error {
	path, err := trashPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := backup.WriteWords(file, words, time.Now()); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
