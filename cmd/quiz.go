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
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/eslsoft/vocquiz/internal/app"
	"github.com/eslsoft/vocquiz/internal/entity"
	"github.com/eslsoft/vocquiz/internal/usecase"
	"github.com/eslsoft/vocquiz/internal/usecase/quiz"
)

const (
	quizModeKey  = "quiz.mode"
	quizCountKey = "quiz.question_count"
)

var quizCmd = &cobra.Command{
	Use:   "quiz",
	Short: "Take a quiz",
	Long: `Take a quiz built from your words, due and weak words first. Type the answer, or the
option number for multiple choice; an empty answer skips the question. With --recover the
result counts for yesterday, mending a streak broken by a single missed day.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		category, _ := flags.GetString("category")
		folder, _ := flags.GetString("folder")
		recoverStreak, _ := flags.GetBool("recover")
		noReview, _ := flags.GetBool("no-review")

		return withContainer(cmd, func(ctx context.Context, c *app.Container) error {
			in := bufio.NewScanner(cmd.InOrStdin())
			out := cmd.OutOrStdout()

			if recoverStreak {
				status, err := c.History.Streak(ctx)
				if err != nil {
					return err
				}
				if !status.CanRecover {
					return entity.ErrNothingToRecover
				}
				fmt.Fprintf(out, "Recovery quiz: finish it to restore a %d day streak.\n", status.PotentialStreak)
			}

			session := c.Quiz.NewSession()
			err := c.Quiz.Start(ctx, session, quiz.StartOptions{
				Mode:     entity.ParseQuizMode(viper.GetString(quizModeKey)),
				Category: category,
				Folder:   folder,
				Count:    viper.GetInt(quizCountKey),
			})
			if errors.Is(err, entity.ErrNotEnoughWords) {
				return fmt.Errorf("%w; add more words or widen --category/--folder", err)
			}
			if err != nil {
				return err
			}

			if err := runSession(in, out, session); err != nil {
				return err
			}
			done, err := c.Quiz.Complete(ctx, session, usecase.CompleteOptions{Recover: recoverStreak})
			if err != nil {
				return err
			}
			printCompletion(out, done)

			for !noReview && len(done.Result.WrongAnswers) > 0 {
				if !confirm(in, out, fmt.Sprintf("Review %d wrong answers?", len(done.Result.WrongAnswers))) {
					break
				}
				if err := c.Quiz.StartReview(ctx, session); err != nil {
					return err
				}
				if err := runSession(in, out, session); err != nil {
					return err
				}
				if done, err = c.Quiz.Complete(ctx, session, usecase.CompleteOptions{}); err != nil {
					return err
				}
				printCompletion(out, done)
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(quizCmd)

	quizCmd.Flags().String("mode", "", "mixed, multiple-choice, fill-in, listening or reverse")
	quizCmd.Flags().String("category", entity.AllGroups, "only words of this category")
	quizCmd.Flags().String("folder", entity.AllGroups, "only words of this folder")
	quizCmd.Flags().Int("count", 0, "number of questions")
	quizCmd.Flags().Bool("recover", false, "count this quiz for yesterday to restore the streak")
	quizCmd.Flags().Bool("no-review", false, "do not offer a review round")

	bindFlagToViper(quizModeKey, quizCmd.Flags().Lookup("mode"))
	bindFlagToViper(quizCountKey, quizCmd.Flags().Lookup("count"))
}

func runSession(in *bufio.Scanner, out io.Writer, s *quiz.Session) error {
	if s.IsReview() {
		fmt.Fprintln(out, "Review round: results are not saved.")
	}
	for {
		q, ok := s.Current()
		if !ok {
			return nil
		}
		fmt.Fprintf(out, "\n[%d/%d] %s\n", s.Index()+1, s.Total(), questionText(q))
		for i, opt := range q.Options {
			fmt.Fprintf(out, "  %d) %s\n", i+1, opt)
		}
		fmt.Fprint(out, "> ")

		if !in.Scan() {
			if err := in.Err(); err != nil {
				return err
			}
			return io.ErrUnexpectedEOF
		}
		answer := resolveOption(q, strings.TrimSpace(in.Text()))
		if answer == "" {
			if err := s.Skip(); err != nil {
				return err
			}
			fmt.Fprintf(out, "Skipped. Answer: %s\n", q.CorrectAnswer)
			continue
		}

		correct := s.Check(q.ID, answer)
		if err := s.Submit(q.ID, answer); err != nil {
			return err
		}
		if correct {
			fmt.Fprintln(out, "Correct!")
		} else {
			fmt.Fprintf(out, "Wrong. Answer: %s\n", q.CorrectAnswer)
		}
	}
}

func questionText(q entity.Question) string {
	emoji := ""
	if q.Word.Emoji != "" {
		emoji = q.Word.Emoji + " "
	}
	switch q.Type {
	case entity.QuestionMultipleChoice:
		return fmt.Sprintf("%sWhat does %q mean?", emoji, q.Prompt)
	case entity.QuestionReverse:
		return fmt.Sprintf("%sHow do you say %q in English?", emoji, q.Prompt)
	case entity.QuestionListening:
		return fmt.Sprintf("Listen and translate: %q", q.Prompt)
	default:
		return fmt.Sprintf("%sTranslate %q into Turkish", emoji, q.Prompt)
	}
}

// resolveOption maps an option number to its text for multiple-choice questions.
func resolveOption(q entity.Question, answer string) string {
	if q.Type != entity.QuestionMultipleChoice {
		return answer
	}
	if n, err := strconv.Atoi(answer); err == nil && n >= 1 && n <= len(q.Options) {
		return q.Options[n-1]
	}
	return answer
}

func confirm(in *bufio.Scanner, out io.Writer, question string) bool {
	fmt.Fprintf(out, "\n%s [y/N] ", question)
	if !in.Scan() {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(in.Text())) {
	case "y", "yes", "e", "evet":
		return true
	default:
		return false
	}
}

func printCompletion(out io.Writer, done *usecase.Completion) {
	r := done.Result
	fmt.Fprintf(out, "\nScore: %d/%d (%d%%)\n", r.Correct, r.Total, r.Percentage)
	for _, wa := range r.WrongAnswers {
		answer := wa.UserAnswer
		if answer == entity.SkippedAnswer {
			answer = "(skipped)"
		}
		fmt.Fprintf(out, "  %s: you said %s, answer %s\n", wa.Question.Prompt, answer, wa.Question.CorrectAnswer)
	}
	if done.Entry == nil {
		return
	}
	fmt.Fprintf(out, "Updated %d words. Streak: %d days\n", done.Graded, done.Streak.Streak)
}
