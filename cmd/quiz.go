package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/scholar/internal/history"
	"github.com/abhisek/scholar/internal/quiz"
	"github.com/abhisek/scholar/internal/ui/components"
)

var quizCmd = &cobra.Command{
	Use:   "quiz",
	Short: "Take a quiz on one topic in line mode",
	RunE: func(cmd *cobra.Command, args []string) error {
		topic, _ := cmd.Flags().GetString("topic")
		count, _ := cmd.Flags().GetInt("count")
		if strings.TrimSpace(topic) == "" {
			return errors.New("--topic is required")
		}

		d, err := setup(cmd, setupOpts{content: true})
		if err != nil {
			return err
		}
		defer d.Close()

		ctx := cmd.Context()
		var recordErr error
		sess := quiz.NewSession(topic, quiz.WithOnFinish(func(r history.Result) {
			rctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			recordErr = d.history.Append(rctx, r)
		}))

		fmt.Fprintf(cmd.OutOrStdout(), "Generating a quiz on %s...\n", topic)
		questions, err := d.content.GenerateQuiz(ctx, topic, count)
		if err != nil {
			sess.Fail(err)
			return fmt.Errorf("generate quiz: %w", err)
		}
		if err := sess.Load(questions); err != nil {
			return fmt.Errorf("load quiz: %w", err)
		}

		if err := playQuiz(sess, cmd.InOrStdin(), cmd.OutOrStdout()); err != nil {
			return err
		}
		if recordErr != nil {
			return fmt.Errorf("record result: %w", recordErr)
		}
		return nil
	},
}

// playQuiz runs sess to completion reading answers line by line. Answers
// are option numbers or letters; blank lines are asked again. EOF stops the
// quiz without recording.
func playQuiz(sess *quiz.Session, in io.Reader, out io.Writer) error {
	sc := bufio.NewScanner(in)
	for {
		q, ok := sess.Current()
		if !ok {
			break
		}
		state := sess.State()
		fmt.Fprintf(out, "\nQ%d/%d [%s] %s\n", state.Index+1, sess.Len(), q.Category.DisplayName(), q.Prompt)
		for i, opt := range q.Options {
			fmt.Fprintf(out, "  %s) %s\n", optionLabel(i), opt)
		}

		for {
			fmt.Fprint(out, "> ")
			if !sc.Scan() {
				if err := sc.Err(); err != nil {
					return err
				}
				return errors.New("quiz abandoned")
			}
			opt, ok := parseOption(sc.Text(), len(q.Options))
			if !ok {
				continue
			}
			if err := sess.Select(opt); err != nil {
				return err
			}
			break
		}

		if _, err := sess.Advance(); err != nil {
			return err
		}
		chosen, _ := sess.Selected()
		if q.IsCorrect(chosen) {
			fmt.Fprintf(out, "Correct (+%d)\n", quiz.MarksCorrect)
		} else {
			fmt.Fprintf(out, "Incorrect (%d). Answer: %s) %s\n", quiz.MarksWrong, optionLabel(q.Correct), q.Options[q.Correct])
		}
		fmt.Fprintln(out, q.Explanation)
		if q.Reference != "" {
			fmt.Fprintln(out, "NCERT:", q.Reference)
		}
		if _, err := sess.Advance(); err != nil {
			return err
		}
	}

	r, ok := sess.Finish()
	if !ok {
		return fmt.Errorf("quiz ended in state %s", sess.State())
	}
	b := sess.Breakdown()
	fmt.Fprintf(out, "\nScore: %d/%d  Accuracy: %d%%  (%d correct, %d wrong, %d unanswered)\n",
		r.Score, r.Total, b.Accuracy(), b.Correct, b.Wrong, b.Unanswered)
	for _, m := range r.MissedTopics {
		fmt.Fprintln(out, "  missed:", m)
	}
	return nil
}

func optionLabel(i int) string {
	if i < len(components.OptionLabels) {
		return components.OptionLabels[i]
	}
	return strconv.Itoa(i + 1)
}

// parseOption accepts "2" or "b" style answers.
func parseOption(s string, n int) (int, bool) {
	s = strings.TrimSpace(strings.ToUpper(s))
	if s == "" {
		return 0, false
	}
	if i, err := strconv.Atoi(s); err == nil {
		return i - 1, i >= 1 && i <= n
	}
	for i, l := range components.OptionLabels {
		if s == l && i < n {
			return i, true
		}
	}
	return 0, false
}

func init() {
	quizCmd.Flags().StringP("topic", "t", "", "Syllabus topic to quiz on")
	quizCmd.Flags().IntP("count", "n", 0, "Number of questions (default from config)")
}
