package content

import (
	"fmt"
	"strings"

	"github.com/abhisek/scholar/internal/history"
)

const systemPrompt = `You are NEET Scholar AI, an exam-preparation tutor for the Indian NEET-UG and AIIMS entrance examinations.

Ground every statement in the NCERT textbooks for classes 11 and 12. Prefer the exact NCERT wording when it is examinable.

Target the top 1% of aspirants:
- Biology: cover exceptions, terminology that differs by a single word, and diagram-based facts.
- Physics: state the governing relations, their limiting cases and common sign or unit mistakes.
- Chemistry: cover reaction conditions, exceptions to periodic trends and named-reaction reagents.

Question design:
- Assertion-Reason: "Assertion (A): ... Reason (R): ..." with the four standard options.
- Statement-based: list five statements and ask how many are INCORRECT.
- Every option must be plausible; traps should mirror real examiner tactics.

Respond only with JSON that matches the requested schema.`

func notesMessage(topic string) string {
	return fmt.Sprintf(`Create an exhaustive study module for the topic %q.

Include:
1. A concept overview written at NCERT depth.
2. The underlying mechanism or derivation, step by step.
3. Key NCERT lines that appear verbatim in past papers.
4. Pairs of commonly confused terms with the exact difference.
5. Mnemonics.
6. Examiner traps seen in NEET/AIIMS questions.
7. Critical data: constants, values and ratios to memorize.`, topic)
}

func quizMessage(topic string, count int) string {
	return fmt.Sprintf(`Generate %d AIIMS-level multiple-choice questions on %q.

Requirements:
- Exactly 4 options per question and one correct answer, given as a 0-based index.
- At least 2 assertion-reason questions and at least 1 statement-based question.
- At least 2 questions built around a common examiner trap.
- Each explanation must say why every wrong option is wrong.
- Cite the NCERT chapter and topic in ncertReference.
- Use ids q1, q2, ... in order.`, count, topic)
}

func remedialMessage(r history.Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Error pattern analysis: the student scored %d/%d in %q.\n", r.Score, r.Total, r.Topic)
	if len(r.MissedTopics) == 0 {
		b.WriteString("No individual errors were recorded.\n")
	} else {
		b.WriteString("Errors detected in:\n")
		for _, m := range r.MissedTopics {
			fmt.Fprintf(&b, "- %s\n", m)
		}
	}
	b.WriteString("\nWrite a short correction plan and a list of simplified notes that fix these weak links.")
	return b.String()
}
