package prompts

import (
	"fmt"
	"sort"
	"strings"

	"github.com/nonsonwune/fe_practice/models"
)

// PromptBuilder handles the construction of prompts for the LLM
type PromptBuilder struct {
	examName string
}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{examName: "FE (Fundamentals of Engineering) Civil"}
}

// BuildExplainPrompt asks for an explanation of one missed question
func (pb *PromptBuilder) BuildExplainPrompt(q models.Question, chosen string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are a tutor helping a student prepare for the %s exam.\n\n", pb.examName)
	fmt.Fprintf(&b, "Category: %s\n", q.Category)
	fmt.Fprintf(&b, "Question: %s\n", q.Text)
	if q.Media != "" {
		fmt.Fprintf(&b, "(The question refers to a figure: %s)\n", q.Media)
	}
	b.WriteString("Choices:\n")
	for i, c := range q.Choices {
		fmt.Fprintf(&b, "%s) %s\n", models.ChoiceLetter(i), c)
	}
	fmt.Fprintf(&b, "Correct answer: %s) %s\n", q.CorrectAnswer, q.CorrectChoice())
	if chosen == "" {
		b.WriteString("The student left this question unanswered.\n")
	} else {
		fmt.Fprintf(&b, "The student chose: %s\n", chosen)
	}
	b.WriteString(`
Requirements:
1. Explain step by step how to reach the correct answer
2. If the student chose a wrong answer, explain the likely mistake
3. Keep it under 200 words and use plain text formulas

Explanation:`)
	return b.String()
}

// BuildStudyPlanPrompt asks for advice based on missed questions per category
func (pb *PromptBuilder) BuildStudyPlanPrompt(missedByCategory map[string]int, total int) string {
	categories := make([]string, 0, len(missedByCategory))
	for c := range missedByCategory {
		categories = append(categories, c)
	}
	sort.Slice(categories, func(i, j int) bool {
		if missedByCategory[categories[i]] == missedByCategory[categories[j]] {
			return categories[i] < categories[j]
		}
		return missedByCategory[categories[i]] > missedByCategory[categories[j]]
	})

	var b strings.Builder
	fmt.Fprintf(&b, "A student just finished a %d question %s practice exam.\n", total, pb.examName)
	b.WriteString("Questions missed by category:\n")
	for _, c := range categories {
		fmt.Fprintf(&b, "- %s: %d\n", c, missedByCategory[c])
	}
	b.WriteString(`
Suggest a short study plan:
1. Prioritize the weakest categories first
2. Name the key topics to review in each
3. Keep the plan concise (bullet points)

Study Plan:`)
	return b.String()
}
