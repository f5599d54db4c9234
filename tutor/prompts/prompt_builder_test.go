package prompts

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nonsonwune/fe_practice/models"
)

func TestBuildExplainPrompt(t *testing.T) {
	q := models.Question{
		Number:        "3",
		Category:      "Hydraulics",
		Text:          "Flow rate in the pipe?",
		Media:         "pipe.png",
		Choices:       []string{"1 m3/s", "2 m3/s", "3 m3/s", "4 m3/s"},
		CorrectAnswer: "C",
	}
	pb := NewPromptBuilder()

	p := pb.BuildExplainPrompt(q, "A")
	assert.Contains(t, p, "Category: Hydraulics")
	assert.Contains(t, p, "C) 3 m3/s")
	assert.Contains(t, p, "Correct answer: C) 3 m3/s")
	assert.Contains(t, p, "The student chose: A")
	assert.Contains(t, p, "pipe.png")

	p = pb.BuildExplainPrompt(q, "")
	assert.Contains(t, p, "left this question unanswered")
}

func TestBuildStudyPlanPromptOrdersWeakestFirst(t *testing.T) {
	p := NewPromptBuilder().BuildStudyPlanPrompt(map[string]int{"Statics": 1, "Hydraulics": 4, "Ethics": 1}, 20)
	assert.Contains(t, p, "20 question")
	h := strings.Index(p, "Hydraulics: 4")
	e := strings.Index(p, "Ethics: 1")
	s := strings.Index(p, "Statics: 1")
	assert.True(t, h >= 0 && h < e && e < s)
}
