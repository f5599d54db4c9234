package tutor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nonsonwune/fe_practice/models"
)

type scriptedGenerator struct {
	errs  []error
	keys  []string
	reply string
}

func (g *scriptedGenerator) generate(_ context.Context, key, _ string) (string, error) {
	g.keys = append(g.keys, key)
	if n := len(g.keys) - 1; n < len(g.errs) && g.errs[n] != nil {
		return "", g.errs[n]
	}
	return g.reply, nil
}

func quickTutor(km *KeyManager, gen generator) *GeminiTutor {
	t := newTutor(km, gen)
	t.backoff = []time.Duration{0, 0, 0}
	return t
}

func sampleQuestion() models.Question {
	return models.Question{
		Number:        "7",
		Category:      "Statics",
		Text:          "Find the reaction at A.",
		Choices:       []string{"10 kN", "20 kN", "30 kN", "40 kN"},
		CorrectAnswer: "B",
	}
}

func TestKeyManagerRotates(t *testing.T) {
	km := NewKeyManager("k1", "", "k2", "k1")
	require.Equal(t, 2, km.Len())
	assert.Equal(t, "k1", km.GetNextKey())
	assert.Equal(t, "k2", km.GetNextKey())
	assert.Equal(t, "k1", km.GetNextKey())
}

func TestKeyManagerSkipsFailedKeyUntilCooldown(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	km := NewKeyManager("k1", "k2")
	km.now = func() time.Time { return now }

	km.MarkKeyFailed("k1")
	assert.Equal(t, "k2", km.GetNextKey())
	assert.Equal(t, "k2", km.GetNextKey())

	now = now.Add(2 * time.Minute)
	assert.Equal(t, "k1", km.GetNextKey())
}

func TestKeyManagerAllFailedStillReturnsKey(t *testing.T) {
	km := NewKeyManager("k1")
	km.MarkKeyFailed("k1")
	assert.Equal(t, "k1", km.GetNextKey())
	assert.Equal(t, "", NewKeyManager().GetNextKey())
}

func TestKeysFromEnv(t *testing.T) {
	t.Setenv("GEMINI_API_KEY_1", "one")
	t.Setenv("GEMINI_API_KEY_2", "")
	t.Setenv("GEMINI_API_KEY_3", "three")
	t.Setenv("GEMINI_API_KEY_4", "")
	t.Setenv("GEMINI_API_KEY", "fallback")
	assert.Equal(t, []string{"one", "three", "fallback"}, KeysFromEnv())
}

func TestNewGeminiTutorWithoutKeys(t *testing.T) {
	_, err := NewGeminiTutor(NewKeyManager(), "gemini-1.5-flash")
	assert.ErrorIs(t, err, ErrDisabled)
}

func TestExplainRetriesAndRotatesOnRateLimit(t *testing.T) {
	gen := &scriptedGenerator{
		errs:  []error{errors.New("googleapi: Error 429: RESOURCE_EXHAUSTED")},
		reply: "Sum moments about B.",
	}
	tu := quickTutor(NewKeyManager("k1", "k2"), gen)

	text, err := tu.Explain(context.Background(), sampleQuestion(), "A")
	require.NoError(t, err)
	assert.Equal(t, "Sum moments about B.", text)
	assert.Equal(t, []string{"k1", "k2"}, gen.keys)
}

func TestExplainGivesUpAfterAllAttempts(t *testing.T) {
	boom := errors.New("server unavailable")
	gen := &scriptedGenerator{errs: []error{boom, boom, boom}}
	tu := quickTutor(NewKeyManager("k1"), gen)

	_, err := tu.Explain(context.Background(), sampleQuestion(), "")
	assert.ErrorIs(t, err, boom)
	assert.Len(t, gen.keys, 3)
}

func TestExplainHonorsCancelledContext(t *testing.T) {
	gen := &scriptedGenerator{reply: "unused"}
	tu := quickTutor(NewKeyManager("k1"), gen)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := tu.StudyPlan(ctx, map[string]int{"Statics": 2}, 10)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, gen.keys)
}

func TestExtractText(t *testing.T) {
	text, err := extractText([]genai.Part{genai.Text("  Take moments "), genai.Text("about A.\n")})
	require.NoError(t, err)
	assert.Equal(t, "Take moments about A.", text)

	_, err = extractText([]genai.Part{genai.Text("   ")})
	assert.Error(t, err)
}

func TestIsRateLimitError(t *testing.T) {
	assert.True(t, isRateLimitError(errors.New("Quota exceeded for project")))
	assert.True(t, isRateLimitError(errors.New("rate limit hit")))
	assert.False(t, isRateLimitError(errors.New("bad request")))
}
