package tutor

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/nonsonwune/fe_practice/models"
	"github.com/nonsonwune/fe_practice/tutor/prompts"
)

// ErrDisabled means no API key is configured
var ErrDisabled = errors.New("tutor disabled: no GEMINI_API_KEY configured")

const requestTimeout = 45 * time.Second

// Explainer explains missed questions and suggests what to study next
type Explainer interface {
	Explain(ctx context.Context, q models.Question, chosen string) (string, error)
	StudyPlan(ctx context.Context, missedByCategory map[string]int, total int) (string, error)
}

// generator sends one prompt with one key
type generator interface {
	generate(ctx context.Context, key, prompt string) (string, error)
}

// GeminiTutor is an Explainer backed by the Gemini API
type GeminiTutor struct {
	keys    *KeyManager
	gen     generator
	prompts *prompts.PromptBuilder
	backoff []time.Duration
}

// NewGeminiTutor returns ErrDisabled when keys is empty
func NewGeminiTutor(keys *KeyManager, modelName string) (*GeminiTutor, error) {
	if keys == nil || keys.Len() == 0 {
		return nil, ErrDisabled
	}
	return newTutor(keys, &geminiGenerator{model: modelName, clients: make(map[string]*genai.Client)}), nil
}

func newTutor(keys *KeyManager, gen generator) *GeminiTutor {
	return &GeminiTutor{
		keys:    keys,
		gen:     gen,
		prompts: prompts.NewPromptBuilder(),
		backoff: []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second},
	}
}

func (t *GeminiTutor) Explain(ctx context.Context, q models.Question, chosen string) (string, error) {
	return t.ask(ctx, t.prompts.BuildExplainPrompt(q, chosen))
}

func (t *GeminiTutor) StudyPlan(ctx context.Context, missedByCategory map[string]int, total int) (string, error) {
	return t.ask(ctx, t.prompts.BuildStudyPlanPrompt(missedByCategory, total))
}

func (t *GeminiTutor) ask(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	var lastErr error
	for i, wait := range t.backoff {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
		}

		key := t.keys.GetNextKey()
		text, err := t.gen.generate(ctx, key, prompt)
		if err == nil {
			return text, nil
		}
		lastErr = err
		if isRateLimitError(err) {
			t.keys.MarkKeyFailed(key)
		}
		log.Printf("Tutor attempt %d failed: %v", i+1, err)
		if i == len(t.backoff)-1 {
			break
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(wait):
		}
	}
	return "", fmt.Errorf("all attempts failed, last error: %w", lastErr)
}

func isRateLimitError(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "rate limit") ||
		strings.Contains(msg, "quota exceeded") ||
		strings.Contains(msg, "resource_exhausted")
}

type geminiGenerator struct {
	model   string
	clients map[string]*genai.Client
	mu      sync.Mutex
}

func (g *geminiGenerator) client(ctx context.Context, key string) (*genai.Client, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if c, ok := g.clients[key]; ok {
		return c, nil
	}
	c, err := genai.NewClient(ctx, option.WithAPIKey(key))
	if err != nil {
		return nil, fmt.Errorf("error initializing Gemini client: %w", err)
	}
	g.clients[key] = c
	return c, nil
}

func (g *geminiGenerator) generate(ctx context.Context, key, prompt string) (string, error) {
	client, err := g.client(ctx, key)
	if err != nil {
		return "", err
	}

	model := client.GenerativeModel(g.model)
	temp := float32(0.3)
	model.Temperature = &temp

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("no response candidates")
	}
	return extractText(resp.Candidates[0].Content.Parts)
}

// Close releases every Gemini client
func (t *GeminiTutor) Close() {
	g, ok := t.gen.(*geminiGenerator)
	if !ok {
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, c := range g.clients {
		c.Close()
	}
	g.clients = make(map[string]*genai.Client)
}

func extractText(parts []genai.Part) (string, error) {
	var b strings.Builder
	for _, part := range parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	out := strings.TrimSpace(b.String())
	if out == "" {
		return "", fmt.Errorf("empty response from model")
	}
	return out, nil
}
