package categorize

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"google.golang.org/genai"

	"fintrack/internal/core"
)

// DefaultModelName is the Gemini model used for categorization.
const DefaultModelName = "gemini-2.0-flash"

// GeminiCategorizer asks a Gemini model for a category and falls back to the
// rule categorizer whenever the model is unavailable or returns something
// unusable. Core logic never observes the difference.
type GeminiCategorizer struct {
	model    string
	fallback Categorizer
}

func NewGeminiCategorizer(model string, fallback Categorizer) *GeminiCategorizer {
	if model == "" {
		model = DefaultModelName
	}
	if fallback == nil {
		fallback = NewRuleCategorizer()
	}
	return &GeminiCategorizer{model: model, fallback: fallback}
}

func (c *GeminiCategorizer) Categorize(ctx context.Context, description string, amountCents int64, recent []core.Transaction) (Result, error) {
	result, err := c.askModel(ctx, description, amountCents, recent)
	if err != nil {
		slog.WarnContext(ctx, "Model categorization failed, using rule fallback",
			"error", err, "description", description)
		return c.fallback.Categorize(ctx, description, amountCents, recent)
	}
	return result, nil
}

func (c *GeminiCategorizer) askModel(ctx context.Context, description string, amountCents int64, recent []core.Transaction) (Result, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return Result{}, fmt.Errorf("create genai client: %w", err)
	}

	prompt := buildPrompt(description, amountCents, recent)
	contents := []*genai.Content{
		{
			Role:  "user",
			Parts: []*genai.Part{{Text: prompt}},
		},
	}

	resp, err := client.Models.GenerateContent(ctx, c.model, contents, nil)
	if err != nil {
		return Result{}, fmt.Errorf("generate content: %w", err)
	}
	raw := resp.Text()
	if raw == "" {
		return Result{}, fmt.Errorf("empty response from model")
	}

	var result Result
	if err := json.Unmarshal([]byte(cleanModelJSON(raw)), &result); err != nil {
		return Result{}, fmt.Errorf("unmarshal model JSON: %w\nraw response: %s", err, raw)
	}
	result.Category = core.NormalizeCategory(result.Category)
	if result.Category == "" {
		return Result{}, fmt.Errorf("model returned empty category")
	}
	if result.Confidence <= 0 || result.Confidence > 1 {
		result.Confidence = 0.5
	}
	return result, nil
}

func buildPrompt(description string, amountCents int64, recent []core.Transaction) string {
	var b strings.Builder
	b.WriteString("You are a personal-finance transaction categorizer.\n\n")
	b.WriteString("Task:\n")
	b.WriteString("- Assign the single best category to the transaction below.\n")
	b.WriteString("- Output STRICT JSON only (no comments, no extra text).\n")
	b.WriteString("- The object must have exactly these fields:\n")
	b.WriteString("  \"category\": string, lower-case\n")
	b.WriteString("  \"confidence\": number between 0 and 1\n")
	b.WriteString("  \"reasoning\": short string\n\n")
	fmt.Fprintf(&b, "Transaction: %q, amount %.2f\n", description, float64(amountCents)/100)

	if len(recent) > 0 {
		b.WriteString("\nRecent categories used by this person:\n")
		seen := make(map[string]bool)
		for _, tx := range recent {
			cat := core.NormalizeCategory(tx.Category)
			if cat == "" || seen[cat] {
				continue
			}
			seen[cat] = true
			fmt.Fprintf(&b, "- %s\n", cat)
		}
	}

	b.WriteString("\nReturn ONLY valid raw JSON.\n")
	b.WriteString("Do NOT wrap the response in code fences.\n")
	b.WriteString("Output must begin with \"{\" and end with \"}\".\n")
	return b.String()
}

// cleanModelJSON strips Markdown fences when the model ignores instructions.
func cleanModelJSON(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		} else {
			return s
		}
		s = strings.TrimSpace(s)
	}
	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}
