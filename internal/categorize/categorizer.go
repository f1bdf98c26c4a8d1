// Package categorize suggests a category for a transaction description.
//
// Two implementations exist: a deterministic keyword matcher that is always
// available, and a Gemini-backed one that falls back to the rules on any
// model failure. Nothing outside this package depends on which one is active.
package categorize

import (
	"context"
	"fmt"
	"strings"
	"time"

	"fintrack/internal/cache"
	"fintrack/internal/core"
)

// Result is a category suggestion with the rationale behind it.
type Result struct {
	Category   string  `json:"category"`
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning"`
}

// Categorizer suggests a category from a free-text description, the amount,
// and the caller's recent transactions.
type Categorizer interface {
	Categorize(ctx context.Context, description string, amountCents int64, recent []core.Transaction) (Result, error)
}

// Keyword rules, checked in order; first hit wins.
var keywordRules = []struct {
	category string
	keywords []string
}{
	{"groceries", []string{"supermarket", "grocery", "groceries", "market", "aldi", "lidl", "tesco"}},
	{"rent", []string{"rent", "landlord", "lease"}},
	{"utilities", []string{"electric", "gas bill", "water", "internet", "broadband", "phone bill", "utility"}},
	{"transport", []string{"fuel", "petrol", "bus", "train", "taxi", "uber", "parking", "transit"}},
	{"insurance", []string{"insurance", "premium", "policy"}},
	{"entertainment", []string{"cinema", "netflix", "spotify", "concert", "game", "streaming"}},
	{"food", []string{"restaurant", "cafe", "coffee", "takeaway", "pizza", "lunch", "dinner"}},
	{"shopping", []string{"amazon", "clothing", "shoes", "mall", "store"}},
	{"travel", []string{"flight", "hotel", "airbnb", "booking", "holiday"}},
	{"health", []string{"pharmacy", "doctor", "dentist", "hospital", "gym"}},
	{"subscriptions", []string{"subscription", "membership"}},
	{"salary", []string{"salary", "payroll", "wages"}},
	{"debt", []string{"loan", "credit card", "repayment", "mortgage"}},
}

const fallbackCategory = "other"

// RuleCategorizer is the deterministic keyword implementation.
type RuleCategorizer struct{}

func NewRuleCategorizer() *RuleCategorizer {
	return &RuleCategorizer{}
}

func (c *RuleCategorizer) Categorize(_ context.Context, description string, _ int64, recent []core.Transaction) (Result, error) {
	desc := strings.ToLower(description)
	for _, rule := range keywordRules {
		for _, kw := range rule.keywords {
			if strings.Contains(desc, kw) {
				return Result{
					Category:   rule.category,
					Confidence: 0.8,
					Reasoning:  fmt.Sprintf("description matches keyword %q", kw),
				}, nil
			}
		}
	}

	// No keyword hit: reuse the caller's most frequent recent category.
	if top := mostFrequentCategory(recent); top != "" {
		return Result{
			Category:   top,
			Confidence: 0.4,
			Reasoning:  "no keyword match; most frequent recent category",
		}, nil
	}

	return Result{
		Category:   fallbackCategory,
		Confidence: 0.2,
		Reasoning:  "no keyword match and no history",
	}, nil
}

func mostFrequentCategory(txs []core.Transaction) string {
	counts := make(map[string]int)
	best, bestCount := "", 0
	for _, tx := range txs {
		cat := core.NormalizeCategory(tx.Category)
		if cat == "" {
			continue
		}
		counts[cat]++
		if counts[cat] > bestCount {
			best, bestCount = cat, counts[cat]
		}
	}
	return best
}

// Cached memoizes another categorizer keyed on the normalized description.
type Cached struct {
	inner Categorizer
	memo  *cache.LRU[Result]
}

func NewCached(inner Categorizer) *Cached {
	return NewCachedSize(inner, 500)
}

// NewCachedSize sets an explicit capacity for the memo cache.
func NewCachedSize(inner Categorizer, size int) *Cached {
	if size < 1 {
		size = 1
	}
	return &Cached{
		inner: inner,
		memo:  cache.New[Result](size, 12*time.Hour),
	}
}

func (c *Cached) Categorize(ctx context.Context, description string, amountCents int64, recent []core.Transaction) (Result, error) {
	key := strings.ToLower(strings.TrimSpace(description))
	if r, ok := c.memo.Get(key); ok {
		return r, nil
	}
	r, err := c.inner.Categorize(ctx, description, amountCents, recent)
	if err != nil {
		return Result{}, err
	}
	c.memo.Set(key, r)
	return r, nil
}
