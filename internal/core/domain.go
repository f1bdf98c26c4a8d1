package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Income  Kind = "income"
	Expense Kind = "expense"
)

const (
	Weekly  Period = "weekly"
	Monthly Period = "monthly"
	Yearly  Period = "yearly"
)

const (
	Low    Priority = "low"
	Medium Priority = "medium"
	High   Priority = "high"
)

type (
	// Kind distinguishes income from expense. Amounts are always stored as
	// positive magnitudes; the sign is implied by the kind.
	Kind string

	// Period is the budgeting window granularity.
	Period string

	// Priority ranks financial goals.
	Priority string

	Date struct {
		time.Time
	}

	Transaction struct {
		ID         string
		OwnerID    string
		Kind       Kind
		Amount     Money
		Category   string // lower-cased on write
		OccurredOn Date
		Note       string
	}

	Budget struct {
		ID          string
		OwnerID     string
		Category    string
		Limit       Money
		Period      Period
		WindowStart Date
		WindowEnd   Date
		Active      bool
	}

	Goal struct {
		ID         string
		OwnerID    string
		Title      string
		Target     Money
		Current    Money
		TargetDate Date // optional, zero when no deadline
		Category   string
		Priority   Priority
		Completed  bool
	}

	// Alert is a durable budget notification produced by the monitor pipeline.
	Alert struct {
		ID        string
		OwnerID   string
		BudgetID  string
		Level     string
		Message   string
		CreatedAt time.Time
	}
)

var (
	ErrInvalidDate     = errors.New("invalid date")
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidKind     = errors.New("invalid transaction kind")
	ErrInvalidPeriod   = errors.New("invalid budget period")
	ErrInvalidPriority = errors.New("invalid goal priority")
	ErrEmptyCategory   = errors.New("empty category")
	ErrEmptyTitle      = errors.New("empty title")
	ErrEmptyOwner      = errors.New("empty owner id")
)

// NormalizeCategory lower-cases and trims a category label so the same
// category never splits into two buckets on case differences.
func NormalizeCategory(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func (k Kind) Valid() bool {
	return k == Income || k == Expense
}

func (p Period) Valid() bool {
	return p == Weekly || p == Monthly || p == Yearly
}

func (p Priority) Valid() bool {
	return p == Low || p == Medium || p == High
}

// NewDate creates a Date at midnight UTC.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// IsEmpty reports whether the date was left unset (optional dates).
func (d Date) IsEmpty() bool {
	return d.IsZero()
}

// MonthKey returns the calendar-month bucket key in YYYY-MM form.
func (d Date) MonthKey() string {
	return d.Format("2006-01")
}

func (t Transaction) Validate() error {
	if strings.TrimSpace(t.OwnerID) == "" {
		return ErrEmptyOwner
	}
	if !t.Kind.Valid() {
		return ErrInvalidKind
	}
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(t.Category) == "" {
		return ErrEmptyCategory
	}
	if err := t.OccurredOn.Validate(); err != nil {
		return err
	}
	if len(t.Note) > 500 {
		return errors.New("note too long (max 500 characters)")
	}
	return nil
}

func (b Budget) Validate() error {
	if strings.TrimSpace(b.OwnerID) == "" {
		return ErrEmptyOwner
	}
	if strings.TrimSpace(b.Category) == "" {
		return ErrEmptyCategory
	}
	if err := b.Limit.Validate(); err != nil {
		return err
	}
	if !b.Period.Valid() {
		return ErrInvalidPeriod
	}
	if err := b.WindowStart.Validate(); err != nil {
		return errors.New("invalid window start: " + err.Error())
	}
	if err := b.WindowEnd.Validate(); err != nil {
		return errors.New("invalid window end: " + err.Error())
	}
	if b.WindowEnd.Before(b.WindowStart.Time) {
		return errors.New("window end must not precede window start")
	}
	return nil
}

func (g Goal) Validate() error {
	if strings.TrimSpace(g.OwnerID) == "" {
		return ErrEmptyOwner
	}
	if len(strings.TrimSpace(g.Title)) == 0 {
		return ErrEmptyTitle
	}
	if len(g.Title) > 200 {
		return errors.New("title too long (max 200 characters)")
	}
	if err := g.Target.Validate(); err != nil {
		return err
	}
	if g.Current.Cents < 0 {
		return ErrInvalidAmount
	}
	if !g.Priority.Valid() {
		return ErrInvalidPriority
	}
	return nil
}

// Funded reports whether the goal has reached its target. Writers set the
// Completed flag from this; the reverse is never enforced, a goal may be
// marked complete manually while underfunded.
func (g Goal) Funded() bool {
	return g.Current.Cents >= g.Target.Cents
}
