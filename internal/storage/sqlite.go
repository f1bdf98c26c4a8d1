package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"fintrack/internal/core"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *SQLiteRepository) CreateTransaction(ctx context.Context, tx core.Transaction) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO transactions (id, owner_id, kind, amount_cents, category, occurred_on, note)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		tx.ID, tx.OwnerID, string(tx.Kind), tx.Amount.Cents, tx.Category,
		dateToString(tx.OccurredOn), tx.Note)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved",
		"id", tx.ID,
		"owner_id", tx.OwnerID,
		"kind", tx.Kind,
		"amount_cents", tx.Amount.Cents,
		"category", tx.Category)
	return nil
}

func (r *SQLiteRepository) GetTransaction(ctx context.Context, ownerID, id string) (core.Transaction, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, owner_id, kind, amount_cents, category, occurred_on, note
		FROM transactions
		WHERE id = ? AND owner_id = ? AND deleted_at IS NULL`,
		id, ownerID)
	return scanTransaction(row)
}

func (r *SQLiteRepository) ListTransactions(ctx context.Context, ownerID string, filter TransactionFilter) ([]core.Transaction, error) {
	query := strings.Builder{}
	query.WriteString(`
		SELECT id, owner_id, kind, amount_cents, category, occurred_on, note
		FROM transactions
		WHERE owner_id = ? AND deleted_at IS NULL`)
	args := []any{ownerID}

	if filter.Category != "" {
		query.WriteString(" AND category = ?")
		args = append(args, core.NormalizeCategory(filter.Category))
	}
	if filter.Kind != "" {
		query.WriteString(" AND kind = ?")
		args = append(args, string(filter.Kind))
	}
	if !filter.From.IsEmpty() {
		query.WriteString(" AND occurred_on >= ?")
		args = append(args, dateToString(filter.From))
	}
	if !filter.To.IsEmpty() {
		query.WriteString(" AND occurred_on <= ?")
		args = append(args, dateToString(filter.To))
	}
	query.WriteString(" ORDER BY occurred_on DESC, id")
	if filter.Limit > 0 {
		query.WriteString(" LIMIT ?")
		args = append(args, filter.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var txs []core.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txs = append(txs, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return txs, nil
}

func (r *SQLiteRepository) UpdateTransaction(ctx context.Context, tx core.Transaction) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE transactions
		SET kind = ?, amount_cents = ?, category = ?, occurred_on = ?, note = ?
		WHERE id = ? AND owner_id = ? AND deleted_at IS NULL`,
		string(tx.Kind), tx.Amount.Cents, tx.Category, dateToString(tx.OccurredOn), tx.Note,
		tx.ID, tx.OwnerID)
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	return requireRowAffected(res)
}

func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, ownerID, id string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE transactions
		SET deleted_at = ?
		WHERE id = ? AND owner_id = ? AND deleted_at IS NULL`,
		time.Now().UTC().Format(time.RFC3339), id, ownerID)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	return requireRowAffected(res)
}

func (r *SQLiteRepository) CreateBudget(ctx context.Context, b core.Budget) error {
	if b.Active {
		var count int
		err := r.db.QueryRowContext(ctx, `
			SELECT COUNT(*) FROM budgets
			WHERE owner_id = ? AND category = ? AND period = ? AND active = 1`,
			b.OwnerID, b.Category, string(b.Period)).Scan(&count)
		if err != nil {
			return fmt.Errorf("check active budget: %w", err)
		}
		if count > 0 {
			return ErrBudgetExists
		}
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO budgets (id, owner_id, category, limit_cents, period, window_start, window_end, active)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		b.ID, b.OwnerID, b.Category, b.Limit.Cents, string(b.Period),
		dateToString(b.WindowStart), dateToString(b.WindowEnd), boolToInt(b.Active))
	if err != nil {
		return fmt.Errorf("insert budget: %w", err)
	}

	slog.InfoContext(ctx, "Budget saved",
		"id", b.ID,
		"owner_id", b.OwnerID,
		"category", b.Category,
		"limit_cents", b.Limit.Cents,
		"period", b.Period)
	return nil
}

func (r *SQLiteRepository) GetBudget(ctx context.Context, ownerID, id string) (core.Budget, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, owner_id, category, limit_cents, period, window_start, window_end, active
		FROM budgets
		WHERE id = ? AND owner_id = ?`,
		id, ownerID)
	return scanBudget(row)
}

func (r *SQLiteRepository) ListBudgets(ctx context.Context, ownerID string, activeOnly bool) ([]core.Budget, error) {
	query := `
		SELECT id, owner_id, category, limit_cents, period, window_start, window_end, active
		FROM budgets
		WHERE owner_id = ?`
	if activeOnly {
		query += " AND active = 1"
	}
	query += " ORDER BY category, period"

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	defer rows.Close()

	var budgets []core.Budget
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, err
		}
		budgets = append(budgets, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate budgets: %w", err)
	}
	return budgets, nil
}

func (r *SQLiteRepository) ListAllActiveBudgets(ctx context.Context) ([]core.Budget, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, owner_id, category, limit_cents, period, window_start, window_end, active
		FROM budgets
		WHERE active = 1
		ORDER BY owner_id, category`)
	if err != nil {
		return nil, fmt.Errorf("list all active budgets: %w", err)
	}
	defer rows.Close()

	var budgets []core.Budget
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, err
		}
		budgets = append(budgets, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate budgets: %w", err)
	}
	return budgets, nil
}

func (r *SQLiteRepository) UpdateBudget(ctx context.Context, b core.Budget) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE budgets
		SET category = ?, limit_cents = ?, period = ?, window_start = ?, window_end = ?, active = ?
		WHERE id = ? AND owner_id = ?`,
		b.Category, b.Limit.Cents, string(b.Period),
		dateToString(b.WindowStart), dateToString(b.WindowEnd), boolToInt(b.Active),
		b.ID, b.OwnerID)
	if err != nil {
		return fmt.Errorf("update budget: %w", err)
	}
	return requireRowAffected(res)
}

func (r *SQLiteRepository) DeleteBudget(ctx context.Context, ownerID, id string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE budgets SET active = 0 WHERE id = ? AND owner_id = ? AND active = 1`,
		id, ownerID)
	if err != nil {
		return fmt.Errorf("deactivate budget: %w", err)
	}
	return requireRowAffected(res)
}

func (r *SQLiteRepository) CreateGoal(ctx context.Context, g core.Goal) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO goals (id, owner_id, title, target_cents, current_cents, target_date, category, priority, completed)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		g.ID, g.OwnerID, g.Title, g.Target.Cents, g.Current.Cents,
		dateToString(g.TargetDate), g.Category, string(g.Priority), boolToInt(g.Completed))
	if err != nil {
		return fmt.Errorf("insert goal: %w", err)
	}

	slog.InfoContext(ctx, "Goal saved",
		"id", g.ID,
		"owner_id", g.OwnerID,
		"title", g.Title,
		"target_cents", g.Target.Cents)
	return nil
}

func (r *SQLiteRepository) GetGoal(ctx context.Context, ownerID, id string) (core.Goal, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, owner_id, title, target_cents, current_cents, target_date, category, priority, completed
		FROM goals
		WHERE id = ? AND owner_id = ?`,
		id, ownerID)
	return scanGoal(row)
}

func (r *SQLiteRepository) ListGoals(ctx context.Context, ownerID string) ([]core.Goal, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, owner_id, title, target_cents, current_cents, target_date, category, priority, completed
		FROM goals
		WHERE owner_id = ?
		ORDER BY completed, priority DESC, title`,
		ownerID)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	defer rows.Close()

	var goals []core.Goal
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		goals = append(goals, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate goals: %w", err)
	}
	return goals, nil
}

func (r *SQLiteRepository) UpdateGoal(ctx context.Context, g core.Goal) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE goals
		SET title = ?, target_cents = ?, current_cents = ?, target_date = ?, category = ?, priority = ?, completed = ?
		WHERE id = ? AND owner_id = ?`,
		g.Title, g.Target.Cents, g.Current.Cents, dateToString(g.TargetDate),
		g.Category, string(g.Priority), boolToInt(g.Completed),
		g.ID, g.OwnerID)
	if err != nil {
		return fmt.Errorf("update goal: %w", err)
	}
	return requireRowAffected(res)
}

func (r *SQLiteRepository) DeleteGoal(ctx context.Context, ownerID, id string) error {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM goals WHERE id = ? AND owner_id = ?`,
		id, ownerID)
	if err != nil {
		return fmt.Errorf("delete goal: %w", err)
	}
	return requireRowAffected(res)
}

func (r *SQLiteRepository) InsertAlert(ctx context.Context, a core.Alert, dedupWindow time.Duration) (bool, error) {
	cutoff := a.CreatedAt.Add(-dedupWindow).UTC().Format(time.RFC3339)

	var count int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM alerts
		WHERE budget_id = ? AND level = ? AND created_at > ?`,
		a.BudgetID, a.Level, cutoff).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check duplicate alert: %w", err)
	}
	if count > 0 {
		slog.DebugContext(ctx, "Alert suppressed by dedup window",
			"budget_id", a.BudgetID, "level", a.Level)
		return false, nil
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO alerts (id, owner_id, budget_id, level, message, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		a.ID, a.OwnerID, a.BudgetID, a.Level, a.Message,
		a.CreatedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return false, fmt.Errorf("insert alert: %w", err)
	}

	slog.InfoContext(ctx, "Alert recorded",
		"id", a.ID,
		"owner_id", a.OwnerID,
		"budget_id", a.BudgetID,
		"level", a.Level)
	return true, nil
}

func (r *SQLiteRepository) ListAlerts(ctx context.Context, ownerID string, limit int) ([]core.Alert, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, owner_id, budget_id, level, message, created_at
		FROM alerts
		WHERE owner_id = ?
		ORDER BY created_at DESC
		LIMIT ?`,
		ownerID, limit)
	if err != nil {
		return nil, fmt.Errorf("list alerts: %w", err)
	}
	defer rows.Close()

	var alerts []core.Alert
	for rows.Next() {
		var a core.Alert
		var createdAt string
		if err := rows.Scan(&a.ID, &a.OwnerID, &a.BudgetID, &a.Level, &a.Message, &createdAt); err != nil {
			return nil, fmt.Errorf("scan alert: %w", err)
		}
		a.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parse alert timestamp: %w", err)
		}
		alerts = append(alerts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate alerts: %w", err)
	}
	return alerts, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (core.Transaction, error) {
	var tx core.Transaction
	var kind, occurredOn string
	err := row.Scan(&tx.ID, &tx.OwnerID, &kind, &tx.Amount.Cents, &tx.Category, &occurredOn, &tx.Note)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, ErrNotFound
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("scan transaction: %w", err)
	}
	tx.Kind = core.Kind(kind)
	tx.OccurredOn, err = parseDate(occurredOn)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("parse transaction date: %w", err)
	}
	return tx, nil
}

func scanBudget(row rowScanner) (core.Budget, error) {
	var b core.Budget
	var period, windowStart, windowEnd string
	var active int
	err := row.Scan(&b.ID, &b.OwnerID, &b.Category, &b.Limit.Cents, &period, &windowStart, &windowEnd, &active)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Budget{}, ErrNotFound
	}
	if err != nil {
		return core.Budget{}, fmt.Errorf("scan budget: %w", err)
	}
	b.Period = core.Period(period)
	b.Active = active != 0
	if b.WindowStart, err = parseDate(windowStart); err != nil {
		return core.Budget{}, fmt.Errorf("parse budget window start: %w", err)
	}
	if b.WindowEnd, err = parseDate(windowEnd); err != nil {
		return core.Budget{}, fmt.Errorf("parse budget window end: %w", err)
	}
	return b, nil
}

func scanGoal(row rowScanner) (core.Goal, error) {
	var g core.Goal
	var targetDate, priority string
	var completed int
	err := row.Scan(&g.ID, &g.OwnerID, &g.Title, &g.Target.Cents, &g.Current.Cents, &targetDate, &g.Category, &priority, &completed)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Goal{}, ErrNotFound
	}
	if err != nil {
		return core.Goal{}, fmt.Errorf("scan goal: %w", err)
	}
	g.Priority = core.Priority(priority)
	g.Completed = completed != 0
	if g.TargetDate, err = parseDate(targetDate); err != nil {
		return core.Goal{}, fmt.Errorf("parse goal target date: %w", err)
	}
	return g, nil
}

func requireRowAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
