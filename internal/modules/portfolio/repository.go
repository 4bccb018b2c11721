// Package portfolio persists portfolios and their fund entries.
package portfolio

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/atreyakamat/solara-mf/internal/database"
	"github.com/atreyakamat/solara-mf/internal/domain"
	"github.com/atreyakamat/solara-mf/internal/modules/allocation"
	"github.com/atreyakamat/solara-mf/internal/modules/funds"
)

// ItemInput adds a fund to a portfolio
type ItemInput struct {
	Mode   domain.ContributionMode
	FundID int64
	Amount int64
}

// ItemUpdate changes an entry. Nil fields are left untouched.
type ItemUpdate struct {
	Amount     *int64
	Mode       *domain.ContributionMode
	Allocation *int
}

// querier is satisfied by *sql.DB and *sql.Tx
type querier interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// Repository handles portfolio database operations.
// Every mutation bumps the portfolio revision in the same transaction.
type Repository struct {
	db  *sql.DB
	now func() time.Time
	log zerolog.Logger
}

// NewRepository creates a new portfolio repository
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		now: time.Now,
		log: log.With().Str("repo", "portfolio").Logger(),
	}
}

// Create inserts an empty portfolio. A blank name becomes
// domain.DefaultPortfolioName.
func (r *Repository) Create(ctx context.Context, name string) (*domain.Portfolio, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = domain.DefaultPortfolioName
	}
	createdAt := r.now().UTC().Truncate(time.Second)

	res, err := r.db.ExecContext(ctx,
		"INSERT INTO portfolios (name, revision, created_at) VALUES (?, 1, ?)",
		name, createdAt.Unix(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert portfolio: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read portfolio id: %w", err)
	}

	r.log.Debug().Int64("portfolio_id", id).Str("name", name).Msg("Portfolio created")

	return &domain.Portfolio{
		ID:        id,
		Name:      name,
		Revision:  1,
		CreatedAt: createdAt,
		Items:     []domain.PortfolioEntry{},
	}, nil
}

// GetPortfolio returns the portfolio with its entries, ordered by entry id,
// each joined with its fund
func (r *Repository) GetPortfolio(ctx context.Context, id int64) (*domain.Portfolio, error) {
	return getPortfolio(ctx, r.db, id)
}

func getPortfolio(ctx context.Context, q querier, id int64) (*domain.Portfolio, error) {
	var p domain.Portfolio
	var createdAt int64

	err := q.QueryRowContext(ctx,
		"SELECT id, name, revision, created_at FROM portfolios WHERE id = ?", id,
	).Scan(&p.ID, &p.Name, &p.Revision, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %d", domain.ErrPortfolioNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query portfolio %d: %w", id, err)
	}
	p.CreatedAt = time.Unix(createdAt, 0).UTC()

	items, err := queryItems(ctx, q, "i.portfolio_id = ?", id)
	if err != nil {
		return nil, err
	}
	p.Items = items

	return &p, nil
}

func queryItems(ctx context.Context, q querier, where string, args ...interface{}) ([]domain.PortfolioEntry, error) {
	query := `SELECT i.id, i.portfolio_id, i.fund_id, i.amount, i.allocation, i.mode, ` + funds.Columns + `
		FROM portfolio_items i
		JOIN funds f ON f.id = i.fund_id
		WHERE ` + where + `
		ORDER BY i.id`

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query portfolio items: %w", err)
	}
	defer rows.Close()

	items := make([]domain.PortfolioEntry, 0)
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan portfolio item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating portfolio items: %w", err)
	}

	return items, nil
}

// itemRow adapts rows so funds.ScanFund can read the trailing fund columns
type itemRow struct {
	rows *sql.Rows
	head []interface{}
}

func (ir itemRow) Scan(dest ...interface{}) error {
	return ir.rows.Scan(append(ir.head, dest...)...)
}

func scanItem(rows *sql.Rows) (domain.PortfolioEntry, error) {
	var item domain.PortfolioEntry
	var mode string

	fund, err := funds.ScanFund(itemRow{
		rows: rows,
		head: []interface{}{&item.ID, &item.PortfolioID, &item.FundID, &item.Amount, &item.Allocation, &mode},
	})
	if err != nil {
		return item, err
	}

	item.Mode = domain.ContributionMode(mode)
	item.Fund = fund
	return item, nil
}

func getItem(ctx context.Context, q querier, portfolioID, itemID int64) (*domain.PortfolioEntry, error) {
	items, err := queryItems(ctx, q, "i.portfolio_id = ? AND i.id = ?", portfolioID, itemID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: %d", domain.ErrItemNotFound, itemID)
	}
	return &items[0], nil
}

// AddItem adds a fund to the portfolio with a zero allocation. Adding a
// fund that is already present updates its amount and mode instead.
func (r *Repository) AddItem(ctx context.Context, portfolioID int64, in ItemInput) (*domain.PortfolioEntry, error) {
	if err := validateAmount(in.Amount); err != nil {
		return nil, err
	}
	if !in.Mode.Valid() {
		return nil, fmt.Errorf("%w: unknown contribution mode %q", domain.ErrInvalidEntry, in.Mode)
	}

	var entry *domain.PortfolioEntry
	err := database.WithTransaction(r.db, func(tx *sql.Tx) error {
		if err := requirePortfolio(ctx, tx, portfolioID); err != nil {
			return err
		}
		if err := requireFund(ctx, tx, in.FundID); err != nil {
			return err
		}

		_, err := tx.ExecContext(ctx, `
			INSERT INTO portfolio_items (portfolio_id, fund_id, amount, allocation, mode)
			VALUES (?, ?, ?, 0, ?)
			ON CONFLICT (portfolio_id, fund_id) DO UPDATE SET
				amount = excluded.amount,
				mode = excluded.mode`,
			portfolioID, in.FundID, in.Amount, string(in.Mode),
		)
		if err != nil {
			return fmt.Errorf("failed to upsert portfolio item: %w", err)
		}
		if err := bumpRevision(ctx, tx, portfolioID); err != nil {
			return err
		}

		items, err := queryItems(ctx, tx, "i.portfolio_id = ? AND i.fund_id = ?", portfolioID, in.FundID)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			return fmt.Errorf("portfolio item for fund %d vanished after upsert", in.FundID)
		}
		entry = &items[0]
		return nil
	})
	if err != nil {
		return nil, err
	}

	r.log.Debug().
		Int64("portfolio_id", portfolioID).
		Int64("fund_id", in.FundID).
		Int64("item_id", entry.ID).
		Msg("Portfolio item saved")
	return entry, nil
}

// UpdateItem applies a partial update to one entry
func (r *Repository) UpdateItem(ctx context.Context, portfolioID, itemID int64, upd ItemUpdate) (*domain.PortfolioEntry, error) {
	var sets []string
	var args []interface{}

	if upd.Amount != nil {
		if err := validateAmount(*upd.Amount); err != nil {
			return nil, err
		}
		sets = append(sets, "amount = ?")
		args = append(args, *upd.Amount)
	}
	if upd.Mode != nil {
		if !upd.Mode.Valid() {
			return nil, fmt.Errorf("%w: unknown contribution mode %q", domain.ErrInvalidEntry, *upd.Mode)
		}
		sets = append(sets, "mode = ?")
		args = append(args, string(*upd.Mode))
	}
	if upd.Allocation != nil {
		if *upd.Allocation < 0 || *upd.Allocation > allocation.FullAllocation {
			return nil, fmt.Errorf("%w: allocation %d must be between 0 and 100", domain.ErrInvalidEntry, *upd.Allocation)
		}
		sets = append(sets, "allocation = ?")
		args = append(args, *upd.Allocation)
	}

	var entry *domain.PortfolioEntry
	err := database.WithTransaction(r.db, func(tx *sql.Tx) error {
		if err := requirePortfolio(ctx, tx, portfolioID); err != nil {
			return err
		}

		if len(sets) > 0 {
			query := "UPDATE portfolio_items SET " + strings.Join(sets, ", ") + " WHERE id = ? AND portfolio_id = ?"
			res, err := tx.ExecContext(ctx, query, append(args, itemID, portfolioID)...)
			if err != nil {
				return fmt.Errorf("failed to update portfolio item %d: %w", itemID, err)
			}
			if n, _ := res.RowsAffected(); n == 0 {
				return fmt.Errorf("%w: %d", domain.ErrItemNotFound, itemID)
			}
			if err := bumpRevision(ctx, tx, portfolioID); err != nil {
				return err
			}
		}

		item, err := getItem(ctx, tx, portfolioID, itemID)
		if err != nil {
			return err
		}
		entry = item
		return nil
	})
	if err != nil {
		return nil, err
	}

	return entry, nil
}

// RemoveItem deletes one entry
func (r *Repository) RemoveItem(ctx context.Context, portfolioID, itemID int64) error {
	err := database.WithTransaction(r.db, func(tx *sql.Tx) error {
		if err := requirePortfolio(ctx, tx, portfolioID); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx,
			"DELETE FROM portfolio_items WHERE id = ? AND portfolio_id = ?", itemID, portfolioID)
		if err != nil {
			return fmt.Errorf("failed to delete portfolio item %d: %w", itemID, err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return fmt.Errorf("%w: %d", domain.ErrItemNotFound, itemID)
		}
		return bumpRevision(ctx, tx, portfolioID)
	})
	return err
}

// Clear deletes every entry of the portfolio
func (r *Repository) Clear(ctx context.Context, portfolioID int64) error {
	err := database.WithTransaction(r.db, func(tx *sql.Tx) error {
		if err := requirePortfolio(ctx, tx, portfolioID); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM portfolio_items WHERE portfolio_id = ?", portfolioID); err != nil {
			return fmt.Errorf("failed to clear portfolio %d: %w", portfolioID, err)
		}
		return bumpRevision(ctx, tx, portfolioID)
	})
	return err
}

// Rebalance gives every entry an equal share, the remainder going to the
// first entry, and returns the updated portfolio. An empty portfolio is
// returned unchanged.
func (r *Repository) Rebalance(ctx context.Context, portfolioID int64) (*domain.Portfolio, error) {
	var result *domain.Portfolio
	err := database.WithTransaction(r.db, func(tx *sql.Tx) error {
		current, err := getPortfolio(ctx, tx, portfolioID)
		if err != nil {
			return err
		}
		if len(current.Items) == 0 {
			result = current
			return nil
		}

		for _, item := range allocation.Rebalance(current.Items) {
			if _, err := tx.ExecContext(ctx,
				"UPDATE portfolio_items SET allocation = ? WHERE id = ?", item.Allocation, item.ID,
			); err != nil {
				return fmt.Errorf("failed to rebalance item %d: %w", item.ID, err)
			}
		}
		if err := bumpRevision(ctx, tx, portfolioID); err != nil {
			return err
		}

		result, err = getPortfolio(ctx, tx, portfolioID)
		return err
	})
	if err != nil {
		return nil, err
	}

	r.log.Debug().Int64("portfolio_id", portfolioID).Int("items", len(result.Items)).Msg("Portfolio rebalanced")
	return result, nil
}

// DeleteStale removes portfolios without entries created before cutoff and
// returns how many were deleted
func (r *Repository) DeleteStale(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM portfolios
		WHERE created_at < ?
		AND NOT EXISTS (SELECT 1 FROM portfolio_items i WHERE i.portfolio_id = portfolios.id)`,
		cutoff.Unix(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to delete stale portfolios: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count deleted portfolios: %w", err)
	}
	return n, nil
}

func requirePortfolio(ctx context.Context, q querier, id int64) error {
	var one int
	err := q.QueryRowContext(ctx, "SELECT 1 FROM portfolios WHERE id = ?", id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %d", domain.ErrPortfolioNotFound, id)
	}
	if err != nil {
		return fmt.Errorf("failed to check portfolio %d: %w", id, err)
	}
	return nil
}

func requireFund(ctx context.Context, q querier, id int64) error {
	var one int
	err := q.QueryRowContext(ctx, "SELECT 1 FROM funds WHERE id = ?", id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %d", domain.ErrFundNotFound, id)
	}
	if err != nil {
		return fmt.Errorf("failed to check fund %d: %w", id, err)
	}
	return nil
}

func bumpRevision(ctx context.Context, q querier, id int64) error {
	if _, err := q.ExecContext(ctx, "UPDATE portfolios SET revision = revision + 1 WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to bump revision of portfolio %d: %w", id, err)
	}
	return nil
}

func validateAmount(amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("%w: amount must be positive, got %d", domain.ErrInvalidEntry, amount)
	}
	return nil
}
