// Package funds stores the fund catalog the projection engine reads from.
package funds

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/atreyakamat/solara-mf/internal/domain"
)

// ErrInvalidFund is returned for catalog entries missing required fields
var ErrInvalidFund = errors.New("invalid fund")

// Columns selected for a fund, in scan order. Exported for the portfolio
// repository, which joins funds onto entries.
const Columns = `f.id, f.name, f.amc, f.category, f.sub_category, f.risk_level, f.rating,
f.nav, f.nav_change, f.min_sip, f.expense_ratio, f.exit_load, f.aum, f.fund_manager,
f.return_1y, f.return_3y, f.return_5y, f.alpha, f.beta, f.sharpe, f.sortino, f.std_dev,
f.benchmark, f.holdings`

// Filter narrows a catalog listing. Zero values are ignored.
type Filter struct {
	Search    string // case-insensitive match on name or AMC
	Category  string
	RiskLevel string
	MinRating int
}

// Repository handles fund database operations
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new fund repository
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repo", "funds").Logger(),
	}
}

// List returns the funds matching filter, ordered by id
func (r *Repository) List(ctx context.Context, filter Filter) ([]domain.Fund, error) {
	var (
		conditions []string
		args       []interface{}
	)

	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + search + "%"
		conditions = append(conditions, "(f.name LIKE ? OR f.amc LIKE ?)")
		args = append(args, pattern, pattern)
	}
	if filter.Category != "" {
		conditions = append(conditions, "f.category = ?")
		args = append(args, filter.Category)
	}
	if filter.RiskLevel != "" {
		conditions = append(conditions, "f.risk_level = ?")
		args = append(args, filter.RiskLevel)
	}
	if filter.MinRating > 0 {
		conditions = append(conditions, "f.rating >= ?")
		args = append(args, filter.MinRating)
	}

	query := "SELECT " + Columns + " FROM funds f"
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY f.id"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query funds: %w", err)
	}
	defer rows.Close()

	funds := make([]domain.Fund, 0)
	for rows.Next() {
		fund, err := ScanFund(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan fund: %w", err)
		}
		funds = append(funds, fund)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating funds: %w", err)
	}

	return funds, nil
}

// Get returns the fund with id or domain.ErrFundNotFound
func (r *Repository) Get(ctx context.Context, id int64) (*domain.Fund, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+Columns+" FROM funds f WHERE f.id = ?", id)

	fund, err := ScanFund(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %d", domain.ErrFundNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get fund %d: %w", id, err)
	}
	return &fund, nil
}

// Exists reports whether a fund with id is in the catalog
func (r *Repository) Exists(ctx context.Context, id int64) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx, "SELECT 1 FROM funds WHERE id = ?", id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check fund %d: %w", id, err)
	}
	return true, nil
}

// Count returns the number of funds in the catalog
func (r *Repository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM funds").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count funds: %w", err)
	}
	return n, nil
}

// Create inserts fund and returns it with its new id
func (r *Repository) Create(ctx context.Context, fund domain.Fund) (*domain.Fund, error) {
	if err := Validate(fund); err != nil {
		return nil, err
	}

	holdings, err := json.Marshal(fund.Holdings)
	if err != nil {
		return nil, fmt.Errorf("failed to encode holdings for %s: %w", fund.Name, err)
	}

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO funds (
			name, amc, category, sub_category, risk_level, rating,
			nav, nav_change, min_sip, expense_ratio, exit_load, aum, fund_manager,
			return_1y, return_3y, return_5y, alpha, beta, sharpe, sortino, std_dev,
			benchmark, holdings
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		fund.Name, fund.AMC, fund.Category, fund.SubCategory, fund.RiskLevel, fund.Rating,
		fund.NAV, fund.NAVChange, fund.MinSIP, fund.ExpenseRatio, fund.ExitLoad, fund.AUM, fund.FundManager,
		nullFloat(fund.Return1Y), nullFloat(fund.Return3Y), nullFloat(fund.Return5Y),
		nullFloat(fund.Alpha), nullFloat(fund.Beta), nullFloat(fund.Sharpe), nullFloat(fund.Sortino),
		nullFloat(fund.StdDev), fund.Benchmark, string(holdings),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert fund %s: %w", fund.Name, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read fund id: %w", err)
	}
	fund.ID = id

	r.log.Debug().Int64("fund_id", id).Str("name", fund.Name).Msg("Fund created")
	return &fund, nil
}

// Scanner is satisfied by *sql.Row and *sql.Rows
type Scanner interface {
	Scan(dest ...interface{}) error
}

// ScanFund reads one row selected with Columns
func ScanFund(s Scanner) (domain.Fund, error) {
	var fund domain.Fund
	var return1y, return3y, return5y, stdDev sql.NullFloat64
	var alpha, beta, sharpe, sortino sql.NullFloat64
	var holdings string

	err := s.Scan(
		&fund.ID, &fund.Name, &fund.AMC, &fund.Category, &fund.SubCategory, &fund.RiskLevel, &fund.Rating,
		&fund.NAV, &fund.NAVChange, &fund.MinSIP, &fund.ExpenseRatio, &fund.ExitLoad, &fund.AUM, &fund.FundManager,
		&return1y, &return3y, &return5y, &alpha, &beta, &sharpe, &sortino, &stdDev,
		&fund.Benchmark, &holdings,
	)
	if err != nil {
		return fund, err
	}

	fund.Return1Y = floatPtr(return1y)
	fund.Return3Y = floatPtr(return3y)
	fund.Return5Y = floatPtr(return5y)
	fund.StdDev = floatPtr(stdDev)
	fund.Alpha = floatPtr(alpha)
	fund.Beta = floatPtr(beta)
	fund.Sharpe = floatPtr(sharpe)
	fund.Sortino = floatPtr(sortino)

	if holdings != "" {
		if err := json.Unmarshal([]byte(holdings), &fund.Holdings); err != nil {
			return fund, fmt.Errorf("failed to decode holdings of fund %d: %w", fund.ID, err)
		}
	}

	return fund, nil
}

func floatPtr(n sql.NullFloat64) *float64 {
	if !n.Valid {
		return nil
	}
	v := n.Float64
	return &v
}

func nullFloat(p *float64) sql.NullFloat64 {
	if p == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *p, Valid: true}
}
