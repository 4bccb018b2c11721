package testing

import (
	"context"
	"sync"

	"github.com/atreyakamat/solara-mf/internal/domain"
)

// MockPortfolioReader is an in-memory portfolio source for tests.
// It returns copies so callers cannot mutate the stored portfolios.
type MockPortfolioReader struct {
	mu         sync.RWMutex
	portfolios map[int64]*domain.Portfolio
	err        error
	calls      int
}

// NewMockPortfolioReader creates an empty reader
func NewMockPortfolioReader() *MockPortfolioReader {
	return &MockPortfolioReader{
		portfolios: make(map[int64]*domain.Portfolio),
	}
}

// SetPortfolio stores p under its id
func (m *MockPortfolioReader) SetPortfolio(p *domain.Portfolio) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.portfolios[p.ID] = p
}

// SetError makes every read fail with err
func (m *MockPortfolioReader) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Calls returns the number of GetPortfolio calls
func (m *MockPortfolioReader) Calls() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.calls
}

// GetPortfolio returns a copy of the stored portfolio or
// domain.ErrPortfolioNotFound
func (m *MockPortfolioReader) GetPortfolio(_ context.Context, id int64) (*domain.Portfolio, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++

	if m.err != nil {
		return nil, m.err
	}
	p, ok := m.portfolios[id]
	if !ok {
		return nil, domain.ErrPortfolioNotFound
	}

	cp := *p
	cp.Items = append([]domain.PortfolioEntry(nil), p.Items...)
	return &cp, nil
}
