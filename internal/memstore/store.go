// Package memstore keeps products, stock movements and sales in memory
// behind the same repository interfaces as the Postgres implementations.
// Transactions are serialized and roll back by restoring a snapshot.
package memstore

import (
	"context"
	"sync"

	"github.com/fekuna/omnipos-dashboard/internal/model"
)

type txKey struct{}

type Store struct {
	txMu sync.Mutex
	mu   sync.Mutex

	products  map[string]model.Product
	sales     map[string]model.Sale
	movements []model.StockMovement

	// FailOn, when set, is consulted before every repository call with the
	// call name (for example "stock.TryAdjustStock") and may inject an error.
	FailOn func(op string) error
}

func New() *Store {
	return &Store{
		products: map[string]model.Product{},
		sales:    map[string]model.Sale{},
	}
}

type snapshot struct {
	products  map[string]model.Product
	sales     map[string]model.Sale
	movements []model.StockMovement
}

func (s *Store) snapshot() snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := snapshot{
		products:  make(map[string]model.Product, len(s.products)),
		sales:     make(map[string]model.Sale, len(s.sales)),
		movements: append([]model.StockMovement(nil), s.movements...),
	}
	for k, v := range s.products {
		snap.products[k] = v
	}
	for k, v := range s.sales {
		snap.sales[k] = copySale(v)
	}
	return snap
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = snap.products
	s.sales = snap.sales
	s.movements = snap.movements
}

func inTx(ctx context.Context) bool {
	return ctx.Value(txKey{}) != nil
}

// WithinTx implements database.Transactor.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if inTx(ctx) {
		return fn(ctx)
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	snap := s.snapshot()
	defer func() {
		if p := recover(); p != nil {
			s.restore(snap)
			panic(p)
		}
		if err != nil {
			s.restore(snap)
		}
	}()

	return fn(context.WithValue(ctx, txKey{}, true))
}

// write runs fn under the data lock, serialized with transactions when the
// call is not already part of one.
func (s *Store) write(ctx context.Context, fn func()) {
	if !inTx(ctx) {
		s.txMu.Lock()
		defer s.txMu.Unlock()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	fn()
}

func (s *Store) read(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn()
}

func (s *Store) fail(op string) error {
	if s.FailOn == nil {
		return nil
	}
	return s.FailOn(op)
}

// AddProduct seeds a product.
func (s *Store) AddProduct(p model.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[p.ID] = p
}

func (s *Store) Product(id string) (model.Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	return p, ok
}

func (s *Store) SaleCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sales)
}

func (s *Store) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, sale := range s.sales {
		n += len(sale.Items)
	}
	return n
}

func (s *Store) Movements() []model.StockMovement {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.StockMovement(nil), s.movements...)
}

func (s *Store) Products() *ProductRepo { return &ProductRepo{s: s} }
func (s *Store) Stock() *StockRepo     { return &StockRepo{s: s} }
func (s *Store) Sales() *SaleRepo      { return &SaleRepo{s: s} }

func copySale(in model.Sale) model.Sale {
	out := in
	out.Items = make([]model.SaleItem, len(in.Items))
	copy(out.Items, in.Items)
	for i := range out.Items {
		out.Items[i].Product = nil
	}
	return out
}
