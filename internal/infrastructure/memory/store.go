// Package memory implementa los puertos de persistencia en memoria para las
// pruebas de casos de uso y de la API. Run serializa transacciones y revierte
// el estado completo si fn falla o el contexto termina antes del commit.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/cllmenate/inventory-management/internal/application/inventory"
	"github.com/cllmenate/inventory-management/internal/domain/entity"
	"github.com/cllmenate/inventory-management/internal/domain/repository"
)

var _ inventory.TxRunner = (*Store)(nil)

type state struct {
	brands     map[int64]entity.Brand
	categories map[int64]entity.Category
	suppliers  map[int64]entity.Supplier
	models     map[int64]entity.ProductModel
	products   map[int64]entity.Product
	inflows    map[int64]entity.Inflow
	outflows   map[int64]entity.Outflow
	tasks      map[int64]entity.TaskNotification
	users      map[int64]entity.User
	nextID     int64
}

func newState() *state {
	return &state{
		brands:     map[int64]entity.Brand{},
		categories: map[int64]entity.Category{},
		suppliers:  map[int64]entity.Supplier{},
		models:     map[int64]entity.ProductModel{},
		products:   map[int64]entity.Product{},
		inflows:    map[int64]entity.Inflow{},
		outflows:   map[int64]entity.Outflow{},
		tasks:      map[int64]entity.TaskNotification{},
		users:      map[int64]entity.User{},
	}
}

func cloneMap[V any](m map[int64]V) map[int64]V {
	out := make(map[int64]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (st *state) clone() *state {
	return &state{
		brands:     cloneMap(st.brands),
		categories: cloneMap(st.categories),
		suppliers:  cloneMap(st.suppliers),
		models:     cloneMap(st.models),
		products:   cloneMap(st.products),
		inflows:    cloneMap(st.inflows),
		outflows:   cloneMap(st.outflows),
		tasks:      cloneMap(st.tasks),
		users:      cloneMap(st.users),
		nextID:     st.nextID,
	}
}

// Store almacén en memoria seguro para uso concurrente.
type Store struct {
	txMu sync.Mutex // una transacción a la vez
	mu   sync.Mutex // protege st
	st   *state
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{st: newState()}
}

// Repositories devuelve todos los repositorios sobre el almacén.
func (s *Store) Repositories() repository.Repositories {
	return repository.Repositories{
		Brands:        BrandRepo{s},
		Categories:    CategoryRepo{s},
		Suppliers:     SupplierRepo{s},
		ProductModels: ProductModelRepo{s},
		Products:      ProductRepo{s},
		Inflows:       InflowRepo{s},
		Outflows:      OutflowRepo{s},
		Lookup:        LookupRepo{s},
	}
}

// Run ejecuta fn de forma exclusiva. Si fn falla o ctx termina antes del
// commit, descarta todos sus cambios, igual que un Begin/Commit de PostgreSQL.
func (s *Store) Run(ctx context.Context, fn func(repos repository.Repositories) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	snapshot := s.st.clone()
	s.mu.Unlock()

	err := fn(s.Repositories())
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		s.mu.Lock()
		s.st = snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}

func (s *Store) read(fn func(st *state)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.st)
}

func (s *Store) write(fn func(st *state) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.st)
}

func (st *state) newID() int64 {
	st.nextID++
	return st.nextID
}

func containsFold(s, sub string) bool {
	return sub == "" || strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

// page aplica limit/offset sobre una lista ya ordenada.
func page[T any](all []T, limit, offset int) []T {
	if offset >= len(all) {
		return []T{}
	}
	end := len(all)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return all[offset:end]
}

func sortedByName[T any](items []T, key func(T) string) {
	sort.SliceStable(items, func(i, j int) bool { return key(items[i]) < key(items[j]) })
}

// sortNewestFirst ordena por id descendente (equivalente a -created_at: ids crecientes).
func sortNewestFirst[T any](items []T, id func(T) int64) {
	sort.SliceStable(items, func(i, j int) bool { return id(items[i]) > id(items[j]) })
}
