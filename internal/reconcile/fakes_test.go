package reconcile

import (
	"context"
	"errors"
	"maps"
	"sync"
	"time"

	"nathanbeddoewebdev/dirctl/internal/auditlog"
	"nathanbeddoewebdev/dirctl/internal/domain"
	"nathanbeddoewebdev/dirctl/internal/metastore"
)

type key struct {
	t    domain.EntityType
	name string
}

// memStore is an in-memory metastore.Store with transactional staging.
type memStore struct {
	mu       sync.Mutex
	rows     map[key]metastore.Entry
	commits  int
	failGet  error
	leaseErr error
	leases   map[domain.EntityType]string
}

func newMemStore() *memStore {
	return &memStore{rows: map[key]metastore.Entry{}, leases: map[domain.EntityType]string{}}
}

func (m *memStore) Get(_ context.Context, t domain.EntityType, name string) (*metastore.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.rows[key{t, name}]
	if !ok {
		return nil, nil
	}
	return &e, nil
}

func (m *memStore) List(_ context.Context, t domain.EntityType) ([]metastore.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []metastore.Entry
	for k, e := range m.rows {
		if k.t == t {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *memStore) Begin(context.Context) (metastore.Tx, error) {
	return &memTx{store: m, staged: map[key]metastore.Entry{}}, nil
}

func (m *memStore) AcquireLease(_ context.Context, t domain.EntityType, holder string, _ time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.leaseErr != nil {
		return false, m.leaseErr
	}
	if cur, ok := m.leases[t]; ok && cur != holder {
		return false, nil
	}
	m.leases[t] = holder
	return true, nil
}

func (m *memStore) ReleaseLease(_ context.Context, t domain.EntityType, holder string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.leases[t] == holder {
		delete(m.leases, t)
	}
	return nil
}

func (m *memStore) Close() error { return nil }

func (m *memStore) snapshot() map[key]metastore.Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return maps.Clone(m.rows)
}

type memTx struct {
	store  *memStore
	staged map[key]metastore.Entry
	done   bool
}

func (tx *memTx) Get(ctx context.Context, t domain.EntityType, name string) (*metastore.Entry, error) {
	if tx.store.failGet != nil {
		return nil, tx.store.failGet
	}
	if e, ok := tx.staged[key{t, name}]; ok {
		return &e, nil
	}
	return tx.store.Get(ctx, t, name)
}

func (tx *memTx) Upsert(_ context.Context, e *metastore.Entry) error {
	tx.staged[key{e.EntityType, e.EntityName}] = *e
	return nil
}

func (tx *memTx) Commit() error {
	if tx.done {
		return errors.New("tx done")
	}
	tx.done = true
	tx.store.mu.Lock()
	defer tx.store.mu.Unlock()
	maps.Copy(tx.store.rows, tx.staged)
	tx.store.commits++
	return nil
}

func (tx *memTx) Rollback() error {
	tx.done = true
	return nil
}

// memAudit collects audit entries.
type memAudit struct {
	mu      sync.Mutex
	entries []auditlog.AuditEntry
}

func (a *memAudit) Record(_ context.Context, e *auditlog.AuditEntry) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries = append(a.entries, *e)
	return nil
}

func (a *memAudit) last() auditlog.AuditEntry {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.entries[len(a.entries)-1]
}

// staticSource returns fixed snapshots, or err.
type staticSource struct {
	mu    sync.Mutex
	snaps []domain.EntitySnapshot
	err   error
	calls int
	block chan struct{}
}

func (s *staticSource) Describe(et domain.EntityType) string { return "static " + string(et) }

func (s *staticSource) Snapshots(ctx context.Context, et domain.EntityType) (Batch, error) {
	s.mu.Lock()
	s.calls++
	block := s.block
	snaps, err := s.snaps, s.err
	s.mu.Unlock()
	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return Batch{}, ctx.Err()
		}
	}
	if err != nil {
		return Batch{}, err
	}
	var out []domain.EntitySnapshot
	for _, snap := range snaps {
		if snap.Type == et {
			out = append(out, snap)
		}
	}
	return Batch{Snapshots: out, Seen: len(out)}, nil
}

func (s *staticSource) set(snaps ...domain.EntitySnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snaps = snaps
}

func user(name string, pairs ...string) domain.EntitySnapshot {
	rec := domain.NewAttributeRecord()
	for i := 0; i+1 < len(pairs); i += 2 {
		rec.Add(pairs[i], pairs[i+1])
	}
	return domain.EntitySnapshot{Type: domain.EntityUser, Name: name, Attributes: rec}
}
