package reconcile

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"nathanbeddoewebdev/dirctl/internal/domain"
	"nathanbeddoewebdev/dirctl/internal/logging"
	"nathanbeddoewebdev/dirctl/internal/parse"
	"nathanbeddoewebdev/dirctl/internal/scripts"
)

// Batch is everything one Source read for an entity type.
type Batch struct {
	Snapshots []domain.EntitySnapshot
	// Seen counts every entry read, including the skipped ones.
	Seen int
	// Skipped counts entries without an identifier plus entries superseded
	// by a later entry with the same identifier.
	Skipped int
}

// Source produces the full set of snapshots for one entity type. Any error
// aborts the run before metadata is touched. Snapshot names are unique
// within a Batch.
type Source interface {
	Snapshots(ctx context.Context, et domain.EntityType) (Batch, error)
	// Describe names the command or script behind Snapshots for audit details.
	Describe(et domain.EntityType) string
}

// Lister lists entity names and shows one entity at a time. *samba.Tool
// satisfies it.
type Lister interface {
	List(ctx context.Context, et domain.EntityType) ([]string, error)
	Show(ctx context.Context, et domain.EntityType, name string) (*domain.AttributeRecord, error)
}

// PerEntitySource lists names, then shows every entity, running up to
// Concurrency show calls at once. Snapshot order follows the listing.
type PerEntitySource struct {
	Lister      Lister
	Concurrency int
}

func (s *PerEntitySource) Describe(et domain.EntityType) string {
	return string(et) + " list/show"
}

func (s *PerEntitySource) Snapshots(ctx context.Context, et domain.EntityType) (Batch, error) {
	listed, err := s.Lister.List(ctx, et)
	if err != nil {
		return Batch{}, fmt.Errorf("listing %s: %w", et.Plural(), err)
	}
	names := uniqueNames(listed)

	snaps := make([]domain.EntitySnapshot, len(names))
	g, gctx := errgroup.WithContext(ctx)
	limit := s.Concurrency
	if limit <= 0 {
		limit = 1
	}
	g.SetLimit(limit)
	for i, name := range names {
		g.Go(func() error {
			attrs, err := s.Lister.Show(gctx, et, name)
			if err != nil {
				return fmt.Errorf("showing %s %s: %w", et, name, err)
			}
			snaps[i] = domain.EntitySnapshot{Type: et, Name: name, Attributes: attrs}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Batch{}, err
	}
	return Batch{Snapshots: snaps, Seen: len(listed), Skipped: len(listed) - len(names)}, nil
}

// uniqueNames drops repeated names, keeping first occurrences in order.
func uniqueNames(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	return out
}

// ScriptRunner runs a script by identifier. *scripts.Runner satisfies it.
type ScriptRunner interface {
	Run(ctx context.Context, id string, args ...string) (string, error)
}

// DefaultIDAttribute is the attribute holding an entity's unique name in
// bulk dumps.
const DefaultIDAttribute = "sAMAccountName"

// BulkSource runs the listing script for the entity type once and parses
// its LDIF data block. Entries lacking IDAttribute are skipped. When several
// entries share an identifier the last one wins, keeping the position of
// the first.
type BulkSource struct {
	Runner      ScriptRunner
	IDAttribute string
}

func (s *BulkSource) Describe(et domain.EntityType) string {
	return scripts.ListScript(et)
}

func (s *BulkSource) Snapshots(ctx context.Context, et domain.EntityType) (Batch, error) {
	out, err := s.Runner.Run(ctx, scripts.ListScript(et))
	if err != nil {
		return Batch{}, err
	}
	block, err := parse.DataBlock(out)
	if err != nil {
		return Batch{}, err
	}

	idAttr := s.IDAttribute
	if idAttr == "" {
		idAttr = DefaultIDAttribute
	}

	logger := logging.FromContext(ctx)
	entries := parse.LDIF(block)
	b := Batch{Seen: len(entries), Snapshots: make([]domain.EntitySnapshot, 0, len(entries))}
	index := make(map[string]int, len(entries))
	for _, entry := range entries {
		name, ok := entry.Get(idAttr)
		if !ok || name == "" {
			logger.Debug().Str("entity", string(et)).Strs("keys", entry.Keys()).Msg("skipping entry without identifier")
			b.Skipped++
			continue
		}
		snap := domain.EntitySnapshot{Type: et, Name: name, Attributes: entry}
		if i, dup := index[name]; dup {
			logger.Warn().Str("entity", string(et)).Str("name", name).Str("id_attribute", idAttr).
				Msg("duplicate identifier in dump, keeping the last entry")
			b.Snapshots[i] = snap
			b.Skipped++
			continue
		}
		index[name] = len(b.Snapshots)
		b.Snapshots = append(b.Snapshots, snap)
	}
	return b, nil
}
