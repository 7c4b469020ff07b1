// Package reconcile synchronizes the local metadata shadow with the
// directory. A run gathers every snapshot of one entity type from a Source,
// fingerprints each one and writes only the entities whose fingerprint
// changed, all in a single transaction.
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"nathanbeddoewebdev/dirctl/internal/auditlog"
	"nathanbeddoewebdev/dirctl/internal/domain"
	"nathanbeddoewebdev/dirctl/internal/fingerprint"
	"nathanbeddoewebdev/dirctl/internal/logging"
	"nathanbeddoewebdev/dirctl/internal/metastore"
	"nathanbeddoewebdev/dirctl/internal/metrics"
	"nathanbeddoewebdev/dirctl/internal/retry"
)

const defaultLeaseTTL = 30 * time.Minute

// Result summarizes one run.
type Result struct {
	RunID      string            `json:"run_id" yaml:"run_id"`
	EntityType domain.EntityType `json:"entity_type" yaml:"entity_type"`
	Total      int               `json:"total" yaml:"total"`
	Skipped    int               `json:"skipped" yaml:"skipped"`
	Updated    int               `json:"updated" yaml:"updated"`
	Duration   time.Duration     `json:"duration" yaml:"duration"`
}

// Options configures a Reconciler.
type Options struct {
	Source Source
	Store  metastore.Store
	Audit  auditlog.Sink

	// LeaseTTL bounds how long a crashed run can block others.
	LeaseTTL time.Duration

	Logger *zerolog.Logger
}

// Reconciler runs synchronizations. At most one run per entity type is in
// flight at a time, both within this process and across processes sharing
// the database.
type Reconciler struct {
	source   Source
	store    metastore.Store
	audit    auditlog.Sink
	leaseTTL time.Duration
	logger   zerolog.Logger
	now      func() time.Time

	mu    sync.Mutex
	locks map[domain.EntityType]*sync.Mutex
}

// New returns a Reconciler.
func New(opts Options) *Reconciler {
	r := &Reconciler{
		source:   opts.Source,
		store:    opts.Store,
		audit:    opts.Audit,
		leaseTTL: opts.LeaseTTL,
		logger:   zerolog.Nop(),
		now:      time.Now,
		locks:    make(map[domain.EntityType]*sync.Mutex),
	}
	if r.audit == nil {
		r.audit = auditlog.Discard
	}
	if r.leaseTTL <= 0 {
		r.leaseTTL = defaultLeaseTTL
	}
	if opts.Logger != nil {
		r.logger = opts.Logger.With().Str("component", "reconcile").Logger()
	}
	return r
}

func (r *Reconciler) lockFor(et domain.EntityType) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.locks[et]
	if !ok {
		l = &sync.Mutex{}
		r.locks[et] = l
	}
	return l
}

// Run synchronizes all entities of type et. Source failures are audited and
// returned unchanged; no metadata is written in that case. It returns
// domain.ErrSyncInProgress when another run for et holds the lock.
func (r *Reconciler) Run(ctx context.Context, et domain.EntityType) (*Result, error) {
	lock := r.lockFor(et)
	if !lock.TryLock() {
		return nil, fmt.Errorf("reconcile %s: %w", et.Plural(), domain.ErrSyncInProgress)
	}
	defer lock.Unlock()

	start := r.now()
	runID := uuid.NewString()
	ctx = auditlog.WithMetadata(ctx, auditlog.Metadata{RunID: runID})
	logger := r.logger.With().Str("run_id", runID).Str("entity", string(et)).Logger()
	ctx = logging.WithLogger(ctx, &logger)

	ok, err := r.store.AcquireLease(ctx, et, runID, r.leaseTTL)
	if err != nil {
		return nil, fmt.Errorf("reconcile %s: %w", et.Plural(), err)
	}
	if !ok {
		return nil, fmt.Errorf("reconcile %s: lease held by another process: %w", et.Plural(), domain.ErrSyncInProgress)
	}
	defer func() {
		if err := r.store.ReleaseLease(context.WithoutCancel(ctx), et, runID); err != nil {
			logger.Warn().Err(err).Msg("releasing sync lease")
		}
	}()

	logger.Info().Msg("sync started")

	batch, err := r.source.Snapshots(ctx, et)
	if err != nil {
		r.fail(ctx, et, start, err)
		return nil, err
	}

	var updated int
	// The whole write phase is retried while another process holds the
	// database write lock.
	err = retry.StoreWrite.Do(ctx, func() error {
		var err error
		updated, err = r.write(ctx, batch.Snapshots, start.UTC())
		return err
	})
	if err != nil {
		r.fail(ctx, et, start, err)
		return nil, err
	}

	res := &Result{
		RunID:      runID,
		EntityType: et,
		Total:      batch.Seen,
		Skipped:    batch.Skipped,
		Updated:    updated,
		Duration:   r.now().Sub(start),
	}
	r.record(ctx, et, res.Duration, auditlog.OutcomeSuccess, auditlog.Details(map[string]any{
		"total":   res.Total,
		"skipped": res.Skipped,
		"updated": res.Updated,
		"run_id":  runID,
	}))

	metrics.SyncRunsTotal.WithLabelValues(string(et), "success").Inc()
	metrics.SyncDuration.WithLabelValues(string(et)).Observe(res.Duration.Seconds())
	metrics.SyncEntities.WithLabelValues(string(et), "total").Set(float64(res.Total))
	metrics.SyncEntities.WithLabelValues(string(et), "updated").Set(float64(res.Updated))

	logger.Info().
		Int("total", res.Total).
		Int("skipped", res.Skipped).
		Int("updated", res.Updated).
		Dur("duration", res.Duration).
		Msg("sync finished")
	return res, nil
}

// write upserts changed snapshots in one transaction and returns how many
// were written. Nothing is visible to readers unless every write succeeds.
func (r *Reconciler) write(ctx context.Context, snaps []domain.EntitySnapshot, now time.Time) (updated int, err error) {
	tx, err := r.store.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, snap := range snaps {
		digest, canonical := fingerprint.Of(snap)
		existing, err := tx.Get(ctx, snap.Type, snap.Name)
		if err != nil {
			return 0, err
		}
		if existing != nil && existing.Fingerprint == digest {
			continue
		}
		err = tx.Upsert(ctx, &metastore.Entry{
			EntityType:   snap.Type,
			EntityName:   snap.Name,
			Fingerprint:  digest,
			SnapshotJSON: canonical,
			LastSync:     now,
		})
		if err != nil {
			return 0, err
		}
		updated++
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return updated, nil
}

func (r *Reconciler) fail(ctx context.Context, et domain.EntityType, start time.Time, err error) {
	logger := logging.FromContext(ctx)
	logger.Error().Err(err).Msg("sync failed")
	metrics.SyncRunsTotal.WithLabelValues(string(et), "error").Inc()
	r.record(ctx, et, r.now().Sub(start), auditlog.OutcomeError, auditlog.ErrorDetails(err, map[string]any{
		"script": r.source.Describe(et),
		"run_id": auditlog.MetadataFromContext(ctx).RunID,
	}))
}

func (r *Reconciler) record(ctx context.Context, et domain.EntityType, d time.Duration, outcome, detail string) {
	entry := &auditlog.AuditEntry{
		Actor:      auditlog.ActorFromContext(ctx),
		Action:     "sync_" + et.Plural(),
		ObjectType: "sync",
		ObjectID:   et.Plural(),
		Outcome:    outcome,
		Detail:     detail,
		DurationMs: d.Milliseconds(),
	}
	if err := r.audit.Record(context.WithoutCancel(ctx), entry); err != nil {
		logging.FromContext(ctx).Warn().Err(err).Msg("writing audit entry")
	}
}

// RunOutcome is delivered by Trigger when a background run ends.
type RunOutcome struct {
	Result *Result
	Err    error
}

// Trigger starts a run in the background and returns immediately. The run
// is detached from ctx cancellation but keeps its values. The returned
// channel receives exactly one outcome.
func (r *Reconciler) Trigger(ctx context.Context, et domain.EntityType) <-chan RunOutcome {
	done := make(chan RunOutcome, 1)
	bg := context.WithoutCancel(ctx)
	go func() {
		res, err := r.Run(bg, et)
		if err != nil && !errors.Is(err, domain.ErrSyncInProgress) {
			logging.FromContext(bg).Error().Err(err).Str("entity", string(et)).Msg("background sync failed")
		}
		done <- RunOutcome{Result: res, Err: err}
	}()
	return done
}
