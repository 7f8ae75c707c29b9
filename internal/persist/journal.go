package persist

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/l1jgo/eventlistener/internal/listener"
)

// JournalRepo stores pass reports in dispatch_journal.
type JournalRepo struct {
	db *DB
}

func NewJournalRepo(db *DB) *JournalRepo {
	return &JournalRepo{db: db}
}

// Write stores a batch of reports in a single transaction. Either every
// report is stored or none is.
func (r *JournalRepo) Write(ctx context.Context, reports []listener.PassReport) error {
	if len(reports) == 0 {
		return nil
	}
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("journal begin: %w", err)
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for _, rep := range reports {
		batch.Queue(
			`INSERT INTO dispatch_journal (event_type, tick, events, dispatched, dropped, invocations,
			     stopped, faults, cycles, nodes, parent_lookups, duration_us)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
			rep.Event, int64(rep.Tick), rep.Events, rep.Dispatched, rep.Dropped, rep.Invocations,
			rep.Stopped, rep.Faults, rep.Cycles, rep.Nodes, rep.ParentLookups, rep.Duration.Microseconds(),
		)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("journal insert: %w", err)
	}
	return tx.Commit(ctx)
}

// Recent returns the newest limit reports of eventType, newest first.
func (r *JournalRepo) Recent(ctx context.Context, eventType string, limit int) ([]listener.PassReport, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT event_type, tick, events, dispatched, dropped, invocations,
		        stopped, faults, cycles, nodes, parent_lookups, duration_us
		 FROM dispatch_journal WHERE event_type = $1
		 ORDER BY tick DESC, id DESC LIMIT $2`,
		eventType, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("journal query: %w", err)
	}
	defer rows.Close()

	var out []listener.PassReport
	for rows.Next() {
		var (
			rep  listener.PassReport
			tick int64
			us   int64
		)
		if err := rows.Scan(&rep.Event, &tick, &rep.Events, &rep.Dispatched, &rep.Dropped, &rep.Invocations,
			&rep.Stopped, &rep.Faults, &rep.Cycles, &rep.Nodes, &rep.ParentLookups, &us); err != nil {
			return nil, fmt.Errorf("journal scan: %w", err)
		}
		rep.Tick = uint64(tick)
		rep.Duration = time.Duration(us) * time.Microsecond
		out = append(out, rep)
	}
	return out, rows.Err()
}

// Totals sums faults and dropped events recorded for eventType.
func (r *JournalRepo) Totals(ctx context.Context, eventType string) (faults, dropped int64, err error) {
	err = r.db.Pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(faults), 0), COALESCE(SUM(dropped), 0)
		 FROM dispatch_journal WHERE event_type = $1`,
		eventType,
	).Scan(&faults, &dropped)
	if err != nil {
		return 0, 0, fmt.Errorf("journal totals: %w", err)
	}
	return faults, dropped, nil
}

// Prune deletes reports recorded before cutoff and returns how many went.
func (r *JournalRepo) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM dispatch_journal WHERE recorded_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("journal prune: %w", err)
	}
	return tag.RowsAffected(), nil
}
