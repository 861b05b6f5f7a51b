package booking

import (
	"cmp"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/codr1/courtbook/internal/db"
	dbgen "github.com/codr1/courtbook/internal/db/generated"
	"github.com/codr1/courtbook/internal/lock"
	"github.com/codr1/courtbook/internal/metrics"
)

// Claims are "held" until released or retired; retired claims never block.
const claimHeld = "held"

// SlotKey identifies the unit of serialization: one court on one play date.
type SlotKey struct {
	CourtID int64
	Date    string
}

func (k SlotKey) String() string {
	return fmt.Sprintf("slot:%d:%s", k.CourtID, k.Date)
}

func compareKeys(a, b SlotKey) int {
	if a.Date != b.Date {
		return cmp.Compare(a.Date, b.Date)
	}
	return cmp.Compare(a.CourtID, b.CourtID)
}

// Ledger is the authoritative record of held slots. Mutations on a key run
// under that key's lock and inside one SQLite write transaction.
type Ledger struct {
	db          *db.DB
	locker      lock.Locker
	lockTimeout time.Duration
	clock       clockwork.Clock
}

func NewLedger(database *db.DB, locker lock.Locker, lockTimeout time.Duration, clock clockwork.Clock) (*Ledger, error) {
	if database == nil || database.Queries == nil {
		return nil, errors.New("slot ledger requires a database")
	}
	if locker == nil {
		locker = lock.NewLocal()
	}
	if lockTimeout <= 0 {
		return nil, errors.New("slot ledger requires a positive lock timeout")
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Ledger{db: database, locker: locker, lockTimeout: lockTimeout, clock: clock}, nil
}

// LedgerTx is the transactional view handed to Atomically callbacks. Queries
// is bound to the same transaction so booking rows commit with the claims.
type LedgerTx struct {
	Queries *dbgen.Queries
	locked  map[SlotKey]bool
	now     time.Time
}

// Atomically locks keys in ascending (date, court) order, then runs fn in a
// single transaction. Any error from fn rolls back every write fn made.
func (l *Ledger) Atomically(ctx context.Context, keys []SlotKey, fn func(*LedgerTx) error) error {
	keys = uniqueSortedKeys(keys)

	unlock, err := l.lockAll(ctx, keys)
	if err != nil {
		return err
	}
	defer unlock()

	var fnErr error
	err = l.db.RunInTx(ctx, func(txdb *db.DB) error {
		tx := &LedgerTx{
			Queries: txdb.Queries,
			locked:  make(map[SlotKey]bool, len(keys)),
			now:     l.clock.Now().UTC().Truncate(time.Second),
		}
		for _, key := range keys {
			tx.locked[key] = true
		}
		fnErr = fn(tx)
		return fnErr
	})
	if err == nil {
		return nil
	}
	if fnErr == nil {
		// Begin or commit failed.
		if db.IsBusy(err) {
			return &BusyError{Key: "database", Err: err}
		}
		return storageError("commit ledger transaction", err)
	}
	if db.IsBusy(fnErr) {
		return &BusyError{Key: "database", Err: fnErr}
	}
	return err
}

func (l *Ledger) lockAll(ctx context.Context, keys []SlotKey) (lock.Unlock, error) {
	lockCtx, cancel := context.WithTimeout(ctx, l.lockTimeout)
	defer cancel()

	started := l.clock.Now()
	unlocks := make([]lock.Unlock, 0, len(keys))
	releaseAll := func() {
		for i := len(unlocks) - 1; i >= 0; i-- {
			unlocks[i]()
		}
	}
	for _, key := range keys {
		unlock, err := l.locker.Acquire(lockCtx, key.String())
		if err != nil {
			releaseAll()
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			log.Ctx(ctx).Warn().
				Str("component", "slot_ledger").
				Str("slot", key.String()).
				Dur("lock_timeout", l.lockTimeout).
				Err(err).
				Msg("Slot lock wait timed out")
			return nil, &BusyError{Key: key.String(), Err: err}
		}
		unlocks = append(unlocks, unlock)
	}
	metrics.RecordLockWait(l.clock.Since(started).Seconds())
	return releaseAll, nil
}

func uniqueSortedKeys(keys []SlotKey) []SlotKey {
	out := slices.Clone(keys)
	slices.SortFunc(out, compareKeys)
	return slices.Compact(out)
}

// Reserve claims a single interval in its own transaction.
func (l *Ledger) Reserve(ctx context.Context, claim Claim) error {
	return l.Atomically(ctx, []SlotKey{{CourtID: claim.CourtID, Date: claim.Date}}, func(tx *LedgerTx) error {
		return tx.Reserve(ctx, claim)
	})
}

// Release drops a held claim. Releasing a claim that is not held is a no-op.
func (l *Ledger) Release(ctx context.Context, key SlotKey, bookingID string) error {
	return l.Atomically(ctx, []SlotKey{key}, func(tx *LedgerTx) error {
		return tx.Release(ctx, bookingID)
	})
}

// IsFree reads without locking. The answer is advisory; only Reserve grants.
func (l *Ledger) IsFree(ctx context.Context, key SlotKey, interval Interval) (bool, error) {
	claims, err := l.Claims(ctx, key)
	if err != nil {
		return false, err
	}
	for _, claim := range claims {
		if claim.Interval.Overlaps(interval) {
			return false, nil
		}
	}
	return true, nil
}

// Claims lists the held claims on key, ordered by start.
func (l *Ledger) Claims(ctx context.Context, key SlotKey) ([]Claim, error) {
	return heldClaims(ctx, l.db.Queries, key)
}

func heldClaims(ctx context.Context, q *dbgen.Queries, key SlotKey) ([]Claim, error) {
	rows, err := q.ListHeldSlotClaims(ctx, dbgen.ListHeldSlotClaimsParams{
		CourtID:  key.CourtID,
		PlayDate: key.Date,
	})
	if err != nil {
		return nil, storageError("list slot claims", err)
	}
	claims := make([]Claim, 0, len(rows))
	for _, row := range rows {
		claims = append(claims, claimFromRow(row))
	}
	return claims, nil
}

func claimFromRow(row dbgen.SlotClaim) Claim {
	return Claim{
		BookingID: row.BookingID,
		CourtID:   row.CourtID,
		Date:      row.PlayDate,
		Interval:  Interval{Start: Minute(row.StartMinute), End: Minute(row.EndMinute)},
	}
}

func (t *LedgerTx) requireLocked(key SlotKey) error {
	if !t.locked[key] {
		return fmt.Errorf("slot %s is not locked by this transaction", key)
	}
	return nil
}

// Claims lists held claims on a locked key.
func (t *LedgerTx) Claims(ctx context.Context, key SlotKey) ([]Claim, error) {
	if err := t.requireLocked(key); err != nil {
		return nil, err
	}
	return heldClaims(ctx, t.Queries, key)
}

// Reserve inserts a held claim or fails with a ConflictError naming the
// overlapping bookings.
func (t *LedgerTx) Reserve(ctx context.Context, claim Claim) error {
	key := SlotKey{CourtID: claim.CourtID, Date: claim.Date}
	if err := t.checkFree(ctx, key, claim.Interval, ""); err != nil {
		return err
	}
	err := t.Queries.CreateSlotClaim(ctx, dbgen.CreateSlotClaimParams{
		BookingID:   claim.BookingID,
		CourtID:     claim.CourtID,
		PlayDate:    claim.Date,
		StartMinute: int64(claim.Interval.Start),
		EndMinute:   int64(claim.Interval.End),
		CreatedAt:   t.now,
	})
	if err != nil {
		return storageError("create slot claim", err)
	}
	return nil
}

// Move relocates a held claim, ignoring the claim's own current interval.
func (t *LedgerTx) Move(ctx context.Context, claim Claim) error {
	key := SlotKey{CourtID: claim.CourtID, Date: claim.Date}
	if err := t.checkFree(ctx, key, claim.Interval, claim.BookingID); err != nil {
		return err
	}
	moved, err := t.Queries.MoveSlotClaim(ctx, dbgen.MoveSlotClaimParams{
		CourtID:     claim.CourtID,
		PlayDate:    claim.Date,
		StartMinute: int64(claim.Interval.Start),
		EndMinute:   int64(claim.Interval.End),
		BookingID:   claim.BookingID,
	})
	if err != nil {
		return storageError("move slot claim", err)
	}
	if moved == 0 {
		return fmt.Errorf("move slot claim %s: %w", claim.BookingID, errStaleStatus)
	}
	return nil
}

func (t *LedgerTx) checkFree(ctx context.Context, key SlotKey, interval Interval, exclude string) error {
	held, err := t.Claims(ctx, key)
	if err != nil {
		return err
	}
	var conflicts []string
	for _, claim := range held {
		if claim.BookingID != exclude && claim.Interval.Overlaps(interval) {
			conflicts = append(conflicts, claim.BookingID)
		}
	}
	if len(conflicts) > 0 {
		return &ConflictError{
			CourtID:   key.CourtID,
			Date:      key.Date,
			Interval:  interval,
			Reason:    ReasonOverlap,
			Conflicts: conflicts,
		}
	}
	return nil
}

// Release deletes a held claim. It is idempotent.
func (t *LedgerTx) Release(ctx context.Context, bookingID string) error {
	if _, err := t.Queries.DeleteSlotClaim(ctx, bookingID); err != nil {
		return storageError("release slot claim", err)
	}
	return nil
}

// Retire keeps the claim as history but stops it blocking new bookings.
func (t *LedgerTx) Retire(ctx context.Context, bookingID string) error {
	if _, err := t.Queries.RetireSlotClaim(ctx, bookingID); err != nil {
		return storageError("retire slot claim", err)
	}
	return nil
}

func (t *LedgerTx) IsHeld(ctx context.Context, bookingID string) (bool, error) {
	claim, err := t.Queries.GetSlotClaim(ctx, bookingID)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, storageError("get slot claim", err)
	}
	return claim.State == claimHeld, nil
}
