// Package booking decides whether court time may be granted, keeps held
// slots non-overlapping per court and date, and drives bookings through their
// payment and attendance lifecycle.
package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/codr1/courtbook/internal/db"
	dbgen "github.com/codr1/courtbook/internal/db/generated"
	"github.com/codr1/courtbook/internal/events"
	"github.com/codr1/courtbook/internal/lock"
	"github.com/codr1/courtbook/internal/metrics"
)

// Config holds the engine's policy windows.
type Config struct {
	PaymentHold        time.Duration
	NoShowGrace        time.Duration
	CheckInOpensBefore time.Duration
	LockTimeout        time.Duration
	MaxRecurringWeeks  int
	SweepBatchSize     int
}

func DefaultConfig() Config {
	return Config{
		PaymentHold:        15 * time.Minute,
		NoShowGrace:        15 * time.Minute,
		CheckInOpensBefore: 30 * time.Minute,
		LockTimeout:        3 * time.Second,
		MaxRecurringWeeks:  52,
		SweepBatchSize:     200,
	}
}

type Engine struct {
	db        *db.DB
	courts    CourtDirectory
	ledger    *Ledger
	locker    lock.Locker
	clock     clockwork.Clock
	publisher events.Publisher
	cfg       Config
	validate  *validator.Validate
}

type Option func(*Engine)

func WithClock(clock clockwork.Clock) Option {
	return func(e *Engine) { e.clock = clock }
}

func WithPublisher(publisher events.Publisher) Option {
	return func(e *Engine) { e.publisher = publisher }
}

func WithConfig(cfg Config) Option {
	return func(e *Engine) { e.cfg = cfg }
}

// WithLocker replaces the in-process slot locker, e.g. with lock.Redis when
// several instances share a database.
func WithLocker(locker lock.Locker) Option {
	return func(e *Engine) { e.locker = locker }
}

func NewEngine(database *db.DB, courts CourtDirectory, opts ...Option) (*Engine, error) {
	if database == nil || database.Queries == nil {
		return nil, errors.New("booking engine requires a database")
	}
	if courts == nil {
		return nil, errors.New("booking engine requires a court directory")
	}
	e := &Engine{
		db:        database,
		courts:    courts,
		clock:     clockwork.NewRealClock(),
		publisher: events.LogPublisher{},
		cfg:       DefaultConfig(),
		validate:  newValidator(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.cfg.SweepBatchSize <= 0 {
		e.cfg.SweepBatchSize = DefaultConfig().SweepBatchSize
	}
	if e.cfg.MaxRecurringWeeks <= 0 {
		e.cfg.MaxRecurringWeeks = DefaultConfig().MaxRecurringWeeks
	}
	ledger, err := NewLedger(database, e.locker, e.cfg.LockTimeout, e.clock)
	if err != nil {
		return nil, err
	}
	e.ledger = ledger
	return e, nil
}

// Ledger exposes the slot ledger backing the engine.
func (e *Engine) Ledger() *Ledger {
	return e.ledger
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})
	return v
}

func (e *Engine) validateStruct(req any) error {
	err := e.validate.Struct(req)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		reason := "failed " + fe.Tag()
		if fe.Param() != "" {
			reason += "=" + fe.Param()
		}
		return &ValidationError{Field: fe.Field(), Reason: reason}
	}
	return &ValidationError{Reason: err.Error()}
}

// CreateRequest asks for one court interval on one date.
type CreateRequest struct {
	CourtID      int64  `json:"court_id" validate:"required,gt=0"`
	Date         string `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime    string `json:"start_time" validate:"required,len=5"`
	EndTime      string `json:"end_time" validate:"required,len=5"`
	UserID       *int64 `json:"user_id,omitempty" validate:"omitempty,gt=0"`
	GuestName    string `json:"guest_name,omitempty" validate:"required_without=UserID,max=120"`
	TotalCents   int64  `json:"total_cents" validate:"gte=0"`
	DepositCents int64  `json:"deposit_cents" validate:"gte=0"`
	Notes        string `json:"notes,omitempty" validate:"max=500"`
}

// RecurringRequest repeats a CreateRequest weekly from its date. DayOfWeek
// must match the anchor date when set.
type RecurringRequest struct {
	CreateRequest
	DayOfWeek *time.Weekday `json:"day_of_week,omitempty" validate:"omitempty,min=0,max=6"`
	Weeks     int           `json:"recurring_weeks" validate:"required,gt=0"`
}

// EventRequest books the same interval on several courts under one group.
type EventRequest struct {
	CourtIDs     []int64 `json:"court_ids" validate:"required,min=1,dive,gt=0"`
	Date         string  `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime    string  `json:"start_time" validate:"required,len=5"`
	EndTime      string  `json:"end_time" validate:"required,len=5"`
	UserID       *int64  `json:"user_id,omitempty" validate:"omitempty,gt=0"`
	GuestName    string  `json:"guest_name,omitempty" validate:"required_without=UserID,max=120"`
	TotalCents   int64   `json:"total_cents" validate:"gte=0"`
	DepositCents int64   `json:"deposit_cents" validate:"gte=0"`
	Notes        string  `json:"notes,omitempty" validate:"max=500"`
}

// RescheduleRequest moves a PENDING or CONFIRMED booking. A zero CourtID
// keeps the current court.
type RescheduleRequest struct {
	BookingID string `json:"booking_id" validate:"required"`
	CourtID   int64  `json:"court_id,omitempty" validate:"gte=0"`
	Date      string `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime string `json:"start_time" validate:"required,len=5"`
	EndTime   string `json:"end_time" validate:"required,len=5"`
}

// placement is a candidate interval resolved against its court.
type placement struct {
	court    Court
	date     string
	day      time.Time
	interval Interval
	startsAt time.Time
	endsAt   time.Time
}

func (p placement) key() SlotKey {
	return SlotKey{CourtID: p.court.ID, Date: p.date}
}

func (e *Engine) now() time.Time {
	return e.clock.Now().UTC().Truncate(time.Second)
}

func parseInterval(start, end string) (Interval, error) {
	interval, err := NewInterval(start, end)
	if err != nil {
		return Interval{}, &ValidationError{Field: "start_time", Reason: err.Error()}
	}
	if !interval.Valid() {
		return Interval{}, validationError("end_time", "end %s must be after start %s", interval.End, interval.Start)
	}
	return interval, nil
}

// place resolves the court and checks granularity and that the slot has not
// started yet.
func (e *Engine) place(ctx context.Context, courtID int64, date string, interval Interval) (placement, error) {
	day, err := ParseDate(date)
	if err != nil {
		return placement{}, &ValidationError{Field: "date", Reason: err.Error()}
	}
	court, err := e.courts.Court(ctx, courtID)
	if err != nil {
		if errors.Is(err, ErrCourtNotFound) {
			return placement{}, validationError("court_id", "court %d does not exist", courtID)
		}
		return placement{}, storageError("load court", err)
	}
	if court.SlotMinutes > 0 && interval.Minutes()%court.SlotMinutes != 0 {
		return placement{}, validationError("end_time", "duration %d minutes is not a multiple of %d", interval.Minutes(), court.SlotMinutes)
	}
	loc := court.Location
	if loc == nil {
		loc = time.UTC
	}
	p := placement{
		court:    court,
		date:     formatDate(day),
		day:      day,
		interval: interval,
		startsAt: instant(day, interval.Start, loc),
		endsAt:   instant(day, interval.End, loc),
	}
	if !p.startsAt.After(e.now()) {
		return placement{}, validationError("start_time", "%s %s has already started", p.date, interval.Start)
	}
	return p, nil
}

// precheck runs the lock-free conflict decision so rejected requests never
// take a lock or write a row.
func (e *Engine) precheck(ctx context.Context, p placement, exclude string) error {
	hours, err := e.courts.WeeklySchedule(ctx, p.court.ID, p.day.Weekday())
	if err != nil {
		return storageError("load court schedule", err)
	}
	held, err := e.ledger.Claims(ctx, p.key())
	if err != nil {
		return err
	}
	decision := Check(CheckInput{
		CourtStatus: p.court.Status,
		OpenRanges:  hours,
		Held:        held,
		Candidate:   p.interval,
		Exclude:     exclude,
	})
	if decision.Accepted {
		return nil
	}
	return decision.err(p.court.ID, p.date, p.interval)
}

// recheck repeats the court status and opening hours decision under the
// slot lock, so a court closed after precheck receives no new booking.
// Overlaps are checked by the claim write itself.
func (e *Engine) recheck(ctx context.Context, tx *LedgerTx, p placement) error {
	court, err := tx.Queries.GetCourtWithBranch(ctx, p.court.ID)
	if errors.Is(err, sql.ErrNoRows) {
		return validationError("court_id", "court %d does not exist", p.court.ID)
	}
	if err != nil {
		return storageError("reload court", err)
	}
	rows, err := tx.Queries.ListCourtHours(ctx, dbgen.ListCourtHoursParams{
		CourtID:   p.court.ID,
		DayOfWeek: int64(p.day.Weekday()),
	})
	if err != nil {
		return storageError("reload court schedule", err)
	}
	hours := make([]Interval, 0, len(rows))
	for _, row := range rows {
		interval, err := NewInterval(row.OpensAt, row.ClosesAt)
		if err != nil {
			return storageError("parse court hours", err)
		}
		hours = append(hours, interval)
	}
	decision := Check(CheckInput{
		CourtStatus: CourtStatus(court.Status),
		OpenRanges:  hours,
		Candidate:   p.interval,
	})
	if decision.Accepted {
		return nil
	}
	return decision.err(p.court.ID, p.date, p.interval)
}

func (e *Engine) paymentDeadline(now, startsAt time.Time) time.Time {
	deadline := now.Add(e.cfg.PaymentHold)
	if startsAt.Before(deadline) {
		return startsAt
	}
	return deadline
}

type newBooking struct {
	placement
	id           string
	kind         Kind
	userID       *int64
	guestName    string
	totalCents   int64
	depositCents int64
	notes        string
	groupID      string
	weeks        int
}

func (e *Engine) insertBooking(ctx context.Context, tx *LedgerTx, nb newBooking) (Booking, error) {
	if err := e.recheck(ctx, tx, nb.placement); err != nil {
		return Booking{}, err
	}
	now := tx.now
	total := nb.totalCents
	if total == 0 && nb.court.DefaultPriceCents > 0 {
		total = nb.court.DefaultPriceCents * int64(nb.interval.Minutes()) / 60
	}
	if nb.depositCents > total {
		return Booking{}, validationError("deposit_cents", "deposit %d exceeds total %d", nb.depositCents, total)
	}
	payment := PaymentUnpaid
	if total == 0 {
		payment = PaymentPaid
	}
	params := dbgen.CreateBookingParams{
		ID:              nb.id,
		BranchID:        nb.court.BranchID,
		CourtID:         nb.court.ID,
		GuestName:       nb.guestName,
		Kind:            string(nb.kind),
		PlayDate:        nb.date,
		StartTime:       nb.interval.Start.String(),
		EndTime:         nb.interval.End.String(),
		StartsAt:        nb.startsAt,
		EndsAt:          nb.endsAt,
		Status:          string(StatusPending),
		PaymentStatus:   string(payment),
		TotalCents:      total,
		DepositCents:    nb.depositCents,
		IsRecurring:     nb.kind == KindRecurring,
		RecurringWeeks:  int64(nb.weeks),
		PaymentDeadline: e.paymentDeadline(now, nb.startsAt),
		Notes:           nb.notes,
		CreatedAt:       now,
	}
	if nb.userID != nil {
		params.UserID = sql.NullInt64{Int64: *nb.userID, Valid: true}
	}
	if nb.groupID != "" {
		params.RecurringGroupID = sql.NullString{String: nb.groupID, Valid: true}
	}
	row, err := tx.Queries.CreateBooking(ctx, params)
	if err != nil {
		return Booking{}, storageError("create booking", err)
	}
	b := bookingFromRow(row)
	if err := tx.Reserve(ctx, b.claim()); err != nil {
		return Booking{}, err
	}
	if payment != PaymentPaid {
		return b, nil
	}

	// Nothing is owed, so the booking is confirmed with its claim.
	if err := e.applyStep(ctx, tx, b, step{to: StatusConfirmed, reason: reasonNothingDue}); err != nil {
		return Booking{}, err
	}
	row, err = tx.Queries.GetBooking(ctx, b.ID)
	if err != nil {
		return Booking{}, storageError("reload booking", err)
	}
	return bookingFromRow(row), nil
}

// announceCreated publishes the confirmation of bookings that needed no
// payment. It runs after the creating transaction commits.
func (e *Engine) announceCreated(ctx context.Context, created ...Booking) {
	for _, b := range created {
		if b.Status != StatusConfirmed {
			continue
		}
		e.afterCommit(ctx, b, []change{{from: StatusPending, to: StatusConfirmed, reason: reasonNothingDue}})
	}
}

func (e *Engine) reject(ctx context.Context, err error) error {
	var conflict *ConflictError
	switch {
	case errors.As(err, &conflict):
		metrics.RecordRejection(conflict.Reason)
	case isValidation(err):
		metrics.RecordRejection("validation")
	case isBusy(err):
		metrics.RecordRejection("busy")
	}
	return err
}

func isValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

func isBusy(err error) bool {
	var b *BusyError
	return errors.As(err, &b)
}

// Create places a single PENDING booking and holds its slot.
func (e *Engine) Create(ctx context.Context, req CreateRequest) (Booking, error) {
	logger := log.Ctx(ctx).With().
		Str("component", "booking_engine").
		Int64("court_id", req.CourtID).
		Str("date", req.Date).
		Str("start_time", req.StartTime).
		Str("end_time", req.EndTime).
		Logger()

	if err := e.validateStruct(req); err != nil {
		return Booking{}, e.reject(ctx, err)
	}
	interval, err := parseInterval(req.StartTime, req.EndTime)
	if err != nil {
		return Booking{}, e.reject(ctx, err)
	}
	p, err := e.place(ctx, req.CourtID, req.Date, interval)
	if err != nil {
		return Booking{}, e.reject(ctx, err)
	}
	if err := e.precheck(ctx, p, ""); err != nil {
		logger.Info().Err(err).Str("decision", "rejected").Msg("Booking request rejected")
		return Booking{}, e.reject(ctx, err)
	}

	var created Booking
	err = e.ledger.Atomically(ctx, []SlotKey{p.key()}, func(tx *LedgerTx) error {
		var err error
		created, err = e.insertBooking(ctx, tx, newBooking{
			placement:    p,
			id:           uuid.NewString(),
			kind:         KindSingle,
			userID:       req.UserID,
			guestName:    req.GuestName,
			totalCents:   req.TotalCents,
			depositCents: req.DepositCents,
			notes:        req.Notes,
		})
		return err
	})
	if err != nil {
		logger.Info().Err(err).Str("decision", "rejected").Msg("Booking reservation failed")
		return Booking{}, e.reject(ctx, err)
	}

	metrics.RecordBookingCreated(string(KindSingle), 1)
	e.announceCreated(ctx, created)
	logger.Info().
		Str("booking_id", created.ID).
		Time("payment_deadline", created.PaymentDeadline).
		Str("decision", "accepted").
		Msg("Booking created")
	return created, nil
}

// CreateRecurring books the same interval every week from the anchor date.
// Either every occurrence is persisted or none is.
func (e *Engine) CreateRecurring(ctx context.Context, req RecurringRequest) ([]Booking, error) {
	logger := log.Ctx(ctx).With().
		Str("component", "booking_engine").
		Int64("court_id", req.CourtID).
		Str("anchor_date", req.Date).
		Int("recurring_weeks", req.Weeks).
		Logger()

	if err := e.validateStruct(req); err != nil {
		return nil, e.reject(ctx, err)
	}
	if req.Weeks > e.cfg.MaxRecurringWeeks {
		return nil, e.reject(ctx, validationError("recurring_weeks", "at most %d weeks allowed", e.cfg.MaxRecurringWeeks))
	}
	interval, err := parseInterval(req.StartTime, req.EndTime)
	if err != nil {
		return nil, e.reject(ctx, err)
	}
	occurrences, err := Expand(req.Date, req.DayOfWeek, req.Weeks)
	if err != nil {
		return nil, e.reject(ctx, err)
	}

	placements := make([]placement, 0, len(occurrences))
	keys := make([]SlotKey, 0, len(occurrences))
	for _, occ := range occurrences {
		p, err := e.place(ctx, req.CourtID, occ.Date, interval)
		if err != nil {
			return nil, e.reject(ctx, err)
		}
		if err := e.precheck(ctx, p, ""); err != nil {
			logger.Info().Err(err).Int("week", occ.Week).Str("decision", "rejected").Msg("Recurring occurrence rejected")
			return nil, e.reject(ctx, recurrenceError(occ, err))
		}
		placements = append(placements, p)
		keys = append(keys, p.key())
	}

	groupID := uuid.NewString()
	created := make([]Booking, 0, len(placements))
	err = e.ledger.Atomically(ctx, keys, func(tx *LedgerTx) error {
		for i, p := range placements {
			b, err := e.insertBooking(ctx, tx, newBooking{
				placement:    p,
				id:           uuid.NewString(),
				kind:         KindRecurring,
				userID:       req.UserID,
				guestName:    req.GuestName,
				totalCents:   req.TotalCents,
				depositCents: req.DepositCents,
				notes:        req.Notes,
				groupID:      groupID,
				weeks:        req.Weeks,
			})
			if err != nil {
				return recurrenceError(occurrences[i], err)
			}
			created = append(created, b)
		}
		return nil
	})
	if err != nil {
		logger.Info().Err(err).Str("decision", "rejected").Msg("Recurring booking rolled back")
		return nil, e.reject(ctx, err)
	}

	metrics.RecordBookingCreated(string(KindRecurring), len(created))
	e.announceCreated(ctx, created...)
	logger.Info().
		Str("recurring_group_id", groupID).
		Int("booking_count", len(created)).
		Str("decision", "accepted").
		Msg("Recurring booking created")
	return created, nil
}

func recurrenceError(occ Occurrence, err error) error {
	var conflict *ConflictError
	if !errors.As(err, &conflict) {
		return err
	}
	return &RecurrenceConflictError{
		Date:      occ.Date,
		Week:      occ.Week,
		Conflict:  conflict,
		Conflicts: conflict.Conflicts,
	}
}

// CreateEvent reserves one interval on several courts of the same date. The
// courts are locked in ascending order and committed together.
func (e *Engine) CreateEvent(ctx context.Context, req EventRequest) ([]Booking, error) {
	logger := log.Ctx(ctx).With().
		Str("component", "booking_engine").
		Ints64("court_ids", req.CourtIDs).
		Str("date", req.Date).
		Logger()

	if err := e.validateStruct(req); err != nil {
		return nil, e.reject(ctx, err)
	}
	interval, err := parseInterval(req.StartTime, req.EndTime)
	if err != nil {
		return nil, e.reject(ctx, err)
	}

	seen := make(map[int64]bool, len(req.CourtIDs))
	placements := make([]placement, 0, len(req.CourtIDs))
	keys := make([]SlotKey, 0, len(req.CourtIDs))
	for _, courtID := range req.CourtIDs {
		if seen[courtID] {
			return nil, e.reject(ctx, validationError("court_ids", "court %d listed twice", courtID))
		}
		seen[courtID] = true
		p, err := e.place(ctx, courtID, req.Date, interval)
		if err != nil {
			return nil, e.reject(ctx, err)
		}
		if err := e.precheck(ctx, p, ""); err != nil {
			return nil, e.reject(ctx, err)
		}
		placements = append(placements, p)
		keys = append(keys, p.key())
	}

	groupID := uuid.NewString()
	var created []Booking
	err = e.ledger.Atomically(ctx, keys, func(tx *LedgerTx) error {
		created = created[:0]
		for _, p := range placements {
			b, err := e.insertBooking(ctx, tx, newBooking{
				placement:    p,
				id:           uuid.NewString(),
				kind:         KindEvent,
				userID:       req.UserID,
				guestName:    req.GuestName,
				totalCents:   req.TotalCents,
				depositCents: req.DepositCents,
				notes:        req.Notes,
				groupID:      groupID,
			})
			if err != nil {
				return err
			}
			created = append(created, b)
		}
		return nil
	})
	if err != nil {
		logger.Info().Err(err).Str("decision", "rejected").Msg("Event booking rolled back")
		return nil, e.reject(ctx, err)
	}

	metrics.RecordBookingCreated(string(KindEvent), len(created))
	e.announceCreated(ctx, created...)
	logger.Info().
		Str("recurring_group_id", groupID).
		Int("booking_count", len(created)).
		Str("decision", "accepted").
		Msg("Event booking created")
	return created, nil
}

// Reschedule moves a PENDING or CONFIRMED booking to a new interval, keeping
// its status and payments.
func (e *Engine) Reschedule(ctx context.Context, req RescheduleRequest) (Booking, error) {
	logger := log.Ctx(ctx).With().
		Str("component", "booking_engine").
		Str("booking_id", req.BookingID).
		Str("date", req.Date).
		Str("start_time", req.StartTime).
		Str("end_time", req.EndTime).
		Logger()

	if err := e.validateStruct(req); err != nil {
		return Booking{}, e.reject(ctx, err)
	}
	current, err := e.Get(ctx, req.BookingID)
	if err != nil {
		return Booking{}, err
	}
	if err := reschedulable(current, e.now()); err != nil {
		return Booking{}, err
	}
	interval, err := parseInterval(req.StartTime, req.EndTime)
	if err != nil {
		return Booking{}, e.reject(ctx, err)
	}
	courtID := req.CourtID
	if courtID == 0 {
		courtID = current.CourtID
	}
	p, err := e.place(ctx, courtID, req.Date, interval)
	if err != nil {
		return Booking{}, e.reject(ctx, err)
	}
	if err := e.precheck(ctx, p, current.ID); err != nil {
		return Booking{}, e.reject(ctx, err)
	}

	var moved Booking
	err = e.ledger.Atomically(ctx, []SlotKey{current.Key(), p.key()}, func(tx *LedgerTx) error {
		row, err := tx.Queries.GetBooking(ctx, current.ID)
		if err != nil {
			return storageError("reload booking", err)
		}
		b := bookingFromRow(row)
		if b.Key() != current.Key() || b.Status != current.Status {
			return &InvalidTransitionError{BookingID: b.ID, From: b.Status, To: b.Status, Reason: "booking changed concurrently"}
		}
		if err := e.recheck(ctx, tx, p); err != nil {
			return err
		}
		if err := tx.Move(ctx, Claim{BookingID: b.ID, CourtID: p.court.ID, Date: p.date, Interval: p.interval}); err != nil {
			return err
		}
		deadline := b.PaymentDeadline
		if p.startsAt.Before(deadline) {
			deadline = p.startsAt
		}
		n, err := tx.Queries.UpdateBookingSlot(ctx, dbgen.UpdateBookingSlotParams{
			BranchID:        p.court.BranchID,
			CourtID:         p.court.ID,
			PlayDate:        p.date,
			StartTime:       p.interval.Start.String(),
			EndTime:         p.interval.End.String(),
			StartsAt:        p.startsAt,
			EndsAt:          p.endsAt,
			PaymentDeadline: deadline,
			UpdatedAt:       tx.now,
			ID:              b.ID,
			PriorStatus:     string(b.Status),
		})
		if err != nil {
			return storageError("update booking slot", err)
		}
		if n == 0 {
			return &InvalidTransitionError{BookingID: b.ID, From: b.Status, To: b.Status, Reason: "booking changed concurrently"}
		}
		row, err = tx.Queries.GetBooking(ctx, b.ID)
		if err != nil {
			return storageError("reload booking", err)
		}
		moved = bookingFromRow(row)
		return nil
	})
	if err != nil {
		logger.Info().Err(err).Str("decision", "rejected").Msg("Reschedule failed")
		return Booking{}, e.reject(ctx, err)
	}
	logger.Info().Int64("court_id", moved.CourtID).Str("decision", "accepted").Msg("Booking rescheduled")
	return moved, nil
}

func reschedulable(b Booking, now time.Time) error {
	if b.Status != StatusPending && b.Status != StatusConfirmed {
		return &InvalidTransitionError{BookingID: b.ID, From: b.Status, To: b.Status, Reason: "only pending or confirmed bookings can be rescheduled"}
	}
	if !b.StartsAt.After(now) {
		return &InvalidTransitionError{BookingID: b.ID, From: b.Status, To: b.Status, Reason: "booking has already started"}
	}
	return nil
}

func (e *Engine) Get(ctx context.Context, id string) (Booking, error) {
	row, err := e.db.Queries.GetBooking(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return Booking{}, fmt.Errorf("%w: %s", ErrBookingNotFound, id)
	}
	if err != nil {
		return Booking{}, storageError("get booking", err)
	}
	return bookingFromRow(row), nil
}

// ListForCourtDate returns every booking on the court and date in any status.
func (e *Engine) ListForCourtDate(ctx context.Context, courtID int64, date string) ([]Booking, error) {
	day, err := ParseDate(date)
	if err != nil {
		return nil, &ValidationError{Field: "date", Reason: err.Error()}
	}
	rows, err := e.db.Queries.ListBookingsByCourtDate(ctx, dbgen.ListBookingsByCourtDateParams{
		CourtID:  courtID,
		PlayDate: formatDate(day),
	})
	if err != nil {
		return nil, storageError("list bookings", err)
	}
	return bookingsFromRows(rows), nil
}

// ListGroup returns the siblings of a recurring or event group.
func (e *Engine) ListGroup(ctx context.Context, groupID string) ([]Booking, error) {
	rows, err := e.db.Queries.ListBookingsByGroup(ctx, sql.NullString{String: groupID, Valid: groupID != ""})
	if err != nil {
		return nil, storageError("list booking group", err)
	}
	return bookingsFromRows(rows), nil
}

func bookingsFromRows(rows []dbgen.Booking) []Booking {
	out := make([]Booking, 0, len(rows))
	for _, row := range rows {
		out = append(out, bookingFromRow(row))
	}
	return out
}

// Availability lists the free slots of branch granularity on a court and
// date. It reads without locking, so a listed slot can still be lost to a
// concurrent Create.
func (e *Engine) Availability(ctx context.Context, courtID int64, date string) ([]Interval, error) {
	day, err := ParseDate(date)
	if err != nil {
		return nil, &ValidationError{Field: "date", Reason: err.Error()}
	}
	court, err := e.courts.Court(ctx, courtID)
	if err != nil {
		if errors.Is(err, ErrCourtNotFound) {
			return nil, validationError("court_id", "court %d does not exist", courtID)
		}
		return nil, storageError("load court", err)
	}
	if court.Status != CourtAvailable {
		return nil, nil
	}
	hours, err := e.courts.WeeklySchedule(ctx, courtID, day.Weekday())
	if err != nil {
		return nil, storageError("load court schedule", err)
	}
	held, err := e.ledger.Claims(ctx, SlotKey{CourtID: courtID, Date: formatDate(day)})
	if err != nil {
		return nil, err
	}
	step := court.SlotMinutes
	if step <= 0 {
		step = 30
	}
	loc := court.Location
	if loc == nil {
		loc = time.UTC
	}
	now := e.now()

	var free []Interval
	for _, open := range mergeRanges(hours) {
		for start := open.Start; start+Minute(step) <= open.End; start += Minute(step) {
			slot := Interval{Start: start, End: start + Minute(step)}
			if !instant(day, slot.Start, loc).After(now) {
				continue
			}
			if Check(CheckInput{CourtStatus: court.Status, OpenRanges: hours, Held: held, Candidate: slot}).Accepted {
				free = append(free, slot)
			}
		}
	}
	return free, nil
}
