package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/yeremiapane/yumpooma/database"
	"github.com/yeremiapane/yumpooma/kds"
	"github.com/yeremiapane/yumpooma/models"
	"github.com/yeremiapane/yumpooma/utils"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"

	windowBefore = 30 * time.Minute
	windowAfter  = 60 * time.Minute

	lastMinuteOfDay = 23*60 + 59
)

// ConflictPolicy decides which stored reservations block a new one.
type ConflictPolicy string

const (
	// PolicyOverlap blocks a booking when its window overlaps the window of an
	// existing reservation on the same table, so accepted windows never overlap.
	PolicyOverlap ConflictPolicy = "overlap"
	// PolicyWindow only blocks when an existing start time falls inside the
	// requested window.
	PolicyWindow ConflictPolicy = "window"
)

func ParseConflictPolicy(s string) (ConflictPolicy, error) {
	switch p := ConflictPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return PolicyOverlap, nil
	case PolicyOverlap, PolicyWindow:
		return p, nil
	default:
		return "", fmt.Errorf("unknown reservation conflict policy %q", s)
	}
}

// ConflictWindow returns the HH:MM bounds a reservation at t occupies,
// 30 minutes before to 60 minutes after, clamped to the same day.
func ConflictWindow(t time.Time) (start, end string) {
	return clampedRange(t, windowBefore, windowAfter)
}

func (p ConflictPolicy) searchRange(t time.Time) (start, end string) {
	if p == PolicyWindow {
		return ConflictWindow(t)
	}
	// windows [s-30, s+60] and [t-30, t+60] overlap iff |s-t| <= 90
	span := windowBefore + windowAfter
	return clampedRange(t, span, span)
}

func clampedRange(t time.Time, before, after time.Duration) (string, string) {
	minute := t.Hour()*60 + t.Minute()
	return formatMinute(minute - int(before/time.Minute)), formatMinute(minute + int(after/time.Minute))
}

func formatMinute(m int) string {
	if m < 0 {
		m = 0
	}
	if m > lastMinuteOfDay {
		m = lastMinuteOfDay
	}
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// BookingRequest is the customer supplied part of a reservation.
type BookingRequest struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Date    string `json:"date"`
	Time    string `json:"time"`
	TableNo *int   `json:"table_no"`
	People  int    `json:"people"`
}

// normalize validates the request and returns the reservation to store along
// with the parsed clock time.
func (r BookingRequest) normalize() (*models.Reservation, time.Time, error) {
	name := strings.TrimSpace(r.Name)
	if name == "" {
		return nil, time.Time{}, invalid("name", "is required")
	}
	date, err := time.Parse(dateLayout, strings.TrimSpace(r.Date))
	if err != nil {
		return nil, time.Time{}, invalid("date", "must be YYYY-MM-DD")
	}
	clock, err := time.Parse(timeLayout, strings.TrimSpace(r.Time))
	if err != nil {
		return nil, time.Time{}, invalid("time", "must be HH:MM")
	}
	if r.People < 1 {
		return nil, time.Time{}, invalid("people", "must be at least 1")
	}
	if r.TableNo != nil && *r.TableNo < 1 {
		return nil, time.Time{}, invalid("table_no", "must be at least 1")
	}

	return &models.Reservation{
		Name:    name,
		Phone:   strings.TrimSpace(r.Phone),
		Date:    date.Format(dateLayout),
		Time:    clock.Format(timeLayout),
		TableNo: r.TableNo,
		People:  r.People,
	}, clock, nil
}

// ReservationService books and manages table reservations.
type ReservationService struct {
	gateway   *database.Gateway
	policy    ConflictPolicy
	publisher EventPublisher
	hub       Broadcaster
	slots     *keyedMutex
}

func NewReservationService(gateway *database.Gateway, policy ConflictPolicy, publisher EventPublisher, hub Broadcaster) *ReservationService {
	if policy == "" {
		policy = PolicyOverlap
	}
	if publisher == nil {
		publisher = NopPublisher{}
	}
	return &ReservationService{
		gateway:   gateway,
		policy:    policy,
		publisher: publisher,
		hub:       hub,
		slots:     newKeyedMutex(),
	}
}

func (s *ReservationService) Policy() ConflictPolicy {
	return s.policy
}

// HasConflict reports whether a reservation at date and clock time on
// tableNo would clash with an existing one. A nil table never clashes.
func (s *ReservationService) HasConflict(ctx context.Context, date string, tableNo *int, clock string) (bool, error) {
	day, err := time.Parse(dateLayout, strings.TrimSpace(date))
	if err != nil {
		return false, invalid("date", "must be YYYY-MM-DD")
	}
	at, err := time.Parse(timeLayout, strings.TrimSpace(clock))
	if err != nil {
		return false, invalid("time", "must be HH:MM")
	}
	if tableNo != nil && *tableNo < 1 {
		return false, invalid("table_no", "must be at least 1")
	}
	return s.conflicts(ctx, s.gateway, day.Format(dateLayout), tableNo, at)
}

// conflicts runs the policy's search on gw, which may be bound to a
// transaction.
func (s *ReservationService) conflicts(ctx context.Context, gw *database.Gateway, date string, tableNo *int, at time.Time) (bool, error) {
	if tableNo == nil {
		return false, nil
	}
	start, end := s.policy.searchRange(at)
	return gw.HasConflictingReservation(ctx, date, tableNo, start, end)
}

// Book validates req and stores it unless it clashes with an existing
// reservation, in which case ErrReservationConflict is returned.
func (s *ReservationService) Book(ctx context.Context, req BookingRequest) (*models.Reservation, error) {
	reservation, clock, err := req.normalize()
	if err != nil {
		return nil, err
	}

	if reservation.TableNo != nil {
		unlock := s.slots.Lock(strconv.Itoa(*reservation.TableNo) + "|" + reservation.Date)
		defer unlock()
	}

	err = s.gateway.WithinTx(ctx, func(tx *database.Gateway) error {
		conflict, err := s.conflicts(ctx, tx, reservation.Date, reservation.TableNo, clock)
		if err != nil {
			return err
		}
		if conflict {
			return ErrReservationConflict
		}
		return tx.CreateReservation(ctx, reservation)
	})
	if err != nil {
		return nil, err
	}

	utils.InfoLogger.Printf("Reservation %d booked for %s %s", reservation.ID, reservation.Date, reservation.Time)
	s.notify(ctx, EventReservationCreated, reservation.TableNo, reservation)
	return reservation, nil
}

func (s *ReservationService) List(ctx context.Context, date string) ([]models.Reservation, error) {
	if date == "" {
		return s.gateway.ListReservations(ctx)
	}
	if _, err := time.Parse(dateLayout, date); err != nil {
		return nil, invalid("date", "must be YYYY-MM-DD")
	}
	return s.gateway.ListReservationsByDate(ctx, date)
}

// Delete reports false when the reservation does not exist.
func (s *ReservationService) Delete(ctx context.Context, id uint) (bool, error) {
	reservation, err := s.gateway.GetReservation(ctx, id)
	if err != nil || reservation == nil {
		return false, err
	}
	deleted, err := s.gateway.DeleteReservation(ctx, id)
	if err != nil || !deleted {
		return deleted, err
	}
	s.notify(ctx, EventReservationDeleted, reservation.TableNo, reservation)
	return true, nil
}

// UpdateStatus accepts confirmed, cancelled, or an empty status.
func (s *ReservationService) UpdateStatus(ctx context.Context, id uint, status string) (*models.Reservation, error) {
	status = strings.ToLower(strings.TrimSpace(status))
	switch status {
	case "", models.ReservationConfirmed, models.ReservationCancelled:
	default:
		return nil, invalid("status", "must be %q or %q", models.ReservationConfirmed, models.ReservationCancelled)
	}

	ok, err := s.gateway.UpdateReservationStatus(ctx, id, status)
	if err != nil || !ok {
		return nil, err
	}
	reservation, err := s.gateway.GetReservation(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.hub != nil && reservation != nil {
		s.hub.Broadcast(kds.EventReservationUpdated, reservation)
	}
	return reservation, nil
}

func (s *ReservationService) notify(ctx context.Context, eventType string, tableNo *int, reservation *models.Reservation) {
	event := Event{Type: eventType, TableNo: tableNo, OccurredAt: time.Now(), Payload: reservation}
	if err := s.publisher.Publish(ctx, event); err != nil {
		utils.ErrorLogger.Printf("Error publishing %s: %v", eventType, err)
	}
	if s.hub == nil {
		return
	}
	switch eventType {
	case EventReservationCreated:
		s.hub.Broadcast(kds.EventReservationCreated, reservation)
	case EventReservationDeleted:
		s.hub.Broadcast(kds.EventReservationDeleted, reservation)
	}
}

// keyedMutex serialises work per key and forgets keys nobody holds.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*refMutex
}

type refMutex struct {
	sync.Mutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*refMutex)}
}

func (k *keyedMutex) Lock(key string) (unlock func()) {
	k.mu.Lock()
	m, ok := k.locks[key]
	if !ok {
		m = &refMutex{}
		k.locks[key] = m
	}
	m.refs++
	k.mu.Unlock()

	m.Lock()
	return func() {
		m.Unlock()
		k.mu.Lock()
		m.refs--
		if m.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}
