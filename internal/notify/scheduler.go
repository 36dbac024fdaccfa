// Package notify schedules beauty routine reminders and delivers them
// through a display collaborator when their fire time elapses.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lumina/glow-platform/internal/domain"
	"github.com/lumina/glow-platform/internal/pkg/logger"
	"github.com/lumina/glow-platform/internal/store"
)

const defaultPollInterval = 15 * time.Second

// Scheduler owns the reminder lifecycle. Pending entries live in the
// document store; a polling loop fires the due ones. Delivery is
// at-most-once per occurrence within a single process.
type Scheduler struct {
	docs     store.DocumentStore
	display  Display
	interval time.Duration
	now      func() time.Time

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithPollInterval overrides how often due reminders are checked.
func WithPollInterval(d time.Duration) Option {
	return func(s *Scheduler) { s.interval = d }
}

// WithClock overrides the time source. Used in tests.
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) { s.now = now }
}

// NewScheduler creates a scheduler over the given store and display.
func NewScheduler(docs store.DocumentStore, display Display, opts ...Option) *Scheduler {
	s := &Scheduler{
		docs:     docs,
		display:  display,
		interval: defaultPollInterval,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Schedule queues a reminder. It returns false without queuing when the
// fire time is already past for a one-shot reminder, or when the display
// refuses permission. A past-due recurring reminder is rolled forward to
// its next future occurrence before acceptance.
func (s *Scheduler) Schedule(ctx context.Context, n domain.ScheduledNotification) (bool, error) {
	if !domain.ValidRecurrence(n.Recurrence) {
		return false, fmt.Errorf("notify: invalid recurrence %q", n.Recurrence)
	}

	now := s.now()
	if !n.FireAt.After(now) {
		if n.Recurrence == domain.RecurrenceNone {
			return false, nil
		}
		n.FireAt = rollForward(n.FireAt, n.Recurrence, now)
	}

	if !s.display.PermissionGranted(ctx, n.UserID) {
		return false, nil
	}

	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	n.State = domain.NotificationPending
	n.CreatedAt = now.UTC()

	if _, err := s.docs.Insert(ctx, store.CollectionNotifications, n); err != nil {
		return false, fmt.Errorf("queuing reminder: %w", err)
	}
	return true, nil
}

// Cancel removes a pending reminder by id. It reports whether anything
// was removed.
func (s *Scheduler) Cancel(ctx context.Context, id string) (bool, error) {
	n, err := s.docs.Delete(ctx, store.CollectionNotifications,
		store.Eq("id", id), store.Eq("state", string(domain.NotificationPending)))
	if err != nil {
		return false, fmt.Errorf("canceling reminder %s: %w", id, err)
	}
	return n > 0, nil
}

// List returns a user's pending reminders.
func (s *Scheduler) List(ctx context.Context, userID string) ([]domain.ScheduledNotification, error) {
	raws, err := s.docs.Find(ctx, store.CollectionNotifications,
		store.Eq("user_id", userID), store.Eq("state", string(domain.NotificationPending)))
	if err != nil {
		return nil, fmt.Errorf("listing reminders for %s: %w", userID, err)
	}
	return decodeAll(raws), nil
}

// Start reconciles stored entries missed during downtime and begins the
// polling loop.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = true
	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.mu.Unlock()

	if err := s.reconcile(runCtx); err != nil {
		logger.Warn("Reminder reconcile failed", "error", err.Error())
	}

	s.wg.Add(1)
	go s.loop(runCtx)
	logger.Info("Reminder scheduler started", "poll_interval", s.interval.String())
	return nil
}

// Stop halts the polling loop and waits for it to exit.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	cancel := s.cancel
	s.mu.Unlock()

	cancel()
	s.wg.Wait()
	logger.Info("Reminder scheduler stopped")
}

func (s *Scheduler) loop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.FireDue(ctx)
		}
	}
}

// FireDue delivers every pending reminder whose fire time has elapsed.
// Exported so tests can drive the loop without waiting on the ticker.
func (s *Scheduler) FireDue(ctx context.Context) {
	pending, err := s.pendingEntries(ctx)
	if err != nil {
		logger.Warn("Failed to load pending reminders", "error", err.Error())
		return
	}

	now := s.now()
	for _, n := range pending {
		if n.FireAt.After(now) {
			continue
		}
		s.fire(ctx, n)
	}
}

// fire delivers one occurrence and advances its state. Display failures
// are logged, not retried; the occurrence is still consumed.
func (s *Scheduler) fire(ctx context.Context, n domain.ScheduledNotification) {
	if err := s.display.Show(ctx, n); err != nil {
		logger.Warn("Reminder delivery failed", "reminder_id", n.ID, "user_id", n.UserID, "error", err.Error())
	}

	if n.Recurrence == domain.RecurrenceNone {
		fired := n
		fired.State = domain.NotificationFired
		if _, err := s.docs.Update(ctx, store.CollectionNotifications, fired, store.Eq("id", n.ID)); err != nil {
			logger.Warn("Failed to mark reminder fired", "reminder_id", n.ID, "error", err.Error())
		}
		return
	}

	// Recurring: supersede the fired entry and queue its successor one
	// period after the original fire time.
	superseded := n
	superseded.State = domain.NotificationSuperseded
	if _, err := s.docs.Update(ctx, store.CollectionNotifications, superseded, store.Eq("id", n.ID)); err != nil {
		logger.Warn("Failed to supersede reminder", "reminder_id", n.ID, "error", err.Error())
	}

	successor := n
	successor.ID = uuid.New().String()
	successor.FireAt = n.Recurrence.NextOccurrence(n.FireAt)
	successor.State = domain.NotificationPending
	successor.CreatedAt = s.now().UTC()
	if _, err := s.docs.Insert(ctx, store.CollectionNotifications, successor); err != nil {
		logger.Warn("Failed to queue recurring successor", "reminder_id", n.ID, "error", err.Error())
	}
}

// reconcile handles entries whose fire time passed while the process was
// down: recurring entries roll forward to their next future occurrence,
// one-shot entries are dropped.
func (s *Scheduler) reconcile(ctx context.Context) error {
	pending, err := s.pendingEntries(ctx)
	if err != nil {
		return err
	}

	now := s.now()
	for _, n := range pending {
		if n.FireAt.After(now) {
			continue
		}
		if n.Recurrence == domain.RecurrenceNone {
			if _, err := s.docs.Delete(ctx, store.CollectionNotifications, store.Eq("id", n.ID)); err != nil {
				logger.Warn("Failed to drop missed reminder", "reminder_id", n.ID, "error", err.Error())
			}
			logger.Info("Dropped reminder missed during downtime", "reminder_id", n.ID, "user_id", n.UserID)
			continue
		}

		rolled := n
		rolled.FireAt = rollForward(n.FireAt, n.Recurrence, now)
		if _, err := s.docs.Update(ctx, store.CollectionNotifications, rolled, store.Eq("id", n.ID)); err != nil {
			logger.Warn("Failed to roll forward reminder", "reminder_id", n.ID, "error", err.Error())
		}
	}
	return nil
}

func (s *Scheduler) pendingEntries(ctx context.Context) ([]domain.ScheduledNotification, error) {
	raws, err := s.docs.Find(ctx, store.CollectionNotifications,
		store.Eq("state", string(domain.NotificationPending)))
	if err != nil {
		return nil, err
	}
	return decodeAll(raws), nil
}

func decodeAll(raws []json.RawMessage) []domain.ScheduledNotification {
	out := make([]domain.ScheduledNotification, 0, len(raws))
	for _, raw := range raws {
		var n domain.ScheduledNotification
		if err := json.Unmarshal(raw, &n); err != nil {
			logger.Warn("Skipping undecodable reminder record", "error", err.Error())
			continue
		}
		out = append(out, n)
	}
	return out
}

// rollForward advances fireAt by whole recurrence periods until it lands
// in the future.
func rollForward(fireAt time.Time, r domain.Recurrence, now time.Time) time.Time {
	for !fireAt.After(now) {
		fireAt = r.NextOccurrence(fireAt)
	}
	return fireAt
}
