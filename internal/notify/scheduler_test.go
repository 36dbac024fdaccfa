package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumina/glow-platform/internal/domain"
	"github.com/lumina/glow-platform/internal/store"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type fakeDisplay struct {
	mu        sync.Mutex
	granted   bool
	showErr   error
	delivered []domain.ScheduledNotification
}

func (d *fakeDisplay) PermissionGranted(_ context.Context, _ string) bool { return d.granted }

func (d *fakeDisplay) Show(_ context.Context, n domain.ScheduledNotification) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.showErr != nil {
		return d.showErr
	}
	d.delivered = append(d.delivered, n)
	return nil
}

func (d *fakeDisplay) deliveredCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.delivered)
}

func newTestScheduler(t *testing.T) (*Scheduler, *fakeClock, *fakeDisplay, store.DocumentStore) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)}
	display := &fakeDisplay{granted: true}
	docs := store.NewMemoryStore()
	s := NewScheduler(docs, display, WithClock(clock.Now))
	return s, clock, display, docs
}

func reminder(userID string, fireAt time.Time, rec domain.Recurrence) domain.ScheduledNotification {
	return domain.ScheduledNotification{
		UserID:     userID,
		Type:       "routine",
		Title:      "Evening routine",
		Body:       "Time for your evening skincare routine.",
		Actions:    []string{"open app", "snooze"},
		FireAt:     fireAt,
		Recurrence: rec,
	}
}

func TestSchedule_AcceptsFutureOneShot(t *testing.T) {
	s, clock, _, _ := newTestScheduler(t)

	ok, err := s.Schedule(context.Background(), reminder("user-1", clock.Now().Add(time.Hour), domain.RecurrenceNone))
	require.NoError(t, err)
	assert.True(t, ok)

	pending, err := s.List(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, domain.NotificationPending, pending[0].State)
	assert.NotEmpty(t, pending[0].ID)
}

func TestSchedule_RejectsPastOneShot(t *testing.T) {
	s, clock, _, _ := newTestScheduler(t)

	ok, err := s.Schedule(context.Background(), reminder("user-1", clock.Now().Add(-time.Hour), domain.RecurrenceNone))
	require.NoError(t, err)
	assert.False(t, ok)

	pending, err := s.List(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestSchedule_RollsPastRecurringForward(t *testing.T) {
	s, clock, _, _ := newTestScheduler(t)

	// Three days late: the daily reminder lands on the next future day.
	fireAt := clock.Now().Add(-72 * time.Hour)
	ok, err := s.Schedule(context.Background(), reminder("user-1", fireAt, domain.RecurrenceDaily))
	require.NoError(t, err)
	assert.True(t, ok)

	pending, err := s.List(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, fireAt.AddDate(0, 0, 4), pending[0].FireAt)
	assert.True(t, pending[0].FireAt.After(clock.Now()))
}

func TestSchedule_PermissionDeniedIsTerminal(t *testing.T) {
	s, clock, display, _ := newTestScheduler(t)
	display.granted = false

	ok, err := s.Schedule(context.Background(), reminder("user-1", clock.Now().Add(time.Hour), domain.RecurrenceNone))
	require.NoError(t, err)
	assert.False(t, ok)

	pending, err := s.List(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestSchedule_InvalidRecurrence(t *testing.T) {
	s, clock, _, _ := newTestScheduler(t)

	_, err := s.Schedule(context.Background(), reminder("user-1", clock.Now().Add(time.Hour), "fortnightly"))
	assert.Error(t, err)
}

func TestFireDue_OneShotFiresOnce(t *testing.T) {
	s, clock, display, _ := newTestScheduler(t)
	ctx := context.Background()

	_, err := s.Schedule(ctx, reminder("user-1", clock.Now().Add(time.Minute), domain.RecurrenceNone))
	require.NoError(t, err)

	// Not due yet.
	s.FireDue(ctx)
	assert.Zero(t, display.deliveredCount())

	clock.Advance(2 * time.Minute)
	s.FireDue(ctx)
	assert.Equal(t, 1, display.deliveredCount())

	// Already fired; a second sweep must not deliver again.
	s.FireDue(ctx)
	assert.Equal(t, 1, display.deliveredCount())

	pending, err := s.List(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestFireDue_RecurringQueuesSuccessor(t *testing.T) {
	s, clock, display, _ := newTestScheduler(t)
	ctx := context.Background()

	fireAt := clock.Now().Add(time.Minute)
	_, err := s.Schedule(ctx, reminder("user-1", fireAt, domain.RecurrenceWeekly))
	require.NoError(t, err)

	clock.Advance(2 * time.Minute)
	s.FireDue(ctx)
	require.Equal(t, 1, display.deliveredCount())

	pending, err := s.List(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, pending, 1)

	// Successor is anchored to the original fire time, not delivery time.
	assert.Equal(t, fireAt.AddDate(0, 0, 7), pending[0].FireAt)
	assert.NotEqual(t, display.delivered[0].ID, pending[0].ID)
}

func TestFireDue_DisplayFailureConsumesOccurrence(t *testing.T) {
	s, clock, display, _ := newTestScheduler(t)
	ctx := context.Background()
	display.showErr = errors.New("channel down")

	_, err := s.Schedule(ctx, reminder("user-1", clock.Now().Add(time.Minute), domain.RecurrenceNone))
	require.NoError(t, err)

	clock.Advance(2 * time.Minute)
	s.FireDue(ctx)

	// No retry: the occurrence is consumed despite the failure.
	pending, err := s.List(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestCancel(t *testing.T) {
	s, clock, _, _ := newTestScheduler(t)
	ctx := context.Background()

	_, err := s.Schedule(ctx, reminder("user-1", clock.Now().Add(time.Hour), domain.RecurrenceNone))
	require.NoError(t, err)

	pending, err := s.List(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, pending, 1)

	ok, err := s.Cancel(ctx, pending[0].ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.Cancel(ctx, "no-such-id")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestReconcile_MissedOneShotDropped(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)}
	docs := store.NewMemoryStore()
	ctx := context.Background()

	// A pending entry left behind by a previous process, now past due.
	stale := reminder("user-1", clock.Now().Add(-time.Hour), domain.RecurrenceNone)
	stale.ID = "stale-1"
	stale.State = domain.NotificationPending
	_, err := docs.Insert(ctx, store.CollectionNotifications, stale)
	require.NoError(t, err)

	s := NewScheduler(docs, &fakeDisplay{granted: true}, WithClock(clock.Now))
	require.NoError(t, s.reconcile(ctx))

	pending, err := s.List(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestReconcile_MissedRecurringRollsForward(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)}
	docs := store.NewMemoryStore()
	ctx := context.Background()

	fireAt := clock.Now().Add(-50 * time.Hour)
	stale := reminder("user-1", fireAt, domain.RecurrenceDaily)
	stale.ID = "stale-2"
	stale.State = domain.NotificationPending
	_, err := docs.Insert(ctx, store.CollectionNotifications, stale)
	require.NoError(t, err)

	s := NewScheduler(docs, &fakeDisplay{granted: true}, WithClock(clock.Now))
	require.NoError(t, s.reconcile(ctx))

	pending, err := s.List(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.True(t, pending[0].FireAt.After(clock.Now()))
	assert.Equal(t, fireAt.AddDate(0, 0, 3), pending[0].FireAt)
}

func TestList_FiltersByUser(t *testing.T) {
	s, clock, _, _ := newTestScheduler(t)
	ctx := context.Background()

	_, err := s.Schedule(ctx, reminder("user-1", clock.Now().Add(time.Hour), domain.RecurrenceNone))
	require.NoError(t, err)
	_, err = s.Schedule(ctx, reminder("user-2", clock.Now().Add(time.Hour), domain.RecurrenceNone))
	require.NoError(t, err)

	pending, err := s.List(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "user-1", pending[0].UserID)
}

func TestRenderEmailBody(t *testing.T) {
	n := reminder("user-1", time.Now(), domain.RecurrenceNone)

	body, err := RenderEmailBody(n)
	require.NoError(t, err)
	assert.Contains(t, body, n.Body)
	assert.Contains(t, body, "open app, snooze")

	n.Actions = nil
	body, err = RenderEmailBody(n)
	require.NoError(t, err)
	assert.NotContains(t, body, "You can:")
}
