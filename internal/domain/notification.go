package domain

import "time"

// Recurrence enumerates the supported reminder repeat intervals.
type Recurrence string

const (
	RecurrenceNone    Recurrence = ""
	RecurrenceDaily   Recurrence = "daily"
	RecurrenceWeekly  Recurrence = "weekly"
	RecurrenceMonthly Recurrence = "monthly"
)

// NotificationState enumerates the lifecycle states of a scheduled reminder.
type NotificationState string

const (
	NotificationPending    NotificationState = "pending"
	NotificationFired      NotificationState = "fired"
	NotificationSuperseded NotificationState = "superseded"
)

// ScheduledNotification is one reminder occurrence. A recurring reminder is
// represented by a chain of occurrences: when one fires, its successor is
// created with FireAt advanced by one recurrence period.
type ScheduledNotification struct {
	ID         string            `json:"id"`
	UserID     string            `json:"user_id"`
	Type       string            `json:"type"`
	Title      string            `json:"title"`
	Body       string            `json:"body"`
	Actions    []string          `json:"actions,omitempty"`
	FireAt     time.Time         `json:"fire_at"`
	Recurrence Recurrence        `json:"recurrence,omitempty"`
	State      NotificationState `json:"state"`
	CreatedAt  time.Time         `json:"created_at"`
}

// NextOccurrence returns the fire time one recurrence period after from.
// Monthly recurrence uses calendar months (AddDate), matching how users
// think about "same day next month".
func (r Recurrence) NextOccurrence(from time.Time) time.Time {
	switch r {
	case RecurrenceDaily:
		return from.AddDate(0, 0, 1)
	case RecurrenceWeekly:
		return from.AddDate(0, 0, 7)
	case RecurrenceMonthly:
		return from.AddDate(0, 1, 0)
	}
	return from
}

// ValidRecurrence reports whether r is a declared recurrence value.
func ValidRecurrence(r Recurrence) bool {
	switch r {
	case RecurrenceNone, RecurrenceDaily, RecurrenceWeekly, RecurrenceMonthly:
		return true
	}
	return false
}
