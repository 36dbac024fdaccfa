package notify

import (
	"context"

	"github.com/lumina/glow-platform/internal/domain"
	"github.com/lumina/glow-platform/internal/pkg/logger"
)

// Display is the delivery collaborator for fired reminders. Show makes a
// single attempt; the scheduler logs failures and moves on.
type Display interface {
	// PermissionGranted reports whether the user allows reminders at all.
	// A denial is terminal for the request being scheduled.
	PermissionGranted(ctx context.Context, userID string) bool

	// Show delivers one reminder occurrence.
	Show(ctx context.Context, n domain.ScheduledNotification) error
}

// LogDisplay writes reminders to the application log. It grants permission
// to everyone; used in development and as the fallback channel.
type LogDisplay struct{}

// PermissionGranted always grants.
func (LogDisplay) PermissionGranted(ctx context.Context, userID string) bool { return true }

// Show logs the reminder.
func (LogDisplay) Show(ctx context.Context, n domain.ScheduledNotification) error {
	logger.Info("Reminder fired",
		"reminder_id", n.ID,
		"user_id", n.UserID,
		"type", n.Type,
		"title", n.Title,
	)
	return nil
}
