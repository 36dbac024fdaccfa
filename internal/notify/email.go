package notify

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"github.com/lumina/glow-platform/internal/domain"
	"github.com/lumina/glow-platform/internal/pkg/logger"
)

// RecipientLookup resolves a user id to an email address. ok is false when
// the user has no address on file or has opted out.
type RecipientLookup func(ctx context.Context, userID string) (string, bool)

// EmailDisplay delivers reminders over SES. Permission maps to having a
// resolvable, opted-in address.
type EmailDisplay struct {
	client *sesv2.Client
	from   string
	lookup RecipientLookup
}

// NewEmailDisplay loads AWS config and builds the SES display.
func NewEmailDisplay(ctx context.Context, from, region string, lookup RecipientLookup) (*EmailDisplay, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}
	return &EmailDisplay{client: sesv2.NewFromConfig(cfg), from: from, lookup: lookup}, nil
}

// NewEmailDisplayWithClient wraps an existing client. Used in tests.
func NewEmailDisplayWithClient(client *sesv2.Client, from string, lookup RecipientLookup) *EmailDisplay {
	return &EmailDisplay{client: client, from: from, lookup: lookup}
}

// PermissionGranted reports whether the user has a deliverable address.
func (d *EmailDisplay) PermissionGranted(ctx context.Context, userID string) bool {
	_, ok := d.lookup(ctx, userID)
	return ok
}

// Show sends the reminder as a plain-text email.
func (d *EmailDisplay) Show(ctx context.Context, n domain.ScheduledNotification) error {
	to, ok := d.lookup(ctx, n.UserID)
	if !ok {
		return fmt.Errorf("no deliverable address for user %s", n.UserID)
	}

	body, err := RenderEmailBody(n)
	if err != nil {
		return err
	}

	_, err = d.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(d.from),
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(n.Title)},
				Body: &types.Body{
					Text: &types.Content{Data: aws.String(body)},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("sending reminder email: %w", err)
	}

	logger.Info("Reminder email sent", "reminder_id", n.ID, "recipient", to)
	return nil
}
