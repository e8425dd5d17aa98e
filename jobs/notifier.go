package jobs

import (
	"context"
	"fmt"
)

// EmailNotifier queues vendor lifecycle notices for asynchronous delivery.
type EmailNotifier struct {
	client *Client
}

// NewEmailNotifier constructs a notifier backed by the job queue.
func NewEmailNotifier(client *Client) *EmailNotifier {
	return &EmailNotifier{client: client}
}

// VendorApproved queues the approval notice.
func (n *EmailNotifier) VendorApproved(ctx context.Context, email, businessName string) error {
	_, err := n.client.EnqueueSendEmail(ctx, SendEmailPayload{
		To:      email,
		Subject: "Your vendor account has been approved",
		Body:    fmt.Sprintf("Congratulations %s, your vendor account is now active and you can start listing products.", businessName),
	})
	return err
}

// VendorSuspended queues the suspension notice.
func (n *EmailNotifier) VendorSuspended(ctx context.Context, email, businessName string) error {
	_, err := n.client.EnqueueSendEmail(ctx, SendEmailPayload{
		To:      email,
		Subject: "Your vendor account has been suspended",
		Body:    fmt.Sprintf("Hello %s, your vendor account has been suspended. Contact support for details.", businessName),
	})
	return err
}
