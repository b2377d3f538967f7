// Package queue contains the message payloads exchanged over the broker and
// the background consumer that delivers outbound email.
package queue

// EmailQueueName is the durable queue transactional email flows through.
const EmailQueueName = "email.outbound"

// EmailRequestedEvent is published when a handler wants an email delivered
// (welcome mail, password-reset link). Delivery is best-effort: publishing
// failures never fail the originating request.
type EmailRequestedEvent struct {
	To          string `json:"to"`
	Subject     string `json:"subject"`
	Text        string `json:"text"`
	HTML        string `json:"html,omitempty"`
	RequestedAt string `json:"requested_at"`
}
