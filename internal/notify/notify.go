package notify

import (
	"context"

	"github.com/go-resty/resty/v2"
	log "github.com/sirupsen/logrus"
)

// Event describes the outcome of one upload cycle.
type Event struct {
	Plugin     string `json:"plugin"`
	Method     string `json:"method"`
	Status     string `json:"status"`
	Detail     string `json:"detail,omitempty"`
	DurationMS int64  `json:"duration_ms"`
}

// Notifier posts upload outcomes to a configured webhook. A nil *Notifier
// is valid and does nothing, so callers never have to branch.
type Notifier struct {
	client *resty.Client
	url    string
	token  string
}

// New returns nil when no webhook URL is configured.
func New(url, token string) *Notifier {
	if url == "" {
		return nil
	}
	return &Notifier{client: resty.New(), url: url, token: token}
}

// Send delivers the event. Delivery is best effort: failures are logged
// and never interrupt the upload cycle.
func (n *Notifier) Send(ctx context.Context, e Event) {
	if n == nil {
		return
	}

	req := n.client.R().SetContext(ctx).SetBody(e)
	if n.token != "" {
		req.SetHeader("Authorization", "Bearer "+n.token)
	}

	resp, err := req.Post(n.url)
	if err != nil {
		log.Warnf("Webhook delivery failed: %v", err)
		return
	}
	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		log.Warnf("Webhook rejected: status %d", resp.StatusCode())
	}
}
