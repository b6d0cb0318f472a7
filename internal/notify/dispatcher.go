package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/scrypster/caseflow/internal/deadline"
	"github.com/scrypster/caseflow/pkg/types"
)

// Contacts maps escalation roles to delivery addresses (phone numbers,
// e-mail addresses or chat handles, as the webhook receiver expects).
type Contacts struct {
	Primary   string
	Backup    string
	Assistant string
}

func (c Contacts) address(role string) string {
	switch role {
	case deadline.RolePrimary:
		return c.Primary
	case deadline.RoleBackup:
		return c.Backup
	case deadline.RoleAssistant:
		return c.Assistant
	default:
		return ""
	}
}

// Config configures a Dispatcher.
type Config struct {
	// WebhookURL receives escalations. Empty disables delivery.
	WebhookURL string

	Contacts Contacts
	Breaker  BreakerConfig

	// HTTPClient defaults to a client with a 10 second timeout.
	HTTPClient *http.Client

	Logger *slog.Logger
	Now    func() time.Time
}

// Recipient is one resolved escalation target.
type Recipient struct {
	Role    string `json:"role"`
	Address string `json:"address"`
}

// Payload is the JSON document POSTed to the webhook.
type Payload struct {
	Alert      types.DeadlineAlert `json:"alert"`
	Channel    string              `json:"channel"`
	Priority   string              `json:"priority"`
	Recipients []Recipient         `json:"recipients"`
	SentAt     time.Time           `json:"sent_at"`
}

// Dispatcher delivers escalations to a webhook through a circuit breaker.
type Dispatcher struct {
	url      string
	contacts Contacts
	client   *http.Client
	breaker  *Breaker
	logger   *slog.Logger
	now      func() time.Time
}

// NewDispatcher creates a Dispatcher.
func NewDispatcher(cfg Config) *Dispatcher {
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 10 * time.Second}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	return &Dispatcher{
		url:      cfg.WebhookURL,
		contacts: cfg.Contacts,
		client:   cfg.HTTPClient,
		breaker:  NewBreaker("escalation-webhook", cfg.Breaker, cfg.Logger),
		logger:   cfg.Logger,
		now:      cfg.Now,
	}
}

// Enabled reports whether a webhook is configured.
func (d *Dispatcher) Enabled() bool {
	return d.url != ""
}

// BreakerState reports the circuit breaker state.
func (d *Dispatcher) BreakerState() string {
	return d.breaker.State()
}

// Dispatch sends alert with its escalation to the webhook. It is a no-op
// when no webhook is configured. Roles without a configured address are
// left out of the payload.
func (d *Dispatcher) Dispatch(ctx context.Context, alert types.DeadlineAlert, esc types.Escalation) error {
	if !d.Enabled() {
		return nil
	}

	payload := Payload{
		Alert:      alert,
		Channel:    esc.Channel,
		Priority:   esc.Priority,
		Recipients: d.resolve(esc.Recipients),
		SentAt:     d.now(),
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode escalation: %w", err)
	}

	err = d.breaker.Execute(ctx, func() error {
		return d.post(ctx, body)
	})
	if err != nil {
		d.logger.Error("notify: escalation delivery failed",
			"alert_id", alert.ID,
			"channel", esc.Channel,
			"error", err)
		return err
	}

	d.logger.Info("notify: escalation delivered",
		"alert_id", alert.ID,
		"channel", esc.Channel,
		"recipients", len(payload.Recipients))
	return nil
}

func (d *Dispatcher) resolve(roles []string) []Recipient {
	out := make([]Recipient, 0, len(roles))
	for _, role := range roles {
		addr := d.contacts.address(role)
		if addr == "" {
			d.logger.Debug("notify: no address for role", "role", role)
			continue
		}
		out = append(out, Recipient{Role: role, Address: addr})
	}
	return out
}

func (d *Dispatcher) post(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook request failed: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}
