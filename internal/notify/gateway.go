package notify

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk/internal/config"
)

// GatewayNotifier delivers messages by POSTing them as JSON to the
// configured email and SMS gateway endpoints. Which provider sits behind
// each endpoint is not this service's concern.
type GatewayNotifier struct {
	emailFrom string
	emailURL  string
	smsFrom   string
	smsURL    string
}

type gatewayPayload struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject,omitempty"`
	Body    string `json:"body"`
}

// NewGatewayNotifier builds a notifier from notification config.
func NewGatewayNotifier(cfg config.NotificationConfig) *GatewayNotifier {
	return &GatewayNotifier{
		emailFrom: cfg.EmailFrom,
		emailURL:  cfg.EmailGatewayURL,
		smsFrom:   cfg.SMSFrom,
		smsURL:    cfg.SMSGatewayURL,
	}
}

// Send posts the message to the gateway matching its kind.
func (n *GatewayNotifier) Send(_ context.Context, msg Message) error {
	url := n.emailURL
	from := n.emailFrom
	if msg.Kind == KindSMS {
		url = n.smsURL
		from = n.smsFrom
	}
	if url == "" {
		return fmt.Errorf("no %s gateway configured", msg.Kind)
	}

	agent := fiber.AcquireAgent()
	req := agent.Request()
	req.Header.SetMethod(fiber.MethodPost)
	req.SetRequestURI(url)
	agent.JSON(gatewayPayload{
		From:    from,
		To:      msg.To,
		Subject: msg.Subject,
		Body:    msg.Body,
	})
	if err := agent.Parse(); err != nil {
		return fmt.Errorf("%s gateway request: %w", msg.Kind, err)
	}

	code, _, errs := agent.Bytes()
	if len(errs) > 0 {
		return fmt.Errorf("%s gateway request: %w", msg.Kind, errs[0])
	}
	if code < 200 || code > 299 {
		return fmt.Errorf("%s gateway returned status %d", msg.Kind, code)
	}
	return nil
}
