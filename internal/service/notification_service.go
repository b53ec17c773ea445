package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/events"
	"github.com/spec-kit/helpdesk/internal/notify"
	"github.com/spec-kit/helpdesk/internal/observability"
)

// NotificationService turns ticket events into outbound messages. Send
// failures are logged and swallowed: a notification never fails the
// mutation that triggered it. Handlers run synchronously on the mutation's
// goroutine, so the HTTP response is not written until the attempt is done.
type NotificationService struct {
	dispatcher events.Dispatcher
	notifier   notify.Notifier
	logger     *zap.Logger
	metrics    *observability.Metrics
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, notifier notify.Notifier, logger *zap.Logger, metrics *observability.Metrics) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		notifier:   notifier,
		logger:     logger,
		metrics:    metrics,
	}
}

// RegisterHandlers subscribes to ticket events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventTicketCreated, n.handleTicketCreated)
	n.dispatcher.Subscribe(events.EventTicketUpdated, n.handleTicketUpdated)
	n.dispatcher.Subscribe(events.EventTicketClosed, n.handleTicketClosed)
	n.dispatcher.Subscribe(events.EventTicketReplyAdded, n.handleReplyAdded)
}

func (n *NotificationService) handleTicketCreated(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketCreatedPayload)
	if !ok || payload.SenderEmail == "" {
		return nil
	}
	msg := notify.CreatedMessage(payload.SenderEmail, payload.Title, payload.Description,
		payload.Status, payload.Priority, payload.Category)
	n.send(ctx, event, msg)
	return nil
}

func (n *NotificationService) handleTicketUpdated(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketUpdatedPayload)
	if !ok || payload.SenderEmail == "" {
		return nil
	}
	msg := notify.UpdatedMessage(payload.SenderEmail, payload.Title, payload.Status, payload.Priority)
	n.send(ctx, event, msg)
	return nil
}

func (n *NotificationService) handleTicketClosed(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketClosedPayload)
	if !ok || payload.SenderEmail == "" {
		return nil
	}
	n.send(ctx, event, notify.ClosedMessage(payload.SenderEmail, payload.Title))
	return nil
}

// handleReplyAdded routes the reply back over the ticket's intake channel.
// Tickets opened via the form or the API have no reply route.
func (n *NotificationService) handleReplyAdded(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketReplyAddedPayload)
	if !ok {
		return nil
	}
	switch payload.Channel {
	case domain.ChannelEmail:
		if payload.SenderEmail == "" {
			return nil
		}
		n.send(ctx, event, notify.ReplyEmailMessage(payload.SenderEmail, payload.Title, payload.Text))
	case domain.ChannelSMS:
		if payload.SenderPhone == "" {
			return nil
		}
		n.send(ctx, event, notify.ReplySMSMessage(payload.SenderPhone, payload.Text))
	}
	return nil
}

func (n *NotificationService) send(ctx context.Context, event events.Event, msg notify.Message) {
	err := n.notifier.Send(ctx, msg)
	n.metrics.RecordNotification(string(msg.Kind), err == nil)
	if err != nil {
		n.logger.Error("notification failed",
			zap.String("event_type", string(event.Type)),
			zap.String("ticket_id", event.TicketID),
			zap.String("kind", string(msg.Kind)),
			zap.Error(err))
		return
	}
	n.logger.Info("notification sent",
		zap.String("event_type", string(event.Type)),
		zap.String("ticket_id", event.TicketID),
		zap.String("kind", string(msg.Kind)))
}
