package notify

import (
	"strings"
	"testing"

	"github.com/spec-kit/helpdesk/internal/domain"
)

func TestCreatedMessage(t *testing.T) {
	msg := CreatedMessage("user@example.com", "T1", "D1",
		domain.TicketStatusOpen, domain.TicketPriorityMedium, domain.TicketCategorySupport)

	if msg.Kind != KindEmail {
		t.Errorf("expected email kind, got %s", msg.Kind)
	}
	if msg.Subject != "New Ticket: T1" {
		t.Errorf("unexpected subject %q", msg.Subject)
	}
	for _, want := range []string{"Title: T1", "Description: D1", "Status: open", "Priority: medium", "Category: Support"} {
		if !strings.Contains(msg.Body, want) {
			t.Errorf("body missing %q:\n%s", want, msg.Body)
		}
	}
}

func TestUpdatedMessage(t *testing.T) {
	msg := UpdatedMessage("user@example.com", "T1", domain.TicketStatusPending, domain.TicketPriorityHigh)

	if msg.Subject != "Ticket Updated: T1" {
		t.Errorf("unexpected subject %q", msg.Subject)
	}
	for _, want := range []string{"Title: T1", "Status: pending", "Priority: high"} {
		if !strings.Contains(msg.Body, want) {
			t.Errorf("body missing %q:\n%s", want, msg.Body)
		}
	}
	if strings.Contains(msg.Body, "Description") {
		t.Error("updated message should not include the description")
	}
}

func TestClosedMessage(t *testing.T) {
	msg := ClosedMessage("user@example.com", "T1")

	if msg.Subject != "Ticket Closed: T1" {
		t.Errorf("unexpected subject %q", msg.Subject)
	}
	if !strings.Contains(msg.Body, "closed") || !strings.Contains(msg.Body, "Title: T1") {
		t.Errorf("unexpected body %q", msg.Body)
	}
}

func TestReplyMessages(t *testing.T) {
	email := ReplyEmailMessage("user@example.com", "T1", "the reply text")
	if email.Subject != "Re: T1" {
		t.Errorf("unexpected subject %q", email.Subject)
	}
	if email.Body != "the reply text" {
		t.Errorf("expected verbatim body, got %q", email.Body)
	}

	sms := ReplySMSMessage("+1555", "the reply text")
	if sms.Kind != KindSMS {
		t.Errorf("expected sms kind, got %s", sms.Kind)
	}
	if sms.Body != "the reply text" {
		t.Errorf("expected verbatim body, got %q", sms.Body)
	}
	if sms.Subject != "" {
		t.Errorf("sms should carry no subject, got %q", sms.Subject)
	}
}
