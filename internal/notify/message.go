package notify

import (
	"fmt"

	"github.com/spec-kit/helpdesk/internal/domain"
)

// CreatedMessage is the email sent to the requester when a ticket is opened.
func CreatedMessage(to, title, description string, status domain.TicketStatus, priority domain.TicketPriority, category domain.TicketCategory) Message {
	return Message{
		Kind:    KindEmail,
		To:      to,
		Subject: "New Ticket: " + title,
		Body: fmt.Sprintf("Your ticket has been created.\n\nTitle: %s\nDescription: %s\nStatus: %s\nPriority: %s\nCategory: %s",
			title, description, status, priority, category),
	}
}

// UpdatedMessage is the email sent when ticket fields change.
func UpdatedMessage(to, title string, status domain.TicketStatus, priority domain.TicketPriority) Message {
	return Message{
		Kind:    KindEmail,
		To:      to,
		Subject: "Ticket Updated: " + title,
		Body: fmt.Sprintf("Your ticket has been updated.\n\nTitle: %s\nStatus: %s\nPriority: %s",
			title, status, priority),
	}
}

// ClosedMessage is the email sent when a ticket reaches closed.
func ClosedMessage(to, title string) Message {
	return Message{
		Kind:    KindEmail,
		To:      to,
		Subject: "Ticket Closed: " + title,
		Body:    fmt.Sprintf("Your ticket has been closed.\n\nTitle: %s", title),
	}
}

// ReplyEmailMessage carries a rep's reply back to an email requester. The
// body is the reply text verbatim.
func ReplyEmailMessage(to, title, text string) Message {
	return Message{
		Kind:    KindEmail,
		To:      to,
		Subject: "Re: " + title,
		Body:    text,
	}
}

// ReplySMSMessage carries a rep's reply back to an SMS requester.
func ReplySMSMessage(to, text string) Message {
	return Message{
		Kind: KindSMS,
		To:   to,
		Body: text,
	}
}
