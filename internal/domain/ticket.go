package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen    TicketStatus = "open"
	TicketStatusPending TicketStatus = "pending"
	TicketStatusClosed  TicketStatus = "closed"
)

// Valid reports whether the status is a known state.
func (s TicketStatus) Valid() bool {
	switch s {
	case TicketStatusOpen, TicketStatusPending, TicketStatusClosed:
		return true
	}
	return false
}

// TicketPriority enumerates urgency levels.
type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "low"
	TicketPriorityMedium TicketPriority = "medium"
	TicketPriorityHigh   TicketPriority = "high"
)

// Valid reports whether the priority is a known level.
func (p TicketPriority) Valid() bool {
	switch p {
	case TicketPriorityLow, TicketPriorityMedium, TicketPriorityHigh:
		return true
	}
	return false
}

// TicketCategory classifies the kind of request.
type TicketCategory string

const (
	TicketCategoryBug     TicketCategory = "Bug"
	TicketCategoryFeature TicketCategory = "Feature"
	TicketCategoryInquiry TicketCategory = "Inquiry"
	TicketCategorySupport TicketCategory = "Support"
)

// Valid reports whether the category is a known kind.
func (c TicketCategory) Valid() bool {
	switch c {
	case TicketCategoryBug, TicketCategoryFeature, TicketCategoryInquiry, TicketCategorySupport:
		return true
	}
	return false
}

// TicketChannel identifies the intake origin of a ticket. It is set at
// creation, immutable afterwards, and drives reply routing.
type TicketChannel string

const (
	ChannelForm  TicketChannel = "form"
	ChannelEmail TicketChannel = "email"
	ChannelSMS   TicketChannel = "sms"
	ChannelAPI   TicketChannel = "api"
)

// Valid reports whether the channel is a known origin.
func (c TicketChannel) Valid() bool {
	switch c {
	case ChannelForm, ChannelEmail, ChannelSMS, ChannelAPI:
		return true
	}
	return false
}

// Sender holds the requester's contact addresses, captured at intake.
// Either field may be empty; notifications are skipped for empty targets.
type Sender struct {
	Email string
	Phone string
}

// Ticket is the aggregate for support requests.
type Ticket struct {
	ID          string
	Title       string
	Description string
	Status      TicketStatus
	Priority    TicketPriority
	Category    TicketCategory
	AssignedTo  *string
	Channel     TicketChannel
	Sender      Sender
	CreatedAt   time.Time
	Comments    []Comment
}
