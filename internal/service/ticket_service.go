package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/events"
	"github.com/spec-kit/helpdesk/internal/repository"
	apperrors "github.com/spec-kit/helpdesk/pkg/util"
)

// TicketService owns the ticket lifecycle: creation defaults, field
// updates, comment attachment, and the notification events that follow
// each mutation.
type TicketService struct {
	tickets    repository.TicketRepository
	comments   repository.CommentRepository
	dispatcher events.Dispatcher
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo  repository.TicketRepository
	CommentRepo repository.CommentRepository
	Dispatcher  events.Dispatcher
}

// CreateTicketInput describes a canonical ticket-creation request, as
// produced by any of the intake adapters.
type CreateTicketInput struct {
	Title       string
	Description string
	Priority    domain.TicketPriority
	Category    domain.TicketCategory
	AssignedTo  string
	Channel     domain.TicketChannel
	Sender      domain.Sender
}

// UpdateTicketInput carries the allow-listed mutable fields. Nil means the
// field was absent from the request and stays untouched. Channel and sender
// have no representation here; they are immutable by construction.
type UpdateTicketInput struct {
	Status     *domain.TicketStatus
	Priority   *domain.TicketPriority
	Category   *domain.TicketCategory
	AssignedTo *string
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:    deps.TicketRepo,
		comments:   deps.CommentRepo,
		dispatcher: deps.Dispatcher,
	}
}

// CreateTicket persists a new ticket with defaults applied and publishes
// the created event.
func (s *TicketService) CreateTicket(ctx context.Context, input CreateTicketInput) (*domain.Ticket, error) {
	title := strings.TrimSpace(input.Title)
	description := strings.TrimSpace(input.Description)
	if title == "" {
		return nil, apperrors.NewValidationError("title is required")
	}
	if description == "" {
		return nil, apperrors.NewValidationError("description is required")
	}

	ticket := &domain.Ticket{
		ID:          uuid.NewString(),
		Title:       title,
		Description: description,
		Status:      domain.TicketStatusOpen,
		Priority:    input.Priority,
		Category:    input.Category,
		Channel:     input.Channel,
		Sender:      input.Sender,
		Comments:    []domain.Comment{},
	}
	if ticket.Priority == "" {
		ticket.Priority = domain.TicketPriorityMedium
	}
	if ticket.Category == "" {
		ticket.Category = domain.TicketCategorySupport
	}
	if ticket.Channel == "" {
		ticket.Channel = domain.ChannelAPI
	}
	if !ticket.Priority.Valid() {
		return nil, apperrors.NewValidationError("unknown priority " + string(ticket.Priority))
	}
	if !ticket.Category.Valid() {
		return nil, apperrors.NewValidationError("unknown category " + string(ticket.Category))
	}
	if !ticket.Channel.Valid() {
		return nil, apperrors.NewValidationError("unknown channel " + string(ticket.Channel))
	}
	if assignee := strings.TrimSpace(input.AssignedTo); assignee != "" {
		ticket.AssignedTo = &assignee
	}

	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		Payload: events.TicketCreatedPayload{
			Title:       ticket.Title,
			Description: ticket.Description,
			Status:      ticket.Status,
			Priority:    ticket.Priority,
			Category:    ticket.Category,
			SenderEmail: ticket.Sender.Email,
		},
	})
	return ticket, nil
}

// ListTickets returns all tickets newest-first with comments embedded.
func (s *TicketService) ListTickets(ctx context.Context) ([]domain.Ticket, error) {
	tickets, err := s.tickets.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range tickets {
		comments, err := s.comments.ListByTicket(ctx, tickets[i].ID)
		if err != nil {
			return nil, err
		}
		if comments == nil {
			comments = []domain.Comment{}
		}
		tickets[i].Comments = comments
	}
	return tickets, nil
}

// GetTicket returns a single ticket with comments embedded.
func (s *TicketService) GetTicket(ctx context.Context, id string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		return nil, mapTicketNotFound(err)
	}
	comments, err := s.comments.ListByTicket(ctx, ticket.ID)
	if err != nil {
		return nil, err
	}
	if comments == nil {
		comments = []domain.Comment{}
	}
	ticket.Comments = comments
	return ticket, nil
}

// UpdateTicket applies the fields present in the input, persists, and
// publishes either the closed or the updated event depending on the
// resulting status. Closed is not a terminal lock: any transition between
// the three states is accepted, matching the behavior staff expect from
// the UI's generic edit path.
func (s *TicketService) UpdateTicket(ctx context.Context, id string, input UpdateTicketInput) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		return nil, mapTicketNotFound(err)
	}

	if input.Status != nil {
		if !input.Status.Valid() {
			return nil, apperrors.NewValidationError("unknown status " + string(*input.Status))
		}
		ticket.Status = *input.Status
	}
	if input.Priority != nil {
		if !input.Priority.Valid() {
			return nil, apperrors.NewValidationError("unknown priority " + string(*input.Priority))
		}
		ticket.Priority = *input.Priority
	}
	if input.Category != nil {
		if !input.Category.Valid() {
			return nil, apperrors.NewValidationError("unknown category " + string(*input.Category))
		}
		ticket.Category = *input.Category
	}
	if input.AssignedTo != nil {
		// Empty string clears the assignment.
		if assignee := strings.TrimSpace(*input.AssignedTo); assignee == "" {
			ticket.AssignedTo = nil
		} else {
			ticket.AssignedTo = &assignee
		}
	}

	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, mapTicketNotFound(err)
	}

	if ticket.Status == domain.TicketStatusClosed {
		s.publishEvent(ctx, events.Event{
			Type:     events.EventTicketClosed,
			TicketID: ticket.ID,
			Payload: events.TicketClosedPayload{
				Title:       ticket.Title,
				SenderEmail: ticket.Sender.Email,
			},
		})
	} else {
		s.publishEvent(ctx, events.Event{
			Type:     events.EventTicketUpdated,
			TicketID: ticket.ID,
			Payload: events.TicketUpdatedPayload{
				Title:       ticket.Title,
				Status:      ticket.Status,
				Priority:    ticket.Priority,
				SenderEmail: ticket.Sender.Email,
			},
		})
	}

	comments, err := s.comments.ListByTicket(ctx, ticket.ID)
	if err != nil {
		return nil, err
	}
	if comments == nil {
		comments = []domain.Comment{}
	}
	ticket.Comments = comments
	return ticket, nil
}

// DeleteTicket removes the ticket and, via the store's cascade, its
// comments. Deleting an unknown id reports NotFound rather than silently
// succeeding.
func (s *TicketService) DeleteTicket(ctx context.Context, id string) error {
	if err := s.tickets.Delete(ctx, id); err != nil {
		return mapTicketNotFound(err)
	}
	return nil
}

// AddReply attaches a comment to the ticket and routes the reply text back
// to the requester over the ticket's intake channel.
func (s *TicketService) AddReply(ctx context.Context, ticketID, text, author string) (*domain.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperrors.NewValidationError("text is required")
	}
	if strings.TrimSpace(author) == "" {
		return nil, apperrors.NewValidationError("author is required")
	}

	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, mapTicketNotFound(err)
	}

	comment := &domain.Comment{
		ID:       uuid.NewString(),
		TicketID: ticket.ID,
		Text:     text,
		Author:   strings.TrimSpace(author),
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketReplyAdded,
		TicketID: ticket.ID,
		Payload: events.TicketReplyAddedPayload{
			Title:       ticket.Title,
			Channel:     ticket.Channel,
			SenderEmail: ticket.Sender.Email,
			SenderPhone: ticket.Sender.Phone,
			Text:        comment.Text,
			Author:      comment.Author,
		},
	})
	return comment, nil
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func mapTicketNotFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewNotFound("Ticket")
	}
	return err
}
