// Package repositorytest provides in-memory repository implementations for
// exercising the service and API layers without a database.
package repositorytest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk/internal/domain"
)

// TicketStore is an in-memory repository.TicketRepository.
type TicketStore struct {
	mu      sync.Mutex
	tickets map[string]domain.Ticket
	clock   time.Time
}

// NewTicketStore builds an empty store.
func NewTicketStore() *TicketStore {
	return &TicketStore{
		tickets: make(map[string]domain.Ticket),
		clock:   time.Now(),
	}
}

// nextTime hands out strictly increasing timestamps so createdAt ordering
// is deterministic even for back-to-back creates.
func (s *TicketStore) nextTime() time.Time {
	s.clock = s.clock.Add(time.Millisecond)
	return s.clock
}

func (s *TicketStore) Create(_ context.Context, ticket *domain.Ticket) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ticket.CreatedAt = s.nextTime()
	s.tickets[ticket.ID] = *ticket
	return nil
}

func (s *TicketStore) Update(_ context.Context, ticket *domain.Ticket) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.tickets[ticket.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	stored.Status = ticket.Status
	stored.Priority = ticket.Priority
	stored.Category = ticket.Category
	stored.AssignedTo = ticket.AssignedTo
	s.tickets[ticket.ID] = stored
	return nil
}

func (s *TicketStore) GetByID(_ context.Context, id string) (*domain.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	ticket := stored
	return &ticket, nil
}

func (s *TicketStore) List(_ context.Context) ([]domain.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	result := make([]domain.Ticket, 0, len(s.tickets))
	for _, ticket := range s.tickets {
		result = append(result, ticket)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (s *TicketStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tickets[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(s.tickets, id)
	return nil
}

// CommentStore is an in-memory repository.CommentRepository.
type CommentStore struct {
	mu       sync.Mutex
	comments []domain.Comment
	clock    time.Time
}

// NewCommentStore builds an empty store.
func NewCommentStore() *CommentStore {
	return &CommentStore{clock: time.Now()}
}

func (s *CommentStore) Create(_ context.Context, comment *domain.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clock = s.clock.Add(time.Millisecond)
	comment.CreatedAt = s.clock
	s.comments = append(s.comments, *comment)
	return nil
}

func (s *CommentStore) ListByTicket(_ context.Context, ticketID string) ([]domain.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []domain.Comment
	for _, comment := range s.comments {
		if comment.TicketID == ticketID {
			result = append(result, comment)
		}
	}
	return result, nil
}
