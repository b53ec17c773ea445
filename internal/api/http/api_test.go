package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/api/dto"
	httptransport "github.com/spec-kit/helpdesk/internal/api/http"
	"github.com/spec-kit/helpdesk/internal/api/http/handlers"
	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/events"
	"github.com/spec-kit/helpdesk/internal/notify"
	"github.com/spec-kit/helpdesk/internal/observability"
	"github.com/spec-kit/helpdesk/internal/repository"
	"github.com/spec-kit/helpdesk/internal/repository/repositorytest"
	"github.com/spec-kit/helpdesk/internal/service"
)

// memDeduper remembers delivery ids for the lifetime of the test.
type memDeduper struct {
	marked map[string]bool
}

func (d *memDeduper) Seen(_ context.Context, key string) (bool, error) {
	return d.marked[key], nil
}

func (d *memDeduper) Mark(_ context.Context, key string) error {
	d.marked[key] = true
	return nil
}

// failOnceTicketStore rejects the first Create, like a store that was
// briefly unreachable, and behaves normally afterwards.
type failOnceTicketStore struct {
	repository.TicketRepository
	failed bool
}

func (s *failOnceTicketStore) Create(ctx context.Context, ticket *domain.Ticket) error {
	if !s.failed {
		s.failed = true
		return errors.New("store unavailable")
	}
	return s.TicketRepository.Create(ctx, ticket)
}

type testEnv struct {
	app     *fiber.App
	metrics *observability.Metrics
}

func newTestApp(t *testing.T) *fiber.App {
	return newTestEnv(t, repositorytest.NewTicketStore()).app
}

func newTestEnv(t *testing.T, ticketRepo repository.TicketRepository) *testEnv {
	t.Helper()
	logger := zap.NewNop()
	metrics := observability.NewMetrics()

	dispatcher := events.NewInMemoryDispatcher()
	notifications := service.NewNotificationService(dispatcher, notify.NewLogNotifier(logger), logger, metrics)
	notifications.RegisterHandlers()

	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo:  ticketRepo,
		CommentRepo: repositorytest.NewCommentStore(),
		Dispatcher:  dispatcher,
	})

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, 0)
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:   handlers.NewHealthHandler("helpdesk", "test", nil, nil),
		Tickets:  handlers.NewTicketsHandler(ticketService),
		Replies:  handlers.NewRepliesHandler(ticketService),
		Webhooks: handlers.NewWebhooksHandler(ticketService, &memDeduper{marked: map[string]bool{}}, logger),
	})
	return &testEnv{app: app, metrics: metrics}
}

func doJSON(t *testing.T, app *fiber.App, method, path, body string) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, raw
}

func createTicket(t *testing.T, app *fiber.App, body string) dto.TicketResponse {
	t.Helper()
	resp, raw := doJSON(t, app, http.MethodPost, "/tickets", body)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.StatusCode, raw)
	}
	var ticket dto.TicketResponse
	if err := json.Unmarshal(raw, &ticket); err != nil {
		t.Fatalf("decode ticket: %v", err)
	}
	return ticket
}

func TestCreateTicketEndpoint(t *testing.T) {
	app := newTestApp(t)

	ticket := createTicket(t, app, `{"title":"T1","description":"D1","channel":"form","sender":{"email":"","phone":""}}`)

	if ticket.ID == "" {
		t.Error("expected generated id")
	}
	if string(ticket.Status) != "open" || string(ticket.Priority) != "medium" || string(ticket.Category) != "Support" {
		t.Errorf("unexpected defaults: %+v", ticket)
	}
	if ticket.Comments == nil || len(ticket.Comments) != 0 {
		t.Errorf("expected empty comments array, got %v", ticket.Comments)
	}
}

func TestCreateTicketEndpointValidation(t *testing.T) {
	app := newTestApp(t)

	resp, raw := doJSON(t, app, http.MethodPost, "/tickets", `{"description":"D1","channel":"form"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	var body map[string]string
	if err := json.Unmarshal(raw, &body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if body["error"] == "" {
		t.Errorf("expected error field, got %s", raw)
	}
}

func TestGetTicketEndpointNotFound(t *testing.T) {
	app := newTestApp(t)

	resp, raw := doJSON(t, app, http.MethodGet, "/tickets/nope", "")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
	var body map[string]string
	if err := json.Unmarshal(raw, &body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if body["error"] != "Ticket not found" {
		t.Errorf("expected 'Ticket not found', got %q", body["error"])
	}
}

func TestListTicketsEndpointNewestFirst(t *testing.T) {
	app := newTestApp(t)
	for _, title := range []string{"A", "B", "C"} {
		createTicket(t, app, `{"title":"`+title+`","description":"D","channel":"form"}`)
	}

	resp, raw := doJSON(t, app, http.MethodGet, "/tickets", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var tickets []dto.TicketResponse
	if err := json.Unmarshal(raw, &tickets); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(tickets) != 3 {
		t.Fatalf("expected 3 tickets, got %d", len(tickets))
	}
	want := []string{"C", "B", "A"}
	for i, title := range want {
		if tickets[i].Title != title {
			t.Errorf("position %d: expected %s, got %s", i, title, tickets[i].Title)
		}
	}
}

func TestUpdateTicketEndpointIgnoresImmutableFields(t *testing.T) {
	app := newTestApp(t)
	created := createTicket(t, app, `{"title":"T","description":"D","channel":"form","sender":{"email":"a@b.c","phone":""}}`)

	// channel and sender keys in the body must not stick.
	resp, raw := doJSON(t, app, http.MethodPut, "/tickets/"+created.ID,
		`{"status":"closed","channel":"sms","sender":{"email":"evil@x.y","phone":"+1"}}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, raw)
	}
	var ticket dto.TicketResponse
	if err := json.Unmarshal(raw, &ticket); err != nil {
		t.Fatalf("decode ticket: %v", err)
	}
	if string(ticket.Status) != "closed" {
		t.Errorf("expected closed, got %s", ticket.Status)
	}
	if string(ticket.Channel) != "form" {
		t.Errorf("channel must be immutable, got %s", ticket.Channel)
	}
	if ticket.Sender.Email != "a@b.c" {
		t.Errorf("sender must be immutable, got %+v", ticket.Sender)
	}
}

func TestUpdateTicketEndpointNotFound(t *testing.T) {
	app := newTestApp(t)
	resp, _ := doJSON(t, app, http.MethodPut, "/tickets/nope", `{"status":"closed"}`)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestDeleteTicketEndpoint(t *testing.T) {
	app := newTestApp(t)
	created := createTicket(t, app, `{"title":"T","description":"D","channel":"form"}`)

	resp, raw := doJSON(t, app, http.MethodDelete, "/tickets/"+created.ID, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var body map[string]string
	if err := json.Unmarshal(raw, &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["message"] != "Ticket deleted" {
		t.Errorf("unexpected message %q", body["message"])
	}

	resp, _ = doJSON(t, app, http.MethodGet, "/tickets/"+created.ID, "")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", resp.StatusCode)
	}
}

func TestCreateReplyEndpoint(t *testing.T) {
	app := newTestApp(t)
	created := createTicket(t, app, `{"title":"T","description":"D","channel":"form"}`)

	resp, raw := doJSON(t, app, http.MethodPost, "/replies",
		`{"ticketId":"`+created.ID+`","text":"hello","author":"rep"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, raw)
	}
	var comment dto.CommentResponse
	if err := json.Unmarshal(raw, &comment); err != nil {
		t.Fatalf("decode comment: %v", err)
	}
	if comment.Text != "hello" || comment.Author != "rep" {
		t.Errorf("unexpected comment %+v", comment)
	}

	_, raw = doJSON(t, app, http.MethodGet, "/tickets/"+created.ID, "")
	var ticket dto.TicketResponse
	if err := json.Unmarshal(raw, &ticket); err != nil {
		t.Fatalf("decode ticket: %v", err)
	}
	if len(ticket.Comments) != 1 || ticket.Comments[0].Text != "hello" {
		t.Errorf("expected embedded comment, got %+v", ticket.Comments)
	}
}

func TestEmailWebhookEndpoint(t *testing.T) {
	app := newTestApp(t)

	resp, raw := doJSON(t, app, http.MethodPost, "/webhooks/email",
		`{"subject":"Printer on fire","text":"please advise","from":"user@example.com"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, raw)
	}

	_, raw = doJSON(t, app, http.MethodGet, "/tickets", "")
	var tickets []dto.TicketResponse
	if err := json.Unmarshal(raw, &tickets); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(tickets) != 1 {
		t.Fatalf("expected 1 ticket, got %d", len(tickets))
	}
	if tickets[0].Title != "Printer on fire" || string(tickets[0].Channel) != "email" {
		t.Errorf("unexpected ticket %+v", tickets[0])
	}
	if tickets[0].Sender.Email != "user@example.com" {
		t.Errorf("unexpected sender %+v", tickets[0].Sender)
	}
}

func TestEmailWebhookEndpointMalformed(t *testing.T) {
	app := newTestApp(t)

	resp, _ := doJSON(t, app, http.MethodPost, "/webhooks/email", `not json at all`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}

	_, raw := doJSON(t, app, http.MethodGet, "/tickets", "")
	var tickets []dto.TicketResponse
	if err := json.Unmarshal(raw, &tickets); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(tickets) != 0 {
		t.Fatalf("malformed payload must not create a ticket, got %d", len(tickets))
	}
}

func postForm(t *testing.T, app *fiber.App, path, form string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}
	return resp
}

func TestSMSWebhookEndpoint(t *testing.T) {
	app := newTestApp(t)

	resp := postForm(t, app, "/webhooks/sms", "Body=my+screen+went+dark&From=%2B15551234567")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	_, raw := doJSON(t, app, http.MethodGet, "/tickets", "")
	var tickets []dto.TicketResponse
	if err := json.Unmarshal(raw, &tickets); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(tickets) != 1 {
		t.Fatalf("expected 1 ticket, got %d", len(tickets))
	}
	if tickets[0].Title != "SMS Ticket" || tickets[0].Description != "my screen went dark" {
		t.Errorf("unexpected ticket %+v", tickets[0])
	}
	if tickets[0].Sender.Phone != "+15551234567" {
		t.Errorf("unexpected sender %+v", tickets[0].Sender)
	}
}

func TestSMSWebhookEndpointMissingFields(t *testing.T) {
	app := newTestApp(t)

	resp := postForm(t, app, "/webhooks/sms", "From=%2B15551234567")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestSMSWebhookEndpointDedup(t *testing.T) {
	app := newTestApp(t)

	form := "Body=halp&From=%2B15551234567&MessageSid=SM123"
	if resp := postForm(t, app, "/webhooks/sms", form); resp.StatusCode != http.StatusOK {
		t.Fatalf("first delivery: expected 200, got %d", resp.StatusCode)
	}
	if resp := postForm(t, app, "/webhooks/sms", form); resp.StatusCode != http.StatusOK {
		t.Fatalf("replayed delivery: expected 200, got %d", resp.StatusCode)
	}

	_, raw := doJSON(t, app, http.MethodGet, "/tickets", "")
	var tickets []dto.TicketResponse
	if err := json.Unmarshal(raw, &tickets); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(tickets) != 1 {
		t.Fatalf("replayed delivery must not create a second ticket, got %d", len(tickets))
	}
}

func TestSMSWebhookEndpointRetryAfterFailedCreate(t *testing.T) {
	env := newTestEnv(t, &failOnceTicketStore{TicketRepository: repositorytest.NewTicketStore()})

	// First delivery hits the store outage; the delivery id must not be
	// recorded, so the provider's retry creates the ticket.
	form := "Body=halp&From=%2B15551234567&MessageSid=SM123"
	if resp := postForm(t, env.app, "/webhooks/sms", form); resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("failed create: expected 500, got %d", resp.StatusCode)
	}

	resp := postForm(t, env.app, "/webhooks/sms", form)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("retry: expected 200, got %d", resp.StatusCode)
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	var body map[string]string
	if err := json.Unmarshal(raw, &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["message"] != "Ticket created" {
		t.Fatalf("retry must be processed, not ignored, got %q", body["message"])
	}

	_, raw = doJSON(t, env.app, http.MethodGet, "/tickets", "")
	var tickets []dto.TicketResponse
	if err := json.Unmarshal(raw, &tickets); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(tickets) != 1 {
		t.Fatalf("expected the retried delivery to create the ticket, got %d", len(tickets))
	}
}

func TestFailedRequestsRecordedWithErrorStatus(t *testing.T) {
	env := newTestEnv(t, repositorytest.NewTicketStore())

	resp, _ := doJSON(t, env.app, http.MethodGet, "/tickets/nope", "")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
	if got := env.metrics.RequestCount("/tickets/nope", http.MethodGet, http.StatusNotFound); got != 1 {
		t.Errorf("expected one request counted as 404, got %d", got)
	}
	if got := env.metrics.RequestCount("/tickets/nope", http.MethodGet, http.StatusOK); got != 0 {
		t.Errorf("failed request must not be counted as 200, got %d", got)
	}
}

func TestHealthLiveEndpoint(t *testing.T) {
	app := newTestApp(t)
	resp, _ := doJSON(t, app, http.MethodGet, "/health/live", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}
