package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/smartdesk/internal/domain"
	"github.com/spec-kit/smartdesk/internal/events"
	"github.com/spec-kit/smartdesk/internal/intake"
	"github.com/spec-kit/smartdesk/internal/observability"
	"github.com/spec-kit/smartdesk/internal/persistence"
	"github.com/spec-kit/smartdesk/internal/repository"
	apperrors "github.com/spec-kit/smartdesk/pkg/util/errorutil"
)

// Caller identifies the authenticated account for permission checks.
type Caller struct {
	UserID string
	Admin  bool
}

// TicketService coordinates intake analysis and ticket workflows.
type TicketService struct {
	engine     *intake.Engine
	tickets    repository.TicketRepository
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	cache      *persistence.Redis
	cacheTTL   time.Duration
	modelStats map[string]any
}

// TicketDependencies bundles collaborators for ticket service.
type TicketDependencies struct {
	Engine     *intake.Engine
	TicketRepo repository.TicketRepository
	Dispatcher events.Dispatcher
	Metrics    *observability.Metrics
	Cache      *persistence.Redis
	CacheTTL   time.Duration
	ModelStats map[string]any
}

// TicketUpdateInput describes a PATCH payload.
type TicketUpdateInput struct {
	Status     *domain.TicketStatus
	AdminNotes *string
}

// StatsResult is the dashboard payload: ticket aggregates plus training
// metadata of the loaded models.
type StatsResult struct {
	repository.TicketStats
	Attended   int64          `json:"attended"`
	ModelStats map[string]any `json:"model_stats"`
	IsAdmin    bool           `json:"is_admin"`
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	modelStats := deps.ModelStats
	if modelStats == nil {
		modelStats = map[string]any{}
	}
	return &TicketService{
		engine:     deps.Engine,
		tickets:    deps.TicketRepo,
		dispatcher: deps.Dispatcher,
		metrics:    deps.Metrics,
		cache:      deps.Cache,
		cacheTTL:   deps.CacheTTL,
		modelStats: modelStats,
	}
}

// ModelStats returns the training metadata surfaced in the stats API.
func (s *TicketService) ModelStats() map[string]any {
	return s.modelStats
}

// Analyze runs the intake pipeline without persisting anything.
func (s *TicketService) Analyze(subject, body string) (intake.Analysis, error) {
	if strings.TrimSpace(subject) == "" || strings.TrimSpace(body) == "" {
		return intake.Analysis{}, apperrors.NewValidationError("subject and body are required", nil)
	}
	result := s.engine.Analyze(subject, body)
	s.metrics.RecordAnalysis(result.OverrideKeyword)
	return result, nil
}

// AnalyzeAndPersist runs the intake pipeline and stores the resulting
// ticket in a single insert for the authenticated owner.
func (s *TicketService) AnalyzeAndPersist(ctx context.Context, ownerID, subject, body string) (intake.Analysis, *domain.Ticket, error) {
	result, err := s.Analyze(subject, body)
	if err != nil {
		return intake.Analysis{}, nil, err
	}

	ticket := &domain.Ticket{
		ExternalKey:        generateTicketKey(),
		UserID:             ownerID,
		Subject:            subject,
		Body:               body,
		Category:           result.Category,
		Queue:              result.Queue,
		Priority:           domain.TicketPriority(result.Priority),
		Status:             domain.TicketStatusPending,
		ConfidenceCategory: result.ConfidenceCategory,
		ConfidencePriority: result.ConfidencePriority,
		Entities:           result.Entities,
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return intake.Analysis{}, nil, err
	}
	s.invalidateStats(ctx, ownerID)

	s.publish(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		UserID:   ownerID,
		Payload: events.TicketCreatedPayload{
			Subject:  ticket.Subject,
			Category: ticket.Category,
			Queue:    ticket.Queue,
			Priority: ticket.Priority,
		},
	})
	if result.RuleOverride {
		s.publish(ctx, events.Event{
			Type:     events.EventPriorityEscalated,
			TicketID: ticket.ID,
			UserID:   ownerID,
			Payload: events.PriorityEscalatedPayload{
				OverrideKeyword: result.OverrideKeyword,
				Priority:        ticket.Priority,
			},
		})
	}
	return result, ticket, nil
}

// ListTickets returns the caller's tickets; admins see every ticket with
// requester information attached.
func (s *TicketService) ListTickets(ctx context.Context, caller Caller, sort repository.TicketSort) ([]domain.Ticket, error) {
	if sort != repository.SortByPriority {
		sort = repository.SortByDate
	}
	if caller.Admin {
		return s.tickets.ListAll(ctx, sort)
	}
	return s.tickets.ListByUser(ctx, caller.UserID, sort)
}

// UpdateTicket applies a status change and/or admin notes. Owners may change
// status on their own tickets; admin notes are admin-only and silently
// dropped otherwise.
func (s *TicketService) UpdateTicket(ctx context.Context, caller Caller, ticketID string, input TicketUpdateInput) error {
	if input.Status != nil && !input.Status.Valid() {
		return apperrors.NewValidationError("invalid status", map[string]any{"status": *input.Status})
	}

	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewNotFound("ticket", nil)
		}
		return err
	}
	if !caller.Admin && ticket.UserID != caller.UserID {
		return apperrors.NewForbidden("permission denied")
	}

	update := repository.TicketUpdate{Status: input.Status}
	if caller.Admin {
		update.AdminNotes = input.AdminNotes
	}
	if err := s.tickets.Update(ctx, ticketID, update); err != nil {
		return err
	}
	s.invalidateStats(ctx, ticket.UserID)

	if input.Status != nil && *input.Status != ticket.Status {
		s.publish(ctx, events.Event{
			Type:     events.EventTicketUpdated,
			TicketID: ticketID,
			UserID:   caller.UserID,
			Payload: events.TicketUpdatedPayload{
				OldStatus: ticket.Status,
				NewStatus: *input.Status,
			},
		})
	}
	return nil
}

// DeleteTicket removes one of the caller's own tickets.
func (s *TicketService) DeleteTicket(ctx context.Context, caller Caller, ticketID string) error {
	if err := s.tickets.DeleteOwned(ctx, ticketID, caller.UserID); err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewNotFound("ticket", nil)
		}
		return err
	}
	s.invalidateStats(ctx, caller.UserID)
	return nil
}

// Stats computes the dashboard aggregates scoped to the caller. Results are
// served from the redis cache for a short TTL; the cache is best-effort and
// any cache failure falls through to the database.
func (s *TicketService) Stats(ctx context.Context, caller Caller) (*StatsResult, error) {
	key := s.statsKey(caller)
	if s.cacheTTL > 0 {
		var cached StatsResult
		if hit, err := s.cache.GetJSON(ctx, key, &cached); err == nil && hit {
			return &cached, nil
		}
	}

	var scope *string
	if !caller.Admin {
		scope = &caller.UserID
	}

	stats, err := s.tickets.Stats(ctx, scope)
	if err != nil {
		return nil, err
	}

	result := &StatsResult{
		TicketStats: *stats,
		Attended:    stats.Total - stats.Pending,
		ModelStats:  s.modelStats,
		IsAdmin:     caller.Admin,
	}
	if s.cacheTTL > 0 {
		_ = s.cache.SetJSON(ctx, key, result, s.cacheTTL)
	}
	return result, nil
}

func (s *TicketService) statsKey(caller Caller) string {
	if caller.Admin {
		return "stats:global"
	}
	return "stats:user:" + caller.UserID
}

// invalidateStats drops the cached aggregates affected by a write.
func (s *TicketService) invalidateStats(ctx context.Context, userID string) {
	_ = s.cache.Delete(ctx, "stats:global", "stats:user:"+userID)
}

func (s *TicketService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func generateTicketKey() string {
	return "TCK-" + strings.ToUpper(uuid.NewString()[:8])
}
