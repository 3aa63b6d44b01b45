package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/smartdesk/internal/domain"
)

// TicketSort selects the ordering of ticket listings.
type TicketSort string

const (
	SortByDate     TicketSort = "date"
	SortByPriority TicketSort = "priority"
)

func (s TicketSort) orderClause() string {
	if s == SortByPriority {
		return `CASE priority WHEN 'high' THEN 1 WHEN 'medium' THEN 2 ELSE 3 END, created_at DESC`
	}
	return `created_at DESC`
}

// TicketUpdate captures the mutable ticket fields. Nil fields are left
// untouched.
type TicketUpdate struct {
	Status     *domain.TicketStatus
	AdminNotes *string
}

// LabelCount is one row of a GROUP BY aggregate.
type LabelCount struct {
	Label string `json:"label"`
	Count int64  `json:"count"`
}

// DailyCount is the ticket volume for one calendar day.
type DailyCount struct {
	Day   string `json:"day"`
	Count int64  `json:"count"`
}

// TicketStats aggregates dashboard counters, optionally scoped to one user.
type TicketStats struct {
	Total      int64        `json:"total"`
	Today      int64        `json:"today"`
	Pending    int64        `json:"pending"`
	Resolved   int64        `json:"resolved"`
	ByCategory []LabelCount `json:"by_category"`
	ByPriority []LabelCount `json:"by_priority"`
	ByStatus   []LabelCount `json:"by_status"`
	Daily      []DailyCount `json:"daily"`
}

// TicketRepository encapsulates ticket persistence.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	ListByUser(ctx context.Context, userID string, sort TicketSort) ([]domain.Ticket, error)
	ListAll(ctx context.Context, sort TicketSort) ([]domain.Ticket, error)
	Update(ctx context.Context, id string, update TicketUpdate) error
	DeleteOwned(ctx context.Context, id, userID string) error
	Stats(ctx context.Context, userID *string) (*TicketStats, error)
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (external_key, user_id, subject, body, category, queue, priority,
            status, confidence_category, confidence_priority, entities)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
        RETURNING id, created_at, updated_at`
	entities := ticket.Entities
	if entities == nil {
		entities = map[string][]string{}
	}
	return r.pool.QueryRow(ctx, query,
		ticket.ExternalKey,
		ticket.UserID,
		ticket.Subject,
		ticket.Body,
		ticket.Category,
		ticket.Queue,
		ticket.Priority,
		ticket.Status,
		ticket.ConfidenceCategory,
		ticket.ConfidencePriority,
		entities,
	).Scan(&ticket.ID, &ticket.CreatedAt, &ticket.UpdatedAt)
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	const query = `
        SELECT id, external_key, user_id, subject, body, category, queue, priority, status,
               confidence_category, confidence_priority, entities, admin_notes, created_at, updated_at
        FROM tickets WHERE id=$1`
	var ticket domain.Ticket
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&ticket.ID,
		&ticket.ExternalKey,
		&ticket.UserID,
		&ticket.Subject,
		&ticket.Body,
		&ticket.Category,
		&ticket.Queue,
		&ticket.Priority,
		&ticket.Status,
		&ticket.ConfidenceCategory,
		&ticket.ConfidencePriority,
		&ticket.Entities,
		&ticket.AdminNotes,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *ticketRepository) ListByUser(ctx context.Context, userID string, sort TicketSort) ([]domain.Ticket, error) {
	query := `
        SELECT id, external_key, user_id, subject, body, category, queue, priority, status,
               confidence_category, confidence_priority, entities, admin_notes, created_at, updated_at,
               '' AS user_name, '' AS user_email
        FROM tickets WHERE user_id=$1 ORDER BY ` + sort.orderClause()
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

func (r *ticketRepository) ListAll(ctx context.Context, sort TicketSort) ([]domain.Ticket, error) {
	query := `
        SELECT t.id, t.external_key, t.user_id, t.subject, t.body, t.category, t.queue, t.priority, t.status,
               t.confidence_category, t.confidence_priority, t.entities, t.admin_notes, t.created_at, t.updated_at,
               u.name AS user_name, u.email AS user_email
        FROM tickets t
        JOIN users u ON t.user_id = u.id
        ORDER BY ` + sort.orderClause()
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

func (r *ticketRepository) Update(ctx context.Context, id string, update TicketUpdate) error {
	const query = `
        UPDATE tickets SET
            status = COALESCE($1, status),
            admin_notes = COALESCE($2, admin_notes),
            updated_at = NOW()
        WHERE id=$3`
	cmd, err := r.pool.Exec(ctx, query, update.Status, update.AdminNotes, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketRepository) DeleteOwned(ctx context.Context, id, userID string) error {
	const query = `DELETE FROM tickets WHERE id=$1 AND user_id=$2`
	cmd, err := r.pool.Exec(ctx, query, id, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// Stats runs the dashboard aggregates. A nil userID produces global counts
// (admin scope); otherwise everything is restricted to that requester.
func (r *ticketRepository) Stats(ctx context.Context, userID *string) (*TicketStats, error) {
	scope := ""
	args := []any{}
	if userID != nil {
		scope = " WHERE user_id=$1"
		args = append(args, *userID)
	}

	stats := &TicketStats{}

	counts := `
        SELECT COUNT(*),
               COUNT(*) FILTER (WHERE created_at::date = CURRENT_DATE),
               COUNT(*) FILTER (WHERE status = 'Pending'),
               COUNT(*) FILTER (WHERE status = 'Resolved')
        FROM tickets` + scope
	if err := r.pool.QueryRow(ctx, counts, args...).Scan(
		&stats.Total, &stats.Today, &stats.Pending, &stats.Resolved,
	); err != nil {
		return nil, err
	}

	var err error
	if stats.ByCategory, err = r.groupCount(ctx, "category", scope, args); err != nil {
		return nil, err
	}
	if stats.ByPriority, err = r.groupCount(ctx, "priority", scope, args); err != nil {
		return nil, err
	}
	if stats.ByStatus, err = r.groupCount(ctx, "status", scope, args); err != nil {
		return nil, err
	}

	daily := `
        SELECT created_at::date::text AS day, COUNT(*) AS cnt
        FROM tickets` + scope
	if scope == "" {
		daily += " WHERE created_at >= CURRENT_DATE - INTERVAL '6 days'"
	} else {
		daily += " AND created_at >= CURRENT_DATE - INTERVAL '6 days'"
	}
	daily += " GROUP BY day ORDER BY day"
	rows, err := r.pool.Query(ctx, daily, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var dc DailyCount
		if err := rows.Scan(&dc.Day, &dc.Count); err != nil {
			return nil, err
		}
		stats.Daily = append(stats.Daily, dc)
	}
	return stats, rows.Err()
}

func (r *ticketRepository) groupCount(ctx context.Context, column, scope string, args []any) ([]LabelCount, error) {
	query := `SELECT COALESCE(` + column + `, ''), COUNT(*) FROM tickets` + scope +
		` GROUP BY ` + column + ` ORDER BY COUNT(*) DESC`
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []LabelCount
	for rows.Next() {
		var lc LabelCount
		if err := rows.Scan(&lc.Label, &lc.Count); err != nil {
			return nil, err
		}
		result = append(result, lc)
	}
	return result, rows.Err()
}

func scanTickets(rows pgx.Rows) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for rows.Next() {
		var ticket domain.Ticket
		if err := rows.Scan(
			&ticket.ID,
			&ticket.ExternalKey,
			&ticket.UserID,
			&ticket.Subject,
			&ticket.Body,
			&ticket.Category,
			&ticket.Queue,
			&ticket.Priority,
			&ticket.Status,
			&ticket.ConfidenceCategory,
			&ticket.ConfidencePriority,
			&ticket.Entities,
			&ticket.AdminNotes,
			&ticket.CreatedAt,
			&ticket.UpdatedAt,
			&ticket.RequesterName,
			&ticket.RequesterEmail,
		); err != nil {
			return nil, err
		}
		result = append(result, ticket)
	}
	return result, rows.Err()
}
