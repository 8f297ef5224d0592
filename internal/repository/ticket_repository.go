package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/staffdesk/helpdesk-api/internal/domain"
)

// TicketTab is a coarse ticket-list scope.
type TicketTab string

const (
	TabQueue TicketTab = "queue"
	TabMine  TicketTab = "my"
	TabAll   TicketTab = "all"
)

// Valid reports whether the tab is a known scope.
func (t TicketTab) Valid() bool {
	return t == TabQueue || t == TabMine || t == TabAll
}

// TicketFilter captures list parameters together with the caller's
// identity, which bounds what non-admins can see.
type TicketFilter struct {
	ViewerID    string
	ViewerAdmin bool

	Tab              TicketTab
	Status           *domain.TicketStatus
	Priority         *domain.TicketPriority
	DepartmentID     *string
	ProductID        *string
	CategoryID       *string
	AssignedToUserID *string
	Search           *string
	Page             int
	PageSize         int
}

// TicketUpdate describes a partial ticket update. Nil fields are left
// untouched; ClearClosedAt and ClosedAt are mutually exclusive.
type TicketUpdate struct {
	Status           *domain.TicketStatus
	Priority         *domain.TicketPriority
	AssignedToUserID *string
	DepartmentID     *string
	ProductID        *string
	CategoryID       *string
	ClosedAt         *time.Time
	ClearClosedAt    bool
}

// TicketRepository encapsulates ticket persistence.
type TicketRepository interface {
	CreateWithInitialMessage(ctx context.Context, ticket *domain.Ticket, message *domain.TicketMessage) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	GetWithRelations(ctx context.Context, id string) (*domain.TicketWithRelations, error)
	List(ctx context.Context, filter TicketFilter) ([]domain.TicketWithRelations, int64, error)
	Summary(ctx context.Context, viewerID string, viewerAdmin bool) (domain.DashboardSummary, error)
	UpdateFields(ctx context.Context, id string, update TicketUpdate) (*domain.Ticket, error)
	Close(ctx context.Context, id string, at time.Time) (*domain.Ticket, error)
	Touch(ctx context.Context, id string) error
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates the repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

const ticketColumns = `id, company_id, department_id, product_id, category_id, title, description,
               status, priority, created_by_user_id, requested_by_contact_id, requested_by_email,
               assigned_to_user_id, created_at, updated_at, closed_at`

// CreateWithInitialMessage inserts the ticket and its first message in a
// single transaction so a failed message insert never leaves an orphaned
// ticket behind.
func (r *ticketRepository) CreateWithInitialMessage(ctx context.Context, ticket *domain.Ticket, message *domain.TicketMessage) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	const insertTicket = `
        INSERT INTO tickets (company_id, department_id, product_id, category_id, title, description,
            status, priority, created_by_user_id, requested_by_contact_id, requested_by_email, assigned_to_user_id)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
        RETURNING id, created_at, updated_at`
	if err := tx.QueryRow(ctx, insertTicket,
		ticket.CompanyID,
		ticket.DepartmentID,
		ticket.ProductID,
		ticket.CategoryID,
		ticket.Title,
		ticket.Description,
		ticket.Status,
		ticket.Priority,
		ticket.CreatedByUserID,
		ticket.RequestedByContactID,
		ticket.RequestedByEmail,
		ticket.AssignedToUserID,
	).Scan(&ticket.ID, &ticket.CreatedAt, &ticket.UpdatedAt); err != nil {
		return err
	}

	message.TicketID = ticket.ID
	const insertMessage = `
        INSERT INTO ticket_messages (ticket_id, author_user_id, is_internal, content)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at`
	if err := tx.QueryRow(ctx, insertMessage,
		message.TicketID,
		message.AuthorUserID,
		message.IsInternal,
		message.Content,
	).Scan(&message.ID, &message.CreatedAt); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	const query = `SELECT ` + ticketColumns + ` FROM tickets WHERE id=$1`

	var ticket domain.Ticket
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&ticket.ID,
		&ticket.CompanyID,
		&ticket.DepartmentID,
		&ticket.ProductID,
		&ticket.CategoryID,
		&ticket.Title,
		&ticket.Description,
		&ticket.Status,
		&ticket.Priority,
		&ticket.CreatedByUserID,
		&ticket.RequestedByContactID,
		&ticket.RequestedByEmail,
		&ticket.AssignedToUserID,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
		&ticket.ClosedAt,
	); err != nil {
		return nil, err
	}
	return &ticket, nil
}

const relationSelect = `
        SELECT t.id, t.company_id, t.department_id, t.product_id, t.category_id, t.title, t.description,
               t.status, t.priority, t.created_by_user_id, t.requested_by_contact_id, t.requested_by_email,
               t.assigned_to_user_id, t.created_at, t.updated_at, t.closed_at,
               c.name, d.name, p.name, cat.name,
               ap.email, ap.full_name, cp.email, cp.full_name,
               cc.name, cc.email`

const relationJoins = `
        FROM tickets t
        LEFT JOIN companies c ON c.id = t.company_id
        LEFT JOIN departments d ON d.id = t.department_id
        LEFT JOIN products p ON p.id = t.product_id
        LEFT JOIN categories cat ON cat.id = t.category_id
        LEFT JOIN profiles ap ON ap.id = t.assigned_to_user_id
        LEFT JOIN profiles cp ON cp.id = t.created_by_user_id
        LEFT JOIN company_contacts cc ON cc.id = t.requested_by_contact_id`

func (r *ticketRepository) GetWithRelations(ctx context.Context, id string) (*domain.TicketWithRelations, error) {
	query := relationSelect + relationJoins + ` WHERE t.id=$1`

	row := r.pool.QueryRow(ctx, query, id)
	ticket, _, err := scanTicketRelationRow(row, false)
	if err != nil {
		return nil, err
	}
	return ticket, nil
}

// List runs the single aggregate query: filters, join-based enrichment
// and pagination in one round trip, with the total row count windowed
// onto every row.
func (r *ticketRepository) List(ctx context.Context, filter TicketFilter) ([]domain.TicketWithRelations, int64, error) {
	clauses, args := filter.whereClauses()

	query := relationSelect + `, COUNT(*) OVER () AS total_count` + relationJoins
	if len(clauses) > 0 {
		query += ` WHERE ` + strings.Join(clauses, " AND ")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = 20
	}
	args = append(args, pageSize)
	limitPos := len(args)
	args = append(args, (page-1)*pageSize)
	query += fmt.Sprintf(` ORDER BY t.updated_at DESC LIMIT $%d OFFSET $%d`, limitPos, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []domain.TicketWithRelations
	var total int64
	for rows.Next() {
		ticket, rowTotal, err := scanTicketRelationRow(rows, true)
		if err != nil {
			return nil, 0, err
		}
		if total == 0 {
			total = rowTotal
		}
		result = append(result, *ticket)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return result, total, nil
}

func (f TicketFilter) whereClauses() ([]string, []any) {
	clauses := []string{}
	args := []any{}

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if !f.ViewerAdmin {
		ph := arg(f.ViewerID)
		clauses = append(clauses, fmt.Sprintf(
			"(t.status='open' OR t.assigned_to_user_id=%s OR t.created_by_user_id=%s)", ph, ph))
	}

	switch f.Tab {
	case TabQueue, "":
		clauses = append(clauses, "t.status='open'", "t.assigned_to_user_id IS NULL")
	case TabMine:
		ph := arg(f.ViewerID)
		clauses = append(clauses, fmt.Sprintf(
			"(t.assigned_to_user_id=%s OR t.created_by_user_id=%s)", ph, ph))
	case TabAll:
	}

	if f.Status != nil {
		clauses = append(clauses, "t.status="+arg(*f.Status))
	}
	if f.Priority != nil {
		clauses = append(clauses, "t.priority="+arg(*f.Priority))
	}
	if f.DepartmentID != nil {
		clauses = append(clauses, "t.department_id="+arg(*f.DepartmentID))
	}
	if f.ProductID != nil {
		clauses = append(clauses, "t.product_id="+arg(*f.ProductID))
	}
	if f.CategoryID != nil {
		clauses = append(clauses, "t.category_id="+arg(*f.CategoryID))
	}
	if f.AssignedToUserID != nil {
		clauses = append(clauses, "t.assigned_to_user_id="+arg(*f.AssignedToUserID))
	}
	if f.Search != nil && strings.TrimSpace(*f.Search) != "" {
		ph := arg("%" + strings.TrimSpace(*f.Search) + "%")
		clauses = append(clauses, fmt.Sprintf("(t.title ILIKE %s OR t.description ILIKE %s)", ph, ph))
	}

	return clauses, args
}

// Summary aggregates dashboard counts within the caller's visibility.
func (r *ticketRepository) Summary(ctx context.Context, viewerID string, viewerAdmin bool) (domain.DashboardSummary, error) {
	query := `
        SELECT COUNT(*) FILTER (WHERE status='open'),
               COUNT(*) FILTER (WHERE status='in_progress'),
               COUNT(*) FILTER (WHERE status='waiting_customer'),
               COUNT(*) FILTER (WHERE status='resolved' AND updated_at >= date_trunc('day', NOW())),
               COUNT(*) FILTER (WHERE status='closed' AND closed_at >= date_trunc('day', NOW()))
        FROM tickets`
	args := []any{}
	if !viewerAdmin {
		query += ` WHERE status='open' OR assigned_to_user_id=$1 OR created_by_user_id=$1`
		args = append(args, viewerID)
	}

	var summary domain.DashboardSummary
	err := r.pool.QueryRow(ctx, query, args...).Scan(
		&summary.Open,
		&summary.InProgress,
		&summary.WaitingCustomer,
		&summary.ResolvedToday,
		&summary.ClosedToday,
	)
	if err == pgx.ErrNoRows {
		return domain.DashboardSummary{}, nil
	}
	if err != nil {
		return domain.DashboardSummary{}, err
	}
	return summary, nil
}

// UpdateFields applies only the supplied fields and always refreshes
// updated_at. Missing rows map to pgx.ErrNoRows.
func (r *ticketRepository) UpdateFields(ctx context.Context, id string, update TicketUpdate) (*domain.Ticket, error) {
	sets := []string{"updated_at=NOW()"}
	args := []any{}

	set := func(column string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s=$%d", column, len(args)))
	}

	if update.Status != nil {
		set("status", *update.Status)
	}
	if update.Priority != nil {
		set("priority", *update.Priority)
	}
	if update.AssignedToUserID != nil {
		set("assigned_to_user_id", *update.AssignedToUserID)
	}
	if update.DepartmentID != nil {
		set("department_id", *update.DepartmentID)
	}
	if update.ProductID != nil {
		set("product_id", *update.ProductID)
	}
	if update.CategoryID != nil {
		set("category_id", *update.CategoryID)
	}
	if update.ClearClosedAt {
		sets = append(sets, "closed_at=NULL")
	} else if update.ClosedAt != nil {
		set("closed_at", *update.ClosedAt)
	}

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE tickets SET %s WHERE id=$%d RETURNING `+ticketColumns,
		strings.Join(sets, ", "), len(args))

	var ticket domain.Ticket
	if err := r.pool.QueryRow(ctx, query, args...).Scan(
		&ticket.ID,
		&ticket.CompanyID,
		&ticket.DepartmentID,
		&ticket.ProductID,
		&ticket.CategoryID,
		&ticket.Title,
		&ticket.Description,
		&ticket.Status,
		&ticket.Priority,
		&ticket.CreatedByUserID,
		&ticket.RequestedByContactID,
		&ticket.RequestedByEmail,
		&ticket.AssignedToUserID,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
		&ticket.ClosedAt,
	); err != nil {
		return nil, err
	}
	return &ticket, nil
}

// Close stamps the ticket closed unconditionally; closing an already
// closed ticket just refreshes the timestamps.
func (r *ticketRepository) Close(ctx context.Context, id string, at time.Time) (*domain.Ticket, error) {
	status := domain.TicketStatusClosed
	return r.UpdateFields(ctx, id, TicketUpdate{Status: &status, ClosedAt: &at})
}

func (r *ticketRepository) Touch(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE tickets SET updated_at=NOW() WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

type relationScanner interface {
	Scan(dest ...any) error
}

func scanTicketRelationRow(row relationScanner, withTotal bool) (*domain.TicketWithRelations, int64, error) {
	var ticket domain.TicketWithRelations
	var companyName, departmentName, productName, categoryName *string
	var assigneeEmail, assigneeName, creatorEmail, creatorName *string
	var contactName, contactEmail *string
	var total int64

	dest := []any{
		&ticket.ID,
		&ticket.CompanyID,
		&ticket.DepartmentID,
		&ticket.ProductID,
		&ticket.CategoryID,
		&ticket.Title,
		&ticket.Description,
		&ticket.Status,
		&ticket.Priority,
		&ticket.CreatedByUserID,
		&ticket.RequestedByContactID,
		&ticket.RequestedByEmail,
		&ticket.AssignedToUserID,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
		&ticket.ClosedAt,
		&companyName,
		&departmentName,
		&productName,
		&categoryName,
		&assigneeEmail,
		&assigneeName,
		&creatorEmail,
		&creatorName,
		&contactName,
		&contactEmail,
	}
	if withTotal {
		dest = append(dest, &total)
	}
	if err := row.Scan(dest...); err != nil {
		return nil, 0, err
	}

	ticket.Company = namedRef(ticket.CompanyID, companyName)
	ticket.Department = namedRef(ticket.DepartmentID, departmentName)
	ticket.Product = namedRef(ticket.ProductID, productName)
	ticket.Category = namedRef(ticket.CategoryID, categoryName)
	if ticket.AssignedToUserID != nil {
		ticket.Assignee = &domain.ProfileRef{ID: *ticket.AssignedToUserID, Email: deref(assigneeEmail), FullName: assigneeName}
	}
	if ticket.CreatedByUserID != nil {
		ticket.Creator = &domain.ProfileRef{ID: *ticket.CreatedByUserID, Email: deref(creatorEmail), FullName: creatorName}
	}
	if ticket.RequestedByContactID != nil {
		ticket.RequestedByContact = &domain.ContactRef{ID: *ticket.RequestedByContactID, Name: deref(contactName), Email: deref(contactEmail)}
	}
	return &ticket, total, nil
}

func namedRef(id, name *string) *domain.NamedRef {
	if id == nil {
		return nil
	}
	return &domain.NamedRef{ID: *id, Name: deref(name)}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
