package service

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/staffdesk/helpdesk-api/internal/domain"
	"github.com/staffdesk/helpdesk-api/internal/events"
	"github.com/staffdesk/helpdesk-api/internal/repository"
)

// fakeTicketRepo is an in-memory TicketRepository recording calls.
type fakeTicketRepo struct {
	tickets    map[string]*domain.Ticket
	relTickets map[string]*domain.TicketWithRelations

	listRows  []domain.TicketWithRelations
	listTotal int64

	lastFilter        *repository.TicketFilter
	lastUpdate        *repository.TicketUpdate
	touched           []string
	summary           domain.DashboardSummary
	lastSummaryViewer string
	lastSummaryAdmin  bool

	createErr error
	nextID    int
}

func newFakeTicketRepo() *fakeTicketRepo {
	return &fakeTicketRepo{
		tickets:    map[string]*domain.Ticket{},
		relTickets: map[string]*domain.TicketWithRelations{},
	}
}

func (f *fakeTicketRepo) put(ticket *domain.Ticket) {
	f.tickets[ticket.ID] = ticket
}

func (f *fakeTicketRepo) CreateWithInitialMessage(_ context.Context, ticket *domain.Ticket, message *domain.TicketMessage) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.nextID++
	ticket.ID = fmt.Sprintf("ticket-%d", f.nextID)
	ticket.CreatedAt = time.Now()
	ticket.UpdatedAt = ticket.CreatedAt
	message.TicketID = ticket.ID
	message.ID = fmt.Sprintf("message-%d", f.nextID)
	message.CreatedAt = ticket.CreatedAt
	stored := *ticket
	f.tickets[ticket.ID] = &stored
	return nil
}

func (f *fakeTicketRepo) GetByID(_ context.Context, id string) (*domain.Ticket, error) {
	ticket, ok := f.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *ticket
	return &copied, nil
}

func (f *fakeTicketRepo) GetWithRelations(_ context.Context, id string) (*domain.TicketWithRelations, error) {
	ticket, ok := f.relTickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *ticket
	return &copied, nil
}

func (f *fakeTicketRepo) List(_ context.Context, filter repository.TicketFilter) ([]domain.TicketWithRelations, int64, error) {
	f.lastFilter = &filter
	return f.listRows, f.listTotal, nil
}

func (f *fakeTicketRepo) Summary(_ context.Context, viewerID string, viewerAdmin bool) (domain.DashboardSummary, error) {
	f.lastSummaryViewer = viewerID
	f.lastSummaryAdmin = viewerAdmin
	return f.summary, nil
}

func (f *fakeTicketRepo) UpdateFields(_ context.Context, id string, update repository.TicketUpdate) (*domain.Ticket, error) {
	f.lastUpdate = &update
	ticket, ok := f.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	if update.Status != nil {
		ticket.Status = *update.Status
	}
	if update.Priority != nil {
		ticket.Priority = *update.Priority
	}
	if update.AssignedToUserID != nil {
		ticket.AssignedToUserID = update.AssignedToUserID
	}
	if update.DepartmentID != nil {
		ticket.DepartmentID = update.DepartmentID
	}
	if update.ProductID != nil {
		ticket.ProductID = update.ProductID
	}
	if update.CategoryID != nil {
		ticket.CategoryID = update.CategoryID
	}
	if update.ClearClosedAt {
		ticket.ClosedAt = nil
	} else if update.ClosedAt != nil {
		ticket.ClosedAt = update.ClosedAt
	}
	ticket.UpdatedAt = time.Now()
	copied := *ticket
	return &copied, nil
}

func (f *fakeTicketRepo) Close(_ context.Context, id string, at time.Time) (*domain.Ticket, error) {
	status := domain.TicketStatusClosed
	return f.UpdateFields(context.Background(), id, repository.TicketUpdate{Status: &status, ClosedAt: &at})
}

func (f *fakeTicketRepo) Touch(_ context.Context, id string) error {
	if _, ok := f.tickets[id]; !ok {
		return pgx.ErrNoRows
	}
	f.touched = append(f.touched, id)
	return nil
}

// fakeMessageRepo is an in-memory TicketMessageRepository.
type fakeMessageRepo struct {
	messages map[string]*domain.TicketMessage
	byTicket map[string][]domain.TicketMessage

	lastUpdate *repository.MessageUpdate
	nextID     int
}

func newFakeMessageRepo() *fakeMessageRepo {
	return &fakeMessageRepo{
		messages: map[string]*domain.TicketMessage{},
		byTicket: map[string][]domain.TicketMessage{},
	}
}

func (f *fakeMessageRepo) put(message *domain.TicketMessage) {
	f.messages[message.ID] = message
}

func (f *fakeMessageRepo) Create(_ context.Context, message *domain.TicketMessage) error {
	f.nextID++
	message.ID = fmt.Sprintf("message-%d", f.nextID)
	message.CreatedAt = time.Now()
	stored := *message
	f.messages[message.ID] = &stored
	f.byTicket[message.TicketID] = append(f.byTicket[message.TicketID], stored)
	return nil
}

func (f *fakeMessageRepo) ListByTicket(_ context.Context, ticketID string) ([]domain.TicketMessage, error) {
	return f.byTicket[ticketID], nil
}

func (f *fakeMessageRepo) GetByID(_ context.Context, id string) (*domain.TicketMessage, error) {
	message, ok := f.messages[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *message
	return &copied, nil
}

func (f *fakeMessageRepo) Update(_ context.Context, id string, update repository.MessageUpdate) (*domain.TicketMessage, error) {
	f.lastUpdate = &update
	message, ok := f.messages[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	if update.Content != nil {
		message.Content = *update.Content
	}
	if update.IsDone != nil {
		message.IsDone = *update.IsDone
		if *update.IsDone {
			now := time.Now()
			message.CompletedAt = &now
		} else {
			message.CompletedAt = nil
		}
	}
	if update.DueDate != nil {
		message.DueDate = update.DueDate
	}
	if update.Observation != nil {
		message.Observation = update.Observation
	}
	copied := *message
	return &copied, nil
}

// fakeProfileRepo is an in-memory ProfileRepository.
type fakeProfileRepo struct {
	profiles map[string]*domain.Profile
	active   []domain.Profile
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{profiles: map[string]*domain.Profile{}}
}

func (f *fakeProfileRepo) GetByID(_ context.Context, id string) (*domain.Profile, error) {
	profile, ok := f.profiles[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return profile, nil
}

func (f *fakeProfileRepo) ListActive(_ context.Context) ([]domain.Profile, error) {
	return f.active, nil
}

func (f *fakeProfileRepo) UpdatePreferredCategories(_ context.Context, id string, categoryIDs []string) (*domain.Profile, error) {
	profile, ok := f.profiles[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	profile.PreferredCategoryIDs = categoryIDs
	copied := *profile
	return &copied, nil
}

// fakeCatalogRepo is an in-memory CatalogRepository.
type fakeCatalogRepo struct {
	items    map[string]*domain.CatalogItem
	listed   []domain.CatalogItem
	contacts []domain.CompanyContact

	lastTable  domain.CatalogTable
	lastName   string
	lastActive bool
	nextID     int
}

func newFakeCatalogRepo() *fakeCatalogRepo {
	return &fakeCatalogRepo{items: map[string]*domain.CatalogItem{}}
}

func (f *fakeCatalogRepo) ListItems(_ context.Context, table domain.CatalogTable) ([]domain.CatalogItem, error) {
	f.lastTable = table
	return f.listed, nil
}

func (f *fakeCatalogRepo) ListContacts(_ context.Context) ([]domain.CompanyContact, error) {
	return f.contacts, nil
}

func (f *fakeCatalogRepo) CreateItem(_ context.Context, table domain.CatalogTable, name string, isActive bool) (*domain.CatalogItem, error) {
	f.lastTable = table
	f.lastName = name
	f.lastActive = isActive
	f.nextID++
	item := &domain.CatalogItem{ID: fmt.Sprintf("item-%d", f.nextID), Name: name, IsActive: isActive}
	f.items[item.ID] = item
	return item, nil
}

func (f *fakeCatalogRepo) UpdateItem(_ context.Context, table domain.CatalogTable, id string, update repository.CatalogUpdate) (*domain.CatalogItem, error) {
	f.lastTable = table
	item, ok := f.items[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	if update.Name != nil {
		item.Name = *update.Name
	}
	if update.IsActive != nil {
		item.IsActive = *update.IsActive
	}
	copied := *item
	return &copied, nil
}

// recordingDispatcher captures every published event.
type recordingDispatcher struct {
	published []events.Event
}

func (d *recordingDispatcher) Publish(_ context.Context, event events.Event) error {
	d.published = append(d.published, event)
	return nil
}

func (d *recordingDispatcher) Subscribe(_ events.EventType, _ events.EventHandler) {}
