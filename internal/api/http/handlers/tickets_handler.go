package handlers

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/staffdesk/helpdesk-api/internal/api/dto"
	"github.com/staffdesk/helpdesk-api/internal/auth"
	"github.com/staffdesk/helpdesk-api/internal/domain"
	"github.com/staffdesk/helpdesk-api/internal/repository"
	"github.com/staffdesk/helpdesk-api/internal/service"
	apperrors "github.com/staffdesk/helpdesk-api/pkg/util"
)

// TicketsHandler exposes ticket endpoints.
type TicketsHandler struct {
	queries   *service.TicketQueryService
	mutations *service.TicketMutationService
}

// NewTicketsHandler constructs the handler.
func NewTicketsHandler(queries *service.TicketQueryService, mutations *service.TicketMutationService) *TicketsHandler {
	return &TicketsHandler{queries: queries, mutations: mutations}
}

// List GET /tickets.
func (h *TicketsHandler) List(c *fiber.Ctx) error {
	user, ok := auth.CurrentUser(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	input, err := parseTicketListQuery(c)
	if err != nil {
		return err
	}
	result, err := h.queries.List(c.UserContext(), *input, user)
	if err != nil {
		return err
	}
	return c.JSON(dto.TicketListResponse{
		Data:     ticketResponses(result.Data),
		Page:     result.Page,
		PageSize: result.PageSize,
		Total:    result.Total,
	})
}

// Summary GET /tickets/summary.
func (h *TicketsHandler) Summary(c *fiber.Ctx) error {
	user, ok := auth.CurrentUser(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	summary, err := h.queries.Summary(c.UserContext(), user)
	if err != nil {
		return err
	}
	return c.JSON(summary)
}

// QueuePreview GET /tickets/queue-preview.
func (h *TicketsHandler) QueuePreview(c *fiber.Ctx) error {
	user, ok := auth.CurrentUser(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	rows, err := h.queries.QueuePreview(c.UserContext(), user)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponses(rows)})
}

// Detail GET /tickets/:id.
func (h *TicketsHandler) Detail(c *fiber.Ctx) error {
	user, ok := auth.CurrentUser(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	id, err := requireUUIDParam(c, "id")
	if err != nil {
		return err
	}
	detail, err := h.queries.Detail(c.UserContext(), id, user)
	if err != nil {
		return err
	}
	messages := make([]dto.TicketMessageResponse, 0, len(detail.Messages))
	for i := range detail.Messages {
		messages = append(messages, messageResponse(&detail.Messages[i]))
	}
	return c.JSON(dto.TicketDetailResponse{
		Ticket:       ticketResponse(&detail.Ticket),
		Messages:     messages,
		PriorityRank: detail.PriorityRank,
	})
}

// Create POST /tickets.
func (h *TicketsHandler) Create(c *fiber.Ctx) error {
	user, ok := auth.CurrentUser(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := validateCreateTicket(&req); err != nil {
		return err
	}
	ticket, err := h.mutations.Create(c.UserContext(), service.TicketCreateInput{
		Title:                req.Title,
		Description:          req.Description,
		Status:               req.Status,
		Priority:             req.Priority,
		DepartmentID:         req.DepartmentID,
		ProductID:            req.ProductID,
		CategoryID:           req.CategoryID,
		CompanyID:            req.CompanyID,
		RequestedByContactID: req.RequestedByContactID,
		RequestedByEmail:     req.RequestedByEmail,
	}, user)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(bareTicketResponse(ticket))
}

// AddMessage POST /tickets/:id/messages.
func (h *TicketsHandler) AddMessage(c *fiber.Ctx) error {
	user, ok := auth.CurrentUser(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	id, err := requireUUIDParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.AddTicketMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.Content) == "" {
		return apperrors.NewValidationError("content required", nil)
	}
	message, err := h.mutations.AddMessage(c.UserContext(), id, service.MessageCreateInput{
		Content:    req.Content,
		IsInternal: req.IsInternal,
	}, user)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(messageResponse(message))
}

// UpdateMessage PATCH /tickets/:id/messages/:messageId.
func (h *TicketsHandler) UpdateMessage(c *fiber.Ctx) error {
	user, ok := auth.CurrentUser(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	id, err := requireUUIDParam(c, "id")
	if err != nil {
		return err
	}
	messageID, err := requireUUIDParam(c, "messageId")
	if err != nil {
		return err
	}
	var req dto.UpdateTicketMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	input := service.MessageUpdateInput{
		Content:     req.Content,
		IsDone:      req.IsDone,
		Observation: req.Observation,
	}
	if req.Content != nil && strings.TrimSpace(*req.Content) == "" {
		return apperrors.NewValidationError("content must not be empty", nil)
	}
	if req.DueDate != nil {
		due, err := time.Parse(time.RFC3339, *req.DueDate)
		if err != nil {
			return apperrors.NewValidationError("due_date must be an RFC3339 timestamp", nil)
		}
		input.DueDate = &due
	}
	message, err := h.mutations.UpdateMessage(c.UserContext(), id, messageID, input, user)
	if err != nil {
		return err
	}
	return c.JSON(messageResponse(message))
}

// Update PATCH /tickets/:id.
func (h *TicketsHandler) Update(c *fiber.Ctx) error {
	user, ok := auth.CurrentUser(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	id, err := requireUUIDParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.UpdateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := validateUpdateTicket(&req); err != nil {
		return err
	}
	ticket, err := h.mutations.Update(c.UserContext(), id, service.TicketUpdateInput{
		Status:           req.Status,
		Priority:         req.Priority,
		AssignedToUserID: req.AssignedToUserID,
		DepartmentID:     req.DepartmentID,
		ProductID:        req.ProductID,
		CategoryID:       req.CategoryID,
	}, user)
	if err != nil {
		return err
	}
	return c.JSON(bareTicketResponse(ticket))
}

// AssignToMe POST /tickets/:id/assign-to-me.
func (h *TicketsHandler) AssignToMe(c *fiber.Ctx) error {
	user, ok := auth.CurrentUser(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	id, err := requireUUIDParam(c, "id")
	if err != nil {
		return err
	}
	ticket, err := h.mutations.AssignToMe(c.UserContext(), id, user)
	if err != nil {
		return err
	}
	return c.JSON(bareTicketResponse(ticket))
}

// Close POST /tickets/:id/close.
func (h *TicketsHandler) Close(c *fiber.Ctx) error {
	user, ok := auth.CurrentUser(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	id, err := requireUUIDParam(c, "id")
	if err != nil {
		return err
	}
	ticket, err := h.mutations.Close(c.UserContext(), id, user)
	if err != nil {
		return err
	}
	return c.JSON(bareTicketResponse(ticket))
}

func parseTicketListQuery(c *fiber.Ctx) (*service.TicketListInput, error) {
	input := service.TicketListInput{Page: 1, PageSize: 20}

	if tab := c.Query("tab"); tab != "" {
		input.Tab = repository.TicketTab(tab)
		if !input.Tab.Valid() {
			return nil, apperrors.NewValidationError("tab must be one of queue, my, all", nil)
		}
	}
	if raw := c.Query("status"); raw != "" {
		status := domain.TicketStatus(raw)
		if !status.Valid() {
			return nil, apperrors.NewValidationError("invalid status", nil)
		}
		input.Status = &status
	}
	if raw := c.Query("priority"); raw != "" {
		priority := domain.TicketPriority(raw)
		if !priority.Valid() {
			return nil, apperrors.NewValidationError("invalid priority", nil)
		}
		input.Priority = &priority
	}
	var err error
	if input.DepartmentID, err = optionalUUIDQuery(c, "departmentId"); err != nil {
		return nil, err
	}
	if input.ProductID, err = optionalUUIDQuery(c, "productId"); err != nil {
		return nil, err
	}
	if input.CategoryID, err = optionalUUIDQuery(c, "categoryId"); err != nil {
		return nil, err
	}
	if input.AssignedToUserID, err = optionalUUIDQuery(c, "assignedToUserId"); err != nil {
		return nil, err
	}
	if search := c.Query("search"); search != "" {
		input.Search = &search
	}
	if raw := c.Query("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			return nil, apperrors.NewValidationError("page must be an integer >= 1", nil)
		}
		input.Page = page
	}
	if raw := c.Query("pageSize"); raw != "" {
		pageSize, err := strconv.Atoi(raw)
		if err != nil || pageSize < 1 || pageSize > 100 {
			return nil, apperrors.NewValidationError("pageSize must be between 1 and 100", nil)
		}
		input.PageSize = pageSize
	}
	return &input, nil
}

func validateCreateTicket(req *dto.CreateTicketRequest) error {
	if len(strings.TrimSpace(req.Title)) < 3 {
		return apperrors.NewValidationError("title must be at least 3 characters", nil)
	}
	if len(strings.TrimSpace(req.Description)) < 3 {
		return apperrors.NewValidationError("description must be at least 3 characters", nil)
	}
	if req.Status != nil && !req.Status.Valid() {
		return apperrors.NewValidationError("invalid status", nil)
	}
	if req.Priority != nil && !req.Priority.Valid() {
		return apperrors.NewValidationError("invalid priority", nil)
	}
	for field, value := range map[string]*string{
		"department_id":           req.DepartmentID,
		"product_id":              req.ProductID,
		"category_id":             req.CategoryID,
		"company_id":              req.CompanyID,
		"requested_by_contact_id": req.RequestedByContactID,
	} {
		if err := validateOptionalUUID(field, value); err != nil {
			return err
		}
	}
	return nil
}

func validateUpdateTicket(req *dto.UpdateTicketRequest) error {
	if req.Status != nil && !req.Status.Valid() {
		return apperrors.NewValidationError("invalid status", nil)
	}
	if req.Priority != nil && !req.Priority.Valid() {
		return apperrors.NewValidationError("invalid priority", nil)
	}
	for field, value := range map[string]*string{
		"assigned_to_user_id": req.AssignedToUserID,
		"department_id":       req.DepartmentID,
		"product_id":          req.ProductID,
		"category_id":         req.CategoryID,
	} {
		if err := validateOptionalUUID(field, value); err != nil {
			return err
		}
	}
	return nil
}

func validateOptionalUUID(field string, value *string) error {
	if value == nil {
		return nil
	}
	if _, err := uuid.Parse(*value); err != nil {
		return apperrors.NewValidationError(field+" must be a UUID", nil)
	}
	return nil
}

func optionalUUIDQuery(c *fiber.Ctx, name string) (*string, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	if _, err := uuid.Parse(raw); err != nil {
		return nil, apperrors.NewValidationError(name+" must be a UUID", nil)
	}
	return &raw, nil
}

func requireUUIDParam(c *fiber.Ctx, name string) (string, error) {
	raw := c.Params(name)
	if _, err := uuid.Parse(raw); err != nil {
		return "", apperrors.NewValidationError(name+" must be a UUID", nil)
	}
	return raw, nil
}

func ticketResponses(tickets []domain.TicketWithRelations) []dto.TicketResponse {
	result := make([]dto.TicketResponse, 0, len(tickets))
	for i := range tickets {
		result = append(result, ticketResponse(&tickets[i]))
	}
	return result
}

func ticketResponse(ticket *domain.TicketWithRelations) dto.TicketResponse {
	resp := bareTicketResponse(&ticket.Ticket)
	resp.Company = ticket.Company
	resp.Department = ticket.Department
	resp.Product = ticket.Product
	resp.Category = ticket.Category
	resp.Assignee = ticket.Assignee
	resp.Creator = ticket.Creator
	resp.RequestedByContact = ticket.RequestedByContact
	return resp
}

func bareTicketResponse(ticket *domain.Ticket) dto.TicketResponse {
	return dto.TicketResponse{
		ID:                   ticket.ID,
		CompanyID:            ticket.CompanyID,
		DepartmentID:         ticket.DepartmentID,
		ProductID:            ticket.ProductID,
		CategoryID:           ticket.CategoryID,
		Title:                ticket.Title,
		Description:          ticket.Description,
		Status:               ticket.Status,
		Priority:             ticket.Priority,
		CreatedByUserID:      ticket.CreatedByUserID,
		RequestedByContactID: ticket.RequestedByContactID,
		RequestedByEmail:     ticket.RequestedByEmail,
		AssignedToUserID:     ticket.AssignedToUserID,
		CreatedAt:            ticket.CreatedAt,
		UpdatedAt:            ticket.UpdatedAt,
		ClosedAt:             ticket.ClosedAt,
	}
}

func messageResponse(message *domain.TicketMessage) dto.TicketMessageResponse {
	return dto.TicketMessageResponse{
		ID:           message.ID,
		TicketID:     message.TicketID,
		AuthorUserID: message.AuthorUserID,
		IsInternal:   message.IsInternal,
		Content:      message.Content,
		IsDone:       message.IsDone,
		CompletedAt:  message.CompletedAt,
		DueDate:      message.DueDate,
		Observation:  message.Observation,
		CreatedAt:    message.CreatedAt,
	}
}
