package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lucasprado/library-server/internal/ledger"
	"github.com/lucasprado/library-server/internal/models"
	"github.com/lucasprado/library-server/internal/utils"
)

// Handler wires the HTTP routes to the lending ledger. It owns no business
// state: it parses requests, calls the ledger, and formats the results.
type Handler struct {
	svc          ledger.Service
	logger       *utils.Logger
	defaultLimit int
}

// NewHandler creates a new API handler
func NewHandler(svc ledger.Service, logger *utils.Logger, defaultLimit int) *Handler {
	return &Handler{
		svc:          svc,
		logger:       logger,
		defaultLimit: defaultLimit,
	}
}

// SetupRoutes registers all API routes on the router
func (h *Handler) SetupRoutes(router *gin.Engine) {
	api := router.Group("/api")
	{
		api.POST("/patrons", h.RegisterPatron)
		api.GET("/patrons/:cpf", h.GetPatron)
		api.GET("/patrons/:cpf/loans", h.GetPatronLoans)

		api.POST("/items", h.AddItem)
		api.PUT("/items/:id", h.UpdateItem)
		api.GET("/items", h.ListItems)
		api.GET("/items/:id", h.GetItem)

		api.POST("/loans", h.Borrow)
		api.POST("/loans/:id/return", h.Return)
		api.POST("/loans/:id/renew", h.Renew)
		api.GET("/loans/overdue", h.ListOverdue)

		api.GET("/penalties", h.ListPendingPenalties)
		api.POST("/penalties/:id/pay", h.PayPenalty)

		api.GET("/reports/most-borrowed", h.MostBorrowedItems)
		api.GET("/reports/top-borrowers", h.TopBorrowers)
		api.GET("/reports/revenue", h.Revenue)
	}
}

// RegisterPatron handles POST /api/patrons
func (h *Handler) RegisterPatron(c *gin.Context) {
	var req models.RegisterPatronRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	category, err := models.ParseCategory(req.Category)
	if err != nil {
		badRequest(c, err)
		return
	}

	patron, warnings, err := models.NewPatron(req.Name, req.CPF, req.Email, category)
	if err != nil {
		badRequest(c, err)
		return
	}
	h.logWarnings("patron "+req.CPF, warnings)

	if err := h.svc.RegisterPatron(patron); err != nil {
		h.businessError(c, err)
		return
	}

	resp := models.NewPatronResponse(patron)
	resp.Warnings = warnings
	c.JSON(http.StatusCreated, resp)
}

// GetPatron handles GET /api/patrons/:cpf
func (h *Handler) GetPatron(c *gin.Context) {
	patron, err := h.svc.GetPatron(c.Param("cpf"))
	if err != nil {
		h.businessError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.NewPatronResponse(patron))
}

// GetPatronLoans handles GET /api/patrons/:cpf/loans
func (h *Handler) GetPatronLoans(c *gin.Context) {
	loans, err := h.svc.PatronHistory(c.Param("cpf"))
	if err != nil {
		h.businessError(c, err)
		return
	}
	c.JSON(http.StatusOK, loanList(loans))
}

// AddItem handles POST /api/items
func (h *Handler) AddItem(c *gin.Context) {
	var req models.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	item, warnings, err := buildItem(req)
	if err != nil {
		badRequest(c, err)
		return
	}
	h.logWarnings("item "+item.Identifier(), warnings)

	if err := h.svc.AddItem(item); err != nil {
		h.businessError(c, err)
		return
	}

	resp := models.NewItemResponse(item)
	resp.Status = "success"
	resp.Warnings = warnings
	c.JSON(http.StatusCreated, resp)
}

// UpdateItem handles PUT /api/items/:id
func (h *Handler) UpdateItem(c *gin.Context) {
	var req models.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	item, warnings, err := buildItem(req)
	if err != nil {
		badRequest(c, err)
		return
	}
	h.logWarnings("item "+item.Identifier(), warnings)

	if err := h.svc.UpdateItem(c.Param("id"), item); err != nil {
		h.businessError(c, err)
		return
	}

	resp := models.NewItemResponse(item)
	resp.Status = "success"
	resp.Warnings = warnings
	c.JSON(http.StatusOK, resp)
}

// ListItems handles GET /api/items with an optional ?category= filter
func (h *Handler) ListItems(c *gin.Context) {
	var items []models.Item
	if tag := c.Query("category"); tag != "" {
		items = h.svc.ListItemsByCategory(tag)
	} else {
		items = h.svc.ListAllItems()
	}
	c.JSON(http.StatusOK, itemList(items))
}

// GetItem handles GET /api/items/:id
func (h *Handler) GetItem(c *gin.Context) {
	item, err := h.svc.GetItem(c.Param("id"))
	if err != nil {
		h.businessError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.NewItemResponse(item))
}

// Borrow handles POST /api/loans
func (h *Handler) Borrow(c *gin.Context) {
	var req models.BorrowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	loan, err := h.svc.PerformBorrow(req.PatronCPF, req.ItemID)
	if err != nil {
		h.businessError(c, err)
		return
	}

	resp := models.NewLoanResponse(loan)
	resp.Status = "success"
	c.JSON(http.StatusCreated, resp)
}

// Return handles POST /api/loans/:id/return
func (h *Handler) Return(c *gin.Context) {
	var req models.ReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	returnDate, err := time.Parse(models.DateLayout, req.ReturnDate)
	if err != nil {
		badRequest(c, err)
		return
	}

	loanID := c.Param("id")
	penalty, err := h.svc.ReturnBorrow(loanID, returnDate)
	if err != nil {
		h.businessError(c, err)
		return
	}

	resp := models.ReturnResponse{
		Status:     "success",
		LoanID:     loanID,
		ReturnDate: returnDate.Format(models.DateLayout),
	}
	if penalty != nil {
		p := models.NewPenaltyResponse(penalty)
		resp.Penalty = &p
	}
	c.JSON(http.StatusOK, resp)
}

// Renew handles POST /api/loans/:id/renew
func (h *Handler) Renew(c *gin.Context) {
	loanID := c.Param("id")
	newDue, err := h.svc.RenewBorrow(loanID)
	if err != nil {
		h.businessError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.RenewResponse{
		Status:     "success",
		LoanID:     loanID,
		NewDueDate: newDue.Format(models.DateLayout),
	})
}

// ListOverdue handles GET /api/loans/overdue
func (h *Handler) ListOverdue(c *gin.Context) {
	c.JSON(http.StatusOK, loanList(h.svc.OverdueLoans()))
}

// ListPendingPenalties handles GET /api/penalties
func (h *Handler) ListPendingPenalties(c *gin.Context) {
	penalties := h.svc.PendingPenalties()
	resp := models.PenaltyListResponse{
		Status:    "success",
		Penalties: make([]models.PenaltyResponse, 0, len(penalties)),
	}
	for _, p := range penalties {
		resp.Penalties = append(resp.Penalties, models.NewPenaltyResponse(p))
	}
	c.JSON(http.StatusOK, resp)
}

// PayPenalty handles POST /api/penalties/:id/pay
func (h *Handler) PayPenalty(c *gin.Context) {
	if err := h.svc.PayPenalty(c.Param("id")); err != nil {
		h.businessError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

// MostBorrowedItems handles GET /api/reports/most-borrowed
func (h *Handler) MostBorrowedItems(c *gin.Context) {
	c.JSON(http.StatusOK, itemList(h.svc.MostBorrowedItems(h.limit(c))))
}

// TopBorrowers handles GET /api/reports/top-borrowers
func (h *Handler) TopBorrowers(c *gin.Context) {
	patrons := h.svc.UsersWithMostBorrows(h.limit(c))
	resp := models.PatronListResponse{
		Status:  "success",
		Patrons: make([]models.PatronResponse, 0, len(patrons)),
	}
	for _, p := range patrons {
		resp.Patrons = append(resp.Patrons, models.NewPatronResponse(p))
	}
	c.JSON(http.StatusOK, resp)
}

// Revenue handles GET /api/reports/revenue
func (h *Handler) Revenue(c *gin.Context) {
	c.JSON(http.StatusOK, models.RevenueResponse{
		Status:       "success",
		TotalRevenue: h.svc.TotalPenaltyRevenue(),
	})
}

// Helpers

// buildItem constructs the right item variant from a request body.
func buildItem(req models.AddItemRequest) (models.Item, []string, error) {
	switch models.ItemKind(req.Kind) {
	case models.ItemKindBook:
		return models.NewBook(req.Title, req.Author, req.PublicationYear, req.ISBN)
	case models.ItemKindMagazine:
		return models.NewMagazine(req.Title, req.Author, req.PublicationYear, req.ISSN, req.EditionNumber)
	default:
		return models.NewDvd(req.Title, req.Author, req.PublicationYear)
	}
}

func (h *Handler) limit(c *gin.Context) int {
	if raw := c.Query("limit"); raw != "" {
		if limit, err := strconv.Atoi(raw); err == nil {
			return limit
		}
	}
	return h.defaultLimit
}

func (h *Handler) logWarnings(subject string, warnings []string) {
	for _, w := range warnings {
		h.logger.Warn("%s: %s", subject, w)
	}
}

func itemList(items []models.Item) models.ItemListResponse {
	resp := models.ItemListResponse{
		Status: "success",
		Items:  make([]models.ItemResponse, 0, len(items)),
	}
	for _, it := range items {
		resp.Items = append(resp.Items, models.NewItemResponse(it))
	}
	return resp
}

func loanList(loans []*models.Loan) models.LoanListResponse {
	resp := models.LoanListResponse{
		Status: "success",
		Loans:  make([]models.LoanResponse, 0, len(loans)),
	}
	for _, l := range loans {
		resp.Loans = append(resp.Loans, models.NewLoanResponse(l))
	}
	return resp
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Status:  "error",
		Code:    "INVALID_REQUEST",
		Message: err.Error(),
	})
}

// businessError maps ledger sentinels onto HTTP status codes.
func (h *Handler) businessError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	code := "INTERNAL_ERROR"

	switch {
	case errors.Is(err, ledger.ErrPatronNotFound):
		status, code = http.StatusNotFound, "PATRON_NOT_FOUND"
	case errors.Is(err, ledger.ErrItemNotFound):
		status, code = http.StatusNotFound, "ITEM_NOT_FOUND"
	case errors.Is(err, ledger.ErrLoanNotFound):
		status, code = http.StatusNotFound, "LOAN_NOT_FOUND"
	case errors.Is(err, ledger.ErrPenaltyNotFound):
		status, code = http.StatusNotFound, "PENALTY_NOT_FOUND"
	case errors.Is(err, ledger.ErrPatronExists):
		status, code = http.StatusConflict, "PATRON_EXISTS"
	case errors.Is(err, ledger.ErrItemExists):
		status, code = http.StatusConflict, "ITEM_EXISTS"
	case errors.Is(err, ledger.ErrItemUnavailable):
		status, code = http.StatusUnprocessableEntity, "ITEM_UNAVAILABLE"
	case errors.Is(err, ledger.ErrPatronBlocked):
		status, code = http.StatusUnprocessableEntity, "PATRON_BLOCKED"
	case errors.Is(err, ledger.ErrLoanLimitReached):
		status, code = http.StatusUnprocessableEntity, "LOAN_LIMIT_REACHED"
	case errors.Is(err, ledger.ErrLoanAlreadyReturned):
		status, code = http.StatusUnprocessableEntity, "LOAN_ALREADY_RETURNED"
	case errors.Is(err, ledger.ErrLoanAlreadyRenewed):
		status, code = http.StatusUnprocessableEntity, "LOAN_ALREADY_RENEWED"
	case errors.Is(err, ledger.ErrLoanOverdue):
		status, code = http.StatusUnprocessableEntity, "LOAN_OVERDUE"
	case errors.Is(err, ledger.ErrIdentifierMismatch):
		status, code = http.StatusUnprocessableEntity, "IDENTIFIER_MISMATCH"
	default:
		h.logger.Error("unexpected error: %v", err)
	}

	c.JSON(status, models.ErrorResponse{
		Status:  "error",
		Code:    code,
		Message: err.Error(),
	})
}
