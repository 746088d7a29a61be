package models

import "github.com/shopspring/decimal"

// Request models
type RegisterPatronRequest struct {
	Name     string `json:"name" binding:"required"`
	CPF      string `json:"cpf" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Category string `json:"category" binding:"required,oneof=student professor employee staff"`
}

type AddItemRequest struct {
	Kind            string `json:"kind" binding:"required,oneof=book magazine dvd"`
	Title           string `json:"title" binding:"required"`
	Author          string `json:"author" binding:"required"` // author, editor or director
	PublicationYear int    `json:"publicationYear" binding:"required,gt=0"`
	ISBN            string `json:"isbn,omitempty"`
	ISSN            string `json:"issn,omitempty"`
	EditionNumber   int    `json:"editionNumber,omitempty"`
}

type BorrowRequest struct {
	PatronCPF string `json:"patronCpf" binding:"required"`
	ItemID    string `json:"itemId" binding:"required"`
}

type ReturnRequest struct {
	ReturnDate string `json:"returnDate" binding:"required"` // YYYY-MM-DD
}

// Response models
type PatronResponse struct {
	Status   string   `json:"status"`
	Name     string   `json:"name"`
	CPF      string   `json:"cpf"`
	Email    string   `json:"email"`
	Category string   `json:"category"`
	Blocked  bool     `json:"blocked"`
	Discount float64  `json:"discount"`
	Loans    int      `json:"loans"`
	Warnings []string `json:"warnings,omitempty"`
}

type ItemResponse struct {
	Status          string   `json:"status,omitempty"`
	Kind            string   `json:"kind"`
	ID              string   `json:"id"`
	Title           string   `json:"title"`
	Author          string   `json:"author"`
	PublicationYear int      `json:"publicationYear"`
	Available       bool     `json:"available"`
	BorrowCount     int      `json:"borrowCount"`
	LoanPeriodDays  int      `json:"loanPeriodDays"`
	EditionNumber   int      `json:"editionNumber,omitempty"`
	Warnings        []string `json:"warnings,omitempty"`
}

type ItemListResponse struct {
	Status string         `json:"status"`
	Items  []ItemResponse `json:"items"`
}

type LoanResponse struct {
	Status     string `json:"status,omitempty"`
	LoanID     string `json:"loanId"`
	PatronCPF  string `json:"patronCpf"`
	ItemID     string `json:"itemId"`
	ItemTitle  string `json:"itemTitle"`
	BorrowDate string `json:"borrowDate"`
	DueDate    string `json:"dueDate"`
	ReturnDate string `json:"returnDate,omitempty"`
	Renewed    bool   `json:"renewed"`
}

type LoanListResponse struct {
	Status string         `json:"status"`
	Loans  []LoanResponse `json:"loans"`
}

type PenaltyResponse struct {
	PenaltyID string          `json:"penaltyId"`
	LoanID    string          `json:"loanId"`
	PatronCPF string          `json:"patronCpf"`
	Amount    decimal.Decimal `json:"amount"`
	Paid      bool            `json:"paid"`
}

type PenaltyListResponse struct {
	Status    string            `json:"status"`
	Penalties []PenaltyResponse `json:"penalties"`
}

type ReturnResponse struct {
	Status     string           `json:"status"`
	LoanID     string           `json:"loanId"`
	ReturnDate string           `json:"returnDate"`
	Penalty    *PenaltyResponse `json:"penalty,omitempty"`
}

type RenewResponse struct {
	Status     string `json:"status"`
	LoanID     string `json:"loanId"`
	NewDueDate string `json:"newDueDate"`
}

type PatronListResponse struct {
	Status  string           `json:"status"`
	Patrons []PatronResponse `json:"patrons"`
}

type RevenueResponse struct {
	Status       string          `json:"status"`
	TotalRevenue decimal.Decimal `json:"totalRevenue"`
}

type ErrorResponse struct {
	Status  string `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewPatronResponse flattens a patron for the API.
func NewPatronResponse(p *Patron) PatronResponse {
	return PatronResponse{
		Status:   "success",
		Name:     p.Name(),
		CPF:      p.CPF(),
		Email:    p.Email(),
		Category: string(p.Category()),
		Blocked:  p.Blocked(),
		Discount: p.Discount(),
		Loans:    len(p.History()),
	}
}

// NewItemResponse flattens an item for the API.
func NewItemResponse(it Item) ItemResponse {
	resp := ItemResponse{
		Kind:            string(it.Kind()),
		ID:              it.Identifier(),
		Title:           it.Title(),
		Author:          it.Author(),
		PublicationYear: it.PublicationYear(),
		Available:       it.Available(),
		BorrowCount:     it.BorrowCount(),
		LoanPeriodDays:  it.LoanPeriodDays(),
	}
	if mag, ok := it.(*Magazine); ok {
		resp.EditionNumber = mag.EditionNumber()
	}
	return resp
}

// NewLoanResponse flattens a loan for the API.
func NewLoanResponse(l *Loan) LoanResponse {
	resp := LoanResponse{
		LoanID:     l.ID(),
		PatronCPF:  l.Patron().CPF(),
		ItemID:     l.Item().Identifier(),
		ItemTitle:  l.Item().Title(),
		BorrowDate: l.BorrowDate().Format(DateLayout),
		DueDate:    l.DueDate().Format(DateLayout),
		Renewed:    l.Renewed(),
	}
	if rd := l.ReturnDate(); rd != nil {
		resp.ReturnDate = rd.Format(DateLayout)
	}
	return resp
}

// NewPenaltyResponse flattens a penalty for the API.
func NewPenaltyResponse(p *Penalty) PenaltyResponse {
	return PenaltyResponse{
		PenaltyID: p.ID(),
		LoanID:    p.Loan().ID(),
		PatronCPF: p.Loan().Patron().CPF(),
		Amount:    p.Amount(),
		Paid:      p.Paid(),
	}
}
