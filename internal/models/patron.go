package models

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/shopspring/decimal"
)

// Category is the policy bundle attached to a patron: how many items they
// may hold at once, how long a loan runs, and what a late day costs them.
type Category string

const (
	CategoryStudent   Category = "student"
	CategoryProfessor Category = "professor"
	CategoryEmployee  Category = "employee"
	// CategoryStaff covers librarians and other non-borrowing staff.
	CategoryStaff Category = "staff"
)

var (
	rateStudent   = decimal.RequireFromString("0.50")
	rateProfessor = decimal.RequireFromString("0.25")
	rateEmployee  = decimal.RequireFromString("0.30")
)

// CategoryPolicy carries the per-category lending parameters.
type CategoryPolicy struct {
	MaxLoans         int
	LoanPeriodDays   int
	DailyPenaltyRate decimal.Decimal
	Discount         float64
}

// ParseCategory maps a request string onto the closed category set.
func ParseCategory(s string) (Category, error) {
	switch Category(s) {
	case CategoryStudent, CategoryProfessor, CategoryEmployee, CategoryStaff:
		return Category(s), nil
	}
	return "", fmt.Errorf("unknown patron category %q", s)
}

// Policy returns the lending parameters for the category.
func (c Category) Policy() CategoryPolicy {
	switch c {
	case CategoryStudent:
		return CategoryPolicy{MaxLoans: 5, LoanPeriodDays: 15, DailyPenaltyRate: rateStudent, Discount: 0.10}
	case CategoryProfessor:
		return CategoryPolicy{MaxLoans: 10, LoanPeriodDays: 30, DailyPenaltyRate: rateProfessor, Discount: 0.05}
	case CategoryEmployee:
		return CategoryPolicy{MaxLoans: 7, LoanPeriodDays: 20, DailyPenaltyRate: rateEmployee, Discount: 0}
	default:
		// Staff holds no loans and owes no penalties.
		return CategoryPolicy{DailyPenaltyRate: decimal.Zero}
	}
}

var (
	cpfPattern   = regexp.MustCompile(`^[0-9]{11}$`)
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,6}$`)
)

// Patron is a registered person, keyed by CPF (the national ID). The
// blocked flag tracks whether the patron has an unpaid penalty.
type Patron struct {
	name     string
	cpf      string
	email    string
	category Category
	blocked  bool
	history  []*Loan
}

// NewPatron validates and builds a patron. Malformed but non-empty CPF and
// email values are accepted and reported back as warnings.
func NewPatron(name, cpf, email string, category Category) (*Patron, []string, error) {
	if name == "" {
		return nil, nil, errors.New("name cannot be empty")
	}
	if cpf == "" {
		return nil, nil, errors.New("cpf cannot be empty")
	}
	if email == "" {
		return nil, nil, errors.New("email cannot be empty")
	}
	if _, err := ParseCategory(string(category)); err != nil {
		return nil, nil, err
	}
	var warnings []string
	if !cpfPattern.MatchString(cpf) {
		warnings = append(warnings, fmt.Sprintf("cpf %q should be 11 digits", cpf))
	}
	if !emailPattern.MatchString(email) {
		warnings = append(warnings, fmt.Sprintf("email %q does not look like a valid address", email))
	}
	return &Patron{name: name, cpf: cpf, email: email, category: category}, warnings, nil
}

func (p *Patron) Name() string { return p.name }
func (p *Patron) CPF() string { return p.cpf }
func (p *Patron) Email() string { return p.email }
func (p *Patron) Category() Category { return p.category }
func (p *Patron) Blocked() bool { return p.blocked }

// SetBlocked toggles the derived blocking flag. Only the ledger calls this,
// on penalty creation and on payment of the last pending penalty.
func (p *Patron) SetBlocked(blocked bool) { p.blocked = blocked }

// History returns the patron's loans in the order they were taken out.
func (p *Patron) History() []*Loan {
	out := make([]*Loan, len(p.history))
	copy(out, p.history)
	return out
}

// AddLoanToHistory appends a loan to the patron's personal history. The
// loan is shared by reference with the ledger's registries.
func (p *Patron) AddLoanToHistory(loan *Loan) {
	if loan != nil {
		p.history = append(p.history, loan)
	}
}

// Discount is the category's flat discount rate. It is a pure reporting
// value and feeds into no fee computation.
func (p *Patron) Discount() float64 {
	return p.category.Policy().Discount
}

// CalculatePenalty computes the charge for a returned loan: whole calendar
// days past the due date times the category's daily rate. Loans still out,
// on-time returns and staff patrons all yield zero.
func (p *Patron) CalculatePenalty(loan *Loan) decimal.Decimal {
	if p.category == CategoryStaff {
		return decimal.Zero
	}
	if loan == nil || loan.ReturnDate() == nil {
		return decimal.Zero
	}
	overdueDays := daysBetween(loan.DueDate(), *loan.ReturnDate())
	if overdueDays <= 0 {
		return decimal.Zero
	}
	return p.category.Policy().DailyPenaltyRate.Mul(decimal.NewFromInt(overdueDays))
}
