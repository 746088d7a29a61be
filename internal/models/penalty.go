package models

import (
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Penalty is a monetary charge derived from a late loan. Only the paid
// flag ever changes.
type Penalty struct {
	id     string
	loan   *Loan
	amount decimal.Decimal
	paid   bool
}

// NewPenalty builds an unpaid penalty with a generated unique identifier.
func NewPenalty(loan *Loan, amount decimal.Decimal) (*Penalty, error) {
	if loan == nil {
		return nil, errors.New("penalty must reference a loan")
	}
	if amount.IsNegative() {
		return nil, errors.New("penalty amount cannot be negative")
	}
	return &Penalty{
		id:     uuid.New().String(),
		loan:   loan,
		amount: amount,
	}, nil
}

func (p *Penalty) ID() string { return p.id }
func (p *Penalty) Loan() *Loan { return p.loan }
func (p *Penalty) Amount() decimal.Decimal { return p.amount }
func (p *Penalty) Paid() bool { return p.paid }

// MarkPaid settles the penalty. Payment is terminal.
func (p *Penalty) MarkPaid() { p.paid = true }
