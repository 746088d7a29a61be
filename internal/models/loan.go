package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// DateLayout is the wire format for all dates crossing the API boundary.
const DateLayout = "2006-01-02"

// daysBetween counts whole calendar days from one date to another.
func daysBetween(from, to time.Time) int64 {
	return int64(to.Sub(from) / (24 * time.Hour))
}

// Loan binds one patron to one item for an interval. The identifier,
// parties and borrow date are fixed at creation; only the due date,
// return date and renewed flag ever change, each through a guarded mutator.
type Loan struct {
	id         string
	patron     *Patron
	item       Item
	borrowDate time.Time
	dueDate    time.Time
	returnDate *time.Time
	renewed    bool
}

// NewLoan builds an active loan with a generated unique identifier.
func NewLoan(patron *Patron, item Item, borrowDate, dueDate time.Time) (*Loan, error) {
	if patron == nil {
		return nil, errors.New("loan patron cannot be nil")
	}
	if item == nil {
		return nil, errors.New("loan item cannot be nil")
	}
	if borrowDate.After(dueDate) {
		return nil, errors.New("borrow date cannot be after the due date")
	}
	return &Loan{
		id:         uuid.New().String(),
		patron:     patron,
		item:       item,
		borrowDate: borrowDate,
		dueDate:    dueDate,
	}, nil
}

func (l *Loan) ID() string { return l.id }
func (l *Loan) Patron() *Patron { return l.patron }
func (l *Loan) Item() Item { return l.item }
func (l *Loan) BorrowDate() time.Time { return l.borrowDate }
func (l *Loan) DueDate() time.Time { return l.dueDate }
func (l *Loan) Renewed() bool { return l.renewed }

// ReturnDate is nil while the loan is active.
func (l *Loan) ReturnDate() *time.Time {
	if l.returnDate == nil {
		return nil
	}
	d := *l.returnDate
	return &d
}

// ExtendDueDate moves the due date forward. It rejects any date earlier
// than the current due date.
func (l *Loan) ExtendDueDate(newDue time.Time) error {
	if newDue.Before(l.dueDate) {
		return errors.New("due date can only move forward")
	}
	l.dueDate = newDue
	return nil
}

// SetReturnDate closes the loan. A return date, once set, is final.
func (l *Loan) SetReturnDate(returnDate time.Time) error {
	if l.returnDate != nil {
		return errors.New("loan already returned")
	}
	l.returnDate = &returnDate
	return nil
}

// MarkRenewed records that the loan's single renewal has been used.
func (l *Loan) MarkRenewed() { l.renewed = true }
