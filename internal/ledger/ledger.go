package ledger

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/lucasprado/library-server/internal/models"
	"github.com/lucasprado/library-server/internal/registry"
)

// Service defines all the business logic operations of the lending ledger
type Service interface {
	// Patron operations
	RegisterPatron(p *models.Patron) error
	GetPatron(cpf string) (*models.Patron, error)
	PatronHistory(cpf string) ([]*models.Loan, error)

	// Catalog operations
	AddItem(it models.Item) error
	UpdateItem(id string, replacement models.Item) error
	GetItem(id string) (models.Item, error)

	// Lending operations
	PerformBorrow(cpf, itemID string) (*models.Loan, error)
	ReturnBorrow(loanID string, returnDate time.Time) (*models.Penalty, error)
	RenewBorrow(loanID string) (time.Time, error)
	PayPenalty(penaltyID string) error

	// Reporting queries
	ListAllItems() []models.Item
	ListItemsByCategory(tag string) []models.Item
	MostBorrowedItems(limit int) []models.Item
	UsersWithMostBorrows(limit int) []*models.Patron
	OverdueLoans() []*models.Loan
	PendingPenalties() []*models.Penalty
	TotalPenaltyRevenue() decimal.Decimal
}

// LendingLedger implements the Service interface over an in-memory
// registry. A single RWMutex serialises writers; reporting queries share a
// read lock, so no caller ever observes a loan or penalty mid-transition.
type LendingLedger struct {
	mu  sync.RWMutex
	reg *registry.Registry
	now func() time.Time
}

// Option configures a LendingLedger.
type Option func(*LendingLedger)

// WithClock replaces the wall clock used to resolve "today" in borrow,
// renewal and overdue decisions.
func WithClock(now func() time.Time) Option {
	return func(l *LendingLedger) {
		l.now = now
	}
}

// NewLendingLedger creates a ledger over the given registry.
func NewLendingLedger(reg *registry.Registry, opts ...Option) *LendingLedger {
	l := &LendingLedger{
		reg: reg,
		now: time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// today truncates the clock to a calendar date in UTC.
func (l *LendingLedger) today() time.Time {
	y, m, d := l.now().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Patron operations

// RegisterPatron inserts a patron, rejecting a duplicate CPF.
func (l *LendingLedger) RegisterPatron(p *models.Patron) error {
	if p == nil {
		return errors.New("patron cannot be nil")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.reg.AddPatron(p) {
		return fmt.Errorf("registering patron %q: %w", p.CPF(), ErrPatronExists)
	}
	return nil
}

// GetPatron looks a patron up by CPF.
func (l *LendingLedger) GetPatron(cpf string) (*models.Patron, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	p := l.reg.Patron(cpf)
	if p == nil {
		return nil, ErrPatronNotFound
	}
	return p, nil
}

// PatronHistory returns a patron's loans in the order they were taken out.
func (l *LendingLedger) PatronHistory(cpf string) ([]*models.Loan, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	p := l.reg.Patron(cpf)
	if p == nil {
		return nil, ErrPatronNotFound
	}
	return p.History(), nil
}

// Catalog operations

// AddItem inserts an item, rejecting a duplicate derived identifier.
func (l *LendingLedger) AddItem(it models.Item) error {
	if it == nil {
		return errors.New("item cannot be nil")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.reg.AddItem(it) {
		return fmt.Errorf("adding item %q: %w", it.Identifier(), ErrItemExists)
	}
	return nil
}

// UpdateItem replaces a registered item. The replacement must derive the
// same identifier as the item it replaces, and the stored item must not be
// out on loan: a fresh replacement arrives available with a zero borrow
// count, which would let an already-lent identifier circulate twice.
func (l *LendingLedger) UpdateItem(id string, replacement models.Item) error {
	if replacement == nil {
		return errors.New("replacement item cannot be nil")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	stored := l.reg.Item(id)
	if stored == nil {
		return fmt.Errorf("updating item %q: %w", id, ErrItemNotFound)
	}
	if !stored.Available() {
		return fmt.Errorf("updating item %q: %w", id, ErrItemUnavailable)
	}
	if replacement.Identifier() != id {
		return fmt.Errorf("updating item %q with %q: %w", id, replacement.Identifier(), ErrIdentifierMismatch)
	}
	l.reg.ReplaceItem(id, replacement)
	return nil
}

// GetItem looks an item up by its derived identifier.
func (l *LendingLedger) GetItem(id string) (models.Item, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	it := l.reg.Item(id)
	if it == nil {
		return nil, ErrItemNotFound
	}
	return it, nil
}

// Lending operations

// PerformBorrow runs the full eligibility check and, when it passes,
// creates an active loan due after the patron category's default period.
// All checks happen before any state write.
func (l *LendingLedger) PerformBorrow(cpf, itemID string) (*models.Loan, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	p := l.reg.Patron(cpf)
	if p == nil {
		return nil, fmt.Errorf("borrow by %q: %w", cpf, ErrPatronNotFound)
	}
	it := l.reg.Item(itemID)
	if it == nil {
		return nil, fmt.Errorf("borrow of %q: %w", itemID, ErrItemNotFound)
	}
	if !it.Available() {
		return nil, fmt.Errorf("borrow of %q: %w", itemID, ErrItemUnavailable)
	}
	if p.Blocked() {
		return nil, fmt.Errorf("borrow by %q: %w", cpf, ErrPatronBlocked)
	}
	policy := p.Category().Policy()
	if l.reg.CountActiveLoansFor(cpf) >= policy.MaxLoans {
		return nil, fmt.Errorf("borrow by %q: %w", cpf, ErrLoanLimitReached)
	}

	borrowDate := l.today()
	dueDate := borrowDate.AddDate(0, 0, policy.LoanPeriodDays)
	loan, err := models.NewLoan(p, it, borrowDate, dueDate)
	if err != nil {
		return nil, fmt.Errorf("creating loan: %w", err)
	}

	if !it.Borrow() {
		return nil, fmt.Errorf("borrow of %q: %w", itemID, ErrItemUnavailable)
	}
	l.reg.AddLoan(loan)
	p.AddLoanToHistory(loan)
	return loan, nil
}

// ReturnBorrow closes an active loan at the given return date. A late
// return creates a pending penalty and blocks the patron; the created
// penalty, if any, is returned to the caller.
func (l *LendingLedger) ReturnBorrow(loanID string, returnDate time.Time) (*models.Penalty, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	loan := l.reg.ActiveLoan(loanID)
	if loan == nil {
		return nil, fmt.Errorf("return of loan %q: %w", loanID, ErrLoanNotFound)
	}
	if loan.ReturnDate() != nil {
		return nil, fmt.Errorf("return of loan %q: %w", loanID, ErrLoanAlreadyReturned)
	}

	// An active loan's item is unavailable by invariant, so this flip
	// cannot fail.
	if !loan.Item().Return() {
		return nil, fmt.Errorf("return of loan %q: item %q was already available", loanID, loan.Item().Identifier())
	}

	y, m, d := returnDate.Date()
	if err := loan.SetReturnDate(time.Date(y, m, d, 0, 0, 0, 0, time.UTC)); err != nil {
		return nil, fmt.Errorf("return of loan %q: %w", loanID, err)
	}

	var penalty *models.Penalty
	amount := loan.Patron().CalculatePenalty(loan)
	if amount.IsPositive() {
		var err error
		penalty, err = models.NewPenalty(loan, amount)
		if err != nil {
			return nil, fmt.Errorf("creating penalty for loan %q: %w", loanID, err)
		}
		l.reg.AddPendingPenalty(penalty)
		loan.Patron().SetBlocked(true)
	}

	l.reg.RemoveActiveLoan(loanID)
	return penalty, nil
}

// RenewBorrow extends an active loan's due date once by the item's own
// standard period. Overdue loans cannot be renewed. Returns the new due
// date.
func (l *LendingLedger) RenewBorrow(loanID string) (time.Time, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	loan := l.reg.ActiveLoan(loanID)
	if loan == nil {
		return time.Time{}, fmt.Errorf("renewal of loan %q: %w", loanID, ErrLoanNotFound)
	}
	if loan.ReturnDate() != nil {
		return time.Time{}, fmt.Errorf("renewal of loan %q: %w", loanID, ErrLoanAlreadyReturned)
	}
	if loan.Renewed() {
		return time.Time{}, fmt.Errorf("renewal of loan %q: %w", loanID, ErrLoanAlreadyRenewed)
	}
	if l.today().After(loan.DueDate()) {
		return time.Time{}, fmt.Errorf("renewal of loan %q: %w", loanID, ErrLoanOverdue)
	}

	newDue := loan.DueDate().AddDate(0, 0, loan.Item().LoanPeriodDays())
	if err := loan.ExtendDueDate(newDue); err != nil {
		return time.Time{}, fmt.Errorf("renewal of loan %q: %w", loanID, err)
	}
	loan.MarkRenewed()
	return loan.DueDate(), nil
}

// PayPenalty settles a pending penalty. The patron is unblocked when, and
// only when, a re-scan of the pending list finds no other penalty of
// theirs.
func (l *LendingLedger) PayPenalty(penaltyID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	penalty := l.reg.PendingPenalty(penaltyID)
	if penalty == nil {
		return fmt.Errorf("payment of penalty %q: %w", penaltyID, ErrPenaltyNotFound)
	}

	penalty.MarkPaid()
	l.reg.MovePenaltyToPaid(penalty)

	patron := penalty.Loan().Patron()
	if !l.reg.HasPendingPenaltyFor(patron.CPF()) {
		patron.SetBlocked(false)
	}
	return nil
}
