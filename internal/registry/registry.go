// Package registry holds the in-memory registries the lending ledger
// operates on: patrons keyed by CPF, items keyed by their derived
// identifier, the active and historical loan lists, and the pending and
// paid penalty lists. Records are shared by reference between these lists
// and each patron's personal history; there is exactly one copy of every
// loan and penalty.
//
// The registry does no locking and enforces no business rules beyond key
// uniqueness. The ledger layer owns both.
package registry

import (
	"github.com/lucasprado/library-server/internal/models"
)

// Registry is the data layer of the lending system.
type Registry struct {
	patrons     map[string]*models.Patron
	patronOrder []string // CPFs in registration order, for stable reports
	items       map[string]models.Item
	itemOrder   []string // identifiers in registration order
	activeLoans []*models.Loan
	loanHistory []*models.Loan
	pending     []*models.Penalty
	paid        []*models.Penalty
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		patrons: make(map[string]*models.Patron),
		items:   make(map[string]models.Item),
	}
}

// Patron operations

// AddPatron inserts a patron, reporting false on a duplicate CPF.
func (r *Registry) AddPatron(p *models.Patron) bool {
	if _, exists := r.patrons[p.CPF()]; exists {
		return false
	}
	r.patrons[p.CPF()] = p
	r.patronOrder = append(r.patronOrder, p.CPF())
	return true
}

// Patron looks a patron up by CPF, returning nil when absent.
func (r *Registry) Patron(cpf string) *models.Patron {
	return r.patrons[cpf]
}

// Patrons returns all patrons in registration order.
func (r *Registry) Patrons() []*models.Patron {
	out := make([]*models.Patron, 0, len(r.patronOrder))
	for _, cpf := range r.patronOrder {
		out = append(out, r.patrons[cpf])
	}
	return out
}

// Item operations

// AddItem inserts an item, reporting false on a duplicate identifier.
func (r *Registry) AddItem(it models.Item) bool {
	id := it.Identifier()
	if _, exists := r.items[id]; exists {
		return false
	}
	r.items[id] = it
	r.itemOrder = append(r.itemOrder, id)
	return true
}

// ReplaceItem swaps the stored item for the given identifier in place,
// keeping its position in the registration order. The identifier must
// already be registered.
func (r *Registry) ReplaceItem(id string, it models.Item) bool {
	if _, exists := r.items[id]; !exists {
		return false
	}
	r.items[id] = it
	return true
}

// Item looks an item up by its derived identifier, returning nil when absent.
func (r *Registry) Item(id string) models.Item {
	return r.items[id]
}

// Items returns all items in registration order.
func (r *Registry) Items() []models.Item {
	out := make([]models.Item, 0, len(r.itemOrder))
	for _, id := range r.itemOrder {
		out = append(out, r.items[id])
	}
	return out
}

// Loan operations

// AddLoan appends a new loan to both the active list and the history.
func (r *Registry) AddLoan(l *models.Loan) {
	r.activeLoans = append(r.activeLoans, l)
	r.loanHistory = append(r.loanHistory, l)
}

// ActiveLoan finds an active loan by ID, returning nil when absent.
func (r *Registry) ActiveLoan(id string) *models.Loan {
	for _, l := range r.activeLoans {
		if l.ID() == id {
			return l
		}
	}
	return nil
}

// RemoveActiveLoan drops a loan from the active list. The loan stays in
// the history.
func (r *Registry) RemoveActiveLoan(id string) {
	for i, l := range r.activeLoans {
		if l.ID() == id {
			r.activeLoans = append(r.activeLoans[:i], r.activeLoans[i+1:]...)
			return
		}
	}
}

// ActiveLoans returns the active loan list.
func (r *Registry) ActiveLoans() []*models.Loan {
	out := make([]*models.Loan, len(r.activeLoans))
	copy(out, r.activeLoans)
	return out
}

// LoanHistory returns every loan ever created, in creation order.
func (r *Registry) LoanHistory() []*models.Loan {
	out := make([]*models.Loan, len(r.loanHistory))
	copy(out, r.loanHistory)
	return out
}

// CountActiveLoansFor counts a patron's currently active loans.
func (r *Registry) CountActiveLoansFor(cpf string) int {
	count := 0
	for _, l := range r.activeLoans {
		if l.Patron().CPF() == cpf && l.ReturnDate() == nil {
			count++
		}
	}
	return count
}

// Penalty operations

// AddPendingPenalty appends a penalty to the pending list.
func (r *Registry) AddPendingPenalty(p *models.Penalty) {
	r.pending = append(r.pending, p)
}

// PendingPenalty finds a pending penalty by ID, returning nil when absent.
func (r *Registry) PendingPenalty(id string) *models.Penalty {
	for _, p := range r.pending {
		if p.ID() == id {
			return p
		}
	}
	return nil
}

// MovePenaltyToPaid moves a penalty from the pending to the paid list.
func (r *Registry) MovePenaltyToPaid(penalty *models.Penalty) {
	for i, p := range r.pending {
		if p.ID() == penalty.ID() {
			r.pending = append(r.pending[:i], r.pending[i+1:]...)
			break
		}
	}
	r.paid = append(r.paid, penalty)
}

// PendingPenalties returns the pending penalty list.
func (r *Registry) PendingPenalties() []*models.Penalty {
	out := make([]*models.Penalty, len(r.pending))
	copy(out, r.pending)
	return out
}

// PaidPenalties returns the paid penalty list.
func (r *Registry) PaidPenalties() []*models.Penalty {
	out := make([]*models.Penalty, len(r.paid))
	copy(out, r.paid)
	return out
}

// HasPendingPenaltyFor reports whether any pending penalty references a
// loan taken out by the given patron.
func (r *Registry) HasPendingPenaltyFor(cpf string) bool {
	for _, p := range r.pending {
		if p.Loan().Patron().CPF() == cpf {
			return true
		}
	}
	return false
}
