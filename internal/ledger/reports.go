package ledger

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/lucasprado/library-server/internal/models"
)

// Reporting queries. All run under the read lock and mutate nothing.

// ListAllItems returns every registered item in registration order.
func (l *LendingLedger) ListAllItems() []models.Item {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.reg.Items()
}

// ListItemsByCategory filters items by family tag ("book", "magazine" or
// "dvd", case-insensitive). An unrecognised tag returns all items.
func (l *LendingLedger) ListItemsByCategory(tag string) []models.Item {
	l.mu.RLock()
	defer l.mu.RUnlock()

	items := l.reg.Items()
	var kind models.ItemKind
	switch strings.ToLower(tag) {
	case string(models.ItemKindBook):
		kind = models.ItemKindBook
	case string(models.ItemKindMagazine):
		kind = models.ItemKindMagazine
	case string(models.ItemKindDvd):
		kind = models.ItemKindDvd
	default:
		return items
	}

	filtered := make([]models.Item, 0, len(items))
	for _, it := range items {
		if it.Kind() == kind {
			filtered = append(filtered, it)
		}
	}
	return filtered
}

// MostBorrowedItems returns up to limit items sorted by cumulative borrow
// count, descending. Ties keep registration order.
func (l *LendingLedger) MostBorrowedItems(limit int) []models.Item {
	l.mu.RLock()
	defer l.mu.RUnlock()

	items := l.reg.Items()
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].BorrowCount() > items[j].BorrowCount()
	})
	return items[:clamp(limit, len(items))]
}

// UsersWithMostBorrows returns up to limit patrons sorted by total
// historical loan count, descending. Patrons who never borrowed are
// excluded; ties keep registration order.
func (l *LendingLedger) UsersWithMostBorrows(limit int) []*models.Patron {
	l.mu.RLock()
	defer l.mu.RUnlock()

	patrons := make([]*models.Patron, 0)
	for _, p := range l.reg.Patrons() {
		if len(p.History()) > 0 {
			patrons = append(patrons, p)
		}
	}
	sort.SliceStable(patrons, func(i, j int) bool {
		return len(patrons[i].History()) > len(patrons[j].History())
	})
	return patrons[:clamp(limit, len(patrons))]
}

// OverdueLoans returns the active loans whose due date is strictly before
// today, resolved against the ledger clock at call time.
func (l *LendingLedger) OverdueLoans() []*models.Loan {
	l.mu.RLock()
	defer l.mu.RUnlock()

	today := l.today()
	var overdue []*models.Loan
	for _, loan := range l.reg.ActiveLoans() {
		if today.After(loan.DueDate()) {
			overdue = append(overdue, loan)
		}
	}
	return overdue
}

// PendingPenalties returns the pending penalty list.
func (l *LendingLedger) PendingPenalties() []*models.Penalty {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.reg.PendingPenalties()
}

// TotalPenaltyRevenue sums the amounts of all paid penalties.
func (l *LendingLedger) TotalPenaltyRevenue() decimal.Decimal {
	l.mu.RLock()
	defer l.mu.RUnlock()

	total := decimal.Zero
	for _, p := range l.reg.PaidPenalties() {
		total = total.Add(p.Amount())
	}
	return total
}

func clamp(limit, length int) int {
	if limit < 0 {
		return 0
	}
	if limit > length {
		return length
	}
	return limit
}
