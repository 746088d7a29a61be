package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lucasprado/library-server/internal/models"
)

func TestListItemsByCategory(t *testing.T) {
	f := newFixture(t)
	f.addBook(t, "978-0-13-468599-1")

	mag, _, err := models.NewMagazine("Revista", "Editor", 2024, "1234-5678", 1)
	assert.NoError(t, err)
	assert.NoError(t, f.ledger.AddItem(mag))

	dvd, _, err := models.NewDvd("Filme", "Diretor", 2023)
	assert.NoError(t, err)
	assert.NoError(t, f.ledger.AddItem(dvd))

	assert.Len(t, f.ledger.ListItemsByCategory("book"), 1)
	assert.Len(t, f.ledger.ListItemsByCategory("Magazine"), 1)
	assert.Len(t, f.ledger.ListItemsByCategory("DVD"), 1)

	// An unrecognised tag returns everything
	assert.Len(t, f.ledger.ListItemsByCategory("vinyl"), 3)
}

func TestMostBorrowedItemsOrdering(t *testing.T) {
	f := newFixture(t)
	f.registerPatron(t, "11122233344", models.CategoryStudent)
	f.addBook(t, "978-0-13-468599-1")
	popular := f.addBook(t, "978-0-201-63361-0")
	f.addBook(t, "978-0-262-03384-8")

	// Two completed loans for the popular book, none for the others
	for i := 0; i < 2; i++ {
		loan, err := f.ledger.PerformBorrow("11122233344", popular.Identifier())
		assert.NoError(t, err)
		_, err = f.ledger.ReturnBorrow(loan.ID(), f.today)
		assert.NoError(t, err)
	}

	top := f.ledger.MostBorrowedItems(2)
	assert.Len(t, top, 2)
	assert.Equal(t, popular.Identifier(), top[0].Identifier())
	// Ties keep registration order
	assert.Equal(t, "978-0-13-468599-1", top[1].Identifier())

	// The limit clamps to the catalog size
	assert.Len(t, f.ledger.MostBorrowedItems(10), 3)
	assert.Empty(t, f.ledger.MostBorrowedItems(0))
}

func TestUsersWithMostBorrowsOrdering(t *testing.T) {
	f := newFixture(t)
	f.registerPatron(t, "11122233344", models.CategoryStudent)
	f.registerPatron(t, "55566677788", models.CategoryProfessor)
	f.registerPatron(t, "99988877766", models.CategoryEmployee)

	f.addBook(t, "978-0-13-468599-1")
	f.addBook(t, "978-0-201-63361-0")
	f.addBook(t, "978-0-262-03384-8")

	_, err := f.ledger.PerformBorrow("55566677788", "978-0-13-468599-1")
	assert.NoError(t, err)
	_, err = f.ledger.PerformBorrow("55566677788", "978-0-201-63361-0")
	assert.NoError(t, err)
	_, err = f.ledger.PerformBorrow("11122233344", "978-0-262-03384-8")
	assert.NoError(t, err)

	// Patrons who never borrowed stay out of the report
	top := f.ledger.UsersWithMostBorrows(10)
	assert.Len(t, top, 2)
	assert.Equal(t, "55566677788", top[0].CPF())
	assert.Equal(t, "11122233344", top[1].CPF())
}

func TestOverdueLoansReport(t *testing.T) {
	f := newFixture(t)
	f.registerPatron(t, "11122233344", models.CategoryStudent)
	f.addBook(t, "978-0-13-468599-1")

	loan, err := f.ledger.PerformBorrow("11122233344", "978-0-13-468599-1")
	assert.NoError(t, err)

	assert.Empty(t, f.ledger.OverdueLoans())

	// Due date itself is not overdue; the day after is
	f.advanceDays(15)
	assert.Empty(t, f.ledger.OverdueLoans())

	f.advanceDays(1)
	overdue := f.ledger.OverdueLoans()
	assert.Len(t, overdue, 1)
	assert.Equal(t, loan.ID(), overdue[0].ID())

	// A returned loan is never overdue
	_, err = f.ledger.ReturnBorrow(loan.ID(), f.today)
	assert.NoError(t, err)
	assert.Empty(t, f.ledger.OverdueLoans())
}

func TestTotalPenaltyRevenueStartsAtZero(t *testing.T) {
	f := newFixture(t)
	assert.True(t, f.ledger.TotalPenaltyRevenue().IsZero())
	assert.Empty(t, f.ledger.PendingPenalties())
}
