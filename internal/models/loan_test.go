package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewLoan(t *testing.T) {
	patron, _, _ := NewPatron("Maria", "11122233344", "m@e.com", CategoryStudent)
	book, _, _ := NewBook("Livro", "Autor", 2020, "978-0-13-468599-1")

	borrow := time.Date(2025, time.June, 2, 0, 0, 0, 0, time.UTC)
	due := borrow.AddDate(0, 0, 15)

	loan, err := NewLoan(patron, book, borrow, due)
	assert.NoError(t, err)
	assert.NotEmpty(t, loan.ID())
	assert.Nil(t, loan.ReturnDate())
	assert.False(t, loan.Renewed())

	// Each loan gets its own identifier
	other, err := NewLoan(patron, book, borrow, due)
	assert.NoError(t, err)
	assert.NotEqual(t, loan.ID(), other.ID())

	// Borrow date after due date is rejected
	_, err = NewLoan(patron, book, due.AddDate(0, 0, 1), due)
	assert.Error(t, err)

	// Missing parties are rejected
	_, err = NewLoan(nil, book, borrow, due)
	assert.Error(t, err)
	_, err = NewLoan(patron, nil, borrow, due)
	assert.Error(t, err)
}

func TestLoanDueDateOnlyMovesForward(t *testing.T) {
	patron, _, _ := NewPatron("Maria", "11122233344", "m@e.com", CategoryStudent)
	book, _, _ := NewBook("Livro", "Autor", 2020, "978-0-13-468599-1")

	borrow := time.Date(2025, time.June, 2, 0, 0, 0, 0, time.UTC)
	due := borrow.AddDate(0, 0, 15)
	loan, _ := NewLoan(patron, book, borrow, due)

	assert.Error(t, loan.ExtendDueDate(due.AddDate(0, 0, -1)))
	assert.Equal(t, due, loan.DueDate())

	newDue := due.AddDate(0, 0, 15)
	assert.NoError(t, loan.ExtendDueDate(newDue))
	assert.Equal(t, newDue, loan.DueDate())
}

func TestLoanReturnDateIsFinal(t *testing.T) {
	patron, _, _ := NewPatron("Maria", "11122233344", "m@e.com", CategoryStudent)
	book, _, _ := NewBook("Livro", "Autor", 2020, "978-0-13-468599-1")

	borrow := time.Date(2025, time.June, 2, 0, 0, 0, 0, time.UTC)
	loan, _ := NewLoan(patron, book, borrow, borrow.AddDate(0, 0, 15))

	returned := borrow.AddDate(0, 0, 10)
	assert.NoError(t, loan.SetReturnDate(returned))
	assert.Equal(t, returned, *loan.ReturnDate())

	assert.Error(t, loan.SetReturnDate(returned.AddDate(0, 0, 1)))
	assert.Equal(t, returned, *loan.ReturnDate())
}
