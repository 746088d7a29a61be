package ledger

import "errors"

// Every operational failure is a normal business outcome, signalled by one
// of these sentinels. The ledger never mutates state on a failed call.
var (
	ErrPatronExists   = errors.New("patron with this CPF is already registered")
	ErrPatronNotFound = errors.New("patron not found")

	ErrItemExists         = errors.New("item with this identifier already exists")
	ErrItemNotFound       = errors.New("item not found")
	ErrItemUnavailable    = errors.New("item is not available")
	ErrIdentifierMismatch = errors.New("replacement item identifier does not match the existing one")

	ErrPatronBlocked    = errors.New("patron is blocked due to pending penalties")
	ErrLoanLimitReached = errors.New("patron has reached the maximum number of concurrent loans")

	ErrLoanNotFound        = errors.New("active loan not found")
	ErrLoanAlreadyReturned = errors.New("loan was already returned")
	ErrLoanAlreadyRenewed  = errors.New("loan was already renewed once")
	ErrLoanOverdue         = errors.New("loan is overdue and cannot be renewed")

	ErrPenaltyNotFound = errors.New("pending penalty not found")
)
