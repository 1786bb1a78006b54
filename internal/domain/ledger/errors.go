package ledger

import "errors"

var (
	ErrEmployeeNotFound = errors.New("employee not found")
	ErrAdvanceNotFound  = errors.New("advance not found")
	ErrPenaltyNotFound  = errors.New("penalty not found")
	ErrLoanNotFound     = errors.New("loan not found")
	ErrPayoutNotFound   = errors.New("payout not found")
	ErrRecordSettled    = errors.New("record already settled by a payout")
)
