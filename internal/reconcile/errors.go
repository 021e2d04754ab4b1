package reconcile

import (
	"fmt"

	"github.com/cleared-dev/stmt2csv/internal/model"
)

// Counts are the structural column counts of one statement.
type Counts struct {
	Balances         int `json:"balances"`
	TransactionDates int `json:"transaction_dates"`
	ValueDates       int `json:"value_dates"`
	Headers          int `json:"headers"`
	Withdrawals      int `json:"withdrawals"`
	Deposits         int `json:"deposits"`
	Cheques          int `json:"cheques"`
}

// Consistent reports whether every column describes the same number of
// transactions.
func (c Counts) Consistent() bool {
	n := c.TransactionDates
	return c.Balances-1 == n &&
		c.ValueDates == n &&
		c.Headers == n &&
		c.Withdrawals+c.Deposits == n
}

func (c Counts) String() string {
	return fmt.Sprintf("balance-1=%d transaction_date=%d value_date=%d headers=%d withdrawal+deposit=%d (withdrawal=%d deposit=%d cheque=%d)",
		c.Balances-1, c.TransactionDates, c.ValueDates, c.Headers,
		c.Withdrawals+c.Deposits, c.Withdrawals, c.Deposits, c.Cheques)
}

// ValidationError reports columns that do not line up. No records are
// produced for a statement that fails validation.
type ValidationError struct {
	Reason string
	Counts Counts
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s: %s", e.Reason, e.Counts)
}

// MalformedAmountError reports a balance or amount that is not a number.
type MalformedAmountError struct {
	Column model.Column
	Index  int
	Text   string
	Err    error
}

func (e MalformedAmountError) Error() string {
	return fmt.Sprintf("malformed %s amount %q at row %d: %v", e.Column, e.Text, e.Index+1, e.Err)
}

func (e MalformedAmountError) Unwrap() error {
	return e.Err
}
