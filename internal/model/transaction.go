package model

import (
	"github.com/shopspring/decimal"
)

// Column names a logical statement column.
type Column string

const (
	ColumnTransactionDate Column = "transaction_date"
	ColumnValueDate       Column = "value_date"
	ColumnDescription     Column = "description"
	ColumnCheque          Column = "cheque"
	ColumnWithdrawal      Column = "withdrawal"
	ColumnDeposit         Column = "deposit"
	ColumnBalance         Column = "balance"
)

// Columns lists every statement column in output order.
var Columns = []Column{
	ColumnTransactionDate,
	ColumnValueDate,
	ColumnDescription,
	ColumnCheque,
	ColumnWithdrawal,
	ColumnDeposit,
	ColumnBalance,
}

// Transaction is one reconstructed statement row.
// Exactly one of Withdrawal and Deposit is valid.
type Transaction struct {
	TransactionDate string              `json:"transaction_date"`
	ValueDate       string              `json:"value_date"`
	Description     string              `json:"description"` // newline-separated block
	Cheque          string              `json:"cheque,omitempty"`
	Withdrawal      decimal.NullDecimal `json:"withdrawal"`
	Deposit         decimal.NullDecimal `json:"deposit"`
	Balance         decimal.Decimal     `json:"balance"` // balance after this transaction
}

// IsCredit reports whether the transaction increased the balance.
func (t Transaction) IsCredit() bool {
	return t.Deposit.Valid
}

// Amount returns the deposit for credits and the withdrawal otherwise.
func (t Transaction) Amount() decimal.Decimal {
	if t.Deposit.Valid {
		return t.Deposit.Decimal
	}
	return t.Withdrawal.Decimal
}
