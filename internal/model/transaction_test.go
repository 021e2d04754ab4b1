package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestTransactionAmount(t *testing.T) {
	tests := []struct {
		name     string
		txn      Transaction
		credit   bool
		expected string
	}{
		{
			name:     "deposit",
			txn:      Transaction{Deposit: decimal.NewNullDecimal(decimal.RequireFromString("50.00"))},
			credit:   true,
			expected: "50.00",
		},
		{
			name:     "withdrawal",
			txn:      Transaction{Withdrawal: decimal.NewNullDecimal(decimal.RequireFromString("30.25"))},
			credit:   false,
			expected: "30.25",
		},
		{
			name:     "empty",
			txn:      Transaction{},
			credit:   false,
			expected: "0.00",
		},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.credit, tt.txn.IsCredit(), tt.name)
		assert.Equal(t, tt.expected, tt.txn.Amount().StringFixed(2), tt.name)
	}
}

func TestColumnsOrder(t *testing.T) {
	assert.Equal(t, []Column{
		"transaction_date", "value_date", "description", "cheque", "withdrawal", "deposit", "balance",
	}, Columns)
}
