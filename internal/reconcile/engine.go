// Package reconcile merges independently extracted statement columns into
// transaction records.
package reconcile

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/stmt2csv/internal/columns"
	"github.com/cleared-dev/stmt2csv/internal/config"
	"github.com/cleared-dev/stmt2csv/internal/model"
	"github.com/cleared-dev/stmt2csv/internal/segment"
)

// Engine assembles records from filtered columns and description blocks.
type Engine struct {
	chequeMarker string
}

// NewEngine creates an Engine for a layout.
func NewEngine(cfg *config.Config) *Engine {
	return &Engine{chequeMarker: cfg.ChequeDepositMarker}
}

// CountsOf returns the structural counts of a statement.
func CountsOf(set *columns.Set, blocks []segment.Block) Counts {
	return Counts{
		Balances:         len(set.Balances),
		TransactionDates: len(set.TransactionDates),
		ValueDates:       len(set.ValueDates),
		Headers:          len(blocks),
		Withdrawals:      len(set.Withdrawals),
		Deposits:         len(set.Deposits),
		Cheques:          len(set.Cheques),
	}
}

// Reconcile returns one record per transaction, or an error and no records.
//
// A transaction is a credit when the balance after it is greater than the
// balance before it; an unchanged balance counts as a debit.
func (e *Engine) Reconcile(set *columns.Set, blocks []segment.Block) ([]model.Transaction, error) {
	counts := CountsOf(set, blocks)
	if !counts.Consistent() {
		return nil, ValidationError{Reason: "column counts disagree", Counts: counts}
	}

	balances := make([]decimal.Decimal, len(set.Balances))
	for i, text := range set.Balances {
		d, err := ParseAmount(text)
		if err != nil {
			return nil, MalformedAmountError{Column: model.ColumnBalance, Index: i, Text: text, Err: err}
		}
		balances[i] = d
	}

	cheques := newCursor(model.ColumnCheque, set.Cheques)
	deposits := newCursor(model.ColumnDeposit, set.Deposits)
	withdrawals := newCursor(model.ColumnWithdrawal, set.Withdrawals)

	txns := make([]model.Transaction, 0, counts.TransactionDates)
	for i := range set.TransactionDates {
		txn := model.Transaction{
			TransactionDate: set.TransactionDates[i],
			ValueDate:       set.ValueDates[i],
			Description:     blocks[i].Text(),
			Balance:         balances[i+1],
		}

		if balances[i+1].GreaterThan(balances[i]) {
			if e.chequeMarker != "" && blocks[i].Header() == e.chequeMarker {
				cheque, err := cheques.take(counts)
				if err != nil {
					return nil, err
				}
				txn.Cheque = cheque
			}
			amount, err := deposits.takeAmount(counts)
			if err != nil {
				return nil, err
			}
			txn.Deposit = decimal.NewNullDecimal(amount)
		} else {
			amount, err := withdrawals.takeAmount(counts)
			if err != nil {
				return nil, err
			}
			txn.Withdrawal = decimal.NewNullDecimal(amount)
		}

		txns = append(txns, txn)
	}
	return txns, nil
}

// ParseAmount parses a statement amount, ignoring thousands separators.
func ParseAmount(text string) (decimal.Decimal, error) {
	clean := strings.Map(func(r rune) rune {
		if r == ',' || r == ' ' {
			return -1
		}
		return r
	}, strings.TrimSpace(text))
	if clean == "" {
		return decimal.Decimal{}, fmt.Errorf("empty amount")
	}
	return decimal.NewFromString(clean)
}

// cursor hands out the values of one column in order, each exactly once.
type cursor struct {
	column model.Column
	values []string
	next   int
}

func newCursor(column model.Column, values []string) *cursor {
	return &cursor{column: column, values: values}
}

func (c *cursor) take(counts Counts) (string, error) {
	if c.next >= len(c.values) {
		return "", ValidationError{
			Reason: fmt.Sprintf("%s column exhausted after %d values", c.column, len(c.values)),
			Counts: counts,
		}
	}
	v := c.values[c.next]
	c.next++
	return v, nil
}

func (c *cursor) takeAmount(counts Counts) (decimal.Decimal, error) {
	if c.next >= len(c.values) {
		_, err := c.take(counts)
		return decimal.Decimal{}, err
	}
	text := c.values[c.next]
	d, err := ParseAmount(text)
	if err != nil {
		return decimal.Decimal{}, MalformedAmountError{Column: c.column, Index: c.next, Text: text, Err: err}
	}
	c.next++
	return d, nil
}
