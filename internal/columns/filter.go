package columns

import (
	"unicode"
	"unicode/utf8"

	"github.com/cleared-dev/stmt2csv/internal/config"
	"github.com/cleared-dev/stmt2csv/internal/layout"
	"github.com/cleared-dev/stmt2csv/internal/model"
)

// Filter drops the entries of a column that are not transaction data.
type Filter func(values []string) []string

// Set holds the filtered columns of one statement.
type Set struct {
	TransactionDates []string
	ValueDates       []string
	Descriptions     []string
	Cheques          []string
	Withdrawals      []string
	Deposits         []string
	Balances         []string // opening balance first, closing balance dropped
}

// Get returns the named column.
func (s *Set) Get(col model.Column) []string {
	switch col {
	case model.ColumnTransactionDate:
		return s.TransactionDates
	case model.ColumnValueDate:
		return s.ValueDates
	case model.ColumnDescription:
		return s.Descriptions
	case model.ColumnCheque:
		return s.Cheques
	case model.ColumnWithdrawal:
		return s.Withdrawals
	case model.ColumnDeposit:
		return s.Deposits
	case model.ColumnBalance:
		return s.Balances
	}
	return nil
}

func (s *Set) set(col model.Column, values []string) {
	switch col {
	case model.ColumnTransactionDate:
		s.TransactionDates = values
	case model.ColumnValueDate:
		s.ValueDates = values
	case model.ColumnDescription:
		s.Descriptions = values
	case model.ColumnCheque:
		s.Cheques = values
	case model.ColumnWithdrawal:
		s.Withdrawals = values
	case model.ColumnDeposit:
		s.Deposits = values
	case model.ColumnBalance:
		s.Balances = values
	}
}

// Extract classifies and filters every column of doc.
func (c *Classifier) Extract(doc *layout.Document) (*Set, error) {
	set := &Set{}
	for _, col := range model.Columns {
		values, err := c.Column(doc, col)
		if err != nil {
			return nil, err
		}
		if f, ok := c.filters[col]; ok {
			values = f(values)
		}
		set.set(col, values)
	}
	return set, nil
}

// Filters returns the cleanup rule for each column.
func Filters(cfg *config.Config) map[model.Column]Filter {
	dates := DateFilter(cfg.DateLength)
	amounts := AmountFilter(cfg.ZeroMarker)
	return map[model.Column]Filter{
		model.ColumnTransactionDate: dates,
		model.ColumnValueDate:       dates,
		model.ColumnDescription:     BoilerplateFilter(cfg.Boilerplate),
		model.ColumnCheque:          func(values []string) []string { return values },
		model.ColumnWithdrawal:      amounts,
		model.ColumnDeposit:         amounts,
		model.ColumnBalance:         DropLast,
	}
}

// DateFilter keeps values exactly length characters long.
func DateFilter(length int) Filter {
	return func(values []string) []string {
		var out []string
		for _, v := range values {
			if utf8.RuneCountInString(v) == length {
				out = append(out, v)
			}
		}
		return out
	}
}

// BoilerplateFilter drops values equal to one of phrases.
func BoilerplateFilter(phrases []string) Filter {
	skip := make(map[string]bool, len(phrases))
	for _, p := range phrases {
		skip[p] = true
	}
	return func(values []string) []string {
		var out []string
		for _, v := range values {
			if !skip[v] {
				out = append(out, v)
			}
		}
		return out
	}
}

// AmountFilter drops values containing letters or equal to zeroMarker, then
// drops the trailing total.
func AmountFilter(zeroMarker string) Filter {
	return func(values []string) []string {
		var out []string
		for _, v := range values {
			if hasLetter(v) || v == zeroMarker {
				continue
			}
			out = append(out, v)
		}
		return DropLast(out)
	}
}

// DropLast removes the final value.
func DropLast(values []string) []string {
	if len(values) == 0 {
		return values
	}
	return values[:len(values)-1]
}

func hasLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}
