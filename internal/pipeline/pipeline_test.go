package pipeline

import (
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/stmt2csv/internal/config"
	"github.com/cleared-dev/stmt2csv/internal/layout"
	"github.com/cleared-dev/stmt2csv/internal/reconcile"
)

const fixture = "../../testdata/statement.html"

func readFixture(t *testing.T, mutate func(string) string) *layout.Document {
	t.Helper()
	data, err := os.ReadFile(fixture)
	require.NoError(t, err)
	markup := string(data)
	if mutate != nil {
		markup = mutate(markup)
	}
	frags, err := layout.HTMLSource{}.Read(strings.NewReader(markup))
	require.NoError(t, err)
	return layout.NewDocument("statement.html", frags)
}

func newPipeline(t *testing.T) *Pipeline {
	t.Helper()
	p, err := New(config.Default())
	require.NoError(t, err)
	return p
}

func TestRun_Fixture(t *testing.T) {
	res, err := newPipeline(t).Run(readFixture(t, nil))
	require.NoError(t, err)

	txns := res.Transactions
	require.Len(t, txns, 5)
	assert.Len(t, txns, len(res.Columns.TransactionDates))

	type row struct {
		date, desc, cheque, withdrawal, deposit, balance string
	}
	want := []row{
		{"01 JAN", "FAST PAYMENT\nto JOHN", "", "200.00", "", "800.00"},
		{"03 JAN", "GIRO - SALARY\nACME PTE LTD", "", "", "3000.00", "3800.00"},
		{"05 JAN", "CHEQUE DEPOSIT", "123456", "", "500.00", "4300.00"},
		{"07 JAN", "CASH REBATE\nCASH REBATE", "", "", "5.00", "4305.00"},
		{"09 JAN", "DEBIT PURCHASE\nNTUC FAIRPRICE", "", "45.50", "", "4259.50"},
	}
	for i, w := range want {
		got := txns[i]
		assert.Equal(t, w.date, got.TransactionDate, "row %d", i)
		assert.Equal(t, w.date, got.ValueDate, "row %d", i)
		assert.Equal(t, w.desc, got.Description, "row %d", i)
		assert.Equal(t, w.cheque, got.Cheque, "row %d", i)
		if w.withdrawal != "" {
			assert.Equal(t, w.withdrawal, got.Withdrawal.Decimal.StringFixed(2), "row %d", i)
			assert.False(t, got.Deposit.Valid, "row %d", i)
		} else {
			assert.Equal(t, w.deposit, got.Deposit.Decimal.StringFixed(2), "row %d", i)
			assert.False(t, got.Withdrawal.Valid, "row %d", i)
		}
		assert.Equal(t, w.balance, got.Balance.StringFixed(2), "row %d", i)
	}
}

func TestRun_MissingHeader(t *testing.T) {
	doc := readFixture(t, func(s string) string {
		return strings.Replace(s, "DEBIT PURCHASE\n<br>", "", 1)
	})
	res, err := newPipeline(t).Run(doc)
	require.Error(t, err)

	var verr reconcile.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, 5, verr.Counts.TransactionDates)
	assert.Equal(t, 4, verr.Counts.Headers)
	require.NotNil(t, res)
	assert.Empty(t, res.Transactions)
}

func TestRun_ExtraHeader(t *testing.T) {
	doc := readFixture(t, func(s string) string {
		return strings.Replace(s, "BALANCE C/F", "SERVICE CHARGE", 1)
	})
	_, err := newPipeline(t).Run(doc)

	var verr reconcile.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, 6, verr.Counts.Headers)
}

func TestAnalyze(t *testing.T) {
	res, err := newPipeline(t).Analyze(readFixture(t, nil))
	require.NoError(t, err)
	assert.Nil(t, res.Transactions)
	assert.Equal(t, reconcile.Counts{
		Balances:         6,
		TransactionDates: 5,
		ValueDates:       5,
		Headers:          5,
		Withdrawals:      2,
		Deposits:         3,
		Cheques:          1,
	}, res.Counts)
	assert.True(t, res.Counts.Consistent())
}

func TestNew_InvalidLayout(t *testing.T) {
	cfg := config.Default()
	cfg.DateLength = 0
	_, err := New(cfg)
	assert.Error(t, err)
}
