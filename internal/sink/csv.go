package sink

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/stmt2csv/internal/model"
)

// Header is the CSV header for reconstructed statements.
const Header = "transaction_date,value_date,description,cheque,withdrawal,deposit,balance"

const (
	numFields     = 7
	colTxnDate    = 0
	colValueDate  = 1
	colDesc       = 2
	colCheque     = 3
	colWithdrawal = 4
	colDeposit    = 5
	colBalance    = 6
)

// WriteCSV writes transactions to w, header first.
func WriteCSV(w io.Writer, txns []model.Transaction) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, txn := range txns {
		if err := cw.Write(MarshalTransaction(txn)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV reads transactions written by WriteCSV.
func ReadCSV(r io.Reader) ([]model.Transaction, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading statement CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var txns []model.Transaction
	for i, rec := range records[1:] {
		txn, err := UnmarshalTransaction(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		txns = append(txns, txn)
	}
	return txns, nil
}

// MarshalTransaction converts a Transaction to a CSV row. Unset amounts
// are empty strings.
func MarshalTransaction(txn model.Transaction) []string {
	row := make([]string, numFields)
	row[colTxnDate] = txn.TransactionDate
	row[colValueDate] = txn.ValueDate
	row[colDesc] = txn.Description
	row[colCheque] = txn.Cheque
	if txn.Withdrawal.Valid {
		row[colWithdrawal] = txn.Withdrawal.Decimal.StringFixed(2)
	}
	if txn.Deposit.Valid {
		row[colDeposit] = txn.Deposit.Decimal.StringFixed(2)
	}
	row[colBalance] = txn.Balance.StringFixed(2)
	return row
}

// UnmarshalTransaction converts a CSV row to a Transaction.
func UnmarshalTransaction(record []string) (model.Transaction, error) {
	if len(record) != numFields {
		return model.Transaction{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	withdrawal, err := parseOptional(record[colWithdrawal])
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing withdrawal %q: %w", record[colWithdrawal], err)
	}
	deposit, err := parseOptional(record[colDeposit])
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing deposit %q: %w", record[colDeposit], err)
	}
	balance, err := decimal.NewFromString(record[colBalance])
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing balance %q: %w", record[colBalance], err)
	}

	return model.Transaction{
		TransactionDate: record[colTxnDate],
		ValueDate:       record[colValueDate],
		Description:     record[colDesc],
		Cheque:          record[colCheque],
		Withdrawal:      withdrawal,
		Deposit:         deposit,
		Balance:         balance,
	}, nil
}

func parseOptional(s string) (decimal.NullDecimal, error) {
	if s == "" {
		return decimal.NullDecimal{}, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}, err
	}
	return decimal.NewNullDecimal(d), nil
}
