// Package journal reads and writes the transaction list of a book as CSV.
package journal

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/pocketbook/internal/model"
)

// Header is the CSV header for transactions.csv.
const Header = "id,date,kind,amount,from,to,ledger,category,note"

const (
	numFields   = 9
	dateFormat  = "2006-01-02"
	colID       = 0
	colDate     = 1
	colKind     = 2
	colAmount   = 3
	colFrom     = 4
	colTo       = 5
	colLedger   = 6
	colCategory = 7
	colNote     = 8
)

// ReadTransactions reads all transactions from a transactions.csv reader.
// Rows are parsed only; nothing is applied to any account.
func ReadTransactions(r io.Reader) ([]model.Transaction, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading transactions CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	// Skip header row.
	var txns []model.Transaction
	for i, rec := range records[1:] {
		tx, err := UnmarshalTransaction(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		txns = append(txns, tx)
	}
	return txns, nil
}

// WriteTransactions writes transactions to a writer (including header).
func WriteTransactions(w io.Writer, txns []*model.Transaction) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, tx := range txns {
		if err := cw.Write(MarshalTransaction(tx)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

// MarshalTransaction converts a transaction to a CSV row.
func MarshalTransaction(tx *model.Transaction) []string {
	row := make([]string, numFields)
	if tx.ID != 0 {
		row[colID] = strconv.FormatInt(int64(tx.ID), 10)
	}
	row[colDate] = tx.Date.Format(dateFormat)
	row[colKind] = string(tx.Kind)
	row[colAmount] = tx.Amount.StringFixed(2)
	row[colFrom] = formatRef(tx.From)
	row[colTo] = formatRef(tx.To)
	row[colLedger] = formatRef(tx.LedgerID)
	row[colCategory] = formatRef(tx.CategoryID)
	row[colNote] = tx.Note
	return row
}

// UnmarshalTransaction converts a CSV row to a transaction.
func UnmarshalTransaction(record []string) (model.Transaction, error) {
	if len(record) != numFields {
		return model.Transaction{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	date, err := time.Parse(dateFormat, record[colDate])
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing date %q: %w", record[colDate], err)
	}

	amount, err := decimal.NewFromString(record[colAmount])
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing amount %q: %w", record[colAmount], err)
	}

	kind := model.TransactionKind(record[colKind])
	switch kind {
	case model.Income, model.Expense, model.Transfer:
	default:
		return model.Transaction{}, fmt.Errorf("parsing kind %q: %w", record[colKind], model.ErrInvalidTransaction)
	}

	tx := model.Transaction{Kind: kind, Date: date, Amount: amount, Note: record[colNote]}
	if tx.ID, err = parseID[model.TransactionID](record[colID], "id"); err != nil {
		return model.Transaction{}, err
	}
	if tx.From, err = parseRef[model.AccountID](record[colFrom], "from"); err != nil {
		return model.Transaction{}, err
	}
	if tx.To, err = parseRef[model.AccountID](record[colTo], "to"); err != nil {
		return model.Transaction{}, err
	}
	if tx.LedgerID, err = parseRef[model.LedgerID](record[colLedger], "ledger"); err != nil {
		return model.Transaction{}, err
	}
	if tx.CategoryID, err = parseRef[model.CategoryID](record[colCategory], "category"); err != nil {
		return model.Transaction{}, err
	}
	return tx, nil
}

func formatRef[T ~int64](ref *T) string {
	if ref == nil {
		return ""
	}
	return strconv.FormatInt(int64(*ref), 10)
}

func parseID[T ~int64](s, field string) (T, error) {
	if s == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing %s %q: %w", field, s, err)
	}
	return T(n), nil
}

func parseRef[T ~int64](s, field string) (*T, error) {
	if s == "" {
		return nil, nil
	}
	id, err := parseID[T](s, field)
	if err != nil {
		return nil, err
	}
	return &id, nil
}
