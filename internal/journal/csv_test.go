package journal

import (
	"bytes"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/pocketbook/internal/model"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func TestRoundTrip(t *testing.T) {
	cash, card := model.AccountID(1), model.AccountID(2)
	ledger, food := model.LedgerID(3), model.CategoryID(4)
	txns := []*model.Transaction{
		{
			ID:         10,
			Kind:       model.Expense,
			Date:       date(2026, 1, 3),
			Amount:     dec("4.00"),
			From:       &card,
			LedgerID:   &ledger,
			CategoryID: &food,
			Note:       "Coffee",
		},
		{
			ID:     11,
			Kind:   model.Transfer,
			Date:   date(2026, 1, 5),
			Amount: dec("250.00"),
			From:   &cash,
			To:     &card,
		},
	}

	var buf bytes.Buffer
	err := WriteTransactions(&buf, txns)
	require.NoError(t, err)

	// Verify header is present.
	assert.True(t, strings.HasPrefix(buf.String(), "id,date,"))

	got, err := ReadTransactions(&buf)
	require.NoError(t, err)
	require.Len(t, got, 2)

	for i := range txns {
		assert.Equal(t, txns[i].ID, got[i].ID)
		assert.True(t, txns[i].Date.Equal(got[i].Date))
		assert.Equal(t, txns[i].Kind, got[i].Kind)
		assert.True(t, txns[i].Amount.Equal(got[i].Amount), "amount mismatch row %d", i)
		assert.Equal(t, txns[i].From, got[i].From)
		assert.Equal(t, txns[i].To, got[i].To)
		assert.Equal(t, txns[i].LedgerID, got[i].LedgerID)
		assert.Equal(t, txns[i].CategoryID, got[i].CategoryID)
		assert.Equal(t, txns[i].Note, got[i].Note)
	}
}

func TestMarshalTransaction_EmptyOptionalFields(t *testing.T) {
	to := model.AccountID(7)
	tx := model.NewIncome(date(2026, 2, 1), dec("127.5"), &to)

	row := MarshalTransaction(&tx)
	assert.Equal(t, "127.50", row[colAmount], "StringFixed(2) should keep the trailing zero")
	assert.Empty(t, row[colID])
	assert.Empty(t, row[colFrom])
	assert.Equal(t, "7", row[colTo])
	assert.Empty(t, row[colLedger])

	got, err := UnmarshalTransaction(row)
	require.NoError(t, err)
	assert.Zero(t, got.ID)
	assert.Nil(t, got.From)
	assert.Nil(t, got.CategoryID)
	assert.True(t, got.Amount.Equal(dec("127.50")))
}

func TestSpecialCharactersInNote(t *testing.T) {
	from := model.AccountID(1)
	tx := model.NewExpense(date(2026, 1, 15), dec("35.00"), &from)
	tx.Note = `ACME, "Invoice 1042" & more`

	var buf bytes.Buffer
	require.NoError(t, WriteTransactions(&buf, []*model.Transaction{&tx}))

	got, err := ReadTransactions(&buf)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, tx.Note, got[0].Note)
}

func TestUnmarshalTransaction_Errors(t *testing.T) {
	valid := []string{"", "2026-01-01", "income", "1.00", "", "1", "", "", ""}
	tests := []struct {
		name string
		col  int
		val  string
	}{
		{"bad date", colDate, "01/01/2026"},
		{"bad amount", colAmount, "ten"},
		{"bad kind", colKind, "gift"},
		{"bad account", colTo, "cash"},
		{"bad id", colID, "x1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := append([]string(nil), valid...)
			rec[tt.col] = tt.val
			_, err := UnmarshalTransaction(rec)
			assert.Error(t, err)
		})
	}

	_, err := UnmarshalTransaction(valid[:3])
	assert.Error(t, err)
	_, err = UnmarshalTransaction(valid)
	assert.NoError(t, err)
}

func TestReadTransactions_Empty(t *testing.T) {
	txns, err := ReadTransactions(strings.NewReader(""))
	require.NoError(t, err)
	assert.Nil(t, txns)
}

func TestReadTransactions_HeaderOnly(t *testing.T) {
	txns, err := ReadTransactions(strings.NewReader(Header + "\n"))
	require.NoError(t, err)
	assert.Empty(t, txns)
}

func TestReadTestdata(t *testing.T) {
	f, err := os.Open("../../testdata/transactions.csv")
	require.NoError(t, err)
	defer f.Close()

	txns, err := ReadTransactions(f)
	require.NoError(t, err)
	require.Len(t, txns, 4)

	for _, tx := range txns {
		assert.NoError(t, tx.Validate(), "transaction %d", tx.ID)
	}
	assert.Equal(t, model.Transfer, txns[2].Kind)
	assert.True(t, txns[3].Amount.Equal(dec("1066.19")))
}
