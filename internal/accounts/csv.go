package accounts

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/pocketbook/internal/model"
)

const (
	numFields   = 12
	colName     = 0
	colKind     = 1
	colCategory = 2
	colBalance  = 3
	colLimit    = 4
	colDebt     = 5
	colBillDay  = 6
	colDueDay   = 7
	colCparty   = 8
	colIncluded = 9
	colHidden   = 10
	colNote     = 11
)

var header = []string{
	"name", "kind", "category", "balance", "credit_limit", "current_debt",
	"bill_day", "due_day", "counterparty", "included", "hidden", "note",
}

// ReadAccounts reads an accounts CSV into unsaved accounts.
// Loans are not accepted here; they are created with their terms.
func ReadAccounts(r io.Reader) ([]*model.Account, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading accounts CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	var accts []*model.Account
	for i, rec := range records[1:] {
		acct, err := UnmarshalAccount(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		accts = append(accts, acct)
	}
	return accts, nil
}

// WriteAccounts writes accounts as CSV, header first. Loans are skipped
// because a row cannot carry their terms.
func WriteAccounts(w io.Writer, accts []*model.Account) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	line := 1
	for _, acct := range accts {
		if acct.Kind == model.KindLoan {
			continue
		}
		line++
		if err := cw.Write(MarshalAccount(acct)); err != nil {
			return fmt.Errorf("writing row %d: %w", line, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalAccount converts an Account to a CSV row.
func MarshalAccount(acct *model.Account) []string {
	row := make([]string, numFields)
	row[colName] = acct.Name
	row[colKind] = string(acct.Kind)
	row[colCategory] = string(acct.Category)
	row[colBalance] = acct.Balance.StringFixed(2)
	if acct.Credit != nil {
		row[colLimit] = acct.Credit.CreditLimit.StringFixed(2)
		row[colDebt] = acct.Credit.CurrentDebt.StringFixed(2)
		row[colBillDay] = formatDay(acct.Credit.BillDay)
		row[colDueDay] = formatDay(acct.Credit.DueDay)
	}
	if acct.Loan != nil {
		row[colDebt] = acct.Loan.RemainingAmount.StringFixed(2)
	}
	if acct.Debt != nil {
		row[colCparty] = acct.Debt.Counterparty
	}
	row[colIncluded] = strconv.FormatBool(acct.IncludedInNetAssets)
	row[colHidden] = strconv.FormatBool(acct.Hidden)
	row[colNote] = acct.Note
	return row
}

// UnmarshalAccount converts a CSV row to an Account.
func UnmarshalAccount(record []string) (*model.Account, error) {
	if len(record) != numFields {
		return nil, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	balance, err := parseAmount(record[colBalance])
	if err != nil {
		return nil, fmt.Errorf("parsing balance %q: %w", record[colBalance], err)
	}

	var acct *model.Account
	switch kind := model.AccountKind(record[colKind]); kind {
	case model.KindBasic:
		acct = Basic(record[colName], balance)
	case model.KindCredit:
		limit, err := parseAmount(record[colLimit])
		if err != nil {
			return nil, fmt.Errorf("parsing credit_limit %q: %w", record[colLimit], err)
		}
		debt, err := parseAmount(record[colDebt])
		if err != nil {
			return nil, fmt.Errorf("parsing current_debt %q: %w", record[colDebt], err)
		}
		acct = CreditCard(record[colName], balance, limit, debt)
		if acct.Credit.BillDay, err = parseDay(record[colBillDay]); err != nil {
			return nil, fmt.Errorf("parsing bill_day %q: %w", record[colBillDay], err)
		}
		if acct.Credit.DueDay, err = parseDay(record[colDueDay]); err != nil {
			return nil, fmt.Errorf("parsing due_day %q: %w", record[colDueDay], err)
		}
	case model.KindBorrowing:
		acct = Borrowing(record[colName], record[colCparty], balance)
	case model.KindLending:
		acct = Lending(record[colName], record[colCparty], balance)
	case model.KindLoan:
		return nil, fmt.Errorf("loan %q must be created with its terms: %w", record[colName], model.ErrUnsupportedOperation)
	default:
		return nil, fmt.Errorf("account kind %q: %w", kind, model.ErrUnknownAccountKind)
	}

	if record[colCategory] != "" {
		acct.Category = model.AccountCategory(record[colCategory])
	}
	if record[colIncluded] != "" {
		included, err := strconv.ParseBool(record[colIncluded])
		if err != nil {
			return nil, fmt.Errorf("parsing included %q: %w", record[colIncluded], err)
		}
		acct.IncludedInNetAssets = included
	}
	if record[colHidden] != "" {
		hidden, err := strconv.ParseBool(record[colHidden])
		if err != nil {
			return nil, fmt.Errorf("parsing hidden %q: %w", record[colHidden], err)
		}
		acct.Hidden = hidden
	}
	acct.Note = record[colNote]
	return acct, nil
}

func parseAmount(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}

func formatDay(d *int) string {
	if d == nil {
		return ""
	}
	return strconv.Itoa(*d)
}

func parseDay(s string) (*int, error) {
	if s == "" {
		return nil, nil
	}
	d, err := strconv.Atoi(s)
	if err != nil {
		return nil, err
	}
	if d < 1 || d > 31 {
		return nil, &model.ValidationError{Field: "day", Message: "day must be between 1 and 31"}
	}
	return &d, nil
}
