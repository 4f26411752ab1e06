package commands

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	gomoney "github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/pocketbook/internal/model"
	"github.com/cleared-dev/pocketbook/internal/money"
)

const dateLayout = "2006-01-02"

// formatMoney renders d in the currency's own symbol and separators.
// Unknown codes fall back to a plain two-digit amount followed by the code.
func formatMoney(d decimal.Decimal, code string) string {
	cur := gomoney.GetCurrency(code)
	if cur == nil {
		return money.Round(d).StringFixed(money.Places) + " " + code
	}
	minor := d.Round(int32(cur.Fraction)).Shift(int32(cur.Fraction)).IntPart()
	return cur.Formatter().Format(minor)
}

func formatRef[T ~int64](ref *T) string {
	if ref == nil {
		return "-"
	}
	return strconv.FormatInt(int64(*ref), 10)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(dateLayout)
}

func newTable(w io.Writer, header ...string) *tabwriter.Writer {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	return tw
}

func row(tw io.Writer, cols ...string) {
	fmt.Fprintln(tw, strings.Join(cols, "\t"))
}

func accountFlags(a *model.Account) string {
	var flags []string
	if a.Hidden {
		flags = append(flags, "hidden")
	}
	if !a.IncludedInNetAssets {
		flags = append(flags, "excluded")
	}
	if a.Ended() {
		flags = append(flags, "ended")
	}
	return strings.Join(flags, ",")
}

func parseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return d, nil
}

func parseID[T ~int64](s string) (T, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return T(n), nil
}

// parseRef treats an empty flag as "not given".
func parseRef[T ~int64](s string) (*T, error) {
	if s == "" {
		return nil, nil
	}
	id, err := parseID[T](s)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// parseDate returns the zero time for an empty flag so the book falls back to today.
func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: want YYYY-MM-DD", s)
	}
	return t, nil
}
