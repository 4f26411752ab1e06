package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// GenericParser reads a minimal date,description,amount CSV with ISO dates.
type GenericParser struct{}

const (
	genericDateFormat = "2006-01-02"
	genericNumFields  = 3
)

// Format returns the parser name.
func (p *GenericParser) Format() string { return "generic" }

// Parse reads the CSV and returns its statement lines.
func (p *GenericParser) Parse(r io.Reader) ([]StatementLine, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = genericNumFields
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading generic CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var lines []StatementLine
	for i, rec := range records[1:] {
		date, err := time.Parse(genericDateFormat, strings.TrimSpace(rec[0]))
		if err != nil {
			return nil, fmt.Errorf("row %d: parsing date %q: %w", i+2, rec[0], err)
		}
		amount, err := decimal.NewFromString(strings.TrimSpace(rec[2]))
		if err != nil {
			return nil, fmt.Errorf("row %d: parsing amount %q: %w", i+2, rec[2], err)
		}
		lines = append(lines, StatementLine{
			Date:        date,
			Description: rec[1],
			Amount:      amount,
			Reference:   makeRef("generic", date, rec[1]),
		})
	}
	return lines, nil
}
