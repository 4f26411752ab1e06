// Package importer turns bank statement exports into transactions.
package importer

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/pocketbook/internal/model"
)

// StatementLine is one row of a bank statement. Negative amounts leave the account.
// Reference identifies the line across repeated imports of the same statement.
type StatementLine struct {
	Date        time.Time
	Description string
	Amount      decimal.Decimal
	Reference   string
}

// Parser converts a bank CSV file into statement lines.
type Parser interface {
	Parse(r io.Reader) ([]StatementLine, error)
	Format() string
}

// Registry holds named parsers.
type Registry struct {
	parsers map[string]Parser
}

// FileInfo describes a CSV file in the import directory.
type FileInfo struct {
	Name string
	Path string
	Size int64
}

// NewRegistry creates an empty parser registry.
func NewRegistry() *Registry {
	return &Registry{parsers: make(map[string]Parser)}
}

// Register adds a parser. Panics on duplicate format.
func (r *Registry) Register(p Parser) {
	key := strings.ToLower(p.Format())
	if _, ok := r.parsers[key]; ok {
		panic("duplicate parser format: " + key)
	}
	r.parsers[key] = p
}

// Get returns the parser for format, or nil.
func (r *Registry) Get(format string) Parser {
	return r.parsers[strings.ToLower(format)]
}

// DefaultRegistry returns a registry with all built-in parsers.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(&ChaseParser{})
	r.Register(&GenericParser{})
	return r
}

// Target says where imported lines are booked.
type Target struct {
	Account model.AccountID
	Ledger  *model.LedgerID
}

// ToTransactions maps statement lines onto unrecorded transactions against
// target: money in becomes income, money out becomes an expense. Zero lines
// are dropped. Lines of one statement sharing a reference are numbered apart
// (#2, #3, ...) so each keeps its own.
func ToTransactions(lines []StatementLine, target Target) []model.Transaction {
	var out []model.Transaction
	seen := make(map[string]int)
	for _, l := range lines {
		var tx model.Transaction
		switch {
		case l.Amount.IsPositive():
			tx = model.NewIncome(l.Date, l.Amount, model.Ptr(target.Account))
		case l.Amount.IsNegative():
			tx = model.NewExpense(l.Date, l.Amount.Neg(), model.Ptr(target.Account))
		default:
			continue
		}
		tx.Note = l.Description
		tx.LedgerID = target.Ledger
		if l.Reference != "" {
			seen[l.Reference]++
			tx.Reference = l.Reference
			if n := seen[l.Reference]; n > 1 {
				tx.Reference = fmt.Sprintf("%s#%d", l.Reference, n)
			}
		}
		out = append(out, tx)
	}
	return out
}

// importDir is the subdirectory for import CSVs.
const importDir = "import"

// processedDir is the subdirectory for processed CSVs.
const processedDir = "import/processed"

// Scan returns CSV files in <home>/import/.
func Scan(home string) ([]FileInfo, error) {
	dir := filepath.Join(home, importDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading import dir: %w", err)
	}

	var files []FileInfo
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if !strings.HasSuffix(strings.ToLower(e.Name()), ".csv") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", e.Name(), err)
		}
		files = append(files, FileInfo{
			Name: e.Name(),
			Path: filepath.Join(dir, e.Name()),
			Size: info.Size(),
		})
	}
	return files, nil
}

// MarkProcessed moves a file from import/ to import/processed/.
func MarkProcessed(home, fileName string) error {
	src := filepath.Join(home, importDir, fileName)
	dstDir := filepath.Join(home, processedDir)

	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return fmt.Errorf("creating processed dir: %w", err)
	}

	dst := filepath.Join(dstDir, fileName)
	if err := os.Rename(src, dst); err != nil {
		return fmt.Errorf("moving %s to processed: %w", fileName, err)
	}
	return nil
}
