package book

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/cleared-dev/pocketbook/internal/amortization"
	"github.com/cleared-dev/pocketbook/internal/model"
	"github.com/cleared-dev/pocketbook/internal/money"
)

// LoanParams are the terms of a new loan account.
type LoanParams struct {
	Name                string
	Note                string
	LoanAmount          decimal.Decimal
	TotalPeriods        int
	RepaidPeriods       int
	AnnualInterestRate  decimal.Decimal // percent
	RepaymentType       model.RepaymentType
	RepaymentDay        int
	StartDate           time.Time
	DisbursementAccount *model.AccountID
}

func (p LoanParams) detail() *model.LoanDetail {
	return &model.LoanDetail{
		TotalPeriods:        p.TotalPeriods,
		RepaidPeriods:       p.RepaidPeriods,
		AnnualInterestRate:  p.AnnualInterestRate,
		LoanAmount:          money.Round(p.LoanAmount),
		RepaymentType:       p.RepaymentType,
		DisbursementAccount: p.DisbursementAccount,
		RepaymentDay:        p.RepaymentDay,
		StartDate:           p.StartDate,
		Status:              model.LoanActive,
	}
}

func (p LoanParams) validate() error {
	if p.Name == "" {
		return &model.ValidationError{Field: "name", Message: "account name is required"}
	}
	if err := (amortization.Terms{
		Principal:  p.LoanAmount,
		Periods:    p.TotalPeriods,
		AnnualRate: p.AnnualInterestRate,
		Type:       p.RepaymentType,
	}).Validate(); err != nil {
		return err
	}
	if p.RepaidPeriods < 0 || p.RepaidPeriods > p.TotalPeriods {
		return fmt.Errorf("repaid periods %d of %d: %w", p.RepaidPeriods, p.TotalPeriods, model.ErrPeriodOutOfRange)
	}
	if p.RepaymentDay < 0 || p.RepaymentDay > 31 {
		return &model.ValidationError{Field: "repayment_day", Message: "repayment day must be between 1 and 31"}
	}
	return nil
}

// CreateLoan opens a loan account. When a disbursement account is given it
// receives the loan amount through an income transaction.
func (b *Book) CreateLoan(p LoanParams) (model.AccountID, error) {
	fields := []zap.Field{zap.String("name", p.Name)}
	if err := p.validate(); err != nil {
		return 0, b.reject("create loan", err, fields...)
	}
	if p.StartDate.IsZero() {
		p.StartDate = b.today()
	}
	s := b.begin()
	detail := p.detail()
	detail.RemainingAmount = amortization.TermsOf(detail).RemainingAfter(p.RepaidPeriods)
	amortization.CheckAndUpdateStatus(detail)

	a := &model.Account{
		ID:                  model.AccountID(s.newID()),
		Name:                p.Name,
		Kind:                model.KindLoan,
		Category:            model.DefaultCategory(model.KindLoan),
		OwnerID:             b.owner.ID,
		Balance:             decimal.Zero,
		Note:                p.Note,
		IncludedInNetAssets: true,
		Loan:                detail,
	}
	s.accounts[a.ID] = a

	if p.DisbursementAccount != nil {
		tx := model.NewIncome(p.StartDate, detail.LoanAmount, p.DisbursementAccount)
		tx.Note = "loan disbursement: " + p.Name
		tx.ID = model.TransactionID(s.newID())
		if err := s.record(&tx); err != nil {
			return 0, b.reject("create loan", err, fields...)
		}
	}
	b.commit(s, "loan created", append(fields,
		zap.Int64("account_id", int64(a.ID)), zap.Stringer("remaining", detail.RemainingAmount))...)
	return a.ID, nil
}

func (s *stage) loanAccount(id model.AccountID) (*model.Account, error) {
	a, err := s.account(id)
	if err != nil {
		return nil, err
	}
	if a.Kind != model.KindLoan {
		return nil, fmt.Errorf("%s account %d is not a loan: %w", a.Kind, id, model.ErrUnsupportedOperation)
	}
	return a, nil
}

// RepayLoan pays the next full period and returns the payment.
func (b *Book) RepayLoan(id model.AccountID, source *model.AccountID) (decimal.Decimal, error) {
	fields := []zap.Field{zap.Int64("account_id", int64(id))}
	s := b.begin()
	a, err := s.loanAccount(id)
	if err != nil {
		return decimal.Zero, b.reject("repay loan", err, fields...)
	}
	payment, err := amortization.Repay(a.Loan)
	if err != nil {
		return decimal.Zero, b.reject("repay loan", err, fields...)
	}
	if err := s.debitSource(source, payment); err != nil {
		return decimal.Zero, b.reject("repay loan", err, fields...)
	}
	b.commit(s, "loan repaid", append(fields,
		zap.Stringer("payment", payment), zap.Int("repaid_periods", a.Loan.RepaidPeriods))...)
	return payment, nil
}

// RepayLoanAmount pays an arbitrary amount off a loan. Whole periods covered
// by amount advance the repaid count, which is returned.
func (b *Book) RepayLoanAmount(id model.AccountID, amount decimal.Decimal, source *model.AccountID) (int, error) {
	fields := []zap.Field{zap.Int64("account_id", int64(id)), zap.Stringer("amount", amount)}
	s := b.begin()
	a, err := s.loanAccount(id)
	if err != nil {
		return 0, b.reject("repay loan amount", err, fields...)
	}
	covered, err := amortization.RepayAmount(a.Loan, amount)
	if err != nil {
		return 0, b.reject("repay loan amount", err, fields...)
	}
	if err := s.debitSource(source, money.Round(amount)); err != nil {
		return 0, b.reject("repay loan amount", err, fields...)
	}
	b.commit(s, "loan amount repaid", append(fields, zap.Int("periods", covered))...)
	return covered, nil
}

// LoanSchedule returns the full repayment schedule of a loan.
func (b *Book) LoanSchedule(id model.AccountID) ([]amortization.Period, error) {
	a, ok := b.accounts[id]
	if !ok {
		return nil, fmt.Errorf("account %d: %w", id, model.ErrNotFound)
	}
	if a.Loan == nil {
		return nil, fmt.Errorf("%s account %d is not a loan: %w", a.Kind, id, model.ErrUnsupportedOperation)
	}
	return amortization.TermsOf(a.Loan).Schedule(), nil
}
