package model

import (
	"caseclient/category"
)

// Loan is the requested facility plus its supporting files.
type Loan struct {
	amount int64
	use    string
	files  []*File
}

// NewLoan validates and builds a loan record. The facility amount must not
// be negative; attached files must carry loan categories.
func NewLoan(amount int64, use string, files []*File) (*Loan, error) {
	if amount < 0 {
		return nil, &ValidationError{Field: "FacilityAmount", Value: amount,
			Reason: "is not a valid facility amount"}
	}
	if err := checkFileCategories(files, category.KindLoan); err != nil {
		return nil, err
	}
	return &Loan{amount: amount, use: use, files: copyFiles(files)}, nil
}

// Amount returns the requested facility amount.
func (l *Loan) Amount() int64 { return l.amount }

// Use returns the free-text facility use.
func (l *Loan) Use() string { return l.use }

// Files returns the attached files in attachment order.
func (l *Loan) Files() []*File { return copyFiles(l.files) }

// AddFile re-validates the file's category against the loan allow-list and
// appends it.
func (l *Loan) AddFile(f *File) error {
	if err := checkFileCategories([]*File{f}, category.KindLoan); err != nil {
		return err
	}
	l.files = append(l.files, f)
	return nil
}
