package model

import (
	"time"

	"caseclient/category"
)

// LegalStatus enumerates the recognised company legal forms.
type LegalStatus int

const (
	LegalStatusSoleTrader LegalStatus = iota
	LegalStatusLLP
	LegalStatusOrdinaryPartnership
	LegalStatusLimitedCompany
	LegalStatusPLC
	LegalStatusCharity
)

// CompanyParams carries the inputs to NewCompany. LegalStatus is optional;
// leave it nil and the record reports LegalStatusLimitedCompany.
type CompanyParams struct {
	Name               string
	RegistrationNumber string
	IncorporationDate  time.Time
	// SICCodes is a comma separated list of 5-digit codes, or empty.
	SICCodes          string
	LegalStatus       *LegalStatus
	TradingAddress    Address
	RegisteredAddress Address
	Telephone         string
	Email             string
	Website           string
	Notes             string
	Position          int
	Files             []*File
}

// Company is a business party: either the primary company the application is
// made on behalf of, or an applicant entity.
type Company struct {
	name               string
	registrationNumber string
	incorporationDate  string
	sicCodes           string
	legalStatus        *LegalStatus
	tradingAddress     Address
	registeredAddress  Address
	telephone          string
	email              string
	website            string
	notes              string
	position           int
	files              []*File
}

func (*Company) applicant() {}

// NewCompany validates the parameters and builds a company record.
// Validation stops at the first violated rule; the check order is fixed so
// error messages are deterministic.
func NewCompany(p CompanyParams) (*Company, error) {
	if !ValidRegistrationNumber(p.RegistrationNumber) {
		return nil, &ValidationError{Field: "CompanyRegistrationNumber", Value: p.RegistrationNumber,
			Reason: "is not a valid company registration number"}
	}

	if p.SICCodes != "" && !ValidSICCodes(p.SICCodes) {
		return nil, &ValidationError{Field: "SICCodes", Value: p.SICCodes,
			Reason: "is not a valid comma separated list of sic codes"}
	}

	if p.LegalStatus != nil && (*p.LegalStatus < LegalStatusSoleTrader || *p.LegalStatus > LegalStatusCharity) {
		return nil, &ValidationError{Field: "LegalStatus", Value: int(*p.LegalStatus),
			Reason: "is not a valid legal status id"}
	}

	if p.TradingAddress.Postcode != "" && !ValidPostcode(p.TradingAddress.Postcode) {
		return nil, &ValidationError{Field: "TradingAddressPostcode", Value: p.TradingAddress.Postcode,
			Reason: "is not a valid UK postcode"}
	}

	if p.RegisteredAddress.Postcode != "" && !ValidPostcode(p.RegisteredAddress.Postcode) {
		return nil, &ValidationError{Field: "RegisteredAddressPostcode", Value: p.RegisteredAddress.Postcode,
			Reason: "is not a valid UK postcode"}
	}

	if p.Telephone != "" && !ValidTelephone(p.Telephone) {
		return nil, &ValidationError{Field: "Telephone", Value: p.Telephone,
			Reason: "is not a valid UK phone number"}
	}

	if p.Email != "" && !ValidEmail(p.Email) {
		return nil, &ValidationError{Field: "Email", Value: p.Email,
			Reason: "is not a valid email address"}
	}

	if p.Position < 0 || p.Position > positionMax {
		return nil, &ValidationError{Field: "Position", Value: p.Position, Reason: "is not a valid position"}
	}

	if err := checkFileCategories(p.Files, category.KindCompany); err != nil {
		return nil, err
	}

	var ls *LegalStatus
	if p.LegalStatus != nil {
		v := *p.LegalStatus
		ls = &v
	}

	return &Company{
		name:               p.Name,
		registrationNumber: p.RegistrationNumber,
		incorporationDate:  p.IncorporationDate.Format(DateTimeFormat),
		sicCodes:           p.SICCodes,
		legalStatus:        ls,
		tradingAddress:     p.TradingAddress,
		registeredAddress:  p.RegisteredAddress,
		telephone:          p.Telephone,
		email:              p.Email,
		website:            p.Website,
		notes:              p.Notes,
		position:           p.Position,
		files:              copyFiles(p.Files),
	}, nil
}

func (c *Company) Name() string               { return c.name }
func (c *Company) RegistrationNumber() string { return c.registrationNumber }

// IncorporationDate parses the stored date back through DateTimeFormat. A
// parse failure means the record was corrupted after construction.
func (c *Company) IncorporationDate() (time.Time, error) {
	t, err := time.Parse(DateTimeFormat, c.incorporationDate)
	if err != nil {
		return time.Time{}, &DateDecodeError{Field: "incorporation date", Raw: c.incorporationDate, Err: err}
	}
	return t, nil
}

func (c *Company) SICCodes() string { return c.sicCodes }

// LegalStatus returns the declared legal form, defaulting to
// LegalStatusLimitedCompany when none was supplied.
func (c *Company) LegalStatus() LegalStatus {
	if c.legalStatus == nil {
		return LegalStatusLimitedCompany
	}
	return *c.legalStatus
}

func (c *Company) TradingAddress() Address    { return c.tradingAddress }
func (c *Company) RegisteredAddress() Address { return c.registeredAddress }
func (c *Company) Telephone() string          { return c.telephone }
func (c *Company) Email() string              { return c.email }
func (c *Company) Website() string            { return c.website }
func (c *Company) Notes() string              { return c.notes }
func (c *Company) Position() int              { return c.position }

// Files returns the attached files in attachment order.
func (c *Company) Files() []*File { return copyFiles(c.files) }

// AddFile re-validates the file's category against the company allow-list
// and appends it.
func (c *Company) AddFile(f *File) error {
	if err := checkFileCategories([]*File{f}, category.KindCompany); err != nil {
		return err
	}
	c.files = append(c.files, f)
	return nil
}
