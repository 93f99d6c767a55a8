package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"caseclient/category"
	"caseclient/model"
)

// manifest mirrors the YAML document the submit command reads. Categories
// are referenced by taxonomy name so manifests survive taxonomy renumbering.
type manifest struct {
	Primary    companyManifest `mapstructure:"primary"`
	Loan       loanManifest    `mapstructure:"loan"`
	Applicants struct {
		Persons   []personManifest  `mapstructure:"persons"`
		Companies []companyManifest `mapstructure:"companies"`
	} `mapstructure:"applicants"`
}

type fileManifest struct {
	Path        string `mapstructure:"path"`
	MimeType    string `mapstructure:"mime_type"`
	Description string `mapstructure:"description"`
	Category    string `mapstructure:"category"`
}

type addressManifest struct {
	Line1    string `mapstructure:"line1"`
	Line2    string `mapstructure:"line2"`
	Line3    string `mapstructure:"line3"`
	Line4    string `mapstructure:"line4"`
	Postcode string `mapstructure:"postcode"`
}

type companyManifest struct {
	Name               string          `mapstructure:"name"`
	RegistrationNumber string          `mapstructure:"registration_number"`
	IncorporationDate  string          `mapstructure:"incorporation_date"`
	SICCodes           string          `mapstructure:"sic_codes"`
	LegalStatus        *int            `mapstructure:"legal_status"`
	TradingAddress     addressManifest `mapstructure:"trading_address"`
	RegisteredAddress  addressManifest `mapstructure:"registered_address"`
	Telephone          string          `mapstructure:"telephone"`
	Email              string          `mapstructure:"email"`
	Website            string          `mapstructure:"website"`
	Notes              string          `mapstructure:"notes"`
	Position           int             `mapstructure:"position"`
	Files              []fileManifest  `mapstructure:"files"`
}

type personManifest struct {
	Forename       string          `mapstructure:"forename"`
	MiddleName     string          `mapstructure:"middle_name"`
	Surname        string          `mapstructure:"surname"`
	DateOfBirth    string          `mapstructure:"date_of_birth"`
	Gender         string          `mapstructure:"gender"`
	Title          string          `mapstructure:"title"`
	Address        addressManifest `mapstructure:"address"`
	DayPhone       string          `mapstructure:"day_phone"`
	MobilePhone    string          `mapstructure:"mobile_phone"`
	Email          string          `mapstructure:"email"`
	Notes          string          `mapstructure:"notes"`
	Position       int             `mapstructure:"position"`
	PrimaryContact bool            `mapstructure:"primary_contact"`
	Files          []fileManifest  `mapstructure:"files"`
}

type loanManifest struct {
	Amount int64          `mapstructure:"amount"`
	Use    string         `mapstructure:"use"`
	Files  []fileManifest `mapstructure:"files"`
}

func readManifest(path string) (*manifest, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	var m manifest
	if err := v.Unmarshal(&m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	return &m, nil
}

func buildFiles(tax *category.Taxonomy, specs []fileManifest) ([]*model.File, error) {
	files := make([]*model.File, 0, len(specs))
	for _, s := range specs {
		cat, ok := tax.ByName(s.Category)
		if !ok {
			return nil, fmt.Errorf("file %s: unknown category %q", s.Path, s.Category)
		}
		f, err := model.NewFileInTaxonomy(tax, s.Path, s.MimeType, s.Description, cat.ID)
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, nil
}

func buildCompany(tax *category.Taxonomy, m companyManifest) (*model.Company, error) {
	files, err := buildFiles(tax, m.Files)
	if err != nil {
		return nil, err
	}
	inc, err := time.Parse(model.DateTimeFormat, m.IncorporationDate)
	if err != nil {
		return nil, fmt.Errorf("company %s: incorporation_date: %w", m.Name, err)
	}
	var ls *model.LegalStatus
	if m.LegalStatus != nil {
		v := model.LegalStatus(*m.LegalStatus)
		ls = &v
	}
	return model.NewCompany(model.CompanyParams{
		Name:               m.Name,
		RegistrationNumber: m.RegistrationNumber,
		IncorporationDate:  inc,
		SICCodes:           m.SICCodes,
		LegalStatus:        ls,
		TradingAddress:     address(m.TradingAddress),
		RegisteredAddress:  address(m.RegisteredAddress),
		Telephone:          m.Telephone,
		Email:              m.Email,
		Website:            m.Website,
		Notes:              m.Notes,
		Position:           m.Position,
		Files:              files,
	})
}

func buildPerson(tax *category.Taxonomy, m personManifest) (*model.Person, error) {
	files, err := buildFiles(tax, m.Files)
	if err != nil {
		return nil, err
	}
	dob, err := time.Parse(model.DateTimeFormat, m.DateOfBirth)
	if err != nil {
		return nil, fmt.Errorf("person %s %s: date_of_birth: %w", m.Forename, m.Surname, err)
	}
	gender, err := parseGender(m.Gender)
	if err != nil {
		return nil, fmt.Errorf("person %s %s: %w", m.Forename, m.Surname, err)
	}
	return model.NewPerson(model.PersonParams{
		Forename:       m.Forename,
		MiddleName:     m.MiddleName,
		Surname:        m.Surname,
		DateOfBirth:    dob,
		Gender:         gender,
		Title:          model.Title(m.Title),
		Address:        address(m.Address),
		DayPhone:       m.DayPhone,
		MobilePhone:    m.MobilePhone,
		Email:          m.Email,
		Notes:          m.Notes,
		Position:       m.Position,
		PrimaryContact: m.PrimaryContact,
		Files:          files,
	})
}

func buildLoan(tax *category.Taxonomy, m loanManifest) (*model.Loan, error) {
	files, err := buildFiles(tax, m.Files)
	if err != nil {
		return nil, err
	}
	return model.NewLoan(m.Amount, m.Use, files)
}

func address(a addressManifest) model.Address {
	return model.Address{
		Line1:    a.Line1,
		Line2:    a.Line2,
		Line3:    a.Line3,
		Line4:    a.Line4,
		Postcode: a.Postcode,
	}
}

func parseGender(s string) (model.Gender, error) {
	switch strings.ToLower(s) {
	case "male":
		return model.GenderMale, nil
	case "female":
		return model.GenderFemale, nil
	default:
		return 0, fmt.Errorf("unknown gender %q", s)
	}
}
