package model

import (
	"time"

	"caseclient/category"
)

// Gender values accepted by the case API.
type Gender int

const (
	GenderMale   Gender = 0
	GenderFemale Gender = 1
)

// Title values accepted by the case API. The empty string means no title.
type Title string

const (
	TitleMr   Title = "Mr"
	TitleMrs  Title = "Mrs"
	TitleMiss Title = "Miss"
	TitleMs   Title = "Ms"
	TitleDr   Title = "Dr"
)

// Position bitmask flags describing a party's role in the application.
const (
	PositionDirector  = 1
	PositionGuarantor = 2
	PositionPSC       = 4
	PositionNoContact = 8

	positionMax = PositionDirector + PositionGuarantor + PositionPSC + PositionNoContact
)

// PersonParams carries the inputs to NewPerson. Optional strings may be left
// empty; Position defaults to 0.
type PersonParams struct {
	Forename    string
	MiddleName  string
	Surname     string
	DateOfBirth time.Time
	Gender      Gender
	Title       Title
	Address     Address
	DayPhone    string
	MobilePhone string
	Email       string
	Notes       string
	Position    int
	// PrimaryContact marks this person as the case's main point of contact.
	// Exactly one applicant person should carry it.
	PrimaryContact bool

	PassportForename   string
	PassportMiddleName string
	PassportSurname    string

	Files []*File
}

// Person is an individual party to the application.
type Person struct {
	forename       string
	middleName     string
	surname        string
	dob            string
	gender         Gender
	title          Title
	address        Address
	dayPhone       string
	mobilePhone    string
	email          string
	notes          string
	position       int
	primaryContact bool

	passportForename   string
	passportMiddleName string
	passportSurname    string

	files []*File
}

func (*Person) applicant() {}

// NewPerson validates the parameters and builds a person record. Validation
// stops at the first violated rule.
func NewPerson(p PersonParams) (*Person, error) {
	if p.Gender != GenderMale && p.Gender != GenderFemale {
		return nil, &ValidationError{Field: "Gender", Value: int(p.Gender), Reason: "is not a valid gender"}
	}

	switch p.Title {
	case "", TitleMr, TitleMrs, TitleMiss, TitleMs, TitleDr:
	default:
		return nil, &ValidationError{Field: "Title", Value: string(p.Title), Reason: "is not a valid title"}
	}

	if p.Address.Postcode != "" && !ValidPostcode(p.Address.Postcode) {
		return nil, &ValidationError{Field: "AddressPostcode", Value: p.Address.Postcode, Reason: "is not a valid UK postcode"}
	}

	if p.Position < 0 || p.Position > positionMax {
		return nil, &ValidationError{Field: "Position", Value: p.Position, Reason: "is not a valid position"}
	}

	if err := checkFileCategories(p.Files, category.KindPerson); err != nil {
		return nil, err
	}

	return &Person{
		forename:           p.Forename,
		middleName:         p.MiddleName,
		surname:            p.Surname,
		dob:                p.DateOfBirth.Format(DateTimeFormat),
		gender:             p.Gender,
		title:              p.Title,
		address:            p.Address,
		dayPhone:           p.DayPhone,
		mobilePhone:        p.MobilePhone,
		email:              p.Email,
		notes:              p.Notes,
		position:           p.Position,
		primaryContact:     p.PrimaryContact,
		passportForename:   p.PassportForename,
		passportMiddleName: p.PassportMiddleName,
		passportSurname:    p.PassportSurname,
		files:              copyFiles(p.Files),
	}, nil
}

func (p *Person) Forename() string   { return p.forename }
func (p *Person) MiddleName() string { return p.middleName }
func (p *Person) Surname() string    { return p.surname }

// DateOfBirth parses the stored date back through DateTimeFormat. A parse
// failure means the record was corrupted after construction.
func (p *Person) DateOfBirth() (time.Time, error) {
	t, err := time.Parse(DateTimeFormat, p.dob)
	if err != nil {
		return time.Time{}, &DateDecodeError{Field: "date of birth", Raw: p.dob, Err: err}
	}
	return t, nil
}

func (p *Person) Gender() Gender          { return p.gender }
func (p *Person) Title() Title            { return p.title }
func (p *Person) Address() Address        { return p.address }
func (p *Person) DayPhone() string        { return p.dayPhone }
func (p *Person) MobilePhone() string     { return p.mobilePhone }
func (p *Person) Email() string           { return p.email }
func (p *Person) Notes() string           { return p.notes }
func (p *Person) Position() int           { return p.position }
func (p *Person) IsPrimaryContact() bool  { return p.primaryContact }
func (p *Person) PassportForename() string   { return p.passportForename }
func (p *Person) PassportMiddleName() string { return p.passportMiddleName }
func (p *Person) PassportSurname() string    { return p.passportSurname }

// Files returns the attached files in attachment order.
func (p *Person) Files() []*File { return copyFiles(p.files) }

// AddFile re-validates the file's category against the person allow-list and
// appends it.
func (p *Person) AddFile(f *File) error {
	if err := checkFileCategories([]*File{f}, category.KindPerson); err != nil {
		return err
	}
	p.files = append(p.files, f)
	return nil
}

func checkFileCategories(files []*File, kind category.Kind) error {
	for i, f := range files {
		if f == nil {
			return &ValidationError{Field: "Files", Value: i, Reason: "element is not a file record"}
		}
		if !f.Category().Allows(kind) {
			return &CategoryNotAllowedError{Category: f.Category(), Kind: kind, Path: f.NameAndPath()}
		}
	}
	return nil
}

func copyFiles(files []*File) []*File {
	out := make([]*File, len(files))
	copy(out, files)
	return out
}
