package caseclient

import (
	"path/filepath"
	"strings"

	"caseclient/model"
)

// Wire payloads for the case-create request. Key spellings are part of the
// remote API's schema and must not change.

type filePayload struct {
	FileName          string `json:"FileName"`
	GeneratedFileName string `json:"GeneratedFileName"`
	Description       string `json:"Description"`
	CategoryID        int    `json:"CategoryID"`
	MimeType          string `json:"MimeType"`
}

type companyPayload struct {
	Type                      string        `json:"Type,omitempty"`
	CompanyName               string        `json:"CompanyName"`
	LegalStatus               int           `json:"LegalStatus"`
	TradingAddressLine1       string        `json:"TradingAddressLine1"`
	TradingAddressLine2       string        `json:"TradingAddressLine2"`
	TradingAddressLine3       string        `json:"TradingAddressLine3"`
	TradingAddressLine4       string        `json:"TradingAddressLine4"`
	TradingAddressPostcode    string        `json:"TradingAddressPostcode"`
	RegisteredAddressLine1    string        `json:"RegisteredAddressLine1"`
	RegisteredAddressLine2    string        `json:"RegisteredAddressLine2"`
	RegisteredAddressLine3    string        `json:"RegisteredAddressLine3"`
	RegisteredAddressLine4    string        `json:"RegisteredAddressLine4"`
	RegisteredAddressPostcode string        `json:"RegisteredAddressPostcode"`
	Telephone                 string        `json:"Telephone"`
	Email                     string        `json:"Email"`
	Website                   string        `json:"Website"`
	Notes                     string        `json:"Notes"`
	IncorporationDate         string        `json:"IncorporationDate"`
	CompanyRegistrationNo     string        `json:"CompanyRegistrationNo"`
	SicCodes                  string        `json:"SicCodes"`
	Position                  int           `json:"Position"`
	Files                     []filePayload `json:"Files"`
}

type personPayload struct {
	Type               string        `json:"Type"`
	Title              string        `json:"Title"`
	Forename           string        `json:"Forename"`
	MiddleName         string        `json:"MiddleName"`
	Surname            string        `json:"Surname"`
	DOB                string        `json:"DOB"`
	AddressLine1       string        `json:"AddressLine1"`
	AddressLine2       string        `json:"AddressLine2"`
	AddressLine3       string        `json:"AddressLine3"`
	AddressLine4       string        `json:"AddressLine4"`
	AddressPostcode    string        `json:"AddressPostcode"`
	DayPhone           string        `json:"DayPhone"`
	MobilePhone        string        `json:"MobilePhone"`
	Email              string        `json:"Email"`
	Notes              string        `json:"Notes"`
	Position           int           `json:"Position"`
	Gender             int           `json:"Gender"`
	Files              []filePayload `json:"Files"`
	PassportForename   string        `json:"PassportForename"`
	PassportMiddleName string        `json:"PassportMiddleName"`
	PassportSurname    string        `json:"PassportSurname"`
}

type loanPayload struct {
	FacilityAmountRequested int64         `json:"FacilityAmountRequested"`
	FacilityUse             string        `json:"FacilityUse"`
	Files                   []filePayload `json:"Files"`
}

type casePayload struct {
	Primary            companyPayload `json:"Primary"`
	Loan               loanPayload    `json:"Loan"`
	Entities           []any          `json:"Entities"`
	PrimaryContactName string         `json:"PrimaryContactName"`
}

func filePayloadsFrom(files []*model.File) []filePayload {
	out := make([]filePayload, 0, len(files))
	for _, f := range files {
		out = append(out, filePayload{
			FileName:          fileBaseName(f.NameAndPath()),
			GeneratedFileName: f.UploadPath(),
			Description:       f.Description(),
			CategoryID:        f.CategoryID(),
			MimeType:          f.MimeType(),
		})
	}
	return out
}

// fileBaseName strips the directory and extension from a local path; the
// remote system names the document from it.
func fileBaseName(nameAndPath string) string {
	base := filepath.Base(nameAndPath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func companyPayloadFrom(c *model.Company, entityType string) (companyPayload, error) {
	inc, err := c.IncorporationDate()
	if err != nil {
		return companyPayload{}, err
	}
	trading := c.TradingAddress()
	registered := c.RegisteredAddress()
	return companyPayload{
		Type:                      entityType,
		CompanyName:               c.Name(),
		LegalStatus:               int(c.LegalStatus()),
		TradingAddressLine1:       trading.Line1,
		TradingAddressLine2:       trading.Line2,
		TradingAddressLine3:       trading.Line3,
		TradingAddressLine4:       trading.Line4,
		TradingAddressPostcode:    trading.Postcode,
		RegisteredAddressLine1:    registered.Line1,
		RegisteredAddressLine2:    registered.Line2,
		RegisteredAddressLine3:    registered.Line3,
		RegisteredAddressLine4:    registered.Line4,
		RegisteredAddressPostcode: registered.Postcode,
		Telephone:                 c.Telephone(),
		Email:                     c.Email(),
		Website:                   c.Website(),
		Notes:                     c.Notes(),
		IncorporationDate:         inc.Format(model.DateTimeFormat),
		CompanyRegistrationNo:     c.RegistrationNumber(),
		SicCodes:                  c.SICCodes(),
		Position:                  c.Position(),
		Files:                     filePayloadsFrom(c.Files()),
	}, nil
}

func personPayloadFrom(p *model.Person) (personPayload, error) {
	dob, err := p.DateOfBirth()
	if err != nil {
		return personPayload{}, err
	}
	addr := p.Address()
	return personPayload{
		Type:               "Person",
		Title:              string(p.Title()),
		Forename:           p.Forename(),
		MiddleName:         p.MiddleName(),
		Surname:            p.Surname(),
		DOB:                dob.Format(model.DateTimeFormat),
		AddressLine1:       addr.Line1,
		AddressLine2:       addr.Line2,
		AddressLine3:       addr.Line3,
		AddressLine4:       addr.Line4,
		AddressPostcode:    addr.Postcode,
		DayPhone:           p.DayPhone(),
		MobilePhone:        p.MobilePhone(),
		Email:              p.Email(),
		Notes:              p.Notes(),
		Position:           p.Position(),
		Gender:             int(p.Gender()),
		Files:              filePayloadsFrom(p.Files()),
		PassportForename:   p.PassportForename(),
		PassportMiddleName: p.PassportMiddleName(),
		PassportSurname:    p.PassportSurname(),
	}, nil
}

func loanPayloadFrom(l *model.Loan) loanPayload {
	return loanPayload{
		FacilityAmountRequested: l.Amount(),
		FacilityUse:             l.Use(),
		Files:                   filePayloadsFrom(l.Files()),
	}
}
