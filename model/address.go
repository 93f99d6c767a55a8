package model

// Address is up to four free-text lines plus a UK postcode. All parts are
// optional; the postcode is validated when present.
type Address struct {
	Line1    string
	Line2    string
	Line3    string
	Line4    string
	Postcode string
}
