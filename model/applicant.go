package model

// Applicant is the closed set of party records that may appear in a case's
// applicant list: *Person or *Company. The unexported method keeps the set
// sealed so the submission workflow can partition applicants exhaustively.
type Applicant interface {
	applicant()
}
