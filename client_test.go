package caseclient

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"caseclient/model"
	"caseclient/transport"
	"caseclient/transport/mocks"
)

var testConfig = Config{
	APIBaseURL:   "https://api.crm.example.com",
	AuthEndpoint: "https://auth.crm.example.com/oauth/token",
}

func writeTestFile(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte("contents of "+name), 0o644))
	return path
}

// newSubmission builds a primary company, a loan, a person applicant and a
// company applicant, each carrying one file, giving four files in collection
// order: primary, loan, person, applicant company.
func newSubmission(t *testing.T) (*model.Company, *model.Loan, []model.Applicant) {
	t.Helper()

	searches, err := model.NewFile(writeTestFile(t, "searches.pdf"), "application/pdf", "company searches", 1)
	require.NoError(t, err)
	sourcing, err := model.NewFile(writeTestFile(t, "sourcing.pdf"), "application/pdf", "sourcing results", 10)
	require.NoError(t, err)
	passport, err := model.NewFile(writeTestFile(t, "passport.jpg"), "image/jpeg", "passport scan", 8)
	require.NoError(t, err)
	accounts, err := model.NewFile(writeTestFile(t, "accounts.pdf"), "application/pdf", "filed accounts", 4)
	require.NoError(t, err)

	primary, err := model.NewCompany(model.CompanyParams{
		Name:               "Acme Lending Ltd",
		RegistrationNumber: "12345678",
		IncorporationDate:  time.Date(2015, 3, 1, 0, 0, 0, 0, time.UTC),
		Files:              []*model.File{searches},
	})
	require.NoError(t, err)

	loan, err := model.NewLoan(250000, "working capital", []*model.File{sourcing})
	require.NoError(t, err)

	person, err := model.NewPerson(model.PersonParams{
		Forename:       "Jane",
		Surname:        "Doe",
		DateOfBirth:    time.Date(1990, 6, 15, 0, 0, 0, 0, time.UTC),
		Gender:         model.GenderFemale,
		Title:          model.TitleMs,
		Position:       model.PositionDirector,
		PrimaryContact: true,
		Files:          []*model.File{passport},
	})
	require.NoError(t, err)

	applicant, err := model.NewCompany(model.CompanyParams{
		Name:               "Holdings Ltd",
		RegistrationNumber: "AB123456",
		IncorporationDate:  time.Date(2010, 1, 1, 0, 0, 0, 0, time.UTC),
		Files:              []*model.File{accounts},
	})
	require.NoError(t, err)

	return primary, loan, []model.Applicant{person, applicant}
}

func urlMatcher(suffix string) any {
	return mock.MatchedBy(func(req transport.Request) bool {
		return strings.HasSuffix(req.URL, suffix)
	})
}

func jsonResponse(body string) *transport.Response {
	return &transport.Response{Status: http.StatusOK, Body: []byte(body)}
}

func TestNewFromToken(t *testing.T) {
	rt := new(mocks.MockRequester)

	c, err := NewFromToken(testConfig, rt, "tok-123")
	require.NoError(t, err)
	assert.Equal(t, "tok-123", c.Token())

	_, err = NewFromToken(testConfig, rt, "")
	assert.Error(t, err)

	_, err = NewFromToken(Config{}, rt, "tok-123")
	assert.Error(t, err)

	_, err = NewFromToken(testConfig, nil, "tok-123")
	assert.Error(t, err)
}

func TestNewFromCredentials(t *testing.T) {
	rt := new(mocks.MockRequester)

	var captured transport.Request
	rt.On("Do", mock.Anything, mock.AnythingOfType("transport.Request")).
		Run(func(args mock.Arguments) { captured = args.Get(1).(transport.Request) }).
		Return(jsonResponse(`{"access_token":"tok-456","token_type":"Bearer"}`), nil).
		Once()

	c, err := NewFromCredentials(context.Background(), testConfig, rt, "client-id", "client-secret")
	require.NoError(t, err)
	assert.Equal(t, "tok-456", c.Token())

	assert.Equal(t, http.MethodPost, captured.Method)
	assert.Equal(t, testConfig.AuthEndpoint, captured.URL)

	ct, body, err := captured.Body.Build()
	require.NoError(t, err)
	assert.Equal(t, "application/json", ct)
	raw, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"grant_type": "client_credentials",
		"client_id": "client-id",
		"client_secret": "client-secret",
		"audience": "https://api.crm.example.com"
	}`, string(raw))

	rt.AssertExpectations(t)
}

func TestNewFromCredentials_Errors(t *testing.T) {
	tests := []struct {
		name   string
		resp   *transport.Response
		rtErr  error
		status int
	}{
		{
			name:   "upstream rejects the credentials",
			rtErr:  &transport.ClientError{Status: http.StatusUnauthorized, Reason: "Unauthorized", URL: testConfig.AuthEndpoint},
			status: http.StatusUnauthorized,
		},
		{
			name:   "upstream auth server failure",
			rtErr:  &transport.ServerError{Status: http.StatusServiceUnavailable, Reason: "Service Unavailable", URL: testConfig.AuthEndpoint},
			status: http.StatusServiceUnavailable,
		},
		{
			name:   "response is not json",
			resp:   jsonResponse("not json"),
			status: http.StatusOK,
		},
		{
			name:   "response has no access token",
			resp:   jsonResponse(`{"token_type":"Bearer"}`),
			status: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rt := new(mocks.MockRequester)
			rt.On("Do", mock.Anything, mock.Anything).Return(tt.resp, tt.rtErr).Once()

			c, err := NewFromCredentials(context.Background(), testConfig, rt, "id", "secret")
			assert.Nil(t, c)

			var ae *AuthError
			require.ErrorAs(t, err, &ae)
			assert.Equal(t, tt.status, ae.Status)
		})
	}
}

func TestSubmitApplication(t *testing.T) {
	primary, loan, applicants := newSubmission(t)

	rt := new(mocks.MockRequester)

	var uploadReq, caseReq transport.Request
	rt.On("Do", mock.Anything, urlMatcher("/upload")).
		Run(func(args mock.Arguments) { uploadReq = args.Get(1).(transport.Request) }).
		Return(jsonResponse(`{"0":"gen/searches","1":"gen/sourcing","2":"gen/passport","3":"gen/accounts"}`), nil).
		Once()
	rt.On("Do", mock.Anything, urlMatcher("/case")).
		Run(func(args mock.Arguments) { caseReq = args.Get(1).(transport.Request) }).
		Return(jsonResponse(`{"CasePK":42}`), nil).
		Once()

	c, err := NewFromToken(testConfig, rt, "tok-123")
	require.NoError(t, err)

	pk, err := c.SubmitApplication(context.Background(), primary, loan, applicants)
	require.NoError(t, err)
	assert.Equal(t, int64(42), pk)
	rt.AssertExpectations(t)

	// Upload request: raw token auth, parts keyed by collection index.
	assert.Equal(t, "tok-123", uploadReq.Header.Get("Authorization"))
	// The underlying file handles were closed once the upload returned, so
	// only the framing is inspected here; the end-to-end test covers content.
	ct, _, err := uploadReq.Body.Build()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(ct, "multipart/form-data"), "unexpected content type %q", ct)

	// Every file record now carries its assigned storage path.
	assert.Equal(t, "gen/searches", primary.Files()[0].UploadPath())
	assert.Equal(t, "gen/sourcing", loan.Files()[0].UploadPath())
	assert.Equal(t, "gen/passport", applicants[0].(*model.Person).Files()[0].UploadPath())
	assert.Equal(t, "gen/accounts", applicants[1].(*model.Company).Files()[0].UploadPath())

	// Case request: assembled document references the storage paths.
	assert.Equal(t, "tok-123", caseReq.Header.Get("Authorization"))
	ct, body, err := caseReq.Body.Build()
	require.NoError(t, err)
	assert.Equal(t, "application/json", ct)
	raw, err := io.ReadAll(body)
	require.NoError(t, err)

	var doc struct {
		Primary struct {
			CompanyName string `json:"CompanyName"`
			LegalStatus int    `json:"LegalStatus"`
			Files       []struct {
				FileName          string `json:"FileName"`
				GeneratedFileName string `json:"GeneratedFileName"`
				CategoryID        int    `json:"CategoryID"`
			} `json:"Files"`
		} `json:"Primary"`
		Loan struct {
			FacilityAmountRequested int64  `json:"FacilityAmountRequested"`
			FacilityUse             string `json:"FacilityUse"`
		} `json:"Loan"`
		Entities           []map[string]any `json:"Entities"`
		PrimaryContactName string           `json:"PrimaryContactName"`
	}
	require.NoError(t, json.Unmarshal(raw, &doc))

	assert.Equal(t, "Acme Lending Ltd", doc.Primary.CompanyName)
	assert.Equal(t, int(model.LegalStatusLimitedCompany), doc.Primary.LegalStatus)
	require.Len(t, doc.Primary.Files, 1)
	assert.Equal(t, "searches", doc.Primary.Files[0].FileName)
	assert.Equal(t, "gen/searches", doc.Primary.Files[0].GeneratedFileName)
	assert.Equal(t, 1, doc.Primary.Files[0].CategoryID)

	assert.Equal(t, int64(250000), doc.Loan.FacilityAmountRequested)
	assert.Equal(t, "working capital", doc.Loan.FacilityUse)

	require.Len(t, doc.Entities, 2)
	assert.Equal(t, "Person", doc.Entities[0]["Type"])
	assert.Equal(t, "Jane", doc.Entities[0]["Forename"])
	assert.Equal(t, "Company", doc.Entities[1]["Type"])
	assert.Equal(t, "Holdings Ltd", doc.Entities[1]["CompanyName"])

	assert.Equal(t, "Jane Doe", doc.PrimaryContactName)
}

func TestSubmitApplication_NoFilesSkipsUpload(t *testing.T) {
	primary, err := model.NewCompany(model.CompanyParams{
		Name:               "Acme Lending Ltd",
		RegistrationNumber: "12345678",
		IncorporationDate:  time.Date(2015, 3, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	loan, err := model.NewLoan(1000, "stock", nil)
	require.NoError(t, err)

	rt := new(mocks.MockRequester)
	rt.On("Do", mock.Anything, urlMatcher("/case")).
		Return(jsonResponse(`{"CasePK":7}`), nil).
		Once()

	c, err := NewFromToken(testConfig, rt, "tok-123")
	require.NoError(t, err)

	pk, err := c.SubmitApplication(context.Background(), primary, loan, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(7), pk)
	rt.AssertExpectations(t)
	rt.AssertNumberOfCalls(t, "Do", 1)
}

func TestSubmitApplication_MissingPrimaryContact(t *testing.T) {
	primary, loan, applicants := newSubmission(t)

	noContact, err := model.NewPerson(model.PersonParams{
		Forename:    "John",
		Surname:     "Smith",
		DateOfBirth: time.Date(1985, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	applicants[0] = noContact // replace the flagged person

	rt := new(mocks.MockRequester)
	rt.On("Do", mock.Anything, urlMatcher("/upload")).
		Return(jsonResponse(`{"0":"a","1":"b","2":"c"}`), nil).
		Once()

	c, err := NewFromToken(testConfig, rt, "tok-123")
	require.NoError(t, err)

	_, err = c.SubmitApplication(context.Background(), primary, loan, applicants)
	require.ErrorIs(t, err, ErrMissingPrimaryContact)

	// The case request is never issued.
	rt.AssertExpectations(t)
	rt.AssertNumberOfCalls(t, "Do", 1)
}

func TestSubmitApplication_CorrelationMismatch(t *testing.T) {
	primary, loan, applicants := newSubmission(t)

	rt := new(mocks.MockRequester)
	// Four files uploaded; key "3" never arrives and "9" is unasked-for.
	rt.On("Do", mock.Anything, urlMatcher("/upload")).
		Return(jsonResponse(`{"0":"a","1":"b","2":"c","9":"z"}`), nil).
		Once()

	c, err := NewFromToken(testConfig, rt, "tok-123")
	require.NoError(t, err)

	_, err = c.SubmitApplication(context.Background(), primary, loan, applicants)

	var cerr *UploadCorrelationError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, []string{"3"}, cerr.Missing)
	assert.Equal(t, []string{"9"}, cerr.Extra)

	rt.AssertExpectations(t)
	rt.AssertNumberOfCalls(t, "Do", 1)
}

func TestSubmitApplication_InvalidApplicant(t *testing.T) {
	primary, loan, applicants := newSubmission(t)
	applicants = append(applicants, nil)

	rt := new(mocks.MockRequester)
	c, err := NewFromToken(testConfig, rt, "tok-123")
	require.NoError(t, err)

	_, err = c.SubmitApplication(context.Background(), primary, loan, applicants)

	var ierr *InvalidApplicantError
	require.ErrorAs(t, err, &ierr)
	assert.Equal(t, 2, ierr.Index)
	rt.AssertNumberOfCalls(t, "Do", 0)
}

func TestSubmitApplication_MissingCasePK(t *testing.T) {
	primary, err := model.NewCompany(model.CompanyParams{
		Name:               "Acme Lending Ltd",
		RegistrationNumber: "12345678",
		IncorporationDate:  time.Date(2015, 3, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	loan, err := model.NewLoan(1000, "stock", nil)
	require.NoError(t, err)

	rt := new(mocks.MockRequester)
	rt.On("Do", mock.Anything, urlMatcher("/case")).
		Return(jsonResponse(`{"Result":"ok"}`), nil).
		Once()

	c, err := NewFromToken(testConfig, rt, "tok-123")
	require.NoError(t, err)

	_, err = c.SubmitApplication(context.Background(), primary, loan, nil)
	require.ErrorIs(t, err, ErrMissingCasePK)
}

func TestSubmitApplication_NilRecords(t *testing.T) {
	rt := new(mocks.MockRequester)
	c, err := NewFromToken(testConfig, rt, "tok-123")
	require.NoError(t, err)

	loan, err := model.NewLoan(1000, "stock", nil)
	require.NoError(t, err)
	_, err = c.SubmitApplication(context.Background(), nil, loan, nil)
	assert.Error(t, err)

	primary, err := model.NewCompany(model.CompanyParams{
		Name:               "Acme Lending Ltd",
		RegistrationNumber: "12345678",
		IncorporationDate:  time.Date(2015, 3, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	_, err = c.SubmitApplication(context.Background(), primary, nil, nil)
	assert.Error(t, err)
}

func TestFileURL(t *testing.T) {
	rt := new(mocks.MockRequester)

	var captured transport.Request
	rt.On("Do", mock.Anything, mock.AnythingOfType("transport.Request")).
		Run(func(args mock.Arguments) { captured = args.Get(1).(transport.Request) }).
		Return(&transport.Response{
			Status:   http.StatusFound,
			Location: "https://storage.example.com/files/abc123?sig=xyz",
		}, nil).
		Once()

	c, err := NewFromToken(testConfig, rt, "tok-123")
	require.NoError(t, err)

	got, err := c.FileURL(context.Background(), "gen/searches")
	require.NoError(t, err)
	assert.Equal(t, "https://storage.example.com/files/abc123?sig=xyz", got)

	assert.True(t, captured.DisableRedirects)
	assert.Equal(t, testConfig.APIBaseURL+"/upload?File=gen%2Fsearches", captured.URL)
	assert.Equal(t, "tok-123", captured.Header.Get("Authorization"))
}

func TestFileURL_NoRedirect(t *testing.T) {
	rt := new(mocks.MockRequester)
	rt.On("Do", mock.Anything, mock.Anything).
		Return(&transport.Response{Status: http.StatusOK}, nil).
		Once()

	c, err := NewFromToken(testConfig, rt, "tok-123")
	require.NoError(t, err)

	_, err = c.FileURL(context.Background(), "gen/searches")
	assert.Error(t, err)
}

func TestFileBaseName(t *testing.T) {
	assert.Equal(t, "statement", fileBaseName("/tmp/docs/statement.pdf"))
	assert.Equal(t, "statement", fileBaseName("statement.pdf"))
	assert.Equal(t, "archive.tar", fileBaseName("archive.tar.gz"))
	assert.Equal(t, "README", fileBaseName("/repo/README"))
}

// TestSubmitApplication_EndToEnd drives the real HTTP requester against a
// stub API: the multipart upload arrives first, then the case document
// referencing the assigned storage paths.
func TestSubmitApplication_EndToEnd(t *testing.T) {
	primary, loan, applicants := newSubmission(t)

	var order []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		order = append(order, r.URL.Path)
		require.Equal(t, "tok-123", r.Header.Get("Authorization"))

		switch r.URL.Path {
		case "/upload":
			require.NoError(t, r.ParseMultipartForm(1<<20))
			assigned := make(map[string]string)
			for field := range r.MultipartForm.File {
				assigned[field] = "gen/" + field
			}
			w.Header().Set("Content-Type", "application/json")
			require.NoError(t, json.NewEncoder(w).Encode(assigned))
		case "/case":
			var doc map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&doc))
			assert.Equal(t, "Jane Doe", doc["PrimaryContactName"])
			assert.Len(t, doc["Entities"], 2)
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"CasePK":99}`))
		default:
			t.Errorf("unexpected request to %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	rt := transport.NewHTTP()
	c, err := NewFromToken(Config{APIBaseURL: srv.URL, AuthEndpoint: srv.URL + "/oauth/token"}, rt, "tok-123")
	require.NoError(t, err)

	pk, err := c.SubmitApplication(context.Background(), primary, loan, applicants)
	require.NoError(t, err)
	assert.Equal(t, int64(99), pk)
	assert.Equal(t, []string{"/upload", "/case"}, order)

	assert.Equal(t, "gen/0", primary.Files()[0].UploadPath())
	assert.Equal(t, "gen/3", applicants[1].(*model.Company).Files()[0].UploadPath())
}
