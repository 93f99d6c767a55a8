// Package caseclient submits loan applications to the remote case-management
// API. A submission is two sequential phases: one multipart upload of every
// supporting file across every entity, then one case-create POST whose
// payload references the storage paths the upload assigned.
package caseclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"caseclient/model"
	"caseclient/transport"
)

// Config locates the remote API. Both URLs are required; there are no
// baked-in defaults.
type Config struct {
	// APIBaseURL is the case-management API root, e.g. "https://api.crm.example.com".
	// It is also sent as the OAuth audience.
	APIBaseURL string
	// AuthEndpoint is the OAuth token endpoint used by NewFromCredentials.
	AuthEndpoint string
}

func (c Config) validate() error {
	if c.APIBaseURL == "" {
		return errors.New("caseclient: APIBaseURL is required")
	}
	if c.AuthEndpoint == "" {
		return errors.New("caseclient: AuthEndpoint is required")
	}
	return nil
}

// Client submits applications on behalf of one authenticated principal. The
// token is immutable after construction; a Client may be reused for
// sequential submissions but concurrent submissions need distinct Clients or
// external synchronization.
type Client struct {
	cfg   Config
	rt    transport.Requester
	token string
}

// NewFromToken builds a client around an already-acquired bearer token.
func NewFromToken(cfg Config, rt transport.Requester, token string) (*Client, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if rt == nil {
		return nil, errors.New("caseclient: a transport requester is required")
	}
	if token == "" {
		return nil, errors.New("caseclient: token is required")
	}
	return &Client{cfg: cfg, rt: rt, token: token}, nil
}

// NewFromCredentials performs an OAuth client-credentials exchange against
// cfg.AuthEndpoint and builds a client from the returned access token.
func NewFromCredentials(ctx context.Context, cfg Config, rt transport.Requester, clientID, clientSecret string) (*Client, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if rt == nil {
		return nil, errors.New("caseclient: a transport requester is required")
	}

	resp, err := rt.Do(ctx, transport.Request{
		Method: http.MethodPost,
		URL:    cfg.AuthEndpoint,
		Body: transport.JSON(map[string]string{
			"grant_type":    "client_credentials",
			"client_id":     clientID,
			"client_secret": clientSecret,
			"audience":      cfg.APIBaseURL,
		}),
	})
	if err != nil {
		var ce *transport.ClientError
		if errors.As(err, &ce) {
			return nil, &AuthError{Status: ce.Status, Reason: ce.Reason}
		}
		var se *transport.ServerError
		if errors.As(err, &se) {
			return nil, &AuthError{Status: se.Status, Reason: se.Reason}
		}
		return nil, err
	}

	var body struct {
		AccessToken string `json:"access_token"`
	}
	if err := resp.DecodeJSON(&body); err != nil || body.AccessToken == "" {
		return nil, &AuthError{Status: resp.Status, Reason: "token response could not be decoded"}
	}

	return &Client{cfg: cfg, rt: rt, token: body.AccessToken}, nil
}

// Token returns the bearer token the client authenticates with.
func (c *Client) Token() string { return c.token }

// SubmitApplication uploads every file attached to the primary company, the
// loan and the applicants, then posts the assembled case document. It
// returns the CasePK the remote system assigned.
//
// On success every attached file record carries the storage path the upload
// assigned to it. A failure aborts the submission where it stands: files
// already uploaded are not cleaned up, and no case is created.
func (c *Client) SubmitApplication(ctx context.Context, primary *model.Company, loan *model.Loan, applicants []model.Applicant) (int64, error) {
	if primary == nil {
		return 0, errors.New("caseclient: a primary company is required")
	}
	if loan == nil {
		return 0, errors.New("caseclient: a loan is required")
	}

	persons, companies, err := partitionApplicants(applicants)
	if err != nil {
		return 0, err
	}

	// Collection order is load-bearing: the upload request and the
	// response-index correlation both rely on it.
	var files []*model.File
	files = append(files, primary.Files()...)
	files = append(files, loan.Files()...)
	for _, p := range persons {
		files = append(files, p.Files()...)
	}
	for _, co := range companies {
		files = append(files, co.Files()...)
	}

	if len(files) > 0 {
		if err := c.uploadFiles(ctx, files); err != nil {
			return 0, err
		}
	}

	contactName, err := primaryContactName(persons)
	if err != nil {
		return 0, err
	}

	payload, err := buildCasePayload(primary, loan, persons, companies, contactName)
	if err != nil {
		return 0, err
	}

	resp, err := c.rt.Do(ctx, transport.Request{
		Method: http.MethodPost,
		URL:    c.cfg.APIBaseURL + "/case",
		Header: c.authHeader(),
		Body:   transport.JSON(payload),
	})
	if err != nil {
		return 0, err
	}

	var body struct {
		CasePK *int64 `json:"CasePK"`
	}
	if err := resp.DecodeJSON(&body); err != nil {
		return 0, err
	}
	if body.CasePK == nil {
		return 0, ErrMissingCasePK
	}
	return *body.CasePK, nil
}

// FileURL resolves an uploaded file's storage path to its presigned
// retrieval URL. The API answers with a redirect; the target is returned
// without being followed.
func (c *Client) FileURL(ctx context.Context, storagePath string) (string, error) {
	q := url.Values{}
	q.Set("File", storagePath)

	resp, err := c.rt.Do(ctx, transport.Request{
		Method:           http.MethodGet,
		URL:              c.cfg.APIBaseURL + "/upload?" + q.Encode(),
		Header:           c.authHeader(),
		DisableRedirects: true,
	})
	if err != nil {
		return "", err
	}
	if resp.Location == "" {
		return "", fmt.Errorf("no retrieval redirect returned for %q (status %d)", storagePath, resp.Status)
	}
	return resp.Location, nil
}

func (c *Client) authHeader() http.Header {
	h := make(http.Header, 1)
	// The API expects the raw token, not an "Authorization: Bearer" scheme.
	h.Set("Authorization", c.token)
	return h
}

func partitionApplicants(applicants []model.Applicant) ([]*model.Person, []*model.Company, error) {
	var (
		persons   []*model.Person
		companies []*model.Company
	)
	for i, a := range applicants {
		switch v := a.(type) {
		case *model.Person:
			if v == nil {
				return nil, nil, &InvalidApplicantError{Index: i, Value: a}
			}
			persons = append(persons, v)
		case *model.Company:
			if v == nil {
				return nil, nil, &InvalidApplicantError{Index: i, Value: a}
			}
			companies = append(companies, v)
		default:
			return nil, nil, &InvalidApplicantError{Index: i, Value: a}
		}
	}
	return persons, companies, nil
}

// uploadFiles issues the single multipart upload, correlates the response
// back onto the file records by positional key, and stamps each record with
// its generated storage path.
func (c *Client) uploadFiles(ctx context.Context, files []*model.File) error {
	parts := make([]transport.Part, 0, len(files))
	handles := make([]io.Closer, 0, len(files))
	defer func() {
		for _, h := range handles {
			h.Close()
		}
	}()

	for i, file := range files {
		f, err := os.Open(file.NameAndPath())
		if err != nil {
			return fmt.Errorf("open '%s': %w", file.NameAndPath(), err)
		}
		handles = append(handles, f)
		parts = append(parts, transport.Part{
			Field:       strconv.Itoa(i),
			FileName:    filepath.Base(file.NameAndPath()),
			ContentType: file.MimeType(),
			Content:     f,
		})
	}

	resp, err := c.rt.Do(ctx, transport.Request{
		Method: http.MethodPost,
		URL:    c.cfg.APIBaseURL + "/upload",
		Header: c.authHeader(),
		Body:   transport.Multipart(parts),
	})
	if err != nil {
		return err
	}

	var assigned map[string]string
	if err := resp.DecodeJSON(&assigned); err != nil {
		return err
	}

	if err := correlate(assigned, len(files)); err != nil {
		return err
	}
	for i, file := range files {
		file.SetUploadPath(assigned[strconv.Itoa(i)])
	}
	return nil
}

// correlate verifies the response keys are exactly the uploaded positional
// indexes. A mismatch is fatal: partial or shifted mappings would silently
// attach documents to the wrong party.
func correlate(assigned map[string]string, n int) error {
	var missing, extra []string
	seen := make(map[string]bool, n)
	for i := 0; i < n; i++ {
		key := strconv.Itoa(i)
		seen[key] = true
		if _, ok := assigned[key]; !ok {
			missing = append(missing, key)
		}
	}
	for key := range assigned {
		if !seen[key] {
			extra = append(extra, key)
		}
	}
	if len(missing) > 0 || len(extra) > 0 {
		sort.Strings(missing)
		sort.Strings(extra)
		return &UploadCorrelationError{Missing: missing, Extra: extra}
	}
	return nil
}

// primaryContactName derives "{forename} {surname}" of the first person
// flagged as primary contact. Supplying persons without one is an error.
func primaryContactName(persons []*model.Person) (string, error) {
	if len(persons) == 0 {
		return "", nil
	}
	for _, p := range persons {
		if p.IsPrimaryContact() {
			return p.Forename() + " " + p.Surname(), nil
		}
	}
	return "", ErrMissingPrimaryContact
}

func buildCasePayload(primary *model.Company, loan *model.Loan, persons []*model.Person, companies []*model.Company, contactName string) (*casePayload, error) {
	primaryPayload, err := companyPayloadFrom(primary, "")
	if err != nil {
		return nil, err
	}

	entities := make([]any, 0, len(persons)+len(companies))
	for _, p := range persons {
		pp, err := personPayloadFrom(p)
		if err != nil {
			return nil, err
		}
		entities = append(entities, pp)
	}
	for _, co := range companies {
		cp, err := companyPayloadFrom(co, "Company")
		if err != nil {
			return nil, err
		}
		entities = append(entities, cp)
	}

	return &casePayload{
		Primary:            primaryPayload,
		Loan:               loanPayloadFrom(loan),
		Entities:           entities,
		PrimaryContactName: contactName,
	}, nil
}
