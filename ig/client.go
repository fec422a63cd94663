package ig

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// DefaultBaseURI is the production API host.
const DefaultBaseURI = "https://api.ig.com"

// DefaultBetsURI hosts the performance charts, which live on the website
// rather than the API gateway.
const DefaultBetsURI = "https://www.ig.com"

// Client talks to the IG API on behalf of one logged in session.
type Client struct {
	BaseURI string
	BetsURI string
	Session *Session

	// IncludeRawData keeps the raw ledger records on sanitized trades,
	// for auditing the parse decisions.
	IncludeRawData bool

	http *http.Client
}

func NewClient(baseURI string, session *Session) *Client {
	if baseURI == "" {
		baseURI = DefaultBaseURI
	}
	return &Client{BaseURI: baseURI, BetsURI: DefaultBetsURI, Session: session, http: new(http.Client)}
}

// jwget retrieves a JSON payload with the given headers. A non-200 status
// is returned as a statusError so callers can react to specific codes.
func (c *Client) jwget(addr string, header http.Header, data any) error {
	req, err := http.NewRequest(http.MethodGet, addr, nil)
	if err != nil {
		return fmt.Errorf("cannot create http request %q: %w", addr, err)
	}
	req.Header = header

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("cannot execute http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &statusError{code: resp.StatusCode, uri: addr, status: resp.Status}
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, resp.Body); err != nil {
		return fmt.Errorf("cannot read receiving http body: %w", err)
	}
	return json.Unmarshal(buf.Bytes(), data)
}

type statusError struct {
	code   int
	uri    string
	status string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("cannot http GET %s: %s", e.uri, e.status)
}

// isNotFound reports whether err is an HTTP 404 from the API.
func isNotFound(err error) bool {
	se, ok := err.(*statusError)
	return ok && se.code == http.StatusNotFound
}

// Login opens a new session with the API and returns it with the security
// tokens and the account list filled in.
func Login(baseURI, username, password string) (*Session, error) {
	if baseURI == "" {
		baseURI = DefaultBaseURI
	}

	payload, err := json.Marshal(map[string]any{
		"username": username,
		"password": password,
		"enc":      false,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequest(http.MethodPost, baseURI+"/clientsecurity/session", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("cannot create login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Origin", "https://www.ig.com")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("cannot execute login request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("login rejected: %s", resp.Status)
	}

	var body struct {
		Accounts []struct {
			AccountID   string `json:"accountId"`
			AccountName string `json:"accountName"`
			AccountType string `json:"accountType"`
		} `json:"accounts"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("could not decode login response: %w", err)
	}

	s := &Session{
		CST:            resp.Header.Get("CST"),
		XSecurityToken: resp.Header.Get("X-SECURITY-TOKEN"),
	}
	if s.CST == "" || s.XSecurityToken == "" {
		return nil, fmt.Errorf("login response is missing security tokens")
	}
	for _, a := range body.Accounts {
		s.Accounts = append(s.Accounts, Account{ID: a.AccountID, Name: a.AccountName, Type: a.AccountType})
	}
	return s, nil
}
