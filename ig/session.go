// Package ig fetches account history from the IG trading API: funding
// transactions, the dealing ledger, daily bet results and instrument price
// history. It trusts nothing the API returns and sanitizes everything
// through the ighist types.
package ig

import (
	"bufio"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

const igSessionFile = "ighist-ig-session"

// Account types as reported by the API. Bet results only exist on
// leveraged accounts.
const (
	AccountStocks    = "stocks"
	AccountCFD       = "cfd"
	AccountSpreadbet = "spreadbet"
)

// Account is one dealing account of the logged in client.
type Account struct {
	ID   string
	Name string
	Type string
}

// Leveraged reports whether the account can carry spread bets or CFDs.
func (a Account) Leveraged() bool {
	return a.Type == AccountCFD || a.Type == AccountSpreadbet
}

// Session holds the security tokens of a logged in client and the accounts
// they can query. It is persisted across invocations in a temp file, so a
// login survives until the tokens expire server side.
type Session struct {
	CST            string
	XSecurityToken string
	Accounts       []Account
}

func sessionPath() string {
	return filepath.Join(os.TempDir(), igSessionFile)
}

// LoadSession reads the persisted session from the temp file.
func LoadSession() (*Session, error) {
	data, err := os.ReadFile(sessionPath())
	if err != nil {
		return nil, fmt.Errorf("ig session not found. Please run 'igh login' first: %w", err)
	}
	return parseSession(string(data))
}

func parseSession(data string) (*Session, error) {
	s := &Session{}
	scanner := bufio.NewScanner(strings.NewReader(data))
	for scanner.Scan() {
		line := scanner.Text()
		parts := strings.SplitN(line, ":", 2)
		if len(parts) != 2 {
			continue
		}
		key, value := strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
		switch key {
		case "CST":
			s.CST = value
		case "X-SECURITY-TOKEN":
			s.XSecurityToken = value
		case "ACCOUNT":
			fields := strings.SplitN(value, "|", 3)
			if len(fields) != 3 {
				return nil, fmt.Errorf("malformed account line %q", line)
			}
			s.Accounts = append(s.Accounts, Account{ID: fields[0], Name: fields[1], Type: fields[2]})
		}
	}
	if s.CST == "" || s.XSecurityToken == "" {
		return nil, fmt.Errorf("ig session is missing security tokens. Please run 'igh login' again")
	}
	return s, nil
}

// Save persists the session to the temp file, readable by later
// invocations of the same user only.
func (s *Session) Save() error {
	var b strings.Builder
	fmt.Fprintf(&b, "CST: %s\n", s.CST)
	fmt.Fprintf(&b, "X-SECURITY-TOKEN: %s\n", s.XSecurityToken)
	for _, a := range s.Accounts {
		fmt.Fprintf(&b, "ACCOUNT: %s|%s|%s\n", a.ID, a.Name, a.Type)
	}
	if err := os.WriteFile(sessionPath(), []byte(b.String()), 0600); err != nil {
		return fmt.Errorf("cannot persist ig session: %w", err)
	}
	return nil
}

// headers returns the security headers every authenticated call carries.
func (s *Session) headers() http.Header {
	h := make(http.Header)
	h.Set("Content-Type", "application/json")
	h.Set("Origin", "https://www.ig.com")
	h.Set("CST", s.CST)
	h.Set("X-SECURITY-TOKEN", s.XSecurityToken)
	return h
}
