package api

import (
	"fmt"
	"strings"
	"time"
)

// Session identifies the authenticated operator as asserted by the remote
// identity endpoint. The console reflects IsHighPrivilege, it never
// enforces it; authorization happens server-side.
type Session struct {
	Name            string `json:"name"`
	IsHighPrivilege bool   `json:"isHighPrivilege"`
}

// Settings is the per-tenant configuration fetched once per session.
// Domains preserves server order; the first entry is the default domain.
type Settings struct {
	Domains                        []string `json:"domains"`
	OptionalGroupsForHighPrivilege []string `json:"optionalGroupsForHighPrivilege"`
}

// AccountSummary is a single search result row. Rows are ephemeral:
// every search replaces the previous set wholesale.
type AccountSummary struct {
	DisplayName           string `json:"displayName"`
	SamAccountName        string `json:"samAccountName"`
	Domain                string `json:"domain,omitempty"`
	Enabled               bool   `json:"enabled"`
	HasAdminAccount       bool   `json:"hasAdminAccount"`
	AccountExpirationDate *Date  `json:"accountExpirationDate,omitempty"`
}

// AccountDetail is the edit-form payload, fetched lazily per edit action
// and discarded when the dialog closes. The surname travels as the LDAP
// "sn" attribute on the wire.
type AccountDetail struct {
	AccountSummary
	GivenName string   `json:"givenName"`
	Surname   string   `json:"sn"`
	MemberOf  []string `json:"memberOf"`
}

// AccountRef addresses one account for the simple mutating endpoints
// (unlock, disable, enable, reset-password).
type AccountRef struct {
	Domain         string `json:"domain"`
	SamAccountName string `json:"samAccountName"`
}

// CreateUserRequest is the POST /users/create payload. OptionalGroups and
// CreateAdminAccount are only populated for high-privilege sessions; low
// privilege callers omit them entirely.
type CreateUserRequest struct {
	Domain                string   `json:"domain"`
	FirstName             string   `json:"firstName"`
	LastName              string   `json:"lastName"`
	SamAccountName        string   `json:"samAccountName"`
	OptionalGroups        []string `json:"optionalGroups,omitempty"`
	CreateAdminAccount    *bool    `json:"createAdminAccount,omitempty"`
	AccountExpirationDate *Date    `json:"accountExpirationDate,omitempty"`
}

// UpdateUserRequest is the PUT /users/update payload. ManageAdminAccount
// and OptionalGroups follow the same privilege gating as creation.
type UpdateUserRequest struct {
	Domain                string   `json:"domain"`
	SamAccountName        string   `json:"samAccountName"`
	FirstName             string   `json:"firstName"`
	LastName              string   `json:"lastName"`
	OptionalGroups        []string `json:"optionalGroups,omitempty"`
	ManageAdminAccount    *bool    `json:"manageAdminAccount,omitempty"`
	AccountExpirationDate *Date    `json:"accountExpirationDate,omitempty"`
}

// CreatedAccount describes one provisioned identity with its temporary
// credential, as returned by the create endpoint.
type CreatedAccount struct {
	SamAccountName  string `json:"samAccountName"`
	DisplayName     string `json:"displayName"`
	InitialPassword string `json:"initialPassword"`
}

// CreateUserResult is the creation outcome: the user account, an optional
// paired admin account, and any group associations that were applied.
type CreateUserResult struct {
	Message          string          `json:"message"`
	UserAccount      *CreatedAccount `json:"userAccount,omitempty"`
	AdminAccount     *CreatedAccount `json:"adminAccount,omitempty"`
	GroupsAssociated []string        `json:"groupsAssociated,omitempty"`
}

// ResetPasswordResult carries the newly generated credential.
type ResetPasswordResult struct {
	SamAccountName string `json:"samAccountName"`
	NewPassword    string `json:"newPassword"`
}

// ListQuery holds the pass-through query constraints for the account
// listing endpoint. Only Domain is required; the remote side performs the
// actual matching.
type ListQuery struct {
	Domain          string
	NameFilter      string
	StatusFilter    string
	HasAdminAccount string
}

const dateLayout = "2006-01-02"

// Date is a calendar date without a time component. The API accepts and
// emits ISO dates; responses may carry a full timestamp, which is
// truncated to the date on parse.
type Date struct {
	time.Time
}

// NewDate builds a Date from year, month, day in the local zone.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.Local)}
}

// Today returns the current local date.
func Today() Date {
	now := time.Now()
	return NewDate(now.Year(), now.Month(), now.Day())
}

// AddYears returns the date shifted by the given number of years.
func (d Date) AddYears(years int) Date {
	return Date{d.AddDate(years, 0, 0)}
}

// String formats the date as YYYY-MM-DD.
func (d Date) String() string {
	return d.Format(dateLayout)
}

// MarshalJSON emits the date as a quoted YYYY-MM-DD string.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(dateLayout) + `"`), nil
}

// UnmarshalJSON accepts null, YYYY-MM-DD, or a full RFC 3339 timestamp.
func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		return nil
	}
	if len(s) >= len(dateLayout) {
		if t, err := time.ParseInLocation(dateLayout, s[:len(dateLayout)], time.Local); err == nil {
			d.Time = t
			return nil
		}
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return fmt.Errorf("invalid date %q: %w", s, err)
	}
	d.Time = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.Local)
	return nil
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.ParseInLocation(dateLayout, s, time.Local)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", s)
	}
	return Date{t}, nil
}
