package directory

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/mkarlsen/adcon/internal/api"
	"github.com/mkarlsen/adcon/internal/logging"
)

// Status narrows a search to enabled or disabled accounts.
type Status string

const (
	StatusAny      Status = ""
	StatusEnabled  Status = "enabled"
	StatusDisabled Status = "disabled"
)

// ErrDomainRequired rejects a search without a domain before any network
// traffic happens. The previously rendered result set stays untouched.
var ErrDomainRequired = errors.New("a domain must be selected before searching")

// Filter is the search query state. Only Domain is required; the other
// constraints are passed through for the remote side to match. The filter
// is mutated only by explicit user-initiated searches.
type Filter struct {
	Domain          string
	Name            string
	Status          Status
	HasAdminAccount *bool
}

// Validate checks the filter client-side. Everything except the domain
// requirement is the server's business.
func (f Filter) Validate() error {
	if f.Domain == "" {
		return ErrDomainRequired
	}
	switch f.Status {
	case StatusAny, StatusEnabled, StatusDisabled:
	default:
		return fmt.Errorf("invalid status filter %q", f.Status)
	}
	return nil
}

func (f Filter) query() api.ListQuery {
	q := api.ListQuery{
		Domain:       f.Domain,
		NameFilter:   f.Name,
		StatusFilter: string(f.Status),
	}
	if f.HasAdminAccount != nil {
		q.HasAdminAccount = fmt.Sprintf("%t", *f.HasAdminAccount)
	}
	return q
}

// Action is a row affordance. Edit, reset-password, and unlock are always
// offered; exactly one of enable/disable is, selected by the account's
// current status.
type Action int

const (
	ActionEdit Action = iota
	ActionResetPassword
	ActionUnlock
	ActionEnable
	ActionDisable
)

// String returns the operator-facing label for the action.
func (a Action) String() string {
	switch a {
	case ActionEdit:
		return "Edit"
	case ActionResetPassword:
		return "Reset Password"
	case ActionUnlock:
		return "Unlock"
	case ActionEnable:
		return "Enable"
	case ActionDisable:
		return "Disable"
	default:
		return fmt.Sprintf("Action(%d)", a)
	}
}

// ActionsFor maps an account to its row actions. This is the row's only
// state-dependent rendering rule.
func ActionsFor(acct api.AccountSummary) []Action {
	actions := []Action{ActionEdit, ActionResetPassword, ActionUnlock}
	if acct.Enabled {
		return append(actions, ActionDisable)
	}
	return append(actions, ActionEnable)
}

// Row is one rendered search result.
type Row struct {
	Account api.AccountSummary
	Actions []Action
}

// ResultSet is a finite snapshot of one search. Re-searching replaces it
// wholesale; rows are never mutated in place.
type ResultSet struct {
	Filter Filter
	Rows   []Row
}

// Empty reports whether the search matched nothing.
func (r *ResultSet) Empty() bool {
	return len(r.Rows) == 0
}

// NoUsersMessage is the placeholder for an empty result. An empty search
// is informational state, not an error.
const NoUsersMessage = "No users found."

// FailedMessage is the result-area placeholder for a failed search. Search
// failures are locally recoverable by re-searching, so they stay in the
// result area instead of raising a global alert.
func FailedMessage(apiErr *api.APIError) string {
	return "Failed to load users: " + apiErr.DisplayText()
}

type lister interface {
	ListUsers(ctx context.Context, q api.ListQuery) ([]api.AccountSummary, *api.APIError)
}

// Service drives the filtered account search and turns results into row
// view-models with privilege-gated action affordances.
type Service struct {
	client lister
}

// NewService creates a search service over the gateway.
func NewService(client *api.Client) *Service {
	return &Service{client: client}
}

// Search validates the filter, queries the listing endpoint, and builds
// the row snapshot. A validation failure never reaches the network.
func (s *Service) Search(ctx context.Context, f Filter) (*ResultSet, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}

	accounts, apiErr := s.client.ListUsers(ctx, f.query())
	if apiErr != nil {
		return nil, apiErr
	}

	rows := make([]Row, 0, len(accounts))
	for _, acct := range accounts {
		if acct.Domain == "" {
			acct.Domain = f.Domain
		}
		rows = append(rows, Row{Account: acct, Actions: ActionsFor(acct)})
	}

	logging.Debug("Search completed",
		zap.String("domain", f.Domain),
		zap.Int("results", len(rows)),
	)
	return &ResultSet{Filter: f, Rows: rows}, nil
}
