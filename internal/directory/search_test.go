package directory

import (
	"context"
	"errors"
	"testing"

	"github.com/mkarlsen/adcon/internal/api"
)

type fakeLister struct {
	calls    int
	lastQ    api.ListQuery
	accounts []api.AccountSummary
	err      *api.APIError
}

func (f *fakeLister) ListUsers(ctx context.Context, q api.ListQuery) ([]api.AccountSummary, *api.APIError) {
	f.calls++
	f.lastQ = q
	if f.err != nil {
		return nil, f.err
	}
	return f.accounts, nil
}

func TestFilter_Validate(t *testing.T) {
	tests := []struct {
		name    string
		filter  Filter
		wantErr bool
	}{
		{"domain only", Filter{Domain: "corp"}, false},
		{"all constraints", Filter{Domain: "corp", Name: "jd", Status: StatusEnabled}, false},
		{"missing domain", Filter{Name: "jd"}, true},
		{"bad status", Filter{Domain: "corp", Status: "locked"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.filter.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSearch_MissingDomainNeverReachesNetwork(t *testing.T) {
	fake := &fakeLister{}
	svc := &Service{client: fake}

	_, err := svc.Search(context.Background(), Filter{Name: "smith"})

	if !errors.Is(err, ErrDomainRequired) {
		t.Errorf("err = %v, want ErrDomainRequired", err)
	}
	if fake.calls != 0 {
		t.Errorf("lister called %d times, want 0", fake.calls)
	}
}

func TestSearch_BuildsQuery(t *testing.T) {
	fake := &fakeLister{}
	svc := &Service{client: fake}

	yes := true
	_, err := svc.Search(context.Background(), Filter{
		Domain:          "corp.example",
		Name:            "smith",
		Status:          StatusDisabled,
		HasAdminAccount: &yes,
	})
	if err != nil {
		t.Fatalf("Search error: %v", err)
	}

	want := api.ListQuery{
		Domain:          "corp.example",
		NameFilter:      "smith",
		StatusFilter:    "disabled",
		HasAdminAccount: "true",
	}
	if fake.lastQ != want {
		t.Errorf("query = %+v, want %+v", fake.lastQ, want)
	}
}

func TestSearch_RowsGetActionsAndDomainFallback(t *testing.T) {
	fake := &fakeLister{
		accounts: []api.AccountSummary{
			{SamAccountName: "alice", Enabled: true},
			{SamAccountName: "bob", Enabled: false, Domain: "other.example"},
		},
	}
	svc := &Service{client: fake}

	set, err := svc.Search(context.Background(), Filter{Domain: "corp.example"})
	if err != nil {
		t.Fatalf("Search error: %v", err)
	}
	if len(set.Rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(set.Rows))
	}

	// Rows without a server-side domain inherit the filter's
	if set.Rows[0].Account.Domain != "corp.example" {
		t.Errorf("alice domain = %q, want corp.example", set.Rows[0].Account.Domain)
	}
	if set.Rows[1].Account.Domain != "other.example" {
		t.Errorf("bob domain = %q, want other.example", set.Rows[1].Account.Domain)
	}

	// Enabled row offers Disable, disabled row offers Enable
	if !hasAction(set.Rows[0].Actions, ActionDisable) || hasAction(set.Rows[0].Actions, ActionEnable) {
		t.Errorf("alice actions = %v, want Disable without Enable", set.Rows[0].Actions)
	}
	if !hasAction(set.Rows[1].Actions, ActionEnable) || hasAction(set.Rows[1].Actions, ActionDisable) {
		t.Errorf("bob actions = %v, want Enable without Disable", set.Rows[1].Actions)
	}
}

func hasAction(actions []Action, want Action) bool {
	for _, a := range actions {
		if a == want {
			return true
		}
	}
	return false
}

func TestActionsFor_AlwaysOffersBaseThree(t *testing.T) {
	for _, enabled := range []bool{true, false} {
		actions := ActionsFor(api.AccountSummary{Enabled: enabled})
		if len(actions) != 4 {
			t.Fatalf("enabled=%t: actions = %v, want exactly 4", enabled, actions)
		}
		for _, want := range []Action{ActionEdit, ActionResetPassword, ActionUnlock} {
			if !hasAction(actions, want) {
				t.Errorf("enabled=%t: missing %v", enabled, want)
			}
		}
	}
}

func TestSearch_EmptyResult(t *testing.T) {
	svc := &Service{client: &fakeLister{}}

	set, err := svc.Search(context.Background(), Filter{Domain: "corp"})
	if err != nil {
		t.Fatalf("Search error: %v", err)
	}
	if !set.Empty() {
		t.Error("Empty() = false for no rows")
	}
}

func TestSearch_FailurePropagates(t *testing.T) {
	apiErr := &api.APIError{Message: "HTTP error! status: 500", Detail: "boom"}
	svc := &Service{client: &fakeLister{err: apiErr}}

	_, err := svc.Search(context.Background(), Filter{Domain: "corp"})

	var got *api.APIError
	if !errors.As(err, &got) || got != apiErr {
		t.Fatalf("err = %v, want the listing APIError", err)
	}
	if msg := FailedMessage(got); msg != "Failed to load users: boom" {
		t.Errorf("FailedMessage = %q", msg)
	}
}
