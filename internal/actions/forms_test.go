package actions

import (
	"errors"
	"testing"
	"time"

	"github.com/mkarlsen/adcon/internal/api"
)

func validCreateForm() CreateForm {
	return CreateForm{
		Domain:         "corp.example",
		FirstName:      "Jane",
		LastName:       "Doe",
		SamAccountName: "jdoe",
	}
}

func TestCreateForm_Validate(t *testing.T) {
	if err := validCreateForm().Validate(); err != nil {
		t.Fatalf("valid form rejected: %v", err)
	}

	tests := []struct {
		name    string
		mutate  func(*CreateForm)
		badTerm string
	}{
		{"missing domain", func(f *CreateForm) { f.Domain = "" }, "domain"},
		{"missing first name", func(f *CreateForm) { f.FirstName = " " }, "firstName"},
		{"missing last name", func(f *CreateForm) { f.LastName = "" }, "lastName"},
		{"missing account name", func(f *CreateForm) { f.SamAccountName = "" }, "samAccountName"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := validCreateForm()
			tt.mutate(&form)

			err := form.Validate()
			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("err = %v, want ValidationError", err)
			}
			if !vErr.Invalid(tt.badTerm) {
				t.Errorf("field %q not flagged: %v", tt.badTerm, vErr.Fields)
			}
		})
	}
}

func TestCreateForm_ExpirationWindow(t *testing.T) {
	min, max := ExpirationWindow()

	tests := []struct {
		name string
		exp  api.Date
		ok   bool
	}{
		{"today", min, true},
		{"one year out", max, true},
		{"yesterday", api.Date{Time: min.AddDate(0, 0, -1)}, false},
		{"beyond one year", api.Date{Time: max.AddDate(0, 0, 1)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := validCreateForm()
			form.Expiration = &tt.exp

			err := form.Validate()
			if tt.ok && err != nil {
				t.Errorf("Validate = %v, want nil", err)
			}
			if !tt.ok {
				var vErr *ValidationError
				if !errors.As(err, &vErr) || !vErr.Invalid("accountExpirationDate") {
					t.Errorf("expiration not flagged: %v", err)
				}
			}
		})
	}
}

func TestCreateForm_NoExpirationIsValid(t *testing.T) {
	form := validCreateForm()
	form.Expiration = nil
	if err := form.Validate(); err != nil {
		t.Errorf("Validate = %v, want nil", err)
	}
}

func TestCreateForm_PrivilegeGating(t *testing.T) {
	form := validCreateForm()
	form.OptionalGroups = []string{"VPN Users"}
	form.CreateAdminAccount = true

	high := form.Request(true)
	if high.CreateAdminAccount == nil || !*high.CreateAdminAccount {
		t.Error("high privilege: createAdminAccount should be set true")
	}
	if len(high.OptionalGroups) != 1 {
		t.Errorf("high privilege: groups = %v", high.OptionalGroups)
	}

	// Low privilege omits the gated fields entirely, regardless of form state
	low := form.Request(false)
	if low.CreateAdminAccount != nil {
		t.Error("low privilege: createAdminAccount should be omitted")
	}
	if low.OptionalGroups != nil {
		t.Errorf("low privilege: groups should be omitted, got %v", low.OptionalGroups)
	}
}

func TestEditForm_PrivilegeGating(t *testing.T) {
	form := EditForm{
		Domain:             "corp",
		SamAccountName:     "jdoe",
		FirstName:          "Jane",
		LastName:           "Doe",
		OptionalGroups:     []string{"Helpdesk"},
		ManageAdminAccount: false,
	}

	high := form.Request(true)
	if high.ManageAdminAccount == nil || *high.ManageAdminAccount {
		t.Error("high privilege: manageAdminAccount should be set false explicitly")
	}

	low := form.Request(false)
	if low.ManageAdminAccount != nil || low.OptionalGroups != nil {
		t.Error("low privilege: gated fields should be omitted")
	}
}

func TestFormFromDetail(t *testing.T) {
	exp := api.NewDate(2026, time.December, 1)
	detail := &api.AccountDetail{
		AccountSummary: api.AccountSummary{
			SamAccountName:        "jdoe",
			Domain:                "corp.example",
			HasAdminAccount:       true,
			AccountExpirationDate: &exp,
		},
		GivenName: "Jane",
		Surname:   "Doe",
		MemberOf:  []string{"VPN Users"},
	}

	form := FormFromDetail(detail, []string{"VPN Users", "Helpdesk"})

	if form.FirstName != "Jane" || form.LastName != "Doe" {
		t.Errorf("names = %q %q", form.FirstName, form.LastName)
	}
	if !form.ManageAdminAccount {
		t.Error("ManageAdminAccount should seed from HasAdminAccount")
	}
	if form.Expiration == nil || form.Expiration.String() != "2026-12-01" {
		t.Errorf("expiration = %v", form.Expiration)
	}
	if len(form.OptionalGroups) != 1 || form.OptionalGroups[0] != "VPN Users" {
		t.Errorf("OptionalGroups = %v, want [VPN Users]", form.OptionalGroups)
	}
}

func TestFormFromDetail_OnlyOptionalGroupsCarryOver(t *testing.T) {
	detail := &api.AccountDetail{
		AccountSummary: api.AccountSummary{SamAccountName: "jdoe", Domain: "corp.example"},
		GivenName:      "Jane",
		Surname:        "Doe",
		MemberOf:       []string{"Domain Users", "VPN Users", "Enterprise Admins"},
	}

	form := FormFromDetail(detail, []string{"VPN Users", "Helpdesk"})

	// Fixed memberships must never reach the update payload
	req := form.Request(true)
	if len(req.OptionalGroups) != 1 || req.OptionalGroups[0] != "VPN Users" {
		t.Errorf("optionalGroups = %v, want [VPN Users]", req.OptionalGroups)
	}
}

func TestFormFromDetail_DefaultsExpirationToWindowMax(t *testing.T) {
	detail := &api.AccountDetail{
		AccountSummary: api.AccountSummary{SamAccountName: "jdoe", Domain: "corp"},
	}

	form := FormFromDetail(detail, nil)

	_, max := ExpirationWindow()
	if form.Expiration == nil || form.Expiration.String() != max.String() {
		t.Errorf("expiration = %v, want %s", form.Expiration, max)
	}
}

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{Fields: map[string]string{
		"lastName":  "required",
		"firstName": "required",
	}}
	// Stable field order
	if got := err.Error(); got != "firstName: required; lastName: required" {
		t.Errorf("Error = %q", got)
	}
}
