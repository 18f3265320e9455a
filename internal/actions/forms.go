package actions

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mkarlsen/adcon/internal/api"
)

// ValidationError reports local form-validity failures. A submission that
// fails validation is rejected without a network call; the UI layer marks
// the named fields invalid.
type ValidationError struct {
	Fields map[string]string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	var msgs []string
	for _, f := range fields {
		msgs = append(msgs, fmt.Sprintf("%s: %s", f, e.Fields[f]))
	}
	return strings.Join(msgs, "; ")
}

// Invalid reports whether the named field failed validation.
func (e *ValidationError) Invalid(field string) bool {
	_, ok := e.Fields[field]
	return ok
}

// ExpirationWindow returns the inclusive bounds for an account expiration
// date: today through one year from today.
func ExpirationWindow() (min, max api.Date) {
	today := api.Today()
	return today, today.AddYears(1)
}

func validateExpiration(fields map[string]string, exp *api.Date) {
	if exp == nil {
		return
	}
	min, max := ExpirationWindow()
	if exp.Before(min.Time) || exp.After(max.Time) {
		fields["accountExpirationDate"] = fmt.Sprintf(
			"expiration must be between %s and %s", min, max)
	}
}

func requireField(fields map[string]string, name, value string) {
	if strings.TrimSpace(value) == "" {
		fields[name] = "required"
	}
}

// CreateForm is the new-account form state.
type CreateForm struct {
	Domain             string
	FirstName          string
	LastName           string
	SamAccountName     string
	OptionalGroups     []string
	CreateAdminAccount bool
	Expiration         *api.Date
}

// Validate performs the client-side form-validity checks: required fields
// and the expiration date window.
func (f CreateForm) Validate() error {
	fields := map[string]string{}
	requireField(fields, "domain", f.Domain)
	requireField(fields, "firstName", f.FirstName)
	requireField(fields, "lastName", f.LastName)
	requireField(fields, "samAccountName", f.SamAccountName)
	validateExpiration(fields, f.Expiration)
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// Request builds the creation payload. The privilege-gated fields (admin
// account, optional groups) are sent only for high-privilege sessions and
// are omitted from the payload entirely otherwise.
func (f CreateForm) Request(highPrivilege bool) api.CreateUserRequest {
	req := api.CreateUserRequest{
		Domain:                f.Domain,
		FirstName:             f.FirstName,
		LastName:              f.LastName,
		SamAccountName:        f.SamAccountName,
		AccountExpirationDate: f.Expiration,
	}
	if highPrivilege {
		req.OptionalGroups = f.OptionalGroups
		createAdmin := f.CreateAdminAccount
		req.CreateAdminAccount = &createAdmin
	}
	return req
}

// EditForm is the account update form state, seeded from a lazily fetched
// AccountDetail.
type EditForm struct {
	Domain             string
	SamAccountName     string
	FirstName          string
	LastName           string
	OptionalGroups     []string
	ManageAdminAccount bool
	Expiration         *api.Date
}

// FormFromDetail seeds an edit form from the fetched account record.
// Only the account's memberships from the tenant's optional-group set
// carry over; fixed memberships never enter the update payload. When the
// record has no expiration, the default is the window maximum, one year
// out.
func FormFromDetail(detail *api.AccountDetail, optionalGroups []string) EditForm {
	member := make(map[string]bool, len(detail.MemberOf))
	for _, g := range detail.MemberOf {
		member[g] = true
	}
	var groups []string
	for _, g := range optionalGroups {
		if member[g] {
			groups = append(groups, g)
		}
	}

	form := EditForm{
		Domain:             detail.Domain,
		SamAccountName:     detail.SamAccountName,
		FirstName:          detail.GivenName,
		LastName:           detail.Surname,
		OptionalGroups:     groups,
		ManageAdminAccount: detail.HasAdminAccount,
		Expiration:         detail.AccountExpirationDate,
	}
	if form.Expiration == nil {
		_, max := ExpirationWindow()
		form.Expiration = &max
	}
	return form
}

// Validate performs the client-side form-validity checks.
func (f EditForm) Validate() error {
	fields := map[string]string{}
	requireField(fields, "domain", f.Domain)
	requireField(fields, "samAccountName", f.SamAccountName)
	requireField(fields, "firstName", f.FirstName)
	requireField(fields, "lastName", f.LastName)
	validateExpiration(fields, f.Expiration)
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// Request builds the update payload with the same privilege gating as
// creation.
func (f EditForm) Request(highPrivilege bool) api.UpdateUserRequest {
	req := api.UpdateUserRequest{
		Domain:                f.Domain,
		SamAccountName:        f.SamAccountName,
		FirstName:             f.FirstName,
		LastName:              f.LastName,
		AccountExpirationDate: f.Expiration,
	}
	if highPrivilege {
		req.OptionalGroups = f.OptionalGroups
		manageAdmin := f.ManageAdminAccount
		req.ManageAdminAccount = &manageAdmin
	}
	return req
}
