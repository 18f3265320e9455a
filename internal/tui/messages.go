package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mkarlsen/adcon/internal/actions"
	"github.com/mkarlsen/adcon/internal/api"
	"github.com/mkarlsen/adcon/internal/directory"
	"github.com/mkarlsen/adcon/internal/session"
)

// BusyMsg reflects the gateway's in-flight gauge. Run sends it from the
// gauge observer whenever traffic starts or stops; the footer indicator
// follows it.
type BusyMsg struct {
	Active bool
}

// sessionResultMsg is the outcome of an establish sequence. explicit
// records whether the operator asked for it (login screen) or it ran
// silently at startup; the failure presentation differs between the two.
type sessionResultMsg struct {
	state    session.State
	err      *api.APIError
	explicit bool
}

// searchResultMsg is the outcome of one account search.
type searchResultMsg struct {
	set *directory.ResultSet
	err error
}

// actionResultMsg is the outcome of one mutating workflow.
type actionResultMsg struct {
	outcome *actions.Outcome
	verb    string
	err     error
}

// detailResultMsg carries the lazily fetched record for the edit dialog.
// A nil detail with nil err is the vanished-account case.
type detailResultMsg struct {
	detail *api.AccountDetail
	err    *api.APIError
	sam    string
}

func establishCmd(ctrl *session.Controller, explicit bool) tea.Cmd {
	return func() tea.Msg {
		state, apiErr := ctrl.Establish(context.Background())
		return sessionResultMsg{state: state, err: apiErr, explicit: explicit}
	}
}

func searchCmd(svc *directory.Service, f directory.Filter) tea.Cmd {
	return func() tea.Msg {
		set, err := svc.Search(context.Background(), f)
		return searchResultMsg{set: set, err: err}
	}
}

func detailCmd(d *actions.Dispatcher, domain, sam string) tea.Cmd {
	return func() tea.Msg {
		detail, apiErr := d.BeginEdit(context.Background(), domain, sam)
		return detailResultMsg{detail: detail, err: apiErr, sam: sam}
	}
}

// rowActionCmd runs one of the simple row workflows. The confirm dialog
// has already been accepted by the time this command is built.
func rowActionCmd(d *actions.Dispatcher, act directory.Action, domain, sam string) tea.Cmd {
	return func() tea.Msg {
		var (
			outcome *actions.Outcome
			err     error
			verb    string
		)
		ctx := context.Background()
		switch act {
		case directory.ActionUnlock:
			verb = "unlock account"
			outcome, err = d.Unlock(ctx, domain, sam)
		case directory.ActionDisable:
			verb = "disable account"
			outcome, err = d.Disable(ctx, domain, sam)
		case directory.ActionEnable:
			verb = "enable account"
			outcome, err = d.Enable(ctx, domain, sam)
		case directory.ActionResetPassword:
			verb = "reset password"
			outcome, err = d.ResetPassword(ctx, domain, sam)
		}
		return actionResultMsg{outcome: outcome, verb: verb, err: err}
	}
}

func submitCreateCmd(d *actions.Dispatcher, form actions.CreateForm, highPrivilege bool) tea.Cmd {
	return func() tea.Msg {
		outcome, err := d.SubmitCreate(context.Background(), form, highPrivilege)
		return actionResultMsg{outcome: outcome, verb: "create user", err: err}
	}
}

func submitEditCmd(d *actions.Dispatcher, form actions.EditForm, highPrivilege bool) tea.Cmd {
	return func() tea.Msg {
		outcome, err := d.SubmitEdit(context.Background(), form, highPrivilege)
		return actionResultMsg{outcome: outcome, verb: "update user", err: err}
	}
}
