package actions

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/mkarlsen/adcon/internal/api"
	"github.com/mkarlsen/adcon/internal/logging"
)

// ErrCancelled is returned when the operator declines a confirmation
// prompt. No network call has been made.
var ErrCancelled = errors.New("operation cancelled")

// Outcome is the success side of a workflow. Exactly one of Notice,
// Reset, or Create carries the presentation payload; Refresh tells the
// caller to re-run the active search with its filter unchanged.
type Outcome struct {
	Notice  string
	Refresh bool
	Reset   *api.ResetPasswordResult
	Create  *api.CreateUserResult
}

// Dispatcher sequences the five mutating workflows: confirm, call the
// gateway, then hand back the side-effect (refresh and/or a result
// payload). Each workflow isolates its own failure; one failed action
// never takes down the screen.
//
// Confirm gates the destructive/generative workflows. It must be set
// before any of them run: the TUI wires it to its confirm dialog's
// accepted branch, the CLI to a stdin prompt (or --yes). A nil Confirm
// refuses the action, which keeps the "no unconfirmed mutation" invariant
// even for misuse.
type Dispatcher struct {
	client  *api.Client
	Confirm func(prompt string) bool
}

// NewDispatcher creates a dispatcher over the gateway.
func NewDispatcher(client *api.Client) *Dispatcher {
	return &Dispatcher{client: client}
}

func (d *Dispatcher) confirmed(prompt string) bool {
	return d.Confirm != nil && d.Confirm(prompt)
}

// Unlock clears the lockout state of one account.
func (d *Dispatcher) Unlock(ctx context.Context, domain, sam string) (*Outcome, error) {
	prompt := fmt.Sprintf("Are you sure you want to unlock the account for %s?", sam)
	if !d.confirmed(prompt) {
		return nil, ErrCancelled
	}
	if apiErr := d.client.Unlock(ctx, domain, sam); apiErr != nil {
		return nil, apiErr
	}
	logging.Info("Account unlocked", zap.String("sam", sam), zap.String("domain", domain))
	return &Outcome{
		Notice:  fmt.Sprintf("Successfully unlocked account: %s", sam),
		Refresh: true,
	}, nil
}

// Disable sets one account to disabled.
func (d *Dispatcher) Disable(ctx context.Context, domain, sam string) (*Outcome, error) {
	prompt := fmt.Sprintf("Are you sure you want to DISABLE the account for %s?", sam)
	if !d.confirmed(prompt) {
		return nil, ErrCancelled
	}
	if apiErr := d.client.Disable(ctx, domain, sam); apiErr != nil {
		return nil, apiErr
	}
	logging.Info("Account disabled", zap.String("sam", sam), zap.String("domain", domain))
	return &Outcome{
		Notice:  fmt.Sprintf("Successfully disabled account: %s", sam),
		Refresh: true,
	}, nil
}

// Enable sets one account to enabled.
func (d *Dispatcher) Enable(ctx context.Context, domain, sam string) (*Outcome, error) {
	prompt := fmt.Sprintf("Are you sure you want to ENABLE the account for %s?", sam)
	if !d.confirmed(prompt) {
		return nil, ErrCancelled
	}
	if apiErr := d.client.Enable(ctx, domain, sam); apiErr != nil {
		return nil, apiErr
	}
	logging.Info("Account enabled", zap.String("sam", sam), zap.String("domain", domain))
	return &Outcome{
		Notice:  fmt.Sprintf("Successfully enabled account: %s", sam),
		Refresh: true,
	}, nil
}

// ResetPassword generates a new random credential. The outcome carries the
// credential for the result dialog; the account list is unaffected, so no
// refresh is requested.
func (d *Dispatcher) ResetPassword(ctx context.Context, domain, sam string) (*Outcome, error) {
	prompt := fmt.Sprintf("Are you sure you want to reset the password for %s? A new random password will be generated.", sam)
	if !d.confirmed(prompt) {
		return nil, ErrCancelled
	}
	result, apiErr := d.client.ResetPassword(ctx, domain, sam)
	if apiErr != nil {
		return nil, apiErr
	}
	logging.Info("Password reset", zap.String("sam", sam), zap.String("domain", domain))
	return &Outcome{Reset: result}, nil
}

// SubmitCreate provisions a new account from the create form. The form
// submission is its own confirmation; validation runs locally first and an
// invalid form never reaches the network.
func (d *Dispatcher) SubmitCreate(ctx context.Context, form CreateForm, highPrivilege bool) (*Outcome, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}
	result, apiErr := d.client.CreateUser(ctx, form.Request(highPrivilege))
	if apiErr != nil {
		return nil, apiErr
	}
	logging.Info("Account created",
		zap.String("sam", form.SamAccountName),
		zap.String("domain", form.Domain),
	)
	return &Outcome{Create: result, Refresh: true}, nil
}

// BeginEdit lazily fetches the full account record before the edit form
// opens. A nil detail with nil error is the non-fatal vanished case: the
// account no longer exists or is outside the configured search scope, and
// the dialog must not open.
func (d *Dispatcher) BeginEdit(ctx context.Context, domain, sam string) (*api.AccountDetail, *api.APIError) {
	return d.client.UserDetails(ctx, domain, sam)
}

// SubmitEdit applies the edit form. Same local validation and privilege
// gating as creation.
func (d *Dispatcher) SubmitEdit(ctx context.Context, form EditForm, highPrivilege bool) (*Outcome, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}
	if apiErr := d.client.UpdateUser(ctx, form.Request(highPrivilege)); apiErr != nil {
		return nil, apiErr
	}
	logging.Info("Account updated",
		zap.String("sam", form.SamAccountName),
		zap.String("domain", form.Domain),
	)
	return &Outcome{
		Notice:  fmt.Sprintf("Successfully updated user: %s", form.SamAccountName),
		Refresh: true,
	}, nil
}

// VanishedNotice is the warning shown when BeginEdit finds nothing.
func VanishedNotice(sam string) string {
	return fmt.Sprintf("Could not find details for user '%s'. The user may have been deleted or is outside the configured search scope.", sam)
}

// FailureNotice builds the operator-facing failure text for a workflow,
// appending flattened per-field validation messages when the server
// supplied them.
func FailureNotice(verb string, err error) string {
	text := fmt.Sprintf("Failed to %s", verb)
	var apiErr *api.APIError
	if errors.As(err, &apiErr) {
		text += ": " + apiErr.DisplayText()
		if flat := apiErr.FlattenedFieldErrors(); flat != "" {
			text += " " + flat
		}
		return text
	}
	return text + ": " + err.Error()
}
