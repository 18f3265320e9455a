package actions

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkarlsen/adcon/internal/api"
)

// testDispatcher wires a dispatcher to a counting test server.
func testDispatcher(t *testing.T, accept bool, handler http.HandlerFunc) (*Dispatcher, *int) {
	t.Helper()
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		handler(w, r)
	}))
	t.Cleanup(server.Close)

	d := NewDispatcher(api.NewClient(server.URL))
	d.Confirm = func(string) bool { return accept }
	return d, &calls
}

func TestUnlock_DeclinedConfirmationMakesNoCall(t *testing.T) {
	d, calls := testDispatcher(t, false, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	_, err := d.Unlock(context.Background(), "corp", "jdoe")

	assert.ErrorIs(t, err, ErrCancelled)
	assert.Equal(t, 0, *calls, "a declined confirmation must not reach the network")
}

func TestNilConfirmRefusesDestructiveActions(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no call expected")
	}))
	t.Cleanup(server.Close)

	d := NewDispatcher(api.NewClient(server.URL))

	_, err := d.Disable(context.Background(), "corp", "jdoe")
	assert.ErrorIs(t, err, ErrCancelled)
}

func TestUnlock_Success(t *testing.T) {
	d, calls := testDispatcher(t, true, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/users/unlock", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	})

	outcome, err := d.Unlock(context.Background(), "corp", "jdoe")

	require.NoError(t, err)
	assert.Equal(t, 1, *calls)
	assert.Equal(t, "Successfully unlocked account: jdoe", outcome.Notice)
	assert.True(t, outcome.Refresh)
}

func TestDisableEnable_Notices(t *testing.T) {
	d, _ := testDispatcher(t, true, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	outcome, err := d.Disable(context.Background(), "corp", "jdoe")
	require.NoError(t, err)
	assert.Equal(t, "Successfully disabled account: jdoe", outcome.Notice)

	outcome, err = d.Enable(context.Background(), "corp", "jdoe")
	require.NoError(t, err)
	assert.Equal(t, "Successfully enabled account: jdoe", outcome.Notice)
	assert.True(t, outcome.Refresh)
}

func TestResetPassword_NoRefresh(t *testing.T) {
	d, _ := testDispatcher(t, true, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"samAccountName":"jdoe","newPassword":"Xy7!pQ"}`))
	})

	outcome, err := d.ResetPassword(context.Background(), "corp", "jdoe")

	require.NoError(t, err)
	require.NotNil(t, outcome.Reset)
	assert.Equal(t, "Xy7!pQ", outcome.Reset.NewPassword)
	assert.False(t, outcome.Refresh, "a reset does not change the rendered rows")
}

func TestSubmitCreate_InvalidFormNeverReachesNetwork(t *testing.T) {
	d, calls := testDispatcher(t, true, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	_, err := d.SubmitCreate(context.Background(), CreateForm{Domain: "corp"}, false)

	var vErr *ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, 0, *calls)
}

func TestSubmitCreate_Success(t *testing.T) {
	d, _ := testDispatcher(t, true, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/users/create", r.URL.Path)
		_, _ = w.Write([]byte(`{
			"message":"User created successfully.",
			"userAccount":{"samAccountName":"jdoe","displayName":"Jane Doe","initialPassword":"tmp123"},
			"groupsAssociated":["VPN Users"]
		}`))
	})

	form := CreateForm{
		Domain: "corp", FirstName: "Jane", LastName: "Doe", SamAccountName: "jdoe",
	}
	outcome, err := d.SubmitCreate(context.Background(), form, true)

	require.NoError(t, err)
	require.NotNil(t, outcome.Create)
	assert.Equal(t, "tmp123", outcome.Create.UserAccount.InitialPassword)
	assert.True(t, outcome.Refresh)
}

func TestSubmitEdit_Success(t *testing.T) {
	d, _ := testDispatcher(t, true, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/users/update", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	})

	form := EditForm{
		Domain: "corp", SamAccountName: "jdoe", FirstName: "Jane", LastName: "Smith",
	}
	outcome, err := d.SubmitEdit(context.Background(), form, false)

	require.NoError(t, err)
	assert.Equal(t, "Successfully updated user: jdoe", outcome.Notice)
	assert.True(t, outcome.Refresh)
}

func TestBeginEdit_VanishedAccount(t *testing.T) {
	d, _ := testDispatcher(t, true, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	detail, apiErr := d.BeginEdit(context.Background(), "corp", "ghost")

	require.Nil(t, apiErr)
	assert.Nil(t, detail)
}

func TestFailureNotice(t *testing.T) {
	apiErr := &api.APIError{
		Message: "Validation Failed",
		Detail:  "The request was rejected.",
		FieldErrors: map[string][]string{
			"samAccountName": {"Account name already in use."},
		},
	}

	got := FailureNotice("create user", apiErr)
	want := "Failed to create user: The request was rejected. Account name already in use."
	assert.Equal(t, want, got)

	plain := FailureNotice("update user", errors.New("boom"))
	assert.Equal(t, "Failed to update user: boom", plain)
}

func TestVanishedNotice(t *testing.T) {
	got := VanishedNotice("jdoe")
	want := "Could not find details for user 'jdoe'. The user may have been deleted or is outside the configured search scope."
	assert.Equal(t, want, got)
}
