// Package actions sequences the mutating account workflows.
//
// Every workflow follows the same shape: confirm (for the destructive and
// generative actions), invoke the gateway, then hand the side-effect back
// to the caller - a refresh of the active search, a result dialog payload,
// or a transient notice. Failures are isolated per action and surfaced
// once; there is no retry.
//
// Create and edit run local form-validity checks (required fields, the
// expiration window of today through one year out) before any network
// traffic. The privilege-gated fields - admin-account management and the
// optional-group checklist - are included in outgoing payloads only for
// high-privilege sessions and omitted entirely otherwise.
package actions
