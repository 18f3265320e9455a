// Package tui implements the interactive terminal console for directory
// account administration.
//
// Built on the Bubble Tea framework, the console follows the Elm
// architecture with immutable state updates and a Model-Update-View
// pattern.
//
// # Screens
//
// The top-level AppModel shows exactly one screen at a time:
//   - Loading: session establishment in progress
//   - Login: no active session; explicit sign-in entry point
//   - Error: an explicit connection failure with its detail
//   - Main: the authenticated working screen (filter bar, result list,
//     row actions, dialogs)
//
// Startup attempts a silent sign-in: success lands on Main, failure
// falls back to Login without raising an alert. A sign-in the operator
// asked for reports its failure on the Error screen instead.
//
// # Dialogs
//
// The main screen owns four dialogs: confirmation, the create/edit form,
// the password-reset result, and the creation result. Dialogs are
// exclusive and every path out of one releases it; the result dialogs are
// the only place generated credentials are ever shown.
//
// All screens use a unified container (RenderApplicationContainer) for a
// consistent layout: header with application and operator identity,
// content area, and a context-sensitive footer that doubles as the
// process-wide traffic indicator.
package tui
