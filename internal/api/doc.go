// Package api provides the HTTP gateway to the directory administration
// service.
//
// All network traffic from the console funnels through Client. The gateway
// owns three cross-cutting concerns so no other package has to:
//
//   - Credentials: a shared cookie jar carries the authentication cookies
//     set by the server, so callers never see or manage tokens.
//   - Timeouts: every call is bounded (15s by default) and aborts to a
//     uniform "Request Timed Out" failure instead of hanging.
//   - Failure normalization: transport errors and non-success statuses all
//     resolve to *APIError with a message, optional server detail, and
//     optional per-field validation errors. A 401 is always reported as an
//     authentication failure regardless of the response body; a 204 is an
//     explicit empty result, distinct from a value-bearing response.
//
// The in-flight BusyGauge toggles on entry and exit of every call (on all
// settle paths, including timeout) so the UI can show a single activity
// spinner over overlapping requests.
//
// There is no retry policy anywhere: every failure is terminal for that
// invocation and surfaced exactly once.
package api
