// Package session owns the client-side authentication lifecycle of the
// Andamiaje portal: the state container, the asynchronous operations
// that mutate it, the durable credential store, and the one-time
// signature enrollment gate.
//
// State container:
//   - State is the single authoritative snapshot; Reduce is the pure
//     transition function over a sealed Action set, so every transition
//     is unit-testable without any UI. Container serializes dispatches
//     and fans snapshots out to subscribers.
//
// Operations:
//   - Orchestrator runs sign-in, registration, sign-out, and the silent
//     session check. Each wraps exactly one network call and settles
//     with exactly one terminal dispatch. Same-kind races resolve
//     latest-wins via per-kind request sequences. Sign-out is fail-open:
//     the local session clears even when the remote call fails.
//
// Enrollment gate:
//   - EnrollmentStatusOf derives a three-state gate from the user's
//     firstLogin/hasSignature pair. EnrollmentFlow captures, uploads,
//     and persists the signature, then re-checks the session so the
//     gate derives as satisfied. Upload and profile-update failures are
//     retryable without limit.
//
// Activity sinks:
//   - ActivitySink is a light-weight audit emitter used by the
//     orchestrator and the enrollment flow. Sinks run best-effort
//     (errors are logged) so you can forward events to a database or
//     queue without blocking authentication.
package session
