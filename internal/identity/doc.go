// Package identity persists the logged-in user's session state on disk.
//
// The stored state is an opaque pair of user id and email written by the
// login flow and cleared by logout; everything else treats it as read-only.
// The session is injected explicitly into operations that need it — there is
// no ambient global read. Operations that require a user fail fast with an
// unauthenticated error before any network call is attempted.
package identity
