// Package apierr defines the error taxonomy shared by every backend-facing
// operation and the single normalization chain that maps raw failures onto it.
//
// The backend endpoints are inconsistent about error shape: some return a
// plain detail string, some a nested message object, and transport failures
// carry no body at all. Normalize applies one ordered precedence chain so
// every caller surfaces a single readable string instead of a stringified
// object. Treat this package as the only place that interprets backend
// failure payloads; feature code must not special-case per endpoint.
package apierr
