// Package backend implements the HTTP client for the artisan platform API.
//
// Every operation maps one-to-one onto a backend endpoint: authentication,
// chat replies, story generation with narrated audio, image captioning, and
// the product catalog. The endpoints are inconsistent about how they accept
// parameters (query string, form encoding, multipart) and how they report
// failures; this package hides the former and converts every non-2xx response
// into an apierr.StatusError so the normalization chain can produce a single
// readable message.
//
// The client holds no session state. Callers gate user-scoped operations on
// an injected identity.Session before invoking them.
package backend
