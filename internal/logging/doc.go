// Package logging assembles the structured slog loggers used across the CLI
// and session-layer packages.
//
// It centralizes level and format plumbing, standardizes attribute keys so
// every component tags log lines the same way (component, slot, correlation
// id, user id), and exposes a no-op logger for tests and wiring code that
// cannot fail. Prefer these constructors over hand-rolled slog setup.
package logging
