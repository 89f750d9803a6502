// Package main hosts the karigari CLI entrypoint and command graph.
//
// The Cobra-based command tree translates terminal invocations into calls
// against the artisan platform backend: account management, assistant chat,
// story generation with narration playback, product captioning, and catalog
// browsing. It centralizes configuration resolution, session storage, and
// structured logging setup so subcommands can focus on user experience
// instead of wiring.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
