// Package history persists chat transcripts and generated stories in a local
// SQLite database.
//
// The web flavour of the platform kept the transcript alive for the life of
// the page; a CLI process lasts one exchange, so the durable archive is what
// lets `chat` show context from earlier invocations and `history` replay past
// stories. The database is convenience storage, not a system of record: the
// schema can change between releases and users clear the file to adopt a new
// one.
package history
