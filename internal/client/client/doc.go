// Package client talks to the SecureVision detection backend.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic contract (see the Client interface): upload with
//     blur/force modes, delete of gallery results, the stored-images list,
//     downloads and the livestream socket.
//  2. A concrete HTTP + WebSocket implementation (see HTTPClient) that keeps
//     a cookie jar, forwards the CSRF cookie as a header, and maps transport
//     and protocol failures to sentinel errors.
//  3. Local persistence bootstrap (InitDatabase, RunMigrations) for the
//     cleanup journal, wiring SQLite and applying embedded goose migrations.
//
// # Error Handling
//
// Callers match failures with errors.Is against ErrUnavailable,
// ErrBadStatus, ErrMalformedResponse and ErrStreamClosed.
//
// Concurrency & Contexts
//
// HTTPClient is safe for concurrent use. Every request honors ctx; there is
// no overall client timeout, so long uploads are bounded only by ctx.
package client
