// Package cli provides the interactive SecureVision command-line client.
//
// It wires configuration, the backend client, the cleanup journal, the
// download sink and the services into a REPL. Typical flow: upload files,
// resolve any sensitive-content review prompts, look at or download the
// results, then close the gallery, which deletes them on the server.
//
// Key features:
//   - upload / store: submit files to a preview gallery or straight to the
//     stored-images list
//   - gallery / download / close: inspect, save and discard gallery items
//   - images / delete / clear: manage the server's stored images
//   - stream / disconnect / dismiss / status: livestream control
//
// The REPL is started via App.Run(ctx), which blocks until the user exits or
// ctx ends. See NewApp and runREPL for details.
package cli
