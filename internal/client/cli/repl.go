package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	Select(ctx context.Context, paths []string) error
	Upload(ctx context.Context, paths []string) error
	Store(ctx context.Context, paths []string) error
	Gallery(ctx context.Context) error
	Download(ctx context.Context, args []string) error
	CloseGallery(ctx context.Context) error
	Images(ctx context.Context) error
	Delete(ctx context.Context, args []string) error
	Clear(ctx context.Context) error
	Stream(ctx context.Context) error
	Disconnect(ctx context.Context) error
	Dismiss(ctx context.Context) error
	Status(ctx context.Context) error
}

const helpText = `Available commands:
  select <path>...        add files to the selection
  upload [path]...        upload the selection to a preview gallery
  store [path]...         upload the selection straight to stored images
  gallery                 list gallery items
  download <name>|all     save a gallery item or stored image
  close                   close the gallery and delete its items
  images                  list stored images
  delete <name>           delete one stored image
  clear                   delete all stored images
  stream                  start the livestream
  disconnect              stop the livestream
  dismiss                 close the livestream surface
  status                  show livestream and gallery status
  exit | quit             leave the program`

// runREPL starts a simple read–eval–print loop for the SecureVision CLI.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a'. Unknown commands are reported back to the
// user. The loop exits on EOF, when ctx ends, or when the user types "exit"
// or "quit". A nil statusFn suppresses the prompt line for piped input.
//
// Any errors returned by command handlers are ignored here; handlers report
// their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}
		if statusFn != nil {
			printlnFn(fmt.Sprintf("sv %s> ", statusFn()))
		}
		line, err := readLine(reader)
		if err != nil {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			printlnFn(helpText)

		case "select":
			_ = a.Select(ctx, args)

		case "upload":
			_ = a.Upload(ctx, args)

		case "store":
			_ = a.Store(ctx, args)

		case "gallery":
			_ = a.Gallery(ctx)

		case "download":
			if len(args) != 1 {
				printlnFn("Usage: download <name>|all")
				continue
			}
			_ = a.Download(ctx, args)

		case "close":
			_ = a.CloseGallery(ctx)

		case "images":
			_ = a.Images(ctx)

		case "delete":
			if len(args) != 1 {
				printlnFn("Usage: delete <name>")
				continue
			}
			_ = a.Delete(ctx, args)

		case "clear":
			_ = a.Clear(ctx)

		case "stream":
			_ = a.Stream(ctx)

		case "disconnect":
			_ = a.Disconnect(ctx)

		case "dismiss":
			_ = a.Dismiss(ctx)

		case "status":
			_ = a.Status(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
