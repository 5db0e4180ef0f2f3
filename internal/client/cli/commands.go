package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/dmitrijs2005/securevision/internal/client/models"
	"github.com/dmitrijs2005/securevision/internal/client/services"
	"github.com/dmitrijs2005/securevision/internal/common"
)

func (a *App) status() string {
	var parts []string
	if st := a.stream.State(); st != models.StateDisconnected {
		parts = append(parts, st.String())
	}
	if n := a.gallery.Len(); n > 0 {
		parts = append(parts, fmt.Sprintf("%d in gallery", n))
	}
	if len(parts) == 0 {
		return ""
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func (a *App) Select(_ context.Context, paths []string) error {
	if len(paths) == 0 {
		printlnFn("Usage: select <path>...")
		return nil
	}
	a.selection.Add(paths...)
	printlnFn(fmt.Sprintf("%d file(s) selected.", a.selection.Len()))
	return nil
}

// Upload submits the selection plus paths to the preview gallery.
func (a *App) Upload(ctx context.Context, paths []string) error {
	if err := a.submit(ctx, paths, a.gallery); err != nil {
		return err
	}
	if n := a.gallery.Len(); n > 0 {
		printlnFn(fmt.Sprintf("Gallery holds %d item(s). Use 'download <name>|all' to keep them; 'close' deletes them.", n))
	}
	return nil
}

// Store submits the selection plus paths straight to the stored-images list.
func (a *App) Store(ctx context.Context, paths []string) error {
	return a.submit(ctx, paths, a.images)
}

func (a *App) submit(ctx context.Context, paths []string, c services.Collector) error {
	a.selection.Add(paths...)
	picked := a.selection.Take()
	if len(picked) == 0 {
		printlnFn("Nothing selected. Usage: upload <path>...")
		return nil
	}

	subs := make([]models.FileSubmission, 0, len(picked))
	for _, p := range picked {
		sub, err := models.NewFileSubmission(p)
		if err != nil {
			a.notifier.Error("Cannot read file", err.Error())
			continue
		}
		subs = append(subs, sub)
	}
	if len(subs) == 0 {
		return nil
	}

	outs, err := a.uploads.SubmitTo(ctx, subs, c)
	printlnFn(summarize(outs))
	if err != nil {
		a.log.Warn(ctx, "batch interrupted", "err", err)
		return err
	}
	return nil
}

func summarize(outs []models.Outcome) string {
	var (
		order  []models.OutcomeKind
		counts = map[models.OutcomeKind]int{}
	)
	for _, o := range outs {
		if counts[o.Kind] == 0 {
			order = append(order, o.Kind)
		}
		counts[o.Kind]++
	}

	parts := make([]string, 0, len(order))
	for _, k := range order {
		parts = append(parts, fmt.Sprintf("%d %s", counts[k], k))
	}
	if len(parts) == 0 {
		return "No files processed."
	}
	return fmt.Sprintf("%d result(s): %s", len(outs), strings.Join(parts, ", "))
}

func (a *App) Gallery(_ context.Context) error {
	items := a.gallery.Items()
	if len(items) == 0 {
		printlnFn("Gallery is empty.")
		return nil
	}
	printlnFn(fmt.Sprintf("Gallery (%s, %d item(s)):", a.gallery.Layout(), len(items)))
	for _, it := range items {
		printlnFn(fmt.Sprintf("  %-32s %s", it.Filename, it.URL))
	}
	return nil
}

// Download saves a gallery item, or a stored image when the gallery does not
// hold the name. "all" saves every gallery item.
func (a *App) Download(ctx context.Context, args []string) error {
	name := args[0]

	if name == "all" {
		saved, err := a.gallery.DownloadAll(ctx)
		for _, loc := range saved {
			printlnFn("Saved", loc)
		}
		if err != nil {
			a.notifier.Error("Download failed", err.Error())
			return err
		}
		if len(saved) == 0 {
			printlnFn("Gallery is empty.")
		}
		return nil
	}

	loc, err := a.gallery.Download(ctx, name)
	if errors.Is(err, services.ErrNotInGallery) {
		loc, err = a.images.Download(ctx, name)
	}
	if err != nil {
		a.notifier.Error("Download failed", err.Error())
		return err
	}
	printlnFn("Saved", loc)
	return nil
}

func (a *App) CloseGallery(ctx context.Context) error {
	n := a.gallery.Close(ctx, services.CloseButton)
	if n == 0 {
		printlnFn("Gallery is already closed.")
		return nil
	}
	printlnFn(fmt.Sprintf("Gallery closed; deleting %d item(s) on the server.", n))
	return nil
}

func (a *App) Images(ctx context.Context) error {
	imgs, err := a.images.Refresh(ctx)
	if err != nil {
		return err
	}
	if len(imgs) == 0 {
		printlnFn("No stored images.")
		return nil
	}
	for _, it := range imgs {
		printlnFn(fmt.Sprintf("  %-32s %s", it.Name, it.URL))
	}
	return nil
}

func (a *App) Delete(ctx context.Context, args []string) error {
	return a.images.Delete(ctx, args[0])
}

func (a *App) Clear(ctx context.Context) error {
	return a.images.Clear(ctx)
}

type pather interface {
	Path() string
}

func (a *App) Stream(ctx context.Context) error {
	if err := a.stream.Connect(ctx); err != nil {
		return err
	}
	if a.stream.State() != models.StateStreaming {
		return nil
	}
	if p, ok := a.surface.(pather); ok {
		printlnFn("Frames are written to", p.Path())
	}
	return nil
}

func (a *App) Disconnect(ctx context.Context) error {
	err := a.stream.Disconnect(ctx)
	if errors.Is(err, common.ErrAlreadyClosed) {
		printlnFn("No livestream is open.")
	}
	return err
}

func (a *App) Dismiss(ctx context.Context) error {
	return a.stream.Dismiss(ctx)
}

type frameCounter interface {
	Frames() int
}

func (a *App) Status(_ context.Context) error {
	line := fmt.Sprintf("Livestream: %s", a.stream.State())
	if a.surface != nil && a.surface.Visible() {
		size := a.surface.Size()
		line += fmt.Sprintf(" (surface %dx%d", size.X, size.Y)
		if fc, ok := a.surface.(frameCounter); ok {
			line += ", " + humanize.Comma(int64(fc.Frames())) + " frames"
		}
		line += ")"
	}
	printlnFn(line)
	printlnFn(fmt.Sprintf("Gallery: %d item(s), %s layout", a.gallery.Len(), a.gallery.Layout()))
	if n := a.selection.Len(); n > 0 {
		printlnFn(fmt.Sprintf("Selected: %d file(s)", n))
	}
	return nil
}
