package notify

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/fatih/color"
)

var palette = map[Kind]*color.Color{
	KindInfo:    color.New(color.FgCyan),
	KindSuccess: color.New(color.FgGreen, color.Bold),
	KindWarning: color.New(color.FgYellow, color.Bold),
	KindError:   color.New(color.FgRed, color.Bold),
}

// Terminal renders prompts and toasts as lines of text. It shares its
// reader with the REPL, which is idle while a command (and so a prompt)
// runs.
type Terminal struct {
	mu  sync.Mutex
	out sync.Mutex
	in  *bufio.Reader
	w   io.Writer
}

func NewTerminal(in *bufio.Reader, w io.Writer) *Terminal {
	return &Terminal{in: in, w: w}
}

func (t *Terminal) Prompt(ctx context.Context, p Prompt) (Choice, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	options := []string{p.Confirm}
	if p.Deny != "" {
		options = append(options, p.Deny)
	}
	options = append(options, cancelLabel(p))

	t.out.Lock()
	palette[p.Kind].Fprintf(t.w, "[%s] %s\n", p.Kind, p.Title)
	if p.Text != "" {
		fmt.Fprintln(t.w, p.Text)
	}
	for i, o := range options {
		fmt.Fprintf(t.w, "  %d) %s\n", i+1, o)
	}
	fmt.Fprint(t.w, "> ")
	t.out.Unlock()

	type answer struct {
		line string
		err  error
	}
	ch := make(chan answer, 1)
	go func() {
		line, err := t.in.ReadString('\n')
		ch <- answer{line, err}
	}()

	select {
	case <-ctx.Done():
		return ChoiceDismiss, ctx.Err()
	case a := <-ch:
		if a.err != nil && a.line == "" {
			return ChoiceDismiss, nil
		}
		return parseChoice(a.line, p), nil
	}
}

func cancelLabel(p Prompt) string {
	if p.Cancel == "" {
		return "Cancel"
	}
	return p.Cancel
}

func parseChoice(line string, p Prompt) Choice {
	s := strings.ToLower(strings.TrimSpace(line))
	if s == "" {
		return ChoiceDismiss
	}

	if n, err := strconv.Atoi(s); err == nil {
		switch {
		case n == 1:
			return ChoiceConfirm
		case n == 2 && p.Deny != "":
			return ChoiceDeny
		default:
			return ChoiceDismiss
		}
	}

	switch s {
	case "y", "yes", strings.ToLower(p.Confirm):
		return ChoiceConfirm
	}
	if p.Deny != "" && (s == "n" || s == "no" || s == strings.ToLower(p.Deny)) {
		return ChoiceDeny
	}
	return ChoiceDismiss
}

func (t *Terminal) toast(k Kind, title, text string) {
	t.out.Lock()
	defer t.out.Unlock()

	palette[k].Fprintf(t.w, "[%s] %s", k, title)
	if text != "" {
		fmt.Fprintf(t.w, ": %s", text)
	}
	fmt.Fprintln(t.w)
}

func (t *Terminal) Success(title, text string) { t.toast(KindSuccess, title, text) }
func (t *Terminal) Info(title, text string)    { t.toast(KindInfo, title, text) }
func (t *Terminal) Warn(title, text string)    { t.toast(KindWarning, title, text) }
func (t *Terminal) Error(title, text string)   { t.toast(KindError, title, text) }
