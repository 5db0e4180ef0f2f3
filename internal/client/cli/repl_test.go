package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeExec struct {
	calls []string
}

func (f *fakeExec) record(name string, args ...string) error {
	if len(args) > 0 {
		name += " " + strings.Join(args, " ")
	}
	f.calls = append(f.calls, name)
	return nil
}

func (f *fakeExec) Select(_ context.Context, p []string) error   { return f.record("select", p...) }
func (f *fakeExec) Upload(_ context.Context, p []string) error   { return f.record("upload", p...) }
func (f *fakeExec) Store(_ context.Context, p []string) error    { return f.record("store", p...) }
func (f *fakeExec) Gallery(context.Context) error                { return f.record("gallery") }
func (f *fakeExec) Download(_ context.Context, a []string) error { return f.record("download", a...) }
func (f *fakeExec) CloseGallery(context.Context) error           { return f.record("close") }
func (f *fakeExec) Images(context.Context) error                 { return f.record("images") }
func (f *fakeExec) Delete(_ context.Context, a []string) error   { return f.record("delete", a...) }
func (f *fakeExec) Clear(context.Context) error                  { return f.record("clear") }
func (f *fakeExec) Stream(context.Context) error                 { return f.record("stream") }
func (f *fakeExec) Disconnect(context.Context) error             { return f.record("disconnect") }
func (f *fakeExec) Dismiss(context.Context) error                { return f.record("dismiss") }
func (f *fakeExec) Status(context.Context) error                 { return f.record("status") }

func capturePrintln(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		lines = append(lines, strings.TrimSuffix(fmt.Sprintln(a...), "\n"))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return &lines
}

func TestRunREPL_Dispatch(t *testing.T) {
	_ = capturePrintln(t)

	input := strings.Join([]string{
		"help",
		"select a.jpg b.jpg",
		"upload",
		"store c.png",
		"",
		"gallery",
		"download all",
		"close",
		"images",
		"delete a.jpg",
		"clear",
		"stream",
		"status",
		"disconnect",
		"dismiss",
		"exit",
		"gallery",
	}, "\n")

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "" }, bufio.NewReader(strings.NewReader(input)))

	assert.Equal(t, []string{
		"select a.jpg b.jpg",
		"upload",
		"store c.png",
		"gallery",
		"download all",
		"close",
		"images",
		"delete a.jpg",
		"clear",
		"stream",
		"status",
		"disconnect",
		"dismiss",
	}, exec.calls)
}

func TestRunREPL_UsageAndUnknown(t *testing.T) {
	lines := capturePrintln(t)

	exec := &fakeExec{}
	runREPL(context.Background(), exec, nil, bufio.NewReader(strings.NewReader("download\ndelete a b\nfoobar\nquit\n")))

	assert.Empty(t, exec.calls)
	assert.Equal(t, []string{
		"Usage: download <name>|all",
		"Usage: delete <name>",
		"Unknown command: foobar",
		"Bye!",
	}, *lines)
}

func TestRunREPL_PromptAndEOF(t *testing.T) {
	lines := capturePrintln(t)

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "(streaming)" }, bufio.NewReader(strings.NewReader("status")))

	assert.Equal(t, []string{"status"}, exec.calls)
	assert.Equal(t, []string{"sv (streaming)> ", "sv (streaming)> "}, *lines)
}

func TestRunREPL_StopsWhenContextEnds(t *testing.T) {
	_ = capturePrintln(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	exec := &fakeExec{}
	runREPL(ctx, exec, nil, bufio.NewReader(strings.NewReader("status\n")))
	assert.Empty(t, exec.calls)
}

func TestSelection_TakeResets(t *testing.T) {
	var s Selection
	s.Add("a.jpg")
	s.Add("b.jpg", "a.jpg")
	assert.Equal(t, 3, s.Len())
	assert.Equal(t, []string{"a.jpg", "b.jpg", "a.jpg"}, s.Take())
	assert.Zero(t, s.Len())
	assert.Empty(t, s.Take())
}
