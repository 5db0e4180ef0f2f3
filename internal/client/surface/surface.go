// Package surface is the rendering target for livestream frames.
package surface

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"path/filepath"
	"sync"

	"github.com/dmitrijs2005/securevision/internal/filex"
)

// Surface receives decoded frames. Visibility is set by the session owner
// from its connection state; the surface never changes it on its own.
type Surface interface {
	Render(img image.Image) error
	SetVisible(v bool)
	Visible() bool
	Size() image.Point
}

// FileSurface keeps the latest frame as a PNG file that external viewers
// can poll. It is resized to each frame's bounds.
type FileSurface struct {
	mu      sync.Mutex
	dir     string
	name    string
	visible bool
	size    image.Point
	frames  int
}

func NewFileSurface(dir string) (*FileSurface, error) {
	abs, err := filex.EnsureDir(dir)
	if err != nil {
		return nil, err
	}
	return &FileSurface{dir: abs, name: "latest.png"}, nil
}

func (s *FileSurface) Render(img image.Image) error {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("encode frame: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := filex.WriteAtomic(s.dir, s.name, &buf); err != nil {
		return err
	}
	s.size = img.Bounds().Size()
	s.frames++
	return nil
}

func (s *FileSurface) SetVisible(v bool) {
	s.mu.Lock()
	s.visible = v
	s.mu.Unlock()
}

func (s *FileSurface) Visible() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.visible
}

func (s *FileSurface) Size() image.Point {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.size
}

// Frames reports how many frames have been rendered.
func (s *FileSurface) Frames() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frames
}

// Path is the file holding the latest frame.
func (s *FileSurface) Path() string {
	return filepath.Join(s.dir, s.name)
}
