package checklist

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/philipparndt/stlchecklist/pkg/geometry"
	"github.com/philipparndt/stlchecklist/pkg/stl"
	"github.com/philipparndt/stlchecklist/pkg/thumbnail"
)

// Renderer turns a mesh into a preview image
type Renderer interface {
	Render(mesh *stl.Mesh, bbox geometry.BoundingBox) (*thumbnail.Thumbnail, error)
	// Reentrant reports whether Render may run on several goroutines at once
	Reentrant() bool
}

// Options configures a Scanner
type Options struct {
	Extension string // Matched case-insensitively, including the dot
	Workers   int    // Files processed concurrently; values below 2 scan sequentially
	Logger    *zap.Logger
}

// Scanner walks a folder and renders a preview for every mesh file
type Scanner struct {
	renderer  Renderer
	extension string
	workers   int
	log       *zap.Logger

	renderMu sync.Mutex
}

// NewScanner creates a scanner using the given renderer
func NewScanner(renderer Renderer, opts Options) *Scanner {
	ext := opts.Extension
	if ext == "" {
		ext = ".stl"
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Scanner{
		renderer:  renderer,
		extension: strings.ToLower(ext),
		workers:   max(opts.Workers, 1),
		log:       log,
	}
}

// Find returns the slash-separated paths, relative to root, of every file
// whose name carries the scanner's extension, in lexical walk order.
func (s *Scanner) Find(root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, &RootNotFoundError{Root: root, Err: err}
	}
	if !info.IsDir() {
		return nil, &RootNotFoundError{Root: root, Err: fmt.Errorf("%s is not a directory", root)}
	}

	// WalkDir does not descend into a symlinked root, so walk its target
	walkRoot, err := filepath.EvalSymlinks(root)
	if err != nil {
		return nil, &RootNotFoundError{Root: root, Err: err}
	}

	var found []string
	err = filepath.WalkDir(walkRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == walkRoot {
				return err
			}
			s.log.Warn("skipping unreadable path", zap.String("path", path), zap.Error(err))
			return nil
		}
		if d.IsDir() || !s.Matches(d.Name()) {
			return nil
		}

		rel, err := filepath.Rel(walkRoot, path)
		if err != nil {
			return err
		}
		found = append(found, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, &RootNotFoundError{Root: root, Err: err}
	}

	return found, nil
}

// Matches reports whether a file name carries the scanner's extension
func (s *Scanner) Matches(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), s.extension)
}

// Scan finds every mesh file under root and renders its preview. Failures of
// single files degrade that item and never abort the scan; only an invalid
// root is returned as an error.
func (s *Scanner) Scan(root string) ([]Item, error) {
	paths, err := s.Find(root)
	if err != nil {
		return nil, err
	}

	s.log.Info("scanning folder",
		zap.String("root", root),
		zap.Int("files", len(paths)),
		zap.Int("workers", s.workers),
	)

	items := make([]Item, len(paths))

	if s.workers == 1 {
		for i, rel := range paths {
			items[i] = s.processFile(root, rel)
		}
		return items, nil
	}

	var g errgroup.Group
	g.SetLimit(s.workers)
	for i, rel := range paths {
		i, rel := i, rel
		g.Go(func() error {
			items[i] = s.processFile(root, rel)
			return nil
		})
	}
	_ = g.Wait()

	return items, nil
}

// processFile runs one file through parse, bounds and render. The mesh is
// dropped on return, so only the encoded preview outlives this call.
func (s *Scanner) processFile(root, rel string) (item Item) {
	item = Item{
		ID:       ItemID(rel),
		Filename: filepath.Base(filepath.FromSlash(rel)),
		Path:     rel,
		Status:   StatusFailed,
	}

	defer func() {
		if rec := recover(); rec != nil {
			s.fail(&item, &thumbnail.RenderError{Err: fmt.Errorf("panic: %v", rec)})
		}
	}()

	mesh, err := stl.Parse(filepath.Join(root, filepath.FromSlash(rel)))
	if err != nil {
		if errors.Is(err, stl.ErrNoTriangles) {
			item.Status = StatusEmpty
		}
		s.fail(&item, err)
		return item
	}
	item.TriangleCount = mesh.TriangleCount()

	bbox, err := geometry.CalculateBounds(mesh.Points)
	if err != nil {
		s.fail(&item, err)
		return item
	}

	thumb, err := s.render(mesh, bbox)
	if err != nil {
		s.fail(&item, err)
		return item
	}

	item.Preview = thumb.Base64()
	item.Status = StatusOK
	s.log.Debug("rendered preview",
		zap.String("path", rel),
		zap.Int("triangles", item.TriangleCount),
		zap.Int("bytes", len(thumb.PNG)),
	)
	return item
}

func (s *Scanner) render(mesh *stl.Mesh, bbox geometry.BoundingBox) (*thumbnail.Thumbnail, error) {
	if !s.renderer.Reentrant() {
		s.renderMu.Lock()
		defer s.renderMu.Unlock()
	}
	return s.renderer.Render(mesh, bbox)
}

func (s *Scanner) fail(item *Item, err error) {
	item.Preview = ""
	item.Detail = err.Error()
	s.log.Warn("preview generation failed",
		zap.String("path", item.Path),
		zap.String("status", string(item.Status)),
		zap.Error(err),
	)
}
