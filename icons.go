package tendril

import (
	"fmt"
	"image"
	_ "image/png" // register PNG decoder
	"io/fs"

	_ "golang.org/x/image/webp" // register WebP decoder
)

// IconSource resolves a role name to an icon image. It returns nil while the
// icon is unavailable; callers draw the bubble without it.
type IconSource interface {
	Icon(name string) image.Image
}

// IconSet loads icons lazily from a filesystem. A failed load is logged and
// retried on the next lookup, so an icon that appears later is picked up.
// Not safe for concurrent use.
type IconSet struct {
	fsys   fs.FS
	paths  map[string]string
	loaded map[string]image.Image
}

// NewIconSet returns a set mapping role names to paths within fsys.
func NewIconSet(fsys fs.FS, paths map[string]string) *IconSet {
	p := make(map[string]string, len(paths))
	for k, v := range paths {
		p[k] = v
	}
	return &IconSet{fsys: fsys, paths: p, loaded: make(map[string]image.Image)}
}

// Icon returns the decoded icon for name, or nil if it has no path or has
// not loaded yet.
func (s *IconSet) Icon(name string) image.Image {
	if img, ok := s.loaded[name]; ok {
		return img
	}
	path, ok := s.paths[name]
	if !ok {
		return nil
	}
	img, err := s.load(path)
	if err != nil {
		Logger().Warn("tendril: icon load failed", "name", name, "path", path, "err", err)
		return nil
	}
	s.loaded[name] = img
	return img
}

func (s *IconSet) load(path string) (image.Image, error) {
	f, err := s.fsys.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}
