// internal/form/cache.go
//
// Sign-up forms: file-backed definition cache.
//
// Context
//   Operators may serve a form from their own YAML file.  FileCache compiles
//   each file once and hands out the same *Form until the file's mtime or
//   size changes, so an edited definition goes live without a restart.
//
// Workflow
//   •  Hit: one os.Stat, compare with the cached stamp, return.
//   •  Miss or stale: concurrent callers for the same path share one load
//      through singleflight.  The fresh form is registered under its ID.
//   •  A failed reload drops the old entry and returns the error.
//
//------------------------------------------------------------------------------

package form

import (
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

type fileStamp struct {
	mod  int64 // UnixNano
	size int64
}

type cacheEntry struct {
	form  *Form
	stamp fileStamp
}

// FileCache maps definition files to compiled forms.  The zero value is
// ready to use.
type FileCache struct {
	sfg singleflight.Group
	m   sync.Map // abs path → *cacheEntry
}

// Get returns the compiled form for path, loading or reloading as needed.
func (c *FileCache) Get(path string) (*Form, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	st, err := stamp(abs)
	if err != nil {
		c.m.Delete(abs)
		return nil, err
	}
	if v, ok := c.m.Load(abs); ok && v.(*cacheEntry).stamp == st {
		return v.(*cacheEntry).form, nil
	}

	v, err, _ := c.sfg.Do(abs, func() (any, error) {
		// Double-check after singleflight barrier.
		if v, ok := c.m.Load(abs); ok && v.(*cacheEntry).stamp == st {
			return v.(*cacheEntry).form, nil
		}
		fd, err := LoadFormDef(abs)
		if err != nil {
			c.m.Delete(abs)
			return nil, err
		}
		f, err := Register(fd)
		if err != nil {
			c.m.Delete(abs)
			return nil, err
		}
		c.m.Store(abs, &cacheEntry{form: f, stamp: st})
		zap.S().Infow("form definition loaded", "form", fd.ID, "file", abs)
		return f, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Form), nil
}

func stamp(path string) (fileStamp, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return fileStamp{}, err
	}
	return fileStamp{mod: fi.ModTime().UnixNano(), size: fi.Size()}, nil
}
