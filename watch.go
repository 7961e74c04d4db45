package main

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/ztrue/tracerr"
)

// watch calls fn once, then again after every write to path, until ctx is
// done. The parent directory is watched so editors that replace the file on
// save are still seen.
func (d *driver) watch(ctx context.Context, path string, fn func()) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return tracerr.Wrap(err)
	}
	defer w.Close()

	abs, err := filepath.Abs(path)
	if err != nil {
		return tracerr.Wrap(err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return tracerr.Wrap(err)
	}

	fn()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Name != abs || ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			plog.Debugf("%s changed (%s)", path, ev.Op)
			fn()
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			plog.Warningf("watching %s: %s", path, err)
		}
	}
}
