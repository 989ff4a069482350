package writer

import (
	"fmt"

	"github.com/user/camstream/pkg/media"
)

// run is the writer goroutine. Commands are processed strictly in the
// order they were enqueued; Open must precede any write and Close
// flushes everything pending before it returns to the caller.
func (w *Writer) run(ready chan struct{}) {
	defer close(w.done)
	close(ready)

	var (
		open     bool
		path     string
		writeErr error
	)

	reply := func(cmd command, err error) {
		if cmd.done != nil {
			cmd.done <- err
		} else if err != nil {
			w.log.Error("Write failed: %s", err)
		}
	}

	for cmd := range w.cmds {
		switch cmd.op {
		case opOpen:
			w.pendingCtl.Add(-1)
			if open {
				reply(cmd, fmt.Errorf("writer: recording already open, close it first"))
				continue
			}
			opts := cmd.opts
			err := w.encoder.Begin(opts.Width, opts.Height, opts.FPS, opts)
			if err != nil {
				reply(cmd, fmt.Errorf("begin encoder: %w", err))
				continue
			}
			open = true
			path = cmd.path
			writeErr = nil
			w.written.Store(0)
			w.dropped.Store(0)
			w.log.Debug("Recording opened: %s (%dx%d %s/%s)",
				path, opts.Width, opts.Height, opts.Codec, opts.Container)
			reply(cmd, nil)

		case opWrite:
			if !open {
				reply(cmd, fmt.Errorf("writer: write before open"))
				continue
			}
			err := w.encoder.EncodeFrame(cmd.frame.ToImage(), int(cmd.pts*1000))
			if err != nil {
				// A mid-stream write failure does not abort the
				// recording; remaining frames are flushed best-effort
				// and the failure surfaces on Close.
				if writeErr == nil {
					writeErr = err
				}
				w.log.Warn("Frame at %.3fs failed to encode: %s", cmd.pts, err)
			} else {
				w.written.Add(1)
			}
			reply(cmd, err)

		case opClose:
			w.pendingCtl.Add(-1)
			if !open {
				reply(cmd, fmt.Errorf("writer: close before open"))
				continue
			}
			data, err := w.encoder.End()
			if err == nil {
				err = w.fs.WriteFile(path, data)
				if err == nil {
					w.bytes.Store(int64(len(data)))
					w.log.Debug("Recording closed: %s, %d frames, %d bytes",
						path, w.written.Load(), len(data))
				}
			}
			open = false
			if err != nil {
				err = fmt.Errorf("%w: %v", media.ErrEncodingFailed, err)
			} else if writeErr != nil {
				err = fmt.Errorf("%w: %v", media.ErrEncodingFailed, writeErr)
			}
			reply(cmd, err)

		case opShutdown:
			// Close out any recording left open rather than losing it.
			if open {
				if data, err := w.encoder.End(); err == nil {
					if werr := w.fs.WriteFile(path, data); werr != nil {
						w.log.Error("Final flush failed: %s", werr)
					}
				} else {
					w.log.Error("Final flush failed: %s", err)
				}
			}
			reply(cmd, nil)
			return
		}
	}
}
