package types

import (
	"context"
	"io"
)

type RWCallback func(n int64)
type RWOption func(*ReaderWriter)

func RWWithReadLimiter(limiter *RateLimiter) RWOption {
	return func(r *ReaderWriter) {
		r.limiter = limiter
	}
}

func RWWithIOReader(reader io.Reader) RWOption {
	return func(r *ReaderWriter) {
		r.reader = reader
	}
}

func RWWithIOWriter(writer io.Writer) RWOption {
	return func(r *ReaderWriter) {
		r.writer = writer
	}
}

func RWWithReaderCallback(callback RWCallback) RWOption {
	return func(r *ReaderWriter) {
		r.callback = callback
	}
}

type ReaderFunc func(p []byte) (int, error)

func (f ReaderFunc) Read(p []byte) (int, error) { return f(p) }

// ReaderWriter wraps an io.Reader and io.Writer pair and adds context
// cancellation, read rate limiting and a per-chunk callback to the copy.
//
// The callback fires after each read. This is a hot path so don't block
// in the callback.
type ReaderWriter struct {
	reader   io.Reader
	writer   io.Writer
	limiter  *RateLimiter
	callback RWCallback
}

func NewReaderWriter(opts ...RWOption) *ReaderWriter {
	rw := &ReaderWriter{
		limiter: DefaultRateLimiter(),
	}
	for _, opt := range opts {
		opt(rw)
	}
	return rw
}

// Transfer copies everything from the reader to the writer in fixed-size
// chunks. Memory use is bounded by the io.Copy buffer regardless of input
// size.
func (rw *ReaderWriter) Transfer(ctx context.Context) (int64, error) {
	return io.Copy(rw.writer, rw.Reader(ctx))
}

// Reader creates a new io.Reader that wraps the underlying reader.
func (rw *ReaderWriter) Reader(ctx context.Context) io.Reader {
	return ReaderFunc(func(p []byte) (int, error) {
		return rw.read(ctx, p)
	})
}

func (rw *ReaderWriter) read(ctx context.Context, p []byte) (int, error) {
	select {
	case <-ctx.Done():
		return 0, ctx.Err()
	default:
		if rw.limiter != nil {
			if err := rw.limiter.WaitN(ctx, len(p)); err != nil {
				return 0, err
			}
		}
		n, err := rw.reader.Read(p)
		if err == nil && rw.callback != nil {
			rw.callback(int64(n))
		}
		return n, err
	}
}
