package parse

import (
	"compress/gzip"
	"context"
	"fmt"
	"io"
)

// countingReader counts raw bytes pulled from the underlying source.
// It sits below the gzip inflater so the count reflects transport
// (compressed) bytes, which is what progress against a file size needs.
type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

// chunkReader caps every Read at the configured chunk size and invokes
// a callback after each chunk so the session can account memory, report
// progress and yield between chunks. The downstream decoder therefore
// never observes more than one chunk's worth of fresh bytes per step.
type chunkReader struct {
	ctx       context.Context
	r         io.Reader
	chunkSize int
	chunks    int
	inflated  int64
	afterRead func(chunk int, total int64) error
}

func (c *chunkReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	if len(p) > c.chunkSize {
		p = p[:c.chunkSize]
	}
	n, err := c.r.Read(p)
	if n > 0 {
		c.chunks++
		c.inflated += int64(n)
		if c.afterRead != nil {
			if cbErr := c.afterRead(c.chunks, c.inflated); cbErr != nil {
				return n, cbErr
			}
		}
	}
	return n, err
}

// newInputReader assembles the read stack for a session: raw counter,
// optional gzip inflater, chunk metering. It returns the chunk reader
// plus the raw counter for compression-ratio accounting.
func newInputReader(ctx context.Context, src io.Reader, cfg Config, afterRead func(int, int64) error) (*chunkReader, *countingReader, error) {
	raw := &countingReader{r: src}

	var in io.Reader = raw
	if cfg.EnableCompression {
		gz, err := gzip.NewReader(raw)
		if err != nil {
			return nil, nil, &ParseError{Offset: raw.n, Msg: fmt.Sprintf("not a gzip stream: %v", err), Err: err}
		}
		in = gz
	}

	return &chunkReader{
		ctx:       ctx,
		r:         in,
		chunkSize: cfg.ChunkSize,
		afterRead: afterRead,
	}, raw, nil
}
