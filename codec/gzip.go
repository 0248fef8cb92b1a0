package codec

import (
	"bytes"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/pkg/errors"
)

// Gzip wraps inner so that its payloads are stored gzip-compressed.
// Compression uses BestSpeed: snapshot serialization runs under the host's
// per-message instruction limit, so cheap beats small.
func Gzip[T any](inner Codec[T]) Codec[T] {
	return gzipCodec[T]{inner: inner}
}

type gzipCodec[T any] struct {
	inner Codec[T]
}

func (c gzipCodec[T]) Forward(v T) ([]byte, error) {
	data, err := c.inner.Forward(v)
	if err != nil {
		return nil, err
	}

	out := bytes.NewBuffer(make([]byte, 0, len(data)/2+64))
	gw, err := gzip.NewWriterLevel(out, gzip.BestSpeed)
	if err != nil {
		return nil, errors.Wrap(err, "gzip writer")
	}
	if _, err := gw.Write(data); err != nil {
		return nil, errors.Wrap(err, "gzip compress")
	}
	if err := gw.Close(); err != nil {
		return nil, errors.Wrap(err, "gzip close")
	}
	return out.Bytes(), nil
}

func (c gzipCodec[T]) Backward(b []byte) (T, error) {
	var zero T
	g, err := gzip.NewReader(bytes.NewBuffer(b))
	if err != nil {
		return zero, errors.Wrap(err, "gzip reader")
	}
	data, err := io.ReadAll(g)
	if err != nil {
		return zero, errors.Wrap(err, "gzip decompress")
	}
	if err := g.Close(); err != nil {
		return zero, errors.Wrap(err, "gzip close")
	}
	return c.inner.Backward(data)
}
