package csv

import (
	"context"
	"encoding/csv"
	stderrors "errors"
	"fmt"
	"io"
	"os"

	eventv1 "github.com/muhammadchandra19/mbp-reconstruction/internal/domain/event/v1"
	"github.com/muhammadchandra19/mbp-reconstruction/pkg/errors"
)

// Reader reads MBO rows from a CSV stream. The header row is skipped.
type Reader struct {
	csv        *csv.Reader
	closer     io.Closer
	headerRead bool
}

var _ eventv1.Reader = (*Reader)(nil)

// NewReader wraps r. Rows may have any number of fields.
func NewReader(r io.Reader) *Reader {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	reader := &Reader{csv: cr}
	if c, ok := r.(io.Closer); ok {
		reader.closer = c
	}
	return reader
}

// Open opens the MBO file at path.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.NewErrorDetailsWithCause("cannot open input file "+path, errors.InputOpenError, "input", err)
	}
	return NewReader(f), nil
}

// ReadRecord returns the next data row, or io.EOF. A row the CSV parser rejects
// yields an error wrapping eventv1.ErrMalformedRow; reading may continue after it.
func (r *Reader) ReadRecord(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if !r.headerRead {
		r.headerRead = true
		if _, err := r.read(); err != nil {
			return nil, err
		}
	}

	return r.read()
}

func (r *Reader) read() ([]string, error) {
	record, err := r.csv.Read()
	if err == io.EOF {
		return nil, io.EOF
	}
	var parseErr *csv.ParseError
	if stderrors.As(err, &parseErr) {
		return nil, fmt.Errorf("%w: %v", eventv1.ErrMalformedRow, parseErr)
	}
	if err != nil {
		return nil, errors.NewErrorDetailsWithCause("cannot read input", errors.InputReadError, "input", err)
	}
	return record, nil
}

// Close closes the underlying file, if any.
func (r *Reader) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer.Close()
}
