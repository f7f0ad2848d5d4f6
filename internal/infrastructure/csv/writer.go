package csv

import (
	"bufio"
	"context"
	"encoding/csv"
	"io"
	"os"

	snapshotv1 "github.com/muhammadchandra19/mbp-reconstruction/internal/domain/snapshot/v1"
	"github.com/muhammadchandra19/mbp-reconstruction/pkg/errors"
)

// Writer is the MBP-10 CSV sink. The header is written on construction.
type Writer struct {
	csv    *csv.Writer
	buf    *bufio.Writer
	closer io.Closer
	rows   int64
}

var _ snapshotv1.Sink = (*Writer)(nil)

// NewWriter writes the header to w and returns a sink ready for rows.
func NewWriter(w io.Writer) (*Writer, error) {
	buf := bufio.NewWriterSize(w, 64*1024)
	writer := &Writer{
		csv: csv.NewWriter(buf),
		buf: buf,
	}
	if c, ok := w.(io.Closer); ok {
		writer.closer = c
	}

	if err := writer.csv.Write(snapshotv1.Header()); err != nil {
		return nil, errors.NewErrorDetailsWithCause("cannot write header", errors.SinkWriteError, "csv", err)
	}
	return writer, nil
}

// Create creates (or truncates) the output file at path.
func Create(path string) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, errors.NewErrorDetailsWithCause("cannot create output file "+path, errors.OutputCreateError, "output", err)
	}

	w, err := NewWriter(f)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return w, nil
}

// Write appends one row.
func (w *Writer) Write(_ context.Context, snapshot *snapshotv1.Snapshot) error {
	if err := w.csv.Write(snapshot.Record()); err != nil {
		return err
	}
	w.rows++
	return nil
}

// Rows returns the number of data rows written.
func (w *Writer) Rows() int64 {
	return w.rows
}

// Close flushes buffered rows and closes the underlying file.
func (w *Writer) Close() error {
	w.csv.Flush()
	if err := w.csv.Error(); err != nil {
		return err
	}
	if err := w.buf.Flush(); err != nil {
		return err
	}
	if w.closer != nil {
		return w.closer.Close()
	}
	return nil
}
