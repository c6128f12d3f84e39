// Package errs defines the sentinel error values shared across this
// module's layers, so that callers can use errors.Is regardless of which
// component produced the failure.
package errs

import "errors"

var (
	// InvalidFormat means the input is not a Parquet file at all (bad
	// magic bytes, footer length larger than the file).
	InvalidFormat = errors.New("parquet: invalid file format")

	// UnknownEnum means a Thrift-encoded enum value fell outside the set
	// this reader recognizes; the caller should usually treat it as
	// "unsupported" rather than a parse failure.
	UnknownEnum = errors.New("parquet: unknown enum value")

	// UnsupportedCodec means a column chunk declares a compression codec
	// this reader has no decoder for.
	UnsupportedCodec = errors.New("parquet: unsupported compression codec")

	// Malformed means the input violates the Parquet or Thrift wire
	// format's structural rules (an encoding's own internal framing is
	// inconsistent with its declared byte length, for example).
	Malformed = errors.New("parquet: malformed input")

	// Truncated means a read ran past the end of an input that the
	// caller expected to be complete.
	Truncated = errors.New("parquet: truncated input")

	// TypeMismatch means a row accessor was called for a physical type
	// the column does not have.
	TypeMismatch = errors.New("parquet: type mismatch")

	// UnknownColumn means a requested column path does not exist in the
	// file's schema.
	UnknownColumn = errors.New("parquet: unknown column")

	// Io wraps an I/O error surfaced from the underlying reader.
	Io = errors.New("parquet: i/o error")
)
