// Package errs collects the sentinel error values used across this module.
//
// Callers compare against these with errors.Is; internal code wraps them
// with fmt.Errorf("...: %w", err) to add context, the same convention the
// teacher package uses throughout blob/numeric_decoder.go and
// section/numeric_header.go (errs.ErrInvalidHeaderSize, etc).
package errs

import "errors"

var (
	// ErrIoError covers file-open, permission, and mmap failures. Fatal,
	// surfaced to the caller of decode_all / process_all.
	ErrIoError = errors.New("errs: i/o error")

	// ErrMalformedFormat is returned when an FMT record fails structural
	// validation: non-ASCII name/format fields, a declared length
	// inconsistent with the format string, or a conflicting redefinition of
	// an already-registered type id. Localized to the offending record.
	ErrMalformedFormat = errors.New("errs: malformed format record")

	// ErrTruncatedRecord indicates a declared record length exceeds the
	// remaining bytes in the range being scanned. Ends the scan of that
	// range cleanly; not surfaced as an error from DecodeAll.
	ErrTruncatedRecord = errors.New("errs: truncated record")

	// ErrUnknownType indicates a type id absent from the format table.
	// Localized; the scanner resyncs by one byte.
	ErrUnknownType = errors.New("errs: unknown message type")

	// ErrDecodeError indicates a per-field decode failure (e.g. a fixed
	// ASCII field containing non-ASCII bytes). Localized; the scanner
	// resyncs by one byte.
	ErrDecodeError = errors.New("errs: decode error")

	// ErrCancellationRequested is returned by ProcessAll when the caller's
	// context is cancelled before completion. No partial results are
	// returned alongside it.
	ErrCancellationRequested = errors.New("errs: cancellation requested")

	// ErrInvalidRange is returned when a requested byte range falls outside
	// the bounds of the underlying view.
	ErrInvalidRange = errors.New("errs: invalid byte range")

	// ErrNotKnown names a type id with no registered descriptor. No function
	// in this module returns it: format.Table.Lookup reports a missing type
	// id through its boolean result.
	ErrNotKnown = errors.New("errs: type id not known")
)
