package domain

import "errors"

// Error taxonomy shared by the wire codec and the lookup path. Decode
// failures wrap ErrFormat so callers can map any malformed-input condition
// to FORMERR with errors.Is; the remaining sentinels cover the non-lookup
// failure modes surfaced on the serve path.
var (
	// ErrFormat marks malformed wire input: bad lengths, bad compression,
	// section count mismatch. Decoding never yields partial structure
	// alongside it.
	ErrFormat = errors.New("malformed DNS message")

	// ErrNotImplemented marks an unsupported opcode, recognized at decode
	// time independent of the lookup engine.
	ErrNotImplemented = errors.New("unsupported opcode")

	// ErrRefused marks a query for a name outside every served zone.
	ErrRefused = errors.New("query outside served zones")

	// ErrServerFailure marks an internal invariant violation, e.g. an
	// inconsistent tree reached during lookup. Unlike the other conditions
	// this is a bug, not normal control flow.
	ErrServerFailure = errors.New("internal server failure")
)

// RCodeForError maps a serve-path error to the response code it should
// produce. Unrecognized errors are treated as server failures.
func RCodeForError(err error) RCode {
	switch {
	case err == nil:
		return RCodeNoError
	case errors.Is(err, ErrFormat):
		return RCodeFormatError
	case errors.Is(err, ErrNotImplemented):
		return RCodeNotImplemented
	case errors.Is(err, ErrRefused):
		return RCodeRefused
	default:
		return RCodeServerFailure
	}
}
