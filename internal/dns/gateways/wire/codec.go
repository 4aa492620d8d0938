// Package wire implements the RFC 1035 DNS message codec: header and section
// parsing, name compression, EDNS0 OPT handling, and size-limited encoding
// with truncation. RDATA payloads are carried opaquely; per-type layouts live
// in the rrdata package.
package wire

import (
	"github.com/haukened/rr-authd/internal/dns/common/log"
	"github.com/haukened/rr-authd/internal/dns/domain"
)

// Codec translates between wire-format packets and domain messages.
type Codec interface {
	// DecodeMessage parses a complete DNS message. Malformed input yields an
	// error wrapping domain.ErrFormat and no partial message.
	DecodeMessage(data []byte) (domain.Message, error)

	// EncodeMessage serializes a message, compressing names against emitted
	// suffixes. maxSize bounds the packet (0 means unbounded, for stream
	// transports); oversized messages are truncated from the least essential
	// section with the TC flag set, keeping header and question intact.
	EncodeMessage(msg domain.Message, maxSize int) ([]byte, error)
}

type codec struct {
	logger log.Logger
}

// NewCodec returns the standard DNS message codec.
func NewCodec(logger log.Logger) Codec {
	return &codec{logger: logger}
}

// header flag bit positions (RFC 1035 §4.1.1)
const (
	flagQR = 1 << 15
	flagAA = 1 << 10
	flagTC = 1 << 9
	flagRD = 1 << 8
	flagRA = 1 << 7

	opcodeShift = 11
	opcodeMask  = 0xF
	rcodeMask   = 0xF
)

// packFlags folds the header booleans into the 16-bit flags word.
func packFlags(h domain.Header) uint16 {
	var f uint16
	if h.Response {
		f |= flagQR
	}
	f |= (uint16(h.Opcode) & opcodeMask) << opcodeShift
	if h.Authoritative {
		f |= flagAA
	}
	if h.Truncated {
		f |= flagTC
	}
	if h.RecursionDesired {
		f |= flagRD
	}
	if h.RecursionAvailable {
		f |= flagRA
	}
	f |= uint16(h.RCode) & rcodeMask
	return f
}

// unpackFlags expands the flags word into header booleans.
func unpackFlags(f uint16, h *domain.Header) {
	h.Response = f&flagQR != 0
	h.Opcode = domain.Opcode((f >> opcodeShift) & opcodeMask)
	h.Authoritative = f&flagAA != 0
	h.Truncated = f&flagTC != 0
	h.RecursionDesired = f&flagRD != 0
	h.RecursionAvailable = f&flagRA != 0
	h.RCode = domain.RCode(f & rcodeMask)
}
