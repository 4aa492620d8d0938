package wire

import (
	"fmt"

	"github.com/haukened/rr-authd/internal/dns/common/dnsname"
	"github.com/haukened/rr-authd/internal/dns/domain"
)

// maxCompressionPointers bounds how many pointers one name may chase. Every
// legal pointer targets a strictly earlier offset, so chains are finite even
// without this bound; it just caps the work a hostile message can cause.
const maxCompressionPointers = 63

// decodeName reads a possibly compressed domain name starting at offset,
// returning the name in presentation form and the offset just past the name
// in the original (uncompressed) byte stream. Compression pointers must
// target strictly earlier offsets (RFC 1035 §4.1.4); forward or self
// references, oversized labels, and out-of-bounds reads all yield
// domain.ErrFormat.
func decodeName(msg []byte, offset int) (string, int, error) {
	var labels []string
	wireLen := 1 // terminating root octet
	next := -1   // resume offset in the outer stream, set at the first pointer
	pointers := 0
	pos := offset

	for {
		if pos >= len(msg) {
			return "", 0, fmt.Errorf("%w: name runs past end of message", domain.ErrFormat)
		}
		octet := int(msg[pos])
		switch {
		case octet == 0:
			if next < 0 {
				next = pos + 1
			}
			name := dnsname.JoinLabels(labels)
			return name, next, nil

		case octet&0xC0 == 0xC0:
			if pos+1 >= len(msg) {
				return "", 0, fmt.Errorf("%w: compression pointer runs past end of message", domain.ErrFormat)
			}
			target := (octet&0x3F)<<8 | int(msg[pos+1])
			if target >= pos {
				return "", 0, fmt.Errorf("%w: compression pointer at %d targets %d (must point backward)", domain.ErrFormat, pos, target)
			}
			pointers++
			if pointers > maxCompressionPointers {
				return "", 0, fmt.Errorf("%w: compression pointer chain too long", domain.ErrFormat)
			}
			if next < 0 {
				next = pos + 2
			}
			pos = target

		case octet&0xC0 != 0:
			// 0x40 and 0x80 label types are reserved
			return "", 0, fmt.Errorf("%w: unsupported label type %#x", domain.ErrFormat, octet&0xC0)

		default:
			if pos+1+octet > len(msg) {
				return "", 0, fmt.Errorf("%w: label runs past end of message", domain.ErrFormat)
			}
			wireLen += 1 + octet
			if wireLen > dnsname.MaxNameLength {
				return "", 0, fmt.Errorf("%w: name exceeds %d octets", domain.ErrFormat, dnsname.MaxNameLength)
			}
			labels = append(labels, string(msg[pos+1:pos+1+octet]))
			pos += 1 + octet
		}
	}
}

// nameEncoder writes domain names into a message buffer, compressing each
// name against the longest already emitted suffix (RFC 1035 §4.1.4).
type nameEncoder struct {
	offsets map[string]int
}

func newNameEncoder() *nameEncoder {
	return &nameEncoder{offsets: make(map[string]int)}
}

// append encodes name at the end of buf, emitting literal labels for the
// uncovered prefix and a 2-byte pointer for the longest known suffix.
func (e *nameEncoder) append(buf []byte, name string) ([]byte, error) {
	labels, err := dnsname.SplitLabels(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrFormat, err)
	}
	for i := range labels {
		suffix := dnsname.JoinLabels(labels[i:])
		if off, ok := e.offsets[suffix]; ok {
			buf = append(buf, 0xC0|byte(off>>8), byte(off))
			return buf, nil
		}
		// pointers only address the first 16KiB of the message
		if off := len(buf); off < 0x4000 {
			e.offsets[suffix] = off
		}
		buf = append(buf, byte(len(labels[i])))
		buf = append(buf, labels[i]...)
	}
	return append(buf, 0), nil
}

// appendUncompressed encodes name as literal labels without consulting or
// extending the suffix table. Names inside RDATA stay uncompressed (RFC 3597
// §4); their offsets would also become stale when sections are truncated.
func appendUncompressed(buf []byte, name string) ([]byte, error) {
	labels, err := dnsname.SplitLabels(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrFormat, err)
	}
	for _, l := range labels {
		buf = append(buf, byte(len(l)))
		buf = append(buf, l...)
	}
	return append(buf, 0), nil
}
