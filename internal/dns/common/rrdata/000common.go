package rrdata

import (
	"encoding/binary"
	"fmt"
	"net"
	"sort"
	"strings"

	"github.com/haukened/rr-authd/internal/dns/common/dnsname"
	"github.com/haukened/rr-authd/internal/dns/domain"
)

// encodeDomainName encodes a domain name into wire format (length-prefixed labels ending in 0).
// used in multiple record types. Empty labels are skipped; names embedded in
// RDATA are never compressed (RFC 3597 §4).
func encodeDomainName(name string) ([]byte, error) {
	// name = foo.example.com.
	name = dnsname.Canonical(name)
	labels := strings.Split(name, ".")
	var encoded []byte
	for _, label := range labels {
		if len(label) == 0 {
			continue
		}
		if len(label) > dnsname.MaxLabelLength {
			return nil, fmt.Errorf("label too long: %s", label)
		}
		encoded = append(encoded, byte(len(label)))
		encoded = append(encoded, label...)
	}
	encoded = append(encoded, 0) // null terminator
	return encoded, nil
}

func decodeDomainName(b []byte) (string, error) {
	name, _, err := decodeDomainNameAt(b)
	return name, err
}

// decodeDomainNameAt decodes an uncompressed domain name from the start of b,
// returning the name and the number of octets consumed. Record types whose
// RDATA carries fields after a name (SOA, MX, SRV, RRSIG) need the consumed
// length to find the next field.
func decodeDomainNameAt(b []byte) (string, int, error) {
	var labels []string
	i := 0
	for {
		if i >= len(b) {
			return "", 0, fmt.Errorf("invalid domain name encoding")
		}
		labelLen := int(b[i])
		i++
		if labelLen == 0 {
			break
		}
		if i+labelLen > len(b) {
			return "", 0, fmt.Errorf("invalid domain name encoding")
		}
		labels = append(labels, string(b[i:i+labelLen]))
		i += labelLen
	}
	return strings.Join(labels, "."), i, nil
}

// isIPv4 checks whether the provided net.IP address is an IPv4 address.
// It returns true if the IP is not nil and can be converted to IPv4 format.
func isIPv4(ip net.IP) bool {
	return ip != nil && ip.To4() != nil
}

// isIPv6 checks whether the provided net.IP is a valid IPv6 address.
// It returns true if the IP is not nil, has a valid 16-byte representation,
// and does not have a valid 4-byte IPv4 representation.
func isIPv6(ip net.IP) bool {
	return ip != nil && ip.To16() != nil && ip.To4() == nil
}

// encodeTypeBitmap encodes a set of RR types into the NSEC/NSEC3 type bitmap
// wire form (RFC 4034 §4.1.2): window blocks of (window, length, bitmap).
func encodeTypeBitmap(types []domain.RRType) []byte {
	if len(types) == 0 {
		return nil
	}
	sorted := append([]domain.RRType(nil), types...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	var out []byte
	window := -1
	var bitmap [32]byte
	maxOctet := 0
	flush := func() {
		if window >= 0 && maxOctet > 0 {
			out = append(out, byte(window), byte(maxOctet))
			out = append(out, bitmap[:maxOctet]...)
		}
	}
	for _, t := range sorted {
		w := int(t >> 8)
		if w != window {
			flush()
			window = w
			bitmap = [32]byte{}
			maxOctet = 0
		}
		low := int(t & 0xFF)
		bitmap[low/8] |= 0x80 >> (low % 8)
		if low/8+1 > maxOctet {
			maxOctet = low/8 + 1
		}
	}
	flush()
	return out
}

// decodeTypeBitmap decodes an NSEC/NSEC3 type bitmap into its RR types.
func decodeTypeBitmap(b []byte) ([]domain.RRType, error) {
	var types []domain.RRType
	for i := 0; i < len(b); {
		if i+2 > len(b) {
			return nil, fmt.Errorf("truncated type bitmap header")
		}
		window := int(b[i])
		length := int(b[i+1])
		i += 2
		if length < 1 || length > 32 {
			return nil, fmt.Errorf("invalid type bitmap length: %d", length)
		}
		if i+length > len(b) {
			return nil, fmt.Errorf("truncated type bitmap window")
		}
		for octet := 0; octet < length; octet++ {
			for bit := 0; bit < 8; bit++ {
				if b[i+octet]&(0x80>>bit) != 0 {
					types = append(types, domain.RRType(window<<8|octet*8+bit))
				}
			}
		}
		i += length
	}
	return types, nil
}

// typeBitmapString renders decoded bitmap types as space-separated mnemonics.
func typeBitmapString(types []domain.RRType) string {
	parts := make([]string, len(types))
	for i, t := range types {
		parts[i] = t.String()
	}
	return strings.Join(parts, " ")
}

// parseTypeBitmapString parses space-separated type mnemonics ("A NS RRSIG")
// into RR types, accepting the RFC 3597 TYPE<n> generic form.
func parseTypeBitmapString(s string) ([]domain.RRType, error) {
	fields := strings.Fields(s)
	types := make([]domain.RRType, 0, len(fields))
	for _, f := range fields {
		t := domain.RRTypeFromString(f)
		if t == 0 {
			var generic uint16
			if _, err := fmt.Sscanf(f, "TYPE%d", &generic); err != nil {
				return nil, fmt.Errorf("unknown RR type %q in bitmap", f)
			}
			t = domain.RRType(generic)
		}
		types = append(types, t)
	}
	return types, nil
}

// putUint16 appends a big-endian uint16.
func putUint16(b []byte, v uint16) []byte {
	var tmp [2]byte
	binary.BigEndian.PutUint16(tmp[:], v)
	return append(b, tmp[:]...)
}

// putUint32 appends a big-endian uint32.
func putUint32(b []byte, v uint32) []byte {
	var tmp [4]byte
	binary.BigEndian.PutUint32(tmp[:], v)
	return append(b, tmp[:]...)
}
