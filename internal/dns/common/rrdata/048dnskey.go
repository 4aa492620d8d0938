package rrdata

import (
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"
)

// encodeDNSKEYData encodes a DNSKEY record string into its binary
// representation (RFC 4034 §2.1: flags, protocol, algorithm, public key).
func encodeDNSKEYData(data string) ([]byte, error) {
	// data = "256 3 8 AwEAAb..."
	parts := strings.Fields(data)
	if len(parts) < 4 {
		return nil, fmt.Errorf("invalid DNSKEY record format (expected 4 fields): %s", data)
	}

	flags, err := strconv.ParseUint(parts[0], 10, 16)
	if err != nil {
		return nil, fmt.Errorf("invalid DNSKEY flags: %v", err)
	}
	protocol, err := strconv.ParseUint(parts[1], 10, 8)
	if err != nil {
		return nil, fmt.Errorf("invalid DNSKEY protocol: %v", err)
	}
	algorithm, err := strconv.ParseUint(parts[2], 10, 8)
	if err != nil {
		return nil, fmt.Errorf("invalid DNSKEY algorithm: %v", err)
	}
	// key material may be wrapped across whitespace in presentation form
	key, err := base64.StdEncoding.DecodeString(strings.Join(parts[3:], ""))
	if err != nil {
		return nil, fmt.Errorf("invalid DNSKEY public key: %v", err)
	}

	out := make([]byte, 4, 4+len(key))
	binary.BigEndian.PutUint16(out[0:2], uint16(flags))
	out[2] = byte(protocol)
	out[3] = byte(algorithm)
	return append(out, key...), nil
}

// decodeDNSKEYData decodes a DNSKEY record's RDATA.
func decodeDNSKEYData(b []byte) (string, error) {
	if len(b) < 5 {
		return "", fmt.Errorf("invalid DNSKEY data length: %d", len(b))
	}
	flags := binary.BigEndian.Uint16(b[0:2])
	return fmt.Sprintf("%d %d %d %s", flags, b[2], b[3],
		base64.StdEncoding.EncodeToString(b[4:])), nil
}
