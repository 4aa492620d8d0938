package rrdata

import (
	"fmt"
	"strings"
)

// encodeNSECData encodes an NSEC record string into its binary
// representation (RFC 4034 §4.1: next domain name + type bitmap).
func encodeNSECData(data string) ([]byte, error) {
	// data = "next.example.com A NS SOA RRSIG NSEC"
	parts := strings.Fields(data)
	if len(parts) < 2 {
		return nil, fmt.Errorf("invalid NSEC record format (expected next name + types): %s", data)
	}

	next, err := encodeDomainName(parts[0])
	if err != nil {
		return nil, fmt.Errorf("invalid NSEC next domain: %v", err)
	}
	types, err := parseTypeBitmapString(strings.Join(parts[1:], " "))
	if err != nil {
		return nil, fmt.Errorf("invalid NSEC type list: %v", err)
	}
	return append(next, encodeTypeBitmap(types)...), nil
}

// decodeNSECData decodes an NSEC record's RDATA.
func decodeNSECData(b []byte) (string, error) {
	next, n, err := decodeDomainNameAt(b)
	if err != nil {
		return "", fmt.Errorf("invalid NSEC next domain: %v", err)
	}
	types, err := decodeTypeBitmap(b[n:])
	if err != nil {
		return "", fmt.Errorf("invalid NSEC type bitmap: %v", err)
	}
	if len(types) == 0 {
		return next, nil
	}
	return next + " " + typeBitmapString(types), nil
}
