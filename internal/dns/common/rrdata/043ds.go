package rrdata

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
)

// encodeDSData encodes a DS record string into its binary representation
// (RFC 4034 §5.1: key tag, algorithm, digest type, digest).
func encodeDSData(data string) ([]byte, error) {
	// data = "keytag algorithm digesttype hexdigest"
	parts := strings.Fields(data)
	if len(parts) < 4 {
		return nil, fmt.Errorf("invalid DS record format (expected 4 fields): %s", data)
	}

	keyTag, err := strconv.ParseUint(parts[0], 10, 16)
	if err != nil {
		return nil, fmt.Errorf("invalid DS key tag: %v", err)
	}
	algorithm, err := strconv.ParseUint(parts[1], 10, 8)
	if err != nil {
		return nil, fmt.Errorf("invalid DS algorithm: %v", err)
	}
	digestType, err := strconv.ParseUint(parts[2], 10, 8)
	if err != nil {
		return nil, fmt.Errorf("invalid DS digest type: %v", err)
	}
	// digest may be split across whitespace in presentation form
	digest, err := hex.DecodeString(strings.Join(parts[3:], ""))
	if err != nil {
		return nil, fmt.Errorf("invalid DS digest: %v", err)
	}

	out := make([]byte, 4, 4+len(digest))
	binary.BigEndian.PutUint16(out[0:2], uint16(keyTag))
	out[2] = byte(algorithm)
	out[3] = byte(digestType)
	return append(out, digest...), nil
}

// decodeDSData decodes a DS record's RDATA.
func decodeDSData(b []byte) (string, error) {
	if len(b) < 5 {
		return "", fmt.Errorf("invalid DS data length: %d", len(b))
	}
	keyTag := binary.BigEndian.Uint16(b[0:2])
	return fmt.Sprintf("%d %d %d %s", keyTag, b[2], b[3],
		strings.ToUpper(hex.EncodeToString(b[4:]))), nil
}
