package rrdata

import (
	"encoding/base32"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
)

// base32HexNoPad is the base32hex alphabet without padding used for NSEC3
// next-hashed-owner names (RFC 5155 §3.3, RFC 4648 "extended hex").
var base32HexNoPad = base32.HexEncoding.WithPadding(base32.NoPadding)

// encodeNSEC3Data encodes an NSEC3 record string into its binary
// representation (RFC 5155 §3.1: hash algorithm, flags, iterations,
// salt, next hashed owner name, type bitmap).
func encodeNSEC3Data(data string) ([]byte, error) {
	// data = "1 0 5 4CD7B054 1KH27L1DSQOR2RO6I202GTCTPDHKCB93 A NS SOA"
	parts := strings.Fields(data)
	if len(parts) < 5 {
		return nil, fmt.Errorf("invalid NSEC3 record format (expected 5+ fields): %s", data)
	}

	hashAlg, err := strconv.ParseUint(parts[0], 10, 8)
	if err != nil {
		return nil, fmt.Errorf("invalid NSEC3 hash algorithm: %v", err)
	}
	flags, err := strconv.ParseUint(parts[1], 10, 8)
	if err != nil {
		return nil, fmt.Errorf("invalid NSEC3 flags: %v", err)
	}
	iterations, err := strconv.ParseUint(parts[2], 10, 16)
	if err != nil {
		return nil, fmt.Errorf("invalid NSEC3 iterations: %v", err)
	}

	// "-" means an empty salt
	var salt []byte
	if parts[3] != "-" {
		salt, err = hex.DecodeString(parts[3])
		if err != nil {
			return nil, fmt.Errorf("invalid NSEC3 salt: %v", err)
		}
	}
	if len(salt) > 255 {
		return nil, fmt.Errorf("NSEC3 salt too long: %d", len(salt))
	}

	hash, err := base32HexNoPad.DecodeString(strings.ToUpper(parts[4]))
	if err != nil {
		return nil, fmt.Errorf("invalid NSEC3 next hashed owner: %v", err)
	}
	if len(hash) > 255 {
		return nil, fmt.Errorf("NSEC3 hash too long: %d", len(hash))
	}

	var bitmap []byte
	if len(parts) > 5 {
		types, err := parseTypeBitmapString(strings.Join(parts[5:], " "))
		if err != nil {
			return nil, fmt.Errorf("invalid NSEC3 type list: %v", err)
		}
		bitmap = encodeTypeBitmap(types)
	}

	out := make([]byte, 0, 6+len(salt)+len(hash)+len(bitmap))
	out = append(out, byte(hashAlg), byte(flags))
	out = putUint16(out, uint16(iterations))
	out = append(out, byte(len(salt)))
	out = append(out, salt...)
	out = append(out, byte(len(hash)))
	out = append(out, hash...)
	return append(out, bitmap...), nil
}

// decodeNSEC3Data decodes an NSEC3 record's RDATA.
func decodeNSEC3Data(b []byte) (string, error) {
	if len(b) < 6 {
		return "", fmt.Errorf("invalid NSEC3 data length: %d", len(b))
	}
	hashAlg := b[0]
	flags := b[1]
	iterations := binary.BigEndian.Uint16(b[2:4])

	saltLen := int(b[4])
	if 5+saltLen >= len(b) {
		return "", fmt.Errorf("NSEC3 salt length exceeds remaining data")
	}
	salt := "-"
	if saltLen > 0 {
		salt = strings.ToUpper(hex.EncodeToString(b[5 : 5+saltLen]))
	}

	hashOff := 5 + saltLen
	hashLen := int(b[hashOff])
	if hashOff+1+hashLen > len(b) {
		return "", fmt.Errorf("NSEC3 hash length exceeds remaining data")
	}
	hash := base32HexNoPad.EncodeToString(b[hashOff+1 : hashOff+1+hashLen])

	types, err := decodeTypeBitmap(b[hashOff+1+hashLen:])
	if err != nil {
		return "", fmt.Errorf("invalid NSEC3 type bitmap: %v", err)
	}

	out := fmt.Sprintf("%d %d %d %s %s", hashAlg, flags, iterations, salt, hash)
	if len(types) > 0 {
		out += " " + typeBitmapString(types)
	}
	return out, nil
}
