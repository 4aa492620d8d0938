package rrdata

import (
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/haukened/rr-authd/internal/dns/domain"
)

// rrsigTimeLayout is the YYYYMMDDHHmmSS presentation form of RRSIG validity
// timestamps (RFC 4034 §3.2); plain integer seconds-since-epoch is also
// accepted.
const rrsigTimeLayout = "20060102150405"

// encodeRRSIGData encodes an RRSIG record string into its binary
// representation (RFC 4034 §3.1).
func encodeRRSIGData(data string) ([]byte, error) {
	// data = "typecovered algorithm labels origttl expiration inception keytag signer signature"
	parts := strings.Fields(data)
	if len(parts) < 9 {
		return nil, fmt.Errorf("invalid RRSIG record format (expected 9 fields): %s", data)
	}

	typeCovered := domain.RRTypeFromString(parts[0])
	if typeCovered == 0 {
		return nil, fmt.Errorf("invalid RRSIG type covered: %s", parts[0])
	}
	algorithm, err := strconv.ParseUint(parts[1], 10, 8)
	if err != nil {
		return nil, fmt.Errorf("invalid RRSIG algorithm: %v", err)
	}
	labels, err := strconv.ParseUint(parts[2], 10, 8)
	if err != nil {
		return nil, fmt.Errorf("invalid RRSIG labels: %v", err)
	}
	origTTL, err := strconv.ParseUint(parts[3], 10, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid RRSIG original TTL: %v", err)
	}
	expiration, err := parseRRSIGTime(parts[4])
	if err != nil {
		return nil, fmt.Errorf("invalid RRSIG expiration: %v", err)
	}
	inception, err := parseRRSIGTime(parts[5])
	if err != nil {
		return nil, fmt.Errorf("invalid RRSIG inception: %v", err)
	}
	keyTag, err := strconv.ParseUint(parts[6], 10, 16)
	if err != nil {
		return nil, fmt.Errorf("invalid RRSIG key tag: %v", err)
	}
	signer, err := encodeDomainName(parts[7])
	if err != nil {
		return nil, fmt.Errorf("invalid RRSIG signer: %v", err)
	}
	// signature may be wrapped across whitespace in presentation form
	signature, err := base64.StdEncoding.DecodeString(strings.Join(parts[8:], ""))
	if err != nil {
		return nil, fmt.Errorf("invalid RRSIG signature: %v", err)
	}

	out := make([]byte, 0, 18+len(signer)+len(signature))
	out = putUint16(out, uint16(typeCovered))
	out = append(out, byte(algorithm), byte(labels))
	out = putUint32(out, uint32(origTTL))
	out = putUint32(out, expiration)
	out = putUint32(out, inception)
	out = putUint16(out, uint16(keyTag))
	out = append(out, signer...)
	return append(out, signature...), nil
}

// decodeRRSIGData decodes an RRSIG record's RDATA.
func decodeRRSIGData(b []byte) (string, error) {
	if len(b) < 19 {
		return "", fmt.Errorf("invalid RRSIG data length: %d", len(b))
	}
	typeCovered := domain.RRType(binary.BigEndian.Uint16(b[0:2]))
	algorithm := b[2]
	labels := b[3]
	origTTL := binary.BigEndian.Uint32(b[4:8])
	expiration := binary.BigEndian.Uint32(b[8:12])
	inception := binary.BigEndian.Uint32(b[12:16])
	keyTag := binary.BigEndian.Uint16(b[16:18])

	signer, n, err := decodeDomainNameAt(b[18:])
	if err != nil {
		return "", fmt.Errorf("invalid RRSIG signer: %v", err)
	}
	signature := base64.StdEncoding.EncodeToString(b[18+n:])

	return fmt.Sprintf("%s %d %d %d %s %s %d %s %s",
		typeCovered, algorithm, labels, origTTL,
		formatRRSIGTime(expiration), formatRRSIGTime(inception),
		keyTag, signer, signature), nil
}

// parseRRSIGTime accepts either YYYYMMDDHHmmSS or integer epoch seconds.
func parseRRSIGTime(s string) (uint32, error) {
	if len(s) == 14 {
		ts, err := time.Parse(rrsigTimeLayout, s)
		if err == nil {
			return uint32(ts.Unix()), nil
		}
	}
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, err
	}
	return uint32(v), nil
}

// formatRRSIGTime renders epoch seconds in YYYYMMDDHHmmSS form.
func formatRRSIGTime(v uint32) string {
	return time.Unix(int64(v), 0).UTC().Format(rrsigTimeLayout)
}
