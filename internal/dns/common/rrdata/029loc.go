package rrdata

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"
)

// LOC wire layout (RFC 1876 §2): version, size, horizontal precision, and
// vertical precision as single octets, then latitude, longitude, and
// altitude as 32-bit fixed-point values. Latitude/longitude are thousandths
// of an arc second offset by 2^31 (north/east positive); altitude is
// centimeters above a base 100km below sea level. Size and the precisions
// are base/exponent pairs packed in one octet each.

const (
	locEquator    = 1 << 31         // 2^31 thousandths of a second
	locAltBase    = 100000 * 100    // 100km in centimeters
	locDegrees    = 60 * 60 * 1000  // thousandths of a second per degree
	locMinutes    = 60 * 1000       // thousandths of a second per minute
	locSeconds    = 1000            // thousandths of a second per second
	locMaxSeconds = 90 * locDegrees // latitude bound from the equator
)

// defaults per RFC 1876 §3: size 1m, horizontal precision 10000m, vertical 10m
var (
	locDefaultSize  = encodeLOCPrecision(1 * 100)
	locDefaultHoriz = encodeLOCPrecision(10000 * 100)
	locDefaultVert  = encodeLOCPrecision(10 * 100)
)

// encodeLOCPrecision packs centimeters into the 4-bit base / 4-bit power-of-
// ten exponent form.
func encodeLOCPrecision(cm uint64) uint8 {
	var exp uint8
	for cm >= 10 && exp < 9 {
		if cm%10 != 0 {
			break
		}
		cm /= 10
		exp++
	}
	if cm > 9 {
		// non-representable values round down to the largest mantissa
		for cm > 9 {
			cm /= 10
			exp++
		}
	}
	return uint8(cm)<<4 | exp
}

// decodeLOCPrecision unpacks the base/exponent octet into centimeters.
func decodeLOCPrecision(p uint8) uint64 {
	mantissa := uint64(p >> 4)
	exp := int(p & 0x0F)
	v := mantissa
	for i := 0; i < exp; i++ {
		v *= 10
	}
	return v
}

// encodeLOCData encodes a LOC presentation string (RFC 1876 §3) into wire form.
// data = "d1 [m1 [s1]] {N|S} d2 [m2 [s2]] {E|W} alt[m] [siz[m] [hp[m] [vp[m]]]]"
func encodeLOCData(data string) ([]byte, error) {
	fields := strings.Fields(data)
	lat, rest, err := parseLOCCoordinate(fields, "N", "S", 90)
	if err != nil {
		return nil, fmt.Errorf("invalid LOC latitude: %v", err)
	}
	lon, rest, err := parseLOCCoordinate(rest, "E", "W", 180)
	if err != nil {
		return nil, fmt.Errorf("invalid LOC longitude: %v", err)
	}
	if len(rest) == 0 {
		return nil, fmt.Errorf("LOC record missing altitude")
	}

	alt, err := strconv.ParseFloat(strings.TrimSuffix(rest[0], "m"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid LOC altitude: %v", err)
	}
	altVal := int64(alt*100) + locAltBase
	if altVal < 0 || altVal > int64(^uint32(0)) {
		return nil, fmt.Errorf("LOC altitude out of range: %v", alt)
	}
	rest = rest[1:]

	// optional size / horizontal precision / vertical precision
	prec := []uint8{locDefaultSize, locDefaultHoriz, locDefaultVert}
	for i := 0; i < 3 && i < len(rest); i++ {
		meters, err := strconv.ParseFloat(strings.TrimSuffix(rest[i], "m"), 64)
		if err != nil || meters < 0 {
			return nil, fmt.Errorf("invalid LOC precision field %q", rest[i])
		}
		prec[i] = encodeLOCPrecision(uint64(meters * 100))
	}

	out := []byte{0, prec[0], prec[1], prec[2]}
	out = putUint32(out, lat)
	out = putUint32(out, lon)
	out = putUint32(out, uint32(altVal))
	return out, nil
}

// parseLOCCoordinate consumes "deg [min [sec]] hemi" from fields, returning
// the fixed-point coordinate and the remaining fields.
func parseLOCCoordinate(fields []string, pos, neg string, maxDeg int) (uint32, []string, error) {
	var parts [3]float64
	count := 0
	hemi := ""
	for len(fields) > 0 && count < 3 {
		f := strings.ToUpper(fields[0])
		if f == pos || f == neg {
			hemi = f
			fields = fields[1:]
			break
		}
		v, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return 0, nil, fmt.Errorf("unexpected field %q", fields[0])
		}
		parts[count] = v
		count++
		fields = fields[1:]
	}
	if hemi == "" {
		if len(fields) == 0 {
			return 0, nil, fmt.Errorf("missing hemisphere indicator")
		}
		f := strings.ToUpper(fields[0])
		if f != pos && f != neg {
			return 0, nil, fmt.Errorf("expected %s or %s, got %q", pos, neg, fields[0])
		}
		hemi = f
		fields = fields[1:]
	}
	if count == 0 {
		return 0, nil, fmt.Errorf("missing degrees")
	}
	msec := parts[0]*locDegrees + parts[1]*locMinutes + parts[2]*locSeconds
	if msec < 0 || msec > float64(maxDeg*locDegrees) {
		return 0, nil, fmt.Errorf("coordinate out of range")
	}
	if hemi == neg {
		return uint32(locEquator - int64(msec)), fields, nil
	}
	return uint32(locEquator + int64(msec)), fields, nil
}

// decodeLOCData decodes LOC wire form back into presentation form.
func decodeLOCData(b []byte) (string, error) {
	if len(b) != 16 {
		return "", fmt.Errorf("invalid LOC data length: %d", len(b))
	}
	if b[0] != 0 {
		return "", fmt.Errorf("unsupported LOC version: %d", b[0])
	}
	lat := binary.BigEndian.Uint32(b[4:8])
	lon := binary.BigEndian.Uint32(b[8:12])
	alt := binary.BigEndian.Uint32(b[12:16])

	latStr := formatLOCCoordinate(lat, "N", "S")
	lonStr := formatLOCCoordinate(lon, "E", "W")
	altM := float64(int64(alt)-locAltBase) / 100

	size := float64(decodeLOCPrecision(b[1])) / 100
	horiz := float64(decodeLOCPrecision(b[2])) / 100
	vert := float64(decodeLOCPrecision(b[3])) / 100

	return fmt.Sprintf("%s %s %.2fm %.2fm %.2fm %.2fm", latStr, lonStr, altM, size, horiz, vert), nil
}

// formatLOCCoordinate renders a fixed-point coordinate as "deg min sec.xxx H".
func formatLOCCoordinate(v uint32, pos, neg string) string {
	hemi := pos
	offset := int64(v) - locEquator
	if offset < 0 {
		hemi = neg
		offset = -offset
	}
	deg := offset / locDegrees
	offset %= locDegrees
	min := offset / locMinutes
	offset %= locMinutes
	sec := float64(offset) / locSeconds
	return fmt.Sprintf("%d %d %.3f %s", deg, min, sec, hemi)
}
