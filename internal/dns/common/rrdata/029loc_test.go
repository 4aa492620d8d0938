package rrdata

import (
	"encoding/binary"
	"strings"
	"testing"
)

func TestEncodeLOCData_Valid(t *testing.T) {
	data := "52 22 23.000 N 4 53 32.000 E -2m 0m 10000m 10m"
	got, err := encodeLOCData(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 16 {
		t.Fatalf("expected 16 bytes, got %d", len(got))
	}
	if got[0] != 0 {
		t.Errorf("expected version 0, got %d", got[0])
	}
	lat := binary.BigEndian.Uint32(got[4:8])
	wantLat := uint32(locEquator + 52*locDegrees + 22*locMinutes + 23*locSeconds)
	if lat != wantLat {
		t.Errorf("latitude: got %d, want %d", lat, wantLat)
	}
	alt := binary.BigEndian.Uint32(got[12:16])
	if alt != uint32(locAltBase-200) {
		t.Errorf("altitude: got %d, want %d", alt, locAltBase-200)
	}
}

func TestEncodeLOCData_DegreesOnly(t *testing.T) {
	got, err := encodeLOCData("31 S 25 E 100m")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lat := binary.BigEndian.Uint32(got[4:8])
	if lat != uint32(locEquator-31*locDegrees) {
		t.Errorf("southern latitude not negative offset: %d", lat)
	}
}

func TestEncodeLOCData_DefaultPrecisions(t *testing.T) {
	got, err := encodeLOCData("0 N 0 E 0m")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got[1] != locDefaultSize || got[2] != locDefaultHoriz || got[3] != locDefaultVert {
		t.Errorf("default precisions not applied: % x", got[1:4])
	}
}

func TestEncodeLOCData_MissingHemisphere(t *testing.T) {
	_, err := encodeLOCData("52 22 23.000 4 53 32.000 E 0m")
	if err == nil {
		t.Error("expected error for missing hemisphere")
	}
}

func TestEncodeLOCData_OutOfRange(t *testing.T) {
	_, err := encodeLOCData("91 N 0 E 0m")
	if err == nil || !strings.Contains(err.Error(), "latitude") {
		t.Errorf("expected latitude range error, got: %v", err)
	}
}

func TestEncodeLOCData_MissingAltitude(t *testing.T) {
	_, err := encodeLOCData("52 N 4 E")
	if err == nil {
		t.Error("expected error for missing altitude")
	}
}

func TestDecodeLOCData_RoundTrip(t *testing.T) {
	wire, err := encodeLOCData("52 22 23.000 N 4 53 32.000 E -2m 0m 10000m 10m")
	if err != nil {
		t.Fatalf("unexpected encode error: %v", err)
	}
	got, err := decodeLOCData(wire)
	if err != nil {
		t.Fatalf("unexpected decode error: %v", err)
	}
	want := "52 22 23.000 N 4 53 32.000 E -2.00m 0.00m 10000.00m 10.00m"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestDecodeLOCData_BadLength(t *testing.T) {
	_, err := decodeLOCData([]byte{0, 1, 2})
	if err == nil {
		t.Error("expected error for short data")
	}
}

func TestDecodeLOCData_BadVersion(t *testing.T) {
	b := make([]byte, 16)
	b[0] = 1
	_, err := decodeLOCData(b)
	if err == nil || !strings.Contains(err.Error(), "version") {
		t.Errorf("expected version error, got: %v", err)
	}
}

func TestLOCPrecision_RoundTrip(t *testing.T) {
	cases := []uint64{0, 100, 1000, 1000000, 90000000}
	for _, cm := range cases {
		got := decodeLOCPrecision(encodeLOCPrecision(cm))
		if got != cm {
			t.Errorf("precision %d round-tripped to %d", cm, got)
		}
	}
}
