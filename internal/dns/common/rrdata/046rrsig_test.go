package rrdata

import (
	"strings"
	"testing"
)

const rrsigExample = "A 5 3 86400 20030322173103 20030220173103 2642 example.com " +
	"oJB1W6WNGv+ldvQ3WDG0MQkg5IEhjRip8WTrPYGv07h108dUKGMeDPKijVCHX3DDKdfb+v6oB9wfuh3DTJXUAfI/M0zmO/zz8bW0Rznl8O3tGNazPwQKkRN20XPXV6nwwfoXmJQbsLNrLfkGJ5D6fwFm8nN+6pBzeDQfsS3Ap3o="

func TestEncodeRRSIGData_Valid(t *testing.T) {
	got, err := encodeRRSIGData(rrsigExample)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// type covered A = 1
	if got[0] != 0 || got[1] != 1 {
		t.Errorf("type covered wrong: % x", got[0:2])
	}
	if got[2] != 5 || got[3] != 3 {
		t.Errorf("algorithm/labels wrong: %d %d", got[2], got[3])
	}
}

func TestEncodeRRSIGData_EpochTimestamps(t *testing.T) {
	data := "A 5 3 86400 1048354263 1045762263 2642 example.com Zm9vYmFy"
	_, err := encodeRRSIGData(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestEncodeRRSIGData_InvalidFieldCount(t *testing.T) {
	_, err := encodeRRSIGData("A 5 3 86400")
	if err == nil {
		t.Error("expected error for missing fields")
	}
}

func TestEncodeRRSIGData_InvalidTypeCovered(t *testing.T) {
	_, err := encodeRRSIGData("BOGUS 5 3 86400 20030322173103 20030220173103 2642 example.com Zm9vYmFy")
	if err == nil || !strings.Contains(err.Error(), "type covered") {
		t.Errorf("expected type covered error, got: %v", err)
	}
}

func TestEncodeRRSIGData_InvalidSignature(t *testing.T) {
	_, err := encodeRRSIGData("A 5 3 86400 20030322173103 20030220173103 2642 example.com %%%")
	if err == nil || !strings.Contains(err.Error(), "signature") {
		t.Errorf("expected signature error, got: %v", err)
	}
}

func TestDecodeRRSIGData_RoundTrip(t *testing.T) {
	wire, err := encodeRRSIGData(rrsigExample)
	if err != nil {
		t.Fatalf("unexpected encode error: %v", err)
	}
	got, err := decodeRRSIGData(wire)
	if err != nil {
		t.Fatalf("unexpected decode error: %v", err)
	}
	if got != rrsigExample {
		t.Errorf("got %q, want %q", got, rrsigExample)
	}
}

func TestDecodeRRSIGData_TooShort(t *testing.T) {
	_, err := decodeRRSIGData(make([]byte, 10))
	if err == nil {
		t.Error("expected error for short data")
	}
}

func TestParseRRSIGTime_Forms(t *testing.T) {
	a, err := parseRRSIGTime("20030322173103")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := parseRRSIGTime("1048354263")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a != b {
		t.Errorf("timestamp forms disagree: %d vs %d", a, b)
	}
	if formatRRSIGTime(a) != "20030322173103" {
		t.Errorf("format mismatch: %s", formatRRSIGTime(a))
	}
}
