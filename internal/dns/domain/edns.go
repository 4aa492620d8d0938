package domain

// EDNSDefaultUDPSize is the payload size assumed when a query carries no
// OPT record (RFC 1035 plain UDP limit).
const EDNSDefaultUDPSize = 512

// EDNSMinUDPSize is the smallest payload size an OPT record may advertise;
// lower values are clamped up per RFC 6891 §6.2.3.
const EDNSMinUDPSize = 512

// EDNS carries the negotiated OPT pseudo-record state for a message
// (RFC 6891). Only the fields the authoritative path needs are modeled;
// unknown EDNS options are not retained.
type EDNS struct {
	UDPSize       uint16 // advertised maximum UDP payload
	ExtendedRCode uint8  // upper 8 bits of the extended RCODE
	Version       uint8
	DNSSECOK      bool // DO bit
}

// PayloadSize returns the usable UDP payload size, clamping advertisements
// below the RFC minimum.
func (e *EDNS) PayloadSize() int {
	if e == nil || e.UDPSize < EDNSMinUDPSize {
		return EDNSDefaultUDPSize
	}
	return int(e.UDPSize)
}
