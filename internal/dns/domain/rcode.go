package domain

import "fmt"

// RCode represents a DNS response code indicating the result of a query.
type RCode uint8

// DNS response code constants (RFC 1035, RFC 2136)
const (
	RCodeNoError        RCode = 0  // NOERROR - No error condition
	RCodeFormatError    RCode = 1  // FORMERR - Malformed query
	RCodeServerFailure  RCode = 2  // SERVFAIL - Internal server failure
	RCodeNameError      RCode = 3  // NXDOMAIN - Name does not exist
	RCodeNotImplemented RCode = 4  // NOTIMP - Unsupported opcode
	RCodeRefused        RCode = 5  // REFUSED - Query refused by policy
	RCodeYXDomain       RCode = 6  // YXDOMAIN - Name exists when it should not
	RCodeYXRRSet        RCode = 7  // YXRRSET - RRset exists when it should not
	RCodeNXRRSet        RCode = 8  // NXRRSET - RRset does not exist
	RCodeNotAuth        RCode = 9  // NOTAUTH - Server not authoritative
	RCodeNotZone        RCode = 10 // NOTZONE - Name not contained in zone
)

// IsValid returns true if the RCode is within the supported response code range.
func (r RCode) IsValid() bool {
	return r <= 10
}

// String returns the textual representation of the RCode.
func (r RCode) String() string {
	switch r {
	case RCodeNoError:
		return "NOERROR"
	case RCodeFormatError:
		return "FORMERR"
	case RCodeServerFailure:
		return "SERVFAIL"
	case RCodeNameError:
		return "NXDOMAIN"
	case RCodeNotImplemented:
		return "NOTIMP"
	case RCodeRefused:
		return "REFUSED"
	case RCodeYXDomain:
		return "YXDOMAIN"
	case RCodeYXRRSet:
		return "YXRRSET"
	case RCodeNXRRSet:
		return "NXRRSET"
	case RCodeNotAuth:
		return "NOTAUTH"
	case RCodeNotZone:
		return "NOTZONE"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", r)
	}
}

// ParseRCode converts a string name to an RCode value.
func ParseRCode(s string) RCode {
	switch s {
	case "NOERROR":
		return RCodeNoError
	case "FORMERR":
		return RCodeFormatError
	case "SERVFAIL":
		return RCodeServerFailure
	case "NXDOMAIN":
		return RCodeNameError
	case "NOTIMP":
		return RCodeNotImplemented
	case "REFUSED":
		return RCodeRefused
	case "YXDOMAIN":
		return RCodeYXDomain
	case "YXRRSET":
		return RCodeYXRRSet
	case "NXRRSET":
		return RCodeNXRRSet
	case "NOTAUTH":
		return RCodeNotAuth
	case "NOTZONE":
		return RCodeNotZone
	default:
		return RCodeNoError
	}
}
