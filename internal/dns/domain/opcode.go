package domain

import "fmt"

// Opcode represents the kind of query carried in a DNS message header.
type Opcode uint8

// DNS Opcode constants (RFC 1035, RFC 1996, RFC 2136)
const (
	OpcodeQuery  Opcode = 0 // standard query
	OpcodeIQuery Opcode = 1 // inverse query (obsolete)
	OpcodeStatus Opcode = 2 // server status request
	OpcodeNotify Opcode = 4 // zone change notification
	OpcodeUpdate Opcode = 5 // dynamic update
)

// IsValid returns true if the Opcode is an assigned value.
func (o Opcode) IsValid() bool {
	switch o {
	case OpcodeQuery, OpcodeIQuery, OpcodeStatus, OpcodeNotify, OpcodeUpdate:
		return true
	default:
		return false
	}
}

// String returns the textual representation of the Opcode.
func (o Opcode) String() string {
	switch o {
	case OpcodeQuery:
		return "QUERY"
	case OpcodeIQuery:
		return "IQUERY"
	case OpcodeStatus:
		return "STATUS"
	case OpcodeNotify:
		return "NOTIFY"
	case OpcodeUpdate:
		return "UPDATE"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", o)
	}
}
