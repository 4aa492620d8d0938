// Package transport provides network transports for the DNS server. It
// converts between wire format and domain messages at the socket boundary,
// so the service layer works purely with domain types.
package transport

import (
	"context"
	"encoding/binary"

	"github.com/haukened/rr-authd/internal/dns/domain"
)

// ServerTransport defines the interface for DNS server transport
// implementations. Different transport types (UDP, TCP, DoH, DoT) can
// implement this interface while providing the same request handling
// contract to the service layer.
type ServerTransport interface {
	// Start begins listening for requests and handling them via the provided
	// handler. The transport handles all network protocol concerns and wire
	// format conversion.
	Start(ctx context.Context, handler QueryHandler) error

	// Stop gracefully shuts down the transport, closing connections and
	// cleaning up resources.
	Stop() error

	// Address returns the network address the transport is bound to.
	Address() string
}

// QueryHandler defines how the service layer receives and processes DNS
// queries. The transport decodes wire format before calling this interface
// and encodes the response for transmission.
type QueryHandler interface {
	// HandleQuery processes a DNS query and returns a DNS response. The
	// handler only sees domain objects.
	HandleQuery(ctx context.Context, query domain.Message) domain.Message

	// ResponseSizeLimit returns the datagram byte budget for responding to
	// this query (EDNS-negotiated); stream transports ignore it.
	ResponseSizeLimit(query domain.Message) int
}

// TransportType represents the different types of DNS transport protocols supported.
type TransportType string

const (
	// TransportUDP represents standard DNS over UDP (RFC 1035)
	TransportUDP TransportType = "udp"

	// TransportTCP represents DNS over TCP with 2-octet length framing (RFC 7766)
	TransportTCP TransportType = "tcp"

	// TransportDoH represents DNS over HTTPS (RFC 8484) - future implementation
	TransportDoH TransportType = "doh"

	// TransportDoT represents DNS over TLS (RFC 7858) - future implementation
	TransportDoT TransportType = "dot"
)

// formatErrorResponse builds a FORMERR reply for a packet that failed to
// decode, echoing the query ID when enough octets survived to read it.
func formatErrorResponse(data []byte) (domain.Message, bool) {
	if len(data) < 2 {
		return domain.Message{}, false
	}
	return domain.Message{
		Header: domain.Header{
			ID:       binary.BigEndian.Uint16(data[0:2]),
			Response: true,
			RCode:    domain.RCodeFormatError,
		},
	}, true
}
