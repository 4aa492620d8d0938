package transport

import (
	"context"
	"fmt"
	"net"
	"sync"

	"github.com/haukened/rr-authd/internal/dns/common/log"
	"github.com/haukened/rr-authd/internal/dns/domain"
	"github.com/haukened/rr-authd/internal/dns/gateways/wire"
)

// maxUDPPacket is the largest datagram EDNS can advertise; the read buffer
// covers it regardless of the configured response clamp.
const maxUDPPacket = 65535

// UDPTransport implements ServerTransport for standard DNS over UDP
// (RFC 1035). It handles socket management and wire conversion while
// delegating DNS logic to the service layer.
type UDPTransport struct {
	addr   string
	conn   *net.UDPConn
	codec  wire.Codec
	logger log.Logger

	// Synchronization for graceful shutdown
	mu      sync.RWMutex
	running bool
	stopCh  chan struct{}
}

// NewUDPTransport creates a new UDP transport instance.
func NewUDPTransport(addr string, codec wire.Codec, logger log.Logger) *UDPTransport {
	return &UDPTransport{
		addr:   addr,
		codec:  codec,
		logger: logger,
		stopCh: make(chan struct{}),
	}
}

// Start begins listening for UDP DNS queries on the configured address.
func (t *UDPTransport) Start(ctx context.Context, handler QueryHandler) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.running {
		return fmt.Errorf("UDP transport already running")
	}

	udpAddr, err := net.ResolveUDPAddr("udp", t.addr)
	if err != nil {
		return fmt.Errorf("failed to resolve UDP address %s: %w", t.addr, err)
	}

	conn, err := net.ListenUDP("udp", udpAddr)
	if err != nil {
		return fmt.Errorf("failed to bind UDP socket on %s: %w", t.addr, err)
	}

	t.conn = conn
	t.running = true

	t.logger.Info(map[string]any{
		"transport": "udp",
		"address":   conn.LocalAddr().String(),
	}, "DNS transport started")

	go t.listenLoop(ctx, handler)

	return nil
}

// Stop gracefully shuts down the UDP transport.
func (t *UDPTransport) Stop() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.running {
		return nil
	}

	close(t.stopCh)

	var closeErr error
	if t.conn != nil {
		closeErr = t.conn.Close()
		if closeErr != nil {
			t.logger.Warn(map[string]any{
				"error": closeErr.Error(),
			}, "Error closing UDP connection")
		}
	}

	t.running = false

	t.logger.Info(map[string]any{
		"transport": "udp",
		"address":   t.addr,
	}, "DNS transport stopped")

	return closeErr
}

// Address returns the network address the transport is bound to.
func (t *UDPTransport) Address() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.conn != nil {
		return t.conn.LocalAddr().String()
	}
	return t.addr
}

// listenLoop continuously reads UDP packets and dispatches them.
func (t *UDPTransport) listenLoop(ctx context.Context, handler QueryHandler) {
	buffer := make([]byte, maxUDPPacket)

	for {
		select {
		case <-ctx.Done():
			t.logger.Debug(nil, "UDP transport stopping due to context cancellation")
			return
		case <-t.stopCh:
			t.logger.Debug(nil, "UDP transport stopping due to stop signal")
			return
		default:
			n, clientAddr, err := t.conn.ReadFromUDP(buffer)
			if err != nil {
				t.mu.RLock()
				running := t.running
				t.mu.RUnlock()

				if !running {
					return // Normal shutdown
				}

				t.logger.Warn(map[string]any{
					"error": err.Error(),
				}, "Failed to read UDP packet")
				continue
			}

			packet := make([]byte, n)
			copy(packet, buffer[:n])
			go t.handlePacket(ctx, packet, clientAddr, handler)
		}
	}
}

// handlePacket processes a single UDP DNS packet.
func (t *UDPTransport) handlePacket(ctx context.Context, data []byte, clientAddr *net.UDPAddr, handler QueryHandler) {
	query, err := t.codec.DecodeMessage(data)
	if err != nil {
		t.logger.Warn(map[string]any{
			"client": clientAddr.String(),
			"error":  err.Error(),
			"size":   len(data),
		}, "Failed to decode DNS query")
		if resp, ok := formatErrorResponse(data); ok {
			t.send(resp, domain.EDNSDefaultUDPSize, clientAddr)
		}
		return
	}

	t.logger.Debug(map[string]any{
		"client":   clientAddr.String(),
		"query_id": query.Header.ID,
		"name":     query.Question().Name,
		"type":     query.Question().Type.String(),
	}, "Received DNS query")

	response := handler.HandleQuery(ctx, query)
	t.send(response, handler.ResponseSizeLimit(query), clientAddr)
}

// send encodes and transmits one response datagram.
func (t *UDPTransport) send(response domain.Message, sizeLimit int, clientAddr *net.UDPAddr) {
	responseData, err := t.codec.EncodeMessage(response, sizeLimit)
	if err != nil {
		t.logger.Error(map[string]any{
			"client":   clientAddr.String(),
			"query_id": response.Header.ID,
			"error":    err.Error(),
		}, "Failed to encode DNS response")
		return
	}

	if _, err := t.conn.WriteToUDP(responseData, clientAddr); err != nil {
		t.logger.Error(map[string]any{
			"client":   clientAddr.String(),
			"query_id": response.Header.ID,
			"error":    err.Error(),
		}, "Failed to send DNS response")
		return
	}

	t.logger.Debug(map[string]any{
		"client":    clientAddr.String(),
		"query_id":  response.Header.ID,
		"rcode":     response.Header.RCode.String(),
		"answers":   len(response.Answers),
		"truncated": response.Header.Truncated,
		"size":      len(responseData),
	}, "Sent DNS response")
}
