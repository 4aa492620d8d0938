package transport

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"github.com/haukened/rr-authd/internal/dns/common/log"
	"github.com/haukened/rr-authd/internal/dns/domain"
	"github.com/haukened/rr-authd/internal/dns/gateways/wire"
)

// tcpIdleTimeout closes connections with no complete query for this long
// (RFC 7766 §6.2.3 leaves the timeout to the server).
const tcpIdleTimeout = 10 * time.Second

// tcpMaxMessage is the largest message the 2-octet length prefix can frame.
const tcpMaxMessage = 65535

// TCPTransport implements ServerTransport for DNS over TCP (RFC 7766).
// Messages are framed with a 2-octet big-endian length prefix; a connection
// may carry any number of queries before either side closes it.
type TCPTransport struct {
	addr     string
	listener net.Listener
	codec    wire.Codec
	logger   log.Logger

	mu      sync.RWMutex
	running bool
	stopCh  chan struct{}
	wg      sync.WaitGroup
}

// NewTCPTransport creates a new TCP transport instance.
func NewTCPTransport(addr string, codec wire.Codec, logger log.Logger) *TCPTransport {
	return &TCPTransport{
		addr:   addr,
		codec:  codec,
		logger: logger,
		stopCh: make(chan struct{}),
	}
}

// Start begins accepting TCP connections on the configured address.
func (t *TCPTransport) Start(ctx context.Context, handler QueryHandler) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.running {
		return fmt.Errorf("TCP transport already running")
	}

	listener, err := net.Listen("tcp", t.addr)
	if err != nil {
		return fmt.Errorf("failed to bind TCP socket on %s: %w", t.addr, err)
	}

	t.listener = listener
	t.running = true

	t.logger.Info(map[string]any{
		"transport": "tcp",
		"address":   listener.Addr().String(),
	}, "DNS transport started")

	go t.acceptLoop(ctx, handler)

	return nil
}

// Stop closes the listener and waits for in-flight connections to finish.
func (t *TCPTransport) Stop() error {
	t.mu.Lock()
	if !t.running {
		t.mu.Unlock()
		return nil
	}
	close(t.stopCh)
	t.running = false
	closeErr := t.listener.Close()
	t.mu.Unlock()

	t.wg.Wait()

	t.logger.Info(map[string]any{
		"transport": "tcp",
		"address":   t.addr,
	}, "DNS transport stopped")

	return closeErr
}

// Address returns the network address the transport is bound to.
func (t *TCPTransport) Address() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.listener != nil {
		return t.listener.Addr().String()
	}
	return t.addr
}

// acceptLoop accepts connections until shutdown.
func (t *TCPTransport) acceptLoop(ctx context.Context, handler QueryHandler) {
	for {
		conn, err := t.listener.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
			case <-t.stopCh:
			default:
				t.logger.Warn(map[string]any{
					"error": err.Error(),
				}, "Failed to accept TCP connection")
				continue
			}
			return
		}
		t.wg.Add(1)
		go func() {
			defer t.wg.Done()
			t.serveConn(ctx, conn, handler)
		}()
	}
}

// serveConn handles the queries arriving on a single connection.
func (t *TCPTransport) serveConn(ctx context.Context, conn net.Conn, handler QueryHandler) {
	defer conn.Close()
	client := conn.RemoteAddr().String()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.stopCh:
			return
		default:
		}

		_ = conn.SetReadDeadline(time.Now().Add(tcpIdleTimeout))
		data, err := readFrame(conn)
		if err != nil {
			if !errors.Is(err, io.EOF) {
				t.logger.Debug(map[string]any{
					"client": client,
					"error":  err.Error(),
				}, "TCP connection closed")
			}
			return
		}

		query, err := t.codec.DecodeMessage(data)
		if err != nil {
			t.logger.Warn(map[string]any{
				"client": client,
				"error":  err.Error(),
				"size":   len(data),
			}, "Failed to decode DNS query")
			if resp, ok := formatErrorResponse(data); ok {
				_ = t.writeResponse(conn, resp, client)
			}
			return
		}

		response := handler.HandleQuery(ctx, query)
		if err := t.writeResponse(conn, response, client); err != nil {
			return
		}
	}
}

// writeResponse encodes one message and writes it with its length prefix.
// Stream responses are never size-limited, so truncation does not apply.
func (t *TCPTransport) writeResponse(conn net.Conn, response domain.Message, client string) error {
	responseData, err := t.codec.EncodeMessage(response, 0)
	if err != nil {
		t.logger.Error(map[string]any{
			"client":   client,
			"query_id": response.Header.ID,
			"error":    err.Error(),
		}, "Failed to encode DNS response")
		return err
	}
	if len(responseData) > tcpMaxMessage {
		t.logger.Error(map[string]any{
			"client":   client,
			"query_id": response.Header.ID,
			"size":     len(responseData),
		}, "Response exceeds TCP frame limit")
		return fmt.Errorf("response of %d octets cannot be framed", len(responseData))
	}

	frame := make([]byte, 2+len(responseData))
	binary.BigEndian.PutUint16(frame[0:2], uint16(len(responseData)))
	copy(frame[2:], responseData)

	if _, err := conn.Write(frame); err != nil {
		t.logger.Error(map[string]any{
			"client":   client,
			"query_id": response.Header.ID,
			"error":    err.Error(),
		}, "Failed to send DNS response")
		return err
	}
	return nil
}

// readFrame reads one length-prefixed DNS message from the stream.
func readFrame(conn net.Conn) ([]byte, error) {
	var prefix [2]byte
	if _, err := io.ReadFull(conn, prefix[:]); err != nil {
		return nil, err
	}
	length := int(binary.BigEndian.Uint16(prefix[:]))
	if length == 0 {
		return nil, fmt.Errorf("zero-length TCP frame")
	}
	data := make([]byte, length)
	if _, err := io.ReadFull(conn, data); err != nil {
		return nil, err
	}
	return data, nil
}
