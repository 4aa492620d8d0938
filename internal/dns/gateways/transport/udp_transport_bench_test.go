package transport

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/haukened/rr-authd/internal/dns/common/log"
	"github.com/haukened/rr-authd/internal/dns/domain"
	"github.com/haukened/rr-authd/internal/dns/gateways/wire"
)

// benchHandler is a minimal handler for round-trip benchmarks.
type benchHandler struct{}

func (benchHandler) HandleQuery(_ context.Context, query domain.Message) domain.Message {
	resp := domain.NewResponse(query, domain.RCodeNoError)
	resp.Header.Authoritative = true
	resp.Answers = []domain.ResourceRecord{{
		Name:  query.Question().Name,
		Type:  domain.RRTypeA,
		Class: domain.RRClassIN,
		TTL:   300,
		Data:  []byte{192, 0, 2, 1},
		Text:  "192.0.2.1",
	}}
	return resp
}

func (benchHandler) ResponseSizeLimit(_ domain.Message) int {
	return domain.EDNSDefaultUDPSize
}

// BenchmarkUDPTransport_RoundTrip measures a full query/response cycle over
// a loopback socket, including wire decode and encode on the server side.
func BenchmarkUDPTransport_RoundTrip(b *testing.B) {
	codec := wire.NewCodec(log.NewNoopLogger())
	tr := NewUDPTransport("127.0.0.1:0", codec, log.NewNoopLogger())
	if err := tr.Start(context.Background(), benchHandler{}); err != nil {
		b.Fatalf("failed to start transport: %v", err)
	}
	defer tr.Stop()

	conn, err := net.Dial("udp", tr.Address())
	if err != nil {
		b.Fatalf("failed to dial: %v", err)
	}
	defer conn.Close()

	query := domain.Message{
		Header: domain.Header{ID: 1, Opcode: domain.OpcodeQuery},
		Questions: []domain.Question{
			{Name: "bench.example.com", Type: domain.RRTypeA, Class: domain.RRClassIN},
		},
	}
	queryData, err := codec.EncodeMessage(query, 0)
	if err != nil {
		b.Fatalf("failed to encode query: %v", err)
	}
	buf := make([]byte, maxUDPPacket)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := conn.Write(queryData); err != nil {
			b.Fatalf("write failed: %v", err)
		}
		_ = conn.SetReadDeadline(time.Now().Add(time.Second))
		if _, err := conn.Read(buf); err != nil {
			b.Fatalf("read failed: %v", err)
		}
	}
}
