package wire

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haukened/rr-authd/internal/dns/common/log"
	"github.com/haukened/rr-authd/internal/dns/common/rrdata"
	"github.com/haukened/rr-authd/internal/dns/domain"
)

func testCodec() Codec {
	return NewCodec(log.NewNoopLogger())
}

// rawQuery hand-assembles a query packet for www.example.com A IN.
func rawQuery(id uint16) []byte {
	buf := []byte{
		byte(id >> 8), byte(id),
		0x01, 0x00, // RD=1
		0x00, 0x01, // QDCOUNT
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	}
	buf = append(buf, 3, 'w', 'w', 'w', 7, 'e', 'x', 'a', 'm', 'p', 'l', 'e', 3, 'c', 'o', 'm', 0)
	buf = append(buf, 0x00, 0x01, 0x00, 0x01)
	return buf
}

func mustRecord(t *testing.T, name string, rrType domain.RRType, ttl uint32, text string) domain.ResourceRecord {
	t.Helper()
	data, err := rrdata.Encode(rrType, text)
	require.NoError(t, err)
	rr, err := domain.NewResourceRecord(name, rrType, domain.RRClassIN, ttl, data, text)
	require.NoError(t, err)
	return rr
}

func TestDecodeMessage_Query(t *testing.T) {
	msg, err := testCodec().DecodeMessage(rawQuery(0x1234))
	require.NoError(t, err)

	assert.Equal(t, uint16(0x1234), msg.Header.ID)
	assert.False(t, msg.Header.Response)
	assert.Equal(t, domain.OpcodeQuery, msg.Header.Opcode)
	assert.True(t, msg.Header.RecursionDesired)
	require.Len(t, msg.Questions, 1)
	assert.Equal(t, "www.example.com", msg.Questions[0].Name)
	assert.Equal(t, domain.RRTypeA, msg.Questions[0].Type)
	assert.Equal(t, domain.RRClassIN, msg.Questions[0].Class)
	assert.Nil(t, msg.EDNS)
}

func TestDecodeMessage_QueryNameIsCanonicalized(t *testing.T) {
	raw := rawQuery(1)
	copy(raw[12:], []byte{3, 'W', 'W', 'W'})

	msg, err := testCodec().DecodeMessage(raw)
	require.NoError(t, err)
	assert.Equal(t, "www.example.com", msg.Questions[0].Name)
}

func TestDecodeMessage_TooShort(t *testing.T) {
	_, err := testCodec().DecodeMessage([]byte{0x12, 0x34, 0x00})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrFormat)
}

func TestDecodeMessage_TruncatedQuestion(t *testing.T) {
	raw := rawQuery(1)
	_, err := testCodec().DecodeMessage(raw[:len(raw)-2])
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrFormat)
}

func TestDecodeMessage_TrailingBytes(t *testing.T) {
	raw := append(rawQuery(1), 0xDE, 0xAD)
	_, err := testCodec().DecodeMessage(raw)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrFormat)
}

func TestDecodeMessage_CountMismatch(t *testing.T) {
	raw := rawQuery(1)
	raw[5] = 2 // QDCOUNT claims two questions, body carries one
	_, err := testCodec().DecodeMessage(raw)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrFormat)
}

func TestDecodeMessage_ForwardPointerRejected(t *testing.T) {
	// question name is a pointer targeting its own offset (12)
	buf := []byte{
		0x00, 0x01, 0x00, 0x00,
		0x00, 0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0xC0, 12, // self-referencing pointer
		0x00, 0x01, 0x00, 0x01,
	}
	_, err := testCodec().DecodeMessage(buf)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrFormat)
}

func TestDecodeMessage_PointerPastPositionRejected(t *testing.T) {
	buf := []byte{
		0x00, 0x01, 0x00, 0x00,
		0x00, 0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0xC0, 14, // forward reference
		0x00, 0x01, 0x00, 0x01,
	}
	_, err := testCodec().DecodeMessage(buf)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrFormat)
}

func TestDecodeMessage_ReservedLabelTypeRejected(t *testing.T) {
	buf := []byte{
		0x00, 0x01, 0x00, 0x00,
		0x00, 0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x40, 'x', 0x00, // 0b01 label type is reserved
		0x00, 0x01, 0x00, 0x01,
	}
	_, err := testCodec().DecodeMessage(buf)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrFormat)
}

func TestDecodeMessage_EDNS(t *testing.T) {
	raw := rawQuery(7)
	raw[11] = 1 // ARCOUNT
	// OPT: root owner, type 41, class 4096, TTL carries version 0 + DO
	raw = append(raw, 0x00, 0x00, 0x29, 0x10, 0x00, 0x00, 0x00, 0x80, 0x00, 0x00, 0x00)

	msg, err := testCodec().DecodeMessage(raw)
	require.NoError(t, err)
	require.NotNil(t, msg.EDNS)
	assert.Equal(t, uint16(4096), msg.EDNS.UDPSize)
	assert.Equal(t, uint8(0), msg.EDNS.Version)
	assert.True(t, msg.EDNS.DNSSECOK)
	assert.Empty(t, msg.Additional, "OPT must not appear as a regular record")
}

func TestDecodeMessage_DuplicateOPTRejected(t *testing.T) {
	raw := rawQuery(7)
	raw[11] = 2
	opt := []byte{0x00, 0x00, 0x29, 0x10, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}
	raw = append(raw, opt...)
	raw = append(raw, opt...)

	_, err := testCodec().DecodeMessage(raw)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrFormat)
}

func TestDecodeMessage_OPTOutsideAdditionalRejected(t *testing.T) {
	raw := rawQuery(7)
	raw[7] = 1 // ANCOUNT
	raw = append(raw, 0x00, 0x00, 0x29, 0x10, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00)

	_, err := testCodec().DecodeMessage(raw)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrFormat)
}

func TestEncodeMessage_RoundTrip(t *testing.T) {
	c := testCodec()
	query, err := c.DecodeMessage(rawQuery(0xBEEF))
	require.NoError(t, err)

	resp := domain.NewResponse(query, domain.RCodeNoError)
	resp.Header.Authoritative = true
	resp.Answers = []domain.ResourceRecord{
		mustRecord(t, "www.example.com", domain.RRTypeA, 300, "1.2.3.4"),
	}
	resp.Authority = []domain.ResourceRecord{
		mustRecord(t, "example.com", domain.RRTypeNS, 300, "ns1.example.com"),
	}
	resp.Additional = []domain.ResourceRecord{
		mustRecord(t, "ns1.example.com", domain.RRTypeA, 300, "10.0.0.53"),
	}

	wireForm, err := c.EncodeMessage(resp, 512)
	require.NoError(t, err)

	decoded, err := c.DecodeMessage(wireForm)
	require.NoError(t, err)
	assert.Equal(t, uint16(0xBEEF), decoded.Header.ID)
	assert.True(t, decoded.Header.Response)
	assert.True(t, decoded.Header.Authoritative)
	assert.False(t, decoded.Header.Truncated)
	require.Len(t, decoded.Answers, 1)
	assert.Equal(t, "www.example.com", decoded.Answers[0].Name)
	assert.Equal(t, []byte{1, 2, 3, 4}, decoded.Answers[0].Data)
	require.Len(t, decoded.Authority, 1)
	assert.Equal(t, "example.com", decoded.Authority[0].Name)
	require.Len(t, decoded.Additional, 1)
	assert.Equal(t, "ns1.example.com", decoded.Additional[0].Name)
}

func TestEncodeMessage_CompressionShrinksRepeatedNames(t *testing.T) {
	c := testCodec()
	query, err := c.DecodeMessage(rawQuery(1))
	require.NoError(t, err)

	resp := domain.NewResponse(query, domain.RCodeNoError)
	resp.Answers = []domain.ResourceRecord{
		mustRecord(t, "www.example.com", domain.RRTypeA, 300, "1.2.3.4"),
		mustRecord(t, "www.example.com", domain.RRTypeA, 300, "1.2.3.5"),
	}

	wireForm, err := c.EncodeMessage(resp, 512)
	require.NoError(t, err)

	// each answer owner is a 2-byte pointer to the question name
	questionLen := len("www.example.com") + 2 + 4
	perAnswer := 2 + 2 + 2 + 4 + 2 + 4 // pointer + type + class + ttl + rdlen + rdata
	assert.Equal(t, headerLength+questionLen+2*perAnswer, len(wireForm))

	decoded, err := c.DecodeMessage(wireForm)
	require.NoError(t, err)
	require.Len(t, decoded.Answers, 2)
	assert.Equal(t, "www.example.com", decoded.Answers[0].Name)
	assert.Equal(t, "www.example.com", decoded.Answers[1].Name)
}

func TestEncodeMessage_TruncationDropOrder(t *testing.T) {
	c := testCodec()
	query, err := c.DecodeMessage(rawQuery(9))
	require.NoError(t, err)

	resp := domain.NewResponse(query, domain.RCodeNoError)
	txt := make([]byte, 120)
	for i := 0; i < 8; i++ {
		resp.Answers = append(resp.Answers, domain.ResourceRecord{
			Name: "www.example.com", Type: domain.RRTypeTXT, Class: domain.RRClassIN,
			TTL: 60, Data: txt,
		})
	}

	wireForm, err := c.EncodeMessage(resp, 512)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(wireForm), 512)

	decoded, err := c.DecodeMessage(wireForm)
	require.NoError(t, err)
	assert.True(t, decoded.Header.Truncated, "TC must be set when records are dropped")
	assert.Less(t, len(decoded.Answers), 8)
	assert.NotEmpty(t, decoded.Answers, "leading answers survive truncation")
	require.Len(t, decoded.Questions, 1, "question section survives truncation")
	assert.Equal(t, "www.example.com", decoded.Questions[0].Name)
}

func TestEncodeMessage_AdditionalDroppedBeforeAnswers(t *testing.T) {
	c := testCodec()
	query, err := c.DecodeMessage(rawQuery(9))
	require.NoError(t, err)

	resp := domain.NewResponse(query, domain.RCodeNoError)
	payload := make([]byte, 200)
	resp.Answers = []domain.ResourceRecord{{
		Name: "www.example.com", Type: domain.RRTypeTXT, Class: domain.RRClassIN, TTL: 60, Data: payload,
	}}
	resp.Additional = []domain.ResourceRecord{
		{Name: "a.example.com", Type: domain.RRTypeTXT, Class: domain.RRClassIN, TTL: 60, Data: payload},
		{Name: "b.example.com", Type: domain.RRTypeTXT, Class: domain.RRClassIN, TTL: 60, Data: payload},
	}

	wireForm, err := c.EncodeMessage(resp, 512)
	require.NoError(t, err)

	decoded, err := c.DecodeMessage(wireForm)
	require.NoError(t, err)
	assert.Len(t, decoded.Answers, 1, "answers outrank additional records")
	assert.Less(t, len(decoded.Additional), 2)
	assert.True(t, decoded.Header.Truncated)
}

func TestEncodeMessage_UnboundedForStreams(t *testing.T) {
	c := testCodec()
	query, err := c.DecodeMessage(rawQuery(9))
	require.NoError(t, err)

	resp := domain.NewResponse(query, domain.RCodeNoError)
	for i := 0; i < 20; i++ {
		resp.Answers = append(resp.Answers, domain.ResourceRecord{
			Name: "www.example.com", Type: domain.RRTypeTXT, Class: domain.RRClassIN,
			TTL: 60, Data: make([]byte, 120),
		})
	}

	wireForm, err := c.EncodeMessage(resp, 0)
	require.NoError(t, err)
	assert.Greater(t, len(wireForm), 512)

	decoded, err := c.DecodeMessage(wireForm)
	require.NoError(t, err)
	assert.False(t, decoded.Header.Truncated)
	assert.Len(t, decoded.Answers, 20)
}

func TestEncodeMessage_EDNSRoundTrip(t *testing.T) {
	c := testCodec()
	msg := domain.Message{
		Header:    domain.Header{ID: 42, Response: true},
		Questions: []domain.Question{{Name: "example.com", Type: domain.RRTypeA, Class: domain.RRClassIN}},
		EDNS:      &domain.EDNS{UDPSize: 1400, DNSSECOK: true},
	}

	wireForm, err := c.EncodeMessage(msg, 1400)
	require.NoError(t, err)
	assert.Equal(t, uint16(1), binary.BigEndian.Uint16(wireForm[10:12]), "OPT counts in ARCOUNT")

	decoded, err := c.DecodeMessage(wireForm)
	require.NoError(t, err)
	require.NotNil(t, decoded.EDNS)
	assert.Equal(t, uint16(1400), decoded.EDNS.UDPSize)
	assert.True(t, decoded.EDNS.DNSSECOK)
}

func TestFlags_RoundTrip(t *testing.T) {
	h := domain.Header{
		Response:           true,
		Opcode:             domain.OpcodeUpdate,
		Authoritative:      true,
		Truncated:          true,
		RecursionDesired:   true,
		RecursionAvailable: true,
		RCode:              domain.RCodeRefused,
	}
	var got domain.Header
	unpackFlags(packFlags(h), &got)
	assert.Equal(t, h, got)
}

func TestDecodeName_EscapesSpecialBytes(t *testing.T) {
	// single label containing a literal dot
	buf := []byte{
		0x00, 0x01, 0x00, 0x00,
		0x00, 0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		5, 'a', '.', 'b', 'c', 'd', 3, 'c', 'o', 'm', 0,
		0x00, 0x01, 0x00, 0x01,
	}
	msg, err := testCodec().DecodeMessage(buf)
	require.NoError(t, err)
	assert.Equal(t, `a\.bcd.com`, msg.Questions[0].Name)
}
