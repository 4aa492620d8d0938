package wire

import (
	"encoding/binary"
	"fmt"

	"github.com/haukened/rr-authd/internal/dns/common/dnsname"
	"github.com/haukened/rr-authd/internal/dns/domain"
)

const headerLength = 12

// DecodeMessage parses a DNS message from data. Every malformation rejects
// the whole message with an error wrapping domain.ErrFormat; no partially
// consumed buffer is ever returned as a valid message.
func (c *codec) DecodeMessage(data []byte) (domain.Message, error) {
	if len(data) < headerLength {
		return domain.Message{}, fmt.Errorf("%w: message shorter than header (%d octets)", domain.ErrFormat, len(data))
	}

	var msg domain.Message
	msg.Header.ID = binary.BigEndian.Uint16(data[0:2])
	unpackFlags(binary.BigEndian.Uint16(data[2:4]), &msg.Header)

	qdCount := int(binary.BigEndian.Uint16(data[4:6]))
	anCount := int(binary.BigEndian.Uint16(data[6:8]))
	nsCount := int(binary.BigEndian.Uint16(data[8:10]))
	arCount := int(binary.BigEndian.Uint16(data[10:12]))

	offset := headerLength
	for i := 0; i < qdCount; i++ {
		q, next, err := decodeQuestion(data, offset)
		if err != nil {
			return domain.Message{}, fmt.Errorf("question %d: %w", i, err)
		}
		msg.Questions = append(msg.Questions, q)
		offset = next
	}

	var err error
	if msg.Answers, offset, err = c.decodeSection(data, offset, anCount, false, &msg); err != nil {
		return domain.Message{}, fmt.Errorf("answer section: %w", err)
	}
	if msg.Authority, offset, err = c.decodeSection(data, offset, nsCount, false, &msg); err != nil {
		return domain.Message{}, fmt.Errorf("authority section: %w", err)
	}
	if msg.Additional, offset, err = c.decodeSection(data, offset, arCount, true, &msg); err != nil {
		return domain.Message{}, fmt.Errorf("additional section: %w", err)
	}

	if offset != len(data) {
		return domain.Message{}, fmt.Errorf("%w: %d trailing octets after message", domain.ErrFormat, len(data)-offset)
	}
	return msg, nil
}

// decodeQuestion reads one question entry at offset.
func decodeQuestion(data []byte, offset int) (domain.Question, int, error) {
	name, offset, err := decodeName(data, offset)
	if err != nil {
		return domain.Question{}, 0, err
	}
	if offset+4 > len(data) {
		return domain.Question{}, 0, fmt.Errorf("%w: truncated question", domain.ErrFormat)
	}
	q := domain.Question{
		Name:  dnsname.Canonical(name),
		Type:  domain.RRType(binary.BigEndian.Uint16(data[offset : offset+2])),
		Class: domain.RRClass(binary.BigEndian.Uint16(data[offset+2 : offset+4])),
	}
	return q, offset + 4, nil
}

// decodeSection reads count resource records. In the additional section an
// OPT pseudo-record is lifted into msg.EDNS instead of the record list;
// anywhere else, or appearing twice, it is a format error (RFC 6891 §6.1.1).
func (c *codec) decodeSection(data []byte, offset, count int, additional bool, msg *domain.Message) ([]domain.ResourceRecord, int, error) {
	var records []domain.ResourceRecord
	for i := 0; i < count; i++ {
		name, next, err := decodeName(data, offset)
		if err != nil {
			return nil, 0, fmt.Errorf("record %d: %w", i, err)
		}
		offset = next
		if offset+10 > len(data) {
			return nil, 0, fmt.Errorf("%w: truncated record %d", domain.ErrFormat, i)
		}
		rrType := domain.RRType(binary.BigEndian.Uint16(data[offset : offset+2]))
		class := binary.BigEndian.Uint16(data[offset+2 : offset+4])
		ttl := binary.BigEndian.Uint32(data[offset+4 : offset+8])
		rdLen := int(binary.BigEndian.Uint16(data[offset+8 : offset+10]))
		offset += 10
		if offset+rdLen > len(data) {
			return nil, 0, fmt.Errorf("%w: record %d rdata exceeds message", domain.ErrFormat, i)
		}
		rdata := make([]byte, rdLen)
		copy(rdata, data[offset:offset+rdLen])
		offset += rdLen

		if rrType == domain.RRTypeOPT {
			if !additional {
				return nil, 0, fmt.Errorf("%w: OPT record outside additional section", domain.ErrFormat)
			}
			if msg.EDNS != nil {
				return nil, 0, fmt.Errorf("%w: duplicate OPT record", domain.ErrFormat)
			}
			if name != "" {
				return nil, 0, fmt.Errorf("%w: OPT owner must be the root name", domain.ErrFormat)
			}
			msg.EDNS = decodeOPT(class, ttl)
			continue
		}

		records = append(records, domain.ResourceRecord{
			Name:  dnsname.Canonical(name),
			Type:  rrType,
			Class: domain.RRClass(class),
			TTL:   ttl,
			Data:  rdata,
		})
	}
	return records, offset, nil
}

// decodeOPT unpacks the EDNS fields the OPT pseudo-record overloads onto its
// class (payload size) and TTL (extended RCODE, version, DO bit) fields.
func decodeOPT(class uint16, ttl uint32) *domain.EDNS {
	return &domain.EDNS{
		UDPSize:       class,
		ExtendedRCode: uint8(ttl >> 24),
		Version:       uint8(ttl >> 16),
		DNSSECOK:      ttl&0x8000 != 0,
	}
}
