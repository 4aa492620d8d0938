package wire

import (
	"encoding/binary"
	"fmt"

	"github.com/haukened/rr-authd/internal/dns/domain"
)

// sections, in drop order: additional goes first, answers last
const (
	sectionAnswer = iota
	sectionAuthority
	sectionAdditional
)

// recordMark remembers where a record started so truncation can cut the
// buffer back to a record boundary.
type recordMark struct {
	start   int
	section int
}

// EncodeMessage serializes msg, compressing owner names against every name
// suffix already emitted. When the result would exceed maxSize, trailing
// records are dropped (additional, then authority, then answers) and the TC
// flag is set; the header and question sections always survive.
func (c *codec) EncodeMessage(msg domain.Message, maxSize int) ([]byte, error) {
	buf := make([]byte, headerLength, 512)
	enc := newNameEncoder()

	if len(msg.Questions) > 0xFFFF {
		return nil, fmt.Errorf("%w: too many questions: %d", domain.ErrFormat, len(msg.Questions))
	}
	for _, q := range msg.Questions {
		var err error
		buf, err = enc.append(buf, q.Name)
		if err != nil {
			return nil, err
		}
		buf = binary.BigEndian.AppendUint16(buf, uint16(q.Type))
		buf = binary.BigEndian.AppendUint16(buf, uint16(q.Class))
	}

	var marks []recordMark
	var err error
	if buf, marks, err = c.appendSection(buf, enc, msg.Answers, sectionAnswer, marks); err != nil {
		return nil, err
	}
	if buf, marks, err = c.appendSection(buf, enc, msg.Authority, sectionAuthority, marks); err != nil {
		return nil, err
	}
	// the OPT pseudo-record leads the additional section so it is the last
	// additional record to be dropped (RFC 6891 §7)
	if msg.EDNS != nil {
		marks = append(marks, recordMark{start: len(buf), section: sectionAdditional})
		buf = appendOPT(buf, msg.EDNS)
	}
	if buf, marks, err = c.appendSection(buf, enc, msg.Additional, sectionAdditional, marks); err != nil {
		return nil, err
	}

	counts := [3]int{len(msg.Answers), len(msg.Authority), len(msg.Additional)}
	if msg.EDNS != nil {
		counts[sectionAdditional]++
	}
	for _, n := range counts {
		if n > 0xFFFF {
			return nil, fmt.Errorf("%w: section record count %d exceeds 65535", domain.ErrFormat, n)
		}
	}

	truncated := msg.Header.Truncated
	if maxSize > 0 && len(buf) > maxSize {
		// record drops run strictly from the tail, so surviving compression
		// pointers still target earlier, retained bytes
		for i := len(marks) - 1; i >= 0 && len(buf) > maxSize; i-- {
			buf = buf[:marks[i].start]
			counts[marks[i].section]--
			truncated = true
		}
		c.logger.Debug(map[string]any{
			"id":    msg.Header.ID,
			"size":  len(buf),
			"limit": maxSize,
		}, "truncated response to fit transport limit")
	}

	header := msg.Header
	header.Truncated = truncated
	binary.BigEndian.PutUint16(buf[0:2], header.ID)
	binary.BigEndian.PutUint16(buf[2:4], packFlags(header))
	binary.BigEndian.PutUint16(buf[4:6], uint16(len(msg.Questions)))
	binary.BigEndian.PutUint16(buf[6:8], uint16(counts[sectionAnswer]))
	binary.BigEndian.PutUint16(buf[8:10], uint16(counts[sectionAuthority]))
	binary.BigEndian.PutUint16(buf[10:12], uint16(counts[sectionAdditional]))
	return buf, nil
}

// appendSection encodes one record section, marking each record's start
// offset for truncation.
func (c *codec) appendSection(buf []byte, enc *nameEncoder, records []domain.ResourceRecord, section int, marks []recordMark) ([]byte, []recordMark, error) {
	for _, rr := range records {
		if len(rr.Data) > 0xFFFF {
			return nil, nil, fmt.Errorf("%w: rdata for %s exceeds 65535 octets", domain.ErrFormat, rr.Name)
		}
		marks = append(marks, recordMark{start: len(buf), section: section})
		var err error
		buf, err = enc.append(buf, rr.Name)
		if err != nil {
			return nil, nil, err
		}
		buf = binary.BigEndian.AppendUint16(buf, uint16(rr.Type))
		buf = binary.BigEndian.AppendUint16(buf, uint16(rr.Class))
		buf = binary.BigEndian.AppendUint32(buf, rr.TTL)
		buf = binary.BigEndian.AppendUint16(buf, uint16(len(rr.Data)))
		buf = append(buf, rr.Data...)
	}
	return buf, marks, nil
}

// appendOPT writes the EDNS OPT pseudo-record: root owner, payload size in
// the class field, extended RCODE / version / DO bit folded into the TTL.
func appendOPT(buf []byte, e *domain.EDNS) []byte {
	buf = append(buf, 0) // root owner
	buf = binary.BigEndian.AppendUint16(buf, uint16(domain.RRTypeOPT))
	buf = binary.BigEndian.AppendUint16(buf, e.UDPSize)
	ttl := uint32(e.ExtendedRCode)<<24 | uint32(e.Version)<<16
	if e.DNSSECOK {
		ttl |= 0x8000
	}
	buf = binary.BigEndian.AppendUint32(buf, ttl)
	return binary.BigEndian.AppendUint16(buf, 0) // no options
}
