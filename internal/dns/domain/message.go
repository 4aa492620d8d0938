package domain

import "fmt"

// Header carries the fixed 12-octet DNS message header fields (RFC 1035
// §4.1.1). Section counts are derived from the Message at encode time and
// are not stored here.
type Header struct {
	ID                 uint16
	Response           bool // QR
	Opcode             Opcode
	Authoritative      bool // AA
	Truncated          bool // TC
	RecursionDesired   bool // RD
	RecursionAvailable bool // RA
	RCode              RCode
}

// Message represents a complete DNS message: header plus the four sections.
type Message struct {
	Header     Header
	Questions  []Question
	Answers    []ResourceRecord
	Authority  []ResourceRecord
	Additional []ResourceRecord

	// EDNS holds the OPT pseudo-record state when the message carries one.
	EDNS *EDNS
}

// NewResponse constructs a response message echoing the query's ID, opcode,
// RD flag, and question.
func NewResponse(query Message, rcode RCode) Message {
	h := Header{
		ID:               query.Header.ID,
		Response:         true,
		Opcode:           query.Header.Opcode,
		RecursionDesired: query.Header.RecursionDesired,
		RCode:            rcode,
	}
	return Message{
		Header:    h,
		Questions: append([]Question(nil), query.Questions...),
	}
}

// Validate checks the message's structural invariants: a valid RCode and
// well-formed records in every section.
func (m Message) Validate() error {
	if !m.Header.RCode.IsValid() {
		return fmt.Errorf("invalid RCode: %d", m.Header.RCode)
	}
	for i, q := range m.Questions {
		if err := q.Validate(); err != nil {
			return fmt.Errorf("invalid question at index %d: %w", i, err)
		}
	}
	sections := []struct {
		name    string
		records []ResourceRecord
	}{
		{"answer", m.Answers},
		{"authority", m.Authority},
		{"additional", m.Additional},
	}
	for _, s := range sections {
		for i, rr := range s.records {
			if err := rr.Validate(); err != nil {
				return fmt.Errorf("invalid %s record at index %d: %w", s.name, i, err)
			}
		}
	}
	return nil
}

// Question returns the first question, or a zero Question if none exist.
func (m Message) Question() Question {
	if len(m.Questions) == 0 {
		return Question{}
	}
	return m.Questions[0]
}

// IsError returns true if the message indicates an error condition.
func (m Message) IsError() bool {
	return m.Header.RCode != RCodeNoError
}

// HasAnswers returns true if the message contains answer records.
func (m Message) HasAnswers() bool {
	return len(m.Answers) > 0
}
