package domain

import (
	"fmt"

	"github.com/haukened/rr-authd/internal/dns/common/dnsname"
)

// ResourceRecord represents a single authoritative DNS resource record.
// Data holds the wire-encoded RDATA; Text preserves the zone file's
// presentation form where one exists (opaque records carry Data only).
type ResourceRecord struct {
	Name  string
	Type  RRType
	Class RRClass
	TTL   uint32
	Data  []byte // wire-encoded RDATA
	Text  string // presentation form, if known
}

// NewResourceRecord constructs a ResourceRecord with a canonicalized owner
// name and validates its fields.
func NewResourceRecord(name string, rrtype RRType, class RRClass, ttl uint32, data []byte, text string) (ResourceRecord, error) {
	rr := ResourceRecord{
		Name:  dnsname.Canonical(name),
		Type:  rrtype,
		Class: class,
		TTL:   ttl,
		Data:  data,
		Text:  text,
	}
	if err := rr.Validate(); err != nil {
		return ResourceRecord{}, err
	}
	return rr, nil
}

// Validate checks whether the ResourceRecord fields are valid.
func (rr ResourceRecord) Validate() error {
	if rr.Name == "" {
		return fmt.Errorf("record name must not be empty")
	}
	if _, err := dnsname.SplitLabels(rr.Name); err != nil {
		return fmt.Errorf("invalid record name: %w", err)
	}
	if !rr.Class.IsValid() {
		return fmt.Errorf("invalid RRClass: %d", rr.Class)
	}
	if rr.Text == "" && len(rr.Data) == 0 {
		return fmt.Errorf("either Text or Data must be set")
	}
	return nil
}

// Key returns a lookup key string derived from the record's name, type, and class.
func (rr ResourceRecord) Key() string {
	return GenerateKey(rr.Name, rr.Type, rr.Class)
}

// WithName returns a copy of the record owned by a different name. Used for
// wildcard synthesis, where the answer's owner is rewritten to the qname.
func (rr ResourceRecord) WithName(name string) ResourceRecord {
	rr.Name = dnsname.Canonical(name)
	return rr
}

// GenerateKey returns a consistent lookup key derived from a DNS name, type,
// and class. Format: "name|type|class" (e.g. "www.example.com|A|IN").
// Pipe separators avoid conflicts with colons in IPv6 addresses.
func GenerateKey(name string, t RRType, c RRClass) string {
	return dnsname.Canonical(name) + "|" + t.String() + "|" + c.String()
}
