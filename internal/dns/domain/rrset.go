package domain

import (
	"fmt"

	"github.com/haukened/rr-authd/internal/dns/common/dnsname"
)

// RRSet is the set of resource records sharing an owner name, type, and
// class (RFC 2181 §5). A zone tree node stores at most one RRSet per type.
type RRSet struct {
	Name    string
	Type    RRType
	Class   RRClass
	TTL     uint32
	Records []ResourceRecord
}

// NewRRSet groups records into an RRSet, requiring a uniform owner name,
// type, and class across all members. The set's TTL is the first record's;
// RFC 2181 §5.2 requires member TTLs to agree.
func NewRRSet(records []ResourceRecord) (RRSet, error) {
	if len(records) == 0 {
		return RRSet{}, fmt.Errorf("rrset must contain at least one record")
	}
	first := records[0]
	set := RRSet{
		Name:    dnsname.Canonical(first.Name),
		Type:    first.Type,
		Class:   first.Class,
		TTL:     first.TTL,
		Records: records,
	}
	if err := set.Validate(); err != nil {
		return RRSet{}, err
	}
	return set, nil
}

// Validate checks the RRSet's uniformity invariant.
func (s RRSet) Validate() error {
	if len(s.Records) == 0 {
		return fmt.Errorf("rrset must contain at least one record")
	}
	for i, rr := range s.Records {
		if err := rr.Validate(); err != nil {
			return fmt.Errorf("invalid record at index %d: %w", i, err)
		}
		if !dnsname.Equal(rr.Name, s.Name) {
			return fmt.Errorf("record %d owner %q does not match rrset owner %q", i, rr.Name, s.Name)
		}
		if rr.Type != s.Type {
			return fmt.Errorf("record %d type %s does not match rrset type %s", i, rr.Type, s.Type)
		}
		if rr.Class != s.Class {
			return fmt.Errorf("record %d class %s does not match rrset class %s", i, rr.Class, s.Class)
		}
	}
	return nil
}

// WithName returns a copy of the set with every member's owner rewritten.
// Used for wildcard synthesis.
func (s RRSet) WithName(name string) RRSet {
	out := s
	out.Name = dnsname.Canonical(name)
	out.Records = make([]ResourceRecord, len(s.Records))
	for i, rr := range s.Records {
		out.Records[i] = rr.WithName(name)
	}
	return out
}

// Key returns the lookup key for the set's (name, type, class) triple.
func (s RRSet) Key() string {
	return GenerateKey(s.Name, s.Type, s.Class)
}
