package domain

import (
	"fmt"

	"github.com/haukened/rr-authd/internal/dns/common/dnsname"
)

// Question represents a DNS question section entry: the name, type, and
// class being asked about. The message ID lives in the Header, not here.
type Question struct {
	Name  string
	Type  RRType
	Class RRClass
}

// NewQuestion constructs a Question with a canonicalized name and validates
// its fields.
func NewQuestion(name string, rrtype RRType, class RRClass) (Question, error) {
	q := Question{
		Name:  dnsname.Canonical(name),
		Type:  rrtype,
		Class: class,
	}
	if err := q.Validate(); err != nil {
		return Question{}, err
	}
	return q, nil
}

// Validate checks whether the Question fields are structurally valid.
func (q Question) Validate() error {
	if q.Name == "" {
		return fmt.Errorf("query name must not be empty")
	}
	if _, err := dnsname.SplitLabels(q.Name); err != nil {
		return fmt.Errorf("invalid query name: %w", err)
	}
	if !q.Class.IsValid() {
		return fmt.Errorf("unsupported RRClass: %d", q.Class)
	}
	return nil
}

// Key returns a lookup key string derived from the question's name, type, and class.
func (q Question) Key() string {
	return GenerateKey(q.Name, q.Type, q.Class)
}
