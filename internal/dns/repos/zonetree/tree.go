// Package zonetree stores one authoritative zone as an ownership tree of
// nodes keyed by label. Lookups descend the tree label by label and classify
// every query as an exact match, wildcard synthesis, no-data, name error, or
// delegation at a zone cut. Trees are built off the serving path and published
// through a ZoneSet snapshot swap, so a published Tree is never mutated.
package zonetree

import (
	"fmt"
	"sort"

	"github.com/haukened/rr-authd/internal/dns/common/dnsname"
	"github.com/haukened/rr-authd/internal/dns/domain"
)

// Outcome classifies the result of a zone lookup.
type Outcome int

const (
	// OutcomeMatch means the exact owner name holds the queried type.
	OutcomeMatch Outcome = iota
	// OutcomeWildcard means a wildcard node synthesized the answer.
	OutcomeWildcard
	// OutcomeNoData means the owner name exists but holds no data for the type.
	OutcomeNoData
	// OutcomeNameError means the owner name does not exist in the zone.
	OutcomeNameError
	// OutcomeDelegation means the name falls below a zone cut.
	OutcomeDelegation
)

// String returns the textual representation of the Outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeMatch:
		return "match"
	case OutcomeWildcard:
		return "wildcard"
	case OutcomeNoData:
		return "nodata"
	case OutcomeNameError:
		return "nxdomain"
	case OutcomeDelegation:
		return "delegation"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Result carries the outcome of a lookup plus the record sets a responder
// needs to assemble the answer and authority sections.
type Result struct {
	Outcome Outcome

	// Answers holds the answer RRSets for Match and Wildcard outcomes.
	// Wildcard answers already carry the query name as owner. ANY queries
	// yield one entry per type held at the node.
	Answers []domain.RRSet

	// IsAlias marks Answers as a CNAME standing in for the queried type.
	IsAlias bool

	// Delegation holds the NS RRSet at the zone cut for Delegation outcomes.
	Delegation *domain.RRSet

	// Closest names the deepest node that exists on the descent path. The
	// responder uses it for negative-answer authority records; for
	// Delegation it is the cut owner.
	Closest string
}

// node is one owner name in the tree. Children are kept sorted by canonical
// label order so sibling lookup is logarithmic in sibling count.
type node struct {
	label    string
	name     string
	children []*node
	wildcard *node
	rrsets   map[domain.RRType]domain.RRSet
	zoneCut  bool
}

// child returns the child with the given label, if present.
func (n *node) child(label string) (*node, bool) {
	i := sort.Search(len(n.children), func(i int) bool {
		return dnsname.CompareLabels(n.children[i].label, label) >= 0
	})
	if i < len(n.children) && dnsname.CompareLabels(n.children[i].label, label) == 0 {
		return n.children[i], true
	}
	return nil, false
}

// ensureChild returns the child with the given label, creating it if needed.
func (n *node) ensureChild(label, name string) *node {
	i := sort.Search(len(n.children), func(i int) bool {
		return dnsname.CompareLabels(n.children[i].label, label) >= 0
	})
	if i < len(n.children) && dnsname.CompareLabels(n.children[i].label, label) == 0 {
		return n.children[i]
	}
	c := &node{
		label:  label,
		name:   name,
		rrsets: make(map[domain.RRType]domain.RRSet),
	}
	n.children = append(n.children, nil)
	copy(n.children[i+1:], n.children[i:])
	n.children[i] = c
	if label == dnsname.Wildcard {
		n.wildcard = c
	}
	return c
}

// Tree holds one zone rooted at its apex.
type Tree struct {
	apex       string
	apexLabels []string
	root       *node
	sets       int
}

// New creates an empty Tree for the given zone apex.
func New(apex string) (*Tree, error) {
	apex = dnsname.Canonical(apex)
	labels, err := dnsname.SplitLabels(apex)
	if err != nil {
		return nil, fmt.Errorf("invalid zone apex: %w", err)
	}
	if len(labels) == 0 {
		return nil, fmt.Errorf("zone apex cannot be the root name")
	}
	return &Tree{
		apex:       apex,
		apexLabels: labels,
		root: &node{
			label:  labels[0],
			name:   apex,
			rrsets: make(map[domain.RRType]domain.RRSet),
		},
	}, nil
}

// Apex returns the canonical zone apex name.
func (t *Tree) Apex() string {
	return t.apex
}

// Len returns the number of RRSets stored in the tree.
func (t *Tree) Len() int {
	return t.sets
}

// SOA returns the apex SOA RRSet, if present.
func (t *Tree) SOA() (domain.RRSet, bool) {
	rs, ok := t.root.rrsets[domain.RRTypeSOA]
	return rs, ok
}

// Insert stores an RRSet at its owner name, creating intermediate nodes as
// needed. Inserting a type already present at the owner replaces the existing
// RRSet. A non-apex NS insert marks the node as a zone cut.
func (t *Tree) Insert(rs domain.RRSet) error {
	if err := rs.Validate(); err != nil {
		return err
	}
	labels, rel, err := t.relativeLabels(rs.Name)
	if err != nil {
		return err
	}

	cur := t.root
	for i := rel - 1; i >= 0; i-- {
		cur = cur.ensureChild(labels[i], dnsname.JoinLabels(labels[i:]))
	}
	if _, exists := cur.rrsets[rs.Type]; !exists {
		t.sets++
	}
	cur.rrsets[rs.Type] = rs
	if rs.Type == domain.RRTypeNS && cur != t.root {
		cur.zoneCut = true
	}
	return nil
}

// Lookup classifies qname/qtype against the zone. The qname must be at or
// below the apex; the caller selects the zone before descending.
func (t *Tree) Lookup(qname string, qtype domain.RRType) (Result, error) {
	qname = dnsname.Canonical(qname)
	labels, rel, err := t.relativeLabels(qname)
	if err != nil {
		return Result{}, err
	}

	cur := t.root
	var cut *node
	for i := rel - 1; i >= 0; i-- {
		// the closest enclosing cut wins, recorded fresh per lookup
		if cur.zoneCut {
			cut = cur
		}
		child, ok := cur.child(labels[i])
		if !ok {
			if cut != nil {
				return t.delegation(cut), nil
			}
			if cur.wildcard != nil {
				// the wildcard consumes all remaining labels as a whole
				return t.terminal(cur.wildcard, qname, qtype, true), nil
			}
			return Result{Outcome: OutcomeNameError, Closest: cur.name}, nil
		}
		cur = child
	}
	// names below a cut (glue and its kin) are never authoritative answers
	if cut != nil && dnsname.IsStrictSubdomain(qname, cut.name) {
		return t.delegation(cut), nil
	}
	return t.terminal(cur, qname, qtype, false), nil
}

// FindRRSet returns the RRSet of the given type at the exact owner name,
// ignoring wildcards and zone cuts. Responders use it to collect glue.
func (t *Tree) FindRRSet(name string, rrType domain.RRType) (domain.RRSet, bool) {
	labels, rel, err := t.relativeLabels(name)
	if err != nil {
		return domain.RRSet{}, false
	}
	cur := t.root
	for i := rel - 1; i >= 0; i-- {
		child, ok := cur.child(labels[i])
		if !ok {
			return domain.RRSet{}, false
		}
		cur = child
	}
	rs, ok := cur.rrsets[rrType]
	return rs, ok
}

// Walk visits every RRSet in canonical order (RFC 4034 §6.1: owners sorted
// with parents before children, types ascending within an owner). The walk
// stops early if fn returns false.
func (t *Tree) Walk(fn func(domain.RRSet) bool) {
	t.walkNode(t.root, fn)
}

func (t *Tree) walkNode(n *node, fn func(domain.RRSet) bool) bool {
	types := make([]domain.RRType, 0, len(n.rrsets))
	for rrType := range n.rrsets {
		types = append(types, rrType)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	for _, rrType := range types {
		if !fn(n.rrsets[rrType]) {
			return false
		}
	}
	for _, c := range n.children {
		if !t.walkNode(c, fn) {
			return false
		}
	}
	return true
}

// relativeLabels validates that name is at or below the apex and returns the
// full label slice plus the number of labels below the apex.
func (t *Tree) relativeLabels(name string) ([]string, int, error) {
	labels, err := dnsname.SplitLabels(name)
	if err != nil {
		return nil, 0, err
	}
	if !dnsname.HasLabelSuffix(labels, t.apexLabels) {
		return nil, 0, fmt.Errorf("%q is outside zone %q", name, t.apex)
	}
	return labels, len(labels) - len(t.apexLabels), nil
}

// delegation builds a referral result from the NS RRSet at the cut node.
func (t *Tree) delegation(cut *node) Result {
	ns := cut.rrsets[domain.RRTypeNS]
	return Result{
		Outcome:    OutcomeDelegation,
		Delegation: &ns,
		Closest:    cut.name,
	}
}

// terminal classifies a reached node against qtype. For wildcard nodes the
// answer owner is rewritten to the query name.
func (t *Tree) terminal(n *node, qname string, qtype domain.RRType, wildcard bool) Result {
	outcome := OutcomeMatch
	if wildcard {
		outcome = OutcomeWildcard
	}

	if qtype == domain.RRTypeANY && len(n.rrsets) > 0 {
		res := Result{Outcome: outcome, Closest: qname}
		types := make([]domain.RRType, 0, len(n.rrsets))
		for rrType := range n.rrsets {
			types = append(types, rrType)
		}
		sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
		for _, rrType := range types {
			res.Answers = append(res.Answers, t.answer(n.rrsets[rrType], qname, wildcard))
		}
		return res
	}

	if rs, ok := n.rrsets[qtype]; ok {
		return Result{
			Outcome: outcome,
			Answers: []domain.RRSet{t.answer(rs, qname, wildcard)},
			Closest: qname,
		}
	}
	// a lone CNAME answers any type; chasing the alias is the caller's job
	if rs, ok := n.rrsets[domain.RRTypeCNAME]; ok && qtype != domain.RRTypeCNAME {
		return Result{
			Outcome: outcome,
			Answers: []domain.RRSet{t.answer(rs, qname, wildcard)},
			IsAlias: true,
			Closest: qname,
		}
	}
	// the name exists (possibly as an empty non-terminal) but has no data
	closest := n.name
	if wildcard {
		closest = qname
	}
	return Result{Outcome: OutcomeNoData, Closest: closest}
}

// answer rewrites the owner for wildcard synthesis, otherwise returns the
// stored set unchanged.
func (t *Tree) answer(rs domain.RRSet, qname string, wildcard bool) domain.RRSet {
	if wildcard {
		return rs.WithName(qname)
	}
	return rs
}
