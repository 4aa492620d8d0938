package zonetree

import (
	"sync"

	"github.com/haukened/rr-authd/internal/dns/common/dnsname"
)

// ZoneSet holds the active trees for every served zone, keyed by apex.
// Reloads build a new Tree off the serving path and publish it here; the
// swap is atomic under the lock so readers always see a complete zone.
type ZoneSet struct {
	mu    sync.RWMutex
	zones map[string]*Tree
}

// NewZoneSet creates an empty ZoneSet.
func NewZoneSet() *ZoneSet {
	return &ZoneSet{
		zones: make(map[string]*Tree),
	}
}

// Publish installs tree as the active snapshot for its apex, replacing any
// previous tree for the same zone.
func (zs *ZoneSet) Publish(tree *Tree) {
	zs.mu.Lock()
	defer zs.mu.Unlock()

	zs.zones[tree.Apex()] = tree
}

// Remove drops the zone with the given apex.
func (zs *ZoneSet) Remove(apex string) {
	apex = dnsname.Canonical(apex)

	zs.mu.Lock()
	defer zs.mu.Unlock()

	delete(zs.zones, apex)
}

// Find returns the tree whose apex most closely encloses qname: the zone
// with the longest apex that qname sits at or below.
func (zs *ZoneSet) Find(qname string) (*Tree, bool) {
	qname = dnsname.Canonical(qname)

	zs.mu.RLock()
	defer zs.mu.RUnlock()

	var best *Tree
	for apex, tree := range zs.zones {
		if !dnsname.IsSubdomain(qname, apex) {
			continue
		}
		if best == nil || len(apex) > len(best.Apex()) {
			best = tree
		}
	}
	if best == nil {
		return nil, false
	}
	return best, true
}

// Get returns the tree for an exact apex.
func (zs *ZoneSet) Get(apex string) (*Tree, bool) {
	apex = dnsname.Canonical(apex)

	zs.mu.RLock()
	defer zs.mu.RUnlock()

	tree, ok := zs.zones[apex]
	return tree, ok
}

// Zones returns the apex names of all published zones.
func (zs *ZoneSet) Zones() []string {
	zs.mu.RLock()
	defer zs.mu.RUnlock()

	zones := make([]string, 0, len(zs.zones))
	for apex := range zs.zones {
		zones = append(zones, apex)
	}
	return zones
}

// Count returns the total number of RRSets across all published zones.
func (zs *ZoneSet) Count() int {
	zs.mu.RLock()
	defer zs.mu.RUnlock()

	count := 0
	for _, tree := range zs.zones {
		count += tree.Len()
	}
	return count
}
