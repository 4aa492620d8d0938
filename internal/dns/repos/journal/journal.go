// Package journal persists accepted RRset replacements in a bbolt database
// so dynamic changes survive restarts. Entries replay in order over freshly
// loaded zone trees at startup; tree insertion is last-write-wins per
// (owner, type), so replaying a replacement restores the post-update state.
package journal

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"time"

	bbolt "go.etcd.io/bbolt"

	"github.com/haukened/rr-authd/internal/dns/common/clock"
	"github.com/haukened/rr-authd/internal/dns/common/dnsname"
	"github.com/haukened/rr-authd/internal/dns/common/rrdata"
	"github.com/haukened/rr-authd/internal/dns/domain"
)

// Entry is one journaled RRset replacement. Values hold the presentation
// form of every record in the replacement set.
type Entry struct {
	Seq       uint64         `json:"seq"`
	Zone      string         `json:"zone"`
	Name      string         `json:"name"`
	Type      domain.RRType  `json:"type"`
	Class     domain.RRClass `json:"class"`
	TTL       uint32         `json:"ttl"`
	Values    []string       `json:"values"`
	AppliedAt time.Time      `json:"applied_at"`
}

// Journal is a bbolt-backed append-only log, one bucket per zone apex.
type Journal struct {
	db    *bbolt.DB
	clock clock.Clock
}

// Open opens (or creates) the journal database at path.
func Open(path string, clk clock.Clock) (*Journal, error) {
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open journal at %s: %w", path, err)
	}
	if clk == nil {
		clk = clock.RealClock{}
	}
	return &Journal{db: db, clock: clk}, nil
}

// Close closes the underlying database.
func (j *Journal) Close() error { return j.db.Close() }

// Append records a replacement of the RRset identified by (set.Name,
// set.Type) within zone. The set must belong to the zone.
func (j *Journal) Append(zone string, set domain.RRSet) error {
	zone = dnsname.Canonical(zone)
	if !dnsname.IsSubdomain(set.Name, zone) {
		return fmt.Errorf("owner %s is outside zone %s", set.Name, zone)
	}
	if err := set.Validate(); err != nil {
		return fmt.Errorf("invalid rrset for journal: %w", err)
	}

	values := make([]string, len(set.Records))
	for i, rr := range set.Records {
		values[i] = rr.Text
	}
	entry := Entry{
		Zone:      zone,
		Name:      set.Name,
		Type:      set.Type,
		Class:     set.Class,
		TTL:       set.TTL,
		Values:    values,
		AppliedAt: j.clock.Now().UTC(),
	}

	return j.db.Update(func(tx *bbolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(zone))
		if err != nil {
			return err
		}
		seq, err := b.NextSequence()
		if err != nil {
			return err
		}
		entry.Seq = seq
		data, err := json.Marshal(entry)
		if err != nil {
			return err
		}
		var key [8]byte
		binary.BigEndian.PutUint64(key[:], seq)
		return b.Put(key[:], data)
	})
}

// Replay invokes apply for every entry of the zone in append order. A
// missing bucket means no journaled changes and is not an error. Apply
// errors abort the replay.
func (j *Journal) Replay(zone string, apply func(Entry) error) error {
	zone = dnsname.Canonical(zone)
	return j.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(zone))
		if b == nil {
			return nil
		}
		return b.ForEach(func(_, v []byte) error {
			var entry Entry
			if err := json.Unmarshal(v, &entry); err != nil {
				return fmt.Errorf("corrupt journal entry in zone %s: %w", zone, err)
			}
			return apply(entry)
		})
	})
}

// Len returns the number of journaled entries for a zone.
func (j *Journal) Len(zone string) (int, error) {
	zone = dnsname.Canonical(zone)
	var n int
	err := j.db.View(func(tx *bbolt.Tx) error {
		if b := tx.Bucket([]byte(zone)); b != nil {
			n = b.Stats().KeyN
		}
		return nil
	})
	return n, err
}

// Reset drops every journaled entry for a zone. Used when the zone's source
// data is replaced outright and the log no longer applies.
func (j *Journal) Reset(zone string) error {
	zone = dnsname.Canonical(zone)
	return j.db.Update(func(tx *bbolt.Tx) error {
		if tx.Bucket([]byte(zone)) == nil {
			return nil
		}
		return tx.DeleteBucket([]byte(zone))
	})
}

// Zones lists every zone with journaled entries.
func (j *Journal) Zones() ([]string, error) {
	var zones []string
	err := j.db.View(func(tx *bbolt.Tx) error {
		return tx.ForEach(func(name []byte, _ *bbolt.Bucket) error {
			zones = append(zones, string(name))
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return zones, nil
}

// RRSet rebuilds the replacement set from an entry's presentation values.
func (e Entry) RRSet() (domain.RRSet, error) {
	records := make([]domain.ResourceRecord, 0, len(e.Values))
	for _, v := range e.Values {
		data, err := rrdata.Encode(e.Type, v)
		if err != nil {
			return domain.RRSet{}, fmt.Errorf("journal entry %d for %s: %w", e.Seq, e.Name, err)
		}
		rr, err := domain.NewResourceRecord(e.Name, e.Type, e.Class, e.TTL, data, v)
		if err != nil {
			return domain.RRSet{}, err
		}
		records = append(records, rr)
	}
	return domain.NewRRSet(records)
}
