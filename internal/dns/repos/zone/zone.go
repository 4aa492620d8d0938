// Package zone loads authoritative zone data from YAML, JSON, or TOML
// documents and builds the name trees the lookup engine serves from.
package zone

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"

	"github.com/haukened/rr-authd/internal/dns/common/dnsname"
	"github.com/haukened/rr-authd/internal/dns/common/rrdata"
	"github.com/haukened/rr-authd/internal/dns/domain"
	"github.com/haukened/rr-authd/internal/dns/repos/zonetree"
)

// reserved top-level keys in a zone document; everything else is an owner name.
const (
	keyZoneRoot = "zone_root"
	keyTTL      = "ttl"
)

// LoadZoneDirectory walks dir, parses every supported zone file, and builds
// one tree per zone apex. Files sharing a zone_root merge into the same
// zone. Every zone must carry exactly one SOA record at its apex.
func LoadZoneDirectory(dir string, defaultTTL time.Duration) ([]*zonetree.Tree, error) {
	records := make(map[string][]domain.ResourceRecord)

	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		root, recs, err := loadZoneFile(path, defaultTTL)
		if err != nil {
			return fmt.Errorf("error parsing zone file %s: %w", path, err)
		}
		if root != "" {
			records[root] = append(records[root], recs...)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	roots := make([]string, 0, len(records))
	for root := range records {
		roots = append(roots, root)
	}
	sort.Strings(roots)

	trees := make([]*zonetree.Tree, 0, len(roots))
	for _, root := range roots {
		tree, err := buildTree(root, records[root])
		if err != nil {
			return nil, fmt.Errorf("zone %s: %w", root, err)
		}
		trees = append(trees, tree)
	}
	return trees, nil
}

// buildTree groups flat records into RRSets and inserts them into a fresh
// tree for the apex, enforcing the SOA invariant.
func buildTree(apex string, records []domain.ResourceRecord) (*zonetree.Tree, error) {
	tree, err := zonetree.New(apex)
	if err != nil {
		return nil, err
	}

	grouped := make(map[string][]domain.ResourceRecord)
	order := make([]string, 0)
	for _, rr := range records {
		key := rr.Key()
		if _, seen := grouped[key]; !seen {
			order = append(order, key)
		}
		grouped[key] = append(grouped[key], rr)
	}

	for _, key := range order {
		set, err := domain.NewRRSet(grouped[key])
		if err != nil {
			return nil, err
		}
		if err := tree.Insert(set); err != nil {
			return nil, err
		}
	}

	soa, ok := tree.SOA()
	if !ok {
		return nil, fmt.Errorf("no SOA record at apex %s", apex)
	}
	if len(soa.Records) != 1 {
		return nil, fmt.Errorf("apex %s carries %d SOA records, want exactly 1", apex, len(soa.Records))
	}
	return tree, nil
}

// expandName returns the fully qualified owner name for a label, expanding
// '@' to the apex and appending the apex to relative names.
func expandName(label, root string) string {
	if label == "@" {
		return root
	}
	if strings.HasSuffix(label, ".") {
		return label
	}
	return label + "." + root
}

// toStringValues converts a raw koanf-parsed value (string or []any of
// strings) into a slice of non-empty strings. Invalid types yield an empty
// slice which the caller treats as no records.
func toStringValues(val any) []string {
	switch v := val.(type) {
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return nil
		}
		return []string{s}
	case []any:
		out := make([]string, 0, len(v))
		for _, elem := range v {
			s, ok := elem.(string)
			if !ok {
				continue
			}
			s = strings.TrimSpace(s)
			if s == "" {
				continue
			}
			out = append(out, s)
		}
		if len(out) == 0 {
			return nil
		}
		return out
	default:
		return nil
	}
}

// buildRecords creates one ResourceRecord per presentation value, encoding
// each to wire RDATA.
func buildRecords(fqdn string, typeName string, values []string, ttl uint32) ([]domain.ResourceRecord, error) {
	rrType := domain.RRTypeFromString(typeName)
	if rrType == 0 {
		return nil, fmt.Errorf("unknown record type %q for %s", typeName, fqdn)
	}
	records := make([]domain.ResourceRecord, 0, len(values))
	for _, s := range values {
		data, err := rrdata.Encode(rrType, s)
		if err != nil {
			return nil, fmt.Errorf("%s %s: %w", fqdn, typeName, err)
		}
		rr, err := domain.NewResourceRecord(fqdn, rrType, domain.RRClassIN, ttl, data, s)
		if err != nil {
			return nil, err
		}
		records = append(records, rr)
	}
	return records, nil
}

// loadZoneFile loads and parses a single zone file, returning the canonical
// zone apex and the flat record list. Unsupported extensions are skipped
// with an empty root.
func loadZoneFile(path string, defaultTTL time.Duration) (string, []domain.ResourceRecord, error) {
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	case ".toml":
		parser = toml.Parser()
	default:
		return "", nil, nil
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(path), parser); err != nil {
		return "", nil, fmt.Errorf("failed to load zone file %s: %w", path, err)
	}

	root := k.String(keyZoneRoot)
	if root == "" {
		return "", nil, fmt.Errorf("zone file %s missing %q", path, keyZoneRoot)
	}
	root = dnsname.Canonical(root)
	if _, err := dnsname.SplitLabels(root); err != nil {
		return "", nil, fmt.Errorf("zone file %s has invalid %s: %w", path, keyZoneRoot, err)
	}

	ttl := uint32(defaultTTL.Seconds())
	if fileTTL := k.Int(keyTTL); fileTTL > 0 {
		ttl = uint32(fileTTL)
	}

	var records []domain.ResourceRecord
	for name, raw := range k.Raw() {
		if name == keyZoneRoot || name == keyTTL {
			continue
		}
		rawMap, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		fqdn := dnsname.Canonical(expandName(name, root))
		for typeName, val := range rawMap {
			values := toStringValues(val)
			if len(values) == 0 {
				continue
			}
			recs, err := buildRecords(fqdn, typeName, values, ttl)
			if err != nil {
				return "", nil, fmt.Errorf("invalid record in %s: %w", path, err)
			}
			records = append(records, recs...)
		}
	}
	return root, records, nil
}
