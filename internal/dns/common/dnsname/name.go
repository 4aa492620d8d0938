// Package dnsname provides canonical representation, validation, and ordering
// of DNS domain names. Names are handled in presentation form (lowercased,
// no trailing dot) and split into labels for tree structuring and wire
// encoding. Ordering follows RFC 4034 §6.1 canonical ordering so the same
// comparator serves both the zone tree and DNSSEC-ordered record logic.
package dnsname

import (
	"fmt"
	"strings"
)

const (
	// MaxLabelLength is the maximum length of a single label in octets (RFC 1035).
	MaxLabelLength = 63

	// MaxNameLength is the maximum wire-encoded length of a name in octets.
	MaxNameLength = 255

	// MaxLabels is the maximum number of labels a name can carry. Every label
	// costs at least 2 wire octets (length + one content octet) except the
	// root, so 255 octets bound the label count at 127.
	MaxLabels = 127

	// Wildcard is the label that marks a wildcard node.
	Wildcard = "*"
)

// Canonical returns a DNS name in canonical presentation form:
// lowercased, trimmed of surrounding whitespace, without trailing dots.
func Canonical(name string) string {
	name = strings.TrimSpace(name)
	name = strings.ToLower(name)
	for strings.HasSuffix(name, ".") {
		name = strings.TrimSuffix(name, ".")
	}
	return name
}

// SplitLabels parses a presentation-format name into its labels, handling
// RFC 1035 escape sequences (`\.`, `\\`, and decimal `\DDD`). Labels are
// ordered most-significant first ("www.example.com" → ["www" "example" "com"]).
// The root name ("" or ".") yields an empty slice. Limits are enforced:
// each label 1–63 octets, at most 127 labels, wire-encoded length ≤ 255.
func SplitLabels(name string) ([]string, error) {
	name = Canonical(name)
	if name == "" {
		return nil, nil
	}
	var labels []string
	var label []byte
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch c {
		case '\\':
			if i+1 >= len(name) {
				return nil, fmt.Errorf("dangling escape at end of name %q", name)
			}
			next := name[i+1]
			if next >= '0' && next <= '9' {
				// \DDD decimal escape, exactly three digits
				if i+3 >= len(name) || !isDigit(name[i+2]) || !isDigit(name[i+3]) {
					return nil, fmt.Errorf("invalid decimal escape in name %q", name)
				}
				v := int(next-'0')*100 + int(name[i+2]-'0')*10 + int(name[i+3]-'0')
				if v > 255 {
					return nil, fmt.Errorf("decimal escape out of range in name %q", name)
				}
				label = append(label, byte(v))
				i += 3
			} else {
				label = append(label, next)
				i++
			}
		case '.':
			if len(label) == 0 {
				return nil, fmt.Errorf("empty label in name %q", name)
			}
			labels = append(labels, string(label))
			label = label[:0]
		default:
			label = append(label, c)
		}
	}
	if len(label) == 0 {
		return nil, fmt.Errorf("empty label in name %q", name)
	}
	labels = append(labels, string(label))

	if len(labels) > MaxLabels {
		return nil, fmt.Errorf("name %q has %d labels (max %d)", name, len(labels), MaxLabels)
	}
	wireLen := 1 // root length octet
	for _, l := range labels {
		if len(l) > MaxLabelLength {
			return nil, fmt.Errorf("label %q exceeds %d octets", l, MaxLabelLength)
		}
		wireLen += 1 + len(l)
	}
	if wireLen > MaxNameLength {
		return nil, fmt.Errorf("name %q is %d octets on the wire (max %d)", name, wireLen, MaxNameLength)
	}
	return labels, nil
}

// JoinLabels is the inverse of SplitLabels, escaping literal dots and
// backslashes and rendering non-printable bytes as decimal escapes.
func JoinLabels(labels []string) string {
	if len(labels) == 0 {
		return ""
	}
	parts := make([]string, len(labels))
	for i, l := range labels {
		parts[i] = escapeLabel(l)
	}
	return strings.Join(parts, ".")
}

// escapeLabel renders a single raw label in presentation form.
func escapeLabel(label string) string {
	var b strings.Builder
	for i := 0; i < len(label); i++ {
		c := label[i]
		switch {
		case c == '.' || c == '\\':
			b.WriteByte('\\')
			b.WriteByte(c)
		case c < '!' || c > '~':
			fmt.Fprintf(&b, "\\%03d", c)
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// WireLength returns the number of octets the labels occupy in uncompressed
// wire form, including the terminating root octet.
func WireLength(labels []string) int {
	n := 1
	for _, l := range labels {
		n += 1 + len(l)
	}
	return n
}

// IsSubdomain reports whether child is equal to or a descendant of parent.
// Names are compared label by label so a label containing an escaped dot
// ("x\.example") never matches across a label boundary; the root ("")
// encloses everything. Names that fail to parse are descendants of nothing.
func IsSubdomain(child, parent string) bool {
	parentLabels, err := SplitLabels(parent)
	if err != nil {
		return false
	}
	if len(parentLabels) == 0 {
		return true
	}
	childLabels, err := SplitLabels(child)
	if err != nil {
		return false
	}
	return HasLabelSuffix(childLabels, parentLabels)
}

// IsStrictSubdomain reports whether child is a strict descendant of parent,
// under the same label-wise comparison as IsSubdomain.
func IsStrictSubdomain(child, parent string) bool {
	parentLabels, err := SplitLabels(parent)
	if err != nil {
		return false
	}
	childLabels, err := SplitLabels(child)
	if err != nil {
		return false
	}
	if len(childLabels) <= len(parentLabels) {
		return false
	}
	return HasLabelSuffix(childLabels, parentLabels)
}

// HasLabelSuffix reports whether the trailing labels of name equal suffix,
// compared with CompareLabels. An empty suffix matches every name.
func HasLabelSuffix(name, suffix []string) bool {
	if len(name) < len(suffix) {
		return false
	}
	off := len(name) - len(suffix)
	for i, l := range suffix {
		if CompareLabels(name[off+i], l) != 0 {
			return false
		}
	}
	return true
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
