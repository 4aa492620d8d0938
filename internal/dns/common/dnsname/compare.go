package dnsname

// CompareLabels compares two raw labels under canonical ordering: ASCII
// letters are case-folded, then octets are compared as unsigned values.
// Returns -1, 0, or 1.
func CompareLabels(a, b string) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		ca := foldByte(a[i])
		cb := foldByte(b[i])
		if ca != cb {
			if ca < cb {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	default:
		return 0
	}
}

// Compare orders two names canonically per RFC 4034 §6.1: labels are
// compared starting from the most significant (closest to the root); on a
// common prefix of labels the shorter name sorts first. Names that fail to
// parse compare as their canonical string form, which keeps the ordering
// total.
func Compare(a, b string) int {
	la, errA := SplitLabels(a)
	lb, errB := SplitLabels(b)
	if errA != nil || errB != nil {
		ca, cb := Canonical(a), Canonical(b)
		switch {
		case ca < cb:
			return -1
		case ca > cb:
			return 1
		default:
			return 0
		}
	}
	for i := 1; i <= len(la) && i <= len(lb); i++ {
		if c := CompareLabels(la[len(la)-i], lb[len(lb)-i]); c != 0 {
			return c
		}
	}
	switch {
	case len(la) < len(lb):
		return -1
	case len(la) > len(lb):
		return 1
	default:
		return 0
	}
}

// Equal reports whether two names are the same under canonical comparison.
func Equal(a, b string) bool {
	return Compare(a, b) == 0
}

// foldByte lowercases a single ASCII letter; all other octets pass through.
func foldByte(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + ('a' - 'A')
	}
	return c
}
