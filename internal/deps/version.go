package deps

// compareVersion compares two dotted versions. ok is false when either one
// has no numeric prefix.
func compareVersion(a, b string) (cmp int, ok bool) {
	av, ok := parseVersionPrefix(a)
	if !ok {
		return 0, false
	}
	bv, ok := parseVersionPrefix(b)
	if !ok {
		return 0, false
	}

	for i := 0; i < max(len(av), len(bv)); i++ {
		var x, y int
		if i < len(av) {
			x = av[i]
		}
		if i < len(bv) {
			y = bv[i]
		}
		switch {
		case x > y:
			return 1, true
		case x < y:
			return -1, true
		}
	}
	return 0, true
}

// parseVersionPrefix parses the numeric prefix of a version such as 4.20.3
// or 2.44.1-ubuntu. It stops at the first character that is neither a digit
// nor a dot.
func parseVersionPrefix(s string) ([]int, bool) {
	var parts []int
	cur, inNum := 0, false

loop:
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
			inNum = true
			cur = cur*10 + int(c-'0')
		case c == '.':
			if !inNum {
				return nil, false
			}
			parts = append(parts, cur)
			cur, inNum = 0, false
		default:
			break loop
		}
	}

	if inNum {
		parts = append(parts, cur)
	}
	return parts, len(parts) > 0
}
