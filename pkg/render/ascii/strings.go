package ascii

// longestCommonPrefix returns the longest prefix shared by every string in
// items. Returns "" for an empty slice.
func longestCommonPrefix(items []string) string {
	if len(items) == 0 {
		return ""
	}
	prefix := items[0]
	for _, item := range items[1:] {
		n := 0
		for n < len(prefix) && n < len(item) && prefix[n] == item[n] {
			n++
		}
		prefix = prefix[:n]
		if prefix == "" {
			break
		}
	}
	return prefix
}

// longestCommonSuffix returns the longest suffix shared by every string in
// items. Returns "" for an empty slice.
func longestCommonSuffix(items []string) string {
	if len(items) == 0 {
		return ""
	}
	n := 0
	first := items[0]
scan:
	for n < len(first) {
		c := first[len(first)-1-n]
		for _, item := range items[1:] {
			if n >= len(item) || item[len(item)-1-n] != c {
				break scan
			}
		}
		n++
	}
	return first[len(first)-n:]
}
