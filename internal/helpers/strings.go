package helpers

import "strings"

// SplitList turns a comma separated setting into its distinct non-empty
// entries, keeping their first-seen order.
func SplitList(s string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, p := range strings.Split(s, ",") {
		t := strings.TrimSpace(p)
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
