package ratelimit

import "strings"

// Match returns the first rule matching method and path, or nil.
func Match(method, path string, rules []Rule) *Rule {
	for i := range rules {
		r := &rules[i]
		if r.Method != "" && r.Method != method {
			continue
		}
		if !matchPrefix(r.Prefix, path) {
			continue
		}
		if r.Suffix != "" && !strings.HasSuffix(path, r.Suffix) {
			continue
		}
		return r
	}
	return nil
}

func matchPrefix(prefix, path string) bool {
	if strings.HasSuffix(prefix, "/") {
		return len(path) > len(prefix) && strings.HasPrefix(path, prefix)
	}
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}
