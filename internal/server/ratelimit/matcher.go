package ratelimit

import (
	"slices"
	"strings"
)

// MatchEndpoint returns the rule for path and method, or nil when the default applies.
// Exact paths win over prefixes; among prefixes the longest wins.
func MatchEndpoint(path, method string, configs []EndpointConfig) *EndpointConfig {
	var best *EndpointConfig
	for i := range configs {
		c := &configs[i]
		if c.Method != method {
			continue
		}
		if c.Path == path {
			return c
		}
		if strings.HasSuffix(c.Path, "/") && strings.HasPrefix(path, c.Path) {
			if best == nil || len(c.Path) > len(best.Path) {
				best = c
			}
		}
	}
	return best
}

// IsUnlimited reports whether path is exempt from limiting.
func IsUnlimited(path string, unlimited []string) bool {
	return slices.Contains(unlimited, path)
}
