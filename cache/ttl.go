package cache

import (
	"strings"
	"time"
)

// NamespacePolicy binds a literal key prefix to a TTL
type NamespacePolicy struct {
	// Prefix is the literal key prefix, e.g. "course:"
	Prefix string `mapstructure:"prefix"`
	// TTL applies to every key under the prefix
	TTL time.Duration `mapstructure:"ttl"`
}

// TTLResolver matches keys against an ordered list of namespace policies.
// Resolution is first match wins. It is pure and safe for concurrent use.
type TTLResolver struct {
	policies []NamespacePolicy
}

// NewTTLResolver creates a resolver over the given policies, in order
func NewTTLResolver(policies []NamespacePolicy) *TTLResolver {
	return &TTLResolver{policies: policies}
}

// Resolve returns the TTL of the first policy whose prefix matches key
// The second return value is false when no policy matches
func (r *TTLResolver) Resolve(key string) (time.Duration, bool) {
	for _, p := range r.policies {
		if strings.HasPrefix(key, p.Prefix) {
			return p.TTL, true
		}
	}
	return 0, false
}

// PlatformPolicies returns the namespace policies used by the platform's
// content and progress caches. Course content is comparatively static and
// cached long; per-user progress changes constantly and is cached briefly.
func PlatformPolicies() []NamespacePolicy {
	return []NamespacePolicy{
		{Prefix: "packaged_course:", TTL: time.Hour},
		{Prefix: "course:", TTL: 30 * time.Minute},
		{Prefix: "lesson:", TTL: 30 * time.Minute},
		{Prefix: "user_progress:", TTL: 2 * time.Minute},
		{Prefix: "health:", TTL: 30 * time.Second},
	}
}
