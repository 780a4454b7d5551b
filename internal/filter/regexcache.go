package filter

import (
	"regexp"

	lru "github.com/hashicorp/golang-lru/v2"
)

// regexCache memoizes compiled /pattern/ and ~/!~ regex operands across
// every task evaluated in one filter pass — regex compilation is the one
// hot path in this engine that benefits from caching within a single
// invocation (DESIGN.md). Backed by the teacher's own
// github.com/hashicorp/golang-lru/v2 dependency.
type regexCache struct {
	cache *lru.Cache[string, *regexp.Regexp]
}

// newRegexCache returns a cache sized for the handful of distinct regex
// operands a single filter expression can contain.
func newRegexCache() *regexCache {
	c, _ := lru.New[string, *regexp.Regexp](64)
	return &regexCache{cache: c}
}

func (rc *regexCache) get(pattern string) (*regexp.Regexp, error) {
	if re, ok := rc.cache.Get(pattern); ok {
		return re, nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	rc.cache.Add(pattern, re)
	return re, nil
}
