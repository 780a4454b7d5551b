package config

import "strings"

// ExtractOverrides scans args for `rc.<name>=<value>` tokens, applies each
// to c's SourceOverride layer, and returns the remaining args in order.
// cmd/tasklet calls this before filter compilation so overrides take
// effect for the whole invocation regardless of where on the command line
// they appear.
func ExtractOverrides(c *Config, args []string) []string {
	remainder := make([]string, 0, len(args))
	for _, arg := range args {
		rest, ok := strings.CutPrefix(arg, "rc.")
		if !ok {
			remainder = append(remainder, arg)
			continue
		}
		eq := strings.IndexByte(rest, '=')
		if eq < 0 {
			remainder = append(remainder, arg)
			continue
		}
		key := rest[:eq]
		value := rest[eq+1:]
		c.SetOverride(key, value)
	}
	return remainder
}
