package main

import (
	"strings"

	"tasklet/internal/config"
	"tasklet/internal/filter"
	"tasklet/internal/task"
)

// configResolver answers `rc.<name>` DOM lookups (spec.md §4.4) against
// the loaded configuration, the one DOM namespace internal/filter can't
// resolve on its own since it has no dependency on internal/config
// (per DESIGN.md's "Global context" split).
type configResolver struct {
	cfg *config.Config
}

func (r *configResolver) ResolveDOM(path string, t *task.Task) (filter.Value, bool) {
	name, ok := strings.CutPrefix(path, "rc.")
	if !ok {
		return filter.Value{}, false
	}
	if _, has := r.cfg.SourceOf(name); !has {
		return filter.Value{}, false
	}
	return filter.Value{Kind: filter.ValString, S: r.cfg.GetString(name, "")}, true
}
