package main

import (
	"tasklet/internal/env"
	"tasklet/internal/filter"
	"tasklet/internal/storage"
)

// dispatchFunc handles one command after the filter has been compiled and
// the session loaded: expr is the compiled filter (always-true when the
// command takes no filter), args is whatever followed the command word
// (modifications, annotation text, an import file path, ...).
type dispatchFunc func(e *env.Env, sess *storage.Session, expr *filter.Expression, args []string) error

// dispatch maps every command name from spec.md §6.2 to its handler.
// Populated by init() in commands_mutate.go and commands_read.go so each
// file owns registration for the commands it implements.
var dispatch = map[string]dispatchFunc{}
