package store

// ErrorCompletionItems unions the error-completion set across h and every
// handle listed directly in h.ImportsUsed; the imports of those handles are
// not included (spec §4.8
// tagStoreCompletionItems, §9 "Completion union" design note: a
// well-typed accessor rather than a name-keyed lookup).
func (s *Store) ErrorCompletionItems(h *Handle) []CompletionItem {
	return s.unionCompletions(h, Scope.ErrorCompletions)
}

// EnumCompletionItems is ErrorCompletionItems' counterpart for the
// enum-completion set.
func (s *Store) EnumCompletionItems(h *Handle) []CompletionItem {
	return s.unionCompletions(h, Scope.EnumCompletions)
}

func (s *Store) unionCompletions(h *Handle, pick func(Scope) []CompletionItem) []CompletionItem {
	seen := make(map[string]bool)
	var out []CompletionItem

	add := func(items []CompletionItem) {
		for _, it := range items {
			if seen[it.Label] {
				continue
			}
			seen[it.Label] = true
			out = append(out, it)
		}
	}

	if h.Scope != nil {
		add(pick(h.Scope))
	}
	for _, uri := range h.ImportsUsed {
		// Every URI in ImportsUsed is guaranteed resolvable in the
		// registry (spec §4.8 invariant); the ok-check here is
		// defensive, not load-bearing.
		target, ok := s.handles[uri]
		if !ok || target.Scope == nil {
			continue
		}
		add(pick(target.Scope))
	}
	return out
}
