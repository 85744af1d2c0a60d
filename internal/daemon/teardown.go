package daemon

// The teardown stage destroys native windows whose records are gone. A
// record re-added under the same identifier in the same cycle is treated as
// still live; destroying an identifier that never got a native window is a
// safe no-op and emits nothing.

func (s *Synchronizer) despawnWindows() {
	for _, id := range s.store.DrainRemoved() {
		// Guard against a record removed and re-added within one cycle.
		if s.store.Contains(id) {
			continue
		}

		s.logger.Info("closing window", "id", id)
		if s.registry.Destroy(id) {
			s.events.WindowClosed(id)
		}
		s.cacheMu.Lock()
		delete(s.caches, id)
		s.cacheMu.Unlock()
		s.hookMu.Lock()
		delete(s.hooks, id)
		delete(s.hookCaches, id)
		s.hookMu.Unlock()
	}
}
