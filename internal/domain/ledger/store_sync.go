package ledger

// Replace swaps the whole document for the remote copy after a pull wins
// conflict resolution. The locally configured endpoint is preserved and
// lastSync stamped; lastUpdated stays the remote's, so the replacement does
// not masquerade as a local edit, and the change hook deliberately does not
// fire to avoid echoing the pull back as a push.
func (s *Store) Replace(remote Ledger) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.data.Config.Endpoint != "" {
		remote.Config.Endpoint = s.data.Config.Endpoint
	}
	remote.Config.LastSync = s.now().Format("15:04:05")
	if err := s.persist(remote); err != nil {
		return err
	}
	s.data = remote
	return nil
}

// MarkSynced records the time of the last successful push. It neither bumps
// lastUpdated nor fires the change hook.
func (s *Store) MarkSynced() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.data.clone()
	next.Config.LastSync = s.now().Format("15:04:05")
	if err := s.persist(next); err != nil {
		return err
	}
	s.data = next
	return nil
}
