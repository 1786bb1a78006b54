package sync

// ConflictResolver decides whether a pulled remote document may replace the
// local ledger. Implementations see only the two lastUpdated timestamps;
// isolating the policy here keeps the coordinator loop ignorant of it, so a
// field-level merge could slot in later without touching the scheduling.
type ConflictResolver interface {
	RemoteWins(localUpdated, remoteUpdated int64, forced bool) bool
}

// LastWriteWins is the shipped policy: the newer timestamp overwrites the
// other wholesale, ties go to the remote, and a forced pull always wins.
// Concurrent edits from two clients mean one client's ledger silently
// replaces the other's; that limitation is accepted.
type LastWriteWins struct{}

func (LastWriteWins) RemoteWins(localUpdated, remoteUpdated int64, forced bool) bool {
	if forced {
		return true
	}
	return remoteUpdated >= localUpdated
}
