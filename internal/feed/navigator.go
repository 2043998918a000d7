package feed

// NextIndex picks the item to move to after from. The next unanswered
// challenge ahead wins, even when plain videos sit in between; otherwise
// the following item. ok is false at the end of the playlist.
func NextIndex(pl *Playlist, attempts map[int]*Attempt, from int) (int, bool) {
	for i := from + 1; i < pl.Len(); i++ {
		if !pl.At(i).IsChallenge() {
			continue
		}
		if a := attempts[i]; a == nil || a.Status == StatusUnanswered {
			return i, true
		}
	}
	if from+1 < pl.Len() {
		return from + 1, true
	}
	return from, false
}

// ReplayTarget returns the item replayed after a failed challenge: the
// nearest video before it, or the challenge itself when there is none.
func ReplayTarget(pl *Playlist, challenge int) int {
	for i := challenge - 1; i >= 0; i-- {
		if it := pl.At(i); it != nil && !it.IsChallenge() {
			return i
		}
	}
	return challenge
}
