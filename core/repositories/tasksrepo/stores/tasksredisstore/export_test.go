package tasksredisstore

// SetOnWatched installs fn to run inside every watched update, after the
// read and before the transaction commits.
func SetOnWatched(s *Store, fn func()) {
	s.onWatched = fn
}

const MaxUpdateAttempts = maxUpdateAttempts
