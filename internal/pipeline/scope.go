package pipeline

// modelScope guarantees loaded models are released on every exit
// path of a run, including failure, so the next run starts from a
// clean resource baseline.
type modelScope struct {
	release []func()
}

// add registers a release function for a loaded model.
func (s *modelScope) add(f func()) {
	s.release = append(s.release, f)
}

// releaseAll runs the registered release functions in reverse order.
// Safe to call more than once.
func (s *modelScope) releaseAll() {
	for i := len(s.release) - 1; i >= 0; i-- {
		s.release[i]()
	}
	s.release = nil
}
