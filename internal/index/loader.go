package index

import "sync"

// Loader memoizes loading of a persisted index. The expensive directory
// read happens at most once per process; every subsequent Get returns the
// same handle (or the same cached error). The loaded index is read-only,
// so no further synchronization is needed after construction.
type Loader struct {
	dir  string
	once sync.Once
	idx  *Index
	err  error
}

// NewLoader returns a Loader for the given index directory. Nothing is
// read until the first Get.
func NewLoader(dir string) *Loader {
	return &Loader{dir: dir}
}

// Get loads the index on first call and returns the cached result on
// every call after that.
func (l *Loader) Get() (*Index, error) {
	l.once.Do(func() {
		l.idx, l.err = Load(l.dir)
	})
	return l.idx, l.err
}
