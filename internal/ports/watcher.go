package ports

// Watcher monitors a set of input files and reports when any of them changes.
// Only one Watch call should be active at a time.
type Watcher interface {
	// Watch starts monitoring paths. onChange is called with the path of the
	// changed file once a burst of writes has settled. The callback may be
	// invoked from any goroutine. Returns an error if a path doesn't exist or
	// can't be watched.
	Watch(paths []string, onChange func(path string)) error

	// Stop ends monitoring and releases all resources. After Stop returns,
	// no further onChange calls will fire. Safe to call multiple times.
	Stop() error
}
