package heap

// Config controls heap sizing.
type Config struct {
	// InitSize is the size of the first region and the floor for every
	// expansion region. Mapping in large regions is what amortizes the cost of
	// the map and unmap system calls.
	InitSize uintptr
}

// DefaultConfig mirrors the reference sizing: 16 MiB regions.
var DefaultConfig = Config{
	InitSize: 16 << 20,
}
