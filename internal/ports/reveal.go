package ports

// Revealer shows files in the desktop's file manager or default app
type Revealer interface {
	// Reveal opens the folder containing path
	Reveal(path string) error
	// OpenDefault opens path with the system default application
	OpenDefault(path string) error
}
