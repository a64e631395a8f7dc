package ports

// BrowserLauncher opens the served UI for the user
type BrowserLauncher interface {
	// Open opens url in the platform browser without waiting for it to exit
	Open(url string) error
	// Detect returns the name of the browser Open would use
	Detect() (string, error)
}
