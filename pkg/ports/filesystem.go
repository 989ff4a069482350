package ports

// FileSystem abstracts file system operations.
type FileSystem interface {
	// ReadFile reads the entire contents of a file.
	ReadFile(path string) ([]byte, error)

	// WriteFile writes data to a file, creating or overwriting it.
	WriteFile(path string, data []byte) error

	// MkdirAll creates a directory and all parent directories.
	MkdirAll(path string) error

	// Exists checks if a file or directory exists.
	Exists(path string) (bool, error)

	// Remove deletes a file or empty directory.
	Remove(path string) error

	// Rename moves a file to a new path.
	Rename(oldPath, newPath string) error

	// TempFile creates an empty temporary file and returns its path.
	// The pattern follows os.CreateTemp conventions.
	TempFile(pattern string) (string, error)

	// Size returns the size of a file in bytes.
	Size(path string) (int64, error)
}
