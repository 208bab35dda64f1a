//go:build !linux && !darwin

package fileops

// Usage is only implemented on Linux and macOS.
func Usage(string) (Storage, error) {
	return Storage{}, ErrUsageUnavailable
}
