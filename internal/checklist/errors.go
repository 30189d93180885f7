package checklist

import "fmt"

// RootNotFoundError is returned when the scan root is missing or not a folder
type RootNotFoundError struct {
	Root string
	Err  error
}

func (e *RootNotFoundError) Error() string {
	return fmt.Sprintf("Folder does not exist: %s", e.Root)
}

func (e *RootNotFoundError) Unwrap() error {
	return e.Err
}
