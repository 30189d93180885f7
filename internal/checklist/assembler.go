package checklist

import (
	"path/filepath"
)

// Assemble folds scan results into a report. A scan error yields a report
// that carries only the error.
func Assemble(root string, items []Item, scanErr error) *Report {
	if scanErr != nil {
		return &Report{
			Items: []Item{},
			Error: scanErr.Error(),
		}
	}

	if items == nil {
		items = []Item{}
	}

	return &Report{
		FolderName: FolderName(root),
		Items:      items,
		FileCount:  len(items),
	}
}

// FolderName returns the final path component of root
func FolderName(root string) string {
	if abs, err := filepath.Abs(root); err == nil {
		root = abs
	}
	return filepath.Base(filepath.Clean(root))
}

// Generate scans root and assembles the report
func Generate(root string, s *Scanner) *Report {
	items, err := s.Scan(root)
	return Assemble(root, items, err)
}
