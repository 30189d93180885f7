// Package checklist scans a folder for STL files and assembles the printable
// checklist report with one rendered preview per file.
package checklist

import (
	"encoding/json"
	"io"
)

// Status describes how far a file got through the preview pipeline
type Status string

const (
	StatusOK     Status = "ok"
	StatusEmpty  Status = "empty"  // parsed, but holds no triangles
	StatusFailed Status = "failed" // unreadable, corrupt or not renderable
)

// Item is one discovered mesh file. Preview is empty when rendering failed.
type Item struct {
	ID            string `json:"id"`
	Filename      string `json:"filename"`
	Path          string `json:"path"`
	Preview       string `json:"preview"`
	Status        Status `json:"status"`
	TriangleCount int    `json:"triangle_count"`
	Detail        string `json:"detail,omitempty"`
}

// Report is the result of one scan. Error is set only when the root folder
// could not be scanned at all, in which case Items is empty.
type Report struct {
	FolderName string `json:"folder_name"`
	Items      []Item `json:"items"`
	FileCount  int    `json:"file_count"`
	Error      string `json:"error,omitempty"`
}

// Failed returns the number of items without a preview
func (r *Report) Failed() int {
	n := 0
	for _, item := range r.Items {
		if item.Preview == "" {
			n++
		}
	}
	return n
}

// JSON returns the report in its wire form
func (r *Report) JSON() ([]byte, error) {
	return json.Marshal(r)
}

// WriteJSON writes the indented report followed by a newline
func (r *Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}
