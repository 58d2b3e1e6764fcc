package api

import (
	"quicktransfer/internal/filetype"
)

// Entry is one item of a directory listing.
type Entry struct {
	Name     string        `json:"name"`
	Type     filetype.Type `json:"type"`
	Size     *int64        `json:"size"`     // nil for directories
	Modified float64       `json:"modified"` // unix seconds
}

// IsDir reports whether the entry is a directory.
func (e Entry) IsDir() bool {
	return e.Type == filetype.Dir
}

// Listing is the body of GET /api/list.
type Listing struct {
	Path  string  `json:"path"`
	Items []Entry `json:"items"`
}

// UploadResult is the body of a successful POST /upload.
type UploadResult struct {
	Success bool     `json:"success"`
	Saved   []string `json:"saved"`
}

// DeleteResult is the body of a successful POST /delete/<path>.
type DeleteResult struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// ErrorBody is the JSON error payload the upload endpoint uses.
type ErrorBody struct {
	Error string `json:"error"`
}

// UploadField is the repeatable multipart field carrying files.
const UploadField = "files"

// UploadPathField optionally names the destination directory.
const UploadPathField = "path"

// JoinPath joins a directory path and a name the way the server expects:
// the root is the empty string and segments are separated by "/".
func JoinPath(dir, name string) string {
	if dir == "" {
		return name
	}
	return dir + "/" + name
}

// ParentPath returns the directory containing p, "" at the top level.
func ParentPath(p string) string {
	for i := len(p) - 1; i >= 0; i-- {
		if p[i] == '/' {
			return p[:i]
		}
	}
	return ""
}
