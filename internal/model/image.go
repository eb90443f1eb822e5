package model

import "time"

// Image is a single catalog entry. JSON field names match the legacy
// db.json document so older admin frontends keep working.
type Image struct {
	// ID is unique across the whole catalog. Local mode generates a
	// timestamp string; remote mode uses the object store's own key,
	// which doubles as the deletion handle.
	ID       string `json:"id"`
	Section  string `json:"section"`
	Category string `json:"category"`
	Filename string `json:"filename"`
	// Path locates the binary payload: a relative path under the uploads
	// root in local mode, a fully-qualified URL in remote mode.
	Path    string `json:"path"`
	Caption string `json:"caption,omitempty"`
	Width   int    `json:"width,omitempty"`
	Height  int    `json:"height,omitempty"`
	// UploadDate orders listings newest-first.
	UploadDate time.Time `json:"uploadDate"`
}

// SectionAll is the wildcard section filter accepted by list operations.
const SectionAll = "all"

// UncategorizedSection is assigned when a remote object key does not
// parse as <root>/<section>/<file>.
const UncategorizedSection = "Uncategorized"
