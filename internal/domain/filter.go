package domain

import "strings"

// FolderCount pairs a folder with the number of bookmarks filed under it.
type FolderCount struct {
	Folder Folder
	Count  int
}

// Visible returns the bookmarks matching the active folder selection
// (nil = all) and the search text, in their original order.
// A bookmark pointing at a deleted folder only shows up under "all".
func Visible(bookmarks []Bookmark, selected *string, search string) []Bookmark {
	needle := strings.ToLower(search)
	out := make([]Bookmark, 0, len(bookmarks))
	for _, b := range bookmarks {
		if selected != nil && !b.InFolder(*selected) {
			continue
		}
		if !strings.Contains(strings.ToLower(b.Title), needle) {
			continue
		}
		out = append(out, b)
	}
	return out
}

// CountByFolder counts bookmarks per folder over the unfiltered list.
// The result follows the order of folders.
func CountByFolder(folders []Folder, bookmarks []Bookmark) []FolderCount {
	counts := make(map[string]int, len(folders))
	for _, b := range bookmarks {
		if b.FolderID != nil {
			counts[*b.FolderID]++
		}
	}

	out := make([]FolderCount, 0, len(folders))
	for _, f := range folders {
		out = append(out, FolderCount{Folder: f, Count: counts[f.ID]})
	}
	return out
}

// HasFolder reports whether id names one of folders.
func HasFolder(folders []Folder, id string) bool {
	for _, f := range folders {
		if f.ID == id {
			return true
		}
	}
	return false
}
