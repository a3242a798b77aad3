package homepage

import (
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MrSnakeDoc/nest/internal/domain"
)

// ErrEmptyImport is returned when a file holds no usable entry.
var ErrEmptyImport = errors.New("no valid bookmarks found in homepage config")

// Import is a set of rows ready to be inserted for one user.
// Bookmark folder ids reference Folders by id.
type Import struct {
	Folders   []domain.Folder
	Bookmarks []domain.Bookmark
	Skipped   int
}

// Mapper converts Homepage groups to folders and entries to bookmarks
type Mapper struct {
	now func() time.Time
}

// NewMapper creates a new mapper instance
func NewMapper() *Mapper {
	return &Mapper{now: time.Now}
}

// MapBookmarks converts bookmarks.yaml. Categories become folders and
// entry names become titles.
func (m *Mapper) MapBookmarks(config BookmarksConfig) (*Import, error) {
	b := m.newBuilder()
	for _, category := range config {
		for _, name := range sortedKeys(category) {
			folderID := b.folder(name)
			for _, bookmarkMap := range category[name] {
				for _, title := range sortedKeys(bookmarkMap) {
					entries := bookmarkMap[title]
					if len(entries) == 0 {
						b.imp.Skipped++
						continue
					}
					b.bookmark(folderID, title, entries[0].Href)
				}
			}
		}
	}
	return b.done()
}

// MapServices converts services.yaml. Groups become folders, service names
// become titles.
func (m *Mapper) MapServices(config ServicesConfig) (*Import, error) {
	b := m.newBuilder()
	for _, groupMap := range config {
		for _, group := range sortedKeys(groupMap) {
			folderID := b.folder(group)
			for _, serviceMap := range groupMap[group] {
				for _, name := range sortedKeys(serviceMap) {
					b.bookmark(folderID, name, serviceMap[name].Href)
				}
			}
		}
	}
	return b.done()
}

// builder stamps rows with increasing creation times so the file order
// survives the store ordering.
type builder struct {
	imp     Import
	base    time.Time
	seq     int
	folders map[string]string // name -> id
}

func (m *Mapper) newBuilder() *builder {
	return &builder{base: m.now().UTC(), folders: make(map[string]string)}
}

func (b *builder) next() time.Time {
	b.seq++
	return b.base.Add(time.Duration(b.seq) * time.Microsecond)
}

// folder returns the id of the folder named name, creating it once.
func (b *builder) folder(name string) *string {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}
	if id, ok := b.folders[name]; ok {
		return &id
	}
	id := uuid.NewString()
	b.folders[name] = id
	b.imp.Folders = append(b.imp.Folders, domain.Folder{
		ID:        id,
		Name:      name,
		CreatedAt: b.next(),
	})
	return &id
}

func (b *builder) bookmark(folderID *string, title, href string) {
	href = strings.TrimSpace(href)
	if href == "" {
		b.imp.Skipped++
		return
	}
	// Hrefs without a host are skipped even when a title is given.
	fallback, err := domain.DefaultTitle(href)
	if err != nil {
		b.imp.Skipped++
		return
	}
	if title = strings.TrimSpace(title); title == "" {
		title = fallback
	}

	var folder *string
	if folderID != nil {
		id := *folderID
		folder = &id
	}
	b.imp.Bookmarks = append(b.imp.Bookmarks, domain.Bookmark{
		Title:     title,
		URL:       href,
		FolderID:  folder,
		CreatedAt: b.next(),
	})
}

func (b *builder) done() (*Import, error) {
	if len(b.imp.Bookmarks) == 0 {
		return nil, ErrEmptyImport
	}
	// Folders left without a bookmark are dropped.
	used := make(map[string]bool)
	for _, bm := range b.imp.Bookmarks {
		if bm.FolderID != nil {
			used[*bm.FolderID] = true
		}
	}
	folders := b.imp.Folders[:0]
	for _, f := range b.imp.Folders {
		if used[f.ID] {
			folders = append(folders, f)
		}
	}
	b.imp.Folders = folders
	return &b.imp, nil
}

func sortedKeys[M ~map[string]V, V any](m M) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
