package homepage

import (
	"context"
	"fmt"
	"strings"

	"github.com/MrSnakeDoc/nest/internal/backend"
	"github.com/MrSnakeDoc/nest/internal/domain"
	"github.com/MrSnakeDoc/nest/internal/logger"
)

// AccountFinder resolves the user an import is written for.
type AccountFinder interface {
	AccountByEmail(ctx context.Context, email string) (*domain.Account, error)
}

// Result summarizes an import.
type Result struct {
	FoldersCreated    int
	FoldersReused     int
	BookmarksInserted int
	Duplicates        int
}

// Importer writes mapped rows for one user through the owner policy,
// so rows land exactly as if the user had added them from the dashboard.
type Importer struct {
	accounts AccountFinder
	data     backend.Data
	logger   logger.Logger
}

func NewImporter(accounts AccountFinder, data backend.Data, log logger.Logger) *Importer {
	return &Importer{accounts: accounts, data: data, logger: log}
}

// staticSession acts as a signed-in client for a fixed user.
type staticSession struct{ session *domain.Session }

func (s staticSession) Current() *domain.Session { return s.session }

// Import inserts imp for the account of email. Folders whose name already
// exists are reused, bookmarks already present in the same folder with the
// same URL are skipped.
func (i *Importer) Import(ctx context.Context, email string, imp *Import) (Result, error) {
	var res Result

	acc, err := i.accounts.AccountByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return res, fmt.Errorf("lookup account %q: %w", email, err)
	}
	data := backend.WithOwnerPolicy(i.data, staticSession{&domain.Session{User: acc.User}})

	existingFolders, err := data.Folders().Select(ctx, backend.Query{})
	if err != nil {
		return res, fmt.Errorf("list folders: %w", err)
	}
	byName := make(map[string]string, len(existingFolders))
	for _, f := range existingFolders {
		byName[f.Name] = f.ID
	}

	// Map imported folder ids onto the ids actually stored.
	remap := make(map[string]string, len(imp.Folders))
	var folders []domain.Folder
	for _, f := range imp.Folders {
		if id, ok := byName[f.Name]; ok {
			remap[f.ID] = id
			res.FoldersReused++
			continue
		}
		remap[f.ID] = f.ID
		byName[f.Name] = f.ID
		folders = append(folders, f)
	}
	if len(folders) > 0 {
		if err := data.Folders().Insert(ctx, folders...); err != nil {
			return res, fmt.Errorf("insert folders: %w", err)
		}
		res.FoldersCreated = len(folders)
	}

	existing, err := data.Bookmarks().Select(ctx, backend.Query{})
	if err != nil {
		return res, fmt.Errorf("list bookmarks: %w", err)
	}
	seen := make(map[string]bool, len(existing))
	for _, b := range existing {
		seen[dedupKey(b)] = true
	}

	var bookmarks []domain.Bookmark
	for _, b := range imp.Bookmarks {
		if b.FolderID != nil {
			id := remap[*b.FolderID]
			b.FolderID = &id
		}
		key := dedupKey(b)
		if seen[key] {
			res.Duplicates++
			continue
		}
		seen[key] = true
		bookmarks = append(bookmarks, b)
	}
	if len(bookmarks) > 0 {
		if err := data.Bookmarks().Insert(ctx, bookmarks...); err != nil {
			return res, fmt.Errorf("insert bookmarks: %w", err)
		}
		res.BookmarksInserted = len(bookmarks)
	}

	i.logger.Info("homepage import completed",
		logger.String("user_id", acc.ID),
		logger.Int("folders_created", res.FoldersCreated),
		logger.Int("folders_reused", res.FoldersReused),
		logger.Int("bookmarks_inserted", res.BookmarksInserted),
		logger.Int("duplicates", res.Duplicates),
		logger.Int("skipped", imp.Skipped))

	return res, nil
}

func dedupKey(b domain.Bookmark) string {
	folder := ""
	if b.FolderID != nil {
		folder = *b.FolderID
	}
	return folder + "\x00" + b.URL
}
