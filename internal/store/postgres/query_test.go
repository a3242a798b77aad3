package postgres

import (
	"errors"
	"reflect"
	"testing"

	"github.com/MrSnakeDoc/nest/internal/backend"
)

func TestSelectSQL(t *testing.T) {
	tests := []struct {
		name     string
		table    table
		query    backend.Query
		wantSQL  string
		wantArgs []any
	}{
		{
			name:    "no filters",
			table:   foldersTable,
			query:   backend.Query{},
			wantSQL: "SELECT id, user_id, name, created_at FROM folders",
		},
		{
			name:     "owner newest first",
			table:    bookmarksTable,
			query:    backend.Query{}.Where(backend.Eq("user_id", "u1")).OrderBy("created_at", true),
			wantSQL:  "SELECT id, user_id, title, url, folder_id, created_at FROM bookmarks WHERE user_id = $1 ORDER BY created_at DESC, id DESC",
			wantArgs: []any{"u1"},
		},
		{
			name:     "folders by name",
			table:    foldersTable,
			query:    backend.Query{}.Where(backend.Eq("user_id", "u1")).OrderBy("name", false),
			wantSQL:  "SELECT id, user_id, name, created_at FROM folders WHERE user_id = $1 ORDER BY name ASC, id ASC",
			wantArgs: []any{"u1"},
		},
		{
			name:     "unfiled",
			table:    bookmarksTable,
			query:    backend.Query{}.Where(backend.Eq("user_id", "u1")).Where(backend.Eq("folder_id", "")),
			wantSQL:  "SELECT id, user_id, title, url, folder_id, created_at FROM bookmarks WHERE user_id = $1 AND folder_id IS NULL",
			wantArgs: []any{"u1"},
		},
		{
			name:     "folder and id",
			table:    bookmarksTable,
			query:    backend.Query{}.Where(backend.Eq("folder_id", "f1")).Where(backend.Eq("id", "b1")),
			wantSQL:  "SELECT id, user_id, title, url, folder_id, created_at FROM bookmarks WHERE folder_id = $1 AND id = $2",
			wantArgs: []any{"f1", "b1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, args, err := tt.table.selectSQL(tt.query)
			if err != nil {
				t.Fatalf("selectSQL() error = %v", err)
			}
			if sql != tt.wantSQL {
				t.Errorf("selectSQL() sql\n got: %s\nwant: %s", sql, tt.wantSQL)
			}
			if !reflect.DeepEqual(args, tt.wantArgs) {
				t.Errorf("selectSQL() args = %v, want %v", args, tt.wantArgs)
			}
		})
	}
}

func TestSelectSQLRejectsUnknownColumns(t *testing.T) {
	queries := []backend.Query{
		backend.Query{}.Where(backend.Eq("title; DROP TABLE bookmarks", "x")),
		backend.Query{}.OrderBy("url", false),
		backend.Query{}.Where(backend.Eq("created_at", "2025-01-01T00:00:00Z")),
	}
	for _, q := range queries {
		if _, _, err := bookmarksTable.selectSQL(q); !errors.Is(err, backend.ErrUnsupportedFilter) {
			t.Errorf("selectSQL(%+v) error = %v, want ErrUnsupportedFilter", q, err)
		}
	}

	// folder_id is a bookmark column only.
	if _, _, err := foldersTable.selectSQL(backend.Query{}.Where(backend.Eq("folder_id", "f"))); !errors.Is(err, backend.ErrUnsupportedFilter) {
		t.Errorf("folders selectSQL(folder_id) error = %v, want ErrUnsupportedFilter", err)
	}
}

func TestDeleteSQL(t *testing.T) {
	sql, args, err := foldersTable.deleteSQL([]backend.Filter{
		backend.Eq("id", "f1"),
		backend.Eq("user_id", "u1"),
	})
	if err != nil {
		t.Fatalf("deleteSQL() error = %v", err)
	}
	if want := "DELETE FROM folders WHERE id = $1 AND user_id = $2"; sql != want {
		t.Errorf("deleteSQL() = %s, want %s", sql, want)
	}
	if !reflect.DeepEqual(args, []any{"f1", "u1"}) {
		t.Errorf("deleteSQL() args = %v", args)
	}

	if _, _, err := foldersTable.deleteSQL(nil); !errors.Is(err, backend.ErrNoFilter) {
		t.Errorf("deleteSQL(nil) error = %v, want ErrNoFilter", err)
	}
}

func TestInsertSQL(t *testing.T) {
	sql, args := foldersTable.insertSQL([][]any{
		{"f1", "u1", "Work", "t1"},
		{"f2", "u1", "Home", "t2"},
	})
	want := "INSERT INTO folders (id, user_id, name, created_at) VALUES ($1, $2, $3, $4), ($5, $6, $7, $8)"
	if sql != want {
		t.Errorf("insertSQL()\n got: %s\nwant: %s", sql, want)
	}
	if len(args) != 8 || args[4] != "f2" {
		t.Errorf("insertSQL() args = %v", args)
	}
}
