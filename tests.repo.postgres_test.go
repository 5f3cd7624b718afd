package main

import (
	"testing"

	"github.com/doug-martin/goqu/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildInsertBookSQL(t *testing.T) {
	sql, params, err := buildInsertBookSQL(goqu.Dialect("postgres"), BookDraft{Title: "T", Author: "A", Year: 2001, IsRead: true})
	require.NoError(t, err)
	assert.Empty(t, params)
	assert.Equal(t,
		`INSERT INTO "book" ("author", "is_read", "title", "year") VALUES ('A', TRUE, 'T', 2001) RETURNING "id", "title", "author", "year", "is_read"`,
		sql)
}

func TestBuildUpdateBookSQL(t *testing.T) {
	g := goqu.Dialect("postgres")

	t.Run("only provided columns", func(t *testing.T) {
		isRead := false
		sql, _, err := buildUpdateBookSQL(g, 3, BookChanges{IsRead: &isRead})
		require.NoError(t, err)
		assert.Equal(t,
			`UPDATE "book" SET "is_read"=FALSE WHERE ("id" = 3) RETURNING "id", "title", "author", "year", "is_read"`,
			sql)
	})

	t.Run("several columns", func(t *testing.T) {
		title, year := "New", 1999
		sql, _, err := buildUpdateBookSQL(g, 7, BookChanges{Title: &title, Year: &year})
		require.NoError(t, err)
		assert.Contains(t, sql, `"title"='New'`)
		assert.Contains(t, sql, `"year"=1999`)
		assert.NotContains(t, sql, `"author"`+"=")
		assert.Contains(t, sql, `WHERE ("id" = 7)`)
	})
}

func TestPgxBook_IntoBook(t *testing.T) {
	row := pgxBook{ID: 1, Title: "T", Author: "A", Year: 2000, IsRead: true}
	assert.Equal(t, Book{ID: 1, Title: "T", Author: "A", Year: 2000, IsRead: true}, row.intoBook())
}
