package storage

import (
	"errors"
	"testing"

	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
)

func TestPostgresDuplicateDetection(t *testing.T) {
	t.Parallel()

	unique := &pq.Error{Code: "23505"}
	if !isPostgresDuplicate(unique) {
		t.Error("unique violation not recognized")
	}
	if !isPostgresDuplicate(errors.Join(errors.New("insert article"), unique)) {
		t.Error("wrapped unique violation not recognized")
	}
	if isPostgresDuplicate(&pq.Error{Code: "23503"}) {
		t.Error("foreign-key violation must not count as duplicate")
	}
	if isPostgresDuplicate(errors.New("connection reset")) {
		t.Error("plain error must not count as duplicate")
	}
}

func TestSQLiteDuplicateDetection(t *testing.T) {
	t.Parallel()

	unique := sqlite3.Error{
		Code:         sqlite3.ErrConstraint,
		ExtendedCode: sqlite3.ErrConstraintUnique,
	}
	if !isSQLiteDuplicate(unique) {
		t.Error("unique constraint not recognized")
	}

	pk := sqlite3.Error{
		Code:         sqlite3.ErrConstraint,
		ExtendedCode: sqlite3.ErrConstraintPrimaryKey,
	}
	if !isSQLiteDuplicate(pk) {
		t.Error("primary-key constraint not recognized")
	}

	notNull := sqlite3.Error{
		Code:         sqlite3.ErrConstraint,
		ExtendedCode: sqlite3.ErrConstraintNotNull,
	}
	if isSQLiteDuplicate(notNull) {
		t.Error("not-null violation must not count as duplicate")
	}
	if isSQLiteDuplicate(errors.New("database is locked")) {
		t.Error("plain error must not count as duplicate")
	}
}

func TestPlaceholderFormatsPerDriver(t *testing.T) {
	t.Parallel()

	pg := NewPostgresRepository(nil)
	query, args, err := pg.sb.Select("id").From("feeds").Where("url = ?", "u").ToSql()
	if err != nil {
		t.Fatal(err)
	}
	if query != "SELECT id FROM feeds WHERE url = $1" {
		t.Errorf("postgres query = %q", query)
	}
	if len(args) != 1 || args[0] != "u" {
		t.Errorf("postgres args = %v", args)
	}

	lite := NewSQLiteRepository(nil)
	query, _, err = lite.sb.Select("id").From("feeds").Where("url = ?", "u").ToSql()
	if err != nil {
		t.Fatal(err)
	}
	if query != "SELECT id FROM feeds WHERE url = ?" {
		t.Errorf("sqlite query = %q", query)
	}
}
