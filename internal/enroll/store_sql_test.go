package enroll

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/claritas-learn/claritas-backend/internal/db"
)

func openTestStore(t *testing.T) *SQLStore {
	t.Helper()
	dsn := "file:" + filepath.Join(t.TempDir(), "test.db")
	dbh, err := db.Open(context.Background(), db.DriverSQLite, dsn)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { dbh.Close() })
	return NewSQLStore(dbh)
}

func TestSQLStoreInsertAndGet(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	in := Enrollment{AuthID: "u1", CourseID: "c1", CourseTitle: "Biology", SkillLevel: "beginner"}
	created, err := store.Insert(ctx, in)
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if created.ID == "" || created.EnrolledAt == 0 {
		t.Fatalf("identity not filled: %+v", created)
	}

	got, err := store.Get(ctx, "u1", "c1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.CourseTitle != "Biology" || len(got.CompletedTopics) != 0 {
		t.Fatalf("round trip: %+v", got)
	}
}

func TestSQLStoreDuplicateInsert(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	if _, err := store.Insert(ctx, Enrollment{AuthID: "u1", CourseID: "c1", CourseTitle: "x"}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	_, err := store.Insert(ctx, Enrollment{AuthID: "u1", CourseID: "c1", CourseTitle: "x"})
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}

func TestSQLStoreGetMissing(t *testing.T) {
	store := openTestStore(t)
	if _, err := store.Get(context.Background(), "u1", "c1"); !errors.Is(err, ErrNotEnrolled) {
		t.Fatalf("expected ErrNotEnrolled, got %v", err)
	}
}

func TestSQLStoreUpdateProgress(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	if _, err := store.Insert(ctx, Enrollment{AuthID: "u1", CourseID: "c1", CourseTitle: "x"}); err != nil {
		t.Fatalf("insert: %v", err)
	}

	got, err := store.UpdateProgress(ctx, "u1", "c1", []string{"1-0", "1-1"}, "1-1", true)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !got.IsCompleted || got.LastVisited != "1-1" || len(got.CompletedTopics) != 2 {
		t.Fatalf("update round trip: %+v", got)
	}
}

func TestSQLStoreUpdateProgressMissing(t *testing.T) {
	store := openTestStore(t)
	_, err := store.UpdateProgress(context.Background(), "u1", "c1", nil, "", false)
	if !errors.Is(err, ErrNotEnrolled) {
		t.Fatalf("expected ErrNotEnrolled, got %v", err)
	}
}
