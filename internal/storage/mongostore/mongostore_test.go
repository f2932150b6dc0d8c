package mongostore

import (
	"context"
	"errors"
	"os"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"tasklist/internal/service"
	"tasklist/internal/storage"
)

func TestSetFields(t *testing.T) {
	if len(setFields(service.TaskUpdate{})) != 0 {
		t.Error("empty update should set nothing")
	}

	text, done := "x", true
	got := setFields(service.TaskUpdate{Text: &text, Completed: &done})
	want := bson.D{{Key: "text", Value: "x"}, {Key: "completed", Value: true}}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("field %d: expected %v, got %v", i, want[i], got[i])
		}
	}
}

func TestDocumentTask(t *testing.T) {
	oid := primitive.NewObjectID()
	got := document{ID: oid, Text: "Buy milk", Completed: true}.task()
	if got.ID != oid.Hex() || got.Text != "Buy milk" || !got.Completed {
		t.Errorf("unexpected task %+v", got)
	}
}

func TestDocumentBSONUsesUnderscoreID(t *testing.T) {
	data, err := bson.Marshal(document{ID: primitive.NewObjectID(), Text: "x"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var raw bson.M
	if err := bson.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, key := range []string{"_id", "text", "completed"} {
		if _, ok := raw[key]; !ok {
			t.Errorf("missing key %s in %v", key, raw)
		}
	}
}

func TestBadHexIsNotFound(t *testing.T) {
	s := &Store{}
	if _, err := s.Update(context.Background(), "not-hex", service.SetText("x")); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if err := s.Delete(context.Background(), "not-hex"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

// TestMongo_CRUD runs against a live server when TASKLIST_TEST_MONGO_URI is set.
func TestMongo_CRUD(t *testing.T) {
	uri := os.Getenv("TASKLIST_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("TASKLIST_TEST_MONGO_URI not set")
	}
	ctx := context.Background()
	s, err := Open(ctx, uri, "tasklist_test_"+primitive.NewObjectID().Hex())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() {
		_ = s.coll.Database().Drop(context.Background())
		_ = s.Close()
	})

	a, err := s.Create(ctx, "Buy milk")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	got, err := s.Update(ctx, a.ID, service.SetCompleted(true))
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.Text != "Buy milk" || !got.Completed {
		t.Errorf("unexpected update %+v", got)
	}
	if err := s.Delete(ctx, a.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := s.Delete(ctx, a.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
	tasks, err := s.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(tasks) != 0 {
		t.Errorf("expected empty list, got %+v", tasks)
	}
}
