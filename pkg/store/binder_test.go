package store_test

import (
	"context"
	"errors"
	"testing"

	formstate "github.com/goliatone/go-formstate"
	"github.com/goliatone/go-formstate/pkg/store"
)

func TestBinderLoadsBaselineAndSavesCommits(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	ref := store.Ref{Form: "profile", Scope: store.ScopeUser, ID: "u1"}
	if _, err := s.Save(ctx, ref, formstate.Record{"name": "Ada"}, store.Meta{}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	binder := store.NewBinder(s, ref)
	form := formstate.New(formstate.WithUpdateCallback(binder.Callback(ctx)))
	ok, err := binder.Load(ctx, form)
	if err != nil || !ok {
		t.Fatalf("load: ok=%t err=%v", ok, err)
	}
	if form.FieldInputValue("name") != "Ada" {
		t.Fatalf("expected baseline loaded, got %q", form.FieldInputValue("name"))
	}
	loadedTag := binder.Meta().ETag

	if err := form.UpdateFieldValue("name", "Grace"); err != nil {
		t.Fatalf("update: %v", err)
	}
	if err := form.BlurField("name"); err != nil {
		t.Fatalf("blur: %v", err)
	}

	stored, meta, _, _ := s.Load(ctx, ref)
	if stored["name"] != "Grace" {
		t.Fatalf("expected committed record saved, got %v", stored)
	}
	if meta.ETag == loadedTag || binder.Meta().ETag != meta.ETag {
		t.Fatalf("expected binder to track the new etag")
	}
}

func TestBinderLoadMissingRecord(t *testing.T) {
	binder := store.NewBinder(store.NewMemoryStore(), store.Ref{Form: "empty"})
	form := formstate.New()
	ok, err := binder.Load(context.Background(), form)
	if err != nil || ok {
		t.Fatalf("expected nothing loaded, got ok=%t err=%v", ok, err)
	}
	if form.OrigData() != nil {
		t.Fatalf("expected form untouched")
	}
}

func TestBinderReportsConflicts(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	ref := store.Ref{Form: "profile"}
	if _, err := s.Save(ctx, ref, formstate.Record{"name": "Ada"}, store.Meta{}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	var failures []error
	binder := store.NewBinder(s, ref)
	binder.OnError = func(err error) { failures = append(failures, err) }
	form := formstate.New(formstate.WithUpdateCallback(binder.Callback(ctx)))
	if _, err := binder.Load(ctx, form); err != nil {
		t.Fatalf("load: %v", err)
	}

	other := store.NewBinder(s, ref)
	if _, err := other.Load(ctx, formstate.New()); err != nil {
		t.Fatalf("other load: %v", err)
	}
	if _, err := other.Save(ctx, formstate.Record{"name": "Linus"}); err != nil {
		t.Fatalf("other save: %v", err)
	}

	if err := form.UpdateFieldValue("name", "Grace"); err != nil {
		t.Fatalf("update: %v", err)
	}
	if err := form.BlurField("name"); err != nil {
		t.Fatalf("blur: %v", err)
	}
	if len(failures) != 1 || !errors.Is(failures[0], store.ErrETagMismatch) {
		t.Fatalf("expected etag conflict, got %v", failures)
	}
}

func TestBinderRequiresStore(t *testing.T) {
	binder := &store.Binder{}
	if _, err := binder.Load(context.Background(), formstate.New()); err == nil {
		t.Fatalf("expected error without store")
	}
	if _, err := binder.Save(context.Background(), formstate.Record{}); err == nil {
		t.Fatalf("expected error without store")
	}
}
