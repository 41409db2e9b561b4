package store_test

import (
	"context"
	"errors"
	"testing"

	formstate "github.com/goliatone/go-formstate"
	"github.com/goliatone/go-formstate/pkg/store"
)

func TestRefIdentifier(t *testing.T) {
	cases := []struct {
		name string
		ref  store.Ref
		want string
		err  string
	}{
		{name: "system default", ref: store.Ref{Form: "signup"}, want: "system/signup"},
		{name: "system explicit", ref: store.Ref{Form: "signup", Scope: store.ScopeSystem}, want: "system/signup"},
		{name: "tenant", ref: store.Ref{Form: "signup", Scope: store.ScopeTenant, ID: "t1"}, want: "tenant/t1/signup"},
		{name: "user", ref: store.Ref{Form: "profile", Scope: store.ScopeUser, ID: " u9 "}, want: "user/u9/profile"},
		{name: "missing id", ref: store.Ref{Form: "signup", Scope: store.ScopeTeam}, err: `store: missing id for scope "team"`},
		{name: "unknown scope", ref: store.Ref{Form: "signup", Scope: "galaxy", ID: "x"}, err: `store: unsupported scope name "galaxy"`},
		{name: "missing form", ref: store.Ref{}, err: "store: form name is required"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.ref.Identifier()
			if tc.err != "" {
				if err == nil || err.Error() != tc.err {
					t.Fatalf("expected error %q, got %v", tc.err, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestMemoryStoreSaveAndLoad(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	ref := store.Ref{Form: "signup", Scope: store.ScopeTenant, ID: "t1"}

	if _, _, ok, err := s.Load(ctx, ref); ok || err != nil {
		t.Fatalf("expected empty store, got ok=%t err=%v", ok, err)
	}

	data := formstate.Record{"email": "a@example.com"}
	meta, err := s.Save(ctx, ref, data, store.Meta{Extra: map[string]string{"source": "test"}})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if meta.ETag == "" || meta.SnapshotID == "" || meta.UpdatedAt.IsZero() {
		t.Fatalf("expected stamped meta, got %+v", meta)
	}
	data["email"] = "changed"

	loaded, loadedMeta, ok, err := s.Load(ctx, ref)
	if err != nil || !ok {
		t.Fatalf("load: ok=%t err=%v", ok, err)
	}
	if loaded["email"] != "a@example.com" {
		t.Fatalf("expected stored record isolated from caller, got %v", loaded)
	}
	if loadedMeta.ETag != meta.ETag || loadedMeta.Extra["source"] != "test" {
		t.Fatalf("unexpected loaded meta %+v", loadedMeta)
	}
}

func TestMemoryStoreCopiesNestedValues(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	ref := store.Ref{Form: "profile"}

	tags := []string{"a"}
	if _, err := s.Save(ctx, ref, formstate.Record{"tags": tags}, store.Meta{}); err != nil {
		t.Fatalf("save: %v", err)
	}
	tags[0] = "changed"

	loaded, _, _, err := s.Load(ctx, ref)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	loaded["tags"].([]string)[0] = "via-load"

	again, _, _, err := s.Load(ctx, ref)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := again["tags"].([]string)[0]; got != "a" {
		t.Fatalf("expected stored slice isolated, got %q", got)
	}
}

func TestMemoryStoreRejectsStaleETag(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	ref := store.Ref{Form: "signup"}

	first, err := s.Save(ctx, ref, formstate.Record{"n": 1}, store.Meta{})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := s.Save(ctx, ref, formstate.Record{"n": 2}, store.Meta{ETag: first.ETag}); err != nil {
		t.Fatalf("save with current etag: %v", err)
	}
	if _, err := s.Save(ctx, ref, formstate.Record{"n": 3}, store.Meta{ETag: first.ETag}); !errors.Is(err, store.ErrETagMismatch) {
		t.Fatalf("expected ErrETagMismatch, got %v", err)
	}
	loaded, _, _, _ := s.Load(ctx, ref)
	if loaded["n"] != 2 {
		t.Fatalf("expected stale save rejected, got %v", loaded)
	}
}
