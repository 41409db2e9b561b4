package store

import (
	"context"
	"fmt"
	"sync"

	formstate "github.com/goliatone/go-formstate"
)

// Binder keeps one form in sync with one stored record.
type Binder struct {
	Store Store
	Ref   Ref
	// OnError receives save failures raised from the update callback.
	OnError func(error)

	mu   sync.Mutex
	meta Meta
}

// NewBinder constructs a Binder for ref.
func NewBinder(store Store, ref Ref) *Binder {
	return &Binder{Store: store, Ref: ref}
}

// Meta returns the metadata of the last load or save.
func (b *Binder) Meta() Meta {
	b.mu.Lock()
	defer b.mu.Unlock()
	return cloneMeta(b.meta)
}

// Load reads the stored record and hands it to form as its baseline. It
// reports false, leaving the form untouched, when nothing is stored.
func (b *Binder) Load(ctx context.Context, form *formstate.Form) (bool, error) {
	if b.Store == nil {
		return false, fmt.Errorf("store: store is required")
	}
	if form == nil {
		return false, fmt.Errorf("store: form is required")
	}
	data, meta, ok, err := b.Store.Load(ctx, b.Ref)
	if err != nil {
		return false, fmt.Errorf("store: load %q: %w", b.Ref.Form, err)
	}
	if !ok {
		return false, nil
	}
	b.mu.Lock()
	b.meta = meta
	b.mu.Unlock()
	if err := form.SetData(data); err != nil {
		return false, err
	}
	return true, nil
}

// Save writes data using the ETag of the last load or save.
func (b *Binder) Save(ctx context.Context, data formstate.Record) (Meta, error) {
	if b.Store == nil {
		return Meta{}, fmt.Errorf("store: store is required")
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	saved, err := b.Store.Save(ctx, b.Ref, data, Meta{ETag: b.meta.ETag})
	if err != nil {
		return saved, fmt.Errorf("store: save %q: %w", b.Ref.Form, err)
	}
	b.meta = saved
	return cloneMeta(saved), nil
}

// Callback adapts Save to formstate.WithUpdateCallback. Failures go to
// OnError.
func (b *Binder) Callback(ctx context.Context) func(formstate.Record) {
	return func(data formstate.Record) {
		if _, err := b.Save(ctx, data); err != nil && b.OnError != nil {
			b.OnError(err)
		}
	}
}
