// Package store persists form baselines outside the form engine.
//
// A Store only loads and saves one record for one Ref. Binder connects a
// Store to a formstate.Form: it loads the stored record as the form's
// baseline and saves every record the form hands to its update callback,
// guarding writes with the ETag observed at load time.
//
// Data flow:
//
//	Store.Load -> Binder.Load -> Form.SetData
//	Form update callback -> Binder.Save -> Store.Save
//
// Deterministic keys:
//
//	Ref.Identifier() renders the storage key from the form name and its
//	owning scope: "system/<form>" or "<scope>/<id>/<form>" for the tenant,
//	org, team and user scopes.
package store
