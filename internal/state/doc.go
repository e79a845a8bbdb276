// Package state holds the view state of equip's screens.
//
// # Overview
//
// Each screen owns its own Collection (a list of entities) or Value (a
// single aggregate). Nothing is shared between screens, so two screens may
// show different data until both reload.
//
// # Load Protocol
//
//	tok := assets.Begin()          // Loading; older loads become stale
//	items, err := client.ListAssets(ctx, filter)
//	if err != nil {
//		assets.Fail(tok, err)      // Error, retry re-enters Begin
//	} else {
//		assets.Resolve(tok, items) // Ready
//	}
//
// Resolve and Fail ignore tokens that are no longer current. A result
// that arrives after a newer Begin, or after Deactivate, changes nothing.
//
// # Mutation Protocol
//
// Mutations are confirmed, then applied:
//
//	tok, ok := assets.StartMutation(state.GuardSubmit)
//	if !ok {
//		return // a submission is already in flight
//	}
//	created, err := client.CreateAsset(ctx, input)
//	if err == nil {
//		assets.Insert(tok, created)
//	}
//	assets.Settle(tok)
//
// Settle always runs, so a timed-out call never leaves the guard held.
// Splices keep keys unique: Insert and Prepend grow the list by exactly one
// or replace an entity with the same key, Replace never changes the
// length, and Remove drops exactly the matching entity.
//
// # Concurrency
//
// Collection and Value are guarded by a sync.RWMutex and are safe to use
// from tea.Cmd goroutines. Gather runs several loads concurrently with
// errgroup and fails as a whole if any load fails.
package state
