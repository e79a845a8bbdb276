// Package ui provides the terminal interface of equip.
//
// # Architecture Overview
//
// The UI is a single Bubble Tea program. Model owns three screens, each
// backed by the view-state controllers of package state:
//
//   - Dashboard: stats, assets and requests loaded together through
//     state.Gather and shown in a scrollable viewport
//   - Assets: the inventory (or the employee's own equipment) with local
//     search, a status filter cycle, add/edit forms, a row action menu
//     and a delete confirmation
//   - Requests: the request list with a status filter, counters that are
//     adjusted locally after each mutation, a new-request form and
//     approve/deny for admins
//
// # Event Flow
//
//  1. Entering a screen calls Begin on its controller and returns a
//     tea.Cmd that performs the API calls off the update goroutine.
//  2. The command replies with a message carrying the token it was given.
//     Results whose token is no longer current are dropped, so leaving a
//     screen or switching role never lets an old response overwrite
//     newer state.
//  3. Mutations claim a guard on the controller. The guard is always
//     settled when the reply arrives, success or failure, and the reply is
//     spliced into the list only when it succeeded.
//
// # Roles
//
// R toggles between the employee and admin identities. Employees only see
// records for their configured name and cannot edit the inventory. The
// switch is a demo affordance, not access control.
//
// # Key Bindings
//
//   - 1/2/3, Tab: switch screen
//   - j/k, g/G: move the selection
//   - /, f, c: search, cycle status filter, clear filters (assets)
//   - n: new asset or request
//   - enter, m, d: edit, row actions, delete (admin, assets)
//   - a/x: approve/deny (admin, requests)
//   - r: reload, R: switch role, T: cycle theme, ?: help
//   - q or Ctrl+C: exit
package ui
