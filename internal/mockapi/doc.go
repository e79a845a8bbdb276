// Package mockapi is an in-memory implementation of the equipment API,
// served by "equip serve" for local development and used by tests to
// exercise the client end to end.
//
// Data is kept per X-Session-ID and seeded on first use with a dozen
// demo assets and five requests. Nothing survives a restart.
//
// The service enforces the assignment policy on update: a holder implies
// Assigned and clearing the holder of an Assigned asset makes it
// Available. Request status changes are accepted in any direction.
package mockapi
