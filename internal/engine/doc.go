// Package engine runs a KidCapital game: the state store, the turn state
// machine that paces human and bot turns, and the progress tracker that turns
// the human's events into achievements.
//
// All state changes go through Store. Commands that arrive in the wrong turn
// phase are ignored rather than queued.
package engine
