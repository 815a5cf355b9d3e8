// Package browse wires the TMDB client into the paging state machine.
//
// Popular, Search, Favorited and Details each own a paging.Collection and
// expose the same three-step cycle: a state transition that returns a
// paging.Request, Fetch to execute it, and Apply to merge the outcome.
// Splitting Fetch from Apply lets the TUI run the I/O in a tea.Cmd and merge
// on the update loop, while the HTTP server and tests call Run.
package browse
