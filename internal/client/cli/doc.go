// Package cli implements the interactive TaskCrew terminal client: a small
// REPL over the session manager and the workflow board.
package cli
