// Package tokens persists the session bearer token between process runs.
//
// The store is deliberately tiny: a single key in a local sqlite database.
// Everything else the app shows is fetched fresh from the server; the token
// is the only state that must survive a restart.
package tokens
