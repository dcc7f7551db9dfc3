package common

// AuthorizationHeaderName is the HTTP header used to carry the bearer token
// on outbound requests.
const AuthorizationHeaderName = "Authorization"

// TokenStorageKey is the single durable key under which the session token is
// persisted between process runs.
const TokenStorageKey = "token"
