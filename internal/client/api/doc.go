// Package api talks to the taskflow REST backend.
//
// Transport is the request pipeline: it attaches the bearer token to every
// outbound request and, when the backend answers 401, hands control to the
// session manager and replays the request once with the renewed token.
// Client layers JSON encoding and error normalization on top of it, and
// Refresher calls the refresh endpoint directly on the base transport.
package api
