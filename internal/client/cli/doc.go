// Package cli provides the interactive taskflow command-line client.
//
// It wires configuration, the local credential store, the authenticated API
// pipeline and the application services into a REPL. The App doubles as the
// session navigator: it knows the screen the user is on, and the session
// manager sends it back to the login screen when the session ends.
//
// Key features:
//   - Register / Login / Logout, with return to the screen the user was on
//     when the session expired
//   - Boards, tasks, reminders and notifications
//   - A dashboard that loads everything concurrently
//   - Profile name changes
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
