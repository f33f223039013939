// Package auth implements session-based authentication for the web UI.
//
// Passwords are stored as bcrypt hashes. Sessions live in SQLite via
// alexedwards/scs and are carried by an HttpOnly cookie. State-changing
// form submissions are protected by gorilla/csrf, and login attempts are
// rate limited per IP+username on top of the persistent account lockout.
//
// The package also owns the flash-message plumbing: controllers queue
// one-shot notices in the session and the page renderer pops them.
package auth
