package handler

const (
	errInternalServer     = "Internal server error"
	errUserExists         = "User already exists"
	errInvalidCredentials = "Invalid credentials"
	errInvalidGoogle      = "Invalid Google credential"
	errOAuthStateInvalid  = "Sign-in link is invalid or expired. Please try again."
	errPasswordTooLong    = "Password must be at most 72 bytes"
	errAuthRequired       = "Authentication required"
	errUpdateNotOwned     = "You can only update your own events."
	errDeleteNotOwned     = "You can only delete your own events."
	errViewNotOwned       = "You can only view your own events."
	msgEventDeleted       = "Event deleted successfully"
)
