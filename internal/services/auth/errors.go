package auth

import "errors"

// ErrDuplicateEmail is returned when creating a user with an email that already exists.
var ErrDuplicateEmail = errors.New("duplicate field: email already in use")

// ErrUserNotFound is returned when no user matches a lookup.
var ErrUserNotFound = errors.New("user not found")

// ErrIncorrectCredentials covers both unknown email and wrong password so the
// response never reveals which one it was.
var ErrIncorrectCredentials = errors.New("incorrect email or password")

// ErrNotLoggedIn is returned when a protected route is hit without a bearer token.
var ErrNotLoggedIn = errors.New("you are not logged in, please log in to get access")

// ErrTokenExpired is returned when the session token's expiry has passed.
var ErrTokenExpired = errors.New("token has expired, please log in again")

// ErrTokenInvalid is returned for malformed or badly signed session tokens.
var ErrTokenInvalid = errors.New("invalid token, please log in again")

// ErrUserGone is returned when the token's user no longer exists.
var ErrUserGone = errors.New("the user belonging to this token no longer exists")

// ErrPasswordChanged is returned when the password changed after token issuance.
var ErrPasswordChanged = errors.New("user recently changed password, please log in again")

// ErrNotAllowed is returned when the resolved user's role is not in the allowed set.
var ErrNotAllowed = errors.New("you are not allowed to perform this action")

// ErrNoUserWithEmail is returned by the forgot-password flow for unknown emails.
var ErrNoUserWithEmail = errors.New("no user found with that email address")

// ErrSendMail is returned when reset-token delivery fails.
var ErrSendMail = errors.New("there was a problem sending the reset token email")

// ErrResetTokenInvalid is returned for unknown or expired reset tokens.
var ErrResetTokenInvalid = errors.New("reset token is invalid or has expired")

// ErrGenToken is returned when we cannot sign a session token.
var ErrGenToken = errors.New("failed to generate session token")
