package auth

import "time"

// Modes accepted by New.
const (
	ModeNone = "none"
	ModeJWT  = "jwt"
)

// Config selects and parameterizes the authorizer.
type Config struct {
	Mode   string
	Secret string
}

// Claims describe the caller admitted by an Authorizer.
type Claims struct {
	Subject   string
	Anonymous bool
	ExpiresAt time.Time
}
