package jwt

import "github.com/golang-jwt/jwt"

// Payload defines the platform identity claims carried by API tokens.
// Identity tokens are issued by the account service; this core only validates them.
type Payload struct {
	// StandardClaims embeds the JWT standard fields such as Exp (Expiration),
	// Iat (Issued At), and Iss (Issuer), required for token validity checks.
	jwt.StandardClaims `json:"standard_claims"`

	// UserID is the platform user id of the token holder.
	UserID string `json:"user_id"`

	// Username is the display name of the token holder, carried for logging
	// and response decoration without an extra store round trip.
	Username string `json:"username"`
}
