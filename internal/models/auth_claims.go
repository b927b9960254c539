package models

import "github.com/golang-jwt/jwt/v5"

type JwtCustomClaims struct {
	MemberID string `json:"memberID"`
	Email    string `json:"email"`
	jwt.RegisteredClaims
}
