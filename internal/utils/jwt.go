// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package utils holds small JWT helpers shared by the session manager (token
// expiry inspection) and the admin API (bearer-token auth).
package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenExpiry extracts the "exp" claim from a JWT without verifying its
// signature. Refresh tokens issued by the remote service are signed by that
// service — the keeper cannot verify them and does not need to; it only
// wants to know whether a saved token is worth presenting at all.
//
// Returns an error if the string is not a parseable JWT or carries no
// expiry claim.
func TokenExpiry(tokenString string) (time.Time, error) {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, &claims); err != nil {
		return time.Time{}, fmt.Errorf("error parsing token: %w", err)
	}

	if claims.ExpiresAt == nil {
		return time.Time{}, errors.New("token carries no expiry claim")
	}

	return claims.ExpiresAt.Time, nil
}

// GenerateAdminToken creates a signed HMAC-SHA256 bearer token for the
// admin API with the given subject and lifetime.
//
// All parameters are required. Returns an error if any of them are empty or
// zero, or if signing fails.
func GenerateAdminToken(issuer, subject string, tokenDuration time.Duration, signKey string) (string, error) {
	if issuer == "" || subject == "" || tokenDuration == 0 || signKey == "" {
		return "", errors.New("invalid params for generating JWT Token")
	}

	now := time.Now()
	claims := &jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(now.Add(tokenDuration)),
		IssuedAt:  jwt.NewNumericDate(now),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(signKey))
	if err != nil {
		return "", fmt.Errorf("error occurred during signing JWT token: %w", err)
	}

	return tokenString, nil
}

// ValidateAdminToken verifies an admin API bearer token: signature (HMAC
// with signKey), issuer, and expiry. Returns the token's subject.
func ValidateAdminToken(tokenString, signKey, issuer string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return []byte(signKey), nil
		},
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return "", fmt.Errorf("error validating token: %w", err)
	}
	if !token.Valid {
		return "", errors.New("invalid token")
	}

	return claims.Subject, nil
}
