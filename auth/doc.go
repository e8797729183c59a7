// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides credential and token primitives.

# Passwords

Passwords are stored as bcrypt hashes:

	hash, err := auth.HashPassword(password)
	ok := auth.CheckPassword(hash, password)

# Session Tokens

Session tokens are HS256 JWTs naming the user and the session row:

	token, err := auth.SignSession(secret, userID, sessionID, now, ttl)
	claims, err := auth.ParseSession(secret, token)

A valid signature is not enough on its own; the session package also
requires the session row to exist.

# Random Tokens and IDs

	id, err := auth.GenerateID(16)     // 32 hex characters
	tok, err := auth.GenerateToken()   // password reset tokens
	h := auth.HashToken(tok)           // what gets stored

# IP Hashing

	hash := auth.HashIP(ipAddress, salt)

Returns the first 8 bytes (16 hex chars) of HMAC-SHA256, used in logs.
*/
package auth
