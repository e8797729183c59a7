// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package session owns identity: accounts, roles, sessions and password
// resets. Manager.Resolve turns a token into a Principal and satisfies
// middleware.Resolver. Subscribers are told about every sign-up, sign-in,
// sign-out and password reset.
package session
