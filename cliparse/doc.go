// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

	cfg, err := cliparse.ParseFlags(os.Args[1:])

A .env file is loaded first with godotenv. Flags win over environment
variables, which win over defaults.

# Flags and Environment

	-p               PORT            Server port (3318)
	-d               DATABASE_URL    Database URL (required)
	-t               DATABASE_TYPE   sqlite or postgres (sqlite)
	--session-secret SESSION_SECRET  Session signing secret (required)
	--session-ttl    SESSION_TTL     Session lifetime (168h)
	--log-file       LOG_FILE        Rotating log file
	--trust-proxy    TRUST_PROXY     Key rate limits on X-Forwarded-For (false)
	--sign-in-rate   SIGN_IN_RATE    Sign-in attempts per second per IP (1)
*/
package cliparse
