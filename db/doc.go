// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db opens the database connection and creates the schema.

# Opening

Open selects the driver from the configured database type:

	conn, err := db.Open(ctx, cfg.DatabaseType, cfg.DatabaseURL)

  - "postgres" uses github.com/lib/pq
  - "sqlite" uses modernc.org/sqlite; foreign key enforcement and a busy
    timeout are appended to the DSN for every pooled connection

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.
The same statements run on both databases; question options are stored as
a JSON array in a TEXT column.

# Tables

  - profiles: Display identity (email, full name)
  - user_roles: Exactly one role per profile, fixed at sign-up
  - accounts: Login email and bcrypt password hash
  - sessions: Live sessions; deleting a row revokes its token
  - password_resets: Hashed one-time reset tokens
  - surveys: Survey metadata and publish flag
  - questions: Ordered questions per survey
  - responses: One row per answered question, grouped by submission_id

# Relationships

	profiles 1──1 user_roles
	profiles 1──1 accounts
	profiles 1──* sessions
	profiles 1──* surveys (created_by)
	surveys 1──* questions
	surveys 1──* responses
	questions 1──* responses

All foreign keys use ON DELETE CASCADE, so deleting a survey removes its
questions and responses.
*/
package db
