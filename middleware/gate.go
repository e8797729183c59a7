// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"slices"

	"github.com/danielhkuo/quickly-survey/models"
)

// Outcome is what the gate does with a request
type Outcome uint8

const (
	// OutcomePending means the principal or its role is not known yet.
	// Nothing is admitted and nothing is redirected.
	OutcomePending Outcome = iota
	OutcomeAdmit
	OutcomeRedirect
)

func (o Outcome) String() string {
	switch o {
	case OutcomeAdmit:
		return "admit"
	case OutcomeRedirect:
		return "redirect"
	}
	return "pending"
}

// GateState is everything the gate knows about the caller
type GateState struct {
	Loading   bool
	Principal *models.Principal
}

// Decision is the gate's verdict. Location is set only for OutcomeRedirect.
type Decision struct {
	Outcome  Outcome
	Location string
}

// Decide admits, redirects or holds a request for a route open to the
// allowed roles. An empty allowed list admits any signed-in principal.
func Decide(state GateState, allowed []models.Role) Decision {
	if state.Loading {
		return Decision{Outcome: OutcomePending}
	}
	if state.Principal == nil {
		return Decision{Outcome: OutcomeRedirect, Location: models.PathSignIn}
	}
	if len(allowed) == 0 || slices.Contains(allowed, state.Principal.Role) {
		return Decision{Outcome: OutcomeAdmit}
	}
	return Decision{Outcome: OutcomeRedirect, Location: state.Principal.Role.Home()}
}
