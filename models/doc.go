// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Roles

Role is a closed set: RoleAdministrator, RoleSurveyor, RoleRespondent.
The zero value RoleNone means no role has been resolved. Each role has a
home screen:

	RoleAdministrator.Home() // /admin/dashboard
	RoleSurveyor.Home()      // /surveys/dashboard
	RoleRespondent.Home()    // /encuestas

# Question Types

	QuestionText     = "text"
	QuestionMultiple = "multiple"
	QuestionScale    = "scale"    // answers 1 to 5

# Domain Types

  - Profile, Principal: who the caller is
  - Survey, Question: authored content
  - Response: one answered question from one submission
*/
package models
