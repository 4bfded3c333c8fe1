package services

import "errors"

// Shared sentinel errors, mapped to HTTP statuses in the handlers package.
var (
	// Not found
	ErrLeagueNotFound = errors.New("league not found")
	ErrUserNotFound   = errors.New("user not found")
	ErrMemberNotFound = errors.New("member not found")
	ErrInviteNotFound = errors.New("invite not found")
	ErrMatchNotFound  = errors.New("match not found")

	// Bracket generation preconditions. Each maps to a distinct user-facing
	// message so the client can render an actionable error.
	ErrBracketForbidden         = errors.New("only the league owner or an admin can generate the bracket")
	ErrFormatNotSupported       = errors.New("bracket generation is not supported for this tournament format")
	ErrBracketAlreadyGenerated  = errors.New("bracket has already been generated for this league")
	ErrInsufficientParticipants = errors.New("at least 2 active members are required to generate a bracket")

	// Validation and business rules
	ErrLeagueNameRequired = errors.New("league name is required")
	ErrInvalidFormat      = errors.New("invalid tournament format")
	ErrLeagueLocked       = errors.New("league settings are locked after bracket generation")
	ErrPasswordTooShort   = errors.New("password must be at least 8 characters")
	ErrEmailRequired      = errors.New("email is required")
	ErrInviteExpired      = errors.New("invite has expired")
	ErrAlreadyMember      = errors.New("user is already a member of this league")
	ErrOwnerCannotLeave   = errors.New("the league owner cannot leave the league")
	ErrMemberNotActive    = errors.New("member is not active in this league")

	// Match result rules
	ErrMatchAlreadyCompleted = errors.New("match result has already been recorded")
	ErrMatchMissingPlayers   = errors.New("both player slots must be filled before recording a result")
	ErrInvalidWinner         = errors.New("winner must be one of the two match players")
	ErrMatchSlotOccupied     = errors.New("match player slot is already occupied")

	// Authentication and authorization
	ErrAuthInvalidCredentials = errors.New("invalid email or password")
	ErrAuthEmailTaken         = errors.New("email is already taken")
	ErrForbiddenOperation     = errors.New("operation not allowed for the current user")

	// Logo uploads are optional; set only when object storage is configured.
	ErrLogoUploadsDisabled = errors.New("logo uploads are not configured")
)
