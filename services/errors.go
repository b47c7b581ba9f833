package services

import "errors"

// Business-rule failures shared by the services and the HTTP error
// mapping. All of them are user-facing and recoverable: a failed
// operation leaves the tournament state exactly as it was.
var (
	// Team registration
	ErrDuplicateTeam     = errors.New("team name is already registered for this modality")
	ErrTeamLimitExceeded = errors.New("team limit reached for this modality")
	ErrEmptyTeamName     = errors.New("team name is required")
	ErrTeamNotFound      = errors.New("team not found in this modality")

	// Bracket lifecycle
	ErrBracketLocked     = errors.New("bracket already generated, team list is locked")
	ErrInsufficientTeams = errors.New("at least 2 teams are required to generate a bracket")
	ErrNoBracket         = errors.New("no bracket generated for this modality")

	// Import / export
	ErrMalformedImportData = errors.New("import payload is not a valid tournament snapshot")
	ErrBackupNotConfigured = errors.New("snapshot backup storage is not configured")

	// Shared
	ErrUnknownModality = errors.New("unknown modality")

	// Authentication
	ErrAuthInvalidCredentials = errors.New("invalid operator password")
)
