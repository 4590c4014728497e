package postgres

// SQLSTATE codes the repositories translate into domain errors.
const (
	uniqueViolation      = "23505"
	invalidTextRepresent = "22P02"
)
