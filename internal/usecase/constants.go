package usecase

// Pagination bounds for list operations.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// ibanGenerationAttempts bounds how many times account creation retries a
// colliding generated IBAN before giving up.
const ibanGenerationAttempts = 3
