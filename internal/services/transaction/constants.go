package transaction

// Transaction reference format: TXN_ + 12 random uppercase characters.
const (
	referencePrefix   = "TXN_"
	referenceLength   = 12
	referenceAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	// maxReferenceAttempts bounds collision regeneration before giving up.
	maxReferenceAttempts = 10
)

// Failure reasons the coordinator records directly.
const (
	reasonInsufficientBalance = "Insufficient wallet balance"
	reasonDataPlanMissing     = "Data purchase requires a plan code"
)
