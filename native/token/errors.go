package token

import "errors"

var (
	// Authorization.
	ErrUnauthorizedAdmin            = errors.New("token: unauthorized admin")
	ErrUnauthorizedUpgradeAuthority = errors.New("token: unauthorized upgrade authority")
	ErrUnauthorizedBurn             = errors.New("token: unauthorized burn, not token account owner")
	ErrUnauthorizedTransfer         = errors.New("token: unauthorized transfer, not token account owner")
	ErrUnauthorizedUnfreeze         = errors.New("token: unauthorized unfreeze, not token account owner")
	ErrUnauthorizedDestination      = errors.New("token: unauthorized destination, users claim only to their own account")

	// Lifecycle.
	ErrPolicyNotInitialized        = errors.New("token: policy not initialized")
	ErrPolicyAlreadyInitialized    = errors.New("token: policy already initialized")
	ErrMintAlreadyCreated          = errors.New("token: mint already created")
	ErrMintNotCreated              = errors.New("token: mint not created")
	ErrTreasuryAlreadyCreated      = errors.New("token: treasury already created")
	ErrTreasuryNotCreated          = errors.New("token: treasury not created")
	ErrUserStateAlreadyInitialized = errors.New("token: user claim state already initialized")
	ErrUserStateNotInitialized     = errors.New("token: user claim state not initialized")
	ErrInvalidUserState            = errors.New("token: user claim state owner mismatch")

	// Replay and ordering.
	ErrInvalidNonce       = errors.New("token: invalid nonce")
	ErrNonceOverflow      = errors.New("token: nonce overflow")
	ErrClaimCountOverflow = errors.New("token: claim count overflow")

	// Timing.
	ErrClaimTimeLocked       = errors.New("token: claim time-locked, wait for next allowed claim time")
	ErrClaimPeriodNotElapsed = errors.New("token: claim period not elapsed since last claim")
	ErrClaimTooSoon          = errors.New("token: claim attempted too soon after previous claim")
	ErrClaimTooFrequent      = errors.New("token: claims too frequent, minimum 1 second gap required")
	ErrClaimExpired          = errors.New("token: claim expired")
	ErrTimestampOverflow     = errors.New("token: timestamp overflow")
	ErrInvalidClaimPeriod    = errors.New("token: invalid claim period")

	// Signatures.
	ErrInvalidAdminSignature = errors.New("token: invalid admin signature")
	ErrInvalidUserSignature  = errors.New("token: invalid user signature")
	ErrInvalidClaimPayload   = errors.New("token: invalid claim payload")

	// Value validation.
	ErrInvalidMintAmount           = errors.New("token: invalid mint amount")
	ErrInvalidBurnAmount           = errors.New("token: invalid burn amount")
	ErrInvalidTransferAmount       = errors.New("token: invalid transfer amount")
	ErrInsufficientBalance         = errors.New("token: insufficient balance")
	ErrInsufficientTreasuryBalance = errors.New("token: insufficient treasury balance")

	// Token identity.
	ErrInvalidTokenMint       = errors.New("token: invalid token mint")
	ErrInvalidTokenAccount    = errors.New("token: invalid token account")
	ErrInvalidTreasuryAccount = errors.New("token: invalid treasury account")
	ErrInvalidTokenName       = errors.New("token: invalid token name length")
	ErrInvalidTokenSymbol     = errors.New("token: invalid token symbol length")

	// Governance.
	ErrNotUpgradeable                     = errors.New("token: program not upgradeable")
	ErrInvalidProgramData                 = errors.New("token: invalid program data account")
	ErrTransfersAlreadyPermanentlyEnabled = errors.New("token: transfers already permanently enabled")
	ErrTransfersCannotBeDisabled          = errors.New("token: transfers cannot be disabled once permanently enabled")
	ErrTransfersNotEnabled                = errors.New("token: transfers not enabled")
	ErrTransfersPaused                    = errors.New("token: transfers paused")
	ErrTransfersNotPermanentlyEnabled     = errors.New("token: transfers not permanently enabled")
)
