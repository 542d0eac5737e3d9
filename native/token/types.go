package token

import "github.com/gagliardetto/solana-go"

// TransferMode is the transfer-enablement latch. Transitions only move
// forward: Disabled <-> Enabled while the latch is open, and any state ->
// PermanentlyEnabled exactly once.
type TransferMode uint8

const (
	TransfersDisabled TransferMode = iota
	TransfersEnabled
	TransfersPermanentlyEnabled
)

func (m TransferMode) Valid() bool {
	switch m {
	case TransfersDisabled, TransfersEnabled, TransfersPermanentlyEnabled:
		return true
	default:
		return false
	}
}

func (m TransferMode) String() string {
	switch m {
	case TransfersDisabled:
		return "disabled"
	case TransfersEnabled:
		return "enabled"
	case TransfersPermanentlyEnabled:
		return "permanently_enabled"
	default:
		return "unknown"
	}
}

// Allowed reports whether transfers may execute under this mode.
func (m TransferMode) Allowed() bool {
	return m == TransfersEnabled || m == TransfersPermanentlyEnabled
}

// Permanent reports whether the one-way latch has engaged.
func (m TransferMode) Permanent() bool {
	return m == TransfersPermanentlyEnabled
}

// Claim period bounds. The floor is looser at initialization (short periods
// for staging deployments) and tightens on later updates.
const (
	MinInitialClaimPeriodSeconds = 30
	MinUpdatedClaimPeriodSeconds = 3600
	MaxClaimPeriodSeconds        = 31536000 // one year
)

// Token metadata limits carried in the policy record.
const (
	MaxTokenNameLength   = 32
	MaxTokenSymbolLength = 16
)

// PolicyState is the singleton policy record of a deployed program instance.
// It is created once by InitializePolicy and mutated only through the
// admin-gated engine operations; it is loaded from the store and passed
// explicitly, never held as a global.
type PolicyState struct {
	Admin              solana.PublicKey
	UpgradeAuthority   solana.PublicKey
	Mint               solana.PublicKey // zero until CreateTokenMint
	Treasury           solana.PublicKey // zero until CreateTreasury
	TransferMode       TransferMode
	TransferEnableTime int64
	ClaimPeriodSeconds int64
	TimeLockEnabled    bool
	Upgradeable        bool
	TokenName          string
	TokenSymbol        string
	Decimals           uint8
}

// Clone returns a copy for defensive use by callers.
func (p *PolicyState) Clone() *PolicyState {
	if p == nil {
		return nil
	}
	out := *p
	return &out
}

// MintCreated reports whether the token mint has been bound.
func (p *PolicyState) MintCreated() bool {
	return p != nil && !p.Mint.IsZero()
}

// TreasuryCreated reports whether the treasury account has been bound.
func (p *PolicyState) TreasuryCreated() bool {
	return p != nil && !p.Treasury.IsZero()
}

// UserClaimState is the per-user persistent record gating claim admission.
// Nonce increases by exactly one per successful claim and never repeats.
type UserClaimState struct {
	Owner                solana.PublicKey
	Nonce                uint64
	LastClaimTime        int64 // 0 = never claimed
	NextAllowedClaimTime int64
	TotalClaims          uint64
}

// Clone returns a copy for defensive use by callers.
func (u *UserClaimState) Clone() *UserClaimState {
	if u == nil {
		return nil
	}
	out := *u
	return &out
}

// ClaimPayload is the logical claim authorised off-chain by the admin. It is
// ephemeral: constructed per claim, signed over its canonical encoding, and
// never persisted.
type ClaimPayload struct {
	Destination solana.PublicKey // destination token account
	Amount      uint64
	Expiry      int64 // unix seconds, inclusive deadline
	Nonce       uint64
}
