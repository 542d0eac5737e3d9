package events

import (
	"strconv"

	"github.com/gagliardetto/solana-go"
)

const (
	// TypeClaimCompleted is emitted whenever an admin-signed claim mints tokens.
	TypeClaimCompleted = "token.claim.completed"
	// TypeTokenMinted is emitted for direct admin mints and treasury mints.
	TypeTokenMinted = "token.minted"
	// TypeTokenBurned is emitted for burns from user accounts and the treasury.
	TypeTokenBurned = "token.burned"
	// TypeTokenTransferred is emitted when tokens move between user accounts.
	TypeTokenTransferred = "token.transferred"
	// TypeAccountFrozen is emitted when a token account is frozen.
	TypeAccountFrozen = "token.account.frozen"
	// TypeAccountThawed is emitted when a token account is thawed.
	TypeAccountThawed = "token.account.thawed"
	// TypePolicyInitialized is emitted once when the policy record is created.
	TypePolicyInitialized = "token.policy.initialized"
	// TypeMintCreated is emitted when the token mint is bound to the policy.
	TypeMintCreated = "token.mint.created"
	// TypeTreasuryCreated is emitted when the treasury account is bound.
	TypeTreasuryCreated = "token.treasury.created"
	// TypeTransfersPaused is emitted when the admin pauses transfers.
	TypeTransfersPaused = "token.transfers.paused"
	// TypeTransfersResumed is emitted when the admin resumes transfers.
	TypeTransfersResumed = "token.transfers.resumed"
	// TypeTransfersPermanent is emitted when the one-way transfer latch engages.
	TypeTransfersPermanent = "token.transfers.permanent"
	// TypeTimeLockUpdated is emitted when the claim period or time-lock flag changes.
	TypeTimeLockUpdated = "token.timelock.updated"
	// TypeUpgradeAuthorityChanged is emitted on upgrade-authority rotation or removal.
	TypeUpgradeAuthorityChanged = "token.upgrade.authority"
)

// ClaimCompleted captures a successful claim transition.
type ClaimCompleted struct {
	User        solana.PublicKey
	Destination solana.PublicKey
	Amount      uint64
	Nonce       uint64
	TotalClaims uint64
	Frozen      bool
}

func (ClaimCompleted) EventType() string { return TypeClaimCompleted }

func (e ClaimCompleted) Event() *Record {
	return &Record{
		Type: TypeClaimCompleted,
		Attributes: map[string]string{
			"user":        e.User.String(),
			"destination": e.Destination.String(),
			"amount":      strconv.FormatUint(e.Amount, 10),
			"nonce":       strconv.FormatUint(e.Nonce, 10),
			"totalClaims": strconv.FormatUint(e.TotalClaims, 10),
			"frozen":      strconv.FormatBool(e.Frozen),
		},
	}
}

// TokenMinted captures a mint performed by the program authority.
type TokenMinted struct {
	Destination solana.PublicKey
	Amount      uint64
	Treasury    bool
}

func (TokenMinted) EventType() string { return TypeTokenMinted }

func (e TokenMinted) Event() *Record {
	return &Record{
		Type: TypeTokenMinted,
		Attributes: map[string]string{
			"destination": e.Destination.String(),
			"amount":      strconv.FormatUint(e.Amount, 10),
			"treasury":    strconv.FormatBool(e.Treasury),
		},
	}
}

// TokenBurned captures a burn from a user account or the treasury.
type TokenBurned struct {
	Source   solana.PublicKey
	Amount   uint64
	Treasury bool
}

func (TokenBurned) EventType() string { return TypeTokenBurned }

func (e TokenBurned) Event() *Record {
	return &Record{
		Type: TypeTokenBurned,
		Attributes: map[string]string{
			"source":   e.Source.String(),
			"amount":   strconv.FormatUint(e.Amount, 10),
			"treasury": strconv.FormatBool(e.Treasury),
		},
	}
}

// TokenTransferred captures a transfer between user accounts.
type TokenTransferred struct {
	From   solana.PublicKey
	To     solana.PublicKey
	Amount uint64
}

func (TokenTransferred) EventType() string { return TypeTokenTransferred }

func (e TokenTransferred) Event() *Record {
	return &Record{
		Type: TypeTokenTransferred,
		Attributes: map[string]string{
			"from":   e.From.String(),
			"to":     e.To.String(),
			"amount": strconv.FormatUint(e.Amount, 10),
		},
	}
}

// AccountFrozen captures a freeze of a token account.
type AccountFrozen struct {
	Account solana.PublicKey
}

func (AccountFrozen) EventType() string { return TypeAccountFrozen }

func (e AccountFrozen) Event() *Record {
	return &Record{
		Type:       TypeAccountFrozen,
		Attributes: map[string]string{"account": e.Account.String()},
	}
}

// AccountThawed captures a thaw of a token account.
type AccountThawed struct {
	Account solana.PublicKey
}

func (AccountThawed) EventType() string { return TypeAccountThawed }

func (e AccountThawed) Event() *Record {
	return &Record{
		Type:       TypeAccountThawed,
		Attributes: map[string]string{"account": e.Account.String()},
	}
}

// PolicyInitialized captures the one-time policy creation.
type PolicyInitialized struct {
	Admin            solana.PublicKey
	UpgradeAuthority solana.PublicKey
	ClaimPeriod      int64
	TimeLockEnabled  bool
}

func (PolicyInitialized) EventType() string { return TypePolicyInitialized }

func (e PolicyInitialized) Event() *Record {
	return &Record{
		Type: TypePolicyInitialized,
		Attributes: map[string]string{
			"admin":            e.Admin.String(),
			"upgradeAuthority": e.UpgradeAuthority.String(),
			"claimPeriodSecs":  strconv.FormatInt(e.ClaimPeriod, 10),
			"timeLockEnabled":  strconv.FormatBool(e.TimeLockEnabled),
		},
	}
}

// MintCreated captures the binding of the token mint to the policy record.
type MintCreated struct {
	Mint     solana.PublicKey
	Name     string
	Symbol   string
	Decimals uint8
	Updated  bool
}

func (MintCreated) EventType() string { return TypeMintCreated }

func (e MintCreated) Event() *Record {
	return &Record{
		Type: TypeMintCreated,
		Attributes: map[string]string{
			"mint":     e.Mint.String(),
			"name":     e.Name,
			"symbol":   e.Symbol,
			"decimals": strconv.FormatUint(uint64(e.Decimals), 10),
			"updated":  strconv.FormatBool(e.Updated),
		},
	}
}

// TreasuryCreated captures the binding of the treasury token account.
type TreasuryCreated struct {
	Treasury solana.PublicKey
}

func (TreasuryCreated) EventType() string { return TypeTreasuryCreated }

func (e TreasuryCreated) Event() *Record {
	return &Record{
		Type:       TypeTreasuryCreated,
		Attributes: map[string]string{"treasury": e.Treasury.String()},
	}
}

// TransfersChanged captures pause/resume/permanent transitions of the transfer latch.
type TransfersChanged struct {
	Mode      string
	Timestamp int64
	Permanent bool
}

func (e TransfersChanged) EventType() string {
	switch {
	case e.Permanent:
		return TypeTransfersPermanent
	case e.Mode == "enabled":
		return TypeTransfersResumed
	default:
		return TypeTransfersPaused
	}
}

func (e TransfersChanged) Event() *Record {
	return &Record{
		Type: e.EventType(),
		Attributes: map[string]string{
			"mode":      e.Mode,
			"timestamp": strconv.FormatInt(e.Timestamp, 10),
		},
	}
}

// TimeLockUpdated captures changes to the claim-period policy.
type TimeLockUpdated struct {
	ClaimPeriod     int64
	TimeLockEnabled bool
}

func (TimeLockUpdated) EventType() string { return TypeTimeLockUpdated }

func (e TimeLockUpdated) Event() *Record {
	return &Record{
		Type: TypeTimeLockUpdated,
		Attributes: map[string]string{
			"claimPeriodSecs": strconv.FormatInt(e.ClaimPeriod, 10),
			"timeLockEnabled": strconv.FormatBool(e.TimeLockEnabled),
		},
	}
}

// UpgradeAuthorityChanged captures a rotation or permanent removal of the
// upgrade authority.
type UpgradeAuthorityChanged struct {
	Previous solana.PublicKey
	Current  solana.PublicKey
	Removed  bool
}

func (UpgradeAuthorityChanged) EventType() string { return TypeUpgradeAuthorityChanged }

func (e UpgradeAuthorityChanged) Event() *Record {
	return &Record{
		Type: TypeUpgradeAuthorityChanged,
		Attributes: map[string]string{
			"previous": e.Previous.String(),
			"current":  e.Current.String(),
			"removed":  strconv.FormatBool(e.Removed),
		},
	}
}
