package token

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/gagliardetto/solana-go"

	"mercle/storage"
)

var (
	policyKey       = []byte("token/policy")
	userStatePrefix = []byte("token/user/")
)

// storedPolicyState is the RLP-friendly form of PolicyState. RLP carries only
// unsigned integers, so timestamps and the claim period are stored as uint64;
// both are non-negative by construction.
type storedPolicyState struct {
	Admin              [32]byte
	UpgradeAuthority   [32]byte
	Mint               [32]byte
	Treasury           [32]byte
	TransferMode       uint8
	TransferEnableTime uint64
	ClaimPeriodSeconds uint64
	TimeLockEnabled    bool
	Upgradeable        bool
	TokenName          string
	TokenSymbol        string
	Decimals           uint8
}

type storedUserClaimState struct {
	Owner                [32]byte
	Nonce                uint64
	LastClaimTime        uint64
	NextAllowedClaimTime uint64
	TotalClaims          uint64
}

// State persists the policy singleton and per-user claim records in the
// underlying key-value store.
type State struct {
	db storage.Database
}

// NewState binds a state manager to the provided database.
func NewState(db storage.Database) *State {
	return &State{db: db}
}

func userStateKey(owner solana.PublicKey) []byte {
	key := make([]byte, 0, len(userStatePrefix)+solana.PublicKeyLength)
	key = append(key, userStatePrefix...)
	key = append(key, owner[:]...)
	return key
}

// PolicyExists reports whether the policy record has been created.
func (s *State) PolicyExists() (bool, error) {
	if s == nil || s.db == nil {
		return false, fmt.Errorf("token state: database not configured")
	}
	return s.db.Has(policyKey)
}

// PutPolicy writes the policy record.
func (s *State) PutPolicy(policy *PolicyState) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("token state: database not configured")
	}
	if policy == nil {
		return fmt.Errorf("token state: nil policy")
	}
	stored := storedPolicyState{
		Admin:              policy.Admin,
		UpgradeAuthority:   policy.UpgradeAuthority,
		Mint:               policy.Mint,
		Treasury:           policy.Treasury,
		TransferMode:       uint8(policy.TransferMode),
		TransferEnableTime: uint64(policy.TransferEnableTime),
		ClaimPeriodSeconds: uint64(policy.ClaimPeriodSeconds),
		TimeLockEnabled:    policy.TimeLockEnabled,
		Upgradeable:        policy.Upgradeable,
		TokenName:          policy.TokenName,
		TokenSymbol:        policy.TokenSymbol,
		Decimals:           policy.Decimals,
	}
	encoded, err := rlp.EncodeToBytes(&stored)
	if err != nil {
		return fmt.Errorf("token state: encode policy: %w", err)
	}
	return s.db.Put(policyKey, encoded)
}

// Policy loads the policy record. The boolean reports whether it exists.
func (s *State) Policy() (*PolicyState, bool, error) {
	if s == nil || s.db == nil {
		return nil, false, fmt.Errorf("token state: database not configured")
	}
	raw, err := s.db.Get(policyKey)
	if errors.Is(err, storage.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var stored storedPolicyState
	if err := rlp.DecodeBytes(raw, &stored); err != nil {
		return nil, false, fmt.Errorf("token state: decode policy: %w", err)
	}
	mode := TransferMode(stored.TransferMode)
	if !mode.Valid() {
		return nil, false, fmt.Errorf("token state: corrupt transfer mode %d", stored.TransferMode)
	}
	policy := &PolicyState{
		Admin:              stored.Admin,
		UpgradeAuthority:   stored.UpgradeAuthority,
		Mint:               stored.Mint,
		Treasury:           stored.Treasury,
		TransferMode:       mode,
		TransferEnableTime: int64(stored.TransferEnableTime),
		ClaimPeriodSeconds: int64(stored.ClaimPeriodSeconds),
		TimeLockEnabled:    stored.TimeLockEnabled,
		Upgradeable:        stored.Upgradeable,
		TokenName:          stored.TokenName,
		TokenSymbol:        stored.TokenSymbol,
		Decimals:           stored.Decimals,
	}
	return policy, true, nil
}

// UserStateExists reports whether a claim record exists for the owner.
func (s *State) UserStateExists(owner solana.PublicKey) (bool, error) {
	if s == nil || s.db == nil {
		return false, fmt.Errorf("token state: database not configured")
	}
	return s.db.Has(userStateKey(owner))
}

// PutUserState writes the per-user claim record.
func (s *State) PutUserState(state *UserClaimState) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("token state: database not configured")
	}
	if state == nil {
		return fmt.Errorf("token state: nil user state")
	}
	stored := storedUserClaimState{
		Owner:                state.Owner,
		Nonce:                state.Nonce,
		LastClaimTime:        uint64(state.LastClaimTime),
		NextAllowedClaimTime: uint64(state.NextAllowedClaimTime),
		TotalClaims:          state.TotalClaims,
	}
	encoded, err := rlp.EncodeToBytes(&stored)
	if err != nil {
		return fmt.Errorf("token state: encode user state: %w", err)
	}
	return s.db.Put(userStateKey(state.Owner), encoded)
}

// UserState loads the claim record for owner. The boolean reports existence.
func (s *State) UserState(owner solana.PublicKey) (*UserClaimState, bool, error) {
	if s == nil || s.db == nil {
		return nil, false, fmt.Errorf("token state: database not configured")
	}
	raw, err := s.db.Get(userStateKey(owner))
	if errors.Is(err, storage.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var stored storedUserClaimState
	if err := rlp.DecodeBytes(raw, &stored); err != nil {
		return nil, false, fmt.Errorf("token state: decode user state: %w", err)
	}
	state := &UserClaimState{
		Owner:                stored.Owner,
		Nonce:                stored.Nonce,
		LastClaimTime:        int64(stored.LastClaimTime),
		NextAllowedClaimTime: int64(stored.NextAllowedClaimTime),
		TotalClaims:          stored.TotalClaims,
	}
	return state, true, nil
}
