package token

import (
	"testing"

	"mercle/storage"
)

func TestPolicyRoundTrip(t *testing.T) {
	state := NewState(storage.NewMemDB())

	if _, ok, err := state.Policy(); err != nil || ok {
		t.Fatalf("empty store: ok=%v err=%v", ok, err)
	}

	policy := &PolicyState{
		Admin:              randomKey(t),
		UpgradeAuthority:   randomKey(t),
		Mint:               randomKey(t),
		Treasury:           randomKey(t),
		TransferMode:       TransfersEnabled,
		TransferEnableTime: 1_700_000_123,
		ClaimPeriodSeconds: 86400,
		TimeLockEnabled:    true,
		Upgradeable:        true,
		TokenName:          "Riyal Token",
		TokenSymbol:        "RYL",
		Decimals:           9,
	}
	if err := state.PutPolicy(policy); err != nil {
		t.Fatalf("PutPolicy: %v", err)
	}

	got, ok, err := state.Policy()
	if err != nil || !ok {
		t.Fatalf("Policy: ok=%v err=%v", ok, err)
	}
	if *got != *policy {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got, policy)
	}

	exists, err := state.PolicyExists()
	if err != nil || !exists {
		t.Fatalf("PolicyExists: exists=%v err=%v", exists, err)
	}
}

func TestUserStateRoundTrip(t *testing.T) {
	state := NewState(storage.NewMemDB())
	owner := randomKey(t)

	if _, ok, err := state.UserState(owner); err != nil || ok {
		t.Fatalf("empty store: ok=%v err=%v", ok, err)
	}

	record := &UserClaimState{
		Owner:                owner,
		Nonce:                12,
		LastClaimTime:        1_700_000_500,
		NextAllowedClaimTime: 1_700_004_100,
		TotalClaims:          12,
	}
	if err := state.PutUserState(record); err != nil {
		t.Fatalf("PutUserState: %v", err)
	}

	got, ok, err := state.UserState(owner)
	if err != nil || !ok {
		t.Fatalf("UserState: ok=%v err=%v", ok, err)
	}
	if *got != *record {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got, record)
	}

	// Records are keyed by owner, so another owner stays absent.
	if _, ok, err := state.UserState(randomKey(t)); err != nil || ok {
		t.Fatalf("foreign owner: ok=%v err=%v", ok, err)
	}
}
