package token

import (
	"errors"
	"math"

	"github.com/gagliardetto/solana-go"

	"mercle/core/events"
	"mercle/observability/logging"
	"mercle/sigverify"
)

// ClaimArgs carries a claim request. AdminSignature must always be present;
// UserSignature is optional and, when zero, only the admin co-signature is
// verified.
type ClaimArgs struct {
	User               solana.PublicKey
	DestinationAccount solana.PublicKey
	Payload            ClaimPayload
	UserSignature      solana.Signature
	AdminSignature     solana.Signature
}

// Claim executes the signed-claim transition. Every precondition is checked
// before any state is written, so a failed claim leaves the ledger and the
// user's claim record untouched. Signatures are authenticated against the
// introspected ed25519 verification instructions preceding the current one.
func (e *Engine) Claim(intro sigverify.Introspector, args ClaimArgs) error {
	policy, err := e.loadPolicy()
	if err != nil {
		return err
	}
	if !policy.MintCreated() {
		return e.rejectClaim("mint_not_created", ErrMintNotCreated)
	}
	acc, ok, err := e.tokens.Account(args.DestinationAccount)
	if err != nil {
		return err
	}
	if !ok || !acc.Mint.Equals(policy.Mint) {
		return e.rejectClaim("invalid_account", ErrInvalidTokenAccount)
	}

	// The signed payload names the destination explicitly and it must be
	// the claimant's own account.
	if !args.Payload.Destination.Equals(args.DestinationAccount) || !acc.Owner.Equals(args.User) {
		return e.rejectClaim("destination_mismatch", ErrUnauthorizedDestination)
	}
	if args.Payload.Amount == 0 {
		return e.rejectClaim("zero_amount", ErrInvalidMintAmount)
	}

	state, ok, err := e.state.UserState(args.User)
	if err != nil {
		return err
	}
	if !ok {
		return e.rejectClaim("no_user_state", ErrUserStateNotInitialized)
	}
	if !state.Owner.Equals(args.User) {
		return e.rejectClaim("state_owner_mismatch", ErrInvalidUserState)
	}
	if args.Payload.Nonce != state.Nonce {
		return e.rejectClaim("invalid_nonce", ErrInvalidNonce)
	}

	now := e.now()
	if policy.TimeLockEnabled {
		if now < state.NextAllowedClaimTime {
			return e.rejectClaim("time_locked", ErrClaimTimeLocked)
		}
		if state.TotalClaims > 0 && now < state.LastClaimTime+policy.ClaimPeriodSeconds {
			return e.rejectClaim("period_not_elapsed", ErrClaimPeriodNotElapsed)
		}
	} else if state.TotalClaims > 0 && now <= state.LastClaimTime {
		return e.rejectClaim("too_soon", ErrClaimTooSoon)
	}
	if now > args.Payload.Expiry {
		return e.rejectClaim("expired", ErrClaimExpired)
	}

	if args.AdminSignature.IsZero() {
		return e.rejectClaim("missing_admin_signature", ErrInvalidAdminSignature)
	}
	message, err := BuildClaimMessage(ClaimContext{
		ProgramID:          e.programID,
		Authority:          policy.Admin,
		Mint:               policy.Mint,
		Claimant:           args.User,
		DestinationAccount: args.DestinationAccount,
	}, args.Payload)
	if err != nil {
		return e.rejectClaim("invalid_payload", err)
	}
	expected := []sigverify.ExpectedSigner{
		{Role: sigverify.RoleAdmin, PublicKey: policy.Admin, Signature: args.AdminSignature},
	}
	if !args.UserSignature.IsZero() {
		expected = append(expected, sigverify.ExpectedSigner{
			Role: sigverify.RoleUser, PublicKey: args.User, Signature: args.UserSignature,
		})
	}
	if err := sigverify.VerifyPairs(intro, message, expected...); err != nil {
		switch {
		case errors.Is(err, sigverify.ErrAdminSignatureNotVerified):
			return e.rejectClaim("admin_signature", ErrInvalidAdminSignature)
		case errors.Is(err, sigverify.ErrUserSignatureNotVerified):
			return e.rejectClaim("user_signature", ErrInvalidUserSignature)
		default:
			return e.rejectClaim("signature", err)
		}
	}

	if state.Nonce == math.MaxUint64 {
		return e.rejectClaim("nonce_overflow", ErrNonceOverflow)
	}
	if state.TotalClaims == math.MaxUint64 {
		return e.rejectClaim("claim_count_overflow", ErrClaimCountOverflow)
	}
	if policy.TimeLockEnabled {
		if now > math.MaxInt64-policy.ClaimPeriodSeconds {
			return e.rejectClaim("timestamp_overflow", ErrTimestampOverflow)
		}
	} else if now == math.MaxInt64 {
		return e.rejectClaim("timestamp_overflow", ErrTimestampOverflow)
	}

	// Preconditions hold; apply effects.
	if err := e.tokens.Mint(policy.Mint, args.DestinationAccount, args.Payload.Amount, e.authority); err != nil {
		return err
	}
	frozen := false
	if !policy.TransferMode.Permanent() {
		if err := e.tokens.Freeze(args.DestinationAccount, policy.Mint, e.authority); err != nil {
			return err
		}
		frozen = true
	}

	state.Nonce++
	state.TotalClaims++
	state.LastClaimTime = now
	if policy.TimeLockEnabled {
		state.NextAllowedClaimTime = now + policy.ClaimPeriodSeconds
	} else {
		state.NextAllowedClaimTime = now + 1
	}
	if err := e.state.PutUserState(state); err != nil {
		return err
	}

	e.metrics.ClaimAccepted()
	e.metrics.Minted(args.Payload.Amount)
	e.emit(events.ClaimCompleted{
		User:        args.User,
		Destination: args.DestinationAccount,
		Amount:      args.Payload.Amount,
		Nonce:       state.Nonce,
		TotalClaims: state.TotalClaims,
		Frozen:      frozen,
	})
	e.logger.Info("claim completed",
		"user", args.User.String(),
		"destination", args.DestinationAccount.String(),
		"amount", args.Payload.Amount,
		"nonce", state.Nonce,
		"totalClaims", state.TotalClaims,
		"adminSig", logging.SignaturePreview(args.AdminSignature),
	)
	return nil
}

func (e *Engine) rejectClaim(reason string, err error) error {
	e.metrics.ClaimRejected(reason)
	e.logger.Debug("claim rejected", "reason", reason, "err", err)
	return err
}
