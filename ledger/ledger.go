// Package ledger defines the token-ledger collaborator consumed by the claim
// and policy engines. The real ledger lives in the host chain's token
// standard; the engines only depend on this interface plus the read-side
// Account view used for precondition checks.
package ledger

import (
	"errors"

	"github.com/gagliardetto/solana-go"
)

var (
	// ErrUnknownMint indicates an operation referenced a mint the ledger has
	// no record of.
	ErrUnknownMint = errors.New("ledger: unknown mint")
	// ErrUnknownAccount indicates an operation referenced a token account the
	// ledger has no record of.
	ErrUnknownAccount = errors.New("ledger: unknown account")
	// ErrMintExists indicates a mint creation for an already-registered mint.
	ErrMintExists = errors.New("ledger: mint already exists")
	// ErrAccountExists indicates a token-account creation for an existing address.
	ErrAccountExists = errors.New("ledger: account already exists")
	// ErrAuthorityMismatch indicates the supplied authority does not control
	// the mint or account.
	ErrAuthorityMismatch = errors.New("ledger: authority mismatch")
	// ErrAccountFrozen indicates a balance-moving operation on a frozen account.
	ErrAccountFrozen = errors.New("ledger: account frozen")
	// ErrAccountNotFrozen indicates a thaw of an account that is not frozen.
	ErrAccountNotFrozen = errors.New("ledger: account not frozen")
	// ErrInsufficientFunds indicates a burn or transfer exceeding the balance.
	ErrInsufficientFunds = errors.New("ledger: insufficient funds")
	// ErrMintMismatch indicates the account is not associated with the mint.
	ErrMintMismatch = errors.New("ledger: account mint mismatch")
	// ErrBalanceOverflow indicates a mint that would overflow the balance.
	ErrBalanceOverflow = errors.New("ledger: balance overflow")
)

// Account is the read-only view of a token account. The engines check Owner
// and Mint before moving any balance.
type Account struct {
	Address solana.PublicKey
	Mint    solana.PublicKey
	Owner   solana.PublicKey
	Balance uint64
	Frozen  bool
}

// TokenLedger is the external mint/burn/transfer/freeze service. Every
// balance-moving call requires the authority configured on the mint or the
// owner of the source account.
type TokenLedger interface {
	// CreateMint registers a mint whose mint and freeze authority are both
	// set to authority.
	CreateMint(mint solana.PublicKey, decimals uint8, authority solana.PublicKey) error
	// CreateAccount registers a token account for mint owned by owner.
	CreateAccount(account, mint, owner solana.PublicKey) error
	// Account returns the read-side view of a token account.
	Account(account solana.PublicKey) (Account, bool, error)
	// Mint credits amount to destination; authority must be the mint authority.
	Mint(mint, destination solana.PublicKey, amount uint64, authority solana.PublicKey) error
	// Burn debits amount from source; authority must be the account owner or
	// the mint authority.
	Burn(mint, source solana.PublicKey, amount uint64, authority solana.PublicKey) error
	// Transfer moves amount between accounts; authority must own from.
	Transfer(mint, from, to solana.PublicKey, amount uint64, authority solana.PublicKey) error
	// Freeze marks the account frozen; authority must be the freeze authority.
	Freeze(account, mint, authority solana.PublicKey) error
	// Thaw unmarks a frozen account; authority must be the freeze authority.
	Thaw(account, mint, authority solana.PublicKey) error
}
