package ledger

import (
	"math"
	"sync"

	"github.com/gagliardetto/solana-go"
)

type mintRecord struct {
	decimals  uint8
	authority solana.PublicKey
	supply    uint64
}

// Memory is an in-process TokenLedger with the authority, frozen-account and
// balance semantics of the external token standard. It backs the engine tests
// and local deployments.
type Memory struct {
	mu       sync.RWMutex
	mints    map[solana.PublicKey]*mintRecord
	accounts map[solana.PublicKey]*Account
}

// NewMemory returns an empty in-memory ledger.
func NewMemory() *Memory {
	return &Memory{
		mints:    make(map[solana.PublicKey]*mintRecord),
		accounts: make(map[solana.PublicKey]*Account),
	}
}

// CreateMint implements TokenLedger.
func (m *Memory) CreateMint(mint solana.PublicKey, decimals uint8, authority solana.PublicKey) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.mints[mint]; ok {
		return ErrMintExists
	}
	m.mints[mint] = &mintRecord{decimals: decimals, authority: authority}
	return nil
}

// CreateAccount implements TokenLedger.
func (m *Memory) CreateAccount(account, mint, owner solana.PublicKey) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.mints[mint]; !ok {
		return ErrUnknownMint
	}
	if _, ok := m.accounts[account]; ok {
		return ErrAccountExists
	}
	m.accounts[account] = &Account{Address: account, Mint: mint, Owner: owner}
	return nil
}

// Account implements TokenLedger.
func (m *Memory) Account(account solana.PublicKey) (Account, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	acc, ok := m.accounts[account]
	if !ok {
		return Account{}, false, nil
	}
	return *acc, true, nil
}

// Supply returns the outstanding supply of the mint.
func (m *Memory) Supply(mint solana.PublicKey) (uint64, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.mints[mint]
	if !ok {
		return 0, false
	}
	return rec.supply, true
}

func (m *Memory) mintAndAccount(mint, account solana.PublicKey) (*mintRecord, *Account, error) {
	rec, ok := m.mints[mint]
	if !ok {
		return nil, nil, ErrUnknownMint
	}
	acc, ok := m.accounts[account]
	if !ok {
		return nil, nil, ErrUnknownAccount
	}
	if acc.Mint != mint {
		return nil, nil, ErrMintMismatch
	}
	return rec, acc, nil
}

// Mint implements TokenLedger.
func (m *Memory) Mint(mint, destination solana.PublicKey, amount uint64, authority solana.PublicKey) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, acc, err := m.mintAndAccount(mint, destination)
	if err != nil {
		return err
	}
	if !rec.authority.Equals(authority) {
		return ErrAuthorityMismatch
	}
	if acc.Balance > math.MaxUint64-amount || rec.supply > math.MaxUint64-amount {
		return ErrBalanceOverflow
	}
	acc.Balance += amount
	rec.supply += amount
	return nil
}

// Burn implements TokenLedger.
func (m *Memory) Burn(mint, source solana.PublicKey, amount uint64, authority solana.PublicKey) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, acc, err := m.mintAndAccount(mint, source)
	if err != nil {
		return err
	}
	if !acc.Owner.Equals(authority) && !rec.authority.Equals(authority) {
		return ErrAuthorityMismatch
	}
	if acc.Frozen {
		return ErrAccountFrozen
	}
	if acc.Balance < amount {
		return ErrInsufficientFunds
	}
	acc.Balance -= amount
	rec.supply -= amount
	return nil
}

// Transfer implements TokenLedger.
func (m *Memory) Transfer(mint, from, to solana.PublicKey, amount uint64, authority solana.PublicKey) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, src, err := m.mintAndAccount(mint, from)
	if err != nil {
		return err
	}
	_, dst, err := m.mintAndAccount(mint, to)
	if err != nil {
		return err
	}
	if !src.Owner.Equals(authority) {
		return ErrAuthorityMismatch
	}
	if src.Frozen || dst.Frozen {
		return ErrAccountFrozen
	}
	if src.Balance < amount {
		return ErrInsufficientFunds
	}
	if dst.Balance > math.MaxUint64-amount {
		return ErrBalanceOverflow
	}
	src.Balance -= amount
	dst.Balance += amount
	return nil
}

// Freeze implements TokenLedger.
func (m *Memory) Freeze(account, mint, authority solana.PublicKey) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, acc, err := m.mintAndAccount(mint, account)
	if err != nil {
		return err
	}
	if !rec.authority.Equals(authority) {
		return ErrAuthorityMismatch
	}
	acc.Frozen = true
	return nil
}

// Thaw implements TokenLedger.
func (m *Memory) Thaw(account, mint, authority solana.PublicKey) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, acc, err := m.mintAndAccount(mint, account)
	if err != nil {
		return err
	}
	if !rec.authority.Equals(authority) {
		return ErrAuthorityMismatch
	}
	if !acc.Frozen {
		return ErrAccountNotFrozen
	}
	acc.Frozen = false
	return nil
}
