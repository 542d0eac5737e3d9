package token

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/gagliardetto/solana-go"

	"mercle/core/events"
	"mercle/ledger"
	"mercle/observability"
)

// authoritySeed derives the program's minting/freezing authority.
var authoritySeed = []byte("token_state")

// DeriveAuthority returns the program-derived authority that holds mint and
// freeze rights over the token, together with its bump seed.
func DeriveAuthority(programID solana.PublicKey) (solana.PublicKey, uint8, error) {
	authority, bump, err := solana.FindProgramAddress([][]byte{authoritySeed}, programID)
	if err != nil {
		return solana.PublicKey{}, 0, fmt.Errorf("token: derive authority: %w", err)
	}
	return authority, bump, nil
}

// Engine implements the token program's operation surface: policy lifecycle,
// admin-gated treasury and freeze operations, the transfer latch, and the
// claim transition. All persistent state flows through the State manager and
// all balance changes through the external token ledger.
type Engine struct {
	programID solana.PublicKey
	authority solana.PublicKey
	bump      uint8

	state   *State
	tokens  ledger.TokenLedger
	emitter events.Emitter
	logger  *slog.Logger
	metrics *observability.TokenMetrics
	nowFn   func() int64
}

// NewEngine wires an engine for the program identified by programID.
func NewEngine(programID solana.PublicKey, state *State, tokens ledger.TokenLedger) (*Engine, error) {
	if state == nil {
		return nil, fmt.Errorf("token: state required")
	}
	if tokens == nil {
		return nil, fmt.Errorf("token: token ledger required")
	}
	authority, bump, err := DeriveAuthority(programID)
	if err != nil {
		return nil, err
	}
	return &Engine{
		programID: programID,
		authority: authority,
		bump:      bump,
		state:     state,
		tokens:    tokens,
		emitter:   events.NoopEmitter{},
		logger:    slog.Default(),
		metrics:   observability.Token(),
		nowFn:     func() int64 { return time.Now().Unix() },
	}, nil
}

// ProgramID returns the program identity bound into signed claim messages.
func (e *Engine) ProgramID() solana.PublicKey { return e.programID }

// Authority returns the program-derived mint/freeze authority.
func (e *Engine) Authority() solana.PublicKey { return e.authority }

// SetEmitter configures the event emitter. Passing nil resets it to a no-op.
func (e *Engine) SetEmitter(emitter events.Emitter) {
	if emitter == nil {
		e.emitter = events.NoopEmitter{}
		return
	}
	e.emitter = emitter
}

// SetLogger overrides the structured logger used for operation logging.
func (e *Engine) SetLogger(logger *slog.Logger) {
	if logger == nil {
		e.logger = slog.Default()
		return
	}
	e.logger = logger
}

// SetNowFunc overrides the time source. Primarily intended for tests to
// provide deterministic timestamps.
func (e *Engine) SetNowFunc(now func() int64) {
	if now == nil {
		e.nowFn = func() int64 { return time.Now().Unix() }
		return
	}
	e.nowFn = now
}

func (e *Engine) now() int64 { return e.nowFn() }

func (e *Engine) emit(evt events.Event) {
	if e.emitter != nil {
		e.emitter.Emit(evt)
	}
}

// loadPolicy fetches the policy record, failing when uninitialised.
func (e *Engine) loadPolicy() (*PolicyState, error) {
	policy, ok, err := e.state.Policy()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrPolicyNotInitialized
	}
	return policy, nil
}

// loadPolicyForAdmin fetches the policy and authenticates the caller.
func (e *Engine) loadPolicyForAdmin(caller solana.PublicKey) (*PolicyState, error) {
	policy, err := e.loadPolicy()
	if err != nil {
		return nil, err
	}
	if !policy.Admin.Equals(caller) {
		return nil, ErrUnauthorizedAdmin
	}
	return policy, nil
}

func validateClaimPeriod(seconds int64, minimum int64) error {
	if seconds < minimum || seconds > MaxClaimPeriodSeconds {
		return ErrInvalidClaimPeriod
	}
	return nil
}

// InitializePolicyArgs carries the one-time policy configuration.
type InitializePolicyArgs struct {
	Admin              solana.PublicKey
	UpgradeAuthority   solana.PublicKey
	ClaimPeriodSeconds int64
	TimeLockEnabled    bool
	Upgradeable        bool
}

// InitializePolicy creates the singleton policy record. It fails if the
// record already exists.
func (e *Engine) InitializePolicy(args InitializePolicyArgs) error {
	if err := validateClaimPeriod(args.ClaimPeriodSeconds, MinInitialClaimPeriodSeconds); err != nil {
		return err
	}
	exists, err := e.state.PolicyExists()
	if err != nil {
		return err
	}
	if exists {
		return ErrPolicyAlreadyInitialized
	}
	policy := &PolicyState{
		Admin:              args.Admin,
		UpgradeAuthority:   args.UpgradeAuthority,
		TransferMode:       TransfersDisabled,
		ClaimPeriodSeconds: args.ClaimPeriodSeconds,
		TimeLockEnabled:    args.TimeLockEnabled,
		Upgradeable:        args.Upgradeable,
	}
	if err := e.state.PutPolicy(policy); err != nil {
		return err
	}
	e.emit(events.PolicyInitialized{
		Admin:            args.Admin,
		UpgradeAuthority: args.UpgradeAuthority,
		ClaimPeriod:      args.ClaimPeriodSeconds,
		TimeLockEnabled:  args.TimeLockEnabled,
	})
	e.logger.Info("policy initialized",
		"admin", args.Admin.String(),
		"upgradeAuthority", args.UpgradeAuthority.String(),
		"claimPeriodSecs", args.ClaimPeriodSeconds,
		"timeLock", args.TimeLockEnabled,
		"upgradeable", args.Upgradeable,
	)
	return nil
}

func validateTokenMetadata(name, symbol string) error {
	if name == "" || len(name) > MaxTokenNameLength {
		return ErrInvalidTokenName
	}
	if symbol == "" || len(symbol) > MaxTokenSymbolLength {
		return ErrInvalidTokenSymbol
	}
	return nil
}

// CreateTokenMint registers the token mint with the external ledger (mint and
// freeze authority both set to the program-derived authority) and binds it to
// the policy. Transfers start paused.
func (e *Engine) CreateTokenMint(caller, mint solana.PublicKey, decimals uint8, name, symbol string) error {
	policy, err := e.loadPolicyForAdmin(caller)
	if err != nil {
		return err
	}
	if policy.MintCreated() {
		return ErrMintAlreadyCreated
	}
	if mint.IsZero() {
		return ErrInvalidTokenMint
	}
	if err := validateTokenMetadata(name, symbol); err != nil {
		return err
	}
	if err := e.tokens.CreateMint(mint, decimals, e.authority); err != nil {
		return err
	}
	policy.Mint = mint
	policy.TokenName = name
	policy.TokenSymbol = symbol
	policy.Decimals = decimals
	policy.TransferMode = TransfersDisabled
	if err := e.state.PutPolicy(policy); err != nil {
		return err
	}
	e.emit(events.MintCreated{Mint: mint, Name: name, Symbol: symbol, Decimals: decimals})
	e.logger.Info("token mint created",
		"mint", mint.String(), "name", name, "symbol", symbol, "decimals", decimals)
	return nil
}

// UpdateTokenMint rebinds the policy to a new mint for migrations. The
// treasury is reset because it belongs to the old mint.
func (e *Engine) UpdateTokenMint(caller, mint solana.PublicKey, decimals uint8, name, symbol string) error {
	policy, err := e.loadPolicyForAdmin(caller)
	if err != nil {
		return err
	}
	if mint.IsZero() {
		return ErrInvalidTokenMint
	}
	if err := validateTokenMetadata(name, symbol); err != nil {
		return err
	}
	policy.Mint = mint
	policy.TokenName = name
	policy.TokenSymbol = symbol
	policy.Decimals = decimals
	policy.Treasury = solana.PublicKey{}
	if err := e.state.PutPolicy(policy); err != nil {
		return err
	}
	e.emit(events.MintCreated{Mint: mint, Name: name, Symbol: symbol, Decimals: decimals, Updated: true})
	e.logger.Info("token mint updated", "mint", mint.String(), "name", name, "symbol", symbol)
	return nil
}

// requireBoundAccount checks that account exists on the ledger and belongs to
// the policy's mint.
func (e *Engine) requireBoundAccount(policy *PolicyState, account solana.PublicKey) (ledger.Account, error) {
	if !policy.MintCreated() {
		return ledger.Account{}, ErrMintNotCreated
	}
	acc, ok, err := e.tokens.Account(account)
	if err != nil {
		return ledger.Account{}, err
	}
	if !ok {
		return ledger.Account{}, ErrInvalidTokenAccount
	}
	if !acc.Mint.Equals(policy.Mint) {
		return ledger.Account{}, ErrInvalidTokenAccount
	}
	return acc, nil
}

// MintTokens mints directly to a user token account (admin only). The
// destination is frozen immediately afterwards while the token is
// pre-transfer.
func (e *Engine) MintTokens(caller, destination solana.PublicKey, amount uint64) error {
	policy, err := e.loadPolicyForAdmin(caller)
	if err != nil {
		return err
	}
	if _, err := e.requireBoundAccount(policy, destination); err != nil {
		return err
	}
	if amount == 0 {
		return ErrInvalidMintAmount
	}
	if err := e.tokens.Mint(policy.Mint, destination, amount, e.authority); err != nil {
		return err
	}
	frozen := false
	if !policy.TransferMode.Permanent() {
		if err := e.tokens.Freeze(destination, policy.Mint, e.authority); err != nil {
			return err
		}
		frozen = true
	}
	e.metrics.LedgerOp("mint")
	e.metrics.Minted(amount)
	e.emit(events.TokenMinted{Destination: destination, Amount: amount})
	e.logger.Info("tokens minted",
		"destination", destination.String(), "amount", amount, "frozen", frozen)
	return nil
}

// BurnTokens burns from a user's account. The admin authorises the operation
// and the account owner must be the signing user authority.
func (e *Engine) BurnTokens(caller, userAuthority, account solana.PublicKey, amount uint64) error {
	policy, err := e.loadPolicyForAdmin(caller)
	if err != nil {
		return err
	}
	acc, err := e.requireBoundAccount(policy, account)
	if err != nil {
		return err
	}
	if amount == 0 {
		return ErrInvalidBurnAmount
	}
	if acc.Balance < amount {
		return ErrInsufficientBalance
	}
	if !acc.Owner.Equals(userAuthority) {
		return ErrUnauthorizedBurn
	}
	if err := e.tokens.Burn(policy.Mint, account, amount, userAuthority); err != nil {
		return err
	}
	e.metrics.LedgerOp("burn")
	e.metrics.Burned(amount)
	e.emit(events.TokenBurned{Source: account, Amount: amount})
	e.logger.Info("tokens burned", "account", account.String(), "amount", amount)
	return nil
}

// TransferTokens moves tokens between user accounts once transfers are
// enabled.
func (e *Engine) TransferTokens(fromAuthority, from, to solana.PublicKey, amount uint64) error {
	policy, err := e.loadPolicy()
	if err != nil {
		return err
	}
	if !policy.MintCreated() {
		return ErrMintNotCreated
	}
	if !policy.TransferMode.Allowed() {
		return ErrTransfersNotEnabled
	}
	fromAcc, err := e.requireBoundAccount(policy, from)
	if err != nil {
		return err
	}
	if _, err := e.requireBoundAccount(policy, to); err != nil {
		return err
	}
	if amount == 0 {
		return ErrInvalidTransferAmount
	}
	if fromAcc.Balance < amount {
		return ErrInsufficientBalance
	}
	if !fromAcc.Owner.Equals(fromAuthority) {
		return ErrUnauthorizedTransfer
	}
	if err := e.tokens.Transfer(policy.Mint, from, to, amount, fromAuthority); err != nil {
		return err
	}
	e.metrics.LedgerOp("transfer")
	e.emit(events.TokenTransferred{From: from, To: to, Amount: amount})
	e.logger.Info("tokens transferred", "from", from.String(), "to", to.String(), "amount", amount)
	return nil
}

// CheckTransfersEnabled fails unless transfers may currently execute.
func (e *Engine) CheckTransfersEnabled() error {
	policy, err := e.loadPolicy()
	if err != nil {
		return err
	}
	if !policy.TransferMode.Allowed() {
		return ErrTransfersPaused
	}
	return nil
}

// PauseTransfers disables transfers (admin only). Not possible once the
// permanent latch has engaged.
func (e *Engine) PauseTransfers(caller solana.PublicKey) error {
	policy, err := e.loadPolicyForAdmin(caller)
	if err != nil {
		return err
	}
	if policy.TransferMode.Permanent() {
		return ErrTransfersCannotBeDisabled
	}
	policy.TransferMode = TransfersDisabled
	if err := e.state.PutPolicy(policy); err != nil {
		return err
	}
	e.emit(events.TransfersChanged{Mode: policy.TransferMode.String(), Timestamp: e.now()})
	e.logger.Info("transfers paused", "admin", caller.String())
	return nil
}

// ResumeTransfers re-enables transfers (admin only), without engaging the
// permanent latch.
func (e *Engine) ResumeTransfers(caller solana.PublicKey) error {
	policy, err := e.loadPolicyForAdmin(caller)
	if err != nil {
		return err
	}
	if policy.TransferMode.Permanent() {
		return ErrTransfersAlreadyPermanentlyEnabled
	}
	now := e.now()
	policy.TransferMode = TransfersEnabled
	policy.TransferEnableTime = now
	if err := e.state.PutPolicy(policy); err != nil {
		return err
	}
	e.emit(events.TransfersChanged{Mode: policy.TransferMode.String(), Timestamp: now})
	e.logger.Info("transfers resumed", "admin", caller.String(), "timestamp", now)
	return nil
}

// EnableTransfersPermanently engages the one-way latch (admin only). After
// this the token trades freely forever and users may thaw their accounts.
func (e *Engine) EnableTransfersPermanently(caller solana.PublicKey) error {
	policy, err := e.loadPolicyForAdmin(caller)
	if err != nil {
		return err
	}
	if !policy.MintCreated() {
		return ErrMintNotCreated
	}
	if policy.TransferMode.Permanent() {
		return ErrTransfersAlreadyPermanentlyEnabled
	}
	now := e.now()
	policy.TransferMode = TransfersPermanentlyEnabled
	policy.TransferEnableTime = now
	if err := e.state.PutPolicy(policy); err != nil {
		return err
	}
	e.emit(events.TransfersChanged{Mode: policy.TransferMode.String(), Timestamp: now, Permanent: true})
	e.logger.Info("transfers permanently enabled", "admin", caller.String(), "timestamp", now)
	return nil
}

// FreezeTokenAccount freezes a user token account (admin only).
func (e *Engine) FreezeTokenAccount(caller, account solana.PublicKey) error {
	policy, err := e.loadPolicyForAdmin(caller)
	if err != nil {
		return err
	}
	if _, err := e.requireBoundAccount(policy, account); err != nil {
		return err
	}
	if err := e.tokens.Freeze(account, policy.Mint, e.authority); err != nil {
		return err
	}
	e.metrics.LedgerOp("freeze")
	e.emit(events.AccountFrozen{Account: account})
	e.logger.Info("account frozen", "account", account.String())
	return nil
}

// UnfreezeTokenAccount thaws a user token account (admin only).
func (e *Engine) UnfreezeTokenAccount(caller, account solana.PublicKey) error {
	policy, err := e.loadPolicyForAdmin(caller)
	if err != nil {
		return err
	}
	if _, err := e.requireBoundAccount(policy, account); err != nil {
		return err
	}
	if err := e.tokens.Thaw(account, policy.Mint, e.authority); err != nil {
		return err
	}
	e.metrics.LedgerOp("thaw")
	e.emit(events.AccountThawed{Account: account})
	e.logger.Info("account thawed", "account", account.String())
	return nil
}

// UnfreezeOwnAccount lets a user thaw their own account once transfers are
// permanently enabled. Gating on the permanent latch prevents the temporary
// unfreeze-then-pause exploit.
func (e *Engine) UnfreezeOwnAccount(user, account solana.PublicKey) error {
	policy, err := e.loadPolicy()
	if err != nil {
		return err
	}
	if !policy.MintCreated() {
		return ErrMintNotCreated
	}
	if !policy.TransferMode.Allowed() {
		return ErrTransfersNotEnabled
	}
	acc, err := e.requireBoundAccount(policy, account)
	if err != nil {
		return err
	}
	if !acc.Owner.Equals(user) {
		return ErrUnauthorizedUnfreeze
	}
	if !policy.TransferMode.Permanent() {
		return ErrTransfersNotPermanentlyEnabled
	}
	if err := e.tokens.Thaw(account, policy.Mint, e.authority); err != nil {
		return err
	}
	e.metrics.LedgerOp("thaw")
	e.emit(events.AccountThawed{Account: account})
	e.logger.Info("account thawed by owner", "account", account.String(), "owner", user.String())
	return nil
}

// UpdateTimeLock changes the claim-period policy (admin only). Updates
// enforce the tighter one-hour floor.
func (e *Engine) UpdateTimeLock(caller solana.PublicKey, claimPeriodSeconds int64, timeLockEnabled bool) error {
	policy, err := e.loadPolicyForAdmin(caller)
	if err != nil {
		return err
	}
	if err := validateClaimPeriod(claimPeriodSeconds, MinUpdatedClaimPeriodSeconds); err != nil {
		return err
	}
	policy.ClaimPeriodSeconds = claimPeriodSeconds
	policy.TimeLockEnabled = timeLockEnabled
	if err := e.state.PutPolicy(policy); err != nil {
		return err
	}
	e.emit(events.TimeLockUpdated{ClaimPeriod: claimPeriodSeconds, TimeLockEnabled: timeLockEnabled})
	e.logger.Info("time-lock updated",
		"claimPeriodSecs", claimPeriodSeconds, "timeLockEnabled", timeLockEnabled)
	return nil
}

// SetUpgradeAuthority rotates the upgrade authority. Passing nil removes it
// and makes the program permanently immutable.
func (e *Engine) SetUpgradeAuthority(caller solana.PublicKey, newAuthority *solana.PublicKey) error {
	policy, err := e.loadPolicy()
	if err != nil {
		return err
	}
	if !policy.UpgradeAuthority.Equals(caller) {
		return ErrUnauthorizedUpgradeAuthority
	}
	if !policy.Upgradeable {
		return ErrNotUpgradeable
	}
	previous := policy.UpgradeAuthority
	if newAuthority != nil {
		policy.UpgradeAuthority = *newAuthority
	} else {
		policy.UpgradeAuthority = solana.PublicKey{}
		policy.Upgradeable = false
	}
	if err := e.state.PutPolicy(policy); err != nil {
		return err
	}
	e.emit(events.UpgradeAuthorityChanged{
		Previous: previous,
		Current:  policy.UpgradeAuthority,
		Removed:  newAuthority == nil,
	})
	if newAuthority == nil {
		e.logger.Info("upgrade authority removed, program now immutable")
	} else {
		e.logger.Info("upgrade authority changed",
			"previous", previous.String(), "current", newAuthority.String())
	}
	return nil
}

// ValidateUpgrade authorises a pending upgrade: caller must be the upgrade
// authority, the program must be upgradeable, and the program-data account
// reference must be set.
func (e *Engine) ValidateUpgrade(caller, programData solana.PublicKey) error {
	policy, err := e.loadPolicy()
	if err != nil {
		return err
	}
	if !policy.UpgradeAuthority.Equals(caller) {
		return ErrUnauthorizedUpgradeAuthority
	}
	if !policy.Upgradeable {
		return ErrNotUpgradeable
	}
	if programData.IsZero() {
		return ErrInvalidProgramData
	}
	return nil
}

// CreateTreasury registers the program-owned treasury token account (admin
// only, once per mint).
func (e *Engine) CreateTreasury(caller, treasury solana.PublicKey) error {
	policy, err := e.loadPolicyForAdmin(caller)
	if err != nil {
		return err
	}
	if !policy.MintCreated() {
		return ErrMintNotCreated
	}
	if policy.TreasuryCreated() {
		return ErrTreasuryAlreadyCreated
	}
	if err := e.tokens.CreateAccount(treasury, policy.Mint, e.authority); err != nil {
		return err
	}
	policy.Treasury = treasury
	if err := e.state.PutPolicy(policy); err != nil {
		return err
	}
	e.emit(events.TreasuryCreated{Treasury: treasury})
	e.logger.Info("treasury created", "treasury", treasury.String())
	return nil
}

// loadTreasury authenticates the admin and resolves the treasury account.
func (e *Engine) loadTreasury(caller, treasury solana.PublicKey) (*PolicyState, ledger.Account, error) {
	policy, err := e.loadPolicyForAdmin(caller)
	if err != nil {
		return nil, ledger.Account{}, err
	}
	if !policy.MintCreated() {
		return nil, ledger.Account{}, ErrMintNotCreated
	}
	if !policy.TreasuryCreated() {
		return nil, ledger.Account{}, ErrTreasuryNotCreated
	}
	if !policy.Treasury.Equals(treasury) {
		return nil, ledger.Account{}, ErrInvalidTreasuryAccount
	}
	acc, err := e.requireBoundAccount(policy, treasury)
	if err != nil {
		return nil, ledger.Account{}, err
	}
	return policy, acc, nil
}

// MintToTreasury mints into the program treasury (admin only).
func (e *Engine) MintToTreasury(caller, treasury solana.PublicKey, amount uint64) error {
	policy, _, err := e.loadTreasury(caller, treasury)
	if err != nil {
		return err
	}
	if amount == 0 {
		return ErrInvalidMintAmount
	}
	if err := e.tokens.Mint(policy.Mint, treasury, amount, e.authority); err != nil {
		return err
	}
	e.metrics.LedgerOp("mint")
	e.metrics.Minted(amount)
	e.emit(events.TokenMinted{Destination: treasury, Amount: amount, Treasury: true})
	e.logger.Info("minted to treasury", "treasury", treasury.String(), "amount", amount)
	return nil
}

// BurnFromTreasury burns from the program treasury (admin only).
func (e *Engine) BurnFromTreasury(caller, treasury solana.PublicKey, amount uint64) error {
	policy, acc, err := e.loadTreasury(caller, treasury)
	if err != nil {
		return err
	}
	if amount == 0 {
		return ErrInvalidBurnAmount
	}
	if acc.Balance < amount {
		return ErrInsufficientTreasuryBalance
	}
	if err := e.tokens.Burn(policy.Mint, treasury, amount, e.authority); err != nil {
		return err
	}
	e.metrics.LedgerOp("burn")
	e.metrics.Burned(amount)
	e.emit(events.TokenBurned{Source: treasury, Amount: amount, Treasury: true})
	e.logger.Info("burned from treasury", "treasury", treasury.String(), "amount", amount)
	return nil
}

// InitializeUserState creates the claim record for a user. It fails if the
// record already exists; records are never deleted.
func (e *Engine) InitializeUserState(user solana.PublicKey) error {
	exists, err := e.state.UserStateExists(user)
	if err != nil {
		return err
	}
	if exists {
		return ErrUserStateAlreadyInitialized
	}
	state := &UserClaimState{Owner: user}
	if err := e.state.PutUserState(state); err != nil {
		return err
	}
	e.logger.Info("user claim state initialized", "user", user.String())
	return nil
}
