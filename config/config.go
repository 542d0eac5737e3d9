package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"mercle/crypto"
	"mercle/native/token"
)

type Config struct {
	DataDir            string `toml:"DataDir"`
	ProgramID          string `toml:"ProgramID"`
	TokenName          string `toml:"TokenName"`
	TokenSymbol        string `toml:"TokenSymbol"`
	TokenDecimals      uint8  `toml:"TokenDecimals"`
	ClaimPeriodSeconds int64  `toml:"ClaimPeriodSeconds"`
	TimeLockEnabled    bool   `toml:"TimeLockEnabled"`
	Upgradeable        bool   `toml:"Upgradeable"`
	AdminKeystorePath  string `toml:"AdminKeystorePath"`
	Environment        string `toml:"Environment"`
}

// Load loads the configuration from the given path, creating a default file
// when none exists.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return createDefault(path)
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}

	if err := ensureKeystore(path, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the invariants a usable configuration must satisfy.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.DataDir) == "" {
		return fmt.Errorf("config: DataDir must not be empty")
	}
	if c.TokenName == "" || len(c.TokenName) > token.MaxTokenNameLength {
		return fmt.Errorf("config: TokenName must be 1..%d bytes", token.MaxTokenNameLength)
	}
	if c.TokenSymbol == "" || len(c.TokenSymbol) > token.MaxTokenSymbolLength {
		return fmt.Errorf("config: TokenSymbol must be 1..%d bytes", token.MaxTokenSymbolLength)
	}
	if c.ClaimPeriodSeconds < token.MinInitialClaimPeriodSeconds ||
		c.ClaimPeriodSeconds > token.MaxClaimPeriodSeconds {
		return fmt.Errorf("config: ClaimPeriodSeconds must be %d..%d",
			token.MinInitialClaimPeriodSeconds, token.MaxClaimPeriodSeconds)
	}
	return nil
}

func ensureKeystore(configPath string, cfg *Config) error {
	keystorePath := cfg.AdminKeystorePath
	if keystorePath == "" {
		keystorePath = defaultKeystorePath(configPath)
	}

	if _, err := os.Stat(keystorePath); os.IsNotExist(err) {
		key, genErr := crypto.GeneratePrivateKey()
		if genErr != nil {
			return genErr
		}
		if err := crypto.SaveToKeystore(keystorePath, key, ""); err != nil {
			return err
		}
	} else if err != nil {
		return err
	}

	cfg.AdminKeystorePath = keystorePath
	return nil
}

func defaultKeystorePath(configPath string) string {
	dir := filepath.Dir(configPath)
	return filepath.Join(dir, "admin.keystore")
}

func createDefault(path string) (*Config, error) {
	cfg := &Config{
		DataDir:            "./data",
		TokenName:          "Riyal Token",
		TokenSymbol:        "RYL",
		TokenDecimals:      9,
		ClaimPeriodSeconds: 86400,
		TimeLockEnabled:    true,
		Upgradeable:        true,
		Environment:        "dev",
	}

	if err := ensureKeystore(path, cfg); err != nil {
		return nil, err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
