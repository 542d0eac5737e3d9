package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/gagliardetto/solana-go"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"mercle/config"
	"mercle/core/events"
	"mercle/crypto"
	"mercle/ledger"
	"mercle/native/token"
	"mercle/observability/logging"
	"mercle/storage"
)

const adminPassEnv = "MERCLE_ADMIN_PASS"

func main() {
	configFile := flag.String("config", "./config.toml", "Path to the configuration file")
	metricsAddr := flag.String("metrics", ":9464", "Listen address for the Prometheus metrics endpoint")
	flag.Parse()

	env := strings.TrimSpace(os.Getenv("MERCLE_ENV"))
	logger := logging.Setup("mercled", env)

	cfg, err := config.Load(*configFile)
	if err != nil {
		logger.Error("failed to load config", "err", err)
		os.Exit(1)
	}

	adminKey, err := crypto.LoadFromKeystore(cfg.AdminKeystorePath, os.Getenv(adminPassEnv))
	if err != nil {
		logger.Error("failed to load admin keystore", "path", cfg.AdminKeystorePath, "err", err)
		os.Exit(1)
	}
	admin := adminKey.PubKey()

	programID, err := resolveProgramID(cfg, admin)
	if err != nil {
		logger.Error("invalid program identity", "err", err)
		os.Exit(1)
	}

	db, err := storage.NewLevelDB(filepath.Join(cfg.DataDir, "state"))
	if err != nil {
		logger.Error("failed to open state database", "dir", cfg.DataDir, "err", err)
		os.Exit(1)
	}
	defer db.Close()

	engine, err := token.NewEngine(programID, token.NewState(db), ledger.NewMemory())
	if err != nil {
		logger.Error("failed to construct token engine", "err", err)
		os.Exit(1)
	}
	engine.SetLogger(logger)
	engine.SetEmitter(events.NewLogEmitter(logger))

	if err := bootstrapPolicy(engine, cfg, admin); err != nil {
		logger.Error("failed to bootstrap token policy", "err", err)
		os.Exit(1)
	}

	logger.Info("mercled started",
		"programID", programID.String(),
		"authority", engine.Authority().String(),
		"admin", admin.String(),
		"metrics", *metricsAddr,
	)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	server := &http.Server{Addr: *metricsAddr, Handler: mux}
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("metrics server failed", "err", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	logger.Info("shutting down")
	_ = server.Close()
}

// resolveProgramID parses the configured program identity, falling back to
// the admin key in development so a fresh node starts without extra setup.
func resolveProgramID(cfg *config.Config, admin solana.PublicKey) (solana.PublicKey, error) {
	if strings.TrimSpace(cfg.ProgramID) == "" {
		return admin, nil
	}
	programID, err := solana.PublicKeyFromBase58(cfg.ProgramID)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("parse ProgramID: %w", err)
	}
	return programID, nil
}

// bootstrapPolicy initialises the policy record on first start. An existing
// record is left untouched.
func bootstrapPolicy(engine *token.Engine, cfg *config.Config, admin solana.PublicKey) error {
	err := engine.InitializePolicy(token.InitializePolicyArgs{
		Admin:              admin,
		UpgradeAuthority:   admin,
		ClaimPeriodSeconds: cfg.ClaimPeriodSeconds,
		TimeLockEnabled:    cfg.TimeLockEnabled,
		Upgradeable:        cfg.Upgradeable,
	})
	if err == token.ErrPolicyAlreadyInitialized {
		return nil
	}
	return err
}
