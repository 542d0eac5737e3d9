package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"os"

	"github.com/gagliardetto/solana-go"

	"mercle/crypto"
	"mercle/native/token"
)

const passEnv = "MERCLE_KEY_PASS"

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}
	var err error
	switch os.Args[1] {
	case "keygen":
		err = runKeygen(os.Args[2:])
	case "pubkey":
		err = runPubkey(os.Args[2:])
	case "sign-claim":
		err = runSignClaim(os.Args[2:])
	default:
		usage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: mercle-cli <command> [flags]

commands:
  keygen      generate a keypair and write an encrypted keystore
  pubkey      print the public key of a keystore
  sign-claim  sign a claim payload with the keystore key

the keystore passphrase is read from MERCLE_KEY_PASS`)
}

func runKeygen(args []string) error {
	fs := flag.NewFlagSet("keygen", flag.ExitOnError)
	out := fs.String("out", "./admin.keystore", "Keystore output path")
	fs.Parse(args)

	key, err := crypto.GeneratePrivateKey()
	if err != nil {
		return err
	}
	if err := crypto.SaveToKeystore(*out, key, os.Getenv(passEnv)); err != nil {
		return err
	}
	fmt.Println(key.PubKey().String())
	return nil
}

func runPubkey(args []string) error {
	fs := flag.NewFlagSet("pubkey", flag.ExitOnError)
	keystore := fs.String("keystore", "./admin.keystore", "Keystore path")
	fs.Parse(args)

	key, err := crypto.LoadFromKeystore(*keystore, os.Getenv(passEnv))
	if err != nil {
		return err
	}
	fmt.Println(key.PubKey().String())
	return nil
}

func runSignClaim(args []string) error {
	fs := flag.NewFlagSet("sign-claim", flag.ExitOnError)
	keystore := fs.String("keystore", "./admin.keystore", "Keystore path")
	program := fs.String("program", "", "Program identity (base58)")
	mint := fs.String("mint", "", "Token mint (base58)")
	user := fs.String("user", "", "Claimant wallet (base58)")
	dest := fs.String("dest", "", "Destination token account (base58)")
	amount := fs.Uint64("amount", 0, "Claim amount in base units")
	expiry := fs.Int64("expiry", 0, "Unix expiry timestamp (inclusive)")
	nonce := fs.Uint64("nonce", 0, "Expected claim nonce")
	fs.Parse(args)

	key, err := crypto.LoadFromKeystore(*keystore, os.Getenv(passEnv))
	if err != nil {
		return err
	}

	programID, err := solana.PublicKeyFromBase58(*program)
	if err != nil {
		return fmt.Errorf("parse -program: %w", err)
	}
	mintKey, err := solana.PublicKeyFromBase58(*mint)
	if err != nil {
		return fmt.Errorf("parse -mint: %w", err)
	}
	userKey, err := solana.PublicKeyFromBase58(*user)
	if err != nil {
		return fmt.Errorf("parse -user: %w", err)
	}
	destKey, err := solana.PublicKeyFromBase58(*dest)
	if err != nil {
		return fmt.Errorf("parse -dest: %w", err)
	}

	message, err := token.BuildClaimMessage(token.ClaimContext{
		ProgramID:          programID,
		Authority:          key.PubKey(),
		Mint:               mintKey,
		Claimant:           userKey,
		DestinationAccount: destKey,
	}, token.ClaimPayload{
		Destination: destKey,
		Amount:      *amount,
		Expiry:      *expiry,
		Nonce:       *nonce,
	})
	if err != nil {
		return err
	}
	sig, err := key.Sign(message)
	if err != nil {
		return err
	}
	fmt.Println("message:  ", hex.EncodeToString(message))
	fmt.Println("signature:", sig.String())
	fmt.Println("signer:   ", key.PubKey().String())
	return nil
}
