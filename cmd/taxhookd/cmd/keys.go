package cmd

import (
	"bufio"
	"crypto/ed25519"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cosmos/go-bip39"
	"github.com/gagliardetto/solana-go"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// mnemonicEntropySize is the entropy of generated mnemonics, 24 words.
const mnemonicEntropySize = 256

func keysCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keys",
		Short: "Manage the signing keypair",
	}
	cmd.AddCommand(keysAddCommand(), keysShowCommand())
	return cmd
}

func keysAddCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create the signing keypair from a new or recovered mnemonic",
		Long: `Create the signing keypair. A new 24 word mnemonic is generated and
printed unless --recover is set, in which case the mnemonic is read from
standard input. A BIP-39 passphrase is read next and may be empty.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cctx := getClientContext(cmd)
			path := cctx.Config.KeypairPath(cctx.Home)

			force, err := cmd.Flags().GetBool(FlagForce)
			if err != nil {
				return err
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists, use --%s to overwrite", path, FlagForce)
			}
			recovering, err := cmd.Flags().GetBool(FlagRecover)
			if err != nil {
				return err
			}

			reader := bufio.NewReader(cmd.InOrStdin())
			var mnemonic string
			if recovering {
				cmd.PrintErr("Enter your bip39 mnemonic: ")
				if mnemonic, err = readLine(reader); err != nil {
					return err
				}
			} else {
				entropy, err := bip39.NewEntropy(mnemonicEntropySize)
				if err != nil {
					return err
				}
				if mnemonic, err = bip39.NewMnemonic(entropy); err != nil {
					return err
				}
			}
			passphrase, err := readPassphrase(cmd, reader)
			if err != nil {
				return err
			}

			key, err := KeyFromMnemonic(mnemonic, passphrase)
			if err != nil {
				return err
			}
			if err := WriteKeypair(path, key); err != nil {
				return err
			}
			cctx.Logger.Debug("wrote keypair", "path", path)

			cmd.Printf("address: %s\n", key.PublicKey())
			if !recovering {
				cmd.Printf("\n**Important** write this mnemonic phrase in a safe place.\nIt is the only way to recover your keypair.\n\n%s\n", mnemonic)
			}
			return nil
		},
	}
	cmd.Flags().Bool(FlagRecover, false, "Recover the keypair from an existing mnemonic")
	cmd.Flags().Bool(FlagForce, false, "Overwrite an existing keypair file")
	return cmd
}

func keysShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the address of the signing keypair",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			key, err := getClientContext(cmd).Keypair()
			if err != nil {
				return err
			}
			cmd.Println(key.PublicKey().String())
			return nil
		},
	}
}

// KeyFromMnemonic derives an ed25519 keypair from the first 32 bytes of the
// BIP-39 seed of mnemonic and passphrase.
func KeyFromMnemonic(mnemonic, passphrase string) (solana.PrivateKey, error) {
	mnemonic = strings.Join(strings.Fields(mnemonic), " ")
	if !bip39.IsMnemonicValid(mnemonic) {
		return nil, fmt.Errorf("invalid mnemonic")
	}
	seed := bip39.NewSeed(mnemonic, passphrase)
	return solana.PrivateKey(ed25519.NewKeyFromSeed(seed[:ed25519.SeedSize])), nil
}

// WriteKeypair stores key as a JSON array of its 64 bytes, the format read
// by solana-keygen.
func WriteKeypair(path string, key solana.PrivateKey) error {
	ints := make([]int, len(key))
	for i, b := range key {
		ints[i] = int(b)
	}
	bz, err := json.Marshal(ints)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(path, bz, 0o600)
}

// readPassphrase reads the passphrase without echo from a terminal, or as a
// line from the command input otherwise.
func readPassphrase(cmd *cobra.Command, reader *bufio.Reader) (string, error) {
	cmd.PrintErr("Enter an optional bip39 passphrase: ")
	if f, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		pw, err := term.ReadPassword(int(f.Fd()))
		cmd.PrintErrln()
		return string(pw), err
	}
	return readLine(reader)
}

func readLine(reader *bufio.Reader) (string, error) {
	line, err := reader.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
