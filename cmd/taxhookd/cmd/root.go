package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"cosmossdk.io/log"
	"github.com/celestiaorg/taxhook/app"
	"github.com/gagliardetto/solana-go"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// DefaultHome is the default home directory of taxhookd.
var DefaultHome = os.ExpandEnv("$HOME/.taxhook")

type clientContextKey struct{}

// ClientContext carries the resolved configuration of one invocation.
type ClientContext struct {
	Home   string
	Config Config
	Logger log.Logger
}

// Keypair loads the signing keypair.
func (c *ClientContext) Keypair() (solana.PrivateKey, error) {
	path := c.Config.KeypairPath(c.Home)
	key, err := solana.PrivateKeyFromSolanaKeygenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load keypair %s (create one with `keys add`): %w", path, err)
	}
	return key, nil
}

func getClientContext(cmd *cobra.Command) *ClientContext {
	cctx, ok := cmd.Context().Value(clientContextKey{}).(*ClientContext)
	if !ok {
		panic("client context not set")
	}
	return cctx
}

// NewRootCmd creates the root command of taxhookd.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "taxhookd",
		Short: "Operate a transfer-fee hook against a local ledger",
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SetOut(cmd.OutOrStdout())
			cmd.SetErr(cmd.ErrOrStderr())

			home, err := cmd.Flags().GetString(FlagHome)
			if err != nil {
				return err
			}
			// the environment file is optional
			if err := godotenv.Load(filepath.Join(home, ".env")); err != nil && !os.IsNotExist(err) {
				return fmt.Errorf("failed to load .env: %w", err)
			}

			v := viper.New()
			if err := bindFlags(v, cmd.Flags()); err != nil {
				return err
			}
			cfg, err := LoadConfig(v, home)
			if err != nil {
				return err
			}
			logger, err := NewLogger(cmd.ErrOrStderr(), cfg)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			cmd.SetContext(context.WithValue(ctx, clientContextKey{}, &ClientContext{
				Home:   home,
				Config: cfg,
				Logger: logger,
			}))
			return nil
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().String(FlagHome, DefaultHome, "Directory for config, keys and state")
	rootCmd.PersistentFlags().String(FlagKeypair, "", "Keypair file used to sign transactions")
	rootCmd.PersistentFlags().String(FlagLogLevel, zerolog.InfoLevel.String(), "Minimum log level")
	rootCmd.PersistentFlags().String(FlagLogFormat, "plain", "Log format (json|plain)")

	rootCmd.AddCommand(
		configCommand(),
		keysCommand(),
		mintCommand(),
		holdingCommand(),
		initCommand(),
		transferCommand(),
		withdrawCommand(),
		queryCommand(),
		feeCommand(),
	)
	return rootCmd
}

// bindFlags binds the config flags of flags to their config keys, which use
// underscores where flags use dashes.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for _, name := range []string{FlagKeypair, FlagLogLevel, FlagLogFormat} {
		if err := v.BindPFlag(strings.ReplaceAll(name, "-", "_"), flags.Lookup(name)); err != nil {
			return err
		}
	}
	return nil
}

// NewLogger builds the client logger from cfg.
func NewLogger(w io.Writer, cfg Config) (log.Logger, error) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	opts := []log.Option{log.LevelOption(level)}
	if cfg.LogFormat == "json" {
		opts = append(opts, log.OutputJSONOption())
	}
	return log.NewLogger(w, opts...).With("module", app.Name+"d"), nil
}
