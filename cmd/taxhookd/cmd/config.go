package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/celestiaorg/taxhook/app"
	"github.com/celestiaorg/taxhook/pkg/appconsts"
	taxhooktypes "github.com/celestiaorg/taxhook/x/taxhook/types"
	dbm "github.com/cosmos/cosmos-db"
	"github.com/gagliardetto/solana-go"
	"github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	configDirName  = "config"
	configFileName = "config.toml"
	keypairName    = "id.json"
)

// Config is the client configuration stored in <home>/config/config.toml.
type Config struct {
	ProgramID      string `mapstructure:"program_id" toml:"program_id" comment:"Hook program id."`
	FeeMint        string `mapstructure:"fee_mint" toml:"fee_mint" comment:"Mint in which transfer fees are charged."`
	HookedMint     string `mapstructure:"hooked_mint" toml:"hooked_mint" comment:"Mint whose transfers are taxed."`
	FeeBasisPoints uint64 `mapstructure:"fee_basis_points" toml:"fee_basis_points" comment:"Fee rate, 100 bps = 1%."`
	// Keypair is relative to the home directory unless absolute.
	Keypair   string `mapstructure:"keypair" toml:"keypair" comment:"Signing keypair in solana-keygen JSON format."`
	LogLevel  string `mapstructure:"log_level" toml:"log_level"`
	LogFormat string `mapstructure:"log_format" toml:"log_format" comment:"json or plain."`
	DBBackend string `mapstructure:"db_backend" toml:"db_backend" comment:"goleveldb or memdb."`
}

// DefaultConfig returns the configuration of the reference deployment.
func DefaultConfig() Config {
	return Config{
		ProgramID:      appconsts.DefaultHookProgramID,
		FeeMint:        appconsts.DefaultFeeMint,
		HookedMint:     appconsts.DefaultHookedMint,
		FeeBasisPoints: appconsts.DefaultFeeBasisPoints,
		Keypair:        keypairName,
		LogLevel:       zerolog.InfoLevel.String(),
		LogFormat:      "plain",
		DBBackend:      string(dbm.GoLevelDBBackend),
	}
}

// Validate checks that every field is usable.
func (c Config) Validate() error {
	keys := []struct {
		name, value string
	}{
		{"program_id", c.ProgramID},
		{"fee_mint", c.FeeMint},
		{"hooked_mint", c.HookedMint},
	}
	for _, k := range keys {
		if _, err := solana.PublicKeyFromBase58(k.value); err != nil {
			return fmt.Errorf("invalid %s %q: %w", k.name, k.value, err)
		}
	}
	if err := taxhooktypes.ValidateFeeBasisPoints(c.FeeBasisPoints); err != nil {
		return fmt.Errorf("invalid fee_basis_points: %w", err)
	}
	if c.Keypair == "" {
		return fmt.Errorf("keypair must be set")
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log_level %q: %w", c.LogLevel, err)
	}
	switch c.LogFormat {
	case "json", "plain":
	default:
		return fmt.Errorf("invalid log_format %q: must be json or plain", c.LogFormat)
	}
	switch dbm.BackendType(c.DBBackend) {
	case dbm.GoLevelDBBackend, dbm.MemDBBackend:
	default:
		return fmt.Errorf("unsupported db_backend %q", c.DBBackend)
	}
	return nil
}

// AppOptions returns the runtime options of the configured deployment.
func (c Config) AppOptions() app.Options {
	return app.Options{
		ProgramID:      solana.MustPublicKeyFromBase58(c.ProgramID),
		FeeMint:        solana.MustPublicKeyFromBase58(c.FeeMint),
		FeeBasisPoints: c.FeeBasisPoints,
	}
}

// KeypairPath resolves the keypair file against home.
func (c Config) KeypairPath(home string) string {
	if filepath.IsAbs(c.Keypair) {
		return c.Keypair
	}
	return filepath.Join(home, c.Keypair)
}

// ConfigPath returns the location of the config file under home.
func ConfigPath(home string) string {
	return filepath.Join(home, configDirName, configFileName)
}

// WriteConfig writes cfg as TOML, creating the config directory.
func WriteConfig(path string, cfg Config) error {
	bz, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return os.WriteFile(path, bz, 0o644)
}

// LoadConfig reads the config under home, layering environment variables and
// flags bound to v on top of the defaults. A missing file is not an error.
func LoadConfig(v *viper.Viper, home string) (Config, error) {
	def := DefaultConfig()
	v.SetDefault("program_id", def.ProgramID)
	v.SetDefault("fee_mint", def.FeeMint)
	v.SetDefault("hooked_mint", def.HookedMint)
	v.SetDefault("fee_basis_points", def.FeeBasisPoints)
	v.SetDefault("keypair", def.Keypair)
	v.SetDefault("log_level", def.LogLevel)
	v.SetDefault("log_format", def.LogFormat)
	v.SetDefault("db_backend", def.DBBackend)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	path := ConfigPath(home)
	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("failed to read %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return Config{}, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, cfg.Validate()
}

func configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the client configuration",
	}
	cmd.AddCommand(configInitCommand(), configShowCommand(), configSetCommand())
	return cmd
}

func configInitCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cctx := getClientContext(cmd)
			path := ConfigPath(cctx.Home)
			force, err := cmd.Flags().GetBool(FlagForce)
			if err != nil {
				return err
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists, use --%s to overwrite", path, FlagForce)
			}
			if err := WriteConfig(path, DefaultConfig()); err != nil {
				return err
			}
			cmd.Printf("wrote %s\n", path)
			return nil
		},
	}
	cmd.Flags().Bool(FlagForce, false, "Overwrite an existing config file")
	return cmd
}

func configShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			bz, err := toml.Marshal(getClientContext(cmd).Config)
			if err != nil {
				return err
			}
			cmd.Print(string(bz))
			return nil
		},
	}
}

func configSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set [key] [value]",
		Short: "Set a single configuration value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cctx := getClientContext(cmd)
			cfg, err := setConfigValue(cctx.Config, args[0], args[1])
			if err != nil {
				return err
			}
			if err := WriteConfig(ConfigPath(cctx.Home), cfg); err != nil {
				return err
			}
			cctx.Config = cfg
			return nil
		},
	}
}

func setConfigValue(cfg Config, key, value string) (Config, error) {
	switch key {
	case "program_id":
		cfg.ProgramID = value
	case "fee_mint":
		cfg.FeeMint = value
	case "hooked_mint":
		cfg.HookedMint = value
	case "fee_basis_points":
		bps, err := cast.ToUint64E(value)
		if err != nil {
			return cfg, fmt.Errorf("invalid fee_basis_points %q: %w", value, err)
		}
		cfg.FeeBasisPoints = bps
	case "keypair":
		cfg.Keypair = value
	case "log_level":
		cfg.LogLevel = value
	case "log_format":
		cfg.LogFormat = value
	case "db_backend":
		cfg.DBBackend = value
	default:
		return cfg, fmt.Errorf("unknown config key %q", key)
	}
	return cfg, cfg.Validate()
}
