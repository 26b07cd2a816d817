package cmd

const (
	// FlagHome is the directory holding the config, keypair and state.
	FlagHome = "home"
	// FlagKeypair overrides the keypair file used to sign transactions.
	FlagKeypair = "keypair"
	// FlagLogLevel sets the minimum log level.
	FlagLogLevel = "log-level"
	// FlagLogFormat selects json or plain log output.
	FlagLogFormat = "log-format"

	FlagRecover     = "recover"
	FlagForce       = "force"
	FlagHook        = "hook"
	FlagDecimals    = "decimals"
	FlagMint        = "mint"
	FlagDestination = "destination"
	FlagOutput      = "output"
)

// EnvPrefix is the prefix of environment variables overriding the config.
const EnvPrefix = "TAXHOOK"
