package app

import (
	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/log"
	apperrors "github.com/celestiaorg/taxhook/app/errors"
	taxhooktypes "github.com/celestiaorg/taxhook/x/taxhook/types"
	tokentypes "github.com/celestiaorg/taxhook/x/token/types"
)

// rejectedTxMsg is logged for every transaction that fails.
const rejectedTxMsg = "transaction rejected"

// TxErrorLoggerWrapper wraps a logger to change the log level for specific transaction error messages.
// Rejections caused by the client, such as a missing signature or an
// unfunded fee holding, are logged at DEBUG instead of INFO.
type TxErrorLoggerWrapper struct {
	logger log.Logger
}

// NewTxErrorLoggerWrapper creates a new logger wrapper that downgrades transaction error logs.
func NewTxErrorLoggerWrapper(logger log.Logger) log.Logger {
	return &TxErrorLoggerWrapper{logger: logger}
}

// Info logs an info message, but downgrades expected transaction rejections to debug level.
func (l *TxErrorLoggerWrapper) Info(msg string, keyvals ...interface{}) {
	if msg == rejectedTxMsg && l.isClientError(keyvals...) {
		l.logger.Debug(msg, keyvals...)
		return
	}
	l.logger.Info(msg, keyvals...)
}

// isClientError checks if the logged error is a registered rejection of one
// of the programs or of the transaction runtime.
func (l *TxErrorLoggerWrapper) isClientError(keyvals ...interface{}) bool {
	for i := 0; i < len(keyvals)-1; i += 2 {
		if key, ok := keyvals[i].(string); ok && key == "err" {
			err, ok := keyvals[i+1].(error)
			if !ok {
				return false
			}
			codespace, _, _ := errorsmod.ABCIInfo(err, false)
			switch codespace {
			case apperrors.AppErrorsCodespace, taxhooktypes.ModuleName, tokentypes.ModuleName:
				return true
			}
			return false
		}
	}
	return false
}

// Debug passes through to the underlying logger
func (l *TxErrorLoggerWrapper) Debug(msg string, keyvals ...interface{}) {
	l.logger.Debug(msg, keyvals...)
}

// Error passes through to the underlying logger
func (l *TxErrorLoggerWrapper) Error(msg string, keyvals ...interface{}) {
	l.logger.Error(msg, keyvals...)
}

// Warn passes through to the underlying logger
func (l *TxErrorLoggerWrapper) Warn(msg string, keyvals ...interface{}) {
	l.logger.Warn(msg, keyvals...)
}

// With passes through to the underlying logger
func (l *TxErrorLoggerWrapper) With(keyvals ...interface{}) log.Logger {
	return &TxErrorLoggerWrapper{logger: l.logger.With(keyvals...)}
}

// Impl returns the underlying logger implementation
func (l *TxErrorLoggerWrapper) Impl() any {
	return l.logger.Impl()
}
