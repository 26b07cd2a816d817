package types

import (
	"crypto/sha256"
	"fmt"

	errorsmod "cosmossdk.io/errors"
	"github.com/celestiaorg/taxhook/pkg/pda"
	tokentypes "github.com/celestiaorg/taxhook/x/token/types"
	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

// DiscriminatorLength is the length of the prefix identifying an instruction.
const DiscriminatorLength = 8

// Discriminator is the first eight bytes of sha256("<namespace>:<name>").
type Discriminator [DiscriminatorLength]byte

func newDiscriminator(namespace, name string) Discriminator {
	var d Discriminator
	sum := sha256.Sum256([]byte(namespace + ":" + name))
	copy(d[:], sum[:DiscriminatorLength])
	return d
}

var (
	DiscriminatorInitializeExtraAccountMetaList = newDiscriminator("global", "initialize_extra_account_meta_list")
	DiscriminatorUpdateExtraAccountMetaList     = newDiscriminator("global", "update_extra_account_meta_list")
	DiscriminatorInitializeTreasury             = newDiscriminator("global", "initialize_treasury")
	DiscriminatorWithdraw                       = newDiscriminator("global", "withdraw")
	// DiscriminatorExecute is the transfer hook interface entrypoint.
	DiscriminatorExecute = newDiscriminator("spl-transfer-hook-interface", "execute")
)

// Instruction is a decoded tax hook instruction.
type Instruction interface {
	Discriminator() Discriminator
}

// InitializeExtraAccountMetaList installs the default registry of a mint.
//
// Accounts: [payer (signer, writable), registry (writable), mint, system program]
type InitializeExtraAccountMetaList struct{}

// UpdateExtraAccountMetaList replaces the metas of a registry.
//
// Accounts: [mint authority (signer), registry (writable), mint]
type UpdateExtraAccountMetaList struct {
	Metas []ExtraAccountMeta
}

// InitializeTreasury creates the treasury of a fee mint.
//
// Accounts: [payer (signer, writable), treasury (writable), fee mint, system
// program, token program]
type InitializeTreasury struct{}

// Withdraw moves funds out of a treasury.
//
// Accounts: [authority (signer, writable), fee mint, treasury (writable),
// destination (writable), token program]
type Withdraw struct {
	Amount uint64
}

// Execute is the hook entrypoint. Only the token runtime may call it.
//
// Accounts: [source, mint, destination, authority, extra accounts...]
type Execute struct {
	Amount uint64
}

func (InitializeExtraAccountMetaList) Discriminator() Discriminator {
	return DiscriminatorInitializeExtraAccountMetaList
}

func (UpdateExtraAccountMetaList) Discriminator() Discriminator {
	return DiscriminatorUpdateExtraAccountMetaList
}

func (InitializeTreasury) Discriminator() Discriminator { return DiscriminatorInitializeTreasury }
func (Withdraw) Discriminator() Discriminator           { return DiscriminatorWithdraw }
func (Execute) Discriminator() Discriminator            { return DiscriminatorExecute }

// EncodeInstruction serializes ix as its discriminator followed by its borsh
// arguments.
func EncodeInstruction(ix Instruction) ([]byte, error) {
	args, err := bin.MarshalBorsh(ix)
	if err != nil {
		return nil, errorsmod.Wrap(ErrInvalidInstruction, err.Error())
	}
	d := ix.Discriminator()
	return append(d[:], args...), nil
}

// DecodeInstruction parses tax hook instruction data.
func DecodeInstruction(data []byte) (Instruction, error) {
	if len(data) < DiscriminatorLength {
		return nil, errorsmod.Wrapf(ErrInvalidInstruction, "data has %d bytes, need at least %d", len(data), DiscriminatorLength)
	}
	var d Discriminator
	copy(d[:], data[:DiscriminatorLength])

	var ix Instruction
	switch d {
	case DiscriminatorInitializeExtraAccountMetaList:
		ix = &InitializeExtraAccountMetaList{}
	case DiscriminatorUpdateExtraAccountMetaList:
		ix = &UpdateExtraAccountMetaList{}
	case DiscriminatorInitializeTreasury:
		ix = &InitializeTreasury{}
	case DiscriminatorWithdraw:
		ix = &Withdraw{}
	case DiscriminatorExecute:
		ix = &Execute{}
	default:
		return nil, errorsmod.Wrapf(ErrInvalidInstruction, "unknown discriminator %x", d[:])
	}
	if err := bin.UnmarshalBorsh(ix, data[DiscriminatorLength:]); err != nil {
		return nil, errorsmod.Wrap(ErrInvalidInstruction, err.Error())
	}
	return ix, nil
}

// InstructionName returns a short name for logs and metrics.
func InstructionName(ix Instruction) string {
	switch ix.(type) {
	case *InitializeExtraAccountMetaList:
		return "initialize_extra_account_meta_list"
	case *UpdateExtraAccountMetaList:
		return "update_extra_account_meta_list"
	case *InitializeTreasury:
		return "initialize_treasury"
	case *Withdraw:
		return "withdraw"
	case *Execute:
		return "execute"
	default:
		return fmt.Sprintf("%T", ix)
	}
}

func newInstruction(programID solana.PublicKey, accounts solana.AccountMetaSlice, ix Instruction) (solana.Instruction, error) {
	data, err := EncodeInstruction(ix)
	if err != nil {
		return nil, err
	}
	return solana.NewInstruction(programID, accounts, data), nil
}

// NewInitializeExtraAccountMetaListInstruction builds the registry setup
// instruction for mint.
func NewInitializeExtraAccountMetaListInstruction(programID, payer, mint solana.PublicKey) (solana.Instruction, error) {
	registry, _, err := pda.RegistryAddress(programID, mint)
	if err != nil {
		return nil, err
	}
	return newInstruction(programID, solana.AccountMetaSlice{
		solana.Meta(payer).WRITE().SIGNER(),
		solana.Meta(registry).WRITE(),
		solana.Meta(mint),
		solana.Meta(tokentypes.SystemProgramID),
	}, &InitializeExtraAccountMetaList{})
}

// NewUpdateExtraAccountMetaListInstruction builds a registry update signed by
// the mint authority.
func NewUpdateExtraAccountMetaListInstruction(programID, authority, mint solana.PublicKey, metas []ExtraAccountMeta) (solana.Instruction, error) {
	registry, _, err := pda.RegistryAddress(programID, mint)
	if err != nil {
		return nil, err
	}
	return newInstruction(programID, solana.AccountMetaSlice{
		solana.Meta(authority).SIGNER(),
		solana.Meta(registry).WRITE(),
		solana.Meta(mint),
	}, &UpdateExtraAccountMetaList{Metas: metas})
}

// NewInitializeTreasuryInstruction builds the treasury setup instruction for
// feeMint, owned by tokenProgram.
func NewInitializeTreasuryInstruction(programID, payer, feeMint, tokenProgram solana.PublicKey) (solana.Instruction, error) {
	treasury, _, err := pda.TreasuryAddress(programID, feeMint)
	if err != nil {
		return nil, err
	}
	return newInstruction(programID, solana.AccountMetaSlice{
		solana.Meta(payer).WRITE().SIGNER(),
		solana.Meta(treasury).WRITE(),
		solana.Meta(feeMint),
		solana.Meta(tokentypes.SystemProgramID),
		solana.Meta(tokenProgram),
	}, &InitializeTreasury{})
}

// NewWithdrawInstruction builds a withdrawal of amount from the treasury of
// feeMint into destination.
func NewWithdrawInstruction(programID, authority, feeMint, destination, tokenProgram solana.PublicKey, amount uint64) (solana.Instruction, error) {
	treasury, _, err := pda.TreasuryAddress(programID, feeMint)
	if err != nil {
		return nil, err
	}
	return newInstruction(programID, solana.AccountMetaSlice{
		solana.Meta(authority).WRITE().SIGNER(),
		solana.Meta(feeMint),
		solana.Meta(treasury).WRITE(),
		solana.Meta(destination).WRITE(),
		solana.Meta(tokenProgram),
	}, &Withdraw{Amount: amount})
}

// NewExecuteInstruction builds a hook entrypoint call. The runtime rejects it
// when sent in a transaction; it exists for completeness of the interface.
func NewExecuteInstruction(programID, source, mint, destination, authority solana.PublicKey, amount uint64, extra solana.AccountMetaSlice) (solana.Instruction, error) {
	accounts := tokentypes.TransferBaseAccounts(source, mint, destination, authority)
	accounts = append(accounts, extra...)
	return newInstruction(programID, accounts, &Execute{Amount: amount})
}
