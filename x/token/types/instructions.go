package types

import (
	errorsmod "cosmossdk.io/errors"
	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"

	"github.com/celestiaorg/taxhook/pkg/pda"
)

// InstructionTag is the first byte of token program instruction data. Values
// follow the SPL token instruction numbering.
type InstructionTag uint8

const (
	TagCreateAssociatedHolding InstructionTag = 1
	TagTransfer                InstructionTag = 3
	TagMintTo                  InstructionTag = 7
	TagTransferChecked         InstructionTag = 12
	TagInitializeMint          InstructionTag = 20
)

func (t InstructionTag) String() string {
	switch t {
	case TagCreateAssociatedHolding:
		return "create_associated_holding"
	case TagTransfer:
		return "transfer"
	case TagMintTo:
		return "mint_to"
	case TagTransferChecked:
		return "transfer_checked"
	case TagInitializeMint:
		return "initialize_mint"
	default:
		return "unknown"
	}
}

// Instruction is a decoded token program instruction.
type Instruction interface {
	Tag() InstructionTag
}

// InitializeMint creates a mint. A zero TransferHookProgram creates a mint
// without a hook.
//
// Accounts: [mint (writable, signer)]
type InitializeMint struct {
	Decimals            uint8
	MintAuthority       solana.PublicKey
	TransferHookProgram solana.PublicKey
}

// CreateAssociatedHolding creates the associated holding of owner for mint.
//
// Accounts: [payer (writable, signer), holding (writable), owner, mint]
type CreateAssociatedHolding struct{}

// Transfer moves funds without naming the mint. It is rejected for hooked
// mints.
//
// Accounts: [source (writable), destination (writable), authority (signer)]
type Transfer struct {
	Amount uint64
}

// MintTo issues new supply into a holding.
//
// Accounts: [mint (writable), destination (writable), mint authority (signer)]
type MintTo struct {
	Amount uint64
}

// TransferChecked moves funds and runs the transfer hook of the mint.
//
// Accounts: [source (writable), mint, destination (writable), authority
// (signer), extra accounts required by the hook...]
type TransferChecked struct {
	Amount   uint64
	Decimals uint8
}

func (InitializeMint) Tag() InstructionTag          { return TagInitializeMint }
func (CreateAssociatedHolding) Tag() InstructionTag { return TagCreateAssociatedHolding }
func (Transfer) Tag() InstructionTag                { return TagTransfer }
func (MintTo) Tag() InstructionTag                  { return TagMintTo }
func (TransferChecked) Tag() InstructionTag         { return TagTransferChecked }

// EncodeInstruction serializes ix as its tag followed by its borsh body.
func EncodeInstruction(ix Instruction) ([]byte, error) {
	body, err := bin.MarshalBorsh(ix)
	if err != nil {
		return nil, errorsmod.Wrap(ErrInvalidInstruction, err.Error())
	}
	return append([]byte{byte(ix.Tag())}, body...), nil
}

// DecodeInstruction parses token program instruction data.
func DecodeInstruction(data []byte) (Instruction, error) {
	if len(data) == 0 {
		return nil, errorsmod.Wrap(ErrInvalidInstruction, "empty instruction data")
	}
	var ix Instruction
	switch tag := InstructionTag(data[0]); tag {
	case TagCreateAssociatedHolding:
		ix = &CreateAssociatedHolding{}
	case TagTransfer:
		ix = &Transfer{}
	case TagMintTo:
		ix = &MintTo{}
	case TagTransferChecked:
		ix = &TransferChecked{}
	case TagInitializeMint:
		ix = &InitializeMint{}
	default:
		return nil, errorsmod.Wrapf(ErrInvalidInstruction, "unknown tag %d", tag)
	}
	if err := bin.UnmarshalBorsh(ix, data[1:]); err != nil {
		return nil, errorsmod.Wrap(ErrInvalidInstruction, err.Error())
	}
	return ix, nil
}

func mustEncode(ix Instruction) []byte {
	data, err := EncodeInstruction(ix)
	if err != nil {
		panic(err)
	}
	return data
}

// NewInitializeMintInstruction builds an InitializeMint instruction for the
// given token program.
func NewInitializeMintInstruction(programID, mint, mintAuthority solana.PublicKey, decimals uint8, hookProgram solana.PublicKey) solana.Instruction {
	return solana.NewInstruction(programID, solana.AccountMetaSlice{
		solana.Meta(mint).WRITE().SIGNER(),
	}, mustEncode(&InitializeMint{
		Decimals:            decimals,
		MintAuthority:       mintAuthority,
		TransferHookProgram: hookProgram,
	}))
}

// NewCreateAssociatedHoldingInstruction builds an instruction creating the
// associated holding of owner for mint.
func NewCreateAssociatedHoldingInstruction(programID, payer, owner, mint solana.PublicKey) (solana.Instruction, error) {
	holding, _, err := pda.AssociatedHoldingAddress(owner, programID, mint)
	if err != nil {
		return nil, err
	}
	return solana.NewInstruction(programID, solana.AccountMetaSlice{
		solana.Meta(payer).WRITE().SIGNER(),
		solana.Meta(holding).WRITE(),
		solana.Meta(owner),
		solana.Meta(mint),
	}, mustEncode(&CreateAssociatedHolding{})), nil
}

// NewMintToInstruction builds a MintTo instruction.
func NewMintToInstruction(programID, mint, destination, mintAuthority solana.PublicKey, amount uint64) solana.Instruction {
	return solana.NewInstruction(programID, solana.AccountMetaSlice{
		solana.Meta(mint).WRITE(),
		solana.Meta(destination).WRITE(),
		solana.Meta(mintAuthority).SIGNER(),
	}, mustEncode(&MintTo{Amount: amount}))
}

// NewTransferInstruction builds an unchecked Transfer instruction.
func NewTransferInstruction(programID, source, destination, authority solana.PublicKey, amount uint64) solana.Instruction {
	return solana.NewInstruction(programID, solana.AccountMetaSlice{
		solana.Meta(source).WRITE(),
		solana.Meta(destination).WRITE(),
		solana.Meta(authority).SIGNER(),
	}, mustEncode(&Transfer{Amount: amount}))
}

// NewTransferCheckedInstruction builds a TransferChecked instruction. extra
// must hold the accounts required by the hook of the mint, if any.
func NewTransferCheckedInstruction(
	programID, source, mint, destination, authority solana.PublicKey,
	amount uint64,
	decimals uint8,
	extra solana.AccountMetaSlice,
) solana.Instruction {
	accounts := solana.AccountMetaSlice{
		solana.Meta(source).WRITE(),
		solana.Meta(mint),
		solana.Meta(destination).WRITE(),
		solana.Meta(authority).SIGNER(),
	}
	accounts = append(accounts, extra...)
	return solana.NewInstruction(programID, accounts, mustEncode(&TransferChecked{
		Amount:   amount,
		Decimals: decimals,
	}))
}
