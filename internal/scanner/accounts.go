package scanner

import (
	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

// Borsh layouts of the two Cobotium program account types. Sizes
// distinguish them: a mint is 42 bytes, a token account 74.
const (
	mintDataLen         = 1 + 1 + 32 + 8
	tokenAccountDataLen = 1 + 32 + 32 + 8 + 1
)

// MintState mirrors the on-chain mint account.
type MintState struct {
	IsInitialized bool
	Decimals      uint8
	MintAuthority solana.PublicKey
	Supply        uint64
}

// TokenAccountState mirrors the on-chain token account.
type TokenAccountState struct {
	IsInitialized bool
	Mint          solana.PublicKey
	Owner         solana.PublicKey
	Amount        uint64
	IsFrozen      bool
}

// AccountSummary aggregates one scan's decoded account set.
type AccountSummary struct {
	Mints         int
	TokenAccounts int
	Frozen        int
	TotalSupply   uint64
	Undecodable   int
}

// summarize decodes every account blob it recognizes and tallies the
// result. Accounts that fail to decode are counted, not fatal: the scan's
// headline number is the raw account count either way.
func summarize(accounts [][]byte) AccountSummary {
	var sum AccountSummary
	for _, data := range accounts {
		switch len(data) {
		case mintDataLen:
			var mint MintState
			if err := bin.NewBorshDecoder(data).Decode(&mint); err != nil {
				sum.Undecodable++
				continue
			}
			sum.Mints++
			sum.TotalSupply += mint.Supply
		case tokenAccountDataLen:
			var account TokenAccountState
			if err := bin.NewBorshDecoder(data).Decode(&account); err != nil {
				sum.Undecodable++
				continue
			}
			sum.TokenAccounts++
			if account.IsFrozen {
				sum.Frozen++
			}
		default:
			sum.Undecodable++
		}
	}
	return sum
}
