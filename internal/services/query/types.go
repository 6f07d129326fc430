package query

import (
	"encoding/json"
	"math/big"

	"pocketrelay/internal/domain"
)

// AccountType classifies an address by what it has staked as.
type AccountType string

const (
	TypeAccount AccountType = "account"
	TypeApp     AccountType = "app"
	TypeNode    AccountType = "node"
)

// App is a staked application.
type App struct {
	Address      string               `json:"address"`
	Chains       []string             `json:"chains"`
	PublicKey    string               `json:"publicKey"`
	Jailed       bool                 `json:"jailed"`
	MaxRelays    *big.Int             `json:"maxRelays"`
	StakedTokens *big.Int             `json:"stakedTokens"`
	Status       domain.StakingStatus `json:"status"`
}

// Account is a plain account and its balance.
type Account struct {
	Address   string   `json:"address"`
	Balance   *big.Int `json:"balance"`
	PublicKey string   `json:"publicKey"`
}

// AccountWithTransactions is an account together with its transaction page.
type AccountWithTransactions struct {
	Account
	TotalCount   int               `json:"totalCount"`
	Transactions []json.RawMessage `json:"transactions"`
}

type addressBody struct {
	Address string `json:"address"`
}

type rawTxBody struct {
	Address string `json:"address"`
	TxHex   string `json:"txHex"`
}

type wireApp struct {
	Chains       []string             `json:"chains"`
	Jailed       bool                 `json:"jailed"`
	MaxRelays    json.RawMessage      `json:"max_relays"`
	PublicKey    string               `json:"public_key"`
	StakedTokens json.RawMessage      `json:"staked_tokens"`
	Status       domain.StakingStatus `json:"status"`
}

type wireAccount struct {
	Address string `json:"address"`
	Coins   []struct {
		Amount json.RawMessage `json:"amount"`
		Denom  string          `json:"denom"`
	} `json:"coins"`
	PublicKey string `json:"public_key"`
}

type wireAccountTxs struct {
	TotalCount int               `json:"total_count"`
	Txs        []json.RawMessage `json:"txs"`
}
