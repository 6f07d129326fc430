package query

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"

	"pocketrelay/internal/domain"
	"pocketrelay/internal/pocketerr"
)

// ErrRPC is returned when a node answers without the fields a query needs.
var ErrRPC = errors.New("rpc error")

// Client runs queries against the transport's RPC URL.
type Client struct {
	transport domain.Transport
	opts      domain.SendOptions
}

// New constructs a Client that sends every query with opts.
func New(t domain.Transport, opts domain.SendOptions) *Client {
	return &Client{transport: t, opts: opts}
}

// GetBalance returns the balance of address in the chain's base unit.
func (c *Client) GetBalance(ctx context.Context, address string) (*big.Int, error) {
	var out struct {
		Balance json.RawMessage `json:"balance"`
	}
	if err := c.call(ctx, domain.QueryBalance, addressBody{address}, &out, "balance"); err != nil {
		return nil, err
	}
	return domain.ParseAmount(out.Balance)
}

// GetTransactionCount returns how many transactions address has sent or received.
func (c *Client) GetTransactionCount(ctx context.Context, address string) (int, error) {
	var out wireAccountTxs
	if err := c.call(ctx, domain.QueryAccountTxs, addressBody{address}, &out, "total_count"); err != nil {
		return 0, err
	}
	return out.TotalCount, nil
}

// GetType reports whether address is staked as an app, as a node, or neither.
func (c *Client) GetType(ctx context.Context, address string) (AccountType, error) {
	app, err := c.fields(ctx, domain.QueryApp, addressBody{address})
	if err != nil {
		return "", err
	}
	node, err := c.fields(ctx, domain.QueryNode, addressBody{address})
	if err != nil {
		return "", err
	}
	_, isNode := node["service_url"]
	_, isApp := app["max_relays"]
	switch {
	case isApp && !isNode:
		return TypeApp, nil
	case isNode && !isApp:
		return TypeNode, nil
	}
	return TypeAccount, nil
}

// SendTransaction submits a signed transaction and returns the node's receipt.
func (c *Client) SendTransaction(ctx context.Context, signerAddress, signedTxHex string) (*pocketerr.TransactionResponse, error) {
	resp, err := c.transport.Send(ctx, domain.ClientRawTx, rawTxBody{Address: signerAddress, TxHex: signedTxHex}, "", c.opts)
	if err != nil {
		return nil, err
	}
	return pocketerr.ValidateTransactionResponse(resp.Body)
}

// GetBlock returns the raw block at height.
func (c *Client) GetBlock(ctx context.Context, height int64) (json.RawMessage, error) {
	var out json.RawMessage
	body := struct {
		Height int64 `json:"height"`
	}{height}
	if err := c.call(ctx, domain.QueryBlock, body, &out, "block"); err != nil {
		return nil, err
	}
	return out, nil
}

// GetTransaction returns the raw transaction with hash.
func (c *Client) GetTransaction(ctx context.Context, hash string) (json.RawMessage, error) {
	var out json.RawMessage
	body := struct {
		Hash string `json:"hash"`
	}{hash}
	if err := c.call(ctx, domain.QueryTX, body, &out, "hash"); err != nil {
		return nil, err
	}
	return out, nil
}

// GetHeight returns the latest block height.
func (c *Client) GetHeight(ctx context.Context) (int64, error) {
	var out struct {
		Height int64 `json:"height"`
	}
	if err := c.call(ctx, domain.QueryHeight, struct{}{}, &out, "height"); err != nil {
		return 0, err
	}
	if out.Height == 0 {
		return 0, fmt.Errorf("%w: %s returned height 0", ErrRPC, domain.QueryHeight)
	}
	return out.Height, nil
}

// GetNode returns the node staked at address.
func (c *Client) GetNode(ctx context.Context, address string) (domain.Node, error) {
	var out domain.WireNode
	if err := c.call(ctx, domain.QueryNode, addressBody{address}, &out, "chains"); err != nil {
		return domain.Node{}, err
	}
	out.Address = address
	return out.Node()
}

// GetApp returns the application staked at address.
func (c *Client) GetApp(ctx context.Context, address string) (App, error) {
	var out wireApp
	if err := c.call(ctx, domain.QueryApp, addressBody{address}, &out, "chains"); err != nil {
		return App{}, err
	}
	maxRelays, err := domain.ParseAmount(out.MaxRelays)
	if err != nil {
		return App{}, fmt.Errorf("app %s max_relays: %w", address, err)
	}
	staked, err := domain.ParseAmount(out.StakedTokens)
	if err != nil {
		return App{}, fmt.Errorf("app %s staked_tokens: %w", address, err)
	}
	return App{
		Address:      address,
		Chains:       out.Chains,
		PublicKey:    out.PublicKey,
		Jailed:       out.Jailed,
		MaxRelays:    maxRelays,
		StakedTokens: staked,
		Status:       out.Status,
	}, nil
}

// GetAccount returns the account at address. The balance is the amount of
// its first coin, or zero.
func (c *Client) GetAccount(ctx context.Context, address string) (Account, error) {
	var out wireAccount
	if err := c.call(ctx, domain.QueryAccount, addressBody{address}, &out, "address"); err != nil {
		return Account{}, err
	}
	return toAccount(address, out)
}

// GetAccountWithTransactions returns the account at address and its transactions.
func (c *Client) GetAccountWithTransactions(ctx context.Context, address string) (AccountWithTransactions, error) {
	acc, err := c.GetAccount(ctx, address)
	if err != nil {
		return AccountWithTransactions{}, err
	}
	var txs wireAccountTxs
	if err := c.call(ctx, domain.QueryAccountTxs, addressBody{address}, &txs, "total_count"); err != nil {
		return AccountWithTransactions{}, err
	}
	return AccountWithTransactions{
		Account:      acc,
		TotalCount:   txs.TotalCount,
		Transactions: txs.Txs,
	}, nil
}

func toAccount(address string, w wireAccount) (Account, error) {
	var raw json.RawMessage
	if len(w.Coins) > 0 {
		raw = w.Coins[0].Amount
	}
	balance, err := domain.ParseAmount(raw)
	if err != nil {
		return Account{}, fmt.Errorf("account %s balance: %w", address, err)
	}
	return Account{Address: address, Balance: balance, PublicKey: w.PublicKey}, nil
}

// call posts body to route, checks that the answer is an object holding
// required, and decodes it into out.
func (c *Client) call(ctx context.Context, route domain.Route, body any, out any, required string) error {
	resp, err := c.transport.Send(ctx, route, body, "", c.opts)
	if err != nil {
		return err
	}
	if !resp.OK() {
		return fmt.Errorf("%w: %s status %d: %s", ErrRPC, route, resp.StatusCode, resp.Body)
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(resp.Body, &fields); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrRPC, route, err)
	}
	if _, ok := fields[required]; !ok {
		return fmt.Errorf("%w: %s response has no %q", ErrRPC, route, required)
	}
	return json.Unmarshal(resp.Body, out)
}

// fields returns the top-level keys of a query answer. A non-object answer
// yields no keys.
func (c *Client) fields(ctx context.Context, route domain.Route, body any) (map[string]json.RawMessage, error) {
	resp, err := c.transport.Send(ctx, route, body, "", c.opts)
	if err != nil {
		return nil, err
	}
	var fields map[string]json.RawMessage
	if json.Unmarshal(resp.Body, &fields) != nil {
		return map[string]json.RawMessage{}, nil
	}
	return fields, nil
}
