package domain

// Route is a path on the versioned RPC interface.
type Route string

const v1 = "/v1"

const (
	ClientDispatch  Route = v1 + "/client/dispatch"
	ClientRawTx     Route = v1 + "/client/rawtx"
	ClientRelay     Route = v1 + "/client/relay"
	QueryAccount    Route = v1 + "/query/account"
	QueryAccountTxs Route = v1 + "/query/accounttxs"
	QueryApp        Route = v1 + "/query/app"
	QueryBalance    Route = v1 + "/query/balance"
	QueryBlock      Route = v1 + "/query/block"
	QueryHeight     Route = v1 + "/query/height"
	QueryNode       Route = v1 + "/query/node"
	QueryTX         Route = v1 + "/query/tx"
)

func (r Route) String() string { return string(r) }
