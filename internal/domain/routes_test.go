package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"pocketrelay/internal/domain"
)

func TestRoutes(t *testing.T) {
	for route, want := range map[domain.Route]string{
		domain.ClientDispatch:  "/v1/client/dispatch",
		domain.ClientRawTx:     "/v1/client/rawtx",
		domain.ClientRelay:     "/v1/client/relay",
		domain.QueryAccount:    "/v1/query/account",
		domain.QueryAccountTxs: "/v1/query/accounttxs",
		domain.QueryApp:        "/v1/query/app",
		domain.QueryBalance:    "/v1/query/balance",
		domain.QueryBlock:      "/v1/query/block",
		domain.QueryHeight:     "/v1/query/height",
		domain.QueryNode:       "/v1/query/node",
		domain.QueryTX:         "/v1/query/tx",
	} {
		assert.Equal(t, want, route.String())
	}
}
