// Package pockettest provides an in-process fake of a Pocket RPC endpoint for
// tests. A Node records every request body per route and answers with
// canned JSON or with handlers registered by the test.
package pockettest
