// Package commands defines the pocket CLI and wires dependencies for subcommands.
//
// Commands
//
//   - account     Create, import, export, list and use PPK-protected accounts
//   - session     Dispatch a session for an application and chain
//   - relay       Dispatch a session and send a signed relay through it
//   - query       Read heights, balances, accounts, nodes, apps, blocks and txs
//   - tx send     Submit a signed transaction
//   - config      Write the effective configuration to the config file
//
// # Implementation
//
// The root command loads Config (file, .env, environment, then flags) and
// builds the transport, key store and clients before any subcommand runs.
package commands
