// Package domain defines core data models and interfaces shared across the app.
// It contains plain types (typed and wire forms), RPC routes and contracts
// (interfaces) only.
package domain
