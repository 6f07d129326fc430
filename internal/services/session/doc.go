// Package session requests relay sessions from dispatchers.
//
// A session is a snapshot of the service nodes assigned to an application
// and chain at a block height. The client never caches one; callers hold the
// returned value and decide when to ask again.
package session
