package pockettest

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gorilla/mux"

	"pocketrelay/internal/domain"
)

// Node is a fake RPC endpoint backed by httptest.
type Node struct {
	URL string

	srv     *httptest.Server
	routeMu sync.RWMutex
	router  *mux.Router

	mu       sync.Mutex
	requests map[domain.Route][][]byte
}

// NewNode starts a fake endpoint that is closed when the test ends.
// Unregistered routes answer 404.
func NewNode(t testing.TB) *Node {
	t.Helper()
	n := &Node{
		router:   mux.NewRouter(),
		requests: make(map[domain.Route][][]byte),
	}
	n.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n.routeMu.RLock()
		defer n.routeMu.RUnlock()
		n.router.ServeHTTP(w, r)
	}))
	n.URL = n.srv.URL
	t.Cleanup(n.srv.Close)
	return n
}

// Handle registers h for POSTs to route. The body is recorded before h runs
// and is available to h through r.Body.
func (n *Node) Handle(route domain.Route, h http.HandlerFunc) {
	n.routeMu.Lock()
	defer n.routeMu.Unlock()
	n.router.HandleFunc(route.String(), func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		n.mu.Lock()
		n.requests[route] = append(n.requests[route], b)
		n.mu.Unlock()
		r.Body = io.NopCloser(bytes.NewReader(b))
		h(w, r)
	}).Methods(http.MethodPost)
}

// Reply answers every POST to route with status and body.
func (n *Node) Reply(route domain.Route, status int, body string) {
	n.Handle(route, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	})
}

// ReplyJSON answers every POST to route with 200 and v encoded as JSON.
func (n *Node) ReplyJSON(route domain.Route, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	n.Reply(route, http.StatusOK, string(b))
}

// Requests returns the recorded bodies for route in arrival order.
func (n *Node) Requests(route domain.Route) [][]byte {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([][]byte(nil), n.requests[route]...)
}

// Hits returns how many requests reached route.
func (n *Node) Hits(route domain.Route) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.requests[route])
}

// TotalHits returns how many requests reached any registered route.
func (n *Node) TotalHits() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	total := 0
	for _, reqs := range n.requests {
		total += len(reqs)
	}
	return total
}
