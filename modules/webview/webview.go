// Package webview pushes read-only screen snapshots to connected browser
// clients over a WebSocket, as an example RenderOverlay-free consumer of
// the core's public API (webview is explicitly out of scope beyond this
// thin example front-end, per the core's scope boundary).
package webview

import (
	"encoding/json"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/mossgrove/vtcore"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// AuthMode selects how handleWS gates a new WebSocket connection.
type AuthMode string

const (
	// AuthNone accepts every connection (the documented default).
	AuthNone AuthMode = "none"
	// AuthToken requires a "token" query parameter matching the
	// configured token.
	AuthToken AuthMode = "token"
	// AuthPassword requires HTTP Basic auth whose password matches the
	// configured password (username is not checked).
	AuthPassword AuthMode = "password"
)

// Module serves the terminal's Snapshot over a WebSocket endpoint. It
// implements no capability interface other than being a Module: each
// connection polls the terminal's Snapshot once per update interval, it
// does not claim escapes or keys.
type Module struct {
	priority       vtcore.Priority
	host           string
	port           int
	readOnly       bool
	auth           AuthMode
	token          string
	password       string
	updateInterval time.Duration
	maxClients     int

	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
	server  *http.Server
	term    *vtcore.Terminal
}

// New returns a webview module with the documented defaults.
func New() *Module {
	return &Module{
		priority:       vtcore.PriorityNormal,
		host:           "127.0.0.1",
		port:           7681,
		readOnly:       true,
		auth:           AuthNone,
		updateInterval: 50 * time.Millisecond,
		maxClients:     10,
		clients:        make(map[*websocket.Conn]struct{}),
	}
}

func (m *Module) Name() string             { return "webview" }
func (m *Module) Priority() vtcore.Priority { return m.priority }

func (m *Module) Configure(config map[string]any) error {
	if v, ok := config["host"].(string); ok && v != "" {
		m.host = v
	}
	if v, ok := toInt(config["port"]); ok {
		m.port = v
	}
	if v, ok := config["read_only"].(bool); ok {
		m.readOnly = v
	}
	if v, ok := config["auth"].(string); ok {
		switch AuthMode(v) {
		case AuthNone, AuthToken, AuthPassword:
			m.auth = AuthMode(v)
		}
	}
	if v, ok := config["token"].(string); ok {
		m.token = v
	}
	if v, ok := config["password"].(string); ok {
		m.password = v
	}
	if v, ok := toInt(config["update_interval"]); ok {
		if v < 16 {
			v = 16
		}
		if v > 1000 {
			v = 1000
		}
		m.updateInterval = time.Duration(v) * time.Millisecond
	}
	if v, ok := toInt(config["max_clients"]); ok {
		m.maxClients = v
	}
	return nil
}

// Activate resolves the terminal from the shared-service registry and
// starts the WebSocket server in the background.
func (m *Module) Activate(reg *vtcore.ServiceRegistry) error {
	svc, ok := reg.Lookup("terminal")
	if !ok {
		// Error-handling kind 4: required peer absent, degrade to a no-op.
		return nil
	}
	term, ok := svc.(*vtcore.Terminal)
	if !ok {
		return nil
	}
	m.term = term

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", m.handleWS)
	m.server = &http.Server{Addr: m.host + ":" + portString(m.port), Handler: mux}

	go m.server.ListenAndServe()
	return nil
}

// Deactivate closes the server and all connected clients.
func (m *Module) Deactivate() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for c := range m.clients {
		c.Close()
	}
	m.clients = make(map[*websocket.Conn]struct{})
	if m.server != nil {
		m.server.Close()
	}
}

func (m *Module) handleWS(w http.ResponseWriter, r *http.Request) {
	if !m.authorized(r) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	m.mu.Lock()
	if len(m.clients) >= m.maxClients {
		m.mu.Unlock()
		http.Error(w, "too many clients", http.StatusServiceUnavailable)
		return
	}
	m.mu.Unlock()

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	m.mu.Lock()
	m.clients[conn] = struct{}{}
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		delete(m.clients, conn)
		m.mu.Unlock()
		conn.Close()
	}()

	ticker := time.NewTicker(m.updateInterval)
	defer ticker.Stop()
	for range ticker.C {
		snap := m.term.Snapshot(vtcore.SnapshotStyled)
		data, err := json.Marshal(snap)
		if err != nil {
			continue
		}
		if conn.WriteMessage(websocket.TextMessage, data) != nil {
			return
		}
	}
}

// authorized reports whether r satisfies the configured auth mode. A
// token/password mode with an empty configured secret always fails
// closed rather than accepting every request.
func (m *Module) authorized(r *http.Request) bool {
	switch m.auth {
	case AuthToken:
		return m.token != "" && r.URL.Query().Get("token") == m.token
	case AuthPassword:
		_, pass, ok := r.BasicAuth()
		return ok && m.password != "" && pass == m.password
	default:
		return true
	}
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}

func portString(p int) string {
	return strconv.Itoa(p)
}

var _ vtcore.Module = (*Module)(nil)
