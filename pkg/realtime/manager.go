// Package realtime is the client-side facade over the project realtime
// channel. A Manager owns one connection, joined to one project room at
// a time, and exposes typed emit/listen helpers for annotation, comment
// and status events.
package realtime

import (
	"encoding/json"
	"strings"
	"sync"
	"time"

	"reviewdeck_backend/internal/logger"
	"reviewdeck_backend/pkg/rtevents"

	"github.com/gorilla/websocket"
)

const (
	// TransportPath is fixed; only the endpoint base is configurable.
	TransportPath = "/ws"

	DefaultEndpoint             = "ws://localhost:4000"
	DefaultMaxReconnectAttempts = 5
	DefaultReconnectDelay       = time.Second
)

// Handler receives the raw payload of a subscribed event.
type Handler func(data json.RawMessage)

// Options configures a Manager. Zero values fall back to the defaults
// above.
type Options struct {
	Endpoint             string
	MaxReconnectAttempts int
	ReconnectDelay       time.Duration
}

// Manager is owned by a single logical session and is not meant for
// concurrent use from multiple goroutines beyond what the internal
// lock provides for its own read loop.
type Manager struct {
	opts Options

	mu                sync.Mutex
	conn              *websocket.Conn
	connected         bool
	closing           bool
	projectID         string
	reconnectAttempts int
	handlers          map[string][]Handler
}

// NewManager builds a disconnected Manager. Construct one per session
// and dispose of it with Disconnect when the session ends.
func NewManager(opts Options) *Manager {
	if opts.Endpoint == "" {
		opts.Endpoint = DefaultEndpoint
	}
	if opts.MaxReconnectAttempts == 0 {
		opts.MaxReconnectAttempts = DefaultMaxReconnectAttempts
	}
	if opts.ReconnectDelay == 0 {
		opts.ReconnectDelay = DefaultReconnectDelay
	}
	return &Manager{
		opts:     opts,
		handlers: make(map[string][]Handler),
	}
}

// Connect opens the connection and joins the project room. Calling it
// while already connected returns the existing connection unchanged and
// emits no duplicate join signal.
func (m *Manager) Connect(projectID string) (*websocket.Conn, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.connected && m.conn != nil {
		return m.conn, nil
	}

	conn, err := m.dial()
	if err != nil {
		m.reconnectAttempts++
		logger.Warn("Realtime connection error", "endpoint", m.opts.Endpoint, "attempts", m.reconnectAttempts, "error", err.Error())
		m.dispatchLocked("connect_error", nil)
		return nil, err
	}

	m.conn = conn
	m.connected = true
	m.closing = false
	m.projectID = projectID
	m.reconnectAttempts = 0

	m.emitLocked(rtevents.EventJoinProject, rtevents.JoinProjectPayload{ProjectID: projectID})
	logger.Info("Realtime connected", "endpoint", m.opts.Endpoint, "project_id", projectID)
	m.dispatchLocked("connect", nil)

	go m.readLoop(conn)

	return conn, nil
}

// Disconnect leaves the project room and tears the connection down.
// No-op when never connected.
func (m *Manager) Disconnect() {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Stops an in-flight reconnect loop as well.
	m.closing = true

	if m.conn == nil {
		m.connected = false
		m.projectID = ""
		return
	}

	m.emitLocked(rtevents.EventLeaveProject, nil)
	m.conn.Close()
	m.conn = nil
	m.connected = false
	m.projectID = ""
	logger.Info("Realtime disconnected")
}

// --- Emit operations (silently dropped while disconnected) ---

func (m *Manager) AddAnnotation(data rtevents.AddAnnotationPayload) {
	m.emit(rtevents.EventAddAnnotation, data)
}

func (m *Manager) ResolveAnnotation(data rtevents.ResolveAnnotationPayload) {
	m.emit(rtevents.EventResolveAnnotation, data)
}

func (m *Manager) UpdateElementStatus(data rtevents.UpdateElementStatusPayload) {
	m.emit(rtevents.EventUpdateElementStatus, data)
}

func (m *Manager) AddComment(data rtevents.AddCommentPayload) {
	m.emit(rtevents.EventAddComment, data)
}

// --- Listen operations ---

// Callbacks registered before the connection completes still fire once
// events start arriving.

func (m *Manager) OnAnnotationAdded(callback Handler) {
	m.on(rtevents.EventAnnotationAdded, callback)
}

func (m *Manager) OnAnnotationResolved(callback Handler) {
	m.on(rtevents.EventAnnotationResolved, callback)
}

func (m *Manager) OnStatusChanged(callback Handler) {
	m.on(rtevents.EventStatusChanged, callback)
}

func (m *Manager) OnCommentAdded(callback Handler) {
	m.on(rtevents.EventCommentAdded, callback)
}

// On registers a callback for any event name, including the
// transport-level connect, disconnect and connect_error notifications.
func (m *Manager) On(event string, callback Handler) {
	m.on(event, callback)
}

// RemoveAllListeners detaches every registered callback.
func (m *Manager) RemoveAllListeners() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers = make(map[string][]Handler)
}

// --- State queries ---

func (m *Manager) IsConnected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.conn != nil && m.connected
}

// Socket exposes the raw connection handle for advanced use. Nil while
// disconnected.
func (m *Manager) Socket() *websocket.Conn {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.conn
}

// ReconnectAttempts reports the current attempt counter.
func (m *Manager) ReconnectAttempts() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reconnectAttempts
}

// --- Internals ---

func (m *Manager) dial() (*websocket.Conn, error) {
	url := wsURL(m.opts.Endpoint) + TransportPath
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	return conn, err
}

func (m *Manager) on(event string, callback Handler) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[event] = append(m.handlers[event], callback)
}

func (m *Manager) emit(event string, payload any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.connected || m.conn == nil {
		return
	}
	m.emitLocked(event, payload)
}

func (m *Manager) emitLocked(event string, payload any) {
	env, err := rtevents.NewEnvelope(event, payload)
	if err != nil {
		logger.Warn("Failed to encode realtime event", "event", event, "error", err.Error())
		return
	}
	if err := m.conn.WriteJSON(env); err != nil {
		logger.Warn("Failed to emit realtime event", "event", event, "error", err.Error())
	}
}

// readLoop delivers incoming events to registered callbacks and runs
// the bounded reconnect policy when the connection drops.
func (m *Manager) readLoop(conn *websocket.Conn) {
	for {
		_, msgBytes, err := conn.ReadMessage()
		if err != nil {
			m.mu.Lock()
			closing := m.closing || m.conn != conn
			m.mu.Unlock()
			if closing {
				return
			}

			logger.Warn("Realtime connection lost", "error", err.Error())
			m.handleDisconnect(conn)
			return
		}

		var env rtevents.Envelope
		if err := json.Unmarshal(msgBytes, &env); err != nil {
			logger.Warn("Failed to parse realtime event", "error", err.Error())
			continue
		}

		m.mu.Lock()
		callbacks := append([]Handler(nil), m.handlers[env.Event]...)
		m.mu.Unlock()

		for _, cb := range callbacks {
			cb(env.Data)
		}
	}
}

// handleDisconnect retries with a fixed delay up to the configured
// attempt limit. After exhaustion the Manager stays disconnected until
// an explicit Connect call.
func (m *Manager) handleDisconnect(old *websocket.Conn) {
	m.mu.Lock()
	if m.conn != old {
		// A newer connection took over.
		m.mu.Unlock()
		return
	}
	m.connected = false
	m.conn = nil
	projectID := m.projectID
	m.dispatchLocked("disconnect", nil)
	m.mu.Unlock()

	for {
		m.mu.Lock()
		if m.closing || m.reconnectAttempts >= m.opts.MaxReconnectAttempts {
			m.mu.Unlock()
			logger.Warn("Realtime reconnect attempts exhausted", "attempts", m.opts.MaxReconnectAttempts)
			return
		}
		m.reconnectAttempts++
		attempt := m.reconnectAttempts
		delay := m.opts.ReconnectDelay
		m.mu.Unlock()

		time.Sleep(delay)

		m.mu.Lock()
		if m.closing || m.connected {
			m.mu.Unlock()
			return
		}
		conn, err := m.dial()
		if err != nil {
			logger.Warn("Realtime reconnect failed", "attempt", attempt, "error", err.Error())
			m.dispatchLocked("connect_error", nil)
			m.mu.Unlock()
			continue
		}

		m.conn = conn
		m.connected = true
		m.reconnectAttempts = 0
		if projectID != "" {
			m.projectID = projectID
			m.emitLocked(rtevents.EventJoinProject, rtevents.JoinProjectPayload{ProjectID: projectID})
		}
		logger.Info("Realtime reconnected", "attempt", attempt)
		m.dispatchLocked("connect", nil)
		m.mu.Unlock()

		go m.readLoop(conn)
		return
	}
}

// dispatchLocked fires transport-lifecycle callbacks. Caller holds mu;
// callbacks run on a copy outside the lock via goroutine to avoid
// re-entrancy deadlocks.
func (m *Manager) dispatchLocked(event string, data json.RawMessage) {
	callbacks := append([]Handler(nil), m.handlers[event]...)
	if len(callbacks) == 0 {
		return
	}
	go func() {
		for _, cb := range callbacks {
			cb(data)
		}
	}()
}

func wsURL(endpoint string) string {
	switch {
	case strings.HasPrefix(endpoint, "http://"):
		return "ws://" + strings.TrimPrefix(endpoint, "http://")
	case strings.HasPrefix(endpoint, "https://"):
		return "wss://" + strings.TrimPrefix(endpoint, "https://")
	default:
		return endpoint
	}
}
