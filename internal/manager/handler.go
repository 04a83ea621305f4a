package manager

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/15Galan/h4-hash-cracker/internal/cracker"
	"github.com/15Galan/h4-hash-cracker/internal/input"
	"github.com/15Galan/h4-hash-cracker/internal/models"
	"github.com/15Galan/h4-hash-cracker/internal/report"
)

const (
	StatusInProgress = "IN_PROGRESS"
	StatusReady      = "READY"
	StatusError      = "ERROR"
)

// DefaultMaxBodyBytes caps the size of a crack request body.
const DefaultMaxBodyBytes = 32 << 20

type RequestState struct {
	Status    string
	Input     *input.Input
	Data      models.CrackResult
	Err       string
	CreatedAt time.Time
	cancel    context.CancelFunc
	mu        sync.Mutex
}

type Manager struct {
	requests     map[string]*RequestState
	mu           sync.RWMutex
	closed       bool
	timeout      time.Duration
	maxBodyBytes int64
	wordlist     []string
	digester     cracker.Digester
	publisher    *report.Publisher
	logger       *zap.Logger
	wg           sync.WaitGroup
}

type Option func(*Manager)

// WithWordlist sets the words used when a request does not carry its own.
func WithWordlist(words []string) Option {
	return func(m *Manager) { m.wordlist = words }
}

func WithMaxBodyBytes(n int64) Option {
	return func(m *Manager) {
		if n > 0 {
			m.maxBodyBytes = n
		}
	}
}

func WithDigester(d cracker.Digester) Option {
	return func(m *Manager) { m.digester = d }
}

func WithPublisher(p *report.Publisher) Option {
	return func(m *Manager) { m.publisher = p }
}

func WithLogger(l *zap.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

func NewManager(timeout time.Duration, opts ...Option) *Manager {
	m := &Manager{
		requests:     make(map[string]*RequestState),
		timeout:      timeout,
		maxBodyBytes: DefaultMaxBodyBytes,
		logger:       zap.NewNop(),
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Routes registers the public API on a new mux.
func (m *Manager) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/hash/crack", m.HandleCrack)
	mux.HandleFunc("/api/hash/status", m.HandleStatus)

	return mux
}

func (m *Manager) HandleCrack(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, m.maxBodyBytes)

	var req models.CrackHashRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, "Request body too large", http.StatusRequestEntityTooLarge)
			return
		}

		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	in, err := input.Validate(req.Hashes, req.Algorithms)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	in.Words = req.Words
	if len(in.Words) == 0 {
		in.Words = m.wordlist
	}

	if len(in.Words) == 0 {
		http.Error(w, input.ErrEmptyWordlist.Error(), http.StatusBadRequest)
		return
	}

	requestID := uuid.New().String()

	ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
	state := &RequestState{
		Status:    StatusInProgress,
		Input:     in,
		CreatedAt: time.Now(),
		cancel:    cancel,
	}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		cancel()

		http.Error(w, "Service is shutting down", http.StatusServiceUnavailable)
		return
	}

	m.requests[requestID] = state
	m.wg.Add(1)
	m.mu.Unlock()

	go func() {
		defer m.wg.Done()
		defer cancel()

		m.process(ctx, requestID, state)
	}()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(models.CrackHashResponse{RequestID: requestID})
}

func (m *Manager) process(ctx context.Context, requestID string, state *RequestState) {
	logger := m.logger.With(zap.String("run_id", requestID))
	in := state.Input

	logger.Info("Processing crack request",
		zap.Int("hashes", len(in.Hashes)),
		zap.Strings("algorithms", in.Algorithms),
		zap.Int("words", len(in.Words)))

	opts := []cracker.Option{cracker.WithLogger(logger), cracker.WithDigester(m.digester)}
	if m.publisher != nil {
		opts = append(opts, cracker.WithObserver(m.publisher.ForRun(requestID)))
	}

	cracks, err := cracker.New(opts...).Crack(ctx, in.Hashes, in.Algorithms, in.Words)

	state.mu.Lock()
	defer state.mu.Unlock()

	// The words are only needed while searching.
	in.Words = nil

	if err != nil {
		state.Status = StatusError
		state.Err = err.Error()

		switch {
		case errors.Is(err, context.DeadlineExceeded):
			state.Err = "request timed out"
			logger.Warn("Request timed out")
		case errors.Is(err, context.Canceled):
			state.Err = "request cancelled"
			logger.Warn("Request cancelled")
		default:
			logger.Error("Request failed", zap.Error(err))
		}

		return
	}

	state.Status = StatusReady
	state.Data = cracks

	logger.Info("Request completed", zap.Int("cracked", len(cracks)))
}

func (m *Manager) HandleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	requestID := r.URL.Query().Get("requestId")
	if requestID == "" {
		http.Error(w, "Missing requestId", http.StatusBadRequest)
		return
	}

	m.mu.RLock()
	state, exists := m.requests[requestID]
	m.mu.RUnlock()

	if !exists {
		http.Error(w, "Request not found", http.StatusNotFound)
		return
	}

	state.mu.Lock()
	defer state.mu.Unlock()

	resp := models.StatusResponse{
		Status:            state.Status,
		InvalidHashes:     state.Input.InvalidHashes,
		InvalidAlgorithms: state.Input.InvalidAlgorithms,
		Error:             state.Err,
	}

	if state.Status == StatusReady {
		resp.Data = state.Data

		for _, h := range state.Input.Hashes {
			if _, ok := state.Data[h]; !ok {
				resp.NotFound = append(resp.NotFound, h)
			}
		}

		slices.Sort(resp.NotFound)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// Close rejects new requests, cancels every running one and waits for them
// to stop.
func (m *Manager) Close() {
	m.mu.Lock()
	m.closed = true

	for _, state := range m.requests {
		state.cancel()
	}
	m.mu.Unlock()

	m.wg.Wait()
}
