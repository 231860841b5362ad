package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/weatherapp/backend/internal/domain"
	"github.com/weatherapp/backend/pkg/logger"
	"github.com/weatherapp/backend/pkg/utils"
)

// Session is the state of one page: the current query, the last record and
// the last failure. State only changes through Mount, SetQuery, Submit and
// the fetch results they produce.
//
// Fetches run without holding mu. Overlapping requests are not cancelled, so
// whichever resolves last decides what the page shows.
type Session struct {
	ID string

	client WeatherFetcher
	repo   HistoryRepository
	logger *logger.Logger
	bg     *sync.WaitGroup

	mu       sync.Mutex
	status   domain.Status
	query    string
	record   *domain.Weather
	failure  *domain.Failure
	located  bool
	lastSeen time.Time
}

func newSession(id string, client WeatherFetcher, repo HistoryRepository, log *logger.Logger, bg *sync.WaitGroup) *Session {
	return &Session{
		ID:       id,
		client:   client,
		repo:     repo,
		logger:   log,
		bg:       bg,
		status:   domain.StatusIdle,
		lastSeen: time.Now(),
	}
}

// Mount resolves the caller's position once and loads weather for it. On
// success the resolved place name becomes the query, which triggers a name
// lookup like any other query change.
func (s *Session) Mount(ctx context.Context, resolver Resolver) domain.View {
	pos, err := resolver.ResolveCurrentPosition(ctx)

	s.mu.Lock()
	s.located = true
	if err != nil {
		s.fail(domain.AsFailure(err))
		s.mu.Unlock()
		return s.View()
	}
	s.status = domain.StatusLoading
	s.mu.Unlock()

	w, err := s.client.FetchByCoordinates(ctx, pos.Latitude, pos.Longitude)
	if !s.resolve(domain.Query{Coordinates: &pos}, w, err) {
		return s.View()
	}
	return s.SetQuery(ctx, w.City)
}

// SetQuery stores q. A changed, non-blank query starts a name lookup; a blank
// one is kept as "no query yet" and leaves the rest of the state alone.
func (s *Session) SetQuery(ctx context.Context, q string) domain.View {
	s.mu.Lock()
	changed := q != s.query
	s.query = q
	if !changed || strings.TrimSpace(q) == "" {
		s.mu.Unlock()
		return s.View()
	}
	s.status = domain.StatusLoading
	s.mu.Unlock()

	s.fetchByName(ctx, q)
	return s.View()
}

// Submit re-issues the name lookup for the current query
func (s *Session) Submit(ctx context.Context) domain.View {
	s.mu.Lock()
	q := s.query
	if strings.TrimSpace(q) == "" {
		s.mu.Unlock()
		return s.View()
	}
	s.status = domain.StatusLoading
	s.mu.Unlock()

	s.fetchByName(ctx, q)
	return s.View()
}

// Query returns the current query text
func (s *Session) Query() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.query
}

// View renders the current state
func (s *Session) View() domain.View {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := domain.View{
		Status:  s.status,
		Query:   s.query,
		Loading: s.status == domain.StatusLoading,
		Located: s.located,
	}

	switch s.status {
	case domain.StatusSuccess:
		if s.record != nil {
			v.Weather = s.render(*s.record)
		}
	case domain.StatusError:
		v.Error = s.failure
	}
	return v
}

func (s *Session) render(w domain.Weather) *domain.WeatherView {
	return &domain.WeatherView{
		City:        w.City,
		Description: utils.TitleCase(w.Description),
		IconURL:     s.client.IconURL(w.Icon),
		Temperature: utils.FormatNumber(w.Temperature) + "°C",
		Humidity:    utils.FormatNumber(float64(w.Humidity)) + "%",
		Pressure:    utils.FormatNumber(float64(w.Pressure)) + " hPa",
		WindSpeed:   utils.FormatNumber(w.WindSpeed) + " m/s",
	}
}

func (s *Session) fetchByName(ctx context.Context, city string) {
	w, err := s.client.FetchByName(ctx, city)
	s.resolve(domain.Query{City: city}, w, err)
}

// resolve applies a fetch outcome and reports whether it succeeded
func (s *Session) resolve(q domain.Query, w domain.Weather, err error) bool {
	s.mu.Lock()
	s.lastSeen = time.Now()
	if err != nil {
		s.fail(domain.AsFailure(err))
		s.mu.Unlock()
		return false
	}
	record := w
	s.record = &record
	s.failure = nil
	s.status = domain.StatusSuccess
	s.mu.Unlock()

	s.saveLookup(q, w)
	return true
}

// fail must be called with mu held
func (s *Session) fail(f *domain.Failure) {
	s.record = nil
	s.failure = f
	s.status = domain.StatusError
}

// saveLookup persists a successful fetch in the background
func (s *Session) saveLookup(q domain.Query, w domain.Weather) {
	lookup := domain.Lookup{
		ID:        uuid.NewString(),
		Query:     q.String(),
		Source:    q.Kind(),
		Weather:   w,
		FetchedAt: time.Now(),
	}

	s.bg.Add(1)
	go func() {
		defer s.bg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.repo.SaveLookup(ctx, lookup); err != nil {
			s.logger.Warn("Failed to save lookup",
				logger.String("query", lookup.Query),
				logger.Error(err))
		}
	}()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

func (s *Session) touch() {
	s.mu.Lock()
	s.lastSeen = time.Now()
	s.mu.Unlock()
}

// SessionManager hands out one Session per browser
type SessionManager struct {
	client WeatherFetcher
	repo   HistoryRepository
	logger *logger.Logger

	mu       sync.Mutex
	sessions map[string]*Session

	wgBg sync.WaitGroup // tracks background saves for graceful shutdown
}

// NewSessionManager creates a new session manager
func NewSessionManager(client WeatherFetcher, repo HistoryRepository, log *logger.Logger) *SessionManager {
	return &SessionManager{
		client:   client,
		repo:     repo,
		logger:   log.Named("session"),
		sessions: make(map[string]*Session),
	}
}

// Get returns the session for id, creating a fresh one (with a new ID) when
// id is empty or unknown
func (m *SessionManager) Get(id string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sessions[id]; ok {
		s.touch()
		return s
	}

	s := newSession(uuid.NewString(), m.client, m.repo, m.logger, &m.wgBg)
	m.sessions[s.ID] = s
	m.logger.Debug("Session created", logger.String("id", s.ID))
	return s
}

// Len returns the number of live sessions
func (m *SessionManager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Prune drops sessions idle for longer than maxIdle and returns how many
func (m *SessionManager) Prune(maxIdle time.Duration) int {
	cutoff := time.Now().Add(-maxIdle)

	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, s := range m.sessions {
		if s.idleSince().Before(cutoff) {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed
}

// WaitBackground blocks until all background save goroutines complete.
// Call during graceful shutdown to avoid dropped writes.
func (m *SessionManager) WaitBackground() {
	m.wgBg.Wait()
}
