package session

import (
	"net/http"
	"time"

	"github.com/Conceptual-Machines/story-api/internal/config"
	"github.com/Conceptual-Machines/story-api/internal/logger"
	"github.com/Conceptual-Machines/story-api/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"github.com/patrickmn/go-cache"
)

const (
	idKey          = "sid"
	contextKey     = "session_id"
	sessionKeySize = 32
)

// State is everything one browser session remembers: the last submitted form
// and the last generation result
type State struct {
	Params models.StoryParams
	Result models.Result
}

// NewState is the state of a fresh session
func NewState() State {
	return State{
		Params: models.DefaultStoryParams(),
		Result: models.NoResult(),
	}
}

// WithResult returns a copy of s holding params and result
func (s State) WithResult(params models.StoryParams, result models.Result) State {
	s.Params = params
	s.Result = result
	return s
}

// Manager keeps the session id in a signed cookie and the state server-side
type Manager struct {
	cookies *sessions.CookieStore
	states  *cache.Cache
	name    string
	ttl     time.Duration
}

// NewManager creates a session manager from cfg. Without SESSION_SECRET a
// random signing key is used, so sessions do not survive a restart.
func NewManager(cfg *config.Config) *Manager {
	secret := []byte(cfg.SessionSecret)
	if len(secret) == 0 {
		logger.Warn("SESSION_SECRET not set, using an ephemeral signing key", nil)
		secret = securecookie.GenerateRandomKey(sessionKeySize)
	}

	store := sessions.NewCookieStore(secret)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(cfg.SessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	}

	return &Manager{
		cookies: store,
		states:  cache.New(cfg.SessionTTL, cfg.SessionTTL/2),
		name:    cfg.SessionName,
		ttl:     cfg.SessionTTL,
	}
}

// Load returns the state for the request's session, or a fresh state
func (m *Manager) Load(c *gin.Context) State {
	id := m.sessionID(c)
	if id == "" {
		return NewState()
	}
	c.Set(contextKey, id)

	if v, ok := m.states.Get(id); ok {
		if state, ok := v.(State); ok {
			return state
		}
	}
	return NewState()
}

// Save stores state and makes sure the client holds a session cookie
func (m *Manager) Save(c *gin.Context, state State) error {
	sess, _ := m.cookies.Get(c.Request, m.name)

	id, _ := sess.Values[idKey].(string)
	if id == "" {
		id = uuid.NewString()
		sess.Values[idKey] = id
	}
	// refresh the cookie so its MaxAge tracks the cache entry
	if err := sess.Save(c.Request, c.Writer); err != nil {
		return err
	}

	c.Set(contextKey, id)
	m.states.Set(id, state, m.ttl)
	return nil
}

// Active reports how many sessions hold state
func (m *Manager) Active() int {
	return m.states.ItemCount()
}

func (m *Manager) sessionID(c *gin.Context) string {
	// an undecodable cookie yields a new, empty session
	sess, err := m.cookies.Get(c.Request, m.name)
	if err != nil {
		return ""
	}
	id, _ := sess.Values[idKey].(string)
	return id
}
