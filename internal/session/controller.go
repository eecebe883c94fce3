// Package session tracks whether the admin surface is authenticated and
// hands out the FAQ repository only while it is.
package session

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/unibot/cli/internal/apperr"
	"github.com/unibot/cli/internal/faq"
	"github.com/unibot/cli/internal/notify"
)

// State is the authentication state of the admin surface.
type State int

const (
	LoggedOut State = iota
	LoggedIn
)

func (s State) String() string {
	if s == LoggedIn {
		return "logged_in"
	}
	return "logged_out"
}

// User-facing login messages.
const (
	MsgCredentialsRequired = "Please enter both username and password"
	MsgInvalidCredentials  = "Invalid username or password"
	MsgConnectFailed       = apperr.MsgConnectivity
)

// Authenticator submits admin credentials.
type Authenticator interface {
	Login(ctx context.Context, username, password string) error
}

// Controller owns the LoggedOut/LoggedIn state. It only changes state on an
// accepted login or an explicit logout.
type Controller struct {
	auth   Authenticator
	repo   *faq.Repository
	logger *zap.Logger
	hub    notify.Hub

	mu       sync.Mutex
	state    State
	username string
	password string
	pending  bool
	err      error
}

// NewController builds a logged-out controller. repo is loaded after every
// successful login.
func NewController(auth Authenticator, repo *faq.Repository, logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{
		auth:   auth,
		repo:   repo,
		logger: logger.Named("session"),
	}
}

// Subscribe registers fn to run after every state change.
func (c *Controller) Subscribe(fn func()) func() {
	return c.hub.Subscribe(fn)
}

// SetUsername replaces the username input buffer.
func (c *Controller) SetUsername(v string) {
	c.mu.Lock()
	c.username = v
	c.mu.Unlock()
}

// SetPassword replaces the password input buffer.
func (c *Controller) SetPassword(v string) {
	c.mu.Lock()
	c.password = v
	c.mu.Unlock()
}

// Submit logs in with the current input buffers.
func (c *Controller) Submit(ctx context.Context) error {
	c.mu.Lock()
	username, password := c.username, c.password
	c.mu.Unlock()
	return c.Login(ctx, username, password)
}

// Login validates and submits credentials. Empty fields fail locally with a
// validation error. A rejected login is an authentication error and a
// network failure is a connectivity error; both leave the state LoggedOut.
// On success the state becomes LoggedIn and the repository is loaded; a
// failed initial load is logged and kept on the repository but does not
// fail the login.
func (c *Controller) Login(ctx context.Context, username, password string) error {
	username = strings.TrimSpace(username)
	password = strings.TrimSpace(password)

	c.mu.Lock()
	if c.pending {
		c.mu.Unlock()
		return apperr.Busy("login")
	}
	if username == "" || password == "" {
		err := apperr.Validation("login", MsgCredentialsRequired)
		c.err = err
		c.mu.Unlock()
		c.hub.Publish()
		return err
	}
	c.pending = true
	c.err = nil
	c.mu.Unlock()
	c.hub.Publish()

	err := c.auth.Login(ctx, username, password)
	if err != nil {
		classified := classifyLogin(err)
		c.logger.Error("login failed", zap.String("username", username), zap.Error(err))
		c.mu.Lock()
		c.pending = false
		c.err = classified
		c.mu.Unlock()
		c.hub.Publish()
		return classified
	}

	c.mu.Lock()
	c.pending = false
	c.state = LoggedIn
	c.mu.Unlock()
	c.logger.Info("logged in", zap.String("username", username))
	c.hub.Publish()

	if c.repo != nil {
		if _, err := c.repo.Load(ctx); err != nil {
			c.logger.Warn("initial faq load failed", zap.Error(err))
		}
	}
	return nil
}

// classifyLogin treats any non-2xx answer as rejected credentials.
func classifyLogin(err error) error {
	return apperr.Classify("login", err, apperr.KindAuthentication, MsgInvalidCredentials)
}

// Logout returns to LoggedOut and clears the credential buffers. The FAQ
// cache is kept; it is reloaded on the next login.
func (c *Controller) Logout() {
	c.mu.Lock()
	c.state = LoggedOut
	c.username = ""
	c.password = ""
	c.err = nil
	c.mu.Unlock()
	c.logger.Info("logged out")
	c.hub.Publish()
}

// State returns the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// LoggedIn reports whether admin controls may be shown.
func (c *Controller) LoggedIn() bool {
	return c.State() == LoggedIn
}

// Pending reports whether a login request is in flight.
func (c *Controller) Pending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending
}

// Err returns the error of the last failed login attempt.
func (c *Controller) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// Credentials returns the current input buffers.
func (c *Controller) Credentials() (username, password string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.username, c.password
}

// Repository returns the FAQ repository while logged in.
func (c *Controller) Repository() (*faq.Repository, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != LoggedIn || c.repo == nil {
		return nil, false
	}
	return c.repo, true
}
