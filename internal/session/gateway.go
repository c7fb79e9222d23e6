// Package session owns the single "current user" of a device: it logs in
// against an Authenticator and keeps the result in a key-value store so it
// survives restarts.
package session

import (
	"context"
	"errors"
	"log"
	"sync"

	"centralfight/gym-app/internal/domain"
	"centralfight/gym-app/internal/service"
	"centralfight/gym-app/internal/storage"
)

// DefaultKey is the store key holding the serialized session.
const DefaultKey = "user"

var (
	ErrNotAuthenticated = errors.New("no user is signed in")
	ErrAccountMismatch  = errors.New("account does not match the signed-in user")
)

type State int

const (
	Unauthenticated State = iota
	Authenticating
	Authenticated
)

func (s State) String() string {
	switch s {
	case Unauthenticated:
		return "unauthenticated"
	case Authenticating:
		return "authenticating"
	case Authenticated:
		return "authenticated"
	}
	return "unknown"
}

// Authenticator verifies credentials. service.AuthService satisfies it.
type Authenticator interface {
	Authenticate(ctx context.Context, email, password string, role domain.Role) (domain.Account, error)
}

// Gateway is the session state machine. Construct one at startup and pass
// it to whatever needs the current user.
type Gateway struct {
	auth  Authenticator
	store storage.KeyValueStore
	key   string

	mu      sync.Mutex
	state   State
	account domain.Account
	// gen changes whenever account does; a stale write is skipped.
	gen uint64

	// ioMu orders store writes. mu may be taken while holding ioMu, never
	// the reverse.
	ioMu sync.Mutex
}

func NewGateway(auth Authenticator, store storage.KeyValueStore, key string) *Gateway {
	if key == "" {
		key = DefaultKey
	}
	return &Gateway{auth: auth, store: store, key: key}
}

// State returns the current state.
func (g *Gateway) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Current returns the authenticated account, if any.
func (g *Gateway) Current() (domain.Account, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.state != Authenticated {
		return nil, false
	}
	return g.account, true
}

// Restore loads a previously persisted session without re-checking
// credentials. A missing or unreadable record leaves the gateway
// unauthenticated.
func (g *Gateway) Restore(ctx context.Context) bool {
	data, err := g.store.Get(ctx, g.key)
	if err != nil {
		if !errors.Is(err, storage.ErrObjectNotFound) {
			log.Printf("ERROR: Error loading stored session: %v", err)
		}
		return false
	}
	acc, err := DecodeAccount(data)
	if err != nil {
		log.Printf("ERROR: Error decoding stored session: %v", err)
		return false
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.state == Authenticating {
		// a login is under way; its outcome wins
		return false
	}
	g.state = Authenticated
	g.account = acc
	g.gen++
	return true
}

// Login authenticates and, on success, persists the account. Bad
// credentials yield false, never an error. A login started while another
// is still authenticating is rejected. A failed login leaves any existing
// session in place.
func (g *Gateway) Login(ctx context.Context, email, password string, role domain.Role) bool {
	g.mu.Lock()
	if g.state == Authenticating {
		g.mu.Unlock()
		log.Printf("WARN: Login for %s rejected: another login is in progress", email)
		return false
	}
	prevState, prevAccount := g.state, g.account
	g.state = Authenticating
	g.mu.Unlock()

	acc, err := g.auth.Authenticate(ctx, email, password, role)

	g.mu.Lock()
	if err != nil {
		g.state, g.account = prevState, prevAccount
		g.mu.Unlock()
		if !errors.Is(err, service.ErrAuthenticationFailed) {
			log.Printf("ERROR: Login error: %v", err)
		}
		return false
	}
	g.state = Authenticated
	g.account = acc
	g.gen++
	gen := g.gen
	g.mu.Unlock()

	// The session holds for this process even if it cannot be stored.
	g.persist(ctx, acc, gen)
	return true
}

// Replace swaps the signed-in account for an edited copy of itself and
// stores it. It fails when nobody is signed in or acc is a different account.
func (g *Gateway) Replace(ctx context.Context, acc domain.Account) error {
	g.mu.Lock()
	if g.state != Authenticated {
		g.mu.Unlock()
		return ErrNotAuthenticated
	}
	if acc == nil || acc.Role() != g.account.Role() || acc.Profile().ID != g.account.Profile().ID {
		g.mu.Unlock()
		return ErrAccountMismatch
	}
	g.account = acc
	g.gen++
	gen := g.gen
	g.mu.Unlock()

	g.persist(ctx, acc, gen)
	return nil
}

// persist stores acc unless the session moved on after generation gen.
// Store I/O runs without mu held, so State and Current never wait on it.
func (g *Gateway) persist(ctx context.Context, acc domain.Account, gen uint64) {
	data, err := EncodeAccount(acc)
	if err != nil {
		log.Printf("ERROR: Error encoding session: %v", err)
		return
	}

	g.ioMu.Lock()
	defer g.ioMu.Unlock()
	g.mu.Lock()
	stale := g.gen != gen
	g.mu.Unlock()
	if stale {
		return
	}
	if err := g.store.Set(ctx, g.key, data); err != nil {
		log.Printf("ERROR: Error persisting session: %v", err)
	}
}

// Logout always ends the session, even if the stored record cannot be removed.
func (g *Gateway) Logout(ctx context.Context) {
	g.mu.Lock()
	g.state = Unauthenticated
	g.account = nil
	g.gen++
	g.mu.Unlock()

	g.ioMu.Lock()
	defer g.ioMu.Unlock()
	if err := g.store.Remove(ctx, g.key); err != nil {
		log.Printf("ERROR: Logout error: %v", err)
	}
}
