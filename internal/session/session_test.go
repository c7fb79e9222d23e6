package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"centralfight/gym-app/internal/domain"
	"centralfight/gym-app/internal/repository/memory"
	"centralfight/gym-app/internal/seed"
	"centralfight/gym-app/internal/service"
	"centralfight/gym-app/internal/storage"

	"golang.org/x/crypto/bcrypt"
)

func newAuth(t *testing.T) service.AuthService {
	t.Helper()
	hash, err := service.HashPassword("123456", bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	return service.NewAuthService(memory.NewDirectory(seed.Snapshot(hash)), "secret", time.Hour)
}

// brokenStore fails every operation.
type brokenStore struct{}

var errDisk = errors.New("disk unavailable")

func (brokenStore) Get(context.Context, string) ([]byte, error) { return nil, errDisk }
func (brokenStore) Set(context.Context, string, []byte) error   { return errDisk }
func (brokenStore) Remove(context.Context, string) error        { return errDisk }

// gatedAuth blocks in Authenticate until release is closed.
type gatedAuth struct {
	entered chan struct{}
	release chan struct{}
	acc     domain.Account
}

func (g *gatedAuth) Authenticate(ctx context.Context, email, password string, role domain.Role) (domain.Account, error) {
	close(g.entered)
	<-g.release
	return g.acc, nil
}

func TestLoginLogoutRestore(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	auth := newAuth(t)

	g := NewGateway(auth, store, "")
	if g.State() != Unauthenticated {
		t.Fatalf("initial state = %s", g.State())
	}
	if g.Restore(ctx) {
		t.Fatal("Restore() on empty store reported a session")
	}

	if !g.Login(ctx, "joao@email.com", "123456", domain.RoleStudent) {
		t.Fatal("Login() with valid credentials failed")
	}
	acc, ok := g.Current()
	if !ok || acc.Profile().ID != "student1" || g.State() != Authenticated {
		t.Fatalf("after login: %v %v %s", acc, ok, g.State())
	}

	// a fresh gateway over the same store picks the session up
	restored := NewGateway(auth, store, DefaultKey)
	if !restored.Restore(ctx) {
		t.Fatal("Restore() did not find the persisted session")
	}
	racc, _ := restored.Current()
	st, ok := racc.(domain.Student)
	if !ok || st.ID != "student1" || st.Points != 850 || st.Plan.ID != "2" {
		t.Errorf("restored account = %#v", racc)
	}
	if st.PasswordHash != "" {
		t.Error("password hash was persisted")
	}

	g.Logout(ctx)
	if _, ok := g.Current(); ok || g.State() != Unauthenticated {
		t.Errorf("after logout: state %s", g.State())
	}
	if _, err := store.Get(ctx, DefaultKey); !errors.Is(err, storage.ErrObjectNotFound) {
		t.Errorf("session record still stored: %v", err)
	}
}

func TestLoginFailures(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name     string
		email    string
		password string
		role     domain.Role
	}{
		{"wrong password", "carlos@centralfight.com", "000000", domain.RoleTrainer},
		{"unknown email", "ghost@email.com", "123456", domain.RoleStudent},
		{"role mismatch", "carlos@centralfight.com", "123456", domain.RoleStudent},
		{"invalid role", "carlos@centralfight.com", "123456", "owner"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := storage.NewMemoryStore()
			g := NewGateway(newAuth(t), store, "")
			if g.Login(ctx, tt.email, tt.password, tt.role) {
				t.Fatal("Login() succeeded")
			}
			if g.State() != Unauthenticated {
				t.Errorf("state = %s", g.State())
			}
			if _, err := store.Get(ctx, DefaultKey); !errors.Is(err, storage.ErrObjectNotFound) {
				t.Errorf("failed login wrote a record: %v", err)
			}
		})
	}
}

func TestFailedReloginKeepsSession(t *testing.T) {
	ctx := context.Background()
	g := NewGateway(newAuth(t), storage.NewMemoryStore(), "")
	if !g.Login(ctx, "carlos@centralfight.com", "123456", domain.RoleTrainer) {
		t.Fatal("Login() failed")
	}
	if g.Login(ctx, "carlos@centralfight.com", "wrong", domain.RoleTrainer) {
		t.Fatal("Login() with wrong password succeeded")
	}
	acc, ok := g.Current()
	if !ok || acc.Role() != domain.RoleTrainer {
		t.Errorf("session lost after failed re-login: %v %v", acc, ok)
	}
}

func TestStorageFailuresAreNotFatal(t *testing.T) {
	ctx := context.Background()
	g := NewGateway(newAuth(t), brokenStore{}, "")

	if g.Restore(ctx) {
		t.Error("Restore() over a failing store reported a session")
	}
	if !g.Login(ctx, "maria@email.com", "123456", domain.RoleStudent) {
		t.Fatal("Login() failed because the store could not persist")
	}
	if g.State() != Authenticated {
		t.Errorf("state = %s", g.State())
	}
	g.Logout(ctx)
	if g.State() != Unauthenticated {
		t.Errorf("Logout() left state %s", g.State())
	}
}

func TestRestoreIgnoresBadRecords(t *testing.T) {
	ctx := context.Background()
	tests := map[string]string{
		"not json":       `{{{`,
		"future version": `{"version":99,"type":"student","account":{}}`,
		"unknown type":   `{"version":1,"type":"admin","account":{}}`,
		"bad account":    `{"version":1,"type":"trainer","account":"nope"}`,
	}
	for name, raw := range tests {
		t.Run(name, func(t *testing.T) {
			store := storage.NewMemoryStore()
			if err := store.Set(ctx, DefaultKey, []byte(raw)); err != nil {
				t.Fatal(err)
			}
			g := NewGateway(newAuth(t), store, "")
			if g.Restore(ctx) || g.State() != Unauthenticated {
				t.Errorf("Restore() accepted %s", raw)
			}
		})
	}
}

func TestConcurrentLoginRejected(t *testing.T) {
	ctx := context.Background()
	trainer := seed.Snapshot("").Trainers[0]
	auth := &gatedAuth{entered: make(chan struct{}), release: make(chan struct{}), acc: trainer}
	g := NewGateway(auth, storage.NewMemoryStore(), "")

	done := make(chan bool)
	go func() { done <- g.Login(ctx, "carlos@centralfight.com", "123456", domain.RoleTrainer) }()
	<-auth.entered

	if g.State() != Authenticating {
		t.Errorf("state during login = %s", g.State())
	}
	if g.Login(ctx, "joao@email.com", "123456", domain.RoleStudent) {
		t.Error("second Login() during authentication succeeded")
	}

	close(auth.release)
	if !<-done {
		t.Fatal("first Login() failed")
	}
	acc, _ := g.Current()
	if acc.Profile().ID != trainer.ID {
		t.Errorf("current = %s, want %s", acc.Profile().ID, trainer.ID)
	}
}

func TestRecordRoundTrip(t *testing.T) {
	snap := seed.Snapshot("secret-hash")
	for _, acc := range []domain.Account{snap.Students[2], snap.Trainers[0]} {
		data, err := EncodeAccount(acc)
		if err != nil {
			t.Fatalf("EncodeAccount(%s) = %v", acc.Profile().ID, err)
		}
		got, err := DecodeAccount(data)
		if err != nil {
			t.Fatalf("DecodeAccount() = %v", err)
		}
		if got.Role() != acc.Role() || got.Profile().ID != acc.Profile().ID || got.Profile().Email != acc.Profile().Email {
			t.Errorf("round trip of %s = %#v", acc.Profile().ID, got)
		}
	}
	if tr, _ := DecodeAccount(mustEncode(t, snap.Trainers[0])); len(tr.(domain.Trainer).StudentIDs) != 4 {
		t.Error("trainer roster lost in round trip")
	}
	if _, err := EncodeAccount(nil); err == nil {
		t.Error("EncodeAccount(nil) succeeded")
	}
	if _, err := DecodeAccount([]byte(`{"version":2,"type":"student","account":{}}`)); !errors.Is(err, ErrUnsupportedVersion) {
		t.Errorf("DecodeAccount(v2) = %v", err)
	}
}

func mustEncode(t *testing.T, acc domain.Account) []byte {
	t.Helper()
	data, err := EncodeAccount(acc)
	if err != nil {
		t.Fatal(err)
	}
	return data
}

// slowStore holds every Set until release is closed.
type slowStore struct {
	storage.KeyValueStore
	setting chan struct{}
	release chan struct{}
}

func (s *slowStore) Set(ctx context.Context, key string, value []byte) error {
	s.setting <- struct{}{}
	<-s.release
	return s.KeyValueStore.Set(ctx, key, value)
}

func TestStateIsReadableWhilePersisting(t *testing.T) {
	ctx := context.Background()
	store := &slowStore{KeyValueStore: storage.NewMemoryStore(), setting: make(chan struct{}, 1), release: make(chan struct{})}
	g := NewGateway(newAuth(t), store, "")

	done := make(chan bool)
	go func() { done <- g.Login(ctx, "ana@email.com", "123456", domain.RoleStudent) }()
	<-store.setting

	read := make(chan State)
	go func() { read <- g.State() }()
	select {
	case st := <-read:
		if st != Authenticated {
			t.Errorf("state while persisting = %s", st)
		}
	case <-time.After(time.Second):
		t.Fatal("State() blocked on the store write")
	}
	if acc, ok := g.Current(); !ok || acc.Profile().ID != "student4" {
		t.Errorf("Current() while persisting = %v, %v", acc, ok)
	}

	close(store.release)
	if !<-done {
		t.Fatal("Login() failed")
	}
}

func TestLogoutDuringPersistLeavesNoRecord(t *testing.T) {
	ctx := context.Background()
	mem := storage.NewMemoryStore()
	store := &slowStore{KeyValueStore: mem, setting: make(chan struct{}, 1), release: make(chan struct{})}
	g := NewGateway(newAuth(t), store, "")

	done := make(chan bool)
	go func() { done <- g.Login(ctx, "ana@email.com", "123456", domain.RoleStudent) }()
	<-store.setting

	loggedOut := make(chan struct{})
	go func() {
		g.Logout(ctx)
		close(loggedOut)
	}()
	close(store.release)
	<-done
	<-loggedOut

	if g.State() != Unauthenticated {
		t.Errorf("state = %s", g.State())
	}
	if _, err := mem.Get(ctx, DefaultKey); !errors.Is(err, storage.ErrObjectNotFound) {
		t.Errorf("session record survived logout: %v", err)
	}
}

func TestReplace(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	g := NewGateway(newAuth(t), store, "")

	if err := g.Replace(ctx, seed.Snapshot("").Students[0]); !errors.Is(err, ErrNotAuthenticated) {
		t.Errorf("Replace() signed out = %v", err)
	}
	if !g.Login(ctx, "joao@email.com", "123456", domain.RoleStudent) {
		t.Fatal("Login() failed")
	}
	acc, _ := g.Current()
	st := acc.(domain.Student)

	if err := g.Replace(ctx, seed.Snapshot("").Students[1]); !errors.Is(err, ErrAccountMismatch) {
		t.Errorf("Replace(other student) = %v", err)
	}
	if err := g.Replace(ctx, seed.Snapshot("").Trainers[0]); !errors.Is(err, ErrAccountMismatch) {
		t.Errorf("Replace(trainer) = %v", err)
	}

	edited := st.WithProfile(domain.Profile{Name: "João S.", Email: st.Email, Phone: "(11) 90000-0000"})
	if err := g.Replace(ctx, edited); err != nil {
		t.Fatalf("Replace() = %v", err)
	}
	restored := NewGateway(newAuth(t), store, "")
	if !restored.Restore(ctx) {
		t.Fatal("Restore() after Replace found nothing")
	}
	got, _ := restored.Current()
	if got.Profile().Name != "João S." || got.Profile().Phone != "(11) 90000-0000" {
		t.Errorf("restored profile = %+v", got.Profile())
	}
}
