package session

import (
	"context"
	"errors"
	"testing"

	"github.com/temperhq/taskcal/internal/model"
)

// fakeAuth is a canned Authenticator.
type fakeAuth struct {
	session    *model.Session
	err        error
	signOutErr error
	signedOut  int
}

func (f *fakeAuth) SignInWithPassword(ctx context.Context, email, password string) (*model.Session, error) {
	return f.session, f.err
}

func (f *fakeAuth) SignUp(ctx context.Context, email, password string) (*model.Session, error) {
	return f.session, f.err
}

func (f *fakeAuth) RefreshSession(ctx context.Context, refreshToken string) (*model.Session, error) {
	return f.session, f.err
}

func (f *fakeAuth) SignOut(ctx context.Context, accessToken string) error {
	f.signedOut++
	return f.signOutErr
}

// memCreds is an in-memory CredentialStore.
type memCreds map[string]string

func (m memCreds) Get(key string) (string, error) {
	v, ok := m[key]
	if !ok {
		return "", errors.New("not found")
	}
	return v, nil
}

func (m memCreds) Set(key, value string) error { m[key] = value; return nil }
func (m memCreds) Delete(key string) error     { delete(m, key); return nil }

func testSession() *model.Session {
	return &model.Session{
		AccessToken:   "at-1",
		RefreshToken:  "rt-1",
		ProviderToken: "pt-1",
		User:          model.User{ID: "u1", Email: "ada@example.com"},
	}
}

func TestSignInInstallsSessionAndPersistsRefreshToken(t *testing.T) {
	creds := memCreds{}
	m := NewManager(&fakeAuth{session: testSession()}, creds)

	if err := m.SignIn(context.Background(), "ada@example.com", "pw"); err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	if m.User() == nil || m.User().ID != "u1" {
		t.Errorf("User() = %v, want u1", m.User())
	}
	if creds[refreshTokenKey] != "rt-1" {
		t.Errorf("refresh token not persisted: %v", creds)
	}
}

func TestResolveResumesPersistedSession(t *testing.T) {
	creds := memCreds{refreshTokenKey: "rt-old"}
	m := NewManager(&fakeAuth{session: testSession()}, creds)

	m.Resolve(context.Background())
	if m.AccessToken() != "at-1" {
		t.Errorf("AccessToken after Resolve = %q, want at-1", m.AccessToken())
	}
}

func TestResolveDropsRejectedToken(t *testing.T) {
	creds := memCreds{refreshTokenKey: "rt-revoked"}
	m := NewManager(&fakeAuth{err: errors.New("invalid_grant")}, creds)

	m.Resolve(context.Background())
	if m.Current() != nil {
		t.Error("manager should stay signed out after a rejected refresh")
	}
	if _, err := creds.Get(refreshTokenKey); err == nil {
		t.Error("rejected refresh token should be deleted from the store")
	}
}

func TestSubscribeNotifiesAndUnsubscribeStops(t *testing.T) {
	m := NewManager(&fakeAuth{}, memCreds{})

	var got []*model.Session
	unsubscribe := m.Subscribe(func(s *model.Session) {
		got = append(got, s)
	})

	m.Set(testSession())
	m.Set(nil)
	if len(got) != 2 {
		t.Fatalf("subscriber saw %d notifications, want 2", len(got))
	}
	if got[0] == nil || got[1] != nil {
		t.Error("notifications arrived out of order")
	}

	unsubscribe()
	unsubscribe() // calling twice must be safe
	m.Set(testSession())
	if len(got) != 2 {
		t.Errorf("unsubscribed callback still fired, saw %d", len(got))
	}
}

func TestProviderTokenIndependentOfUser(t *testing.T) {
	m := NewManager(&fakeAuth{}, memCreds{})

	sess := testSession()
	sess.ProviderToken = "" // password sign-in: user yes, provider token no
	m.Set(sess)

	if m.User() == nil {
		t.Fatal("user should be present")
	}
	if m.ProviderToken() != "" {
		t.Errorf("ProviderToken = %q, want empty", m.ProviderToken())
	}
}

func TestSignOutClearsStateEvenWhenRemoteFails(t *testing.T) {
	creds := memCreds{}
	auth := &fakeAuth{session: testSession(), signOutErr: errors.New("503")}
	m := NewManager(auth, creds)

	if err := m.SignIn(context.Background(), "ada@example.com", "pw"); err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	m.SignOut(context.Background())

	if auth.signedOut != 1 {
		t.Errorf("remote sign-out called %d times, want 1", auth.signedOut)
	}
	if m.Current() != nil {
		t.Error("session should be cleared locally despite the remote failure")
	}
	if _, err := creds.Get(refreshTokenKey); err == nil {
		t.Error("refresh token should be deleted on sign-out")
	}
}

func TestSignUpPendingConfirmation(t *testing.T) {
	// Confirmation-pending sign-ups return a session without tokens.
	m := NewManager(&fakeAuth{session: &model.Session{
		User: model.User{ID: "u2", Email: "new@example.com"},
	}}, memCreds{})

	pending, err := m.SignUp(context.Background(), "new@example.com", "pw")
	if err != nil {
		t.Fatalf("SignUp: %v", err)
	}
	if !pending {
		t.Error("tokenless sign-up should report pending confirmation")
	}
	if m.Current() != nil {
		t.Error("manager must stay signed out while confirmation is pending")
	}
}
