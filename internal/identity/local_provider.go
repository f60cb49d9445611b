package identity

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

type localAccount struct {
	uid         string
	password    string
	displayName string
}

// LocalProvider is the in-process identity provider used when Firebase
// is not configured. Accounts live in memory; the demo directory
// emails are pre-registered with the password "password123".
type LocalProvider struct {
	mu       sync.Mutex
	accounts map[string]*localAccount

	listeners []Listener
}

func NewLocalProvider() *LocalProvider {
	p := &LocalProvider{accounts: make(map[string]*localAccount)}

	for _, email := range []string{
		"suresh.p@example.com",
		"anita.d@example.com",
		"irfan.m@example.com",
		"kavita.m@example.com",
		"rajesh.k@example.com",
		"priya.s@example.com",
		"amit.v@example.com",
	} {
		p.accounts[email] = &localAccount{uid: uuid.New().String(), password: "password123"}
	}

	return p
}

func (p *LocalProvider) SignIn(_ context.Context, email, password string) (*User, error) {
	p.mu.Lock()
	acct, ok := p.accounts[email]
	p.mu.Unlock()

	if !ok || acct.password != password {
		return nil, ErrInvalidCredentials
	}

	u := &User{UID: acct.uid, Email: email, DisplayName: acct.displayName}
	p.notify(u)
	return u, nil
}

func (p *LocalProvider) CreateUser(_ context.Context, email, password string) (*User, error) {
	p.mu.Lock()
	if _, exists := p.accounts[email]; exists {
		p.mu.Unlock()
		return nil, ErrEmailInUse
	}
	acct := &localAccount{uid: uuid.New().String(), password: password}
	p.accounts[email] = acct
	p.mu.Unlock()

	u := &User{UID: acct.uid, Email: email}
	p.notify(u)
	return u, nil
}

func (p *LocalProvider) SignOut(_ context.Context, _ string) error {
	p.notify(nil)
	return nil
}

func (p *LocalProvider) UpdateDisplayName(_ context.Context, uid, name string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, acct := range p.accounts {
		if acct.uid == uid {
			acct.displayName = name
			return nil
		}
	}
	return ErrInvalidCredentials
}

func (p *LocalProvider) OnSessionChange(l Listener) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.listeners = append(p.listeners, l)
}

func (p *LocalProvider) notify(u *User) {
	p.mu.Lock()
	listeners := make([]Listener, len(p.listeners))
	copy(listeners, p.listeners)
	p.mu.Unlock()

	for _, l := range listeners {
		l(u)
	}
}
