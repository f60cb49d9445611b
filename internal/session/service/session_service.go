package service

import (
	"context"
	"fmt"
	"log"
	"sync"

	dirdomain "github.com/karigar-kart/karigar-backend/internal/directory/domain"
	"github.com/karigar-kart/karigar-backend/internal/directory/repository"
	"github.com/karigar-kart/karigar-backend/internal/identity"
	"github.com/karigar-kart/karigar-backend/internal/session/domain"
)

// SessionService mirrors the identity provider's session, derives the
// application role and profile-completeness from the directory, and
// decides post-auth navigation.
//
// Operations are serialized: a login/signup/logout issued while one is
// in flight fails fast with ErrOperationInFlight instead of
// interleaving directory writes.
type SessionService struct {
	provider  identity.Provider
	directory repository.Directory

	opMu    sync.Mutex
	loading bool

	stateMu sync.RWMutex
	current *domain.Session
}

func NewSessionService(provider identity.Provider, directory repository.Directory) *SessionService {
	s := &SessionService{
		provider:  provider,
		directory: directory,
	}

	// Mirror provider-side sign-outs (revoked tokens, other tabs).
	provider.OnSessionChange(func(u *identity.User) {
		if u == nil {
			s.stateMu.Lock()
			s.current = nil
			s.stateMu.Unlock()
		}
	})

	return s
}

// Login signs in with the provider, derives role and completeness and
// returns the navigation target: /profile when the profile is
// incomplete, /dashboard otherwise. Provider failures leave the
// session unauthenticated and request no navigation.
func (s *SessionService) Login(ctx context.Context, email, password string) (*domain.AuthResult, error) {
	if err := s.begin(); err != nil {
		return nil, err
	}
	defer s.end()

	user, err := s.provider.SignIn(ctx, email, password)
	if err != nil {
		return nil, err
	}

	sess := s.buildSession(ctx, user)
	s.setCurrent(sess)

	redirect := domain.RouteDashboard
	if !sess.ProfileComplete {
		redirect = domain.RouteProfile
	}

	return &domain.AuthResult{Session: sess, RedirectTo: redirect}, nil
}

// Signup creates the provider identity, sets its display name, and
// inserts a directory record for the chosen role with empty
// completion-relevant fields. The directory insert happens before any
// role detection for that email, so a freshly signed-up worker is
// recognized as a worker immediately. The new session is always
// incomplete and navigates to /profile.
func (s *SessionService) Signup(ctx context.Context, email, password, name string, role domain.UserRole) (*domain.AuthResult, error) {
	if !domain.ValidRole(role) {
		return nil, domain.ErrInvalidRole
	}

	if err := s.begin(); err != nil {
		return nil, err
	}
	defer s.end()

	user, err := s.provider.CreateUser(ctx, email, password)
	if err != nil {
		return nil, err
	}

	if err := s.provider.UpdateDisplayName(ctx, user.UID, name); err != nil {
		// Non-fatal: the directory record carries the name regardless.
		log.Printf("session: set display name for %s: %v", user.UID, err)
	}
	user.DisplayName = name

	if err := s.insertDirectoryRecord(ctx, email, name, role); err != nil {
		return nil, fmt.Errorf("failed to create %s profile: %w", role, err)
	}

	sess := &domain.Session{
		UID:             user.UID,
		Email:           user.Email,
		Name:            name,
		Role:            role,
		ProfileComplete: false,
		State:           domain.StateAuthenticatedIncomplete,
	}
	s.setCurrent(sess)

	return &domain.AuthResult{Session: sess, RedirectTo: domain.RouteProfile}, nil
}

// Logout is best-effort at the provider: its failures are surfaced in
// the log but local state is always cleared.
func (s *SessionService) Logout(ctx context.Context) (*domain.AuthResult, error) {
	if err := s.begin(); err != nil {
		return nil, err
	}
	defer s.end()

	if cur := s.Current(); cur != nil {
		if err := s.provider.SignOut(ctx, cur.UID); err != nil {
			log.Printf("session: provider sign-out: %v", err)
		}
	}

	s.setCurrent(nil)
	return &domain.AuthResult{RedirectTo: domain.RouteLogin}, nil
}

// MarkProfileComplete recomputes completeness from the directory. It
// never unconditionally forces true: a caller claiming completion when
// the directory disagrees leaves the flag false.
func (s *SessionService) MarkProfileComplete(ctx context.Context) (*domain.Session, error) {
	return s.Refresh(ctx)
}

// Refresh recomputes role and completeness from the directory without
// a provider round-trip. Used after out-of-band directory updates.
func (s *SessionService) Refresh(ctx context.Context) (*domain.Session, error) {
	cur := s.Current()
	if cur == nil {
		return nil, domain.ErrNotAuthenticated
	}

	role := s.DetectRole(ctx, cur.Email)
	complete := s.profileComplete(ctx, role, cur.Email)

	sess := &domain.Session{
		UID:             cur.UID,
		Email:           cur.Email,
		Name:            cur.Name,
		Role:            role,
		ProfileComplete: complete,
		State:           stateFor(complete),
	}
	s.setCurrent(sess)
	return sess, nil
}

// UpdateCustomerProfile fills in the signed-in customer's profile
// fields and recomputes completeness.
func (s *SessionService) UpdateCustomerProfile(ctx context.Context, address, phone string) (*domain.Session, error) {
	cur := s.Current()
	if cur == nil {
		return nil, domain.ErrNotAuthenticated
	}

	c, err := s.directory.FindCustomerByEmail(ctx, cur.Email)
	if err != nil {
		return nil, err
	}
	if address != "" {
		c.Address = address
	}
	if phone != "" {
		c.Phone = phone
	}
	if err := s.directory.UpdateCustomer(ctx, c); err != nil {
		return nil, err
	}

	return s.Refresh(ctx)
}

// UpdateWorkerProfile fills in the signed-in worker's profile fields
// and recomputes completeness.
func (s *SessionService) UpdateWorkerProfile(ctx context.Context, skills []dirdomain.ServiceCategory, bio string, hourlyRate float64, area, phone string) (*domain.Session, error) {
	cur := s.Current()
	if cur == nil {
		return nil, domain.ErrNotAuthenticated
	}

	w, err := s.directory.FindWorkerByEmail(ctx, cur.Email)
	if err != nil {
		return nil, err
	}
	if len(skills) > 0 {
		for _, skill := range skills {
			if !dirdomain.ValidCategory(skill) {
				return nil, fmt.Errorf("unknown service category %q", skill)
			}
		}
		w.Skills = skills
	}
	if bio != "" {
		w.Bio = bio
	}
	if hourlyRate > 0 {
		w.HourlyRate = hourlyRate
	}
	if area != "" {
		w.Area = area
	}
	if phone != "" {
		w.Phone = phone
	}
	if err := s.directory.UpdateWorker(ctx, w); err != nil {
		return nil, err
	}

	return s.Refresh(ctx)
}

// DetectRole resolves a role by worker-directory membership: an email
// with a worker record is a worker, everything else is a customer.
// Only pre-seeded or previously signed-up workers are recognized;
// Signup keeps this sound by inserting the record before any lookup.
func (s *SessionService) DetectRole(ctx context.Context, email string) domain.UserRole {
	if _, err := s.directory.FindWorkerByEmail(ctx, email); err == nil {
		return domain.RoleWorker
	}
	return domain.RoleCustomer
}

// Current returns a copy of the active session, or nil.
func (s *SessionService) Current() *domain.Session {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()

	if s.current == nil {
		return nil
	}
	cp := *s.current
	return &cp
}

// Loading reports whether an auth operation is in flight.
func (s *SessionService) Loading() bool {
	s.opMu.Lock()
	defer s.opMu.Unlock()
	return s.loading
}

func (s *SessionService) begin() error {
	s.opMu.Lock()
	defer s.opMu.Unlock()
	if s.loading {
		return domain.ErrOperationInFlight
	}
	s.loading = true
	return nil
}

// end clears the loading flag; deferred on every operation so no exit
// path leaves it set.
func (s *SessionService) end() {
	s.opMu.Lock()
	s.loading = false
	s.opMu.Unlock()
}

func (s *SessionService) setCurrent(sess *domain.Session) {
	s.stateMu.Lock()
	s.current = sess
	s.stateMu.Unlock()
}

func (s *SessionService) buildSession(ctx context.Context, user *identity.User) *domain.Session {
	role := s.DetectRole(ctx, user.Email)
	complete := s.profileComplete(ctx, role, user.Email)

	name := user.DisplayName
	if name == "" {
		name = s.directoryName(ctx, role, user.Email)
	}

	return &domain.Session{
		UID:             user.UID,
		Email:           user.Email,
		Name:            name,
		Role:            role,
		ProfileComplete: complete,
		State:           stateFor(complete),
	}
}

// profileComplete derives the completion flag. A directory miss is not
// an error here: it simply means the profile is incomplete.
func (s *SessionService) profileComplete(ctx context.Context, role domain.UserRole, email string) bool {
	switch role {
	case domain.RoleCustomer:
		c, err := s.directory.FindCustomerByEmail(ctx, email)
		return err == nil && c.Complete()
	case domain.RoleWorker:
		w, err := s.directory.FindWorkerByEmail(ctx, email)
		return err == nil && w.Complete()
	}
	return false
}

func (s *SessionService) directoryName(ctx context.Context, role domain.UserRole, email string) string {
	switch role {
	case domain.RoleCustomer:
		if c, err := s.directory.FindCustomerByEmail(ctx, email); err == nil {
			return c.Name
		}
	case domain.RoleWorker:
		if w, err := s.directory.FindWorkerByEmail(ctx, email); err == nil {
			return w.Name
		}
	}
	return ""
}

func (s *SessionService) insertDirectoryRecord(ctx context.Context, email, name string, role domain.UserRole) error {
	switch role {
	case domain.RoleCustomer:
		return s.directory.InsertCustomer(ctx, &dirdomain.CustomerRecord{
			Name:  name,
			Email: email,
		})
	case domain.RoleWorker:
		return s.directory.InsertWorker(ctx, &dirdomain.WorkerRecord{
			Name:  name,
			Email: email,
		})
	}
	return domain.ErrInvalidRole
}

func stateFor(complete bool) domain.State {
	if complete {
		return domain.StateAuthenticatedComplete
	}
	return domain.StateAuthenticatedIncomplete
}
