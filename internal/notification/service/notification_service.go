package service

import (
	"context"
	"encoding/json"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/karigar-kart/karigar-backend/internal/notification/domain"
	"github.com/karigar-kart/karigar-backend/internal/notification/repository"
)

// storeKey is the fixed key the whole list is serialized under.
const storeKey = "karigar:notifications"

// NotificationService owns the append-only (capped) notification list.
// All mutation goes through its methods; consumers receive copies.
// The full list is written back to the store on every state change and
// loaded once at construction — corrupt stored data is logged and
// discarded, never surfaced.
type NotificationService struct {
	kv repository.KV

	mu   sync.RWMutex
	list []domain.Notification
}

func NewNotificationService(ctx context.Context, kv repository.KV) *NotificationService {
	s := &NotificationService{kv: kv}
	s.load(ctx)
	return s
}

// Add assigns an id and timestamp, marks the entry unread, prepends it
// and evicts the oldest entries beyond the cap.
func (s *NotificationService) Add(ctx context.Context, req *domain.CreateNotificationRequest) (*domain.Notification, error) {
	if req.RecipientID == "" {
		return nil, domain.ErrMissingRecipient
	}

	n := domain.Notification{
		ID:              uuid.New().String(),
		RecipientID:     req.RecipientID,
		RecipientRole:   req.RecipientRole,
		Message:         req.Message,
		Timestamp:       time.Now(),
		Read:            false,
		CustomerName:    req.CustomerName,
		WorkerName:      req.WorkerName,
		ServiceCategory: req.ServiceCategory,
	}

	s.mu.Lock()
	s.list = append([]domain.Notification{n}, s.list...)
	if len(s.list) > domain.MaxPerStore {
		s.list = s.list[:domain.MaxPerStore]
	}
	s.persist(ctx)
	s.mu.Unlock()

	return &n, nil
}

// ForUser returns the recipient's entries, most recent first.
func (s *NotificationService) ForUser(userID string) []domain.Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.Notification
	for _, n := range s.list {
		if n.RecipientID == userID {
			out = append(out, n)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	return out
}

// UnreadCount returns the number of unread entries for the recipient.
func (s *NotificationService) UnreadCount(userID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, n := range s.list {
		if n.RecipientID == userID && !n.Read {
			count++
		}
	}
	return count
}

// MarkAsRead marks one entry read. Unknown ids are a no-op; the
// operation is idempotent.
func (s *NotificationService) MarkAsRead(ctx context.Context, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.list {
		if s.list[i].ID == id {
			if !s.list[i].Read {
				s.list[i].Read = true
				s.persist(ctx)
			}
			return
		}
	}
}

// MarkAllAsRead marks every entry for the recipient read.
func (s *NotificationService) MarkAllAsRead(ctx context.Context, userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	changed := false
	for i := range s.list {
		if s.list[i].RecipientID == userID && !s.list[i].Read {
			s.list[i].Read = true
			changed = true
		}
	}
	if changed {
		s.persist(ctx)
	}
}

func (s *NotificationService) load(ctx context.Context) {
	raw, ok, err := s.kv.Get(ctx, storeKey)
	if err != nil {
		log.Printf("notification: load: %v", err)
		return
	}
	if !ok {
		return
	}

	var list []domain.Notification
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		log.Printf("notification: discarding corrupt stored list: %v", err)
		return
	}
	s.list = list
}

// persist writes the full list back. Callers hold s.mu.
func (s *NotificationService) persist(ctx context.Context) {
	data, err := json.Marshal(s.list)
	if err != nil {
		log.Printf("notification: marshal: %v", err)
		return
	}
	if err := s.kv.Set(ctx, storeKey, string(data)); err != nil {
		log.Printf("notification: persist: %v", err)
	}
}
