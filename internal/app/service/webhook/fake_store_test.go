package webhook

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/pawcare/backend/internal/models"
	"github.com/pawcare/backend/pkg/types"
)

// memStore is an in-memory Store with injectable failures.
type memStore struct {
	mu       sync.Mutex
	events   map[string]*models.WebhookEvent
	users    map[string]*models.User // by firebase uid
	payments []*models.Payment

	createErr error
	applyErr  error
	listErr   error
	applied   int
}

func newMemStore() *memStore {
	return &memStore{events: map[string]*models.WebhookEvent{}, users: map[string]*models.User{}}
}

func (m *memStore) addUser(id, uid string) {
	m.users[uid] = &models.User{ID: id, FirebaseUID: uid, CurrentPlan: types.PlanFree}
}

func (m *memStore) CreateEvent(_ context.Context, ev *models.WebhookEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	if _, ok := m.events[ev.ID]; ok {
		return ErrDuplicateEvent
	}
	cp := *ev
	m.events[ev.ID] = &cp
	return nil
}

func (m *memStore) GetEvent(_ context.Context, id string) (*models.WebhookEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ev, ok := m.events[id]
	if !ok {
		return nil, errors.New("not found")
	}
	cp := *ev
	return &cp, nil
}

func (m *memStore) ListUnprocessed(_ context.Context, eventType string) ([]*models.WebhookEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []*models.WebhookEvent
	for _, ev := range m.events {
		if !ev.Processed && ev.EventType == eventType {
			cp := *ev
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memStore) FindUserByFirebaseUID(_ context.Context, uid string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[uid]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (m *memStore) ApplyReconciliation(_ context.Context, eventID string, p *models.Payment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.applied++
	if m.applyErr != nil {
		return m.applyErr
	}
	ev := m.events[eventID]
	if ev == nil || ev.Processed {
		return ErrAlreadyProcessed
	}
	ev.Processed = true
	for _, existing := range m.payments {
		if existing.ProviderSessionID == p.ProviderSessionID {
			return ErrSessionReconciled
		}
	}
	m.payments = append(m.payments, p)
	for _, u := range m.users {
		if u.ID == p.UserID {
			u.CurrentPlan = types.PlanPremium
		}
	}
	return nil
}

func (m *memStore) MarkFailed(_ context.Context, eventID, message string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if ev := m.events[eventID]; ev != nil {
		ev.ErrorMessage = &message
	}
	return nil
}

func (m *memStore) ScanEvents(_ context.Context, _ *ScanEventsRequest) (*ScanEventsResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := &ScanEventsResponse{}
	for _, ev := range m.events {
		out.Items = append(out.Items, ev)
	}
	out.Total = int64(len(out.Items))
	return out, nil
}
