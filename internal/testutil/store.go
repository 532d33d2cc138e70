// Package testutil provides in-memory stand-ins for the store, cache and event bus.
package testutil

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"consciousbet/internal/domain"

	"github.com/shopspring/decimal"
)

// MemoryStore is a domain.Store kept in maps. Atomic calls are serialised and
// roll back every change when fn fails.
type MemoryStore struct {
	txMu sync.Mutex
	mu   sync.Mutex

	users  map[uint]domain.User
	bets   map[uint]domain.Bet
	creds  map[string]domain.Credential
	nextID uint
	now    func() time.Time
}

// NewMemoryStore returns an empty store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users: map[uint]domain.User{},
		bets:  map[uint]domain.Bet{},
		creds: map[string]domain.Credential{},
		now:   time.Now,
	}
}

func (s *MemoryStore) Users() domain.UserRepository             { return memUsers{s} }
func (s *MemoryStore) Bets() domain.BetRepository               { return memBets{s} }
func (s *MemoryStore) Credentials() domain.CredentialRepository { return memCreds{s} }

func (s *MemoryStore) Atomic(_ context.Context, fn func(tx domain.Store) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	users, bets, creds, next := cloneMap(s.users), cloneMap(s.bets), cloneMap(s.creds), s.nextID
	s.mu.Unlock()

	if err := fn(s); err != nil {
		s.mu.Lock()
		s.users, s.bets, s.creds, s.nextID = users, bets, creds, next
		s.mu.Unlock()
		return err
	}
	return nil
}

// SeedUser inserts a user directly
func (s *MemoryStore) SeedUser(name, email string, age int) domain.User {
	u := domain.User{Name: name, Email: email, Age: age}
	if err := s.Users().Create(context.Background(), &u); err != nil {
		panic(err)
	}
	return u
}

// SeedBet inserts a bet directly, bypassing every limit
func (s *MemoryStore) SeedBet(userID uint, amount string, t domain.BetType, status domain.BetStatus, at time.Time) domain.Bet {
	b := domain.Bet{UserID: userID, Amount: decimal.RequireFromString(amount), Type: t, Status: status, Timestamp: at}
	if err := s.Bets().Create(context.Background(), &b); err != nil {
		panic(err)
	}
	return b
}

// BetCount returns how many bets are stored
func (s *MemoryStore) BetCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.bets)
}

func (s *MemoryStore) id() uint {
	s.nextID++
	return s.nextID
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func notFound(what string) error {
	return fmt.Errorf("%s: %w", what, domain.ErrNotFound)
}

type memUsers struct{ s *MemoryStore }

func (r memUsers) Create(_ context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	user.Email = strings.ToLower(user.Email)
	for _, u := range r.s.users {
		if u.Email == user.Email {
			return fmt.Errorf("create user: %w", domain.ErrConflict)
		}
	}
	user.ID = r.s.id()
	user.CreatedAt = r.s.now()
	user.UpdatedAt = user.CreatedAt
	r.s.users[user.ID] = *user
	return nil
}

func (r memUsers) FindByID(_ context.Context, id uint) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, notFound("user")
	}
	return &u, nil
}

func (r memUsers) FindByIDForUpdate(ctx context.Context, id uint) (*domain.User, error) {
	return r.FindByID(ctx, id)
}

func (r memUsers) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == strings.ToLower(email) {
			return &u, nil
		}
	}
	return nil, notFound("user")
}

func (r memUsers) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := r.FindByEmail(ctx, email)
	return err == nil, nil
}

func (r memUsers) sorted() []domain.User {
	users := make([]domain.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users
}

func (r memUsers) List(_ context.Context) ([]domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.sorted(), nil
}

func (r memUsers) ListPage(_ context.Context, page domain.Page) ([]domain.User, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	all := r.sorted()
	return paginate(all, page), int64(len(all)), nil
}

func (r memUsers) Update(_ context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[user.ID]; !ok {
		return notFound("user")
	}
	user.Email = strings.ToLower(user.Email)
	for _, u := range r.s.users {
		if u.ID != user.ID && u.Email == user.Email {
			return fmt.Errorf("update user: %w", domain.ErrConflict)
		}
	}
	user.UpdatedAt = r.s.now()
	r.s.users[user.ID] = *user
	return nil
}

func (r memUsers) Delete(_ context.Context, id uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[id]; !ok {
		return notFound("user")
	}
	delete(r.s.users, id)
	for bid, b := range r.s.bets {
		if b.UserID == id {
			delete(r.s.bets, bid)
		}
	}
	return nil
}

func (r memUsers) Count(_ context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.s.users)), nil
}

type memBets struct{ s *MemoryStore }

func (r memBets) Create(_ context.Context, bet *domain.Bet) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[bet.UserID]; !ok {
		return notFound("user")
	}
	bet.ID = r.s.id()
	bet.CreatedAt = r.s.now()
	bet.UpdatedAt = bet.CreatedAt
	stored := *bet
	stored.User = domain.User{}
	r.s.bets[bet.ID] = stored
	return nil
}

func (r memBets) FindByID(_ context.Context, id uint) (*domain.Bet, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.bets[id]
	if !ok {
		return nil, notFound("bet")
	}
	b.User = r.s.users[b.UserID]
	return &b, nil
}

func (r memBets) Update(_ context.Context, bet *domain.Bet) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.bets[bet.ID]; !ok {
		return notFound("bet")
	}
	bet.UpdatedAt = r.s.now()
	stored := *bet
	stored.User = domain.User{}
	r.s.bets[bet.ID] = stored
	return nil
}

func (r memBets) Delete(_ context.Context, id uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.bets[id]; !ok {
		return notFound("bet")
	}
	delete(r.s.bets, id)
	return nil
}

// filter returns matching bets, with users loaded, ordered by timestamp
func (r memBets) filter(keep func(domain.Bet) bool) []domain.Bet {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []domain.Bet{}
	for _, b := range r.s.bets {
		if keep(b) {
			b.User = r.s.users[b.UserID]
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].ID < out[j].ID
		}
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out
}

func newestFirst(bets []domain.Bet) []domain.Bet {
	for i, j := 0, len(bets)-1; i < j; i, j = i+1, j-1 {
		bets[i], bets[j] = bets[j], bets[i]
	}
	return bets
}

func all(domain.Bet) bool { return true }

func (r memBets) List(_ context.Context) ([]domain.Bet, error) {
	return r.filter(all), nil
}

func (r memBets) ListPage(_ context.Context, page domain.Page) ([]domain.Bet, int64, error) {
	bets := newestFirst(r.filter(all))
	return paginate(bets, page), int64(len(bets)), nil
}

func (r memBets) FindByUserID(_ context.Context, userID uint) ([]domain.Bet, error) {
	return r.filter(func(b domain.Bet) bool { return b.UserID == userID }), nil
}

func (r memBets) FindByUserIDPage(_ context.Context, userID uint, page domain.Page) ([]domain.Bet, int64, error) {
	bets := newestFirst(r.filter(func(b domain.Bet) bool { return b.UserID == userID }))
	return paginate(bets, page), int64(len(bets)), nil
}

func (r memBets) FindByUserIDSince(_ context.Context, userID uint, since time.Time) ([]domain.Bet, error) {
	return r.filter(func(b domain.Bet) bool { return b.UserID == userID && !b.Timestamp.Before(since) }), nil
}

func (r memBets) FindByType(_ context.Context, t domain.BetType) ([]domain.Bet, error) {
	return r.filter(func(b domain.Bet) bool { return b.Type == t }), nil
}

func (r memBets) FindByStatus(_ context.Context, st domain.BetStatus) ([]domain.Bet, error) {
	return r.filter(func(b domain.Bet) bool { return b.Status == st }), nil
}

func (r memBets) FindByAmountRange(_ context.Context, min, max decimal.Decimal) ([]domain.Bet, error) {
	bets := r.filter(func(b domain.Bet) bool {
		return b.Amount.GreaterThanOrEqual(min) && b.Amount.LessThanOrEqual(max)
	})
	sort.SliceStable(bets, func(i, j int) bool { return bets[i].Amount.LessThan(bets[j].Amount) })
	return bets, nil
}

func (r memBets) FindAboveAmount(_ context.Context, limit decimal.Decimal) ([]domain.Bet, error) {
	bets := r.filter(func(b domain.Bet) bool { return b.Amount.GreaterThan(limit) })
	sort.SliceStable(bets, func(i, j int) bool { return bets[i].Amount.GreaterThan(bets[j].Amount) })
	return bets, nil
}

func (r memBets) window(userID uint, since time.Time) func(domain.Bet) bool {
	return func(b domain.Bet) bool {
		return b.UserID == userID && (since.IsZero() || !b.Timestamp.Before(since))
	}
}

func (r memBets) SumAmount(_ context.Context, userID uint, since time.Time) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, b := range r.filter(r.window(userID, since)) {
		total = total.Add(b.Amount)
	}
	return total, nil
}

func (r memBets) CountBets(_ context.Context, userID uint, since time.Time) (int64, error) {
	return int64(len(r.filter(r.window(userID, since)))), nil
}

type memCreds struct{ s *MemoryStore }

func (r memCreds) Create(_ context.Context, cred *domain.Credential) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cred.Email = strings.ToLower(cred.Email)
	if _, ok := r.s.creds[cred.Email]; ok {
		return fmt.Errorf("create credential: %w", domain.ErrConflict)
	}
	cred.ID = r.s.id()
	r.s.creds[cred.Email] = *cred
	return nil
}

func (r memCreds) FindByEmail(_ context.Context, email string) (*domain.Credential, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.creds[strings.ToLower(email)]
	if !ok {
		return nil, notFound("credential")
	}
	return &c, nil
}

func (r memCreds) DeleteByUserID(_ context.Context, userID uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for email, c := range r.s.creds {
		if c.OwnedBy(userID) {
			delete(r.s.creds, email)
		}
	}
	return nil
}

func paginate[T any](items []T, page domain.Page) []T {
	start := page.Offset()
	if start >= len(items) || start < 0 {
		return []T{}
	}
	end := start + page.Size
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
