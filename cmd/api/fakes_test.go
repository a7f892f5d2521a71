package main

import (
	"context"
	"sync"
	"time"

	"github.com/IannisIP/RideApplicationBackend/data"
)

// In-memory stores implementing the data contracts, so handler behavior can
// be exercised without Postgres.

type fakeAccountStore struct {
	mu       sync.Mutex
	accounts []data.Account
	nextID   int
}

func newFakeAccountStore() *fakeAccountStore {
	return &fakeAccountStore{nextID: 1}
}

func (s *fakeAccountStore) GetAll(ctx context.Context) ([]data.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]data.Account, len(s.accounts))
	copy(out, s.accounts)
	return out, nil
}

func (s *fakeAccountStore) GetByID(ctx context.Context, id int) (data.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.accounts {
		if a.ID == id {
			return a, nil
		}
	}
	return data.Account{}, data.ErrNotFound
}

func (s *fakeAccountStore) GetByEmail(ctx context.Context, email string) (data.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.accounts {
		if a.Email == email {
			return a, nil
		}
	}
	return data.Account{}, data.ErrNotFound
}

func (s *fakeAccountStore) Insert(ctx context.Context, account data.Account) (data.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.accounts {
		if a.Email == account.Email {
			return data.Account{}, data.ErrDuplicateEmail
		}
	}
	account.ID = s.nextID
	account.CreatedAt = time.Now()
	s.nextID++
	s.accounts = append(s.accounts, account)
	return account, nil
}

type fakeRideStore struct {
	mu     sync.Mutex
	rides  map[int]data.Ride
	nextID int
}

func newFakeRideStore() *fakeRideStore {
	return &fakeRideStore{rides: map[int]data.Ride{}, nextID: 1}
}

func (s *fakeRideStore) All(ctx context.Context) ([]data.Ride, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []data.Ride{}
	for id := 1; id < s.nextID; id++ {
		if ride, ok := s.rides[id]; ok {
			out = append(out, ride)
		}
	}
	return out, nil
}

func (s *fakeRideStore) Get(ctx context.Context, id int) (data.Ride, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ride, ok := s.rides[id]
	if !ok {
		return data.Ride{}, data.ErrNotFound
	}
	return ride, nil
}

func (s *fakeRideStore) Insert(ctx context.Context, ride data.Ride) (data.Ride, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ride.ID = s.nextID
	ride.CreatedAt = time.Now()
	ride.UpdatedAt = ride.CreatedAt
	s.nextID++
	s.rides[ride.ID] = ride
	return ride, nil
}

func (s *fakeRideStore) Update(ctx context.Context, id int, ride data.Ride) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.rides[id]
	if !ok {
		return data.ErrNotFound
	}
	ride.ID = id
	ride.CreatedAt = existing.CreatedAt
	ride.UpdatedAt = time.Now()
	s.rides[id] = ride
	return nil
}

func (s *fakeRideStore) Delete(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rides[id]; !ok {
		return data.ErrNotFound
	}
	delete(s.rides, id)
	return nil
}
