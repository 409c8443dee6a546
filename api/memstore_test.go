package main

import (
	"context"
	"sort"
	"sync"

	"agriforecast/api/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// memStore is an in-memory Store for handler tests.
type memStore struct {
	mu      sync.Mutex
	users   []models.User
	fields  []models.Field
	reports []models.Report
	pingErr error
}

func (s *memStore) CreateUser(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, x := range s.users {
		if x.Email == u.Email {
			return errDuplicate
		}
	}
	u.ID = primitive.NewObjectID()
	s.users = append(s.users, *u)
	return nil
}

func (s *memStore) UserByEmail(_ context.Context, email string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return models.User{}, errNotFound
}

func (s *memStore) UserByID(_ context.Context, id primitive.ObjectID) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.ID == id {
			return u, nil
		}
	}
	return models.User{}, errNotFound
}

func (s *memStore) CreateField(_ context.Context, f *models.Field) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	f.ID = primitive.NewObjectID()
	s.fields = append(s.fields, *f)
	return nil
}

func (s *memStore) ListFields(_ context.Context, owner primitive.ObjectID) ([]models.Field, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.Field{}
	for _, f := range s.fields {
		if f.OwnerID == owner {
			out = append(out, f)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *memStore) GetField(_ context.Context, owner, id primitive.ObjectID) (models.Field, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, f := range s.fields {
		if f.ID == id && f.OwnerID == owner {
			return f, nil
		}
	}
	return models.Field{}, errNotFound
}

func (s *memStore) DeleteField(_ context.Context, owner, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, f := range s.fields {
		if f.ID == id && f.OwnerID == owner {
			s.fields = append(s.fields[:i], s.fields[i+1:]...)
			return nil
		}
	}
	return errNotFound
}

func (s *memStore) AddReport(_ context.Context, r *models.Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r.ID = primitive.NewObjectID()
	s.reports = append(s.reports, *r)
	return nil
}

func (s *memStore) ListReports(_ context.Context, owner primitive.ObjectID, limit int64) ([]models.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.Report{}
	for i := len(s.reports) - 1; i >= 0; i-- {
		if s.reports[i].OwnerID == owner {
			out = append(out, s.reports[i])
		}
		if limit > 0 && int64(len(out)) == limit {
			break
		}
	}
	return out, nil
}

func (s *memStore) Ping(context.Context) error { return s.pingErr }

func (s *memStore) Close(context.Context) error { return nil }
