package handlers_test

import (
	"context"

	"github.com/serroba/shortener-go/internal/shortener"
)

// failingRepo fails every operation and records whether it was reached.
type failingRepo struct {
	err     error
	touched bool
}

func (r *failingRepo) FindByURL(_ context.Context, _ string) (*shortener.Mapping, error) {
	r.touched = true

	return nil, r.err
}

func (r *failingRepo) CodeExists(_ context.Context, _ shortener.Code) (bool, error) {
	r.touched = true

	return false, r.err
}

func (r *failingRepo) Insert(_ context.Context, _ *shortener.Mapping) error {
	r.touched = true

	return r.err
}

func (r *failingRepo) FindByCode(_ context.Context, _ shortener.Code) (*shortener.Mapping, error) {
	r.touched = true

	return nil, r.err
}
