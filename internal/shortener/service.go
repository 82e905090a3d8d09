package shortener

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

// maxAllocationAttempts bounds the generate/insert retry loop. With a 62^6
// code space a single collision is already a ~1 in 56.8 billion event, so
// ten attempts failing means something is badly wrong.
const maxAllocationAttempts = 10

// Service implements short code allocation and resolution on top of a
// Repository. It holds no locks and no in-process state: the store's unique
// constraint on short_code is the only arbiter under concurrent writers.
type Service struct {
	repo     Repository
	generate Generator
	logger   *zap.Logger
}

// NewService creates a shortening service.
func NewService(repo Repository, generate Generator, logger *zap.Logger) *Service {
	return &Service{
		repo:     repo,
		generate: generate,
		logger:   logger,
	}
}

// Shorten returns the mapping for url, creating one if none exists. The
// boolean reports whether a new mapping was created. Re-shortening the same
// exact URL string is idempotent and returns the existing mapping;
// differently spelled equivalents (trailing slash, casing, query order) are
// treated as distinct URLs.
func (s *Service) Shorten(ctx context.Context, url string) (*Mapping, bool, error) {
	existing, err := s.repo.FindByURL(ctx, url)
	if err == nil {
		return existing, false, nil
	}

	if !errors.Is(err, ErrNotFound) {
		return nil, false, err
	}

	// Optimistic allocation: generate a candidate, try to claim it, retry on
	// conflict. The CodeExists pre-check only saves a wasted constraint
	// violation round trip; the Insert conflict path is what guarantees
	// uniqueness when two requests race for the same candidate.
	for attempt := 1; attempt <= maxAllocationAttempts; attempt++ {
		candidate := s.generate()

		taken, err := s.repo.CodeExists(ctx, candidate)
		if err != nil {
			return nil, false, err
		}

		if taken {
			s.logger.Debug("short code collision on pre-check",
				zap.String("code", string(candidate)),
				zap.Int("attempt", attempt),
			)

			continue
		}

		m := &Mapping{
			OriginalURL: url,
			Code:        candidate,
			CreatedAt:   time.Now().UTC(),
		}

		err = s.repo.Insert(ctx, m)
		if err == nil {
			return m, true, nil
		}

		if errors.Is(err, ErrCodeExists) {
			s.logger.Debug("short code collision on insert",
				zap.String("code", string(candidate)),
				zap.Int("attempt", attempt),
			)

			continue
		}

		return nil, false, err
	}

	s.logger.Error("short code allocation exhausted",
		zap.Int("attempts", maxAllocationAttempts),
	)

	return nil, false, ErrCodeSpaceExhausted
}

// Resolve returns the mapping for code. Codes that do not have the issued
// shape are reported as not found without a store round trip.
func (s *Service) Resolve(ctx context.Context, code string) (*Mapping, error) {
	if !ValidCode(code) {
		return nil, ErrNotFound
	}

	return s.repo.FindByCode(ctx, Code(code))
}
