package account

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/google/uuid"
	"github.com/gookit/validate"

	"vidtycoon/internal/clock"
)

type credentials struct {
	Username string `validate:"required|minLen:3|maxLen:24|regexp:^[A-Za-z0-9_]+$"`
	Password string `validate:"required|minLen:4|maxLen:128"`
}

type scoreInput struct {
	UserID      string  `validate:"required|isUUID"`
	Subscribers float64 `validate:"min:0"`
	Views       float64 `validate:"min:0"`
}

// maxScore is 2^63, the first float64 that no longer fits in an int64.
const maxScore = float64(math.MaxInt64)

type Options struct {
	Clock           clock.Clock
	Logger          *slog.Logger
	Ranking         Ranking
	LeaderboardSize int
}

type Service struct {
	repo    Repository
	ranking Ranking
	clk     clock.Clock
	log     *slog.Logger
	size    int
}

func NewService(repo Repository, opts Options) *Service {
	if opts.Clock == nil {
		opts.Clock = clock.Real{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.LeaderboardSize <= 0 {
		opts.LeaderboardSize = DefaultLeaderboardSize
	}
	return &Service{
		repo:    repo,
		ranking: opts.Ranking,
		clk:     opts.Clock,
		log:     opts.Logger,
		size:    opts.LeaderboardSize,
	}
}

func validateStruct(v any) error {
	vd := validate.Struct(v)
	if !vd.Validate() {
		return fmt.Errorf("%w: %s", ErrInvalidInput, vd.Errors.One())
	}
	return nil
}

func (s *Service) Register(ctx context.Context, username, password string) (Account, error) {
	in := credentials{Username: strings.TrimSpace(username), Password: password}
	if err := validateStruct(&in); err != nil {
		return Account{}, err
	}
	hash, err := HashPassword(in.Password)
	if err != nil {
		return Account{}, fmt.Errorf("hash password: %w", err)
	}
	now := s.clk.Now().UTC()
	a := Account{
		ID:           uuid.NewString(),
		Username:     in.Username,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return Account{}, err
	}
	s.record(ctx, a.Username, 0)
	s.log.Info("account registered", "user_id", a.ID, "username", a.Username)
	return a, nil
}

func (s *Service) Login(ctx context.Context, username, password string) (Account, error) {
	a, err := s.repo.ByUsername(ctx, strings.TrimSpace(username))
	if errors.Is(err, ErrAccountNotFound) {
		return Account{}, ErrInvalidCredentials
	}
	if err != nil {
		return Account{}, err
	}
	if !VerifyPassword(password, a.PasswordHash) {
		return Account{}, ErrInvalidCredentials
	}
	return a, nil
}

// UpdateScore overwrites the stored score with the client's figures, floored to integers.
func (s *Service) UpdateScore(ctx context.Context, userID string, subscribers, views float64) (Account, error) {
	in := scoreInput{UserID: strings.TrimSpace(userID), Subscribers: subscribers, Views: views}
	if math.IsNaN(subscribers) || math.IsNaN(views) || math.IsInf(subscribers, 0) || math.IsInf(views, 0) {
		return Account{}, fmt.Errorf("%w: score must be finite", ErrInvalidInput)
	}
	if subscribers >= maxScore || views >= maxScore {
		return Account{}, fmt.Errorf("%w: score is out of range", ErrInvalidInput)
	}
	if err := validateStruct(&in); err != nil {
		return Account{}, err
	}
	a, err := s.repo.UpdateScore(ctx, in.UserID, int64(math.Floor(subscribers)), int64(math.Floor(views)), s.clk.Now().UTC())
	if err != nil {
		return Account{}, err
	}
	s.record(ctx, a.Username, a.Subscribers)
	return a, nil
}

// Leaderboard returns the top accounts by subscribers, descending. A full
// ranking index answers directly. A short one may have lost entries, so the
// repository answers and the index is reseeded from it.
func (s *Service) Leaderboard(ctx context.Context) ([]Entry, error) {
	reseed := false
	if s.ranking != nil {
		out, err := s.ranking.Top(ctx, s.size)
		switch {
		case err != nil:
			s.log.Warn("ranking unavailable, reading repository", "err", err)
		case len(out) >= s.size:
			return out, nil
		default:
			reseed = true
		}
	}
	entries, err := s.repo.Top(ctx, s.size)
	if err != nil {
		return nil, err
	}
	if reseed {
		s.seed(ctx, entries)
	}
	return entries, nil
}

// SeedRanking copies the repository's top accounts into the ranking index.
func (s *Service) SeedRanking(ctx context.Context) error {
	if s.ranking == nil {
		return nil
	}
	entries, err := s.repo.Top(ctx, s.size)
	if err != nil {
		return fmt.Errorf("read top accounts: %w", err)
	}
	s.seed(ctx, entries)
	s.log.Info("ranking seeded", "entries", len(entries))
	return nil
}

func (s *Service) seed(ctx context.Context, entries []Entry) {
	for _, e := range entries {
		s.record(ctx, e.Username, e.Subscribers)
	}
}

func (s *Service) record(ctx context.Context, username string, subscribers int64) {
	if s.ranking == nil {
		return
	}
	if err := s.ranking.Record(ctx, username, subscribers); err != nil {
		s.log.Warn("ranking update failed", "username", username, "err", err)
	}
}
