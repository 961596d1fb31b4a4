package account

import (
	"context"
	"errors"
	"time"
)

var (
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrAccountNotFound    = errors.New("account not found")
	ErrInvalidInput       = errors.New("invalid input")
)

const DefaultLeaderboardSize = 10

type Account struct {
	ID           string
	Username     string
	PasswordHash string
	Subscribers  int64
	Views        int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Profile is the public part of an account returned after register and login.
type Profile struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	Subscribers int64  `json:"subscribers"`
}

func (a Account) Profile() Profile {
	return Profile{ID: a.ID, Username: a.Username, Subscribers: a.Subscribers}
}

type Entry struct {
	Username    string `json:"username"`
	Subscribers int64  `json:"subscribers"`
}

// Repository is the durable account store. Create reports ErrUsernameTaken on a
// duplicate username; lookups and updates report ErrAccountNotFound.
type Repository interface {
	Create(ctx context.Context, a Account) error
	ByUsername(ctx context.Context, username string) (Account, error)
	UpdateScore(ctx context.Context, id string, subscribers, views int64, at time.Time) (Account, error)
	Top(ctx context.Context, limit int) ([]Entry, error)
}

// Ranking is an optional fast leaderboard index kept next to the repository.
type Ranking interface {
	Record(ctx context.Context, username string, subscribers int64) error
	Top(ctx context.Context, limit int) ([]Entry, error)
}
