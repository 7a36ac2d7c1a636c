package database

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/iliyamo/bookstore/internal/model"
	"github.com/iliyamo/bookstore/internal/repository"
)

//go:embed seed.json
var seedJSON []byte

type seedUser struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
}

type seedFile struct {
	Users []seedUser   `json:"users"`
	Books []model.Book `json:"books"`
}

// SeedResult counts the rows a Seed run inserted.  Rows that already existed
// are skipped and not counted.
type SeedResult struct {
	Users int
	Books int
}

func loadSeed() (seedFile, error) {
	var f seedFile
	if err := json.Unmarshal(seedJSON, &f); err != nil {
		return f, fmt.Errorf("decode seed data: %w", err)
	}
	return f, nil
}

// Seed inserts the demo users and books.  Running it again only fills in
// what is missing.
func Seed(ctx context.Context, db *sql.DB, bcryptCost int) (SeedResult, error) {
	var res SeedResult
	data, err := loadSeed()
	if err != nil {
		return res, err
	}

	users := repository.NewUserRepo(db)
	for _, u := range data.Users {
		_, err := users.Create(ctx, u.Username, u.Password, u.Email, bcryptCost)
		switch {
		case errors.Is(err, repository.ErrUsernameExists):
		case err != nil:
			return res, fmt.Errorf("seed user %s: %w", u.Username, err)
		default:
			res.Users++
		}
	}

	books := repository.NewBookRepo(db)
	for i := range data.Books {
		err := books.Create(ctx, &data.Books[i])
		switch {
		case errors.Is(err, repository.ErrBookExists):
		case err != nil:
			return res, fmt.Errorf("seed book %d: %w", data.Books[i].Reference, err)
		default:
			res.Books++
		}
	}
	return res, nil
}
