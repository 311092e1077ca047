package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/noah-isme/sched-engine/internal/auth"
)

const findOperatorByEmailQuery = `SELECT id, email, name, password_hash, role, active FROM operators WHERE email = $1`

type operatorRow struct {
	ID           string `db:"id"`
	Email        string `db:"email"`
	Name         string `db:"name"`
	PasswordHash string `db:"password_hash"`
	Role         string `db:"role"`
	Active       bool   `db:"active"`
}

func (r operatorRow) toDomain() auth.Operator {
	return auth.Operator{
		ID:           r.ID,
		Email:        r.Email,
		Name:         r.Name,
		PasswordHash: r.PasswordHash,
		Role:         auth.Role(r.Role),
		Active:       r.Active,
	}
}

// FindOperatorByEmail implements auth.OperatorStore, following the
// teacher repository's sql.ErrNoRows -> (nil, nil) not-found contract.
func (s *Store) FindOperatorByEmail(ctx context.Context, email string) (*auth.Operator, error) {
	var row operatorRow
	if err := s.db.GetContext(ctx, &row, findOperatorByEmailQuery, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find operator by email: %w", err)
	}
	operator := row.toDomain()
	return &operator, nil
}
