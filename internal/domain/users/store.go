package users

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

const selectUsers = `
    SELECT u.id, u.email, u.first_name, u.last_name, r.name, u.status, u.mfa_enabled, u.last_login, u.created_at,
           f.id, f.freelancer_code, f.first_name, f.last_name, f.status, f.current_tier, f.current_grade
    FROM users u
    JOIN roles r ON u.role_id = r.id
    LEFT JOIN freelancers f ON f.user_id = u.id
`

func scanUser(row pgx.Row) (User, error) {
	var u User
	var fID, fCode, fFirst, fLast, fStatus, fTier, fGrade *string
	if err := row.Scan(&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.Role, &u.Status, &u.MFAEnabled, &u.LastLogin, &u.CreatedAt,
		&fID, &fCode, &fFirst, &fLast, &fStatus, &fTier, &fGrade); err != nil {
		return User{}, err
	}
	u.IsActive = u.Status == StatusActive
	if fID != nil {
		u.Freelancer = &FreelancerRef{
			ID:             *fID,
			FreelancerCode: deref(fCode),
			FirstName:      deref(fFirst),
			LastName:       deref(fLast),
			Status:         deref(fStatus),
			CurrentTier:    deref(fTier),
			CurrentGrade:   deref(fGrade),
		}
	}
	return u, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func (s *Store) List(ctx context.Context, filter ListFilter) ([]User, error) {
	var where []string
	var args []any
	if filter.Role != "" {
		args = append(args, filter.Role)
		where = append(where, fmt.Sprintf("r.name = $%d", len(args)))
	}
	if filter.IsActive != nil {
		if *filter.IsActive {
			args = append(args, StatusActive)
			where = append(where, fmt.Sprintf("u.status = $%d", len(args)))
		} else {
			args = append(args, StatusActive)
			where = append(where, fmt.Sprintf("u.status <> $%d", len(args)))
		}
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		n := len(args)
		where = append(where, fmt.Sprintf("(u.email ILIKE $%d OR u.first_name ILIKE $%d OR u.last_name ILIKE $%d)", n, n, n))
	}

	query := selectUsers
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY u.created_at DESC"

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (s *Store) Get(ctx context.Context, id string) (User, error) {
	return scanUser(s.DB.QueryRow(ctx, selectUsers+" WHERE u.id = $1", id))
}

func (s *Store) Stats(ctx context.Context) (Stats, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT r.name, u.status, COUNT(1)
    FROM users u
    JOIN roles r ON u.role_id = r.id
    GROUP BY r.name, u.status
  `)
	if err != nil {
		return Stats{}, err
	}
	defer rows.Close()

	stats := Stats{ByRole: map[string]int{}}
	for rows.Next() {
		var role, status string
		var count int
		if err := rows.Scan(&role, &status, &count); err != nil {
			return Stats{}, err
		}
		stats.Total += count
		stats.ByRole[role] += count
		if status == StatusActive {
			stats.Active += count
		} else {
			stats.Inactive += count
		}
	}
	return stats, rows.Err()
}

func (s *Store) SetRole(ctx context.Context, id, role string) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE users
    SET role_id = (SELECT id FROM roles WHERE name = $1), updated_at = now()
    WHERE id = $2
  `, role, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (s *Store) SetStatus(ctx context.Context, id, status string) error {
	tag, err := s.DB.Exec(ctx, "UPDATE users SET status = $1, updated_at = now() WHERE id = $2", status, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (s *Store) SetPassword(ctx context.Context, id, hash string) error {
	tag, err := s.DB.Exec(ctx, "UPDATE users SET password_hash = $1, updated_at = now() WHERE id = $2", hash, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (s *Store) RevokeSessions(ctx context.Context, id string) error {
	_, err := s.DB.Exec(ctx, "UPDATE sessions SET revoked_at = now() WHERE user_id = $1 AND revoked_at IS NULL", id)
	return err
}

// Delete removes the account; the freelancer profile and everything hanging
// off it go with it through ON DELETE CASCADE.
func (s *Store) Delete(ctx context.Context, id string) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM users WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
