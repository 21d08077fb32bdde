package repositories

import (
	"context"

	"garage-backend/internal/db"
	"garage-backend/internal/models"
)

type UserRepository struct {
	DB db.DBTX
}

func NewUserRepository(db db.DBTX) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) Create(ctx context.Context, u *models.User) error {
	if u.Role == "" {
		u.Role = models.RoleStaff // Default role
	}
	return r.DB.QueryRow(ctx,
		`INSERT INTO users(username, password_hash, role, is_active)
         VALUES($1, $2, $3, TRUE)
         RETURNING id, is_active, created_at`,
		u.Username, u.PasswordHash, u.Role,
	).Scan(&u.ID, &u.IsActive, &u.CreatedAt)
}

func (r *UserRepository) Get(ctx context.Context, id int) (*models.User, error) {
	row := r.DB.QueryRow(ctx,
		`SELECT id, username, password_hash, role, is_active, created_at
         FROM users WHERE id=$1`, id)

	var user models.User
	err := row.Scan(&user.ID, &user.Username, &user.PasswordHash, &user.Role, &user.IsActive, &user.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	row := r.DB.QueryRow(ctx,
		`SELECT id, username, password_hash, role, is_active, created_at
         FROM users WHERE username=$1`, username)

	var user models.User
	err := row.Scan(&user.ID, &user.Username, &user.PasswordHash, &user.Role, &user.IsActive, &user.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// List returns all users
func (r *UserRepository) List(ctx context.Context) ([]*models.User, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT id, username, role, is_active, created_at
         FROM users ORDER BY username`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []*models.User{}
	for rows.Next() {
		var user models.User
		if err := rows.Scan(&user.ID, &user.Username, &user.Role, &user.IsActive, &user.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, &user)
	}
	return users, rows.Err()
}

// Count returns the number of user accounts
func (r *UserRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.DB.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&count)
	return count, err
}

// Update changes role and active flag, and the password hash when one is given
func (r *UserRepository) Update(ctx context.Context, id int, role string, isActive bool, passwordHash string) (int64, error) {
	tag, err := r.DB.Exec(ctx,
		`UPDATE users
         SET role=$1, is_active=$2, password_hash=COALESCE(NULLIF($3, ''), password_hash)
         WHERE id=$4`,
		role, isActive, passwordHash, id)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *UserRepository) Delete(ctx context.Context, id int) (int64, error) {
	tag, err := r.DB.Exec(ctx, `DELETE FROM users WHERE id=$1`, id)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
