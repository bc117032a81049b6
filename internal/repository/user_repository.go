package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/iliyamo/auth-service/internal/model"
)

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userColumns = "id,email,password_hash,full_name,profile_picture,status,is_verified,last_login,created_at,updated_at"

// Create inserts the user and returns its ID. created_at/updated_at are set
// by the database.
func (r *UserRepo) Create(ctx context.Context, u *model.User) (uint64, error) {
	email := strings.ToLower(strings.TrimSpace(u.Email))
	pic := sql.NullString{String: u.ProfilePicture, Valid: u.ProfilePicture != ""}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (email, password_hash, full_name, profile_picture, status, is_verified) VALUES (?,?,?,?,?,?)",
		email, u.PasswordHash, u.FullName, pic, string(u.Status), u.IsVerified)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1", email)
	return scanUser(row)
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id)
	return scanUser(row)
}

// UpdateLastLogin records a successful login timestamp.
func (r *UserRepo) UpdateLastLogin(ctx context.Context, id uint64, at time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET last_login=? WHERE id=?", at, id)
	return err
}

// UpdateStatus sets the user's presence status.
func (r *UserRepo) UpdateStatus(ctx context.Context, id uint64, status model.UserStatus) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET status=? WHERE id=?", string(status), id)
	return err
}

func scanUser(row *sql.Row) (model.User, error) {
	var (
		u         model.User
		pic       sql.NullString
		lastLogin sql.NullTime
		status    string
	)
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FullName, &pic,
		&status, &u.IsVerified, &lastLogin, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return model.User{}, ErrUserNotFound
		}
		return model.User{}, err
	}
	u.Status = model.UserStatus(status)
	if pic.Valid {
		u.ProfilePicture = pic.String
	}
	if lastLogin.Valid {
		t := lastLogin.Time
		u.LastLogin = &t
	}
	return u, nil
}
