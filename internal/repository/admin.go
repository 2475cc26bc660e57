package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/tuanvumaihuynh/product-catalog/internal/apperr"
	"github.com/tuanvumaihuynh/product-catalog/internal/model"
	"github.com/tuanvumaihuynh/product-catalog/internal/storage/db"
)

const adminEmailConstraint = "admins_email_key"

type AdminRepository interface {
	WithDB(db db.DB) AdminRepository
	CreateAdmin(ctx context.Context, admin model.Admin) error
	GetAdminByEmail(ctx context.Context, email string) (model.Admin, error)
	GetAdminByID(ctx context.Context, id uuid.UUID) (model.Admin, error)
}

type adminRepository struct {
	db db.DB
}

func NewAdminRepository(db db.DB) AdminRepository {
	return &adminRepository{db: db}
}

func (r adminRepository) WithDB(db db.DB) AdminRepository {
	return &adminRepository{db: db}
}

type adminRow struct {
	ID           uuid.UUID `db:"id"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	Name         string    `db:"name"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

func (r adminRepository) CreateAdmin(ctx context.Context, admin model.Admin) error {
	if _, err := r.db.Exec(ctx, `
		INSERT INTO admins (id, email, password_hash, name, created_at, updated_at)
		VALUES (@id, @email, @password_hash, @name, @created_at, @updated_at)
	`, pgx.NamedArgs{
		"id":            admin.ID,
		"email":         NormalizeEmail(admin.Email),
		"password_hash": admin.PasswordHash,
		"name":          admin.Name,
		"created_at":    admin.CreatedAt,
		"updated_at":    admin.UpdatedAt,
	}); err != nil {
		if db.IsUniqueViolation(err, adminEmailConstraint) {
			return apperr.EmailTakenErr.WrapParent(err)
		}
		return fmt.Errorf("insert admin: %w", err)
	}

	return nil
}

func (r adminRepository) GetAdminByEmail(ctx context.Context, email string) (model.Admin, error) {
	return r.getAdmin(ctx, "email = @email", pgx.NamedArgs{"email": NormalizeEmail(email)})
}

func (r adminRepository) GetAdminByID(ctx context.Context, id uuid.UUID) (model.Admin, error) {
	return r.getAdmin(ctx, "id = @id", pgx.NamedArgs{"id": id})
}

func (r adminRepository) getAdmin(ctx context.Context, cond string, args pgx.NamedArgs) (model.Admin, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, email, password_hash, name, created_at, updated_at
		FROM admins
		WHERE `+cond, args)
	if err != nil {
		return model.Admin{}, fmt.Errorf("get admin: %w", err)
	}

	row, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[adminRow])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Admin{}, apperr.AdminNotFoundErr
		}
		return model.Admin{}, fmt.Errorf("collect admin: %w", err)
	}

	return model.Admin(row), nil
}

// NormalizeEmail trims and lowercases an email address. Emails are stored
// and looked up in this form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
