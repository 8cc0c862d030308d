package storage

import (
	"context"
	"modfy_server/database"
	"modfy_server/lib"
	"modfy_server/structs/tables"
	"strings"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Users

func (s *DBStorage) GetUser(ctx context.Context, id uuid.UUID) (*tables.User, error) {
	return found(database.Query[tables.User](s.db).Where("u.id", id).First(ctx))
}

func (s *DBStorage) GetUserByEmail(ctx context.Context, email string) (*tables.User, error) {
	return found(database.Query[tables.User](s.db).Where("u.email", strings.ToLower(email)).First(ctx))
}

func (s *DBStorage) ListUsers(ctx context.Context) ([]*tables.User, error) {
	users, err := database.Query[tables.User](s.db).OrderBy("u.created_at", database.DESC).All(ctx)
	if err != nil {
		return nil, lib.MapDBError(err)
	}
	return pointers(users), nil
}

func (s *DBStorage) CreateUser(ctx context.Context, user *tables.User) error {
	ensureID(&user.ID)
	user.Email = strings.ToLower(user.Email)
	if user.Role == "" {
		user.Role = tables.RoleCustomer
	}
	s.stamp(&user.CreatedAt, &user.UpdatedAt)

	return lib.MapDBError(database.Query[tables.User](s.db).Insert(ctx, user))
}

func (s *DBStorage) UpdateUser(ctx context.Context, user *tables.User) error {
	user.Email = strings.ToLower(user.Email)
	s.stamp(nil, &user.UpdatedAt)

	return affected(database.Query[tables.User](s.db).Update(ctx, user,
		"email", "password_hash", "first_name", "last_name", "role", "is_email_verified", "updated_at"))
}

func (s *DBStorage) DeleteUser(ctx context.Context, id uuid.UUID) error {
	return s.db.RunInTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		if _, err := database.QueryTx[tables.UserProfile](tx).Where("user_id", id).Delete(ctx); err != nil {
			return lib.MapDBError(err)
		}
		if _, err := database.QueryTx[tables.CartItem](tx).Where("user_id", id).Delete(ctx); err != nil {
			return lib.MapDBError(err)
		}
		if _, err := database.QueryTx[tables.WishlistItem](tx).Where("user_id", id).Delete(ctx); err != nil {
			return lib.MapDBError(err)
		}
		return affected(database.QueryTx[tables.User](tx).Where("id", id).Delete(ctx))
	})
}

func (s *DBStorage) GetUserProfile(ctx context.Context, userID uuid.UUID) (*tables.UserProfile, error) {
	return found(database.Query[tables.UserProfile](s.db).Where("up.user_id", userID).First(ctx))
}

func (s *DBStorage) UpsertUserProfile(ctx context.Context, profile *tables.UserProfile) error {
	return s.db.RunInTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		existing, err := database.QueryTx[tables.UserProfile](tx).Where("up.user_id", profile.UserID).ForUpdate().First(ctx)
		if err != nil {
			return lib.MapDBError(err)
		}

		s.stamp(&profile.CreatedAt, &profile.UpdatedAt)
		if existing == nil {
			ensureID(&profile.ID)
			return lib.MapDBError(database.QueryTx[tables.UserProfile](tx).Insert(ctx, profile))
		}

		profile.ID = existing.ID
		profile.CreatedAt = existing.CreatedAt
		_, err = database.QueryTx[tables.UserProfile](tx).Update(ctx, profile,
			"full_name", "phone_number", "address_line_1", "address_line_2", "city", "postal_code", "updated_at")
		return lib.MapDBError(err)
	})
}

// Contact

func (s *DBStorage) CreateContactMessage(ctx context.Context, msg *tables.ContactMessage) error {
	ensureID(&msg.ID)
	if msg.Status == "" {
		msg.Status = tables.ContactStatusUnread
	}
	s.stamp(&msg.CreatedAt, &msg.UpdatedAt)

	return lib.MapDBError(database.Query[tables.ContactMessage](s.db).Insert(ctx, msg))
}

func (s *DBStorage) ListContactMessages(ctx context.Context) ([]*tables.ContactMessage, error) {
	msgs, err := database.Query[tables.ContactMessage](s.db).OrderBy("cm.created_at", database.DESC).All(ctx)
	if err != nil {
		return nil, lib.MapDBError(err)
	}
	return pointers(msgs), nil
}

func (s *DBStorage) UpdateContactMessageStatus(ctx context.Context, id uuid.UUID, status tables.ContactStatus) (*tables.ContactMessage, error) {
	err := affected(database.Query[tables.ContactMessage](s.db).Where("id", id).UpdateSet(ctx, map[string]any{
		"status":     status,
		"updated_at": s.now().UTC(),
	}))
	if err != nil {
		return nil, err
	}
	return found(database.Query[tables.ContactMessage](s.db).Where("cm.id", id).First(ctx))
}

func (s *DBStorage) DeleteContactMessage(ctx context.Context, id uuid.UUID) error {
	return affected(database.Query[tables.ContactMessage](s.db).Where("id", id).Delete(ctx))
}

func (s *DBStorage) ListContactSettings(ctx context.Context) ([]*tables.ContactSetting, error) {
	settings, err := database.Query[tables.ContactSetting](s.db).OrderBy("cs.name", database.ASC).All(ctx)
	if err != nil {
		return nil, lib.MapDBError(err)
	}
	return pointers(settings), nil
}

func (s *DBStorage) GetContactSetting(ctx context.Context, name string) (*tables.ContactSetting, error) {
	return found(database.Query[tables.ContactSetting](s.db).Where("cs.name", name).First(ctx))
}

func (s *DBStorage) UpsertContactSetting(ctx context.Context, setting *tables.ContactSetting) error {
	s.stamp(nil, &setting.UpdatedAt)

	return s.db.RunInTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		exists, err := database.QueryTx[tables.ContactSetting](tx).Where("cs.name", setting.Name).Exists(ctx)
		if err != nil {
			return lib.MapDBError(err)
		}
		if !exists {
			return lib.MapDBError(database.QueryTx[tables.ContactSetting](tx).Insert(ctx, setting))
		}
		_, err = database.QueryTx[tables.ContactSetting](tx).Update(ctx, setting, "value", "updated_at")
		return lib.MapDBError(err)
	})
}
