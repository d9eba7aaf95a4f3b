package Store

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"Mandi/Ledger"
	"Mandi/Models"
)

func (s *Store) CreateUser(ctx context.Context, u *Models.User) error {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	err := s.DB.WithContext(ctx).Create(u).Error
	if isDuplicate(err) {
		return Ledger.Conflict("a user with email %s already exists", u.Email)
	}
	return classify("create user", err)
}

func (s *Store) GetUser(ctx context.Context, id uint) (*Models.User, error) {
	var u Models.User
	err := s.DB.WithContext(ctx).First(&u, id).Error
	if err == gorm.ErrRecordNotFound {
		return nil, Ledger.NotFound("user", id)
	}
	if err != nil {
		return nil, classify("get user", err)
	}
	return &u, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*Models.User, error) {
	var u Models.User
	err := s.DB.WithContext(ctx).Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&u).Error
	if err != nil {
		return nil, classify("get user by email", err)
	}
	return &u, nil
}

func (s *Store) ListUsers(ctx context.Context) ([]Models.User, error) {
	users := []Models.User{}
	err := s.DB.WithContext(ctx).Order("id ASC").Find(&users).Error
	return users, classify("list users", err)
}

func (s *Store) CountUsers(ctx context.Context) (int64, error) {
	var n int64
	err := s.DB.WithContext(ctx).Model(&Models.User{}).Count(&n).Error
	return n, classify("count users", err)
}

// SaveFCMToken registers a device token, moving it to userID if another
// user registered it before.
func (s *Store) SaveFCMToken(ctx context.Context, userID uint, value string) error {
	token := Models.FCMToken{UserID: userID, Value: value}
	err := s.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "value"}},
		DoUpdates: clause.AssignmentColumns([]string{"user_id", "updated_at"}),
	}).Create(&token).Error
	return classify("save fcm token", err)
}

// FCMTokens returns every registered device token.
func (s *Store) FCMTokens(ctx context.Context) ([]string, error) {
	var tokens []string
	err := s.DB.WithContext(ctx).Model(&Models.FCMToken{}).Pluck("value", &tokens).Error
	return tokens, classify("fcm tokens", err)
}
