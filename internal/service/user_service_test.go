package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"userbase/internal/cache"
	apperrors "userbase/internal/errors"
	"userbase/internal/model"
)

// nilCache is a typed nil; the cache client degrades to a no-op in that case.
var nilCache *cache.Client

func strPtr(s string) *string { return &s }

func TestUserService_GetUser(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockRepo.On("FindByID", mock.Anything, uint(1)).Return(&model.User{ID: 1, Name: "Ann Lee"}, nil)
	mockRepo.On("FindByID", mock.Anything, uint(999)).Return(nil, gorm.ErrRecordNotFound)

	svc := NewUserService(mockRepo, nilCache)

	user, err := svc.GetUser(context.Background(), 1)
	assert.NoError(t, err)
	assert.Equal(t, "Ann Lee", user.Name)

	_, err = svc.GetUser(context.Background(), 999)
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)

	mockRepo.AssertExpectations(t)
}

func TestUserService_UpdateUser(t *testing.T) {
	tests := []struct {
		name          string
		id            uint
		updates       UserUpdates
		setupMock     func(*MockUserRepository)
		expectedError error
		check         func(*testing.T, *model.User)
	}{
		{
			name:    "updates name only",
			id:      1,
			updates: UserUpdates{Name: strPtr("New Name")},
			setupMock: func(m *MockUserRepository) {
				m.On("FindByID", mock.Anything, uint(1)).Return(&model.User{ID: 1, Name: "Old Name", Role: model.RoleUser}, nil)
				m.On("Update", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
			},
			check: func(t *testing.T, u *model.User) {
				assert.Equal(t, "New Name", u.Name)
				assert.Equal(t, model.RoleUser, u.Role)
			},
		},
		{
			name:    "re-hashes a new password",
			id:      2,
			updates: UserUpdates{Password: strPtr("fresh-secret")},
			setupMock: func(m *MockUserRepository) {
				m.On("FindByID", mock.Anything, uint(2)).Return(&model.User{ID: 2, PasswordHash: "old-digest"}, nil)
				m.On("Update", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
			},
			check: func(t *testing.T, u *model.User) {
				assert.NotEqual(t, "old-digest", u.PasswordHash)
				assert.NotEqual(t, "fresh-secret", u.PasswordHash)
				assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("fresh-secret")))
			},
		},
		{
			name:    "user not found",
			id:      999,
			updates: UserUpdates{Name: strPtr("Whoever")},
			setupMock: func(m *MockUserRepository) {
				m.On("FindByID", mock.Anything, uint(999)).Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: apperrors.ErrUserNotFound,
		},
		{
			name:    "email taken by another user",
			id:      3,
			updates: UserUpdates{Email: strPtr("taken@example.com")},
			setupMock: func(m *MockUserRepository) {
				m.On("FindByID", mock.Anything, uint(3)).Return(&model.User{ID: 3, Email: "mine@example.com"}, nil)
				m.On("Update", mock.Anything, mock.AnythingOfType("*model.User")).Return(apperrors.ErrEmailExists)
			},
			expectedError: apperrors.ErrEmailExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.setupMock(mockRepo)

			svc := NewUserService(mockRepo, nilCache)
			user, err := svc.UpdateUser(context.Background(), tt.id, tt.updates)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, user)
			} else {
				assert.NoError(t, err)
				tt.check(t, user)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestUserService_DeleteUser(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockRepo.On("FindByID", mock.Anything, uint(1)).Return(&model.User{ID: 1}, nil)
	mockRepo.On("Delete", mock.Anything, uint(1)).Return(nil)
	mockRepo.On("FindByID", mock.Anything, uint(999)).Return(nil, gorm.ErrRecordNotFound)

	svc := NewUserService(mockRepo, nilCache)

	assert.NoError(t, svc.DeleteUser(context.Background(), 1))
	assert.ErrorIs(t, svc.DeleteUser(context.Background(), 999), apperrors.ErrUserNotFound)

	mockRepo.AssertExpectations(t)
}

func TestUserService_ListUsers(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockRepo.On("List", mock.Anything).Return([]model.User{{ID: 1}, {ID: 2}}, nil)

	svc := NewUserService(mockRepo, nilCache)
	users, err := svc.ListUsers(context.Background())

	assert.NoError(t, err)
	assert.Len(t, users, 2)
	mockRepo.AssertExpectations(t)
}
