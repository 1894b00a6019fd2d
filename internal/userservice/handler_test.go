package userservice

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bloglistapp/bloglist/internal/common"
)

// mockProducer records published messages so tests do not need a broker.
type mockProducer struct {
	published [][]byte
}

func (p *mockProducer) Publish(ctx context.Context, msg []byte, key common.BindingKey, exchange common.Exchange) error {
	p.published = append(p.published, msg)
	return nil
}

func setupTestEnvironment(t *testing.T) (*UserService, *sql.DB, *mockProducer, func() error) {
	db := common.TestDB("file://../../migrations", t)
	cache := common.NewCache(5*time.Minute, 10*time.Minute)
	producer := &mockProducer{}

	s := NewUserService(db, producer, cache, "test-jwt-secret")

	cleanup := func() error {
		_, err := db.Exec("DELETE FROM users")
		if err != nil {
			return err
		}

		cache.Flush()

		return nil
	}

	return s, db, producer, cleanup
}

func TestRegisterUser(t *testing.T) {
	s, _, producer, cleanup := setupTestEnvironment(t)

	ctx := context.Background()

	testCases := []struct {
		name        string
		username    string
		fullName    string
		email       string
		password    string
		setup       func() error
		expectedErr error
		wantPublish bool
	}{
		{
			name:     "valid user",
			username: "testuser",
			fullName: "Test User",
			password: "sekret",
		},
		{
			name:        "valid user with email",
			username:    "mailuser",
			fullName:    "Mail User",
			email:       "mailuser@example.com",
			password:    "sekret",
			wantPublish: true,
		},
		{
			name:        "empty username",
			username:    "",
			password:    "sekret",
			expectedErr: common.ValidationError{},
		},
		{
			name:        "short password",
			username:    "testuser",
			password:    "ab",
			expectedErr: common.ValidationError{Errors: map[string]string{"password": "must be between 3 and 72 characters long"}},
		},
		{
			name:     "duplicate username",
			username: "testuser",
			password: "sekret",
			setup: func() error {
				_, err := s.RegisterUser(ctx, "testuser", "", "", "sekret")
				return err
			},
			expectedErr: ErrDuplicateUsername,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.setup != nil {
				assert.NoError(t, tc.setup())
			}

			published := len(producer.published)

			user, err := s.RegisterUser(ctx, tc.username, tc.fullName, tc.email, tc.password)

			switch tc.expectedErr.(type) {
			case nil:
				assert.NoError(t, err)
				assert.NotZero(t, user.ID)
				assert.Equal(t, tc.username, user.Username)
				assert.Equal(t, tc.fullName, user.Name)
			case common.ValidationError:
				var validationErr common.ValidationError
				assert.ErrorAs(t, err, &validationErr)
			default:
				assert.ErrorIs(t, err, tc.expectedErr)
			}

			if tc.wantPublish {
				assert.Equal(t, published+1, len(producer.published))
			} else {
				assert.Equal(t, published, len(producer.published))
			}

			t.Cleanup(func() {
				assert.NoError(t, cleanup())
			})
		})
	}
}

func TestLoginUser(t *testing.T) {
	s, _, _, cleanup := setupTestEnvironment(t)

	ctx := context.Background()

	_, err := s.RegisterUser(ctx, "testuser", "Test User", "", "sekret")
	assert.NoError(t, err)

	t.Cleanup(func() {
		assert.NoError(t, cleanup())
	})

	testCases := []struct {
		name        string
		username    string
		password    string
		expectedErr error
	}{
		{
			name:     "valid credentials",
			username: "testuser",
			password: "sekret",
		},
		{
			name:        "wrong password",
			username:    "testuser",
			password:    "wrong",
			expectedErr: ErrAuthenticationFailure,
		},
		{
			name:        "unknown user",
			username:    "nobody",
			password:    "sekret",
			expectedErr: ErrAuthenticationFailure,
		},
		{
			name:        "empty credentials",
			username:    "",
			password:    "",
			expectedErr: common.ValidationError{},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			token, err := s.LoginUser(ctx, tc.username, tc.password)

			switch tc.expectedErr.(type) {
			case nil:
				assert.NoError(t, err)
				assert.NotEmpty(t, token.Token)
				assert.Equal(t, "testuser", token.Username)
				assert.Equal(t, "Test User", token.Name)
				assert.True(t, token.Expiry.After(time.Now()))

				// the issued token resolves back to the account
				user, err := s.GetUserByToken(ctx, token.Token)
				assert.NoError(t, err)
				assert.Equal(t, "testuser", user.Username)
			case common.ValidationError:
				var validationErr common.ValidationError
				assert.ErrorAs(t, err, &validationErr)
			default:
				assert.ErrorIs(t, err, tc.expectedErr)
			}
		})
	}
}

func TestGetUserByToken(t *testing.T) {
	s, db, _, cleanup := setupTestEnvironment(t)

	ctx := context.Background()

	_, err := s.RegisterUser(ctx, "testuser", "Test User", "", "sekret")
	assert.NoError(t, err)

	token, err := s.LoginUser(ctx, "testuser", "sekret")
	assert.NoError(t, err)

	t.Cleanup(func() {
		assert.NoError(t, cleanup())
	})

	user, err := s.GetUserByToken(ctx, token.Token)
	assert.NoError(t, err)
	assert.Equal(t, "testuser", user.Username)

	// second lookup is served from the cache even if the row disappears
	_, err = db.Exec("DELETE FROM users WHERE username = $1", "testuser")
	assert.NoError(t, err)

	cached, err := s.GetUserByToken(ctx, token.Token)
	assert.NoError(t, err)
	assert.Equal(t, user.ID, cached.ID)

	_, err = s.GetUserByToken(ctx, "not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestGetUsers(t *testing.T) {
	s, db, _, cleanup := setupTestEnvironment(t)

	ctx := context.Background()

	alice, err := s.RegisterUser(ctx, "alice", "Alice", "", "sekret")
	assert.NoError(t, err)

	_, err = s.RegisterUser(ctx, "bob", "Bob", "", "sekret")
	assert.NoError(t, err)

	_, err = db.Exec("INSERT INTO blogs (title, author, url, likes, user_id) VALUES ($1, $2, $3, $4, $5)", "Test Blog", "Alice", "http://example.com", 3, alice.ID)
	assert.NoError(t, err)

	t.Cleanup(func() {
		assert.NoError(t, cleanup())
	})

	users, err := s.GetUsers(ctx)
	assert.NoError(t, err)
	assert.Len(t, users, 2)

	assert.Equal(t, "alice", users[0].Username)
	assert.Len(t, users[0].Blogs, 1)
	assert.Equal(t, "Test Blog", users[0].Blogs[0].Title)
	assert.Equal(t, "http://example.com", users[0].Blogs[0].URL)
	assert.Equal(t, 3, users[0].Blogs[0].Likes)

	assert.Equal(t, "bob", users[1].Username)
	assert.Empty(t, users[1].Blogs)
}
