package userservice

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/bloglistapp/bloglist/internal/common"
)

var (
	ErrAuthenticationFailure = fmt.Errorf("invalid username or password")
)

func NewUserService(db *sql.DB, mb common.MessageProducer, c *common.Cache, secret string) *UserService {
	return &UserService{
		m:      newUserModel(db),
		mb:     mb,
		c:      c,
		secret: []byte(secret),
	}
}

// RegisterUser creates a new user account. When an email address was given, a
// user.registered event is published so the mail consumer can send a welcome
// email.
func (s *UserService) RegisterUser(ctx context.Context, username, name, email, password string) (*User, error) {
	v := common.NewValidator()
	validateUsername(v, username)
	validateEmail(v, email)
	validatePassword(v, password)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	u := User{
		Username: username,
		Name:     name,
		Email:    email,
		Password: Password{Plain: password},
		Blogs:    []BlogSummary{},
	}

	err := u.Password.set(u.Password.Plain)
	if err != nil {
		return nil, err
	}

	err = s.m.insertUser(ctx, &u)
	if err != nil {
		return nil, err
	}

	if u.Email != "" {
		data := struct {
			Email    string
			Username string
		}{
			Email:    u.Email,
			Username: u.Username,
		}

		emailData, err := json.Marshal(data)
		if err != nil {
			return nil, err
		}

		err = s.mb.Publish(ctx, emailData, common.UserRegisteredKey, common.UserExchange)
		if err != nil {
			return nil, err
		}
	}

	return &u, nil
}

// LoginUser checks the credentials and returns a signed bearer token for the
// account.
func (s *UserService) LoginUser(ctx context.Context, username, password string) (*AuthToken, error) {
	v := common.NewValidator()
	validateLoginCredentials(v, username, password)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	user, err := s.m.getUserByUsername(ctx, username)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return nil, ErrAuthenticationFailure
		default:
			return nil, err
		}
	}

	ok, err := user.Password.compare(password)
	if err != nil {
		return nil, err
	}

	if !ok {
		return nil, ErrAuthenticationFailure
	}

	token, expiry, err := signToken(user.ID, s.secret, AccessTokenTime)
	if err != nil {
		return nil, err
	}

	return &AuthToken{
		Token:    token,
		Username: user.Username,
		Name:     user.Name,
		Expiry:   expiry,
	}, nil
}

// GetUserByToken verifies a bearer token and resolves it to the user it was
// issued for. Lookups sit on the hot path of every authenticated request, so
// resolved users are cached for a short while.
func (s *UserService) GetUserByToken(ctx context.Context, token string) (*User, error) {
	id, err := verifyToken(token, s.secret)
	if err != nil {
		return nil, err
	}

	if cached, ok := s.c.Get(common.CacheKeyUserById(id)); ok {
		if user, ok := cached.(*User); ok {
			return user, nil
		}
	}

	user, err := s.m.getUserById(ctx, id)
	if err != nil {
		return nil, err
	}

	s.c.Set(common.CacheKeyUserById(id), user)

	return user, nil
}

// GetUsers returns all user accounts with the blogs each one owns. Password
// material never leaves the model layer.
func (s *UserService) GetUsers(ctx context.Context) ([]User, error) {
	return s.m.getUsers(ctx)
}

func (u *User) IsAnonymous() bool {
	return u == &AnonymousUser
}
