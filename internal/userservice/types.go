package userservice

import (
	"database/sql"
	"time"

	"github.com/bloglistapp/bloglist/internal/common"
)

const (
	AccessTokenTime time.Duration = 7 * 24 * time.Hour
)

var (
	AnonymousUser = User{}
)

type UserService struct {
	m      *DBModel
	mb     common.MessageProducer
	c      *common.Cache
	secret []byte
}

type DBModel struct {
	db *sql.DB
}

type User struct {
	ID        int       `json:"id"`
	Username  string    `json:"username"`
	Name      string    `json:"name"`
	Email     string    `json:"-"`
	Password  Password  `json:"-"`
	CreatedAt time.Time `json:"-"`
	Version   int       `json:"-"`

	Blogs []BlogSummary `json:"blogs"`
}

// BlogSummary is the projection of a blog attached to a user listing. It is
// scanned straight from the blogs table to keep this package free of a
// dependency on the blog service.
type BlogSummary struct {
	ID     int    `json:"id"`
	Title  string `json:"title"`
	Author string `json:"author"`
	URL    string `json:"url"`
	Likes  int    `json:"likes"`
}

type Password struct {
	Plain string `json:"-"`
	hash  []byte
}

// AuthToken is the login response: a signed bearer token plus the identity it
// was issued for.
type AuthToken struct {
	Token    string    `json:"token"`
	Username string    `json:"username"`
	Name     string    `json:"name"`
	Expiry   time.Time `json:"expiry"`
}
