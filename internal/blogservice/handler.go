package blogservice

import (
	"context"
	"database/sql"

	"github.com/bloglistapp/bloglist/internal/common"
)

func NewBlogService(db *sql.DB) *BlogService {
	return &BlogService{m: newBlogModel(db)}
}

type CreateBlogRequest struct {
	Title  string `json:"title"`
	Author string `json:"author"`
	URL    string `json:"url"`
	Likes  *int   `json:"likes"`
	UserID int    `json:"-"`
}

// CreateBlog creates a new blog post owned by the given user. Likes defaults
// to zero when absent.
func (s *BlogService) CreateBlog(ctx context.Context, req *CreateBlogRequest) (*Blog, error) {
	v := common.NewValidator()
	validateTitle(v, req.Title)
	validateURL(v, req.URL)
	validateInt(v, req.UserID, "user_id")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	likes := 0
	if req.Likes != nil {
		likes = *req.Likes
	}

	id, err := s.m.insert(ctx, req.Title, req.Author, req.URL, likes, req.UserID)
	if err != nil {
		return nil, err
	}

	return s.m.getBlogById(ctx, id)
}

// GetBlogByID returns a blog post by its ID.
func (s *BlogService) GetBlogByID(ctx context.Context, id int) (*Blog, error) {
	v := common.NewValidator()
	validateInt(v, id, "id")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	return s.m.getBlogById(ctx, id)
}

// GetBlogs returns all blog posts in insertion order.
func (s *BlogService) GetBlogs(ctx context.Context) ([]Blog, error) {
	return s.m.getBlogs(ctx)
}

type UpdateBlogRequest struct {
	Title  *string `json:"title"`
	Author *string `json:"author"`
	URL    *string `json:"url"`
	Likes  *int    `json:"likes"`
}

// UpdateBlog applies a partial patch to a blog post: only the fields present
// in the request replace the stored ones. Only the owner may update.
func (s *BlogService) UpdateBlog(ctx context.Context, id, userId int, req *UpdateBlogRequest) (*Blog, error) {
	v := common.NewValidator()
	validateInt(v, id, "id")
	validateInt(v, userId, "user_id")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	blog, err := s.m.getBlogById(ctx, id)
	if err != nil {
		return nil, err
	}

	if blog.User.ID != userId {
		return nil, ErrNotOwner
	}

	if req.Title != nil {
		blog.Title = *req.Title
	}
	if req.Author != nil {
		blog.Author = *req.Author
	}
	if req.URL != nil {
		blog.URL = *req.URL
	}
	if req.Likes != nil {
		blog.Likes = *req.Likes
	}

	validateTitle(v, blog.Title)
	validateURL(v, blog.URL)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	err = s.m.updateBlog(ctx, blog)
	if err != nil {
		return nil, err
	}

	return blog, nil
}

// DeleteBlog deletes a blog post. Only the owner may delete.
func (s *BlogService) DeleteBlog(ctx context.Context, id, userId int) error {
	v := common.NewValidator()
	validateInt(v, id, "id")
	validateInt(v, userId, "user_id")
	if !v.Valid() {
		return v.ValidationError()
	}

	blog, err := s.m.getBlogById(ctx, id)
	if err != nil {
		return err
	}

	if blog.User.ID != userId {
		return ErrNotOwner
	}

	return s.m.deleteBlog(ctx, id)
}
