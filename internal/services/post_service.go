package services

import (
	"errors"
	"log"
	"mime/multipart"
	"strconv"
	"strings"

	"inkpress/internal/models"
	"inkpress/internal/repositories"
	"inkpress/internal/storage"
)

var (
	ErrSlugTaken      = errors.New("slug already in use")
	ErrCategoryExists = errors.New("category already exists")
)

const searchLimit = 20

// PostInput carries the writable post fields from a create/update request.
type PostInput struct {
	Title     string
	Slug      string
	Content   string
	Category  string
	MetaTitle string
	MetaDesc  string
	MetaKeys  string
}

// PostService orchestrates post and category writes, including the uploaded
// image lifecycle and orphan-category cleanup.
type PostService struct {
	posts      repositories.PostRepository
	categories repositories.CategoryRepository
	uploads    *storage.UploadStore
}

func NewPostService(
	posts repositories.PostRepository,
	categories repositories.CategoryRepository,
	uploads *storage.UploadStore,
) *PostService {
	return &PostService{
		posts:      posts,
		categories: categories,
		uploads:    uploads,
	}
}

// slugs are stored lowercased and trimmed; uniqueness is case-insensitive by
// construction
func normalizeSlug(slug string) string {
	return strings.ToLower(strings.TrimSpace(slug))
}

func (s *PostService) CreatePost(authorID int, in PostInput, image *multipart.FileHeader) (*models.Post, error) {
	slug := normalizeSlug(in.Slug)

	taken, err := s.posts.SlugTakenByOther(slug, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrSlugTaken
	}

	category, err := s.resolveCategoryByName(in.Category)
	if err != nil {
		return nil, err
	}

	imageURL := ""
	if image != nil {
		if imageURL, err = s.uploads.Save(image); err != nil {
			return nil, err
		}
	}

	post := &models.Post{
		AuthorID:  authorID,
		Title:     in.Title,
		Slug:      slug,
		Content:   in.Content,
		ImageURL:  imageURL,
		MetaTitle: in.MetaTitle,
		MetaDesc:  in.MetaDesc,
		MetaKeys:  in.MetaKeys,
	}
	if category != nil {
		post.CategoryID = &category.ID
	}

	if err := s.posts.Create(post); err != nil {
		s.removeFile(imageURL)
		if errors.Is(err, repositories.ErrConflict) {
			// unique index caught a concurrent create with the same slug
			return nil, ErrSlugTaken
		}
		return nil, err
	}
	return post, nil
}

func (s *PostService) UpdatePost(id int, in PostInput, image *multipart.FileHeader) (*models.Post, error) {
	post, err := s.posts.GetByID(id)
	if err != nil {
		return nil, err
	}

	slug := normalizeSlug(in.Slug)
	taken, err := s.posts.SlugTakenByOther(slug, id)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrSlugTaken
	}

	category, err := s.resolveCategoryRef(in.Category)
	if err != nil {
		return nil, err
	}

	oldCategoryID := post.CategoryID
	oldImageURL := post.ImageURL

	newImageURL := ""
	if image != nil {
		if newImageURL, err = s.uploads.Save(image); err != nil {
			return nil, err
		}
		post.ImageURL = newImageURL
	}

	post.Title = in.Title
	post.Slug = slug
	post.Content = in.Content
	post.MetaTitle = in.MetaTitle
	post.MetaDesc = in.MetaDesc
	post.MetaKeys = in.MetaKeys
	post.CategoryID = nil
	post.CategoryName = ""
	if category != nil {
		post.CategoryID = &category.ID
		post.CategoryName = category.Name
	}

	if err := s.posts.Update(post); err != nil {
		s.removeFile(newImageURL)
		if errors.Is(err, repositories.ErrConflict) {
			return nil, ErrSlugTaken
		}
		return nil, err
	}

	// the replaced image only goes away once the row is saved
	if newImageURL != "" && oldImageURL != "" {
		s.removeFile(oldImageURL)
	}

	if oldCategoryID != nil && (post.CategoryID == nil || *post.CategoryID != *oldCategoryID) {
		if err := s.collectOrphanCategory(*oldCategoryID); err != nil {
			return nil, err
		}
	}
	return post, nil
}

func (s *PostService) DeletePost(id int) error {
	post, err := s.posts.GetByID(id)
	if err != nil {
		return err
	}

	s.removeFile(post.ImageURL)

	if err := s.posts.Delete(id); err != nil {
		return err
	}

	if post.CategoryID != nil {
		return s.collectOrphanCategory(*post.CategoryID)
	}
	return nil
}

func (s *PostService) AddCategory(name string) (*models.Category, error) {
	name = strings.TrimSpace(name)

	if _, err := s.categories.GetByName(name); err == nil {
		return nil, ErrCategoryExists
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}

	category := &models.Category{Name: name}
	if err := s.categories.Create(category); err != nil {
		if errors.Is(err, repositories.ErrConflict) {
			return nil, ErrCategoryExists
		}
		return nil, err
	}
	return category, nil
}

// RenameCategory rejects names held by a different category; renaming to the
// current name is a no-op success.
func (s *PostService) RenameCategory(id int, name string) (*models.Category, error) {
	name = strings.TrimSpace(name)

	if existing, err := s.categories.GetByName(name); err == nil && existing.ID != id {
		return nil, ErrCategoryExists
	} else if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}

	if err := s.categories.Rename(id, name); err != nil {
		if errors.Is(err, repositories.ErrConflict) {
			return nil, ErrCategoryExists
		}
		return nil, err
	}
	return &models.Category{ID: id, Name: name}, nil
}

func (s *PostService) GetCategories() ([]*models.Category, error) {
	return s.categories.ListWithCounts()
}

func (s *PostService) GetAllPosts() ([]*models.Post, error) {
	return s.posts.ListAll()
}

func (s *PostService) GetPostBySlug(slug string) (*models.Post, error) {
	return s.posts.GetBySlug(slug)
}

// Search returns the exact title match alone when one exists; otherwise up
// to 20 substring matches on title or slug. The exact hit is never merged
// into the broader list.
func (s *PostService) Search(query string) ([]*models.Post, error) {
	exact, err := s.posts.FindExactTitle(query)
	if err == nil {
		return []*models.Post{exact}, nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}
	return s.posts.SearchTitleOrSlug(query, searchLimit)
}

// resolveCategoryByName reuses a category by exact trimmed name or creates
// one. Matching is case-sensitive: "AI" and "ai" stay distinct.
func (s *PostService) resolveCategoryByName(name string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}

	category, err := s.categories.GetByName(name)
	if err == nil {
		return category, nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}

	category = &models.Category{Name: name}
	if err := s.categories.Create(category); err != nil {
		if errors.Is(err, repositories.ErrConflict) {
			// a concurrent request created it first; reuse theirs
			return s.categories.GetByName(name)
		}
		return nil, err
	}
	return category, nil
}

// resolveCategoryRef accepts either an existing category id or a name.
func (s *PostService) resolveCategoryRef(value string) (*models.Category, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	if id, err := strconv.Atoi(value); err == nil {
		return s.categories.GetByID(id)
	}
	return s.resolveCategoryByName(value)
}

// collectOrphanCategory drops a category once nothing references it.
func (s *PostService) collectOrphanCategory(categoryID int) error {
	count, err := s.posts.CountByCategory(categoryID)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	return s.categories.Delete(categoryID)
}

func (s *PostService) removeFile(relURL string) {
	if relURL == "" {
		return
	}
	if err := s.uploads.Remove(relURL); err != nil {
		log.Printf("[posts][cleanup] failed to delete %s: %v", relURL, err)
	}
}
