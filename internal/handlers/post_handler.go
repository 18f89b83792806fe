package handlers

import (
	"errors"
	"log"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"inkpress/internal/models"
	"inkpress/internal/repositories"
	"inkpress/internal/services"
)

const slugTakenMsg = "A post with the same slug already exists. Please choose a different title."

type PostHandler struct {
	posts *services.PostService
}

func NewPostHandler(posts *services.PostService) *PostHandler {
	return &PostHandler{posts: posts}
}

// post create/update come in as multipart forms so an image can ride along
func bindPostInput(c *gin.Context) services.PostInput {
	return services.PostInput{
		Title:     c.PostForm("title"),
		Slug:      c.PostForm("slug"),
		Content:   c.PostForm("content"),
		Category:  c.PostForm("category"),
		MetaTitle: c.PostForm("metaTitle"),
		MetaDesc:  c.PostForm("metaDescription"),
		MetaKeys:  c.PostForm("metaKeywords"),
	}
}

// empty results stay a JSON array, never null
func nonNilPosts(posts []*models.Post) []*models.Post {
	if posts == nil {
		return []*models.Post{}
	}
	return posts
}

func formImage(c *gin.Context) *multipart.FileHeader {
	fh, err := c.FormFile("image")
	if err != nil {
		return nil
	}
	return fh
}

func (h *PostHandler) Create(c *gin.Context) {
	in := bindPostInput(c)
	if in.Title == "" || in.Slug == "" || in.Content == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "title, slug and content are required"})
		return
	}

	userID, _ := getUserAndRole(c)
	post, err := h.posts.CreatePost(userID, in, formImage(c))
	if err != nil {
		if errors.Is(err, services.ErrSlugTaken) {
			c.JSON(http.StatusBadRequest, gin.H{"message": slugTakenMsg})
			return
		}
		log.Printf("[posts][create] %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create post. Please try again later."})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Post created successfully", "post": post})
}

func (h *PostHandler) Update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid post id"})
		return
	}

	post, err := h.posts.UpdatePost(id, bindPostInput(c), formImage(c))
	switch {
	case err == nil:
		c.JSON(http.StatusOK, post)
	case errors.Is(err, repositories.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "Post not found"})
	case errors.Is(err, services.ErrSlugTaken):
		c.JSON(http.StatusBadRequest, gin.H{"message": slugTakenMsg})
	default:
		log.Printf("[posts][update] %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
	}
}

func (h *PostHandler) Delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid post id"})
		return
	}

	if err := h.posts.DeletePost(id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Post not found"})
			return
		}
		log.Printf("[posts][delete] %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Post deleted"})
}

func (h *PostHandler) GetAll(c *gin.Context) {
	posts, err := h.posts.GetAllPosts()
	if err != nil {
		log.Printf("[posts][list] %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch posts"})
		return
	}
	c.JSON(http.StatusOK, nonNilPosts(posts))
}

func (h *PostHandler) GetBySlug(c *gin.Context) {
	post, err := h.posts.GetPostBySlug(c.Param("slug"))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Post not found"})
			return
		}
		log.Printf("[posts][get] %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch post"})
		return
	}
	c.JSON(http.StatusOK, post)
}

func (h *PostHandler) Search(c *gin.Context) {
	query := c.Query("query")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Query is required"})
		return
	}

	posts, err := h.posts.Search(query)
	if err != nil {
		log.Printf("[posts][search] %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}
	c.JSON(http.StatusOK, nonNilPosts(posts))
}

func (h *PostHandler) GetCategories(c *gin.Context) {
	categories, err := h.posts.GetCategories()
	if err != nil {
		log.Printf("[posts][categories] %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch categories"})
		return
	}
	if categories == nil {
		categories = []*models.Category{}
	}
	c.JSON(http.StatusOK, categories)
}

func (h *PostHandler) AddCategory(c *gin.Context) {
	var req struct {
		Name string `json:"name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Category name is required"})
		return
	}

	category, err := h.posts.AddCategory(req.Name)
	if err != nil {
		if errors.Is(err, services.ErrCategoryExists) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Category already exists"})
			return
		}
		log.Printf("[posts][add-category] %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error while adding category"})
		return
	}
	c.JSON(http.StatusCreated, category)
}

func (h *PostHandler) RenameCategory(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid category id"})
		return
	}

	var req struct {
		Name string `json:"name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Category name is required"})
		return
	}

	category, err := h.posts.RenameCategory(id, req.Name)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, category)
	case errors.Is(err, services.ErrCategoryExists):
		c.JSON(http.StatusBadRequest, gin.H{"message": "Category with this name already exists"})
	case errors.Is(err, repositories.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "Category not found"})
	default:
		log.Printf("[posts][rename-category] %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error while renaming category"})
	}
}
