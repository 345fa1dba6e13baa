// File: /controllers/post_controller.go
package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"socialpulse-api/models"
	"socialpulse-api/services"
	"socialpulse-api/utils"
)

// CacheInvalidator drops derived data of a user after their posts change.
type CacheInvalidator interface {
	Invalidate(ctx context.Context, userID string)
}

type PostController struct {
	posts    *services.PostService
	renderer *services.ContentRenderer
	cache    CacheInvalidator
}

func NewPostController(posts *services.PostService, renderer *services.ContentRenderer, cache CacheInvalidator) *PostController {
	return &PostController{
		posts:    posts,
		renderer: renderer,
		cache:    cache,
	}
}

func (pc *PostController) GetPosts(c *gin.Context) {
	page, limit := utils.ParsePagination(c.Query("page"), c.Query("limit"), services.DefaultPageSize, services.MaxPageSize)

	result, err := pc.posts.List(c.Request.Context(), models.PostFilter{
		UserID:   c.GetString("user_id"),
		Status:   models.PostStatus(c.Query("status")),
		Platform: models.Platform(c.Query("platform")),
		Page:     page,
		Limit:    limit,
	})
	if err != nil {
		respondError(c, err, "Failed to fetch posts")
		return
	}
	c.JSON(http.StatusOK, result)
}

func (pc *PostController) CreatePost(c *gin.Context) {
	var req services.CreatePostInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, err.Error())
		return
	}

	post, err := pc.posts.Create(c.Request.Context(), c.GetString("user_id"), req)
	if err != nil {
		respondError(c, err, "Failed to create post")
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "Post created successfully",
		"post":    post,
	})
}

func (pc *PostController) GetStatsSummary(c *gin.Context) {
	stats, err := pc.posts.StatsSummary(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		respondError(c, err, "Failed to load post statistics")
		return
	}
	c.JSON(http.StatusOK, gin.H{"stats": stats})
}

func (pc *PostController) GetPost(c *gin.Context) {
	post, err := pc.posts.Get(c.Request.Context(), c.GetString("user_id"), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to fetch post")
		return
	}
	c.JSON(http.StatusOK, gin.H{"post": post})
}

func (pc *PostController) PreviewPost(c *gin.Context) {
	post, err := pc.posts.Get(c.Request.Context(), c.GetString("user_id"), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to fetch post")
		return
	}

	preview, err := pc.renderer.Preview(*post)
	if err != nil {
		respondError(c, err, "Failed to render post")
		return
	}
	c.JSON(http.StatusOK, gin.H{"preview": preview})
}

func (pc *PostController) UpdatePost(c *gin.Context) {
	var req services.UpdatePostInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, err.Error())
		return
	}

	userID := c.GetString("user_id")
	post, err := pc.posts.Update(c.Request.Context(), userID, c.Param("id"), req)
	if err != nil {
		respondError(c, err, "Failed to update post")
		return
	}
	pc.invalidate(c, userID)
	c.JSON(http.StatusOK, gin.H{
		"message": "Post updated successfully",
		"post":    post,
	})
}

func (pc *PostController) UpdateEngagement(c *gin.Context) {
	var req models.Engagement
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, err.Error())
		return
	}

	userID := c.GetString("user_id")
	post, err := pc.posts.UpdateEngagement(c.Request.Context(), userID, c.Param("id"), req)
	if err != nil {
		respondError(c, err, "Failed to update engagement")
		return
	}
	pc.invalidate(c, userID)
	c.JSON(http.StatusOK, gin.H{
		"message": "Engagement updated successfully",
		"post":    post,
	})
}

func (pc *PostController) PublishNow(c *gin.Context) {
	post, err := pc.posts.PublishNow(c.Request.Context(), c.GetString("user_id"), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to queue post")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Post queued for publishing",
		"post":    post,
	})
}

func (pc *PostController) DeletePost(c *gin.Context) {
	userID := c.GetString("user_id")
	if err := pc.posts.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondError(c, err, "Failed to delete post")
		return
	}
	pc.invalidate(c, userID)
	utils.SendSuccess(c, "Post deleted successfully", nil)
}

func (pc *PostController) invalidate(c *gin.Context, userID string) {
	if pc.cache != nil {
		pc.cache.Invalidate(c.Request.Context(), userID)
	}
}
