// Package controller exposes the follow graph over HTTP.
package controller

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Laisky/twitter-clone/internal/web/render"
	"github.com/Laisky/twitter-clone/internal/web/user/model"
	"github.com/Laisky/twitter-clone/internal/web/user/service"
	"github.com/Laisky/twitter-clone/library/auth"
)

// FollowService is what the handlers need from the user service.
type FollowService interface {
	Follow(ctx context.Context, follower *model.User, targetUserID string) error
	Unfollow(ctx context.Context, follower *model.User, targetUserID string) error
}

var errStatus = []render.Mapping{
	{Err: service.ErrUserNotFound, Status: http.StatusNotFound},
	{Err: service.ErrFollowSelf, Status: http.StatusBadRequest},
	{Err: service.ErrAlreadyFollowed, Status: http.StatusConflict},
	{Err: service.ErrNotFollowed, Status: http.StatusBadRequest},
}

// followRequest is the body of POST /follow/.
type followRequest struct {
	UserID string `json:"user_id" binding:"required"`
}

// Controller serves the follow endpoints.
type Controller struct {
	svc FollowService
}

// New creates a Controller.
func New(svc FollowService) *Controller {
	return &Controller{svc: svc}
}

// Register mounts the follow routes on r.
func (ctl *Controller) Register(r gin.IRouter, p *auth.Provider) {
	r.POST("/follow/", p.Required(), ctl.Follow)
	r.DELETE("/follow/:user_id/", p.Required(), ctl.Unfollow)
}

// Follow handles POST /follow/.
func (ctl *Controller) Follow(c *gin.Context) {
	req := new(followRequest)
	if err := c.ShouldBindJSON(req); err != nil || strings.TrimSpace(req.UserID) == "" {
		render.Message(c, http.StatusBadRequest, "user_id is required")
		return
	}

	user, _ := auth.GetPrincipal(c)
	if err := ctl.svc.Follow(c.Request.Context(), user, strings.TrimSpace(req.UserID)); err != nil {
		render.Error(c, err, errStatus)
		return
	}

	render.Message(c, http.StatusCreated, "successfully follow")
}

// Unfollow handles DELETE /follow/:user_id/.
func (ctl *Controller) Unfollow(c *gin.Context) {
	user, _ := auth.GetPrincipal(c)
	if err := ctl.svc.Unfollow(c.Request.Context(), user, c.Param("user_id")); err != nil {
		render.Error(c, err, errStatus)
		return
	}

	render.Message(c, http.StatusOK, "successfully unfollow")
}
