// Package controller exposes the tweet operations over HTTP.
package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Laisky/twitter-clone/internal/web/render"
	"github.com/Laisky/twitter-clone/internal/web/twitter/dto"
	"github.com/Laisky/twitter-clone/internal/web/twitter/service"
	userModel "github.com/Laisky/twitter-clone/internal/web/user/model"
	userService "github.com/Laisky/twitter-clone/internal/web/user/service"
	"github.com/Laisky/twitter-clone/library/auth"
)

// TweetService is what the handlers need from the tweet service.
type TweetService interface {
	Post(ctx context.Context, author *userModel.User, content string, media []string) (uint64, error)
	Reply(ctx context.Context, author *userModel.User, targetID uint64, content string, media []string) (uint64, error)
	Delete(ctx context.Context, requester *userModel.User, tweetID uint64) error
	GetDetail(ctx context.Context, viewer *userModel.User, tweetID uint64) (*dto.TweetDetail, error)
	Retweet(ctx context.Context, user *userModel.User, tweetID uint64) (uint64, error)
	CancelRetweet(ctx context.Context, user *userModel.User, tweetID uint64) error
	Like(ctx context.Context, user *userModel.User, tweetID uint64) error
	CancelLike(ctx context.Context, user *userModel.User, tweetID uint64) error
	Home(ctx context.Context, viewer *userModel.User, args dto.HomeArgs) (*dto.Home, error)
}

const (
	msgInvalidBody = "invalid request body"
	msgIDRequired  = "id is required"
)

var errStatus = []render.Mapping{
	{Err: service.ErrEmptyTweet, Status: http.StatusBadRequest},
	{Err: service.ErrContentTooLong, Status: http.StatusBadRequest},
	{Err: service.ErrInvalidContent, Status: http.StatusBadRequest},
	{Err: service.ErrTooManyMedia, Status: http.StatusBadRequest},
	{Err: service.ErrInvalidMedia, Status: http.StatusBadRequest},
	{Err: service.ErrInvalidPagination, Status: http.StatusBadRequest},
	{Err: service.ErrTweetNotFound, Status: http.StatusNotFound},
	{Err: userService.ErrUserNotFound, Status: http.StatusNotFound},
	{Err: service.ErrForbidden, Status: http.StatusForbidden},
	{Err: service.ErrAlreadyRetweeted, Status: http.StatusConflict},
	{Err: service.ErrAlreadyLiked, Status: http.StatusConflict},
	{Err: service.ErrNotRetweeted, Status: http.StatusBadRequest},
	{Err: service.ErrNotLiked, Status: http.StatusBadRequest},
}

// Controller serves the tweet endpoints.
type Controller struct {
	svc TweetService
}

// New creates a Controller.
func New(svc TweetService) *Controller {
	return &Controller{svc: svc}
}

// Register mounts the tweet routes on r.
func (ctl *Controller) Register(r gin.IRouter, p *auth.Provider) {
	r.POST("/tweet/", p.Required(), ctl.PostTweet)
	r.GET("/tweet/:id/", p.Optional(), ctl.GetTweet)
	r.DELETE("/tweet/:id/", p.Required(), ctl.DeleteTweet)
	r.POST("/reply/", p.Required(), ctl.ReplyTweet)
	r.POST("/retweet/", p.Required(), ctl.Retweet)
	r.DELETE("/retweet/:id/", p.Required(), ctl.CancelRetweet)
	r.POST("/like/", p.Required(), ctl.Like)
	r.DELETE("/like/:id/", p.Required(), ctl.CancelLike)
	r.GET("/home/", p.Required(), ctl.Home)
}

func principal(c *gin.Context) *userModel.User {
	user, _ := auth.GetPrincipal(c)
	return user
}

// pathID reads the :id path parameter. It writes 404 and returns false when
// the value can not reference a tweet.
func pathID(c *gin.Context) (uint64, bool) {
	id, ok := render.ParseID(c.Param("id"))
	if !ok {
		render.Message(c, http.StatusNotFound, service.ErrTweetNotFound.Error())
	}
	return id, ok
}

// bodyID reads a raw id from a request body. A missing id writes 400, a
// malformed or non-positive one writes 404.
func bodyID(c *gin.Context, raw json.RawMessage) (uint64, bool) {
	if len(raw) == 0 || string(raw) == "null" {
		render.Message(c, http.StatusBadRequest, msgIDRequired)
		return 0, false
	}

	text := string(raw)
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		text = s
	}
	id, ok := render.ParseID(strings.TrimSpace(text))
	if !ok {
		render.Message(c, http.StatusNotFound, service.ErrTweetNotFound.Error())
	}
	return id, ok
}

// PostTweet handles POST /tweet/.
func (ctl *Controller) PostTweet(c *gin.Context) {
	req := new(dto.PostTweetRequest)
	if err := c.ShouldBindJSON(req); err != nil {
		render.Message(c, http.StatusBadRequest, msgInvalidBody)
		return
	}

	id, err := ctl.svc.Post(c.Request.Context(), principal(c), req.Content, req.Media)
	if err != nil {
		render.Error(c, err, errStatus)
		return
	}

	render.Created(c, "successfully write tweet", id)
}

// GetTweet handles GET /tweet/:id/. Authentication is optional.
func (ctl *Controller) GetTweet(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	detail, err := ctl.svc.GetDetail(c.Request.Context(), principal(c), id)
	if err != nil {
		render.Error(c, err, errStatus)
		return
	}

	c.JSON(http.StatusOK, detail)
}

// DeleteTweet handles DELETE /tweet/:id/.
func (ctl *Controller) DeleteTweet(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := ctl.svc.Delete(c.Request.Context(), principal(c), id); err != nil {
		render.Error(c, err, errStatus)
		return
	}

	render.Message(c, http.StatusOK, "successfully delete tweet")
}

// ReplyTweet handles POST /reply/.
func (ctl *Controller) ReplyTweet(c *gin.Context) {
	req := new(dto.ReplyTweetRequest)
	if err := c.ShouldBindJSON(req); err != nil {
		render.Message(c, http.StatusBadRequest, msgInvalidBody)
		return
	}
	target, ok := bodyID(c, req.ID)
	if !ok {
		return
	}

	id, err := ctl.svc.Reply(c.Request.Context(), principal(c), target, req.Content, req.Media)
	if err != nil {
		render.Error(c, err, errStatus)
		return
	}

	render.Created(c, "successfully reply tweet", id)
}

// Retweet handles POST /retweet/.
func (ctl *Controller) Retweet(c *gin.Context) {
	req := new(dto.TweetIDRequest)
	if err := c.ShouldBindJSON(req); err != nil {
		render.Message(c, http.StatusBadRequest, msgInvalidBody)
		return
	}
	target, ok := bodyID(c, req.ID)
	if !ok {
		return
	}

	id, err := ctl.svc.Retweet(c.Request.Context(), principal(c), target)
	if err != nil {
		render.Error(c, err, errStatus)
		return
	}

	render.Created(c, "successfully do retweet", id)
}

// CancelRetweet handles DELETE /retweet/:id/.
func (ctl *Controller) CancelRetweet(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := ctl.svc.CancelRetweet(c.Request.Context(), principal(c), id); err != nil {
		render.Error(c, err, errStatus)
		return
	}

	render.Message(c, http.StatusOK, "successfully cancel retweet")
}

// Like handles POST /like/.
func (ctl *Controller) Like(c *gin.Context) {
	req := new(dto.TweetIDRequest)
	if err := c.ShouldBindJSON(req); err != nil {
		render.Message(c, http.StatusBadRequest, msgInvalidBody)
		return
	}
	target, ok := bodyID(c, req.ID)
	if !ok {
		return
	}

	if err := ctl.svc.Like(c.Request.Context(), principal(c), target); err != nil {
		render.Error(c, err, errStatus)
		return
	}

	render.Created(c, "successfully like", target)
}

// CancelLike handles DELETE /like/:id/.
func (ctl *Controller) CancelLike(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := ctl.svc.CancelLike(c.Request.Context(), principal(c), id); err != nil {
		render.Error(c, err, errStatus)
		return
	}

	render.Message(c, http.StatusOK, "successfully cancel like")
}

// Home handles GET /home/.
func (ctl *Controller) Home(c *gin.Context) {
	var args dto.HomeArgs
	if err := c.ShouldBindQuery(&args); err != nil {
		render.Message(c, http.StatusBadRequest, service.ErrInvalidPagination.Error())
		return
	}

	home, err := ctl.svc.Home(c.Request.Context(), principal(c), args)
	if err != nil {
		render.Error(c, err, errStatus)
		return
	}

	c.JSON(http.StatusOK, home)
}
