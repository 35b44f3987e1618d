package service

import (
	"context"

	"github.com/Laisky/errors/v2"
	"golang.org/x/sync/errgroup"

	"github.com/Laisky/twitter-clone/internal/web/twitter/dto"
	"github.com/Laisky/twitter-clone/internal/web/twitter/model"
	userModel "github.com/Laisky/twitter-clone/internal/web/user/model"
)

// GetDetail renders tweetID with its parent, when it is a reply, and its
// direct replies. viewer may be nil.
func (s *Service) GetDetail(ctx context.Context, viewer *userModel.User, tweetID uint64) (*dto.TweetDetail, error) {
	tweet, err := s.loadTweet(ctx, tweetID)
	if err != nil {
		return nil, err
	}

	replies, err := s.dao.ListReplies(ctx, tweet.ID)
	if err != nil {
		return nil, err
	}

	batch := make([]*model.Tweet, 0, len(replies)+2)
	batch = append(batch, tweet)
	batch = append(batch, replies...)

	var parent *model.Tweet
	if tweet.Type == model.TypeReply && tweet.ParentID != nil {
		parents, err := s.dao.ListByIDs(ctx, []uint64{*tweet.ParentID})
		if err != nil {
			return nil, err
		}
		if parent = parents[*tweet.ParentID]; parent != nil {
			batch = append(batch, parent)
		}
	}

	views, err := s.buildViews(ctx, viewer, batch)
	if err != nil {
		return nil, errors.Wrapf(err, "render tweet %d", tweet.ID)
	}

	detail := &dto.TweetDetail{
		TweetView:      *views[0],
		ReplyingTweets: views[1 : 1+len(replies)],
	}
	if parent != nil {
		detail.RepliedTweet = views[len(views)-1]
	}

	return detail, nil
}

// Home renders the tweets of viewer and of everyone viewer follows,
// newest first.
func (s *Service) Home(ctx context.Context, viewer *userModel.User, args dto.HomeArgs) (*dto.Home, error) {
	page, size, err := sanitizePagination(args.Page, args.Size)
	if err != nil {
		return nil, err
	}

	authorIDs, err := s.users.FollowingIDs(ctx, viewer.ID)
	if err != nil {
		return nil, errors.Wrap(err, "load following")
	}
	authorIDs = append(authorIDs, viewer.ID)

	tweets, err := s.dao.ListByAuthors(ctx, authorIDs, page, size)
	if err != nil {
		return nil, err
	}

	views, err := s.buildViews(ctx, viewer, tweets)
	if err != nil {
		return nil, errors.Wrap(err, "render home")
	}

	return &dto.Home{
		User:   viewer.Summary(),
		Tweets: views,
	}, nil
}

// buildViews renders tweets in order. Every aggregate is fetched with one
// query for the whole batch, and independent queries run concurrently.
func (s *Service) buildViews(ctx context.Context, viewer *userModel.User, tweets []*model.Tweet) ([]*dto.TweetView, error) {
	views := make([]*dto.TweetView, 0, len(tweets))
	if len(tweets) == 0 {
		return views, nil
	}

	ids := make([]uint64, 0, len(tweets))
	authorIDs := make([]uint64, 0, len(tweets))
	var parentIDs []uint64
	for _, t := range tweets {
		ids = append(ids, t.ID)
		authorIDs = append(authorIDs, t.AuthorID)
		if t.Type == model.TypeReply && t.ParentID != nil {
			parentIDs = append(parentIDs, *t.ParentID)
		}
	}

	var (
		authors     map[uint64]*userModel.User
		parents     map[uint64]*model.Tweet
		media       map[uint64][]*model.Media
		replies     map[uint64]int64
		retweets    map[uint64]int64
		likes       map[uint64]int64
		userRetweet = map[uint64]bool{}
		userLike    = map[uint64]bool{}
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		if parents, err = s.dao.ListByIDs(gctx, parentIDs); err != nil {
			return err
		}
		for _, p := range parents {
			authorIDs = append(authorIDs, p.AuthorID)
		}
		authors, err = s.users.LoadByIDs(gctx, authorIDs)
		return err
	})
	g.Go(func() (err error) {
		media, err = s.dao.LoadMedia(gctx, ids)
		return err
	})
	g.Go(func() (err error) {
		replies, err = s.dao.CountReplies(gctx, ids)
		return err
	})
	g.Go(func() (err error) {
		retweets, err = s.dao.CountRetweets(gctx, ids)
		return err
	})
	g.Go(func() (err error) {
		likes, err = s.dao.CountLikes(gctx, ids)
		return err
	})
	if viewer != nil {
		g.Go(func() (err error) {
			userRetweet, err = s.dao.RetweetedBy(gctx, viewer.ID, ids)
			return err
		})
		g.Go(func() (err error) {
			userLike, err = s.dao.LikedBy(gctx, viewer.ID, ids)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, t := range tweets {
		t.Media = media[t.ID]
		view := &dto.TweetView{
			ID:             t.ID,
			Author:         authors[t.AuthorID].Summary(),
			TweetType:      string(t.Type),
			RetweetingUser: t.RetweetingUser,
			Content:        t.Content,
			Media:          t.MediaURLs(),
			WrittenAt:      t.CreatedAt,
			Replies:        replies[t.ID],
			Retweets:       retweets[t.ID],
			UserRetweet:    userRetweet[t.ID],
			Likes:          likes[t.ID],
			UserLike:       userLike[t.ID],
		}
		if t.Type == model.TypeReply && t.ParentID != nil {
			if p := parents[*t.ParentID]; p != nil {
				view.ReplyTo = authors[p.AuthorID].Summary().UserID
			}
		}
		views = append(views, view)
	}

	return views, nil
}
