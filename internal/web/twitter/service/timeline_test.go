package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Laisky/twitter-clone/internal/web/twitter/dto"
	"github.com/Laisky/twitter-clone/internal/web/twitter/model"
)

func TestHome(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	alice, bob, carol := f.user(t, "alice"), f.user(t, "bob"), f.user(t, "carol")
	f.follow(t, alice, bob)

	own, err := f.svc.Post(ctx, alice, "mine", nil)
	require.NoError(t, err)
	followed, err := f.svc.Post(ctx, bob, "from bob", []string{"https://m/bob.png"})
	require.NoError(t, err)
	_, err = f.svc.Post(ctx, carol, "not followed", nil)
	require.NoError(t, err)
	reply, err := f.svc.Reply(ctx, bob, own, "bob replies", nil)
	require.NoError(t, err)
	require.NoError(t, f.svc.Like(ctx, alice, followed))

	home, err := f.svc.Home(ctx, alice, dto.HomeArgs{})
	require.NoError(t, err)
	require.Equal(t, "alice", home.User.UserID)
	require.Len(t, home.Tweets, 3)
	require.Equal(t, reply, home.Tweets[0].ID)
	require.Equal(t, followed, home.Tweets[1].ID)
	require.Equal(t, own, home.Tweets[2].ID)

	require.Equal(t, "alice", home.Tweets[0].ReplyTo)
	require.True(t, home.Tweets[1].UserLike)
	require.Equal(t, int64(1), home.Tweets[1].Likes)
	require.Equal(t, []string{"https://m/bob.png"}, home.Tweets[1].Media)
	require.NotNil(t, home.Tweets[2].Media)
	require.Empty(t, home.Tweets[2].Media)
	require.Equal(t, int64(1), home.Tweets[2].Replies)
}

func TestHomePagination(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	alice := f.user(t, "alice")

	var ids []uint64
	for range 5 {
		id, err := f.svc.Post(ctx, alice, "post", nil)
		require.NoError(t, err)
		ids = append(ids, id)
	}

	page, err := f.svc.Home(ctx, alice, dto.HomeArgs{Page: 1, Size: 2})
	require.NoError(t, err)
	require.Len(t, page.Tweets, 2)
	require.Equal(t, ids[2], page.Tweets[0].ID)
	require.Equal(t, ids[1], page.Tweets[1].ID)

	last, err := f.svc.Home(ctx, alice, dto.HomeArgs{Page: 2, Size: 2})
	require.NoError(t, err)
	require.Len(t, last.Tweets, 1)

	_, err = f.svc.Home(ctx, alice, dto.HomeArgs{Size: 101})
	require.ErrorIs(t, err, ErrInvalidPagination)
}

func TestHomeTieBreak(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	alice, bob := f.user(t, "alice"), f.user(t, "bob")
	f.follow(t, alice, bob)

	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	var ids []uint64
	for i, author := range []uint64{alice.ID, bob.ID, alice.ID, bob.ID} {
		tweet := &model.Tweet{
			AuthorID:  author,
			Type:      model.TypeGeneral,
			Content:   "same instant",
			CreatedAt: at,
		}
		if i == 0 {
			tweet.CreatedAt = at.Add(-time.Minute)
		}
		require.NoError(t, f.db.Create(tweet).Error)
		ids = append(ids, tweet.ID)
	}

	home, err := f.svc.Home(ctx, alice, dto.HomeArgs{})
	require.NoError(t, err)
	require.Len(t, home.Tweets, 4)
	for i, want := range []uint64{ids[3], ids[2], ids[1], ids[0]} {
		require.Equal(t, want, home.Tweets[i].ID, "position %d", i)
	}

	page, err := f.svc.Home(ctx, alice, dto.HomeArgs{Page: 1, Size: 2})
	require.NoError(t, err)
	require.Len(t, page.Tweets, 2)
	require.Equal(t, ids[1], page.Tweets[0].ID)
	require.Equal(t, ids[0], page.Tweets[1].ID)
}

func TestHomeEmpty(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	home, err := f.svc.Home(context.Background(), f.user(t, "alice"), dto.HomeArgs{})
	require.NoError(t, err)
	require.NotNil(t, home.Tweets)
	require.Empty(t, home.Tweets)
}
