package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Laisky/twitter-clone/internal/web/twitter/model"
)

func TestPost(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	alice := f.user(t, "alice")

	id, err := f.svc.Post(ctx, alice, "hello world", []string{"https://m/1.png", "https://m/2.png"})
	require.NoError(t, err)
	require.NotZero(t, id)

	detail, err := f.svc.GetDetail(ctx, nil, id)
	require.NoError(t, err)
	require.Equal(t, id, detail.ID)
	require.Equal(t, string(model.TypeGeneral), detail.TweetType)
	require.Equal(t, "hello world", detail.Content)
	require.Equal(t, []string{"https://m/1.png", "https://m/2.png"}, detail.Media)
	require.Equal(t, "alice", detail.Author.UserID)
	require.Equal(t, "ALICE", detail.Author.Username)
	require.Empty(t, detail.ReplyTo)
	require.Zero(t, detail.Quotes)

	mediaOnly, err := f.svc.Post(ctx, alice, "", []string{"https://m/3.png"})
	require.NoError(t, err)
	require.Greater(t, mediaOnly, id)
}

func TestPostRejectsInvalidBody(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	alice := f.user(t, "alice")

	_, err := f.svc.Post(ctx, alice, "", nil)
	require.ErrorIs(t, err, ErrEmptyTweet)

	_, err = f.svc.Post(ctx, alice, "x", []string{"1", "2", "3", "4", "5"})
	require.ErrorIs(t, err, ErrTooManyMedia)

	require.Zero(t, f.count(t, &model.Tweet{}))
}

func TestReply(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	alice, bob := f.user(t, "alice"), f.user(t, "bob")

	_, err := f.svc.Reply(ctx, bob, 4242, "hi", nil)
	require.ErrorIs(t, err, ErrTweetNotFound)

	root, err := f.svc.Post(ctx, alice, "root", nil)
	require.NoError(t, err)

	_, err = f.svc.Reply(ctx, bob, root, " ", nil)
	require.ErrorIs(t, err, ErrEmptyTweet)

	reply, err := f.svc.Reply(ctx, bob, root, "first", nil)
	require.NoError(t, err)
	second, err := f.svc.Reply(ctx, alice, root, "second", nil)
	require.NoError(t, err)

	detail, err := f.svc.GetDetail(ctx, nil, reply)
	require.NoError(t, err)
	require.Equal(t, string(model.TypeReply), detail.TweetType)
	require.Equal(t, "alice", detail.ReplyTo)
	require.NotNil(t, detail.RepliedTweet)
	require.Equal(t, root, detail.RepliedTweet.ID)
	require.Equal(t, int64(2), detail.RepliedTweet.Replies)
	require.Empty(t, detail.ReplyingTweets)

	parent, err := f.svc.GetDetail(ctx, nil, root)
	require.NoError(t, err)
	require.Nil(t, parent.RepliedTweet)
	require.Equal(t, int64(2), parent.Replies)
	require.Len(t, parent.ReplyingTweets, 2)
	require.Equal(t, reply, parent.ReplyingTweets[0].ID)
	require.Equal(t, second, parent.ReplyingTweets[1].ID)
	require.Equal(t, "alice", parent.ReplyingTweets[1].ReplyTo)
}

func TestGetDetailNotFound(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	_, err := f.svc.GetDetail(context.Background(), nil, 1)
	require.ErrorIs(t, err, ErrTweetNotFound)
}

func TestDeleteOwnership(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	alice, bob := f.user(t, "alice"), f.user(t, "bob")

	id, err := f.svc.Post(ctx, alice, "mine", nil)
	require.NoError(t, err)

	require.ErrorIs(t, f.svc.Delete(ctx, bob, id), ErrForbidden)
	require.ErrorIs(t, f.svc.Delete(ctx, alice, id+100), ErrTweetNotFound)
	require.NoError(t, f.svc.Delete(ctx, alice, id))

	_, err = f.svc.GetDetail(ctx, nil, id)
	require.ErrorIs(t, err, ErrTweetNotFound)
}

func TestDeleteCascades(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	alice, bob, carol := f.user(t, "alice"), f.user(t, "bob"), f.user(t, "carol")

	root, err := f.svc.Post(ctx, alice, "root", []string{"https://m/root.png"})
	require.NoError(t, err)
	reply, err := f.svc.Reply(ctx, bob, root, "reply", []string{"https://m/reply.png"})
	require.NoError(t, err)
	nested, err := f.svc.Reply(ctx, carol, reply, "nested", nil)
	require.NoError(t, err)
	rootRetweet, err := f.svc.Retweet(ctx, carol, root)
	require.NoError(t, err)
	_, err = f.svc.Retweet(ctx, alice, reply)
	require.NoError(t, err)
	replyToRetweet, err := f.svc.Reply(ctx, bob, rootRetweet, "on the retweet", nil)
	require.NoError(t, err)
	require.NoError(t, f.svc.Like(ctx, bob, nested))
	require.NoError(t, f.svc.Like(ctx, carol, root))

	survivor, err := f.svc.Post(ctx, bob, "unrelated", []string{"https://m/keep.png"})
	require.NoError(t, err)
	require.NoError(t, f.svc.Like(ctx, alice, survivor))

	require.NoError(t, f.svc.Delete(ctx, alice, root))

	for _, id := range []uint64{root, reply, nested, rootRetweet, replyToRetweet} {
		_, err = f.svc.GetDetail(ctx, nil, id)
		require.ErrorIs(t, err, ErrTweetNotFound, "tweet %d", id)
	}

	require.Equal(t, int64(1), f.count(t, &model.Tweet{}))
	require.Equal(t, int64(1), f.count(t, &model.Media{}))
	require.Equal(t, int64(1), f.count(t, &model.UserLike{}))
	require.Zero(t, f.count(t, &model.Retweet{}))

	detail, err := f.svc.GetDetail(ctx, alice, survivor)
	require.NoError(t, err)
	require.Equal(t, int64(1), detail.Likes)
	require.True(t, detail.UserLike)
}

func TestDeleteRetweetTweetDropsLedgerEntry(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	alice, bob := f.user(t, "alice"), f.user(t, "bob")

	root, err := f.svc.Post(ctx, alice, "root", nil)
	require.NoError(t, err)
	rt, err := f.svc.Retweet(ctx, bob, root)
	require.NoError(t, err)

	require.ErrorIs(t, f.svc.Delete(ctx, alice, rt), ErrForbidden)
	require.NoError(t, f.svc.Delete(ctx, bob, rt))

	detail, err := f.svc.GetDetail(ctx, bob, root)
	require.NoError(t, err)
	require.Zero(t, detail.Retweets)
	require.False(t, detail.UserRetweet)

	_, err = f.svc.Retweet(ctx, bob, root)
	require.NoError(t, err)
}
