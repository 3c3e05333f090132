package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodePosts_BareArrayAndEnvelope(t *testing.T) {
	body := `[{"id":1,"user_uuid":"u-1","Username":"aung","Description":"hi"}]`

	posts, err := DecodePosts([]byte(body))
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "1", posts[0].ID)

	wrapped := `{"posts":` + body + `}`
	posts, err = DecodePosts([]byte(wrapped))
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "aung", posts[0].AuthorName)
}

func TestDecodePosts_NonJSON(t *testing.T) {
	_, err := DecodePosts([]byte(`<br />Warning: mysqli_connect`))
	require.Error(t, err)
}

func TestNormalize_Defaults(t *testing.T) {
	posts, err := DecodePosts([]byte(`[{"post_id":"42","user_uuid":"u-9"}]`))
	require.NoError(t, err)
	require.Len(t, posts, 1)

	p := posts[0]
	assert.Equal(t, "42", p.ID)
	assert.Equal(t, "Unknown", p.AuthorName)
	assert.Equal(t, DefaultAvatar, p.AuthorAvatar)
	assert.Equal(t, "Just now", p.CreatedAt)
	assert.Equal(t, CategoryNormal, p.Category)
	assert.Equal(t, 0, p.LikeCount)
	assert.False(t, p.Liked)
	assert.False(t, p.Saved)
	assert.NotNil(t, p.Media)
	assert.Empty(t, p.Media)
	assert.NotNil(t, p.Comments)
	assert.Empty(t, p.Comments)
}

func TestNormalize_FieldVariants(t *testing.T) {
	body := `[{
		"post_id": 7,
		"user_uuid": "u-2",
		"user_name": "lower",
		"profile": "uploads/p.png",
		"created_at": "2026-01-05 10:00:00",
		"Likes": "12",
		"type": "lost_found"
	}]`

	posts, err := DecodePosts([]byte(body))
	require.NoError(t, err)
	p := posts[0]

	assert.Equal(t, "7", p.ID)
	assert.Equal(t, "lower", p.AuthorName)
	assert.Equal(t, "uploads/p.png", p.AuthorAvatar)
	assert.Equal(t, "2026-01-05 10:00:00", p.CreatedAt)
	assert.Equal(t, 12, p.LikeCount)
	assert.Equal(t, CategoryLostFound, p.Category)
}

func TestNormalize_PrefersFirstPopulatedVariant(t *testing.T) {
	body := `[{
		"id": "a",
		"post_id": "b",
		"user_uuid": "u",
		"Username": "caps",
		"user_name": "lower",
		"Profile_photo": "caps.png",
		"profile": "lower.png"
	}]`

	posts, err := DecodePosts([]byte(body))
	require.NoError(t, err)
	p := posts[0]

	assert.Equal(t, "a", p.ID)
	assert.Equal(t, "caps", p.AuthorName)
	assert.Equal(t, "caps.png", p.AuthorAvatar)
}

func TestNormalize_BooleanCoercion(t *testing.T) {
	truthy := []string{`true`, `1`, `"1"`}
	for _, v := range truthy {
		posts, err := DecodePosts([]byte(`[{"id":"1","is_liked":` + v + `,"is_saved":` + v + `}]`))
		require.NoError(t, err, v)
		assert.True(t, posts[0].Liked, "is_liked=%s", v)
		assert.True(t, posts[0].Saved, "is_saved=%s", v)
	}

	falsy := []string{`false`, `0`, `"0"`, `null`, `""`}
	for _, v := range falsy {
		posts, err := DecodePosts([]byte(`[{"id":"1","is_liked":` + v + `,"is_saved":` + v + `}]`))
		require.NoError(t, err, v)
		assert.False(t, posts[0].Liked, "is_liked=%s", v)
		assert.False(t, posts[0].Saved, "is_saved=%s", v)
	}

	// Absent keys coerce to false too.
	posts, err := DecodePosts([]byte(`[{"id":"1"}]`))
	require.NoError(t, err)
	assert.False(t, posts[0].Liked)
	assert.False(t, posts[0].Saved)
}

func TestNormalize_LikeCountVariants(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{name: "number", body: `[{"id":"1","like_count":5}]`, want: 5},
		{name: "numeric string", body: `[{"id":"1","like_count":"5"}]`, want: 5},
		{name: "zero", body: `[{"id":"1","like_count":0}]`, want: 0},
		{name: "zero string", body: `[{"id":"1","like_count":"0"}]`, want: 0},
		{name: "absent", body: `[{"id":"1"}]`, want: 0},
		{name: "garbage", body: `[{"id":"1","like_count":"many"}]`, want: 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			posts, err := DecodePosts([]byte(tc.body))
			require.NoError(t, err)
			assert.Equal(t, tc.want, posts[0].LikeCount)
		})
	}
}

func TestNormalize_Media(t *testing.T) {
	body := `[{
		"id": "3",
		"media": [
			{"Media_type": "image", "Media_url": "/uploads/a.jpg"},
			{"Media_type": "VIDEO", "Media_url": "uploads/b.mp4"}
		]
	}]`

	posts, err := DecodePosts([]byte(body))
	require.NoError(t, err)
	m := posts[0].Media
	require.Len(t, m, 2)

	assert.Equal(t, MediaImage, m[0].Type)
	assert.Equal(t, "/uploads/a.jpg", m[0].URL)
	assert.Equal(t, "3", m[0].PostID)
	assert.Equal(t, MediaVideo, m[1].Type)
}

func TestPost_OwnedBy(t *testing.T) {
	p := Post{AuthorID: "u-1"}
	assert.True(t, p.OwnedBy("u-1"))
	assert.False(t, p.OwnedBy("u-2"))
	assert.False(t, p.OwnedBy(""))

	anon := Post{}
	assert.False(t, anon.OwnedBy(""))
}
