package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Category is the closed post-category enumeration. It controls feed
// filtering; authoring announcements is restricted to administrators.
type Category string

const (
	CategoryNormal       Category = "normal"
	CategoryLostFound    Category = "lost_found"
	CategoryAnnouncement Category = "announcement"
)

// ParseCategory validates a category string; the empty string and unknown
// values map to CategoryNormal, matching how unlabelled posts render.
func ParseCategory(s string) Category {
	switch Category(s) {
	case CategoryLostFound, CategoryAnnouncement:
		return Category(s)
	default:
		return CategoryNormal
	}
}

// MediaType distinguishes images from videos.
type MediaType string

const (
	MediaImage MediaType = "image"
	MediaVideo MediaType = "video"
)

// Media is one attachment of a post. URL is server-relative until resolved
// against the API base with urlx.Join.
type Media struct {
	PostID string
	Type   MediaType
	URL    string
}

// Post is the normalized feed entity.
type Post struct {
	ID           string
	AuthorID     string
	AuthorName   string
	AuthorAvatar string
	Description  string
	Category     Category
	Media        []Media
	CreatedAt    string
	UpdatedAt    string
	LikeCount    int
	Liked        bool
	Saved        bool
	Comments     []Comment
}

// OwnedBy reports whether the viewer with the given user id authored the
// post. Delete is offered only when this holds.
func (p *Post) OwnedBy(userID string) bool {
	return userID != "" && p.AuthorID == userID
}

// rawPost mirrors every field-name variant the server has been seen to emit.
// Variants differing only in letter case share one field (encoding/json
// matches case-insensitively); variants with different shapes get their own.
type rawPost struct {
	ID           FlexString      `json:"id"`
	PostID       FlexString      `json:"post_id"`
	UserUUID     FlexString      `json:"user_uuid"`
	Username     string          `json:"Username"`
	UserName     string          `json:"user_name"`
	ProfilePhoto string          `json:"Profile_photo"`
	Profile      string          `json:"profile"`
	Description  string          `json:"Description"`
	Type         string          `json:"type"`
	Media        []rawMedia      `json:"media"`
	CreatedAt    string          `json:"Created_at"`
	UpdatedAt    string          `json:"Updated_at"`
	LikeCount    json.RawMessage `json:"like_count"`
	Likes        json.RawMessage `json:"Likes"`
	IsLiked      FlexBool        `json:"is_liked"`
	IsSaved      FlexBool        `json:"is_saved"`
	Comments     []rawComment    `json:"comments"`
}

type rawMedia struct {
	PostID    FlexString `json:"post_id"`
	MediaType string     `json:"Media_type"`
	MediaURL  string     `json:"Media_url"`
}

func (r rawPost) normalize() Post {
	id := firstNonEmpty(string(r.ID), string(r.PostID))

	media := make([]Media, 0, len(r.Media))
	for _, m := range r.Media {
		mt := MediaImage
		if strings.EqualFold(m.MediaType, string(MediaVideo)) {
			mt = MediaVideo
		}
		media = append(media, Media{
			PostID: firstNonEmpty(string(m.PostID), id),
			Type:   mt,
			URL:    strings.TrimSpace(m.MediaURL),
		})
	}

	comments := make([]Comment, 0, len(r.Comments))
	for _, c := range r.Comments {
		comments = append(comments, c.normalize(id))
	}

	return Post{
		ID:           id,
		AuthorID:     string(r.UserUUID),
		AuthorName:   firstNonEmpty(r.Username, r.UserName, "Unknown"),
		AuthorAvatar: firstNonEmpty(r.ProfilePhoto, r.Profile, DefaultAvatar),
		Description:  r.Description,
		Category:     ParseCategory(r.Type),
		Media:        media,
		CreatedAt:    firstNonEmpty(r.CreatedAt, "Just now"),
		UpdatedAt:    r.UpdatedAt,
		LikeCount:    flexCount(r.LikeCount, r.Likes),
		Liked:        bool(r.IsLiked),
		Saved:        bool(r.IsSaved),
		Comments:     comments,
	}
}

// flexCount decodes the first populated counter variant; everything missing
// or unparsable counts as zero, and counts never go negative.
func flexCount(variants ...json.RawMessage) int {
	for _, raw := range variants {
		if len(raw) == 0 || string(raw) == "null" {
			continue
		}
		var n FlexInt
		_ = n.UnmarshalJSON(raw)
		if n > 0 {
			return int(n)
		}
	}
	return 0
}

// DecodePosts parses a fetchposts-style response body, accepting both a
// bare array and an object with a "posts" key.
func DecodePosts(data []byte) ([]Post, error) {
	var raws []rawPost
	if err := json.Unmarshal(data, &raws); err != nil {
		var envelope struct {
			Posts []rawPost `json:"posts"`
		}
		if err2 := json.Unmarshal(data, &envelope); err2 != nil {
			return nil, fmt.Errorf("decoding posts: %w", err)
		}
		raws = envelope.Posts
	}

	posts := make([]Post, 0, len(raws))
	for _, r := range raws {
		posts = append(posts, r.normalize())
	}
	return posts, nil
}

// DecodePost parses a single-post payload.
func DecodePost(data []byte) (Post, error) {
	var r rawPost
	if err := json.Unmarshal(data, &r); err != nil {
		return Post{}, fmt.Errorf("decoding post: %w", err)
	}
	return r.normalize(), nil
}
