package models

import (
	"encoding/json"
	"fmt"
)

// User is a lightweight user reference (like lists, search results).
type User struct {
	UUID   string
	Name   string
	Avatar string
}

// Profile is a full profile screen payload: the user, follow state relative
// to the viewer, and the user's posts.
type Profile struct {
	User
	IsAdmin   bool
	Following bool
	Followers int
	Posts     []Post
}

type rawUser struct {
	UserUUID     FlexString `json:"user_uuid"`
	Username     string     `json:"Username"`
	UserName     string     `json:"user_name"`
	ProfilePhoto string     `json:"Profile_photo"`
}

func (r rawUser) normalize() User {
	return User{
		UUID:   string(r.UserUUID),
		Name:   firstNonEmpty(r.Username, r.UserName, "User"),
		Avatar: firstNonEmpty(r.ProfilePhoto, DefaultAvatar),
	}
}

type rawProfile struct {
	rawUser
	IsAdmin     FlexBool  `json:"is_admin"`
	IsFollowing FlexBool  `json:"is_following"`
	Followers   FlexInt   `json:"follower_count"`
	Posts       []rawPost `json:"posts"`
}

// DecodeProfile parses a profile_me/profile_other response.
func DecodeProfile(data []byte) (Profile, error) {
	var r rawProfile
	if err := json.Unmarshal(data, &r); err != nil {
		return Profile{}, fmt.Errorf("decoding profile: %w", err)
	}

	posts := make([]Post, 0, len(r.Posts))
	for _, p := range r.Posts {
		posts = append(posts, p.normalize())
	}

	return Profile{
		User:      r.rawUser.normalize(),
		IsAdmin:   bool(r.IsAdmin),
		Following: bool(r.IsFollowing),
		Followers: int(r.Followers),
		Posts:     posts,
	}, nil
}

// DecodeLikeUsers parses a fetchlikeusers page: {"success":true,"data":[...]}.
// An empty data array signals the end of pagination to the caller.
func DecodeLikeUsers(data []byte) ([]User, error) {
	var envelope struct {
		Data []rawUser `json:"data"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("decoding like users: %w", err)
	}

	users := make([]User, 0, len(envelope.Data))
	for _, r := range envelope.Data {
		users = append(users, r.normalize())
	}
	return users, nil
}
