package models

import (
	"encoding/json"
	"fmt"
)

// Comment is a normalized post comment. ParentID is empty for top-level
// comments and set for replies; the surface renders exactly one nesting
// level.
type Comment struct {
	ID           string
	PostID       string
	ParentID     string
	AuthorID     string
	AuthorName   string
	AuthorAvatar string
	Description  string
	CreatedAt    string
}

// IsReply reports whether the comment belongs under another comment.
func (c *Comment) IsReply() bool { return c.ParentID != "" }

// Thread is one top-level comment together with its flattened reply list.
type Thread struct {
	Comment
	Replies []Comment
}

// Threads arranges comments into single-level threads. A reply whose parent
// is itself a reply collapses onto the original top-level comment. Replies
// whose parent is absent from the list surface as their own thread so no
// comment is ever dropped.
func Threads(comments []Comment) []Thread {
	byID := make(map[string]Comment, len(comments))
	for _, c := range comments {
		byID[c.ID] = c
	}

	threads := make([]Thread, 0, len(comments))
	index := make(map[string]int)

	for _, c := range comments {
		if !c.IsReply() {
			index[c.ID] = len(threads)
			threads = append(threads, Thread{Comment: c})
		}
	}

	for _, c := range comments {
		if !c.IsReply() {
			continue
		}
		pid := c.ParentID
		if parent, ok := byID[pid]; ok && parent.IsReply() {
			pid = parent.ParentID
		}
		if i, ok := index[pid]; ok {
			threads[i].Replies = append(threads[i].Replies, c)
			continue
		}
		index[c.ID] = len(threads)
		threads = append(threads, Thread{Comment: c})
	}

	return threads
}

type rawComment struct {
	ID           FlexString `json:"id"`
	PostID       FlexString `json:"post_id"`
	ParentID     FlexString `json:"Parent_id"`
	UserUUID     FlexString `json:"user_uuid"`
	Username     string     `json:"Username"`
	UserName     string     `json:"user_name"`
	ProfilePhoto string     `json:"Profile_photo"`
	Description  string     `json:"Description"`
	CreatedAt    string     `json:"Created_at"`
}

func (r rawComment) normalize(postID string) Comment {
	return Comment{
		ID:           string(r.ID),
		PostID:       firstNonEmpty(string(r.PostID), postID),
		ParentID:     string(r.ParentID),
		AuthorID:     string(r.UserUUID),
		AuthorName:   firstNonEmpty(r.Username, r.UserName, "Unknown"),
		AuthorAvatar: firstNonEmpty(r.ProfilePhoto, DefaultAvatar),
		Description:  r.Description,
		CreatedAt:    firstNonEmpty(r.CreatedAt, "Just now"),
	}
}

// DecodeComments parses a fetchcomments response: either a bare array or an
// object with a "comments" key (the success envelope form).
func DecodeComments(data []byte) ([]Comment, error) {
	var raws []rawComment
	if err := json.Unmarshal(data, &raws); err != nil {
		var envelope struct {
			Comments []rawComment `json:"comments"`
		}
		if err2 := json.Unmarshal(data, &envelope); err2 != nil {
			return nil, fmt.Errorf("decoding comments: %w", err)
		}
		raws = envelope.Comments
	}

	comments := make([]Comment, 0, len(raws))
	for _, r := range raws {
		comments = append(comments, r.normalize(""))
	}
	return comments, nil
}
