package models

import (
	"encoding/json"
	"fmt"
)

// SearchTab selects what a search query matches.
type SearchTab string

const (
	SearchAll           SearchTab = "all"
	SearchUsers         SearchTab = "users"
	SearchPosts         SearchTab = "normal"
	SearchLostFound     SearchTab = "lost_found"
	SearchAnnouncements SearchTab = "announcement"
)

// TargetType classifies a search-history entry.
type TargetType string

const (
	TargetQuery TargetType = "query"
	TargetUser  TargetType = "user"
	TargetPost  TargetType = "post"
)

// SearchResult is one row of a mixed search response: either a user or a
// post, discriminated by Type.
type SearchResult struct {
	Type TargetType
	User *User
	Post *Post
}

// SearchHistoryEntry is a persisted past search or result tap.
type SearchHistoryEntry struct {
	ID       string
	Query    string
	TargetID string
	Target   TargetType
}

type rawSearchResult struct {
	rawPost
	ResultType string `json:"result_type"`
}

// DecodeSearchResults parses a search response. Rows flagged with
// result_type "user" become user results; everything else is a post.
func DecodeSearchResults(data []byte) ([]SearchResult, error) {
	var raws []rawSearchResult
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, fmt.Errorf("decoding search results: %w", err)
	}

	results := make([]SearchResult, 0, len(raws))
	for _, r := range raws {
		if r.ResultType == string(TargetUser) {
			u := rawUser{
				UserUUID:     r.UserUUID,
				Username:     r.Username,
				UserName:     r.UserName,
				ProfilePhoto: r.ProfilePhoto,
			}.normalize()
			results = append(results, SearchResult{Type: TargetUser, User: &u})
			continue
		}
		p := r.rawPost.normalize()
		results = append(results, SearchResult{Type: TargetPost, Post: &p})
	}
	return results, nil
}

type rawHistoryEntry struct {
	ID         FlexString `json:"id"`
	SearchText string     `json:"search_text"`
	TargetUUID FlexString `json:"target_uuid"`
	TargetType string     `json:"target_type"`
}

// DecodeSearchHistory parses a search_history listing.
func DecodeSearchHistory(data []byte) ([]SearchHistoryEntry, error) {
	var raws []rawHistoryEntry
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, fmt.Errorf("decoding search history: %w", err)
	}

	entries := make([]SearchHistoryEntry, 0, len(raws))
	for _, r := range raws {
		target := TargetType(r.TargetType)
		switch target {
		case TargetUser, TargetPost:
		default:
			target = TargetQuery
		}
		entries = append(entries, SearchHistoryEntry{
			ID:       string(r.ID),
			Query:    r.SearchText,
			TargetID: string(r.TargetUUID),
			Target:   target,
		})
	}
	return entries, nil
}
