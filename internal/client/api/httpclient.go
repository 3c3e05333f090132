package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/uniyatwon/yatwon/internal/client/models"
	"github.com/uniyatwon/yatwon/internal/logging"
	"github.com/uniyatwon/yatwon/internal/urlx"
)

// One path per server endpoint, resolved against the configured base URL.
const (
	epLogin          = "testlogin.php"
	epSignup         = "user_create.php"
	epFetchPosts     = "fetchposts.php"
	epAddPost        = "addposts.php"
	epDeletePost     = "deletepost.php"
	epLikePost       = "likepost.php"
	epSavePost       = "savedposts.php"
	epFollowUser     = "followuser.php"
	epComment        = "comments.php"
	epFetchComments  = "fetchcomments.php"
	epFetchLikeUsers = "fetchlikeusers.php"
	epSearch         = "search.php"
	epSearchHistory  = "search_history.php"
	epNotifications  = "notifications.php"
	epProfileMe      = "profile_me.php"
	epProfileOther   = "profile_other.php"
	epRegisterPush   = "register_push.php"
	epBroadcastPush  = "broadcast_push.php"
)

// HTTPClient implements Client over plain net/http.
//
// The underlying http.Client carries no timeout: the platform's I/O layer
// decides when a hung request gives up, and callers cancel via ctx.
type HTTPClient struct {
	baseURL string
	creds   CredentialsSource
	http    *http.Client
	log     logging.Logger
}

func NewHTTPClient(baseURL string, creds CredentialsSource, log logging.Logger) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		creds:   creds,
		http:    &http.Client{},
		log:     log.With("component", "api"),
	}
}

// envelope is the common JSON response wrapper. Only the fields a given
// endpoint populates are meaningful; auth endpoints add the session fields.
type envelope struct {
	Success      *bool             `json:"success"`
	Message      string            `json:"message"`
	Token        string            `json:"token"`
	UserUUID     models.FlexString `json:"user_uuid"`
	Username     string            `json:"Username"`
	IsAdmin      models.FlexBool   `json:"is_admin"`
	ProfilePhoto string            `json:"Profile_photo"`
	LikeCount    *models.FlexInt   `json:"like_count"`
}

func (c *HTTPClient) do(ctx context.Context, method, endpoint string, query url.Values, body io.Reader, contentType string, authed bool) (int, []byte, error) {
	u := c.baseURL + "/" + endpoint
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return 0, nil, fmt.Errorf("building request for %s: %w", endpoint, err)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if authed {
		cr, err := c.creds.Credentials(ctx)
		if err != nil {
			return 0, nil, err
		}
		req.Header.Set("Authorization", "Bearer "+cr.Token)
		if cr.Username != "" {
			req.Header.Set("X-Username", cr.Username)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return resp.StatusCode, data, ErrUnauthorized
	}
	return resp.StatusCode, data, nil
}

// postJSON runs a JSON round trip and enforces the success envelope:
// success:false becomes *RejectedError, an undecodable or unexpected-status
// body becomes *MalformedError.
func (c *HTTPClient) postJSON(ctx context.Context, endpoint string, payload any, authed bool) (*envelope, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encoding request for %s: %w", endpoint, err)
	}
	status, body, err := c.do(ctx, http.MethodPost, endpoint, nil, bytes.NewReader(b), "application/json", authed)
	if err != nil {
		return nil, err
	}
	return parseEnvelope(status, body)
}

func parseEnvelope(status int, body []byte) (*envelope, error) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, &MalformedError{Status: status, Snippet: snippet(body)}
	}
	if env.Success != nil && !*env.Success {
		return nil, &RejectedError{Message: env.Message}
	}
	if status < 200 || status > 299 {
		return nil, &MalformedError{Status: status, Snippet: snippet(body)}
	}
	return &env, nil
}

// failure classifies a fetch body that could not be decoded as its payload:
// a well-formed rejection keeps its message, anything else is malformed.
func failure(status int, body []byte) error {
	var env envelope
	if err := json.Unmarshal(body, &env); err == nil && env.Success != nil && !*env.Success {
		return &RejectedError{Message: env.Message}
	}
	return &MalformedError{Status: status, Snippet: snippet(body)}
}

func snippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > 200 {
		s = s[:200]
	}
	return s
}

// The server sends media and avatar paths relative to its document root;
// they are resolved into absolute URLs here so callers never see relative
// paths. Session avatars stay relative: the store persists them as sent.
func (c *HTTPClient) absPost(p *models.Post) {
	p.AuthorAvatar = urlx.Join(c.baseURL, p.AuthorAvatar)
	for i := range p.Media {
		p.Media[i].URL = urlx.Join(c.baseURL, p.Media[i].URL)
	}
	for i := range p.Comments {
		c.absComment(&p.Comments[i])
	}
}

func (c *HTTPClient) absComment(cm *models.Comment) {
	cm.AuthorAvatar = urlx.Join(c.baseURL, cm.AuthorAvatar)
}

func (c *HTTPClient) sessionFromEnvelope(env *envelope) (*models.Session, error) {
	s := &models.Session{
		Token:   env.Token,
		UserID:  string(env.UserUUID),
		Name:    env.Username,
		IsAdmin: bool(env.IsAdmin),
		Avatar:  env.ProfilePhoto,
	}
	if s.Avatar == "" {
		s.Avatar = models.DefaultAvatar
	}
	if !s.Valid() {
		return nil, &MalformedError{Status: http.StatusOK, Snippet: "auth response missing token or user id"}
	}
	return s, nil
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (*models.Session, error) {
	env, err := c.postJSON(ctx, epLogin, map[string]string{
		"Email":    email,
		"Password": password,
	}, false)
	if err != nil {
		return nil, err
	}
	return c.sessionFromEnvelope(env)
}

func (c *HTTPClient) Signup(ctx context.Context, username, email, password string) (*models.Session, error) {
	env, err := c.postJSON(ctx, epSignup, map[string]string{
		"Username": username,
		"Email":    email,
		"Password": password,
	}, false)
	if err != nil {
		return nil, err
	}
	return c.sessionFromEnvelope(env)
}

func (c *HTTPClient) FetchPosts(ctx context.Context, category models.Category) ([]models.Post, error) {
	q := url.Values{"type": {string(category)}}
	status, body, err := c.do(ctx, http.MethodGet, epFetchPosts, q, nil, "", true)
	if err != nil {
		return nil, err
	}
	posts, err := models.DecodePosts(body)
	if err != nil {
		return nil, failure(status, body)
	}
	for i := range posts {
		c.absPost(&posts[i])
	}
	return posts, nil
}

func (c *HTTPClient) FetchPost(ctx context.Context, postID string) (models.Post, error) {
	q := url.Values{"post_id": {postID}}
	status, body, err := c.do(ctx, http.MethodGet, epFetchPosts, q, nil, "", true)
	if err != nil {
		return models.Post{}, err
	}

	// The endpoint answers a single-object body for post_id lookups on newer
	// servers and a full array on older ones.
	if post, err := models.DecodePost(body); err == nil && post.ID != "" {
		c.absPost(&post)
		return post, nil
	}
	posts, err := models.DecodePosts(body)
	if err != nil {
		return models.Post{}, failure(status, body)
	}
	for _, p := range posts {
		if p.ID == postID {
			c.absPost(&p)
			return p, nil
		}
	}
	return models.Post{}, &RejectedError{Message: "post not found"}
}

func (c *HTTPClient) SubmitPost(ctx context.Context, description string, category models.Category, media []Upload) (string, error) {
	body, contentType, err := buildMultipart(map[string]string{
		"Description": description,
		"type":        string(category),
	}, "media[]", media)
	if err != nil {
		return "", err
	}

	status, respBody, err := c.do(ctx, http.MethodPost, epAddPost, nil, body, contentType, true)
	if err != nil {
		return "", err
	}
	env, err := parseEnvelope(status, respBody)
	if err != nil {
		return "", err
	}
	return env.Message, nil
}

func (c *HTTPClient) DeletePost(ctx context.Context, postID string) error {
	_, err := c.postJSON(ctx, epDeletePost, map[string]string{"post_id": postID}, true)
	return err
}

func (c *HTTPClient) toggle(ctx context.Context, endpoint string, payload map[string]string) (*ToggleResult, error) {
	env, err := c.postJSON(ctx, endpoint, payload, true)
	if err != nil {
		return nil, err
	}
	res := &ToggleResult{}
	if env.LikeCount != nil {
		n := int(*env.LikeCount)
		res.Count = &n
	}
	return res, nil
}

func (c *HTTPClient) ToggleLike(ctx context.Context, postID string) (*ToggleResult, error) {
	return c.toggle(ctx, epLikePost, map[string]string{"post_id": postID})
}

func (c *HTTPClient) ToggleSave(ctx context.Context, postID string) (*ToggleResult, error) {
	return c.toggle(ctx, epSavePost, map[string]string{"post_id": postID})
}

func (c *HTTPClient) ToggleFollow(ctx context.Context, userID string) (*ToggleResult, error) {
	return c.toggle(ctx, epFollowUser, map[string]string{"user_uuid": userID})
}

func (c *HTTPClient) SubmitComment(ctx context.Context, postID, text, parentID string) error {
	payload := map[string]any{
		"post_id":     postID,
		"Description": text,
		"parent_id":   nil,
	}
	if parentID != "" {
		payload["parent_id"] = parentID
	}
	_, err := c.postJSON(ctx, epComment, payload, true)
	return err
}

func (c *HTTPClient) FetchComments(ctx context.Context, postID string) ([]models.Comment, error) {
	b, err := json.Marshal(map[string]string{"post_id": postID})
	if err != nil {
		return nil, fmt.Errorf("encoding request for %s: %w", epFetchComments, err)
	}
	status, body, err := c.do(ctx, http.MethodPost, epFetchComments, nil, bytes.NewReader(b), "application/json", true)
	if err != nil {
		return nil, err
	}
	comments, err := models.DecodeComments(body)
	if err != nil {
		return nil, failure(status, body)
	}
	for i := range comments {
		c.absComment(&comments[i])
	}
	return comments, nil
}

func (c *HTTPClient) FetchLikeUsers(ctx context.Context, postID string, page int) ([]models.User, error) {
	q := url.Values{"post_id": {postID}, "page": {strconv.Itoa(page)}}
	status, body, err := c.do(ctx, http.MethodGet, epFetchLikeUsers, q, nil, "", true)
	if err != nil {
		return nil, err
	}
	if _, err := parseEnvelope(status, body); err != nil {
		return nil, err
	}
	users, err := models.DecodeLikeUsers(body)
	if err != nil {
		return nil, err
	}
	for i := range users {
		users[i].Avatar = urlx.Join(c.baseURL, users[i].Avatar)
	}
	return users, nil
}

func (c *HTTPClient) Search(ctx context.Context, tab models.SearchTab, query string) ([]models.SearchResult, error) {
	q := url.Values{"type": {string(tab)}, "search": {query}}
	status, body, err := c.do(ctx, http.MethodGet, epSearch, q, nil, "", true)
	if err != nil {
		return nil, err
	}
	results, err := models.DecodeSearchResults(body)
	if err != nil {
		return nil, failure(status, body)
	}
	for i := range results {
		if results[i].User != nil {
			results[i].User.Avatar = urlx.Join(c.baseURL, results[i].User.Avatar)
		}
		if results[i].Post != nil {
			c.absPost(results[i].Post)
		}
	}
	return results, nil
}

func (c *HTTPClient) FetchSearchHistory(ctx context.Context) ([]models.SearchHistoryEntry, error) {
	status, body, err := c.do(ctx, http.MethodGet, epSearchHistory, nil, nil, "", true)
	if err != nil {
		return nil, err
	}
	entries, err := models.DecodeSearchHistory(body)
	if err != nil {
		return nil, failure(status, body)
	}
	return entries, nil
}

func (c *HTTPClient) SaveSearchHistory(ctx context.Context, query, targetID string, target models.TargetType) error {
	payload := map[string]any{
		"search_text": query,
		"target_uuid": nil,
		"target_type": string(target),
	}
	if targetID != "" {
		payload["target_uuid"] = targetID
	}
	_, err := c.postJSON(ctx, epSearchHistory, payload, true)
	return err
}

func (c *HTTPClient) DeleteSearchHistory(ctx context.Context, id string) error {
	q := url.Values{"id": {id}}
	status, body, err := c.do(ctx, http.MethodDelete, epSearchHistory, q, nil, "", true)
	if err != nil {
		return err
	}
	_, err = parseEnvelope(status, body)
	return err
}

func (c *HTTPClient) FetchNotifications(ctx context.Context) ([]models.Notification, error) {
	status, body, err := c.do(ctx, http.MethodGet, epNotifications, nil, nil, "", true)
	if err != nil {
		return nil, err
	}
	ns, err := models.DecodeNotifications(body)
	if err != nil {
		return nil, failure(status, body)
	}
	for i := range ns {
		ns[i].FromAvatar = urlx.Join(c.baseURL, ns[i].FromAvatar)
	}
	return ns, nil
}

func (c *HTTPClient) FetchMyProfile(ctx context.Context) (models.Profile, error) {
	return c.fetchProfile(ctx, epProfileMe, nil)
}

func (c *HTTPClient) FetchProfile(ctx context.Context, userID string) (models.Profile, error) {
	return c.fetchProfile(ctx, epProfileOther, url.Values{"user_uuid": {userID}})
}

func (c *HTTPClient) fetchProfile(ctx context.Context, endpoint string, q url.Values) (models.Profile, error) {
	status, body, err := c.do(ctx, http.MethodGet, endpoint, q, nil, "", true)
	if err != nil {
		return models.Profile{}, err
	}
	profile, err := models.DecodeProfile(body)
	if err != nil {
		return models.Profile{}, failure(status, body)
	}
	profile.Avatar = urlx.Join(c.baseURL, profile.Avatar)
	for i := range profile.Posts {
		c.absPost(&profile.Posts[i])
	}
	return profile, nil
}

// UpdateProfile submits a profile edit (display name, optional new avatar)
// and returns the fields to merge into the session.
func (c *HTTPClient) UpdateProfile(ctx context.Context, username string, avatar *Upload) (*models.Session, error) {
	var media []Upload
	if avatar != nil {
		media = []Upload{*avatar}
	}
	body, contentType, err := buildMultipart(map[string]string{"Username": username}, "avatar", media)
	if err != nil {
		return nil, err
	}

	status, respBody, err := c.do(ctx, http.MethodPost, epProfileMe, nil, body, contentType, true)
	if err != nil {
		return nil, err
	}
	env, err := parseEnvelope(status, respBody)
	if err != nil {
		return nil, err
	}

	merged := &models.Session{Name: username}
	if env.Username != "" {
		merged.Name = env.Username
	}
	merged.Avatar = env.ProfilePhoto
	return merged, nil
}

func (c *HTTPClient) RegisterPushToken(ctx context.Context, deviceToken string) error {
	_, err := c.postJSON(ctx, epRegisterPush, map[string]string{"push_token": deviceToken}, true)
	return err
}

func (c *HTTPClient) Broadcast(ctx context.Context, title, message string) error {
	_, err := c.postJSON(ctx, epBroadcastPush, map[string]string{
		"title":   title,
		"message": message,
	}, true)
	return err
}
