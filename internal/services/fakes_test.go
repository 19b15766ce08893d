package services

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/WillSeigler/Bookd/internal/apperr"
	"github.com/WillSeigler/Bookd/internal/events"
	"github.com/WillSeigler/Bookd/internal/models"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var errStore = errors.New("store unavailable")

type fakeUsers struct {
	byID map[string]models.User
}

func newFakeUsers(users ...models.User) *fakeUsers {
	f := &fakeUsers{byID: map[string]models.User{}}
	for _, u := range users {
		f.byID[u.ID] = u
	}
	return f
}

// CreateUser enforces the unique index on non-empty emails.
func (f *fakeUsers) CreateUser(_ context.Context, u *models.User) error {
	if u.Email != "" {
		for _, existing := range f.byID {
			if existing.Email == u.Email {
				return errors.New("duplicate key value violates unique constraint \"idx_users_email\"")
			}
		}
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	f.byID[u.ID] = *u
	return nil
}

func (f *fakeUsers) GetUserByID(_ context.Context, id string) (*models.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, apperr.NotFound("user")
	}
	return &u, nil
}

func (f *fakeUsers) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range f.byID {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, apperr.NotFound("user")
}

func (f *fakeUsers) GetUserByFirebaseUID(_ context.Context, uid string) (*models.User, error) {
	for _, u := range f.byID {
		if u.FirebaseUID != nil && *u.FirebaseUID == uid {
			return &u, nil
		}
	}
	return nil, apperr.NotFound("user")
}

func (f *fakeUsers) GetUsersByIDs(_ context.Context, ids []string) (map[string]models.User, error) {
	out := map[string]models.User{}
	for _, id := range ids {
		if u, ok := f.byID[id]; ok {
			out[id] = u
		}
	}
	return out, nil
}

func (f *fakeUsers) UpdateUser(_ context.Context, u *models.User) error {
	f.byID[u.ID] = *u
	return nil
}

func (f *fakeUsers) SearchUsers(_ context.Context, query string, limit int) ([]models.User, error) {
	var out []models.User
	for _, u := range f.byID {
		if strings.Contains(strings.ToLower(u.FullName), strings.ToLower(query)) {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FullName < out[j].FullName })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type fakeOrgs struct {
	byID map[string]models.Organization
}

func (f *fakeOrgs) GetOrganizationsByIDs(_ context.Context, ids []string) (map[string]models.Organization, error) {
	out := map[string]models.Organization{}
	for _, id := range ids {
		if o, ok := f.byID[id]; ok {
			out[id] = o
		}
	}
	return out, nil
}

type edgeKey struct{ follower, followed string }

type fakeFollows struct {
	mu    sync.Mutex
	edges map[edgeKey]models.FollowStatus
	order []edgeKey
	err   error
}

func newFakeFollows() *fakeFollows {
	return &fakeFollows{edges: map[edgeKey]models.FollowStatus{}}
}

// follow seeds an active edge.
func (f *fakeFollows) follow(follower, followed string) {
	k := edgeKey{follower, followed}
	f.edges[k] = models.FollowActive
	f.order = append(f.order, k)
}

func (f *fakeFollows) ToggleUserFollow(_ context.Context, follower, target string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return false, f.err
	}
	k := edgeKey{follower, target}
	status, ok := f.edges[k]
	if !ok {
		f.order = append(f.order, k)
	}
	if status == models.FollowActive {
		f.edges[k] = models.FollowRemoved
		return false, nil
	}
	f.edges[k] = models.FollowActive
	return true, nil
}

func (f *fakeFollows) IsFollowing(_ context.Context, follower, target string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.edges[edgeKey{follower, target}] == models.FollowActive, nil
}

func (f *fakeFollows) GetFollowingIDs(_ context.Context, userID string) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	ids := []string{}
	for _, k := range f.order {
		if k.follower == userID && f.edges[k] == models.FollowActive {
			ids = append(ids, k.followed)
		}
	}
	return ids, nil
}

func (f *fakeFollows) GetFollowerIDs(_ context.Context, userID string) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	ids := []string{}
	for _, k := range f.order {
		if k.followed == userID && f.edges[k] == models.FollowActive {
			ids = append(ids, k.follower)
		}
	}
	return ids, nil
}

func (f *fakeFollows) GetFollowersCount(ctx context.Context, userID string) (int64, error) {
	ids, err := f.GetFollowerIDs(ctx, userID)
	return int64(len(ids)), err
}

func (f *fakeFollows) GetFollowingCount(ctx context.Context, userID string) (int64, error) {
	ids, err := f.GetFollowingIDs(ctx, userID)
	return int64(len(ids)), err
}

func (f *fakeFollows) GetFollowers(ctx context.Context, userID string, limit int) ([]models.User, error) {
	ids, err := f.GetFollowerIDs(ctx, userID)
	return toUsers(ids, limit), err
}

func (f *fakeFollows) GetFollowing(ctx context.Context, userID string, limit int) ([]models.User, error) {
	ids, err := f.GetFollowingIDs(ctx, userID)
	return toUsers(ids, limit), err
}

func (f *fakeFollows) GetFollowersAmong(ctx context.Context, userID string, candidates []string) ([]models.User, error) {
	ids, err := f.GetFollowerIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	allowed := map[string]bool{}
	for _, c := range candidates {
		allowed[c] = true
	}
	var out []string
	for _, id := range ids {
		if allowed[id] {
			out = append(out, id)
		}
	}
	return toUsers(out, 0), nil
}

func toUsers(ids []string, limit int) []models.User {
	users := []models.User{}
	for i, id := range ids {
		if limit > 0 && i >= limit {
			break
		}
		users = append(users, models.User{ID: id, FullName: "User " + id})
	}
	return users
}

type fakePosts struct {
	mu      sync.Mutex
	posts   []models.Post
	clock   time.Time
	inserts int
	err     error
}

func newFakePosts() *fakePosts {
	return &fakePosts{clock: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (f *fakePosts) CreatePost(_ context.Context, p *models.Post) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inserts++
	if f.err != nil {
		return f.err
	}
	f.clock = f.clock.Add(time.Minute)
	p.ID = primitive.NewObjectID()
	p.CreatedAt = f.clock
	p.UpdatedAt = f.clock
	f.posts = append(f.posts, *p)
	return nil
}

// seed stores a published post by userID.
func (f *fakePosts) seed(userID, content string) models.Post {
	p := &models.Post{UserID: &userID, Content: content, IsPublished: true}
	_ = f.CreatePost(context.Background(), p)
	return *p
}

func (f *fakePosts) GetPostByID(_ context.Context, id string) (*models.Post, error) {
	for _, p := range f.posts {
		if p.ID.Hex() == id {
			return &p, nil
		}
	}
	return nil, apperr.NotFound("post")
}

func (f *fakePosts) GetPublishedByAuthors(_ context.Context, userIDs []string, skip, limit int64) ([]models.Post, error) {
	if f.err != nil {
		return nil, f.err
	}
	allowed := map[string]bool{}
	for _, id := range userIDs {
		allowed[id] = true
	}
	var matched []models.Post
	for _, p := range f.posts {
		if p.IsPublished && p.UserID != nil && allowed[*p.UserID] {
			matched = append(matched, p)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })

	out := []models.Post{}
	for i := skip; i < int64(len(matched)) && int64(len(out)) < limit; i++ {
		out = append(out, matched[i])
	}
	return out, nil
}

type fakeLikes struct {
	mu    sync.Mutex
	likes map[string]map[string]string // post -> user -> reaction
}

func newFakeLikes() *fakeLikes {
	return &fakeLikes{likes: map[string]map[string]string{}}
}

func (f *fakeLikes) ToggleLike(_ context.Context, postID, userID, reaction string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.likes[postID] == nil {
		f.likes[postID] = map[string]string{}
	}
	if _, ok := f.likes[postID][userID]; ok {
		delete(f.likes[postID], userID)
		return false, nil
	}
	f.likes[postID][userID] = reaction
	return true, nil
}

func (f *fakeLikes) GetLikeCounts(_ context.Context, postIDs []string) (map[string]int64, error) {
	out := map[string]int64{}
	for _, id := range postIDs {
		if n := len(f.likes[id]); n > 0 {
			out[id] = int64(n)
		}
	}
	return out, nil
}

func (f *fakeLikes) GetLikedPostIDs(_ context.Context, userID string, postIDs []string) (map[string]bool, error) {
	out := map[string]bool{}
	for _, id := range postIDs {
		if _, ok := f.likes[id][userID]; ok {
			out[id] = true
		}
	}
	return out, nil
}

type fakeComments struct {
	comments []models.Comment
}

func (f *fakeComments) CreateComment(_ context.Context, c *models.Comment) error {
	c.ID = uint(len(f.comments) + 1)
	c.CreatedAt = time.Now()
	f.comments = append(f.comments, *c)
	return nil
}

func (f *fakeComments) GetCommentsByPostID(_ context.Context, postID string, limit, offset int) ([]models.Comment, error) {
	out := []models.Comment{}
	for _, c := range f.comments {
		if c.PostID == postID {
			out = append(out, c)
		}
	}
	if offset >= len(out) {
		return []models.Comment{}, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeComments) GetCommentCounts(_ context.Context, postIDs []string) (map[string]int64, error) {
	out := map[string]int64{}
	for _, c := range f.comments {
		out[c.PostID]++
	}
	return out, nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, ev events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.err
}
