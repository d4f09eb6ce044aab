package service

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/csy100/touch-api/config"
	"github.com/csy100/touch-api/data"
	"github.com/csy100/touch-api/internal/cache"
	"github.com/csy100/touch-api/internal/identity"
	"github.com/csy100/touch-api/internal/jsonlog"
	"github.com/csy100/touch-api/repository"
)

// fakeRepository is an in-memory repository.Repository for service tests.
// It records the mutating calls the deferred background tasks make so tests
// can assert on them after draining the waitgroup.
type fakeRepository struct {
	mu       sync.Mutex
	nextID   int64
	comments map[int64]*data.Comment
	briefs   map[string]*data.UserBrief
	projects map[string]bool
	liked    map[string][]int64

	projectExistsErr   error
	projectExistsCalls int

	rootBackfills     []int64
	replyCountBumps   []int64
	reactionCalls     []fakeReactionCall
	softDeletedIDs    []int64
	createCommentErrs error

	// callLog records call order across methods for sequencing assertions.
	callLog []string
}

type fakeReactionCall struct {
	commentID int64
	userID    string
	kind      *string
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		nextID:   1,
		comments: map[int64]*data.Comment{},
		briefs:   map[string]*data.UserBrief{},
		projects: map[string]bool{},
		liked:    map[string][]int64{},
	}
}

func (f *fakeRepository) CreateComment(comment *data.Comment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createCommentErrs != nil {
		return f.createCommentErrs
	}
	f.callLog = append(f.callLog, "create comment")
	comment.ID = f.nextID
	f.nextID++
	comment.CreatedAt = time.Now()
	comment.UpdatedAt = comment.CreatedAt
	comment.Version = 1
	stored := *comment
	f.comments[comment.ID] = &stored
	return nil
}

func (f *fakeRepository) GetComment(commentID int64) (*data.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	comment, ok := f.comments[commentID]
	if !ok {
		return nil, repository.ErrRecordNotFound
	}
	copied := *comment
	return &copied, nil
}

func (f *fakeRepository) SetCommentRoot(commentID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rootBackfills = append(f.rootBackfills, commentID)
	comment, ok := f.comments[commentID]
	if !ok {
		return repository.ErrRecordNotFound
	}
	id := comment.ID
	comment.RootID = &id
	return nil
}

func (f *fakeRepository) IncrementRepliesCount(rootID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.replyCountBumps = append(f.replyCountBumps, rootID)
	comment, ok := f.comments[rootID]
	if !ok {
		return repository.ErrRecordNotFound
	}
	comment.RepliesCount++
	return nil
}

func (f *fakeRepository) GetAllCommentsForProject(projectID string, filters data.Filters) ([]*data.Comment, data.Metadata, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	matched := []*data.Comment{}
	for _, comment := range f.comments {
		if comment.ProjectID == projectID {
			copied := *comment
			matched = append(matched, &copied)
		}
	}
	return matched, data.CalculateMetadata(len(matched), filters.Page, filters.PageSize), nil
}

func (f *fakeRepository) GetThreadReplies(rootID int64, filters data.Filters) ([]*data.Comment, data.Metadata, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	matched := []*data.Comment{}
	for _, comment := range f.comments {
		if comment.RootID != nil && *comment.RootID == rootID && comment.ID != rootID && !comment.IsDeleted {
			copied := *comment
			matched = append(matched, &copied)
		}
	}
	return matched, data.CalculateMetadata(len(matched), filters.Page, filters.PageSize), nil
}

func (f *fakeRepository) SoftDeleteComment(commentID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	comment, ok := f.comments[commentID]
	if !ok || comment.IsDeleted {
		return repository.ErrRecordNotFound
	}
	now := time.Now()
	comment.IsDeleted = true
	comment.DeletedAt = &now
	f.softDeletedIDs = append(f.softDeletedIDs, commentID)
	return nil
}

func (f *fakeRepository) ApplyReaction(commentID int64, userID string, reactionType *string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reactionCalls = append(f.reactionCalls, fakeReactionCall{commentID, userID, reactionType})
	return nil
}

func (f *fakeRepository) GetLikedCommentIDs(userID string) ([]int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.liked[userID], nil
}

func (f *fakeRepository) ProjectExists(projectID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.projectExistsCalls++
	if f.projectExistsErr != nil {
		return false, f.projectExistsErr
	}
	return f.projects[projectID], nil
}

func (f *fakeRepository) GetProject(projectID string) (*data.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.projects[projectID] {
		return nil, repository.ErrRecordNotFound
	}
	return &data.Project{ID: projectID, Name: "Project " + projectID}, nil
}

func (f *fakeRepository) GetAllProjects(filters data.Filters) ([]*data.Project, data.Metadata, error) {
	return []*data.Project{}, data.Metadata{}, nil
}

func (f *fakeRepository) SearchProjects(patterns []string, filters data.Filters) ([]*data.Project, data.Metadata, error) {
	return []*data.Project{}, data.Metadata{}, nil
}

func (f *fakeRepository) GetUserBrief(userID string) (*data.UserBrief, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.callLog = append(f.callLog, "get brief "+userID)
	brief, ok := f.briefs[userID]
	if !ok {
		return nil, repository.ErrRecordNotFound
	}
	copied := *brief
	return &copied, nil
}

func (f *fakeRepository) GetUserBriefs(userIDs []string) (map[string]*data.UserBrief, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	briefs := map[string]*data.UserBrief{}
	for _, userID := range userIDs {
		if brief, ok := f.briefs[userID]; ok {
			copied := *brief
			briefs[userID] = &copied
		}
	}
	return briefs, nil
}

func (f *fakeRepository) Ping() error {
	return nil
}

// fakeIdentity scripts the provider responses for auth tests.
type fakeIdentity struct {
	signInSession *identity.Session
	signInErr     error
	signUpUser    *identity.User
	signUpErr     error
	resendErr     error
	refreshErr    error
	getUser       *identity.User
	getUserErr    error

	resendCalls int
	signUpCalls int
}

func (f *fakeIdentity) SignIn(ctx context.Context, email, password string) (*identity.Session, error) {
	return f.signInSession, f.signInErr
}

func (f *fakeIdentity) SignUp(ctx context.Context, email, password string) (*identity.User, error) {
	f.signUpCalls++
	return f.signUpUser, f.signUpErr
}

func (f *fakeIdentity) ResendConfirmation(ctx context.Context, email string) error {
	f.resendCalls++
	return f.resendErr
}

func (f *fakeIdentity) RefreshSession(ctx context.Context, refreshToken string) (*identity.Session, error) {
	if f.refreshErr != nil {
		return nil, f.refreshErr
	}
	return f.signInSession, nil
}

func (f *fakeIdentity) GetUser(ctx context.Context, accessToken string) (*identity.User, error) {
	return f.getUser, f.getUserErr
}

func (f *fakeIdentity) SendPasswordReset(ctx context.Context, email string) error {
	return f.resendErr
}

func (f *fakeIdentity) SignOut(ctx context.Context, accessToken string) error {
	return nil
}

// newTestService wires a service onto the fakes with a local-only cache.
// Call wg.Wait to observe deferred background effects.
func newTestService(repo *fakeRepository, provider *fakeIdentity) (*service, *sync.WaitGroup) {
	var wg sync.WaitGroup
	logger := jsonlog.New(io.Discard, jsonlog.LevelOff)
	tiered := cache.NewTiered(cache.NewLocal(time.Minute, time.Minute), nil, logger)
	return New(config.Config{}, &wg, logger, repo, tiered, provider), &wg
}
