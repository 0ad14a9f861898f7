package comments

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/vidx/internal/models"
	"github.com/desertthunder/vidx/internal/shared"
)

// MaxContentLength is the longest comment accepted, in characters.
const MaxContentLength = 1000

// Remote fetches and submits comments for a video.
type Remote interface {
	Comments(ctx context.Context, videoID models.ID) ([]models.Comment, error)
	PostComment(ctx context.Context, videoID models.ID, content string, parent *models.ID) (*models.Comment, error)
}

// Guard rejects submissions from an unauthenticated viewer.
type Guard interface {
	Require() error
}

// Store is the comment tree of one video.
type Store struct {
	mu      sync.RWMutex
	videoID models.ID
	remote  Remote
	guard   Guard
	logger  *log.Logger
	roots   []models.Comment
}

// NewStore creates an empty [Store] for videoID. guard may be nil.
func NewStore(videoID models.ID, remote Remote, guard Guard, logger *log.Logger) *Store {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Store{
		videoID: videoID,
		remote:  remote,
		guard:   guard,
		logger:  shared.WithLogger(logger, "component", "comments", "video", videoID),
	}
}

// VideoID returns the video the tree belongs to.
func (s *Store) VideoID() models.ID { return s.videoID }

// Validate trims content and checks it against the length limits.
func Validate(content string) (string, error) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return "", shared.ErrEmptyContent
	}
	if n := utf8.RuneCountInString(trimmed); n > MaxContentLength {
		return "", fmt.Errorf("%w: %d of %d characters", shared.ErrContentTooLong, n, MaxContentLength)
	}
	return trimmed, nil
}

func (s *Store) precheck(content string) (string, error) {
	trimmed, err := Validate(content)
	if err != nil {
		return "", err
	}
	if s.guard != nil {
		if err := s.guard.Require(); err != nil {
			return "", fmt.Errorf("%w: %w", shared.ErrValidation, err)
		}
	}
	return trimmed, nil
}

// Load replaces the tree with comments, as returned by the list endpoint.
//
// Replies may arrive nested under their root or flat with a parent id. A reply to a reply is attached to
// the root of its thread.
func (s *Store) Load(comments []models.Comment) {
	roots := Build(comments)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.roots = roots
}

// Refresh fetches the video's comments and replaces the tree. On failure the tree is kept.
func (s *Store) Refresh(ctx context.Context) error {
	comments, err := s.remote.Comments(ctx, s.videoID)
	if err != nil {
		s.logger.Warn("failed to fetch comments", "error", err)
		return err
	}
	s.Load(comments)
	s.logger.Debug("loaded comments", "roots", s.Count())
	return nil
}

// AddRoot submits a top-level comment and prepends it once the remote accepts it.
func (s *Store) AddRoot(ctx context.Context, content string) (models.Comment, error) {
	trimmed, err := s.precheck(content)
	if err != nil {
		return models.Comment{}, err
	}

	created, err := s.remote.PostComment(ctx, s.videoID, trimmed, nil)
	if err != nil {
		return models.Comment{}, err
	}

	comment := *created
	comment.Parent = nil
	comment.Replies = nil

	s.mu.Lock()
	defer s.mu.Unlock()
	roots := make([]models.Comment, 0, len(s.roots)+1)
	roots = append(roots, comment)
	s.roots = append(roots, s.roots...)
	return comment, nil
}

// AddReply submits a reply to the root parentID and appends it to that root's replies.
//
// An unknown parent fails with [shared.ErrNotFound] before any network call.
func (s *Store) AddReply(ctx context.Context, parentID models.ID, content string) (models.Comment, error) {
	trimmed, err := s.precheck(content)
	if err != nil {
		return models.Comment{}, err
	}
	if _, ok := s.Root(parentID); !ok {
		return models.Comment{}, fmt.Errorf("%w: parent comment %d", shared.ErrNotFound, parentID)
	}

	created, err := s.remote.PostComment(ctx, s.videoID, trimmed, &parentID)
	if err != nil {
		return models.Comment{}, err
	}

	reply := *created
	parent := parentID
	reply.Parent = &parent
	reply.Replies = nil

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(parentID)
	if i < 0 {
		s.logger.Warn("parent vanished before reply was stored", "parent", parentID, "reply", reply.ID)
		return reply, nil
	}

	root := s.roots[i]
	replies := make([]models.Comment, 0, len(root.Replies)+1)
	replies = append(replies, root.Replies...)
	root.Replies = append(replies, reply)
	s.roots[i] = root
	return reply, nil
}

// Count returns the number of root comments. Replies are not counted.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.roots)
}

// Roots returns a copy of the tree.
func (s *Store) Roots() []models.Comment {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Comment, len(s.roots))
	for i, root := range s.roots {
		out[i] = cloneRoot(root)
	}
	return out
}

// Root returns a copy of the root comment id.
func (s *Store) Root(id models.ID) (models.Comment, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(id)
	if i < 0 {
		return models.Comment{}, false
	}
	return cloneRoot(s.roots[i]), true
}

func (s *Store) indexOf(id models.ID) int {
	for i := range s.roots {
		if s.roots[i].ID == id {
			return i
		}
	}
	return -1
}

func cloneRoot(c models.Comment) models.Comment {
	if c.Replies != nil {
		c.Replies = append([]models.Comment(nil), c.Replies...)
	}
	return c
}

// Build arranges comments into a two-level tree, preserving the order they arrived in.
func Build(comments []models.Comment) []models.Comment {
	var roots []models.Comment
	rootIndex := make(map[models.ID]int)
	threadOf := make(map[models.ID]models.ID)

	for _, c := range comments {
		if !c.IsRoot() {
			continue
		}
		root := c
		root.Parent = nil
		root.Replies = nil
		for _, r := range c.Replies {
			r.Replies = nil
			parent := c.ID
			r.Parent = &parent
			root.Replies = append(root.Replies, r)
			threadOf[r.ID] = c.ID
		}
		rootIndex[c.ID] = len(roots)
		threadOf[c.ID] = c.ID
		roots = append(roots, root)
	}

	for _, c := range comments {
		if c.IsRoot() {
			continue
		}
		rootID, ok := threadOf[*c.Parent]
		if !ok {
			continue
		}
		i := rootIndex[rootID]
		if containsID(roots[i].Replies, c.ID) {
			continue
		}
		reply := c
		reply.Replies = nil
		parent := rootID
		reply.Parent = &parent
		roots[i].Replies = append(roots[i].Replies, reply)
		threadOf[c.ID] = rootID
	}

	if roots == nil {
		roots = []models.Comment{}
	}
	return roots
}

func containsID(comments []models.Comment, id models.ID) bool {
	for _, c := range comments {
		if c.ID == id {
			return true
		}
	}
	return false
}
