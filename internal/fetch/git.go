package fetch

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/storage/memory"

	"git.home.luguber.info/inful/docsite/internal/logfields"
	"git.home.luguber.info/inful/docsite/internal/metrics"
	"git.home.luguber.info/inful/docsite/internal/registry"
)

// GitFetcher reads files from a shallow, single-branch, in-memory clone of
// each source repository. Clones are reused until Refresh has elapsed.
type GitFetcher struct {
	// RemoteURL maps a source to its clone URL. Defaults to https://github.com/{owner}/{repo}.git.
	RemoteURL func(src registry.Source) string
	Refresh   time.Duration
	// Timeout bounds one Fetch, including waiting for a clone in progress.
	Timeout time.Duration
	// Depth limits clone history; 0 fetches the full branch history.
	Depth    int
	Recorder metrics.Recorder
	Logger   *slog.Logger

	mu     sync.Mutex
	clones map[string]*clone
}

type clone struct {
	// lock is a one-slot semaphore so waiters can give up when ctx ends.
	lock   chan struct{}
	commit *object.Commit
	cloned time.Time
}

// NewGitFetcher returns a fetcher making depth-1 clones refreshed after
// refresh, failing any fetch that exceeds timeout.
func NewGitFetcher(refresh, timeout time.Duration, rec metrics.Recorder, logger *slog.Logger) *GitFetcher {
	return &GitFetcher{Refresh: refresh, Timeout: timeout, Depth: 1, Recorder: rec, Logger: logger}
}

// GitHubURL is the default RemoteURL.
func GitHubURL(src registry.Source) string {
	return fmt.Sprintf("https://github.com/%s/%s.git", src.Owner, src.Repo)
}

// Fetch returns the contents of {docsPath}/{relPath} at the branch head.
func (g *GitFetcher) Fetch(ctx context.Context, src registry.Source, relPath string) (string, error) {
	start := time.Now()
	content, err := g.fetch(ctx, src, relPath)
	metrics.OrNoop(g.Recorder).ObserveFetchDuration("git", time.Since(start), err == nil)
	return content, err
}

func (g *GitFetcher) fetch(ctx context.Context, src registry.Source, relPath string) (string, error) {
	address := Address(src, relPath)
	if g.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.Timeout)
		defer cancel()
	}
	commit, err := g.head(ctx, src)
	if err != nil {
		return "", retrievalError(address, 0, err)
	}

	file, err := commit.File(repoPath(src, relPath))
	if err != nil {
		if stderrors.Is(err, object.ErrFileNotFound) {
			return "", retrievalError(address, 404, err)
		}
		return "", retrievalError(address, 0, err)
	}
	content, err := file.Contents()
	if err != nil {
		return "", retrievalError(address, 0, err)
	}
	return content, nil
}

// head returns the cached HEAD commit for src, cloning when missing or older than Refresh.
func (g *GitFetcher) head(ctx context.Context, src registry.Source) (*object.Commit, error) {
	key := src.Owner + "/" + src.Repo + "@" + src.Branch

	g.mu.Lock()
	if g.clones == nil {
		g.clones = make(map[string]*clone)
	}
	c, ok := g.clones[key]
	if !ok {
		c = &clone{lock: make(chan struct{}, 1)}
		g.clones[key] = c
	}
	g.mu.Unlock()

	select {
	case c.lock <- struct{}{}:
	case <-ctx.Done():
		return nil, fmt.Errorf("waiting for clone of %s: %w", key, ctx.Err())
	}
	defer func() { <-c.lock }()

	fresh := !c.cloned.IsZero() && (g.Refresh <= 0 || time.Since(c.cloned) < g.Refresh)
	if fresh && c.commit != nil {
		return c.commit, nil
	}

	commit, err := g.cloneHead(ctx, src)
	if err != nil {
		if c.commit != nil {
			g.logger().WarnContext(ctx, "refreshing clone failed, keeping previous head",
				logfields.Source(src.ID), logfields.Error(err))
			c.cloned = time.Now()
			return c.commit, nil
		}
		return nil, err
	}
	c.commit, c.cloned = commit, time.Now()
	return commit, nil
}

func (g *GitFetcher) cloneHead(ctx context.Context, src registry.Source) (*object.Commit, error) {
	remote := g.remoteURL(src)
	opts := &git.CloneOptions{
		URL:          remote,
		SingleBranch: true,
		Depth:        g.Depth,
		Tags:         git.NoTags,
	}
	if src.Branch != "" {
		opts.ReferenceName = plumbing.NewBranchReferenceName(src.Branch)
	}

	g.logger().DebugContext(ctx, "Cloning repository", logfields.Source(src.ID), slog.String("url", remote), slog.String("branch", src.Branch))
	repo, err := git.CloneContext(ctx, memory.NewStorage(), nil, opts)
	if err != nil {
		return nil, fmt.Errorf("clone %s: %w", remote, err)
	}
	ref, err := repo.Head()
	if err != nil {
		return nil, fmt.Errorf("resolve head: %w", err)
	}
	commit, err := repo.CommitObject(ref.Hash())
	if err != nil {
		return nil, fmt.Errorf("read head commit: %w", err)
	}
	g.logger().InfoContext(ctx, "Repository cloned", logfields.Source(src.ID), slog.String("commit", shortHash(ref.Hash().String())))
	return commit, nil
}

func (g *GitFetcher) remoteURL(src registry.Source) string {
	if g.RemoteURL != nil {
		return g.RemoteURL(src)
	}
	return GitHubURL(src)
}

func (g *GitFetcher) logger() *slog.Logger {
	if g.Logger == nil {
		return slog.Default()
	}
	return g.Logger
}

func shortHash(h string) string {
	if len(h) > 8 {
		return h[:8]
	}
	return h
}
