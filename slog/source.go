package slog

import (
	"context"
	"encoding/json"
	"iter"
	"log/slog"
	"time"

	"github.com/fwojciec/pagemig"
)

// Ensure LoggingContentAPI implements pagemig.ContentAPI.
var _ pagemig.ContentAPI = (*LoggingContentAPI)(nil)

// LoggingContentAPI wraps a ContentAPI with debug logging. A collection walk
// is logged once, when the consumer stops ranging over it.
type LoggingContentAPI struct {
	next   pagemig.ContentAPI
	logger *slog.Logger
}

// NewLoggingContentAPI creates a new LoggingContentAPI.
func NewLoggingContentAPI(next pagemig.ContentAPI, logger *slog.Logger) *LoggingContentAPI {
	return &LoggingContentAPI{next: next, logger: logger}
}

// Collection delegates to the wrapped API and logs the item count.
func (a *LoggingContentAPI) Collection(ctx context.Context, endpoint string, pageSize int) iter.Seq2[json.RawMessage, error] {
	return logSeq(a.logger, "collection", endpoint, a.next.Collection(ctx, endpoint, pageSize))
}

// FindBySlug delegates to the wrapped API and logs the lookup.
func (a *LoggingContentAPI) FindBySlug(ctx context.Context, endpoint, slug string) (item json.RawMessage, err error) {
	defer func(begin time.Time) {
		a.logger.Info("find by slug",
			"endpoint", endpoint,
			"slug", slug,
			"found", item != nil,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return a.next.FindBySlug(ctx, endpoint, slug)
}

// Ensure LoggingPostService implements pagemig.PostService.
var _ pagemig.PostService = (*LoggingPostService)(nil)

// LoggingPostService wraps a PostService with debug logging.
type LoggingPostService struct {
	next   pagemig.PostService
	logger *slog.Logger
}

// NewLoggingPostService creates a new LoggingPostService.
func NewLoggingPostService(next pagemig.PostService, logger *slog.Logger) *LoggingPostService {
	return &LoggingPostService{next: next, logger: logger}
}

// FindPosts delegates to the wrapped service and logs the post count.
func (s *LoggingPostService) FindPosts(ctx context.Context) iter.Seq2[*pagemig.Post, error] {
	return logSeq(s.logger, "collection", pagemig.EndpointPosts, s.next.FindPosts(ctx))
}

// FindPostBySlug delegates to the wrapped service and logs the lookup.
func (s *LoggingPostService) FindPostBySlug(ctx context.Context, slug string) (post *pagemig.Post, err error) {
	defer func(begin time.Time) {
		s.logger.Info("find post",
			"slug", slug,
			"found", post != nil,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FindPostBySlug(ctx, slug)
}

// FindTerms delegates to the wrapped service and logs the term count.
func (s *LoggingPostService) FindTerms(ctx context.Context, taxonomy pagemig.Taxonomy) (terms []*pagemig.Term, err error) {
	defer func(begin time.Time) {
		s.logger.Info("find terms",
			"taxonomy", taxonomy,
			"count", len(terms),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FindTerms(ctx, taxonomy)
}

// FindMediaURL delegates to the wrapped service.
func (s *LoggingPostService) FindMediaURL(ctx context.Context, id int) (string, error) {
	return s.next.FindMediaURL(ctx, id)
}

// logSeq passes seq through unchanged and logs how many items were yielded
// and the first error, once ranging stops.
func logSeq[T any](logger *slog.Logger, msg, endpoint string, seq iter.Seq2[T, error]) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		begin := time.Now()
		var count int
		var err error
		defer func() {
			logger.Info(msg,
				"endpoint", endpoint,
				"count", count,
				"duration", time.Since(begin),
				"err", err,
			)
		}()
		for item, itemErr := range seq {
			if itemErr != nil {
				err = itemErr
			} else {
				count++
			}
			if !yield(item, itemErr) {
				return
			}
		}
	}
}
