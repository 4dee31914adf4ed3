package mock

import (
	"context"
	"encoding/json"
	"iter"

	"github.com/fwojciec/pagemig"
)

var _ pagemig.ContentAPI = (*ContentAPI)(nil)

// ContentAPI is a mock implementation of pagemig.ContentAPI.
type ContentAPI struct {
	CollectionFn func(ctx context.Context, endpoint string, pageSize int) iter.Seq2[json.RawMessage, error]
	FindBySlugFn func(ctx context.Context, endpoint, slug string) (json.RawMessage, error)
}

func (a *ContentAPI) Collection(ctx context.Context, endpoint string, pageSize int) iter.Seq2[json.RawMessage, error] {
	return a.CollectionFn(ctx, endpoint, pageSize)
}

func (a *ContentAPI) FindBySlug(ctx context.Context, endpoint, slug string) (json.RawMessage, error) {
	return a.FindBySlugFn(ctx, endpoint, slug)
}

var _ pagemig.PostService = (*PostService)(nil)

// PostService is a mock implementation of pagemig.PostService.
type PostService struct {
	FindPostsFn      func(ctx context.Context) iter.Seq2[*pagemig.Post, error]
	FindPostBySlugFn func(ctx context.Context, slug string) (*pagemig.Post, error)
	FindTermsFn      func(ctx context.Context, taxonomy pagemig.Taxonomy) ([]*pagemig.Term, error)
	FindMediaURLFn   func(ctx context.Context, id int) (string, error)
}

func (s *PostService) FindPosts(ctx context.Context) iter.Seq2[*pagemig.Post, error] {
	return s.FindPostsFn(ctx)
}

func (s *PostService) FindPostBySlug(ctx context.Context, slug string) (*pagemig.Post, error) {
	return s.FindPostBySlugFn(ctx, slug)
}

func (s *PostService) FindTerms(ctx context.Context, taxonomy pagemig.Taxonomy) ([]*pagemig.Term, error) {
	return s.FindTermsFn(ctx, taxonomy)
}

func (s *PostService) FindMediaURL(ctx context.Context, id int) (string, error) {
	return s.FindMediaURLFn(ctx, id)
}
