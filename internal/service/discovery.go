package service

import (
	"context"

	"github.com/cofounderbay/networking-core/internal/catalog"
	"github.com/cofounderbay/networking-core/internal/collection"
	"github.com/cofounderbay/networking-core/internal/model"
	"github.com/cofounderbay/networking-core/pkg/logger"
	"github.com/cofounderbay/networking-core/pkg/metrics"
	"github.com/cofounderbay/networking-core/pkg/tracing"
)

// ListOptions selects a window of a filtered list.
type ListOptions struct {
	Query  collection.Query
	Offset int
	Limit  int
}

func list[T any](name string, col *collection.Collection[T], items []T, opts ListOptions) *model.ListResponse[T] {
	metrics.CollectionQueriesTotal.WithLabelValues(name).Inc()

	filtered := col.Filter(items, opts.Query)
	page, more := collection.Page(filtered, opts.Offset, opts.Limit)
	if page == nil {
		page = []T{}
	}
	return &model.ListResponse[T]{
		Items:   page,
		Total:   len(filtered),
		HasMore: more,
	}
}

// DiscoveryService answers the discover and opportunities listings.
type DiscoveryService struct {
	base
}

// NewDiscoveryService creates a new discovery service.
func NewDiscoveryService(registry *Registry, log *logger.Logger) *DiscoveryService {
	return &DiscoveryService{base: base{registry: registry, logger: log}}
}

// Profiles filters the profile directory.
func (s *DiscoveryService) Profiles(ctx context.Context, actor model.ActorID, opts ListOptions) (*model.ListResponse[model.Profile], error) {
	_, span := tracing.Start(ctx, "discovery.profiles", "actor", actor.String())
	defer span.End()

	ws, err := s.workspace(actor)
	if err != nil {
		return nil, err
	}
	return list("profiles", catalog.Profiles, ws.Profiles, opts), nil
}

// Opportunities filters the opportunity listings.
func (s *DiscoveryService) Opportunities(ctx context.Context, actor model.ActorID, opts ListOptions) (*model.ListResponse[model.Opportunity], error) {
	_, span := tracing.Start(ctx, "discovery.opportunities", "actor", actor.String())
	defer span.End()

	ws, err := s.workspace(actor)
	if err != nil {
		return nil, err
	}
	return list("opportunities", catalog.Opportunities, ws.Opportunities, opts), nil
}
