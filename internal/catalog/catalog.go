// Package catalog declares how each entity list is searched, filtered and
// sorted, and provides the seed directory used in place of a backend.
package catalog

import (
	"math"

	"github.com/cofounderbay/networking-core/internal/collection"
	"github.com/cofounderbay/networking-core/internal/model"
)

// Profiles searches name, headline and skills; filters by role, stage,
// location and availability.
var Profiles = collection.New[model.Profile]().
	SearchText(func(p model.Profile) string { return p.Name }).
	SearchText(func(p model.Profile) string { return p.Headline }).
	SearchList(func(p model.Profile) []string { return p.Skills }).
	Field("role", func(p model.Profile) string { return string(p.Role) }).
	Field("stage", func(p model.Profile) string { return p.Stage }).
	Field("location", func(p model.Profile) string { return p.Location }).
	Field("availability", func(p model.Profile) string { return p.Availability }).
	SortBy("match", collection.Asc(func(p model.Profile) int { return p.MatchScore })).
	SortBy("name", collection.Asc(func(p model.Profile) string { return p.Name }))

// Opportunities searches title, organisation and skills.
var Opportunities = collection.New[model.Opportunity]().
	SearchText(func(o model.Opportunity) string { return o.Title }).
	SearchText(func(o model.Opportunity) string { return o.OrgName }).
	SearchList(func(o model.Opportunity) []string { return o.Skills }).
	Field("type", func(o model.Opportunity) string { return string(o.Type) }).
	Field("stage", func(o model.Opportunity) string { return o.Stage }).
	SortBy("applicants", collection.Asc(func(o model.Opportunity) int { return o.Applicants }))

// Connections searches name and role.
var Connections = collection.New[model.Connection]().
	SearchText(func(c model.Connection) string { return c.Name }).
	SearchText(func(c model.Connection) string { return c.Role }).
	Field("location", func(c model.Connection) string { return c.Location }).
	SortBy("mutual", collection.Asc(func(c model.Connection) int { return c.MutualConnections }))

// Suggestions are ranked by their static match score.
var Suggestions = collection.New[model.Suggestion]().
	SearchText(func(s model.Suggestion) string { return s.Name }).
	SearchList(func(s model.Suggestion) []string { return s.Skills }).
	SortBy("match", collection.Asc(func(s model.Suggestion) int { return s.MatchScore }))

// Conversations searches the counterpart name and sorts by last activity.
var Conversations = collection.New[model.Conversation]().
	SearchText(func(c model.Conversation) string { return c.Counterpart.Name }).
	SortBy("recent", collection.Asc(func(c model.Conversation) int64 {
		if c.LastMessage == nil {
			return math.MinInt64
		}
		return c.LastMessage.CreatedAt.UnixNano()
	}))
