// Package service exposes the networking core to the presentation bridge.
// Each service wraps the in-memory stores of one page area with logging,
// metrics, tracing and event publishing.
package service

import (
	"fmt"
	"sync"

	"github.com/cofounderbay/networking-core/internal/catalog"
	"github.com/cofounderbay/networking-core/internal/model"
	"github.com/cofounderbay/networking-core/internal/profile"
	"github.com/cofounderbay/networking-core/internal/thread"
	"github.com/cofounderbay/networking-core/internal/workflow"
	"github.com/cofounderbay/networking-core/pkg/logger"
	"github.com/cofounderbay/networking-core/pkg/metrics"
)

// Workflow names, also used as the workflow key of resolution events.
const (
	WorkflowIntros       = "intros"
	WorkflowConnections  = "connections"
	WorkflowProposals    = "proposals"
	WorkflowApplications = "applications"
)

// Workspace holds every store of one acting user.
type Workspace struct {
	Actor model.ActorID

	Profiles      []model.Profile
	Opportunities []model.Opportunity

	Intros       *workflow.Workflow[model.ConnectionRequest]
	Requests     *workflow.Workflow[model.ConnectionRequest]
	Proposals    *workflow.Workflow[model.Proposal]
	Applications *workflow.Workflow[model.Application]
	Threads      *thread.Store
	Editor       *profile.Editor

	mu          sync.RWMutex
	connections []model.Connection
	suggestions []model.Suggestion
	opened      map[string]model.Conversation
}

// NewWorkspace loads dir into a fresh store set owned by actor.
func NewWorkspace(actor model.ActorID, dir *catalog.Directory) (*Workspace, error) {
	if actor == "" {
		return nil, fmt.Errorf("workspace: %w", model.ErrNotAuthorized)
	}
	if err := dir.Validate(); err != nil {
		return nil, fmt.Errorf("invalid directory: %w", err)
	}

	ws := &Workspace{
		Actor:         actor,
		Profiles:      dir.Profiles,
		Opportunities: dir.Opportunities,
		Intros:        workflow.New[model.ConnectionRequest](WorkflowIntros, actor),
		Requests:      workflow.New[model.ConnectionRequest](WorkflowConnections, actor),
		Proposals:     workflow.New[model.Proposal](WorkflowProposals, actor),
		Applications:  workflow.New[model.Application](WorkflowApplications, actor),
		Threads:       thread.NewStore(actor),
		Editor:        profile.NewEditor(actor, dir.Owner),
		connections:   append([]model.Connection(nil), dir.Connections...),
		suggestions:   append([]model.Suggestion(nil), dir.Suggestions...),
		opened:        make(map[string]model.Conversation),
	}

	if err := ws.Intros.Seed(dir.IntroRequests...); err != nil {
		return nil, fmt.Errorf("seed intros: %w", err)
	}
	if err := ws.Requests.Seed(dir.ConnectionRequests...); err != nil {
		return nil, fmt.Errorf("seed connection requests: %w", err)
	}
	if err := ws.Proposals.Seed(dir.Proposals...); err != nil {
		return nil, fmt.Errorf("seed proposals: %w", err)
	}
	if err := ws.Applications.Seed(dir.Applications...); err != nil {
		return nil, fmt.Errorf("seed applications: %w", err)
	}
	for _, sc := range dir.Conversations {
		if err := ws.Threads.AddConversation(sc.Conversation, sc.Messages); err != nil {
			return nil, fmt.Errorf("seed conversation %s: %w", sc.Conversation.ID, err)
		}
	}

	// An accepted intro or proposal opens a conversation with the counterpart.
	ws.Intros.OnAccept(func(rec workflow.Record[model.ConnectionRequest]) {
		ws.ensureConversation(WorkflowIntros, rec.ID, rec.Counterpart)
	})
	ws.Proposals.OnAccept(func(rec workflow.Record[model.Proposal]) {
		ws.ensureConversation(WorkflowProposals, rec.ID, rec.Counterpart)
	})
	// An accepted incoming connection request becomes a connection. Outgoing
	// ones are resolved externally, see Dispatcher.
	ws.Requests.OnAccept(func(rec workflow.Record[model.ConnectionRequest]) {
		ws.AddConnection(rec.Counterpart, rec.Payload.MutualConnections)
	})

	return ws, nil
}

func (ws *Workspace) ensureConversation(workflowName, requestID string, counterpart model.Counterpart) {
	conv, created := ws.Threads.EnsureConversation(counterpart)
	if !created {
		return
	}
	ws.mu.Lock()
	ws.opened[workflowName+"/"+requestID] = conv
	ws.mu.Unlock()
}

// TakeOpened returns the conversation created by accepting the given request
// and forgets it. It reports false when the accept found an existing
// conversation with the counterpart.
func (ws *Workspace) TakeOpened(workflowName, requestID string) (model.Conversation, bool) {
	key := workflowName + "/" + requestID
	ws.mu.Lock()
	defer ws.mu.Unlock()
	conv, ok := ws.opened[key]
	delete(ws.opened, key)
	return conv, ok
}

// Connections returns a copy of the established connections.
func (ws *Workspace) Connections() []model.Connection {
	ws.mu.RLock()
	defer ws.mu.RUnlock()
	return append([]model.Connection(nil), ws.connections...)
}

// Suggestions returns a copy of the suggested connections.
func (ws *Workspace) Suggestions() []model.Suggestion {
	ws.mu.RLock()
	defer ws.mu.RUnlock()
	return append([]model.Suggestion(nil), ws.suggestions...)
}

// Suggestion looks up a suggestion by id.
func (ws *Workspace) Suggestion(id string) (model.Suggestion, error) {
	ws.mu.RLock()
	defer ws.mu.RUnlock()
	for _, s := range ws.suggestions {
		if s.ID == id {
			return s, nil
		}
	}
	return model.Suggestion{}, fmt.Errorf("suggestion %s: %w", id, model.ErrNotFound)
}

// Opportunity looks up an opportunity by id.
func (ws *Workspace) Opportunity(id string) (model.Opportunity, error) {
	for _, o := range ws.Opportunities {
		if o.ID == id {
			return o, nil
		}
	}
	return model.Opportunity{}, fmt.Errorf("opportunity %s: %w", id, model.ErrNotFound)
}

// Badges derives the navigation counters from the owning stores.
func (ws *Workspace) Badges() model.Badges {
	return model.Badges{
		UnreadMessages:   ws.Threads.TotalUnread(),
		PendingIntros:    ws.Intros.PendingCount(model.DirectionIncoming),
		PendingRequests:  ws.Requests.PendingCount(model.DirectionIncoming),
		PendingProposals: ws.Proposals.PendingCount(model.DirectionIncoming),
	}
}

// AddConnection records counterpart as connected. It is a no-op when the
// connection already exists.
func (ws *Workspace) AddConnection(who model.Counterpart, mutual int) {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	for _, c := range ws.connections {
		if c.ID == who.ProfileID {
			return
		}
	}
	ws.connections = append(ws.connections, model.Connection{
		ID:                who.ProfileID,
		Name:              who.Name,
		Initials:          who.Initials,
		Role:              who.Role,
		ConnectedSince:    "just now",
		MutualConnections: mutual,
	})
}

// DirectoryFunc supplies the initial directory for an actor.
type DirectoryFunc func(actor model.ActorID) *catalog.Directory

// Registry owns one workspace per acting user, created on first use.
type Registry struct {
	directory DirectoryFunc
	logger    *logger.Logger

	mu         sync.RWMutex
	workspaces map[model.ActorID]*Workspace
}

// NewRegistry creates a registry loading new workspaces from directory.
func NewRegistry(directory DirectoryFunc, log *logger.Logger) *Registry {
	return &Registry{
		directory:  directory,
		logger:     log,
		workspaces: make(map[model.ActorID]*Workspace),
	}
}

// Workspace returns the workspace of actor, creating it if needed.
func (r *Registry) Workspace(actor model.ActorID) (*Workspace, error) {
	r.mu.RLock()
	ws, ok := r.workspaces[actor]
	r.mu.RUnlock()
	if ok {
		return ws, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if ws, ok := r.workspaces[actor]; ok {
		return ws, nil
	}

	ws, err := NewWorkspace(actor, r.directory(actor))
	if err != nil {
		return nil, err
	}
	r.workspaces[actor] = ws
	metrics.ActiveSessions.Set(float64(len(r.workspaces)))

	r.logger.Info("workspace created", logger.ActorField(actor.String()))
	return ws, nil
}

// Lookup returns the workspace of actor without creating it.
func (r *Registry) Lookup(actor model.ActorID) (*Workspace, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ws, ok := r.workspaces[actor]
	return ws, ok
}
