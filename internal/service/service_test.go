package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/cofounderbay/networking-core/internal/catalog"
	"github.com/cofounderbay/networking-core/internal/collection"
	"github.com/cofounderbay/networking-core/internal/model"
	"github.com/cofounderbay/networking-core/internal/workflow"
	"github.com/cofounderbay/networking-core/pkg/logger"
)

const jane model.ActorID = "jane"

var seedTime = time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

type recordingPublisher struct {
	mu     sync.Mutex
	events []*model.Event
	err    error
}

func (p *recordingPublisher) PublishEvent(ctx context.Context, event *model.Event) (uint64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return 0, p.err
	}
	p.events = append(p.events, event)
	return uint64(len(p.events)), nil
}

func (p *recordingPublisher) types() []model.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]model.EventType, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

type services struct {
	registry  *Registry
	discovery *DiscoveryService
	network   *NetworkService
	messaging *MessagingService
	opps      *OpportunityService
	profiles  *ProfileService
	dispatch  *Dispatcher
	pub       *recordingPublisher
}

func newServices(t *testing.T) *services {
	t.Helper()
	return newServicesWith(t, func(*catalog.Directory) {})
}

// newServicesWith seeds every workspace with the demo directory after edit.
func newServicesWith(t *testing.T, edit func(dir *catalog.Directory)) *services {
	t.Helper()

	log := logger.Nop()
	pub := &recordingPublisher{}
	reg := NewRegistry(func(model.ActorID) *catalog.Directory {
		dir := catalog.Seed(seedTime)
		edit(dir)
		return dir
	}, log)
	return &services{
		registry:  reg,
		discovery: NewDiscoveryService(reg, log),
		network:   NewNetworkService(reg, pub, log),
		messaging: NewMessagingService(reg, pub, log),
		opps:      NewOpportunityService(reg, pub, log),
		profiles:  NewProfileService(reg, pub, log),
		dispatch:  NewDispatcher(reg, log),
		pub:       pub,
	}
}

func inbound(t *testing.T, eventType model.EventType, payload any) *model.Event {
	t.Helper()
	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return &model.Event{ID: "ev", Actor: jane, Type: eventType, Payload: data}
}

func TestRegistryReusesWorkspace(t *testing.T) {
	s := newServices(t)

	a, err := s.registry.Workspace(jane)
	if err != nil {
		t.Fatalf("workspace: %v", err)
	}
	b, _ := s.registry.Workspace(jane)
	if a != b {
		t.Fatalf("expected the same workspace for the same actor")
	}
	if _, err := s.registry.Workspace(""); !errors.Is(err, model.ErrNotAuthorized) {
		t.Fatalf("expected not authorized for empty actor, got %v", err)
	}
	if _, ok := s.registry.Lookup("other"); ok {
		t.Fatalf("lookup must not create workspaces")
	}
}

func TestInitialBadges(t *testing.T) {
	s := newServices(t)

	b, err := s.messaging.Badges(context.Background(), jane)
	if err != nil {
		t.Fatalf("badges: %v", err)
	}
	want := model.Badges{UnreadMessages: 3, PendingIntros: 2, PendingRequests: 2, PendingProposals: 2}
	if b != want {
		t.Fatalf("expected %+v, got %+v", want, b)
	}
}

func TestDiscoveryProfilesWindow(t *testing.T) {
	s := newServices(t)

	resp, err := s.discovery.Profiles(context.Background(), jane, ListOptions{
		Query: collection.Query{}.Sorted("match", true),
		Limit: 2,
	})
	if err != nil {
		t.Fatalf("profiles: %v", err)
	}
	if resp.Total != 6 || !resp.HasMore || len(resp.Items) != 2 {
		t.Fatalf("unexpected window: total=%d more=%v items=%d", resp.Total, resp.HasMore, len(resp.Items))
	}
	if resp.Items[0].ID != "1" {
		t.Fatalf("expected highest match first, got %s", resp.Items[0].ID)
	}

	none, _ := s.discovery.Opportunities(context.Background(), jane, ListOptions{Query: collection.Query{}.Search("blockchain")})
	if none.Total != 0 || none.Items == nil {
		t.Fatalf("expected an empty non-nil list, got %+v", none)
	}
}

func TestAcceptIntroOpensConversation(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()

	rec, err := s.messaging.AcceptIntro(ctx, jane, "ir1")
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	if rec.Status != model.StatusAccepted {
		t.Fatalf("expected accepted, got %s", rec.Status)
	}

	convs, _ := s.messaging.Conversations(ctx, jane, ListOptions{Query: collection.Query{}.Search("elena")})
	if convs.Total != 1 {
		t.Fatalf("expected a conversation with Elena, got %d", convs.Total)
	}

	if _, err := s.messaging.DeclineIntro(ctx, jane, "ir1"); !errors.Is(err, model.ErrInvalidTransition) {
		t.Fatalf("expected invalid transition, got %v", err)
	}

	b, _ := s.messaging.Badges(ctx, jane)
	if b.PendingIntros != 1 {
		t.Fatalf("expected 1 pending intro, got %d", b.PendingIntros)
	}

	got := s.pub.types()
	want := []model.EventType{model.EventRequestAccepted, model.EventConversationOpened}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("expected events %v, got %v", want, got)
	}
}

func TestAcceptConnectionRequestAddsConnection(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()

	if _, err := s.network.AcceptRequest(ctx, jane, "pr1"); err != nil {
		t.Fatalf("accept: %v", err)
	}
	conns, _ := s.network.Connections(ctx, jane, ListOptions{Query: collection.Query{}.Search("elena")})
	if conns.Total != 1 || conns.Items[0].ID != "elena-v" {
		t.Fatalf("expected Elena among connections, got %+v", conns.Items)
	}

	if _, err := s.network.AcceptRequest(ctx, jane, "pr3"); !errors.Is(err, model.ErrNotAuthorized) {
		t.Fatalf("expected not authorized for outgoing, got %v", err)
	}
}

func TestConnectSubmitsOutgoingRequest(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()

	rec, err := s.network.Connect(ctx, jane, "sg2", "Let's talk payments")
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	if rec.Direction != model.DirectionOutgoing || rec.Status != model.StatusPending || rec.Counterpart.Name != "Raj P." {
		t.Fatalf("unexpected request: %+v", rec)
	}
	if _, err := s.network.Connect(ctx, jane, "sg2", ""); !errors.Is(err, model.ErrDuplicateRequest) {
		t.Fatalf("expected duplicate, got %v", err)
	}
	if _, err := s.network.Connect(ctx, jane, "sg9", ""); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	outgoing, _ := s.network.Requests(ctx, jane, workflow.Filter{Direction: model.DirectionOutgoing})
	if len(outgoing) != 2 {
		t.Fatalf("expected 2 outgoing requests, got %d", len(outgoing))
	}
}

func TestSendPublishesAndResetsUnread(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()

	msg, err := s.messaging.Send(ctx, jane, "c1", &model.SendMessageRequest{Text: "Tuesday works for me."})
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if msg.DeliveryStatus != model.DeliverySent {
		t.Fatalf("expected sent, got %s", msg.DeliveryStatus)
	}

	resp, _ := s.messaging.Messages(ctx, jane, "c1")
	if len(resp.Messages) != 6 || resp.Messages[5].ID != msg.ID {
		t.Fatalf("expected the new message last of 6, got %d", len(resp.Messages))
	}

	b, _ := s.messaging.Badges(ctx, jane)
	if b.UnreadMessages != 1 {
		t.Fatalf("expected only c2 unread, got %d", b.UnreadMessages)
	}

	if _, err := s.messaging.Send(ctx, jane, "c1", &model.SendMessageRequest{Text: " \n\t"}); !errors.Is(err, model.ErrEmptyMessage) {
		t.Fatalf("expected empty message, got %v", err)
	}
	if types := s.pub.types(); len(types) != 1 || types[0] != model.EventMessageSent {
		t.Fatalf("expected one message_sent event, got %v", types)
	}
}

func TestPublishFailureKeepsMutation(t *testing.T) {
	s := newServices(t)
	s.pub.err = errors.New("nats: no responders")
	ctx := context.Background()

	if _, err := s.messaging.Send(ctx, jane, "c2", &model.SendMessageRequest{Text: "Thanks!"}); err != nil {
		t.Fatalf("send should succeed when publishing fails: %v", err)
	}
	resp, _ := s.messaging.Messages(ctx, jane, "c2")
	if len(resp.Messages) != 4 {
		t.Fatalf("expected 4 messages, got %d", len(resp.Messages))
	}
}

func TestToggleReactionTwiceRestores(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	req := &model.ToggleReactionRequest{Emoji: "👍"}

	msg, err := s.messaging.ToggleReaction(ctx, jane, "c1", "c1-m3", req)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if r := msg.Reactions["👍"]; r.Count != 1 || !r.ReactedBySelf {
		t.Fatalf("unexpected reaction: %+v", r)
	}
	msg, _ = s.messaging.ToggleReaction(ctx, jane, "c1", "c1-m3", req)
	if _, ok := msg.Reactions["👍"]; ok {
		t.Fatalf("reaction should be removed")
	}
	if _, err := s.messaging.ToggleReaction(ctx, jane, "c1", "nope", req); !errors.Is(err, model.ErrMessageNotFound) {
		t.Fatalf("expected message not found, got %v", err)
	}
}

func TestApply(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()

	rec, err := s.opps.Apply(ctx, jane, "o4", &model.ApplyRequest{Message: "  I build EdTech  "})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if rec.Payload.OpportunityTitle != "Full-stack Developer Co-founder" || rec.Payload.Message != "I build EdTech" {
		t.Fatalf("unexpected application: %+v", rec.Payload)
	}
	if _, err := s.opps.Apply(ctx, jane, "o4", &model.ApplyRequest{}); !errors.Is(err, model.ErrDuplicateRequest) {
		t.Fatalf("expected duplicate, got %v", err)
	}
	if _, err := s.opps.Apply(ctx, jane, "o9", &model.ApplyRequest{}); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	apps, _ := s.opps.Applications(ctx, jane, workflow.Filter{Status: model.StatusPending})
	if len(apps) != 3 {
		t.Fatalf("expected 3 pending applications, got %d", len(apps))
	}
}

func TestProposalAcceptOpensConversation(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()

	if _, err := s.opps.AcceptProposal(ctx, jane, "p1"); err != nil {
		t.Fatalf("accept: %v", err)
	}
	// Alex already has c1, so no new conversation is created.
	convs, _ := s.messaging.Conversations(ctx, jane, ListOptions{})
	if convs.Total != 4 {
		t.Fatalf("expected 4 conversations, got %d", convs.Total)
	}
	if _, err := s.opps.DeclineProposal(ctx, jane, "p1"); !errors.Is(err, model.ErrInvalidTransition) {
		t.Fatalf("expected invalid transition, got %v", err)
	}
	if got := s.pub.types(); len(got) != 1 || got[0] != model.EventRequestAccepted {
		t.Fatalf("expected only request_accepted for an existing conversation, got %v", got)
	}
}

func TestProposalAcceptPublishesNewConversation(t *testing.T) {
	// Drop the conversation with Maria so accepting p2 has to open one.
	s := newServicesWith(t, func(dir *catalog.Directory) {
		kept := dir.Conversations[:0]
		for _, c := range dir.Conversations {
			if c.Conversation.ID != "c2" {
				kept = append(kept, c)
			}
		}
		dir.Conversations = kept
	})
	ctx := context.Background()

	if _, err := s.opps.AcceptProposal(ctx, jane, "p2"); err != nil {
		t.Fatalf("accept: %v", err)
	}

	got := s.pub.types()
	want := []model.EventType{model.EventRequestAccepted, model.EventConversationOpened}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("expected events %v, got %v", want, got)
	}

	var payload ConversationPayload
	if err := json.Unmarshal(s.pub.events[1].Payload, &payload); err != nil {
		t.Fatalf("payload: %v", err)
	}
	ws, _ := s.registry.Workspace(jane)
	conv, err := ws.Threads.Conversation(payload.ConversationID)
	if err != nil || conv.Counterpart.ProfileID != payload.Counterpart.ProfileID {
		t.Fatalf("published conversation %+v not in store: %v", payload, err)
	}
	if _, ok := ws.TakeOpened(WorkflowProposals, "p2"); ok {
		t.Fatalf("opened conversation must be taken once")
	}
}

func TestProfilePatchIsValidatedFirst(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()

	if _, err := s.profiles.Patch(ctx, jane, &model.ProfilePatch{}); !errors.Is(err, model.ErrNotEditing) {
		t.Fatalf("expected not editing, got %v", err)
	}
	if _, err := s.profiles.Edit(ctx, jane); err != nil {
		t.Fatalf("edit: %v", err)
	}

	_, err := s.profiles.Patch(ctx, jane, &model.ProfilePatch{Fields: map[string]string{
		"headline": "changed",
		"favorite": "x",
	}})
	if !errors.Is(err, model.ErrUnknownField) {
		t.Fatalf("expected unknown field, got %v", err)
	}
	v, _ := s.profiles.Get(ctx, jane)
	if v.Draft.Headline != v.Profile.Headline {
		t.Fatalf("draft changed by rejected patch")
	}

	v, err = s.profiles.Patch(ctx, jane, &model.ProfilePatch{
		Fields:    map[string]string{"headline": "Founder in residence"},
		AddSkills: []string{"Go"},
	})
	if err != nil {
		t.Fatalf("patch: %v", err)
	}
	if v.Profile.Headline == "Founder in residence" {
		t.Fatalf("saved profile changed before save")
	}

	v, err = s.profiles.Save(ctx, jane)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if v.Editing || v.Profile.Headline != "Founder in residence" || v.Completion != 100 {
		t.Fatalf("unexpected view after save: %+v", v)
	}
	if _, err := s.profiles.Cancel(ctx, jane); !errors.Is(err, model.ErrNotEditing) {
		t.Fatalf("expected not editing, got %v", err)
	}
}

func TestDispatcherDelivery(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()

	msg, _ := s.messaging.Send(ctx, jane, "c1", &model.SendMessageRequest{Text: "ping"})

	err := s.dispatch.Apply(ctx, inbound(t, model.EventDelivery, model.DeliveryPayload{
		ConversationID: "c1", MessageID: msg.ID, Status: model.DeliveryRead,
	}))
	if err != nil {
		t.Fatalf("delivery: %v", err)
	}

	err = s.dispatch.Apply(ctx, inbound(t, model.EventDelivery, model.DeliveryPayload{
		ConversationID: "c1", MessageID: msg.ID, Status: model.DeliverySent,
	}))
	if !errors.Is(err, model.ErrInvalidStatusRegression) {
		t.Fatalf("expected regression, got %v", err)
	}

	err = s.dispatch.Apply(ctx, inbound(t, model.EventDelivery, model.DeliveryPayload{
		ConversationID: "c1", MessageID: "c1-m1", Status: model.DeliveryRead,
	}))
	if !errors.Is(err, model.ErrNotAuthorized) {
		t.Fatalf("expected not authorized for counterpart message, got %v", err)
	}

	resp, _ := s.messaging.Messages(ctx, jane, "c1")
	if last := resp.Messages[len(resp.Messages)-1]; last.DeliveryStatus != model.DeliveryRead {
		t.Fatalf("expected read, got %s", last.DeliveryStatus)
	}
}

func TestDispatcherCounterpartActivity(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()

	if err := s.dispatch.Apply(ctx, inbound(t, model.EventTyping, model.TypingPayload{ConversationID: "c2", Typing: true})); err != nil {
		t.Fatalf("typing: %v", err)
	}
	if typing, _ := s.messaging.Typing(ctx, jane, "c2"); !typing {
		t.Fatalf("expected typing")
	}

	if err := s.dispatch.Apply(ctx, inbound(t, model.EventMessage, model.InboundMessagePayload{ConversationID: "c2", Text: "Can we meet Friday?"})); err != nil {
		t.Fatalf("message: %v", err)
	}
	resp, _ := s.messaging.Messages(ctx, jane, "c2")
	if resp.Typing {
		t.Fatalf("a received message clears typing")
	}
	b, _ := s.messaging.Badges(ctx, jane)
	if b.UnreadMessages != 4 {
		t.Fatalf("expected 4 unread, got %d", b.UnreadMessages)
	}

	if err := s.dispatch.Apply(ctx, inbound(t, model.EventReaction, model.ReactionPayload{ConversationID: "c1", MessageID: "c1-m2", Emoji: "🔥", Added: true})); err != nil {
		t.Fatalf("reaction: %v", err)
	}
	if err := s.dispatch.Apply(ctx, inbound(t, model.EventPresence, model.PresencePayload{ConversationID: "c3", Online: true})); err != nil {
		t.Fatalf("presence: %v", err)
	}

	if err := s.dispatch.Apply(ctx, &model.Event{Actor: jane, Type: model.EventTyping, Payload: json.RawMessage(`{`)}); err == nil {
		t.Fatalf("expected malformed payload error")
	}
	if err := s.dispatch.Apply(ctx, &model.Event{Actor: jane, Type: "bogus", Payload: json.RawMessage(`{}`)}); !errors.Is(err, model.ErrUnknownField) {
		t.Fatalf("expected unknown event type, got %v", err)
	}
}

func TestDispatcherResolution(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()

	err := s.dispatch.Apply(ctx, inbound(t, model.EventResolution, model.ResolutionPayload{
		Workflow: WorkflowConnections, RequestID: "pr3", Status: model.StatusAccepted,
	}))
	if err != nil {
		t.Fatalf("resolution: %v", err)
	}
	conns, _ := s.network.Connections(ctx, jane, ListOptions{Query: collection.Query{}.Search("tom")})
	if conns.Total != 1 {
		t.Fatalf("expected Tom among connections, got %d", conns.Total)
	}

	err = s.dispatch.Apply(ctx, inbound(t, model.EventResolution, model.ResolutionPayload{
		Workflow: WorkflowConnections, RequestID: "pr1", Status: model.StatusAccepted,
	}))
	if !errors.Is(err, model.ErrNotAuthorized) {
		t.Fatalf("incoming requests are decided locally, got %v", err)
	}

	err = s.dispatch.Apply(ctx, inbound(t, model.EventResolution, model.ResolutionPayload{
		Workflow: WorkflowApplications, RequestID: "a1", Status: model.StatusDeclined,
	}))
	if err != nil {
		t.Fatalf("application resolution: %v", err)
	}
	err = s.dispatch.Apply(ctx, inbound(t, model.EventResolution, model.ResolutionPayload{
		Workflow: WorkflowApplications, RequestID: "a2", Status: model.StatusDeclined,
	}))
	if !errors.Is(err, model.ErrInvalidTransition) {
		t.Fatalf("expected invalid transition on resolved application, got %v", err)
	}
}

func TestReason(t *testing.T) {
	tests := map[error]string{
		model.ErrInvalidTransition:       "invalid_transition",
		model.ErrInvalidStatusRegression: "status_regression",
		errors.New("boom"):               "internal",
	}
	for err, want := range tests {
		if got := Reason(err); got != want {
			t.Fatalf("Reason(%v) = %q, want %q", err, got, want)
		}
	}
}
