package catalog

import (
	"fmt"
	"strings"
	"time"

	"github.com/cofounderbay/networking-core/internal/model"
	"github.com/cofounderbay/networking-core/internal/workflow"
)

// SeedConversation is a conversation with its initial log.
type SeedConversation struct {
	Conversation model.Conversation
	Messages     []model.Message
}

// Directory is the read-only input supplied by the directory and listing
// collaborators. Workflow and conversation entries are initial state only.
type Directory struct {
	Owner              model.OwnProfile
	Profiles           []model.Profile
	Opportunities      []model.Opportunity
	Connections        []model.Connection
	Suggestions        []model.Suggestion
	IntroRequests      []workflow.Record[model.ConnectionRequest]
	ConnectionRequests []workflow.Record[model.ConnectionRequest]
	Proposals          []workflow.Record[model.Proposal]
	Applications       []workflow.Record[model.Application]
	Conversations      []SeedConversation
}

// Validate checks directory records before they are loaded.
func (d *Directory) Validate() error {
	for _, p := range d.Profiles {
		if err := p.Validate(); err != nil {
			return err
		}
	}
	for _, s := range d.Suggestions {
		if s.MatchScore < 0 || s.MatchScore > 100 {
			return fmt.Errorf("suggestion %s: match score %d out of range", s.ID, s.MatchScore)
		}
	}
	return nil
}

// Empty returns a directory with only the owner's profile.
func Empty(owner model.OwnProfile) *Directory {
	return &Directory{Owner: owner}
}

func cp(id, name, initials, role string) model.Counterpart {
	return model.Counterpart{ProfileID: id, Name: name, Initials: initials, Role: role}
}

func incoming[T any](id string, status model.RequestStatus, who model.Counterpart, created time.Time, payload T) workflow.Record[T] {
	return workflow.Record[T]{
		ID:          id,
		Direction:   model.DirectionIncoming,
		Status:      status,
		Counterpart: who,
		Payload:     payload,
		Timestamps:  model.Timestamps{CreatedAt: created},
	}
}

func outgoing[T any](id string, status model.RequestStatus, who model.Counterpart, created time.Time, payload T) workflow.Record[T] {
	rec := incoming(id, status, who, created, payload)
	rec.Direction = model.DirectionOutgoing
	return rec
}

func thread(convID string, start time.Time, step time.Duration, lines ...string) []model.Message {
	msgs := make([]model.Message, 0, len(lines))
	for i, line := range lines {
		sender := model.SenderCounterpart
		text, own := strings.CutPrefix(line, "> ")
		if own {
			sender = model.SenderSelf
		}
		m := model.Message{
			ID:             fmt.Sprintf("%s-m%d", convID, i+1),
			ConversationID: convID,
			Sender:         sender,
			Text:           text,
			CreatedAt:      start.Add(time.Duration(i) * step),
		}
		if sender == model.SenderSelf {
			m.DeliveryStatus = model.DeliveryRead
		}
		msgs = append(msgs, m)
	}
	return msgs
}

// Seed returns the sample directory, with relative dates resolved against now.
func Seed(now time.Time) *Directory {
	ago := func(d time.Duration) time.Time { return now.Add(-d) }
	day := 24 * time.Hour

	alex := cp("alex-chen", "Alex Chen", "AC", "Founder")
	maria := cp("maria-santos", "Maria Santos", "MS", "Investor")
	sara := cp("sara-k", "Sara K.", "SK", "UX Designer")
	dimitris := cp("dimitris-p", "Dimitris P.", "DP", "Developer")
	elena := cp("elena-v", "Elena V.", "EV", "Growth Lead")
	nikos := cp("nikos-m", "Nikos M.", "NM", "Angel Investor")

	return &Directory{
		Owner: model.OwnProfile{
			Name:         "Jane Doe",
			Headline:     "Product strategist & startup builder",
			Bio:          "10+ years building digital products. Previously led product at two YC startups. Currently exploring AI-powered tools for early-stage founders.",
			Location:     "Athens, Greece",
			Availability: "Full-time",
			Email:        "jane@example.com",
			LinkedIn:     "linkedin.com/in/janedoe",
			GitHub:       "github.com/janedoe",
			Website:      "janedoe.co",
			Skills:       []string{"Product Strategy", "UX Research", "Agile", "Data Analysis", "Go-to-Market", "Fundraising"},
			Interests:    []string{"AI/ML", "EdTech", "ClimateTech", "SaaS", "FinTech"},
			Stage:        "MVP",
			Commitment:   "Full-time",
			Compensation: "Equity + small salary",
			LookingFor:   "Technical Co-founder",
		},

		Profiles: []model.Profile{
			{ID: "1", Name: "Alex Chen", Role: model.RoleFounder, Headline: "Building AI-powered recruitment tools", Skills: []string{"Machine Learning", "Python", "Product Strategy"}, Location: "San Francisco, CA", Availability: "Full-time", MatchScore: 92, Stage: "MVP", LookingFor: "Technical Co-founder"},
			{ID: "2", Name: "Maria Santos", Role: model.RoleInvestor, Headline: "Angel investor — Early-stage SaaS & fintech", Skills: []string{"Due Diligence", "Fintech", "SaaS"}, Location: "London, UK", Availability: "Part-time", MatchScore: 87, Stage: "Seed", LookingFor: "Deal flow"},
			{ID: "3", Name: "Dimitris Papadopoulos", Role: model.RoleProfessional, Headline: "Full-stack engineer — React, Node, PostgreSQL", Skills: []string{"React", "TypeScript", "Node.js"}, Location: "Athens, Greece", Availability: "20h/week", MatchScore: 85, Stage: "Any", LookingFor: "Equity-based role"},
			{ID: "4", Name: "Sarah Kim", Role: model.RoleMentor, Headline: "Ex-Google PM — 15y product & growth experience", Skills: []string{"Product Management", "Growth", "Strategy"}, Location: "Remote", Availability: "5h/week", MatchScore: 79, Stage: "Any", LookingFor: "Mentoring sessions"},
			{ID: "5", Name: "James Okafor", Role: model.RoleFounder, Headline: "Climate-tech startup — Carbon tracking for SMBs", Skills: []string{"Sustainability", "Business Dev", "Operations"}, Location: "Lagos, Nigeria", Availability: "Full-time", MatchScore: 76, Stage: "Pre-seed", LookingFor: "CTO Co-founder"},
			{ID: "6", Name: "Lena Müller", Role: model.RoleProfessional, Headline: "Brand designer — Helping startups stand out", Skills: []string{"Brand Design", "UI/UX", "Figma"}, Location: "Berlin, Germany", Availability: "Freelance", MatchScore: 73, Stage: "Any", LookingFor: "Startup projects"},
		},

		Opportunities: []model.Opportunity{
			{ID: "o1", Title: "CTO & Technical Co-founder", OrgName: "GreenTrack", OrgInitials: "GT", Type: model.OpportunityCofounder, Description: "Looking for a technical co-founder to build our carbon tracking platform for SMBs.", Skills: []string{"Python", "React", "AWS", "Data Engineering"}, Location: "Remote (EU timezone)", Compensation: "25% equity + small salary after seed", Stage: "Pre-seed", Posted: "2d ago", Applicants: 8},
			{ID: "o2", Title: "Growth Marketing Lead", OrgName: "FinLit AI", OrgInitials: "FL", Type: model.OpportunityJob, Description: "Join our Series A fintech startup to lead growth marketing.", Skills: []string{"Growth Hacking", "SEO", "Paid Ads", "Analytics"}, Location: "London, UK (Hybrid)", Compensation: "£65-80k + 0.5% equity", Stage: "Series A", Posted: "1d ago", Applicants: 23},
			{ID: "o3", Title: "Product Designer — Contract", OrgName: "Nomad Spaces", OrgInitials: "NS", Type: model.OpportunityFreelance, Description: "3-month contract to redesign our marketplace UX.", Skills: []string{"Figma", "UX Research", "Design Systems", "Prototyping"}, Location: "Remote", Compensation: "€80-100/hour", Stage: "MVP", Posted: "5h ago", Applicants: 5},
			{ID: "o4", Title: "Full-stack Developer Co-founder", OrgName: "EduFlow", OrgInitials: "EF", Type: model.OpportunityCofounder, Description: "EdTech startup seeking a full-stack developer to co-found.", Skills: []string{"TypeScript", "Next.js", "PostgreSQL", "System Design"}, Location: "Athens, Greece / Remote", Compensation: "30% equity", Stage: "MVP with revenue", Posted: "3d ago", Applicants: 12},
			{ID: "o5", Title: "Backend Engineer", OrgName: "DataPulse", OrgInitials: "DP", Type: model.OpportunityJob, Description: "Build scalable APIs and data infrastructure for our analytics platform.", Skills: []string{"Go", "Kubernetes", "PostgreSQL", "gRPC"}, Location: "Berlin, Germany", Compensation: "€70-90k + equity", Stage: "Seed", Posted: "12h ago", Applicants: 15},
		},

		Connections: []model.Connection{
			{ID: "cn1", Name: "Alex Chen", Initials: "AC", Role: "Founder & CEO", Company: "NovaTech AI", Location: "San Francisco", ConnectedSince: "3 months ago", MutualConnections: 12, Online: true, Skills: []string{"AI/ML", "Product Strategy"}},
			{ID: "cn2", Name: "Maria Santos", Initials: "MS", Role: "Angel Investor", Company: "Santos Capital", Location: "London", ConnectedSince: "1 month ago", MutualConnections: 8, Online: true, Skills: []string{"Fintech", "SaaS"}},
			{ID: "cn3", Name: "Sara K.", Initials: "SK", Role: "UX Designer", Company: "Freelance", Location: "Berlin", ConnectedSince: "2 weeks ago", MutualConnections: 5, Skills: []string{"Product Design", "Research"}},
			{ID: "cn4", Name: "Dimitris P.", Initials: "DP", Role: "Full-Stack Developer", Company: "CodeCraft", Location: "Athens", ConnectedSince: "2 months ago", MutualConnections: 3, Skills: []string{"React", "Node.js"}},
			{ID: "cn5", Name: "Lena W.", Initials: "LW", Role: "Marketing Lead", Company: "GrowthLab", Location: "NYC", ConnectedSince: "6 months ago", MutualConnections: 15, Online: true, Skills: []string{"Growth", "Content"}},
		},

		Suggestions: []model.Suggestion{
			{ID: "sg1", Name: "Yuki T.", Initials: "YT", Role: "Product Manager", Company: "Rakuten", MatchScore: 94, Reason: "Shares your interest in AI + Product", MutualConnections: 6, Skills: []string{"Product", "AI", "Strategy"}},
			{ID: "sg2", Name: "Raj P.", Initials: "RP", Role: "Backend Engineer", Company: "Stripe", MatchScore: 89, Reason: "Complementary technical skills", MutualConnections: 3, Skills: []string{"Go", "Payments", "APIs"}},
			{ID: "sg3", Name: "Clara F.", Initials: "CF", Role: "Venture Partner", Company: "Sequoia Scout", MatchScore: 87, Reason: "Invests in your stage & sector", MutualConnections: 9, Skills: []string{"Investing", "SaaS", "B2B"}},
			{ID: "sg4", Name: "Omar S.", Initials: "OS", Role: "Design Lead", Company: "Figma", MatchScore: 82, Reason: "Strong design background for co-founding", MutualConnections: 2, Skills: []string{"Design Systems", "UX", "Branding"}},
		},

		IntroRequests: []workflow.Record[model.ConnectionRequest]{
			incoming("ir1", model.StatusPending, elena, ago(2*time.Hour), model.ConnectionRequest{Counterpart: elena, Message: "Hi Jane! I'm building a fintech startup and I think your product skills would be a perfect match. Would love to connect!"}),
			incoming("ir2", model.StatusPending, nikos, ago(5*time.Hour), model.ConnectionRequest{Counterpart: nikos, Message: "Impressed by your startup's traction. I'd like to discuss potential investment opportunities."}),
			incoming("ir3", model.StatusAccepted, sara, ago(day), model.ConnectionRequest{Counterpart: sara, Message: "Saw your post about looking for a design co-founder. I have 8 years of product design experience."}),
		},

		ConnectionRequests: []workflow.Record[model.ConnectionRequest]{
			incoming("pr1", model.StatusPending, cp("elena-v", "Elena V.", "EV", "Growth Lead at ScaleUp"), ago(2*time.Hour), model.ConnectionRequest{Message: "I'm building a fintech startup and would love to connect!", MutualConnections: 4}),
			incoming("pr2", model.StatusPending, nikos, ago(day), model.ConnectionRequest{Message: "Impressed by your work — let's chat.", MutualConnections: 7}),
			outgoing("pr3", model.StatusPending, cp("tom-h", "Tom H.", "TH", "CTO at DataFlow"), ago(3*day), model.ConnectionRequest{MutualConnections: 2}),
		},

		Proposals: []workflow.Record[model.Proposal]{
			incoming("p1", model.StatusPending, alex, ago(day), model.Proposal{Counterpart: alex, Scope: "Co-develop an AI validation tool. You handle product & UX, I handle engineering.", Timeframe: "6 months", Compensation: "50/50 equity split"}),
			incoming("p2", model.StatusPending, maria, ago(3*day), model.Proposal{Counterpart: maria, Scope: "€50k angel investment in exchange for advisory role and board observer seat.", Timeframe: "Ongoing", Compensation: "5% equity"}),
		},

		Applications: []workflow.Record[model.Application]{
			outgoing("a1", model.StatusPending, cp("healthsync", "HealthSync", "HS", ""), ago(3*day), model.Application{OpportunityTitle: "Frontend Lead — HealthSync", OrgName: "HealthSync", Message: "I have 6 years of React experience and led frontend at two health-tech startups.", Reviewing: true}),
			outgoing("a2", model.StatusAccepted, cp("agrotech", "AgroTech", "AT", ""), ago(7*day), model.Application{OpportunityTitle: "Product Advisor — AgroTech", OrgName: "AgroTech", Message: "Interested in offering advisory services based on my agri-tech background."}),
			outgoing("a3", model.StatusPending, cp("ai-tutor", "AI Tutor", "AI", ""), ago(day), model.Application{OpportunityTitle: "Co-founder — AI Tutor", OrgName: "AI Tutor", Message: "Your vision for AI in education aligns with my 10-year experience in edtech."}),
		},

		Conversations: []SeedConversation{
			{
				Conversation: model.Conversation{ID: "c1", Counterpart: alex, Unread: 2, Online: true},
				Messages: thread("c1", ago(40*time.Minute), 2*time.Minute,
					"Hey Jane! Thanks for accepting my intro request.",
					"> Hi Alex! Your profile really stood out. Tell me more about your AI startup idea.",
					"Sure! We're building an AI-powered tool for early-stage founders to validate ideas faster. Think of it as a co-pilot for product-market fit.",
					"> That's exactly the kind of problem I love solving. I've been working on similar validation frameworks.",
					"That sounds great! Let's schedule a call.",
				),
			},
			{
				Conversation: model.Conversation{ID: "c2", Counterpart: maria, Unread: 1, Online: true},
				Messages: append(thread("c2", ago(day+time.Hour), time.Minute,
					"Hi Jane, I came across your startup through CoFounderBay.",
					"> Hi Maria! Thanks for reaching out. Happy to share more details.",
				), model.Message{ID: "c2-m3", ConversationID: "c2", Sender: model.SenderCounterpart, Text: "I've reviewed the deck, very impressive metrics.", CreatedAt: ago(time.Hour)}),
			},
			{
				Conversation: model.Conversation{ID: "c3", Counterpart: sara, LastMessage: &model.Message{ID: "c3-last", ConversationID: "c3", Sender: model.SenderCounterpart, Text: "Here's the wireframe I mentioned.", CreatedAt: ago(3 * time.Hour)}},
			},
			{
				Conversation: model.Conversation{ID: "c4", Counterpart: dimitris, LastMessage: &model.Message{ID: "c4-last", ConversationID: "c4", Sender: model.SenderCounterpart, Text: "The MVP is coming along nicely!", CreatedAt: ago(day)}},
			},
		},
	}
}
