package domain

import "context"

// CompletionClient defines how the application talks to a chat-completion
// provider. An empty model selects the configured default. Implementations
// perform one outbound call per invocation and never retry.
type CompletionClient interface {
	Complete(ctx context.Context, messages []ChatMessage, model string) (string, error)
}

// UserStore defines user persistence.
type UserStore interface {
	GetUser(ctx context.Context, id UserID) (*User, error)
	UpdateUser(ctx context.Context, user *User) error
	ListUsersByRole(ctx context.Context, role UserRole) ([]*User, error)
}

// ProjectFilter narrows a project listing. Zero values mean "no filter".
type ProjectFilter struct {
	OwnerID UserID
	Domain  string
	Status  ProjectStatus
	Limit   int
}

// ProjectStore defines project persistence.
type ProjectStore interface {
	CreateProject(ctx context.Context, p *Project) error
	GetProject(ctx context.Context, id ProjectID) (*Project, error)
	ListProjects(ctx context.Context, f ProjectFilter) ([]*Project, error)
	UpdateProject(ctx context.Context, p *Project) error
}

// RequestDirection selects which side of a request listing a user is on.
type RequestDirection string

const (
	DirectionSent     RequestDirection = "sent"
	DirectionReceived RequestDirection = "received"
)

// RequestStore defines collaboration request persistence.
type RequestStore interface {
	CreateRequest(ctx context.Context, r *CollabRequest) error
	GetRequest(ctx context.Context, id RequestID) (*CollabRequest, error)
	UpdateRequestStatus(ctx context.Context, id RequestID, status RequestStatus, updatedAt Timestamp) error
	ListRequests(ctx context.Context, userID UserID, dir RequestDirection) ([]*CollabRequest, error)
}

// RequestFeed is a live subscription over a user's requests. The callback
// receives the full current result set on every change, in arrival order.
// Subscribe blocks until ctx is cancelled or the feed fails.
type RequestFeed interface {
	Subscribe(ctx context.Context, userID UserID, dir RequestDirection, fn func([]*CollabRequest)) error
}

// TranscriptStore persists a chat widget transcript per session.
type TranscriptStore interface {
	LoadTranscript(ctx context.Context, sessionID string) ([]ChatTurn, error)
	SaveTranscript(ctx context.Context, sessionID string, turns []ChatTurn) error
}
