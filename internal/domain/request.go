package domain

type RequestType string

const (
	RequestIntro  RequestType = "intro"
	RequestPOC    RequestType = "poc"
	RequestHiring RequestType = "hiring"
)

type RequestStatus string

const (
	StatusPending  RequestStatus = "pending"
	StatusAccepted RequestStatus = "accepted"
	StatusRejected RequestStatus = "rejected"
)

// CollabRequest is a collaboration request between two users, optionally
// tied to a project. Created pending; the only mutation is the status
// transition pending -> accepted | rejected, which is terminal.
type CollabRequest struct {
	ID         RequestID
	FromUserID UserID
	ToUserID   UserID    // empty when not addressed to a specific user
	ProjectID  ProjectID // empty when not tied to a project
	Type       RequestType
	Status     RequestStatus
	Message    string
	CreatedAt  Timestamp
	UpdatedAt  Timestamp
}

// HydratedRequest is a CollabRequest with its foreign references resolved
// for display. Owned by the presentation layer, recomputed on every
// hydration pass. A nil detail field means the referenced entity does not
// exist or its lookup failed; that never fails the batch.
type HydratedRequest struct {
	CollabRequest
	FromUserDetails *User
	ToUserDetails   *User
	ProjectDetails  *Project
}
