package domain

// CreatePoolRequest is the body sent to the pool-creation endpoint.
type CreatePoolRequest struct {
	Title string `json:"title"`
}

// CreatePoolResponse is the body returned by the pool-creation endpoint.
// Code is what gets shared with invitees.
type CreatePoolResponse struct {
	Code string `json:"code"`
}
