package dto

// StatusResponse is a minimal acknowledgement body.
type StatusResponse struct {
	Status string `json:"status"`
}

// DeleteResponse reports what a delete removed.
type DeleteResponse struct {
	ID      string `json:"id"`
	Deleted int64  `json:"deleted,omitempty"`
}
