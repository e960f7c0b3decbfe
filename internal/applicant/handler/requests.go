package handler

// TransitionRequest is the payload for deciding an application.
type TransitionRequest struct {
	Status string `json:"status"`
	Note   string `json:"note"`
}
