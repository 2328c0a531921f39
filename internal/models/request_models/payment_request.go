package request_models

type CheckoutRequest struct {
	// ReturnPath is appended to the frontend URL for the success and cancel
	// redirects.
	ReturnPath string `json:"return_path" binding:"omitempty,startswith=/"`
}
