package response

// StandardApiResponse is the envelope every endpoint renders, success and
// error alike. Data carries the payload; Errors carries validation detail.
type StandardApiResponse struct {
	Status     string      `json:"status"`
	StatusCode int         `json:"status_code"`
	Message    string      `json:"message"`
	Data       interface{} `json:"data,omitempty"`
	Errors     interface{} `json:"errors,omitempty"`
}
