package pkg

import "net/http"

// Response is the JSON body of /healthz and /readyz. Pages are HTML; this is
// the only JSON the UI server writes besides the /api 404.
type Response struct {
	Code    int         `json:"code"`
	Data    interface{} `json:"data"`
	Message string      `json:"message"`
}

// NewResponse wraps data with its HTTP status and a short status word.
func NewResponse(code int, data interface{}, message string) Response {
	return Response{
		Code:    code,
		Data:    data,
		Message: message,
	}
}

// ReadinessResponse builds the /readyz body: 200 "ready" when every check
// passed, 503 "not ready" otherwise.
func ReadinessResponse(ready bool, checks interface{}) Response {
	data := map[string]interface{}{"ready": ready, "checks": checks}
	if ready {
		return NewResponse(http.StatusOK, data, "ready")
	}
	return NewResponse(http.StatusServiceUnavailable, data, "not ready")
}
