package transfer

import (
	"fmt"

	"github.com/moyoez/zipconsole/types"
)

// ResponseError is a non-2xx reply from the processing server. Body holds the decoded payload.
type ResponseError struct {
	Op         string
	StatusCode int
	Status     string
	Body       any
}

func newResponseError(op string, rep *reply) *ResponseError {
	return &ResponseError{
		Op:         op,
		StatusCode: rep.StatusCode,
		Status:     rep.Status,
		Body:       decodeBody(rep.Body),
	}
}

func (e *ResponseError) Error() string {
	if e.Body == nil {
		return fmt.Sprintf("%s failed: %s", e.Op, e.Status)
	}
	detail := types.FailureDetail{Kind: types.FailureBody, Body: e.Body}
	return fmt.Sprintf("%s failed: %s: %s", e.Op, e.Status, detail.Summary())
}

// ResponseBody exposes the server payload to failure extraction.
func (e *ResponseError) ResponseBody() any {
	return e.Body
}
