package upload

import (
	"errors"
	"fmt"

	"github.com/moyoez/zipconsole/types"
)

// ExtractFailure turns whatever an upload attempt failed with into a FailureDetail.
// The first of these that applies wins:
//  1. an error carrying a non-empty response body (types.BodyCarrier)
//  2. an error with a non-empty message
//  3. the raw value, formatted with %v
func ExtractFailure(failure any) types.FailureDetail {
	if err, ok := failure.(error); ok && err != nil {
		var carrier types.BodyCarrier
		if errors.As(err, &carrier) {
			if body := carrier.ResponseBody(); !isEmptyBody(body) {
				return types.FailureDetail{Kind: types.FailureBody, Body: body}
			}
		}
		if msg := err.Error(); msg != "" {
			return types.FailureDetail{Kind: types.FailureMessage, Message: msg}
		}
	}
	return types.FailureDetail{Kind: types.FailureRaw, Raw: fmt.Sprintf("%v", failure)}
}

func isEmptyBody(body any) bool {
	switch b := body.(type) {
	case nil:
		return true
	case string:
		return b == ""
	case []byte:
		return len(b) == 0
	}
	return false
}
