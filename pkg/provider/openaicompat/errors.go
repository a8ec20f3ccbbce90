package openaicompat

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/unillm/unillm/pkg/llm"
	"github.com/unillm/unillm/pkg/transport"
)

// MapHTTPError converts a non-2xx response into a provider error carrying
// the vendor's message when the body parses as the standard envelope. The
// body is consumed and closed.
func MapHTTPError(service llm.Service, resp *transport.Response) *llm.Error {
	message := ExtractErrorMessage(resp.Body)
	resp.Body.Close()
	if message == "" {
		message = fmt.Sprintf("request failed with status %s", resp.Status)
	}
	return llm.NewProviderError(service, resp.StatusCode, message)
}

// ExtractErrorMessage tries to parse the body as a ChatErrorResponse and
// returns the vendor message if found. Reads at most 4KB.
func ExtractErrorMessage(body io.Reader) string {
	if body == nil {
		return ""
	}
	data, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil || len(data) == 0 {
		return ""
	}
	var errResp ChatErrorResponse
	if err := json.Unmarshal(data, &errResp); err == nil && errResp.Error.Message != "" {
		return errResp.Error.Message
	}
	return ""
}
