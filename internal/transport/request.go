package transport

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/agentstation/valetmerge/pkg/errors"
	"github.com/agentstation/valetmerge/pkg/logging"
)

// maxErrorBody bounds how much of a failed response ends up in an error message.
const maxErrorBody = 512

// DecodeResponse decodes a JSON response into target and closes the body.
// Any status outside 2xx is an *errors.APIError; a body that is not valid
// JSON for target is an *errors.ParseError. source names the feed in errors.
func DecodeResponse(resp *http.Response, source string, target any) error {
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logging.Warn().Err(err).Str("source", source).Msg("Failed to close response body")
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &errors.APIError{
			Source:   source,
			Message:  "failed to read response body",
			Endpoint: endpoint(resp),
			Err:      err,
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &errors.APIError{
			Source:     source,
			StatusCode: resp.StatusCode,
			Message:    snippet(body),
			Endpoint:   endpoint(resp),
		}
	}

	if err := json.Unmarshal(body, target); err != nil {
		return errors.WrapParse("json", endpoint(resp), err)
	}

	return nil
}

func endpoint(resp *http.Response) string {
	if resp.Request != nil && resp.Request.URL != nil {
		return resp.Request.URL.String()
	}
	return ""
}

func snippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > maxErrorBody {
		s = s[:maxErrorBody] + "..."
	}
	if s == "" {
		return "empty response"
	}
	return s
}
