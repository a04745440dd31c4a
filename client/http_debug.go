package client

import (
	"net/http"
	"net/http/httputil"
	"os"

	"github.com/rs/zerolog/log"
)

// debugTransport logs every request and response at debug level. Dumps
// include the query string, and with it the session token, so it is meant
// for local troubleshooting only.
//
// Enable it with FSAD_DEBUG=true or DEBUG=true, or WithDebugLogging(true).
type debugTransport struct{ base http.RoundTripper }

func (dt *debugTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := dt.base
	if base == nil {
		base = http.DefaultTransport
	}
	if reqDump, err := httputil.DumpRequestOut(req, true); err == nil {
		log.Debug().Str("method", req.Method).Str("path", req.URL.Path).Str("request_dump", string(reqDump)).Msg("HTTP request")
	}

	resp, err := base.RoundTrip(req)
	if err != nil {
		log.Error().Err(err).Str("method", req.Method).Str("path", req.URL.Path).Msg("HTTP request failed")
		return nil, err
	}

	if respDump, err := httputil.DumpResponse(resp, true); err == nil {
		log.Debug().Str("method", req.Method).Str("path", req.URL.Path).Int("status_code", resp.StatusCode).Str("response_dump", string(respDump)).Msg("HTTP response")
	}
	return resp, nil
}

// debugLoggingRequested reports whether FSAD_DEBUG or DEBUG is "true".
func debugLoggingRequested() bool {
	return os.Getenv("FSAD_DEBUG") == "true" || os.Getenv("DEBUG") == "true"
}
