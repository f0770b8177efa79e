package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rileyhilliard/gapview/internal/errors"
	"github.com/rileyhilliard/gapview/internal/logger"
)

// maxPayloadBytes caps a single HTTP payload.
const maxPayloadBytes = 256 << 20

// HTTP fetches the payload with a GET request.
type HTTP struct {
	URL      string
	Encoding string
	Client   *http.Client
	Log      logger.Logger
}

// NewHTTP returns an HTTP source whose client gives up after timeout.
func NewHTTP(url, encoding string, timeout time.Duration, log logger.Logger) *HTTP {
	return &HTTP{
		URL:      url,
		Encoding: encoding,
		Client:   &http.Client{Timeout: timeout},
		Log:      log,
	}
}

// Fetch GETs the URL and decodes the body. The Content-Type header guides
// auto encoding.
func (h *HTTP) Fetch(ctx context.Context) (*Payload, error) {
	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.URL, nil)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("Bad source.url '%s'", h.URL),
			"Use a full URL like http://monitor:1226/graphDataComposite.json")
	}
	req.Header.Set("Accept", "application/json, application/yaml;q=0.9")
	req.Header.Set("Cache-Control", "no-cache")

	client := h.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrSource,
			fmt.Sprintf("Couldn't reach %s", h.URL),
			"Check the backend is up and source.url is right.")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.New(errors.ErrSource,
			fmt.Sprintf("%s answered %s", h.URL, resp.Status),
			statusSuggestion(resp.StatusCode))
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxPayloadBytes))
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrSource,
			fmt.Sprintf("Reading the response from %s failed", h.URL),
			"The connection dropped mid-transfer. Try again.")
	}

	p, err := Decode(data, h.Encoding, resp.Header.Get("Content-Type"), h.Log)
	if err != nil {
		return nil, err
	}
	if h.Log != nil {
		h.Log.Debug("fetched %s (%d bytes) in %s", h.URL, len(data), time.Since(start))
	}
	return p, nil
}

// Describe returns the URL.
func (h *HTTP) Describe() string {
	return h.URL
}

func statusSuggestion(code int) string {
	switch {
	case code == http.StatusUnauthorized, code == http.StatusForbidden:
		return "The backend refused access. Check it allows this client."
	case code == http.StatusNotFound:
		return "Wrong path? Check source.url."
	case code >= 500:
		return "The backend is having trouble. Check its logs."
	}
	return "Check source.url points at the payload endpoint."
}
