package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/publicsuffix"

	"prom_seating_console/logger"
)

const maxErrorBody = 64 << 10

type Config struct {
	BaseURL string
	Timeout time.Duration
	// Transport is shared between clients; nil means http.DefaultTransport.
	Transport http.RoundTripper
	Log       *logger.Logger
}

// Client talks to the seating backend. Every Client owns its cookie jar, so
// one Client is one backend session.
type Client struct {
	base *url.URL
	hc   *http.Client
	log  *logger.Logger
}

func New(cfg Config) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse backend url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("backend url %q must be absolute", cfg.BaseURL)
	}
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("cookie jar: %w", err)
	}
	log := cfg.Log
	if log == nil {
		log = logger.Discard()
	}
	return &Client{
		base: base,
		hc:   &http.Client{Jar: jar, Timeout: cfg.Timeout, Transport: cfg.Transport},
		log:  log,
	}, nil
}

func (c *Client) endpoint(elem ...string) string {
	return c.base.JoinPath(elem...).String()
}

func (c *Client) doJSON(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s: %w", path, err)
		}
		body = bytes.NewReader(buf)
	}
	req, err := http.NewRequestWithContext(ctx, method, path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	req.Header.Set("Accept", "application/json")
	path := req.URL.Path

	resp, err := c.hc.Do(req)
	if err != nil {
		c.log.Warningf("%s %s: %v", req.Method, path, err)
		return fmt.Errorf("%s %s: %w", req.Method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Method: req.Method, Path: path, StatusCode: resp.StatusCode}
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		var m struct {
			Message string `json:"message"`
			Error   string `json:"error"`
		}
		if json.Unmarshal(raw, &m) == nil {
			apiErr.Message = m.Message
			if apiErr.Message == "" {
				apiErr.Message = m.Error
			}
		}
		c.log.Debugf("%v", apiErr)
		return apiErr
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			err = errEmptyBody
		}
		return &DecodeError{Path: path, Err: err}
	}
	return nil
}

var errEmptyBody = errors.New("empty body")

// optionalBody accepts a 2xx without a body, for replies whose message is optional.
func optionalBody(err error) error {
	if errors.Is(err, errEmptyBody) {
		return nil
	}
	return err
}

// check validates a decoded wire value.
func check(path string, v any) error {
	if err := validate.Struct(v); err != nil {
		return &DecodeError{Path: path, Err: err}
	}
	return nil
}
