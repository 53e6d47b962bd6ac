// Package mirror reads topic messages from a Hedera mirror node REST API.
package mirror

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/trinnode/AfriHealthv2-sub003/internal/domain/model"
	"github.com/trinnode/AfriHealthv2-sub003/internal/domain/port"
	"github.com/trinnode/AfriHealthv2-sub003/pkg/config"
	"github.com/trinnode/AfriHealthv2-sub003/pkg/errors"
)

const defaultPageLimit = 100

// Client fetches topic messages over the mirror REST API, following
// pagination links until the query limit is met.
type Client struct {
	http    *retryablehttp.Client
	baseURL string
	origin  string // scheme://host, for resolving links.next paths
	logger  *slog.Logger
}

func NewClient(cfg config.MirrorConfig, logger *slog.Logger) (*Client, error) {
	base := strings.TrimRight(cfg.BaseURL, "/")
	parsed, err := url.Parse(base)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, errors.NewConfigurationError("invalid mirror base url").
			WithContext("base_url", cfg.BaseURL)
	}

	rc := retryablehttp.NewClient()
	rc.RetryMax = cfg.RetryMax
	rc.HTTPClient.Timeout = 30 * time.Second
	rc.Logger = nil

	return &Client{
		http:    rc,
		baseURL: base,
		origin:  fmt.Sprintf("%s://%s", parsed.Scheme, parsed.Host),
		logger:  logger,
	}, nil
}

// wire types, as served by /api/v1/topics/{id}/messages

type mirrorMessage struct {
	ConsensusTimestamp string `json:"consensus_timestamp"`
	Message            string `json:"message"` // base64
	SequenceNumber     uint64 `json:"sequence_number"`
	TopicID            string `json:"topic_id"`
}

type mirrorPage struct {
	Messages []mirrorMessage `json:"messages"`
	Links    struct {
		Next *string `json:"next"`
	} `json:"links"`
}

func (c *Client) TopicMessages(ctx context.Context, query port.MessageQuery) ([]model.TopicMessage, error) {
	limit := query.Limit
	if limit <= 0 {
		limit = defaultPageLimit
	}

	next := c.firstPageURL(query, limit)
	var result []model.TopicMessage

	for next != "" && len(result) < limit {
		page, err := c.fetchPage(ctx, next)
		if err != nil {
			return nil, err
		}

		for _, raw := range page.Messages {
			if len(result) >= limit {
				break
			}
			msg, err := c.decodeMessage(raw)
			if err != nil {
				// A record the mirror cannot round-trip is skipped, not fatal.
				c.logger.Warn("Skipping undecodable mirror message",
					"topic_id", raw.TopicID,
					"sequence_number", raw.SequenceNumber,
					"error", err,
				)
				continue
			}
			result = append(result, msg)
		}

		if page.Links.Next == nil || *page.Links.Next == "" {
			break
		}
		next = c.origin + *page.Links.Next
	}

	return result, nil
}

func (c *Client) firstPageURL(query port.MessageQuery, limit int) string {
	params := url.Values{}
	params.Set("order", "asc")
	params.Set("limit", strconv.Itoa(min(limit, defaultPageLimit)))
	if query.AfterSequence > 0 {
		params.Set("sequencenumber", fmt.Sprintf("gt:%d", query.AfterSequence))
	} else if !query.Since.IsZero() {
		params.Set("timestamp", fmt.Sprintf("gte:%d.%09d", query.Since.Unix(), query.Since.Nanosecond()))
	}
	return fmt.Sprintf("%s/api/v1/topics/%s/messages?%s", c.baseURL, query.TopicID, params.Encode())
}

func (c *Client) fetchPage(ctx context.Context, pageURL string) (*mirrorPage, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, errors.WrapInternalError(err, "failed to build mirror request")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.WrapTransportError(err, "mirror request failed").
			WithContext("url", pageURL)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, errors.NewTransportError("mirror returned non-OK status").
			WithContext("status", resp.StatusCode).
			WithContext("body", string(body))
	}

	var page mirrorPage
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, errors.WrapTransportError(err, "malformed mirror response")
	}
	return &page, nil
}

func (c *Client) decodeMessage(raw mirrorMessage) (model.TopicMessage, error) {
	payload, err := base64.StdEncoding.DecodeString(raw.Message)
	if err != nil {
		return model.TopicMessage{}, errors.WrapDecodeError(err, "invalid base64 payload")
	}
	return model.TopicMessage{
		TopicID:            model.TopicID(raw.TopicID),
		SequenceNumber:     raw.SequenceNumber,
		ConsensusTimestamp: parseConsensusTimestamp(raw.ConsensusTimestamp),
		Payload:            payload,
	}, nil
}

// parseConsensusTimestamp parses the mirror's "seconds.nanoseconds" form.
// A malformed timestamp yields the zero time rather than failing the message.
func parseConsensusTimestamp(ts string) time.Time {
	secsPart, nanosPart, _ := strings.Cut(ts, ".")
	secs, err := strconv.ParseInt(secsPart, 10, 64)
	if err != nil {
		return time.Time{}
	}
	var nanos int64
	if nanosPart != "" {
		// Right-pad to nanosecond precision before parsing.
		if len(nanosPart) < 9 {
			nanosPart += strings.Repeat("0", 9-len(nanosPart))
		}
		nanos, err = strconv.ParseInt(nanosPart[:9], 10, 64)
		if err != nil {
			nanos = 0
		}
	}
	return time.Unix(secs, nanos).UTC()
}

var _ port.MirrorClient = (*Client)(nil)
