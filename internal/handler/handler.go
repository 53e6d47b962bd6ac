package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/trinnode/AfriHealthv2-sub003/internal/domain/events"
	"github.com/trinnode/AfriHealthv2-sub003/internal/relay"
	"github.com/trinnode/AfriHealthv2-sub003/internal/topics"
	pkgErrors "github.com/trinnode/AfriHealthv2-sub003/pkg/errors"
)

type Handler struct {
	registry  *topics.Registry
	publisher *relay.Publisher
}

func NewHandler(registry *topics.Registry, publisher *relay.Publisher) *Handler {
	return &Handler{
		registry:  registry,
		publisher: publisher,
	}
}

// recordRequest is the wire form of one record to publish: the event type,
// its domain fields, and optional correlation metadata.
type recordRequest struct {
	Type     string            `json:"type" binding:"required"`
	Payload  json.RawMessage   `json:"payload"`
	Metadata map[string]string `json:"metadata"`
}

type publishResponse struct {
	EventID        string `json:"event_id"`
	TransactionID  string `json:"transaction_id"`
	TopicID        string `json:"topic_id"`
	SequenceNumber uint64 `json:"sequence_number"`
}

// PublishMessages accepts a single record object or an array of them.
func (h *Handler) PublishMessages(c *gin.Context) {
	topicName := c.Param("name")

	rawData, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read request body"})
		return
	}

	var raw interface{}
	if err := json.Unmarshal(rawData, &raw); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON"})
		return
	}

	var requests []recordRequest
	switch raw.(type) {
	case map[string]interface{}:
		var req recordRequest
		if err := json.Unmarshal(rawData, &req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid record"})
			return
		}
		requests = []recordRequest{req}

	case []interface{}:
		if err := json.Unmarshal(rawData, &requests); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid record batch"})
			return
		}

	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "expected a record or an array of records"})
		return
	}

	responses := make([]publishResponse, 0, len(requests))
	for _, req := range requests {
		if req.Type == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "record type is required"})
			return
		}

		record, err := events.NewRecord(events.EventType(req.Type), req.Payload, req.Metadata)
		if err != nil {
			c.JSON(statusFor(err), gin.H{"error": err.Error()})
			return
		}

		receipt, err := h.publisher.Publish(c.Request.Context(), topicName, record)
		if err != nil {
			c.JSON(statusFor(err), gin.H{
				"error":     err.Error(),
				"published": responses,
			})
			return
		}

		responses = append(responses, publishResponse{
			EventID:        record.GetEventID(),
			TransactionID:  receipt.TransactionID,
			TopicID:        receipt.TopicID.String(),
			SequenceNumber: receipt.SequenceNumber,
		})
	}

	c.JSON(http.StatusOK, gin.H{"published": responses})
}

// ListTopics returns the registered channels.
func (h *Handler) ListTopics(c *gin.Context) {
	list := h.registry.List()

	type topicView struct {
		Name string `json:"name"`
		ID   string `json:"id"`
	}
	views := make([]topicView, 0, len(list))
	for _, t := range list {
		views = append(views, topicView{Name: t.Name, ID: t.ID.String()})
	}
	c.JSON(http.StatusOK, gin.H{"topics": views})
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func statusFor(err error) int {
	switch {
	case pkgErrors.Is(err, pkgErrors.ErrorTypeNotFound):
		return http.StatusNotFound
	case pkgErrors.Is(err, pkgErrors.ErrorTypePayloadTooLarge):
		return http.StatusRequestEntityTooLarge
	case pkgErrors.Is(err, pkgErrors.ErrorTypeValidation),
		pkgErrors.Is(err, pkgErrors.ErrorTypeDecode):
		return http.StatusBadRequest
	case pkgErrors.Is(err, pkgErrors.ErrorTypeTransport):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
