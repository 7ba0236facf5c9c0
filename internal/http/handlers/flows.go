package handlers

import (
	"errors"
	"net/http"

	"quiz_webapp/internal/flow"
	"quiz_webapp/internal/quiz"

	"github.com/gin-gonic/gin"
)

type OpenFlowRequest struct {
	Topic string `json:"topic"`
}

type flowResponse struct {
	FlowID string     `json:"flow_id"`
	State  flow.State `json:"state"`
	Form   quiz.Form  `json:"form"`
}

func snapshot(c *flow.Controller) flowResponse {
	st, form := c.Snapshot()
	return flowResponse{FlowID: c.ID(), State: st, Form: form}
}

// OpenFlow starts a creation flow. The topic hint comes from the body or ?topic=.
func (h *Handler) OpenFlow(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req OpenFlowRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
			return
		}
	}
	if req.Topic == "" {
		req.Topic = c.Query("topic")
	}

	ctrl := h.Flows.Open(userID, req.Topic)
	c.JSON(http.StatusCreated, snapshot(ctrl))
}

func (h *Handler) GetFlow(c *gin.Context) {
	ctrl, ok := h.flowFor(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, snapshot(ctrl))
}

// SubmitFlow validates the form and starts the creation request.
func (h *Handler) SubmitFlow(c *gin.Context) {
	ctrl, ok := h.flowFor(c)
	if !ok {
		return
	}

	var form quiz.Form
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	err := ctrl.Submit(form)

	var ve *quiz.ValidationError
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":  "validation failed",
			"fields": ve.Fields,
		})
	case errors.Is(err, flow.ErrFlowClosed):
		c.JSON(http.StatusNotFound, gin.H{"error": "flow not found"})
	case errors.Is(err, flow.ErrSubmissionInFlight):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "submit failed"})
	default:
		c.JSON(http.StatusAccepted, snapshot(ctrl))
	}
}

func (h *Handler) CloseFlow(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	if err := h.Flows.Close(c.Param("id"), userID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "flow not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

// FlowEvents streams toast, navigation and state events of a flow over a websocket.
func (h *Handler) FlowEvents(c *gin.Context) {
	ctrl, ok := h.flowFor(c)
	if !ok {
		return
	}
	userID, _ := getUserID(c)
	h.Hub.Serve(c, userID, ctrl, h.AllowedOrigin)
}

func (h *Handler) flowFor(c *gin.Context) (*flow.Controller, bool) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return nil, false
	}

	ctrl, err := h.Flows.Get(c.Param("id"), userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "flow not found"})
		return nil, false
	}
	return ctrl, true
}
