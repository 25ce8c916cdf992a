// Package chatbot fronts the generative-AI service behind the dashboard's
// assistant. The gateway holds the API key; the browser only ever talks to
// the same-origin endpoint.
package chatbot

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"

	"floragate/internal/proxy"

	"github.com/gin-gonic/gin"
)

// Handler proxies chat requests to the generative-AI API.
type Handler struct {
	apiURL string
	apiKey string
	model  string
	http   *http.Client
}

// NewHandler creates a new chatbot handler. An empty apiKey leaves the
// endpoint mounted but failing fast with 503.
func NewHandler(apiURL, apiKey, model string) *Handler {
	return &Handler{
		apiURL: strings.TrimRight(apiURL, "/"),
		apiKey: apiKey,
		model:  model,
		http:   &http.Client{},
	}
}

// Chat handles POST /api/chatbot with {message, history}.
func (h *Handler) Chat(c *gin.Context) {
	if h.apiKey == "" {
		c.JSON(http.StatusServiceUnavailable, gin.H{"message": "chatbot is not configured"})
		return
	}

	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	payload, err := json.Marshal(buildGenerateRequest(req))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to encode upstream request"})
		return
	}

	target := h.apiURL + "/models/" + h.model + ":generateContent?key=" + url.QueryEscape(h.apiKey)
	upstream, err := http.NewRequestWithContext(c.Request.Context(), http.MethodPost, target, bytes.NewReader(payload))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to build upstream request"})
		return
	}
	upstream.Header.Set("Content-Type", "application/json")

	resp, err := h.http.Do(upstream)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"message": "chatbot service unavailable"})
		return
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"message": "failed to read chatbot response"})
		return
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.JSON(resp.StatusCode, gin.H{"message": proxy.ErrorMessage(body, resp.StatusCode)})
		return
	}

	var genResp generateResponse
	if err := json.Unmarshal(body, &genResp); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"message": "malformed chatbot response"})
		return
	}

	reply := firstCandidateText(genResp)
	if reply == "" {
		c.JSON(http.StatusBadGateway, gin.H{"message": "chatbot returned no reply"})
		return
	}

	c.JSON(http.StatusOK, ChatResponse{Reply: reply})
}

// buildGenerateRequest maps the dashboard conversation onto the upstream
// contents format. The assistant role is called "model" upstream.
func buildGenerateRequest(req ChatRequest) generateRequest {
	contents := make([]generateContent, 0, len(req.History)+1)
	for _, msg := range req.History {
		role := "user"
		if msg.Role == "assistant" || msg.Role == "model" {
			role = "model"
		}
		contents = append(contents, generateContent{
			Role:  role,
			Parts: []generatePart{{Text: msg.Content}},
		})
	}
	contents = append(contents, generateContent{
		Role:  "user",
		Parts: []generatePart{{Text: req.Message}},
	})
	return generateRequest{Contents: contents}
}

func firstCandidateText(resp generateResponse) string {
	for _, candidate := range resp.Candidates {
		for _, part := range candidate.Content.Parts {
			if part.Text != "" {
				return part.Text
			}
		}
	}
	return ""
}
