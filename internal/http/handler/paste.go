// Package handler provides the page and probe handlers of the pasteshare UI.
package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/roguepikachu/pasteshare/internal/apiclient"
	"github.com/roguepikachu/pasteshare/internal/domain"
	"github.com/roguepikachu/pasteshare/pkg/logger"
)

const (
	createTemplate = "create.tmpl"
	viewTemplate   = "view.tmpl"

	msgIncorrectPassword = "Incorrect password"
	msgInvalidNumbers    = "Expiry and view limit must be positive whole numbers"
)

// PasteClient is the part of the API client used by the pages.
type PasteClient interface {
	CreatePaste(ctx context.Context, req domain.CreatePasteRequest) (domain.PasteResponse, error)
	GetPaste(ctx context.Context, id, password string) (domain.ViewPasteResponse, error)
	CheckHealth(ctx context.Context) bool
}

// ClientFactory returns a client bound to the frontend page serving the request.
type ClientFactory func(page apiclient.Page) PasteClient

// PasteHandler renders the create and view pages.
type PasteHandler struct {
	clients      ClientFactory
	publicOrigin string
}

// NewPasteHandler creates a PasteHandler. An empty publicOrigin means the
// frontend origin is derived from each request.
func NewPasteHandler(clients ClientFactory, publicOrigin string) *PasteHandler {
	return &PasteHandler{clients: clients, publicOrigin: apiclient.NormalizeBase(publicOrigin)}
}

type pageData struct {
	Title          string
	APIStatus      string
	Error          string
	Form           domain.CreatePasteForm
	Created        *domain.PasteResponse
	ID             string
	Paste          *domain.ViewPasteResponse
	PasswordPrompt bool
}

// CreateForm renders the empty create page along with the API status indicator.
func (h *PasteHandler) CreateForm(c *gin.Context) {
	c.HTML(http.StatusOK, createTemplate, pageData{
		Title:     "New paste",
		APIStatus: h.apiStatus(c),
	})
}

// Create submits the create form to the API.
func (h *PasteHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()
	var form domain.CreatePasteForm
	if err := c.ShouldBind(&form); err != nil {
		logger.WithField(ctx, "error", err).Debug("create form rejected")
		form.Password = ""
		c.HTML(http.StatusBadRequest, createTemplate, pageData{
			Title: "New paste",
			Error: formError(form),
			Form:  form,
		})
		return
	}
	req := form.ToRequest()
	if err := req.Validate(); err != nil {
		form.Password = ""
		c.HTML(http.StatusBadRequest, createTemplate, pageData{Title: "New paste", Error: err.Error(), Form: form})
		return
	}

	res, err := h.client(c).CreatePaste(ctx, req)
	if err != nil {
		form.Password = ""
		c.HTML(http.StatusBadGateway, createTemplate, pageData{Title: "New paste", Error: err.Error(), Form: form})
		return
	}
	logger.WithField(ctx, "paste_id", res.ID).Info("paste created")
	c.HTML(http.StatusCreated, createTemplate, pageData{Title: "Paste created", Created: &res})
}

// View renders a paste, or the password prompt when the paste is protected.
func (h *PasteHandler) View(c *gin.Context) {
	h.renderPaste(c, c.Param("id"), "")
}

// Unlock retries a protected paste with the submitted password.
func (h *PasteHandler) Unlock(c *gin.Context) {
	id := c.Param("id")
	password := c.PostForm("password")
	if password == "" {
		c.HTML(http.StatusUnauthorized, viewTemplate, pageData{
			Title:          "Password required",
			ID:             id,
			Error:          apiclient.MsgPasswordRequired,
			PasswordPrompt: true,
		})
		return
	}
	h.renderPaste(c, id, password)
}

func (h *PasteHandler) renderPaste(c *gin.Context, id, password string) {
	p, err := h.client(c).GetPaste(c.Request.Context(), id, password)
	switch {
	case err == nil:
		title := p.Title
		if title == "" {
			title = "Paste " + id
		}
		c.HTML(http.StatusOK, viewTemplate, pageData{Title: title, ID: id, Paste: &p})
	case apiclient.IsPasswordRequired(err):
		data := pageData{Title: "Password required", ID: id, PasswordPrompt: true}
		if password != "" {
			data.Error = msgIncorrectPassword
		}
		c.HTML(http.StatusUnauthorized, viewTemplate, data)
	case apiclient.IsNotFound(err):
		c.HTML(http.StatusNotFound, viewTemplate, pageData{Title: "Not found", ID: id, Error: err.Error()})
	case errors.Is(err, context.Canceled):
		c.Status(http.StatusServiceUnavailable)
	default:
		c.HTML(http.StatusBadGateway, viewTemplate, pageData{Title: "Error", ID: id, Error: err.Error()})
	}
}

func (h *PasteHandler) apiStatus(c *gin.Context) string {
	if h.client(c).CheckHealth(c.Request.Context()) {
		return "online"
	}
	return "offline"
}

func (h *PasteHandler) client(c *gin.Context) PasteClient {
	return h.clients(h.page(c))
}

// page describes the frontend serving c: the configured public origin, or
// the scheme and host the request arrived on.
func (h *PasteHandler) page(c *gin.Context) apiclient.Page {
	origin := h.publicOrigin
	if origin == "" {
		scheme := "http"
		if c.Request.TLS != nil || strings.EqualFold(c.GetHeader("X-Forwarded-Proto"), "https") {
			scheme = "https"
		}
		origin = scheme + "://" + c.Request.Host
	}
	return apiclient.PageFor(origin)
}

func formError(form domain.CreatePasteForm) string {
	if form.Content == "" {
		return "Content is required"
	}
	return msgInvalidNumbers
}
