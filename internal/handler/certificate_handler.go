package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/member-portal-api/internal/dto"
	"github.com/noah-isme/member-portal-api/internal/models"
	"github.com/noah-isme/member-portal-api/pkg/response"
)

type certificateService interface {
	Request(ctx context.Context, identity *models.Identity, req models.CreateCertificateRequest) (string, error)
	ListMine(ctx context.Context, identity *models.Identity) ([]dto.CertificateResponse, error)
	ListPending(ctx context.Context, identity *models.Identity) ([]models.CertificateRequest, error)
	ExportPending(ctx context.Context, identity *models.Identity) ([]byte, error)
	UpdateStatus(ctx context.Context, identity *models.Identity, id string, req models.UpdateCertificateStatusRequest, meta models.RequestMeta) (*models.CertificateRequest, error)
}

// CertificateHandler exposes the certificate request workflow.
type CertificateHandler struct {
	service certificateService
}

// NewCertificateHandler creates a new handler.
func NewCertificateHandler(svc certificateService) *CertificateHandler {
	return &CertificateHandler{service: svc}
}

// Request godoc
// @Summary Request certificate
// @Tags Certificates
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body models.CreateCertificateRequest true "Certificate request"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /certificates [post]
func (h *CertificateHandler) Request(c *gin.Context) {
	var req models.CreateCertificateRequest
	if !bindJSON(c, &req, "invalid certificate request") {
		return
	}
	id, err := h.service.Request(c.Request.Context(), identityFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.CreatedResponse{ID: id})
}

// ListMine godoc
// @Summary My certificate requests
// @Tags Certificates
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /certificates/mine [get]
func (h *CertificateHandler) ListMine(c *gin.Context) {
	items, err := h.service.ListMine(c.Request.Context(), identityFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, items, map[string]interface{}{"count": len(items)})
}

// ListPending godoc
// @Summary Pending certificate requests
// @Tags Certificates
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /certificates/pending [get]
func (h *CertificateHandler) ListPending(c *gin.Context) {
	items, err := h.service.ListPending(c.Request.Context(), identityFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, items, map[string]interface{}{"count": len(items)})
}

// ExportPending godoc
// @Summary Export pending requests
// @Tags Certificates
// @Produce text/csv
// @Security BearerAuth
// @Success 200 {file} file
// @Router /certificates/pending/export [get]
func (h *CertificateHandler) ExportPending(c *gin.Context) {
	data, err := h.service.ExportPending(c.Request.Context(), identityFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	filename := fmt.Sprintf("pending-certificates-%s.csv", time.Now().UTC().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
}

// UpdateStatus godoc
// @Summary Review certificate request
// @Description Approve or reject a pending request. Executive or admin only.
// @Tags Certificates
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Certificate request ID"
// @Param payload body models.UpdateCertificateStatusRequest true "Review"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /certificates/{id}/status [patch]
func (h *CertificateHandler) UpdateStatus(c *gin.Context) {
	var req models.UpdateCertificateStatusRequest
	if !bindJSON(c, &req, "invalid review payload") {
		return
	}
	record, err := h.service.UpdateStatus(c.Request.Context(), identityFromContext(c), c.Param("id"), req, requestMeta(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, record)
}
