package handler

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Riftal-Studios/TaxHive-sub007/internal/config"
	"github.com/Riftal-Studios/TaxHive-sub007/internal/domain"
	"github.com/Riftal-Studios/TaxHive-sub007/internal/gstr"
	"github.com/Riftal-Studios/TaxHive-sub007/internal/recon"
	"github.com/Riftal-Studios/TaxHive-sub007/internal/xlsxreport"
)

// ReconHandler exposes the reconciliation engine over HTTP. The engine itself
// stays a pure library; this layer only adapts transport.
type ReconHandler struct {
	reconciler *recon.Reconciler
}

// NewReconHandler builds the handler and its reconciler from configuration.
func NewReconHandler(cfg *config.Config) *ReconHandler {
	return &ReconHandler{reconciler: recon.New(cfg)}
}

// ReconcileRequest is the body for POST /reconcile and the workbook endpoint.
type ReconcileRequest struct {
	Period    string                  `json:"period"`
	AsOf      string                  `json:"as_of" binding:"required"`
	Document  *gstr.ReturnDocument    `json:"document" binding:"required"`
	Purchases []domain.PurchaseRecord `json:"purchases"`
	Events    []recon.ReversalEvent   `json:"events,omitempty"`
}

func (r *ReconcileRequest) toInput() (recon.Input, error) {
	asOf, err := time.Parse("2006-01-02", r.AsOf)
	if err != nil {
		return recon.Input{}, fmt.Errorf("as_of must be YYYY-MM-DD: %w", err)
	}
	return recon.Input{
		Period:    r.Period,
		Document:  r.Document,
		Purchases: r.Purchases,
		AsOf:      asOf,
		Events:    r.Events,
	}, nil
}

// Reconcile runs a full reconciliation over one filing period.
// POST /api/v1/reconcile
func (h *ReconHandler) Reconcile(c *gin.Context) {
	var req ReconcileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}
	in, err := req.toInput()
	if err != nil {
		RespondError(c, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}
	report, err := h.reconciler.Run(in)
	if err != nil {
		status, code, msg := MapDomainError(err)
		RespondError(c, status, code, msg)
		return
	}
	RespondOK(c, report)
}

// ValidateReturn checks a return document in validate-only mode, collecting
// every row-level error instead of failing on the first.
// POST /api/v1/returns/validate
func (h *ReconHandler) ValidateReturn(c *gin.Context) {
	var doc gstr.ReturnDocument
	if err := c.ShouldBindJSON(&doc); err != nil {
		RespondError(c, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}
	errs := gstr.ValidateOnly(&doc)
	RespondOK(c, gin.H{
		"valid":  len(errs) == 0,
		"errors": errs,
	})
}

// ReconcileWorkbook runs a reconciliation and streams the report as an XLSX
// workbook.
// POST /api/v1/reconcile/xlsx
func (h *ReconHandler) ReconcileWorkbook(c *gin.Context) {
	var req ReconcileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}
	in, err := req.toInput()
	if err != nil {
		RespondError(c, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}
	report, err := h.reconciler.Run(in)
	if err != nil {
		status, code, msg := MapDomainError(err)
		RespondError(c, status, code, msg)
		return
	}

	filename := fmt.Sprintf("reconciliation-%s.xlsx", report.Summary.Period)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if err := xlsxreport.WriteTo(report, c.Writer); err != nil {
		log.Printf("handler.ReconHandler: workbook write failed: %v", err)
	}
}
