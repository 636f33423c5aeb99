package handlers

import (
	"github.com/gin-gonic/gin"

	apperrors "paisabook/internal/errors"
	"paisabook/internal/services"
)

// AnalysisHandler handles LLM-backed document analysis requests.
type AnalysisHandler struct {
	analysisService services.AnalysisServicer
}

// NewAnalysisHandler creates a new AnalysisHandler.
func NewAnalysisHandler(analysisService services.AnalysisServicer) *AnalysisHandler {
	return &AnalysisHandler{analysisService: analysisService}
}

// AnalyzeTextRequest carries the raw text to analyze.
type AnalyzeTextRequest struct {
	Text string `json:"text" binding:"required,trimmed_min,max=20000"`
}

// SuggestCategoryRequest carries an expense description to categorize.
type SuggestCategoryRequest struct {
	Description string `json:"description" binding:"required,trimmed_min,max=500"`
}

// AnalyzeReceipt extracts structured data from receipt text
// @Summary     Analyze a receipt
// @Description Extract merchant, amount, date and category from receipt text
// @Tags        analysis
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body AnalyzeTextRequest true "Receipt text"
// @Success     200 {object} services.ReceiptAnalysis "Extracted fields"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Model error"
// @Router      /ocr/receipt [post]
func (h *AnalysisHandler) AnalyzeReceipt(c *gin.Context) {
	var req AnalyzeTextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	analysis, err := h.analysisService.AnalyzeReceipt(c.Request.Context(), req.Text)
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondOK(c, analysis)
}

// SuggestCategory proposes a category for a description
// @Summary     Suggest a category
// @Description Propose an expense category for a free-text description
// @Tags        analysis
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body SuggestCategoryRequest true "Expense description"
// @Success     200 {object} services.CategorySuggestion "Suggested category"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Model error"
// @Router      /ocr/suggest-category [post]
func (h *AnalysisHandler) SuggestCategory(c *gin.Context) {
	var req SuggestCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	suggestion, err := h.analysisService.SuggestCategory(c.Request.Context(), req.Description)
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondOK(c, suggestion)
}

// AnalyzeIncomeDocument extracts structured data from an income document
// @Summary     Analyze an income document
// @Description Extract source, amount, date and recurrence from a salary slip or invoice
// @Tags        analysis
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body AnalyzeTextRequest true "Document text"
// @Success     200 {object} services.IncomeDocumentAnalysis "Extracted fields"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Model error"
// @Router      /ocr/income-document [post]
func (h *AnalysisHandler) AnalyzeIncomeDocument(c *gin.Context) {
	var req AnalyzeTextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	analysis, err := h.analysisService.AnalyzeIncomeDocument(c.Request.Context(), req.Text)
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondOK(c, analysis)
}
