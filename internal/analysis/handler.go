package analysis

import (
	"errors"
	"net/http"

	"github.com/redmonkez12/sentiment-api/internal/auth"
	"github.com/redmonkez12/sentiment-api/internal/httputil"
	"github.com/redmonkez12/sentiment-api/internal/logging"
	"github.com/redmonkez12/sentiment-api/internal/sentiment"
)

const maxAnalyzeBody = 1 << 20

// Handler contains HTTP handlers for the analysis endpoints. Both routes sit behind the auth gate.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// AnalyzeRequest represents the analyze request body
type AnalyzeRequest struct {
	Review     string `json:"review"`
	MovieTitle string `json:"movieTitle"`
}

// Analyze scores a review and records it for the caller
// @Summary      Analyze a review
// @Description  Classify review text as positive, negative or neutral and record it in the caller's history.
// @Tags         analysis
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body AnalyzeRequest true "Review to analyze"
// @Success      200 {object} sentiment.Result
// @Failure      400 {object} httputil.ErrorResponse "Missing or oversized review"
// @Failure      401 {object} httputil.ErrorResponse "Missing or malformed token"
// @Failure      403 {object} httputil.ErrorResponse "Invalid or expired token"
// @Failure      500 {object} httputil.ErrorResponse "Scoring failed"
// @Router       /analyze [post]
func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.RespondErrorWithCode(w, "access denied", httputil.CodeMissingAuth, http.StatusUnauthorized)
		return
	}

	var req AnalyzeRequest
	if err := httputil.DecodeJSON(w, r, &req, maxAnalyzeBody); err != nil {
		logger.Warn("invalid analyze request body", "error", err.Error())
		httputil.RespondErrorWithCode(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	outcome, err := h.service.Analyze(r.Context(), userID, req.MovieTitle, req.Review)
	if err != nil {
		switch {
		case errors.Is(err, ErrReviewRequired):
			httputil.RespondErrorWithCode(w, err.Error(), httputil.CodeReviewRequired, http.StatusBadRequest)
			return
		case errors.Is(err, ErrReviewTooLong):
			httputil.RespondErrorWithCode(w, err.Error(), httputil.CodeReviewTooLong, http.StatusBadRequest)
			return
		}
		httputil.RespondErrorWithCode(w, "failed to analyze review", httputil.CodeAnalysisFailed, http.StatusInternalServerError)
		return
	}

	httputil.RespondJSON(w, sentiment.Result{
		Sentiment:  outcome.Result.Sentiment,
		Confidence: outcome.Result.Confidence,
	}, http.StatusOK)
}

// ListReviews returns the caller's analyses, most recent first
// @Summary      Review history
// @Description  List every analysis recorded for the caller, most recent first.
// @Tags         analysis
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} review.Review
// @Failure      401 {object} httputil.ErrorResponse "Missing or malformed token"
// @Failure      403 {object} httputil.ErrorResponse "Invalid or expired token"
// @Failure      500 {object} httputil.ErrorResponse "Storage failure"
// @Router       /reviews [get]
func (h *Handler) ListReviews(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.RespondErrorWithCode(w, "access denied", httputil.CodeMissingAuth, http.StatusUnauthorized)
		return
	}

	reviews, err := h.service.History(r.Context(), userID)
	if err != nil {
		logger.Error("failed to list reviews", "user_id", userID, "error", err.Error())
		httputil.RespondErrorWithCode(w, "failed to load reviews", httputil.CodeHistoryFailed, http.StatusInternalServerError)
		return
	}

	httputil.RespondJSON(w, reviews, http.StatusOK)
}
