package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hellowhq67/pte-practice-service/internal/models"
	"github.com/hellowhq67/pte-practice-service/internal/repositories"
	"github.com/hellowhq67/pte-practice-service/internal/services"
	"github.com/hellowhq67/pte-practice-service/internal/utils"
)

type PracticeHandler struct {
	BaseHandler
	practiceService services.PracticeService
	aiScoring       services.AIScoringService
}

func NewPracticeHandler(
	practiceService services.PracticeService,
	aiScoring services.AIScoringService,
	logger utils.Logger,
) *PracticeHandler {
	return &PracticeHandler{
		BaseHandler:     NewBaseHandler(logger),
		practiceService: practiceService,
		aiScoring:       aiScoring,
	}
}

// SubmitAttempt scores a response and records the attempt
// @Summary Submit practice attempt
// @Tags practice
// @Accept json
// @Produce json
// @Param attempt body services.SubmitRequest true "Attempt data"
// @Success 200 {object} services.SubmitResult
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /practice/submit [post]
func (h *PracticeHandler) SubmitAttempt(c *gin.Context) {
	var req services.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Submitting attempt", "user_id", req.UserID, "question_id", req.QuestionID)

	result, err := h.practiceService.Submit(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetAttempt returns one attempt with its question
func (h *PracticeHandler) GetAttempt(c *gin.Context) {
	id := parseIDParam(c, "id")
	if id == 0 {
		return
	}

	attempt, err := h.practiceService.GetAttempt(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, attempt)
}

// ScoreAttemptWithAI runs the AI scorer for a pending speaking/writing attempt
// @Summary AI-score an attempt
// @Tags practice
// @Produce json
// @Param id path uint true "Attempt ID"
// @Success 200 {object} models.AIReport
// @Failure 404 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /practice/attempts/{id}/ai-score [post]
func (h *PracticeHandler) ScoreAttemptWithAI(c *gin.Context) {
	id := parseIDParam(c, "id")
	if id == 0 {
		return
	}
	h.LogRequest(c, "AI-scoring attempt", "attempt_id", id)

	report, err := h.aiScoring.ScoreAttempt(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// GetHistory lists a user's attempts, newest first
func (h *PracticeHandler) GetHistory(c *gin.Context) {
	userID := parseStringParam(c, "user_id")
	if userID == "" {
		return
	}

	filters := repositories.AttemptFilters{
		Limit:  parseIntQuery(c, "limit", 20),
		Offset: parseIntQuery(c, "offset", 0),
	}
	if taskType := c.Query("type"); taskType != "" {
		t := models.TaskType(taskType)
		filters.TaskType = &t
	}

	attempts, total, err := h.practiceService.History(c.Request.Context(), userID, filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, PagedResponse{Items: attempts, Total: total})
}

// GetUserStats returns a user's aggregate practice statistics
func (h *PracticeHandler) GetUserStats(c *gin.Context) {
	userID := parseStringParam(c, "user_id")
	if userID == "" {
		return
	}

	stats, err := h.practiceService.UserStats(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
