package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hellowhq67/pte-practice-service/internal/models"
	"github.com/hellowhq67/pte-practice-service/internal/repositories"
	"github.com/hellowhq67/pte-practice-service/internal/services"
	"github.com/hellowhq67/pte-practice-service/internal/utils"
)

type QuestionHandler struct {
	BaseHandler
	questionService services.QuestionService
	importService   services.ImportService
}

func NewQuestionHandler(
	questionService services.QuestionService,
	importService services.ImportService,
	logger utils.Logger,
) *QuestionHandler {
	return &QuestionHandler{
		BaseHandler:     NewBaseHandler(logger),
		questionService: questionService,
		importService:   importService,
	}
}

// CreateQuestion creates a new question
// @Summary Create question
// @Tags questions
// @Accept json
// @Produce json
// @Param question body services.CreateQuestionRequest true "Question data"
// @Success 201 {object} models.Question
// @Failure 400 {object} ErrorResponse
// @Router /questions [post]
func (h *QuestionHandler) CreateQuestion(c *gin.Context) {
	h.LogRequest(c, "Creating question")

	var req services.CreateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	question, err := h.questionService.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, question)
}

// GetQuestion retrieves a question by ID
// @Summary Get question
// @Tags questions
// @Produce json
// @Param id path uint true "Question ID"
// @Success 200 {object} models.Question
// @Failure 404 {object} ErrorResponse
// @Router /questions/{id} [get]
func (h *QuestionHandler) GetQuestion(c *gin.Context) {
	id := parseIDParam(c, "id")
	if id == 0 {
		return
	}

	question, err := h.questionService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, question)
}

// ListQuestions lists questions with optional section/type/difficulty filters
// @Summary List questions
// @Tags questions
// @Produce json
// @Success 200 {object} PagedResponse
// @Router /questions [get]
func (h *QuestionHandler) ListQuestions(c *gin.Context) {
	filters := h.parseQuestionFilters(c)

	questions, total, err := h.questionService.List(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, PagedResponse{Items: questions, Total: total})
}

// GetRandomQuestions picks random questions for a practice session
// @Summary Random questions
// @Tags questions
// @Produce json
// @Success 200 {array} models.Question
// @Router /questions/random [get]
func (h *QuestionHandler) GetRandomQuestions(c *gin.Context) {
	filters := repositories.RandomQuestionFilters{
		Count: parseIntQuery(c, "count", 1),
	}
	if section := c.Query("section"); section != "" {
		s := models.Section(section)
		filters.Section = &s
	}
	if taskType := c.Query("type"); taskType != "" {
		t := models.TaskType(taskType)
		filters.Type = &t
	}
	if difficulty := c.Query("difficulty"); difficulty != "" {
		d := models.DifficultyLevel(difficulty)
		filters.Difficulty = &d
	}

	questions, err := h.questionService.GetRandom(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, questions)
}

// UpdateQuestion updates an existing question
func (h *QuestionHandler) UpdateQuestion(c *gin.Context) {
	id := parseIDParam(c, "id")
	if id == 0 {
		return
	}
	h.LogRequest(c, "Updating question", "question_id", id)

	var req services.UpdateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	question, err := h.questionService.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, question)
}

// DeleteQuestion removes a question from the bank
func (h *QuestionHandler) DeleteQuestion(c *gin.Context) {
	id := parseIDParam(c, "id")
	if id == 0 {
		return
	}
	h.LogRequest(c, "Deleting question", "question_id", id)

	if err := h.questionService.Delete(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Question deleted"})
}

// GetQuestionStats returns aggregate attempt statistics for a question
func (h *QuestionHandler) GetQuestionStats(c *gin.Context) {
	id := parseIDParam(c, "id")
	if id == 0 {
		return
	}

	stats, err := h.questionService.GetStats(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// GetQuestionCounts returns question counts per task type
func (h *QuestionHandler) GetQuestionCounts(c *gin.Context) {
	counts, err := h.questionService.CountByType(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, counts)
}

// ImportQuestions imports a question bank from an uploaded xlsx/csv file
// @Summary Import questions
// @Tags questions
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Spreadsheet file"
// @Success 200 {object} models.ImportSummary
// @Failure 400 {object} ErrorResponse
// @Router /questions/import [post]
func (h *QuestionHandler) ImportQuestions(c *gin.Context) {
	h.LogRequest(c, "Importing questions")

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Missing file upload",
			Details: err.Error(),
		})
		return
	}
	defer file.Close()

	importedBy := c.GetHeader("X-User-ID")
	summary, err := h.importService.ImportQuestionsFromFile(c.Request.Context(), file, header.Filename, importedBy)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// ExportQuestions streams the matching questions as an xlsx workbook
func (h *QuestionHandler) ExportQuestions(c *gin.Context) {
	filters := h.parseQuestionFilters(c)

	workbook, err := h.importService.ExportQuestionsToExcel(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="questions.xlsx"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", workbook)
}

func (h *QuestionHandler) parseQuestionFilters(c *gin.Context) repositories.QuestionFilters {
	filters := repositories.QuestionFilters{
		Limit:     parseIntQuery(c, "limit", 20),
		Offset:    parseIntQuery(c, "offset", 0),
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
	}
	if section := c.Query("section"); section != "" {
		s := models.Section(section)
		filters.Section = &s
	}
	if taskType := c.Query("type"); taskType != "" {
		t := models.TaskType(taskType)
		filters.Type = &t
	}
	if difficulty := c.Query("difficulty"); difficulty != "" {
		d := models.DifficultyLevel(difficulty)
		filters.Difficulty = &d
	}
	return filters
}
