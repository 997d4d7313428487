package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/hellowhq67/pte-practice-service/internal/services"
	"github.com/hellowhq67/pte-practice-service/internal/utils"
)

type HandlerManager struct {
	questionHandler *QuestionHandler
	practiceHandler *PracticeHandler
	userHandler     *UserHandler
}

func NewHandlerManager(
	questionService services.QuestionService,
	importService services.ImportService,
	practiceService services.PracticeService,
	aiScoring services.AIScoringService,
	userService services.UserService,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		questionHandler: NewQuestionHandler(questionService, importService, logger),
		practiceHandler: NewPracticeHandler(practiceService, aiScoring, logger),
		userHandler:     NewUserHandler(userService, logger),
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "pte-practice-service",
		})
	})

	v1 := router.Group("/api/v1")
	{
		// Question bank routes
		questions := v1.Group("/questions")
		{
			questions.POST("", hm.questionHandler.CreateQuestion)
			questions.GET("", hm.questionHandler.ListQuestions)
			questions.GET("/random", hm.questionHandler.GetRandomQuestions)
			questions.GET("/counts", hm.questionHandler.GetQuestionCounts)
			questions.GET("/:id", hm.questionHandler.GetQuestion)
			questions.PUT("/:id", hm.questionHandler.UpdateQuestion)
			questions.DELETE("/:id", hm.questionHandler.DeleteQuestion)
			questions.GET("/:id/stats", hm.questionHandler.GetQuestionStats)

			// Bulk content management
			questions.POST("/import", hm.questionHandler.ImportQuestions)
			questions.GET("/export", hm.questionHandler.ExportQuestions)
		}

		// Practice routes
		practice := v1.Group("/practice")
		{
			practice.POST("/submit", hm.practiceHandler.SubmitAttempt)
			practice.GET("/attempts/:id", hm.practiceHandler.GetAttempt)
			practice.POST("/attempts/:id/ai-score", hm.practiceHandler.ScoreAttemptWithAI)

			// User-specific routes
			practice.GET("/users/:user_id/history", hm.practiceHandler.GetHistory)
			practice.GET("/users/:user_id/stats", hm.practiceHandler.GetUserStats)
		}

		// Profile routes
		users := v1.Group("/users")
		{
			users.POST("", hm.userHandler.CreateUser)
			users.GET("/:user_id", hm.userHandler.GetUser)
			users.PUT("/:user_id", hm.userHandler.UpdateUser)
			users.DELETE("/:user_id", hm.userHandler.DeleteUser)
		}
	}
}
