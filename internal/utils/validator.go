package utils

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/hellowhq67/pte-practice-service/internal/models"
)

// Custom validation functions

func ValidateTaskType(fl validator.FieldLevel) bool {
	return models.TaskType(fl.Field().String()).Valid()
}

func ValidateSection(fl validator.FieldLevel) bool {
	switch models.Section(fl.Field().String()) {
	case models.SectionSpeaking, models.SectionWriting, models.SectionReading, models.SectionListening:
		return true
	}
	return false
}

func ValidateDifficultyLevel(fl validator.FieldLevel) bool {
	switch models.DifficultyLevel(fl.Field().String()) {
	case models.DifficultyEasy, models.DifficultyMedium, models.DifficultyHard:
		return true
	}
	return false
}

// ValidateTargetScore checks the 10-90 PTE overall scale.
func ValidateTargetScore(fl validator.FieldLevel) bool {
	score := fl.Field().Int()
	return score >= 10 && score <= 90
}

// ValidateTimeLimit bounds per-question time limits at one hour.
func ValidateTimeLimit(fl validator.FieldLevel) bool {
	seconds := fl.Field().Int()
	return seconds >= 0 && seconds <= 3600
}

// RegisterCustomValidators registers all custom validators
func RegisterCustomValidators(validate *validator.Validate) {
	validate.RegisterValidation("task_type", ValidateTaskType)
	validate.RegisterValidation("section", ValidateSection)
	validate.RegisterValidation("difficulty_level", ValidateDifficultyLevel)
	validate.RegisterValidation("target_score", ValidateTargetScore)
	validate.RegisterValidation("time_limit", ValidateTimeLimit)

	// Register custom tag name function for better error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// NewValidator returns a validator with the custom rules registered.
func NewValidator() *validator.Validate {
	v := validator.New()
	RegisterCustomValidators(v)
	return v
}
