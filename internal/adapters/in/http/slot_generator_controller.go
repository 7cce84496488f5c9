package http

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/mentorloop/mentor-slots-generator/internal/config"
	"github.com/mentorloop/mentor-slots-generator/internal/core/domain"
	"github.com/mentorloop/mentor-slots-generator/internal/core/json_types"
	"github.com/mentorloop/mentor-slots-generator/internal/core/ports/in"
	"github.com/mentorloop/mentor-slots-generator/internal/core/ports/out"
	"github.com/mentorloop/mentor-slots-generator/internal/core/services/slot_generator_service"
	"github.com/mentorloop/mentor-slots-generator/internal/utils"
)

type SlotGeneratorController struct {
	slots       in.SlotGeneratorUseCase
	replacement in.ReplacementUseCase
	cfg         *config.Config
	logger      out.LoggerPort
}

func NewSlotGeneratorController(
	slots in.SlotGeneratorUseCase,
	replacement in.ReplacementUseCase,
	cfg *config.Config,
	logger out.LoggerPort,
) *SlotGeneratorController {
	return &SlotGeneratorController{
		slots:       slots,
		replacement: replacement,
		cfg:         cfg,
		logger:      logger,
	}
}

func (c *SlotGeneratorController) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api/v1")
	api.Use(c.basicAuth())
	{
		api.GET("/mentors/:mentorId/slots", c.generateSlots)
		api.GET("/mentors/:mentorId/available-slots", c.generateAvailableSlots)
		api.POST("/time-blocks/validate", c.validateTimeBlock)
		api.POST("/replacements/find", c.findReplacement)
	}
}

type slotsQueryParams struct {
	StartDate string `form:"startDate" binding:"required"`
	EndDate   string `form:"endDate" binding:"required"`
	Duration  int    `form:"duration"`
	Timezone  string `form:"timezone"`
	Debug     bool   `form:"debug"`
}

func (c *SlotGeneratorController) bindSlotQuery(ctx *gin.Context) (uuid.UUID, in.SlotQuery, bool, bool) {
	mentorID, err := uuid.Parse(ctx.Param("mentorId"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid mentor ID format"})
		return uuid.Nil, in.SlotQuery{}, false, false
	}

	var params slotsQueryParams
	if err := ctx.ShouldBindQuery(&params); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return uuid.Nil, in.SlotQuery{}, false, false
	}

	startDate, err := utils.ParseDate(params.StartDate, time.UTC)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid start date format"})
		return uuid.Nil, in.SlotQuery{}, false, false
	}

	endDate, err := utils.ParseDate(params.EndDate, time.UTC)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid end date format"})
		return uuid.Nil, in.SlotQuery{}, false, false
	}

	query := in.SlotQuery{
		StartDate: startDate,
		EndDate:   endDate,
		Duration:  params.Duration,
		Timezone:  params.Timezone,
	}

	return mentorID, query, params.Debug, true
}

func isValidationError(err error) bool {
	return errors.Is(err, slot_generator_service.ErrInvalidRange) ||
		errors.Is(err, slot_generator_service.ErrRangeTooLong) ||
		errors.Is(err, slot_generator_service.ErrInvalidDuration) ||
		errors.Is(err, slot_generator_service.ErrUnknownTimezone)
}

func (c *SlotGeneratorController) generateSlots(ctx *gin.Context) {
	mentorID, query, debug, ok := c.bindSlotQuery(ctx)
	if !ok {
		return
	}

	result, debugInfo, err := c.slots.GenerateSlots(ctx.Request.Context(), mentorID, query)
	if err != nil {
		if isValidationError(err) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	response := gin.H{
		"mentorId": mentorID,
		"slots":    result.Slots,
	}
	if result.Reason != "" {
		response["reason"] = result.Reason
	}
	if debug {
		response["debug"] = debugInfo
	}

	ctx.JSON(http.StatusOK, response)
}

func (c *SlotGeneratorController) generateAvailableSlots(ctx *gin.Context) {
	mentorID, query, _, ok := c.bindSlotQuery(ctx)
	if !ok {
		return
	}

	result, err := c.slots.GenerateAvailableSlots(ctx.Request.Context(), mentorID, query)
	if err != nil {
		if isValidationError(err) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	response := gin.H{
		"mentorId": mentorID,
		"slots":    result.Slots,
	}
	if result.Reason != "" {
		response["reason"] = result.Reason
	}

	ctx.JSON(http.StatusOK, response)
}

// Блоки приходят строками "HH:MM": ошибки формата должны попасть
// в результат валидации, а не уронить разбор запроса
type timeBlockRequest struct {
	StartTime   string `json:"startTime" binding:"required"`
	EndTime     string `json:"endTime" binding:"required"`
	Type        string `json:"type" binding:"required"`
	MaxBookings int    `json:"maxBookings"`
}

type validateTimeBlockRequest struct {
	NewBlock            timeBlockRequest   `json:"newBlock" binding:"required"`
	ExistingBlocks      []timeBlockRequest `json:"existingBlocks"`
	AllowedOverlapTypes []string           `json:"allowedOverlapTypes"`
}

func parseTimeBlock(req timeBlockRequest) (domain.TimeBlock, error) {
	start, err := json_types.ParseTimeOfDay(req.StartTime)
	if err != nil {
		return domain.TimeBlock{}, err
	}
	end, err := json_types.ParseTimeOfDay(req.EndTime)
	if err != nil {
		return domain.TimeBlock{}, err
	}
	return domain.TimeBlock{
		StartTime:   start,
		EndTime:     end,
		Type:        domain.TimeBlockType(req.Type),
		MaxBookings: req.MaxBookings,
	}, nil
}

func (c *SlotGeneratorController) validateTimeBlock(ctx *gin.Context) {
	var req validateTimeBlockRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	newBlock, err := parseTimeBlock(req.NewBlock)
	if err != nil {
		ctx.JSON(http.StatusOK, domain.ValidationResult{
			IsValid:  false,
			Errors:   []string{fmt.Sprintf("invalid new block: %v", err)},
			Overlaps: []domain.OverlapInfo{},
		})
		return
	}

	result := domain.ValidationResult{
		IsValid:  true,
		Errors:   []string{},
		Overlaps: []domain.OverlapInfo{},
	}

	existing := make([]domain.TimeBlock, 0, len(req.ExistingBlocks))
	for _, blockReq := range req.ExistingBlocks {
		block, err := parseTimeBlock(blockReq)
		if err != nil {
			// Некорректный исторический блок пропускаем
			c.logger.Warn("timeblock.validate.malformed_existing_block", out.LogFields{
				"start": blockReq.StartTime,
				"end":   blockReq.EndTime,
				"error": err.Error(),
			})
			continue
		}
		existing = append(existing, block)
	}

	allowed := make([]domain.TimeBlockType, 0, len(req.AllowedOverlapTypes))
	for _, t := range req.AllowedOverlapTypes {
		allowed = append(allowed, domain.TimeBlockType(t))
	}

	validation := c.slots.ValidateTimeBlock(newBlock, existing, allowed)
	result.IsValid = result.IsValid && validation.IsValid
	result.Errors = append(result.Errors, validation.Errors...)
	result.Overlaps = validation.Overlaps

	ctx.JSON(http.StatusOK, result)
}

type findReplacementRequest struct {
	ScheduledAt      string      `json:"scheduledAt" binding:"required"`
	Duration         int         `json:"duration" binding:"required,min=1"`
	ExcludeMentorIDs []uuid.UUID `json:"excludeMentorIds"`
}

func (c *SlotGeneratorController) findReplacement(ctx *gin.Context) {
	var req findReplacementRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	scheduledAt, err := time.Parse(time.RFC3339, req.ScheduledAt)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid scheduledAt format"})
		return
	}

	mentorID, err := c.replacement.FindReplacementMentor(ctx.Request.Context(), scheduledAt, req.Duration, req.ExcludeMentorIDs)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	// Отсутствие замены - валидный исход
	if mentorID == nil {
		ctx.JSON(http.StatusOK, gin.H{"found": false})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"found":    true,
		"mentorId": mentorID,
	})
}

func (c *SlotGeneratorController) basicAuth() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		username, password, hasAuth := ctx.Request.BasicAuth()
		if !hasAuth {
			ctx.Header("WWW-Authenticate", "Basic realm=Authorization Required")
			ctx.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		for _, client := range c.cfg.Auth.BasicClients {
			if subtle.ConstantTimeCompare([]byte(username), []byte(client.Username)) == 1 &&
				subtle.ConstantTimeCompare([]byte(password), []byte(client.Password)) == 1 {
				ctx.Next()
				return
			}
		}

		ctx.Header("WWW-Authenticate", "Basic realm=Authorization Required")
		ctx.AbortWithStatus(http.StatusUnauthorized)
	}
}
