package platform

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	nurl "net/url"
	"time"

	"github.com/google/uuid"
	"github.com/mentorloop/mentor-slots-generator/internal/config"
	"github.com/mentorloop/mentor-slots-generator/internal/core/domain"
	"github.com/mentorloop/mentor-slots-generator/internal/core/ports/out"
)

// PlatformAdapter - клиент внутреннего API маркетплейса.
// Реализует out.PlatformPort
type PlatformAdapter struct {
	client   *http.Client
	baseURL  string
	username string
	password string
	logger   out.LoggerPort
}

func NewPlatformAdapter(cfg *config.Config, logger out.LoggerPort) *PlatformAdapter {
	return &PlatformAdapter{
		client:   &http.Client{Timeout: 10 * time.Second},
		baseURL:  cfg.Platform.URL,
		username: cfg.Platform.Username,
		password: cfg.Platform.Password,
		logger:   logger,
	}
}

func (a *PlatformAdapter) getJSON(ctx context.Context, url string, query nurl.Values, dest interface{}) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, err
	}
	if query != nil {
		req.URL.RawQuery = query.Encode()
	}
	req.SetBasicAuth(a.username, a.password)

	resp, err := a.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return resp.StatusCode, nil
	}
	if resp.StatusCode != http.StatusOK {
		return resp.StatusCode, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return resp.StatusCode, err
	}

	return resp.StatusCode, nil
}

// GetSchedule возвращает nil без ошибки, если ментор не настроил расписание
func (a *PlatformAdapter) GetSchedule(ctx context.Context, mentorID uuid.UUID) (*domain.AvailabilitySchedule, error) {
	a.logger.Info("platform.schedule.fetch", out.LogFields{
		"mentorId": mentorID,
	})

	url := fmt.Sprintf("%s/internal/mentors/%s/availability-schedule", a.baseURL, mentorID)

	var schedule domain.AvailabilitySchedule
	status, err := a.getJSON(ctx, url, nil, &schedule)
	if err != nil {
		a.logger.Error("platform.schedule.fetch_failed", out.LogFields{
			"mentorId": mentorID,
			"error":    err.Error(),
		})
		return nil, err
	}
	if status == http.StatusNotFound {
		a.logger.Debug("platform.schedule.not_found", out.LogFields{
			"mentorId": mentorID,
		})
		return nil, nil
	}

	a.logger.Debug("platform.schedule.fetch_success", out.LogFields{
		"mentorId":   mentorID,
		"scheduleId": schedule.ID,
	})

	return &schedule, nil
}

func (a *PlatformAdapter) GetWeeklyPatterns(ctx context.Context, scheduleID uuid.UUID) ([]domain.WeeklyPattern, error) {
	a.logger.Info("platform.weekly_patterns.fetch", out.LogFields{
		"scheduleId": scheduleID,
	})

	url := fmt.Sprintf("%s/internal/schedules/%s/weekly-patterns", a.baseURL, scheduleID)

	var response struct {
		Items []domain.WeeklyPattern `json:"items"`
	}
	if _, err := a.getJSON(ctx, url, nil, &response); err != nil {
		a.logger.Error("platform.weekly_patterns.fetch_failed", out.LogFields{
			"scheduleId": scheduleID,
			"error":      err.Error(),
		})
		return nil, err
	}

	a.logger.Debug("platform.weekly_patterns.fetch_success", out.LogFields{
		"scheduleId": scheduleID,
		"count":      len(response.Items),
	})

	return response.Items, nil
}

func (a *PlatformAdapter) GetExceptions(ctx context.Context, scheduleID uuid.UUID, startDate, endDate time.Time) ([]domain.AvailabilityException, error) {
	a.logger.Info("platform.exceptions.fetch", out.LogFields{
		"scheduleId": scheduleID,
	})

	url := fmt.Sprintf("%s/internal/schedules/%s/exceptions", a.baseURL, scheduleID)
	query := nurl.Values{}
	query.Add("startDate", startDate.Format(time.RFC3339))
	query.Add("endDate", endDate.Format(time.RFC3339))

	var response struct {
		Items []domain.AvailabilityException `json:"items"`
	}
	if _, err := a.getJSON(ctx, url, query, &response); err != nil {
		a.logger.Error("platform.exceptions.fetch_failed", out.LogFields{
			"scheduleId": scheduleID,
			"error":      err.Error(),
		})
		return nil, err
	}

	return response.Items, nil
}

func (a *PlatformAdapter) GetBookingsInRange(ctx context.Context, mentorID uuid.UUID, startDate, endDate time.Time, statuses []domain.BookingStatus) ([]domain.Booking, error) {
	a.logger.Info("platform.bookings.fetch", out.LogFields{
		"mentorId": mentorID,
	})

	url := fmt.Sprintf("%s/internal/mentors/%s/bookings", a.baseURL, mentorID)
	query := nurl.Values{}
	query.Add("startDate", startDate.Format(time.RFC3339))
	query.Add("endDate", endDate.Format(time.RFC3339))
	for _, status := range statuses {
		query.Add("status", string(status))
	}

	var response struct {
		Items []domain.Booking `json:"items"`
	}
	if _, err := a.getJSON(ctx, url, query, &response); err != nil {
		a.logger.Error("platform.bookings.fetch_failed", out.LogFields{
			"mentorId": mentorID,
			"error":    err.Error(),
		})
		return nil, err
	}

	a.logger.Debug("platform.bookings.fetch_success", out.LogFields{
		"mentorId": mentorID,
		"count":    len(response.Items),
	})

	return response.Items, nil
}

// GetReplacementCandidates - батч-выборка кандидатов на замену:
// платформа отдает верифицированных активных менторов сразу
// с расписаниями, шаблонами, исключениями и бронированиями
func (a *PlatformAdapter) GetReplacementCandidates(ctx context.Context, at time.Time, duration int, excludeIDs []uuid.UUID) ([]domain.ReplacementCandidate, error) {
	a.logger.Info("platform.replacement_candidates.fetch", out.LogFields{
		"scheduledAt": at,
		"duration":    duration,
	})

	url := fmt.Sprintf("%s/internal/replacement-candidates", a.baseURL)
	query := nurl.Values{}
	query.Add("at", at.Format(time.RFC3339))
	query.Add("duration", fmt.Sprintf("%d", duration))
	for _, id := range excludeIDs {
		query.Add("exclude", id.String())
	}

	var response struct {
		Items []domain.ReplacementCandidate `json:"items"`
	}
	if _, err := a.getJSON(ctx, url, query, &response); err != nil {
		a.logger.Error("platform.replacement_candidates.fetch_failed", out.LogFields{
			"error": err.Error(),
		})
		return nil, err
	}

	a.logger.Debug("platform.replacement_candidates.fetch_success", out.LogFields{
		"count": len(response.Items),
	})

	return response.Items, nil
}
