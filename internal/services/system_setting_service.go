package services

import (
	"context"
	"log"
	"strconv"
	"strings"

	"garage-backend/internal/db"
	"garage-backend/internal/models"
	"garage-backend/internal/repositories"
)

type SystemSettingService struct {
	Repo *repositories.SystemSettingRepository
}

func NewSystemSettingService(gw *db.Gateway) *SystemSettingService {
	return &SystemSettingService{Repo: repositories.NewSystemSettingRepository(gw.Pool)}
}

func (s *SystemSettingService) GetSetting(ctx context.Context, key string) (*models.SystemSetting, error) {
	setting, err := s.Repo.Get(ctx, key)
	if isNoRows(err) {
		return nil, notFound("setting", key, "Không tìm thấy tham số: "+key)
	}
	return setting, persistence("đọc tham số", err)
}

func (s *SystemSettingService) ListSettings(ctx context.Context) ([]*models.SystemSetting, error) {
	settings, err := s.Repo.List(ctx)
	return settings, persistence("đọc danh sách tham số", err)
}

// UpsertSetting creates or updates a setting
func (s *SystemSettingService) UpsertSetting(ctx context.Context, key string, value string, description string, userID int) error {
	if strings.TrimSpace(key) == "" {
		return invalid("setting_key", "Tên tham số không được rỗng")
	}
	switch key {
	case models.SettingMaxCarReception:
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return invalid("setting_value", "Số xe tối đa phải là số nguyên")
		}
		return s.SetMaxCarsPerDay(ctx, n, userID)
	case models.SettingIsOverPay:
		allowed, err := parseFlag(value)
		if err != nil {
			return invalid("setting_value", "IsOverPay chỉ nhận 0 hoặc 1")
		}
		return s.SetIsOverPay(ctx, allowed, userID)
	}
	return persistence("lưu tham số", s.Repo.Upsert(ctx, key, value, description, userID))
}

// GetMaxCarsPerDay returns the daily intake cap, or the default when unset or unreadable
func (s *SystemSettingService) GetMaxCarsPerDay(ctx context.Context) int {
	return maxCarReception(ctx, s.Repo)
}

func (s *SystemSettingService) SetMaxCarsPerDay(ctx context.Context, value int, userID int) error {
	if value <= 0 {
		return invalid("max_cars", "Số xe tối đa phải > 0")
	}
	err := s.Repo.Upsert(ctx, models.SettingMaxCarReception, strconv.Itoa(value), "", userID)
	if err != nil {
		log.Printf("[Settings] Failed to update %s: %v", models.SettingMaxCarReception, err)
		return persistence("cập nhật số xe tối đa", err)
	}
	log.Printf("[Settings] Updated %s to %d", models.SettingMaxCarReception, value)
	return nil
}

// GetIsOverPay reports whether receipts may exceed the debt; false when unset or unreadable
func (s *SystemSettingService) GetIsOverPay(ctx context.Context) bool {
	return overPayAllowed(ctx, s.Repo)
}

func (s *SystemSettingService) SetIsOverPay(ctx context.Context, allowed bool, userID int) error {
	value := "0"
	if allowed {
		value = "1"
	}
	err := s.Repo.Upsert(ctx, models.SettingIsOverPay, value, "", userID)
	if err != nil {
		log.Printf("[Settings] Failed to update %s: %v", models.SettingIsOverPay, err)
		return persistence("cập nhật quy định thu tiền", err)
	}
	log.Printf("[Settings] Updated %s to %s", models.SettingIsOverPay, value)
	return nil
}

func maxCarReception(ctx context.Context, repo *repositories.SystemSettingRepository) int {
	setting, err := repo.Get(ctx, models.SettingMaxCarReception)
	if err != nil {
		if !isNoRows(err) {
			log.Printf("[Settings] Failed to read %s, using default: %v", models.SettingMaxCarReception, err)
		}
		return models.DefaultMaxCarReception
	}
	n, err := strconv.Atoi(strings.TrimSpace(setting.SettingValue))
	if err != nil || n <= 0 {
		return models.DefaultMaxCarReception
	}
	return n
}

func overPayAllowed(ctx context.Context, repo *repositories.SystemSettingRepository) bool {
	setting, err := repo.Get(ctx, models.SettingIsOverPay)
	if err != nil {
		if !isNoRows(err) {
			log.Printf("[Settings] Failed to read %s, disallowing overpayment: %v", models.SettingIsOverPay, err)
		}
		return false
	}
	allowed, err := parseFlag(setting.SettingValue)
	return err == nil && allowed
}

func parseFlag(value string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true":
		return true, nil
	case "0", "false", "":
		return false, nil
	}
	return false, strconv.ErrSyntax
}
