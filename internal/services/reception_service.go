package services

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"garage-backend/internal/db"
	"garage-backend/internal/metrics"
	"garage-backend/internal/models"
	"garage-backend/internal/repositories"
	"garage-backend/internal/timeutil"

	"github.com/jackc/pgx/v5"
)

// ReceptionService handles vehicle intake
type ReceptionService struct {
	DB         *db.Gateway
	Cars       *repositories.CarRepository
	Receptions *repositories.ReceptionRepository
	Settings   *SystemSettingService
	Catalog    *CatalogService
}

func NewReceptionService(gw *db.Gateway, settings *SystemSettingService, catalog *CatalogService) *ReceptionService {
	return &ReceptionService{
		DB:         gw,
		Cars:       repositories.NewCarRepository(gw.Pool),
		Receptions: repositories.NewReceptionRepository(gw.Pool),
		Settings:   settings,
		Catalog:    catalog,
	}
}

// CheckCapacity fails when a day already holding current receptions cannot take another under limit
func CheckCapacity(current, limit int) error {
	if current >= limit {
		return &CapacityError{Limit: limit, Current: current}
	}
	return nil
}

// ReceiveCar upserts the vehicle and records a reception with zero debt.
// The daily cap check and the insert share one transaction serialized per
// reception date, so concurrent intakes cannot exceed the cap.
func (s *ReceptionService) ReceiveCar(ctx context.Context, req models.ReceiveCarRequest) (*models.ReceiveCarResult, error) {
	plate := normalizePlate(req.LicensePlate)
	owner := strings.TrimSpace(req.OwnerName)
	brandName := strings.TrimSpace(req.BrandName)

	switch {
	case plate == "":
		return nil, invalid("license_plate", "Vui lòng nhập biển số xe")
	case owner == "":
		return nil, invalid("owner_name", "Vui lòng nhập tên chủ xe")
	case brandName == "":
		return nil, invalid("brand_name", "Vui lòng chọn hiệu xe")
	}

	date, err := timeutil.ParseDate(strings.TrimSpace(req.ReceptionDate))
	if err != nil {
		return nil, invalid("reception_date", "Ngày tiếp nhận không hợp lệ (YYYY-MM-DD)")
	}

	var receptionID int
	err = s.DB.WithTx(ctx, func(tx pgx.Tx) error {
		brand, err := repositories.NewBrandRepository(tx).GetByName(ctx, brandName)
		if err != nil {
			if isNoRows(err) {
				return notFound("brand", brandName, "Không tìm thấy hiệu xe: "+brandName)
			}
			return persistence("tìm hiệu xe", err)
		}

		car := &models.Car{
			LicensePlate: plate,
			BrandID:      brand.ID,
			OwnerName:    owner,
			PhoneNumber:  strings.TrimSpace(req.PhoneNumber),
			Address:      strings.TrimSpace(req.Address),
			Email:        strings.TrimSpace(req.Email),
		}
		if err := repositories.NewCarRepository(tx).Upsert(ctx, car); err != nil {
			return persistence("lưu thông tin xe", err)
		}

		if err := repositories.NewLockRepository(tx).Acquire(ctx, "reception:"+timeutil.FormatDate(date)); err != nil {
			return persistence("khóa ngày tiếp nhận", err)
		}

		limit := maxCarReception(ctx, repositories.NewSystemSettingRepository(tx))
		receptions := repositories.NewReceptionRepository(tx)

		count, err := receptions.CountOnDate(ctx, date)
		if err != nil {
			return persistence("đếm số xe tiếp nhận", err)
		}
		if err := CheckCapacity(count, limit); err != nil {
			log.Printf("[Reception] Daily reception limit reached: %d/%d", count, limit)
			return err
		}

		receptionID, err = receptions.Create(ctx, plate, date)
		if err != nil {
			return persistence("tạo phiếu tiếp nhận", err)
		}
		return nil
	})
	if err != nil {
		log.Printf("[Reception] Failed to receive car %s: %v", plate, err)
		recordRejection("receive_car", err)
		return nil, err
	}

	metrics.ReceptionsCreated.Inc()
	log.Printf("[Reception] Received car %s with reception ID %d on %s", plate, receptionID, timeutil.FormatDate(date))

	return &models.ReceiveCarResult{
		ReceptionID:   receptionID,
		LicensePlate:  plate,
		OwnerName:     owner,
		BrandName:     brandName,
		ReceptionDate: timeutil.FormatDate(date),
	}, nil
}

func (s *ReceptionService) ListBrands(ctx context.Context) ([]models.CarBrand, error) {
	return s.Catalog.ListBrands(ctx)
}

// GetCarByPlate returns nil when the vehicle is unknown or the lookup fails
func (s *ReceptionService) GetCarByPlate(ctx context.Context, plate string) *models.Car {
	car, err := s.Cars.GetByPlate(ctx, normalizePlate(plate))
	if err != nil {
		if !isNoRows(err) {
			log.Printf("[Reception] Failed to get car info for %s: %v", plate, err)
		}
		return nil
	}
	return car
}

func (s *ReceptionService) GetReception(ctx context.Context, id int) (*models.CarReception, error) {
	reception, err := s.Receptions.Get(ctx, id)
	if err != nil {
		if isNoRows(err) {
			return nil, notFound("reception", strconv.Itoa(id), fmt.Sprintf("Không tìm thấy phiếu tiếp nhận ID %d", id))
		}
		return nil, persistence("đọc phiếu tiếp nhận", err)
	}
	return reception, nil
}

// GetDailyCapacity reports the receptions already recorded on date against the cap
func (s *ReceptionService) GetDailyCapacity(ctx context.Context, date time.Time) (*models.DailyCapacity, error) {
	count, err := s.GetDailyReceptionCount(ctx, date)
	if err != nil {
		return nil, err
	}
	return &models.DailyCapacity{
		Date:  timeutil.FormatDate(date),
		Count: count,
		Limit: s.GetMaxCarReception(ctx),
	}, nil
}

func (s *ReceptionService) GetDailyReceptionCount(ctx context.Context, date time.Time) (int, error) {
	count, err := s.Receptions.CountOnDate(ctx, date)
	if err != nil {
		log.Printf("[Reception] Failed to get daily reception count: %v", err)
		return 0, persistence("đếm số xe tiếp nhận", err)
	}
	return count, nil
}

func (s *ReceptionService) GetMaxCarReception(ctx context.Context) int {
	return s.Settings.GetMaxCarsPerDay(ctx)
}

// ListReceptionsOnDate returns the day's receptions, empty on failure
func (s *ReceptionService) ListReceptionsOnDate(ctx context.Context, date time.Time) []*models.CarReception {
	receptions, err := s.Receptions.ListOnDate(ctx, date)
	if err != nil {
		log.Printf("[Reception] Failed to list receptions on %s: %v", timeutil.FormatDate(date), err)
		return []*models.CarReception{}
	}
	return receptions
}
