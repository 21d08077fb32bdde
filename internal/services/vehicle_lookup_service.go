package services

import (
	"context"
	"log"
	"strings"

	"garage-backend/internal/db"
	"garage-backend/internal/models"
	"garage-backend/internal/repositories"
)

// VehicleLookupService answers read-only vehicle queries. Lookups log and
// return empty results instead of failing.
type VehicleLookupService struct {
	Cars *repositories.CarRepository
}

func NewVehicleLookupService(gw *db.Gateway) *VehicleLookupService {
	return &VehicleLookupService{Cars: repositories.NewCarRepository(gw.Pool)}
}

// ListVehiclesWithDebt lists every vehicle with its total debt, including zero
func (s *VehicleLookupService) ListVehiclesWithDebt(ctx context.Context) []models.VehicleSummary {
	vehicles, err := s.Cars.ListWithDebt(ctx)
	if err != nil {
		log.Printf("[VehicleLookup] Failed to list vehicles: %v", err)
		return []models.VehicleSummary{}
	}
	return vehicles
}

func (s *VehicleLookupService) ListVehiclesWithDebtOnly(ctx context.Context) []models.VehicleSummary {
	vehicles, err := s.Cars.ListWithOutstandingDebt(ctx)
	if err != nil {
		log.Printf("[VehicleLookup] Failed to list vehicles with debt: %v", err)
		return []models.VehicleSummary{}
	}
	return vehicles
}

func (s *VehicleLookupService) ListVehiclesByBrand(ctx context.Context, brand string) []models.VehicleSummary {
	vehicles, err := s.Cars.ListByBrand(ctx, strings.TrimSpace(brand))
	if err != nil {
		log.Printf("[VehicleLookup] Failed to list vehicles for brand %s: %v", brand, err)
		return []models.VehicleSummary{}
	}
	return vehicles
}

// SearchVehicles matches plate and owner by substring and brand exactly
func (s *VehicleLookupService) SearchVehicles(ctx context.Context, f models.VehicleSearch) []models.VehicleSummary {
	f.LicensePlate = strings.TrimSpace(f.LicensePlate)
	f.OwnerName = strings.TrimSpace(f.OwnerName)
	f.BrandName = strings.TrimSpace(f.BrandName)

	vehicles, err := s.Cars.Search(ctx, f)
	if err != nil {
		log.Printf("[VehicleLookup] Search failed: %v", err)
		return []models.VehicleSummary{}
	}
	return vehicles
}

// GetVehicleDetail returns nil when the plate is unknown
func (s *VehicleLookupService) GetVehicleDetail(ctx context.Context, plate string) *models.VehicleDetail {
	detail, err := s.Cars.GetDetail(ctx, normalizePlate(plate))
	if err != nil {
		if !isNoRows(err) {
			log.Printf("[VehicleLookup] Failed to get vehicle %s: %v", plate, err)
		}
		return nil
	}
	return detail
}

func (s *VehicleLookupService) GetReceptionHistory(ctx context.Context, plate string) []models.ReceptionHistoryEntry {
	history, err := s.Cars.ReceptionHistory(ctx, normalizePlate(plate))
	if err != nil {
		log.Printf("[VehicleLookup] Failed to get reception history for %s: %v", plate, err)
		return []models.ReceptionHistoryEntry{}
	}
	return history
}

func (s *VehicleLookupService) GetRepairHistory(ctx context.Context, plate string) []models.RepairHistoryEntry {
	history, err := s.Cars.RepairHistory(ctx, normalizePlate(plate))
	if err != nil {
		log.Printf("[VehicleLookup] Failed to get repair history for %s: %v", plate, err)
		return []models.RepairHistoryEntry{}
	}
	return history
}
