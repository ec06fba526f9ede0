package services

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"github.com/volunteerhub/event-service/internal/models"
	"github.com/volunteerhub/event-service/internal/repositories"
)

type exportService struct {
	repo   repositories.Repository
	logger *slog.Logger
}

func NewExportService(repo repositories.Repository, logger *slog.Logger) ExportService {
	return &exportService{
		repo:   repo,
		logger: logger,
	}
}

const registrantSheet = "Registrants"

// ExportEventRegistrants renders the registrant list of an event as an xlsx
// workbook with one row per registrant
func (s *exportService) ExportEventRegistrants(ctx context.Context, eventID uint) ([]byte, string, error) {
	event, err := s.repo.Event().GetByID(ctx, eventID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, "", ErrEventNotFound
		}
		return nil, "", fmt.Errorf("failed to get event: %w", err)
	}

	registrants, _, err := s.repo.Registration().ListByEvent(ctx, eventID, repositories.RegistrationFilters{})
	if err != nil {
		return nil, "", fmt.Errorf("failed to list registrants: %w", err)
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			s.logger.Error("Failed to close workbook", "error", err)
		}
	}()

	index, err := f.NewSheet(registrantSheet)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, "", fmt.Errorf("failed to remove default sheet: %w", err)
	}

	headers := []string{"Username", "Full Name", "Email", "Role", "Status", "Registered At"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(registrantSheet, cell, header); err != nil {
			return nil, "", fmt.Errorf("failed to write header: %w", err)
		}
	}

	for rowIdx, registrant := range registrants {
		row := []interface{}{
			registrant.Username,
			registrant.FullName,
			registrant.Email,
			roleNameOrDash(registrant),
			string(registrant.Status),
			registrant.RegistrationDate.Format("2006-01-02 15:04"),
		}
		for colIdx, value := range row {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err := f.SetCellValue(registrantSheet, cell, value); err != nil {
				return nil, "", fmt.Errorf("failed to write row: %w", err)
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, "", fmt.Errorf("failed to render workbook: %w", err)
	}

	filename := fmt.Sprintf("event_%d_registrants.xlsx", event.ID)

	s.logger.Info("Exported registrants",
		"event_id", eventID,
		"rows", len(registrants),
		"filename", filename)

	return buf.Bytes(), filename, nil
}

func roleNameOrDash(registrant *models.EventRegistrant) string {
	if registrant.RoleName != nil && *registrant.RoleName != "" {
		return *registrant.RoleName
	}
	return "-"
}
