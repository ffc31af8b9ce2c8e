package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/winmanuel/eduhub/internal/repositories"
)

type exportService struct {
	serviceBase
	reports ReportService
}

func NewExportService(deps Dependencies, reports ReportService) ExportService {
	return &exportService{serviceBase: newServiceBase(deps, "export"), reports: reports}
}

// ExportFileName is the file ExportAll writes for collection.
func ExportFileName(collection repositories.Collection) string {
	return fmt.Sprintf("sample_%s.json", collection)
}

func (s *exportService) ExplainQuery(ctx context.Context, collection repositories.Collection, filter map[string]any) (*repositories.QueryPlan, error) {
	plan, err := s.repo.Diagnostics().Explain(ctx, collection, filter)
	if err != nil {
		return nil, mapRepoError(err, ErrBadRequest, string(collection))
	}

	s.logger.Debug().Str("collection", string(collection)).Dur("execution_time", plan.ExecutionTime).Msg("query explained")
	return plan, nil
}

func (s *exportService) ExportCollectionToJSON(ctx context.Context, collection repositories.Collection, path string) (int, error) {
	records, count, err := s.repo.Diagnostics().FetchAll(ctx, collection)
	if err != nil {
		return 0, mapRepoError(err, ErrBadRequest, string(collection))
	}

	data := []byte("[]")
	if count > 0 {
		if data, err = json.MarshalIndent(records, "", "  "); err != nil {
			return 0, fmt.Errorf("failed to encode %s: %w", collection, err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return 0, fmt.Errorf("failed to create export directory: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return 0, fmt.Errorf("failed to write %s: %w", path, err)
	}

	s.logger.Info().Str("collection", string(collection)).Int("count", count).Str("path", path).Msg("collection exported")
	return count, nil
}

// ExportAll attempts every collection and joins the failures.
func (s *exportService) ExportAll(ctx context.Context, dir string) (map[repositories.Collection]int, error) {
	counts := make(map[repositories.Collection]int, len(repositories.Collections()))
	var errs []error
	for _, c := range repositories.Collections() {
		n, err := s.ExportCollectionToJSON(ctx, c, filepath.Join(dir, ExportFileName(c)))
		if err != nil {
			errs = append(errs, err)
			continue
		}
		counts[c] = n
	}
	return counts, errors.Join(errs...)
}

// ExportReportsToXLSX writes one sheet per report.
func (s *exportService) ExportReportsToXLSX(ctx context.Context, path string, limit int) error {
	reports, err := s.reports.All(ctx, limit)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheets := []struct {
		name   string
		header []interface{}
		rows   [][]interface{}
	}{
		{name: "Enrollments", header: []interface{}{"Course ID", "Total Enrollments"}},
		{name: "Average Grades", header: []interface{}{"Student ID", "Average Score"}},
		{name: "Revenue", header: []interface{}{"Instructor ID", "Revenue"}},
	}
	for _, r := range reports.EnrollmentsPerCourse {
		sheets[0].rows = append(sheets[0].rows, []interface{}{r.CourseID, r.TotalEnrollments})
	}
	for _, r := range reports.AverageGrades {
		sheets[1].rows = append(sheets[1].rows, []interface{}{r.StudentID, r.AvgScore})
	}
	for _, r := range reports.RevenuePerInstructor {
		sheets[2].rows = append(sheets[2].rows, []interface{}{r.InstructorID, r.Revenue})
	}

	for i, sheet := range sheets {
		idx, err := f.NewSheet(sheet.name)
		if err != nil {
			return fmt.Errorf("failed to create sheet %s: %w", sheet.name, err)
		}
		if i == 0 {
			f.SetActiveSheet(idx)
		}
		if err := f.SetSheetRow(sheet.name, "A1", &sheet.header); err != nil {
			return fmt.Errorf("failed to write header of %s: %w", sheet.name, err)
		}
		for j, row := range sheet.rows {
			cell, err := excelize.CoordinatesToCellName(1, j+2)
			if err != nil {
				return err
			}
			if err := f.SetSheetRow(sheet.name, cell, &row); err != nil {
				return fmt.Errorf("failed to write row %d of %s: %w", j+1, sheet.name, err)
			}
		}
		if err := f.SetColWidth(sheet.name, "A", "B", 22); err != nil {
			return err
		}
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("failed to remove default sheet: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}

	s.logger.Info().Str("path", path).Msg("reports exported")
	return nil
}
