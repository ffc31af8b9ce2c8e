package services

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/winmanuel/eduhub/internal/models"
	"github.com/winmanuel/eduhub/internal/repositories"
)

func TestExportService_ExportCollectionToJSON(t *testing.T) {
	env := newTestEnv(t)
	env.addUser(t, "stu_1", models.RoleStudent, testNow)
	env.addUser(t, "ins_1", models.RoleInstructor, testNow)
	svc := NewExportService(env.deps, NewReportService(env.deps))

	path := filepath.Join(t.TempDir(), "nested", "users.json")
	n, err := svc.ExportCollectionToJSON(context.Background(), repositories.CollectionUsers, path)
	if err != nil {
		t.Fatalf("ExportCollectionToJSON() error = %v", err)
	}
	if n != 2 {
		t.Errorf("count = %d, want 2", n)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	var users []models.User
	if err := json.Unmarshal(data, &users); err != nil {
		t.Fatalf("exported file is not a JSON array of users: %v", err)
	}
	if len(users) != 2 || users[0].UserID != "stu_1" || users[1].Role != models.RoleInstructor {
		t.Errorf("exported users = %+v", users)
	}
}

func TestExportService_ExportAll(t *testing.T) {
	env := newTestEnv(t)
	env.addUser(t, "ins_1", models.RoleInstructor, testNow)
	env.addCourse(t, "course_1", "ins_1", 10)
	svc := NewExportService(env.deps, NewReportService(env.deps))
	dir := t.TempDir()

	counts, err := svc.ExportAll(context.Background(), dir)
	if err != nil {
		t.Fatalf("ExportAll() error = %v", err)
	}

	for _, c := range repositories.Collections() {
		data, err := os.ReadFile(filepath.Join(dir, ExportFileName(c)))
		if err != nil {
			t.Errorf("%s: %v", c, err)
			continue
		}
		var records []map[string]any
		if err := json.Unmarshal(data, &records); err != nil {
			t.Errorf("%s: invalid JSON: %v", c, err)
		}
		if len(records) != counts[c] {
			t.Errorf("%s: %d records in file, count %d", c, len(records), counts[c])
		}
	}
	if strings.TrimSpace(mustRead(t, filepath.Join(dir, "sample_lessons.json"))) != "[]" {
		t.Error("empty collection must export as []")
	}
	if counts[repositories.CollectionCourses] != 1 {
		t.Errorf("courses count = %d, want 1", counts[repositories.CollectionCourses])
	}
}

func TestExportService_ExplainQuery(t *testing.T) {
	env := newTestEnv(t)
	svc := NewExportService(env.deps, NewReportService(env.deps))
	ctx := context.Background()

	plan, err := svc.ExplainQuery(ctx, repositories.CollectionUsers, map[string]any{"role": "student"})
	if err != nil || plan.Collection != repositories.CollectionUsers {
		t.Fatalf("ExplainQuery() = %+v, %v", plan, err)
	}
	if _, err := svc.ExplainQuery(ctx, repositories.Collection("grades"), nil); !errors.Is(err, ErrBadRequest) {
		t.Errorf("unknown collection error = %v, want ErrBadRequest", err)
	}
}

func TestExportService_ExportReportsToXLSX(t *testing.T) {
	env := newTestEnv(t)
	seedReportData(env, t)
	svc := NewExportService(env.deps, NewReportService(env.deps))
	path := filepath.Join(t.TempDir(), "reports.xlsx")

	if err := svc.ExportReportsToXLSX(context.Background(), path, 10); err != nil {
		t.Fatalf("ExportReportsToXLSX() error = %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile() error = %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	want := []string{"Enrollments", "Average Grades", "Revenue"}
	if strings.Join(sheets, ",") != strings.Join(want, ",") {
		t.Errorf("sheets = %v, want %v", sheets, want)
	}

	rows, err := f.GetRows("Revenue")
	if err != nil {
		t.Fatalf("GetRows() error = %v", err)
	}
	if len(rows) != 3 || rows[0][0] != "Instructor ID" || rows[1][0] != "ins_1" || rows[1][1] != "250" {
		t.Errorf("revenue rows = %v", rows)
	}
}

func mustRead(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile(%s) error = %v", path, err)
	}
	return string(data)
}
