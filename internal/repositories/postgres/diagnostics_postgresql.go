package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/schema"

	"github.com/winmanuel/eduhub/internal/models"
	"github.com/winmanuel/eduhub/internal/repositories"
)

type diagnosticsRepository struct {
	db *gorm.DB
}

func NewDiagnosticsRepository(db *gorm.DB) repositories.DiagnosticsRepository {
	return &diagnosticsRepository{db: db}
}

// collectionModel returns an empty record of the collection's type.
func collectionModel(collection repositories.Collection) (interface{}, error) {
	switch collection {
	case repositories.CollectionUsers:
		return &models.User{}, nil
	case repositories.CollectionCourses:
		return &models.Course{}, nil
	case repositories.CollectionEnrollments:
		return &models.Enrollment{}, nil
	case repositories.CollectionLessons:
		return &models.Lesson{}, nil
	case repositories.CollectionAssignments:
		return &models.Assignment{}, nil
	case repositories.CollectionSubmissions:
		return &models.Submission{}, nil
	}
	return nil, fmt.Errorf("%w: %q", repositories.ErrUnknownCollection, collection)
}

func (d *diagnosticsRepository) Explain(ctx context.Context, collection repositories.Collection, filter map[string]any) (*repositories.QueryPlan, error) {
	query, args, err := d.buildFilterQuery(collection, filter)
	if err != nil {
		return nil, err
	}

	var raw string
	row := d.db.WithContext(ctx).Raw("EXPLAIN (ANALYZE, BUFFERS, FORMAT JSON) "+query, args...).Row()
	if err := row.Scan(&raw); err != nil {
		return nil, fmt.Errorf("failed to explain query on %s: %w", collection, err)
	}

	plan := &repositories.QueryPlan{
		Collection: collection,
		Query:      query,
		Args:       args,
		Plan:       json.RawMessage(raw),
	}

	var parsed []struct {
		ExecutionTime float64 `json:"Execution Time"`
	}
	if err := json.Unmarshal([]byte(raw), &parsed); err == nil && len(parsed) > 0 {
		plan.ExecutionTime = time.Duration(parsed[0].ExecutionTime * float64(time.Millisecond))
	}

	return plan, nil
}

// buildFilterQuery renders a SELECT with one equality predicate per filter
// key. Keys are resolved against the model schema, so only real columns
// reach the SQL text; values are always bound.
func (d *diagnosticsRepository) buildFilterQuery(collection repositories.Collection, filter map[string]any) (string, []any, error) {
	model, err := collectionModel(collection)
	if err != nil {
		return "", nil, err
	}

	stmt := &gorm.Statement{DB: d.db}
	if err := stmt.Parse(model); err != nil {
		return "", nil, fmt.Errorf("failed to parse %s schema: %w", collection, err)
	}

	keys := make([]string, 0, len(filter))
	for k := range filter {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var (
		conditions []string
		args       []any
	)
	for _, key := range keys {
		field := lookupField(stmt.Schema, key)
		if field == nil || field.DBName == "" {
			return "", nil, fmt.Errorf("%w: %q on %s", repositories.ErrUnknownField, key, collection)
		}
		if field.DataType == "json" {
			return "", nil, fmt.Errorf("%w: %q is a document field and cannot be filtered by equality", repositories.ErrUnknownField, key)
		}
		conditions = append(conditions, fmt.Sprintf("%q = ?", field.DBName))
		args = append(args, filter[key])
	}

	query := fmt.Sprintf("SELECT * FROM %q", stmt.Schema.Table)
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	return query, args, nil
}

// lookupField resolves a JSON field name, Go field name or column name.
func lookupField(s *schema.Schema, key string) *schema.Field {
	if f := s.LookUpField(key); f != nil {
		return f
	}
	for _, f := range s.Fields {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == key {
			return f
		}
	}
	return nil
}

func (d *diagnosticsRepository) FetchAll(ctx context.Context, collection repositories.Collection) (any, int, error) {
	db := d.db.WithContext(ctx).Order("id ASC")

	var (
		records any
		count   int
		err     error
	)
	switch collection {
	case repositories.CollectionUsers:
		var rows []models.User
		err = db.Find(&rows).Error
		records, count = rows, len(rows)
	case repositories.CollectionCourses:
		var rows []models.Course
		err = db.Find(&rows).Error
		records, count = rows, len(rows)
	case repositories.CollectionEnrollments:
		var rows []models.Enrollment
		err = db.Find(&rows).Error
		records, count = rows, len(rows)
	case repositories.CollectionLessons:
		var rows []models.Lesson
		err = db.Find(&rows).Error
		records, count = rows, len(rows)
	case repositories.CollectionAssignments:
		var rows []models.Assignment
		err = db.Find(&rows).Error
		records, count = rows, len(rows)
	case repositories.CollectionSubmissions:
		var rows []models.Submission
		err = db.Find(&rows).Error
		records, count = rows, len(rows)
	default:
		return nil, 0, fmt.Errorf("%w: %q", repositories.ErrUnknownCollection, collection)
	}
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch %s: %w", collection, err)
	}
	return records, count, nil
}
