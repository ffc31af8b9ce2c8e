package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/winmanuel/eduhub/internal/repositories"
)

// IndexSpec describes one index. Expression, when set, replaces Columns.
type IndexSpec struct {
	Name       string
	Table      repositories.Collection
	Columns    []string
	Expression string
	Method     string
	Unique     bool
}

func (s IndexSpec) SQL() string {
	unique := ""
	if s.Unique {
		unique = "UNIQUE "
	}
	using := ""
	if s.Method != "" {
		using = " USING " + s.Method
	}
	target := s.Expression
	if target == "" {
		quoted := make([]string, len(s.Columns))
		for i, c := range s.Columns {
			quoted[i] = fmt.Sprintf("%q", c)
		}
		target = strings.Join(quoted, ", ")
	}
	return fmt.Sprintf("CREATE %sINDEX IF NOT EXISTS %q ON %q%s (%s)", unique, s.Name, string(s.Table), using, target)
}

// Indexes is the full index set of the store.
func Indexes() []IndexSpec {
	return []IndexSpec{
		{Name: "uidx_users_user_id", Table: repositories.CollectionUsers, Columns: []string{"user_id"}, Unique: true},
		{Name: "uidx_users_email", Table: repositories.CollectionUsers, Columns: []string{"email"}, Unique: true},
		{Name: "uidx_courses_course_id", Table: repositories.CollectionCourses, Columns: []string{"course_id"}, Unique: true},
		{Name: "idx_courses_search", Table: repositories.CollectionCourses, Method: "GIN", Expression: courseSearchDocument},
		{Name: "idx_courses_category", Table: repositories.CollectionCourses, Columns: []string{"category"}},
		{Name: "idx_enrollments_student_id", Table: repositories.CollectionEnrollments, Columns: []string{"student_id"}},
		{Name: "idx_enrollments_course_id", Table: repositories.CollectionEnrollments, Columns: []string{"course_id"}},
		{Name: "uidx_assignments_assignment_id", Table: repositories.CollectionAssignments, Columns: []string{"assignment_id"}, Unique: true},
		{Name: "idx_assignments_due_date", Table: repositories.CollectionAssignments, Columns: []string{"due_date"}},
	}
}

type provisioner struct {
	db  *gorm.DB
	log zerolog.Logger
}

func NewProvisioner(db *gorm.DB, log zerolog.Logger) repositories.Provisioner {
	return &provisioner{db: db, log: log.With().Str("component", "provisioner").Logger()}
}

// Provision creates missing tables (with their CHECK validators) and
// indexes. With resetExisting every table is dropped first. Each step is
// attempted even if an earlier one failed; all failures are logged and
// returned together.
func (p *provisioner) Provision(ctx context.Context, resetExisting bool) (*repositories.ProvisionResult, error) {
	result := &repositories.ProvisionResult{}
	db := p.db.WithContext(ctx)
	migrator := db.Migrator()

	var errs []error
	fail := func(step string, err error) {
		p.log.Error().Err(err).Str("step", step).Msg("provisioning step failed")
		result.Failures = append(result.Failures, fmt.Sprintf("%s: %v", step, err))
		errs = append(errs, fmt.Errorf("%s: %w", step, err))
	}

	collections := repositories.Collections()

	if resetExisting {
		// children first so a future foreign key cannot block the drop
		for i := len(collections) - 1; i >= 0; i-- {
			c := collections[i]
			model, _ := collectionModel(c)
			if err := migrator.DropTable(model); err != nil {
				fail("drop "+string(c), err)
				continue
			}
			result.Dropped = append(result.Dropped, c)
		}
	}

	for _, c := range collections {
		model, _ := collectionModel(c)
		if migrator.HasTable(model) {
			result.Existing = append(result.Existing, c)
			continue
		}
		if err := migrator.CreateTable(model); err != nil {
			fail("create "+string(c), err)
			continue
		}
		result.Created = append(result.Created, c)
	}

	for _, idx := range Indexes() {
		if err := db.Exec(idx.SQL()).Error; err != nil {
			fail("index "+idx.Name, err)
			continue
		}
		result.IndexesEnsured = append(result.IndexesEnsured, idx.Name)
	}

	p.log.Info().
		Int("created", len(result.Created)).
		Int("existing", len(result.Existing)).
		Int("dropped", len(result.Dropped)).
		Int("indexes", len(result.IndexesEnsured)).
		Int("failures", len(result.Failures)).
		Msg("provisioning finished")

	return result, errors.Join(errs...)
}
