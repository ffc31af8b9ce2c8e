package app

import (
	"testing"

	"github.com/winmanuel/eduhub/internal/config"
)

func TestSeedCounts(t *testing.T) {
	cfg := config.Default().Seed
	counts := SeedCounts(cfg)

	if counts.Students != cfg.Students || counts.Instructors != cfg.Instructors || counts.Submissions != cfg.Submissions {
		t.Errorf("SeedCounts() = %+v, want values from %+v", counts, cfg)
	}
}

func TestGenerator(t *testing.T) {
	cfg := config.Default().Seed

	cfg.RandomSeed = 0
	if Generator(cfg) != nil {
		t.Error("Generator() without a seed should defer to the setup service")
	}

	cfg.RandomSeed = 7
	a, err := Generator(cfg).Generate(SeedCounts(cfg))
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	b, err := Generator(cfg).Generate(SeedCounts(cfg))
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if a.Students[0].UserID != b.Students[0].UserID || a.Courses[0].CourseID != b.Courses[0].CourseID {
		t.Error("seeded generators produced different datasets")
	}
}
