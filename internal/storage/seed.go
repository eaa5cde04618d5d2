package storage

import (
	"context"
	_ "embed"
	"fmt"
	"time"

	"github.com/yukikurage/clinical-data-api/internal/auth"
	"github.com/yukikurage/clinical-data-api/internal/models"
	"gopkg.in/yaml.v3"
)

//go:embed fixtures.yaml
var fixturesYAML []byte

// Fixtures is the demo data loaded by Seed.
type Fixtures struct {
	Password string           `yaml:"password"`
	Users    []userFixture    `yaml:"users"`
	Datasets []datasetFixture `yaml:"datasets"`
	Models   []modelFixture   `yaml:"models"`
}

type userFixture struct {
	Username    string      `yaml:"username"`
	Role        models.Role `yaml:"role"`
	FullName    string      `yaml:"fullName"`
	Institution string      `yaml:"institution"`
}

type datasetFixture struct {
	Name         string          `yaml:"name"`
	Description  string          `yaml:"description"`
	Modality     models.Modality `yaml:"modality"`
	PatientCount int64           `yaml:"patientCount"`
	SizeBytes    int64           `yaml:"sizeBytes"`
	OwnerID      uint64          `yaml:"ownerId"`
}

type modelFixture struct {
	Name      string             `yaml:"name"`
	Type      string             `yaml:"type"`
	Modality  string             `yaml:"modality"`
	Status    models.ModelStatus `yaml:"status"`
	Accuracy  string             `yaml:"accuracy"`
	RanAtSeed bool               `yaml:"ranAtSeed"`
}

// DefaultFixtures decodes the embedded fixture file.
func DefaultFixtures() (*Fixtures, error) {
	var f Fixtures
	if err := yaml.Unmarshal(fixturesYAML, &f); err != nil {
		return nil, fmt.Errorf("decode fixtures: %w", err)
	}
	return &f, nil
}

// Seed loads the embedded fixtures into store.
func Seed(ctx context.Context, store Storage) error {
	f, err := DefaultFixtures()
	if err != nil {
		return err
	}
	return f.Load(ctx, store, time.Now())
}

// SeedIfEmpty seeds store unless it already holds users. It reports whether
// it seeded.
func SeedIfEmpty(ctx context.Context, store Storage) (bool, error) {
	users, err := store.GetUsers(ctx)
	if err != nil {
		return false, err
	}
	if len(users) > 0 {
		return false, nil
	}
	return true, Seed(ctx, store)
}

// Load writes the fixtures into store. now stamps the lastRun of models that
// ran at seed time.
func (f *Fixtures) Load(ctx context.Context, store Storage, now time.Time) error {
	for _, u := range f.Users {
		hash, err := auth.HashPassword(f.Password)
		if err != nil {
			return fmt.Errorf("seed user %s: %w", u.Username, err)
		}
		if _, err := store.CreateUser(ctx, models.NewUser{
			Username:     u.Username,
			PasswordHash: hash,
			Role:         u.Role,
			FullName:     u.FullName,
			Institution:  u.Institution,
			IsActive:     true,
		}); err != nil {
			return fmt.Errorf("seed user %s: %w", u.Username, err)
		}
	}

	for _, d := range f.Datasets {
		var description *string
		if d.Description != "" {
			description = &d.Description
		}
		if _, err := store.CreateDataset(ctx, models.NewDataset{
			Name:         d.Name,
			Description:  description,
			Modality:     d.Modality,
			PatientCount: d.PatientCount,
			SizeBytes:    d.SizeBytes,
			OwnerID:      d.OwnerID,
		}); err != nil {
			return fmt.Errorf("seed dataset %s: %w", d.Name, err)
		}
	}

	for _, m := range f.Models {
		input := models.NewModel{
			Name:     m.Name,
			Type:     m.Type,
			Modality: m.Modality,
			Status:   m.Status,
		}
		if m.Accuracy != "" {
			accuracy := m.Accuracy
			input.Accuracy = &accuracy
		}
		if m.RanAtSeed {
			lastRun := now
			input.LastRun = &lastRun
		}
		if _, err := store.CreateModel(ctx, input); err != nil {
			return fmt.Errorf("seed model %s: %w", m.Name, err)
		}
	}

	return nil
}
