package storage

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/yukikurage/clinical-data-api/internal/database"
	"github.com/yukikurage/clinical-data-api/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// fakeClock advances by one second on every reading.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now
	c.now = c.now.Add(time.Second)
	return now
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

// StorageTestSuite runs the same behaviour checks against every backend.
type StorageTestSuite struct {
	suite.Suite
	newStore func(clock func() time.Time) Storage
	store    Storage
	clock    *fakeClock
	ctx      context.Context
}

func (suite *StorageTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.clock = newFakeClock()
	suite.store = suite.newStore(suite.clock.Now)
}

func (suite *StorageTestSuite) createUser(username string) *models.User {
	user, err := suite.store.CreateUser(suite.ctx, models.NewUser{
		Username:     username,
		PasswordHash: "hash",
		Role:         models.RoleResearcher,
		FullName:     "Test " + username,
		Institution:  "Test Institute",
		IsActive:     true,
	})
	suite.Require().NoError(err)
	return user
}

func (suite *StorageTestSuite) createDataset(name string, modality models.Modality) *models.Dataset {
	dataset, err := suite.store.CreateDataset(suite.ctx, models.NewDataset{
		Name:     name,
		Modality: modality,
		OwnerID:  1,
	})
	suite.Require().NoError(err)
	return dataset
}

func (suite *StorageTestSuite) TestDeleteUser_IDsNeverReused() {
	alice := suite.createUser("alice")
	bob := suite.createUser("bob")
	carol := suite.createUser("carol")

	suite.Require().NoError(suite.store.DeleteUser(suite.ctx, carol.ID))
	suite.Require().NoError(suite.store.DeleteUser(suite.ctx, bob.ID))

	dave := suite.createUser("dave")
	suite.Greater(dave.ID, carol.ID)
	suite.NotEqual(alice.ID, dave.ID)
}

func (suite *StorageTestSuite) TestCreateUser_AssignsIncreasingIDs() {
	first := suite.createUser("alice")
	second := suite.createUser("bob")

	suite.Equal(uint64(1), first.ID)
	suite.Greater(second.ID, first.ID)
	suite.False(first.CreatedAt.IsZero())
}

func (suite *StorageTestSuite) TestCreateUser_ThenLookupByUsername() {
	created := suite.createUser("carol")

	found, err := suite.store.GetUserByUsername(suite.ctx, "carol")
	suite.Require().NoError(err)
	suite.Require().NotNil(found)
	suite.Equal(created.ID, found.ID)

	byID, err := suite.store.GetUser(suite.ctx, created.ID)
	suite.Require().NoError(err)
	suite.Require().NotNil(byID)
	suite.Equal("carol", byID.Username)
	suite.True(created.CreatedAt.Equal(byID.CreatedAt))
}

func (suite *StorageTestSuite) TestGetUser_MissingReturnsNil() {
	user, err := suite.store.GetUser(suite.ctx, 9999)
	suite.NoError(err)
	suite.Nil(user)

	user, err = suite.store.GetUserByUsername(suite.ctx, "nobody")
	suite.NoError(err)
	suite.Nil(user)
}

func (suite *StorageTestSuite) TestCreateUser_KeepsInactiveFlag() {
	user, err := suite.store.CreateUser(suite.ctx, models.NewUser{
		Username:     "dormant",
		PasswordHash: "hash",
		Role:         models.RoleAdmin,
		FullName:     "Dormant",
		Institution:  "Nowhere",
		IsActive:     false,
	})
	suite.Require().NoError(err)

	stored, err := suite.store.GetUser(suite.ctx, user.ID)
	suite.Require().NoError(err)
	suite.False(stored.IsActive)
	suite.Equal(models.RoleAdmin, stored.Role)
}

func (suite *StorageTestSuite) TestUpdateUser_MergesPartialFields() {
	user := suite.createUser("dave")
	institution := "New Institute"
	inactive := false

	updated, err := suite.store.UpdateUser(suite.ctx, user.ID, models.UserPatch{
		Institution: &institution,
		IsActive:    &inactive,
	})
	suite.Require().NoError(err)
	suite.Equal("dave", updated.Username)
	suite.Equal("Test dave", updated.FullName)
	suite.Equal(institution, updated.Institution)
	suite.False(updated.IsActive)
	suite.True(user.CreatedAt.Equal(updated.CreatedAt))

	stored, err := suite.store.GetUser(suite.ctx, user.ID)
	suite.Require().NoError(err)
	suite.Equal(institution, stored.Institution)
}

func (suite *StorageTestSuite) TestUpdateUser_MissingLeavesUsersUnchanged() {
	suite.createUser("erin")
	before, err := suite.store.GetUsers(suite.ctx)
	suite.Require().NoError(err)

	name := "ghost"
	_, err = suite.store.UpdateUser(suite.ctx, 9999, models.UserPatch{Username: &name})
	suite.ErrorIs(err, ErrNotFound)

	after, err := suite.store.GetUsers(suite.ctx)
	suite.Require().NoError(err)
	suite.Require().Len(after, len(before))
	for i := range before {
		suite.Equal(before[i].ID, after[i].ID)
		suite.Equal(before[i].Username, after[i].Username)
	}
}

func (suite *StorageTestSuite) TestDeleteUser_Idempotent() {
	user := suite.createUser("frank")

	suite.Require().NoError(suite.store.DeleteUser(suite.ctx, user.ID))
	suite.Require().NoError(suite.store.DeleteUser(suite.ctx, user.ID))
	suite.Require().NoError(suite.store.DeleteUser(suite.ctx, 9999))

	found, err := suite.store.GetUser(suite.ctx, user.ID)
	suite.NoError(err)
	suite.Nil(found)
}

func (suite *StorageTestSuite) TestGetDatasets_ModalityFilterIsExactSubset() {
	suite.createDataset("a", models.ModalityEHR)
	suite.createDataset("b", models.ModalityRadiology)
	suite.createDataset("c", models.ModalityEHR)
	suite.createDataset("d", models.ModalityHistopathology)

	all, err := suite.store.GetDatasets(suite.ctx, "")
	suite.Require().NoError(err)
	suite.Len(all, 4)

	for _, modality := range models.Modalities {
		filtered, err := suite.store.GetDatasets(suite.ctx, modality)
		suite.Require().NoError(err)

		var expected []uint64
		for _, d := range all {
			if d.Modality == modality {
				expected = append(expected, d.ID)
			}
		}
		var got []uint64
		for _, d := range filtered {
			got = append(got, d.ID)
		}
		suite.Equal(expected, got, string(modality))
	}

	none, err := suite.store.GetDatasets(suite.ctx, "genomics")
	suite.Require().NoError(err)
	suite.NotNil(none)
	suite.Empty(none)
}

func (suite *StorageTestSuite) TestCreateDataset_ThenGet() {
	description := "cohort"
	created, err := suite.store.CreateDataset(suite.ctx, models.NewDataset{
		Name:         "X",
		Description:  &description,
		Modality:     models.ModalityEHR,
		PatientCount: 12,
		SizeBytes:    2048,
		OwnerID:      1,
	})
	suite.Require().NoError(err)
	suite.NotZero(created.ID)
	suite.False(created.CreatedAt.IsZero())

	found, err := suite.store.GetDataset(suite.ctx, created.ID)
	suite.Require().NoError(err)
	suite.Require().NotNil(found)
	suite.Equal(created.Name, found.Name)
	suite.Equal(*created.Description, *found.Description)
	suite.Equal(created.PatientCount, found.PatientCount)
	suite.True(created.CreatedAt.Equal(found.CreatedAt))

	missing, err := suite.store.GetDataset(suite.ctx, 9999)
	suite.NoError(err)
	suite.Nil(missing)
}

func (suite *StorageTestSuite) TestGetFiles_FiltersByDatasetInInsertionOrder() {
	for _, f := range []struct {
		dataset uint64
		name    string
	}{{1, "a.csv"}, {2, "b.dcm"}, {1, "c.csv"}, {1, "d.csv"}} {
		_, err := suite.store.CreateFile(suite.ctx, models.NewFile{
			DatasetID: f.dataset,
			Name:      f.name,
			FileType:  "csv",
			SizeBytes: 10,
			URL:       "https://files.example.com/" + f.name,
		})
		suite.Require().NoError(err)
	}

	files, err := suite.store.GetFiles(suite.ctx, 1)
	suite.Require().NoError(err)
	suite.Require().Len(files, 3)
	suite.Equal("a.csv", files[0].Name)
	suite.Equal("c.csv", files[1].Name)
	suite.Equal("d.csv", files[2].Name)
	suite.False(files[0].UploadedAt.IsZero())

	empty, err := suite.store.GetFiles(suite.ctx, 42)
	suite.Require().NoError(err)
	suite.NotNil(empty)
	suite.Empty(empty)
}

func (suite *StorageTestSuite) TestCreateModel_DefaultsToReady() {
	model, err := suite.store.CreateModel(suite.ctx, models.NewModel{
		Name:     "Classifier",
		Type:     "classification",
		Modality: "ehr",
	})
	suite.Require().NoError(err)
	suite.Equal(models.ModelStatusReady, model.Status)
	suite.Nil(model.Accuracy)
	suite.Nil(model.LastRun)

	list, err := suite.store.GetModels(suite.ctx)
	suite.Require().NoError(err)
	suite.Require().Len(list, 1)
	suite.Equal("Classifier", list[0].Name)
}

func (suite *StorageTestSuite) TestGetAuditLogs_NewestFirst() {
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	for i, offset := range []time.Duration{0, 3 * time.Minute, time.Minute, 2 * time.Minute} {
		suite.clock.Set(base.Add(offset))
		_, err := suite.store.CreateAuditLog(suite.ctx, models.NewAuditLog{
			UserID:   uint64(i + 1),
			Action:   models.AuditActionLogin,
			Resource: "auth",
		})
		suite.Require().NoError(err)
	}

	logs, err := suite.store.GetAuditLogs(suite.ctx)
	suite.Require().NoError(err)
	suite.Require().Len(logs, 4)
	for i := 1; i < len(logs); i++ {
		suite.False(logs[i].Timestamp.After(*logs[i-1].Timestamp), "entry %d is newer than entry %d", i, i-1)
	}
	suite.Equal(uint64(2), logs[0].UserID)
	suite.Equal(uint64(1), logs[3].UserID)
}

func (suite *StorageTestSuite) TestCollectionsHaveIndependentCounters() {
	user := suite.createUser("gina")
	dataset := suite.createDataset("first", models.ModalityEHR)
	log, err := suite.store.CreateAuditLog(suite.ctx, models.NewAuditLog{UserID: user.ID, Action: "CREATE", Resource: "datasets"})
	suite.Require().NoError(err)

	suite.Equal(uint64(1), user.ID)
	suite.Equal(uint64(1), dataset.ID)
	suite.Equal(uint64(1), log.ID)
}

func (suite *StorageTestSuite) TestSeed_LoadsFixtures() {
	suite.Require().NoError(Seed(suite.ctx, suite.store))

	users, err := suite.store.GetUsers(suite.ctx)
	suite.Require().NoError(err)
	suite.Require().Len(users, 2)
	suite.Equal("admin", users[0].Username)
	suite.Equal(models.RoleAdmin, users[0].Role)
	suite.Equal(models.RoleResearcher, users[1].Role)

	datasets, err := suite.store.GetDatasets(suite.ctx, "")
	suite.Require().NoError(err)
	suite.Require().Len(datasets, 3)
	seen := map[models.Modality]bool{}
	for _, d := range datasets {
		seen[d.Modality] = true
	}
	suite.Len(seen, 3)

	list, err := suite.store.GetModels(suite.ctx)
	suite.Require().NoError(err)
	suite.Require().Len(list, 2)
	suite.Equal(models.ModelStatusReady, list[0].Status)
	suite.NotNil(list[0].LastRun)
	suite.Equal(models.ModelStatusTraining, list[1].Status)
	suite.Nil(list[1].Accuracy)

	seeded, err := SeedIfEmpty(suite.ctx, suite.store)
	suite.Require().NoError(err)
	suite.False(seeded)
}

func (suite *StorageTestSuite) TestReset_EmptiesCollections() {
	suite.createUser("hank")
	suite.createDataset("gone", models.ModalityRadiology)

	suite.Require().NoError(suite.store.Reset(suite.ctx))

	users, err := suite.store.GetUsers(suite.ctx)
	suite.Require().NoError(err)
	suite.Empty(users)
	datasets, err := suite.store.GetDatasets(suite.ctx, "")
	suite.Require().NoError(err)
	suite.Empty(datasets)

	suite.createUser("ivy")
}

func TestMemStorage(t *testing.T) {
	suite.Run(t, &StorageTestSuite{
		newStore: func(clock func() time.Time) Storage {
			return NewMemStorage(WithClock(clock))
		},
	})
}

func TestGormStorage_SQLite(t *testing.T) {
	suite.Run(t, &StorageTestSuite{
		newStore: func(clock func() time.Time) Storage {
			db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
			if err != nil {
				t.Fatalf("open sqlite: %v", err)
			}
			sqlDB, err := db.DB()
			if err != nil {
				t.Fatalf("sqlite pool: %v", err)
			}
			sqlDB.SetMaxOpenConns(1)
			t.Cleanup(func() { sqlDB.Close() })

			if err := database.Migrate(db); err != nil {
				t.Fatalf("migrate: %v", err)
			}
			return NewGormStorage(db, WithClock(clock))
		},
	})
}
