package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"closetrent/internal/common"
	"closetrent/internal/models"

	"github.com/google/uuid"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

var clothesRowColumns = []string{"id", "name", "owner_name", "rental_price", "description", "status", "image", "created_at", "updated_at"}

type ClothesRepoTestSuite struct {
	suite.Suite
	mock    pgxmock.PgxPoolIface
	repo    ClothesRepository
	context context.Context
	now     time.Time
}

func (suite *ClothesRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	require.NoError(suite.T(), err)
	suite.mock = mock
	suite.repo = NewClothesRepo(mock)
	suite.context = context.Background()
	suite.now = time.Date(2026, 5, 1, 9, 30, 0, 0, time.UTC)
}

func (suite *ClothesRepoTestSuite) TearDownTest() {
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
	suite.mock.Close()
}

func TestClothesRepoTestSuite(t *testing.T) {
	suite.Run(t, new(ClothesRepoTestSuite))
}

func (suite *ClothesRepoTestSuite) newClothes() *models.Clothes {
	return &models.Clothes{
		ID:          uuid.New(),
		Name:        "Linen shirt",
		OwnerName:   "Lan",
		RentalPrice: 120000,
		Description: "Off-white",
		Status:      models.ClothesStatusAvailable,
		Image:       "/uploads/shirt.jpg",
	}
}

func (suite *ClothesRepoTestSuite) TestCreate_Success() {
	c := suite.newClothes()

	suite.mock.ExpectQuery(`INSERT INTO clothes`).
		WithArgs(c.ID, c.Name, c.OwnerName, c.RentalPrice, c.Description, c.Status, c.Image).
		WillReturnRows(pgxmock.NewRows([]string{"created_at", "updated_at"}).AddRow(suite.now, suite.now))

	err := suite.repo.Create(suite.context, c)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), suite.now, c.CreatedAt)
}

func (suite *ClothesRepoTestSuite) TestCreate_DatabaseError() {
	c := suite.newClothes()

	suite.mock.ExpectQuery(`INSERT INTO clothes`).
		WithArgs(c.ID, c.Name, c.OwnerName, c.RentalPrice, c.Description, c.Status, c.Image).
		WillReturnError(errors.New("connection reset"))

	err := suite.repo.Create(suite.context, c)
	assert.Error(suite.T(), err)
	assert.Contains(suite.T(), err.Error(), "insert clothes")
}

func (suite *ClothesRepoTestSuite) TestGetByID_Found() {
	c := suite.newClothes()

	suite.mock.ExpectQuery(`SELECT .* FROM clothes WHERE id = \$1`).
		WithArgs(c.ID).
		WillReturnRows(pgxmock.NewRows(clothesRowColumns).
			AddRow(c.ID, c.Name, c.OwnerName, c.RentalPrice, c.Description, c.Status, c.Image, suite.now, suite.now))

	got, err := suite.repo.GetByID(suite.context, c.ID)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), c.Name, got.Name)
	assert.Equal(suite.T(), c.Image, got.Image)
}

func (suite *ClothesRepoTestSuite) TestGetByID_NotFound() {
	id := uuid.New()

	suite.mock.ExpectQuery(`SELECT .* FROM clothes WHERE id = \$1`).
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows(clothesRowColumns))

	_, err := suite.repo.GetByID(suite.context, id)
	assert.True(suite.T(), common.IsNotFoundError(err))
}

func (suite *ClothesRepoTestSuite) TestGetByIDs_OmitsMissing() {
	a := suite.newClothes()
	missing := uuid.New()
	ids := []uuid.UUID{a.ID, missing}

	suite.mock.ExpectQuery(`FROM clothes WHERE id = ANY\(\$1\)`).
		WithArgs(ids).
		WillReturnRows(pgxmock.NewRows(clothesRowColumns).
			AddRow(a.ID, a.Name, a.OwnerName, a.RentalPrice, a.Description, a.Status, a.Image, suite.now, suite.now))

	got, err := suite.repo.GetByIDs(suite.context, ids)
	require.NoError(suite.T(), err)
	assert.Len(suite.T(), got, 1)
	assert.Contains(suite.T(), got, a.ID)
	assert.NotContains(suite.T(), got, missing)
}

func (suite *ClothesRepoTestSuite) TestGetByIDs_EmptyInputSkipsQuery() {
	got, err := suite.repo.GetByIDs(suite.context, nil)
	assert.NoError(suite.T(), err)
	assert.Empty(suite.T(), got)
}

func (suite *ClothesRepoTestSuite) TestUpdate_Success() {
	c := suite.newClothes()
	later := suite.now.Add(time.Hour)

	suite.mock.ExpectQuery(`UPDATE clothes`).
		WithArgs(c.Name, c.OwnerName, c.RentalPrice, c.Description, c.Status, c.Image, c.ID).
		WillReturnRows(pgxmock.NewRows([]string{"updated_at"}).AddRow(later))

	err := suite.repo.Update(suite.context, c)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), later, c.UpdatedAt)
}

func (suite *ClothesRepoTestSuite) TestUpdate_NotFound() {
	c := suite.newClothes()

	suite.mock.ExpectQuery(`UPDATE clothes`).
		WithArgs(c.Name, c.OwnerName, c.RentalPrice, c.Description, c.Status, c.Image, c.ID).
		WillReturnRows(pgxmock.NewRows([]string{"updated_at"}))

	err := suite.repo.Update(suite.context, c)
	assert.True(suite.T(), common.IsNotFoundError(err))
}

func (suite *ClothesRepoTestSuite) TestDelete_Success() {
	id := uuid.New()

	suite.mock.ExpectExec(`DELETE FROM clothes WHERE id = \$1`).
		WithArgs(id).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	assert.NoError(suite.T(), suite.repo.Delete(suite.context, id))
}

func (suite *ClothesRepoTestSuite) TestDelete_NotFound() {
	id := uuid.New()

	suite.mock.ExpectExec(`DELETE FROM clothes WHERE id = \$1`).
		WithArgs(id).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := suite.repo.Delete(suite.context, id)
	assert.True(suite.T(), common.IsNotFoundError(err))
}

func (suite *ClothesRepoTestSuite) TestList_NewestFirst() {
	older := suite.newClothes()
	newer := suite.newClothes()
	newer.Name = "Velvet dress"

	suite.mock.ExpectQuery(`SELECT .* FROM clothes ORDER BY created_at DESC`).
		WillReturnRows(pgxmock.NewRows(clothesRowColumns).
			AddRow(newer.ID, newer.Name, newer.OwnerName, newer.RentalPrice, newer.Description, newer.Status, newer.Image, suite.now.Add(time.Minute), suite.now).
			AddRow(older.ID, older.Name, older.OwnerName, older.RentalPrice, older.Description, older.Status, older.Image, suite.now, suite.now))

	list, err := suite.repo.List(suite.context)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), list, 2)
	assert.Equal(suite.T(), newer.ID, list[0].ID)
	assert.Equal(suite.T(), older.ID, list[1].ID)
}

func (suite *ClothesRepoTestSuite) TestList_Empty() {
	suite.mock.ExpectQuery(`SELECT .* FROM clothes ORDER BY created_at DESC`).
		WillReturnRows(pgxmock.NewRows(clothesRowColumns))

	list, err := suite.repo.List(suite.context)
	require.NoError(suite.T(), err)
	assert.NotNil(suite.T(), list)
	assert.Empty(suite.T(), list)
}
