package businessflow

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oohgrid/oohgrid/models"
)

func newTestGeoFlow() GeoFlow {
	return NewGeoFlow(&fakeGeoRepo{divisions: []*models.GeoDivision{
		{DivisionID: "310000", Name: "Shanghai", CountryCode: "CN"},
		{DivisionID: "110000", Name: "Beijing", CountryCode: "CN"},
		{DivisionID: "440100", Name: "Guangzhou", CountryCode: "CN"},
		{DivisionID: "00001", Name: "Berlin", CountryCode: "DE"},
	}}, nil, "test")
}

func TestListDivisions(t *testing.T) {
	flow := newTestGeoFlow()

	divisions, err := flow.ListDivisions(context.Background(), "CN")
	require.NoError(t, err)
	require.Len(t, divisions, 3)

	// Ordered by name
	assert.Equal(t, "Beijing", divisions[0].Name)
	assert.Equal(t, "Guangzhou", divisions[1].Name)
	assert.Equal(t, "Shanghai", divisions[2].Name)
	assert.Equal(t, "110000", divisions[0].ID)
}

func TestListDivisionsDefaultCountry(t *testing.T) {
	flow := newTestGeoFlow()

	byDefault, err := flow.ListDivisions(context.Background(), "")
	require.NoError(t, err)
	explicit, err := flow.ListDivisions(context.Background(), "CN")
	require.NoError(t, err)
	assert.Equal(t, explicit, byDefault)
}

func TestListDivisionsCountryCodeNormalized(t *testing.T) {
	flow := newTestGeoFlow()

	lower, err := flow.ListDivisions(context.Background(), "de")
	require.NoError(t, err)
	require.Len(t, lower, 1)
	assert.Equal(t, "Berlin", lower[0].Name)
}

func TestListDivisionsUnknownCountry(t *testing.T) {
	flow := newTestGeoFlow()

	divisions, err := flow.ListDivisions(context.Background(), "XX")
	require.NoError(t, err)
	assert.Empty(t, divisions)
}

func TestResolveCities(t *testing.T) {
	flow := newTestGeoFlow()

	cities, err := flow.ResolveCities(context.Background(), []string{"310000", "110000"})
	require.NoError(t, err)
	require.Len(t, cities, 2)

	// Input order is preserved
	assert.Equal(t, models.CityRecord{ID: "310000", Name: "Shanghai"}, cities[0])
	assert.Equal(t, models.CityRecord{ID: "110000", Name: "Beijing"}, cities[1])
}

func TestResolveCitiesEmptySelections(t *testing.T) {
	flow := newTestGeoFlow()

	cities, err := flow.ResolveCities(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, cities)
}

func TestResolveCitiesUnknownIDs(t *testing.T) {
	flow := newTestGeoFlow()

	_, err := flow.ResolveCities(context.Background(), []string{"110000", "999999", "123456"})
	require.Error(t, err)
	assert.True(t, IsCityNotFound(err))

	// Every unknown id is reported, sorted
	var be *BusinessError
	require.ErrorAs(t, err, &be)
	assert.Equal(t, "Invalid city selections (not found in geo table): [123456 999999]", be.Message)
	assert.Equal(t, "CITY_NOT_FOUND", be.Code)
}
