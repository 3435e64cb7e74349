package api

import (
	"census/internal/engine"
	"census/internal/models"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testCSV = `County,State,Education.Percent Bachelor's Degree or Higher,Income.Persons Below Poverty Level,Population.2014 Population
Anderson County,TX,20,10,100
Bexar County,TX,30,15,200
Collin County,TX,40,20,300
Alameda County,CA,45,12,1000
`

func newServer(t *testing.T, withData bool) (*echo.Echo, *Handler) {
	t.Helper()
	var store *engine.Store
	if withData {
		var err error
		store, err = engine.Load(strings.NewReader(testCSV), zap.NewNop())
		require.NoError(t, err)
	}
	e := echo.New()
	h := NewHandler(store, zap.NewNop())
	h.RegisterRoutes(e)
	return e, h
}

func do(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestLoadingReturns503(t *testing.T) {
	e, h := newServer(t, false)
	for _, target := range []string{"/api/states", "/api/counties", "/api/counties/TX/Bexar%20County"} {
		rec := do(e, http.MethodGet, target, "")
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code, target)
	}
	rec := do(e, http.MethodPost, "/api/run", "population-total\n")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	store, err := engine.Load(strings.NewReader(testCSV), zap.NewNop())
	require.NoError(t, err)
	h.SetStore(store)
	rec = do(e, http.MethodGet, "/api/states", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGetStates(t *testing.T) {
	e, _ := newServer(t, true)
	rec := do(e, http.MethodGet, "/api/states", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var data models.Summary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &data))
	assert.Equal(t, 4, data.Counties)
	assert.Equal(t, 1600, data.Population)
	require.Len(t, data.States, 2)
	assert.Equal(t, "CA", data.States[0].State)
	assert.Equal(t, "TX", data.States[1].State)
	assert.Equal(t, 3, data.States[1].Counties)
}

func TestGetCounties(t *testing.T) {
	e, _ := newServer(t, true)

	var page struct {
		Data   []models.CountyRecord `json:"data"`
		Total  int                   `json:"total"`
		Limit  int                   `json:"limit"`
		Offset int                   `json:"offset"`
	}
	rec := do(e, http.MethodGet, "/api/counties?state=TX&limit=2&offset=1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Equal(t, 3, page.Total)
	require.Len(t, page.Data, 2)
	assert.Equal(t, "Bexar County", page.Data[0].County)

	rec = do(e, http.MethodGet, "/api/counties?offset=10", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Empty(t, page.Data)
	assert.Equal(t, 4, page.Total)
}

func TestGetCounty(t *testing.T) {
	e, _ := newServer(t, true)

	rec := do(e, http.MethodGet, "/api/counties/TX/Bexar%20County", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var county models.CountyRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &county))
	assert.Equal(t, "Bexar County", county.County)
	assert.Equal(t, "TX", county.State)
	assert.Equal(t, 200, county.Population2014())
	assert.Equal(t, 30.0, county.Education["Percent Bachelor's Degree or Higher"])

	rec = do(e, http.MethodGet, "/api/counties/CA/Bexar%20County", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRunDirectives(t *testing.T) {
	e, _ := newServer(t, true)
	body := "filter-state:TX\nbogus-op:1\nfilter-gt:Education.NoSuchLabel:10\npopulation-total\n"
	rec := do(e, http.MethodPost, "/api/run", body)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.RunResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	_, err := uuid.Parse(resp.RunID)
	assert.NoError(t, err)
	require.Len(t, resp.SyntaxErrors, 1)
	assert.Contains(t, resp.SyntaxErrors[0], "line 2")

	require.Len(t, resp.Results, 3)
	assert.Equal(t, 3, resp.Results[0].Entries)
	assert.NotEmpty(t, resp.Results[1].Error)
	assert.Equal(t, 3, resp.Results[1].Entries)
	assert.Equal(t, "2014 population: 600", resp.Results[2].Message)
	assert.Equal(t, 3, resp.Remaining)

	// Runs are independent: a new run starts from the full table.
	rec = do(e, http.MethodPost, "/api/run", "population-total")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "2014 population: 1600", resp.Results[0].Message)
}
