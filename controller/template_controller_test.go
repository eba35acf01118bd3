package controller

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplateCatalogueRoutes(t *testing.T) {
	app := newTestApp(t)
	base := "/api/standards/template"

	code, _ := app.do(http.MethodPost, base, "dewi", map[string]interface{}{"detailContent": "Definitions"})
	assert.Equal(t, http.StatusForbidden, code)

	code, body := app.do(http.MethodPost, base, "admin", map[string]interface{}{"detailContent": "Definitions", "detailCode": "DEF"})
	require.Equal(t, http.StatusCreated, code, body)
	detailID := body["data"].(map[string]interface{})["id"].(string)

	code, body = app.do(http.MethodGet, base+"?detailCode=def&sortBy=detailOrder", "dewi", nil)
	require.Equal(t, http.StatusOK, code, body)
	page := body["data"].(map[string]interface{})
	assert.EqualValues(t, 1, page["total_filtered"])

	code, body = app.do(http.MethodPatch, base+"/"+detailID, "admin", map[string]interface{}{"detailCode": "DEF"})
	assert.Equal(t, http.StatusBadRequest, code, body)
	assert.Equal(t, "No data provided to update", body["message"])

	code, body = app.do(http.MethodPost, base+"/"+detailID+"/type", "admin", map[string]interface{}{"detailType": "Term", "detailTypeCode": "T1"})
	require.Equal(t, http.StatusCreated, code, body)
	typeID := body["data"].(map[string]interface{})["id"].(string)

	code, body = app.do(http.MethodGet, base+"/"+detailID+"/type?search=term", "dewi", nil)
	require.Equal(t, http.StatusOK, code, body)
	assert.Len(t, body["data"].([]interface{}), 1)

	code, body = app.do(http.MethodPost, base+"/"+detailID+"/list", "admin", map[string]interface{}{
		"idStandardDetailType": typeID,
		"templateContent":      "Lecturer means ...",
	})
	require.Equal(t, http.StatusCreated, code, body)
	templateID := body["data"].(map[string]interface{})["id"].(string)

	code, body = app.do(http.MethodGet, base+"/"+detailID+"/list", "dewi", nil)
	require.Equal(t, http.StatusOK, code, body)
	rows := body["data"].([]interface{})
	require.Len(t, rows, 1)
	assert.Equal(t, "Term", rows[0].(map[string]interface{})["standardDetailType"].(map[string]interface{})["detailType"])

	code, body = app.do(http.MethodGet, "/api/standards/formulation/contents", "dewi", nil)
	require.Equal(t, http.StatusOK, code, body)
	contents := body["data"].([]interface{})
	require.Len(t, contents, 1)
	types := contents[0].(map[string]interface{})["types"].([]interface{})
	require.Len(t, types, 1)
	assert.Len(t, types[0].(map[string]interface{})["templates"].([]interface{}), 1)

	code, _ = app.do(http.MethodDelete, base+"/"+detailID+"/list/"+templateID, "admin", nil)
	require.Equal(t, http.StatusOK, code)
	code, _ = app.do(http.MethodDelete, base+"/"+detailID+"/type/"+typeID, "admin", nil)
	require.Equal(t, http.StatusOK, code)
	code, _ = app.do(http.MethodDelete, base+"/"+detailID, "admin", nil)
	require.Equal(t, http.StatusOK, code)
	code, body = app.do(http.MethodGet, base+"/"+detailID, "dewi", nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, false, body["success"])
}
