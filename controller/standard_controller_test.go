package controller

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStandardsEnvelope(t *testing.T) {
	app := newTestApp(t)

	code, _ := app.do(http.MethodGet, "/api/standards", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, body := app.do(http.MethodPost, "/api/standards", "dewi", map[string]string{"standardName": "Safety", "standardCode": "STD-1"})
	assert.Equal(t, http.StatusForbidden, code, body)

	code, body = app.do(http.MethodPost, "/api/standards", "admin", map[string]string{"standardName": "Safety", "standardCode": "STD-1"})
	require.Equal(t, http.StatusCreated, code, body)
	assert.Equal(t, true, body["success"])
	id := body["data"].(map[string]interface{})["id"].(string)

	code, body = app.do(http.MethodGet, "/api/standards?sortBy=standardName:asc", "dewi", nil)
	require.Equal(t, http.StatusOK, code, body)
	page := body["data"].(map[string]interface{})
	assert.EqualValues(t, 1, page["total"])
	rows := page["data"].([]interface{})
	require.Len(t, rows, 1)
	assert.EqualValues(t, 1, rows[0].(map[string]interface{})["orderingNumber"])

	code, body = app.do(http.MethodGet, "/api/standards?sortBy=bogus:asc", "dewi", nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, false, body["success"])

	code, body = app.do(http.MethodPatch, "/api/standards/"+id, "admin", map[string]string{"standardName": "Safety"})
	assert.Equal(t, http.StatusBadRequest, code, "unchanged patch")

	code, _ = app.do(http.MethodDelete, "/api/standards/"+id, "admin", nil)
	require.Equal(t, http.StatusOK, code)
	code, body = app.do(http.MethodGet, "/api/standards/"+id, "dewi", nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, false, body["success"])
}

func TestFormulationApprovalFlow(t *testing.T) {
	app := newTestApp(t)
	schedule := uuid.NewString()

	_, body := app.do(http.MethodPost, "/api/standards", "admin", map[string]string{"standardName": "Safety", "standardCode": "STD-1"})
	standardID := body["data"].(map[string]interface{})["id"].(string)

	code, body := app.do(http.MethodPost, "/api/standards/schedules/"+schedule+"/assignments", "admin", map[string]interface{}{
		"standardId": standardID,
		"members":    []map[string]string{{"userId": app.users["dewi"].ID, "memberType": "lead"}},
		"units":      []map[string]string{{"unitId": "u-1", "unitName": "Finance"}},
	})
	require.Equal(t, http.StatusCreated, code, body)
	assignmentID := body["data"].(map[string]interface{})["id"].(string)

	code, _ = app.do(http.MethodPost, "/api/standards/schedules/"+schedule+"/assignments", "dewi", map[string]interface{}{
		"standardId": standardID,
		"members":    []map[string]string{{"userId": app.users["dewi"].ID, "memberType": "lead"}},
	})
	assert.Equal(t, http.StatusForbidden, code)

	member := "/api/standards/formulation/members/" + assignmentID
	code, _ = app.do(http.MethodGet, member, "eko", nil)
	assert.Equal(t, http.StatusNotFound, code, "non-members cannot see the assignment")
	code, _ = app.do(http.MethodGet, member, "admin", nil)
	assert.Equal(t, http.StatusNotFound, code, "member routes ignore the admin role")

	code, body = app.do(http.MethodPatch, member, "dewi", map[string]string{"definitions": "x"})
	assert.Equal(t, http.StatusNotFound, code, "no formulation yet")

	code, body = app.do(http.MethodPost, member, "dewi", map[string]string{"rationaleAndObjectives": "Keep people safe"})
	require.Equal(t, http.StatusCreated, code, body)
	code, body = app.do(http.MethodPost, member, "dewi", map[string]string{"definitions": "again"})
	assert.Equal(t, http.StatusBadRequest, code)

	code, body = app.do(http.MethodPatch, member, "dewi", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "No data provided to update", body["message"])

	code, body = app.do(http.MethodGet, "/api/standards/formulation/lists/"+schedule, "eko", nil)
	require.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 0, body["data"].(map[string]interface{})["total"])
	code, body = app.do(http.MethodGet, "/api/standards/formulation/lists/"+schedule, "dewi", nil)
	require.Equal(t, http.StatusOK, code)
	rows := body["data"].(map[string]interface{})["data"].([]interface{})
	require.Len(t, rows, 1)
	row := rows[0].(map[string]interface{})
	assert.Equal(t, true, row["hasFormulation"])
	assert.Nil(t, row["approvalRequest"])

	code, body = app.do(http.MethodPost, member+"/submission", "dewi", nil)
	require.Equal(t, http.StatusOK, code, body)
	request := body["data"].(map[string]interface{})
	assert.Equal(t, "pending", request["status"])

	code, body = app.do(http.MethodPost, member+"/submission", "dewi", nil)
	require.Equal(t, http.StatusOK, code, body)
	assert.Equal(t, request["id"], body["data"].(map[string]interface{})["id"], "pending request is refreshed")

	approvals := "/api/standards/approval/formulation/"
	code, _ = app.do(http.MethodGet, approvals+schedule, "dewi", nil)
	assert.Equal(t, http.StatusForbidden, code)
	code, body = app.do(http.MethodGet, approvals+schedule+"?status=pending", "rina", nil)
	require.Equal(t, http.StatusOK, code, body)
	assert.EqualValues(t, 1, body["data"].(map[string]interface{})["total_filtered"])

	code, _ = app.do(http.MethodPost, approvals+assignmentID, "dewi", map[string]string{"status": "approved"})
	assert.Equal(t, http.StatusForbidden, code)
	code, _ = app.do(http.MethodPost, approvals+assignmentID, "rina", map[string]string{"status": "maybe"})
	assert.Equal(t, http.StatusBadRequest, code)

	code, body = app.do(http.MethodPost, approvals+assignmentID, "rina", map[string]string{"status": "approved", "note": "ok"})
	require.Equal(t, http.StatusOK, code, body)
	assert.Equal(t, "Approval request approved", body["message"])
	assert.Equal(t, app.users["rina"].ID, body["data"].(map[string]interface{})["reviewerId"])

	code, body = app.do(http.MethodPost, approvals+assignmentID, "admin", map[string]string{"status": "rejected"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "approval request has already been decided", body["message"])

	code, body = app.do(http.MethodGet, approvals+assignmentID+"/detail", "rina", nil)
	require.Equal(t, http.StatusOK, code, body)
	detail := body["data"].(map[string]interface{})
	assert.Equal(t, "approved", detail["approvalRequest"].(map[string]interface{})["status"])
	assert.Len(t, detail["history"], 1)

	code, _ = app.do(http.MethodDelete, "/api/standards/formulation/"+assignmentID, "dewi", nil)
	assert.Equal(t, http.StatusForbidden, code)
	code, _ = app.do(http.MethodDelete, "/api/standards/formulation/"+assignmentID, "admin", nil)
	require.Equal(t, http.StatusOK, code)
	code, _ = app.do(http.MethodGet, "/api/standards/formulation/"+assignmentID, "admin", nil)
	assert.Equal(t, http.StatusNotFound, code)
}
