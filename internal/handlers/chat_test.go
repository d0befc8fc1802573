package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arjundev29/campuskaam_backend/internal/models"
)

func TestSendAndListMessages(t *testing.T) {
	env := newTestEnv(t)
	customer := createUser(t, env.DB, models.RoleCustomer, "Amit")
	jobID := createJobViaAPI(t, env, customer)

	// empty conversation returns an empty list, not an error
	status, resp := doJSON(t, env.App, "GET", "/api/jobs/"+jobID+"/messages", nil, customer)
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, resp["data"])

	status, resp = doJSON(t, env.App, "POST", "/api/jobs/"+jobID+"/messages",
		map[string]string{"text": "hello"}, customer)
	require.Equal(t, http.StatusCreated, status)
	msg := resp["data"].(map[string]interface{})
	assert.Equal(t, "hello", msg["text"])
	assert.Equal(t, "user", msg["kind"])
	assert.Equal(t, customer.ID.String(), msg["sender_id"])

	_, resp = doJSON(t, env.App, "POST", "/api/jobs/"+jobID+"/messages",
		map[string]string{"text": "anyone there?"}, customer)

	// appended message is the last element, in insertion order
	_, resp = doJSON(t, env.App, "GET", "/api/jobs/"+jobID+"/messages", nil, customer)
	msgs := resp["data"].([]interface{})
	require.Len(t, msgs, 2)
	assert.Equal(t, "hello", msgs[0].(map[string]interface{})["text"])
	assert.Equal(t, "anyone there?", msgs[1].(map[string]interface{})["text"])
}

func TestMessagesAreScopedPerJob(t *testing.T) {
	env := newTestEnv(t)
	customer := createUser(t, env.DB, models.RoleCustomer, "Amit")

	jobA := createJobViaAPI(t, env, customer)
	jobB := createJobViaAPI(t, env, customer)

	_, _ = doJSON(t, env.App, "POST", "/api/jobs/"+jobA+"/messages",
		map[string]string{"text": "for job A"}, customer)

	_, resp := doJSON(t, env.App, "GET", "/api/jobs/"+jobB+"/messages", nil, customer)
	assert.Empty(t, resp["data"], "job B must not see job A's messages")

	_, resp = doJSON(t, env.App, "GET", "/api/jobs/"+jobA+"/messages", nil, customer)
	require.Len(t, resp["data"].([]interface{}), 1)
}

func TestMessagesRequireParticipation(t *testing.T) {
	env := newTestEnv(t)
	customer := createUser(t, env.DB, models.RoleCustomer, "Amit")
	stranger := createUser(t, env.DB, models.RoleCustomer, "Neha")
	jobID := createJobViaAPI(t, env, customer)

	status, _ := doJSON(t, env.App, "GET", "/api/jobs/"+jobID+"/messages", nil, stranger)
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = doJSON(t, env.App, "POST", "/api/jobs/"+jobID+"/messages",
		map[string]string{"text": "hi"}, stranger)
	assert.Equal(t, http.StatusForbidden, status)
}

func TestEmptyMessageRejected(t *testing.T) {
	env := newTestEnv(t)
	customer := createUser(t, env.DB, models.RoleCustomer, "Amit")
	jobID := createJobViaAPI(t, env, customer)

	status, _ := doJSON(t, env.App, "POST", "/api/jobs/"+jobID+"/messages",
		map[string]string{}, customer)
	assert.Equal(t, http.StatusBadRequest, status)
}
