package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUsers_RegisterAndDuplicate(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(t, http.MethodPost, "/users", `{"email":"Alice@Example.com","displayName":"Alice"}`, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	ack := decode[map[string]interface{}](t, w)
	require.Equal(t, true, ack["acknowledged"])
	require.NotEmpty(t, ack["insertedId"])

	w = api.do(t, http.MethodPost, "/users", `{"email":"alice@example.com"}`, "")
	require.Equal(t, http.StatusConflict, w.Code)

	w = api.do(t, http.MethodPost, "/users", `{"displayName":"nobody"}`, "")
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUsers_UpsertCannotSetRole(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(t, http.MethodPut, "/users", `{"email":"bob@example.com","displayName":"Bob","role":"admin"}`, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	ack := decode[map[string]interface{}](t, w)
	require.EqualValues(t, 1, ack["upsertedCount"])
	require.NotNil(t, ack["upsertedId"])

	w = api.do(t, http.MethodPut, "/users", `{"email":"bob@example.com","displayName":"Robert"}`, "")
	require.Equal(t, http.StatusOK, w.Code)
	ack = decode[map[string]interface{}](t, w)
	require.EqualValues(t, 1, ack["matchedCount"])
	require.Nil(t, ack["upsertedId"])

	w = api.do(t, http.MethodGet, "/users/bob@example.com", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"admin":false}`, w.Body.String())

	u, err := api.users.GetByEmail(context.Background(), "bob@example.com")
	require.NoError(t, err)
	require.Equal(t, "Robert", u.DisplayName)
}

func TestUsers_UpsertKeepsProfileFields(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(t, http.MethodPut, "/users", `{"email":"ann@example.com","displayName":"A","photoURL":"https://img/ann.png","phone":"+1 555 0101","role":"admin","_id":"65f0c0ffee65f0c0ffee65f0"}`, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	ack := decode[map[string]interface{}](t, w)
	require.EqualValues(t, 1, ack["upsertedCount"])
	require.NotEqual(t, "65f0c0ffee65f0c0ffee65f0", ack["upsertedId"])

	u, err := api.users.GetByEmail(context.Background(), "ann@example.com")
	require.NoError(t, err)
	require.Equal(t, "A", u.DisplayName)
	require.Empty(t, u.Role)
	require.Equal(t, "https://img/ann.png", u.Extra["photoURL"])
	require.Equal(t, "+1 555 0101", u.Extra["phone"])

	w = api.do(t, http.MethodPut, "/users", `{"email":"ann@example.com","phone":"+1 555 0199"}`, "")
	require.Equal(t, http.StatusOK, w.Code)
	u, err = api.users.GetByEmail(context.Background(), "ann@example.com")
	require.NoError(t, err)
	require.Equal(t, "+1 555 0199", u.Extra["phone"])
	require.Equal(t, "https://img/ann.png", u.Extra["photoURL"])
	require.JSONEq(t, `{"admin":false}`, api.do(t, http.MethodGet, "/users/ann@example.com", "", "").Body.String())
}

func TestUsers_RegisterKeepsProfileFields(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(t, http.MethodPost, "/users", `{"email":"eve@example.com","photoURL":"https://img/eve.png","role":"admin"}`, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	u, err := api.users.GetByEmail(context.Background(), "eve@example.com")
	require.NoError(t, err)
	require.Equal(t, "https://img/eve.png", u.Extra["photoURL"])
	require.False(t, u.IsAdmin())
}

func TestUsers_AdminStatus(t *testing.T) {
	api := newTestAPI(t)
	api.seedAdmin(t, "root@example.com")

	w := api.do(t, http.MethodGet, "/users/root@example.com", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"admin":true}`, w.Body.String())

	w = api.do(t, http.MethodGet, "/users/ghost@example.com", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"admin":false}`, w.Body.String())
}

func TestUsers_Promote(t *testing.T) {
	api := newTestAPI(t)
	api.seedAdmin(t, "root@example.com")
	api.do(t, http.MethodPost, "/users", `{"email":"carol@example.com"}`, "")
	api.do(t, http.MethodPost, "/users", `{"email":"dave@example.com"}`, "")
	body := `{"email":"carol@example.com"}`

	cases := []struct {
		name string
		auth string
	}{
		{"no identity", ""},
		{"invalid token", "Bearer forged"},
		{"unknown requester", bearer("stranger@example.com")},
		{"non-admin requester", bearer("dave@example.com")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := api.do(t, http.MethodPut, "/users/admin", body, tc.auth)
			require.Equal(t, http.StatusForbidden, w.Code)
			require.JSONEq(t, `{"admin":false}`, api.do(t, http.MethodGet, "/users/carol@example.com", "", "").Body.String())
		})
	}

	w := api.do(t, http.MethodPut, "/users/admin", body, bearer("root@example.com"))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	ack := decode[map[string]interface{}](t, w)
	require.EqualValues(t, 1, ack["matchedCount"])
	require.JSONEq(t, `{"admin":true}`, api.do(t, http.MethodGet, "/users/carol@example.com", "", "").Body.String())

	w = api.do(t, http.MethodPut, "/users/admin", `{}`, bearer("root@example.com"))
	require.Equal(t, http.StatusBadRequest, w.Code)
}
