package notifications

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBrevoService_Unconfigured(t *testing.T) {
	assert.Nil(t, NewBrevoService("", "noreply@studydao.dev", "StudyDAO", ""))
	assert.Nil(t, NewBrevoService("key", "", "StudyDAO", ""))
}

func TestBrevoService_Send(t *testing.T) {
	var got brevoPayload
	var gotKey, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("api-key")
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"messageId":"<abc@smtp-relay>"}`))
	}))
	defer srv.Close()

	svc := NewBrevoService("brevo-key", "noreply@studydao.dev", "StudyDAO", srv.URL)
	require.NotNil(t, svc)

	err := svc.Send(context.Background(), "grace@example.com", "", "Badge earned", "<p>hi</p>")
	require.NoError(t, err)

	assert.Equal(t, "brevo-key", gotKey)
	assert.Equal(t, "/smtp/email", gotPath)
	require.Len(t, got.To, 1)
	assert.Equal(t, "grace", got.To[0].Name)
	assert.Equal(t, "StudyDAO", got.Sender.Name)
	assert.Equal(t, "<p>hi</p>", got.HTMLContent)
}

func TestBrevoService_SendErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"code":"invalid_parameter"}`))
	}))
	defer srv.Close()

	svc := NewBrevoService("k", "noreply@studydao.dev", "StudyDAO", srv.URL)
	require.NotNil(t, svc)

	err := svc.Send(context.Background(), "not-an-email", "", "s", "b")
	assert.ErrorContains(t, err, "invalid recipient")

	err = svc.Send(context.Background(), "a@b.co", "", "s", "b")
	assert.ErrorContains(t, err, "invalid_parameter")
}
