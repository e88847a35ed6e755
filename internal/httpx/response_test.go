package httpx

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestJSON(t *testing.T) {
	t.Run("writes status and content type", func(t *testing.T) {
		recorder := httptest.NewRecorder()

		JSON(recorder, 201, map[string]string{"ok": "sí"})

		require.Equal(t, 201, recorder.Code)
		require.Equal(t, "application/json; charset=utf-8", recorder.Header().Get("Content-Type"))
		require.JSONEq(t, `{"ok":"sí"}`, recorder.Body.String())
	})
}

func TestOK(t *testing.T) {
	t.Run("payload goes out as-is, without envelope", func(t *testing.T) {
		recorder := httptest.NewRecorder()

		OK(recorder, 200, map[string]any{"id": 1, "name": "Laptop"})

		var payload map[string]any
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &payload))
		require.Equal(t, "Laptop", payload["name"])
		require.NotContains(t, payload, "data")
		require.NotContains(t, payload, "error")
	})
}

func TestFail(t *testing.T) {
	t.Run("without details the key is omitted", func(t *testing.T) {
		recorder := httptest.NewRecorder()

		Fail(recorder, 404, "Producto no encontrado", "No existe un producto con ID 1")

		require.Equal(t, 404, recorder.Code)
		require.JSONEq(t,
			`{"error":"Producto no encontrado","message":"No existe un producto con ID 1"}`,
			recorder.Body.String())
	})

	t.Run("with details they are enumerated", func(t *testing.T) {
		recorder := httptest.NewRecorder()

		FailWithDetails(recorder, 400, "Error de validación", "Los datos no validan", []map[string]string{
			{"field": "price", "rule": "gte"},
			{"field": "stock", "rule": "gte"},
		})

		require.Equal(t, 400, recorder.Code)

		var payload map[string]any
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &payload))
		require.Len(t, payload["details"].([]any), 2)
	})
}
