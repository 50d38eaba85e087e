package http_test

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	httpadapter "github.com/couchcryptid/navwarn-etl/internal/adapter/http"
	"github.com/couchcryptid/navwarn-etl/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockReadiness struct {
	err error
}

func (m *mockReadiness) CheckReadiness(_ context.Context) error { return m.err }

type mockQuerier struct {
	got     domain.Bounds
	records []domain.WarningRecord
}

func (m *mockQuerier) Search(b domain.Bounds) []domain.WarningRecord {
	m.got = b
	return m.records
}

func newTestServer(readyErr error, warnings httpadapter.WarningQuerier) *httpadapter.Server {
	return httpadapter.NewServer(":0", &mockReadiness{err: readyErr}, domain.NewParser(), warnings, slog.Default())
}

func serve(srv *httpadapter.Server, method, target, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	srv.ServeHTTP(rec, req)
	return rec
}

func TestHealthzReturns200(t *testing.T) {
	rec := serve(newTestServer(nil, nil), http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReadyz(t *testing.T) {
	tests := []struct {
		name     string
		readyErr error
		want     int
	}{
		{"ready", nil, http.StatusOK},
		{"not ready", fmt.Errorf("pipeline has not loaded any warnings yet"), http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(newTestServer(tt.readyErr, nil), http.MethodGet, "/readyz", "")
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	rec := serve(newTestServer(nil, nil), http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestParseEndpoint(t *testing.T) {
	srv := newTestServer(nil, nil)

	t.Run("json memorandum", func(t *testing.T) {
		body := `{"name":"NAVAREA IV","text":"NAVAREA IV 1187/24(26).\nUNDERWATER DETONATIONS WITHIN 3 MILES OF 36-55.00N 075-40.00W."}`
		rec := serve(srv, http.MethodPost, "/v1/parse", body)
		require.Equal(t, http.StatusOK, rec.Code)

		var records []domain.WarningRecord
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &records))
		require.Len(t, records, 1)
		assert.Equal(t, "NAVAREA IV", records[0].NavArea)
		assert.Equal(t, "1187", records[0].MsgNumber)
		assert.False(t, records[0].ProcessedAt.IsZero())
		require.Len(t, records[0].Coordinates, 1)
		assert.Equal(t, domain.KindCircularArea, records[0].Coordinates[0].Kind)
	})

	t.Run("plain text named by query", func(t *testing.T) {
		rec := serve(srv, http.MethodPost, "/v1/parse?name=HYDROPAC", "HYDROPAC 1002/24(GEN).\nDERELICT VESSEL IN 12-00.00N 115-00.00E.")
		require.Equal(t, http.StatusOK, rec.Code)

		var records []domain.WarningRecord
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &records))
		require.Len(t, records, 1)
		assert.Equal(t, "HYDROPAC", records[0].NavArea)
	})

	t.Run("empty text", func(t *testing.T) {
		rec := serve(srv, http.MethodPost, "/v1/parse", `{"name":"HYDROPAC","text":""}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestWarningsEndpoint(t *testing.T) {
	t.Run("index disabled", func(t *testing.T) {
		rec := serve(newTestServer(nil, nil), http.MethodGet, "/v1/warnings", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("bbox forwarded", func(t *testing.T) {
		q := &mockQuerier{records: []domain.WarningRecord{{ID: "hydropac-1"}}}
		rec := serve(newTestServer(nil, q), http.MethodGet, "/v1/warnings?bbox=120,15,125,20", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, domain.Bounds{MinLon: 120, MinLat: 15, MaxLon: 125, MaxLat: 20}, q.got)

		var records []domain.WarningRecord
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &records))
		require.Len(t, records, 1)
		assert.Equal(t, "hydropac-1", records[0].ID)
	})

	t.Run("no bbox searches the world and returns an array", func(t *testing.T) {
		q := &mockQuerier{}
		rec := serve(newTestServer(nil, q), http.MethodGet, "/v1/warnings", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, domain.Bounds{MinLat: -90, MinLon: -180, MaxLat: 90, MaxLon: 180}, q.got)
		assert.JSONEq(t, `[]`, rec.Body.String())
	})

	for _, bbox := range []string{"1,2,3", "a,b,c,d", "10,0,5,5", "0,-95,5,5", "NaN,0,1,1", "0,0,Inf,1"} {
		t.Run("bad bbox "+bbox, func(t *testing.T) {
			rec := serve(newTestServer(nil, &mockQuerier{}), http.MethodGet, "/v1/warnings?bbox="+bbox, "")
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}
