package pipeline_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/couchcryptid/navwarn-etl/internal/domain"
	"github.com/couchcryptid/navwarn-etl/internal/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type expectedFeature struct {
	label string
	kind  domain.GeometryKind
}

type expectedWarning struct {
	number    string
	features  []expectedFeature
	expires   string
	cancels   []string
	cancelled bool
}

func TestMemorandumTransformer_WithMockMemorandums(t *testing.T) {
	transformer := pipeline.NewTransformer(domain.NewParser(), newTestMetrics(), slog.Default())

	cases := []struct {
		name     string
		navArea  string
		format   domain.MemorandumFormat
		warnings []expectedWarning
	}{
		{
			name:    "HYDROPAC",
			navArea: "HYDROPAC",
			format:  domain.FormatHydropacConcatenated,
			warnings: []expectedWarning{
				{
					number: "3021",
					features: []expectedFeature{
						{"Area_A", domain.KindBoundaryArea},
						{"Area_B", domain.KindBoundaryArea},
					},
					expires: "200600Z NOV 24",
				},
				{number: "3022", features: []expectedFeature{{"Circle", domain.KindCircularArea}}},
				{number: "3023", features: []expectedFeature{{"Trackline", domain.KindTracklineArea}}},
				{number: "2990", cancels: []string{"HYDROPAC 2990/24"}, cancelled: true},
			},
		},
		{
			name:    "NAVAREA IV",
			navArea: "NAVAREA IV",
			format:  domain.FormatNumberedWarnings,
			warnings: []expectedWarning{
				{number: "1187", features: []expectedFeature{{"Circle", domain.KindCircularArea}}, expires: "211800Z NOV 24"},
				{number: "1190", features: []expectedFeature{{"Facility", domain.KindPoint}}},
				{number: "1191", features: []expectedFeature{
					{"Depth_1", domain.KindDepth},
					{"Depth_2", domain.KindDepth},
				}},
			},
		},
		{
			name:    "NAVAREA XII",
			navArea: "NAVAREA XII",
			format:  domain.FormatMultipleMemorandums,
			warnings: []expectedWarning{
				{number: "734", features: []expectedFeature{{"Area", domain.KindBoundaryArea}}, expires: "222300Z NOV 24"},
				{number: "735", features: []expectedFeature{
					{"Trackline_A", domain.KindTracklineBerthArea},
					{"Trackline_B", domain.KindTracklineBerthArea},
				}},
				{number: "736", cancels: []string{"NAVAREA XII 701/24"}},
			},
		},
	}

	memos := readMockMemorandums(t)
	require.Len(t, memos, len(cases))

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			memo, ok := memos[tc.name]
			require.True(t, ok, "fixture %q missing", tc.name)

			out, err := transformer.Transform(context.Background(), rawEventFromMemorandum(t, memo))
			require.NoError(t, err)
			require.Len(t, out, len(tc.warnings))

			for i, want := range tc.warnings {
				rec := out[i].Record
				assert.Equal(t, tc.navArea, rec.NavArea)
				assert.Equal(t, tc.format, rec.Format)
				assert.Equal(t, want.number, rec.MsgNumber)
				assert.Equal(t, "24", rec.MsgYear)
				assert.Equal(t, []byte(rec.ID), out[i].Key)
				assert.Equal(t, tc.navArea, out[i].Headers["navarea"])
				assert.Equal(t, want.expires, rec.Expires)
				assert.Equal(t, want.cancels, rec.Cancels)
				assert.Equal(t, want.cancelled, rec.Cancelled)

				require.Len(t, rec.Coordinates, len(want.features), "warning %s", want.number)
				for j, f := range want.features {
					g := rec.Coordinates[j]
					assert.Equal(t, f.label, g.Label)
					assert.Equal(t, f.kind, g.Kind)
					assert.NotEmpty(t, g.Points)
					assert.NotEmpty(t, g.Description)
				}

				var roundtrip domain.WarningRecord
				require.NoError(t, json.Unmarshal(out[i].Value, &roundtrip))
				assert.Equal(t, rec.ID, roundtrip.ID)
				assert.Len(t, roundtrip.Coordinates, len(want.features))
			}
		})
	}
}

func readMockMemorandums(t *testing.T) map[string]domain.RawMemorandum {
	t.Helper()

	path := filepath.Join("..", "..", "data", "mock", "raw_memorandums.json")
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var memos []domain.RawMemorandum
	require.NoError(t, json.Unmarshal(data, &memos))

	byName := make(map[string]domain.RawMemorandum, len(memos))
	for _, m := range memos {
		byName[m.Name] = m
	}
	return byName
}

func rawEventFromMemorandum(t *testing.T, memo domain.RawMemorandum) domain.RawEvent {
	t.Helper()
	payload, err := json.Marshal(memo)
	require.NoError(t, err)

	return domain.RawEvent{
		Key:       []byte(memo.Name),
		Value:     payload,
		Topic:     "raw-navigational-warnings",
		Timestamp: time.Date(2024, time.November, 20, 12, 0, 0, 0, time.UTC),
	}
}
