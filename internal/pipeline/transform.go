package pipeline

import (
	"context"
	"log/slog"

	"github.com/couchcryptid/navwarn-etl/internal/domain"
	"github.com/couchcryptid/navwarn-etl/internal/observability"
)

// MemorandumTransformer implements Transformer: it decodes a raw memorandum,
// parses every warning in it and serializes the enriched records.
type MemorandumTransformer struct {
	parser  domain.MemorandumParser
	metrics *observability.Metrics
	logger  *slog.Logger
}

// NewTransformer creates a MemorandumTransformer around parser, which may be
// a bare *domain.Parser or a caching decorator.
func NewTransformer(parser domain.MemorandumParser, metrics *observability.Metrics, logger *slog.Logger) *MemorandumTransformer {
	return &MemorandumTransformer{
		parser:  parser,
		metrics: metrics,
		logger:  logger,
	}
}

func (t *MemorandumTransformer) Transform(_ context.Context, raw domain.RawEvent) ([]domain.OutputEvent, error) {
	memo, err := domain.ParseRawEvent(raw)
	if err != nil {
		return nil, err
	}

	records := t.parser.ParseMemorandum(memo.Name, memo.Text)
	out := make([]domain.OutputEvent, 0, len(records))
	geometries := 0
	for _, rec := range records {
		rec = domain.EnrichWarningRecord(rec)
		event, err := domain.SerializeWarning(rec)
		if err != nil {
			return nil, err
		}
		out = append(out, event)

		for _, g := range rec.Coordinates {
			t.metrics.GeometriesEmitted.WithLabelValues(string(g.Kind)).Inc()
		}
		geometries += len(rec.Coordinates)
	}

	t.metrics.WarningsParsed.Add(float64(len(records)))
	if len(records) > 0 {
		t.metrics.MemorandumFormats.WithLabelValues(string(records[0].Format)).Inc()
	}

	t.logger.Debug("memorandum parsed",
		"memorandum", memo.Name,
		"warnings", len(records),
		"geometries", geometries,
		"offset", raw.Offset,
	)
	if len(records) == 0 {
		t.logger.Warn("memorandum contained no warnings", "memorandum", memo.Name, "offset", raw.Offset)
	}
	return out, nil
}
