package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leshuiju/shipment-entry/internal/entity"
	"github.com/leshuiju/shipment-entry/internal/extract"
)

type stubSink struct {
	written []entity.ShipmentRecord
	path    string
	err     error
}

func (s *stubSink) WriteBatch(_ context.Context, records []entity.ShipmentRecord) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.written = records
	return s.path, nil
}

func newTestProcessor(sink Sink) *Processor {
	fallback := extract.NewFallbackExtractor(nil)
	return NewProcessor(nil, fallback, nil, sink, nil)
}

func TestProcessor_CompleteWorkflow(t *testing.T) {
	sink := &stubSink{path: "output/updated_declaration_20250710_090000.xlsx"}
	p := newTestProcessor(sink)

	input := "地板1托30$，快递中通，202242834846，入仓日期2025年7月5号\n" +
		"折叠按摩床一张25$，快递单号：76018395245100010001，入仓日期2025年7月4号"

	result, err := p.Process(context.Background(), input, ModeFallback)
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.True(t, result.Success)
	assert.Equal(t, sink.path, result.OutputFile)
	assert.Equal(t, 2, result.Stats.ParsedCount)
	assert.Equal(t, 2, result.Stats.ProcessedCount)
	require.Len(t, sink.written, 2)

	// completion filled the english name for the first record
	assert.Equal(t, "Flooring", sink.written[0].EnglishName)
	assert.Equal(t, "Folding Massage Table", sink.written[1].EnglishName)

	// repairs are reported apart from validation errors
	assert.NotEmpty(t, result.Repairs)
	assert.Empty(t, result.ValidationErrors)
	assert.NotEmpty(t, result.Warnings) // fallback-mode advisory
}

func TestProcessor_EmptyInput(t *testing.T) {
	p := newTestProcessor(&stubSink{})

	result, err := p.Process(context.Background(), "   \n ", ModeFallback)
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Contains(t, result.ValidationErrors, "empty input provided")
	assert.Empty(t, result.Records)
}

func TestProcessor_NoExtractableRecords(t *testing.T) {
	p := newTestProcessor(&stubSink{})

	result, err := p.Process(context.Background(), "短句\n也是短句", ModeFallback)
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Contains(t, result.ValidationErrors, "no valid shipment data could be extracted from input")
}

func TestProcessor_SinkFailureIsFatal(t *testing.T) {
	p := newTestProcessor(&stubSink{err: errors.New("template file not found")})

	result, err := p.Process(context.Background(), "地板1托30$，快递中通，202242834846，入仓日期2025年7月5号", ModeFallback)
	require.Error(t, err)
	assert.False(t, result.Success)
	assert.Empty(t, result.OutputFile)
	assert.Equal(t, 0, result.Stats.ProcessedCount)
}

func TestProcessor_SemanticModeFallsBackWhenUnconfigured(t *testing.T) {
	sink := &stubSink{path: "out.xlsx"}
	p := newTestProcessor(sink) // no semantic extractor wired

	result, err := p.Process(context.Background(), "地板1托30$，快递中通，202242834846，入仓日期2025年7月5号", ModeSemantic)
	require.NoError(t, err)
	assert.True(t, result.Success)
	require.Len(t, sink.written, 1)
}
