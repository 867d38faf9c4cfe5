package benchmark

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePhases(t *testing.T) {
	tests := []struct {
		name    string
		in      []string
		want    []Phase
		wantErr bool
	}{
		{name: "all", in: []string{"all"}, want: AllPhases},
		{name: "reordered", in: []string{"search", "upload"}, want: []Phase{PhaseUpload, PhaseSearch}},
		{name: "duplicates", in: []string{"query", "QUERY", " query "}, want: []Phase{PhaseQuery}},
		{name: "unknown", in: []string{"delete"}, wantErr: true},
		{name: "empty", in: []string{""}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePhases(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDefaultParams(t *testing.T) {
	p := DefaultParams()
	require.NoError(t, p.Validate())
	assert.Equal(t, 1000, p.ItemCount)
	assert.Equal(t, 100, p.BatchSize)
	assert.Equal(t, 1, p.Repeat)
	assert.Equal(t, AllPhases, p.Phases)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*BenchmarkParams)
	}{
		{"negative count", func(p *BenchmarkParams) { p.ItemCount = -1 }},
		{"zero batch size", func(p *BenchmarkParams) { p.BatchSize = 0 }},
		{"zero repeat", func(p *BenchmarkParams) { p.Repeat = 0 }},
		{"no prefix", func(p *BenchmarkParams) { p.NamePrefix = "" }},
		{"no search phrase", func(p *BenchmarkParams) { p.SearchPhrase = "" }},
		{"no phases", func(p *BenchmarkParams) { p.Phases = nil }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultParams()
			tt.modify(&p)
			assert.Error(t, p.Validate())
		})
	}

	p := DefaultParams()
	p.ItemCount = 0
	assert.NoError(t, p.Validate())
}

func TestNewWorkItem(t *testing.T) {
	payload := []byte("<schema/>")
	item := NewWorkItem(DefaultParams(), payload, 42)

	assert.Equal(t, "PO42", item.Name)
	assert.Equal(t, "PO42.xsd", item.FileName)
	assert.Equal(t, payload, item.Payload)

	e := item.Entry()
	assert.Equal(t, "PO42", e.Name)
	assert.Equal(t, "PO42", e.Metadata.Name)
	assert.Equal(t, item.Type, e.Metadata.Type)
}
