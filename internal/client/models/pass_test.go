package models

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/dmitrijs2005/securepass/internal/common"
	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindLabel(t *testing.T) {
	tests := map[Kind]string{
		KindEvent:   "Event",
		KindLoyalty: "Loyalty",
		KindKey:     "Key",
		KindTransit: "Transit",
		KindGeneric: "Pass",
		Kind("??"):  "Pass",
	}
	for k, want := range tests {
		assert.Equal(t, want, k.Label(), string(k))
	}
	assert.False(t, Kind("??").Valid())
}

func TestPass_JSONFieldNames(t *testing.T) {
	p := Pass{
		ID: "id-1", Title: "T", Detail: "D", Kind: KindKey,
		Tint: NewTint(0.1, 0.2, 0.3, 1), Code: "C", RequiresBiometric: true,
	}
	b, err := json.Marshal(p)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(b, &raw))

	want := map[string]any{
		"id": "id-1", "title": "T", "detail": "D", "kind": "key", "code": "C",
		"requiresBiometric": true,
		"tint":              map[string]any{"red": 0.1, "green": 0.2, "blue": 0.3, "opacity": 1.0},
	}
	if diff := cmp.Diff(want, raw); diff != "" {
		t.Fatalf("json mismatch (-want +got):\n%s", diff)
	}
}

func TestNewTint_Clamps(t *testing.T) {
	tint := NewTint(-1, 2, 0.5, math.NaN())
	assert.Equal(t, Tint{Red: 0, Green: 1, Blue: 0.5, Opacity: 0}, tint)
	assert.True(t, tint.Valid())
	assert.False(t, Tint{Red: 1.5}.Valid())
}

func TestDefaults(t *testing.T) {
	d := Defaults()
	require.Len(t, d, 4)
	require.NoError(t, d.Validate())

	titles := []string{d[0].Title, d[1].Title, d[2].Title, d[3].Title}
	assert.Equal(t, []string{"Concert Night", "Coffee Club", "Smart Lock", "Metro Card"}, titles)
	assert.True(t, d[0].RequiresBiometric)
	assert.False(t, d[1].RequiresBiometric)
	assert.True(t, d[2].RequiresBiometric)
	assert.False(t, d[3].RequiresBiometric)

	for _, p := range d {
		_, err := uuid.Parse(p.ID)
		require.NoError(t, err)
	}
	assert.NotEqual(t, d[0].ID, Defaults()[0].ID, "ids are fresh per call")
}

func TestClassify(t *testing.T) {
	tests := []struct {
		code string
		want Kind
	}{
		{"EVT-1234", KindEvent},
		{"evt-1234", KindEvent},
		{"HOME-LOCK-KEY", KindKey},
		{"METRO-77", KindTransit},
		{"EVT-KEY-MET", KindEvent},
		{"KEY-MET", KindKey},
		{"MTR-5511-9921", KindGeneric},
		{"LTT-2210-3399", KindGeneric},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.code), tt.code)
	}
}

func TestNewImported(t *testing.T) {
	p, err := NewImported("  EVT-1234 ")
	require.NoError(t, err)
	assert.Equal(t, "EVT-1234", p.Code)
	assert.Equal(t, KindEvent, p.Kind)
	assert.False(t, p.RequiresBiometric)
	assert.Equal(t, ImportedTitle, p.Title)
	assert.Equal(t, TintMint, p.Tint)

	p, err = NewImported("HOME-LOCK-KEY")
	require.NoError(t, err)
	assert.Equal(t, KindKey, p.Kind)
	assert.True(t, p.RequiresBiometric)

	_, err = NewImported("   ")
	require.ErrorIs(t, err, common.ErrEmptyCode)
}
