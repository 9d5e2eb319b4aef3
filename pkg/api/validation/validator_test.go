// FuzzDex Core
// Copyright (c) 2026 The FuzzDex Project Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of FuzzDex Core.
//
// FuzzDex Core is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// FuzzDex Core is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with FuzzDex Core.  If not, see <http://www.gnu.org/licenses/>.

//nolint:revive // custom validation tags (corpusname, scorerange) are unknown to revive
package validation

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateCorpusName(t *testing.T) {
	t.Parallel()

	type testStruct struct {
		Corpus string `validate:"corpusname"`
	}

	tests := []struct {
		name      string
		value     string
		wantError bool
	}{
		{name: "empty is valid", value: "", wantError: false},
		{name: "plain name", value: "cities", wantError: false},
		{name: "name with spaces", value: "Band Names", wantError: false},
		{name: "diacritics fold to ascii", value: "Café Menu", wantError: false},
		{name: "only punctuation", value: "!!!", wantError: true},
		{name: "only symbols and spaces", value: "  ?? ", wantError: true},
	}

	v := NewValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := testStruct{Corpus: tt.value}
			err := v.Validate(&s)
			if tt.wantError {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "no usable characters")
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateScoreRange(t *testing.T) {
	t.Parallel()

	type testStruct struct {
		MinScore float64 `validate:"scorerange"`
	}

	tests := []struct {
		name      string
		value     float64
		wantError bool
	}{
		{name: "zero", value: 0, wantError: false},
		{name: "one", value: 1, wantError: false},
		{name: "middle", value: 0.35, wantError: false},
		{name: "above one", value: 1.01, wantError: true},
		{name: "negative", value: -0.1, wantError: true},
	}

	v := NewValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := testStruct{MinScore: tt.value}
			err := v.Validate(&s)
			if tt.wantError {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "between 0 and 1")
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateOneof(t *testing.T) {
	t.Parallel()

	type testStruct struct {
		Scorer string `validate:"omitempty,oneof=fused jaro_winkler damerau"`
	}

	tests := []struct {
		name      string
		value     string
		wantError bool
	}{
		{name: "empty is valid", value: "", wantError: false},
		{name: "fused", value: "fused", wantError: false},
		{name: "jaro winkler", value: "jaro_winkler", wantError: false},
		{name: "damerau", value: "damerau", wantError: false},
		{name: "unknown scorer", value: "soundex", wantError: true},
		{name: "wrong case", value: "Fused", wantError: true},
	}

	v := NewValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := testStruct{Scorer: tt.value}
			err := v.Validate(&s)
			if tt.wantError {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "must be one of")
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateAndUnmarshal(t *testing.T) {
	t.Parallel()

	type testParams struct {
		Corpus string  `json:"corpus" validate:"required,corpusname"`
		Query  string  `json:"query"  validate:"required"`
		K      int     `json:"k"      validate:"omitempty,min=1"`
		Min    float64 `json:"min"    validate:"omitempty,scorerange"`
	}

	tests := []struct {
		wantError error
		name      string
		errorMsg  string
		input     json.RawMessage
	}{
		{
			name:      "empty params returns ErrMissingParams",
			input:     nil,
			wantError: ErrMissingParams,
		},
		{
			name:      "invalid JSON returns ErrInvalidParams",
			input:     json.RawMessage(`{invalid}`),
			wantError: ErrInvalidParams,
		},
		{
			name:  "valid params pass validation",
			input: json.RawMessage(`{"corpus": "cities", "query": "warsw", "k": 5, "min": 0.2}`),
		},
		{
			name:     "missing required field",
			input:    json.RawMessage(`{"query": "warsw"}`),
			errorMsg: "corpus is required",
		},
		{
			name:     "unusable corpus name",
			input:    json.RawMessage(`{"corpus": "!!!", "query": "warsw"}`),
			errorMsg: "no usable characters",
		},
		{
			name:     "threshold out of range",
			input:    json.RawMessage(`{"corpus": "cities", "query": "warsw", "min": 1.5}`),
			errorMsg: "between 0 and 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var params testParams
			err := ValidateAndUnmarshal(tt.input, &params)

			switch {
			case tt.wantError != nil:
				require.ErrorIs(t, err, tt.wantError)
			case tt.errorMsg != "":
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorMsg)
			default:
				assert.NoError(t, err)
			}
		})
	}
}

func TestDecodeOptions(t *testing.T) {
	t.Parallel()

	type testOptions struct {
		Scorer    string  `mapstructure:"scorer"    validate:"omitempty,oneof=fused jaro_winkler damerau"`
		Prefilter float64 `mapstructure:"prefilter" validate:"omitempty,gt=1"`
	}

	t.Run("nil map leaves defaults", func(t *testing.T) {
		t.Parallel()
		var opts testOptions
		require.NoError(t, DecodeOptions(nil, &opts))
		assert.Empty(t, opts.Scorer)
		assert.Zero(t, opts.Prefilter)
	})

	t.Run("typed values decode", func(t *testing.T) {
		t.Parallel()
		var opts testOptions
		err := DecodeOptions(map[string]any{"scorer": "damerau", "prefilter": 1.5}, &opts)
		require.NoError(t, err)
		assert.Equal(t, "damerau", opts.Scorer)
		assert.InDelta(t, 1.5, opts.Prefilter, 0.0001)
	})

	t.Run("weakly typed string decodes into float", func(t *testing.T) {
		t.Parallel()
		var opts testOptions
		err := DecodeOptions(map[string]any{"prefilter": "2.5"}, &opts)
		require.NoError(t, err)
		assert.InDelta(t, 2.5, opts.Prefilter, 0.0001)
	})

	t.Run("unknown key is rejected", func(t *testing.T) {
		t.Parallel()
		var opts testOptions
		err := DecodeOptions(map[string]any{"scorrer": "fused"}, &opts)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to decode options")
	})

	t.Run("decoded value still validates", func(t *testing.T) {
		t.Parallel()
		var opts testOptions
		err := DecodeOptions(map[string]any{"scorer": "soundex"}, &opts)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "must be one of")
	})

	t.Run("prefilter at or below one is rejected", func(t *testing.T) {
		t.Parallel()
		var opts testOptions
		err := DecodeOptions(map[string]any{"prefilter": 1.0}, &opts)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "greater than")
	})
}
