package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestParseAnswerData тестирует разбор callback-данных ответа на вопрос
func TestParseAnswerData(t *testing.T) {

	tests := []struct {
		name     string
		data     string
		wantIdx  int
		wantCode string
		wantErr  bool
	}{
		{
			name:     "первый вопрос",
			data:     "ans0:frap",
			wantIdx:  0,
			wantCode: "frap",
		},
		{
			name:     "последний вопрос",
			data:     "ans5:rain",
			wantIdx:  5,
			wantCode: "rain",
		},
		{
			name:    "нет разделителя",
			data:    "ans0frap",
			wantErr: true,
		},
		{
			name:    "номер вопроса не число",
			data:    "ansX:frap",
			wantErr: true,
		},
		{
			name:    "пустая строка",
			data:    "",
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {

			qIdx, code, err := parseAnswerData(tc.data)

			if tc.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.wantIdx, qIdx)
			assert.Equal(t, tc.wantCode, code)
		})
	}
}
