package normalizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize_Basic(t *testing.T) {
	n := New()

	cases := []struct {
		name           string
		input          string
		wantNormalized string
		wantStripped   string
	}{
		{
			name:           "lowercase and collapse whitespace",
			input:          "Quán   Ăn   Hải Phòng",
			wantNormalized: "quán ăn hải phòng",
			wantStripped:   "quan an hai phong",
		},
		{
			name:           "retains delimiting punctuation",
			input:          "Bún chả (Hà Nội) - 50.000đ/suất",
			wantNormalized: "bún chả (hà nội) - 50.000đ/suất",
			wantStripped:   "bun cha (ha noi) - 50.000d/suat",
		},
		{
			name:           "drops noise punctuation",
			input:          "Ưu đãi!!! *Giảm 20%*",
			wantNormalized: "ưu đãi giảm 20",
			wantStripped:   "uu dai giam 20",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := n.Normalize(tc.input)
			assert.Equal(t, tc.wantNormalized, got.Normalized)
			assert.Equal(t, tc.wantStripped, got.Stripped)
		})
	}
}

func TestNormalize_EmptyInputNeverErrors(t *testing.T) {
	n := New()
	got := n.Normalize("")
	assert.Empty(t, got.Normalized)
	assert.Empty(t, got.Stripped)
}

func TestNormalize_Deterministic(t *testing.T) {
	n := New()
	input := "Nhà hàng Sen Tây Hồ, 101 Xuân Diệu"
	first := n.Normalize(input)
	second := n.Normalize(input)
	assert.Equal(t, first, second)
}
