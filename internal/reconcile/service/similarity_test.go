package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNameKey(t *testing.T) {
	assert.Equal(t, "монитор dell p2422he", NameKey("  Монитор   Dell P2422HE "))
	assert.Equal(t, "елка", NameKey("Ёлка"))
}

func TestTokens(t *testing.T) {
	s := NewScorer(nil)
	assert.Equal(t, []string{"кабель", "usb", "зарядки"}, s.Tokens("Кабель USB-C для зарядки, 1 м"))
	assert.Empty(t, s.Tokens("a1 - b2"))
}

func TestWeight(t *testing.T) {
	s := NewScorer(nil)
	assert.Equal(t, 3, s.Weight("монитор"))
	assert.Equal(t, 2, s.Weight("1tb"))
	assert.Equal(t, 1, s.Weight("samsung"))
}

func TestTextSimilarity(t *testing.T) {
	s := NewScorer(nil)

	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{"identical", "Монитор Dell P2422HE", "Монитор Dell P2422HE", 1},
		{"token order and case", "Монитор Dell P2422HE", "p2422he DELL, монитор", 1},
		{"synonym class", "SSD Samsung 1TB", "Накопитель Samsung 1TB", 1},
		{"disjoint", "Монитор Dell", "Кабель Vention", 0},
		{"empty side", "Монитор Dell", "a-1", 0},
		// a: монитор(3) dell(1) = 4, b: монитор(3) samsung(1) = 4, common монитор
		{"weighted partial", "Монитор Dell", "Монитор Samsung", 0.75},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, s.TextSimilarity(tt.a, tt.b), 1e-9)
			assert.InDelta(t, tt.want, s.TextSimilarity(tt.b, tt.a), 1e-9)
		})
	}
}

func TestQuantityComponent(t *testing.T) {
	tests := []struct {
		a, b string
		want float64
	}{
		{"5", "5", qtyExact},
		{"5", "5,0", qtyExact},
		{"5", "10", qtyPenalize},
		{"0", "5", qtyUnknown},
		{"abc", "5", qtyUnknown},
		{"5", "", qtyUnknown},
		{"", "", qtyNeutral},
	}
	for _, tt := range tests {
		t.Run(tt.a+"|"+tt.b, func(t *testing.T) {
			assert.Equal(t, tt.want, QuantityComponent(tt.a, tt.b))
		})
	}
}

func TestScore(t *testing.T) {
	s := NewScorer(nil)

	t.Run("equal quantities dominate", func(t *testing.T) {
		assert.InDelta(t, 0.7, s.Score("Монитор Dell", "Кабель Vention", "5", "5"), 1e-9)
		assert.InDelta(t, 1.0, s.Score("Монитор Dell", "монитор dell", "5", "5"), 1e-9)
	})
	t.Run("unequal quantities cap", func(t *testing.T) {
		assert.LessOrEqual(t, s.Score("Монитор Dell", "Монитор Dell", "5", "10"), 0.2+1e-9)
		assert.InDelta(t, 0.15, s.Score("Монитор Dell", "Монитор Samsung", "5", "10"), 1e-9)
	})
	t.Run("both quantities missing", func(t *testing.T) {
		assert.InDelta(t, 0.8, s.Score("Монитор Dell", "Монитор Dell", "", ""), 1e-9)
	})
	t.Run("one quantity missing", func(t *testing.T) {
		assert.InDelta(t, 0.72, s.Score("Монитор Dell", "Монитор Dell", "3", ""), 1e-9)
	})
	t.Run("never above one", func(t *testing.T) {
		assert.LessOrEqual(t, s.Score("SSD Samsung 1TB", "Накопитель Samsung 1TB", "10", "10"), 1.0)
	})
}

func TestThreshold(t *testing.T) {
	assert.Equal(t, ThresholdDefault, Threshold("5", "5"))
	assert.Equal(t, ThresholdMismatch, Threshold("5", "10"))
	assert.Equal(t, ThresholdDefault, Threshold("5", ""))
	assert.Equal(t, ThresholdDefault, Threshold("0", "10"))
	assert.Equal(t, ThresholdDefault, Threshold("много", "10"))

	assert.True(t, Accepts(0.25, "5", "5"))
	assert.False(t, Accepts(0.24, "", ""))
	assert.False(t, Accepts(0.69, "5", "10"))
	assert.True(t, Accepts(0.70, "5", "10"))
}
