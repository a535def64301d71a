package nlp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFold(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Tuấn", "tuan"},
		{"tuẤn", "tuan"},
		{"tuan", "tuan"},
		{"Đặng Văn Hùng", "dang van hung"},
		{"NGUYỄN", "nguyen"},
		{"béo", "beo"},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Fold(tt.input), "Fold(%q)", tt.input)
	}
}
