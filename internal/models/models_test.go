package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScriptMeasure(t *testing.T) {
	tests := []struct {
		name      string
		code      string
		wantSize  int
		wantLines int
	}{
		{"single line", "print(1)", 8, 1},
		{"two lines", "a\nb", 3, 2},
		{"trailing newline counts a line", "a\n", 2, 2},
		{"multibyte size is bytes", "héllo", 6, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Script{Code: tt.code}
			s.Measure()
			assert.Equal(t, tt.wantSize, s.Size)
			assert.Equal(t, tt.wantLines, s.Lines)
		})
	}
}

func TestAggregate(t *testing.T) {
	scripts := []Script{
		{Size: 10, Views: 3, Status: StatusActive},
		{Size: 20, Views: 7, Status: StatusInactive},
		{Size: 5, Views: 0, Status: StatusActive},
	}

	st := Aggregate(scripts)

	assert.Equal(t, 3, st.TotalScripts)
	assert.Equal(t, 10, st.TotalViews)
	assert.Equal(t, 35, st.TotalSize)
	assert.Equal(t, 2, st.ActiveCount)
	assert.Equal(t, 1, st.InactiveCount)
}

func TestAggregateEmpty(t *testing.T) {
	assert.Equal(t, Stats{}, Aggregate(nil))
}
