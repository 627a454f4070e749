package sysmsg

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		reason Reason
		want   Class
	}{
		{"normal return", Reason{Type: Normal}, ClassNormal},
		{"shutdown", Reason{Type: ShutdownReason}, ClassShutdown},
		{"shutdown with details", Reason{Type: ShutdownReason, Details: "stop requested"}, ClassShutdown},
		{"kill", Reason{Type: Kill}, ClassOther},
		{"panic", Reason{Type: Panic, Details: "boom"}, ClassOther},
		{"supervisor gave up", Reason{Type: SupRestartsExceeded}, ClassOther},
		{"unknown reason type", Reason{Type: ReasonType("custom")}, ClassOther},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.reason.Classify())
		})
	}
}
