package audio

import "testing"

func TestDurationMSRejectsGarbage(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{name: "empty payload", data: nil},
		{name: "non-audio bytes", data: []byte("definitely not an mp3 frame")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DurationMS(tt.data); err == nil {
				t.Error("DurationMS should fail on invalid input")
			}
		})
	}
}
