package api

import "testing"

func TestPayloadValidation(t *testing.T) {
	tests := []struct {
		name    string
		payload Validator
		wantErr bool
	}{
		{"TrainOK", TrainPayload{Exercise: "pushups"}, false},
		{"TrainEmpty", TrainPayload{}, true},
		{"QualityOK", QualityPayload{Quality: 95}, false},
		{"QualityHigh", QualityPayload{Quality: 101}, true},
		{"QualityNegative", QualityPayload{Quality: -1}, true},
		{"ItemEmpty", ItemPayload{}, true},
		{"TravelNegative", TravelPayload{Zone: -1}, true},
		{"TravelOK", TravelPayload{Zone: 3}, false},
		{"SlotDefault", SlotPayload{}, false},
		{"SlotPath", SlotPayload{Slot: "../etc"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.payload.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
