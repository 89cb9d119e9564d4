package forecaster

import "testing"

func TestExtractProbability_Decimals(t *testing.T) {
	tests := []struct {
		name string
		text string
		want float64
	}{
		{
			name: "last decimal wins",
			text: "Early factors suggest 0.42, but weighing the evidence my final answer is 0.71",
			want: 0.71,
		},
		{
			name: "single decimal",
			text: "Probability: 0.9",
			want: 0.9,
		},
		{
			name: "one point zero",
			text: "This is certain. 1.0",
			want: 1.0,
		},
		{
			name: "decimal on its own line",
			text: "Step by step reasoning...\n0.55\n",
			want: 0.55,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractProbability(tt.text)
			if !ok {
				t.Fatalf("ExtractProbability(%q) ok = false, want true", tt.text)
			}
			if got != tt.want {
				t.Errorf("ExtractProbability(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestExtractProbability_Percentages(t *testing.T) {
	tests := []struct {
		name string
		text string
		want float64
	}{
		{
			name: "simple percent",
			text: "I estimate roughly 85% likelihood",
			want: 0.85,
		},
		{
			name: "last percent wins",
			text: "Could be 30%, but with new data more like 60%",
			want: 0.6,
		},
		{
			name: "over 100 percent clamps",
			text: "An absurd 150% chance",
			want: 1.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractProbability(tt.text)
			if !ok {
				t.Fatalf("ExtractProbability(%q) ok = false, want true", tt.text)
			}
			if got != tt.want {
				t.Errorf("ExtractProbability(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestExtractProbability_DecimalPreferredOverPercent(t *testing.T) {
	// A decimal anywhere beats a percentage anywhere.
	got, ok := ExtractProbability("Maybe 80%? My final estimate is 0.65")
	if !ok {
		t.Fatal("expected a probability")
	}
	if got != 0.65 {
		t.Errorf("got %v, want 0.65", got)
	}
}

func TestExtractProbability_Unavailable(t *testing.T) {
	tests := []string{
		"",
		"The hypothesis depends on too many unknowns to quantify.",
		"Somewhere between likely and unlikely.",
	}

	for _, text := range tests {
		if _, ok := ExtractProbability(text); ok {
			t.Errorf("ExtractProbability(%q) ok = true, want false", text)
		}
	}
}
