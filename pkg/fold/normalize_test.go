package fold

import "testing"

func TestNeedsUnicodeProcessing(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  bool
	}{
		{"nil", nil, false},
		{"int", 42, false},
		{"float", 3.14, false},
		{"bytes", []byte("привет"), false},
		{"empty", "", false},
		{"ascii", "hello world", false},
		{"ascii punctuation", "a%b_c?", false},
		{"cyrillic lower", "привет", true},
		{"cyrillic upper", "ПРИВЕТ", true},
		{"yo", "ёж", true},
		{"mixed", "hello мир", true},
		{"latin accent", "café", true},
		{"cjk", "東京", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NeedsUnicodeProcessing(tt.value); got != tt.want {
				t.Errorf("NeedsUnicodeProcessing(%v) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestNormalizeForSearch(t *testing.T) {
	tests := []struct {
		input, want string
	}{
		{"", ""},
		{"ПРИВЕТ", "привет"},
		{"Привет Мир", "привет мир"},
		{"ЁЖИК", "ёжик"},
		{"HELLO", "hello"},
		{"already lower", "already lower"},
		{"ÉLODIE", "élodie"},
	}
	for _, tt := range tests {
		if got := NormalizeForSearch(tt.input); got != tt.want {
			t.Errorf("NormalizeForSearch(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestCreateLikePattern(t *testing.T) {
	tests := []struct {
		input, want string
	}{
		{"", ""},
		{"Те%", "те%"},
		{"%ПРИ_ЕТ%", "%при_ет%"},
		{"abc%", "abc%"},
	}
	for _, tt := range tests {
		if got := CreateLikePattern(tt.input); got != tt.want {
			t.Errorf("CreateLikePattern(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestNormalizeLowercaseASCII(t *testing.T) {
	tests := []struct {
		input, want string
	}{
		{"DUPONT", "dupont"},
		{"Élodie", "elodie"},
		{"café", "cafe"},
		{"FRANÇOIS", "francois"},
		{"", ""},
	}
	for _, tt := range tests {
		got := NormalizeLowercaseASCII(tt.input)
		if got != tt.want {
			t.Errorf("NormalizeLowercaseASCII(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestGetNormalizer(t *testing.T) {
	tests := []struct {
		mode  string
		input string
		want  string
	}{
		{"lowercase_ascii", "Élodie", "elodie"},
		{"lowercase_utf8", "Élodie", "élodie"},
		{"none", "Élodie", "Élodie"},
		{"search", "ТЕСТ", "тест"},
		{"", "ТЕСТ", "тест"},                 // default = search
		{"unknown_mode", "Élodie", "élodie"}, // fallback = search
	}
	for _, tt := range tests {
		fn := GetNormalizer(tt.mode)
		got := fn(tt.input)
		if got != tt.want {
			t.Errorf("GetNormalizer(%q)(%q) = %q, want %q", tt.mode, tt.input, got, tt.want)
		}
	}
}
