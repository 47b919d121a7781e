package memory

import "testing"

func TestIsValidTableName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected bool
	}{
		{"Default collection", "research_memory", true},
		{"Leading underscore", "_memory", true},
		{"With digits", "memory2024", true},
		{"Single char", "m", true},
		{"Uppercase start", "Memory", false},
		{"Starts with digit", "1memory", false},
		{"Hyphenated", "research-memory", false},
		{"Contains space", "research memory", false},
		{"SQL injection attempt", "memory; DROP TABLE research_sessions", false},
		{"Empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isValidTableName(tt.input); got != tt.expected {
				t.Errorf("isValidTableName(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNewStoreRejectsBadTableName(t *testing.T) {
	if _, err := NewStore(nil, "bad-name"); err == nil {
		t.Error("NewStore should reject invalid table names")
	}
	if _, err := NewStore(nil, "good_name"); err != nil {
		t.Errorf("NewStore rejected valid table name: %v", err)
	}
}
