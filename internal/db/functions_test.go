package db

import "testing"

func TestCasefold(t *testing.T) {
	database := NewTestDB(t)

	tests := []struct {
		in   any
		want any
	}{
		{"HÖFNER", "höfner"},
		{"Ђорђе", "ђорђе"},
		{"plain", "plain"},
		{nil, nil},
	}
	for _, tt := range tests {
		var got any
		if err := database.QueryRow(`SELECT casefold(?)`, tt.in).Scan(&got); err != nil {
			t.Fatalf("casefold(%v): %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("casefold(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
