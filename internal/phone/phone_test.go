package phone

import "testing"

func TestValid(t *testing.T) {
	testCases := []struct {
		in   string
		want bool
	}{
		{"+14155551212", true},
		{"14155551212", true},
		{"(415) 555-1212", true},
		{"1234567", true},
		{"123456789012345", true},
		{"123456", false},
		{"1234567890123456", false},
		{"+1415555ab12", false},
		{"", false},
		{"+", false},
	}

	for _, tc := range testCases {
		if got := Valid(tc.in); got != tc.want {
			t.Errorf("Valid(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
