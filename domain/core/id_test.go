package core

import (
	"errors"
	"testing"
)

// TestNewIDUniqueness tests that NewID generates unique identifiers
func TestNewIDUniqueness(t *testing.T) {
	const numIDs = 10000

	ids := make(map[ID]bool, numIDs)
	for i := 0; i < numIDs; i++ {
		id := NewID()
		if id == "" {
			t.Errorf("Generated empty ID at iteration %d", i)
		}
		if ids[id] {
			t.Errorf("Generated duplicate ID: %s", id)
		}
		ids[id] = true
	}

	if len(ids) != numIDs {
		t.Errorf("Expected %d unique IDs, got %d", numIDs, len(ids))
	}
}

func TestParseSessionID(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expectError bool
	}{
		{name: "generated id", input: NewSessionID().String(), expectError: false},
		{name: "padded id", input: "  " + NewSessionID().String() + " ", expectError: false},
		{name: "empty", input: "", expectError: true},
		{name: "not a uuid", input: "../../etc/passwd", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSessionID(tt.input)
			if tt.expectError && err == nil {
				t.Errorf("Expected error for %q, got nil", tt.input)
			}
			if !tt.expectError && err != nil {
				t.Errorf("Unexpected error for %q: %v", tt.input, err)
			}
		})
	}
}

func TestHashDeterministic(t *testing.T) {
	a := NewHash([]byte("nome,prod\nA,soja\n"))
	b := NewHash([]byte("nome,prod\nA,soja\n"))
	if a != b {
		t.Errorf("Expected equal hashes, got %s and %s", a, b)
	}
	if len(a.Short()) != 12 {
		t.Errorf("Expected 12-char short hash, got %q", a.Short())
	}
}

func TestMissingColumnError(t *testing.T) {
	err := error(&MissingColumnError{Columns: []string{"quant", "valor"}})

	if !errors.Is(err, ErrMissingColumn) {
		t.Errorf("Expected errors.Is(err, ErrMissingColumn)")
	}
	cols := MissingColumns(err)
	if len(cols) != 2 || cols[0] != "quant" || cols[1] != "valor" {
		t.Errorf("Unexpected missing columns: %v", cols)
	}
	if got := err.Error(); got != "required column missing: quant, valor" {
		t.Errorf("Unexpected message: %q", got)
	}
}

func TestReadErrorsAreParseFailures(t *testing.T) {
	for _, err := range []error{ErrNoTable, ErrNoHeader, NewParseError("csv", ErrNoHeader)} {
		if !errors.Is(err, ErrParseFailure) {
			t.Errorf("Expected %v to wrap ErrParseFailure", err)
		}
	}
}
