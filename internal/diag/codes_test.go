package diag

import "testing"

func TestCodeIdentity(t *testing.T) {
	tests := []struct {
		code Code
		id   string
		name string
	}{
		{LexUnexpectedChar, "LEX1001", "UnexpectedCharacter"},
		{LexUnterminatedString, "LEX1002", "UnterminatedString"},
		{LexUnterminatedInterpolation, "LEX1003", "UnterminatedInterpolation"},
		{SynUnexpectedToken, "SYN2001", "UnexpectedToken"},
		{SynExpectValue, "SYN2002", "ExpectedValue"},
		{SynExpectKey, "SYN2003", "ExpectedKey"},
		{SynDuplicateKey, "SYN2004", "DuplicateKey"},
		{SynUnclosedBlock, "SYN2005", "UnclosedBlock"},
		{SynUnclosedList, "SYN2006", "UnclosedList"},
		{IOLoadFileError, "IO4001", "LoadFileError"},
	}
	for _, tt := range tests {
		if got := tt.code.ID(); got != tt.id {
			t.Errorf("%d: ID %q, want %q", tt.code, got, tt.id)
		}
		if got := tt.code.Name(); got != tt.name {
			t.Errorf("%d: Name %q, want %q", tt.code, got, tt.name)
		}
		if c, ok := ParseCode(tt.id); !ok || c != tt.code {
			t.Errorf("ParseCode(%q) = %d,%v", tt.id, c, ok)
		}
		if c, ok := ParseCode(tt.name); !ok || c != tt.code {
			t.Errorf("ParseCode(%q) = %d,%v", tt.name, c, ok)
		}
	}
	if len(Codes()) != len(tests) {
		t.Errorf("Codes() lists %d codes, want %d", len(Codes()), len(tests))
	}
	if Code(9999).ID() != "E0000" || Code(9999).Name() != "Unknown" {
		t.Error("unknown code fallback broken")
	}
}

func TestSeverity(t *testing.T) {
	if SevError.String() != "ERROR" || SevError.Label() != "error" {
		t.Fatal("severity rendering mismatch")
	}
	if s, ok := ParseSeverity("Warning"); !ok || s != SevWarning {
		t.Fatal("ParseSeverity failed")
	}
	if _, ok := ParseSeverity("fatal"); ok {
		t.Fatal("unknown severity accepted")
	}
}
