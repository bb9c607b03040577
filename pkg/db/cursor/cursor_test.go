package cursor

import "testing"

func TestEncodeDecodeCursor(t *testing.T) {
	codec := New("test-secret-key-123")

	testDate := "2026-01-10T09:00:00Z"
	testID := 123

	encoded := codec.Encode(testDate, testID)

	decodedDate, decodedID, err := codec.Decode(encoded)

	if err != nil {
		t.Fatalf("Failed to decode cursor: %v", err)
	}

	if decodedDate != testDate {
		t.Errorf("Expected date %s, got %s", testDate, decodedDate)
	}

	if decodedID != testID {
		t.Errorf("Expected ID %d, got %d", testID, decodedID)
	}
}

func TestDecodeInvalidCursor(t *testing.T) {
	codec := New("test-secret-key-123")

	// Invalid format
	if _, _, err := codec.Decode("invalid-cursor"); err == nil {
		t.Error("Expected error for invalid cursor format")
	}

	// Invalid signature
	invalidCursor := "eyJkYXRldGltZSI6IjIwMjUtMDktMTJUMTA6Mzc6NTItMDM6MDAifQ==.invalid-signature"

	if _, _, err := codec.Decode(invalidCursor); err == nil {
		t.Error("Expected error for invalid signature")
	}
}

func TestDecodeRejectsOtherSecret(t *testing.T) {
	token := New("secret-a").Encode("2026-01-10T09:00:00Z", 1)

	if _, _, err := New("secret-b").Decode(token); err == nil {
		t.Error("Expected error for token signed with another secret")
	}
}
