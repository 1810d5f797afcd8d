package services

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestServiceError(t *testing.T) {
	err := NewServiceError(CodeInvalidEpsilon, "epsilon must be positive")

	if err.Error() != "epsilon must be positive" {
		t.Errorf("Expected message as error string, got '%s'", err.Error())
	}
	if err.Details != nil {
		t.Errorf("Expected nil details, got %v", err.Details)
	}

	var target *ServiceError
	var wrapped error = err
	if !errors.As(wrapped, &target) || target.Code != CodeInvalidEpsilon {
		t.Errorf("Expected errors.As to find the service error")
	}
}

func TestServiceErrorWithDetails_JSON(t *testing.T) {
	err := NewServiceErrorWithDetails(CodeTooManyPoints, "too many points", map[string]interface{}{
		"points": 10,
		"limit":  5,
	})

	data, mErr := json.Marshal(err)
	if mErr != nil {
		t.Fatalf("Marshal failed: %v", mErr)
	}

	var decoded map[string]interface{}
	if uErr := json.Unmarshal(data, &decoded); uErr != nil {
		t.Fatalf("Unmarshal failed: %v", uErr)
	}
	if decoded["code"] != CodeTooManyPoints {
		t.Errorf("Expected code %s, got %v", CodeTooManyPoints, decoded["code"])
	}
	details, ok := decoded["details"].(map[string]interface{})
	if !ok || details["limit"] != 5.0 {
		t.Errorf("Expected details with limit 5, got %v", decoded["details"])
	}

	plain, _ := json.Marshal(NewServiceError("X", "y"))
	if string(plain) != `{"code":"X","message":"y"}` {
		t.Errorf("Expected details to be omitted, got %s", plain)
	}
}
