package common

import (
	"errors"
	"testing"
)

type signupForm struct {
	Username string `form:"username" validate:"required,min=3"`
	Password string `form:"password" validate:"required,min=6"`
	Confirm  string `form:"confirm" validate:"eqfield=Password"`
}

func TestValidate_ReportsFormFieldNames(t *testing.T) {
	err := Validate(signupForm{Username: "al", Password: "secret1", Confirm: "secret2"})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("got %v, want ErrValidation", err)
	}
	var fields FieldErrors
	if !errors.As(err, &fields) {
		t.Fatalf("got %T, want FieldErrors", err)
	}
	if fields["username"] != "validation.min" {
		t.Errorf("username: %q", fields["username"])
	}
	if fields["confirm"] != "validation.eqfield" {
		t.Errorf("confirm: %q", fields["confirm"])
	}
	if _, ok := fields["password"]; ok {
		t.Errorf("password should be valid: %v", fields)
	}
}

func TestValidate_OK(t *testing.T) {
	if err := Validate(signupForm{Username: "alice", Password: "secret1", Confirm: "secret1"}); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}
