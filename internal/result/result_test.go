package result

import (
	"strings"
	"testing"
)

func TestOkCarriesValue(t *testing.T) {
	r := Ok("payload")
	if !r.IsOk() || r.IsErr() {
		t.Fatalf("expected success, got %s", r)
	}
	if r.Value() != "payload" {
		t.Fatalf("unexpected value: %q", r.Value())
	}
	if r.Err() != nil {
		t.Fatalf("success must carry no error")
	}
}

func TestErrCarriesKindAndMessage(t *testing.T) {
	r := Err[string](NotADirectory, "Target is not a directory")
	if r.IsOk() || !r.IsErr() {
		t.Fatalf("expected failure, got %s", r)
	}
	if r.Value() != "" {
		t.Fatalf("failure must carry the zero value, got %q", r.Value())
	}
	err := r.Err()
	if err.Kind != NotADirectory {
		t.Fatalf("unexpected kind: %s", err.Kind)
	}
	if err.Error() != "Target is not a directory" {
		t.Fatalf("unexpected message: %q", err.Error())
	}
}

func TestErrfFormats(t *testing.T) {
	r := Errf[int](CommandFailed, "Command failed with exit code %d: %s", 3, "boom")
	if got := r.Err().Message; got != "Command failed with exit code 3: boom" {
		t.Fatalf("unexpected message: %q", got)
	}
}

func TestFailConvertsPayloadType(t *testing.T) {
	source := Err[string](OutsideWorkspace, "escape")
	converted := Fail[int](source.Err())
	if !converted.IsErr() {
		t.Fatalf("expected failure after conversion")
	}
	if converted.Err() != source.Err() {
		t.Fatalf("conversion must preserve the original error")
	}
}

func TestStringRendering(t *testing.T) {
	if got := Ok(42).String(); got != "Ok(42)" {
		t.Fatalf("unexpected ok rendering: %q", got)
	}
	got := Err[int](InvalidCharacter, "bad path").String()
	if !strings.Contains(got, "invalid_character") || !strings.Contains(got, "bad path") {
		t.Fatalf("unexpected err rendering: %q", got)
	}
}
