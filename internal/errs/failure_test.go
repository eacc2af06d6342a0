package errs

import (
	"errors"
	"strings"
	"testing"
)

func TestInternalHidesCause(t *testing.T) {
	cause := errors.New("dial tcp 10.0.0.3:5432: connection refused")
	err := Internal(cause)

	if err.Error() != "internal error" {
		t.Fatalf("Internal().Error() = %q", err.Error())
	}
	if PublicMessage(err) != "internal error" {
		t.Fatalf("PublicMessage() = %q", PublicMessage(err))
	}
	if !errors.Is(err, cause) {
		t.Fatalf("errors.Is(Internal(cause), cause) = false")
	}
	if KindOf(err) != KindInternal {
		t.Fatalf("KindOf() = %v", KindOf(err))
	}

	var se *StackError
	if !errors.As(err, &se) {
		t.Fatalf("expected stack to be captured")
	}
}

func TestValidationFromKeepsSentinel(t *testing.T) {
	sentinel := errors.New("invalid status")
	err := ValidationFrom(Wrap(sentinel, "parse"))

	if !errors.Is(err, sentinel) {
		t.Fatalf("errors.Is() = false for wrapped sentinel")
	}
	if KindOf(err) != KindValidation {
		t.Fatalf("KindOf() = %v", KindOf(err))
	}
	if !strings.Contains(PublicMessage(err), "invalid status") {
		t.Fatalf("PublicMessage() = %q", PublicMessage(err))
	}
}

func TestKindOfPlainError(t *testing.T) {
	if KindOf(errors.New("boom")) != KindInternal {
		t.Fatalf("plain errors must be treated as internal")
	}
	if PublicMessage(errors.New("secret detail")) != "internal error" {
		t.Fatalf("plain error text must not leak")
	}
	if IsFailure(errors.New("boom")) {
		t.Fatalf("IsFailure(plain) = true")
	}
}

func TestKindsSurviveWrapping(t *testing.T) {
	cases := map[Kind]error{
		KindNotFound:    NotFound("complaint %s not found", "c1"),
		KindForbidden:   Forbidden("no permission"),
		KindRateLimited: RateLimited("daily limit reached"),
		KindConflict:    Conflict("status changed concurrently"),
	}
	for kind, err := range cases {
		wrapped := Wrap(err, "outer")
		if KindOf(wrapped) != kind {
			t.Fatalf("KindOf(%v) = %v, want %v", err, KindOf(wrapped), kind)
		}
	}
}

func TestLoggableIncludesKind(t *testing.T) {
	value := Loggable(NotFound("missing")).LogValue()
	found := false
	for _, attr := range value.Group() {
		if attr.Key == "kind" && attr.Value.String() == "not_found" {
			found = true
		}
	}
	if !found {
		t.Fatalf("Loggable() attrs = %v, want kind=not_found", value.Group())
	}
}

func TestWithStackCapturesOnce(t *testing.T) {
	root := WithStack(errors.New("disk full"))
	wrapped := Wrapf(root, "save complaint %s", "c1")

	if WithStack(wrapped) != wrapped {
		t.Fatalf("WithStack() must not capture a second stack")
	}
	chain := ErrorChainStrings(wrapped)
	if len(chain) != 3 || chain[0] != "save complaint c1: disk full" || chain[2] != "disk full" {
		t.Fatalf("ErrorChainStrings() = %q", chain)
	}
	if Wrap(nil, "noop") != nil || WithStack(nil) != nil {
		t.Fatalf("nil errors must stay nil")
	}
}
