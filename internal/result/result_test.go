package result

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestResultExactlyOneVariant(t *testing.T) {
	ok := Ok("payload")
	if !ok.OK() {
		t.Fatal("Ok result must report OK")
	}
	if ok.Err() != nil {
		t.Fatalf("Ok result must carry no error, got %v", ok.Err())
	}
	if ok.Data() != "payload" {
		t.Fatalf("unexpected data: %q", ok.Data())
	}

	fail := Fail[string](Error{Message: "nope"})
	if fail.OK() {
		t.Fatal("Fail result must not report OK")
	}
	if fail.Err() == nil || fail.Err().Message != "nope" {
		t.Fatalf("unexpected error payload: %+v", fail.Err())
	}
	if fail.Data() != "" {
		t.Fatalf("failure data must be the zero value, got %q", fail.Data())
	}
}

func TestZeroResultIsFailure(t *testing.T) {
	var r Result[int]
	if r.OK() {
		t.Fatal("zero result must not report OK")
	}
	if r.Err() == nil {
		t.Fatal("zero result must expose an error payload")
	}
}

func TestFailDefaultsMessage(t *testing.T) {
	r := Fail[int](Error{})
	if r.Err().Message == "" {
		t.Fatal("empty failure message must be defaulted")
	}
}

func TestMarshalJSONShapes(t *testing.T) {
	okJSON, err := json.Marshal(Ok(map[string]int{"n": 1}))
	if err != nil {
		t.Fatalf("marshal ok: %v", err)
	}
	if !strings.Contains(string(okJSON), `"success":true`) || !strings.Contains(string(okJSON), `"data"`) {
		t.Fatalf("unexpected success shape: %s", okJSON)
	}
	if strings.Contains(string(okJSON), `"error"`) {
		t.Fatalf("success envelope must not carry an error key: %s", okJSON)
	}

	failJSON, err := json.Marshal(Failf[int]("bad %s", "input"))
	if err != nil {
		t.Fatalf("marshal fail: %v", err)
	}
	if !strings.Contains(string(failJSON), `"success":false`) || !strings.Contains(string(failJSON), `"bad input"`) {
		t.Fatalf("unexpected failure shape: %s", failJSON)
	}
	if strings.Contains(string(failJSON), `"data"`) {
		t.Fatalf("failure envelope must not carry a data key: %s", failJSON)
	}
}

func TestValidationErrorsSurvive(t *testing.T) {
	r := Fail[int](Error{
		Message:          "validation failed",
		ValidationErrors: map[string]string{"username": "too short"},
	})
	if r.Err().ValidationErrors["username"] != "too short" {
		t.Fatalf("validation errors lost: %+v", r.Err())
	}
}

func TestAvailabilityStrings(t *testing.T) {
	cases := map[Availability]string{
		AvailabilityUnknown:   "unknown",
		AvailabilityTaken:     "taken",
		AvailabilityAvailable: "available",
	}
	for value, want := range cases {
		if got := value.String(); got != want {
			t.Fatalf("Availability(%d).String() = %q, want %q", value, got, want)
		}
	}
	// Out-of-range values degrade to unknown, never to taken.
	if got := Availability(42).String(); got != "unknown" {
		t.Fatalf("out-of-range availability = %q, want unknown", got)
	}
}
