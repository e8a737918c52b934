package version

import (
	"testing"

	kit "mqttreport/internal/platform/testkit"
)

func TestInfo_DefaultsAndString(t *testing.T) {
	b := Info()
	if b.Service != "mqtt-report" || b.Version != "dev" {
		t.Fatalf("Info() = %+v", b)
	}
	kit.MustContain(t, b.String(), "mqtt-report dev (none, unknown)")
}

func TestInfo_Stamped(t *testing.T) {
	kit.Serial(t)
	kit.Swap(t, &version, "v1.2.3")
	kit.Swap(t, &commit, "abcd")
	if got := Info().String(); got != "mqtt-report v1.2.3 (abcd, unknown)" {
		t.Fatalf("String() = %q", got)
	}
}
