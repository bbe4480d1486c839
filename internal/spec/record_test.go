package spec

import "testing"

func TestClassify(t *testing.T) {
	cases := []struct {
		name      string
		params    int
		hasBody   bool
		responses int
		want      Complexity
	}{
		{"bare GET", 0, false, 1, ComplexityLow},
		{"two params", 2, false, 1, ComplexityLow},
		{"params plus body", 2, true, 1, ComplexityMedium},
		{"body and wide responses", 2, true, 4, ComplexityHigh},
		{"many params", 7, false, 1, ComplexityHigh},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Classify(tc.params, tc.hasBody, tc.responses)
			if got != tc.want {
				t.Errorf("Classify(%d, %v, %d) = %s, want %s",
					tc.params, tc.hasBody, tc.responses, got, tc.want)
			}
		})
	}
}

func TestEstimateResponseTime(t *testing.T) {
	if got := EstimateResponseTime(ComplexityLow, "/users"); got != BucketFast {
		t.Errorf("shallow low-complexity path: got %s, want %s", got, BucketFast)
	}
	if got := EstimateResponseTime(ComplexityLow, "/a/b/c/d/e/f"); got != BucketSlow {
		t.Errorf("deep path overrides complexity: got %s, want %s", got, BucketSlow)
	}
	if got := EstimateResponseTime(ComplexityHigh, "/users"); got != BucketSlow {
		t.Errorf("high complexity: got %s, want %s", got, BucketSlow)
	}
	if got := EstimateResponseTime(ComplexityMedium, "/users/{id}"); got != BucketMedium {
		t.Errorf("medium complexity: got %s, want %s", got, BucketMedium)
	}
}

func TestNormalizeTags(t *testing.T) {
	got := NormalizeTags([]string{"users", " users", "admin", "", "users"})
	if len(got) != 2 || got[0] != "users" || got[1] != "admin" {
		t.Errorf("NormalizeTags = %v, want [users admin]", got)
	}
	if NormalizeTags(nil) != nil {
		t.Error("nil tags should stay nil")
	}
}

func TestTopSegment(t *testing.T) {
	cases := map[string]string{
		"/users/{id}":      "users",
		"/users":           "users",
		"/":                "/",
		"":                 "/",
		"/pets/{id}/photo": "pets",
	}
	for path, want := range cases {
		if got := TopSegment(path); got != want {
			t.Errorf("TopSegment(%q) = %q, want %q", path, got, want)
		}
	}
}

func TestDeriveBusinessContext(t *testing.T) {
	got := DeriveBusinessContext("List Users", "Paginated listing", []string{"Users"})
	want := "list users paginated listing users"
	if got != want {
		t.Errorf("DeriveBusinessContext = %q, want %q", got, want)
	}
}

func TestCopyRecordsIsStructural(t *testing.T) {
	orig := []EndpointRecord{{
		Method:    "GET",
		Path:      "/users",
		Tags:      []string{"users"},
		Responses: map[string]string{"200": "OK"},
		Security:  []string{"apiKey"},
	}}

	cp := CopyRecords(orig)

	cp[0].Tags[0] = "mutated"
	cp[0].Responses["200"] = "mutated"
	cp[0].Security[0] = "mutated"

	if orig[0].Tags[0] != "users" {
		t.Error("copy shares the Tags backing array")
	}
	if orig[0].Responses["200"] != "OK" {
		t.Error("copy shares the Responses map")
	}
	if orig[0].Security[0] != "apiKey" {
		t.Error("copy shares the Security backing array")
	}

	if CopyRecords(nil) != nil {
		t.Error("nil input should stay nil")
	}
}

func TestStatusCodesSorted(t *testing.T) {
	r := EndpointRecord{Responses: map[string]string{"404": "", "200": "", "500": ""}}
	codes := r.StatusCodes()
	if len(codes) != 3 || codes[0] != "200" || codes[1] != "404" || codes[2] != "500" {
		t.Errorf("StatusCodes = %v, want ascending order", codes)
	}
}
