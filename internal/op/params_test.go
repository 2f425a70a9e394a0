package op

import (
	"errors"
	"testing"
)

func TestParseParams(t *testing.T) {
	desc := MustLookup(QuadraticName)

	params, err := desc.ParseParams(map[string]string{"a": "2", "b": "3", "c": "1"})
	if err != nil {
		t.Fatalf("ParseParams failed: %v", err)
	}
	p := params.(*QuadraticParams)
	if p.A != 2 || p.B != 3 || p.C != 1 {
		t.Errorf("params = %+v, want {2 3 1}", p)
	}
}

func TestParseParamsDefaults(t *testing.T) {
	desc := MustLookup(QuadraticName)

	params, err := desc.ParseParams(map[string]string{"b": "-0.5"})
	if err != nil {
		t.Fatalf("ParseParams failed: %v", err)
	}
	p := params.(*QuadraticParams)
	if p.A != 0 || p.B != -0.5 || p.C != 0 {
		t.Errorf("params = %+v, want omitted coefficients defaulted to 0", p)
	}

	params, err = desc.ParseParams(nil)
	if err != nil {
		t.Fatalf("ParseParams(nil) failed: %v", err)
	}
	p = params.(*QuadraticParams)
	if p.A != 0 || p.B != 0 || p.C != 0 {
		t.Errorf("params = %+v, want all zero", p)
	}
}

func TestParseParamsMalformed(t *testing.T) {
	desc := MustLookup(QuadraticName)

	cases := map[string]map[string]string{
		"non-numeric":       {"a": "two"},
		"empty value":       {"b": ""},
		"NaN literal":       {"a": "NaN"},
		"positive infinity": {"c": "+Inf"},
		"negative infinity": {"c": "-Inf"},
		"unknown attribute": {"a": "1", "d": "4"},
	}
	for name, attrs := range cases {
		_, err := desc.ParseParams(attrs)
		var parseErr *ParameterParseError
		if !errors.As(err, &parseErr) {
			t.Errorf("%s: got %v, want *ParameterParseError", name, err)
		}
	}
}

func TestParseParamsScientificNotation(t *testing.T) {
	desc := MustLookup(QuadraticName)

	params, err := desc.ParseParams(map[string]string{"a": "1e-3", "b": "2.5E2"})
	if err != nil {
		t.Fatalf("ParseParams failed: %v", err)
	}
	p := params.(*QuadraticParams)
	if p.A != 0.001 || p.B != 250 {
		t.Errorf("params = %+v, want {0.001 250 0}", p)
	}
}
