package wisp

import "testing"

func TestCompileSuccess(t *testing.T) {
	res := Compile(`var a = 1; puts a;`)
	if !res.Success || res.Function == nil {
		t.Fatalf("expected success, got %+v", res)
	}
	if len(res.Diagnostics) != 0 {
		t.Errorf("expected no diagnostics, got %v", res.Diagnostics)
	}
}

func TestCompileFailureCollectsDiagnostics(t *testing.T) {
	res := Compile(`1 + ;`)
	if res.Success {
		t.Fatal("expected failure")
	}
	if len(res.Diagnostics) == 0 {
		t.Fatal("expected at least one diagnostic")
	}
}

func TestDisassembleRoundTrip(t *testing.T) {
	res := Compile(`puts 1;`)
	if !res.Success {
		t.Fatalf("compile failed: %v", res.Diagnostics)
	}
	out := Disassemble(res.Function, "main")
	if out == "" {
		t.Error("expected non-empty disassembly")
	}
}
