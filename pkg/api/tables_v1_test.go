package api

import (
	"encoding/json"
	"math"
	"testing"
)

func TestFinite(t *testing.T) {
	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		if Finite(v) != nil {
			t.Fatalf("Finite(%v) should be nil", v)
		}
	}
	if p := Finite(2.5); p == nil || *p != 2.5 {
		t.Fatalf("Finite(2.5) = %v", p)
	}
	if p := Finite(math.MaxFloat64); p == nil {
		t.Fatalf("MaxFloat64 is finite")
	}
}

func TestWeightNullSnapshot(t *testing.T) {
	b, err := json.Marshal(WeightV1{Table: TableWeights, RunNumber: 1, EventNumber: 2, ParticleID: 14, TotalEnergy: 10, Weight: Finite(math.NaN())})
	if err != nil {
		t.Fatal(err)
	}
	const want = `{"table":"weights","run_number":1,"event_number":2,"particle_id":14,"total_energy":10,"weight":null}`
	if string(b) != want {
		t.Fatalf("schema drifted:\n got %s\nwant %s", b, want)
	}
}
