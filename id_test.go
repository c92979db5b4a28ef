package rslock

import "testing"

func TestUniqueValue_Length(t *testing.T) {
	v, err := uniqueValue()
	if err != nil {
		t.Fatalf("uniqueValue: %v", err)
	}
	if len(v) != valueLength {
		t.Fatalf("len(v) = %d, want %d", len(v), valueLength)
	}
}

func TestUniqueValue_Distinct(t *testing.T) {
	a, err := uniqueValue()
	if err != nil {
		t.Fatalf("uniqueValue: %v", err)
	}
	b, err := uniqueValue()
	if err != nil {
		t.Fatalf("uniqueValue: %v", err)
	}

	same := true
	for i := range a {
		if a[i] != b[i] {
			same = false
			break
		}
	}
	if same {
		t.Fatal("two independently generated values were identical")
	}
}

// BenchmarkUniqueValue measures the cost of generating one lock value.
func BenchmarkUniqueValue(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := uniqueValue(); err != nil {
			b.Fatal(err)
		}
	}
}
